package handlers

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/cephup/cephup/internal/provisioning"
)

// accessFilePath is where deploy records how to reach the share.
const accessFilePath = "cephup-access.yaml"

// accessNode is one node entry in the access file.
type accessNode struct {
	Name    string `yaml:"name"`
	Role    string `yaml:"role"`
	State   string `yaml:"state"`
	Address string `yaml:"address,omitempty"`
}

// accessFile is the on-disk record of a deployed share: the UNC path a
// Windows-style client pastes in, the credentials and the topology.
type accessFile struct {
	Share          string       `yaml:"share"`
	UNCPath        string       `yaml:"unc_path"`
	Username       string       `yaml:"username"`
	Password       string       `yaml:"password"`
	PrimaryAddress string       `yaml:"primary_address"`
	MountPoint     string       `yaml:"mount_point"`
	ClientMount    string       `yaml:"client_mount,omitempty"`
	Nodes          []accessNode `yaml:"nodes"`
}

// uncPath renders the share's Windows-style endpoint.
func uncPath(address, share string) string {
	return fmt.Sprintf(`\\%s\%s`, address, share)
}

func writeAccessFile(pctx *provisioning.Context, path string) error {
	doc := accessFile{
		Share:          pctx.State.Credentials.ShareName,
		UNCPath:        uncPath(pctx.State.PrimaryAddress, pctx.State.Credentials.ShareName),
		Username:       pctx.State.Credentials.Username,
		Password:       pctx.State.Credentials.Password,
		PrimaryAddress: pctx.State.PrimaryAddress,
		MountPoint:     pctx.State.Credentials.MountPoint,
		ClientMount:    pctx.State.ClientMount,
	}
	for _, n := range pctx.State.Nodes() {
		doc.Nodes = append(doc.Nodes, accessNode{
			Name:    n.Name,
			Role:    string(n.Role),
			State:   string(n.State),
			Address: n.Address,
		})
	}

	data, err := yaml.Marshal(doc)
	if err != nil {
		return err
	}
	return writeFile(path, data, 0o600)
}
