// Package share exports the cluster filesystem over SMB from the
// primary node and optionally verifies it from a client machine.
package share

import (
	"fmt"
	"strings"

	"github.com/cephup/cephup/internal/provisioning"
	"github.com/cephup/cephup/internal/util/retry"
)

const phase = "share"

// Exporter publishes the mounted filesystem as a password-protected
// network share on the primary.
type Exporter struct{}

// NewExporter creates a new share exporter.
func NewExporter() *Exporter {
	return &Exporter{}
}

// Name implements the provisioning.Phase interface.
func (e *Exporter) Name() string {
	return phase
}

// Provision configures the Samba export on the primary and, when the
// request asks for one, launches a client machine that mounts the share
// over CIFS. The export must succeed; a client mount failure degrades
// the deploy instead of failing it.
func (e *Exporter) Provision(ctx *provisioning.Context) error {
	ctx.State.SetStatus(provisioning.StatusExporting)
	primary := ctx.State.Primary()

	if err := e.exportPrimary(ctx, primary.Name); err != nil {
		return err
	}

	ctx.State.SetNodeState(primary.Name, provisioning.StateConfigured)
	provisioning.LogNodeState(ctx.Observer, phase, primary.Name, provisioning.StateConfigured)
	ctx.State.RecordExport(primary.Address, ctx.Creds)

	if ctx.Request().WithClient {
		if err := e.attachClient(ctx, primary.Address); err != nil {
			ctx.Observer.Printf("[%s] warning: client mount degraded: %v", phase, err)
		}
	}
	return nil
}

func (e *Exporter) exportPrimary(ctx *provisioning.Context, name string) error {
	fail := func(err error) error {
		return provisioning.E(provisioning.KindExportFailed, name, err)
	}

	// The export serves the fuse mount; without it there is nothing to
	// share.
	mounted, err := ctx.ExecOK(name, "sh", "-c", "mount | grep -q "+ctx.Creds.MountPoint)
	if err != nil {
		return fail(err)
	}
	if !mounted {
		return fail(fmt.Errorf("%s is not mounted on the primary", ctx.Creds.MountPoint))
	}

	installed, err := ctx.ExecOK(name, "dpkg", "-s", "samba")
	if err != nil {
		return fail(err)
	}
	if !installed {
		err := retry.Do(ctx, func() error {
			_, execErr := ctx.Exec(name, "sudo", "env", "DEBIAN_FRONTEND=noninteractive",
				"apt-get", "install", "-y", "samba")
			return execErr
		},
			retry.WithMaxAttempts(ctx.Timeouts.RetryMaxAttempts),
			retry.WithDelay(ctx.Timeouts.RetryDelay))
		if err != nil {
			return fail(fmt.Errorf("installing samba: %w", err))
		}
	} else {
		provisioning.LogResourceExists(ctx.Observer, phase, "samba on "+name)
	}

	if err := e.ensureShareUser(ctx, name); err != nil {
		return fail(err)
	}

	if err := e.ensureShareConfig(ctx, name); err != nil {
		return fail(err)
	}

	if _, err := ctx.Exec(name, "sudo", "systemctl", "restart", "smbd"); err != nil {
		return fail(fmt.Errorf("restarting smbd: %w", err))
	}

	ctx.Observer.Printf("[%s] share %s exported from %s", phase, ctx.Creds.ShareName, name)
	return nil
}

// ensureShareUser creates the share's system user and sets its SMB
// password. The password call is repeated on every run so credential
// changes in the request take effect.
func (e *Exporter) ensureShareUser(ctx *provisioning.Context, name string) error {
	user := ctx.Creds.Username

	exists, err := ctx.ExecOK(name, "id", user)
	if err != nil {
		return err
	}
	if exists {
		provisioning.LogResourceExists(ctx.Observer, phase, "user "+user)
	} else if _, err := ctx.Exec(name, "sudo", "adduser", "--disabled-password", "--gecos", "", user); err != nil {
		return fmt.Errorf("creating user %s: %w", user, err)
	}

	setPass := fmt.Sprintf("printf '%%s\\n%%s\\n' %q %q | sudo smbpasswd -s -a %s",
		ctx.Creds.Password, ctx.Creds.Password, user)
	if _, err := ctx.Exec(name, "sh", "-c", setPass); err != nil {
		return fmt.Errorf("setting share password: %w", err)
	}

	if _, err := ctx.Exec(name, "sudo", "chown", "-R", user+":"+user, ctx.Creds.MountPoint); err != nil {
		return fmt.Errorf("granting %s the mount: %w", user, err)
	}
	return nil
}

// ensureShareConfig appends the share stanza to smb.conf unless the
// section header is already present.
func (e *Exporter) ensureShareConfig(ctx *provisioning.Context, name string) error {
	header := "[" + ctx.Creds.ShareName + "]"

	present, err := ctx.ExecOK(name, "grep", "-Fxq", header, "/etc/samba/smb.conf")
	if err != nil {
		return err
	}
	if present {
		provisioning.LogResourceExists(ctx.Observer, phase, "smb.conf section "+header)
		return nil
	}

	stanza := strings.Join([]string{
		"",
		header,
		"   path = " + ctx.Creds.MountPoint,
		"   browseable = yes",
		"   read only = no",
		"   valid users = " + ctx.Creds.Username,
		"   create mask = 0755",
		"   directory mask = 0755",
		"",
	}, "\n")

	appendCmd := fmt.Sprintf("printf '%%s\\n' %q | sudo tee -a /etc/samba/smb.conf", stanza)
	if _, err := ctx.Exec(name, "sh", "-c", appendCmd); err != nil {
		return fmt.Errorf("writing smb.conf section: %w", err)
	}
	return nil
}
