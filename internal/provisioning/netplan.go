package provisioning

import (
	"encoding/base64"
	"fmt"
	"strings"
)

const netplanPath = "/etc/netplan/50-cloud-init.yaml"

// PinStaticAddress rewrites the node's netplan so its current address
// survives reboots. Multipass leases addresses over DHCP; without the
// pin a restarted node comes back on a different address and every
// recorded share location goes stale.
func (c *Context) PinStaticAddress(node string) error {
	iface, err := c.detect(node, "network interface",
		"ip route get 1.1.1.1 | awk '{print $5}' | head -n1")
	if err != nil {
		return err
	}
	ipCIDR, err := c.detect(node, "address",
		fmt.Sprintf("ip -o -4 addr show dev %s | awk '{print $4}' | head -n1", iface))
	if err != nil {
		return err
	}
	gateway, err := c.detect(node, "gateway",
		"ip route | awk '/^default/ {print $3; exit}'")
	if err != nil {
		return err
	}

	content := fmt.Sprintf(`network:
  version: 2
  ethernets:
    %s:
      dhcp4: false
      addresses:
        - %s
      routes:
        - to: 0.0.0.0/0
          via: %s
      nameservers:
        addresses:
          - 8.8.8.8
          - 8.8.4.4
`, iface, ipCIDR, gateway)

	// Keep a backup of the cloud-init rendering the first time around.
	backup := fmt.Sprintf("sudo cp -n %s %s.bak 2>/dev/null || true", netplanPath, netplanPath)
	if _, err := c.Exec(node, "sh", "-c", backup); err != nil {
		return fmt.Errorf("backing up netplan on %s: %w", node, err)
	}

	encoded := base64.StdEncoding.EncodeToString([]byte(content))
	write := fmt.Sprintf("echo %s | base64 -d | sudo tee %s >/dev/null", encoded, netplanPath)
	if _, err := c.Exec(node, "sh", "-c", write); err != nil {
		return fmt.Errorf("writing netplan on %s: %w", node, err)
	}

	if _, err := c.Exec(node, "sudo", "netplan", "apply"); err != nil {
		return fmt.Errorf("applying netplan on %s: %w", node, err)
	}
	return nil
}

// detect runs an in-guest probe and returns its trimmed single-line
// output, failing when the probe comes back empty.
func (c *Context) detect(node, what, script string) (string, error) {
	out, err := c.Exec(node, "sh", "-c", script)
	if err != nil {
		return "", fmt.Errorf("detecting %s on %s: %w", what, node, err)
	}
	out = strings.TrimSpace(out)
	if out == "" {
		return "", fmt.Errorf("detecting %s on %s: probe returned nothing", what, node)
	}
	return out, nil
}
