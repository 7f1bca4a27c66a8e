package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/unifisync/unifisync/internal/model"
	syncerrors "github.com/unifisync/unifisync/pkg/errors"
)

func writeConfig(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "resources.yaml")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))
	return path
}

const validDocument = `version: "1.0.0"
name: branch office
controller:
  url: https://192.168.1.1
  username: admin
  password: secret
  site: branch
  insecure_skip_verify: true
resources:
  - kind: networkconf
    state: present
    networkconf:
      name: Test network
      vlan: 503
      ip_subnet: 172.20.100.1/24
  - kind: wlanconf
    state: true
    wlanconf:
      name: Guest WLAN
      ap_group_ids:
        - All APs
  - kind: setting
    setting:
      country:
        code: DE
      mgmt:
        x_ssh_enabled: false
  - kind: port
    device: branch-switch
    port: 7
    portconf: LAN access
    override:
      name: uplink port
  - kind: portconf
    state: absent
    portconf:
      name: Old trunk
`

func TestParseConfigValidDocument(t *testing.T) {
	t.Parallel()

	cfg, err := ParseConfig(writeConfig(t, validDocument))
	require.NoError(t, err)
	require.NotNil(t, cfg)

	require.Equal(t, "https://192.168.1.1", cfg.Controller.URL)
	require.Equal(t, "branch", cfg.Controller.SiteOrDefault())
	require.True(t, cfg.Controller.InsecureSkipVerify)
	require.Len(t, cfg.Resources, 5)

	network := cfg.Resources[0]
	require.Equal(t, "networkconf", network.Kind)
	require.Equal(t, model.StatePresent, network.State)
	require.Equal(t, "Test network", network.Spec["name"])
	require.Equal(t, 503, network.Spec["vlan"])

	wlan := cfg.Resources[1]
	require.Equal(t, model.StatePresent, wlan.State)
	require.Equal(t, []any{"All APs"}, wlan.Spec["ap_group_ids"])

	setting := cfg.Resources[2]
	require.Equal(t, model.StatePresent, setting.State)
	require.Len(t, setting.Settings, 2)
	require.Equal(t, "DE", setting.Settings["country"]["code"])

	port := cfg.Resources[3]
	require.NotNil(t, port.Port)
	require.Equal(t, "branch-switch", port.Port.Device)
	require.Equal(t, 7, port.Port.Port)
	require.Equal(t, "LAN access", port.Port.Profile)
	require.Equal(t, "uplink port", port.Port.Override["name"])

	profile := cfg.Resources[4]
	require.Equal(t, model.StateAbsent, profile.State)
}

func TestParseConfigDefaultSite(t *testing.T) {
	t.Parallel()

	var ctrl Controller
	require.Equal(t, "default", ctrl.SiteOrDefault())
}

func TestParseConfigStateAliases(t *testing.T) {
	t.Parallel()

	doc := `controller:
  url: https://unifi.example.com
  username: admin
  password: secret
resources:
  - kind: networkconf
    state: null
    networkconf:
      name: watched
  - kind: networkconf
    state: false
    networkconf:
      name: gone
  - kind: networkconf
    networkconf:
      name: defaulted
`
	cfg, err := ParseConfig(writeConfig(t, doc))
	require.NoError(t, err)
	require.Equal(t, model.StateIgnore, cfg.Resources[0].State)
	require.Equal(t, model.StateAbsent, cfg.Resources[1].State)
	require.Equal(t, model.StatePresent, cfg.Resources[2].State)
}

func TestParseConfigRejectsUnknownState(t *testing.T) {
	t.Parallel()

	doc := `controller:
  url: https://unifi.example.com
  username: admin
  password: secret
resources:
  - kind: networkconf
    state: destroyed
    networkconf:
      name: x
`
	_, err := ParseConfig(writeConfig(t, doc))
	require.Error(t, err)
	var parseErr *syncerrors.ParseError
	require.ErrorAs(t, err, &parseErr)
	require.Contains(t, parseErr.Message, "unexpected value for requested state")
}

func TestParseConfigRejectsUnknownKind(t *testing.T) {
	t.Parallel()

	doc := `controller:
  url: https://unifi.example.com
  username: admin
  password: secret
resources:
  - kind: radiusprofile
    radiusprofile:
      name: x
`
	_, err := ParseConfig(writeConfig(t, doc))
	require.Error(t, err)
	var cfgErr *syncerrors.ConfigError
	require.ErrorAs(t, err, &cfgErr)
}

func TestParseConfigRejectsMissingPayload(t *testing.T) {
	t.Parallel()

	doc := `controller:
  url: https://unifi.example.com
  username: admin
  password: secret
resources:
  - kind: networkconf
    state: present
`
	_, err := ParseConfig(writeConfig(t, doc))
	require.Error(t, err)
	var cfgErr *syncerrors.ConfigError
	require.ErrorAs(t, err, &cfgErr)
	require.Contains(t, err.Error(), "networkconf resources need")
}

func TestParseConfigPortRequiresProfileWhenPresent(t *testing.T) {
	t.Parallel()

	doc := `controller:
  url: https://unifi.example.com
  username: admin
  password: secret
resources:
  - kind: port
    device: switch1
    port: 7
`
	_, err := ParseConfig(writeConfig(t, doc))
	require.Error(t, err)
	require.Contains(t, err.Error(), "port profile name is required")

	// Absent assignments need no profile.
	doc = `controller:
  url: https://unifi.example.com
  username: admin
  password: secret
resources:
  - kind: port
    state: absent
    device: switch1
    port: 7
`
	_, err = ParseConfig(writeConfig(t, doc))
	require.NoError(t, err)
}

func TestParseConfigRejectsBadControllerURL(t *testing.T) {
	t.Parallel()

	doc := `controller:
  url: not-a-url
  username: admin
  password: secret
resources:
  - kind: networkconf
    networkconf:
      name: x
`
	_, err := ParseConfig(writeConfig(t, doc))
	require.Error(t, err)
	var cfgErr *syncerrors.ConfigError
	require.ErrorAs(t, err, &cfgErr)
	require.Contains(t, err.Error(), "controller_url")
}

func TestParseConfigMissingFile(t *testing.T) {
	t.Parallel()

	_, err := ParseConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	var parseErr *syncerrors.ParseError
	require.ErrorAs(t, err, &parseErr)
}

func TestParseConfigInvalidYAMLCarriesLine(t *testing.T) {
	t.Parallel()

	_, err := ParseConfig(writeConfig(t, "controller: [unclosed\nresources: {{\n"))
	require.Error(t, err)
	var parseErr *syncerrors.ParseError
	require.ErrorAs(t, err, &parseErr)
}
