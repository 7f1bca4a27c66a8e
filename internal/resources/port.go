package resources

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/unifisync/unifisync/internal/config"
	"github.com/unifisync/unifisync/internal/engine"
	"github.com/unifisync/unifisync/internal/model"
	syncerrors "github.com/unifisync/unifisync/pkg/errors"
)

// overrideDefaults are the per-port override fields the controller keeps
// sticky; any of them not declared must be removed from an existing override
// so the port falls back to the profile's behavior.
var overrideDefaults = []string{"name", "autoneg", "full_duplex", "poe_mode", "speed"}

type portHandler struct{}

func init() {
	Register(portHandler{})
}

func (portHandler) Kind() string { return "port" }

// Ensure edits one entry of the device's port override list in place and
// submits the whole list back to the controller when it changed. Ports are
// embedded in their device document; they are never reconciled as
// standalone items.
func (portHandler) Ensure(ctx context.Context, rt *Runtime, res config.Resource, out *engine.Result) error {
	site := rt.Site(res)
	spec := res.Port

	device, err := findDevice(ctx, rt, site, spec.Device)
	if err != nil {
		return err
	}
	portIdx, err := portIndex(device, spec.Port)
	if err != nil {
		return err
	}

	desired, err := buildOverride(ctx, rt, site, spec, portIdx)
	if err != nil {
		return err
	}

	overrides, _ := device["port_overrides"].([]any)
	kept, changed := editOverrides(overrides, desired, res.State)

	if changed {
		out.Changed = true
		if rt.Reconciler.CheckMode() {
			rt.Rec.Infof("Check mode: would update port overrides on device %s", spec.Device)
		} else {
			id, ok := device.ID()
			if !ok {
				return syncerrors.NewDomainError("port",
					fmt.Sprintf("device %s has no identifier", spec.Device), nil)
			}
			if _, err := rt.API.Update(ctx, "device", site, id, model.Item{
				"port_overrides": kept,
			}); err != nil {
				return err
			}
		}
	}

	out.Append("port", kept...)
	return nil
}

// findDevice matches the device list on the name first, then the MAC
// address.
func findDevice(ctx context.Context, rt *Runtime, site, ref string) (model.Item, error) {
	devices, err := rt.API.List(ctx, "device", site)
	if err != nil {
		return nil, err
	}

	for _, device := range devices {
		if name, ok := device.Name(); ok && name == ref {
			return device, nil
		}
	}
	for _, device := range devices {
		if mac, ok := device["mac"].(string); ok && strings.EqualFold(mac, ref) {
			return device, nil
		}
	}
	return nil, syncerrors.NewDomainError("port",
		fmt.Sprintf("could not find device %s", ref), nil)
}

// portIndex resolves a port selection against the device's port table:
// numeric selections address the port index, everything else the port name.
func portIndex(device model.Item, port any) (int, error) {
	idx, name, err := portSelector(port)
	if err != nil {
		return 0, err
	}

	table, _ := device["port_table"].([]any)
	for _, entry := range table {
		devicePort, ok := entry.(map[string]any)
		if !ok {
			continue
		}
		if idx != nil && model.Equal(devicePort["port_idx"], *idx) {
			return *idx, nil
		}
		if name != "" && devicePort["name"] == name {
			if value, ok := model.Canonical(devicePort["port_idx"]).(float64); ok {
				return int(value), nil
			}
		}
	}
	return 0, syncerrors.NewDomainError("port",
		fmt.Sprintf("could not find port %v on device", port), nil)
}

func portSelector(port any) (*int, string, error) {
	switch value := port.(type) {
	case int:
		return &value, "", nil
	case float64:
		idx := int(value)
		return &idx, "", nil
	case string:
		if idx, err := strconv.Atoi(value); err == nil {
			return &idx, "", nil
		}
		return nil, value, nil
	default:
		return nil, "", syncerrors.NewDomainError("port",
			fmt.Sprintf("unexpected port selection %v", port), nil)
	}
}

// buildOverride assembles the desired override entry: the declared override
// fields, the resolved profile id and the port index, with the undeclared
// sticky fields required absent.
func buildOverride(ctx context.Context, rt *Runtime, site string, spec *config.PortSpec, portIdx int) (model.Desired, error) {
	item := model.CanonicalItem(spec.Override)
	if item == nil {
		item = model.Item{}
	}
	item["port_idx"] = model.Canonical(portIdx)

	if spec.Profile != "" {
		profiles, err := rt.API.List(ctx, "portconf", site)
		if err != nil {
			return model.Desired{}, err
		}
		id, found := profileID(profiles, spec.Profile)
		if !found {
			return model.Desired{}, syncerrors.NewDomainError("port",
				fmt.Sprintf("could not find portconf %s", spec.Profile), nil)
		}
		item["portconf_id"] = id
	}

	desired := model.NewDesired(item)
	for _, key := range overrideDefaults {
		if _, ok := item[key]; !ok {
			desired.MarkAbsent(key)
		}
	}
	return desired, nil
}

func profileID(profiles []model.Item, name string) (string, bool) {
	for _, profile := range profiles {
		if profileName, ok := profile.Name(); ok && strings.EqualFold(profileName, name) {
			return profile.ID()
		}
	}
	return "", false
}

// editOverrides applies the desired entry to the override list: merge into
// the matching entry for present, drop it for absent, append for present
// without a match. Reports the resulting list and whether it changed.
func editOverrides(overrides []any, desired model.Desired, state model.State) ([]any, bool) {
	changed := false
	found := false

	kept := make([]any, 0, len(overrides)+1)
	for _, entry := range overrides {
		override, ok := entry.(map[string]any)
		if !ok || !model.Equal(override["port_idx"], desired.Item["port_idx"]) {
			kept = append(kept, entry)
			continue
		}

		found = true
		switch state {
		case model.StatePresent:
			if engine.MergeItem(desired, model.Item(override)) {
				changed = true
			}
			kept = append(kept, entry)
		case model.StateAbsent:
			changed = true
		default:
			kept = append(kept, entry)
		}
	}

	if state == model.StatePresent && !found {
		kept = append(kept, map[string]any(desired.Item.Clone()))
		changed = true
	}

	return kept, changed
}
