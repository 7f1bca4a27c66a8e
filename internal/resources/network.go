package resources

import (
	"context"

	"github.com/unifisync/unifisync/internal/config"
	"github.com/unifisync/unifisync/internal/engine"
	"github.com/unifisync/unifisync/internal/model"
)

type networkHandler struct{}

func init() {
	Register(networkHandler{})
}

func (networkHandler) Kind() string { return "networkconf" }

func (networkHandler) Ensure(ctx context.Context, rt *Runtime, res config.Resource, out *engine.Result) error {
	item := model.CanonicalItem(res.Spec)
	preprocessNetwork(item)

	return rt.Reconciler.Ensure(ctx, engine.EnsureRequest{
		Kind:          "networkconf",
		Site:          rt.Site(res),
		Items:         []model.Desired{model.NewDesired(item)},
		State:         res.State,
		Compare:       compareNetworks,
		PrepareUpdate: prepareNetworkUpdate,
	}, out)
}

// preprocessNetwork applies the declared-item defaults: a declared VLAN
// implies vlan_enabled, and purpose and networkgroup default to the
// controller's own defaults.
func preprocessNetwork(item model.Item) {
	if _, ok := item["vlan"]; ok {
		item["vlan_enabled"] = true
	}
	if _, ok := item["purpose"]; !ok {
		item["purpose"] = "corporate"
	}
	if _, ok := item["networkgroup"]; !ok {
		item["networkgroup"] = "LAN"
	}
}

// compareNetworks matches networks on purpose and VLAN identity before
// falling back to the name. Two networks with VLANs disabled on both sides
// count as matching regardless of the VLAN id.
func compareNetworks(desired, existing model.Item) bool {
	if purposeOf(desired) != purposeOf(existing) {
		return false
	}

	_, hasVlanA := desired["vlan_enabled"]
	_, hasVlanB := existing["vlan_enabled"]
	if hasVlanA != hasVlanB {
		return false
	}

	if hasVlanA && hasVlanB {
		enabledA, _ := desired["vlan_enabled"].(bool)
		enabledB, _ := existing["vlan_enabled"].(bool)
		if !enabledA && !enabledB {
			return true
		}
		return enabledA && enabledB && model.Equal(desired["vlan"], existing["vlan"])
	}

	return engine.ByName(desired, existing)
}

func purposeOf(item model.Item) string {
	if purpose, ok := item["purpose"].(string); ok {
		return purpose
	}
	return "corporate"
}
