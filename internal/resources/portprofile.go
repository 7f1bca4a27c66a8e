package resources

import (
	"context"
	"fmt"

	"github.com/unifisync/unifisync/internal/config"
	"github.com/unifisync/unifisync/internal/engine"
	"github.com/unifisync/unifisync/internal/model"
	syncerrors "github.com/unifisync/unifisync/pkg/errors"
)

type portProfileHandler struct{}

func init() {
	Register(portProfileHandler{})
}

func (portProfileHandler) Kind() string { return "portconf" }

func (portProfileHandler) Ensure(ctx context.Context, rt *Runtime, res config.Resource, out *engine.Result) error {
	site := rt.Site(res)
	item := model.CanonicalItem(res.Spec)

	desired, err := preprocessPortProfile(ctx, rt, site, item)
	if err != nil {
		return err
	}

	return rt.Reconciler.Ensure(ctx, engine.EnsureRequest{
		Kind:  "portconf",
		Site:  site,
		Items: []model.Desired{desired},
		State: res.State,
	}, out)
}

// preprocessPortProfile resolves the declared native and tagged network
// references into identifiers and derives the profile's forwarding mode from
// them: disabled without any networks, native with only a native network,
// all for the tagged-all shorthand, customize for an explicit tagged list.
func preprocessPortProfile(ctx context.Context, rt *Runtime, site string, item model.Item) (model.Desired, error) {
	desired := model.NewDesired(item)

	siteID, err := rt.SiteID(ctx, site)
	if err != nil {
		return desired, err
	}
	item["site_id"] = siteID

	networks, err := rt.API.List(ctx, "networkconf", site)
	if err != nil {
		return desired, err
	}

	item["forward"] = "disabled"

	native := item["native_networkconf"]
	delete(item, "native_networkconf")
	if native != nil {
		nativeID, found := networkID(networks, native)
		if !found {
			return desired, syncerrors.NewDomainError("portconf",
				fmt.Sprintf("could not determine native network for port profile %v", item["name"]), nil)
		}
		item["native_networkconf_id"] = nativeID
		item["forward"] = "native"
	} else {
		item["native_networkconf_id"] = ""
	}

	tagged := item["tagged_networkconfs"]
	delete(item, "tagged_networkconfs")
	switch refs := tagged.(type) {
	case nil:
		item["tagged_networkconf_ids"] = []any{}
	case string:
		if refs != "all" {
			return desired, syncerrors.NewDomainError("portconf",
				fmt.Sprintf("unexpected tagged network selection %q", refs), nil)
		}
		// The controller models the all-tagged trunk purely through the
		// forwarding mode, without an explicit id list.
		item["forward"] = "all"
	case []any:
		nativeID, _ := item["native_networkconf_id"].(string)
		ids := make([]any, 0, len(refs))
		for _, ref := range refs {
			id, found := networkID(networks, ref)
			if !found {
				return desired, syncerrors.NewDomainError("portconf",
					fmt.Sprintf("could not determine all tagged networks for port profile %v", item["name"]), nil)
			}
			if id == nativeID {
				continue
			}
			ids = append(ids, id)
		}
		item["tagged_networkconf_ids"] = ids
		item["forward"] = "customize"
	default:
		return desired, syncerrors.NewDomainError("portconf",
			fmt.Sprintf("unexpected tagged network selection %v", tagged), nil)
	}

	if _, ok := item["poe_mode"]; !ok {
		desired.MarkAbsent("poe_mode")
	}

	return desired, nil
}

// networkID resolves a corporate network reference, by name for string
// references and by VLAN id otherwise.
func networkID(networks []model.Item, ref any) (string, bool) {
	for _, network := range networks {
		if purposeOf(network) != "corporate" {
			continue
		}
		switch want := ref.(type) {
		case string:
			if name, ok := network.Name(); ok && name == want {
				return network.ID()
			}
		default:
			vlan, ok := network["vlan"]
			if ok && (model.Equal(vlan, ref) || fmt.Sprint(vlan) == fmt.Sprint(model.Canonical(want))) {
				return network.ID()
			}
		}
	}
	return "", false
}
