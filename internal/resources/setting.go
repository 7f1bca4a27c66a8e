package resources

import (
	"context"
	"fmt"
	"sort"

	"github.com/unifisync/unifisync/internal/config"
	"github.com/unifisync/unifisync/internal/engine"
	"github.com/unifisync/unifisync/internal/model"
	kindregistry "github.com/unifisync/unifisync/internal/registry"
	syncerrors "github.com/unifisync/unifisync/pkg/errors"
)

type settingHandler struct{}

func init() {
	Register(settingHandler{})
}

func (settingHandler) Kind() string { return "setting" }

func (settingHandler) Ensure(ctx context.Context, rt *Runtime, res config.Resource, out *engine.Result) error {
	site := rt.Site(res)

	items, err := preprocessSettings(ctx, rt, site, res.Settings)
	if err != nil {
		return err
	}

	desc, err := kindregistry.Lookup("setting")
	if err != nil {
		return err
	}

	return rt.Reconciler.Ensure(ctx, engine.EnsureRequest{
		Kind:      "setting",
		Site:      site,
		Items:     items,
		State:     res.State,
		Compare:   compareSettings,
		ExtractID: desc.ExtractID,
	}, out)
}

// preprocessSettings turns the section-keyed mapping into one item per
// section with the section key injected. The country section's code is
// resolved from the controller's country code catalog. Sections are emitted
// in sorted key order.
func preprocessSettings(ctx context.Context, rt *Runtime, site string, sections map[string]model.Item) ([]model.Desired, error) {
	keys := make([]string, 0, len(sections))
	for key := range sections {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	items := make([]model.Desired, 0, len(keys))
	for _, key := range keys {
		item := model.CanonicalItem(sections[key])
		item["key"] = key

		if key == "country" {
			if err := resolveCountryCode(ctx, rt, site, item); err != nil {
				return nil, err
			}
		}

		items = append(items, model.NewDesired(item))
	}
	return items, nil
}

// resolveCountryCode replaces the declared country code with the
// controller's numeric code for it.
func resolveCountryCode(ctx context.Context, rt *Runtime, site string, item model.Item) error {
	declared, ok := item["code"]
	if !ok {
		return nil
	}

	ccodes, err := rt.API.List(ctx, "ccode", site)
	if err != nil {
		return err
	}

	for _, entry := range ccodes {
		if model.Equal(entry["key"], declared) {
			item["code"] = model.Canonical(entry["code"])
			return nil
		}
	}
	return syncerrors.NewDomainError("setting",
		fmt.Sprintf("no such country code: %v", declared), nil)
}

// compareSettings matches settings on the section key; names never apply
// here.
func compareSettings(desired, existing model.Item) bool {
	keyA, okA := desired["key"].(string)
	keyB, okB := existing["key"].(string)
	return okA && okB && keyA == keyB
}
