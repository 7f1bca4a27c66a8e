package resources

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/unifisync/unifisync/internal/config"
	"github.com/unifisync/unifisync/internal/engine"
	"github.com/unifisync/unifisync/internal/model"
	syncerrors "github.com/unifisync/unifisync/pkg/errors"
)

type wlanHandler struct{}

func init() {
	Register(wlanHandler{})
}

func (wlanHandler) Kind() string { return "wlanconf" }

func (wlanHandler) Ensure(ctx context.Context, rt *Runtime, res config.Resource, out *engine.Result) error {
	item := model.CanonicalItem(res.Spec)
	if err := resolveAPGroups(ctx, rt, rt.Site(res), item); err != nil {
		return err
	}

	return rt.Reconciler.Ensure(ctx, engine.EnsureRequest{
		Kind:  "wlanconf",
		Site:  rt.Site(res),
		Items: []model.Desired{model.NewDesired(item)},
		State: res.State,
	}, out)
}

var objectIDPattern = regexp.MustCompile(`^[0-9a-f]{24}$`)

// resolveAPGroups rewrites declared AP group names in ap_group_ids to their
// identifiers. Entries already shaped like identifiers pass through.
func resolveAPGroups(ctx context.Context, rt *Runtime, site string, item model.Item) error {
	raw, ok := item["ap_group_ids"].([]any)
	if !ok || len(raw) == 0 {
		return nil
	}

	groups, err := rt.API.List(ctx, "apgroups", site)
	if err != nil {
		return err
	}
	rt.Rec.Debugf("Got %d AP group(s)", len(groups))

	resolved := make([]any, 0, len(raw))
	for _, entry := range raw {
		name, ok := entry.(string)
		if !ok {
			return syncerrors.NewDomainError("wlanconf",
				fmt.Sprintf("unexpected AP group reference %v", entry), nil)
		}
		if objectIDPattern.MatchString(name) {
			resolved = append(resolved, name)
			continue
		}

		id, found := apGroupID(groups, name)
		if !found {
			return syncerrors.NewDomainError("wlanconf",
				fmt.Sprintf("could not find AP group %s", name), nil)
		}
		resolved = append(resolved, id)
	}

	item["ap_group_ids"] = resolved
	return nil
}

func apGroupID(groups []model.Item, name string) (string, bool) {
	for _, group := range groups {
		if groupName, ok := group.Name(); ok && strings.EqualFold(groupName, name) {
			return group.ID()
		}
	}
	return "", false
}
