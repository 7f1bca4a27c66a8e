package resources

import (
	"context"
	"fmt"
	"strings"

	"github.com/unifisync/unifisync/internal/config"
	"github.com/unifisync/unifisync/internal/controller"
	"github.com/unifisync/unifisync/internal/engine"
	"github.com/unifisync/unifisync/internal/logger"
	syncerrors "github.com/unifisync/unifisync/pkg/errors"
)

// Runtime bundles the collaborators a handler needs for one run: the
// authenticated transport, the descriptor-bound resource service, the
// reconciler and the run's diagnostic recorder.
type Runtime struct {
	Client     *controller.Client
	API        *controller.Resources
	Rec        *logger.Recorder
	Reconciler *engine.Reconciler

	// DefaultSite applies to resources that do not name a site.
	DefaultSite string
}

// Site resolves the effective site for a resource entry.
func (rt *Runtime) Site(res config.Resource) string {
	if res.Site != "" {
		return res.Site
	}
	if rt.DefaultSite != "" {
		return rt.DefaultSite
	}
	return "default"
}

// SiteID resolves a site's internal identifier by matching the site list on
// the short name first, then the description.
func (rt *Runtime) SiteID(ctx context.Context, site string) (string, error) {
	sites, err := rt.API.List(ctx, "site", site)
	if err != nil {
		return "", err
	}
	for _, s := range sites {
		if name, ok := s.Name(); ok && name == site {
			if id, ok := s.ID(); ok {
				return id, nil
			}
		}
	}
	for _, s := range sites {
		if desc, ok := s["desc"].(string); ok && strings.EqualFold(desc, site) {
			if id, ok := s.ID(); ok {
				return id, nil
			}
		}
	}
	return "", syncerrors.NewDomainError("site",
		fmt.Sprintf("could not determine site %s", site), nil)
}

// Run drives one document through a controller session: login, the declared
// resources in document order, logout. The first failing resource aborts the
// run; its error lands on the result as the failure message, with the full
// error chain attached when diagnostics are enabled.
func Run(ctx context.Context, cfg *config.Config, rt *Runtime) *engine.Result {
	out := engine.NewResult()

	if err := run(ctx, cfg, rt, out); err != nil {
		out.Failed = true
		out.Msg = err.Error()
		if rt.Rec.Enabled() {
			out.Trace = fmt.Sprintf("%+v", err)
		}
	}

	return out
}

func run(ctx context.Context, cfg *config.Config, rt *Runtime, out *engine.Result) error {
	if err := rt.Client.Login(ctx); err != nil {
		return err
	}
	defer func() {
		if err := rt.Client.Logout(ctx); err != nil {
			rt.Rec.Errorf("Logout failed: %v", err)
		}
	}()

	for _, res := range cfg.Resources {
		h, err := Get(res.Kind)
		if err != nil {
			return err
		}
		rt.Rec.Infof("Reconciling %s resource", res.Kind)
		if err := h.Ensure(ctx, rt, res, out); err != nil {
			return err
		}
	}

	return nil
}
