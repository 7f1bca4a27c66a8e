// Package engine implements the declarative reconciliation core: given
// desired items of one resource kind and the controller's existing items, it
// computes and applies the minimal set of create, update and delete
// operations.
package engine

import (
	"context"

	"github.com/pkg/errors"

	"github.com/unifisync/unifisync/internal/logger"
	"github.com/unifisync/unifisync/internal/model"
)

// API is the narrow controller surface the engine consumes. Exactly one
// kind is touched per Ensure call; the existing-item snapshot is fetched
// once and never refreshed mid-run.
type API interface {
	List(ctx context.Context, kind, site string) ([]model.Item, error)
	Set(ctx context.Context, kind, site string, item model.Item) ([]model.Item, error)
	Remove(ctx context.Context, kind, site, id string) error
}

// UpdateHook may rewrite the desired item once more against the final match,
// e.g. to compute derived fields. It is applied only on the update path,
// never on create or delete.
type UpdateHook func(desired, existing model.Item)

// EnsureRequest carries one reconciliation invocation for a single kind.
type EnsureRequest struct {
	Kind  string
	Site  string
	Items []model.Desired
	State model.State

	// Compare is the optional kind-specific comparator, tried before the
	// name and id comparators.
	Compare Comparator
	// PrepareUpdate is the optional update-path hook.
	PrepareUpdate UpdateHook
	// ExtractID overrides the _id-based identifier extraction for the
	// delete path.
	ExtractID func(model.Item) (string, bool)
}

// Reconciler drives reconciliation runs. Check mode computes the same
// decisions but suppresses every mutating call while still reporting the
// changes that would occur.
type Reconciler struct {
	api   API
	rec   *logger.Recorder
	check bool
}

// New creates a reconciler.
func New(api API, rec *logger.Recorder, check bool) *Reconciler {
	return &Reconciler{api: api, rec: rec, check: check}
}

// CheckMode reports whether mutating calls are suppressed.
func (r *Reconciler) CheckMode() bool {
	return r.check
}

// plan is the partition of existing items computed for one desired item.
// An item never appears in more than one list.
type plan struct {
	ignored []model.Item
	upserts []model.Item
	deletes []string
}

// Ensure reconciles the desired items of one kind against a single snapshot
// of the controller's existing items and applies the resulting operations,
// appending every outcome to out. Desired items are processed independently;
// lookups are never refreshed between them.
func (r *Reconciler) Ensure(ctx context.Context, req EnsureRequest, out *Result) error {
	if !req.State.Valid() {
		return errors.Errorf("got unexpected value for requested state: %q", req.State)
	}

	idOf := req.ExtractID
	if idOf == nil {
		idOf = model.Item.ID
	}

	existing, err := r.api.List(ctx, req.Kind, req.Site)
	if err != nil {
		return errors.Wrapf(err, "list existing %s items", req.Kind)
	}
	r.rec.Debugf("Fetched %d existing %s item(s)", len(existing), req.Kind)

	for _, desired := range req.Items {
		p, err := r.plan(desired, existing, req, idOf)
		if err != nil {
			return err
		}
		if err := r.apply(ctx, req, p, out); err != nil {
			return err
		}
	}
	return nil
}

func (r *Reconciler) plan(desired model.Desired, existing []model.Item, req EnsureRequest, idOf func(model.Item) (string, bool)) (plan, error) {
	var p plan
	matches := r.match(desired.Item, existing, req.Compare, idOf)

	switch req.State {
	case model.StateIgnore:
		p.ignored = matches

	case model.StatePresent:
		if len(matches) == 0 {
			p.upserts = append(p.upserts, desired.Item.Clone())
			break
		}
		for _, match := range matches {
			if r.merge(desired, match, req.PrepareUpdate) {
				p.upserts = append(p.upserts, match)
			}
		}

	case model.StateAbsent:
		for _, match := range matches {
			id, ok := idOf(match)
			if !ok {
				return p, errors.Errorf("matched %s item has no identifier, cannot delete", req.Kind)
			}
			p.deletes = append(p.deletes, id)
		}
	}
	return p, nil
}

// merge overwrites the desired item's fields onto the matched existing item
// and removes every require-absent field found on it. The update hook runs
// first, against the final match. Reports whether the match changed.
func (r *Reconciler) merge(desired model.Desired, existing model.Item, hook UpdateHook) bool {
	if hook != nil {
		hook(desired.Item, existing)
	}
	return mergeInto(desired, existing, r.rec)
}

// MergeItem applies the field-overwrite and require-absent semantics to an
// existing item outside a reconciliation run, e.g. for embedded sub-documents
// such as device port overrides. Reports whether the item changed.
func MergeItem(desired model.Desired, existing model.Item) bool {
	return mergeInto(desired, existing, nil)
}

func mergeInto(desired model.Desired, existing model.Item, rec *logger.Recorder) bool {
	changed := false
	for key, value := range desired.Item {
		current, ok := existing[key]
		if !ok || !model.Equal(current, value) {
			changed = true
			if ok {
				rec.Debugf("Field %s differs on controller: expected %v but got %v", key, value, current)
			} else {
				rec.Debugf("Field %s differs on controller: expected %v but got <missing>", key, value)
			}
			existing[key] = model.Canonical(value)
		}
	}
	for _, key := range desired.RequireAbsent {
		if _, ok := existing[key]; ok {
			changed = true
			rec.Debugf("Field %s exists on controller but it should be absent", key)
			delete(existing, key)
		}
	}
	return changed
}

func (r *Reconciler) apply(ctx context.Context, req EnsureRequest, p plan, out *Result) error {
	for _, item := range p.ignored {
		out.Append(req.Kind, item)
	}

	for _, item := range p.upserts {
		if r.check {
			r.rec.Infof("Check mode: would submit %s item", req.Kind)
			out.Append(req.Kind, item)
			out.Changed = true
			continue
		}
		returned, err := r.api.Set(ctx, req.Kind, req.Site, item)
		if err != nil {
			return err
		}
		for _, ret := range returned {
			out.Append(req.Kind, ret)
		}
		out.Changed = true
	}

	for _, id := range p.deletes {
		if r.check {
			r.rec.Infof("Check mode: would delete %s item %s", req.Kind, id)
			out.Append(req.Kind, id)
			out.Changed = true
			continue
		}
		if err := r.api.Remove(ctx, req.Kind, req.Site, id); err != nil {
			return err
		}
		out.Append(req.Kind, id)
		out.Changed = true
	}
	return nil
}
