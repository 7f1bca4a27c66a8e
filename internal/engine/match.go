package engine

import (
	"strings"

	"github.com/unifisync/unifisync/internal/model"
)

// Comparator reports whether an existing item corresponds to a desired item.
type Comparator func(desired, existing model.Item) bool

// ByName is the default comparator: both items carry a name and the names
// are equal case-insensitively.
func ByName(desired, existing model.Item) bool {
	a, okA := desired.Name()
	b, okB := existing.Name()
	return okA && okB && strings.EqualFold(a, b)
}

// byID matches on the kind's identifier, extracted from both sides.
func byID(idOf func(model.Item) (string, bool)) Comparator {
	return func(desired, existing model.Item) bool {
		a, okA := idOf(desired)
		b, okB := idOf(existing)
		return okA && okB && a == b
	}
}

// match partitions the existing items into those corresponding to the
// desired item. Comparators are tried in priority order — the custom
// comparator first when supplied, then name equality, then id equality — and
// the first comparator yielding a non-empty match set wins. A custom
// comparator that matches nothing still permits falling back.
func (r *Reconciler) match(desired model.Item, existing []model.Item, custom Comparator, idOf func(model.Item) (string, bool)) []model.Item {
	chain := make([]Comparator, 0, 3)
	if custom != nil {
		chain = append(chain, custom)
	}
	chain = append(chain, ByName, byID(idOf))

	for i, compare := range chain {
		var matches []model.Item
		for _, item := range existing {
			if compare(desired, item) {
				matches = append(matches, item)
			}
		}
		if len(matches) > 0 {
			r.rec.Debugf("Got %d match(es) for input item", len(matches))
			return matches
		}
		if i == 0 && custom != nil {
			r.rec.Tracef("No matches, fallback to comparison by name")
		}
	}
	return nil
}
