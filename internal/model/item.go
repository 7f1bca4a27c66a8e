// Package model holds the value types shared by the reconciliation engine,
// the controller client and the resource handlers. Items carry no fixed
// schema; field sets vary by resource kind.
package model

import (
	"github.com/google/go-cmp/cmp"
)

// Item is a schemaless resource instance, either declared by the caller or
// held by the controller. Values are JSON-shaped: strings, float64 numbers,
// booleans, nested map[string]any and []any.
type Item map[string]any

// ID returns the controller-assigned identifier of the item, if present.
func (it Item) ID() (string, bool) {
	id, ok := it["_id"].(string)
	return id, ok && id != ""
}

// Name returns the item's name field, if present.
func (it Item) Name() (string, bool) {
	name, ok := it["name"].(string)
	return name, ok && name != ""
}

// Clone returns a deep, canonicalized copy of the item.
func (it Item) Clone() Item {
	if it == nil {
		return nil
	}
	return Canonical(it).(map[string]any)
}

// Canonical rewrites a value tree into the shape encoding/json produces when
// decoding the controller's responses: integer kinds become float64 and
// nested containers are copied. Declared documents arrive through yaml.v3,
// whose numbers decode as int; without this, a declared vlan 503 would never
// compare equal to the controller's 503.
func Canonical(v any) any {
	switch val := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, elem := range val {
			out[k] = Canonical(elem)
		}
		return out
	case Item:
		out := make(map[string]any, len(val))
		for k, elem := range val {
			out[k] = Canonical(elem)
		}
		return out
	case []any:
		out := make([]any, len(val))
		for i, elem := range val {
			out[i] = Canonical(elem)
		}
		return out
	case int:
		return float64(val)
	case int8:
		return float64(val)
	case int16:
		return float64(val)
	case int32:
		return float64(val)
	case int64:
		return float64(val)
	case uint:
		return float64(val)
	case uint8:
		return float64(val)
	case uint16:
		return float64(val)
	case uint32:
		return float64(val)
	case uint64:
		return float64(val)
	case float32:
		return float64(val)
	default:
		return val
	}
}

// CanonicalItem is Canonical specialized for items.
func CanonicalItem(it Item) Item {
	if it == nil {
		return nil
	}
	return Canonical(it).(map[string]any)
}

// Equal reports whether two field values are equal after canonicalization.
func Equal(a, b any) bool {
	return cmp.Equal(Canonical(a), Canonical(b))
}
