package model

// Desired pairs a declared item with the names of fields that must be
// actively removed from a matched existing item during update. The field set
// travels beside the item, never inside it, so the item can be sent to the
// controller verbatim.
type Desired struct {
	Item          Item
	RequireAbsent []string
}

// NewDesired wraps an item with an empty require-absent set.
func NewDesired(item Item) Desired {
	return Desired{Item: item}
}

// MarkAbsent records fields that may not occur on the matched existing item.
func (d *Desired) MarkAbsent(fields ...string) {
	d.RequireAbsent = append(d.RequireAbsent, fields...)
}
