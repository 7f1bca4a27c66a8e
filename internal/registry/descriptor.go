// Package registry is the static catalog mapping logical resource kinds to
// the request templates and extraction strategies their controller endpoints
// need. The catalog is populated at init and read-only thereafter; it
// performs no network I/O.
package registry

import (
	"github.com/unifisync/unifisync/internal/model"
)

// RequestTemplate describes how a kind's endpoint is addressed. Zero values
// fall back to the transport defaults (path prefix "/api/s/", site
// "default", no proxy segment).
type RequestTemplate struct {
	Path       string
	PathPrefix string
	Proxy      string
	Site       string
}

// IDExtractor pulls a kind-specific identifier out of an item.
type IDExtractor func(model.Item) (string, bool)

// Descriptor is the immutable per-kind record: request template, identifier
// extraction strategy, the envelope path under which responses carry their
// payload, and an optional distinct descriptor serving read operations.
type Descriptor struct {
	ParamName string
	Request   RequestTemplate

	idOf   IDExtractor
	getter *Descriptor

	// resultPath is nil for the default ["data"] envelope; an empty non-nil
	// slice means the response body itself is the payload.
	resultPath []string
}

// ExtractID applies the kind's identifier strategy, defaulting to the _id
// field.
func (d *Descriptor) ExtractID(it model.Item) (string, bool) {
	if d.idOf != nil {
		return d.idOf(it)
	}
	return it.ID()
}

// Getter returns the descriptor serving read operations, which is the
// descriptor itself unless the kind addresses distinct GET and SET endpoints.
func (d *Descriptor) Getter() *Descriptor {
	if d.getter != nil {
		return d.getter
	}
	return d
}

// EnvelopePath returns the keys to traverse from the response body to the
// payload.
func (d *Descriptor) EnvelopePath() []string {
	if d.resultPath == nil {
		return []string{"data"}
	}
	return d.resultPath
}
