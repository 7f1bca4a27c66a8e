// Package resources hosts the per-kind handlers that turn declared resource
// entries into reconciliation runs, plus the runner that drives one document
// through a controller session.
package resources

import (
	"context"
	"sort"
	"sync"

	"github.com/unifisync/unifisync/internal/config"
	"github.com/unifisync/unifisync/internal/engine"
	syncerrors "github.com/unifisync/unifisync/pkg/errors"
)

// Handler reconciles one declared resource entry of its kind.
type Handler interface {
	Kind() string
	Ensure(ctx context.Context, rt *Runtime, res config.Resource, out *engine.Result) error
}

var (
	registryMu sync.RWMutex
	registry   = make(map[string]Handler)
)

// Register adds a handler for its kind. Handlers register themselves from
// init; a duplicate kind is a programming error.
func Register(h Handler) {
	registryMu.Lock()
	defer registryMu.Unlock()

	kind := h.Kind()
	if _, exists := registry[kind]; exists {
		panic("resources: handler already registered for kind " + kind)
	}
	registry[kind] = h
}

// Get retrieves the handler for a kind.
func Get(kind string) (Handler, error) {
	registryMu.RLock()
	defer registryMu.RUnlock()

	h, ok := registry[kind]
	if !ok {
		return nil, syncerrors.NewConfigError(kind, "no handler registered for resource kind", nil)
	}
	return h, nil
}

// Kinds lists the registered handler kinds in sorted order.
func Kinds() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()

	kinds := make([]string, 0, len(registry))
	for kind := range registry {
		kinds = append(kinds, kind)
	}
	sort.Strings(kinds)
	return kinds
}
