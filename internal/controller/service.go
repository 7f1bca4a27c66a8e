package controller

import (
	"context"

	"github.com/pkg/errors"

	"github.com/unifisync/unifisync/internal/model"
	"github.com/unifisync/unifisync/internal/registry"
	syncerrors "github.com/unifisync/unifisync/pkg/errors"
)

// Resources binds the transport client to the descriptor catalog, exposing
// the per-kind list/set/remove operations the reconciliation engine
// consumes. Responses are unwrapped along each descriptor's envelope path.
type Resources struct {
	client *Client
}

// NewResources creates the resource service for a client.
func NewResources(client *Client) *Resources {
	return &Resources{client: client}
}

// List fetches the full set of existing items for a kind, using the kind's
// read descriptor.
func (s *Resources) List(ctx context.Context, kind, site string) ([]model.Item, error) {
	desc, err := registry.Lookup(kind)
	if err != nil {
		return nil, err
	}
	getter := desc.Getter()

	resp, err := s.client.Do(ctx, requestFor(getter, site, nil, ""))
	if err != nil {
		return nil, err
	}

	payload, err := unwrap(resp.Body, getter.EnvelopePath())
	if err != nil {
		return nil, err
	}
	return itemsOf(payload)
}

// Set creates or updates an item for a kind and returns the server's
// representation of the result. The decision between POST and PUT follows
// the item's _id.
func (s *Resources) Set(ctx context.Context, kind, site string, item model.Item) ([]model.Item, error) {
	desc, err := registry.Lookup(kind)
	if err != nil {
		return nil, err
	}

	resp, err := s.client.Do(ctx, requestFor(desc, site, item, ""))
	if err != nil {
		return nil, err
	}

	payload, err := unwrap(resp.Body, desc.EnvelopePath())
	if err != nil {
		return nil, err
	}
	return itemsOf(payload)
}

// Update writes an item under an explicit identifier, regardless of any _id
// the payload carries.
func (s *Resources) Update(ctx context.Context, kind, site, id string, item model.Item) ([]model.Item, error) {
	desc, err := registry.Lookup(kind)
	if err != nil {
		return nil, err
	}

	resp, err := s.client.Do(ctx, requestFor(desc, site, item, id))
	if err != nil {
		return nil, err
	}

	payload, err := unwrap(resp.Body, desc.EnvelopePath())
	if err != nil {
		return nil, err
	}
	return itemsOf(payload)
}

// Remove deletes the identified item of a kind.
func (s *Resources) Remove(ctx context.Context, kind, site, id string) error {
	desc, err := registry.Lookup(kind)
	if err != nil {
		return err
	}

	_, err = s.client.Do(ctx, requestFor(desc, site, nil, id))
	return err
}

// ExtractID exposes a kind's identifier strategy for the engine's delete
// path.
func (s *Resources) ExtractID(kind string) (registry.IDExtractor, error) {
	desc, err := registry.Lookup(kind)
	if err != nil {
		return nil, err
	}
	return desc.ExtractID, nil
}

func requestFor(desc *registry.Descriptor, site string, data model.Item, id string) Request {
	tmpl := desc.Request
	if tmpl.Site != "" {
		// A descriptor-bound site (e.g. the sites endpoint's "self") wins
		// over the run's site.
		site = tmpl.Site
	}
	return Request{
		Path:       tmpl.Path,
		PathPrefix: tmpl.PathPrefix,
		Proxy:      tmpl.Proxy,
		Site:       site,
		ID:         id,
		Data:       data,
	}
}

// unwrap traverses the response envelope to the payload, failing with a
// structural error when an expected key is absent.
func unwrap(body any, envelope []string) (any, error) {
	current := body
	for _, key := range envelope {
		obj, ok := current.(map[string]any)
		if !ok {
			return nil, syncerrors.NewStructuralError(envelope, key)
		}
		current, ok = obj[key]
		if !ok {
			return nil, syncerrors.NewStructuralError(envelope, key)
		}
	}
	return current, nil
}

// itemsOf converts an unwrapped payload into a flat item list. Single-object
// payloads yield one item.
func itemsOf(payload any) ([]model.Item, error) {
	switch val := payload.(type) {
	case nil:
		return nil, nil
	case []any:
		items := make([]model.Item, 0, len(val))
		for _, elem := range val {
			obj, ok := elem.(map[string]any)
			if !ok {
				return nil, errors.Errorf("unexpected list element of type %T in controller payload", elem)
			}
			items = append(items, model.Item(obj))
		}
		return items, nil
	case map[string]any:
		return []model.Item{model.Item(val)}, nil
	default:
		return nil, errors.Errorf("unexpected controller payload of type %T", payload)
	}
}
