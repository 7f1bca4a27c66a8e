package engine

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/unifisync/unifisync/internal/model"
)

func TestByName(t *testing.T) {
	t.Parallel()

	require.True(t, ByName(model.Item{"name": "Guest"}, model.Item{"name": "guest"}))
	require.False(t, ByName(model.Item{"name": "Guest"}, model.Item{"name": "Corp"}))
	require.False(t, ByName(model.Item{}, model.Item{"name": "Corp"}))
	require.False(t, ByName(model.Item{"name": "Guest"}, model.Item{}))
}

func TestMatchCustomComparatorWins(t *testing.T) {
	t.Parallel()

	r := New(&fakeAPI{}, nil, false)
	existing := []model.Item{
		{"_id": "a1", "name": "other", "vlan": float64(110)},
		{"_id": "a2", "name": "desired name", "vlan": float64(20)},
	}

	byVlan := func(a, b model.Item) bool {
		return model.Equal(a["vlan"], b["vlan"])
	}

	matches := r.match(model.Item{"name": "desired name", "vlan": 110}, existing, byVlan, model.Item.ID)
	require.Len(t, matches, 1)
	require.Equal(t, "other", matches[0]["name"])
}

func TestMatchFallsBackToNameWhenCustomMisses(t *testing.T) {
	t.Parallel()

	r := New(&fakeAPI{}, nil, false)
	existing := []model.Item{
		{"_id": "a1", "name": "Guest"},
	}

	never := func(a, b model.Item) bool { return false }

	matches := r.match(model.Item{"name": "guest"}, existing, never, model.Item.ID)
	require.Len(t, matches, 1)
	require.Equal(t, "a1", matches[0]["_id"])
}

func TestMatchFallsBackToID(t *testing.T) {
	t.Parallel()

	r := New(&fakeAPI{}, nil, false)
	existing := []model.Item{
		{"_id": "a1"},
		{"_id": "a2"},
	}

	matches := r.match(model.Item{"_id": "a2"}, existing, nil, model.Item.ID)
	require.Len(t, matches, 1)
	require.Equal(t, "a2", matches[0]["_id"])
}

func TestMatchNothing(t *testing.T) {
	t.Parallel()

	r := New(&fakeAPI{}, nil, false)
	existing := []model.Item{{"_id": "a1", "name": "LAN"}}

	require.Empty(t, r.match(model.Item{"name": "DMZ"}, existing, nil, model.Item.ID))
	require.Empty(t, r.match(model.Item{"name": "DMZ"}, nil, nil, model.Item.ID))
}

func TestResultPayload(t *testing.T) {
	t.Parallel()

	out := NewResult()
	out.RunID = "run-1"
	out.Changed = true
	out.Append("networkconf", model.Item{"name": "LAN"})

	payload := out.Payload()
	require.Equal(t, true, payload["changed"])
	require.Equal(t, "run-1", payload["run_id"])
	require.Len(t, payload["networkconf"], 1)
	_, hasFailed := payload["failed"]
	require.False(t, hasFailed)

	out.Failed = true
	out.Msg = "boom"
	out.Trace = "trace"
	payload = out.Payload()
	require.Equal(t, true, payload["failed"])
	require.Equal(t, "boom", payload["msg"])
	require.Equal(t, "trace", payload["trace"])
}
