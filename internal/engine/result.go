package engine

import (
	"github.com/unifisync/unifisync/internal/logger"
)

// Result is the payload accumulated across one reconciliation run. It is
// created empty at run start, appended to additively, and finalized once at
// run end; the engine never reads it back.
type Result struct {
	RunID   string
	Changed bool

	// Items holds per-kind result lists: server representations for creates
	// and updates, original items for ignores, identifiers for deletes.
	Items map[string][]any

	Failed bool
	Msg    string
	Trace  string
	Logs   []logger.Entry
}

// NewResult creates an empty result payload.
func NewResult() *Result {
	return &Result{Items: make(map[string][]any)}
}

// Append adds entries to a kind's result list.
func (r *Result) Append(kind string, items ...any) {
	r.Items[kind] = append(r.Items[kind], items...)
}

// Finalize merges the given log streams into the result's chronological log
// stream. Call exactly once, just before handing the payload to the caller.
func (r *Result) Finalize(streams ...[]logger.Entry) {
	r.Logs = logger.Merge(streams...)
}

// Payload renders the result as the caller-facing mapping.
func (r *Result) Payload() map[string]any {
	out := map[string]any{"changed": r.Changed}
	if r.RunID != "" {
		out["run_id"] = r.RunID
	}
	for kind, items := range r.Items {
		out[kind] = items
	}
	if r.Failed {
		out["failed"] = true
		out["msg"] = r.Msg
		if r.Trace != "" {
			out["trace"] = r.Trace
		}
	}
	if len(r.Logs) > 0 {
		out["logs"] = r.Logs
	}
	return out
}
