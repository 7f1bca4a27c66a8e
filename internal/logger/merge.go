package logger

import (
	"sort"
)

const displayTimeFormat = "2006-01-02 15:04:05.000000"

// Merge flattens the given entry streams into one chronologically ordered
// stream and renders each entry's display timestamp. The sort is stable:
// entries with identical timestamps keep their input order. Invoked once, at
// the very end of a run, just before the result payload is emitted.
func Merge(streams ...[]Entry) []Entry {
	total := 0
	for _, s := range streams {
		total += len(s)
	}

	merged := make([]Entry, 0, total)
	for _, s := range streams {
		merged = append(merged, s...)
	}

	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].At.Before(merged[j].At)
	})

	for i := range merged {
		merged[i].Time = merged[i].At.Format(displayTimeFormat)
	}
	return merged
}
