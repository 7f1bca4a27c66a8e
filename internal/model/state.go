package model

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// State expresses the caller's intent for a resource instance.
type State string

const (
	// StatePresent requests that matched items be updated, or a new item
	// created when nothing matches.
	StatePresent State = "present"
	// StateAbsent requests that matched items be deleted.
	StateAbsent State = "absent"
	// StateIgnore lists matched items without touching them.
	StateIgnore State = "ignore"
)

// UnmarshalYAML accepts the spelled-out states plus the aliases true
// (present), false (absent) and null (ignore).
func (s *State) UnmarshalYAML(value *yaml.Node) error {
	switch value.Tag {
	case "!!null":
		*s = StateIgnore
		return nil
	case "!!bool":
		var b bool
		if err := value.Decode(&b); err != nil {
			return err
		}
		if b {
			*s = StatePresent
		} else {
			*s = StateAbsent
		}
		return nil
	}

	var raw string
	if err := value.Decode(&raw); err != nil {
		return err
	}
	switch State(raw) {
	case StatePresent, StateAbsent, StateIgnore:
		*s = State(raw)
		return nil
	case "":
		*s = StateIgnore
		return nil
	}
	return fmt.Errorf("unexpected value for requested state: %q", raw)
}

// Valid reports whether s is one of the three defined states.
func (s State) Valid() bool {
	switch s {
	case StatePresent, StateAbsent, StateIgnore:
		return true
	}
	return false
}
