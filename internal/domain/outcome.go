package domain

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Outcome is one recorded round result. The zero value means "no outcome"
// and is only used where an outcome is optional (e.g. a missing prediction).
type Outcome uint8

const (
	OutcomeNone Outcome = iota
	OutcomeRed
	OutcomeBlue
	OutcomeTie
)

// Outcomes lists every recordable outcome in display order.
var Outcomes = []Outcome{OutcomeRed, OutcomeBlue, OutcomeTie}

// Code returns the one-letter wire code: C (red), V (blue), E (tie).
func (o Outcome) Code() string {
	switch o {
	case OutcomeRed:
		return "C"
	case OutcomeBlue:
		return "V"
	case OutcomeTie:
		return "E"
	default:
		return ""
	}
}

// Label returns the human-readable name.
func (o Outcome) Label() string {
	switch o {
	case OutcomeRed:
		return "Red"
	case OutcomeBlue:
		return "Blue"
	case OutcomeTie:
		return "Tie"
	default:
		return ""
	}
}

// String implements fmt.Stringer.
func (o Outcome) String() string {
	if l := o.Label(); l != "" {
		return l
	}
	return fmt.Sprintf("Outcome(%d)", uint8(o))
}

// Valid reports whether o is one of the three recordable outcomes.
func (o Outcome) Valid() bool {
	return o == OutcomeRed || o == OutcomeBlue || o == OutcomeTie
}

// IsColor reports whether o is red or blue.
func (o Outcome) IsColor() bool {
	return o == OutcomeRed || o == OutcomeBlue
}

// OtherColor returns the colour opposite to o. Only blue maps to red; red
// and tie both map to blue.
func (o Outcome) OtherColor() Outcome {
	if o == OutcomeBlue {
		return OutcomeRed
	}
	return OutcomeBlue
}

// Background returns the grid cell background colour.
func (o Outcome) Background() string {
	switch o {
	case OutcomeRed:
		return "#ff4d4d"
	case OutcomeBlue:
		return "#4d79ff"
	case OutcomeTie:
		return "#ffeb3b"
	default:
		return "#cccccc"
	}
}

// Foreground returns the grid cell text colour.
func (o Outcome) Foreground() string {
	if o == OutcomeTie {
		return "black"
	}
	return "white"
}

// ParseOutcome accepts a wire code (C, V, E) or a name (red, blue, tie) in
// any case. Anything else yields ErrInvalidOutcome.
func ParseOutcome(s string) (Outcome, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "c", "red", "r":
		return OutcomeRed, nil
	case "v", "blue", "b":
		return OutcomeBlue, nil
	case "e", "tie", "t":
		return OutcomeTie, nil
	default:
		return OutcomeNone, fmt.Errorf("%w: %q", ErrInvalidOutcome, s)
	}
}

// MarshalJSON encodes the wire code, or null for OutcomeNone.
func (o Outcome) MarshalJSON() ([]byte, error) {
	if !o.Valid() {
		return []byte("null"), nil
	}
	return json.Marshal(o.Code())
}

// UnmarshalJSON accepts anything ParseOutcome accepts, and null.
func (o *Outcome) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*o = OutcomeNone
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidOutcome, string(data))
	}
	parsed, err := ParseOutcome(s)
	if err != nil {
		return err
	}
	*o = parsed
	return nil
}
