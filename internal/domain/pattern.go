package domain

// PatternKind identifies the shape of a detected pattern.
type PatternKind string

const (
	PatternStreak      PatternKind = "streak"
	PatternAlternating PatternKind = "alternating"
	PatternTwoByTwo    PatternKind = "2x2"
)

// Pattern is a single detection over the analysis window. Color and Length
// are only set for streaks.
type Pattern struct {
	Kind        PatternKind `json:"type"`
	Color       Outcome     `json:"color,omitempty"`
	Length      int         `json:"length,omitempty"`
	Description string      `json:"description"`
}

// IsStreak reports whether p is a streak pattern.
func (p Pattern) IsStreak() bool {
	return p.Kind == PatternStreak
}
