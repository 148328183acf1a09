package model

// Routine describes a practice routine. Routines are immutable once
// created; the optional allow-lists bound which fields a score against
// the routine may carry.
type Routine struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Description []string `json:"description,omitempty"`
	Tags        []string `json:"tags,omitempty"`

	// CushionLimits lists the permitted cushion-limit values for scores.
	// Empty or nil means no score may set a cushion limit.
	CushionLimits []int `json:"cushionLimits,omitempty"`

	// Colours lists the permitted colour-ball configurations.
	Colours []string `json:"colours,omitempty"`

	// Balls, when present, lists the permitted ball counts and their unit.
	Balls *Balls `json:"balls,omitempty"`

	Images []string `json:"images,omitempty"`

	// CanLoop reports whether looped attempts of the routine are allowed.
	CanLoop bool `json:"canLoop,omitempty"`
}

// Balls models the permitted ball-count options for a routine. The unit
// distinguishes routines where the varying factor is reds from those
// where it is total balls.
type Balls struct {
	Options []int  `json:"options"`
	Unit    string `json:"unit"`
}

// HasTag reports whether the routine carries tag.
func (r Routine) HasTag(tag string) bool {
	for _, t := range r.Tags {
		if t == tag {
			return true
		}
	}
	return false
}
