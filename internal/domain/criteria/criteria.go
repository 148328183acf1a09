// Package criteria normalizes optional request filters into a canonical
// predicate description.
//
// Every field is either unset (nil) or an equality constraint; the date
// bounds form an inclusive range at minute precision. An unset field
// contributes no clause: records match regardless of whether they carry
// a value for it. Stores receive one criteria value and evaluate it as
// a single conjunctive predicate, in place of one hand-written query
// variant per combination of present filters.
package criteria

import (
	"time"

	"github.com/huwdunnit/snookerup/internal/domain/access"
	"github.com/huwdunnit/snookerup/internal/domain/model"
)

// ScoreCriteria constrains a score listing. Nil fields are
// unconstrained.
type ScoreCriteria struct {
	// From and To bound the score timestamp, both inclusive.
	From *time.Time
	To   *time.Time

	RoutineID    *string
	UserID       *string
	CushionLimit *int
	Colours      *string
	NumBalls     *int
	Loop         *bool
}

// WithScope forces the owner constraint for owner-bound scopes,
// overriding any caller-supplied user id. Ownership can never be
// widened by request parameters.
func (c ScoreCriteria) WithScope(s access.Scope) ScoreCriteria {
	if owner, ok := s.OwnerID(); ok {
		c.UserID = &owner
	}
	return c
}

// Matches evaluates the conjunctive predicate against a score.
func (c ScoreCriteria) Matches(sc model.Score) bool {
	if c.From != nil && sc.DateTime.Before(*c.From) {
		return false
	}
	if c.To != nil && sc.DateTime.After(*c.To) {
		return false
	}
	if c.RoutineID != nil && sc.RoutineID != *c.RoutineID {
		return false
	}
	if c.UserID != nil && sc.UserID != *c.UserID {
		return false
	}
	if c.CushionLimit != nil && (sc.CushionLimit == nil || *sc.CushionLimit != *c.CushionLimit) {
		return false
	}
	if c.Colours != nil && (sc.Colours == nil || *sc.Colours != *c.Colours) {
		return false
	}
	if c.NumBalls != nil && (sc.NumBalls == nil || *sc.NumBalls != *c.NumBalls) {
		return false
	}
	if c.Loop != nil && sc.Loop != *c.Loop {
		return false
	}
	return true
}

// RoutineCriteria constrains a routine listing. An empty tag list is
// unconstrained; a non-empty list matches routines carrying any of the
// supplied tags.
type RoutineCriteria struct {
	Tags []string
}

// Matches reports whether the routine satisfies the tag filter.
func (c RoutineCriteria) Matches(r model.Routine) bool {
	if len(c.Tags) == 0 {
		return true
	}
	for _, tag := range c.Tags {
		if r.HasTag(tag) {
			return true
		}
	}
	return false
}
