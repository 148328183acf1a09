// Package validation checks a submitted score against the allow-lists
// declared on its parent routine.
package validation

import (
	"fmt"
	"slices"

	"github.com/huwdunnit/snookerup/internal/domain/model"
)

// FieldError reports a score field that the parent routine does not
// permit.
type FieldError struct {
	Field string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("field %s on score not allowed with selected routine", e.Field)
}

// CheckScore runs the allow-list stages in order and returns the first
// violation as a *FieldError. Both arguments are value snapshots; a
// missing or empty allow-list on the routine means no value is
// permitted for that field.
func CheckScore(score model.Score, routine model.Routine) error {
	if score.CushionLimit != nil && !slices.Contains(routine.CushionLimits, *score.CushionLimit) {
		return &FieldError{Field: "cushionLimit"}
	}
	if score.Colours != nil && !slices.Contains(routine.Colours, *score.Colours) {
		return &FieldError{Field: "colours"}
	}
	if score.NumBalls != nil && (routine.Balls == nil || !slices.Contains(routine.Balls.Options, *score.NumBalls)) {
		return &FieldError{Field: "numBalls"}
	}
	if score.Loop && !routine.CanLoop {
		return &FieldError{Field: "loop"}
	}
	return nil
}
