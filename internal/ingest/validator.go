package ingest

import (
	"github.com/Schnee09/BHEDU-sub006/internal/model"
	apperrors "github.com/Schnee09/BHEDU-sub006/pkg/errors"
)

// componentScaleMax is the upper bound of the Vietnamese 0-10 grade scale.
const componentScaleMax = 10

// Validator bounds-checks raw scores against their declared scale and
// rejects malformed target references. A nil score always passes: ungraded
// is a legal, common state while grading is in progress.
type Validator struct{}

func NewValidator() *Validator {
	return &Validator{}
}

func (v *Validator) ValidateComponentWrite(w model.ComponentWrite) error {
	if w.StudentID == "" {
		return apperrors.ValidationError{Field: "student_id", Value: w.StudentID, Message: "must not be empty"}
	}
	if w.SubjectID == "" {
		return apperrors.ValidationError{Field: "subject_id", Value: w.SubjectID, Message: "must not be empty"}
	}
	if w.ClassID == "" {
		return apperrors.ValidationError{Field: "class_id", Value: w.ClassID, Message: "must not be empty"}
	}
	if !w.Semester.Valid() {
		return apperrors.ValidationError{Field: "semester", Value: w.Semester, Message: "must be 1, 2 or year"}
	}
	if !w.Component.Valid() {
		return apperrors.ValidationError{Field: "component_type", Value: w.Component, Message: "unknown component type"}
	}
	return v.validateComponentScore(w.Score)
}

func (v *Validator) validateComponentScore(score *float64) error {
	if score == nil {
		return nil
	}
	if *score < 0 || *score > componentScaleMax {
		return apperrors.ValidationError{
			Field:   "score",
			Value:   *score,
			Message: "must be between 0 and 10",
		}
	}
	return nil
}

func (v *Validator) ValidateAssignmentWrite(w model.AssignmentWrite) error {
	if w.AssignmentID == "" {
		return apperrors.ValidationError{Field: "assignment_id", Value: w.AssignmentID, Message: "must not be empty"}
	}
	if w.StudentID == "" {
		return apperrors.ValidationError{Field: "student_id", Value: w.StudentID, Message: "must not be empty"}
	}
	return nil
}

// ValidatePoints checks an assignment score against the assignment's own
// scale; it needs the target loaded first, so it runs separately from the
// shape checks above.
func (v *Validator) ValidatePoints(points *float64, maxPoints float64) error {
	if points == nil {
		return nil
	}
	if *points < 0 || *points > maxPoints {
		return apperrors.ValidationError{
			Field:   "points_earned",
			Value:   *points,
			Message: "must be between 0 and max_points",
		}
	}
	return nil
}
