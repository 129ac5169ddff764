package model

import "time"

// ComponentWrite targets a component grade by its natural identity key.
type ComponentWrite struct {
	StudentID string        `json:"student_id"`
	SubjectID string        `json:"subject_id"`
	ClassID   string        `json:"class_id"`
	Semester  Semester      `json:"semester"`
	Component ComponentType `json:"component_type"`
	Score     *float64      `json:"score"`
}

// AssignmentWrite targets an assignment grade by (assignment, student).
type AssignmentWrite struct {
	AssignmentID string   `json:"assignment_id"`
	StudentID    string   `json:"student_id"`
	PointsEarned *float64 `json:"points_earned"`
	Feedback     *string  `json:"feedback,omitempty"`
}

type ItemFailure struct {
	Index  int    `json:"index"`
	Reason string `json:"reason"`
}

// BatchOutcome is the first-class result of a bulk write. Per-item failures
// are data, not errors; a batch never aborts because one item is bad.
type BatchOutcome struct {
	SuccessCount int           `json:"success_count"`
	FailureCount int           `json:"failure_count"`
	Failures     []ItemFailure `json:"failures,omitempty"`
}

type SubjectAverageResponse struct {
	Average *float64 `json:"average"`
}

type ClassAverageResponse struct {
	Percentage *float64 `json:"percentage"`
	Letter     *string  `json:"letter"`
}

type CreateCategoryRequest struct {
	Name          string  `json:"name"`
	WeightPercent float64 `json:"weight_percent"`
	DropLowest    int     `json:"drop_lowest"`
}

type CreateAssignmentRequest struct {
	ClassID    string     `json:"class_id"`
	CategoryID *string    `json:"category_id,omitempty"`
	Title      string     `json:"title"`
	MaxPoints  float64    `json:"max_points"`
	DueDate    *time.Time `json:"due_date,omitempty"`
}

type ArchiveRequest struct {
	StudentID string   `json:"student_id"`
	Period    Semester `json:"period"`
}

// RecalcJob asks the recalc worker to reassemble one report card and warm
// the cache with it.
type RecalcJob struct {
	StudentID string   `json:"student_id"`
	Period    Semester `json:"period"`
}
