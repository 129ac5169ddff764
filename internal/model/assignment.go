package model

import "time"

// AssignmentCategory is a teacher-defined weighting bucket within a class.
// Weights are not required to sum to 100 across a class; the calculator
// renormalizes over the categories that actually hold graded work.
type AssignmentCategory struct {
	ID            string    `json:"id" db:"id"`
	ClassID       string    `json:"class_id" db:"class_id"`
	Name          string    `json:"name" db:"name"`
	WeightPercent float64   `json:"weight_percent" db:"weight_percent"`
	DropLowest    int       `json:"drop_lowest" db:"drop_lowest"`
	CreatedAt     time.Time `json:"created_at" db:"created_at"`
}

type Assignment struct {
	ID         string     `json:"id" db:"id"`
	ClassID    string     `json:"class_id" db:"class_id"`
	CategoryID *string    `json:"category_id,omitempty" db:"category_id"`
	Title      string     `json:"title" db:"title"`
	MaxPoints  float64    `json:"max_points" db:"max_points"`
	DueDate    *time.Time `json:"due_date,omitempty" db:"due_date"`
	CreatedAt  time.Time  `json:"created_at" db:"created_at"`
}

// AssignmentGrade is one student's score on one assignment. Rows are seeded
// ungraded for every enrolled student when the assignment is created and are
// 1:1 with (assignment, enrolled student) afterwards; grade writes only ever
// update the seeded row.
type AssignmentGrade struct {
	AssignmentID string    `json:"assignment_id" db:"assignment_id"`
	StudentID    string    `json:"student_id" db:"student_id"`
	PointsEarned *float64  `json:"points_earned" db:"points_earned"`
	Feedback     *string   `json:"feedback,omitempty" db:"feedback"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}

// AssignmentScore is a graded row joined with its assignment, as consumed by
// the category calculator.
type AssignmentScore struct {
	CategoryID   *string `db:"category_id"`
	PointsEarned float64 `db:"points_earned"`
	MaxPoints    float64 `db:"max_points"`
}
