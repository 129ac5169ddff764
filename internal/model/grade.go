package model

import "time"

type Semester string

const (
	SemesterOne  Semester = "1"
	SemesterTwo  Semester = "2"
	SemesterYear Semester = "year"
)

func (s Semester) Valid() bool {
	switch s {
	case SemesterOne, SemesterTwo, SemesterYear:
		return true
	}
	return false
}

// Semesters lists every report-card period.
func Semesters() []Semester {
	return []Semester{SemesterOne, SemesterTwo, SemesterYear}
}

// ComponentType is one of the fixed Vietnamese evaluation types.
type ComponentType string

const (
	ComponentOral       ComponentType = "oral"
	ComponentFifteenMin ComponentType = "fifteen_min"
	ComponentOnePeriod  ComponentType = "one_period"
	ComponentMidterm    ComponentType = "midterm"
	ComponentFinal      ComponentType = "final"
)

func (c ComponentType) Valid() bool {
	switch c {
	case ComponentOral, ComponentFifteenMin, ComponentOnePeriod, ComponentMidterm, ComponentFinal:
		return true
	}
	return false
}

// ComponentGrade is one raw score for one student/subject/class/semester/
// component type. Identity is (student, subject, class, semester, component);
// writes are upserts on that key. A nil score means not yet graded.
type ComponentGrade struct {
	StudentID string        `json:"student_id" db:"student_id"`
	SubjectID string        `json:"subject_id" db:"subject_id"`
	ClassID   string        `json:"class_id" db:"class_id"`
	Semester  Semester      `json:"semester" db:"semester"`
	Component ComponentType `json:"component_type" db:"component_type"`
	Score     *float64      `json:"score" db:"score"`
	UpdatedAt time.Time     `json:"updated_at" db:"updated_at"`
}

// GradingScheme selects how a class's averages are computed.
type GradingScheme string

const (
	// SchemeComponent uses the fixed evaluation types with policy weights.
	SchemeComponent GradingScheme = "component"
	// SchemeCategory uses teacher-defined weighted assignment categories.
	SchemeCategory GradingScheme = "category"
)

type Class struct {
	ID     string        `json:"id" db:"id"`
	Name   string        `json:"name" db:"name"`
	Scheme GradingScheme `json:"grading_scheme" db:"grading_scheme"`
}

// Enrollment ties a student to a class and the subject taught there.
type Enrollment struct {
	StudentID string        `json:"student_id" db:"student_id"`
	ClassID   string        `json:"class_id" db:"class_id"`
	SubjectID string        `json:"subject_id" db:"subject_id"`
	Scheme    GradingScheme `json:"grading_scheme" db:"grading_scheme"`
}
