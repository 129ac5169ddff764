package model

import "time"

// Report card section names used in UnavailableSections.
const (
	SectionSubjects   = "subjects"
	SectionAttendance = "attendance"
)

// SubjectAverage is one subject line on a report card. Average is always on
// the 0-10 scale; Percentage is additionally set for category-scheme classes.
type SubjectAverage struct {
	SubjectID  string        `json:"subject_id"`
	ClassID    string        `json:"class_id"`
	Scheme     GradingScheme `json:"grading_scheme"`
	Average    *float64      `json:"average"`
	Percentage *float64      `json:"percentage,omitempty"`
	Letter     *string       `json:"letter"`
}

// ReportCard is a derived, best-effort summary. It is never stored as a
// source of truth; any section whose collaborator was unavailable is nil and
// named in UnavailableSections.
type ReportCard struct {
	StudentID           string           `json:"student_id"`
	Period              Semester         `json:"period"`
	PerSubject          []SubjectAverage `json:"per_subject"`
	OverallAverage      *float64         `json:"overall_average"`
	AttendanceRate      *float64         `json:"attendance_rate"`
	ConductGrade        *string          `json:"conduct_grade"`
	UnavailableSections []string         `json:"unavailable_sections,omitempty"`
	GeneratedAt         time.Time        `json:"generated_at"`
}
