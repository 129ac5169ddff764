package report

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Schnee09/BHEDU-sub006/internal/grading"
	"github.com/Schnee09/BHEDU-sub006/internal/model"
)

/* ---------- fakes ---------- */

type fakeRepo struct {
	enrollments    []model.Enrollment
	enrollmentsErr error

	componentScores map[string]map[model.ComponentType]*float64 // subjectID -> scores
	categories      map[string][]model.AssignmentCategory       // classID -> categories
	gradedScores    map[string][]model.AssignmentScore          // classID -> scores
	scoresErr       error
}

func (r *fakeRepo) UpsertComponentGrade(context.Context, model.ComponentGrade) error { return nil }

func (r *fakeRepo) GetComponentScores(_ context.Context, _, subjectID, _ string, _ model.Semester) (map[model.ComponentType]*float64, error) {
	if r.scoresErr != nil {
		return nil, r.scoresErr
	}
	return r.componentScores[subjectID], nil
}

func (r *fakeRepo) GetClass(context.Context, string) (*model.Class, error) { return nil, nil }

func (r *fakeRepo) ListEnrollments(context.Context, string) ([]model.Enrollment, error) {
	return r.enrollments, r.enrollmentsErr
}

func (r *fakeRepo) CreateCategory(context.Context, model.AssignmentCategory) error { return nil }

func (r *fakeRepo) ListCategories(_ context.Context, classID string) ([]model.AssignmentCategory, error) {
	return r.categories[classID], nil
}

func (r *fakeRepo) CreateAssignment(context.Context, model.Assignment, []string) error { return nil }

func (r *fakeRepo) GetAssignment(context.Context, string) (*model.Assignment, error) {
	return nil, nil
}

func (r *fakeRepo) UpdateAssignmentGrade(context.Context, model.AssignmentGrade) (bool, error) {
	return true, nil
}

func (r *fakeRepo) ListGradedScores(_ context.Context, classID, _ string) ([]model.AssignmentScore, error) {
	return r.gradedScores[classID], nil
}

type fakeAttendance struct {
	rate float64
	err  error
}

func (f *fakeAttendance) GetAttendanceRate(context.Context, string, model.Semester) (float64, error) {
	return f.rate, f.err
}

/* ---------- helpers ---------- */

func pf(v float64) *float64 { return &v }

func sp(v string) *string { return &v }

func componentEnrollment(subject string) model.Enrollment {
	return model.Enrollment{StudentID: "s1", ClassID: "10A", SubjectID: subject, Scheme: model.SchemeComponent}
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}

/* ---------- tests ---------- */

func TestAssembleComponentSubjects(t *testing.T) {
	repo := &fakeRepo{
		enrollments: []model.Enrollment{componentEnrollment("math")},
		componentScores: map[string]map[model.ComponentType]*float64{
			"math": {
				model.ComponentMidterm: pf(7.0),
				model.ComponentFinal:   pf(9.0),
			},
		},
	}
	asm := NewAssembler(repo, &fakeAttendance{rate: 96.5}, grading.DefaultPolicy(), time.Second)

	card := asm.Assemble(context.Background(), "s1", model.SemesterOne)

	if len(card.PerSubject) != 1 {
		t.Fatalf("PerSubject = %+v, want one line", card.PerSubject)
	}
	if avg := card.PerSubject[0].Average; avg == nil || *avg != 8.0 {
		t.Fatalf("subject average = %v, want 8.0", avg)
	}
	if card.OverallAverage == nil || *card.OverallAverage != 8.0 {
		t.Fatalf("overall = %v, want 8.0", card.OverallAverage)
	}
	if card.ConductGrade == nil || *card.ConductGrade != grading.ConductGood {
		t.Fatalf("conduct = %v, want %q", card.ConductGrade, grading.ConductGood)
	}
	if card.AttendanceRate == nil || *card.AttendanceRate != 96.5 {
		t.Fatalf("attendance = %v, want 96.5", card.AttendanceRate)
	}
	if len(card.UnavailableSections) != 0 {
		t.Fatalf("unavailable = %v, want none", card.UnavailableSections)
	}
}

func TestAssembleMixedSchemes(t *testing.T) {
	repo := &fakeRepo{
		enrollments: []model.Enrollment{
			componentEnrollment("math"),
			{StudentID: "s1", ClassID: "lab", SubjectID: "chem", Scheme: model.SchemeCategory},
		},
		componentScores: map[string]map[model.ComponentType]*float64{
			"math": {model.ComponentMidterm: pf(6.0), model.ComponentFinal: pf(8.0)},
		},
		categories: map[string][]model.AssignmentCategory{
			"lab": {{ID: "practical", ClassID: "lab", Name: "Practical", WeightPercent: 100}},
		},
		gradedScores: map[string][]model.AssignmentScore{
			"lab": {{CategoryID: sp("practical"), PointsEarned: 90, MaxPoints: 100}},
		},
	}
	asm := NewAssembler(repo, &fakeAttendance{rate: 100}, grading.DefaultPolicy(), time.Second)

	card := asm.Assemble(context.Background(), "s1", model.SemesterOne)

	if len(card.PerSubject) != 2 {
		t.Fatalf("PerSubject = %+v, want two lines", card.PerSubject)
	}
	chem := card.PerSubject[1]
	if chem.Percentage == nil || *chem.Percentage != 90 {
		t.Fatalf("chem percentage = %v, want 90", chem.Percentage)
	}
	if chem.Average == nil || *chem.Average != 9.0 {
		t.Fatalf("chem 0-10 average = %v, want 9.0", chem.Average)
	}
	if chem.Letter == nil || *chem.Letter != "A" {
		t.Fatalf("chem letter = %v, want A", chem.Letter)
	}
	// Overall mean of 7.0 and 9.0.
	if card.OverallAverage == nil || *card.OverallAverage != 8.0 {
		t.Fatalf("overall = %v, want 8.0", card.OverallAverage)
	}
}

func TestAssembleUngradedSubjectsExcludedFromOverall(t *testing.T) {
	repo := &fakeRepo{
		enrollments: []model.Enrollment{
			componentEnrollment("math"),
			componentEnrollment("lit"), // no grades yet
		},
		componentScores: map[string]map[model.ComponentType]*float64{
			"math": {model.ComponentFinal: pf(9.0)},
		},
	}
	asm := NewAssembler(repo, &fakeAttendance{}, grading.DefaultPolicy(), time.Second)

	card := asm.Assemble(context.Background(), "s1", model.SemesterOne)

	if len(card.PerSubject) != 2 {
		t.Fatalf("PerSubject = %+v, want two lines", card.PerSubject)
	}
	if card.PerSubject[1].Average != nil {
		t.Fatalf("ungraded subject average = %v, want nil", card.PerSubject[1].Average)
	}
	if card.OverallAverage == nil || *card.OverallAverage != 9.0 {
		t.Fatalf("overall = %v, want 9.0 (ungraded subject excluded, not zero-filled)", card.OverallAverage)
	}
}

func TestAssembleNothingGraded(t *testing.T) {
	repo := &fakeRepo{enrollments: []model.Enrollment{componentEnrollment("math")}}
	asm := NewAssembler(repo, &fakeAttendance{}, grading.DefaultPolicy(), time.Second)

	card := asm.Assemble(context.Background(), "s1", model.SemesterOne)

	if card.OverallAverage != nil || card.ConductGrade != nil {
		t.Fatalf("overall = %v conduct = %v, want both nil", card.OverallAverage, card.ConductGrade)
	}
}

func TestAssembleAttendanceUnavailable(t *testing.T) {
	repo := &fakeRepo{enrollments: []model.Enrollment{componentEnrollment("math")}}
	asm := NewAssembler(repo, &fakeAttendance{err: errors.New("down")}, grading.DefaultPolicy(), time.Second)

	card := asm.Assemble(context.Background(), "s1", model.SemesterOne)

	if card.AttendanceRate != nil {
		t.Fatalf("attendance = %v, want nil", card.AttendanceRate)
	}
	if !contains(card.UnavailableSections, model.SectionAttendance) {
		t.Fatalf("unavailable = %v, want attendance listed", card.UnavailableSections)
	}
}

func TestAssembleRosterUnavailable(t *testing.T) {
	repo := &fakeRepo{enrollmentsErr: errors.New("db down")}
	asm := NewAssembler(repo, &fakeAttendance{rate: 90}, grading.DefaultPolicy(), time.Second)

	card := asm.Assemble(context.Background(), "s1", model.SemesterOne)

	if card.PerSubject != nil {
		t.Fatalf("PerSubject = %v, want nil", card.PerSubject)
	}
	if !contains(card.UnavailableSections, model.SectionSubjects) {
		t.Fatalf("unavailable = %v, want subjects listed", card.UnavailableSections)
	}
	// Attendance still fills in; sections fail independently.
	if card.AttendanceRate == nil || *card.AttendanceRate != 90 {
		t.Fatalf("attendance = %v, want 90", card.AttendanceRate)
	}
}
