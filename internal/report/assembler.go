package report

import (
	"context"
	"time"

	"github.com/Schnee09/BHEDU-sub006/internal/db"
	"github.com/Schnee09/BHEDU-sub006/internal/grading"
	"github.com/Schnee09/BHEDU-sub006/internal/logger"
	"github.com/Schnee09/BHEDU-sub006/internal/model"

	"github.com/rs/zerolog"
)

// AttendanceSource answers the pre-computed attendance rate for one student
// and period. Satisfied by the school-core collaborator client.
type AttendanceSource interface {
	GetAttendanceRate(ctx context.Context, studentID string, period model.Semester) (float64, error)
}

// Assembler builds report cards. A report card is a best-effort summary, not
// a transactional document: when a collaborator is down or slow, the
// affected section comes back nil and is named in unavailable_sections
// instead of failing the whole request.
type Assembler struct {
	repo       db.Repository
	attendance AttendanceSource
	policy     grading.Policy
	timeout    time.Duration
	log        zerolog.Logger
}

func NewAssembler(repo db.Repository, attendance AttendanceSource, policy grading.Policy, timeout time.Duration) *Assembler {
	if timeout <= 0 {
		timeout = 3 * time.Second
	}
	return &Assembler{
		repo:       repo,
		attendance: attendance,
		policy:     policy,
		timeout:    timeout,
		log:        logger.With("report_assembler"),
	}
}

// Assemble produces one student's report card for a period.
func (a *Assembler) Assemble(ctx context.Context, studentID string, period model.Semester) *model.ReportCard {
	card := &model.ReportCard{
		StudentID:   studentID,
		Period:      period,
		GeneratedAt: time.Now().UTC(),
	}

	a.fillSubjects(ctx, card)
	a.fillAttendance(ctx, card)

	return card
}

func (a *Assembler) fillSubjects(ctx context.Context, card *model.ReportCard) {
	enrollments, err := a.repo.ListEnrollments(ctx, card.StudentID)
	if err != nil {
		a.log.Error().Err(err).Str("student_id", card.StudentID).Msg("Failed to load subject roster")
		card.UnavailableSections = append(card.UnavailableSections, model.SectionSubjects)
		return
	}

	var sum float64
	var graded int
	partial := false

	for _, enrollment := range enrollments {
		line, err := a.subjectLine(ctx, card.StudentID, card.Period, enrollment)
		if err != nil {
			a.log.Error().Err(err).
				Str("student_id", card.StudentID).
				Str("subject_id", enrollment.SubjectID).
				Msg("Failed to compute subject average")
			partial = true
			continue
		}
		card.PerSubject = append(card.PerSubject, line)
		if line.Average != nil {
			sum += *line.Average
			graded++
		}
	}

	if partial {
		card.UnavailableSections = append(card.UnavailableSections, model.SectionSubjects)
	}

	// Subjects with no grades yet are excluded from the overall mean, never
	// zero-filled.
	if graded > 0 {
		overall := grading.RoundHalfUp1(sum / float64(graded))
		conduct := a.policy.Conduct(overall)
		card.OverallAverage = &overall
		card.ConductGrade = &conduct
	}
}

func (a *Assembler) subjectLine(ctx context.Context, studentID string, period model.Semester, enrollment model.Enrollment) (model.SubjectAverage, error) {
	line := model.SubjectAverage{
		SubjectID: enrollment.SubjectID,
		ClassID:   enrollment.ClassID,
		Scheme:    enrollment.Scheme,
	}

	switch enrollment.Scheme {
	case model.SchemeCategory:
		categories, err := a.repo.ListCategories(ctx, enrollment.ClassID)
		if err != nil {
			return line, err
		}
		scores, err := a.repo.ListGradedScores(ctx, enrollment.ClassID, studentID)
		if err != nil {
			return line, err
		}
		result := grading.CategoryAverage(categories, scores, a.policy)
		line.Percentage = result.Percentage
		line.Letter = result.Letter
		if result.Percentage != nil {
			// Category subjects land on the shared 0-10 scale so the overall
			// average and conduct thresholds apply uniformly.
			avg := grading.RoundHalfUp1(*result.Percentage / 10)
			line.Average = &avg
		}

	default:
		scores, err := a.repo.GetComponentScores(ctx, studentID, enrollment.SubjectID, enrollment.ClassID, period)
		if err != nil {
			return line, err
		}
		line.Average = grading.ComponentAverage(scores, a.policy)
		if line.Average != nil {
			letter := a.policy.Letter(*line.Average * 10)
			line.Letter = &letter
		}
	}

	return line, nil
}

func (a *Assembler) fillAttendance(ctx context.Context, card *model.ReportCard) {
	// A slow collaborator is the same as an absent one.
	callCtx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	rate, err := a.attendance.GetAttendanceRate(callCtx, card.StudentID, card.Period)
	if err != nil {
		a.log.Warn().Err(err).Str("student_id", card.StudentID).Msg("Attendance collaborator unavailable")
		card.UnavailableSections = append(card.UnavailableSections, model.SectionAttendance)
		return
	}
	card.AttendanceRate = &rate
}
