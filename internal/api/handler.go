package api

import (
	"context"
	"net/http"

	"github.com/Schnee09/BHEDU-sub006/internal/config"
	"github.com/Schnee09/BHEDU-sub006/internal/db"
	"github.com/Schnee09/BHEDU-sub006/internal/grading"
	"github.com/Schnee09/BHEDU-sub006/internal/ingest"
	"github.com/Schnee09/BHEDU-sub006/internal/logger"
	"github.com/Schnee09/BHEDU-sub006/internal/model"
	"github.com/Schnee09/BHEDU-sub006/internal/report"
	apperrors "github.com/Schnee09/BHEDU-sub006/pkg/errors"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Roster lists a class roster; used to seed assignment-grade placeholders.
// Satisfied by the school-core collaborator client.
type Roster interface {
	ListEnrolledStudents(ctx context.Context, classID string) ([]string, error)
}

// CardCache is the report-card cache surface the handlers need. Satisfied by
// cache.ReportCardCache.
type CardCache interface {
	Get(ctx context.Context, studentID string, period model.Semester) (*model.ReportCard, bool)
	Set(ctx context.Context, card *model.ReportCard)
	Invalidate(ctx context.Context, studentID string)
}

// RecalcEnqueuer schedules background report-card recomputation. Satisfied by
// queue.Producer.
type RecalcEnqueuer interface {
	EnqueueRecalc(ctx context.Context, job model.RecalcJob) error
}

type Handler struct {
	repo       db.Repository
	ingestor   *ingest.Ingestor
	assembler  *report.Assembler
	archiver   *report.Archiver // nil when archive storage is not configured
	producer   RecalcEnqueuer
	cards      CardCache
	authz      ingest.Authorizer
	enrollment Roster
	policy     grading.Policy
	cfg        *config.Config
	log        zerolog.Logger
}

func NewHandler(
	repo db.Repository,
	ingestor *ingest.Ingestor,
	assembler *report.Assembler,
	archiver *report.Archiver,
	producer RecalcEnqueuer,
	cards CardCache,
	authz ingest.Authorizer,
	enrollment Roster,
	policy grading.Policy,
	cfg *config.Config,
) *Handler {
	return &Handler{
		repo:       repo,
		ingestor:   ingestor,
		assembler:  assembler,
		archiver:   archiver,
		producer:   producer,
		cards:      cards,
		authz:      authz,
		enrollment: enrollment,
		policy:     policy,
		cfg:        cfg,
		log:        logger.With("api"),
	}
}

func (h *Handler) actorID(c *gin.Context) (string, bool) {
	actor := c.GetHeader("X-Teacher-ID")
	if actor == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": apperrors.ErrMissingActor.Error()})
		return "", false
	}
	return actor, true
}

// BulkComponentGrades handles POST /grades/components.
func (h *Handler) BulkComponentGrades(c *gin.Context) {
	actor, ok := h.actorID(c)
	if !ok {
		return
	}

	var items []model.ComponentWrite
	if err := c.ShouldBindJSON(&items); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Request body must be a list of component grade writes"})
		return
	}
	if len(items) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": apperrors.ErrEmptyBatch.Error()})
		return
	}

	outcome := h.ingestor.IngestComponents(c.Request.Context(), actor, items)

	if outcome.SuccessCount > 0 {
		failed := failedIndexes(outcome)
		seen := make(map[model.RecalcJob]bool)
		for i, item := range items {
			if failed[i] {
				continue
			}
			h.cards.Invalidate(c.Request.Context(), item.StudentID)
			job := model.RecalcJob{StudentID: item.StudentID, Period: item.Semester}
			if !seen[job] {
				seen[job] = true
				if err := h.producer.EnqueueRecalc(c.Request.Context(), job); err != nil {
					h.log.Warn().Err(err).Str("student_id", item.StudentID).Msg("Failed to enqueue recalc job")
				}
			}
		}
	}

	c.JSON(batchStatus(outcome), outcome)
}

// BulkAssignmentGrades handles POST /grades/assignments.
func (h *Handler) BulkAssignmentGrades(c *gin.Context) {
	actor, ok := h.actorID(c)
	if !ok {
		return
	}

	var items []model.AssignmentWrite
	if err := c.ShouldBindJSON(&items); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Request body must be a list of assignment grade writes"})
		return
	}
	if len(items) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": apperrors.ErrEmptyBatch.Error()})
		return
	}

	outcome := h.ingestor.IngestAssignments(c.Request.Context(), actor, items)

	if outcome.SuccessCount > 0 {
		failed := failedIndexes(outcome)
		seen := make(map[model.RecalcJob]bool)
		for i, item := range items {
			if failed[i] {
				continue
			}
			h.cards.Invalidate(c.Request.Context(), item.StudentID)
			// Category-scheme grades are not semester-scoped, so the yearly
			// card is the one worth precomputing.
			job := model.RecalcJob{StudentID: item.StudentID, Period: model.SemesterYear}
			if !seen[job] {
				seen[job] = true
				if err := h.producer.EnqueueRecalc(c.Request.Context(), job); err != nil {
					h.log.Warn().Err(err).Str("student_id", item.StudentID).Msg("Failed to enqueue recalc job")
				}
			}
		}
	}

	c.JSON(batchStatus(outcome), outcome)
}

// SubjectAverage handles GET /grades/subject-average.
func (h *Handler) SubjectAverage(c *gin.Context) {
	studentID := c.Query("student_id")
	subjectID := c.Query("subject_id")
	classID := c.Query("class_id")
	semester := model.Semester(c.Query("semester"))

	if studentID == "" || subjectID == "" || classID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "student_id, subject_id and class_id are required"})
		return
	}
	if !semester.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": apperrors.ErrInvalidSemester.Error()})
		return
	}

	scores, err := h.repo.GetComponentScores(c.Request.Context(), studentID, subjectID, classID, semester)
	if err != nil {
		h.log.Error().Err(err).Str("student_id", studentID).Msg("Failed to load component scores")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	c.JSON(http.StatusOK, model.SubjectAverageResponse{
		Average: grading.ComponentAverage(scores, h.policy),
	})
}

// ClassAverage handles GET /grades/class-average.
func (h *Handler) ClassAverage(c *gin.Context) {
	classID := c.Query("class_id")
	studentID := c.Query("student_id")

	if classID == "" || studentID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "class_id and student_id are required"})
		return
	}

	categories, err := h.repo.ListCategories(c.Request.Context(), classID)
	if err != nil {
		h.log.Error().Err(err).Str("class_id", classID).Msg("Failed to load categories")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}
	scores, err := h.repo.ListGradedScores(c.Request.Context(), classID, studentID)
	if err != nil {
		h.log.Error().Err(err).Str("class_id", classID).Msg("Failed to load graded scores")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	result := grading.CategoryAverage(categories, scores, h.policy)
	c.JSON(http.StatusOK, model.ClassAverageResponse{
		Percentage: result.Percentage,
		Letter:     result.Letter,
	})
}

// GetReportCard handles GET /report-card.
func (h *Handler) GetReportCard(c *gin.Context) {
	studentID := c.Query("student_id")
	period := model.Semester(c.Query("period"))

	if studentID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "student_id is required"})
		return
	}
	if !period.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": apperrors.ErrInvalidSemester.Error()})
		return
	}

	if card, ok := h.cards.Get(c.Request.Context(), studentID, period); ok {
		c.JSON(http.StatusOK, card)
		return
	}

	card := h.assembler.Assemble(c.Request.Context(), studentID, period)
	// A card with unavailable sections would pin a degraded snapshot for the
	// full TTL; the next read should retry the collaborators instead.
	if len(card.UnavailableSections) == 0 {
		h.cards.Set(c.Request.Context(), card)
	}
	c.JSON(http.StatusOK, card)
}

// ArchiveReportCard handles POST /report-cards/archive.
func (h *Handler) ArchiveReportCard(c *gin.Context) {
	if h.archiver == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": apperrors.ErrArchiveDisabled.Error()})
		return
	}

	var req model.ArchiveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}
	if req.StudentID == "" || !req.Period.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "student_id and a valid period are required"})
		return
	}

	card := h.assembler.Assemble(c.Request.Context(), req.StudentID, req.Period)
	key, err := h.archiver.Archive(c.Request.Context(), card)
	if err != nil {
		// Archiving is best-effort: the assembled card is still the answer,
		// the failed snapshot is reported alongside it.
		h.log.Error().Err(err).Str("student_id", req.StudentID).Msg("Failed to archive report card")
		c.JSON(http.StatusOK, gin.H{"report_card": card, "archive_error": "Failed to archive report card"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"key": key, "report_card": card})
}

// CreateCategory handles POST /classes/:class_id/categories.
func (h *Handler) CreateCategory(c *gin.Context) {
	actor, ok := h.actorID(c)
	if !ok {
		return
	}
	classID := c.Param("class_id")

	var req model.CreateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}
	if req.Name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "name is required"})
		return
	}
	if req.WeightPercent < 0 || req.WeightPercent > 100 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "weight_percent must be between 0 and 100"})
		return
	}
	if req.DropLowest < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "drop_lowest must not be negative"})
		return
	}

	if _, err := h.repo.GetClass(c.Request.Context(), classID); err != nil {
		h.respondError(c, err)
		return
	}
	if err := h.requireOwnership(c, classID, actor); err != nil {
		h.respondError(c, err)
		return
	}

	category := model.AssignmentCategory{
		ID:            uuid.NewString(),
		ClassID:       classID,
		Name:          req.Name,
		WeightPercent: req.WeightPercent,
		DropLowest:    req.DropLowest,
	}
	if err := h.repo.CreateCategory(c.Request.Context(), category); err != nil {
		h.log.Error().Err(err).Str("class_id", classID).Msg("Failed to create category")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	c.JSON(http.StatusCreated, category)
}

// CreateAssignment handles POST /assignments. Creating an assignment seeds
// one ungraded grade row per enrolled student, which later acts as the
// enrollment check on grade writes.
func (h *Handler) CreateAssignment(c *gin.Context) {
	actor, ok := h.actorID(c)
	if !ok {
		return
	}

	var req model.CreateAssignmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}
	if req.ClassID == "" || req.Title == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "class_id and title are required"})
		return
	}
	if req.MaxPoints <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "max_points must be positive"})
		return
	}

	if _, err := h.repo.GetClass(c.Request.Context(), req.ClassID); err != nil {
		h.respondError(c, err)
		return
	}
	if err := h.requireOwnership(c, req.ClassID, actor); err != nil {
		h.respondError(c, err)
		return
	}

	students, err := h.enrollment.ListEnrolledStudents(c.Request.Context(), req.ClassID)
	if err != nil {
		h.respondError(c, err)
		return
	}

	assignment := model.Assignment{
		ID:         uuid.NewString(),
		ClassID:    req.ClassID,
		CategoryID: req.CategoryID,
		Title:      req.Title,
		MaxPoints:  req.MaxPoints,
		DueDate:    req.DueDate,
	}
	if err := h.repo.CreateAssignment(c.Request.Context(), assignment, students); err != nil {
		h.log.Error().Err(err).Str("class_id", req.ClassID).Msg("Failed to create assignment")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	h.log.Info().
		Str("assignment_id", assignment.ID).
		Str("class_id", req.ClassID).
		Int("seeded_grades", len(students)).
		Msg("Assignment created")

	c.JSON(http.StatusCreated, gin.H{"assignment": assignment, "seeded_grades": len(students)})
}

func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": h.cfg.App.Name,
		"version": h.cfg.App.Version,
	})
}

func (h *Handler) requireOwnership(c *gin.Context, classID, actor string) error {
	owned, err := h.authz.ResolveTeacherOwnership(c.Request.Context(), classID, actor)
	if err != nil {
		return err
	}
	if !owned {
		return apperrors.ForbiddenError{Resource: "class", Key: classID, Actor: actor}
	}
	return nil
}

func (h *Handler) respondError(c *gin.Context, err error) {
	switch {
	case apperrors.IsValidation(err):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case apperrors.IsNotFound(err):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case apperrors.IsForbidden(err):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case apperrors.IsCollaboratorUnavailable(err):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
	default:
		h.log.Error().Err(err).Msg("Unhandled error")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}

// batchStatus: success when at least one item landed, 422 when every item
// failed. Malformed requests never reach here.
func batchStatus(outcome model.BatchOutcome) int {
	if outcome.SuccessCount == 0 && outcome.FailureCount > 0 {
		return http.StatusUnprocessableEntity
	}
	return http.StatusOK
}

func failedIndexes(outcome model.BatchOutcome) map[int]bool {
	failed := make(map[int]bool, len(outcome.Failures))
	for _, f := range outcome.Failures {
		failed[f.Index] = true
	}
	return failed
}
