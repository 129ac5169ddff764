package ingest

import (
	"context"
	"sync"

	"github.com/Schnee09/BHEDU-sub006/internal/db"
	"github.com/Schnee09/BHEDU-sub006/internal/logger"
	"github.com/Schnee09/BHEDU-sub006/internal/model"
	"github.com/Schnee09/BHEDU-sub006/internal/worker"
	apperrors "github.com/Schnee09/BHEDU-sub006/pkg/errors"

	"github.com/rs/zerolog"
)

// Authorizer answers whether a teacher owns a class. Satisfied by the
// school-core collaborator client.
type Authorizer interface {
	ResolveTeacherOwnership(ctx context.Context, classID, actorID string) (bool, error)
}

// Ingestor validates and persists batches of grade writes. Items are
// independent: each one is validated, authorized and upserted on its own,
// and a failed item never rolls back or blocks its neighbors. The trade-off
// is deliberate: a partially applied batch is an acceptable, visible outcome
// reported back to the caller, never a silently corrupted one.
type Ingestor struct {
	repo      db.Repository
	authz     Authorizer
	validator *Validator
	pool      *worker.Pool
	log       zerolog.Logger
}

func NewIngestor(repo db.Repository, authz Authorizer, parallelism int) *Ingestor {
	return &Ingestor{
		repo:      repo,
		authz:     authz,
		validator: NewValidator(),
		pool:      worker.NewPool(parallelism),
		log:       logger.With("ingestor"),
	}
}

// IngestComponents processes a batch of component-keyed grade writes.
func (in *Ingestor) IngestComponents(ctx context.Context, actorID string, items []model.ComponentWrite) model.BatchOutcome {
	ownership := newOwnershipCache(in.authz, actorID)

	errs := in.pool.ForEach(ctx, len(items), func(ctx context.Context, i int) error {
		return in.processComponent(ctx, ownership, items[i])
	})

	outcome := collect(errs)
	in.log.Info().
		Str("actor_id", actorID).
		Int("batch_size", len(items)).
		Int("success_count", outcome.SuccessCount).
		Int("failure_count", outcome.FailureCount).
		Msg("Component grade batch processed")
	return outcome
}

// IngestAssignments processes a batch of assignment-keyed grade writes.
func (in *Ingestor) IngestAssignments(ctx context.Context, actorID string, items []model.AssignmentWrite) model.BatchOutcome {
	ownership := newOwnershipCache(in.authz, actorID)

	errs := in.pool.ForEach(ctx, len(items), func(ctx context.Context, i int) error {
		return in.processAssignment(ctx, ownership, items[i])
	})

	outcome := collect(errs)
	in.log.Info().
		Str("actor_id", actorID).
		Int("batch_size", len(items)).
		Int("success_count", outcome.SuccessCount).
		Int("failure_count", outcome.FailureCount).
		Msg("Assignment grade batch processed")
	return outcome
}

func (in *Ingestor) processComponent(ctx context.Context, ownership *ownershipCache, item model.ComponentWrite) error {
	if err := in.validator.ValidateComponentWrite(item); err != nil {
		return err
	}

	if _, err := in.repo.GetClass(ctx, item.ClassID); err != nil {
		return err
	}

	if err := ownership.require(ctx, item.ClassID); err != nil {
		return err
	}

	return in.repo.UpsertComponentGrade(ctx, model.ComponentGrade{
		StudentID: item.StudentID,
		SubjectID: item.SubjectID,
		ClassID:   item.ClassID,
		Semester:  item.Semester,
		Component: item.Component,
		Score:     item.Score,
	})
}

func (in *Ingestor) processAssignment(ctx context.Context, ownership *ownershipCache, item model.AssignmentWrite) error {
	if err := in.validator.ValidateAssignmentWrite(item); err != nil {
		return err
	}

	assignment, err := in.repo.GetAssignment(ctx, item.AssignmentID)
	if err != nil {
		return err
	}

	if err := in.validator.ValidatePoints(item.PointsEarned, assignment.MaxPoints); err != nil {
		return err
	}

	if err := ownership.require(ctx, assignment.ClassID); err != nil {
		return err
	}

	updated, err := in.repo.UpdateAssignmentGrade(ctx, model.AssignmentGrade{
		AssignmentID: item.AssignmentID,
		StudentID:    item.StudentID,
		PointsEarned: item.PointsEarned,
		Feedback:     item.Feedback,
	})
	if err != nil {
		return err
	}
	if !updated {
		return apperrors.NotFoundError{
			Resource: "assignment grade for student",
			Key:      item.StudentID,
		}
	}
	return nil
}

// collect folds per-item errors into the batch outcome. Failures are data on
// the response, never exceptions out of the batch.
func collect(errs []error) model.BatchOutcome {
	outcome := model.BatchOutcome{}
	for i, err := range errs {
		if err == nil {
			outcome.SuccessCount++
			continue
		}
		outcome.FailureCount++
		outcome.Failures = append(outcome.Failures, model.ItemFailure{
			Index:  i,
			Reason: err.Error(),
		})
	}
	return outcome
}

// ownershipCache memoizes the authorization collaborator per (class, actor)
// for the lifetime of one batch, so a thousand-row batch for one class costs
// one ownership lookup. The map mutex only guards entry creation; each class
// resolves behind its own sync.Once, so items targeting different classes
// never serialize on each other's collaborator call.
type ownershipCache struct {
	authz   Authorizer
	actorID string

	mu      sync.Mutex
	entries map[string]*ownershipEntry
}

type ownershipEntry struct {
	once  sync.Once
	owned bool
	err   error
}

func newOwnershipCache(authz Authorizer, actorID string) *ownershipCache {
	return &ownershipCache{
		authz:   authz,
		actorID: actorID,
		entries: make(map[string]*ownershipEntry),
	}
}

func (c *ownershipCache) require(ctx context.Context, classID string) error {
	c.mu.Lock()
	entry, ok := c.entries[classID]
	if !ok {
		entry = &ownershipEntry{}
		c.entries[classID] = entry
	}
	c.mu.Unlock()

	entry.once.Do(func() {
		entry.owned, entry.err = c.authz.ResolveTeacherOwnership(ctx, classID, c.actorID)
	})

	if entry.err != nil {
		return entry.err
	}
	if !entry.owned {
		return apperrors.ForbiddenError{Resource: "class", Key: classID, Actor: c.actorID}
	}
	return nil
}
