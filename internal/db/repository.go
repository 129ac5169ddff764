package db

import (
	"context"
	"database/sql"
	"errors"

	"github.com/Schnee09/BHEDU-sub006/internal/model"
	apperrors "github.com/Schnee09/BHEDU-sub006/pkg/errors"
)

type Repository interface {
	// UpsertComponentGrade writes a component score keyed by its natural
	// identity. Re-submitting overwrites, never duplicates.
	UpsertComponentGrade(ctx context.Context, grade model.ComponentGrade) error
	GetComponentScores(ctx context.Context, studentID, subjectID, classID string, semester model.Semester) (map[model.ComponentType]*float64, error)

	GetClass(ctx context.Context, classID string) (*model.Class, error)
	ListEnrollments(ctx context.Context, studentID string) ([]model.Enrollment, error)

	CreateCategory(ctx context.Context, category model.AssignmentCategory) error
	ListCategories(ctx context.Context, classID string) ([]model.AssignmentCategory, error)

	// CreateAssignment inserts the assignment and seeds one ungraded
	// AssignmentGrade per enrolled student in the same transaction.
	CreateAssignment(ctx context.Context, assignment model.Assignment, studentIDs []string) error
	GetAssignment(ctx context.Context, assignmentID string) (*model.Assignment, error)

	// UpdateAssignmentGrade writes points/feedback onto the seeded row for
	// (assignment, student). It reports false when no such row exists; rows
	// are never created here, so unenrolled students cannot acquire grades.
	UpdateAssignmentGrade(ctx context.Context, grade model.AssignmentGrade) (bool, error)
	ListGradedScores(ctx context.Context, classID, studentID string) ([]model.AssignmentScore, error)
}

type repository struct {
	db *sql.DB
}

func NewRepository(database *sql.DB) Repository {
	return &repository{db: database}
}

func (r *repository) UpsertComponentGrade(ctx context.Context, grade model.ComponentGrade) error {
	query := `INSERT INTO component_grades
			  (student_id, subject_id, class_id, semester, component_type, score)
			  VALUES (?, ?, ?, ?, ?, ?)
			  ON DUPLICATE KEY UPDATE score = VALUES(score), updated_at = NOW()`

	_, err := r.db.ExecContext(ctx, query,
		grade.StudentID, grade.SubjectID, grade.ClassID,
		grade.Semester, grade.Component, grade.Score)
	return err
}

func (r *repository) GetComponentScores(ctx context.Context, studentID, subjectID, classID string, semester model.Semester) (map[model.ComponentType]*float64, error) {
	query := `SELECT component_type, score FROM component_grades
			  WHERE student_id = ? AND subject_id = ? AND class_id = ? AND semester = ?`

	rows, err := r.db.QueryContext(ctx, query, studentID, subjectID, classID, semester)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	scores := make(map[model.ComponentType]*float64)
	for rows.Next() {
		var component model.ComponentType
		var score sql.NullFloat64
		if err := rows.Scan(&component, &score); err != nil {
			return nil, err
		}
		if score.Valid {
			v := score.Float64
			scores[component] = &v
		} else {
			scores[component] = nil
		}
	}
	return scores, rows.Err()
}

func (r *repository) GetClass(ctx context.Context, classID string) (*model.Class, error) {
	query := `SELECT id, name, grading_scheme FROM classes WHERE id = ?`

	var class model.Class
	err := r.db.QueryRowContext(ctx, query, classID).Scan(&class.ID, &class.Name, &class.Scheme)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NotFoundError{Resource: "class", Key: classID}
	}
	if err != nil {
		return nil, err
	}
	return &class, nil
}

func (r *repository) ListEnrollments(ctx context.Context, studentID string) ([]model.Enrollment, error) {
	query := `SELECT e.student_id, e.class_id, e.subject_id, c.grading_scheme
			  FROM enrollments e
			  JOIN classes c ON c.id = e.class_id
			  WHERE e.student_id = ?
			  ORDER BY e.subject_id`

	rows, err := r.db.QueryContext(ctx, query, studentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var enrollments []model.Enrollment
	for rows.Next() {
		var e model.Enrollment
		if err := rows.Scan(&e.StudentID, &e.ClassID, &e.SubjectID, &e.Scheme); err != nil {
			return nil, err
		}
		enrollments = append(enrollments, e)
	}
	return enrollments, rows.Err()
}

func (r *repository) CreateCategory(ctx context.Context, category model.AssignmentCategory) error {
	query := `INSERT INTO assignment_categories (id, class_id, name, weight_percent, drop_lowest)
			  VALUES (?, ?, ?, ?, ?)`

	_, err := r.db.ExecContext(ctx, query,
		category.ID, category.ClassID, category.Name,
		category.WeightPercent, category.DropLowest)
	return err
}

func (r *repository) ListCategories(ctx context.Context, classID string) ([]model.AssignmentCategory, error) {
	query := `SELECT id, class_id, name, weight_percent, drop_lowest, created_at
			  FROM assignment_categories WHERE class_id = ? ORDER BY created_at`

	rows, err := r.db.QueryContext(ctx, query, classID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var categories []model.AssignmentCategory
	for rows.Next() {
		var c model.AssignmentCategory
		if err := rows.Scan(&c.ID, &c.ClassID, &c.Name, &c.WeightPercent, &c.DropLowest, &c.CreatedAt); err != nil {
			return nil, err
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

func (r *repository) CreateAssignment(ctx context.Context, assignment model.Assignment, studentIDs []string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	query := `INSERT INTO assignments (id, class_id, category_id, title, max_points, due_date)
			  VALUES (?, ?, ?, ?, ?, ?)`
	if _, err := tx.ExecContext(ctx, query,
		assignment.ID, assignment.ClassID, assignment.CategoryID,
		assignment.Title, assignment.MaxPoints, assignment.DueDate); err != nil {
		return err
	}

	seed := `INSERT INTO assignment_grades (assignment_id, student_id, points_earned)
			 VALUES (?, ?, NULL)`
	for _, studentID := range studentIDs {
		if _, err := tx.ExecContext(ctx, seed, assignment.ID, studentID); err != nil {
			return err
		}
	}

	return tx.Commit()
}

func (r *repository) GetAssignment(ctx context.Context, assignmentID string) (*model.Assignment, error) {
	query := `SELECT id, class_id, category_id, title, max_points, due_date, created_at
			  FROM assignments WHERE id = ?`

	var a model.Assignment
	var categoryID sql.NullString
	var dueDate sql.NullTime
	err := r.db.QueryRowContext(ctx, query, assignmentID).Scan(
		&a.ID, &a.ClassID, &categoryID, &a.Title, &a.MaxPoints, &dueDate, &a.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NotFoundError{Resource: "assignment", Key: assignmentID}
	}
	if err != nil {
		return nil, err
	}
	if categoryID.Valid {
		a.CategoryID = &categoryID.String
	}
	if dueDate.Valid {
		a.DueDate = &dueDate.Time
	}
	return &a, nil
}

func (r *repository) UpdateAssignmentGrade(ctx context.Context, grade model.AssignmentGrade) (bool, error) {
	// The seeded row doubles as the enrollment check: updating a missing row
	// would silently create an orphan grade, so existence is verified first.
	var exists bool
	check := `SELECT EXISTS(SELECT 1 FROM assignment_grades WHERE assignment_id = ? AND student_id = ?)`
	if err := r.db.QueryRowContext(ctx, check, grade.AssignmentID, grade.StudentID).Scan(&exists); err != nil {
		return false, err
	}
	if !exists {
		return false, nil
	}

	query := `UPDATE assignment_grades
			  SET points_earned = ?, feedback = COALESCE(?, feedback), updated_at = NOW()
			  WHERE assignment_id = ? AND student_id = ?`
	_, err := r.db.ExecContext(ctx, query,
		grade.PointsEarned, grade.Feedback, grade.AssignmentID, grade.StudentID)
	return err == nil, err
}

func (r *repository) ListGradedScores(ctx context.Context, classID, studentID string) ([]model.AssignmentScore, error) {
	query := `SELECT a.category_id, g.points_earned, a.max_points
			  FROM assignment_grades g
			  JOIN assignments a ON a.id = g.assignment_id
			  WHERE a.class_id = ? AND g.student_id = ? AND g.points_earned IS NOT NULL`

	rows, err := r.db.QueryContext(ctx, query, classID, studentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var scores []model.AssignmentScore
	for rows.Next() {
		var s model.AssignmentScore
		var categoryID sql.NullString
		if err := rows.Scan(&categoryID, &s.PointsEarned, &s.MaxPoints); err != nil {
			return nil, err
		}
		if categoryID.Valid {
			s.CategoryID = &categoryID.String
		}
		scores = append(scores, s)
	}
	return scores, rows.Err()
}
