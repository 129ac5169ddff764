package errors

import (
	"errors"
	"fmt"
)

var (
	ErrEmptyBatch        = errors.New("empty batch")
	ErrInvalidSemester   = errors.New("invalid semester")
	ErrInvalidComponent  = errors.New("invalid component type")
	ErrInvalidGradeValue = errors.New("invalid grade value")
	ErrMissingActor      = errors.New("missing teacher identity")
	ErrArchiveDisabled   = errors.New("report card archive storage is not configured")
)

// ValidationError marks a single malformed or out-of-range input value.
// It is always scoped to one batch item and never aborts a batch.
type ValidationError struct {
	Field   string
	Value   interface{}
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("validation failed for field '%s' with value '%v': %s",
		e.Field, e.Value, e.Message)
}

type NotFoundError struct {
	Resource string
	Key      string
}

func (e NotFoundError) Error() string {
	return fmt.Sprintf("%s '%s' not found", e.Resource, e.Key)
}

type ForbiddenError struct {
	Resource string
	Key      string
	Actor    string
}

func (e ForbiddenError) Error() string {
	return fmt.Sprintf("actor '%s' does not own %s '%s'", e.Actor, e.Resource, e.Key)
}

// CollaboratorUnavailableError wraps a failed or timed-out call to an
// external collaborator. The report assembler downgrades it to a partial
// result; it is never surfaced as a hard failure of a report request.
type CollaboratorUnavailableError struct {
	Name string
	Err  error
}

func (e CollaboratorUnavailableError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("collaborator '%s' unavailable", e.Name)
	}
	return fmt.Sprintf("collaborator '%s' unavailable: %s", e.Name, e.Err.Error())
}

func (e CollaboratorUnavailableError) Unwrap() error {
	return e.Err
}

func IsValidation(err error) bool {
	var ve ValidationError
	return errors.As(err, &ve)
}

func IsNotFound(err error) bool {
	var nf NotFoundError
	return errors.As(err, &nf)
}

func IsForbidden(err error) bool {
	var fe ForbiddenError
	return errors.As(err, &fe)
}

func IsCollaboratorUnavailable(err error) bool {
	var cu CollaboratorUnavailableError
	return errors.As(err, &cu)
}
