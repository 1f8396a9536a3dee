package repositories

import (
	"context"
	"errors"
	"fmt"

	"orbio/pkg/postgrest"

	"github.com/go-playground/validator/v10"
	"gorm.io/gorm"
)

// ErrorCode classifies a data access failure.
type ErrorCode string

const (
	CodeNotFound      ErrorCode = "NOT_FOUND"
	CodeInvalidInput  ErrorCode = "INVALID_INPUT"
	CodeConflict      ErrorCode = "CONFLICT"
	CodeUnauthorized  ErrorCode = "UNAUTHORIZED"
	CodeNotConfigured ErrorCode = "NOT_CONFIGURED"
	CodeCanceled      ErrorCode = "CANCELED"
	CodeNetwork       ErrorCode = "NETWORK_ERROR"
	CodeDatabase      ErrorCode = "DATABASE_ERROR"
)

// ErrNotFound matches any DataAccessError whose code is CodeNotFound.
var ErrNotFound = errors.New("record not found")

var errDuplicate = errors.New("duplicate key")

// DataAccessError is returned by every accessor call that fails.
type DataAccessError struct {
	Table string
	Op    string
	Code  ErrorCode
	Err   error
}

func (e *DataAccessError) Error() string {
	return fmt.Sprintf("%s.%s: %s: %v", e.Table, e.Op, e.Code, e.Err)
}

func (e *DataAccessError) Unwrap() error { return e.Err }

func (e *DataAccessError) Is(target error) bool {
	return target == ErrNotFound && e.Code == CodeNotFound
}

// CodeOf returns the code of the DataAccessError in err's chain, or CodeDatabase.
func CodeOf(err error) ErrorCode {
	var dae *DataAccessError
	if errors.As(err, &dae) {
		return dae.Code
	}
	return classify(err)
}

func newError(table, op string, code ErrorCode, err error) *DataAccessError {
	return &DataAccessError{Table: table, Op: op, Code: code, Err: err}
}

func wrapError(table, op string, err error) error {
	var dae *DataAccessError
	if errors.As(err, &dae) {
		return err
	}
	return newError(table, op, classify(err), err)
}

func classify(err error) ErrorCode {
	var (
		pgErr     *postgrest.Error
		validErrs validator.ValidationErrors
	)
	switch {
	case errors.Is(err, ErrNotFound), errors.Is(err, gorm.ErrRecordNotFound):
		return CodeNotFound
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return CodeCanceled
	case errors.Is(err, postgrest.ErrNotConfigured):
		return CodeNotConfigured
	case errors.Is(err, postgrest.ErrUnreachable):
		return CodeNetwork
	case errors.Is(err, gorm.ErrDuplicatedKey), errors.Is(err, errDuplicate):
		return CodeConflict
	case errors.As(err, &validErrs):
		return CodeInvalidInput
	case errors.As(err, &pgErr):
		return classifyRemote(pgErr)
	}
	return CodeDatabase
}

func classifyRemote(e *postgrest.Error) ErrorCode {
	switch e.Code {
	case "PGRST116":
		return CodeNotFound
	case "23505":
		return CodeConflict
	case "42501", "PGRST301", "invalid_grant", "invalid_credentials":
		return CodeUnauthorized
	case "22P02", "23502", "23514", "PGRST204":
		return CodeInvalidInput
	}
	switch {
	case e.Status == 401 || e.Status == 403:
		return CodeUnauthorized
	case e.Status == 404:
		return CodeNotFound
	case e.Status == 409:
		return CodeConflict
	case e.Status == 400 || e.Status == 422:
		return CodeInvalidInput
	}
	return CodeDatabase
}
