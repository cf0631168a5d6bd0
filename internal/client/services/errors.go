package services

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidInput is matched by every FieldError.
	ErrInvalidInput     = errors.New("invalid input")
	ErrSubmitInProgress = errors.New("answer submission already in progress")
	ErrSurveyNotLoaded  = errors.New("survey is not loaded")
	ErrSurveyClosed     = errors.New("survey is closed")
)

// FieldError reports a rejected input field before any request is sent.
// Tag is the validation rule that failed, e.g. "email" or "len".
type FieldError struct {
	Field string
	Tag   string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("invalid input: %s (%s)", e.Field, e.Tag)
}

func (e *FieldError) Is(target error) bool {
	return target == ErrInvalidInput
}
