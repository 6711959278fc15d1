package domain

import (
	"errors"
	"fmt"
)

var (
	ErrUnsupportedFileType     = errors.New("unsupported file type")
	ErrFileTooLarge            = errors.New("file exceeds maximum allowed size")
	ErrEmptyPrompt             = errors.New("prompt must not be empty")
	ErrSessionNotFound         = errors.New("session not found")
	ErrNoInvoiceData           = errors.New("session has no processed invoice")
	ErrUnsupportedExportFormat = errors.New("unsupported export format")
)

// StageError reports an unexpected failure of a pipeline or conversation stage.
type StageError struct {
	Stage Stage
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s stage failed: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}

// NewStageError wraps err with the stage it happened in.
func NewStageError(stage Stage, err error) *StageError {
	return &StageError{Stage: stage, Err: err}
}
