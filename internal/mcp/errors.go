package mcp

import (
	"errors"
	"fmt"

	"github.com/rpggio/l10n-tracker/internal/domain/activity"
	"github.com/rpggio/l10n-tracker/internal/domain/docs"
	"github.com/rpggio/l10n-tracker/internal/domain/project"
	"github.com/rpggio/l10n-tracker/internal/filestore"
	"github.com/rpggio/l10n-tracker/internal/repository"
)

// ErrUnknownMethod is returned for commands the handler does not know.
var ErrUnknownMethod = errors.New("unknown method")

// APIError represents a command error response.
type APIError struct {
	Code         string `json:"code"`
	Message      string `json:"message"`
	Details      any    `json:"details,omitempty"`
	RecoveryHint string `json:"recovery_hint,omitempty"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// MapError maps domain errors to API error codes. It returns nil for errors
// without a code.
func MapError(err error) *APIError {
	if err == nil {
		return nil
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr
	}
	switch {
	case errors.Is(err, project.ErrNotPersisted):
		return &APIError{Code: "NOT_PERSISTED", Message: "change kept in memory but not saved to disk", RecoveryHint: "Check disk space and permissions, then call save_progress"}
	case errors.Is(err, project.ErrInvalidID):
		return &APIError{Code: "INVALID_ID", Message: "project ID is empty or reserved", RecoveryHint: "Enter a request ID other than GTS"}
	case errors.Is(err, project.ErrDuplicateID):
		return &APIError{Code: "DUPLICATE_ID", Message: "project already exists", RecoveryHint: "Select the existing project instead"}
	case errors.Is(err, project.ErrUnknownStep):
		return &APIError{Code: "UNKNOWN_STEP", Message: err.Error(), RecoveryHint: "Call get_catalog for valid step names"}
	case errors.Is(err, project.ErrUnknownType):
		return &APIError{Code: "UNKNOWN_TYPE", Message: err.Error(), RecoveryHint: "Use Product and/or Marketing"}
	case errors.Is(err, project.ErrProjectNotFound):
		return &APIError{Code: "PROJECT_NOT_FOUND", Message: "project not found", RecoveryHint: "Check ID spelling or call list_projects"}
	case errors.Is(err, filestore.ErrParse):
		return &APIError{Code: "PARSE_ERROR", Message: err.Error(), RecoveryHint: "Upload a JSON file exported by this tracker"}
	case errors.Is(err, filestore.ErrInvalidStructure):
		return &APIError{Code: "INVALID_STRUCTURE", Message: err.Error(), RecoveryHint: "The document must be an object of project objects"}
	case errors.Is(err, docs.ErrMissingFile):
		return &APIError{Code: "MISSING_FILE", Message: "no file uploaded", RecoveryHint: "Attach a screenshot before saving"}
	case errors.Is(err, docs.ErrEntryNotFound), errors.Is(err, repository.ErrNotFound):
		return &APIError{Code: "NOT_FOUND", Message: err.Error()}
	case errors.Is(err, repository.ErrInvalidInput), errors.Is(err, activity.ErrInvalidInput):
		return &APIError{Code: "INVALID_INPUT", Message: err.Error()}
	default:
		return nil
	}
}

func mapError(err error) error {
	if apiErr := MapError(err); apiErr != nil {
		return apiErr
	}
	return err
}

// resultCode labels a command outcome for metrics.
func resultCode(err error) string {
	switch {
	case err == nil:
		return "OK"
	case errors.Is(err, ErrUnknownMethod):
		return "UNKNOWN_METHOD"
	}
	if apiErr := MapError(err); apiErr != nil {
		return apiErr.Code
	}
	return "INTERNAL"
}
