package transport

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/moogar0880/problems"
	"github.com/rpggio/l10n-tracker/internal/mcp"
)

const problemContentType = "application/problem+json"

func writeProblem(w http.ResponseWriter, r *http.Request, status int, typ, detail string) {
	problem := problems.NewStatusProblem(status).
		WithInstance(r.URL.Path).
		WithType(typ).
		WithDetail(detail)

	w.Header().Set("Content-Type", problemContentType)
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(problem)
}

func badRequest(w http.ResponseWriter, r *http.Request, detail string) {
	writeProblem(w, r, http.StatusBadRequest, "validation_error", detail)
}

func notFound(w http.ResponseWriter, r *http.Request, detail string) {
	writeProblem(w, r, http.StatusNotFound, "not_found", detail)
}

// writeServiceError renders a command or service error as a problem document.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	apiErr := mcp.MapError(err)
	if apiErr == nil {
		problem := problems.NewStatusProblem(http.StatusInternalServerError).
			WithInstance(r.URL.Path).
			WithType("internal_error").
			WithError(err)
		w.Header().Set("Content-Type", problemContentType)
		w.WriteHeader(http.StatusInternalServerError)
		_ = json.NewEncoder(w).Encode(problem)
		return
	}
	writeProblem(w, r, problemStatus(apiErr.Code), strings.ToLower(apiErr.Code), apiErr.Message)
}

func problemStatus(code string) int {
	switch code {
	case "PROJECT_NOT_FOUND", "NOT_FOUND":
		return http.StatusNotFound
	case "DUPLICATE_ID":
		return http.StatusConflict
	case "NOT_PERSISTED":
		return http.StatusInternalServerError
	default:
		return http.StatusBadRequest
	}
}

// rpcError converts a command error to a JSON-RPC error object.
func rpcError(err error) (code int, message string, data any) {
	if errors.Is(err, mcp.ErrUnknownMethod) {
		return ErrMethodNotFound, err.Error(), nil
	}
	apiErr := mcp.MapError(err)
	if apiErr == nil {
		return ErrInternal, err.Error(), nil
	}
	if apiErr.Code == "INVALID_PARAMS" {
		return ErrInvalidParams, apiErr.Message, apiErr
	}
	return ErrApplication, apiErr.Message, apiErr
}
