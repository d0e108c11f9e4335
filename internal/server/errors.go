// Package server provides the HTTP REST API for the resume editor.
package server

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/jonathan/resume-forge/internal/document"
	"github.com/jonathan/resume-forge/internal/export"
	"github.com/jonathan/resume-forge/internal/identity"
	"github.com/jonathan/resume-forge/internal/llm"
	"github.com/jonathan/resume-forge/internal/proposal"
	"github.com/jonathan/resume-forge/internal/schemas"
	"github.com/jonathan/resume-forge/internal/wizard"
	"github.com/jonathan/resume-forge/internal/workspace"
)

// ErrValidation indicates request validation failure
type ErrValidation struct {
	Field   string
	Message string
}

func (e *ErrValidation) Error() string {
	return fmt.Sprintf("validation error: %s - %s", e.Field, e.Message)
}

// HTTPStatus returns the appropriate HTTP status code for an error
func HTTPStatus(err error) int {
	var (
		notFound   *document.NotFoundError
		invalidDoc *document.ValidationError
		invalidReq *ErrValidation
		schemaErr  *schemas.ValidationError
		configErr  *identity.ConfigError
		signInErr  *identity.Error
		aiErr      *llm.Error
		exportErr  *export.Error
	)

	switch {
	case err == nil:
		return http.StatusOK
	case errors.As(err, &notFound), errors.Is(err, proposal.ErrNoProposal):
		return http.StatusNotFound
	case errors.As(err, &invalidDoc), errors.As(err, &invalidReq),
		errors.As(err, &schemaErr), errors.As(err, &configErr):
		return http.StatusBadRequest
	case errors.As(err, &signInErr):
		return http.StatusUnauthorized
	case errors.Is(err, proposal.ErrBusy), errors.Is(err, proposal.ErrLocked),
		errors.Is(err, wizard.ErrProcessing), errors.Is(err, workspace.ErrExportInProgress):
		return http.StatusConflict
	case errors.As(err, &aiErr):
		switch aiErr.Kind {
		case llm.KindRateLimited:
			return http.StatusTooManyRequests
		case llm.KindMisconfigured:
			return http.StatusServiceUnavailable
		default:
			return http.StatusBadGateway
		}
	case errors.As(err, &exportErr):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// ErrorMessage returns the message shown to the user for err.
// Sign-in and AI failures carry their own user-facing wording.
func ErrorMessage(err error) string {
	var (
		signInErr *identity.Error
		configErr *identity.ConfigError
		aiErr     *llm.Error
	)
	switch {
	case errors.As(err, &signInErr):
		return signInErr.Message
	case errors.As(err, &configErr):
		return configErr.Message
	case errors.As(err, &aiErr):
		return aiErr.Message
	}
	return err.Error()
}
