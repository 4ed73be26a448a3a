package utils

import (
	"errors"
	"fmt"
	"net/http"

	"go.uber.org/zap"
)

// ValidationError is missing or malformed client input.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

func Validation(format string, args ...interface{}) error {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// NotFoundError does not say whether the resource is absent or owned by
// someone else.
type NotFoundError struct {
	Resource string
}

func (e *NotFoundError) Error() string { return e.Resource + " not found" }

func NotFound(resource string) error {
	return &NotFoundError{Resource: resource}
}

// StorageError wraps a failed database operation. Only Op reaches logs with
// the cause; clients get a generic message.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string { return fmt.Sprintf("storage: %s: %v", e.Op, e.Err) }
func (e *StorageError) Unwrap() error { return e.Err }

func Storage(op string, err error) error {
	return &StorageError{Op: op, Err: err}
}

// AuthError is a missing, invalid or expired credential.
type AuthError struct {
	Message string
}

func (e *AuthError) Error() string { return e.Message }

// UpstreamError is a failed call to a third-party API.
type UpstreamError struct {
	Service string
	Message string
	Err     error
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("%s: %v", e.Service, e.Err)
}
func (e *UpstreamError) Unwrap() error { return e.Err }

func Upstream(service, message string, err error) error {
	return &UpstreamError{Service: service, Message: message, Err: err}
}

// StatusFor maps an error from any service to its HTTP status.
func StatusFor(err error) int {
	var (
		ve *ValidationError
		ne *NotFoundError
		ae *AuthError
		ue *UpstreamError
	)
	switch {
	case errors.As(err, &ve):
		return http.StatusBadRequest
	case errors.As(err, &ne):
		return http.StatusNotFound
	case errors.As(err, &ae):
		return http.StatusUnauthorized
	case errors.As(err, &ue):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// RespondWithAppError writes err as {"message": ...}. Server-side failures
// are logged in full and answered with a generic message.
func RespondWithAppError(w http.ResponseWriter, log *zap.Logger, err error) {
	code := StatusFor(err)
	switch code {
	case http.StatusInternalServerError:
		log.Error("request failed", zap.Error(err))
		RespondWithError(w, code, "Server error")
	case http.StatusBadGateway:
		log.Warn("upstream failed", zap.Error(err))
		var ue *UpstreamError
		errors.As(err, &ue)
		msg := ue.Message
		if msg == "" {
			msg = "Upstream service unavailable"
		}
		RespondWithError(w, code, msg)
	default:
		RespondWithError(w, code, clientMessage(err))
	}
}

// clientMessage drops the wrapping context added on the way up and returns
// the typed error's own message.
func clientMessage(err error) string {
	var (
		ve *ValidationError
		ne *NotFoundError
		ae *AuthError
	)
	switch {
	case errors.As(err, &ve):
		return ve.Message
	case errors.As(err, &ne):
		return ne.Error()
	case errors.As(err, &ae):
		return ae.Message
	}
	return err.Error()
}

func IsNotFound(err error) bool {
	var ne *NotFoundError
	return errors.As(err, &ne)
}
