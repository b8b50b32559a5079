package service_errors

import (
	"errors"
	"fmt"
	"net/http"
)

type Kind string

const (
	KindNotFound         Kind = "NOT_FOUND"
	KindForbidden        Kind = "FORBIDDEN"
	KindValidationFailed Kind = "VALIDATION_FAILED"
	// request body or path could not be decoded
	KindBadRequest Kind = "BAD_REQUEST"
	// reserved for optimistic-lock violations
	KindConflict Kind = "CONFLICT"
	KindInternal Kind = "INTERNAL"
)

// ServiceError is the tagged result every core operation returns on a
// rejected request. Anything else reaching the boundary is internal.
type ServiceError struct {
	Kind    Kind   `json:"kind"`
	Message string `json:"message"`
}

func (e *ServiceError) Error() string {
	return e.Message
}

func NotFound(format string, args ...any) error {
	return &ServiceError{Kind: KindNotFound, Message: fmt.Sprintf(format, args...)}
}

func Forbidden(format string, args ...any) error {
	return &ServiceError{Kind: KindForbidden, Message: fmt.Sprintf(format, args...)}
}

func Validation(format string, args ...any) error {
	return &ServiceError{Kind: KindValidationFailed, Message: fmt.Sprintf(format, args...)}
}

func Conflict(format string, args ...any) error {
	return &ServiceError{Kind: KindConflict, Message: fmt.Sprintf(format, args...)}
}

func KindOf(err error) Kind {
	var serviceErr *ServiceError
	if errors.As(err, &serviceErr) {
		return serviceErr.Kind
	}

	return KindInternal
}

func Is(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}

func HTTPStatus(kind Kind) int {
	switch kind {
	case KindNotFound:
		return http.StatusNotFound
	case KindForbidden:
		return http.StatusForbidden
	case KindValidationFailed:
		return http.StatusUnprocessableEntity
	case KindBadRequest:
		return http.StatusBadRequest
	case KindConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
