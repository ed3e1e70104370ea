package domain

import (
	"errors"
	"fmt"
	"net/http"
)

// Sentinel errors - match with errors.Is()
var (
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("already exists")
	ErrValidation   = errors.New("validation failed")
	ErrUnauthorized = errors.New("unauthorized")
)

// HTTPError defines errors that carry their own HTTP status code.
type HTTPError interface {
	error
	StatusCode() int
}

// ConflictError represents a resource conflict.
type ConflictError struct {
	Message string
}

func (e *ConflictError) Error() string   { return e.Message }
func (e *ConflictError) StatusCode() int { return http.StatusConflict }

// Is allows errors.Is() to match against ErrConflict
func (e *ConflictError) Is(target error) bool {
	return target == ErrConflict
}

// UpstreamError represents a non-2xx response from one of the external
// services (Zeus, Athena, Nextcloud). The upstream status is forwarded
// to the browser rather than collapsed into a generic 500.
type UpstreamError struct {
	Service string // "zeus", "athena", "nextcloud"
	Status  int
	Message string
}

func (e *UpstreamError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s error: %s", e.Service, e.Message)
	}
	return fmt.Sprintf("%s error: status %d", e.Service, e.Status)
}

func (e *UpstreamError) StatusCode() int {
	if e.Status >= 400 && e.Status < 600 {
		return e.Status
	}
	return http.StatusBadGateway
}

// ConfigError indicates missing service credentials or configuration.
// Surfaces as a 500 with a descriptive message.
type ConfigError struct {
	Message string
}

func (e *ConfigError) Error() string   { return e.Message }
func (e *ConfigError) StatusCode() int { return http.StatusInternalServerError }
