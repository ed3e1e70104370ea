package httputil

import (
	"context"
	"net/http"
)

// Context key type to avoid collisions
type contextKey string

const subjectKey contextKey = "subject"

// WithSubject attaches the authenticated token subject to the request context.
func WithSubject(r *http.Request, subject string) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), subjectKey, subject))
}

// GetSubject returns the authenticated subject, or "" when auth is disabled.
func GetSubject(r *http.Request) string {
	subject, _ := r.Context().Value(subjectKey).(string)
	return subject
}
