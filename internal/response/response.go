// Package response builds the JSON envelope every API endpoint returns.
package response

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/dukerupert/coursehub/internal/validate"
	"github.com/google/uuid"
)

// Meta is stamped once per builder, so every response produced by one
// builder shares the same request id and timestamp.
type Meta struct {
	Timestamp string `json:"timestamp"`
	RequestID string `json:"request_id"`
	Version   string `json:"version"`
}

type Response struct {
	Status  int                   `json:"-"`
	Success bool                  `json:"success"`
	Data    any                   `json:"data,omitempty"`
	Message string                `json:"message,omitempty"`
	Error   string                `json:"error,omitempty"`
	Details []validate.FieldError `json:"details,omitempty"`
	Meta    Meta                  `json:"meta"`
}

type Builder struct {
	meta Meta
}

// New returns a builder with a fresh request id.
func New(version string) *Builder {
	return NewWithID(uuid.NewString(), version)
}

// NewWithID returns a builder reusing an existing request id, typically the
// one assigned by the request logger.
func NewWithID(requestID, version string) *Builder {
	return &Builder{meta: Meta{
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		RequestID: requestID,
		Version:   version,
	}}
}

func (b *Builder) Meta() Meta {
	return b.meta
}

func (b *Builder) Success(data any, message string) Response {
	return Response{Status: http.StatusOK, Success: true, Data: data, Message: message, Meta: b.meta}
}

// Created is Success with a 201 status.
func (b *Builder) Created(data any, message string) Response {
	r := b.Success(data, message)
	r.Status = http.StatusCreated
	return r
}

// Error is a 400 with an optional list of field details.
func (b *Builder) Error(msg string, details ...validate.FieldError) Response {
	var d []validate.FieldError
	if len(details) > 0 {
		d = make([]validate.FieldError, len(details))
		copy(d, details)
	}
	return Response{Status: http.StatusBadRequest, Error: msg, Details: d, Meta: b.meta}
}

func (b *Builder) ValidationError(errs []validate.FieldError) Response {
	return b.Error("Validation failed", errs...)
}

func (b *Builder) NotFound(resource string) Response {
	return b.fail(http.StatusNotFound, fmt.Sprintf("%s not found", resource))
}

func (b *Builder) Unauthorized(msg string) Response {
	return b.fail(http.StatusUnauthorized, orDefault(msg, "Not authenticated"))
}

func (b *Builder) Forbidden(msg string) Response {
	return b.fail(http.StatusForbidden, orDefault(msg, "Forbidden"))
}

func (b *Builder) Conflict(msg string) Response {
	return b.fail(http.StatusConflict, msg)
}

func (b *Builder) InternalError(msg string) Response {
	return b.fail(http.StatusInternalServerError, orDefault(msg, "Internal server error"))
}

func (b *Builder) TooManyRequests(msg string) Response {
	return b.fail(http.StatusTooManyRequests, orDefault(msg, "Too many requests"))
}

func (b *Builder) fail(status int, msg string) Response {
	return Response{Status: status, Error: msg, Meta: b.meta}
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}

// Write encodes resp with its status code.
func Write(w http.ResponseWriter, resp Response) {
	status := resp.Status
	if status == 0 {
		status = http.StatusOK
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(resp)
}
