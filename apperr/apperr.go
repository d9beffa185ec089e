// Package apperr classifies failures at the HTTP boundary into a closed set
// of kinds, each with a plain-text message and a distinct status code.
package apperr

import (
	"errors"
	"fmt"
	"io"
	"net/http"
)

type Kind int

const (
	KindInternal Kind = iota
	KindConfiguration
	KindExtraction
	KindEmpty
	KindGeneration
)

func (k Kind) String() string {
	switch k {
	case KindConfiguration:
		return "configuration"
	case KindExtraction:
		return "extraction"
	case KindEmpty:
		return "empty"
	case KindGeneration:
		return "generation"
	default:
		return "internal"
	}
}

// StatusCode returns the HTTP status written for errors of this kind.
func (k Kind) StatusCode() int {
	switch k {
	case KindConfiguration:
		return http.StatusServiceUnavailable
	case KindExtraction:
		return http.StatusUnprocessableEntity
	case KindEmpty:
		return http.StatusNotFound
	case KindGeneration:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// Error is a classified failure. Message is what the caller sees.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// New creates an error with a fixed message.
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Configuration reports missing or invalid settings.
func Configuration(message string) *Error {
	return New(KindConfiguration, message)
}

// Empty reports an informational "nothing to work with" outcome.
func Empty(message string) *Error {
	return New(KindEmpty, message)
}

// Extraction wraps a failure to read an uploaded document.
func Extraction(err error) *Error {
	return &Error{Kind: KindExtraction, Message: fmt.Sprintf("Error: %v", err), Err: err}
}

// Generation wraps any failure of the hosted LLM call.
func Generation(err error) *Error {
	return &Error{Kind: KindGeneration, Message: fmt.Sprintf("Groq API Error: %v", err), Err: err}
}

// Internal wraps an unclassified failure.
func Internal(err error) *Error {
	return &Error{Kind: KindInternal, Message: fmt.Sprintf("Error: %v", err), Err: err}
}

// From returns err as an *Error, classifying it as internal if needed.
func From(err error) *Error {
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return Internal(err)
}

// KindOf returns the kind of err, or KindInternal for unclassified errors.
func KindOf(err error) Kind {
	return From(err).Kind
}

// Write writes err as a plain-text response.
func Write(w http.ResponseWriter, err error) {
	e := From(err)
	WriteText(w, e.Message, e.Kind.StatusCode())
}

// WriteText writes a plain-text response with the given status.
func WriteText(w http.ResponseWriter, text string, status int) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(status)
	_, _ = io.WriteString(w, text)
}
