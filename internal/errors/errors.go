// Package errors defines stencil's structured error types and a collector
// for render failures that must not abort a whole rebuild cycle.
package errors

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"
)

// ErrorType represents different categories of errors.
type ErrorType string

const (
	ErrorTypeIO     ErrorType = "io"
	ErrorTypeConfig ErrorType = "config"
	ErrorTypeRender ErrorType = "render"
	ErrorTypeWatch  ErrorType = "watch"
)

// StencilError is a structured error with a category, a stable code, and an
// optional file path for template-related failures.
type StencilError struct {
	Type     ErrorType
	Code     string
	Message  string
	FilePath string
	Cause    error
}

// Error implements the error interface.
func (e *StencilError) Error() string {
	var parts []string
	if e.Code != "" {
		parts = append(parts, fmt.Sprintf("[%s]", e.Code))
	}
	if e.FilePath != "" {
		parts = append(parts, e.FilePath)
	}
	parts = append(parts, e.Message)

	result := strings.Join(parts, " ")
	if e.Cause != nil {
		result += fmt.Sprintf(": %v", e.Cause)
	}
	return result
}

// Unwrap returns the underlying cause.
func (e *StencilError) Unwrap() error {
	return e.Cause
}

// Is matches on type and code so callers can compare against sentinel
// StencilErrors.
func (e *StencilError) Is(target error) bool {
	var t *StencilError
	if errors.As(target, &t) {
		return e.Type == t.Type && e.Code == t.Code
	}
	return false
}

// IOError wraps an unexpected filesystem failure. These are fatal to the
// operation that hit them; missing files during editing never take this
// path.
func IOError(code, path string, cause error) *StencilError {
	return &StencilError{
		Type:     ErrorTypeIO,
		Code:     code,
		Message:  "filesystem operation failed",
		FilePath: path,
		Cause:    cause,
	}
}

// ConfigError reports an invalid configuration value.
func ConfigError(code, message string) *StencilError {
	return &StencilError{Type: ErrorTypeConfig, Code: code, Message: message}
}

// RenderError reports a failure compiling one document.
func RenderError(path string, cause error) *StencilError {
	return &StencilError{
		Type:     ErrorTypeRender,
		Code:     "RENDER_FAILED",
		Message:  "rendering document failed",
		FilePath: path,
		Cause:    cause,
	}
}

// RenderFailure is one document's failure within a rebuild cycle.
type RenderFailure struct {
	Document  string
	Err       error
	Timestamp time.Time
}

// Collector accumulates per-document render failures during a flush or full
// build. It is safe for concurrent use.
type Collector struct {
	failures []RenderFailure
	mutex    sync.RWMutex
}

// NewCollector creates an empty collector.
func NewCollector() *Collector {
	return &Collector{}
}

// Add records a failure for one document.
func (c *Collector) Add(document string, err error) {
	if err == nil {
		return
	}
	c.mutex.Lock()
	defer c.mutex.Unlock()
	c.failures = append(c.failures, RenderFailure{
		Document:  document,
		Err:       err,
		Timestamp: time.Now(),
	})
}

// Failures returns a copy of the collected failures.
func (c *Collector) Failures() []RenderFailure {
	c.mutex.RLock()
	defer c.mutex.RUnlock()
	result := make([]RenderFailure, len(c.failures))
	copy(result, c.failures)
	return result
}

// HasFailures reports whether any failures were collected.
func (c *Collector) HasFailures() bool {
	c.mutex.RLock()
	defer c.mutex.RUnlock()
	return len(c.failures) > 0
}

// Clear drops all collected failures, ready for the next cycle.
func (c *Collector) Clear() {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	c.failures = c.failures[:0]
}
