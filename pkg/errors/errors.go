package errors

import (
	"fmt"
)

// ConfigError reports an invalid or incomplete declared document, or a
// request for a resource kind that has no registered descriptor or handler.
type ConfigError struct {
	Field   string
	Message string
	Err     error
}

// NewConfigError constructs a ConfigError.
func NewConfigError(field, message string, err error) error {
	return &ConfigError{Field: field, Message: message, Err: err}
}

func (e *ConfigError) Error() string {
	if e == nil {
		return ""
	}
	if e.Field != "" {
		return fmt.Sprintf("config error: %s: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("config error: %s", e.Message)
}

// Unwrap exposes the underlying error.
func (e *ConfigError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// ParseError represents a YAML parsing failure with optional line metadata.
type ParseError struct {
	Path    string
	Line    int
	Message string
	Err     error
}

// NewParseError constructs a ParseError.
func NewParseError(path string, line int, err error) error {
	message := ""
	if err != nil {
		message = err.Error()
	}
	return &ParseError{Path: path, Line: line, Message: message, Err: err}
}

func (e *ParseError) Error() string {
	if e == nil {
		return ""
	}
	if e.Line > 0 {
		return fmt.Sprintf("parse error: %s:%d: %s", e.Path, e.Line, e.Message)
	}
	return fmt.Sprintf("parse error: %s: %s", e.Path, e.Message)
}

// Unwrap exposes the underlying error.
func (e *ParseError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// TransportError reports a non-2xx controller response that was not masked
// for the current operation. The message carries the request path, the HTTP
// status and the response body so a failed run is diagnosable without
// re-running under higher verbosity.
type TransportError struct {
	Path   string
	Status int
	Body   string
}

// NewTransportError constructs a TransportError.
func NewTransportError(path string, status int, body string) error {
	return &TransportError{Path: path, Status: status, Body: body}
}

func (e *TransportError) Error() string {
	if e == nil {
		return ""
	}
	if e.Body != "" {
		return fmt.Sprintf("controller at %s returned HTTP %d: %s", e.Path, e.Status, e.Body)
	}
	return fmt.Sprintf("controller at %s returned HTTP %d", e.Path, e.Status)
}

// StructuralError reports a successful controller response whose body does
// not contain the envelope key the resource descriptor expects.
type StructuralError struct {
	Envelope []string
	Key      string
}

// NewStructuralError constructs a StructuralError.
func NewStructuralError(envelope []string, key string) error {
	return &StructuralError{Envelope: envelope, Key: key}
}

func (e *StructuralError) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("controller response does not include %v, misses attribute %s",
		e.Envelope, e.Key)
}

// DomainError reports a preprocessing or lookup hook that could not resolve a
// cross-reference, such as an unknown country code or network name.
type DomainError struct {
	Kind    string
	Message string
	Err     error
}

// NewDomainError constructs a DomainError for the given resource kind.
func NewDomainError(kind, message string, err error) error {
	return &DomainError{Kind: kind, Message: message, Err: err}
}

func (e *DomainError) Error() string {
	if e == nil {
		return ""
	}
	if e.Kind != "" {
		return fmt.Sprintf("%s: %s", e.Kind, e.Message)
	}
	return e.Message
}

// Unwrap exposes the underlying error.
func (e *DomainError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}
