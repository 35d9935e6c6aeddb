package exerr

import (
	"fmt"
	"strings"
)

// ErrorType defines the category of the error.
type ErrorType string

const (
	TypeInput    ErrorType = "InputError"
	TypeInternal ErrorType = "InternalError"
)

// ExaltError is the interface for all exalt-related errors.
type ExaltError interface {
	error
	Type() ErrorType
}

// BaseError provides common fields for exalt errors.
type BaseError struct {
	Msg     string
	ErrType ErrorType
}

func (e *BaseError) Error() string {
	return fmt.Sprintf("[%s] %s", e.ErrType, e.Msg)
}

func (e *BaseError) Type() ErrorType {
	return e.ErrType
}

// InputError represents malformed or undecodable input: a serialized
// typed tree that does not match the expected shape. These are user-visible
// errors, not compiler defects.
type InputError struct {
	BaseError
	Path string
}

func (e *InputError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("[%s] %s: %s", e.ErrType, e.Path, e.Msg)
	}
	return fmt.Sprintf("[%s] %s", e.ErrType, e.Msg)
}

// InternalError represents a compiler-internal consistency fault: an
// extractor failing after its predicate matched, or the printer meeting
// a node shape it has no case for. These always indicate a defect in an
// earlier stage, never bad user input.
type InternalError struct {
	BaseError
	Stage string // pass or component name, e.g. "collapse-temp-binds", "printer"
}

func (e *InternalError) Error() string {
	if e.Stage != "" {
		return fmt.Sprintf("[%s] %s: %s", e.ErrType, e.Stage, e.Msg)
	}
	return fmt.Sprintf("[%s] %s", e.ErrType, e.Msg)
}

// MultiError collects multiple exalt errors.
type MultiError struct {
	Errors []error
}

func (m *MultiError) Error() string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%d error(s) occurred:\n", len(m.Errors)))
	for _, err := range m.Errors {
		sb.WriteString(fmt.Sprintf("- %v\n", err))
	}
	return sb.String()
}

func (m *MultiError) Type() ErrorType {
	if len(m.Errors) > 0 {
		if ee, ok := m.Errors[0].(ExaltError); ok {
			return ee.Type()
		}
	}
	return "MultiError"
}

// NewInputError creates a new InputError.
func NewInputError(msg string) *InputError {
	return &InputError{
		BaseError: BaseError{
			Msg:     msg,
			ErrType: TypeInput,
		},
	}
}

// NewInputErrorAt creates an InputError referencing a path within the
// decoded document (e.g. "body[2].init").
func NewInputErrorAt(path, msg string) *InputError {
	return &InputError{
		BaseError: BaseError{
			Msg:     msg,
			ErrType: TypeInput,
		},
		Path: path,
	}
}

// NewInternalError creates a new InternalError attributed to a stage.
func NewInternalError(stage, msg string) *InternalError {
	return &InternalError{
		BaseError: BaseError{
			Msg:     msg,
			ErrType: TypeInternal,
		},
		Stage: stage,
	}
}

// NewInternalErrorf is NewInternalError with formatting.
func NewInternalErrorf(stage, format string, args ...any) *InternalError {
	return NewInternalError(stage, fmt.Sprintf(format, args...))
}

// NewMultiError aggregates errs into one error. An empty list yields
// nil and a single entry is returned as itself.
func NewMultiError(errs ...error) error {
	switch len(errs) {
	case 0:
		return nil
	case 1:
		return errs[0]
	}
	return &MultiError{Errors: errs}
}

// Defect panics with an InternalError. Extraction defects and printer
// exhaustiveness faults are not recoverable conditions: the predicate and
// extractor (or an earlier pass and the printer) have drifted out of sync,
// so the pipeline aborts. The compiler's public entry recovers the panic
// and surfaces it as an error.
func Defect(stage, format string, args ...any) {
	panic(NewInternalErrorf(stage, format, args...))
}

// Recover converts a Defect panic into the error it carries. Any other
// panic value is re-raised. Intended for use in a deferred call at the
// pipeline boundary:
//
//	defer exerr.Recover(&err)
func Recover(err *error) {
	if r := recover(); r != nil {
		if ie, ok := r.(*InternalError); ok {
			*err = ie
			return
		}
		panic(r)
	}
}
