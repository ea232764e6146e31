package calcerr

import (
	"errors"
	"fmt"
	"strings"
)

// Code is the machine-readable failure kind returned by the engine.
type Code string

const (
	CodeInvalidInput   Code = "INVALID_INPUT"
	CodeSpeciesUnknown Code = "SPECIES_UNKNOWN"
	CodeSpanExceeded   Code = "SPAN_EXCEEDED"
)

// Field error codes reported by the validator.
const (
	FieldMissing            = "MISSING_FIELD"
	FieldOutOfRange         = "OUT_OF_RANGE"
	FieldInvalidEnum        = "INVALID_ENUM"
	FieldIllegalCombination = "ILLEGAL_COMBINATION"
)

// FieldError is one validation failure tied to a request field.
type FieldError struct {
	Field   string `json:"field"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (f FieldError) String() string {
	return fmt.Sprintf("%s: %s", f.Field, f.Message)
}

// Error is a tagged engine failure.
type Error struct {
	Code    Code         `json:"code"`
	Message string       `json:"message"`
	Fields  []FieldError `json:"fields,omitempty"`
	Cause   error        `json:"-"`
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

func New(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

func Newf(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

func Wrap(code Code, message string, cause error) *Error {
	return &Error{Code: code, Message: message, Cause: cause}
}

// Invalid builds an INVALID_INPUT error carrying every field failure.
// The message joins the individual failures so callers that only print
// Error() still see all of them.
func Invalid(fields []FieldError) *Error {
	parts := make([]string, 0, len(fields))
	for _, f := range fields {
		parts = append(parts, f.String())
	}
	return &Error{
		Code:    CodeInvalidInput,
		Message: strings.Join(parts, "; "),
		Fields:  fields,
	}
}

// CodeOf returns the tag of a calcerr.Error anywhere in the chain, or "".
func CodeOf(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

func Is(err error, code Code) bool {
	return err != nil && CodeOf(err) == code
}
