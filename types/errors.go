package types

import (
	"fmt"
	"strings"

	"github.com/cockroachdb/errors"
)

type ErrorLevel string

const (
	LevelWarning ErrorLevel = "warning"
	LevelError   ErrorLevel = "error"
)

const parseErrorHeader = "Unable to parse this part of your OpenAPI document: "

// GeneratorError is a problem found while reading the document or producing the project.
// Warnings do not stop generation, errors drop the affected part.
type GeneratorError struct {
	Level    ErrorLevel
	Header   string
	Detail   string
	Location string

	cause error
}

func NewError(header string, detail string) *GeneratorError {
	return &GeneratorError{Level: LevelError, Header: header, Detail: detail}
}

func NewWarning(header string, detail string) *GeneratorError {
	return &GeneratorError{Level: LevelWarning, Header: header, Detail: detail}
}

// NewParseError reports an unusable fragment of the document at location.
func NewParseError(location string, format string, args ...interface{}) *GeneratorError {
	return &GeneratorError{
		Level:    LevelError,
		Header:   parseErrorHeader,
		Detail:   fmt.Sprintf(format, args...),
		Location: location,
	}
}

// WrapError keeps err as the cause and uses its flattened message as detail.
func WrapError(err error, header string) *GeneratorError {
	if err == nil {
		return nil
	}

	return &GeneratorError{
		Level:  LevelError,
		Header: header,
		Detail: err.Error(),
		cause:  errors.WithStack(err),
	}
}

func (e *GeneratorError) AsWarning() *GeneratorError {
	copied := *e
	copied.Level = LevelWarning

	return &copied
}

func (e *GeneratorError) At(location string) *GeneratorError {
	copied := *e
	copied.Location = location

	return &copied
}

func (e *GeneratorError) Error() string {
	var sb strings.Builder

	sb.WriteString(e.Header)
	if e.Detail != "" {
		if !strings.HasSuffix(e.Header, " ") && e.Header != "" {
			sb.WriteString(": ")
		}
		sb.WriteString(e.Detail)
	}

	if e.Location != "" {
		sb.WriteString(" (")
		sb.WriteString(e.Location)
		sb.WriteString(")")
	}

	return sb.String()
}

func (e *GeneratorError) Unwrap() error { return e.cause }

// Report renders the error the way the command line prints it.
func (e *GeneratorError) Report() string {
	var sb strings.Builder

	sb.WriteString(strings.TrimSpace(e.Header))
	sb.WriteString("\n")

	if e.Detail != "" {
		sb.WriteString("\n")
		sb.WriteString(e.Detail)
		sb.WriteString("\n")
	}

	if e.Location != "" {
		sb.WriteString("\n")
		sb.WriteString("at ")
		sb.WriteString(e.Location)
		sb.WriteString("\n")
	}

	if e.cause != nil {
		if hints := errors.FlattenHints(e.cause); hints != "" {
			sb.WriteString("\n")
			sb.WriteString(hints)
			sb.WriteString("\n")
		}
	}

	return sb.String()
}

// AsGeneratorError unwraps err into a GeneratorError, wrapping foreign errors.
func AsGeneratorError(err error) *GeneratorError {
	if err == nil {
		return nil
	}

	var generatorErr *GeneratorError
	if errors.As(err, &generatorErr) {
		return generatorErr
	}

	return WrapError(err, "Generation failed")
}

func HasLevel(errs []*GeneratorError, level ErrorLevel) bool {
	for _, err := range errs {
		if err != nil && err.Level == level {
			return true
		}
	}

	return false
}
