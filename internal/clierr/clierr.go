// Package clierr defines the error taxonomy shared by every stage of the
// verb engine. A single Error type carries a Kind plus whatever context the
// failing stage knew about (component, verb, parameter, offending value).
//
// Callers match on kinds with errors.Is:
//
//	if errors.Is(err, clierr.UnknownVerb) { ... }
package clierr

import (
	"errors"
	"fmt"
	"strings"
)

// Kind classifies an engine error.
type Kind int

const (
	// Unknown is the zero Kind and never produced by the engine.
	Unknown Kind = iota
	MissingVerb
	MissingComponentName
	InvalidVerbSyntax
	UnknownComponent
	UnknownVerb
	MissingRequiredParameter
	ParameterFormat
	UnknownParameter
	DuplicateParameter
	ValidationFailed
	InjectionFailed
	InvalidTarget
	Configuration
)

var kindNames = map[Kind]string{
	Unknown:                  "unknown",
	MissingVerb:              "missing verb",
	MissingComponentName:     "missing component name",
	InvalidVerbSyntax:        "invalid verb syntax",
	UnknownComponent:         "unknown component",
	UnknownVerb:              "unknown verb",
	MissingRequiredParameter: "missing required parameter",
	ParameterFormat:          "parameter format error",
	UnknownParameter:         "unknown parameter",
	DuplicateParameter:       "duplicate parameter",
	ValidationFailed:         "validation failed",
	InjectionFailed:          "injection failed",
	InvalidTarget:            "invalid target",
	Configuration:            "configuration error",
}

// String returns the human-readable name of the kind.
func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Error lets a bare Kind be used as an errors.Is target.
func (k Kind) Error() string {
	return k.String()
}

// Error is the concrete error produced by the engine.
type Error struct {
	Kind        Kind
	Component   string
	Verb        string
	Param       string
	Value       string
	Rule        string
	Message     string
	Suggestions []string
	Err         error
}

// Error implements the error interface.
func (e *Error) Error() string {
	var b strings.Builder
	if e.Message != "" {
		b.WriteString(e.Message)
	} else {
		b.WriteString(e.Kind.String())
	}
	if len(e.Suggestions) > 0 {
		fmt.Fprintf(&b, " (did you mean %s?)", quoteJoin(e.Suggestions))
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

// Unwrap returns the underlying cause, if any.
func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target is the Kind of this error, or an *Error of the
// same Kind.
func (e *Error) Is(target error) bool {
	switch t := target.(type) {
	case Kind:
		return e.Kind == t
	case *Error:
		return e.Kind == t.Kind
	}
	return false
}

// New builds an error of the given kind with a formatted message.
func New(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// KindOf returns the Kind of err, or Unknown when err is not an engine error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return Unknown
}

// IsConfiguration reports whether err is a construction-time error.
func IsConfiguration(err error) bool {
	return errors.Is(err, Configuration)
}

// Join builds a single Configuration error listing every problem.
func Join(problems []string) error {
	if len(problems) == 0 {
		return nil
	}
	return &Error{
		Kind:    Configuration,
		Message: "registry validation failed:\n- " + strings.Join(problems, "\n- "),
	}
}

func quoteJoin(items []string) string {
	quoted := make([]string, len(items))
	for i, s := range items {
		quoted[i] = fmt.Sprintf("%q", s)
	}
	return strings.Join(quoted, " or ")
}
