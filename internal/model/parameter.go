package model

import (
	"context"
	"reflect"
	"slices"
	"strings"
)

// Validator checks a bound value. Validate returns a non-nil error naming the
// reason when the value is rejected.
type Validator interface {
	Validate(value any) error
	// Description is the human-readable rule, e.g. "More or equal to 5".
	Description() string
}

// TypedValidator is implemented by validators that only make sense for some
// parameter types. The registry rejects mismatches at construction time.
type TypedValidator interface {
	Validator
	Supports(t Type) bool
}

// CheckedValidator is implemented by validators whose construction can
// fail. A non-nil Err is a configuration error.
type CheckedValidator interface {
	Validator
	Err() error
}

// DefaultRequest describes the parameter a provider is asked about.
type DefaultRequest struct {
	Component string
	Verb      string
	Param     *Parameter
}

// DefaultProvider computes a default value at bind time. It reports ok=false
// when it has nothing for the parameter, in which case binding falls through
// to the static default.
type DefaultProvider interface {
	DefaultValue(ctx context.Context, req DefaultRequest) (value any, ok bool, err error)
	Description() string
}

// Parameter describes one verb input.
type Parameter struct {
	// Names holds the canonical name first, then aliases. All lower-case.
	Names       []string
	Type        Type
	Array       bool
	Separator   string
	EnumValues  []string
	Required    bool
	Default     any
	HasDefault  bool
	Provider    DefaultProvider
	EnvVar      string
	Inject      bool
	InjectType  reflect.Type
	Validators  []Validator
	Description string
}

// Name returns the canonical parameter name.
func (p *Parameter) Name() string {
	if len(p.Names) == 0 {
		return ""
	}
	return p.Names[0]
}

// Matches reports whether name (any case) is one of the parameter's names.
func (p *Parameter) Matches(name string) bool {
	return slices.Contains(p.Names, strings.ToLower(name))
}

// IsSwitch reports whether the parameter is a boolean flag that takes no
// separate value token.
func (p *Parameter) IsSwitch() bool {
	return p.Type == TypeBool && !p.Array
}

// TypeName returns the type as shown to users, e.g. "[]int".
func (p *Parameter) TypeName() string {
	if p.Array {
		return "[]" + p.Type.String()
	}
	return p.Type.String()
}
