package model

import (
	"reflect"
	"time"
)

// Type is the value type of a parameter.
type Type int

const (
	TypeString Type = iota
	TypeInt
	TypeFloat
	TypeBool
	TypeDuration
	TypeEnum
)

// String returns the friendly name used in error messages and help.
func (t Type) String() string {
	switch t {
	case TypeString:
		return "string"
	case TypeInt:
		return "int"
	case TypeFloat:
		return "float"
	case TypeBool:
		return "bool"
	case TypeDuration:
		return "duration"
	case TypeEnum:
		return "enum"
	}
	return "invalid"
}

// IsNumeric reports whether values of this type are numbers.
func (t Type) IsNumeric() bool {
	return t == TypeInt || t == TypeFloat || t == TypeDuration
}

// GoType returns the Go type a bound scalar of this type has.
func (t Type) GoType() reflect.Type {
	switch t {
	case TypeInt:
		return reflect.TypeFor[int]()
	case TypeFloat:
		return reflect.TypeFor[float64]()
	case TypeBool:
		return reflect.TypeFor[bool]()
	case TypeDuration:
		return reflect.TypeFor[time.Duration]()
	}
	return reflect.TypeFor[string]()
}

// Zero returns the zero value for a scalar (or, when array is set, an empty
// slice) of this type.
func (t Type) Zero(array bool) any {
	if array {
		return reflect.MakeSlice(reflect.SliceOf(t.GoType()), 0, 0).Interface()
	}
	return reflect.Zero(t.GoType()).Interface()
}

// Source records where a bound value came from.
type Source int

const (
	SourceZero Source = iota
	SourceArgument
	SourceEnvironment
	SourceProvider
	SourceDefault
	SourceInjected
)

func (s Source) String() string {
	switch s {
	case SourceArgument:
		return "argument"
	case SourceEnvironment:
		return "environment"
	case SourceProvider:
		return "provider"
	case SourceDefault:
		return "default"
	case SourceInjected:
		return "injected"
	}
	return "zero"
}
