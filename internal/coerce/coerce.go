// Package coerce turns raw text and loosely typed configuration values into
// the Go value a parameter declares. All conversions go through cty so that
// command-line tokens, environment variables and values decoded from HCL,
// TOML or YAML files share one set of conversion rules.
package coerce

import (
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/specialistvlad/clapgo/internal/model"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
	"github.com/zclconf/go-cty/cty/gocty"
)

// FromString converts a raw token to the parameter's Go value. For array
// parameters the text is split on the declared separator; without one it
// becomes a single-element slice.
func FromString(p *model.Parameter, raw string) (any, error) {
	if !p.Array {
		return Element(p.Type, p.EnumValues, raw)
	}
	return FromStrings(p, Split(p, raw))
}

// FromStrings converts several raw tokens into an array value, in order.
func FromStrings(p *model.Parameter, raws []string) (any, error) {
	out := reflect.MakeSlice(reflect.SliceOf(p.Type.GoType()), 0, len(raws))
	for _, raw := range raws {
		v, err := Element(p.Type, p.EnumValues, raw)
		if err != nil {
			return nil, err
		}
		out = reflect.Append(out, reflect.ValueOf(v))
	}
	return out.Interface(), nil
}

// Split breaks raw on the parameter's separator. Parameters without a
// separator yield raw unchanged as the only element.
func Split(p *model.Parameter, raw string) []string {
	if p.Separator == "" {
		return []string{raw}
	}
	return strings.Split(raw, p.Separator)
}

// Element converts one textual value to a scalar of type t.
func Element(t model.Type, enum []string, raw string) (any, error) {
	text := strings.TrimSpace(raw)
	switch t {
	case model.TypeString:
		return raw, nil
	case model.TypeBool:
		// cty only accepts the lower-case literals.
		text = strings.ToLower(text)
	case model.TypeDuration:
		d, err := time.ParseDuration(text)
		if err != nil {
			return nil, fmt.Errorf("%q is not a valid duration", raw)
		}
		return d, nil
	case model.TypeEnum:
		return enumValue(enum, text)
	}
	return FromCty(t, enum, cty.StringVal(text))
}

// FromCty converts a cty value to a scalar of type t.
func FromCty(t model.Type, enum []string, val cty.Value) (any, error) {
	if val.IsNull() {
		return nil, fmt.Errorf("value is null")
	}
	if !val.IsWhollyKnown() {
		return nil, fmt.Errorf("value is not known")
	}

	switch t {
	case model.TypeString:
		var s string
		if err := fromCty(val, cty.String, &s); err != nil {
			return nil, err
		}
		return s, nil
	case model.TypeInt:
		var n int
		if err := fromCty(val, cty.Number, &n); err != nil {
			return nil, err
		}
		return n, nil
	case model.TypeFloat:
		var f float64
		if err := fromCty(val, cty.Number, &f); err != nil {
			return nil, err
		}
		return f, nil
	case model.TypeBool:
		if val.Type() == cty.String {
			val = cty.StringVal(strings.ToLower(strings.TrimSpace(val.AsString())))
		}
		var b bool
		if err := fromCty(val, cty.Bool, &b); err != nil {
			return nil, err
		}
		return b, nil
	case model.TypeDuration, model.TypeEnum:
		var s string
		if err := fromCty(val, cty.String, &s); err != nil {
			return nil, err
		}
		return Element(t, enum, s)
	}
	return nil, fmt.Errorf("unsupported parameter type %s", t)
}

func fromCty(val cty.Value, want cty.Type, target any) error {
	converted, err := convert.Convert(val, want)
	if err != nil {
		return err
	}
	return gocty.FromCtyValue(converted, target)
}

// FromValue converts a Go value (as produced by a configuration decoder or
// declared as a static default) to the parameter's Go value.
func FromValue(p *model.Parameter, v any) (any, error) {
	if v == nil {
		return nil, fmt.Errorf("value is nil")
	}
	if !p.Array {
		return scalarFromValue(p.Type, p.EnumValues, v)
	}

	if s, ok := v.(string); ok {
		return FromString(p, s)
	}
	if val, ok := v.(cty.Value); ok {
		return arrayFromCty(p, val)
	}

	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		elem, err := scalarFromValue(p.Type, p.EnumValues, v)
		if err != nil {
			return nil, err
		}
		out := reflect.MakeSlice(reflect.SliceOf(p.Type.GoType()), 0, 1)
		return reflect.Append(out, reflect.ValueOf(elem)).Interface(), nil
	}

	out := reflect.MakeSlice(reflect.SliceOf(p.Type.GoType()), 0, rv.Len())
	for i := 0; i < rv.Len(); i++ {
		elem, err := scalarFromValue(p.Type, p.EnumValues, rv.Index(i).Interface())
		if err != nil {
			return nil, fmt.Errorf("element %d: %w", i, err)
		}
		out = reflect.Append(out, reflect.ValueOf(elem))
	}
	return out.Interface(), nil
}

func arrayFromCty(p *model.Parameter, val cty.Value) (any, error) {
	if val.IsNull() {
		return nil, fmt.Errorf("value is null")
	}
	ty := val.Type()
	if !ty.IsListType() && !ty.IsTupleType() && !ty.IsSetType() {
		elem, err := FromCty(p.Type, p.EnumValues, val)
		if err != nil {
			return nil, err
		}
		out := reflect.MakeSlice(reflect.SliceOf(p.Type.GoType()), 0, 1)
		return reflect.Append(out, reflect.ValueOf(elem)).Interface(), nil
	}

	out := reflect.MakeSlice(reflect.SliceOf(p.Type.GoType()), 0, val.LengthInt())
	for it := val.ElementIterator(); it.Next(); {
		_, ev := it.Element()
		elem, err := FromCty(p.Type, p.EnumValues, ev)
		if err != nil {
			return nil, err
		}
		out = reflect.Append(out, reflect.ValueOf(elem))
	}
	return out.Interface(), nil
}

func scalarFromValue(t model.Type, enum []string, v any) (any, error) {
	switch x := v.(type) {
	case cty.Value:
		return FromCty(t, enum, x)
	case string:
		return Element(t, enum, x)
	case time.Duration:
		if t == model.TypeDuration {
			return x, nil
		}
	}

	if t == model.TypeDuration {
		return nil, fmt.Errorf("%v is not a duration; use text such as \"1m30s\"", v)
	}

	ty, err := gocty.ImpliedType(v)
	if err != nil {
		return nil, fmt.Errorf("cannot use %T as %s: %w", v, t, err)
	}
	val, err := gocty.ToCtyValue(v, ty)
	if err != nil {
		return nil, fmt.Errorf("cannot use %T as %s: %w", v, t, err)
	}
	return FromCty(t, enum, val)
}

func enumValue(enum []string, text string) (any, error) {
	for _, allowed := range enum {
		if strings.EqualFold(allowed, text) {
			return allowed, nil
		}
	}
	return nil, fmt.Errorf("%q is not one of %s", text, strings.Join(enum, ", "))
}
