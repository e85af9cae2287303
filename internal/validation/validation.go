// Package validation provides the built-in parameter validators. Each
// validator carries a human-readable rule description that ends up in
// ValidationFailed errors and in help output.
package validation

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/specialistvlad/clapgo/internal/model"
)

type comparison struct {
	bound  float64
	label  string
	accept func(v, bound float64) bool
}

// MoreOrEqualTo accepts numbers >= n.
func MoreOrEqualTo(n float64) model.Validator {
	return &comparison{bound: n, label: "More or equal to", accept: func(v, b float64) bool { return v >= b }}
}

// MoreThan accepts numbers > n.
func MoreThan(n float64) model.Validator {
	return &comparison{bound: n, label: "More than", accept: func(v, b float64) bool { return v > b }}
}

// LessThan accepts numbers < n.
func LessThan(n float64) model.Validator {
	return &comparison{bound: n, label: "Less than", accept: func(v, b float64) bool { return v < b }}
}

// LessOrEqualTo accepts numbers <= n.
func LessOrEqualTo(n float64) model.Validator {
	return &comparison{bound: n, label: "Less or equal to", accept: func(v, b float64) bool { return v <= b }}
}

func (c *comparison) Description() string {
	return fmt.Sprintf("%s %s", c.label, formatNumber(c.bound))
}

func (c *comparison) Supports(t model.Type) bool {
	return t == model.TypeInt || t == model.TypeFloat
}

func (c *comparison) Validate(value any) error {
	v, ok := asFloat(value)
	if !ok {
		return fmt.Errorf("%v is not a number", value)
	}
	if !c.accept(v, c.bound) {
		return fmt.Errorf("%s is not %s", formatNumber(v), strings.ToLower(c.Description()))
	}
	return nil
}

type pattern struct {
	source string
	expr   *regexp.Regexp
	err    error
}

// Matches accepts strings matching the regular expression. A pattern that
// does not compile is reported by the registry as a configuration error.
func Matches(expr string) model.Validator {
	re, err := regexp.Compile(expr)
	return &pattern{source: expr, expr: re, err: err}
}

func (p *pattern) Description() string {
	return fmt.Sprintf("Matches regular expression %q", p.source)
}

func (p *pattern) Supports(t model.Type) bool {
	return t == model.TypeString || t == model.TypeEnum
}

// Err returns the pattern's compile error, if any.
func (p *pattern) Err() error {
	if p.err != nil {
		return fmt.Errorf("invalid regular expression: %w", p.err)
	}
	return nil
}

func (p *pattern) Validate(value any) error {
	if p.expr == nil {
		return p.Err()
	}
	s, _ := value.(string)
	if !p.expr.MatchString(s) {
		return fmt.Errorf("%q does not match %q", s, p.source)
	}
	return nil
}

type oneOf struct {
	allowed []string
}

// OneOf accepts strings equal (case-insensitively) to one of allowed.
func OneOf(allowed ...string) model.Validator {
	return &oneOf{allowed: allowed}
}

func (o *oneOf) Description() string {
	return "One of " + strings.Join(o.allowed, ", ")
}

func (o *oneOf) Supports(t model.Type) bool {
	return t == model.TypeString || t == model.TypeEnum
}

func (o *oneOf) Validate(value any) error {
	s, _ := value.(string)
	for _, a := range o.allowed {
		if strings.EqualFold(a, s) {
			return nil
		}
	}
	return fmt.Errorf("%q is not one of %s", s, strings.Join(o.allowed, ", "))
}

type notEmpty struct{}

// NotEmpty rejects empty (or whitespace-only) strings.
func NotEmpty() model.Validator {
	return notEmpty{}
}

func (notEmpty) Description() string { return "Not empty" }

func (notEmpty) Supports(t model.Type) bool {
	return t == model.TypeString
}

func (notEmpty) Validate(value any) error {
	s, _ := value.(string)
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("value is empty")
	}
	return nil
}

type durationRange struct {
	min, max time.Duration
}

// DurationBetween accepts durations within [min, max].
func DurationBetween(min, max time.Duration) model.Validator {
	return &durationRange{min: min, max: max}
}

func (d *durationRange) Description() string {
	return fmt.Sprintf("Between %s and %s", d.min, d.max)
}

func (d *durationRange) Supports(t model.Type) bool {
	return t == model.TypeDuration
}

func (d *durationRange) Validate(value any) error {
	v, _ := value.(time.Duration)
	if v < d.min || v > d.max {
		return fmt.Errorf("%s is not between %s and %s", v, d.min, d.max)
	}
	return nil
}

func asFloat(value any) (float64, bool) {
	switch n := value.(type) {
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case float64:
		return n, true
	}
	return 0, false
}

func formatNumber(f float64) string {
	if f == float64(int64(f)) {
		return fmt.Sprintf("%d", int64(f))
	}
	return fmt.Sprintf("%g", f)
}
