package binder

import (
	"strconv"
	"strings"

	"github.com/specialistvlad/clapgo/internal/clierr"
	"github.com/specialistvlad/clapgo/internal/help"
	"github.com/specialistvlad/clapgo/internal/model"
	"github.com/specialistvlad/clapgo/internal/router"
)

// Flag is one parsed flag token.
type Flag struct {
	Name string
	// Value is the inline value ("--x=1") when Inline is set.
	Value  string
	Inline bool
	Raw    string
}

// ParseFlag splits a flag token into its name and inline value. Inline
// values follow the first '=' or ':'. ok is false for non-flag tokens and
// for tokens with no name, such as "--" or "-=1".
func ParseFlag(token string) (Flag, bool) {
	if !router.IsFlag(token) {
		return Flag{}, false
	}
	body, _ := router.TrimPrefix(token)
	f := Flag{Name: strings.ToLower(body), Raw: token}
	if i := strings.IndexAny(body, "=:"); i >= 0 {
		f.Name = strings.ToLower(body[:i])
		f.Value = body[i+1:]
		f.Inline = true
	}
	if f.Name == "" {
		return Flag{}, false
	}
	return f, true
}

// takesNext reports whether a token following a value-taking flag is its
// value. Negative numbers and '/'-prefixed paths count as values.
func takesNext(token string) bool {
	if !strings.HasPrefix(token, "-") {
		return true
	}
	_, err := strconv.ParseFloat(token, 64)
	return err == nil
}

// FlagIndexes returns the positions of flag tokens in tokens. A token taken
// as the separate value of a preceding parameter of verb is not a flag
// position. With a nil verb every flag token counts.
func FlagIndexes(verb *model.Verb, tokens []string) []int {
	var idx []int
	for i := 0; i < len(tokens); i++ {
		f, ok := ParseFlag(tokens[i])
		if !ok {
			continue
		}
		idx = append(idx, i)
		if verb == nil || f.Inline {
			continue
		}
		if p := verb.FindParam(f.Name); p != nil && !p.IsSwitch() && i+1 < len(tokens) && takesNext(tokens[i+1]) {
			i++
		}
	}
	return idx
}

// collect groups raw values by parameter in first-seen order. Repeating a
// non-array parameter is an error.
func collect(comp *model.Component, verb *model.Verb, tokens []string, ignoreUnknown bool) (map[*model.Parameter][]string, error) {
	values := make(map[*model.Parameter][]string)

	for i := 0; i < len(tokens); i++ {
		tok := tokens[i]
		if strings.TrimSpace(tok) == "" {
			continue
		}

		f, ok := ParseFlag(tok)
		if !ok {
			if ignoreUnknown {
				continue
			}
			return nil, &clierr.Error{
				Kind:      clierr.UnknownParameter,
				Component: comp.Name,
				Verb:      verb.Name,
				Value:     tok,
				Message:   "unexpected argument " + tok,
			}
		}

		p := verb.FindParam(f.Name)
		if p == nil {
			if ignoreUnknown {
				continue
			}
			return nil, &clierr.Error{
				Kind:        clierr.UnknownParameter,
				Component:   comp.Name,
				Verb:        verb.Name,
				Param:       f.Name,
				Message:     "unknown parameter " + f.Name + " for verb " + verb.Name,
				Suggestions: help.Suggest(f.Name, paramNames(verb)),
			}
		}

		value := f.Value
		switch {
		case f.Inline:
		case p.IsSwitch():
			value = "true"
		case i+1 < len(tokens) && takesNext(tokens[i+1]):
			i++
			value = tokens[i]
		default:
			return nil, &clierr.Error{
				Kind:      clierr.ParameterFormat,
				Component: comp.Name,
				Verb:      verb.Name,
				Param:     p.Name(),
				Message:   "missing value for parameter " + p.Name() + " (" + p.TypeName() + ")",
			}
		}

		if _, seen := values[p]; seen && !p.Array {
			return nil, &clierr.Error{
				Kind:      clierr.DuplicateParameter,
				Component: comp.Name,
				Verb:      verb.Name,
				Param:     p.Name(),
				Value:     value,
				Message:   "parameter " + p.Name() + " given more than once",
			}
		}
		values[p] = append(values[p], value)
	}
	return values, nil
}

func paramNames(verb *model.Verb) []string {
	var names []string
	for _, p := range verb.Params {
		if !p.Inject {
			names = append(names, p.Names...)
		}
	}
	return names
}
