// Package router decides which component an argument vector addresses and
// which token, if any, names the verb. It never looks verbs up; an
// unresolved verb name is reported later, when the verb is bound.
package router

import (
	"context"
	"strings"

	"github.com/specialistvlad/clapgo/internal/clierr"
	"github.com/specialistvlad/clapgo/internal/ctxlog"
	"github.com/specialistvlad/clapgo/internal/help"
	"github.com/specialistvlad/clapgo/internal/model"
)

// FlagPrefixes mark a token as a parameter rather than a verb. Longest first.
var FlagPrefixes = []string{"--", "-", "/"}

// Delimiters separate the component name from the verb name.
const Delimiters = "./"

// Resolution is the outcome of routing.
type Resolution struct {
	Component *model.Component
	// VerbToken is the verb name as typed, or "" when the arguments start
	// with a flag (single-component mode only).
	VerbToken string
	// Rest holds the tokens left for the binder.
	Rest []string
}

// TrimPrefix strips the longest flag prefix from token. ok is false when
// token has no prefix.
func TrimPrefix(token string) (body string, ok bool) {
	for _, p := range FlagPrefixes {
		if strings.HasPrefix(token, p) {
			return token[len(p):], true
		}
	}
	return token, false
}

// IsFlag reports whether token is a flag prefix followed by a name. A bare
// prefix such as "-" or "--" is not a flag.
func IsFlag(token string) bool {
	body, ok := TrimPrefix(token)
	return ok && body != ""
}

// IsEmpty reports whether args carries nothing but blank tokens.
func IsEmpty(args []string) bool {
	for _, a := range args {
		if strings.TrimSpace(a) != "" {
			return false
		}
	}
	return true
}

// Resolve routes args to a component. Blank tokens are ignored; callers
// handle all-blank arguments first (see IsEmpty). components must be
// non-empty.
func Resolve(ctx context.Context, components []*model.Component, args []string) (Resolution, error) {
	logger := ctxlog.FromContext(ctx)
	args = dropBlank(args)
	if len(args) == 0 {
		return Resolution{}, &clierr.Error{Kind: clierr.MissingVerb, Message: "missing verb: no arguments given"}
	}

	var (
		res Resolution
		err error
	)
	if len(components) == 1 {
		res, err = single(components[0], args)
	} else {
		res, err = multi(components, args)
	}
	if err != nil {
		return Resolution{}, err
	}

	logger.Debug("Resolved component.", "component", res.Component.Name, "verb_token", res.VerbToken, "remaining", len(res.Rest))
	return res, nil
}

// dropBlank removes empty and whitespace-only tokens.
func dropBlank(args []string) []string {
	out := make([]string, 0, len(args))
	for _, a := range args {
		if strings.TrimSpace(a) != "" {
			out = append(out, a)
		}
	}
	return out
}

func single(c *model.Component, args []string) (Resolution, error) {
	head := args[0]
	if IsFlag(head) {
		return Resolution{Component: c, Rest: args}, nil
	}

	if !strings.ContainsAny(head, Delimiters) {
		return Resolution{Component: c, VerbToken: head, Rest: args[1:]}, nil
	}

	name, verb, err := split(head)
	if err != nil {
		return Resolution{}, err
	}
	if !c.Matches(name) {
		return Resolution{}, unknownComponent(name, []*model.Component{c})
	}
	return Resolution{Component: c, VerbToken: verb, Rest: args[1:]}, nil
}

func multi(components []*model.Component, args []string) (Resolution, error) {
	head := args[0]
	if IsFlag(head) {
		return Resolution{}, &clierr.Error{
			Kind:    clierr.MissingVerb,
			Value:   head,
			Message: "missing verb: expected <component>.<verb> before " + head,
		}
	}
	if !strings.ContainsAny(head, Delimiters) {
		return Resolution{}, &clierr.Error{
			Kind:    clierr.MissingComponentName,
			Value:   head,
			Message: "missing component name in " + head + ": expected <component>.<verb>",
		}
	}

	name, verb, err := split(head)
	if err != nil {
		return Resolution{}, err
	}
	for _, c := range components {
		if c.Matches(name) {
			return Resolution{Component: c, VerbToken: verb, Rest: args[1:]}, nil
		}
	}
	return Resolution{}, unknownComponent(name, components)
}

// split cuts token on the first delimiter character it contains. Only that
// character is consulted, and both halves must be non-empty.
func split(token string) (string, string, error) {
	i := strings.IndexAny(token, Delimiters)
	parts := strings.Split(token, token[i:i+1])
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", &clierr.Error{
			Kind:    clierr.InvalidVerbSyntax,
			Value:   token,
			Message: "invalid verb " + token + ": expected exactly <component>" + token[i:i+1] + "<verb>",
		}
	}
	return parts[0], parts[1], nil
}

func unknownComponent(name string, components []*model.Component) error {
	var candidates []string
	for _, c := range components {
		candidates = append(candidates, c.Name)
		candidates = append(candidates, c.Aliases...)
	}
	return &clierr.Error{
		Kind:        clierr.UnknownComponent,
		Component:   name,
		Message:     "unknown component " + name,
		Suggestions: help.Suggest(name, candidates),
	}
}
