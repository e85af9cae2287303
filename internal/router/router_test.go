package router

import (
	"context"
	"errors"
	"testing"

	"github.com/specialistvlad/clapgo/internal/clierr"
	"github.com/specialistvlad/clapgo/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	foo = &model.Component{Name: "foo", Aliases: []string{"f"}}
	bar = &model.Component{Name: "bar"}
)

func TestIsFlag(t *testing.T) {
	for token, want := range map[string]bool{
		"--x":  true,
		"-x":   true,
		"/x":   true,
		"-":    false,
		"--":   false,
		"x":    false,
		"a.b":  false,
		"a/b":  false,
		"":     false,
		"-5":   true,
		"--x=": true,
	} {
		assert.Equal(t, want, IsFlag(token), token)
	}
}

func TestTrimPrefix(t *testing.T) {
	for token, want := range map[string]string{
		"--name": "name",
		"-n":     "n",
		"/n":     "n",
		"---n":   "-n",
		"--":     "",
	} {
		body, ok := TrimPrefix(token)
		assert.True(t, ok, token)
		assert.Equal(t, want, body, token)
	}

	body, ok := TrimPrefix("name")
	assert.False(t, ok)
	assert.Equal(t, "name", body)
}

func TestResolve_SkipsBlankTokens(t *testing.T) {
	res, err := Resolve(context.Background(), []*model.Component{foo}, []string{"", "add", " ", "--x", "1"})

	require.NoError(t, err)
	assert.Equal(t, "add", res.VerbToken)
	assert.Equal(t, []string{"--x", "1"}, res.Rest)

	_, err = Resolve(context.Background(), []*model.Component{foo}, []string{"", "\t"})
	assert.True(t, errors.Is(err, clierr.MissingVerb))
}

func TestIsEmpty(t *testing.T) {
	assert.True(t, IsEmpty(nil))
	assert.True(t, IsEmpty([]string{"", "  ", "\t"}))
	assert.False(t, IsEmpty([]string{"", "x"}))
}

func TestResolve_SingleComponent(t *testing.T) {
	single := []*model.Component{foo}

	tests := []struct {
		name     string
		args     []string
		wantVerb string
		wantRest []string
		wantKind clierr.Kind
	}{
		{name: "flag first has no verb", args: []string{"--x", "1"}, wantVerb: "", wantRest: []string{"--x", "1"}},
		{name: "plain verb", args: []string{"add", "--x", "1"}, wantVerb: "add", wantRest: []string{"--x", "1"}},
		{name: "qualified verb", args: []string{"FOO.add"}, wantVerb: "add", wantRest: []string{}},
		{name: "qualified with alias and slash", args: []string{"f/add", "-y"}, wantVerb: "add", wantRest: []string{"-y"}},
		{name: "wrong component", args: []string{"baz.add"}, wantKind: clierr.UnknownComponent},
		{name: "trailing delimiter", args: []string{"foo."}, wantKind: clierr.InvalidVerbSyntax},
		{name: "too many segments", args: []string{"foo.add.more"}, wantKind: clierr.InvalidVerbSyntax},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			res, err := Resolve(context.Background(), single, tc.args)
			if tc.wantKind != clierr.Unknown {
				require.Error(t, err)
				assert.True(t, errors.Is(err, tc.wantKind), "got %v", err)
				return
			}
			require.NoError(t, err)
			assert.Same(t, foo, res.Component)
			assert.Equal(t, tc.wantVerb, res.VerbToken)
			assert.Equal(t, tc.wantRest, res.Rest)
		})
	}
}

func TestResolve_MultiComponent(t *testing.T) {
	both := []*model.Component{foo, bar}

	tests := []struct {
		name     string
		args     []string
		wantComp *model.Component
		wantVerb string
		wantKind clierr.Kind
	}{
		{name: "by name", args: []string{"foo.dosomething", "--x", "1"}, wantComp: foo, wantVerb: "dosomething"},
		{name: "leading blank tokens", args: []string{"", "  ", "bar.run"}, wantComp: bar, wantVerb: "run"},
		{name: "by alias any case", args: []string{"F/DoSomething"}, wantComp: foo, wantVerb: "DoSomething"},
		{name: "second component", args: []string{"bar.run"}, wantComp: bar, wantVerb: "run"},
		{name: "flag first", args: []string{"--x"}, wantKind: clierr.MissingVerb},
		{name: "no delimiter", args: []string{"dosomething"}, wantKind: clierr.MissingComponentName},
		{name: "empty component", args: []string{".run"}, wantKind: clierr.InvalidVerbSyntax},
		{name: "three parts", args: []string{"a.b.c"}, wantKind: clierr.InvalidVerbSyntax},
		{name: "unknown component", args: []string{"baz.dosomething"}, wantKind: clierr.UnknownComponent},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			res, err := Resolve(context.Background(), both, tc.args)
			if tc.wantKind != clierr.Unknown {
				require.Error(t, err)
				assert.Equal(t, tc.wantKind, clierr.KindOf(err), "got %v", err)
				return
			}
			require.NoError(t, err)
			assert.Same(t, tc.wantComp, res.Component)
			assert.Equal(t, tc.wantVerb, res.VerbToken)
		})
	}
}

func TestResolve_UnknownComponentSuggests(t *testing.T) {
	_, err := Resolve(context.Background(), []*model.Component{foo, bar}, []string{"baa.run"})
	require.Error(t, err)

	var cerr *clierr.Error
	require.ErrorAs(t, err, &cerr)
	assert.Equal(t, "baa", cerr.Component)
	assert.Contains(t, cerr.Suggestions, "bar")
	assert.Contains(t, err.Error(), `did you mean "bar"`)
}
