package binder

import (
	"bytes"
	"context"
	"errors"
	"io"
	"reflect"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/specialistvlad/clapgo/internal/clierr"
	"github.com/specialistvlad/clapgo/internal/model"
	"github.com/specialistvlad/clapgo/internal/registry"
	"github.com/specialistvlad/clapgo/internal/services"
	"github.com/specialistvlad/clapgo/internal/validation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staticProvider struct {
	value any
	ok    bool
	err   error
	calls int
}

func (s *staticProvider) DefaultValue(context.Context, model.DefaultRequest) (any, bool, error) {
	s.calls++
	return s.value, s.ok, s.err
}

func (s *staticProvider) Description() string { return "test provider" }

func noop(context.Context, any, *model.Call) error { return nil }

// build declares a one-verb component through the registry so defaults are
// converted exactly as in production.
func build(t *testing.T, declare func(vb *registry.VerbBuilder[any])) (*model.Component, *model.Verb) {
	t.Helper()
	cb := registry.Component[any]("tool")
	vb := cb.Verb("run", noop).Default()
	declare(vb)

	r := registry.New().Add(cb)
	require.NoError(t, r.Validate(context.Background()))
	c := r.Components()[0]
	return c, c.Verbs[0]
}

func noEnv(string) (string, bool) { return "", false }

func envOf(vars map[string]string) func(string) (string, bool) {
	return func(k string) (string, bool) {
		v, ok := vars[k]
		return v, ok
	}
}

func TestBind_ExplicitValues(t *testing.T) {
	c, v := build(t, func(vb *registry.VerbBuilder[any]) {
		vb.Param("x", model.TypeInt).Alias("n")
		vb.Param("name", model.TypeString)
		vb.Param("verbose", model.TypeBool).Alias("v")
		vb.Param("ratio", model.TypeFloat)
		vb.Param("wait", model.TypeDuration)
		vb.Param("mode", model.TypeEnum).Values("fast", "slow")
		vb.Param("path", model.TypeString)
	})

	call, err := Bind(context.Background(), c, v, nil,
		[]string{"--X", "1", "-name=bob", "/V", "--ratio:0.5", "--wait", "2s", "--mode", "SLOW", "--path", "/tmp/x"},
		Options{LookupEnv: noEnv})
	require.NoError(t, err)

	assert.Equal(t, 1, call.Int("x"))
	assert.Equal(t, 1, call.Int("n"))
	assert.Equal(t, "bob", call.String("name"))
	assert.True(t, call.Bool("verbose"))
	assert.Equal(t, 0.5, call.Float("ratio"))
	assert.Equal(t, 2*time.Second, call.Duration("wait"))
	assert.Equal(t, "slow", call.String("mode"))
	assert.Equal(t, "/tmp/x", call.String("path"))
	assert.Equal(t, model.SourceArgument, call.Source("x"))
}

func TestBind_NegativeNumberIsAValue(t *testing.T) {
	c, v := build(t, func(vb *registry.VerbBuilder[any]) {
		vb.Param("x", model.TypeInt)
	})

	call, err := Bind(context.Background(), c, v, nil, []string{"--x", "-5"}, Options{LookupEnv: noEnv})
	require.NoError(t, err)
	assert.Equal(t, -5, call.Int("x"))
}

func TestBind_SwitchCanBeTurnedOff(t *testing.T) {
	c, v := build(t, func(vb *registry.VerbBuilder[any]) {
		vb.Param("v", model.TypeBool).Default(true)
	})

	call, err := Bind(context.Background(), c, v, nil, []string{"--v=false"}, Options{LookupEnv: noEnv})
	require.NoError(t, err)
	assert.False(t, call.Bool("v"))
}

func TestBind_MissingRequired(t *testing.T) {
	c, v := build(t, func(vb *registry.VerbBuilder[any]) {
		vb.Param("x", model.TypeInt).Required()
	})

	_, err := Bind(context.Background(), c, v, nil, nil, Options{LookupEnv: noEnv})
	require.Error(t, err)

	var cerr *clierr.Error
	require.ErrorAs(t, err, &cerr)
	assert.Equal(t, clierr.MissingRequiredParameter, cerr.Kind)
	assert.Equal(t, "x", cerr.Param)
	assert.Equal(t, "run", cerr.Verb)
}

func TestBind_Precedence(t *testing.T) {
	tests := []struct {
		name       string
		args       []string
		env        map[string]string
		provider   *staticProvider
		want       int
		wantSource model.Source
	}{
		{
			name:       "explicit beats everything",
			args:       []string{"--x", "1"},
			env:        map[string]string{"X_VAR": "2"},
			provider:   &staticProvider{value: 3, ok: true},
			want:       1,
			wantSource: model.SourceArgument,
		},
		{
			name:       "environment beats provider",
			env:        map[string]string{"X_VAR": "2"},
			provider:   &staticProvider{value: 3, ok: true},
			want:       2,
			wantSource: model.SourceEnvironment,
		},
		{
			name:       "provider beats static default",
			provider:   &staticProvider{value: "3", ok: true},
			want:       3,
			wantSource: model.SourceProvider,
		},
		{
			name:       "provider with nothing falls through to static default",
			provider:   &staticProvider{ok: false},
			want:       4,
			wantSource: model.SourceDefault,
		},
		{
			name:       "static default alone",
			provider:   &staticProvider{ok: false},
			want:       4,
			wantSource: model.SourceDefault,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			c, v := build(t, func(vb *registry.VerbBuilder[any]) {
				vb.Param("x", model.TypeInt).Env("X_VAR").Provider(tc.provider).Default(4)
			})

			call, err := Bind(context.Background(), c, v, nil, tc.args, Options{LookupEnv: envOf(tc.env)})
			require.NoError(t, err)
			assert.Equal(t, tc.want, call.Int("x"))
			assert.Equal(t, tc.wantSource, call.Source("x"))
		})
	}
}

func TestBind_ProviderIsLazy(t *testing.T) {
	p := &staticProvider{value: 9, ok: true}
	c, v := build(t, func(vb *registry.VerbBuilder[any]) {
		vb.Param("x", model.TypeInt).Provider(p)
	})

	_, err := Bind(context.Background(), c, v, nil, []string{"--x", "1"}, Options{LookupEnv: noEnv})
	require.NoError(t, err)
	assert.Zero(t, p.calls)

	_, err = Bind(context.Background(), c, v, nil, nil, Options{LookupEnv: noEnv})
	require.NoError(t, err)
	assert.Equal(t, 1, p.calls)
}

func TestBind_ProviderError(t *testing.T) {
	c, v := build(t, func(vb *registry.VerbBuilder[any]) {
		vb.Param("x", model.TypeInt).Provider(&staticProvider{err: errors.New("config unreadable")})
	})

	_, err := Bind(context.Background(), c, v, nil, nil, Options{LookupEnv: noEnv})
	require.ErrorContains(t, err, "config unreadable")
}

func TestBind_EmptyEnvironmentValue(t *testing.T) {
	c, v := build(t, func(vb *registry.VerbBuilder[any]) {
		vb.Param("name", model.TypeString).Env("NAME").Default("fallback")
		vb.Param("count", model.TypeInt).Env("COUNT").Default(1)
	})

	call, err := Bind(context.Background(), c, v, nil, nil, Options{LookupEnv: envOf(map[string]string{"NAME": ""})})
	require.NoError(t, err)
	assert.Equal(t, "", call.String("name"), "a set but empty variable is a real value")
	assert.Equal(t, model.SourceEnvironment, call.Source("name"))
	assert.Equal(t, 1, call.Int("count"), "an unset variable is absent")

	_, err = Bind(context.Background(), c, v, nil, nil, Options{LookupEnv: envOf(map[string]string{"COUNT": ""})})
	require.Error(t, err)
	assert.True(t, errors.Is(err, clierr.ParameterFormat))
}

func TestBind_ZeroValues(t *testing.T) {
	c, v := build(t, func(vb *registry.VerbBuilder[any]) {
		vb.Param("x", model.TypeInt)
		vb.Param("tags", model.TypeString).Separator(",")
	})

	call, err := Bind(context.Background(), c, v, nil, nil, Options{LookupEnv: noEnv})
	require.NoError(t, err)
	assert.Equal(t, 0, call.Int("x"))
	assert.Equal(t, []string{}, call.Strings("tags"))
	assert.Equal(t, model.SourceZero, call.Source("x"))
}

func TestBind_Arrays(t *testing.T) {
	c, v := build(t, func(vb *registry.VerbBuilder[any]) {
		vb.Param("tags", model.TypeString).Separator(",")
		vb.Param("n", model.TypeInt).Array()
	})

	call, err := Bind(context.Background(), c, v, nil, []string{"--tags", "a,b,c", "--n", "2", "--n", "1"}, Options{LookupEnv: noEnv})
	require.NoError(t, err)

	if diff := cmp.Diff([]string{"a", "b", "c"}, call.Strings("tags")); diff != "" {
		t.Errorf("tags mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]int{2, 1}, call.Ints("n")); diff != "" {
		t.Errorf("n mismatch (-want +got):\n%s", diff)
	}
}

func TestBind_RepeatedFlagsWithoutSeparator(t *testing.T) {
	c, v := build(t, func(vb *registry.VerbBuilder[any]) {
		vb.Param("tags", model.TypeString).Array()
	})

	call, err := Bind(context.Background(), c, v, nil, []string{"--tags", "a", "--tags", "b"}, Options{LookupEnv: noEnv})
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, call.Strings("tags"))
}

func TestBind_TokenErrors(t *testing.T) {
	c, v := build(t, func(vb *registry.VerbBuilder[any]) {
		vb.Param("x", model.TypeInt)
		vb.Param("name", model.TypeString)
	})

	tests := []struct {
		name string
		args []string
		want clierr.Kind
	}{
		{name: "not a number", args: []string{"--x", "abc"}, want: clierr.ParameterFormat},
		{name: "missing value", args: []string{"--name"}, want: clierr.ParameterFormat},
		{name: "value looks like a flag", args: []string{"--name", "--x", "1"}, want: clierr.ParameterFormat},
		{name: "unknown flag", args: []string{"--nmae", "bob"}, want: clierr.UnknownParameter},
		{name: "stray positional", args: []string{"bob"}, want: clierr.UnknownParameter},
		{name: "repeated scalar", args: []string{"--x", "1", "--x", "2"}, want: clierr.DuplicateParameter},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Bind(context.Background(), c, v, nil, tc.args, Options{LookupEnv: noEnv})
			require.Error(t, err)
			assert.Equal(t, tc.want, clierr.KindOf(err), "got %v", err)
		})
	}
}

func TestBind_BarePrefixIsAPositional(t *testing.T) {
	c, v := build(t, func(vb *registry.VerbBuilder[any]) {
		vb.Param("text", model.TypeString)
	})

	_, err := Bind(context.Background(), c, v, nil, []string{"--text", "a", "--"}, Options{LookupEnv: noEnv})

	require.Error(t, err)
	assert.Equal(t, clierr.UnknownParameter, clierr.KindOf(err))
	assert.Equal(t, "unexpected argument --", err.Error())
}

func TestBind_FormatErrorNamesEverything(t *testing.T) {
	c, v := build(t, func(vb *registry.VerbBuilder[any]) {
		vb.Param("x", model.TypeInt)
	})

	_, err := Bind(context.Background(), c, v, nil, []string{"--x", "abc"}, Options{LookupEnv: noEnv})
	require.Error(t, err)
	assert.Contains(t, err.Error(), `"abc"`)
	assert.Contains(t, err.Error(), "int")
	assert.Contains(t, err.Error(), "parameter x")
}

func TestBind_UnknownSuggests(t *testing.T) {
	c, v := build(t, func(vb *registry.VerbBuilder[any]) {
		vb.Param("name", model.TypeString)
	})

	_, err := Bind(context.Background(), c, v, nil, []string{"--nmae", "bob"}, Options{LookupEnv: noEnv})
	require.Error(t, err)
	assert.Contains(t, err.Error(), `did you mean "name"`)
}

func TestBind_IgnoreUnknown(t *testing.T) {
	c, v := build(t, func(vb *registry.VerbBuilder[any]) {
		vb.Param("x", model.TypeInt)
	})

	call, err := Bind(context.Background(), c, v, nil, []string{"stray", "--other", "--x", "3"}, Options{LookupEnv: noEnv, IgnoreUnknown: true})
	require.NoError(t, err)
	assert.Equal(t, 3, call.Int("x"))
}

func TestBind_Validation(t *testing.T) {
	c, v := build(t, func(vb *registry.VerbBuilder[any]) {
		vb.Param("x", model.TypeInt).Validate(validation.MoreOrEqualTo(5))
	})

	_, err := Bind(context.Background(), c, v, nil, []string{"--x", "3"}, Options{LookupEnv: noEnv})
	require.Error(t, err)
	var cerr *clierr.Error
	require.ErrorAs(t, err, &cerr)
	assert.Equal(t, clierr.ValidationFailed, cerr.Kind)
	assert.Equal(t, "x", cerr.Param)
	assert.Equal(t, "3", cerr.Value)
	assert.Equal(t, "More or equal to 5", cerr.Rule)

	call, err := Bind(context.Background(), c, v, nil, []string{"--x", "5"}, Options{LookupEnv: noEnv})
	require.NoError(t, err)
	assert.Equal(t, 5, call.Int("x"))
}

func TestBind_ValidationSkipsZeroUnlessAsked(t *testing.T) {
	c, v := build(t, func(vb *registry.VerbBuilder[any]) {
		vb.Param("x", model.TypeInt).Validate(validation.MoreOrEqualTo(5))
	})

	_, err := Bind(context.Background(), c, v, nil, nil, Options{LookupEnv: noEnv})
	require.NoError(t, err)

	_, err = Bind(context.Background(), c, v, nil, nil, Options{LookupEnv: noEnv, ValidateEmpty: true})
	require.Error(t, err)
	assert.True(t, errors.Is(err, clierr.ValidationFailed))
}

func TestBind_ValidationRunsOnEachElement(t *testing.T) {
	c, v := build(t, func(vb *registry.VerbBuilder[any]) {
		vb.Param("n", model.TypeInt).Separator(",").Validate(validation.LessThan(10))
	})

	_, err := Bind(context.Background(), c, v, nil, []string{"--n", "1,20,3"}, Options{LookupEnv: noEnv})
	require.Error(t, err)
	var cerr *clierr.Error
	require.ErrorAs(t, err, &cerr)
	assert.Equal(t, "20", cerr.Value)
}

func TestBind_Injection(t *testing.T) {
	c, v := build(t, func(vb *registry.VerbBuilder[any]) {
		vb.Param("out", model.TypeString).Inject(reflect.TypeFor[io.Writer]())
		vb.Param("x", model.TypeInt)
	})

	t.Run("resolved from services", func(t *testing.T) {
		buf := &bytes.Buffer{}
		sc := services.NewContainer()
		services.Add[io.Writer](sc, buf)

		call, err := Bind(context.Background(), c, v, nil, []string{"--x", "1"}, Options{LookupEnv: noEnv, Services: sc})
		require.NoError(t, err)
		assert.Same(t, buf, model.Get[io.Writer](call, "out"))
		assert.Equal(t, model.SourceInjected, call.Source("out"))
	})

	t.Run("never read from tokens", func(t *testing.T) {
		sc := services.NewContainer()
		services.Add[io.Writer](sc, &bytes.Buffer{})

		_, err := Bind(context.Background(), c, v, nil, []string{"--out", "x"}, Options{LookupEnv: noEnv, Services: sc})
		require.Error(t, err)
		assert.Equal(t, clierr.UnknownParameter, clierr.KindOf(err))
	})

	t.Run("missing service", func(t *testing.T) {
		_, err := Bind(context.Background(), c, v, nil, nil, Options{LookupEnv: noEnv, Services: services.NewContainer()})
		require.Error(t, err)
		assert.Equal(t, clierr.InjectionFailed, clierr.KindOf(err))
		assert.NotEqual(t, clierr.MissingRequiredParameter, clierr.KindOf(err))
	})

	t.Run("no provider", func(t *testing.T) {
		_, err := Bind(context.Background(), c, v, nil, nil, Options{LookupEnv: noEnv})
		require.Error(t, err)
		assert.Equal(t, clierr.InjectionFailed, clierr.KindOf(err))
	})
}

func TestSelectVerb(t *testing.T) {
	cb := registry.Component[any]("tool")
	cb.Verb("add", noop).Alias("plus").Default()
	cb.Verb("remove", noop).Alias("rm")
	r := registry.New().Add(cb)
	require.NoError(t, r.Validate(context.Background()))
	c := r.Components()[0]

	for _, name := range []string{"add", "ADD", "Plus"} {
		v, err := SelectVerb(c, name)
		require.NoError(t, err)
		assert.Equal(t, "add", v.Name, name)
	}
	for _, name := range []string{"remove", "RM"} {
		v, err := SelectVerb(c, name)
		require.NoError(t, err)
		assert.Equal(t, "remove", v.Name, name)
	}

	v, err := SelectVerb(c, "")
	require.NoError(t, err)
	assert.Equal(t, "add", v.Name)

	_, err = SelectVerb(c, "remvoe")
	require.Error(t, err)
	assert.Equal(t, clierr.UnknownVerb, clierr.KindOf(err))
	assert.Contains(t, err.Error(), `did you mean "remove"`)
}

func TestSelectVerb_NoDefault(t *testing.T) {
	c := &model.Component{Name: "tool", Verbs: []*model.Verb{{Name: "a"}}}
	_, err := SelectVerb(c, "")
	require.Error(t, err)
	assert.Equal(t, clierr.MissingVerb, clierr.KindOf(err))
}

func TestFlagIndexes(t *testing.T) {
	_, v := build(t, func(vb *registry.VerbBuilder[any]) {
		vb.Param("host", model.TypeString).Alias("h")
		vb.Param("verbose", model.TypeBool)
	})
	tokens := []string{"-h", "/?", "--verbose", "-x", "--host=a", "/help"}

	assert.Equal(t, []int{0, 2, 3, 4, 5}, FlagIndexes(v, tokens), "the value of -h is not a flag position")
	assert.Equal(t, []int{0, 1, 2, 3, 4, 5}, FlagIndexes(nil, tokens))
}

func TestParseFlag(t *testing.T) {
	tests := []struct {
		in   string
		want Flag
		ok   bool
	}{
		{in: "--Name", want: Flag{Name: "name", Raw: "--Name"}, ok: true},
		{in: "-x=1", want: Flag{Name: "x", Value: "1", Inline: true, Raw: "-x=1"}, ok: true},
		{in: "/t:a:b", want: Flag{Name: "t", Value: "a:b", Inline: true, Raw: "/t:a:b"}, ok: true},
		{in: "--empty=", want: Flag{Name: "empty", Value: "", Inline: true, Raw: "--empty="}, ok: true},
		{in: "value", ok: false},
		{in: "--", ok: false},
		{in: "-", ok: false},
		{in: "-=1", ok: false},
	}
	for _, tc := range tests {
		t.Run(tc.in, func(t *testing.T) {
			got, ok := ParseFlag(tc.in)
			assert.Equal(t, tc.ok, ok)
			if tc.ok {
				assert.Equal(t, tc.want, got)
			}
		})
	}
}
