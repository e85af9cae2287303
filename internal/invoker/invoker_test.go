package invoker

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/specialistvlad/clapgo/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// sum is the shared work done by both handler flavours below.
func sum(call *model.Call) (int, error) {
	xs := call.Ints("xs")
	if len(xs) == 0 {
		return 0, errors.New("nothing to add")
	}
	total := 0
	for _, x := range xs {
		total += x
	}
	return total, nil
}

func verbs(result *int) (*model.Verb, *model.Verb) {
	params := []*model.Parameter{{Names: []string{"xs"}, Type: model.TypeInt, Array: true}}
	syncVerb := &model.Verb{
		Name:   "sum",
		Params: params,
		Handler: func(ctx context.Context, target any, call *model.Call) error {
			n, err := sum(call)
			*result = n
			return err
		},
	}
	asyncVerb := &model.Verb{
		Name:   "sum",
		Params: params,
		Async:  true,
		AsyncHandler: func(ctx context.Context, target any, call *model.Call) <-chan error {
			done := make(chan error, 1)
			go func() {
				defer close(done)
				time.Sleep(5 * time.Millisecond)
				n, err := sum(call)
				*result = n
				if err != nil {
					done <- err
				}
			}()
			return done
		},
	}
	return syncVerb, asyncVerb
}

func callWith(v *model.Verb, xs []int) *model.Call {
	c := model.NewCall(&model.Component{Name: "math"}, v, nil)
	c.Args[0] = xs
	return c
}

func TestInvoke_SyncAndAsyncAgree(t *testing.T) {
	tests := []struct {
		name    string
		xs      []int
		want    int
		wantErr string
	}{
		{name: "success", xs: []int{1, 2, 3}, want: 6},
		{name: "failure", xs: []int{}, wantErr: "nothing to add"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			for _, background := range []bool{false, true} {
				var syncResult, asyncResult int
				syncVerb, _ := verbs(&syncResult)
				_, asyncVerb := verbs(&asyncResult)

				_, syncErr := Invoke(context.Background(), syncVerb, nil, callWith(syncVerb, tc.xs), Options{Background: background}).Wait()
				_, asyncErr := Invoke(context.Background(), asyncVerb, nil, callWith(asyncVerb, tc.xs), Options{Background: background}).Wait()

				if tc.wantErr != "" {
					require.EqualError(t, syncErr, tc.wantErr)
					require.EqualError(t, asyncErr, tc.wantErr)
					continue
				}
				require.NoError(t, syncErr)
				require.NoError(t, asyncErr)
				assert.Equal(t, tc.want, syncResult)
				assert.Equal(t, syncResult, asyncResult)
			}
		})
	}
}

func TestInvoke_SyncIsResolvedInline(t *testing.T) {
	ran := false
	v := &model.Verb{Name: "x", Handler: func(context.Context, any, *model.Call) error {
		ran = true
		return nil
	}}

	f := Invoke(context.Background(), v, nil, model.NewCall(&model.Component{}, v, nil), Options{})
	assert.True(t, ran)
	select {
	case <-f.Done():
	default:
		t.Fatal("future of a synchronous handler should already be complete")
	}
}

func TestInvoke_NilAndClosedChannelsSucceed(t *testing.T) {
	nilVerb := &model.Verb{Name: "nil", Async: true, AsyncHandler: func(context.Context, any, *model.Call) <-chan error {
		return nil
	}}
	closedVerb := &model.Verb{Name: "closed", Async: true, AsyncHandler: func(context.Context, any, *model.Call) <-chan error {
		ch := make(chan error)
		close(ch)
		return ch
	}}

	for _, v := range []*model.Verb{nilVerb, closedVerb} {
		_, err := Invoke(context.Background(), v, nil, model.NewCall(&model.Component{}, v, nil), Options{}).Wait()
		assert.NoError(t, err, v.Name)
	}
}

func TestInvoke_PanicsAreRecovered(t *testing.T) {
	syncVerb := &model.Verb{Name: "boom", Handler: func(context.Context, any, *model.Call) error {
		panic("kaboom")
	}}
	asyncVerb := &model.Verb{Name: "boom", Async: true, AsyncHandler: func(context.Context, any, *model.Call) <-chan error {
		panic("kaboom")
	}}

	for _, v := range []*model.Verb{syncVerb, asyncVerb} {
		_, err := Invoke(context.Background(), v, nil, model.NewCall(&model.Component{}, v, nil), Options{}).Wait()
		require.Error(t, err)
		var perr *PanicError
		require.ErrorAs(t, err, &perr)
		assert.Equal(t, "kaboom", perr.Value)
		assert.Contains(t, err.Error(), "verb boom panicked")
	}
}

func TestFuture(t *testing.T) {
	f := NewFuture[int]()
	f.Complete(1, nil)
	f.Complete(2, errors.New("ignored"))

	v, err := f.Wait()
	require.NoError(t, err)
	assert.Equal(t, 1, v)

	g := Then(f, func(n int, err error) (string, error) {
		return "n=1", err
	})
	s, err := g.Wait()
	require.NoError(t, err)
	assert.Equal(t, "n=1", s)
}

func TestFuture_AwaitHonorsContext(t *testing.T) {
	f := NewFuture[int]()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := f.Await(ctx)
	require.ErrorIs(t, err, context.Canceled)

	late := Go(func() (int, error) { return 7, nil })
	v, err := late.Await(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 7, v)
}
