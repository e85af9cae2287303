package testutil

import (
	"context"
	"sync"

	"github.com/specialistvlad/clapgo/internal/model"
	"github.com/specialistvlad/clapgo/internal/registry"
)

// RecordingModule registers a component whose verbs capture their bound
// call instead of doing work. Declare builds the component's verbs.
type RecordingModule struct {
	Name    string
	Declare func(c *registry.ComponentBuilder[*RecordingModule], record func(context.Context, *RecordingModule, *model.Call) error)

	mu    sync.Mutex
	calls []*model.Call
}

// Register implements registry.Module.
func (m *RecordingModule) Register(r *registry.Registry) {
	c := registry.Component[*RecordingModule](m.Name)
	m.Declare(c, func(_ context.Context, target *RecordingModule, call *model.Call) error {
		if target == nil {
			target = m
		}
		target.mu.Lock()
		defer target.mu.Unlock()
		target.calls = append(target.calls, call)
		return nil
	})
	r.Add(c)
}

// Calls returns every call recorded so far.
func (m *RecordingModule) Calls() []*model.Call {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]*model.Call(nil), m.calls...)
}

// Last returns the most recent call, or nil.
func (m *RecordingModule) Last() *model.Call {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.calls) == 0 {
		return nil
	}
	return m.calls[len(m.calls)-1]
}
