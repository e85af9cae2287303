package defaults

import (
	"context"
	"sync"

	"github.com/specialistvlad/clapgo/internal/ctxlog"
	"github.com/specialistvlad/clapgo/internal/model"
)

// Func adapts a function to model.DefaultProvider.
func Func(description string, fn func(ctx context.Context, req model.DefaultRequest) (any, bool, error)) model.DefaultProvider {
	return &funcProvider{description: description, fn: fn}
}

type funcProvider struct {
	description string
	fn          func(ctx context.Context, req model.DefaultRequest) (any, bool, error)
}

func (p *funcProvider) DefaultValue(ctx context.Context, req model.DefaultRequest) (any, bool, error) {
	return p.fn(ctx, req)
}

func (p *funcProvider) Description() string { return p.description }

// FileProvider reads defaults from a file or directory, loaded on first use.
type FileProvider struct {
	path  string
	once  sync.Once
	store *MapStore
	err   error
}

// FromFile returns a provider backed by the defaults at path. Nothing is
// read until a default is actually needed.
func FromFile(path string) *FileProvider {
	return &FileProvider{path: path}
}

// DefaultValue implements model.DefaultProvider.
func (p *FileProvider) DefaultValue(ctx context.Context, req model.DefaultRequest) (any, bool, error) {
	p.once.Do(func() {
		p.store, p.err = LoadStore(ctx, p.path)
	})
	if p.err != nil {
		return nil, false, p.err
	}
	v, ok := lookup(p.store, req)
	return v, ok, nil
}

// Description implements model.DefaultProvider.
func (p *FileProvider) Description() string { return "value from " + p.path }

type storeKey struct{}

// WithStore returns a copy of ctx carrying store for FromContext providers.
func WithStore(ctx context.Context, store Store) context.Context {
	return context.WithValue(ctx, storeKey{}, store)
}

// StoreFromContext returns the store placed by WithStore, if any.
func StoreFromContext(ctx context.Context) (Store, bool) {
	s, ok := ctx.Value(storeKey{}).(Store)
	return s, ok && s != nil
}

// FromContext returns a provider that consults the Store carried by the run
// context. Without one it has nothing to offer.
func FromContext() model.DefaultProvider {
	return contextProvider{}
}

type contextProvider struct{}

func (contextProvider) DefaultValue(ctx context.Context, req model.DefaultRequest) (any, bool, error) {
	store, ok := StoreFromContext(ctx)
	if !ok {
		return nil, false, nil
	}
	v, found := lookup(store, req)
	if found {
		ctxlog.FromContext(ctx).Debug("Default taken from defaults store.", "param", req.Param.Name())
	}
	return v, found, nil
}

func (contextProvider) Description() string { return "defaults file" }

// lookup tries every name of the parameter, canonical name first.
func lookup(store Store, req model.DefaultRequest) (any, bool) {
	for _, name := range req.Param.Names {
		if v, ok := store.Lookup(req.Component, req.Verb, name); ok {
			return v, true
		}
	}
	return nil, false
}
