// Package defaults provides default providers for verb parameters: plain
// functions, and values read from HCL, TOML or YAML defaults files.
//
// A defaults file has global values, applying to any parameter with that
// name, and per-verb values, which win over globals. In HCL:
//
//	times = 2
//
//	verb "print.line" {
//	  times = 3
//	}
//
// TOML and YAML use nested tables instead of verb blocks:
//
//	times = 2
//	[print.line]
//	times = 3
package defaults

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/specialistvlad/clapgo/internal/ctxlog"
	"github.com/specialistvlad/clapgo/internal/fsutil"
)

// Store answers default-value lookups.
type Store interface {
	Lookup(component, verb, param string) (any, bool)
}

// MapStore is an in-memory Store. Keys are lower-case.
type MapStore struct {
	Global map[string]any
	// Verbs is keyed by "component.verb".
	Verbs map[string]map[string]any
}

// NewMapStore returns an empty MapStore.
func NewMapStore() *MapStore {
	return &MapStore{
		Global: make(map[string]any),
		Verbs:  make(map[string]map[string]any),
	}
}

// Lookup implements Store.
func (s *MapStore) Lookup(component, verb, param string) (any, bool) {
	if s == nil {
		return nil, false
	}
	param = strings.ToLower(param)
	if vals, ok := s.Verbs[verbKey(component, verb)]; ok {
		if v, ok := vals[param]; ok {
			return v, true
		}
	}
	v, ok := s.Global[param]
	return v, ok
}

// SetGlobal records a value for every parameter named param.
func (s *MapStore) SetGlobal(param string, value any) {
	s.Global[strings.ToLower(param)] = value
}

// SetVerb records a value for param of one verb.
func (s *MapStore) SetVerb(component, verb, param string, value any) {
	key := verbKey(component, verb)
	if s.Verbs[key] == nil {
		s.Verbs[key] = make(map[string]any)
	}
	s.Verbs[key][strings.ToLower(param)] = value
}

// Merge copies every value of other into s, overwriting.
func (s *MapStore) Merge(other *MapStore) {
	for k, v := range other.Global {
		s.Global[k] = v
	}
	for key, vals := range other.Verbs {
		if s.Verbs[key] == nil {
			s.Verbs[key] = make(map[string]any)
		}
		for k, v := range vals {
			s.Verbs[key][k] = v
		}
	}
}

func verbKey(component, verb string) string {
	return strings.ToLower(component + "." + verb)
}

// Extensions lists the file types LoadStore understands.
var Extensions = []string{".hcl", ".toml", ".yaml", ".yml"}

// LoadStore reads a defaults file, or every defaults file under a directory
// in path order. Later files override earlier ones.
func LoadStore(ctx context.Context, path string) (*MapStore, error) {
	logger := ctxlog.FromContext(ctx)

	files, err := fsutil.FindFilesByExtension(path, Extensions...)
	if err != nil {
		return nil, fmt.Errorf("failed to find defaults files in '%s': %w", path, err)
	}
	logger.Debug("Discovered defaults files.", "path", path, "count", len(files))

	store := NewMapStore()
	for _, file := range files {
		s, err := loadFile(file)
		if err != nil {
			return nil, err
		}
		store.Merge(s)
		logger.Debug("Loaded defaults file.", "file", file, "globals", len(s.Global), "verbs", len(s.Verbs))
	}
	return store, nil
}

func loadFile(path string) (*MapStore, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".hcl":
		return loadHCL(path)
	case ".toml":
		return loadTOML(path)
	case ".yaml", ".yml":
		return loadYAML(path)
	}
	return nil, fmt.Errorf("unsupported defaults file '%s': expected one of %s", path, strings.Join(Extensions, ", "))
}

// fromTree fills a store from a decoded TOML or YAML document.
func fromTree(path string, tree map[string]any) (*MapStore, error) {
	store := NewMapStore()
	for key, val := range tree {
		component, ok := val.(map[string]any)
		if !ok {
			store.SetGlobal(key, val)
			continue
		}
		for verb, params := range component {
			vals, ok := params.(map[string]any)
			if !ok {
				return nil, fmt.Errorf("defaults file '%s': '%s.%s' must be a table of parameter values", path, key, verb)
			}
			for param, v := range vals {
				store.SetVerb(key, verb, param, v)
			}
		}
	}
	return store, nil
}
