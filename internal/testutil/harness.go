// Package testutil runs the whole application against temporary defaults
// files for end-to-end tests.
package testutil

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/specialistvlad/clapgo/internal/app"
	"github.com/specialistvlad/clapgo/internal/registry"
	"github.com/stretchr/testify/require"
)

// HarnessResult holds the outcomes of an integration test run.
type HarnessResult struct {
	Output    string
	LogOutput string
	Code      int
	Err       error
	App       *app.App
}

// Options tune a harness run.
type Options struct {
	// Files are written below a temporary directory, which then becomes the
	// app's defaults path. Keys are relative paths.
	Files map[string]string
	// Config overrides the default host configuration. Its DefaultsPath is
	// replaced when Files is set.
	Config *app.Config
	// Modules replace the built-in modules.
	Modules []registry.Module
}

// Run provides a standardized harness for running integration tests using
// a default background context.
func Run(t *testing.T, opts Options, args ...string) *HarnessResult {
	t.Helper()
	return RunWithContext(context.Background(), t, opts, args...)
}

// RunWithContext provides a standardized harness for running integration
// tests with a specific context provided by the caller. A startup failure
// is reported in Err with a nil App.
func RunWithContext(ctx context.Context, t *testing.T, opts Options, args ...string) *HarnessResult {
	t.Helper()

	cfg := app.DefaultConfig()
	if opts.Config != nil {
		cfg = *opts.Config
	}
	cfg.LogLevel = "debug"

	if len(opts.Files) > 0 {
		dir := t.TempDir()
		for name, content := range opts.Files {
			path := filepath.Join(dir, name)
			require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
			require.NoError(t, os.WriteFile(path, []byte(content), 0644))
		}
		cfg.DefaultsPath = dir
	}

	out := &app.SafeBuffer{}
	logs := &app.SafeBuffer{}
	defer func() {
		if os.Getenv("CLAPGO_TEST_LOGS") == "true" {
			t.Logf("--- Full Log Output for %s ---\n%s", t.Name(), logs.String())
		}
	}()

	testApp, err := app.NewApp(out, logs, &cfg, opts.Modules...)
	if err != nil {
		return &HarnessResult{LogOutput: logs.String(), Code: 1, Err: err}
	}

	code, err := testApp.Run(ctx, args)
	return &HarnessResult{
		Output:    out.String(),
		LogOutput: logs.String(),
		Code:      code,
		Err:       err,
		App:       testApp,
	}
}
