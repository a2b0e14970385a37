package testutil

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/specialistvlad/choregrapher/internal/app"
	"github.com/specialistvlad/choregrapher/internal/config"
	"github.com/specialistvlad/choregrapher/internal/hcl_adapter"
	"github.com/specialistvlad/choregrapher/internal/yaml_adapter"
	"github.com/stretchr/testify/require"
)

// LogsEnv enables dumping the captured log of every harness run.
const LogsEnv = "CHOREGRAPHER_TEST_LOGS"

// SafeBuffer is a thread-safe buffer for capturing log output in tests.
type SafeBuffer struct {
	b  bytes.Buffer
	mu sync.Mutex
}

// Write implements the io.Writer interface for SafeBuffer.
func (b *SafeBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.b.Write(p)
}

// String implements the fmt.Stringer interface for SafeBuffer.
func (b *SafeBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.b.String()
}

// HarnessResult holds the outcomes of an end-to-end run.
type HarnessResult struct {
	LogOutput string
	// Err is the construction error, or the run error once construction
	// succeeded.
	Err error
	App *app.App
}

// WriteFiles writes files, keyed by slash-separated relative path, under a
// fresh temporary directory and returns it.
func WriteFiles(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		p := filepath.Join(dir, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
		require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	}
	return dir
}

// Loader returns the loader chain used by the binary.
func Loader() config.Loader {
	return config.Chain{hcl_adapter.NewLoader(), yaml_adapter.NewLoader()}
}

// RunSimulation writes files, builds an App over them with cfg (ConfigPath
// is filled in) and runs it. models defaults to the compiled-in models.
func RunSimulation(ctx context.Context, t *testing.T, files map[string]string, cfg app.Config, models ...app.Model) *HarnessResult {
	t.Helper()

	cfg.ConfigPath = WriteFiles(t, files)
	if cfg.LogLevel == "" {
		cfg.LogLevel = "debug"
	}
	if cfg.LogFormat == "" {
		cfg.LogFormat = "text"
	}

	logBuffer := &SafeBuffer{}
	t.Cleanup(func() {
		if os.Getenv(LogsEnv) == "true" {
			t.Logf("--- Full Log Output for %s ---\n%s", t.Name(), logBuffer.String())
		}
	})

	a, err := app.NewApp(logBuffer, &cfg, Loader(), models...)
	if err != nil {
		return &HarnessResult{LogOutput: logBuffer.String(), Err: err}
	}
	err = a.Run(ctx)
	return &HarnessResult{LogOutput: logBuffer.String(), Err: err, App: a}
}
