package app

import (
	"os"
	"testing"

	"github.com/specialistvlad/toolpipe/internal/registry"
	"github.com/specialistvlad/toolpipe/internal/testutil"
)

// SetupAppTest creates a fully booted App for system testing, logging at
// debug into a buffer the test can inspect.
func SetupAppTest(t *testing.T, cfg *Config, modules ...registry.Module) (*App, *testutil.SafeBuffer) {
	t.Helper()

	logBuffer := &testutil.SafeBuffer{}
	cfg.LogLevel = "debug"
	testApp := New(logBuffer, cfg, modules...)

	t.Cleanup(func() {
		if os.Getenv("TOOLPIPE_TEST_LOGS") == "true" {
			t.Logf("--- Full Log Output for %s ---\n%s", t.Name(), logBuffer.String())
		}
	})

	return testApp, logBuffer
}
