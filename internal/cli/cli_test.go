package cli

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	t.Parallel()

	t.Run("positional path with defaults", func(t *testing.T) {
		t.Parallel()
		out := &bytes.Buffer{}

		cfg, shouldExit, err := Parse([]string{"run.json"}, out)

		require.NoError(t, err)
		assert.False(t, shouldExit)
		assert.Equal(t, "run.json", cfg.PipelinePath)
		assert.Equal(t, "memory", cfg.StoreBackend)
		assert.Equal(t, "json", cfg.LogFormat)
		assert.Equal(t, "info", cfg.LogLevel)
		assert.False(t, cfg.ValidateOnly)
	})

	t.Run("pipeline flag wins over shorthand and positional", func(t *testing.T) {
		t.Parallel()
		out := &bytes.Buffer{}

		cfg, _, err := Parse([]string{"-pipeline", "a.json", "-p", "b.json", "c.json"}, out)

		require.NoError(t, err)
		assert.Equal(t, "a.json", cfg.PipelinePath)
	})

	t.Run("help flag exits cleanly", func(t *testing.T) {
		t.Parallel()
		out := &bytes.Buffer{}

		cfg, shouldExit, err := Parse([]string{"-h"}, out)

		require.NoError(t, err)
		assert.True(t, shouldExit)
		assert.Nil(t, cfg)
		assert.Contains(t, out.String(), "Usage:")
	})

	t.Run("no arguments prints usage and exits cleanly", func(t *testing.T) {
		t.Parallel()
		out := &bytes.Buffer{}

		cfg, shouldExit, err := Parse(nil, out)

		require.NoError(t, err)
		assert.True(t, shouldExit)
		assert.Nil(t, cfg)
		assert.Contains(t, out.String(), "PIPELINE_PATH")
	})

	t.Run("standalone flags need no path", func(t *testing.T) {
		t.Parallel()
		for _, args := range [][]string{
			{"-list-tools"},
			{"-schemas"},
			{"-list-saved"},
			{"-from-store", "demo"},
			{"-remove", "demo"},
		} {
			cfg, shouldExit, err := Parse(args, &bytes.Buffer{})
			require.NoError(t, err, "args %v", args)
			require.False(t, shouldExit, "args %v", args)
			require.NotNil(t, cfg, "args %v", args)
		}
	})

	t.Run("unknown flag is an exit error", func(t *testing.T) {
		t.Parallel()
		out := &bytes.Buffer{}

		_, _, err := Parse([]string{"--bogus"}, out)

		var exitErr *ExitError
		require.ErrorAs(t, err, &exitErr)
		assert.Equal(t, 2, exitErr.Code)
	})

	t.Run("invalid log format", func(t *testing.T) {
		t.Parallel()
		_, _, err := Parse([]string{"-log-format", "yaml", "run.json"}, &bytes.Buffer{})

		var exitErr *ExitError
		require.ErrorAs(t, err, &exitErr)
		assert.Equal(t, 2, exitErr.Code)
		assert.Contains(t, exitErr.Message, "log-format")
	})

	t.Run("invalid log level", func(t *testing.T) {
		t.Parallel()
		_, _, err := Parse([]string{"-log-level", "loud", "run.json"}, &bytes.Buffer{})

		var exitErr *ExitError
		require.ErrorAs(t, err, &exitErr)
		assert.Contains(t, exitErr.Message, "log-level")
	})

	t.Run("invalid store backend", func(t *testing.T) {
		t.Parallel()
		_, _, err := Parse([]string{"-store", "redis", "run.json"}, &bytes.Buffer{})

		var exitErr *ExitError
		require.ErrorAs(t, err, &exitErr)
		assert.Contains(t, exitErr.Message, "store")
	})

	t.Run("level and format are case-insensitive", func(t *testing.T) {
		t.Parallel()
		cfg, _, err := Parse([]string{"-log-level", "DEBUG", "-log-format", "Text", "run.json"}, &bytes.Buffer{})

		require.NoError(t, err)
		assert.Equal(t, "debug", cfg.LogLevel)
		assert.Equal(t, "text", cfg.LogFormat)
	})

	t.Run("save-as without a pipeline path is rejected", func(t *testing.T) {
		t.Parallel()
		_, _, err := Parse([]string{"-save-as", "demo", "-list-tools"}, &bytes.Buffer{})

		var exitErr *ExitError
		require.ErrorAs(t, err, &exitErr)
		assert.Equal(t, 2, exitErr.Code)
	})

	t.Run("pipeline and from-store together are rejected", func(t *testing.T) {
		t.Parallel()
		_, _, err := Parse([]string{"-from-store", "demo", "run.json"}, &bytes.Buffer{})

		var exitErr *ExitError
		require.ErrorAs(t, err, &exitErr)
		assert.Contains(t, exitErr.Message, "mutually exclusive")
	})
}
