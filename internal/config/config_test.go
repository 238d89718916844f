package config

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDefaults(t *testing.T) {
	cfg, err := Parse("typ2tex", nil, &bytes.Buffer{})
	require.NoError(t, err)
	assert.Equal(t, "pandoc", cfg.Converter)
	assert.Equal(t, ThemeAuto, cfg.Theme)
	assert.Zero(t, cfg.Timeout)
	assert.False(t, cfg.HasExpr)
	assert.Empty(t, cfg.InputFile)
}

func TestParseFlags(t *testing.T) {
	cfg, err := Parse("typ2tex", []string{
		"-pandoc", "/opt/pandoc/bin/pandoc",
		"-timeout", "3s",
		"-theme", "dark",
		"-log", "/tmp/typ2tex.log",
		"-debug",
		"notes.typ",
	}, &bytes.Buffer{})
	require.NoError(t, err)
	assert.Equal(t, "/opt/pandoc/bin/pandoc", cfg.Converter)
	assert.Equal(t, 3*time.Second, cfg.Timeout)
	assert.Equal(t, ThemeDark, cfg.Theme)
	assert.Equal(t, "/tmp/typ2tex.log", cfg.LogFile)
	assert.True(t, cfg.Debug)
	assert.Equal(t, "notes.typ", cfg.InputFile)
}

func TestParseExpression(t *testing.T) {
	cfg, err := Parse("typ2tex", []string{"-e", ""}, &bytes.Buffer{})
	require.NoError(t, err)
	assert.True(t, cfg.HasExpr)
	assert.Equal(t, "", cfg.Expression)
}

func TestParseErrors(t *testing.T) {
	tests := [][]string{
		{"-theme", "sepia"},
		{"-timeout", "-1s"},
		{"-pandoc", ""},
		{"-e", "x", "file.typ"},
		{"a.typ", "b.typ"},
		{"-nope"},
	}
	for _, args := range tests {
		t.Run(strings.Join(args, " "), func(t *testing.T) {
			_, err := Parse("typ2tex", args, &bytes.Buffer{})
			assert.Error(t, err)
		})
	}
}

func TestSetupLogger(t *testing.T) {
	cfg := &Config{}
	logger, closer, err := cfg.SetupLogger()
	require.NoError(t, err)
	logger.Info("dropped")
	require.NoError(t, closer.Close())

	path := filepath.Join(t.TempDir(), "logs", "typ2tex.log")
	cfg = &Config{LogFile: path, Debug: true}
	logger, closer, err = cfg.SetupLogger()
	require.NoError(t, err)
	logger.Debug("converter finished", "command", "pandoc")
	require.NoError(t, closer.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "converter finished")
	assert.Contains(t, string(data), "command=pandoc")
}
