package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRun(t *testing.T) {
	originalArgs := os.Args
	defer func() {
		os.Args = originalArgs
	}()

	tmpDir := t.TempDir()
	catalogPath := filepath.Join(tmpDir, "catalog.yaml")
	require.NoError(t, os.WriteFile(catalogPath, []byte(`version: "1"
arguments:
  a: {type: int}
  b: {type: int}
  c: {type: int, expression: $a + $b}
`), 0o600))

	tests := []struct {
		name         string
		args         []string
		expectedExit int
	}{
		{
			name:         "Success with valid catalog",
			args:         []string{"derive", "eval", "c", "-c", catalogPath, "--set", "a=1", "--set", "b=8"},
			expectedExit: 0,
		},
		{
			name:         "Missing input",
			args:         []string{"derive", "eval", "c", "-c", catalogPath, "--set", "a=1"},
			expectedExit: 1,
		},
		{
			name:         "Missing catalog",
			args:         []string{"derive", "eval", "c", "-c", filepath.Join(tmpDir, "nope.yaml")},
			expectedExit: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			os.Args = tt.args
			assert.Equal(t, tt.expectedExit, run())
		})
	}
}
