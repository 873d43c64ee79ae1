package app

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
)

// useTempEnv points the package at a fresh database and an empty config
// directory, and restores the globals when the test ends.
func useTempEnv(t *testing.T) string {
	t.Helper()

	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "config"))
	t.Setenv("NO_COLOR", "1")

	origDBPath, origConfigPath, origLogLevel := dbPath, configPath, logLevel
	origCfg, origLogger := cfg, logger
	dbPath = filepath.Join(dir, "test.db")
	configPath = ""
	logLevel = ""
	cfg = nil
	logger = nil

	t.Cleanup(func() {
		dbPath, configPath, logLevel = origDBPath, origConfigPath, origLogLevel
		cfg, logger = origCfg, origLogger
	})
	return dir
}

// setFlag sets a command flag as if given on the command line and resets
// it when the test ends.
func setFlag(t *testing.T, cmd *cobra.Command, name, value string) {
	t.Helper()
	if err := cmd.Flags().Set(name, value); err != nil {
		t.Fatalf("failed to set --%s=%s: %v", name, value, err)
	}
	t.Cleanup(func() {
		f := cmd.Flags().Lookup(name)
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	})
}

// captureStdout runs fn and returns everything it printed to stdout.
func captureStdout(t *testing.T, fn func() error) (string, error) {
	t.Helper()

	orig := os.Stdout
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("failed to create pipe: %v", err)
	}
	os.Stdout = w

	done := make(chan string)
	go func() {
		var buf bytes.Buffer
		_, _ = io.Copy(&buf, r)
		done <- buf.String()
	}()

	var runErr error
	func() {
		defer func() { os.Stdout = orig }()
		runErr = fn()
	}()
	w.Close()

	return <-done, runErr
}

// writeDataFile writes a JSON data file into dir and returns its path.
func writeDataFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write %s: %v", path, err)
	}
	return path
}

const sampleData = `[["Rokok", "kopi"], ["rokok", "kopi", "roti"], ["ROKOK", "susu"]]`
