package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	out := &bytes.Buffer{}
	cmd := newRootCmd()
	cmd.SetOut(out)
	cmd.SetErr(out)
	cmd.SetIn(&bytes.Buffer{})
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(t.Context())
	return out.String(), err
}

func writeConfig(t *testing.T, storage string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "client.toml")
	content := fmt.Sprintf("server_url = %q\nstorage = %q\nstorage_path = %q\nlog_file = %q\n",
		"http://127.0.0.1:1", storage, filepath.Join(dir, "device"), filepath.Join(dir, "client.log"))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestVersion(t *testing.T) {
	out, err := run(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "TodoKeeper Client")
}

func TestProfileShowAndReset(t *testing.T) {
	for _, storage := range []string{"file", "sqlite"} {
		t.Run(storage, func(t *testing.T) {
			cfg := writeConfig(t, storage)

			out, err := run(t, "--config", cfg, "profile", "show")
			require.NoError(t, err)
			assert.Contains(t, out, "John Doe")

			out, err = run(t, "--config", cfg, "profile", "reset")
			require.NoError(t, err)
			assert.Contains(t, out, "App data cleared.")
		})
	}
}

func TestTodoListEmpty(t *testing.T) {
	cfg := writeConfig(t, "file")
	out, err := run(t, "-c", cfg, "todo", "pending")
	require.NoError(t, err)
	assert.Contains(t, out, "No todos.")
}

func TestShellEndsOnEmptyInput(t *testing.T) {
	cfg := writeConfig(t, "file")
	_, err := run(t, "-c", cfg)
	assert.NoError(t, err)
}

func TestResetPasswordRequiresFlags(t *testing.T) {
	_, err := run(t, "reset-password")
	assert.ErrorContains(t, err, "required flag")
}
