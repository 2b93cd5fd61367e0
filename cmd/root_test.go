package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/km-arc/go-syringe/framework/container"
)

func writeFile(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

// run executes the command tree with args and returns its stdout.
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	for _, k := range []string{"VALUES_FILE", "LOG_FORMAT", "LOG_LEVEL"} {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}
	env := writeFile(t, "test.env", "APP_ENV=testing\nLOG_LEVEL=error\n")
	t.Setenv("APP_ENV", "")
	os.Unsetenv("APP_ENV")

	root := NewRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(append([]string{"--env", env}, args...))
	err := root.Execute()
	return out.String(), err
}

func TestKeys(t *testing.T) {
	values := writeFile(t, "values.yaml", "mail:\n  host: smtp.example.com\n")

	out, err := run(t, "keys", "--values", values)
	require.NoError(t, err)
	assert.Contains(t, out, "mail.host")
	assert.Contains(t, out, "value")
	assert.Contains(t, out, "config")
	assert.Contains(t, out, "instance")
}

func TestGet_PrintsYAML(t *testing.T) {
	values := writeFile(t, "values.yaml", "mail:\n  host: smtp.example.com\n  ports: [25, 587]\n")

	out, err := run(t, "get", "mail.ports", "--values", values)
	require.NoError(t, err)
	assert.Equal(t, "- 25\n- 587\n", out)

	out, err = run(t, "get", "mail.host", "-f", values)
	require.NoError(t, err)
	assert.Equal(t, "smtp.example.com\n", out)
}

func TestGet_Missing(t *testing.T) {
	_, err := run(t, "get", "nope")
	assert.ErrorIs(t, err, container.ErrNotFound)
}

func TestRaw(t *testing.T) {
	out, err := run(t, "raw", "config")
	require.NoError(t, err)
	assert.Contains(t, out, "kind:    instance")
	assert.Contains(t, out, "payload: container.Factory")
}

func TestArgsValidation(t *testing.T) {
	_, err := run(t, "raw")
	assert.Error(t, err)

	_, err = run(t, "keys", "extra")
	assert.Error(t, err)
}

func TestBadValuesFile(t *testing.T) {
	_, err := run(t, "keys", "--values", filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorContains(t, err, "booting application")
}
