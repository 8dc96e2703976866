package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// invoke runs the CLI with an isolated config file.
func invoke(t *testing.T, stdin string, args ...string) (code int, stdout, stderr string) {
	t.Helper()
	var out, errOut bytes.Buffer
	args = append(args, "--config", filepath.Join(t.TempDir(), "config.yaml"))
	code = run(context.Background(), args, strings.NewReader(stdin), &out, &errOut)
	return code, out.String(), errOut.String()
}

func TestExportThenImport(t *testing.T) {
	dest := filepath.Join(t.TempDir(), "out.xlsx")

	code, _, stderr := invoke(t, `{"name":"a","qty":1}
{"name":"b","qty":2}
`, "export", dest)
	require.Equal(t, 0, code, stderr)

	code, stdout, stderr := invoke(t, "", "import", dest)
	require.Equal(t, 0, code, stderr)
	assert.Equal(t, "{\"name\":\"a\",\"qty\":1}\n{\"name\":\"b\",\"qty\":2}\n", stdout)

	code, stdout, _ = invoke(t, "", "sheets", dest)
	require.Equal(t, 0, code)
	assert.Equal(t, "Sheet1\n", stdout)
}

func TestImportMissingFileExitsNonZero(t *testing.T) {
	good := filepath.Join(t.TempDir(), "good.csv")
	require.NoError(t, os.WriteFile(good, []byte("a\n1\n"), 0644))

	code, stdout, stderr := invoke(t, "", "import", filepath.Join(t.TempDir(), "missing.csv"), good)

	assert.Equal(t, 1, code)
	assert.Equal(t, "{\"a\":1}\n", stdout)
	assert.Contains(t, stderr, "FileNotFound")
}

func TestExportRefusesWithoutForce(t *testing.T) {
	dest := filepath.Join(t.TempDir(), "out.csv")
	require.NoError(t, os.WriteFile(dest, []byte("keep\n"), 0644))

	code, _, stderr := invoke(t, `{"a":1}`, "export", dest)
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "PathRequiresForce")

	code, _, stderr = invoke(t, `{"a":1}`, "export", "--force", dest)
	assert.Equal(t, 0, code, stderr)
	data, err := os.ReadFile(dest)
	require.NoError(t, err)
	assert.Equal(t, "a\n1\n", string(data))
}

func TestUnknownCommand(t *testing.T) {
	code, _, stderr := invoke(t, "", "frobnicate")
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "unknown command")
}

func TestIsTerminal(t *testing.T) {
	assert.False(t, isTerminal(strings.NewReader("{}")))

	f, err := os.CreateTemp(t.TempDir(), "in")
	require.NoError(t, err)
	defer f.Close()
	assert.False(t, isTerminal(f))
}
