package cmd

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"babelgen/parser"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) (int, string, string) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	code := Execute(args, &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

type program struct {
	Type       string            `json:"type"`
	SourceType string            `json:"sourceType"`
	Body       []json.RawMessage `json:"body"`
}

type file struct {
	Type    string  `json:"type"`
	Program program `json:"program"`
}

func decode(t *testing.T, out string) file {
	t.Helper()
	var f file
	require.NoError(t, json.Unmarshal([]byte(out), &f))
	return f
}

func TestExecuteMissingInput(t *testing.T) {
	code, stdout, stderr := execute(t)
	assert.Equal(t, 1, code)
	assert.Empty(t, stdout)
	assert.Contains(t, stderr, "Missing input file.")
	assert.Contains(t, stderr, "babelgen path/to/input.js")

	code, stdout, _ = execute(t, []string(nil)...)
	assert.Equal(t, 1, code)
	assert.Empty(t, stdout)
}

func TestExecuteScript(t *testing.T) {
	code, stdout, stderr := execute(t, "testdata/const.js")
	require.Equal(t, 0, code, stderr)
	assert.Empty(t, stderr)

	f := decode(t, stdout)
	assert.Equal(t, "File", f.Type)
	assert.Equal(t, "Program", f.Program.Type)
	assert.Equal(t, "script", f.Program.SourceType)
	assert.Len(t, f.Program.Body, 1)

	assert.Contains(t, stdout, "{\n    \"type\": \"File\",\n")
	assert.Equal(t, byte('\n'), stdout[len(stdout)-1])
}

func TestExecuteModule(t *testing.T) {
	code, stdout, stderr := execute(t, "testdata/export.mjs")
	require.Equal(t, 0, code, stderr)

	f := decode(t, stdout)
	assert.Equal(t, "module", f.Program.SourceType)
}

func TestExecuteExportInScript(t *testing.T) {
	code, stdout, stderr := execute(t, "testdata/export.js")
	assert.Equal(t, 1, code)
	assert.Empty(t, stdout)
	assert.Contains(t, stderr, `'import' and 'export' may appear only with 'sourceType: "module"' (1:0)`)
}

func TestExecuteClassFields(t *testing.T) {
	code, stdout, stderr := execute(t, "testdata/class_fields.js")
	require.Equal(t, 0, code, stderr)
	assert.Contains(t, stdout, `"type": "ClassProperty"`)

	// The CLI's plugin set is what makes class fields parse.
	_, err := parser.ParseFile("testdata/class_fields.js", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `requires enabling the parser plugin: "classProperties"`)
}

func TestExecuteSyntaxError(t *testing.T) {
	code, stdout, stderr := execute(t, "testdata/syntax_error.js")
	assert.Equal(t, 1, code)
	assert.Empty(t, stdout)
	assert.Contains(t, stderr, "testdata/syntax_error.js")
	assert.Contains(t, stderr, "Unexpected token (1:8)")
}

func TestExecuteMissingFile(t *testing.T) {
	code, stdout, stderr := execute(t, "testdata/does-not-exist.js")
	assert.Equal(t, 1, code)
	assert.Empty(t, stdout)
	assert.Contains(t, stderr, "read input")
}

func TestExecuteDeterministic(t *testing.T) {
	_, first, _ := execute(t, "testdata/class_fields.js")
	_, second, _ := execute(t, "testdata/class_fields.js")
	assert.Equal(t, first, second)
}

func TestExecuteIgnoresExtraArguments(t *testing.T) {
	_, want, _ := execute(t, "testdata/const.js")
	code, got, _ := execute(t, "testdata/const.js", "testdata/export.js")
	assert.Equal(t, 0, code)
	assert.Equal(t, want, got)
}

func TestExecuteVerbose(t *testing.T) {
	code, stdout, stderr := execute(t, "--verbose", "testdata/const.js")
	require.Equal(t, 0, code)
	assert.NotEmpty(t, stdout)
	assert.Contains(t, stderr, "level=DEBUG")
	assert.Contains(t, stderr, "path=testdata/const.js")
	assert.Contains(t, stderr, "nodes=")

	_, _, stderr = execute(t, "testdata/const.js")
	assert.Empty(t, stderr)
}

func TestSourceTypeFor(t *testing.T) {
	assert.Equal(t, parser.SOURCE_MODULE, sourceTypeFor("a/b.mjs"))
	assert.Equal(t, parser.SOURCE_UNSPECIFIED, sourceTypeFor("a/b.js"))
	assert.Equal(t, parser.SOURCE_UNSPECIFIED, sourceTypeFor("a/b.cjs"))
	assert.Equal(t, parser.SOURCE_UNSPECIFIED, sourceTypeFor("mjs"))
}

func TestExecuteDashPath(t *testing.T) {
	source, err := os.ReadFile("testdata/const.js")
	require.NoError(t, err)

	wd, err := os.Getwd()
	require.NoError(t, err)
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "-x.js"), source, 0o644))
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })

	code, stdout, stderr := execute(t, "-x.js")
	assert.Equal(t, 1, code)
	assert.Empty(t, stdout)
	assert.Contains(t, stderr, "unknown shorthand flag: 'x' in -x.js")
	assert.Contains(t, stderr, "babelgen -- -input.js")

	code, stdout, stderr = execute(t, "--", "-x.js")
	require.Equal(t, 0, code, stderr)
	assert.Equal(t, "script", decode(t, stdout).Program.SourceType)

	code, _, stderr = execute(t, "-v", "--", "-x.js")
	require.Equal(t, 0, code, stderr)
	assert.Contains(t, stderr, "path=-x.js")
}
