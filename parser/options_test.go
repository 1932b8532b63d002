package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetOptionsDefaults(t *testing.T) {
	options, err := GetOptions(nil)
	require.NoError(t, err)
	assert.Equal(t, SOURCE_SCRIPT, options.SourceType)
	assert.Empty(t, options.Plugins)
	assert.False(t, options.strict())

	options, err = GetOptions(&Options{SourceType: SOURCE_MODULE})
	require.NoError(t, err)
	assert.Equal(t, SOURCE_MODULE, options.SourceType)
	assert.True(t, options.strict())
}

func TestGetOptionsErrors(t *testing.T) {
	_, err := GetOptions(&Options{SourceType: "commonjs"})
	assert.ErrorIs(t, err, ErrInvalidSourceType)
	assert.EqualError(t, err, `invalid source type: "commonjs"`)

	_, err = GetOptions(&Options{Plugins: []string{PLUGIN_CLASS_PROPERTIES, "jsx"}})
	assert.ErrorIs(t, err, ErrUnknownPlugin)
	assert.EqualError(t, err, `unknown parser plugin: "jsx"`)

	_, err = Parse([]byte("x"), &Options{Plugins: []string{"decorators"}})
	assert.ErrorIs(t, err, ErrUnknownPlugin)
}

func TestGetOptionsDoesNotShareState(t *testing.T) {
	plugins := []string{PLUGIN_CLASS_PROPERTIES}
	options, err := GetOptions(&Options{Plugins: plugins})
	require.NoError(t, err)

	options.Plugins[0] = PLUGIN_CLASS_STATIC_BLOCK
	options.SourceType = SOURCE_MODULE

	assert.Equal(t, PLUGIN_CLASS_PROPERTIES, plugins[0])
	assert.Equal(t, SOURCE_SCRIPT, DefaultOptions.SourceType)
	assert.Nil(t, DefaultOptions.Plugins)
}

func TestStrictModeOverride(t *testing.T) {
	strict := true
	_, err := Parse([]byte("with (a) {}"), &Options{StrictMode: &strict})
	assert.EqualError(t, err, "'with' in strict mode. (1:0)")

	sloppy := false
	_, err = Parse([]byte("with (a) {}"), &Options{SourceType: SOURCE_MODULE, StrictMode: &sloppy})
	assert.NoError(t, err)
}

func TestAllowReturnOutsideFunction(t *testing.T) {
	_, err := Parse([]byte("return 1;"), &Options{AllowReturnOutsideFunction: true})
	assert.NoError(t, err)
}

func TestSourceFilename(t *testing.T) {
	file, err := Parse([]byte("x"), &Options{SourceFilename: "input.js"})
	require.NoError(t, err)
	assert.Equal(t, "input.js", file.Loc.Filename)
	assert.Equal(t, "input.js", file.Program.Body[0].Expression.Loc.Filename)
}
