package parser

import (
	"bytes"
	"encoding/json"
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatNumber(t *testing.T) {
	cases := []struct {
		in   float64
		want string
	}{
		{0, "0"},
		{123, "123"},
		{100, "100"},
		{1.5, "1.5"},
		{-2.5, "-2.5"},
		{0.1, "0.1"},
		{0.000001, "0.000001"},
		{1e-7, "1e-7"},
		{1e21, "1e+21"},
		{1e20, "100000000000000000000"},
		{1.5e300, "1.5e+300"},
		{math.MaxFloat64, "1.7976931348623157e+308"},
		{math.NaN(), "null"},
		{math.Inf(1), "null"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, formatNumber(tc.in), "formatNumber(%v)", tc.in)
	}
}

func TestQuote(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"", `""`},
		{"plain", `"plain"`},
		{`a"b\c`, `"a\"b\\c"`},
		{"line\nbreak\ttab\r", `"line\nbreak\ttab\r"`},
		{"\b\f", `"\b\f"`},
		{"\x00\x1f", `"\u0000\u001f"`},
		{"<a href='x'>&</a>", `"<a href='x'>&</a>"`},
		{"\u2028\u2029", "\"\u2028\u2029\""},
		{"😀", `"😀"`},
		{"\xed\xa0\x80", `"\ud800"`},
		{"a\xed\xbf\xbfb", `"a\udfffb"`},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, quote(tc.in), "quote(%q)", tc.in)
	}
}

func TestMarshalJSON(t *testing.T) {
	file, err := Parse([]byte("a;"), nil)
	require.NoError(t, err)

	loc := func(end int) string {
		return `{"start":{"line":1,"column":0,"index":0},"end":{"line":1,"column":` +
			itoa(end) + `,"index":` + itoa(end) + `}`
	}
	want := `{"type":"File","start":0,"end":2,"loc":` + loc(2) + `},"errors":[],` +
		`"program":{"type":"Program","start":0,"end":2,"loc":` + loc(2) + `},` +
		`"sourceType":"script","interpreter":null,"body":[` +
		`{"type":"ExpressionStatement","start":0,"end":2,"loc":` + loc(2) + `},` +
		`"expression":{"type":"Identifier","start":0,"end":1,"loc":` + loc(1) + `,"identifierName":"a"},"name":"a"}}` +
		`],"directives":[]},"comments":[]}`

	got, err := file.MarshalJSON()
	require.NoError(t, err)
	assert.Equal(t, want, string(got))
	assert.True(t, json.Valid(got))
}

func itoa(n int) string {
	return formatNumber(float64(n))
}

func TestMarshalJSONLiteralExtra(t *testing.T) {
	file, err := Parse([]byte("x = 1e3;"), nil)
	require.NoError(t, err)

	literal := file.Program.Body[0].Expression.Right
	got, err := json.Marshal(literal)
	require.NoError(t, err)
	assert.Contains(t, string(got), `"extra":{"rawValue":1000,"raw":"1e3"},"value":1000}`)
}

func TestMarshalJSONKeyOrder(t *testing.T) {
	file, err := Parse([]byte("function f(a) { return a; }"), nil)
	require.NoError(t, err)

	got, err := json.Marshal(file.Program.Body[0])
	require.NoError(t, err)

	out := string(got)
	keys := []string{`"type"`, `"start"`, `"end"`, `"loc"`, `"id"`, `"generator"`, `"async"`, `"params"`, `"body"`}
	last := -1
	for _, key := range keys {
		idx := strings.Index(out, key)
		require.GreaterOrEqual(t, idx, 0, "missing key %s", key)
		assert.Greater(t, idx, last, "key %s out of order", key)
		last = idx
	}
}

func TestMarshalJSONTemplateElement(t *testing.T) {
	file, err := Parse([]byte("tag`\\unicode`;"), nil)
	require.NoError(t, err)

	quasi := file.Program.Body[0].Expression.Quasi
	require.Len(t, quasi.Quasis, 1)

	got, err := json.Marshal(quasi.Quasis[0])
	require.NoError(t, err)
	assert.Contains(t, string(got), `"value":{"raw":"\\unicode","cooked":null},"tail":true}`)
}

func TestEncode(t *testing.T) {
	file, err := Parse([]byte("a;"), nil)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, file))

	out := buf.String()
	assert.True(t, strings.HasPrefix(out, "{\n    \"type\": \"File\",\n    \"start\": 0,\n"))
	assert.Contains(t, out, "\n    \"errors\": [],\n")
	assert.Contains(t, out, "\n                \"identifierName\": \"a\"\n")
	assert.True(t, strings.HasSuffix(out, "\n    \"comments\": []\n}\n"))

	// Identical input encodes to identical bytes.
	again, err := Parse([]byte("a;"), nil)
	require.NoError(t, err)
	var second bytes.Buffer
	require.NoError(t, Encode(&second, again))
	assert.Equal(t, out, second.String())
}

func marshalExpression(t *testing.T, input string) string {
	t.Helper()
	file, err := Parse([]byte(input), nil)
	require.NoError(t, err)
	got, err := json.Marshal(file.Program.Body[0].Expression)
	require.NoError(t, err)
	return string(got)
}

func TestMarshalJSONExtraPlacement(t *testing.T) {
	out := marshalExpression(t, "(a);")
	assert.True(t, strings.HasSuffix(out, `"name":"a","extra":{"parenthesized":true,"parenStart":0}}`), out)

	out = marshalExpression(t, "[1,];")
	assert.Contains(t, out, `},"extra":{"trailingComma":2},"elements":[`)

	out = marshalExpression(t, "f(a,);")
	assert.Contains(t, out, `"extra":{"trailingComma":3},"arguments":[`)
	assert.Less(t, strings.Index(out, `"callee"`), strings.Index(out, `"extra"`))

	out = marshalExpression(t, "({a,});")
	assert.True(t, strings.HasSuffix(out, `],"extra":{"trailingComma":3,"parenthesized":true,"parenStart":0}}`), out)

	out = marshalExpression(t, "new F(a,);")
	assert.NotContains(t, out, "trailingComma")
}

func TestMarshalJSONComments(t *testing.T) {
	file, err := Parse([]byte("/* a */ x; // b"), nil)
	require.NoError(t, err)

	got, err := json.Marshal(file.Program.Body[0])
	require.NoError(t, err)
	out := string(got)

	leading := strings.Index(out, `"leadingComments":[{"type":"CommentBlock","value":" a ","start":0,"end":7,`)
	trailing := strings.Index(out, `"trailingComments":[{"type":"CommentLine","value":" b","start":11,"end":15,`)
	require.GreaterOrEqual(t, leading, 0, out)
	require.GreaterOrEqual(t, trailing, 0, out)
	assert.Less(t, strings.Index(out, `"expression"`), leading)
	assert.Less(t, leading, trailing)
	assert.NotContains(t, out, "innerComments")

	// Nodes without comments carry no comment keys.
	got, err = json.Marshal(file.Program.Body[0].Expression)
	require.NoError(t, err)
	assert.NotContains(t, string(got), "Comments")
}

func TestMarshalJSONLoneSurrogate(t *testing.T) {
	file, err := Parse([]byte(`x = "\uD800"; y = "\uD83D\uDE00";`), nil)
	require.NoError(t, err)

	lone := file.Program.Body[0].Expression.Right
	assert.Equal(t, "\xed\xa0\x80", lone.Value)
	got, err := json.Marshal(lone)
	require.NoError(t, err)
	assert.Contains(t, string(got), `"value":"\ud800"`)

	pair := file.Program.Body[1].Expression.Right
	assert.Equal(t, "😀", pair.Value)
}
