package parser

import (
	"errors"
	"fmt"
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestCase represents a single test case with input JavaScript and expected AST.
type TestCase struct {
	Name     string
	Input    string
	Options  *Options
	Expected *Node
}

func RunTests(t *testing.T, cases []TestCase) {
	for _, tc := range cases {
		t.Run(tc.Name, func(t *testing.T) {
			actual, err := Parse([]byte(tc.Input), tc.Options)
			require.NoError(t, err)
			require.NotNil(t, actual)
			require.Equal(t, NODE_FILE, actual.Type)

			if err := compareNodes(actual.Program, tc.Expected, "Program"); err != nil {
				t.Errorf("AST mismatch: %v", err)
			}
		})
	}
}

// compareNodes checks type, range and every encoded field of expected
// against actual.
func compareNodes(actual, expected *Node, path string) error {
	if actual == nil && expected == nil {
		return nil
	}
	if actual == nil || expected == nil {
		return fmt.Errorf("%s: one node is nil (actual: %v, expected: %v)", path, actual, expected)
	}

	if actual.Type != expected.Type {
		return fmt.Errorf("%s.Type: got %v, want %v", path, actual.Type, expected.Type)
	}
	if actual.Start != expected.Start {
		return fmt.Errorf("%s.Start: got %d, want %d", path, actual.Start, expected.Start)
	}
	if actual.End != expected.End {
		return fmt.Errorf("%s.End: got %d, want %d", path, actual.End, expected.End)
	}

	for _, f := range nodeFields[actual.Type] {
		fieldPath := path + "." + f.name
		switch got := f.get(actual).(type) {
		case *Node:
			if err := compareNodes(got, f.get(expected).(*Node), fieldPath); err != nil {
				return err
			}
		case []*Node:
			want := f.get(expected).([]*Node)
			if len(got) != len(want) {
				return fmt.Errorf("%s: length mismatch, got %d, want %d", fieldPath, len(got), len(want))
			}
			for i := range got {
				if err := compareNodes(got[i], want[i], fmt.Sprintf("%s[%d]", fieldPath, i)); err != nil {
					return err
				}
			}
		case []*Comment:
		default:
			if want := f.get(expected); !reflect.DeepEqual(got, want) {
				return fmt.Errorf("%s: got %#v, want %#v", fieldPath, got, want)
			}
		}
	}

	return nil
}

func ident(name string, start, end int) *Node {
	return &Node{Type: NODE_IDENTIFIER, Start: start, End: end, Name: name}
}

func TestParser(t *testing.T) {
	// Example test case based on Acorn's "class C { aaa }".
	cases := []TestCase{
		{
			Name:    "Class Declaration",
			Input:   "class C { aaa }",
			Options: &Options{Plugins: []string{PLUGIN_CLASS_PROPERTIES}},
			Expected: &Node{
				Type:       NODE_PROGRAM,
				Start:      0,
				End:        15,
				SourceType: SOURCE_SCRIPT,
				Body: []*Node{
					{
						Type:  NODE_CLASS_DECLARATION,
						Start: 0,
						End:   15,
						Id:    ident("C", 6, 7),
						BodyNode: &Node{
							Type:  NODE_CLASS_BODY,
							Start: 8,
							End:   15,
							Body: []*Node{
								{
									Type:  NODE_CLASS_PROPERTY,
									Start: 10,
									End:   13,
									Key:   ident("aaa", 10, 13),
								},
							},
						},
					},
				},
			},
		},
		{
			Name:  "Variable Declaration",
			Input: "const x = 1;",
			Expected: &Node{
				Type:       NODE_PROGRAM,
				Start:      0,
				End:        12,
				SourceType: SOURCE_SCRIPT,
				Body: []*Node{
					{
						Type:  NODE_VARIABLE_DECLARATION,
						Start: 0,
						End:   12,
						Kind:  "const",
						Declarations: []*Node{
							{
								Type:  NODE_VARIABLE_DECLARATOR,
								Start: 6,
								End:   11,
								Id:    ident("x", 6, 7),
								Init:  &Node{Type: NODE_NUMERIC_LITERAL, Start: 10, End: 11, Value: float64(1)},
							},
						},
					},
				},
			},
		},
		{
			Name:  "Operator Precedence",
			Input: "a + b * c",
			Expected: &Node{
				Type:       NODE_PROGRAM,
				Start:      0,
				End:        9,
				SourceType: SOURCE_SCRIPT,
				Body: []*Node{
					{
						Type:  NODE_EXPRESSION_STATEMENT,
						Start: 0,
						End:   9,
						Expression: &Node{
							Type:     NODE_BINARY_EXPRESSION,
							Start:    0,
							End:      9,
							Left:     ident("a", 0, 1),
							Operator: "+",
							Right: &Node{
								Type:     NODE_BINARY_EXPRESSION,
								Start:    4,
								End:      9,
								Left:     ident("b", 4, 5),
								Operator: "*",
								Right:    ident("c", 8, 9),
							},
						},
					},
				},
			},
		},
		{
			Name:  "Arrow Function",
			Input: "(a, b) => a",
			Expected: &Node{
				Type:       NODE_PROGRAM,
				Start:      0,
				End:        11,
				SourceType: SOURCE_SCRIPT,
				Body: []*Node{
					{
						Type:  NODE_EXPRESSION_STATEMENT,
						Start: 0,
						End:   11,
						Expression: &Node{
							Type:     NODE_ARROW_FUNCTION_EXPRESSION,
							Start:    0,
							End:      11,
							Params:   []*Node{ident("a", 1, 2), ident("b", 4, 5)},
							BodyNode: ident("a", 10, 11),
						},
					},
				},
			},
		},
		{
			Name:  "Template Literal",
			Input: "`a${b}c`",
			Expected: &Node{
				Type:       NODE_PROGRAM,
				Start:      0,
				End:        8,
				SourceType: SOURCE_SCRIPT,
				Body: []*Node{
					{
						Type:  NODE_EXPRESSION_STATEMENT,
						Start: 0,
						End:   8,
						Expression: &Node{
							Type:        NODE_TEMPLATE_LITERAL,
							Start:       0,
							End:         8,
							Expressions: []*Node{ident("b", 4, 5)},
							Quasis: []*Node{
								{Type: NODE_TEMPLATE_ELEMENT, Start: 1, End: 2, Raw: "a", Cooked: stringPtr("a")},
								{Type: NODE_TEMPLATE_ELEMENT, Start: 6, End: 7, Raw: "c", Cooked: stringPtr("c"), Tail: true},
							},
						},
					},
				},
			},
		},
		{
			Name:  "UTF-16 Offsets",
			Input: "x = '😀'; y",
			Expected: &Node{
				Type:       NODE_PROGRAM,
				Start:      0,
				End:        11,
				SourceType: SOURCE_SCRIPT,
				Body: []*Node{
					{
						Type:  NODE_EXPRESSION_STATEMENT,
						Start: 0,
						End:   9,
						Expression: &Node{
							Type:     NODE_ASSIGNMENT_EXPRESSION,
							Start:    0,
							End:      8,
							Operator: "=",
							Left:     ident("x", 0, 1),
							Right:    &Node{Type: NODE_STRING_LITERAL, Start: 4, End: 8, Value: "😀"},
						},
					},
					{
						Type:       NODE_EXPRESSION_STATEMENT,
						Start:      10,
						End:        11,
						Expression: ident("y", 10, 11),
					},
				},
			},
		},
		{
			Name:    "Module Export",
			Input:   "export const x = 1;",
			Options: &Options{SourceType: SOURCE_MODULE},
			Expected: &Node{
				Type:       NODE_PROGRAM,
				Start:      0,
				End:        19,
				SourceType: SOURCE_MODULE,
				Body: []*Node{
					{
						Type:       NODE_EXPORT_NAMED_DECLARATION,
						Start:      0,
						End:        19,
						Specifiers: []*Node{},
						Declaration: &Node{
							Type:  NODE_VARIABLE_DECLARATION,
							Start: 7,
							End:   19,
							Kind:  "const",
							Declarations: []*Node{
								{
									Type:  NODE_VARIABLE_DECLARATOR,
									Start: 13,
									End:   18,
									Id:    ident("x", 13, 14),
									Init:  &Node{Type: NODE_NUMERIC_LITERAL, Start: 17, End: 18, Value: float64(1)},
								},
							},
						},
					},
				},
			},
		},
	}

	RunTests(t, cases)
}

func stringPtr(s string) *string {
	return &s
}

func TestParseErrors(t *testing.T) {
	classFields := &Options{Plugins: []string{PLUGIN_CLASS_PROPERTIES}}
	module := &Options{SourceType: SOURCE_MODULE}
	privateFields := &Options{Plugins: []string{PLUGIN_CLASS_PROPERTIES, PLUGIN_CLASS_PRIVATE_PROPERTIES}}
	numericEscape := "The only valid numeric escape in strict mode is '\\0'."

	cases := []struct {
		name    string
		input   string
		options *Options
		message string
		line    int
		column  int
	}{
		{"return outside function", "return 1", nil, "'return' outside of function.", 1, 0},
		{"duplicate let", "let a; let a;", nil, "Identifier 'a' has already been declared.", 1, 11},
		{"duplicate let on second line", "let a = 1;\nlet a = 2;", nil, "Identifier 'a' has already been declared.", 2, 4},
		{"export in script", "export const x = 1;", nil, "'import' and 'export' may appear only with 'sourceType: \"module\"'", 1, 0},
		{"class field without plugin", "class C { aaa }", nil, "This experimental syntax requires enabling the parser plugin: \"classProperties\".", 1, 14},
		{"private field without plugin", "class C { #x }", classFields, "This experimental syntax requires enabling the parser plugin: \"classPrivateProperties\".", 1, 13},
		{"constructor field", "class C { constructor = 1 }", classFields, "Classes may not have a field named 'constructor'.", 1, 10},
		{"unterminated string", "'abc", nil, "Unterminated string constant.", 1, 0},
		{"unexpected end", "a = 1 +", nil, "Unexpected token", 1, 7},
		{"unsyntactic break", "break;", nil, "Unsyntactic break.", 1, 0},
		{"with in module", "with (a) {}", module, "'with' in strict mode.", 1, 0},
		{"use strict with defaults", "function f(a = 1) { 'use strict' }", nil, "Illegal 'use strict' directive in function with non-simple parameter list.", 1, 20},
		{"undefined export", "export { y };", module, "Export 'y' is not defined.", 1, 9},
		{"duplicate export", "export const a = 1; export { a };", module, "`a` has already been exported. Exported identifiers must be unique.", 1, 29},

		{"octal after use strict", "\"use strict\"; 010", nil, "Legacy octal literals are not allowed in strict mode.", 1, 14},
		{"octal on the line after use strict", "\"use strict\"\n010", nil, "Legacy octal literals are not allowed in strict mode.", 2, 0},
		{"numeric escape after use strict", "\"use strict\"; \"\\8\";", nil, numericEscape, 1, 16},
		{"octal escape before use strict", "\"\\01\"; \"use strict\";", nil, numericEscape, 1, 2},
		{"octal escape in function prologue", "function f() { \"\\01\"; \"use strict\"; }", nil, numericEscape, 1, 17},
		{"octal in module", "010", module, "Legacy octal literals are not allowed in strict mode.", 1, 0},

		{"duplicate label", "a: a: ;", nil, "Label 'a' is already declared.", 1, 3},
		{"duplicate constructor", "class C { constructor() {} constructor() {} }", nil, "Duplicate constructor in the same class.", 1, 27},
		{"getter with parameter", "class C { get a(x) {} }", nil, "A 'get' accessor must not have any formal parameters.", 1, 10},
		{"setter without parameter", "({ set a() {} })", nil, "A 'set' accessor must have exactly one formal parameter.", 1, 3},
		{"setter with rest parameter", "class C { set a(...b) {} }", nil, "A 'set' accessor function argument must not be a rest parameter.", 1, 10},
		{"assign to optional chain", "a?.b = 1", nil, "Invalid optional chaining in the left-hand side of assignment expression.", 1, 0},
		{"increment optional chain", "a?.b++", nil, "Invalid optional chaining in the left-hand side of postfix operation.", 1, 0},
		{"delete in strict mode", "\"use strict\"; delete x;", nil, "Deleting local variable in strict mode.", 1, 14},
		{"strict reserved word", "\"use strict\"; var implements;", nil, "Unexpected reserved word 'implements'.", 1, 18},
		{"bind eval in strict mode", "\"use strict\"; var eval;", nil, "Binding 'eval' in strict mode.", 1, 18},
		{"assign arguments in strict mode", "\"use strict\"; arguments = 1;", nil, "Assigning to 'arguments' in strict mode.", 1, 14},
		{"super outside method", "super.a;", nil, "'super' is only allowed in object methods and classes.", 1, 0},
		{"undeclared private name", "class C { m() { this.#x; } }", nil, "Private name #x is not defined.", 1, 21},
		{"duplicate private name", "class C { #a; #a; }", privateFields, "Duplicate private name #a.", 1, 14},
		{"private method without plugin", "class C { #m() {} }", privateFields, "This experimental syntax requires enabling the parser plugin: \"classPrivateMethods\".", 1, 10},
		{"static block without plugin", "class C { static {} }", nil, "This experimental syntax requires enabling the parser plugin: \"classStaticBlock\".", 1, 10},
		{"new.target outside function", "new.target;", nil, "`new.target` can only be used in functions or class properties.", 1, 0},
		{"escaped keyword", "\\u0069f (a) {}", nil, "Escape sequence in keyword if.", 1, 0},
		{"coalesce mixed with or", "a ?? b || c", nil, "Nullish coalescing operator(??) requires parens when mixing with logical operators.", 1, 7},
		{"unary before exponent", "-a ** b", nil, "Illegal expression. Wrap left hand side or entire exponentiation in parentheses.", 1, 1},
		{"double numeric separator", "1__0", nil, "A numeric separator is only allowed between two digits.", 1, 1},
		{"separator after leading zero", "0_1", nil, "Numeric separator can not be used after leading 0.", 1, 0},
		{"duplicate regexp flag", "/a/gg", nil, "Duplicate regular expression flag.", 1, 4},
		{"unknown regexp flag", "/a/x", nil, "Invalid regular expression flag.", 1, 3},
		{"async as for-of target", "for (async of x);", nil, "The left-hand side of a for-of loop may not be 'async'.", 1, 5},
		{"trailing comma in import()", "import(a,)", nil, "Trailing comma is disallowed inside import(...) arguments.", 1, 8},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Parse([]byte(tc.input), tc.options)
			require.Error(t, err)

			var syntaxErr *SyntaxError
			require.True(t, errors.As(err, &syntaxErr), "expected *SyntaxError, got %T", err)
			assert.Equal(t, tc.message, syntaxErr.Message)
			assert.Equal(t, tc.line, syntaxErr.Loc.Line)
			assert.Equal(t, tc.column, syntaxErr.Loc.Column)
			assert.Equal(t, fmt.Sprintf("%s (%d:%d)", tc.message, tc.line, tc.column), err.Error())
		})
	}
}

func TestParseDirectives(t *testing.T) {
	file, err := Parse([]byte("'use strict';\nfoo();"), nil)
	require.NoError(t, err)

	program := file.Program
	require.Len(t, program.Directives, 1)
	require.Len(t, program.Body, 1)

	directive := program.Directives[0]
	assert.Equal(t, NODE_DIRECTIVE, directive.Type)
	require.NotNil(t, directive.ValueNode)
	assert.Equal(t, NODE_DIRECTIVE_LITERAL, directive.ValueNode.Type)
	assert.Equal(t, "use strict", directive.ValueNode.Value)

	// The directive makes the rest of the script strict.
	_, err = Parse([]byte("'use strict';\nwith (a) {}"), nil)
	var syntaxErr *SyntaxError
	require.ErrorAs(t, err, &syntaxErr)
	assert.Equal(t, "'with' in strict mode.", syntaxErr.Message)
	assert.Equal(t, 2, syntaxErr.Loc.Line)
}

func TestParseRetroactiveStrict(t *testing.T) {
	inputs := []string{
		// Only a directive prologue is made strict after the fact.
		"\"\\01\"; foo; \"use strict\";",
		"010; function f() { \"use strict\"; }",
		"function f() { \"use strict\"; } 010;",
		"\"\\8\"; function f() { return 1; }",
		"for (async of => {};;);",
	}
	for _, input := range inputs {
		_, err := Parse([]byte(input), nil)
		assert.NoError(t, err, input)
	}
}

func TestParseInterpreterAndComments(t *testing.T) {
	input := "#!/usr/bin/env node\n// line\n/* block */ x;"
	file, err := Parse([]byte(input), nil)
	require.NoError(t, err)

	interpreter := file.Program.Interpreter
	require.NotNil(t, interpreter)
	assert.Equal(t, NODE_INTERPRETER_DIRECTIVE, interpreter.Type)
	assert.Equal(t, "/usr/bin/env node", interpreter.Value)

	require.Len(t, file.Comments, 2)
	assert.Equal(t, COMMENT_LINE, file.Comments[0].Type)
	assert.Equal(t, " line", file.Comments[0].Value)
	assert.Equal(t, 2, file.Comments[0].Loc.Start.Line)
	assert.Equal(t, COMMENT_BLOCK, file.Comments[1].Type)
	assert.Equal(t, " block ", file.Comments[1].Value)

	require.Len(t, file.Program.Body, 1)
	assert.Equal(t, 3, file.Program.Body[0].Loc.Start.Line)
	assert.Equal(t, 12, file.Program.Body[0].Loc.Start.Column)
}

func commentValues(comments []*Comment) []string {
	var values []string
	for _, c := range comments {
		values = append(values, c.Value)
	}
	return values
}

func TestParseAttachComments(t *testing.T) {
	t.Run("leading and trailing", func(t *testing.T) {
		file, err := Parse([]byte("/* a */ x; // b"), nil)
		require.NoError(t, err)

		stmt := file.Program.Body[0]
		assert.Equal(t, []string{" a "}, commentValues(stmt.LeadingComments))
		assert.Equal(t, []string{" b"}, commentValues(stmt.TrailingComments))
		assert.Empty(t, stmt.Expression.LeadingComments)
		assert.Empty(t, stmt.Expression.TrailingComments)
		assert.Len(t, file.Comments, 2)
	})

	t.Run("inner", func(t *testing.T) {
		file, err := Parse([]byte("function f() { /* c */ }"), nil)
		require.NoError(t, err)

		fn := file.Program.Body[0]
		assert.Empty(t, fn.InnerComments)
		assert.Equal(t, []string{" c "}, commentValues(fn.BodyNode.InnerComments))
	})

	t.Run("after last comma", func(t *testing.T) {
		file, err := Parse([]byte("[a, /* c */];"), nil)
		require.NoError(t, err)

		array := file.Program.Body[0].Expression
		assert.Empty(t, array.InnerComments)
		require.Len(t, array.Elements, 1)
		assert.Equal(t, []string{" c "}, commentValues(array.Elements[0].TrailingComments))
	})

	t.Run("inside parentheses", func(t *testing.T) {
		file, err := Parse([]byte("(/* a */ x /* b */);"), nil)
		require.NoError(t, err)

		stmt := file.Program.Body[0]
		assert.Empty(t, stmt.LeadingComments)
		assert.Equal(t, []string{" a "}, commentValues(stmt.Expression.LeadingComments))
		assert.Equal(t, []string{" b "}, commentValues(stmt.Expression.TrailingComments))
	})

	t.Run("between statements", func(t *testing.T) {
		file, err := Parse([]byte(`a;
// one
// two
b;`), nil)
		require.NoError(t, err)

		require.Len(t, file.Program.Body, 2)
		assert.Equal(t, []string{" one", " two"}, commentValues(file.Program.Body[0].TrailingComments))
		assert.Equal(t, []string{" one", " two"}, commentValues(file.Program.Body[1].LeadingComments))
	})
}

func TestParseClassElements(t *testing.T) {
	input := `class A extends B {
  static #count = 0;
  #secret() {}
  static { A.ready = true; }
  get value() { return super.value; }
  constructor() { super(); }
}`
	opts := &Options{Plugins: []string{
		PLUGIN_CLASS_PROPERTIES,
		PLUGIN_CLASS_PRIVATE_PROPERTIES,
		PLUGIN_CLASS_PRIVATE_METHODS,
		PLUGIN_CLASS_STATIC_BLOCK,
	}}
	file, err := Parse([]byte(input), opts)
	require.NoError(t, err)

	class := file.Program.Body[0]
	require.Equal(t, NODE_CLASS_DECLARATION, class.Type)
	require.NotNil(t, class.SuperClass)
	assert.Equal(t, "B", class.SuperClass.Name)

	var types []NodeType
	for _, element := range class.BodyNode.Body {
		types = append(types, element.Type)
	}
	assert.Equal(t, []NodeType{
		NODE_CLASS_PRIVATE_PROPERTY,
		NODE_CLASS_PRIVATE_METHOD,
		NODE_STATIC_BLOCK,
		NODE_CLASS_METHOD,
		NODE_CLASS_METHOD,
	}, types)

	field := class.BodyNode.Body[0]
	assert.True(t, field.Static)
	assert.Equal(t, NODE_PRIVATE_NAME, field.Key.Type)
	assert.Equal(t, "count", field.Key.Id.Name)

	getter := class.BodyNode.Body[3]
	assert.Equal(t, "get", getter.Kind)
	assert.Equal(t, "constructor", class.BodyNode.Body[4].Kind)

	// The same static block fails once its plugin is missing.
	_, err = Parse([]byte(input), &Options{Plugins: []string{
		PLUGIN_CLASS_PROPERTIES,
		PLUGIN_CLASS_PRIVATE_PROPERTIES,
		PLUGIN_CLASS_PRIVATE_METHODS,
	}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), `"classStaticBlock"`)
}

func TestParseLiterals(t *testing.T) {
	file, err := Parse([]byte("[0x10, 1_000, 10n, /a+b/gi, null, true, 'a\\nb'];"), nil)
	require.NoError(t, err)

	array := file.Program.Body[0].Expression
	require.Equal(t, NODE_ARRAY_EXPRESSION, array.Type)
	require.Len(t, array.Elements, 7)

	hex := array.Elements[0]
	assert.Equal(t, NODE_NUMERIC_LITERAL, hex.Type)
	assert.Equal(t, float64(16), hex.Value)
	require.NotNil(t, hex.Extra)
	assert.Equal(t, "0x10", hex.Extra.Raw)

	assert.Equal(t, float64(1000), array.Elements[1].Value)

	bigint := array.Elements[2]
	assert.Equal(t, NODE_BIGINT_LITERAL, bigint.Type)
	assert.Equal(t, "10", bigint.Value)

	regex := array.Elements[3]
	assert.Equal(t, NODE_REGEXP_LITERAL, regex.Type)
	assert.Equal(t, "a+b", regex.Pattern)
	assert.Equal(t, "gi", regex.Flags)

	assert.Equal(t, NODE_NULL_LITERAL, array.Elements[4].Type)
	assert.Equal(t, true, array.Elements[5].Value)
	assert.Equal(t, "a\nb", array.Elements[6].Value)
}

func TestParseParenthesized(t *testing.T) {
	file, err := Parse([]byte("x = (a + b);"), nil)
	require.NoError(t, err)

	right := file.Program.Body[0].Expression.Right
	require.Equal(t, NODE_BINARY_EXPRESSION, right.Type)
	require.NotNil(t, right.Extra)
	assert.True(t, right.Extra.Parenthesized)
	assert.Equal(t, 4, right.Extra.ParenStart)
	assert.Equal(t, 5, right.Start)
}

func TestParseOptionalChain(t *testing.T) {
	file, err := Parse([]byte("a?.b.c();"), nil)
	require.NoError(t, err)

	call := file.Program.Body[0].Expression
	assert.Equal(t, NODE_OPTIONAL_CALL_EXPRESSION, call.Type)
	assert.False(t, call.Optional)

	member := call.Callee
	assert.Equal(t, NODE_OPTIONAL_MEMBER_EXPRESSION, member.Type)
	assert.False(t, member.Optional)
	assert.Equal(t, NODE_OPTIONAL_MEMBER_EXPRESSION, member.Object.Type)
	assert.True(t, member.Object.Optional)
}

func TestParseFile(t *testing.T) {
	_, err := ParseFile("testdata/does-not-exist.js", nil)
	require.Error(t, err)

	var syntaxErr *SyntaxError
	assert.False(t, errors.As(err, &syntaxErr))
}
