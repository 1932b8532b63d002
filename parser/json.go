package parser

import (
	"bytes"
	"encoding/json"
	"io"
	"math"
	"strconv"
	"strings"
)

// field is one Babel property of a node, in output order.
type field struct {
	name string
	get  func(n *Node) any
}

// templateValue is TemplateElement.value.
type templateValue struct {
	raw    string
	cooked *string
}

func nodeField(name string, get func(n *Node) *Node) field {
	return field{name, func(n *Node) any { return get(n) }}
}

func listField(name string, get func(n *Node) []*Node) field {
	return field{name, func(n *Node) any { return get(n) }}
}

var (
	fId         = nodeField("id", func(n *Node) *Node { return n.Id })
	fKey        = nodeField("key", func(n *Node) *Node { return n.Key })
	fBody       = nodeField("body", func(n *Node) *Node { return n.BodyNode })
	fBodyList   = listField("body", func(n *Node) []*Node { return n.Body })
	fParams     = listField("params", func(n *Node) []*Node { return n.Params })
	fLeft       = nodeField("left", func(n *Node) *Node { return n.Left })
	fRight      = nodeField("right", func(n *Node) *Node { return n.Right })
	fTest       = nodeField("test", func(n *Node) *Node { return n.Test })
	fArgument   = nodeField("argument", func(n *Node) *Node { return n.Argument })
	fLabel      = nodeField("label", func(n *Node) *Node { return n.Label })
	fCallee     = nodeField("callee", func(n *Node) *Node { return n.Callee })
	fArguments  = listField("arguments", func(n *Node) []*Node { return n.Arguments })
	fObject     = nodeField("object", func(n *Node) *Node { return n.Object })
	fProperty   = nodeField("property", func(n *Node) *Node { return n.Property })
	fSource     = nodeField("source", func(n *Node) *Node { return n.Source })
	fLocal      = nodeField("local", func(n *Node) *Node { return n.Local })
	fExported   = nodeField("exported", func(n *Node) *Node { return n.Exported })
	fSpecifiers = listField("specifiers", func(n *Node) []*Node { return n.Specifiers })
	fValueNode  = nodeField("value", func(n *Node) *Node { return n.ValueNode })
	fSuperClass = nodeField("superClass", func(n *Node) *Node { return n.SuperClass })

	fValue     = field{"value", func(n *Node) any { return n.Value }}
	fOperator  = field{"operator", func(n *Node) any { return n.Operator }}
	fPrefix    = field{"prefix", func(n *Node) any { return n.Prefix }}
	fKind      = field{"kind", func(n *Node) any { return n.Kind }}
	fStatic    = field{"static", func(n *Node) any { return n.Static }}
	fComputed  = field{"computed", func(n *Node) any { return n.Computed }}
	fGenerator = field{"generator", func(n *Node) any { return n.Generator }}
	fAsync     = field{"async", func(n *Node) any { return n.Async }}
	fOptional  = field{"optional", func(n *Node) any { return n.Optional }}
	fMethod    = field{"method", func(n *Node) any { return n.Method }}
)

var functionFields = []field{fId, fGenerator, fAsync, fParams, fBody}

var binaryFields = []field{fLeft, fOperator, fRight}

var classFields = []field{fId, fSuperClass, fBody}

// nodeFields lists the properties of every node type after type, start,
// end and loc. Where extra goes among them depends on when it was added.
var nodeFields = map[NodeType][]field{
	NODE_FILE: {
		{"errors", func(n *Node) any { return []*Node{} }},
		nodeField("program", func(n *Node) *Node { return n.Program }),
		{"comments", func(n *Node) any { return n.Comments }},
	},
	NODE_PROGRAM: {
		{"sourceType", func(n *Node) any { return string(n.SourceType) }},
		nodeField("interpreter", func(n *Node) *Node { return n.Interpreter }),
		fBodyList,
		listField("directives", func(n *Node) []*Node { return n.Directives }),
	},
	NODE_INTERPRETER_DIRECTIVE: {fValue},
	NODE_DIRECTIVE:             {fValueNode},
	NODE_DIRECTIVE_LITERAL:     {fValue},

	NODE_EXPRESSION_STATEMENT: {nodeField("expression", func(n *Node) *Node { return n.Expression })},
	NODE_BLOCK_STATEMENT: {
		fBodyList,
		listField("directives", func(n *Node) []*Node { return n.Directives }),
	},
	NODE_EMPTY_STATEMENT:    {},
	NODE_DEBUGGER_STATEMENT: {},
	NODE_WITH_STATEMENT:     {fObject, fBody},
	NODE_RETURN_STATEMENT:   {fArgument},
	NODE_LABELED_STATEMENT:  {fLabel, fBody},
	NODE_BREAK_STATEMENT:    {fLabel},
	NODE_CONTINUE_STATEMENT: {fLabel},
	NODE_IF_STATEMENT: {
		fTest,
		nodeField("consequent", func(n *Node) *Node { return n.Consequent }),
		nodeField("alternate", func(n *Node) *Node { return n.Alternate }),
	},
	NODE_SWITCH_STATEMENT: {
		nodeField("discriminant", func(n *Node) *Node { return n.Discriminant }),
		listField("cases", func(n *Node) []*Node { return n.Cases }),
	},
	NODE_SWITCH_CASE: {
		listField("consequent", func(n *Node) []*Node { return n.ConsequentList }),
		fTest,
	},
	NODE_THROW_STATEMENT: {fArgument},
	NODE_TRY_STATEMENT: {
		nodeField("block", func(n *Node) *Node { return n.Block }),
		nodeField("handler", func(n *Node) *Node { return n.Handler }),
		nodeField("finalizer", func(n *Node) *Node { return n.Finalizer }),
	},
	NODE_CATCH_CLAUSE:       {nodeField("param", func(n *Node) *Node { return n.Param }), fBody},
	NODE_WHILE_STATEMENT:    {fTest, fBody},
	NODE_DO_WHILE_STATEMENT: {fBody, fTest},
	NODE_FOR_STATEMENT: {
		nodeField("init", func(n *Node) *Node { return n.Init }),
		fTest,
		nodeField("update", func(n *Node) *Node { return n.Update }),
		fBody,
	},
	NODE_FOR_IN_STATEMENT: {fLeft, fRight, fBody},
	NODE_FOR_OF_STATEMENT: {{"await", func(n *Node) any { return n.Await }}, fLeft, fRight, fBody},

	NODE_FUNCTION_DECLARATION: functionFields,
	NODE_VARIABLE_DECLARATION: {
		listField("declarations", func(n *Node) []*Node { return n.Declarations }),
		fKind,
	},
	NODE_VARIABLE_DECLARATOR:    {fId, nodeField("init", func(n *Node) *Node { return n.Init })},
	NODE_CLASS_DECLARATION:      classFields,
	NODE_CLASS_BODY:             {fBodyList},
	NODE_CLASS_METHOD:           {fStatic, fKey, fComputed, fKind, fId, fGenerator, fAsync, fParams, fBody},
	NODE_CLASS_PRIVATE_METHOD:   {fStatic, fKey, fKind, fId, fGenerator, fAsync, fParams, fBody},
	NODE_CLASS_PROPERTY:         {fStatic, fKey, fComputed, fValueNode},
	NODE_CLASS_PRIVATE_PROPERTY: {fStatic, fKey, fValueNode},
	NODE_STATIC_BLOCK:           {fBodyList},
	NODE_PRIVATE_NAME:           {fId},

	NODE_IDENTIFIER:      {{"name", func(n *Node) any { return n.Name }}},
	NODE_STRING_LITERAL:  {fValue},
	NODE_NUMERIC_LITERAL: {fValue},
	NODE_BIGINT_LITERAL:  {fValue},
	NODE_BOOLEAN_LITERAL: {fValue},
	NODE_NULL_LITERAL:    {},
	NODE_REGEXP_LITERAL: {
		{"pattern", func(n *Node) any { return n.Pattern }},
		{"flags", func(n *Node) any { return n.Flags }},
	},
	NODE_THIS_EXPRESSION:   {},
	NODE_SUPER:             {},
	NODE_IMPORT:            {},
	NODE_ARRAY_EXPRESSION:  {listField("elements", func(n *Node) []*Node { return n.Elements })},
	NODE_OBJECT_EXPRESSION: {listField("properties", func(n *Node) []*Node { return n.Properties })},
	NODE_OBJECT_PROPERTY: {
		fMethod, fKey, fComputed,
		{"shorthand", func(n *Node) any { return n.Shorthand }},
		fValueNode,
	},
	NODE_OBJECT_METHOD:              {fMethod, fKey, fComputed, fKind, fId, fGenerator, fAsync, fParams, fBody},
	NODE_FUNCTION_EXPRESSION:        functionFields,
	NODE_ARROW_FUNCTION_EXPRESSION:  functionFields,
	NODE_CLASS_EXPRESSION:           classFields,
	NODE_UNARY_EXPRESSION:           {fOperator, fPrefix, fArgument},
	NODE_UPDATE_EXPRESSION:          {fOperator, fPrefix, fArgument},
	NODE_BINARY_EXPRESSION:          binaryFields,
	NODE_LOGICAL_EXPRESSION:         binaryFields,
	NODE_ASSIGNMENT_EXPRESSION:      {fOperator, fLeft, fRight},
	NODE_MEMBER_EXPRESSION:          {fObject, fComputed, fProperty},
	NODE_OPTIONAL_MEMBER_EXPRESSION: {fObject, fComputed, fProperty, fOptional},
	NODE_CALL_EXPRESSION:            {fCallee, fArguments},
	NODE_OPTIONAL_CALL_EXPRESSION:   {fCallee, fOptional, fArguments},
	NODE_NEW_EXPRESSION:             {fCallee, fArguments},
	NODE_SEQUENCE_EXPRESSION:        {listField("expressions", func(n *Node) []*Node { return n.Expressions })},
	NODE_CONDITIONAL_EXPRESSION: {
		fTest,
		nodeField("consequent", func(n *Node) *Node { return n.Consequent }),
		nodeField("alternate", func(n *Node) *Node { return n.Alternate }),
	},
	NODE_YIELD_EXPRESSION: {{"delegate", func(n *Node) any { return n.Delegate }}, fArgument},
	NODE_AWAIT_EXPRESSION: {fArgument},
	NODE_TEMPLATE_LITERAL: {
		listField("expressions", func(n *Node) []*Node { return n.Expressions }),
		listField("quasis", func(n *Node) []*Node { return n.Quasis }),
	},
	NODE_TEMPLATE_ELEMENT: {
		{"value", func(n *Node) any { return templateValue{raw: n.Raw, cooked: n.Cooked} }},
		{"tail", func(n *Node) any { return n.Tail }},
	},
	NODE_TAGGED_TEMPLATE_EXPRESSION: {
		nodeField("tag", func(n *Node) *Node { return n.Tag }),
		nodeField("quasi", func(n *Node) *Node { return n.Quasi }),
	},
	NODE_META_PROPERTY:      {nodeField("meta", func(n *Node) *Node { return n.Meta }), fProperty},
	NODE_SPREAD_ELEMENT:     {fArgument},
	NODE_OBJECT_PATTERN:     {listField("properties", func(n *Node) []*Node { return n.Properties })},
	NODE_ARRAY_PATTERN:      {listField("elements", func(n *Node) []*Node { return n.Elements })},
	NODE_REST_ELEMENT:       {fArgument},
	NODE_ASSIGNMENT_PATTERN: {fLeft, fRight},

	NODE_IMPORT_DECLARATION: {fSpecifiers, fSource},
	NODE_IMPORT_SPECIFIER: {
		nodeField("imported", func(n *Node) *Node { return n.Imported }),
		fLocal,
	},
	NODE_IMPORT_DEFAULT_SPECIFIER:   {fLocal},
	NODE_IMPORT_NAMESPACE_SPECIFIER: {fLocal},
	NODE_EXPORT_NAMED_DECLARATION: {
		fSpecifiers, fSource,
		nodeField("declaration", func(n *Node) *Node { return n.Declaration }),
	},
	NODE_EXPORT_SPECIFIER:           {fLocal, fExported},
	NODE_EXPORT_NAMESPACE_SPECIFIER: {fExported},
	NODE_EXPORT_DEFAULT_DECLARATION: {nodeField("declaration", func(n *Node) *Node { return n.Declaration })},
	NODE_EXPORT_ALL_DECLARATION:     {fSource},
}

// MarshalJSON encodes the node the way Babel's JSON.stringify output
// looks, without indentation.
func (n *Node) MarshalJSON() ([]byte, error) {
	w := &jsonWriter{}
	w.value(n)
	return w.buf.Bytes(), nil
}

// Encode writes node as JSON indented with four spaces, followed by a
// newline.
func Encode(w io.Writer, node *Node) error {
	compact, err := node.MarshalJSON()
	if err != nil {
		return err
	}
	var out bytes.Buffer
	if err := json.Indent(&out, compact, "", "    "); err != nil {
		return err
	}
	out.WriteByte('\n')
	_, err = out.WriteTo(w)
	return err
}

type jsonWriter struct {
	buf bytes.Buffer
}

func (w *jsonWriter) value(v any) {
	switch v := v.(type) {
	case nil:
		w.buf.WriteString("null")
	case *Node:
		if v == nil {
			w.buf.WriteString("null")
			return
		}
		w.node(v)
	case []*Node:
		w.buf.WriteByte('[')
		for i, child := range v {
			if i > 0 {
				w.buf.WriteByte(',')
			}
			w.value(child)
		}
		w.buf.WriteByte(']')
	case []*Comment:
		w.buf.WriteByte('[')
		for i, comment := range v {
			if i > 0 {
				w.buf.WriteByte(',')
			}
			w.comment(comment)
		}
		w.buf.WriteByte(']')
	case string:
		w.buf.WriteString(quote(v))
	case *string:
		if v == nil {
			w.buf.WriteString("null")
			return
		}
		w.buf.WriteString(quote(*v))
	case bool:
		w.buf.WriteString(strconv.FormatBool(v))
	case int:
		w.buf.WriteString(strconv.Itoa(v))
	case float64:
		w.buf.WriteString(formatNumber(v))
	case templateValue:
		w.buf.WriteString(`{"raw":`)
		w.value(v.raw)
		w.buf.WriteString(`,"cooked":`)
		w.value(v.cooked)
		w.buf.WriteByte('}')
	default:
		w.buf.WriteString("null")
	}
}

func (w *jsonWriter) key(name string) {
	w.buf.WriteByte(',')
	w.buf.WriteString(quote(name))
	w.buf.WriteByte(':')
}

func (w *jsonWriter) node(n *Node) {
	w.buf.WriteString(`{"type":`)
	w.value(n.Type.String())
	w.key("start")
	w.value(n.Start)
	w.key("end")
	w.value(n.End)
	w.key("loc")
	w.loc(n.Loc)

	extra := n.Extra
	pending := extra != nil && extra.before != extraAfterFields
	for _, f := range nodeFields[n.Type] {
		if pending && (extra.before == "" || extra.before == f.name) {
			w.key("extra")
			w.extra(extra)
			pending = false
		}
		w.key(f.name)
		w.value(f.get(n))
	}
	if pending {
		w.key("extra")
		w.extra(extra)
	}

	for _, key := range n.lateKeys {
		w.key(key)
		switch key {
		case "extra":
			w.extra(extra)
		case leadingComments:
			w.value(n.LeadingComments)
		case innerComments:
			w.value(n.InnerComments)
		case trailingComments:
			w.value(n.TrailingComments)
		}
	}
	w.buf.WriteByte('}')
}

func (w *jsonWriter) extra(extra *Extra) {
	w.buf.WriteByte('{')
	first := true
	add := func(name string, v any) {
		if !first {
			w.buf.WriteByte(',')
		}
		first = false
		w.buf.WriteString(quote(name))
		w.buf.WriteByte(':')
		w.value(v)
	}
	if extra.HasRawValue {
		add("rawValue", extra.RawValue)
	}
	if extra.HasRaw {
		add("raw", extra.Raw)
	}
	if extra.HasTrailingComma {
		add("trailingComma", extra.TrailingComma)
	}
	if extra.Parenthesized {
		add("parenthesized", true)
		add("parenStart", extra.ParenStart)
	}
	w.buf.WriteByte('}')
}

func (w *jsonWriter) loc(loc *SourceLocation) {
	if loc == nil {
		w.buf.WriteString("null")
		return
	}
	w.buf.WriteString(`{"start":`)
	w.position(loc.Start)
	w.key("end")
	w.position(loc.End)
	if loc.Filename != "" {
		w.key("filename")
		w.value(loc.Filename)
	}
	if loc.IdentifierName != "" {
		w.key("identifierName")
		w.value(loc.IdentifierName)
	}
	w.buf.WriteByte('}')
}

func (w *jsonWriter) position(pos Position) {
	w.buf.WriteString(`{"line":`)
	w.value(pos.Line)
	w.key("column")
	w.value(pos.Column)
	w.key("index")
	w.value(pos.Index)
	w.buf.WriteByte('}')
}

func (w *jsonWriter) comment(c *Comment) {
	w.buf.WriteString(`{"type":`)
	w.value(c.Type)
	w.key("value")
	w.value(c.Value)
	w.key("start")
	w.value(c.Start)
	w.key("end")
	w.value(c.End)
	w.key("loc")
	w.loc(c.Loc)
	w.buf.WriteByte('}')
}

const hexDigits = "0123456789abcdef"

// quote escapes s the way JSON.stringify does. Unlike encoding/json it
// leaves <, >, & and U+2028/U+2029 alone, and it escapes the lone
// surrogates the tokenizer keeps in generalized UTF-8.
func quote(s string) string {
	var b strings.Builder
	b.Grow(len(s) + 2)
	b.WriteByte('"')
	start := 0
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c == 0xED && i+2 < len(s) && s[i+1] >= 0xA0 && s[i+1] <= 0xBF {
			// A lone surrogate, escaped as JSON.stringify does.
			code := 0xD000 | int(s[i+1]&0x3F)<<6 | int(s[i+2]&0x3F)
			b.WriteString(s[start:i])
			b.WriteString(`\u`)
			for shift := 12; shift >= 0; shift -= 4 {
				b.WriteByte(hexDigits[code>>shift&0xF])
			}
			i += 2
			start = i + 1
			continue
		}
		if c >= 0x20 && c != '"' && c != '\\' {
			continue
		}
		b.WriteString(s[start:i])
		switch c {
		case '"':
			b.WriteString(`\"`)
		case '\\':
			b.WriteString(`\\`)
		case '\b':
			b.WriteString(`\b`)
		case '\f':
			b.WriteString(`\f`)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\t':
			b.WriteString(`\t`)
		default:
			b.WriteString(`\u00`)
			b.WriteByte(hexDigits[c>>4])
			b.WriteByte(hexDigits[c&0xF])
		}
		start = i + 1
	}
	b.WriteString(s[start:])
	b.WriteByte('"')
	return b.String()
}

// formatNumber renders f like JavaScript's Number.prototype.toString.
func formatNumber(f float64) string {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return "null"
	}
	if f == 0 {
		return "0"
	}
	sign := ""
	if f < 0 {
		sign = "-"
		f = -f
	}

	// Shortest round-tripping digits, as d.ddde±x.
	mantissa, exponent, _ := strings.Cut(strconv.FormatFloat(f, 'e', -1, 64), "e")
	digits := strings.Replace(mantissa, ".", "", 1)
	exp, _ := strconv.Atoi(exponent)
	k, n := len(digits), exp+1

	switch {
	case k <= n && n <= 21:
		return sign + digits + strings.Repeat("0", n-k)
	case 0 < n && n <= 21:
		return sign + digits[:n] + "." + digits[n:]
	case -6 < n && n <= 0:
		return sign + "0." + strings.Repeat("0", -n) + digits
	}

	e := n - 1
	expSign := "+"
	if e < 0 {
		expSign = "-"
		e = -e
	}
	if k == 1 {
		return sign + digits + "e" + expSign + strconv.Itoa(e)
	}
	return sign + digits[:1] + "." + digits[1:] + "e" + expSign + strconv.Itoa(e)
}
