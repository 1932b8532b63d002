package parser

type NodeType int

const (
	NODE_UNTYPED NodeType = iota
	NODE_FILE
	NODE_PROGRAM
	NODE_INTERPRETER_DIRECTIVE
	NODE_DIRECTIVE
	NODE_DIRECTIVE_LITERAL

	// Statements
	NODE_EXPRESSION_STATEMENT
	NODE_BLOCK_STATEMENT
	NODE_EMPTY_STATEMENT
	NODE_DEBUGGER_STATEMENT
	NODE_WITH_STATEMENT
	NODE_RETURN_STATEMENT
	NODE_LABELED_STATEMENT
	NODE_BREAK_STATEMENT
	NODE_CONTINUE_STATEMENT
	NODE_IF_STATEMENT
	NODE_SWITCH_STATEMENT
	NODE_SWITCH_CASE
	NODE_THROW_STATEMENT
	NODE_TRY_STATEMENT
	NODE_CATCH_CLAUSE
	NODE_WHILE_STATEMENT
	NODE_DO_WHILE_STATEMENT
	NODE_FOR_STATEMENT
	NODE_FOR_IN_STATEMENT
	NODE_FOR_OF_STATEMENT

	// Declarations
	NODE_FUNCTION_DECLARATION
	NODE_VARIABLE_DECLARATION
	NODE_VARIABLE_DECLARATOR
	NODE_CLASS_DECLARATION
	NODE_CLASS_BODY
	NODE_CLASS_METHOD
	NODE_CLASS_PRIVATE_METHOD
	NODE_CLASS_PROPERTY
	NODE_CLASS_PRIVATE_PROPERTY
	NODE_STATIC_BLOCK
	NODE_PRIVATE_NAME

	// Expressions
	NODE_IDENTIFIER
	NODE_STRING_LITERAL
	NODE_NUMERIC_LITERAL
	NODE_BIGINT_LITERAL
	NODE_BOOLEAN_LITERAL
	NODE_NULL_LITERAL
	NODE_REGEXP_LITERAL
	NODE_THIS_EXPRESSION
	NODE_SUPER
	NODE_IMPORT
	NODE_ARRAY_EXPRESSION
	NODE_OBJECT_EXPRESSION
	NODE_OBJECT_PROPERTY
	NODE_OBJECT_METHOD
	NODE_FUNCTION_EXPRESSION
	NODE_ARROW_FUNCTION_EXPRESSION
	NODE_CLASS_EXPRESSION
	NODE_UNARY_EXPRESSION
	NODE_UPDATE_EXPRESSION
	NODE_BINARY_EXPRESSION
	NODE_LOGICAL_EXPRESSION
	NODE_ASSIGNMENT_EXPRESSION
	NODE_MEMBER_EXPRESSION
	NODE_OPTIONAL_MEMBER_EXPRESSION
	NODE_CALL_EXPRESSION
	NODE_OPTIONAL_CALL_EXPRESSION
	NODE_NEW_EXPRESSION
	NODE_SEQUENCE_EXPRESSION
	NODE_CONDITIONAL_EXPRESSION
	NODE_YIELD_EXPRESSION
	NODE_AWAIT_EXPRESSION
	NODE_TEMPLATE_LITERAL
	NODE_TEMPLATE_ELEMENT
	NODE_TAGGED_TEMPLATE_EXPRESSION
	NODE_META_PROPERTY
	NODE_SPREAD_ELEMENT

	// Patterns
	NODE_OBJECT_PATTERN
	NODE_ARRAY_PATTERN
	NODE_REST_ELEMENT
	NODE_ASSIGNMENT_PATTERN

	// Modules
	NODE_IMPORT_DECLARATION
	NODE_IMPORT_SPECIFIER
	NODE_IMPORT_DEFAULT_SPECIFIER
	NODE_IMPORT_NAMESPACE_SPECIFIER
	NODE_EXPORT_NAMED_DECLARATION
	NODE_EXPORT_SPECIFIER
	NODE_EXPORT_NAMESPACE_SPECIFIER
	NODE_EXPORT_DEFAULT_DECLARATION
	NODE_EXPORT_ALL_DECLARATION
)

var nodeTypeToString = map[NodeType]string{
	NODE_UNTYPED:                    "Untyped",
	NODE_FILE:                       "File",
	NODE_PROGRAM:                    "Program",
	NODE_INTERPRETER_DIRECTIVE:      "InterpreterDirective",
	NODE_DIRECTIVE:                  "Directive",
	NODE_DIRECTIVE_LITERAL:          "DirectiveLiteral",
	NODE_EXPRESSION_STATEMENT:       "ExpressionStatement",
	NODE_BLOCK_STATEMENT:            "BlockStatement",
	NODE_EMPTY_STATEMENT:            "EmptyStatement",
	NODE_DEBUGGER_STATEMENT:         "DebuggerStatement",
	NODE_WITH_STATEMENT:             "WithStatement",
	NODE_RETURN_STATEMENT:           "ReturnStatement",
	NODE_LABELED_STATEMENT:          "LabeledStatement",
	NODE_BREAK_STATEMENT:            "BreakStatement",
	NODE_CONTINUE_STATEMENT:         "ContinueStatement",
	NODE_IF_STATEMENT:               "IfStatement",
	NODE_SWITCH_STATEMENT:           "SwitchStatement",
	NODE_SWITCH_CASE:                "SwitchCase",
	NODE_THROW_STATEMENT:            "ThrowStatement",
	NODE_TRY_STATEMENT:              "TryStatement",
	NODE_CATCH_CLAUSE:               "CatchClause",
	NODE_WHILE_STATEMENT:            "WhileStatement",
	NODE_DO_WHILE_STATEMENT:         "DoWhileStatement",
	NODE_FOR_STATEMENT:              "ForStatement",
	NODE_FOR_IN_STATEMENT:           "ForInStatement",
	NODE_FOR_OF_STATEMENT:           "ForOfStatement",
	NODE_FUNCTION_DECLARATION:       "FunctionDeclaration",
	NODE_VARIABLE_DECLARATION:       "VariableDeclaration",
	NODE_VARIABLE_DECLARATOR:        "VariableDeclarator",
	NODE_CLASS_DECLARATION:          "ClassDeclaration",
	NODE_CLASS_BODY:                 "ClassBody",
	NODE_CLASS_METHOD:               "ClassMethod",
	NODE_CLASS_PRIVATE_METHOD:       "ClassPrivateMethod",
	NODE_CLASS_PROPERTY:             "ClassProperty",
	NODE_CLASS_PRIVATE_PROPERTY:     "ClassPrivateProperty",
	NODE_STATIC_BLOCK:               "StaticBlock",
	NODE_PRIVATE_NAME:               "PrivateName",
	NODE_IDENTIFIER:                 "Identifier",
	NODE_STRING_LITERAL:             "StringLiteral",
	NODE_NUMERIC_LITERAL:            "NumericLiteral",
	NODE_BIGINT_LITERAL:             "BigIntLiteral",
	NODE_BOOLEAN_LITERAL:            "BooleanLiteral",
	NODE_NULL_LITERAL:               "NullLiteral",
	NODE_REGEXP_LITERAL:             "RegExpLiteral",
	NODE_THIS_EXPRESSION:            "ThisExpression",
	NODE_SUPER:                      "Super",
	NODE_IMPORT:                     "Import",
	NODE_ARRAY_EXPRESSION:           "ArrayExpression",
	NODE_OBJECT_EXPRESSION:          "ObjectExpression",
	NODE_OBJECT_PROPERTY:            "ObjectProperty",
	NODE_OBJECT_METHOD:              "ObjectMethod",
	NODE_FUNCTION_EXPRESSION:        "FunctionExpression",
	NODE_ARROW_FUNCTION_EXPRESSION:  "ArrowFunctionExpression",
	NODE_CLASS_EXPRESSION:           "ClassExpression",
	NODE_UNARY_EXPRESSION:           "UnaryExpression",
	NODE_UPDATE_EXPRESSION:          "UpdateExpression",
	NODE_BINARY_EXPRESSION:          "BinaryExpression",
	NODE_LOGICAL_EXPRESSION:         "LogicalExpression",
	NODE_ASSIGNMENT_EXPRESSION:      "AssignmentExpression",
	NODE_MEMBER_EXPRESSION:          "MemberExpression",
	NODE_OPTIONAL_MEMBER_EXPRESSION: "OptionalMemberExpression",
	NODE_CALL_EXPRESSION:            "CallExpression",
	NODE_OPTIONAL_CALL_EXPRESSION:   "OptionalCallExpression",
	NODE_NEW_EXPRESSION:             "NewExpression",
	NODE_SEQUENCE_EXPRESSION:        "SequenceExpression",
	NODE_CONDITIONAL_EXPRESSION:     "ConditionalExpression",
	NODE_YIELD_EXPRESSION:           "YieldExpression",
	NODE_AWAIT_EXPRESSION:           "AwaitExpression",
	NODE_TEMPLATE_LITERAL:           "TemplateLiteral",
	NODE_TEMPLATE_ELEMENT:           "TemplateElement",
	NODE_TAGGED_TEMPLATE_EXPRESSION: "TaggedTemplateExpression",
	NODE_META_PROPERTY:              "MetaProperty",
	NODE_SPREAD_ELEMENT:             "SpreadElement",
	NODE_OBJECT_PATTERN:             "ObjectPattern",
	NODE_ARRAY_PATTERN:              "ArrayPattern",
	NODE_REST_ELEMENT:               "RestElement",
	NODE_ASSIGNMENT_PATTERN:         "AssignmentPattern",
	NODE_IMPORT_DECLARATION:         "ImportDeclaration",
	NODE_IMPORT_SPECIFIER:           "ImportSpecifier",
	NODE_IMPORT_DEFAULT_SPECIFIER:   "ImportDefaultSpecifier",
	NODE_IMPORT_NAMESPACE_SPECIFIER: "ImportNamespaceSpecifier",
	NODE_EXPORT_NAMED_DECLARATION:   "ExportNamedDeclaration",
	NODE_EXPORT_SPECIFIER:           "ExportSpecifier",
	NODE_EXPORT_NAMESPACE_SPECIFIER: "ExportNamespaceSpecifier",
	NODE_EXPORT_DEFAULT_DECLARATION: "ExportDefaultDeclaration",
	NODE_EXPORT_ALL_DECLARATION:     "ExportAllDeclaration",
}

func (t NodeType) String() string {
	if name, ok := nodeTypeToString[t]; ok {
		return name
	}
	return "Untyped"
}

// Extra mirrors Babel's node.extra bag.
type Extra struct {
	RawValue         any
	HasRawValue      bool
	Raw              string
	HasRaw           bool
	TrailingComma    int // UTF-16 index of a list's trailing comma
	HasTrailingComma bool
	Parenthesized    bool
	ParenStart       int

	// before names the field the bag is encoded ahead of.
	before string
}

// extraAfterFields encodes extra after all fields of its node. Babel adds
// extra to an already built node in that case, so the key comes last.
const extraAfterFields = "*"

type Comment struct {
	Type  string
	Value string
	Start int
	End   int
	Loc   *SourceLocation
}

const (
	COMMENT_LINE  = "CommentLine"
	COMMENT_BLOCK = "CommentBlock"
)

// Node is one syntax tree node. Which fields are meaningful depends on
// Type; the JSON encoder knows the field list of every node type.
type Node struct {
	Type  NodeType
	Start int
	End   int
	Loc   *SourceLocation
	Extra *Extra

	Name       string
	Value      any // literal value: string, float64, bool or nil
	Pattern    string
	Flags      string
	SourceType SourceType

	Program     *Node
	Comments    []*Comment
	Interpreter *Node
	Body        []*Node // Program, BlockStatement, ClassBody, StaticBlock
	BodyNode    *Node   // functions, loops, classes, with, labels, catch
	Directives  []*Node
	ValueNode   *Node // Directive, ObjectProperty, ClassProperty

	Expression     *Node
	Object         *Node
	Property       *Node
	Argument       *Node
	Label          *Node
	Test           *Node
	Consequent     *Node
	Alternate      *Node
	ConsequentList []*Node // SwitchCase
	Discriminant   *Node
	Cases          []*Node
	Block          *Node
	Handler        *Node
	Finalizer      *Node
	Param          *Node
	Init           *Node
	Update         *Node
	Left           *Node
	Right          *Node
	Await          bool

	Id           *Node
	Generator    bool
	Async        bool
	Params       []*Node
	Declarations []*Node
	Kind         string
	SuperClass   *Node
	Static       bool
	Computed     bool
	Shorthand    bool
	Method       bool
	Key          *Node

	Elements    []*Node // nil entries are holes
	Properties  []*Node
	Operator    string
	Prefix      bool
	Callee      *Node
	Arguments   []*Node
	Optional    bool
	Expressions []*Node
	Delegate    bool

	Quasis []*Node
	Tag    *Node
	Quasi  *Node
	Raw    string  // TemplateElement value.raw
	Cooked *string // TemplateElement value.cooked, nil when invalid
	Tail   bool
	Meta   *Node

	Specifiers  []*Node
	Source      *Node
	Imported    *Node
	Local       *Node
	Exported    *Node
	Declaration *Node

	LeadingComments  []*Comment
	InnerComments    []*Comment
	TrailingComments []*Comment

	// lateKeys lists the keys added after the node was built: "extra" and
	// the comment lists, in the order they appeared.
	lateKeys []string
}

func (p *Parser) sourceLocation(start, end int) *SourceLocation {
	return &SourceLocation{
		Start:    p.lines.position(start),
		End:      p.lines.position(end),
		Filename: p.options.SourceFilename,
	}
}

func (p *Parser) startNode() *Node {
	return p.startNodeAt(p.start)
}

func (p *Parser) startNodeAt(pos int) *Node {
	start := p.lines.position(pos)
	return &Node{
		Type:  NODE_UNTYPED,
		Start: start.Index,
		Loc:   &SourceLocation{Start: start, Filename: p.options.SourceFilename},
	}
}

// startNodeAtNode starts a node at the same place as other.
func (p *Parser) startNodeAtNode(other *Node) *Node {
	return p.startNodeAt(other.Loc.Start.offset)
}

func (p *Parser) finishNodeAt(node *Node, finishType NodeType, pos int) *Node {
	end := p.lines.position(pos)
	node.Type = finishType
	node.End = end.Index
	node.Loc.End = end
	if finishType == NODE_IDENTIFIER {
		node.Loc.IdentifierName = node.Name
	}
	p.processComment(node)
	return node
}

// resetEndLocation moves the end of a finished node back to pos.
func (p *Parser) resetEndLocation(node *Node, pos int) {
	end := p.lines.position(pos)
	node.End = end.Index
	node.Loc.End = end
}

func (p *Parser) finishNode(node *Node, finishType NodeType) *Node {
	return p.finishNodeAt(node, finishType, p.lastTokEnd)
}

// offset returns the byte offset a node starts at.
func (n *Node) offset() int {
	return n.Loc.Start.offset
}

func (n *Node) endOffset() int {
	return n.Loc.End.offset
}

func (n *Node) parenthesized() bool {
	return n.Extra != nil && n.Extra.Parenthesized
}

func (n *Node) setExtra(key string, value any) {
	n.addExtra("", key, value)
}

// addExtra sets key in the extra bag. When this creates the bag, before
// says where it is encoded: "" right after loc, a field name ahead of that
// field, or extraAfterFields after everything already there.
func (n *Node) addExtra(before, key string, value any) {
	if n.Extra == nil {
		n.Extra = &Extra{before: before}
		if before == extraAfterFields {
			n.lateKeys = append(n.lateKeys, "extra")
		}
	}
	switch key {
	case "rawValue":
		n.Extra.RawValue = value
		n.Extra.HasRawValue = true
	case "raw":
		n.Extra.Raw = value.(string)
		n.Extra.HasRaw = true
	case "trailingComma":
		n.Extra.TrailingComma = value.(int)
		n.Extra.HasTrailingComma = true
	case "parenthesized":
		n.Extra.Parenthesized = value.(bool)
	case "parenStart":
		n.Extra.ParenStart = value.(int)
	}
}

// cloneNode returns a shallow copy of node with its own location and extra.
func cloneNode(node *Node) *Node {
	clone := *node
	if node.Loc != nil {
		loc := *node.Loc
		clone.Loc = &loc
	}
	if node.Extra != nil {
		extra := *node.Extra
		clone.Extra = &extra
	}
	clone.LeadingComments, clone.InnerComments, clone.TrailingComments = nil, nil, nil
	clone.lateKeys = nil
	if clone.Extra != nil && clone.Extra.before == extraAfterFields {
		clone.lateKeys = []string{"extra"}
	}
	return &clone
}
