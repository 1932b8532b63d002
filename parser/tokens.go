package parser

type Token int

const (
	// BASIC
	TOKEN_NUM Token = iota
	TOKEN_BIGINT
	TOKEN_REGEXP
	TOKEN_STRING
	TOKEN_NAME
	TOKEN_PRIVATEID
	TOKEN_EOF
	TOKEN_INVALID

	// PUNCTUATION
	TOKEN_BRACKETL
	TOKEN_BRACKETR
	TOKEN_BRACEL
	TOKEN_BRACER
	TOKEN_PARENL
	TOKEN_PARENR
	TOKEN_COMMA
	TOKEN_SEMI
	TOKEN_COLON
	TOKEN_DOT
	TOKEN_QUESTION
	TOKEN_QUESTIONDOT
	TOKEN_ARROW
	TOKEN_ELLIPSIS
	TOKEN_BACKQUOTE

	// OPERATORS
	TOKEN_EQ
	TOKEN_ASSIGN
	TOKEN_INCDEC
	TOKEN_BANG
	TOKEN_TILDE
	TOKEN_COALESCE
	TOKEN_LOGICALOR
	TOKEN_LOGICALAND
	TOKEN_BITWISEOR
	TOKEN_BITWISEXOR
	TOKEN_BITWISEAND
	TOKEN_EQUALITY
	TOKEN_RELATIONAL
	TOKEN_BITSHIFT
	TOKEN_PLUSMIN
	TOKEN_MODULO
	TOKEN_STAR
	TOKEN_SLASH
	TOKEN_STARSTAR

	// KEYWORDS
	TOKEN_BREAK
	TOKEN_CASE
	TOKEN_CATCH
	TOKEN_CONTINUE
	TOKEN_DEBUGGER
	TOKEN_DEFAULT
	TOKEN_DO
	TOKEN_ELSE
	TOKEN_FINALLY
	TOKEN_FOR
	TOKEN_FUNCTION
	TOKEN_IF
	TOKEN_RETURN
	TOKEN_SWITCH
	TOKEN_THROW
	TOKEN_TRY
	TOKEN_VAR
	TOKEN_CONST
	TOKEN_WHILE
	TOKEN_WITH
	TOKEN_NEW
	TOKEN_THIS
	TOKEN_SUPER
	TOKEN_CLASS
	TOKEN_EXTENDS
	TOKEN_EXPORT
	TOKEN_IMPORT
	TOKEN_NULL
	TOKEN_TRUE
	TOKEN_FALSE
	TOKEN_IN
	TOKEN_INSTANCEOF
	TOKEN_TYPEOF
	TOKEN_VOID
	TOKEN_DELETE
)

type TokenType struct {
	label      string
	keyword    string
	beforeExpr bool
	startsExpr bool
	isLoop     bool
	isAssign   bool
	prefix     bool
	postfix    bool
	binop      int // 0 when the token is not a binary operator
	identifier Token
}

var tokenTypes = map[Token]*TokenType{
	// Basic token types
	TOKEN_NUM:       newToken("num", "", map[string]bool{"startsExpr": true}, 0, TOKEN_NUM),
	TOKEN_BIGINT:    newToken("bigint", "", map[string]bool{"startsExpr": true}, 0, TOKEN_BIGINT),
	TOKEN_REGEXP:    newToken("regexp", "", map[string]bool{"startsExpr": true}, 0, TOKEN_REGEXP),
	TOKEN_STRING:    newToken("string", "", map[string]bool{"startsExpr": true}, 0, TOKEN_STRING),
	TOKEN_NAME:      newToken("name", "", map[string]bool{"startsExpr": true}, 0, TOKEN_NAME),
	TOKEN_PRIVATEID: newToken("#name", "", map[string]bool{"startsExpr": true}, 0, TOKEN_PRIVATEID),
	TOKEN_EOF:       newToken("eof", "", map[string]bool{}, 0, TOKEN_EOF),
	TOKEN_INVALID:   newToken("invalid", "", map[string]bool{}, 0, TOKEN_INVALID),

	// Punctuation token types
	TOKEN_BRACKETL:    newToken("[", "", map[string]bool{"beforeExpr": true, "startsExpr": true}, 0, TOKEN_BRACKETL),
	TOKEN_BRACKETR:    newToken("]", "", map[string]bool{}, 0, TOKEN_BRACKETR),
	TOKEN_BRACEL:      newToken("{", "", map[string]bool{"beforeExpr": true, "startsExpr": true}, 0, TOKEN_BRACEL),
	TOKEN_BRACER:      newToken("}", "", map[string]bool{}, 0, TOKEN_BRACER),
	TOKEN_PARENL:      newToken("(", "", map[string]bool{"beforeExpr": true, "startsExpr": true}, 0, TOKEN_PARENL),
	TOKEN_PARENR:      newToken(")", "", map[string]bool{}, 0, TOKEN_PARENR),
	TOKEN_COMMA:       newToken(",", "", map[string]bool{"beforeExpr": true}, 0, TOKEN_COMMA),
	TOKEN_SEMI:        newToken(";", "", map[string]bool{"beforeExpr": true}, 0, TOKEN_SEMI),
	TOKEN_COLON:       newToken(":", "", map[string]bool{"beforeExpr": true}, 0, TOKEN_COLON),
	TOKEN_DOT:         newToken(".", "", map[string]bool{}, 0, TOKEN_DOT),
	TOKEN_QUESTION:    newToken("?", "", map[string]bool{"beforeExpr": true}, 0, TOKEN_QUESTION),
	TOKEN_QUESTIONDOT: newToken("?.", "", map[string]bool{}, 0, TOKEN_QUESTIONDOT),
	TOKEN_ARROW:       newToken("=>", "", map[string]bool{"beforeExpr": true}, 0, TOKEN_ARROW),
	TOKEN_ELLIPSIS:    newToken("...", "", map[string]bool{"beforeExpr": true}, 0, TOKEN_ELLIPSIS),
	TOKEN_BACKQUOTE:   newToken("`", "", map[string]bool{"startsExpr": true}, 0, TOKEN_BACKQUOTE),

	// Operator token types
	TOKEN_EQ:         newToken("=", "", map[string]bool{"beforeExpr": true, "isAssign": true}, 0, TOKEN_EQ),
	TOKEN_ASSIGN:     newToken("_=", "", map[string]bool{"beforeExpr": true, "isAssign": true}, 0, TOKEN_ASSIGN),
	TOKEN_INCDEC:     newToken("++/--", "", map[string]bool{"prefix": true, "postfix": true, "startsExpr": true}, 0, TOKEN_INCDEC),
	TOKEN_BANG:       newToken("!", "", map[string]bool{"beforeExpr": true, "prefix": true, "startsExpr": true}, 0, TOKEN_BANG),
	TOKEN_TILDE:      newToken("~", "", map[string]bool{"beforeExpr": true, "prefix": true, "startsExpr": true}, 0, TOKEN_TILDE),
	TOKEN_COALESCE:   newToken("??", "", map[string]bool{"beforeExpr": true}, 1, TOKEN_COALESCE),
	TOKEN_LOGICALOR:  newToken("||", "", map[string]bool{"beforeExpr": true}, 1, TOKEN_LOGICALOR),
	TOKEN_LOGICALAND: newToken("&&", "", map[string]bool{"beforeExpr": true}, 2, TOKEN_LOGICALAND),
	TOKEN_BITWISEOR:  newToken("|", "", map[string]bool{"beforeExpr": true}, 3, TOKEN_BITWISEOR),
	TOKEN_BITWISEXOR: newToken("^", "", map[string]bool{"beforeExpr": true}, 4, TOKEN_BITWISEXOR),
	TOKEN_BITWISEAND: newToken("&", "", map[string]bool{"beforeExpr": true}, 5, TOKEN_BITWISEAND),
	TOKEN_EQUALITY:   newToken("==/!=/===/!==", "", map[string]bool{"beforeExpr": true}, 6, TOKEN_EQUALITY),
	TOKEN_RELATIONAL: newToken("</>/<=/>=", "", map[string]bool{"beforeExpr": true}, 7, TOKEN_RELATIONAL),
	TOKEN_BITSHIFT:   newToken("<</>>/>>>", "", map[string]bool{"beforeExpr": true}, 8, TOKEN_BITSHIFT),
	TOKEN_PLUSMIN:    newToken("+/-", "", map[string]bool{"beforeExpr": true, "prefix": true, "startsExpr": true}, 9, TOKEN_PLUSMIN),
	TOKEN_MODULO:     newToken("%", "", map[string]bool{"beforeExpr": true}, 10, TOKEN_MODULO),
	TOKEN_STAR:       newToken("*", "", map[string]bool{"beforeExpr": true}, 10, TOKEN_STAR),
	TOKEN_SLASH:      newToken("/", "", map[string]bool{"beforeExpr": true}, 10, TOKEN_SLASH),
	TOKEN_STARSTAR:   newToken("**", "", map[string]bool{"beforeExpr": true}, 11, TOKEN_STARSTAR),

	// Keywords
	TOKEN_BREAK:      newToken("break", "break", map[string]bool{}, 0, TOKEN_BREAK),
	TOKEN_CASE:       newToken("case", "case", map[string]bool{"beforeExpr": true}, 0, TOKEN_CASE),
	TOKEN_CATCH:      newToken("catch", "catch", map[string]bool{}, 0, TOKEN_CATCH),
	TOKEN_CONTINUE:   newToken("continue", "continue", map[string]bool{}, 0, TOKEN_CONTINUE),
	TOKEN_DEBUGGER:   newToken("debugger", "debugger", map[string]bool{}, 0, TOKEN_DEBUGGER),
	TOKEN_DEFAULT:    newToken("default", "default", map[string]bool{"beforeExpr": true}, 0, TOKEN_DEFAULT),
	TOKEN_DO:         newToken("do", "do", map[string]bool{"isLoop": true, "beforeExpr": true}, 0, TOKEN_DO),
	TOKEN_ELSE:       newToken("else", "else", map[string]bool{"beforeExpr": true}, 0, TOKEN_ELSE),
	TOKEN_FINALLY:    newToken("finally", "finally", map[string]bool{}, 0, TOKEN_FINALLY),
	TOKEN_FOR:        newToken("for", "for", map[string]bool{"isLoop": true}, 0, TOKEN_FOR),
	TOKEN_FUNCTION:   newToken("function", "function", map[string]bool{"startsExpr": true}, 0, TOKEN_FUNCTION),
	TOKEN_IF:         newToken("if", "if", map[string]bool{}, 0, TOKEN_IF),
	TOKEN_RETURN:     newToken("return", "return", map[string]bool{"beforeExpr": true}, 0, TOKEN_RETURN),
	TOKEN_SWITCH:     newToken("switch", "switch", map[string]bool{}, 0, TOKEN_SWITCH),
	TOKEN_THROW:      newToken("throw", "throw", map[string]bool{"beforeExpr": true}, 0, TOKEN_THROW),
	TOKEN_TRY:        newToken("try", "try", map[string]bool{}, 0, TOKEN_TRY),
	TOKEN_VAR:        newToken("var", "var", map[string]bool{}, 0, TOKEN_VAR),
	TOKEN_CONST:      newToken("const", "const", map[string]bool{}, 0, TOKEN_CONST),
	TOKEN_WHILE:      newToken("while", "while", map[string]bool{"isLoop": true}, 0, TOKEN_WHILE),
	TOKEN_WITH:       newToken("with", "with", map[string]bool{}, 0, TOKEN_WITH),
	TOKEN_NEW:        newToken("new", "new", map[string]bool{"beforeExpr": true, "startsExpr": true}, 0, TOKEN_NEW),
	TOKEN_THIS:       newToken("this", "this", map[string]bool{"startsExpr": true}, 0, TOKEN_THIS),
	TOKEN_SUPER:      newToken("super", "super", map[string]bool{"startsExpr": true}, 0, TOKEN_SUPER),
	TOKEN_CLASS:      newToken("class", "class", map[string]bool{"startsExpr": true}, 0, TOKEN_CLASS),
	TOKEN_EXTENDS:    newToken("extends", "extends", map[string]bool{"beforeExpr": true}, 0, TOKEN_EXTENDS),
	TOKEN_EXPORT:     newToken("export", "export", map[string]bool{}, 0, TOKEN_EXPORT),
	TOKEN_IMPORT:     newToken("import", "import", map[string]bool{"startsExpr": true}, 0, TOKEN_IMPORT),
	TOKEN_NULL:       newToken("null", "null", map[string]bool{"startsExpr": true}, 0, TOKEN_NULL),
	TOKEN_TRUE:       newToken("true", "true", map[string]bool{"startsExpr": true}, 0, TOKEN_TRUE),
	TOKEN_FALSE:      newToken("false", "false", map[string]bool{"startsExpr": true}, 0, TOKEN_FALSE),
	TOKEN_IN:         newToken("in", "in", map[string]bool{"beforeExpr": true}, 7, TOKEN_IN),
	TOKEN_INSTANCEOF: newToken("instanceof", "instanceof", map[string]bool{"beforeExpr": true}, 7, TOKEN_INSTANCEOF),
	TOKEN_TYPEOF:     newToken("typeof", "typeof", map[string]bool{"beforeExpr": true, "prefix": true, "startsExpr": true}, 0, TOKEN_TYPEOF),
	TOKEN_VOID:       newToken("void", "void", map[string]bool{"beforeExpr": true, "prefix": true, "startsExpr": true}, 0, TOKEN_VOID),
	TOKEN_DELETE:     newToken("delete", "delete", map[string]bool{"beforeExpr": true, "prefix": true, "startsExpr": true}, 0, TOKEN_DELETE),
}

var keywords = map[string]*TokenType{}

func init() {
	for _, t := range tokenTypes {
		if t.keyword != "" {
			keywords[t.keyword] = t
		}
	}
}

func newToken(label string, keyword string, overrides map[string]bool, binop int, identifier Token) *TokenType {
	return &TokenType{
		label:      label,
		keyword:    keyword,
		beforeExpr: overrides["beforeExpr"],
		startsExpr: overrides["startsExpr"],
		isLoop:     overrides["isLoop"],
		isAssign:   overrides["isAssign"],
		prefix:     overrides["prefix"],
		postfix:    overrides["postfix"],
		binop:      binop,
		identifier: identifier,
	}
}

func (t *TokenType) String() string {
	return t.label
}
