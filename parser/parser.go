package parser

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"sort"
)

type Parser struct {
	options *Options
	input   []byte
	lines   *lineIndex

	// Tokenizer state. All positions are byte offsets into input.
	pos          int
	Type         *TokenType
	Value        any
	start        int
	end          int
	lastTokStart int
	lastTokEnd   int
	containsEsc  bool
	tokErr       error
	comments     []*Comment
	commentStack []*commentWhitespace
	strictErrors []*SyntaxError

	Strict           bool
	InModule         bool
	potentialArrowAt int
	yieldPos         int
	awaitPos         int
	awaitIdentPos    int
	labels           []label
	scopeStack       []*Scope
	privateNameStack []*privateNameScope
	undefinedExports map[string]int
	exportedNames    map[string]bool
}

func NewParser(input []byte, opts *Options) (*Parser, error) {
	options, err := GetOptions(opts)
	if err != nil {
		return nil, err
	}
	return &Parser{
		options:          options,
		input:            input,
		lines:            newLineIndex(input),
		Type:             tokenTypes[TOKEN_EOF],
		Strict:           options.strict(),
		InModule:         options.SourceType == SOURCE_MODULE,
		potentialArrowAt: -1,
		undefinedExports: map[string]int{},
		exportedNames:    map[string]bool{},
	}, nil
}

// Parse parses input and returns its File node.
func Parse(input []byte, opts *Options) (*Node, error) {
	p, err := NewParser(input, opts)
	if err != nil {
		return nil, err
	}
	return p.Parse()
}

// ParseFile reads path and parses its contents.
func ParseFile(path string, opts *Options) (*Node, error) {
	input, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return Parse(input, opts)
}

func (p *Parser) Parse() (*Node, error) {
	file := p.startNodeAt(0)
	program := p.startNodeAt(0)
	p.enterScope(SCOPE_TOP)

	if bytes.HasPrefix(p.input, []byte("#!")) {
		program.Interpreter = p.parseInterpreterDirective()
	}
	p.nextToken()

	program, err := p.parseTopLevel(program)
	if err != nil {
		return nil, p.firstError(err)
	}

	file.Program = program
	file.Comments = p.comments
	if file.Comments == nil {
		file.Comments = []*Comment{}
	}
	return p.finishNodeAt(file, NODE_FILE, len(p.input)), nil
}

// firstError prefers a pending tokenizer error when it comes earlier in
// the input than err.
func (p *Parser) firstError(err error) error {
	var tokErr, synErr *SyntaxError
	if !errors.As(p.tokErr, &tokErr) || !errors.As(err, &synErr) {
		return err
	}
	if tokErr.Loc.Index < synErr.Loc.Index {
		return p.tokErr
	}
	return err
}

func (p *Parser) parseInterpreterDirective() *Node {
	end := 2
	for end < len(p.input) && p.input[end] != '\n' && p.input[end] != '\r' {
		end++
	}
	node := p.startNodeAt(0)
	node.Value = string(p.input[2:end])
	p.pos = end
	return p.finishNodeAt(node, NODE_INTERPRETER_DIRECTIVE, end)
}

func (p *Parser) parseTopLevel(program *Node) (*Node, error) {
	program.SourceType = p.options.SourceType

	body, directives, err := p.parseBlockBody(TOKEN_EOF, true, true)
	if err != nil {
		return nil, err
	}
	program.Body = body
	program.Directives = directives

	if p.InModule && len(p.undefinedExports) > 0 {
		names := make([]string, 0, len(p.undefinedExports))
		for name := range p.undefinedExports {
			names = append(names, name)
		}
		sort.Slice(names, func(i, j int) bool {
			return p.undefinedExports[names[i]] < p.undefinedExports[names[j]]
		})
		return nil, p.raisef(p.undefinedExports[names[0]], "Export '%s' is not defined.", names[0])
	}
	return p.finishNodeAt(program, NODE_PROGRAM, len(p.input)), nil
}

// parseBlockBody parses statements up to the end token, which it leaves
// unconsumed. Leading string statements become directives when allowed.
func (p *Parser) parseBlockBody(end Token, allowDirectives bool, topLevel bool) ([]*Node, []*Node, error) {
	body := []*Node{}
	directives := []*Node{}
	parsedNonDirective := false
	if allowDirectives {
		p.dropStrictErrorsBefore(p.start)
	}

	for p.Type.identifier != end {
		if p.Type.identifier == TOKEN_EOF {
			return nil, nil, p.unexpected()
		}
		startsWithString := p.Type.identifier == TOKEN_STRING
		stmt, err := p.parseStatementListItem(topLevel)
		if err != nil {
			return nil, nil, err
		}

		if allowDirectives && !parsedNonDirective {
			if startsWithString {
				if directive := p.toDirective(stmt); directive != nil {
					directives = append(directives, directive)
					if directive.ValueNode.Value == "use strict" && !p.Strict {
						if err := p.setStrict(); err != nil {
							return nil, nil, err
						}
					}
					continue
				}
			}
			parsedNonDirective = true
			p.strictErrors = nil
		}
		body = append(body, stmt)
	}
	return body, directives, nil
}

// toDirective turns a string literal statement into a directive in place,
// so comments already attached to either node stay with it.
func (p *Parser) toDirective(stmt *Node) *Node {
	if stmt.Type != NODE_EXPRESSION_STATEMENT {
		return nil
	}
	literal := stmt.Expression
	if literal.Type != NODE_STRING_LITERAL || literal.parenthesized() {
		return nil
	}

	raw := string(p.input[literal.offset():literal.endOffset()])
	value := raw[1 : len(raw)-1]
	literal.Type = NODE_DIRECTIVE_LITERAL
	literal.Value = value
	literal.setExtra("rawValue", value)
	literal.setExtra("raw", raw)

	stmt.Type = NODE_DIRECTIVE
	stmt.ValueNode = literal
	stmt.Expression = nil
	return stmt
}

type tokenState struct {
	pos          int
	typ          *TokenType
	value        any
	start        int
	end          int
	lastTokStart int
	lastTokEnd   int
	containsEsc  bool
	tokErr       error
	comments     int
	commentStack int
}

func (p *Parser) snapshot() tokenState {
	return tokenState{
		pos:          p.pos,
		typ:          p.Type,
		value:        p.Value,
		start:        p.start,
		end:          p.end,
		lastTokStart: p.lastTokStart,
		lastTokEnd:   p.lastTokEnd,
		containsEsc:  p.containsEsc,
		tokErr:       p.tokErr,
		comments:     len(p.comments),
		commentStack: len(p.commentStack),
	}
}

func (p *Parser) restore(s tokenState) {
	p.pos = s.pos
	p.Type = s.typ
	p.Value = s.value
	p.start = s.start
	p.end = s.end
	p.lastTokStart = s.lastTokStart
	p.lastTokEnd = s.lastTokEnd
	p.containsEsc = s.containsEsc
	p.tokErr = s.tokErr
	p.comments = p.comments[:s.comments]
	p.commentStack = p.commentStack[:s.commentStack]
}

// lookahead returns the token after the current one without consuming it.
func (p *Parser) lookahead() tokenState {
	saved := p.snapshot()
	p.next()
	next := p.snapshot()
	p.restore(saved)
	return next
}

func (p *Parser) is(token Token) bool {
	return p.Type.identifier == token
}

func (p *Parser) eat(token Token) bool {
	if p.Type.identifier == token {
		p.next()
		return true
	}
	return false
}

func (p *Parser) expect(token Token) error {
	if p.eat(token) {
		return nil
	}
	if p.Type.identifier == TOKEN_INVALID {
		return p.tokErr
	}
	return p.unexpectedExpected(token)
}

func (p *Parser) isContextual(name string) bool {
	value, ok := p.Value.(string)
	return ok && p.Type.identifier == TOKEN_NAME && value == name && !p.containsEsc
}

func (p *Parser) eatContextual(name string) bool {
	if !p.isContextual(name) {
		return false
	}
	p.next()
	return true
}

func (p *Parser) expectContextual(name string) error {
	if p.eatContextual(name) {
		return nil
	}
	if p.Type.identifier == TOKEN_INVALID {
		return p.tokErr
	}
	return p.raisef(p.start, "Unexpected token, expected %q", name)
}

func (p *Parser) tokenString() string {
	value, _ := p.Value.(string)
	return value
}

func hasLineBreak(input []byte) bool {
	return bytes.ContainsAny(input, "\n\r\u2028\u2029")
}

func (p *Parser) hasPrecedingLineBreak() bool {
	return hasLineBreak(p.input[p.lastTokEnd:p.start])
}

func (p *Parser) canInsertSemicolon() bool {
	return p.is(TOKEN_EOF) || p.is(TOKEN_BRACER) || p.hasPrecedingLineBreak()
}

func (p *Parser) semicolon() error {
	if p.eat(TOKEN_SEMI) || p.canInsertSemicolon() {
		return nil
	}
	if p.Type.identifier == TOKEN_INVALID {
		return p.tokErr
	}
	return p.raise(p.lastTokEnd, "Missing semicolon.")
}
