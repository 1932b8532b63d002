package parser

const (
	FUNC_STATEMENT = 1 << iota
	FUNC_HANGING_STATEMENT
	FUNC_NULLABLE_ID
)

func (p *Parser) parseStatementListItem(topLevel bool) (*Node, error) {
	return p.parseStatement("", topLevel)
}

// Parse a single statement.
//
// context is empty for statement list items. Otherwise it names the
// single-statement position ("if", "label", "do", "while", "for", "with")
// where declarations are restricted.
func (p *Parser) parseStatement(context string, topLevel bool) (*Node, error) {
	startType, node := p.Type.identifier, p.startNode()
	kind := ""

	if p.isLet(context) {
		startType = TOKEN_VAR
		kind = "let"
	}

	switch startType {
	case TOKEN_BREAK, TOKEN_CONTINUE:
		return p.parseBreakContinueStatement(node, p.Type.keyword)

	case TOKEN_DEBUGGER:
		return p.parseDebuggerStatement(node)

	case TOKEN_DO:
		return p.parseDoStatement(node)

	case TOKEN_FOR:
		return p.parseForStatement(node)

	case TOKEN_FUNCTION:
		if context != "" && (p.Strict || context != "if" && context != "label") {
			if p.Strict {
				return nil, p.raise(p.start, "In strict mode code, functions can only be declared at top level or inside a block.")
			}
			return nil, p.raise(p.start, "In non-strict mode code, functions can only be declared at top level, inside a block, or as the body of an if statement.")
		}
		return p.parseFunctionStatement(node, false, context == "")

	case TOKEN_CLASS:
		if context != "" {
			return nil, p.unexpected()
		}
		return p.parseClass(node, true, false)

	case TOKEN_IF:
		return p.parseIfStatement(node)

	case TOKEN_RETURN:
		return p.parseReturnStatement(node)

	case TOKEN_SWITCH:
		return p.parseSwitchStatement(node)

	case TOKEN_THROW:
		return p.parseThrowStatement(node)

	case TOKEN_TRY:
		return p.parseTryStatement(node)

	case TOKEN_CONST, TOKEN_VAR:
		if kind == "" {
			kind = p.Type.keyword
		}
		if context != "" && kind != "var" {
			return nil, p.raise(p.start, "Lexical declaration cannot appear in a single-statement context.")
		}
		return p.parseVarStatement(node, kind)

	case TOKEN_WHILE:
		return p.parseWhileStatement(node)

	case TOKEN_WITH:
		return p.parseWithStatement(node)

	case TOKEN_BRACEL:
		return p.parseBlock(true, node)

	case TOKEN_SEMI:
		return p.parseEmptyStatement(node)

	case TOKEN_EXPORT, TOKEN_IMPORT:
		if startType == TOKEN_IMPORT {
			next := p.lookahead()
			if next.typ.identifier == TOKEN_PARENL || next.typ.identifier == TOKEN_DOT {
				break
			}
		}
		if !p.options.AllowImportExportEverywhere && !topLevel {
			return nil, p.raise(p.start, "'import' and 'export' may only appear at the top level.")
		}
		if !p.InModule {
			return nil, p.raise(p.start, "'import' and 'export' may appear only with 'sourceType: \"module\"'")
		}
		if startType == TOKEN_IMPORT {
			return p.parseImport(node)
		}
		return p.parseExport(node)
	}

	if p.isAsyncFunction() {
		if context != "" {
			return nil, p.raise(p.start, "Async functions can only be declared at the top level or inside a block.")
		}
		p.next()
		return p.parseFunctionStatement(node, true, context == "")
	}

	// If the statement does not start with a statement keyword or a brace,
	// it's an ExpressionStatement or LabeledStatement.
	maybeName := p.tokenString()
	expr, err := p.parseExpression(false, nil)
	if err != nil {
		return nil, err
	}
	if startType == TOKEN_NAME && expr.Type == NODE_IDENTIFIER && !expr.parenthesized() && p.eat(TOKEN_COLON) {
		return p.parseLabeledStatement(node, maybeName, expr, context)
	}
	return p.parseExpressionStatement(node, expr)
}

// isLet reports whether the current 'let' starts a lexical declaration
// rather than an identifier expression.
func (p *Parser) isLet(context string) bool {
	if !p.isContextual("let") {
		return false
	}
	next := p.lookahead()
	switch next.typ.identifier {
	case TOKEN_BRACKETL:
		return true
	case TOKEN_BRACEL:
		return context == ""
	case TOKEN_NAME:
		if context != "" && hasLineBreak(p.input[p.end:next.start]) {
			return false
		}
		return true
	}
	// let yield, let await and friends are still declarations; the binding
	// check rejects the reserved ones.
	return next.typ.keyword != "" && next.typ.keyword != "in" && next.typ.keyword != "instanceof"
}

func (p *Parser) isAsyncFunction() bool {
	if !p.isContextual("async") {
		return false
	}
	next := p.lookahead()
	return next.typ.identifier == TOKEN_FUNCTION && !hasLineBreak(p.input[p.end:next.start])
}

func (p *Parser) parseBreakContinueStatement(node *Node, keyword string) (*Node, error) {
	isBreak := keyword == "break"
	p.next()

	if p.eat(TOKEN_SEMI) || p.canInsertSemicolon() {
		node.Label = nil
	} else if !p.is(TOKEN_NAME) {
		return nil, p.unexpected()
	} else {
		label, err := p.parseIdent(false)
		if err != nil {
			return nil, err
		}
		node.Label = label
		if err := p.semicolon(); err != nil {
			return nil, err
		}
	}

	// Verify that there is an actual destination to break or
	// continue to.
	found := false
	for _, lab := range p.labels {
		if node.Label == nil || lab.name == node.Label.Name {
			if lab.kind != "" && (isBreak || lab.kind == "loop") {
				found = true
				break
			}
			if node.Label != nil && isBreak {
				found = true
				break
			}
		}
	}
	if !found {
		return nil, p.raisef(node.offset(), "Unsyntactic %s.", keyword)
	}

	if isBreak {
		return p.finishNode(node, NODE_BREAK_STATEMENT), nil
	}
	return p.finishNode(node, NODE_CONTINUE_STATEMENT), nil
}

func (p *Parser) parseDebuggerStatement(node *Node) (*Node, error) {
	p.next()
	if err := p.semicolon(); err != nil {
		return nil, err
	}
	return p.finishNode(node, NODE_DEBUGGER_STATEMENT), nil
}

func (p *Parser) parseDoStatement(node *Node) (*Node, error) {
	p.next()
	p.labels = append(p.labels, label{kind: "loop"})
	body, err := p.parseStatement("do", false)
	if err != nil {
		return nil, err
	}
	node.BodyNode = body
	p.labels = p.labels[:len(p.labels)-1]

	if err := p.expect(TOKEN_WHILE); err != nil {
		return nil, err
	}
	test, err := p.parseParenExpression()
	if err != nil {
		return nil, err
	}
	node.Test = test
	p.eat(TOKEN_SEMI)
	return p.finishNode(node, NODE_DO_WHILE_STATEMENT), nil
}

// Disambiguating between a for and a for/in or for/of loop is
// non-trivial. Basically, we have to parse the init var statement or
// expression, disallowing the 'in' operator, and then check whether the
// next token is 'in' or 'of'.
func (p *Parser) parseForStatement(node *Node) (*Node, error) {
	p.next()
	p.labels = append(p.labels, label{kind: "loop"})
	p.enterScope(0)

	result, err := p.parseForHead(node)
	if err != nil {
		return nil, err
	}

	p.exitScope()
	p.labels = p.labels[:len(p.labels)-1]
	return result, nil
}

func (p *Parser) parseForHead(node *Node) (*Node, error) {
	awaitAt := -1
	if p.canAwait() && p.eatContextual("await") {
		awaitAt = p.lastTokStart
	}
	if err := p.expect(TOKEN_PARENL); err != nil {
		return nil, err
	}

	if p.is(TOKEN_SEMI) {
		if awaitAt >= 0 {
			return nil, p.raise(awaitAt, "Unexpected token")
		}
		return p.parseFor(node, nil)
	}

	isLet := p.isLet("")
	if p.is(TOKEN_VAR) || p.is(TOKEN_CONST) || isLet {
		init := p.startNode()
		kind := "let"
		if !isLet {
			kind = p.Type.keyword
		}
		p.next()
		if err := p.parseVar(init, true, kind); err != nil {
			return nil, err
		}
		p.finishNode(init, NODE_VARIABLE_DECLARATION)
		if (p.is(TOKEN_IN) || p.isContextual("of")) && len(init.Declarations) == 1 {
			return p.parseForIn(node, init, awaitAt)
		}
		if awaitAt >= 0 {
			return nil, p.raise(awaitAt, "Unexpected token")
		}
		return p.parseFor(node, init)
	}

	startsWithLet := p.isContextual("let")
	startsWithAsync := p.isContextual("async")
	refErrors := newDestructuringErrors()
	init, err := p.parseExpression(true, refErrors)
	if err != nil {
		return nil, err
	}

	isForOf := p.isContextual("of")
	if p.is(TOKEN_IN) || isForOf {
		if startsWithLet && isForOf {
			return nil, p.raise(init.offset(), "The left-hand side of a for-of loop may not be 'let'.")
		}
		if isForOf && startsWithAsync && awaitAt < 0 && init.Type == NODE_IDENTIFIER && !init.parenthesized() {
			return nil, p.raise(init.offset(), "The left-hand side of a for-of loop may not be 'async'.")
		}
		if init, err = p.toAssignable(init, false, refErrors); err != nil {
			return nil, err
		}
		if err := p.checkLValPattern(init, BIND_NONE, nil); err != nil {
			return nil, err
		}
		return p.parseForIn(node, init, awaitAt)
	}

	if err := p.checkExpressionErrors(refErrors); err != nil {
		return nil, err
	}
	if awaitAt >= 0 {
		return nil, p.raise(awaitAt, "Unexpected token")
	}
	return p.parseFor(node, init)
}

// Parse a regular for loop. The disambiguation code in parseForHead
// leaves the parser at the first ';'.
func (p *Parser) parseFor(node *Node, init *Node) (*Node, error) {
	node.Init = init
	if err := p.expect(TOKEN_SEMI); err != nil {
		return nil, err
	}
	if !p.is(TOKEN_SEMI) {
		test, err := p.parseExpression(false, nil)
		if err != nil {
			return nil, err
		}
		node.Test = test
	}
	if err := p.expect(TOKEN_SEMI); err != nil {
		return nil, err
	}
	if !p.is(TOKEN_PARENR) {
		update, err := p.parseExpression(false, nil)
		if err != nil {
			return nil, err
		}
		node.Update = update
	}
	if err := p.expect(TOKEN_PARENR); err != nil {
		return nil, err
	}

	body, err := p.parseStatement("for", false)
	if err != nil {
		return nil, err
	}
	node.BodyNode = body
	return p.finishNode(node, NODE_FOR_STATEMENT), nil
}

// Parse a for/in or for/of loop.
func (p *Parser) parseForIn(node *Node, init *Node, awaitAt int) (*Node, error) {
	isForIn := p.is(TOKEN_IN)
	if isForIn && awaitAt >= 0 {
		return nil, p.raise(awaitAt, "Unexpected token")
	}
	p.next()

	if init.Type == NODE_VARIABLE_DECLARATION {
		decl := init.Declarations[0]
		if decl.Init != nil && (!isForIn || p.Strict || init.Kind != "var" || decl.Id.Type != NODE_IDENTIFIER) {
			if isForIn {
				return nil, p.raise(init.offset(), "'for-in' loop variable declaration may not have an initializer.")
			}
			return nil, p.raise(init.offset(), "'for-of' loop variable declaration may not have an initializer.")
		}
	}

	node.Await = awaitAt >= 0
	node.Left = init
	var right *Node
	var err error
	if isForIn {
		right, err = p.parseExpression(false, nil)
	} else {
		right, err = p.parseMaybeAssign(false, nil)
	}
	if err != nil {
		return nil, err
	}
	node.Right = right
	if err := p.expect(TOKEN_PARENR); err != nil {
		return nil, err
	}

	body, err := p.parseStatement("for", false)
	if err != nil {
		return nil, err
	}
	node.BodyNode = body
	if isForIn {
		return p.finishNode(node, NODE_FOR_IN_STATEMENT), nil
	}
	return p.finishNode(node, NODE_FOR_OF_STATEMENT), nil
}

func (p *Parser) parseFunctionStatement(node *Node, isAsync bool, declarationPosition bool) (*Node, error) {
	p.next()
	flags := FUNC_STATEMENT
	if !declarationPosition {
		flags |= FUNC_HANGING_STATEMENT
	}
	return p.parseFunction(node, flags, isAsync, false)
}

func (p *Parser) parseIfStatement(node *Node) (*Node, error) {
	p.next()
	test, err := p.parseParenExpression()
	if err != nil {
		return nil, err
	}
	node.Test = test

	consequent, err := p.parseStatement("if", false)
	if err != nil {
		return nil, err
	}
	node.Consequent = consequent

	if p.eat(TOKEN_ELSE) {
		alternate, err := p.parseStatement("if", false)
		if err != nil {
			return nil, err
		}
		node.Alternate = alternate
	}
	return p.finishNode(node, NODE_IF_STATEMENT), nil
}

func (p *Parser) parseReturnStatement(node *Node) (*Node, error) {
	if !p.inFunction() && !p.options.AllowReturnOutsideFunction {
		return nil, p.raise(p.start, "'return' outside of function.")
	}
	p.next()

	// In `return` (and `break`/`continue`), the keywords with optional
	// arguments, we eagerly look for a semicolon or the possibility to
	// insert one.
	if p.eat(TOKEN_SEMI) || p.canInsertSemicolon() {
		node.Argument = nil
	} else {
		arg, err := p.parseExpression(false, nil)
		if err != nil {
			return nil, err
		}
		node.Argument = arg
		if err := p.semicolon(); err != nil {
			return nil, err
		}
	}
	return p.finishNode(node, NODE_RETURN_STATEMENT), nil
}

func (p *Parser) parseSwitchStatement(node *Node) (*Node, error) {
	p.next()
	discriminant, err := p.parseParenExpression()
	if err != nil {
		return nil, err
	}
	node.Discriminant = discriminant
	node.Cases = []*Node{}
	if err := p.expect(TOKEN_BRACEL); err != nil {
		return nil, err
	}
	p.labels = append(p.labels, label{kind: "switch"})
	p.enterScope(0)

	// Statements under must be grouped (by label) in SwitchCase nodes.
	// `cur` is used to keep the node that we are currently adding
	// statements to.
	var cur *Node
	sawDefault := false
	for !p.is(TOKEN_BRACER) {
		if p.is(TOKEN_CASE) || p.is(TOKEN_DEFAULT) {
			isCase := p.is(TOKEN_CASE)
			if cur != nil {
				p.finishNode(cur, NODE_SWITCH_CASE)
			}
			cur = p.startNode()
			cur.ConsequentList = []*Node{}
			node.Cases = append(node.Cases, cur)
			p.next()

			if isCase {
				test, err := p.parseExpression(false, nil)
				if err != nil {
					return nil, err
				}
				cur.Test = test
			} else {
				if sawDefault {
					return nil, p.raise(p.lastTokStart, "Multiple default clauses.")
				}
				sawDefault = true
			}
			if err := p.expect(TOKEN_COLON); err != nil {
				return nil, err
			}
			continue
		}

		if cur == nil {
			return nil, p.unexpected()
		}
		stmt, err := p.parseStatementListItem(false)
		if err != nil {
			return nil, err
		}
		cur.ConsequentList = append(cur.ConsequentList, stmt)
	}

	p.exitScope()
	if cur != nil {
		p.finishNode(cur, NODE_SWITCH_CASE)
	}
	p.next() // Closing brace
	p.labels = p.labels[:len(p.labels)-1]
	return p.finishNode(node, NODE_SWITCH_STATEMENT), nil
}

func (p *Parser) parseThrowStatement(node *Node) (*Node, error) {
	p.next()
	if p.hasPrecedingLineBreak() {
		return nil, p.raise(p.lastTokEnd, "Illegal newline after throw.")
	}
	arg, err := p.parseExpression(false, nil)
	if err != nil {
		return nil, err
	}
	node.Argument = arg
	if err := p.semicolon(); err != nil {
		return nil, err
	}
	return p.finishNode(node, NODE_THROW_STATEMENT), nil
}

func (p *Parser) parseCatchClauseParam() (*Node, error) {
	param, err := p.parseBindingAtom()
	if err != nil {
		return nil, err
	}
	simple := param.Type == NODE_IDENTIFIER
	if simple {
		p.enterScope(SCOPE_SIMPLE_CATCH)
		err = p.checkLValPattern(param, BIND_SIMPLE_CATCH, nil)
	} else {
		p.enterScope(0)
		err = p.checkLValPattern(param, BIND_LEXICAL, nil)
	}
	if err != nil {
		return nil, err
	}
	if err := p.expect(TOKEN_PARENR); err != nil {
		return nil, err
	}
	return param, nil
}

func (p *Parser) parseTryStatement(node *Node) (*Node, error) {
	p.next()
	block, err := p.parseBlock(true, p.startNode())
	if err != nil {
		return nil, err
	}
	node.Block = block

	if p.is(TOKEN_CATCH) {
		clause := p.startNode()
		p.next()
		if p.eat(TOKEN_PARENL) {
			param, err := p.parseCatchClauseParam()
			if err != nil {
				return nil, err
			}
			clause.Param = param
		} else {
			p.enterScope(0)
		}

		body, err := p.parseBlock(false, p.startNode())
		if err != nil {
			return nil, err
		}
		clause.BodyNode = body
		p.exitScope()
		node.Handler = p.finishNode(clause, NODE_CATCH_CLAUSE)
	}

	if p.eat(TOKEN_FINALLY) {
		finalizer, err := p.parseBlock(true, p.startNode())
		if err != nil {
			return nil, err
		}
		node.Finalizer = finalizer
	}

	if node.Handler == nil && node.Finalizer == nil {
		return nil, p.raise(node.offset(), "Missing catch or finally clause.")
	}
	return p.finishNode(node, NODE_TRY_STATEMENT), nil
}

func (p *Parser) parseVarStatement(node *Node, kind string) (*Node, error) {
	p.next()
	if err := p.parseVar(node, false, kind); err != nil {
		return nil, err
	}
	if err := p.semicolon(); err != nil {
		return nil, err
	}
	return p.finishNode(node, NODE_VARIABLE_DECLARATION), nil
}

func (p *Parser) parseWhileStatement(node *Node) (*Node, error) {
	p.next()
	test, err := p.parseParenExpression()
	if err != nil {
		return nil, err
	}
	node.Test = test

	p.labels = append(p.labels, label{kind: "loop"})
	body, err := p.parseStatement("while", false)
	if err != nil {
		return nil, err
	}
	node.BodyNode = body
	p.labels = p.labels[:len(p.labels)-1]
	return p.finishNode(node, NODE_WHILE_STATEMENT), nil
}

func (p *Parser) parseWithStatement(node *Node) (*Node, error) {
	if p.Strict {
		return nil, p.raise(p.start, "'with' in strict mode.")
	}
	p.next()
	object, err := p.parseParenExpression()
	if err != nil {
		return nil, err
	}
	node.Object = object

	body, err := p.parseStatement("with", false)
	if err != nil {
		return nil, err
	}
	node.BodyNode = body
	return p.finishNode(node, NODE_WITH_STATEMENT), nil
}

func (p *Parser) parseEmptyStatement(node *Node) (*Node, error) {
	p.next()
	return p.finishNode(node, NODE_EMPTY_STATEMENT), nil
}

func (p *Parser) parseLabeledStatement(node *Node, maybeName string, expr *Node, context string) (*Node, error) {
	for _, l := range p.labels {
		if l.name == maybeName {
			return nil, p.raisef(expr.offset(), "Label '%s' is already declared.", maybeName)
		}
	}

	kind := ""
	if p.Type.isLoop {
		kind = "loop"
	} else if p.is(TOKEN_SWITCH) {
		kind = "switch"
	}
	// Labels stacked directly on the same statement share its kind.
	for i := len(p.labels) - 1; i >= 0; i-- {
		if p.labels[i].statementStart != node.offset() {
			break
		}
		p.labels[i].statementStart = p.start
		p.labels[i].kind = kind
	}
	p.labels = append(p.labels, label{name: maybeName, kind: kind, statementStart: p.start})

	if context == "" {
		context = "label"
	}
	body, err := p.parseStatement(context, false)
	if err != nil {
		return nil, err
	}
	p.labels = p.labels[:len(p.labels)-1]

	node.BodyNode = body
	node.Label = expr
	return p.finishNode(node, NODE_LABELED_STATEMENT), nil
}

func (p *Parser) parseExpressionStatement(node *Node, expr *Node) (*Node, error) {
	node.Expression = expr
	if err := p.semicolon(); err != nil {
		return nil, err
	}
	return p.finishNode(node, NODE_EXPRESSION_STATEMENT), nil
}

// Parse a semicolon-enclosed block of statements, handling "use strict"
// declarations when allowStrict is true (used for function bodies).
func (p *Parser) parseBlock(createNewLexicalScope bool, node *Node) (*Node, error) {
	if err := p.expect(TOKEN_BRACEL); err != nil {
		return nil, err
	}
	if createNewLexicalScope {
		p.enterScope(0)
	}

	body, directives, err := p.parseBlockBody(TOKEN_BRACER, false, false)
	if err != nil {
		return nil, err
	}
	node.Body = body
	node.Directives = directives

	p.next()
	if createNewLexicalScope {
		p.exitScope()
	}
	return p.finishNode(node, NODE_BLOCK_STATEMENT), nil
}

// Parse a list of variable declarations.
func (p *Parser) parseVar(node *Node, isFor bool, kind string) error {
	node.Declarations = []*Node{}
	node.Kind = kind

	for {
		decl := p.startNode()
		if err := p.parseVarId(decl, kind); err != nil {
			return err
		}

		if p.eat(TOKEN_EQ) {
			init, err := p.parseMaybeAssign(isFor, nil)
			if err != nil {
				return err
			}
			decl.Init = init
		} else if kind == "const" && !(isFor && (p.is(TOKEN_IN) || p.isContextual("of"))) {
			return p.raise(p.lastTokEnd, "Missing initializer in const declaration.")
		} else if decl.Id.Type != NODE_IDENTIFIER && !(isFor && (p.is(TOKEN_IN) || p.isContextual("of"))) {
			return p.raise(p.lastTokEnd, "Missing initializer in destructuring declaration.")
		}

		node.Declarations = append(node.Declarations, p.finishNode(decl, NODE_VARIABLE_DECLARATOR))
		if !p.eat(TOKEN_COMMA) {
			break
		}
	}
	return nil
}

func (p *Parser) parseVarId(decl *Node, kind string) error {
	id, err := p.parseBindingAtom()
	if err != nil {
		return err
	}
	decl.Id = id
	if kind == "var" {
		return p.checkLValPattern(id, BIND_VAR, nil)
	}
	return p.checkLValPattern(id, BIND_LEXICAL, nil)
}

// Parse a function declaration or literal (depending on the statement
// flags). The 'function' keyword has already been consumed.
func (p *Parser) parseFunction(node *Node, statement int, isAsync bool, forInit bool) (*Node, error) {
	node.Id = nil
	node.Async = isAsync

	if p.is(TOKEN_STAR) && statement&FUNC_HANGING_STATEMENT != 0 {
		return nil, p.raise(p.start, "Generators can only be declared at the top level or inside a block.")
	}
	node.Generator = p.eat(TOKEN_STAR)

	if statement&FUNC_STATEMENT != 0 {
		if statement&FUNC_NULLABLE_ID == 0 || p.is(TOKEN_NAME) {
			id, err := p.parseIdent(false)
			if err != nil {
				return nil, err
			}
			node.Id = id
		}
		if node.Id != nil && statement&FUNC_HANGING_STATEMENT == 0 {
			// If it is a regular function declaration in sloppy mode, then it
			// is subject to Annex B semantics (BIND_FUNCTION). Otherwise, the
			// binding follows the rules for lexical declarations.
			bindingType := BIND_FUNCTION
			if p.Strict || node.Generator || node.Async {
				bindingType = BIND_LEXICAL
				if p.treatFunctionsAsVar() {
					bindingType = BIND_VAR
				}
			}
			if err := p.checkLValSimple(node.Id, bindingType, nil); err != nil {
				return nil, err
			}
		}
	}

	oldYieldPos, oldAwaitPos, oldAwaitIdentPos := p.yieldPos, p.awaitPos, p.awaitIdentPos
	p.yieldPos, p.awaitPos, p.awaitIdentPos = 0, 0, 0
	p.enterScope(functionFlags(node.Async, node.Generator))

	if statement&FUNC_STATEMENT == 0 && p.is(TOKEN_NAME) {
		id, err := p.parseIdent(false)
		if err != nil {
			return nil, err
		}
		node.Id = id
	}

	if err := p.parseFunctionParams(node); err != nil {
		return nil, err
	}
	if err := p.parseFunctionBody(node, false, false, forInit); err != nil {
		return nil, err
	}

	p.yieldPos, p.awaitPos, p.awaitIdentPos = oldYieldPos, oldAwaitPos, oldAwaitIdentPos
	if statement&FUNC_STATEMENT != 0 {
		return p.finishNode(node, NODE_FUNCTION_DECLARATION), nil
	}
	return p.finishNode(node, NODE_FUNCTION_EXPRESSION), nil
}

func (p *Parser) parseFunctionParams(node *Node) error {
	if err := p.expect(TOKEN_PARENL); err != nil {
		return err
	}
	params, err := p.parseBindingList(TOKEN_PARENR, false, true)
	if err != nil {
		return err
	}
	node.Params = params
	return p.checkYieldAwaitInDefaultParams()
}

// Parse a class declaration or literal (depending on isStatement).
// optionalId is set for `export default class {}`.
func (p *Parser) parseClass(node *Node, isStatement bool, optionalId bool) (*Node, error) {
	p.next()

	// ecma-262 14.6 Class Definitions
	// A class definition is always strict mode code.
	oldStrict := p.Strict
	p.Strict = true

	if err := p.parseClassId(node, isStatement, optionalId); err != nil {
		return nil, err
	}
	if p.eat(TOKEN_EXTENDS) {
		superClass, err := p.parseExprSubscripts(nil, false)
		if err != nil {
			return nil, err
		}
		node.SuperClass = superClass
	}

	declared := p.enterClassBody()
	classBody := p.startNode()
	classBody.Body = []*Node{}
	hadConstructor := false
	if err := p.expect(TOKEN_BRACEL); err != nil {
		return nil, err
	}

	for !p.is(TOKEN_BRACER) {
		if p.eat(TOKEN_SEMI) {
			continue
		}
		element, err := p.parseClassElement(node.SuperClass != nil, declared)
		if err != nil {
			return nil, err
		}
		if element.Type == NODE_CLASS_METHOD && element.Kind == "constructor" {
			if hadConstructor {
				return nil, p.raise(element.Key.offset(), "Duplicate constructor in the same class.")
			}
			hadConstructor = true
		}
		classBody.Body = append(classBody.Body, element)
	}

	p.Strict = oldStrict
	p.next()
	node.BodyNode = p.finishNode(classBody, NODE_CLASS_BODY)
	if err := p.exitClassBody(); err != nil {
		return nil, err
	}

	if isStatement {
		return p.finishNode(node, NODE_CLASS_DECLARATION), nil
	}
	return p.finishNode(node, NODE_CLASS_EXPRESSION), nil
}

func (p *Parser) parseClassId(node *Node, isStatement bool, optionalId bool) error {
	if p.is(TOKEN_NAME) {
		id, err := p.parseIdent(false)
		if err != nil {
			return err
		}
		node.Id = id
		if isStatement {
			return p.checkLValSimple(id, BIND_LEXICAL, nil)
		}
		return nil
	}
	if isStatement && !optionalId {
		return p.raise(p.start, "A class name is required.")
	}
	node.Id = nil
	return nil
}

func (p *Parser) isClassElementNameStart() bool {
	switch p.Type.identifier {
	case TOKEN_NAME, TOKEN_PRIVATEID, TOKEN_NUM, TOKEN_STRING, TOKEN_BIGINT, TOKEN_BRACKETL:
		return true
	}
	return p.Type.keyword != ""
}

func (p *Parser) parseClassElement(constructorAllowsSuper bool, declared map[string]string) (*Node, error) {
	node := p.startNode()
	keyName := ""
	isGenerator, isAsync, isStatic := false, false, false
	kind := "method"

	if p.eatContextual("static") {
		if p.is(TOKEN_BRACEL) {
			if err := p.expectPlugin(node.offset(), PLUGIN_CLASS_STATIC_BLOCK); err != nil {
				return nil, err
			}
			return p.parseClassStaticBlock(node)
		}
		if p.isClassElementNameStart() || p.is(TOKEN_STAR) {
			isStatic = true
		} else {
			keyName = "static"
		}
	}
	node.Static = isStatic

	if keyName == "" && p.isContextual("async") {
		p.next()
		if (p.isClassElementNameStart() || p.is(TOKEN_STAR)) && !p.hasPrecedingLineBreak() {
			isAsync = true
		} else {
			keyName = "async"
		}
	}
	if keyName == "" && p.eat(TOKEN_STAR) {
		isGenerator = true
	}
	if keyName == "" && !isAsync && !isGenerator {
		lastValue := p.tokenString()
		if p.isContextual("get") || p.isContextual("set") {
			p.next()
			if p.isClassElementNameStart() {
				kind = lastValue
			} else {
				keyName = lastValue
			}
		}
	}

	// 'async', 'get', 'set', or 'static' were not a keyword contextually.
	// The last token is any of those. Make it the element name.
	if keyName != "" {
		node.Computed = false
		key := p.startNodeAt(p.lastTokStart)
		key.Name = keyName
		node.Key = p.finishNode(key, NODE_IDENTIFIER)
	} else if err := p.parseClassElementName(node); err != nil {
		return nil, err
	}

	if p.is(TOKEN_PARENL) || kind != "method" || isGenerator || isAsync {
		isConstructor := !node.Static && checkKeyName(node, "constructor")
		if isConstructor && kind != "method" {
			return nil, p.raise(node.Key.offset(), "Class constructor may not be an accessor.")
		}
		node.Kind = kind
		if isConstructor {
			node.Kind = "constructor"
		}
		return p.parseClassMethod(node, isGenerator, isAsync, isConstructor && constructorAllowsSuper, declared)
	}
	return p.parseClassField(node, declared)
}

func checkKeyName(node *Node, name string) bool {
	key := node.Key
	if node.Computed {
		return false
	}
	return key.Type == NODE_IDENTIFIER && key.Name == name ||
		key.Type == NODE_STRING_LITERAL && key.Value == name
}

func (p *Parser) parseClassElementName(element *Node) error {
	if p.is(TOKEN_PRIVATEID) {
		if p.tokenString() == "constructor" {
			return p.raise(p.start, "Classes may not have a private field named '#constructor'.")
		}
		element.Computed = false
		key, err := p.parsePrivateName()
		if err != nil {
			return err
		}
		element.Key = key
		return nil
	}
	return p.parsePropertyName(element)
}

func (p *Parser) parseClassMethod(method *Node, isGenerator, isAsync, allowsDirectSuper bool, declared map[string]string) (*Node, error) {
	key := method.Key
	private := key.Type == NODE_PRIVATE_NAME

	if method.Kind == "constructor" {
		if isGenerator {
			return nil, p.raise(key.offset(), "Constructor can't be a generator.")
		}
		if isAsync {
			return nil, p.raise(key.offset(), "Constructor can't be an async function.")
		}
	} else if method.Static && checkKeyName(method, "prototype") {
		return nil, p.raise(key.offset(), "Classes may not have static property named prototype.")
	}
	if private {
		if err := p.expectPlugin(key.offset(), PLUGIN_CLASS_PRIVATE_METHODS); err != nil {
			return nil, err
		}
	}

	if err := p.parseMethod(method, isGenerator, isAsync, allowsDirectSuper); err != nil {
		return nil, err
	}
	if err := p.checkAccessorParams(method); err != nil {
		return nil, err
	}

	if private {
		if !declarePrivateName(declared, key.Id.Name, method.Kind, method.Static) {
			return nil, p.raisef(key.offset(), "Duplicate private name #%s.", key.Id.Name)
		}
		return p.finishNode(method, NODE_CLASS_PRIVATE_METHOD), nil
	}
	return p.finishNode(method, NODE_CLASS_METHOD), nil
}

func (p *Parser) checkAccessorParams(method *Node) error {
	switch method.Kind {
	case "get":
		if len(method.Params) != 0 {
			return p.raise(method.offset(), "A 'get' accessor must not have any formal parameters.")
		}
	case "set":
		if len(method.Params) != 1 {
			return p.raise(method.offset(), "A 'set' accessor must have exactly one formal parameter.")
		}
		if method.Params[0].Type == NODE_REST_ELEMENT {
			return p.raise(method.offset(), "A 'set' accessor function argument must not be a rest parameter.")
		}
	}
	return nil
}

func (p *Parser) parseClassField(field *Node, declared map[string]string) (*Node, error) {
	key := field.Key
	private := key.Type == NODE_PRIVATE_NAME

	plugin := PLUGIN_CLASS_PROPERTIES
	if private {
		plugin = PLUGIN_CLASS_PRIVATE_PROPERTIES
	}
	if err := p.expectPlugin(p.start, plugin); err != nil {
		return nil, err
	}

	if checkKeyName(field, "constructor") {
		return nil, p.raise(key.offset(), "Classes may not have a field named 'constructor'.")
	}
	if field.Static && checkKeyName(field, "prototype") {
		return nil, p.raise(key.offset(), "Classes may not have static property named prototype.")
	}

	if p.eat(TOKEN_EQ) {
		// To raise SyntaxError if 'arguments' exists in the initializer.
		scope := p.currentThisScope()
		inClassFieldInit := scope.inClassFieldInit
		scope.inClassFieldInit = true
		value, err := p.parseMaybeAssign(false, nil)
		if err != nil {
			return nil, err
		}
		scope.inClassFieldInit = inClassFieldInit
		field.ValueNode = value
	}
	if err := p.semicolon(); err != nil {
		return nil, err
	}

	if private {
		if !declarePrivateName(declared, key.Id.Name, "field", field.Static) {
			return nil, p.raisef(key.offset(), "Duplicate private name #%s.", key.Id.Name)
		}
		return p.finishNode(field, NODE_CLASS_PRIVATE_PROPERTY), nil
	}
	return p.finishNode(field, NODE_CLASS_PROPERTY), nil
}

func (p *Parser) parseClassStaticBlock(node *Node) (*Node, error) {
	node.Body = []*Node{}

	oldLabels := p.labels
	p.labels = nil
	p.enterScope(SCOPE_CLASS_STATIC_BLOCK | SCOPE_SUPER)
	p.next()
	for !p.is(TOKEN_BRACER) {
		if p.is(TOKEN_EOF) {
			return nil, p.unexpected()
		}
		stmt, err := p.parseStatementListItem(false)
		if err != nil {
			return nil, err
		}
		node.Body = append(node.Body, stmt)
	}
	p.next()
	p.exitScope()
	p.labels = oldLabels

	return p.finishNode(node, NODE_STATIC_BLOCK), nil
}

func (p *Parser) parsePrivateName() (*Node, error) {
	node := p.startNode()
	id := p.startNodeAt(p.start + 1)
	id.Name = p.tokenString()
	p.next()
	node.Id = p.finishNode(id, NODE_IDENTIFIER)
	return p.finishNode(node, NODE_PRIVATE_NAME), nil
}

// Parses module export declaration.
func (p *Parser) parseExport(node *Node) (*Node, error) {
	p.next()

	// export * from '...'
	if p.is(TOKEN_STAR) {
		starStart := p.start
		p.next()
		if p.eatContextual("as") {
			specifier := p.startNodeAt(starStart)
			exported, err := p.parseModuleExportName()
			if err != nil {
				return nil, err
			}
			specifier.Exported = exported
			if err := p.checkExport(exportName(exported), exported.offset()); err != nil {
				return nil, err
			}
			node.Specifiers = []*Node{p.finishNode(specifier, NODE_EXPORT_NAMESPACE_SPECIFIER)}
			if err := p.parseExportFrom(node); err != nil {
				return nil, err
			}
			return p.finishNode(node, NODE_EXPORT_NAMED_DECLARATION), nil
		}
		if err := p.parseExportFrom(node); err != nil {
			return nil, err
		}
		return p.finishNode(node, NODE_EXPORT_ALL_DECLARATION), nil
	}

	// export default ...
	if p.eat(TOKEN_DEFAULT) {
		if err := p.checkExport("default", p.lastTokStart); err != nil {
			return nil, err
		}
		declaration, err := p.parseExportDefaultDeclaration()
		if err != nil {
			return nil, err
		}
		node.Declaration = declaration
		return p.finishNode(node, NODE_EXPORT_DEFAULT_DECLARATION), nil
	}

	// export var|const|let|function|class ...
	if p.shouldParseExportStatement() {
		node.Specifiers = []*Node{}
		node.Source = nil
		declaration, err := p.parseStatement("", false)
		if err != nil {
			return nil, err
		}
		node.Declaration = declaration
		if declaration.Type == NODE_VARIABLE_DECLARATION {
			for _, decl := range declaration.Declarations {
				if err := p.checkPatternExport(decl.Id); err != nil {
					return nil, err
				}
			}
		} else if err := p.checkExport(declaration.Id.Name, declaration.Id.offset()); err != nil {
			return nil, err
		}
		return p.finishNode(node, NODE_EXPORT_NAMED_DECLARATION), nil
	}

	// export { x, y as z } [from '...']
	specifiers, err := p.parseExportSpecifiers()
	if err != nil {
		return nil, err
	}
	node.Specifiers = specifiers
	node.Declaration = nil
	if p.isContextual("from") {
		if err := p.parseExportFrom(node); err != nil {
			return nil, err
		}
		return p.finishNode(node, NODE_EXPORT_NAMED_DECLARATION), nil
	}

	for _, spec := range specifiers {
		local := spec.Local
		if local.Type == NODE_STRING_LITERAL {
			return nil, p.raisef(local.offset(), "A string literal cannot be used as an exported binding without `from`.\n- Did you mean `export { '%s' as '%s' } from 'some-module'`?", local.Value, exportName(spec.Exported))
		}
		if err := p.checkUnreserved(local); err != nil {
			return nil, err
		}
		p.checkLocalExport(local)
	}
	if err := p.semicolon(); err != nil {
		return nil, err
	}
	return p.finishNode(node, NODE_EXPORT_NAMED_DECLARATION), nil
}

func (p *Parser) parseExportFrom(node *Node) error {
	if err := p.expectContextual("from"); err != nil {
		return err
	}
	if !p.is(TOKEN_STRING) {
		return p.unexpected()
	}
	source, err := p.parseExprAtom(nil, false)
	if err != nil {
		return err
	}
	node.Source = source
	return p.semicolon()
}

func (p *Parser) parseExportDefaultDeclaration() (*Node, error) {
	if p.is(TOKEN_FUNCTION) || p.isAsyncFunction() {
		fNode := p.startNode()
		isAsync := false
		if !p.is(TOKEN_FUNCTION) {
			p.next()
			isAsync = true
		}
		p.next()
		return p.parseFunction(fNode, FUNC_STATEMENT|FUNC_NULLABLE_ID, isAsync, false)
	}
	if p.is(TOKEN_CLASS) {
		return p.parseClass(p.startNode(), true, true)
	}

	declaration, err := p.parseMaybeAssign(false, nil)
	if err != nil {
		return nil, err
	}
	if err := p.semicolon(); err != nil {
		return nil, err
	}
	return declaration, nil
}

func (p *Parser) shouldParseExportStatement() bool {
	switch p.Type.identifier {
	case TOKEN_VAR, TOKEN_CONST, TOKEN_CLASS, TOKEN_FUNCTION:
		return true
	}
	return p.isLet("") || p.isAsyncFunction()
}

func (p *Parser) checkExport(name string, pos int) error {
	if p.exportedNames[name] {
		if name == "default" {
			return p.raise(pos, "Only one default export allowed per module.")
		}
		return p.raisef(pos, "`%s` has already been exported. Exported identifiers must be unique.", name)
	}
	p.exportedNames[name] = true
	return nil
}

func (p *Parser) checkPatternExport(pat *Node) error {
	switch pat.Type {
	case NODE_IDENTIFIER:
		return p.checkExport(pat.Name, pat.offset())
	case NODE_OBJECT_PATTERN:
		for _, prop := range pat.Properties {
			if err := p.checkPatternExport(prop); err != nil {
				return err
			}
		}
	case NODE_ARRAY_PATTERN:
		for _, elt := range pat.Elements {
			if elt == nil {
				continue
			}
			if err := p.checkPatternExport(elt); err != nil {
				return err
			}
		}
	case NODE_OBJECT_PROPERTY:
		return p.checkPatternExport(pat.ValueNode)
	case NODE_ASSIGNMENT_PATTERN:
		return p.checkPatternExport(pat.Left)
	case NODE_REST_ELEMENT:
		return p.checkPatternExport(pat.Argument)
	}
	return nil
}

// checkLocalExport records a local name exported before (or without)
// its declaration. Declaring it later clears the entry.
func (p *Parser) checkLocalExport(id *Node) {
	top := p.scopeStack[0]
	if top.Lexical[id.Name] || top.Var[id.Name] || top.Functions[id.Name] {
		return
	}
	if _, ok := p.undefinedExports[id.Name]; !ok {
		p.undefinedExports[id.Name] = id.offset()
	}
}

func exportName(node *Node) string {
	if node.Type == NODE_IDENTIFIER {
		return node.Name
	}
	value, _ := node.Value.(string)
	return value
}

// Parses a comma-separated list of module exports.
func (p *Parser) parseExportSpecifiers() ([]*Node, error) {
	nodes := []*Node{}
	first := true
	if err := p.expect(TOKEN_BRACEL); err != nil {
		return nil, err
	}

	for !p.eat(TOKEN_BRACER) {
		if !first {
			if err := p.expect(TOKEN_COMMA); err != nil {
				return nil, err
			}
			if p.afterTrailingComma(TOKEN_BRACER) {
				break
			}
		} else {
			first = false
		}

		node := p.startNode()
		local, err := p.parseModuleExportName()
		if err != nil {
			return nil, err
		}
		node.Local = local
		if p.eatContextual("as") {
			exported, err := p.parseModuleExportName()
			if err != nil {
				return nil, err
			}
			node.Exported = exported
		} else {
			node.Exported = cloneNode(local)
		}
		if err := p.checkExport(exportName(node.Exported), node.Exported.offset()); err != nil {
			return nil, err
		}
		nodes = append(nodes, p.finishNode(node, NODE_EXPORT_SPECIFIER))
	}
	return nodes, nil
}

// Parses import declaration.
func (p *Parser) parseImport(node *Node) (*Node, error) {
	p.next()

	// import '...'
	if p.is(TOKEN_STRING) {
		node.Specifiers = []*Node{}
	} else {
		specifiers, err := p.parseImportSpecifiers()
		if err != nil {
			return nil, err
		}
		node.Specifiers = specifiers
		if err := p.expectContextual("from"); err != nil {
			return nil, err
		}
		if !p.is(TOKEN_STRING) {
			return nil, p.unexpected()
		}
	}

	source, err := p.parseExprAtom(nil, false)
	if err != nil {
		return nil, err
	}
	node.Source = source
	if err := p.semicolon(); err != nil {
		return nil, err
	}
	return p.finishNode(node, NODE_IMPORT_DECLARATION), nil
}

// Parses a comma-separated list of module imports.
func (p *Parser) parseImportSpecifiers() ([]*Node, error) {
	nodes := []*Node{}

	if p.is(TOKEN_NAME) {
		// import defaultObj, { x, y as z } from '...'
		node := p.startNode()
		local, err := p.parseIdent(false)
		if err != nil {
			return nil, err
		}
		if err := p.checkLValSimple(local, BIND_LEXICAL, nil); err != nil {
			return nil, err
		}
		node.Local = local
		nodes = append(nodes, p.finishNode(node, NODE_IMPORT_DEFAULT_SPECIFIER))
		if !p.eat(TOKEN_COMMA) {
			return nodes, nil
		}
	}

	if p.is(TOKEN_STAR) {
		node := p.startNode()
		p.next()
		if err := p.expectContextual("as"); err != nil {
			return nil, err
		}
		local, err := p.parseIdent(false)
		if err != nil {
			return nil, err
		}
		if err := p.checkLValSimple(local, BIND_LEXICAL, nil); err != nil {
			return nil, err
		}
		node.Local = local
		return append(nodes, p.finishNode(node, NODE_IMPORT_NAMESPACE_SPECIFIER)), nil
	}

	if err := p.expect(TOKEN_BRACEL); err != nil {
		return nil, err
	}
	first := true
	for !p.eat(TOKEN_BRACER) {
		if !first {
			if err := p.expect(TOKEN_COMMA); err != nil {
				return nil, err
			}
			if p.afterTrailingComma(TOKEN_BRACER) {
				break
			}
		} else {
			first = false
		}

		node := p.startNode()
		imported, err := p.parseModuleExportName()
		if err != nil {
			return nil, err
		}
		node.Imported = imported
		if p.eatContextual("as") {
			local, err := p.parseIdent(false)
			if err != nil {
				return nil, err
			}
			node.Local = local
		} else {
			if imported.Type == NODE_STRING_LITERAL {
				return nil, p.raisef(imported.offset(), "A string literal cannot be used as an imported binding.\n- Did you mean `import { \"%s\" as foo }`?", imported.Value)
			}
			if err := p.checkUnreserved(imported); err != nil {
				return nil, err
			}
			node.Local = cloneNode(imported)
		}
		if err := p.checkLValSimple(node.Local, BIND_LEXICAL, nil); err != nil {
			return nil, err
		}
		nodes = append(nodes, p.finishNode(node, NODE_IMPORT_SPECIFIER))
	}
	return nodes, nil
}

func (p *Parser) parseModuleExportName() (*Node, error) {
	if p.is(TOKEN_STRING) {
		return p.parseExprAtom(nil, false)
	}
	return p.parseIdent(true)
}
