package parser

// EXPRESSION PARSING

// These nest, from the most general expression type at the top to
// 'atomic', nondivisible expression types at the bottom. Most of the
// functions will simply let the function(s) below them parse, and, if
// the syntactic construct they handle is present, wrap the AST node
// that the inner parser gave them in another node.
//
// forInit is set while parsing the init clause of a for statement, where
// the 'in' operator is not allowed.

func (p *Parser) parseExpression(forInit bool, refErrors *DestructuringErrors) (*Node, error) {
	startPos := p.start
	expr, err := p.parseMaybeAssign(forInit, refErrors)
	if err != nil {
		return nil, err
	}
	if !p.is(TOKEN_COMMA) {
		return expr, nil
	}

	node := p.startNodeAt(startPos)
	node.Expressions = []*Node{expr}
	for p.eat(TOKEN_COMMA) {
		expr, err := p.parseMaybeAssign(forInit, refErrors)
		if err != nil {
			return nil, err
		}
		node.Expressions = append(node.Expressions, expr)
	}
	return p.finishNode(node, NODE_SEQUENCE_EXPRESSION), nil
}

// Parse an assignment expression. This includes applications of
// operators like `+=`.
func (p *Parser) parseMaybeAssign(forInit bool, refErrors *DestructuringErrors) (*Node, error) {
	if p.isContextual("yield") && p.inGenerator() {
		return p.parseYield(forInit)
	}

	ownDestructuringErrors := false
	oldTrailingComma, oldDoubleProto := -1, -1
	if refErrors != nil {
		oldTrailingComma = refErrors.trailingComma
		oldDoubleProto = refErrors.doubleProto
		refErrors.trailingComma = -1
	} else {
		refErrors = newDestructuringErrors()
		ownDestructuringErrors = true
	}

	startPos := p.start
	if p.is(TOKEN_PARENL) || p.is(TOKEN_NAME) {
		p.potentialArrowAt = p.start
	}
	left, err := p.parseMaybeConditional(forInit, refErrors)
	if err != nil {
		return nil, err
	}

	if p.Type.isAssign {
		node := p.startNodeAt(startPos)
		node.Operator = p.tokenString()
		if p.is(TOKEN_EQ) {
			if left, err = p.toAssignable(left, false, refErrors); err != nil {
				return nil, err
			}
		}
		if !ownDestructuringErrors {
			refErrors.trailingComma = -1
			refErrors.doubleProto = -1
		}
		// The shorthand default was used correctly.
		if refErrors.shorthandAssign >= left.offset() {
			refErrors.shorthandAssign = -1
		}
		if p.is(TOKEN_EQ) {
			err = p.checkLValPattern(left, BIND_NONE, nil)
		} else {
			err = p.checkLValSimple(left, BIND_NONE, nil)
		}
		if err != nil {
			return nil, err
		}
		node.Left = left
		p.next()

		right, err := p.parseMaybeAssign(forInit, nil)
		if err != nil {
			return nil, err
		}
		node.Right = right
		if oldDoubleProto >= 0 {
			refErrors.doubleProto = oldDoubleProto
		}
		return p.finishNode(node, NODE_ASSIGNMENT_EXPRESSION), nil
	}

	if ownDestructuringErrors {
		if err := p.checkExpressionErrors(refErrors); err != nil {
			return nil, err
		}
	}
	if oldTrailingComma >= 0 {
		refErrors.trailingComma = oldTrailingComma
	}
	return left, nil
}

// Parse a ternary conditional (`?:`) operator.
func (p *Parser) parseMaybeConditional(forInit bool, refErrors *DestructuringErrors) (*Node, error) {
	startPos := p.start
	expr, err := p.parseExprOps(forInit, refErrors)
	if err != nil {
		return nil, err
	}
	if hasExpressionErrors(refErrors) {
		return expr, nil
	}
	if !p.eat(TOKEN_QUESTION) {
		return expr, nil
	}

	node := p.startNodeAt(startPos)
	node.Test = expr
	consequent, err := p.parseMaybeAssign(false, nil)
	if err != nil {
		return nil, err
	}
	node.Consequent = consequent
	if err := p.expect(TOKEN_COLON); err != nil {
		return nil, err
	}
	alternate, err := p.parseMaybeAssign(forInit, nil)
	if err != nil {
		return nil, err
	}
	node.Alternate = alternate
	return p.finishNode(node, NODE_CONDITIONAL_EXPRESSION), nil
}

// Start the precedence parser.
func (p *Parser) parseExprOps(forInit bool, refErrors *DestructuringErrors) (*Node, error) {
	startPos := p.start
	expr, err := p.parseMaybeUnary(refErrors, forInit)
	if err != nil {
		return nil, err
	}
	if hasExpressionErrors(refErrors) {
		return expr, nil
	}
	if expr.offset() == startPos && expr.Type == NODE_ARROW_FUNCTION_EXPRESSION {
		return expr, nil
	}
	return p.parseExprOp(expr, startPos, -1, forInit)
}

// Parse binary operators with the operator precedence parsing
// algorithm. `left` is the left-hand side of the operator.
// `minPrec` provides context that allows the function to stop and
// defer further parser to one of its callers when it encounters an
// operator that has a lower precedence than the set it is parsing.
func (p *Parser) parseExprOp(left *Node, leftStartPos int, minPrec int, forInit bool) (*Node, error) {
	prec := p.Type.binop
	if prec == 0 || forInit && p.is(TOKEN_IN) || prec <= minPrec {
		return left, nil
	}

	logical := p.is(TOKEN_LOGICALOR) || p.is(TOKEN_LOGICALAND)
	coalesce := p.is(TOKEN_COALESCE)
	if coalesce {
		// ?? binds like the logical operators, so that a logical
		// expression never ends up as its right operand.
		prec = tokenTypes[TOKEN_LOGICALAND].binop
	}
	if p.is(TOKEN_STARSTAR) && left.Type == NODE_UNARY_EXPRESSION && !left.parenthesized() {
		return nil, p.raise(left.Argument.offset(), "Illegal expression. Wrap left hand side or entire exponentiation in parentheses.")
	}

	op := p.tokenString()
	rightPrec := prec
	if p.is(TOKEN_STARSTAR) {
		rightPrec = prec - 1
	}
	p.next()

	startPos := p.start
	operand, err := p.parseMaybeUnary(nil, forInit)
	if err != nil {
		return nil, err
	}
	right, err := p.parseExprOp(operand, startPos, rightPrec, forInit)
	if err != nil {
		return nil, err
	}

	if logical && p.is(TOKEN_COALESCE) || coalesce && (p.is(TOKEN_LOGICALOR) || p.is(TOKEN_LOGICALAND)) {
		return nil, p.raise(p.start, "Nullish coalescing operator(??) requires parens when mixing with logical operators.")
	}
	node := p.buildBinary(leftStartPos, left, right, op, logical || coalesce)
	return p.parseExprOp(node, leftStartPos, minPrec, forInit)
}

func (p *Parser) buildBinary(startPos int, left, right *Node, op string, logical bool) *Node {
	node := p.startNodeAt(startPos)
	node.Left = left
	node.Operator = op
	node.Right = right
	if logical {
		return p.finishNode(node, NODE_LOGICAL_EXPRESSION)
	}
	return p.finishNode(node, NODE_BINARY_EXPRESSION)
}

// Parse unary operators, both prefix and postfix.
func (p *Parser) parseMaybeUnary(refErrors *DestructuringErrors, forInit bool) (*Node, error) {
	startPos := p.start

	if p.isContextual("await") && p.canAwait() {
		return p.parseAwait(forInit)
	}

	if p.Type.prefix {
		node := p.startNode()
		update := p.is(TOKEN_INCDEC)
		node.Operator = p.tokenString()
		node.Prefix = true
		p.next()

		arg, err := p.parseMaybeUnary(nil, forInit)
		if err != nil {
			return nil, err
		}
		node.Argument = arg
		if err := p.checkExpressionErrors(refErrors); err != nil {
			return nil, err
		}

		if update {
			if err := p.checkUpdateTarget(arg, true); err != nil {
				return nil, err
			}
			return p.finishNode(node, NODE_UPDATE_EXPRESSION), nil
		}
		if node.Operator == "delete" {
			if p.Strict && isLocalVariableAccess(arg) {
				return nil, p.raise(node.offset(), "Deleting local variable in strict mode.")
			}
			if isPrivateFieldAccess(arg) {
				return nil, p.raise(node.offset(), "Deleting a private field is not allowed.")
			}
		}
		return p.finishNode(node, NODE_UNARY_EXPRESSION), nil
	}

	expr, err := p.parseExprSubscripts(refErrors, forInit)
	if err != nil {
		return nil, err
	}
	if hasExpressionErrors(refErrors) {
		return expr, nil
	}
	for p.Type.postfix && !p.canInsertSemicolon() {
		node := p.startNodeAt(startPos)
		node.Operator = p.tokenString()
		node.Prefix = false
		node.Argument = expr
		if err := p.checkUpdateTarget(expr, false); err != nil {
			return nil, err
		}
		p.next()
		expr = p.finishNode(node, NODE_UPDATE_EXPRESSION)
	}
	return expr, nil
}

func isLocalVariableAccess(node *Node) bool {
	return node.Type == NODE_IDENTIFIER
}

func isPrivateFieldAccess(node *Node) bool {
	return (node.Type == NODE_MEMBER_EXPRESSION || node.Type == NODE_OPTIONAL_MEMBER_EXPRESSION) &&
		node.Property.Type == NODE_PRIVATE_NAME
}

func (p *Parser) parseAwait(forInit bool) (*Node, error) {
	if p.awaitPos == 0 {
		p.awaitPos = p.start
	}

	node := p.startNode()
	p.next()
	arg, err := p.parseMaybeUnary(nil, forInit)
	if err != nil {
		return nil, err
	}
	node.Argument = arg
	return p.finishNode(node, NODE_AWAIT_EXPRESSION), nil
}

func (p *Parser) parseYield(forInit bool) (*Node, error) {
	if p.yieldPos == 0 {
		p.yieldPos = p.start
	}

	node := p.startNode()
	p.next()
	if p.is(TOKEN_SEMI) || p.canInsertSemicolon() || !p.is(TOKEN_STAR) && !p.startsExpr() {
		node.Delegate = false
		node.Argument = nil
	} else {
		node.Delegate = p.eat(TOKEN_STAR)
		arg, err := p.parseMaybeAssign(forInit, nil)
		if err != nil {
			return nil, err
		}
		node.Argument = arg
	}
	return p.finishNode(node, NODE_YIELD_EXPRESSION), nil
}

// startsExpr also accepts '/' and '/=', which may still turn out to start
// a regular expression.
func (p *Parser) startsExpr() bool {
	return p.Type.startsExpr || p.is(TOKEN_SLASH) || p.is(TOKEN_ASSIGN) && p.tokenString() == "/="
}

// Parse call, dot, and `[]`-subscript expressions.
func (p *Parser) parseExprSubscripts(refErrors *DestructuringErrors, forInit bool) (*Node, error) {
	startPos := p.start
	expr, err := p.parseExprAtom(refErrors, forInit)
	if err != nil {
		return nil, err
	}
	if expr.Type == NODE_ARROW_FUNCTION_EXPRESSION && string(p.input[p.lastTokStart:p.lastTokEnd]) != ")" {
		return expr, nil
	}
	return p.parseSubscripts(expr, startPos, false, forInit)
}

func (p *Parser) parseSubscripts(base *Node, startPos int, noCalls bool, forInit bool) (*Node, error) {
	maybeAsyncArrow := base.Type == NODE_IDENTIFIER && base.Name == "async" &&
		p.lastTokEnd == base.endOffset() && !p.canInsertSemicolon() &&
		base.endOffset()-base.offset() == 5 && p.potentialArrowAt == base.offset()
	optionalChained := false

	for {
		element, err := p.parseSubscript(base, startPos, noCalls, maybeAsyncArrow, &optionalChained, forInit)
		if err != nil {
			return nil, err
		}
		if element == base || element.Type == NODE_ARROW_FUNCTION_EXPRESSION {
			return element, nil
		}
		base = element
	}
}

func (p *Parser) parseSubscript(base *Node, startPos int, noCalls, maybeAsyncArrow bool, optionalChained *bool, forInit bool) (*Node, error) {
	optional := p.eat(TOKEN_QUESTIONDOT)
	if optional {
		if noCalls {
			return nil, p.raise(p.lastTokStart, "Constructors in/after an Optional Chain are not allowed.")
		}
		*optionalChained = true
	}

	computed := p.eat(TOKEN_BRACKETL)
	if computed || optional && !p.is(TOKEN_PARENL) && !p.is(TOKEN_BACKQUOTE) || p.eat(TOKEN_DOT) {
		node := p.startNodeAt(startPos)
		node.Object = base
		if computed {
			property, err := p.parseExpression(false, nil)
			if err != nil {
				return nil, err
			}
			node.Property = property
			if err := p.expect(TOKEN_BRACKETR); err != nil {
				return nil, err
			}
		} else if p.is(TOKEN_PRIVATEID) && base.Type != NODE_SUPER {
			property, err := p.parsePrivateName()
			if err != nil {
				return nil, err
			}
			if err := p.usePrivateName(property); err != nil {
				return nil, err
			}
			node.Property = property
		} else {
			property, err := p.parseIdent(true)
			if err != nil {
				return nil, err
			}
			node.Property = property
		}
		node.Computed = computed

		if *optionalChained {
			node.Optional = optional
			return p.finishNode(node, NODE_OPTIONAL_MEMBER_EXPRESSION), nil
		}
		return p.finishNode(node, NODE_MEMBER_EXPRESSION), nil
	}

	if !noCalls && p.eat(TOKEN_PARENL) {
		refErrors := newDestructuringErrors()
		oldYieldPos, oldAwaitPos, oldAwaitIdentPos := p.yieldPos, p.awaitPos, p.awaitIdentPos
		p.yieldPos, p.awaitPos, p.awaitIdentPos = 0, 0, 0

		exprList, trailingComma, err := p.parseExprList(TOKEN_PARENR, true, false, refErrors)
		if err != nil {
			return nil, err
		}

		if maybeAsyncArrow && !optional && !p.canInsertSemicolon() && p.eat(TOKEN_ARROW) {
			if err := p.checkPatternErrors(refErrors); err != nil {
				return nil, err
			}
			if err := p.checkYieldAwaitInDefaultParams(); err != nil {
				return nil, err
			}
			if p.awaitIdentPos != 0 {
				return nil, p.raise(p.awaitIdentPos, "Can not use 'await' as identifier inside an async function.")
			}
			p.yieldPos, p.awaitPos, p.awaitIdentPos = oldYieldPos, oldAwaitPos, oldAwaitIdentPos
			return p.parseArrowExpression(p.startNodeAt(startPos), exprList, true, forInit)
		}

		if err := p.checkExpressionErrors(refErrors); err != nil {
			return nil, err
		}
		if oldYieldPos != 0 {
			p.yieldPos = oldYieldPos
		}
		if oldAwaitPos != 0 {
			p.awaitPos = oldAwaitPos
		}
		if oldAwaitIdentPos != 0 {
			p.awaitIdentPos = oldAwaitIdentPos
		}

		node := p.startNodeAt(startPos)
		node.Callee = base
		if *optionalChained {
			node.Optional = optional
		}
		if trailingComma >= 0 && !optional {
			node.addExtra("arguments", "trailingComma", p.lines.position(trailingComma).Index)
		}
		node.Arguments = exprList
		if base.Type == NODE_IMPORT {
			if len(exprList) != 1 {
				return nil, p.raise(node.offset(), "`import()` requires exactly one argument.")
			}
			if exprList[0].Type == NODE_SPREAD_ELEMENT {
				return nil, p.raise(exprList[0].offset(), "`...` is not allowed in `import()`.")
			}
			if trailingComma >= 0 {
				return nil, p.raise(trailingComma, "Trailing comma is disallowed inside import(...) arguments.")
			}
		}
		if *optionalChained {
			return p.finishNode(node, NODE_OPTIONAL_CALL_EXPRESSION), nil
		}
		return p.finishNode(node, NODE_CALL_EXPRESSION), nil
	}

	if p.is(TOKEN_BACKQUOTE) {
		if *optionalChained {
			return nil, p.raise(p.start, "Tagged template cannot be used in optional chain.")
		}
		node := p.startNodeAt(startPos)
		node.Tag = base
		quasi, err := p.parseTemplate(true)
		if err != nil {
			return nil, err
		}
		node.Quasi = quasi
		return p.finishNode(node, NODE_TAGGED_TEMPLATE_EXPRESSION), nil
	}
	return base, nil
}

// Parse an atomic expression: a single token that is an expression, an
// expression started by a keyword like `function`, or an expression
// wrapped in punctuation like `()` and `{}`.
func (p *Parser) parseExprAtom(refErrors *DestructuringErrors, forInit bool) (*Node, error) {
	canBeArrow := p.potentialArrowAt == p.start

	switch p.Type.identifier {
	case TOKEN_SUPER:
		if !p.allowSuper() {
			return nil, p.raise(p.start, "'super' is only allowed in object methods and classes.")
		}
		node := p.startNode()
		p.next()
		if p.is(TOKEN_PARENL) && !p.allowDirectSuper() {
			return nil, p.raise(node.offset(), "`super()` is only valid inside a class constructor of a subclass. Maybe a typo in the method name ('constructor') or not extending another class?")
		}
		if !p.is(TOKEN_DOT) && !p.is(TOKEN_BRACKETL) && !p.is(TOKEN_PARENL) {
			return nil, p.raise(node.offset(), "'super' can only be used with function calls (i.e. super()) or in property accesses (i.e. super.prop or super[prop]).")
		}
		return p.finishNode(node, NODE_SUPER), nil

	case TOKEN_THIS:
		node := p.startNode()
		p.next()
		return p.finishNode(node, NODE_THIS_EXPRESSION), nil

	case TOKEN_NAME:
		startPos, containsEsc := p.start, p.containsEsc
		id, err := p.parseIdent(false)
		if err != nil {
			return nil, err
		}
		if !containsEsc && id.Name == "async" && !p.canInsertSemicolon() && p.is(TOKEN_FUNCTION) {
			p.resetPreviousNodeTrailingComments(id)
			p.next()
			return p.parseFunction(p.startNodeAt(startPos), 0, true, forInit)
		}
		if canBeArrow && !p.canInsertSemicolon() {
			if p.eat(TOKEN_ARROW) {
				return p.parseArrowExpression(p.startNodeAt(startPos), []*Node{id}, false, forInit)
			}
			// `async x` only starts an arrow when `=>` follows, which keeps
			// `for (async of x)` a for-of head.
			if id.Name == "async" && p.is(TOKEN_NAME) && !containsEsc && p.lookahead().typ.identifier == TOKEN_ARROW {
				p.resetPreviousNodeTrailingComments(id)
				param, err := p.parseIdent(false)
				if err != nil {
					return nil, err
				}
				if p.canInsertSemicolon() || !p.eat(TOKEN_ARROW) {
					return nil, p.unexpected()
				}
				return p.parseArrowExpression(p.startNodeAt(startPos), []*Node{param}, true, forInit)
			}
		}
		return id, nil

	case TOKEN_SLASH, TOKEN_ASSIGN:
		if p.is(TOKEN_ASSIGN) && p.tokenString() != "/=" {
			return nil, p.unexpected()
		}
		if err := p.readRegexp(); err != nil {
			p.fail(err)
			return nil, err
		}
		node := p.startNode()
		regex := p.Value.(*Regex)
		node.Pattern = regex.Pattern
		node.Flags = regex.Flags
		node.setExtra("raw", string(p.input[p.start:p.end]))
		p.next()
		return p.finishNode(node, NODE_REGEXP_LITERAL), nil

	case TOKEN_NUM:
		return p.parseLiteral(p.Value, NODE_NUMERIC_LITERAL), nil

	case TOKEN_STRING:
		return p.parseLiteral(p.Value, NODE_STRING_LITERAL), nil

	case TOKEN_BIGINT:
		return p.parseLiteral(p.Value, NODE_BIGINT_LITERAL), nil

	case TOKEN_NULL:
		node := p.startNode()
		p.next()
		return p.finishNode(node, NODE_NULL_LITERAL), nil

	case TOKEN_TRUE, TOKEN_FALSE:
		node := p.startNode()
		node.Value = p.is(TOKEN_TRUE)
		p.next()
		return p.finishNode(node, NODE_BOOLEAN_LITERAL), nil

	case TOKEN_PARENL:
		return p.parseParenAndDistinguishExpression(canBeArrow, forInit)

	case TOKEN_BRACKETL:
		node := p.startNode()
		p.next()
		elements, trailingComma, err := p.parseExprList(TOKEN_BRACKETR, true, true, refErrors)
		if err != nil {
			return nil, err
		}
		if trailingComma >= 0 {
			node.addExtra("", "trailingComma", p.lines.position(trailingComma).Index)
		}
		node.Elements = elements
		return p.finishNode(node, NODE_ARRAY_EXPRESSION), nil

	case TOKEN_BRACEL:
		return p.parseObj(false, refErrors)

	case TOKEN_FUNCTION:
		node := p.startNode()
		p.next()
		return p.parseFunction(node, 0, false, forInit)

	case TOKEN_CLASS:
		return p.parseClass(p.startNode(), false, false)

	case TOKEN_NEW:
		return p.parseNew()

	case TOKEN_BACKQUOTE:
		return p.parseTemplate(false)

	case TOKEN_IMPORT:
		return p.parseExprImport()
	}
	return nil, p.unexpected()
}

// parseExprImport parses `import.meta` or the `import` callee of a dynamic
// import; parseSubscript turns the latter into a CallExpression.
func (p *Parser) parseExprImport() (*Node, error) {
	node := p.startNode()
	p.next()

	if p.is(TOKEN_DOT) {
		node.Name = "import"
		meta := p.finishNode(node, NODE_IDENTIFIER)
		metaProperty := p.startNodeAtNode(meta)
		metaProperty.Meta = meta
		p.next()

		property, err := p.parseIdent(true)
		if err != nil {
			return nil, err
		}
		metaProperty.Property = property
		if property.Name != "meta" {
			return nil, p.raise(property.offset(), "The only valid meta property for import is import.meta.")
		}
		if !p.InModule {
			return nil, p.raise(metaProperty.offset(), "import.meta may appear only with 'sourceType: \"module\"'")
		}
		return p.finishNode(metaProperty, NODE_META_PROPERTY), nil
	}

	if !p.is(TOKEN_PARENL) {
		return nil, p.unexpected()
	}
	return p.finishNode(node, NODE_IMPORT), nil
}

func (p *Parser) parseLiteral(value any, literalType NodeType) *Node {
	node := p.startNode()
	node.Value = value
	node.setExtra("rawValue", value)
	node.setExtra("raw", string(p.input[p.start:p.end]))
	p.next()
	return p.finishNode(node, literalType)
}

func (p *Parser) parseParenExpression() (*Node, error) {
	if err := p.expect(TOKEN_PARENL); err != nil {
		return nil, err
	}
	val, err := p.parseExpression(false, nil)
	if err != nil {
		return nil, err
	}
	if err := p.expect(TOKEN_PARENR); err != nil {
		return nil, err
	}
	return val, nil
}

func (p *Parser) parseParenAndDistinguishExpression(canBeArrow bool, forInit bool) (*Node, error) {
	start := p.start
	p.next()

	innerStart := p.start
	exprList := []*Node{}
	first, lastIsComma := true, false
	refErrors := newDestructuringErrors()
	oldYieldPos, oldAwaitPos := p.yieldPos, p.awaitPos
	spreadStart := -1
	p.yieldPos, p.awaitPos = 0, 0

	for !p.is(TOKEN_PARENR) {
		if first {
			first = false
		} else if err := p.expect(TOKEN_COMMA); err != nil {
			return nil, err
		}

		if p.is(TOKEN_PARENR) {
			lastIsComma = true
			break
		}
		if p.is(TOKEN_ELLIPSIS) {
			spreadStart = p.start
			rest, err := p.parseRestBinding()
			if err != nil {
				return nil, err
			}
			exprList = append(exprList, rest)
			if p.is(TOKEN_COMMA) {
				return nil, p.raise(p.start, "Unexpected trailing comma after rest element.")
			}
			break
		}
		expr, err := p.parseMaybeAssign(false, refErrors)
		if err != nil {
			return nil, err
		}
		exprList = append(exprList, expr)
	}
	innerEnd := p.lastTokEnd
	if err := p.expect(TOKEN_PARENR); err != nil {
		return nil, err
	}

	if canBeArrow && !p.canInsertSemicolon() && p.eat(TOKEN_ARROW) {
		if err := p.checkPatternErrors(refErrors); err != nil {
			return nil, err
		}
		if err := p.checkYieldAwaitInDefaultParams(); err != nil {
			return nil, err
		}
		p.yieldPos, p.awaitPos = oldYieldPos, oldAwaitPos
		return p.parseArrowExpression(p.startNodeAt(start), exprList, false, forInit)
	}

	if len(exprList) == 0 || lastIsComma {
		return nil, p.raise(p.lastTokStart, "Unexpected token")
	}
	if spreadStart >= 0 {
		return nil, p.raise(spreadStart, "Unexpected token")
	}
	if err := p.checkExpressionErrors(refErrors); err != nil {
		return nil, err
	}
	if oldYieldPos != 0 {
		p.yieldPos = oldYieldPos
	}
	if oldAwaitPos != 0 {
		p.awaitPos = oldAwaitPos
	}

	val := exprList[0]
	if len(exprList) > 1 {
		val = p.startNodeAt(innerStart)
		val.Expressions = exprList
		// Finished at the ')' first, so whitespace after it is not taken
		// as inside the sequence.
		p.finishNode(val, NODE_SEQUENCE_EXPRESSION)
		p.resetEndLocation(val, innerEnd)
	}
	val.addExtra(extraAfterFields, "parenthesized", true)
	val.addExtra(extraAfterFields, "parenStart", p.lines.position(start).Index)
	p.takeSurroundingComments(val, start, p.lastTokEnd)
	return val, nil
}

// New's precedence is slightly tricky. It must allow its argument to
// be a `[]` or dot subscript expression, but not a call unless it is
// wrapped in parentheses. Thus, it uses the noCalls argument to
// parseSubscripts to prevent it from consuming the argument list.
func (p *Parser) parseNew() (*Node, error) {
	node := p.startNode()
	p.next()

	if p.is(TOKEN_DOT) {
		meta := p.startNodeAtNode(node)
		meta.Name = "new"
		node.Meta = p.finishNode(meta, NODE_IDENTIFIER)
		p.next()

		property, err := p.parseIdent(true)
		if err != nil {
			return nil, err
		}
		node.Property = property
		if property.Name != "target" {
			return nil, p.raise(property.offset(), "The only valid meta property for new is new.target.")
		}
		if !p.allowNewDotTarget() {
			return nil, p.raise(node.offset(), "`new.target` can only be used in functions or class properties.")
		}
		return p.finishNode(node, NODE_META_PROPERTY), nil
	}

	startPos := p.start
	atom, err := p.parseExprAtom(nil, false)
	if err != nil {
		return nil, err
	}
	callee, err := p.parseSubscripts(atom, startPos, true, false)
	if err != nil {
		return nil, err
	}
	if callee.Type == NODE_IMPORT {
		return nil, p.raise(startPos, "Cannot use new with import(...).")
	}
	node.Callee = callee

	if p.eat(TOKEN_PARENL) {
		args, _, err := p.parseExprList(TOKEN_PARENR, true, false, nil)
		if err != nil {
			return nil, err
		}
		node.Arguments = args
	} else {
		node.Arguments = []*Node{}
	}
	return p.finishNode(node, NODE_NEW_EXPRESSION), nil
}

// Parse template expression.
func (p *Parser) parseTemplate(isTagged bool) (*Node, error) {
	node := p.startNode()
	node.Expressions = []*Node{}
	node.Quasis = []*Node{}

	for {
		chunk, err := p.readTemplateChunk()
		if err != nil {
			p.fail(err)
			return nil, err
		}
		if chunk.invalid != nil && !isTagged {
			return nil, chunk.invalid
		}
		node.Quasis = append(node.Quasis, p.templateElement(chunk))
		p.next()
		if chunk.tail {
			break
		}

		expr, err := p.parseExpression(false, nil)
		if err != nil {
			return nil, err
		}
		node.Expressions = append(node.Expressions, expr)
		if !p.is(TOKEN_BRACER) {
			return nil, p.unexpectedExpected(TOKEN_BRACER)
		}
	}
	return p.finishNode(node, NODE_TEMPLATE_LITERAL), nil
}

func (p *Parser) templateElement(chunk *templateChunk) *Node {
	elem := p.startNodeAt(chunk.start)
	elem.Raw = chunk.raw
	elem.Cooked = chunk.cooked
	elem.Tail = chunk.tail
	return p.finishNodeAt(elem, NODE_TEMPLATE_ELEMENT, chunk.end)
}

func (p *Parser) isAsyncProp(prop *Node) bool {
	if prop.Computed || prop.Key.Type != NODE_IDENTIFIER || prop.Key.Name != "async" {
		return false
	}
	switch p.Type.identifier {
	case TOKEN_PARENL, TOKEN_COLON, TOKEN_COMMA, TOKEN_BRACER, TOKEN_EQ:
		return false
	}
	return !p.hasPrecedingLineBreak()
}

// Parse an object literal or binding pattern.
func (p *Parser) parseObj(isPattern bool, refErrors *DestructuringErrors) (*Node, error) {
	node := p.startNode()
	node.Properties = []*Node{}
	first := true
	protoSeen := false
	p.next()

	for !p.eat(TOKEN_BRACER) {
		if !first {
			if err := p.expect(TOKEN_COMMA); err != nil {
				return nil, err
			}
			comma := p.lastTokStart
			if p.afterTrailingComma(TOKEN_BRACER) {
				node.addExtra(extraAfterFields, "trailingComma", p.lines.position(comma).Index)
				break
			}
		} else {
			first = false
		}

		prop, err := p.parsePropertyDefinition(isPattern, refErrors)
		if err != nil {
			return nil, err
		}
		if !isPattern {
			if err := p.checkPropClash(prop, &protoSeen, refErrors); err != nil {
				return nil, err
			}
		}
		node.Properties = append(node.Properties, prop)
	}

	if isPattern {
		return p.finishNode(node, NODE_OBJECT_PATTERN), nil
	}
	return p.finishNode(node, NODE_OBJECT_EXPRESSION), nil
}

func (p *Parser) checkPropClash(prop *Node, protoSeen *bool, refErrors *DestructuringErrors) error {
	if prop.Type != NODE_OBJECT_PROPERTY || prop.Computed || prop.Shorthand {
		return nil
	}

	key := prop.Key
	name := ""
	switch key.Type {
	case NODE_IDENTIFIER:
		name = key.Name
	case NODE_STRING_LITERAL:
		name, _ = key.Value.(string)
	default:
		return nil
	}
	if name != "__proto__" {
		return nil
	}

	if *protoSeen {
		if refErrors == nil {
			return p.raise(key.offset(), "Redefinition of __proto__ property.")
		}
		if refErrors.doubleProto < 0 {
			refErrors.doubleProto = key.offset()
		}
	}
	*protoSeen = true
	return nil
}

func (p *Parser) parsePropertyDefinition(isPattern bool, refErrors *DestructuringErrors) (*Node, error) {
	prop := p.startNode()

	if p.is(TOKEN_ELLIPSIS) {
		if isPattern {
			p.next()
			arg, err := p.parseIdent(false)
			if err != nil {
				return nil, err
			}
			prop.Argument = arg
			if p.is(TOKEN_COMMA) {
				return nil, p.raise(p.start, "Unexpected trailing comma after rest element.")
			}
			return p.finishNode(prop, NODE_REST_ELEMENT), nil
		}

		p.next()
		arg, err := p.parseMaybeAssign(false, refErrors)
		if err != nil {
			return nil, err
		}
		prop.Argument = arg
		// To disallow trailing comma via `toAssignable()`.
		if p.is(TOKEN_COMMA) && refErrors != nil && refErrors.trailingComma < 0 {
			refErrors.trailingComma = p.start
		}
		return p.finishNode(prop, NODE_SPREAD_ELEMENT), nil
	}

	prop.Method = false
	prop.Shorthand = false
	startPos := p.start
	isGenerator, isAsync := false, false
	if !isPattern {
		isGenerator = p.eat(TOKEN_STAR)
	}

	containsEsc := p.containsEsc
	if err := p.parsePropertyName(prop); err != nil {
		return nil, err
	}
	if !isPattern && !containsEsc && !isGenerator && p.isAsyncProp(prop) {
		isAsync = true
		p.resetPreviousNodeTrailingComments(prop.Key)
		isGenerator = p.eat(TOKEN_STAR)
		if err := p.parsePropertyName(prop); err != nil {
			return nil, err
		}
	}

	if err := p.parsePropertyValue(prop, isPattern, isGenerator, isAsync, startPos, refErrors, containsEsc); err != nil {
		return nil, err
	}
	return prop, nil
}

func (p *Parser) parsePropertyValue(prop *Node, isPattern, isGenerator, isAsync bool, startPos int, refErrors *DestructuringErrors, containsEsc bool) error {
	if (isGenerator || isAsync) && p.is(TOKEN_COLON) {
		return p.unexpected()
	}

	if p.eat(TOKEN_COLON) {
		var value *Node
		var err error
		if isPattern {
			value, err = p.parseMaybeDefault(p.start, nil)
		} else {
			value, err = p.parseMaybeAssign(false, refErrors)
		}
		if err != nil {
			return err
		}
		prop.ValueNode = value
		p.finishNode(prop, NODE_OBJECT_PROPERTY)
		return nil
	}

	if p.is(TOKEN_PARENL) {
		if isPattern {
			return p.unexpected()
		}
		prop.Kind = "method"
		prop.Method = true
		if err := p.parseMethod(prop, isGenerator, isAsync, false); err != nil {
			return err
		}
		p.finishNode(prop, NODE_OBJECT_METHOD)
		return nil
	}

	key := prop.Key
	if !isPattern && !containsEsc && !prop.Computed && key.Type == NODE_IDENTIFIER &&
		(key.Name == "get" || key.Name == "set") &&
		!p.is(TOKEN_COMMA) && !p.is(TOKEN_BRACER) && !p.is(TOKEN_EQ) {
		if isGenerator || isAsync {
			return p.unexpected()
		}
		prop.Kind = key.Name
		p.resetPreviousNodeTrailingComments(key)
		if err := p.parsePropertyName(prop); err != nil {
			return err
		}
		if err := p.parseMethod(prop, false, false, false); err != nil {
			return err
		}
		if err := p.checkAccessorParams(prop); err != nil {
			return err
		}
		p.finishNode(prop, NODE_OBJECT_METHOD)
		return nil
	}

	if !prop.Computed && key.Type == NODE_IDENTIFIER {
		if isGenerator || isAsync {
			return p.unexpected()
		}
		if err := p.checkUnreserved(key); err != nil {
			return err
		}
		if key.Name == "await" && p.awaitIdentPos == 0 {
			p.awaitIdentPos = startPos
		}

		switch {
		case isPattern:
			value, err := p.parseMaybeDefault(startPos, cloneNode(key))
			if err != nil {
				return err
			}
			prop.ValueNode = value
		case p.is(TOKEN_EQ) && refErrors != nil:
			if refErrors.shorthandAssign < 0 {
				refErrors.shorthandAssign = p.start
			}
			value, err := p.parseMaybeDefault(startPos, cloneNode(key))
			if err != nil {
				return err
			}
			prop.ValueNode = value
		default:
			prop.ValueNode = cloneNode(key)
		}
		prop.Shorthand = true
		p.finishNode(prop, NODE_OBJECT_PROPERTY)
		return nil
	}
	return p.unexpected()
}

func (p *Parser) parsePropertyName(prop *Node) error {
	if p.eat(TOKEN_BRACKETL) {
		prop.Computed = true
		key, err := p.parseMaybeAssign(false, nil)
		if err != nil {
			return err
		}
		prop.Key = key
		return p.expect(TOKEN_BRACKETR)
	}

	prop.Computed = false
	var key *Node
	var err error
	switch p.Type.identifier {
	case TOKEN_NUM, TOKEN_STRING, TOKEN_BIGINT:
		key, err = p.parseExprAtom(nil, false)
	default:
		key, err = p.parseIdent(true)
	}
	if err != nil {
		return err
	}
	prop.Key = key
	return nil
}

// Parse object or class method.
func (p *Parser) parseMethod(node *Node, isGenerator, isAsync, allowDirectSuper bool) error {
	oldYieldPos, oldAwaitPos, oldAwaitIdentPos := p.yieldPos, p.awaitPos, p.awaitIdentPos

	node.Id = nil
	node.Generator = isGenerator
	node.Async = isAsync

	p.yieldPos, p.awaitPos, p.awaitIdentPos = 0, 0, 0
	flags := functionFlags(isAsync, isGenerator) | SCOPE_SUPER
	if allowDirectSuper {
		flags |= SCOPE_DIRECT_SUPER
	}
	p.enterScope(flags)

	if err := p.expect(TOKEN_PARENL); err != nil {
		return err
	}
	params, err := p.parseBindingList(TOKEN_PARENR, false, true)
	if err != nil {
		return err
	}
	node.Params = params
	if err := p.checkYieldAwaitInDefaultParams(); err != nil {
		return err
	}
	if err := p.parseFunctionBody(node, false, true, false); err != nil {
		return err
	}

	p.yieldPos, p.awaitPos, p.awaitIdentPos = oldYieldPos, oldAwaitPos, oldAwaitIdentPos
	return nil
}

// Parse arrow function expression with given parameters.
func (p *Parser) parseArrowExpression(node *Node, params []*Node, isAsync bool, forInit bool) (*Node, error) {
	oldYieldPos, oldAwaitPos, oldAwaitIdentPos := p.yieldPos, p.awaitPos, p.awaitIdentPos

	p.enterScope(functionFlags(isAsync, false) | SCOPE_ARROW)
	node.Id = nil
	node.Generator = false
	node.Async = isAsync

	params, err := p.toAssignableList(params, true)
	if err != nil {
		return nil, err
	}
	node.Params = params
	p.yieldPos, p.awaitPos, p.awaitIdentPos = 0, 0, 0

	if err := p.parseFunctionBody(node, true, false, forInit); err != nil {
		return nil, err
	}

	p.yieldPos, p.awaitPos, p.awaitIdentPos = oldYieldPos, oldAwaitPos, oldAwaitIdentPos
	return p.finishNode(node, NODE_ARROW_FUNCTION_EXPRESSION), nil
}

// Parse function body and check parameters. The function scope has
// already been entered and is exited here.
func (p *Parser) parseFunctionBody(node *Node, isArrowFunction, isMethod, forInit bool) error {
	oldStrict := p.Strict

	if isArrowFunction && !p.is(TOKEN_BRACEL) {
		body, err := p.parseMaybeAssign(forInit, nil)
		if err != nil {
			return err
		}
		node.BodyNode = body
		if err := p.checkParams(node, false); err != nil {
			return err
		}
		p.exitScope()
		return nil
	}

	oldLabels := p.labels
	p.labels = nil
	block := p.startNode()
	if err := p.expect(TOKEN_BRACEL); err != nil {
		return err
	}
	body, directives, err := p.parseBlockBody(TOKEN_BRACER, true, false)
	if err != nil {
		return err
	}
	block.Body = body
	block.Directives = directives

	for _, directive := range directives {
		if directive.ValueNode.Value == "use strict" && !isSimpleParamList(node.Params) {
			return p.raise(directive.offset(), "Illegal 'use strict' directive in function with non-simple parameter list.")
		}
	}

	// Add the params to varDeclaredNames to ensure that an error is thrown
	// if a let/const declaration in the function clashes with one of the
	// params.
	allowDuplicates := !p.Strict && !isArrowFunction && !isMethod && isSimpleParamList(node.Params)
	if err := p.checkParams(node, allowDuplicates); err != nil {
		return err
	}
	if p.Strict && node.Id != nil {
		// Ensure the function name isn't a forbidden identifier in strict
		// mode, e.g. 'eval'.
		if err := p.checkLValSimple(node.Id, BIND_OUTSIDE, nil); err != nil {
			return err
		}
	}

	p.Strict = oldStrict
	p.next()
	node.BodyNode = p.finishNode(block, NODE_BLOCK_STATEMENT)
	p.labels = oldLabels
	p.exitScope()
	return nil
}

// Parses a comma-separated list of expressions, and returns them as
// an array. `close` is the token type that ends the list, and
// `allowEmpty` can be turned on to allow subsequent commas with
// nothing in between them to be parsed as `null` (which is needed
// for array literals).
// parseExprList parses a comma separated list up to close. It also
// returns the byte offset of a trailing comma, or -1 without one.
func (p *Parser) parseExprList(close Token, allowTrailingComma, allowEmpty bool, refErrors *DestructuringErrors) ([]*Node, int, error) {
	elts := []*Node{}
	first := true
	trailingComma := -1

	for !p.eat(close) {
		if !first {
			if err := p.expect(TOKEN_COMMA); err != nil {
				return nil, -1, err
			}
			comma := p.lastTokStart
			if allowTrailingComma && p.afterTrailingComma(close) {
				trailingComma = comma
				break
			}
		} else {
			first = false
		}

		if allowEmpty && p.is(TOKEN_COMMA) {
			elts = append(elts, nil)
			continue
		}
		if p.is(TOKEN_ELLIPSIS) {
			elt, err := p.parseSpread(refErrors)
			if err != nil {
				return nil, -1, err
			}
			if refErrors != nil && p.is(TOKEN_COMMA) && refErrors.trailingComma < 0 {
				refErrors.trailingComma = p.start
			}
			elts = append(elts, elt)
			continue
		}
		elt, err := p.parseMaybeAssign(false, refErrors)
		if err != nil {
			return nil, -1, err
		}
		elts = append(elts, elt)
	}
	return elts, trailingComma, nil
}

func (p *Parser) parseSpread(refErrors *DestructuringErrors) (*Node, error) {
	node := p.startNode()
	p.next()
	arg, err := p.parseMaybeAssign(false, refErrors)
	if err != nil {
		return nil, err
	}
	node.Argument = arg
	return p.finishNode(node, NODE_SPREAD_ELEMENT), nil
}

func (p *Parser) afterTrailingComma(token Token) bool {
	return p.eat(token)
}

// Parse the next token as an identifier. If `liberal` is true (used
// when parsing properties), it will also convert keywords into
// identifiers.
func (p *Parser) parseIdent(liberal bool) (*Node, error) {
	node := p.startNode()
	switch {
	case p.is(TOKEN_NAME):
		node.Name = p.tokenString()
	case p.Type.keyword != "":
		node.Name = p.Type.keyword
	default:
		return nil, p.unexpected()
	}

	if !liberal && p.containsEsc && keywords[node.Name] != nil {
		return nil, p.raisef(p.start, "Escape sequence in keyword %s.", node.Name)
	}
	p.next()
	p.finishNode(node, NODE_IDENTIFIER)

	if !liberal {
		if err := p.checkUnreserved(node); err != nil {
			return nil, err
		}
		if node.Name == "await" && p.awaitIdentPos == 0 {
			p.awaitIdentPos = node.offset()
		}
	}
	return node, nil
}

func (p *Parser) checkUnreserved(id *Node) error {
	name, pos := id.Name, id.offset()

	if p.inGenerator() && name == "yield" {
		return p.raise(pos, "Can not use 'yield' as identifier inside a generator.")
	}
	if p.inAsync() && name == "await" {
		return p.raise(pos, "Can not use 'await' as identifier inside an async function.")
	}
	if name == "arguments" && (p.currentThisScope().inClassFieldInit || p.inClassStaticBlock()) {
		return p.raise(pos, "'arguments' is only allowed in functions and class methods.")
	}
	if name == "await" && p.inClassStaticBlock() {
		return p.raise(pos, "Can not use 'await' as identifier inside a static block.")
	}
	if keywords[name] != nil {
		return p.raisef(pos, "Unexpected keyword '%s'.", name)
	}
	if reservedWords[name] || p.Strict && strictReservedWords[name] {
		return p.raisef(pos, "Unexpected reserved word '%s'.", name)
	}
	if p.InModule && name == "await" {
		return p.raisef(pos, "Unexpected reserved word '%s'.", name)
	}
	return nil
}
