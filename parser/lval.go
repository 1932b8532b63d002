package parser

// DestructuringErrors records errors that only matter once it is known
// whether an expression is really a pattern. Offsets are -1 when unset.
type DestructuringErrors struct {
	shorthandAssign int
	trailingComma   int
	doubleProto     int
}

func newDestructuringErrors() *DestructuringErrors {
	return &DestructuringErrors{shorthandAssign: -1, trailingComma: -1, doubleProto: -1}
}

func (p *Parser) checkPatternErrors(refErrors *DestructuringErrors) error {
	if refErrors == nil {
		return nil
	}
	if refErrors.trailingComma >= 0 {
		return p.raise(refErrors.trailingComma, "Unexpected trailing comma after rest element.")
	}
	return nil
}

func (p *Parser) checkExpressionErrors(refErrors *DestructuringErrors) error {
	if refErrors == nil {
		return nil
	}
	if refErrors.shorthandAssign >= 0 {
		return p.raise(refErrors.shorthandAssign, "Invalid shorthand property initializer.")
	}
	if refErrors.doubleProto >= 0 {
		return p.raise(refErrors.doubleProto, "Redefinition of __proto__ property.")
	}
	return nil
}

func hasExpressionErrors(refErrors *DestructuringErrors) bool {
	return refErrors != nil && (refErrors.shorthandAssign >= 0 || refErrors.doubleProto >= 0)
}

func (p *Parser) checkYieldAwaitInDefaultParams() error {
	if p.yieldPos != 0 && (p.awaitPos == 0 || p.yieldPos < p.awaitPos) {
		return p.raise(p.yieldPos, "Yield expression is not allowed in formal parameters.")
	}
	if p.awaitPos != 0 {
		return p.raise(p.awaitPos, "'await' is not allowed in async function parameters.")
	}
	return nil
}

// toAssignable converts an expression parsed ahead of an '=' or '=>' into
// the pattern it really is. isBinding is set for arrow parameters.
func (p *Parser) toAssignable(node *Node, isBinding bool, refErrors *DestructuringErrors) (*Node, error) {
	if node.parenthesized() {
		if isBinding || node.Type != NODE_IDENTIFIER && node.Type != NODE_MEMBER_EXPRESSION {
			return nil, p.raise(node.offset(), "Invalid parenthesized assignment pattern.")
		}
	}

	switch node.Type {
	case NODE_IDENTIFIER:
		if p.inAsync() && node.Name == "await" {
			return nil, p.raise(node.offset(), "Can not use 'await' as identifier inside an async function.")
		}

	case NODE_OBJECT_PATTERN, NODE_ARRAY_PATTERN, NODE_ASSIGNMENT_PATTERN, NODE_REST_ELEMENT:

	case NODE_OBJECT_EXPRESSION:
		node.Type = NODE_OBJECT_PATTERN
		if err := p.checkPatternErrors(refErrors); err != nil {
			return nil, err
		}
		for i, prop := range node.Properties {
			converted, err := p.toAssignable(prop, isBinding, nil)
			if err != nil {
				return nil, err
			}
			if converted.Type == NODE_REST_ELEMENT {
				if i != len(node.Properties)-1 {
					return nil, p.raise(converted.offset(), "Rest element must be last element.")
				}
				if arg := converted.Argument; arg.Type == NODE_ARRAY_PATTERN || arg.Type == NODE_OBJECT_PATTERN {
					return nil, p.raise(arg.offset(), "Invalid rest operator's argument.")
				}
			}
			node.Properties[i] = converted
		}

	case NODE_OBJECT_PROPERTY:
		value, err := p.toAssignable(node.ValueNode, isBinding, nil)
		if err != nil {
			return nil, err
		}
		node.ValueNode = value

	case NODE_OBJECT_METHOD:
		if node.Kind == "get" || node.Kind == "set" {
			return nil, p.raise(node.Key.offset(), "Object pattern can't contain getter or setter.")
		}
		return nil, p.raise(node.Key.offset(), "Object pattern can't contain methods.")

	case NODE_ARRAY_EXPRESSION:
		node.Type = NODE_ARRAY_PATTERN
		if err := p.checkPatternErrors(refErrors); err != nil {
			return nil, err
		}
		elements, err := p.toAssignableList(node.Elements, isBinding)
		if err != nil {
			return nil, err
		}
		node.Elements = elements

	case NODE_SPREAD_ELEMENT:
		node.Type = NODE_REST_ELEMENT
		arg, err := p.toAssignable(node.Argument, isBinding, nil)
		if err != nil {
			return nil, err
		}
		if arg.Type == NODE_ASSIGNMENT_PATTERN {
			return nil, p.raise(arg.offset(), "Rest elements cannot have a default value.")
		}
		node.Argument = arg

	case NODE_ASSIGNMENT_EXPRESSION:
		if node.Operator != "=" {
			return nil, p.raise(node.Left.endOffset(), "Only '=' operator can be used for specifying default value.")
		}
		node.Type = NODE_ASSIGNMENT_PATTERN
		node.Operator = ""
		left, err := p.toAssignable(node.Left, isBinding, nil)
		if err != nil {
			return nil, err
		}
		node.Left = left

	case NODE_MEMBER_EXPRESSION:
		if isBinding {
			return nil, p.raise(node.offset(), "Binding member expression.")
		}

	default:
		if isBinding {
			return nil, p.raise(node.offset(), "Binding invalid left-hand side in function parameter list.")
		}
		if isOptionalChain(node) {
			return nil, p.raise(node.offset(), "Invalid optional chaining in the left-hand side of assignment expression.")
		}
		return nil, p.raise(node.offset(), "Invalid left-hand side in assignment expression.")
	}
	return node, nil
}

func (p *Parser) toAssignableList(exprList []*Node, isBinding bool) ([]*Node, error) {
	for i, elt := range exprList {
		if elt == nil {
			continue
		}
		converted, err := p.toAssignable(elt, isBinding, nil)
		if err != nil {
			return nil, err
		}
		if converted.Type == NODE_REST_ELEMENT && i != len(exprList)-1 {
			return nil, p.raise(converted.offset(), "Rest element must be last element.")
		}
		exprList[i] = converted
	}
	return exprList, nil
}

// Parses lvalue (assignable) atoms.
func (p *Parser) parseBindingAtom() (*Node, error) {
	switch p.Type.identifier {
	case TOKEN_BRACKETL:
		node := p.startNode()
		p.next()
		elements, err := p.parseBindingList(TOKEN_BRACKETR, true, true)
		if err != nil {
			return nil, err
		}
		node.Elements = elements
		return p.finishNode(node, NODE_ARRAY_PATTERN), nil

	case TOKEN_BRACEL:
		return p.parseObj(true, nil)
	}
	return p.parseIdent(false)
}

func (p *Parser) parseBindingList(close Token, allowEmpty, allowTrailingComma bool) ([]*Node, error) {
	elts := []*Node{}
	first := true

	for !p.eat(close) {
		if first {
			first = false
		} else if err := p.expect(TOKEN_COMMA); err != nil {
			return nil, err
		}

		if allowEmpty && p.is(TOKEN_COMMA) {
			elts = append(elts, nil)
		} else if allowTrailingComma && p.afterTrailingComma(close) {
			break
		} else if p.is(TOKEN_ELLIPSIS) {
			rest, err := p.parseRestBinding()
			if err != nil {
				return nil, err
			}
			elts = append(elts, rest)
			if p.is(TOKEN_COMMA) {
				return nil, p.raise(p.start, "Unexpected trailing comma after rest element.")
			}
			if err := p.expect(close); err != nil {
				return nil, err
			}
			break
		} else {
			elem, err := p.parseMaybeDefault(p.start, nil)
			if err != nil {
				return nil, err
			}
			elts = append(elts, elem)
		}
	}
	return elts, nil
}

func (p *Parser) parseRestBinding() (*Node, error) {
	node := p.startNode()
	p.next()
	arg, err := p.parseBindingAtom()
	if err != nil {
		return nil, err
	}
	node.Argument = arg
	return p.finishNode(node, NODE_REST_ELEMENT), nil
}

// Parses assignment pattern around given atom if possible.
func (p *Parser) parseMaybeDefault(startPos int, left *Node) (*Node, error) {
	if left == nil {
		var err error
		if left, err = p.parseBindingAtom(); err != nil {
			return nil, err
		}
	}
	if !p.eat(TOKEN_EQ) {
		return left, nil
	}
	node := p.startNodeAt(startPos)
	node.Left = left
	right, err := p.parseMaybeAssign(false, nil)
	if err != nil {
		return nil, err
	}
	node.Right = right
	return p.finishNode(node, NODE_ASSIGNMENT_PATTERN), nil
}

// checkLValSimple verifies that expr can be assigned to or bound. A
// bindingType other than BIND_NONE also declares the name in the current
// scope. checkClashes, when set, collects names that must not repeat.
func (p *Parser) checkLValSimple(expr *Node, bindingType Flags, checkClashes map[string]bool) error {
	isBind := bindingType != BIND_NONE

	switch expr.Type {
	case NODE_IDENTIFIER:
		if p.Strict && strictBindReservedWords[expr.Name] {
			if isBind {
				return p.raisef(expr.offset(), "Binding '%s' in strict mode.", expr.Name)
			}
			return p.raisef(expr.offset(), "Assigning to '%s' in strict mode.", expr.Name)
		}
		if !isBind {
			return nil
		}
		if bindingType == BIND_LEXICAL && expr.Name == "let" {
			return p.raise(expr.offset(), "'let' is not allowed to be used as a name in 'let' or 'const' declarations.")
		}
		if checkClashes != nil {
			if checkClashes[expr.Name] {
				return p.raise(expr.offset(), "Argument name clash.")
			}
			checkClashes[expr.Name] = true
		}
		if bindingType != BIND_OUTSIDE {
			return p.declareName(expr.Name, bindingType, expr.offset())
		}

	case NODE_MEMBER_EXPRESSION:
		if isBind {
			return p.raise(expr.offset(), "Binding member expression.")
		}

	default:
		if isBind {
			return p.raise(expr.offset(), "Binding invalid left-hand side in function parameter list.")
		}
		if isOptionalChain(expr) {
			return p.raise(expr.offset(), "Invalid optional chaining in the left-hand side of assignment expression.")
		}
		return p.raise(expr.offset(), "Invalid left-hand side in assignment expression.")
	}
	return nil
}

func (p *Parser) checkLValPattern(expr *Node, bindingType Flags, checkClashes map[string]bool) error {
	switch expr.Type {
	case NODE_OBJECT_PATTERN:
		for _, prop := range expr.Properties {
			if err := p.checkLValInnerPattern(prop, bindingType, checkClashes); err != nil {
				return err
			}
		}
		return nil

	case NODE_ARRAY_PATTERN:
		for _, elem := range expr.Elements {
			if elem == nil {
				continue
			}
			if err := p.checkLValInnerPattern(elem, bindingType, checkClashes); err != nil {
				return err
			}
		}
		return nil
	}
	return p.checkLValSimple(expr, bindingType, checkClashes)
}

func (p *Parser) checkLValInnerPattern(expr *Node, bindingType Flags, checkClashes map[string]bool) error {
	switch expr.Type {
	case NODE_OBJECT_PROPERTY:
		return p.checkLValInnerPattern(expr.ValueNode, bindingType, checkClashes)
	case NODE_ASSIGNMENT_PATTERN:
		return p.checkLValPattern(expr.Left, bindingType, checkClashes)
	case NODE_REST_ELEMENT:
		return p.checkLValPattern(expr.Argument, bindingType, checkClashes)
	}
	return p.checkLValPattern(expr, bindingType, checkClashes)
}

// checkUpdateTarget validates the operand of ++ and --.
func (p *Parser) checkUpdateTarget(arg *Node, prefix bool) error {
	if arg.Type != NODE_IDENTIFIER && arg.Type != NODE_MEMBER_EXPRESSION {
		if isOptionalChain(arg) {
			if prefix {
				return p.raise(arg.offset(), "Invalid optional chaining in the left-hand side of prefix operation.")
			}
			return p.raise(arg.offset(), "Invalid optional chaining in the left-hand side of postfix operation.")
		}
		if prefix {
			return p.raise(arg.offset(), "Invalid left-hand side in prefix operation.")
		}
		return p.raise(arg.offset(), "Invalid left-hand side in postfix operation.")
	}
	return p.checkLValSimple(arg, BIND_NONE, nil)
}

func isOptionalChain(node *Node) bool {
	return node.Type == NODE_OPTIONAL_MEMBER_EXPRESSION || node.Type == NODE_OPTIONAL_CALL_EXPRESSION
}

func isSimpleParamList(params []*Node) bool {
	for _, param := range params {
		if param.Type != NODE_IDENTIFIER {
			return false
		}
	}
	return true
}

func (p *Parser) checkParams(node *Node, allowDuplicates bool) error {
	var nameHash map[string]bool
	if !allowDuplicates {
		nameHash = map[string]bool{}
	}
	for _, param := range node.Params {
		if err := p.checkLValInnerPattern(param, BIND_VAR, nameHash); err != nil {
			return err
		}
	}
	return nil
}
