package parser

type Flags int

const (
	SCOPE_TOP Flags = 1 << iota
	SCOPE_FUNCTION
	SCOPE_ASYNC
	SCOPE_GENERATOR
	SCOPE_ARROW
	SCOPE_SIMPLE_CATCH
	SCOPE_SUPER
	SCOPE_DIRECT_SUPER
	SCOPE_CLASS_STATIC_BLOCK

	SCOPE_VAR = SCOPE_TOP | SCOPE_FUNCTION | SCOPE_CLASS_STATIC_BLOCK
)

// Binding kinds passed to declareName and checkLVal.
const (
	BIND_NONE Flags = iota
	BIND_VAR
	BIND_LEXICAL
	BIND_FUNCTION
	BIND_SIMPLE_CATCH
	BIND_OUTSIDE
)

func functionFlags(async, generator bool) Flags {
	flags := SCOPE_FUNCTION
	if async {
		flags |= SCOPE_ASYNC
	}
	if generator {
		flags |= SCOPE_GENERATOR
	}
	return flags
}

type Scope struct {
	Flags     Flags
	Var       map[string]bool
	Lexical   map[string]bool
	Functions map[string]bool

	catchParam       string
	inClassFieldInit bool
}

func NewScope(flags Flags) *Scope {
	return &Scope{
		Flags:     flags,
		Var:       map[string]bool{},
		Lexical:   map[string]bool{},
		Functions: map[string]bool{},
	}
}

type label struct {
	name           string
	kind           string // "loop", "switch" or "" for plain labels
	statementStart int
}

type privateNameScope struct {
	declared map[string]string
	used     []*Node
}

func (p *Parser) enterScope(flags Flags) {
	p.scopeStack = append(p.scopeStack, NewScope(flags))
}

func (p *Parser) exitScope() {
	p.scopeStack = p.scopeStack[:len(p.scopeStack)-1]
}

func (p *Parser) currentScope() *Scope {
	return p.scopeStack[len(p.scopeStack)-1]
}

func (p *Parser) currentVarScope() *Scope {
	for i := len(p.scopeStack) - 1; i >= 0; i-- {
		if p.scopeStack[i].Flags&SCOPE_VAR != 0 {
			return p.scopeStack[i]
		}
	}
	return p.scopeStack[0]
}

// currentThisScope skips arrow functions, which share this/super with
// their parent.
func (p *Parser) currentThisScope() *Scope {
	for i := len(p.scopeStack) - 1; i >= 0; i-- {
		scope := p.scopeStack[i]
		if scope.Flags&SCOPE_VAR != 0 && scope.Flags&SCOPE_ARROW == 0 {
			return scope
		}
	}
	return p.scopeStack[0]
}

func (p *Parser) inFunction() bool {
	return p.currentVarScope().Flags&SCOPE_FUNCTION != 0
}

func (p *Parser) inGenerator() bool {
	scope := p.currentVarScope()
	return scope.Flags&SCOPE_GENERATOR != 0 && !scope.inClassFieldInit
}

func (p *Parser) inAsync() bool {
	scope := p.currentVarScope()
	return scope.Flags&SCOPE_ASYNC != 0 && !scope.inClassFieldInit
}

func (p *Parser) canAwait() bool {
	for i := len(p.scopeStack) - 1; i >= 0; i-- {
		scope := p.scopeStack[i]
		if scope.inClassFieldInit || scope.Flags&SCOPE_CLASS_STATIC_BLOCK != 0 {
			return false
		}
		if scope.Flags&SCOPE_FUNCTION != 0 {
			return scope.Flags&SCOPE_ASYNC != 0
		}
	}
	return p.InModule
}

func (p *Parser) allowSuper() bool {
	scope := p.currentThisScope()
	return scope.Flags&SCOPE_SUPER != 0 || scope.inClassFieldInit
}

func (p *Parser) allowDirectSuper() bool {
	return p.currentThisScope().Flags&SCOPE_DIRECT_SUPER != 0
}

func (p *Parser) allowNewDotTarget() bool {
	for i := len(p.scopeStack) - 1; i >= 0; i-- {
		scope := p.scopeStack[i]
		if scope.inClassFieldInit || scope.Flags&SCOPE_CLASS_STATIC_BLOCK != 0 {
			return true
		}
		if scope.Flags&SCOPE_FUNCTION != 0 && scope.Flags&SCOPE_ARROW == 0 {
			return true
		}
	}
	return false
}

func (p *Parser) inClassStaticBlock() bool {
	return p.currentVarScope().Flags&SCOPE_CLASS_STATIC_BLOCK != 0
}

func (p *Parser) treatFunctionsAsVar() bool {
	return p.treatFunctionsAsVarInScope(p.currentScope())
}

func (p *Parser) treatFunctionsAsVarInScope(scope *Scope) bool {
	return scope.Flags&SCOPE_FUNCTION != 0 || !p.InModule && scope.Flags&SCOPE_TOP != 0
}

func (p *Parser) declareName(name string, bindingType Flags, pos int) error {
	redeclared := false
	scope := p.currentScope()

	switch bindingType {
	case BIND_LEXICAL:
		redeclared = scope.Lexical[name] || scope.Functions[name] || scope.Var[name]
		scope.Lexical[name] = true
		if p.InModule && scope.Flags&SCOPE_TOP != 0 {
			delete(p.undefinedExports, name)
		}

	case BIND_SIMPLE_CATCH:
		scope.Lexical[name] = true
		scope.catchParam = name

	case BIND_FUNCTION:
		if p.treatFunctionsAsVar() {
			redeclared = scope.Lexical[name]
		} else {
			redeclared = scope.Lexical[name] || scope.Var[name]
		}
		scope.Functions[name] = true
		if p.InModule && scope.Flags&SCOPE_TOP != 0 {
			delete(p.undefinedExports, name)
		}

	default:
		for i := len(p.scopeStack) - 1; i >= 0; i-- {
			scope := p.scopeStack[i]
			simpleCatch := scope.Flags&SCOPE_SIMPLE_CATCH != 0 && scope.catchParam == name
			if scope.Lexical[name] && !simpleCatch || !p.treatFunctionsAsVarInScope(scope) && scope.Functions[name] {
				redeclared = true
				break
			}
			scope.Var[name] = true
			if p.InModule && scope.Flags&SCOPE_TOP != 0 {
				delete(p.undefinedExports, name)
			}
			if scope.Flags&SCOPE_VAR != 0 {
				break
			}
		}
	}

	if redeclared {
		return p.raisef(pos, "Identifier '%s' has already been declared.", name)
	}
	return nil
}

func (p *Parser) enterClassBody() map[string]string {
	declared := map[string]string{}
	p.privateNameStack = append(p.privateNameStack, &privateNameScope{declared: declared})
	return declared
}

func (p *Parser) exitClassBody() error {
	top := p.privateNameStack[len(p.privateNameStack)-1]
	p.privateNameStack = p.privateNameStack[:len(p.privateNameStack)-1]

	var parent *privateNameScope
	if len(p.privateNameStack) > 0 {
		parent = p.privateNameStack[len(p.privateNameStack)-1]
	}
	for _, name := range top.used {
		if _, ok := top.declared[name.Id.Name]; ok {
			continue
		}
		if parent != nil {
			parent.used = append(parent.used, name)
			continue
		}
		return p.raisef(name.offset(), "Private name #%s is not defined.", name.Id.Name)
	}
	return nil
}

// usePrivateName records a PrivateName reference. It is resolved when the
// enclosing class body closes.
func (p *Parser) usePrivateName(name *Node) error {
	if len(p.privateNameStack) == 0 {
		return p.raisef(name.offset(), "Private name #%s is not defined.", name.Id.Name)
	}
	top := p.privateNameStack[len(p.privateNameStack)-1]
	top.used = append(top.used, name)
	return nil
}

// declarePrivateName records a private element; a getter and a setter of
// the same name (and staticness) may share it.
func declarePrivateName(declared map[string]string, name string, kind string, static bool) bool {
	next := "true"
	if kind == "get" || kind == "set" {
		prefix := "i"
		if static {
			prefix = "s"
		}
		next = prefix + kind
	}
	curr := declared[name]
	switch {
	case curr == "iget" && next == "iset", curr == "iset" && next == "iget",
		curr == "sget" && next == "sset", curr == "sset" && next == "sget":
		declared[name] = "true"
		return true
	case curr == "":
		declared[name] = next
		return true
	}
	return false
}
