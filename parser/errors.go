package parser

import "fmt"

// SyntaxError is returned for any input the parser rejects.
type SyntaxError struct {
	Message string
	Loc     Position
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("%s (%d:%d)", e.Message, e.Loc.Line, e.Loc.Column)
}

// Pos is the UTF-16 offset of the error.
func (e *SyntaxError) Pos() int {
	return e.Loc.Index
}

func (p *Parser) raise(pos int, message string) error {
	return &SyntaxError{Message: message, Loc: p.lines.position(pos)}
}

func (p *Parser) raisef(pos int, format string, args ...any) error {
	return p.raise(pos, fmt.Sprintf(format, args...))
}

// strictModeError fails right away in strict code. Elsewhere the error is
// held back: a "use strict" directive later in the same prologue makes the
// code before it strict too.
func (p *Parser) strictModeError(pos int, message string) error {
	err := &SyntaxError{Message: message, Loc: p.lines.position(pos)}
	if p.Strict {
		return err
	}
	p.strictErrors = append(p.strictErrors, err)
	return nil
}

// setStrict switches to strict mode and reports the earliest error held
// back by strictModeError.
func (p *Parser) setStrict() error {
	p.Strict = true
	var first *SyntaxError
	for _, err := range p.strictErrors {
		if first == nil || err.Loc.Index < first.Loc.Index {
			first = err
		}
	}
	p.strictErrors = nil
	if first != nil {
		return first
	}
	return nil
}

// dropStrictErrorsBefore forgets held errors that come before pos.
func (p *Parser) dropStrictErrorsBefore(pos int) {
	kept := p.strictErrors[:0]
	for _, err := range p.strictErrors {
		if err.Loc.offset >= pos {
			kept = append(kept, err)
		}
	}
	p.strictErrors = kept
}

func (p *Parser) unexpected() error {
	if p.Type.identifier == TOKEN_INVALID && p.tokErr != nil {
		return p.tokErr
	}
	return p.raise(p.start, "Unexpected token")
}

func (p *Parser) unexpectedExpected(token Token) error {
	if p.Type.identifier == TOKEN_INVALID && p.tokErr != nil {
		return p.tokErr
	}
	return p.raisef(p.start, "Unexpected token, expected %q", tokenTypes[token].label)
}

func (p *Parser) expectPlugin(pos int, name string) error {
	if p.options.hasPlugin(name) {
		return nil
	}
	return p.raisef(pos, "This experimental syntax requires enabling the parser plugin: %q.", name)
}
