package parser

import (
	"bytes"
	"math/big"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

type Regex struct {
	Pattern string
	Flags   string
}

// Move to next token
func (p *Parser) next() {
	if p.Type.identifier == TOKEN_INVALID {
		return
	}
	p.lastTokStart = p.start
	p.lastTokEnd = p.end
	p.nextToken()
}

func (p *Parser) nextToken() {
	if err := p.skipSpace(); err != nil {
		p.fail(err)
		return
	}

	p.start = p.pos
	p.containsEsc = false
	if p.pos >= len(p.input) {
		p.finishToken(TOKEN_EOF, nil)
		return
	}

	code, _ := utf8.DecodeRune(p.input[p.pos:])
	if isIdentifierStart(code) || code == '\\' {
		p.readWord()
		return
	}
	if err := p.getTokenFromCode(code); err != nil {
		p.fail(err)
	}
}

// fail parks the tokenizer on an invalid token; no grammar rule accepts it,
// so the error surfaces through unexpected().
func (p *Parser) fail(err error) {
	if p.tokErr == nil {
		p.tokErr = err
	}
	p.Type = tokenTypes[TOKEN_INVALID]
	p.Value = nil
	p.end = p.pos
}

func (p *Parser) finishToken(token Token, value any) {
	p.end = p.pos
	p.Type = tokenTypes[token]
	p.Value = value
}

func (p *Parser) finishOp(token Token, size int) {
	op := string(p.input[p.pos : p.pos+size])
	p.pos += size
	p.finishToken(token, op)
}

func (p *Parser) peek(offset int) byte {
	if p.pos+offset < len(p.input) {
		return p.input[p.pos+offset]
	}
	return 0
}

// skipSpace moves past whitespace and comments. A stretch that held
// comments is kept for attaching them to nodes.
func (p *Parser) skipSpace() error {
	spaceStart, commentsBefore := p.pos, len(p.comments)
	defer func() {
		if len(p.comments) > commentsBefore {
			comments := append([]*Comment(nil), p.comments[commentsBefore:]...)
			p.pushCommentWhitespace(spaceStart, p.pos, comments)
		}
	}()

	for p.pos < len(p.input) {
		ch := p.input[p.pos]
		switch ch {
		case ' ', '\t', '\n', '\r', '\v', '\f':
			p.pos++
		case '/':
			switch p.peek(1) {
			case '*':
				if err := p.skipBlockComment(); err != nil {
					return err
				}
			case '/':
				p.skipLineComment(2)
			default:
				return nil
			}
		default:
			if ch < utf8.RuneSelf {
				return nil
			}
			r, size := utf8.DecodeRune(p.input[p.pos:])
			if r == 0xA0 || r == 0xFEFF || r == 0x2028 || r == 0x2029 || unicode.Is(unicode.Zs, r) {
				p.pos += size
				continue
			}
			return nil
		}
	}
	return nil
}

func (p *Parser) skipBlockComment() error {
	start := p.pos
	end := bytes.Index(p.input[p.pos+2:], []byte("*/"))
	if end == -1 {
		p.pos = len(p.input)
		return p.raise(start, "Unterminated comment.")
	}
	p.pos += 2 + end + 2
	p.pushComment(true, string(p.input[start+2:p.pos-2]), start, p.pos)
	return nil
}

func (p *Parser) skipLineComment(startSkip int) {
	start := p.pos
	p.pos += startSkip
	for p.pos < len(p.input) {
		r, size := utf8.DecodeRune(p.input[p.pos:])
		if isNewLine(r) {
			break
		}
		p.pos += size
	}
	p.pushComment(false, string(p.input[start+startSkip:p.pos]), start, p.pos)
}

func (p *Parser) pushComment(block bool, text string, start, end int) {
	comment := &Comment{
		Type:  COMMENT_LINE,
		Value: text,
		Loc:   p.sourceLocation(start, end),
	}
	if block {
		comment.Type = COMMENT_BLOCK
	}
	comment.Start = comment.Loc.Start.Index
	comment.End = comment.Loc.End.Index
	p.comments = append(p.comments, comment)
}

func (p *Parser) getTokenFromCode(code rune) error {
	switch code {
	case '.':
		return p.readToken_dot()

	case '(':
		p.pos++
		p.finishToken(TOKEN_PARENL, nil)
	case ')':
		p.pos++
		p.finishToken(TOKEN_PARENR, nil)
	case ';':
		p.pos++
		p.finishToken(TOKEN_SEMI, nil)
	case ',':
		p.pos++
		p.finishToken(TOKEN_COMMA, nil)
	case '[':
		p.pos++
		p.finishToken(TOKEN_BRACKETL, nil)
	case ']':
		p.pos++
		p.finishToken(TOKEN_BRACKETR, nil)
	case '{':
		p.pos++
		p.finishToken(TOKEN_BRACEL, nil)
	case '}':
		p.pos++
		p.finishToken(TOKEN_BRACER, nil)
	case ':':
		p.pos++
		p.finishToken(TOKEN_COLON, nil)
	case '`':
		p.pos++
		p.finishToken(TOKEN_BACKQUOTE, nil)

	case '?':
		p.readToken_question()

	case '0':
		switch p.peek(1) {
		case 'x', 'X':
			return p.readRadixNumber(16)
		case 'o', 'O':
			return p.readRadixNumber(8)
		case 'b', 'B':
			return p.readRadixNumber(2)
		}
		return p.readNumber(false)

	case '1', '2', '3', '4', '5', '6', '7', '8', '9':
		return p.readNumber(false)

	case '"', '\'':
		return p.readString(byte(code))

	case '/':
		if p.peek(1) == '=' {
			p.finishOp(TOKEN_ASSIGN, 2)
		} else {
			p.finishOp(TOKEN_SLASH, 1)
		}

	case '%', '*':
		p.readToken_mult_modulo_exp(byte(code))

	case '|', '&':
		p.readToken_pipe_amp(byte(code))

	case '^':
		if p.peek(1) == '=' {
			p.finishOp(TOKEN_ASSIGN, 2)
		} else {
			p.finishOp(TOKEN_BITWISEXOR, 1)
		}

	case '+', '-':
		p.readToken_plus_min(byte(code))

	case '<', '>':
		p.readToken_lt_gt(byte(code))

	case '=', '!':
		p.readToken_eq_excl(byte(code))

	case '~':
		p.finishOp(TOKEN_TILDE, 1)

	case '#':
		return p.readToken_numberSign()

	default:
		return p.raisef(p.pos, "Unexpected character '%c'.", code)
	}
	return nil
}

func (p *Parser) readToken_dot() error {
	next := p.peek(1)
	if next >= '0' && next <= '9' {
		return p.readNumber(true)
	}
	if next == '.' && p.peek(2) == '.' {
		p.pos += 3
		p.finishToken(TOKEN_ELLIPSIS, nil)
		return nil
	}
	p.pos++
	p.finishToken(TOKEN_DOT, nil)
	return nil
}

func (p *Parser) readToken_question() {
	next := p.peek(1)
	switch {
	case next == '?' && p.peek(2) == '=':
		p.finishOp(TOKEN_ASSIGN, 3)
	case next == '?':
		p.finishOp(TOKEN_COALESCE, 2)
	case next == '.' && !(p.peek(2) >= '0' && p.peek(2) <= '9'):
		p.finishOp(TOKEN_QUESTIONDOT, 2)
	default:
		p.finishOp(TOKEN_QUESTION, 1)
	}
}

func (p *Parser) readToken_mult_modulo_exp(code byte) {
	size := 1
	token := TOKEN_MODULO
	if code == '*' {
		token = TOKEN_STAR
		if p.peek(1) == '*' {
			size++
			token = TOKEN_STARSTAR
		}
	}
	if p.peek(size) == '=' {
		p.finishOp(TOKEN_ASSIGN, size+1)
		return
	}
	p.finishOp(token, size)
}

func (p *Parser) readToken_pipe_amp(code byte) {
	next := p.peek(1)
	if next == code {
		if p.peek(2) == '=' {
			p.finishOp(TOKEN_ASSIGN, 3)
			return
		}
		if code == '|' {
			p.finishOp(TOKEN_LOGICALOR, 2)
		} else {
			p.finishOp(TOKEN_LOGICALAND, 2)
		}
		return
	}
	if next == '=' {
		p.finishOp(TOKEN_ASSIGN, 2)
		return
	}
	if code == '|' {
		p.finishOp(TOKEN_BITWISEOR, 1)
	} else {
		p.finishOp(TOKEN_BITWISEAND, 1)
	}
}

func (p *Parser) readToken_plus_min(code byte) {
	next := p.peek(1)
	if next == code {
		p.finishOp(TOKEN_INCDEC, 2)
		return
	}
	if next == '=' {
		p.finishOp(TOKEN_ASSIGN, 2)
		return
	}
	p.finishOp(TOKEN_PLUSMIN, 1)
}

func (p *Parser) readToken_lt_gt(code byte) {
	next := p.peek(1)
	if next == code {
		size := 2
		if code == '>' && p.peek(2) == '>' {
			size = 3
		}
		if p.peek(size) == '=' {
			p.finishOp(TOKEN_ASSIGN, size+1)
			return
		}
		p.finishOp(TOKEN_BITSHIFT, size)
		return
	}
	if next == '=' {
		p.finishOp(TOKEN_RELATIONAL, 2)
		return
	}
	p.finishOp(TOKEN_RELATIONAL, 1)
}

func (p *Parser) readToken_eq_excl(code byte) {
	next := p.peek(1)
	if next == '=' {
		if p.peek(2) == '=' {
			p.finishOp(TOKEN_EQUALITY, 3)
		} else {
			p.finishOp(TOKEN_EQUALITY, 2)
		}
		return
	}
	if code == '=' && next == '>' {
		p.finishOp(TOKEN_ARROW, 2)
		return
	}
	if code == '=' {
		p.finishOp(TOKEN_EQ, 1)
	} else {
		p.finishOp(TOKEN_BANG, 1)
	}
}

func (p *Parser) readToken_numberSign() error {
	start := p.pos
	p.pos++
	if p.pos < len(p.input) {
		r, _ := utf8.DecodeRune(p.input[p.pos:])
		if isIdentifierStart(r) || r == '\\' {
			word, err := p.readWord1()
			if err != nil {
				return err
			}
			p.finishToken(TOKEN_PRIVATEID, word)
			return nil
		}
	}
	return p.raise(start, "Unexpected character '#'.")
}

func (p *Parser) readWord() {
	word, err := p.readWord1()
	if err != nil {
		p.fail(err)
		return
	}
	if keyword, ok := keywords[word]; ok && !p.containsEsc {
		p.finishToken(keyword.identifier, word)
		return
	}
	p.finishToken(TOKEN_NAME, word)
}

func (p *Parser) readWord1() (string, error) {
	var word strings.Builder
	first := true
	chunkStart := p.pos

	for p.pos < len(p.input) {
		r, size := utf8.DecodeRune(p.input[p.pos:])
		if first && isIdentifierStart(r) || !first && isIdentifierChar(r) {
			p.pos += size
		} else if r == '\\' {
			p.containsEsc = true
			word.Write(p.input[chunkStart:p.pos])
			escStart := p.pos
			if p.peek(1) != 'u' {
				return "", p.raise(p.pos, "Expecting Unicode escape sequence \\uXXXX.")
			}
			p.pos += 2
			esc, err := p.readCodePoint()
			if err != nil {
				return "", err
			}
			if first && !isIdentifierStart(esc) || !first && !isIdentifierChar(esc) {
				return "", p.raise(escStart, "Invalid Unicode escape.")
			}
			word.WriteRune(esc)
			chunkStart = p.pos
		} else {
			break
		}
		first = false
	}
	word.Write(p.input[chunkStart:p.pos])
	return word.String(), nil
}

// readDigits consumes digits of the given radix and returns how many were
// read. Numeric separators are accepted between two digits.
func (p *Parser) readDigits(radix int, allowSeparators bool) (int, error) {
	count := 0
	for p.pos < len(p.input) {
		c := p.input[p.pos]
		if c == '_' && allowSeparators {
			if count == 0 || !isDigit(p.peek(1), radix) || p.input[p.pos-1] == '_' {
				return 0, p.raise(p.pos, "A numeric separator is only allowed between two digits.")
			}
			p.pos++
			continue
		}
		if !isDigit(c, radix) {
			break
		}
		p.pos++
		count++
	}
	return count, nil
}

func (p *Parser) checkNumberEnd() error {
	if p.pos < len(p.input) {
		r, _ := utf8.DecodeRune(p.input[p.pos:])
		if isIdentifierStart(r) || r >= '0' && r <= '9' {
			return p.raise(p.pos, "Identifier directly after number.")
		}
	}
	return nil
}

func (p *Parser) readRadixNumber(radix int) error {
	start := p.pos
	p.pos += 2
	count, err := p.readDigits(radix, true)
	if err != nil {
		return err
	}
	if count == 0 {
		return p.raisef(start+2, "Expected number in radix %d.", radix)
	}

	digits := strings.ReplaceAll(string(p.input[start+2:p.pos]), "_", "")
	if p.peek(0) == 'n' {
		p.pos++
		if err := p.checkNumberEnd(); err != nil {
			return err
		}
		p.finishToken(TOKEN_BIGINT, strings.ReplaceAll(string(p.input[start:p.pos-1]), "_", ""))
		return nil
	}
	if err := p.checkNumberEnd(); err != nil {
		return err
	}
	p.finishToken(TOKEN_NUM, radixValue(digits, radix))
	return nil
}

func (p *Parser) readNumber(startsWithDot bool) error {
	start := p.pos
	isFloat := false
	legacyOctal := false

	if !startsWithDot {
		if _, err := p.readDigits(10, true); err != nil {
			return err
		}
		if p.pos-start >= 2 && p.input[start] == '0' {
			digits := p.input[start:p.pos]
			if bytes.IndexByte(digits, '_') >= 0 {
				return p.raise(start, "Numeric separator can not be used after leading 0.")
			}
			if err := p.strictModeError(start, "Legacy octal literals are not allowed in strict mode."); err != nil {
				return err
			}
			legacyOctal = bytes.IndexFunc(digits, func(r rune) bool { return r == '8' || r == '9' }) < 0
		}
	}

	next := p.peek(0)
	if next == '.' && !legacyOctal {
		isFloat = true
		p.pos++
		if _, err := p.readDigits(10, true); err != nil {
			return err
		}
		next = p.peek(0)
	}

	if (next == 'e' || next == 'E') && !legacyOctal {
		isFloat = true
		p.pos++
		if c := p.peek(0); c == '+' || c == '-' {
			p.pos++
		}
		count, err := p.readDigits(10, true)
		if err != nil {
			return err
		}
		if count == 0 {
			return p.raise(start, "Invalid number.")
		}
		next = p.peek(0)
	}

	if next == 'n' {
		if isFloat || legacyOctal || p.pos-start >= 2 && p.input[start] == '0' {
			return p.raise(start, "Invalid BigIntLiteral.")
		}
		p.pos++
		if err := p.checkNumberEnd(); err != nil {
			return err
		}
		p.finishToken(TOKEN_BIGINT, strings.ReplaceAll(string(p.input[start:p.pos-1]), "_", ""))
		return nil
	}

	if err := p.checkNumberEnd(); err != nil {
		return err
	}

	raw := strings.ReplaceAll(string(p.input[start:p.pos]), "_", "")
	if legacyOctal {
		p.finishToken(TOKEN_NUM, radixValue(raw, 8))
		return nil
	}
	p.finishToken(TOKEN_NUM, decimalValue(raw))
	return nil
}

func radixValue(digits string, radix int) float64 {
	n, ok := new(big.Int).SetString(digits, radix)
	if !ok {
		return 0
	}
	f, _ := new(big.Float).SetInt(n).Float64()
	return f
}

func decimalValue(raw string) float64 {
	if strings.HasSuffix(raw, ".") {
		raw += "0"
	}
	raw = strings.Replace(raw, ".e", ".0e", 1)
	raw = strings.Replace(raw, ".E", ".0E", 1)
	// Out of range literals become ±Inf, which is what JavaScript does too.
	f, _ := strconv.ParseFloat(raw, 64)
	return f
}

func (p *Parser) readString(quote byte) error {
	start := p.pos
	p.pos++

	var out strings.Builder
	chunkStart := p.pos
	for {
		if p.pos >= len(p.input) {
			return p.raise(start, "Unterminated string constant.")
		}
		ch := p.input[p.pos]
		if ch == quote {
			break
		}
		switch ch {
		case '\\':
			out.Write(p.input[chunkStart:p.pos])
			escaped, err := p.readEscapedChar(false)
			if err != nil {
				return err
			}
			out.WriteString(escaped)
			chunkStart = p.pos
		case '\n', '\r':
			return p.raise(start, "Unterminated string constant.")
		default:
			p.pos++
		}
	}
	out.Write(p.input[chunkStart:p.pos])
	p.pos++
	p.finishToken(TOKEN_STRING, out.String())
	return nil
}

const strictNumericEscape = "The only valid numeric escape in strict mode is '\\0'."

// loneSurrogate keeps an unpaired surrogate escape as its generalized
// UTF-8 bytes. Go strings would otherwise turn it into U+FFFD.
func loneSurrogate(code rune) string {
	return string([]byte{0xE0 | byte(code>>12), 0x80 | byte(code>>6)&0x3F, 0x80 | byte(code)&0x3F})
}

// readEscapedChar reads the escape sequence starting at the backslash under
// p.pos. On error p.pos is still past the consumed characters.
func (p *Parser) readEscapedChar(inTemplate bool) (string, error) {
	escStart := p.pos
	p.pos++
	if p.pos >= len(p.input) {
		return "", p.raise(escStart, "Unterminated string constant.")
	}
	r, size := utf8.DecodeRune(p.input[p.pos:])
	p.pos += size

	switch r {
	case 'n':
		return "\n", nil
	case 'r':
		return "\r", nil
	case 't':
		return "\t", nil
	case 'b':
		return "\b", nil
	case 'v':
		return "\v", nil
	case 'f':
		return "\f", nil
	case 'x':
		code, err := p.readHexChar(2)
		if err != nil {
			return "", err
		}
		return string(code), nil
	case 'u':
		code, err := p.readCodePoint()
		if err != nil {
			return "", err
		}
		if code >= 0xD800 && code <= 0xDBFF && p.peek(0) == '\\' && p.peek(1) == 'u' {
			save := p.pos
			p.pos += 2
			low, err := p.readCodePoint()
			if err == nil && low >= 0xDC00 && low <= 0xDFFF {
				return string((code-0xD800)<<10 + (low - 0xDC00) + 0x10000), nil
			}
			p.pos = save
		}
		if code >= 0xD800 && code <= 0xDFFF {
			return loneSurrogate(code), nil
		}
		return string(code), nil
	case '\r':
		if p.peek(0) == '\n' {
			p.pos++
		}
		return "", nil
	case '\n', 0x2028, 0x2029:
		return "", nil
	case '8', '9':
		if inTemplate {
			return "", p.raise(escStart, "Invalid escape sequence in template.")
		}
		if err := p.strictModeError(escStart+1, strictNumericEscape); err != nil {
			return "", err
		}
		return string(r), nil
	}

	if r >= '0' && r <= '7' {
		if r == '0' && !(p.peek(0) >= '0' && p.peek(0) <= '9') {
			return "\x00", nil
		}
		if inTemplate {
			return "", p.raise(escStart, "Octal escape sequences are not allowed in template strings.")
		}
		if err := p.strictModeError(escStart+1, strictNumericEscape); err != nil {
			return "", err
		}
		value := int(r - '0')
		maxDigits := 2
		if r <= '3' {
			maxDigits = 3
		}
		for i := 1; i < maxDigits && p.peek(0) >= '0' && p.peek(0) <= '7'; i++ {
			value = value*8 + int(p.peek(0)-'0')
			p.pos++
		}
		return string(rune(value)), nil
	}
	return string(r), nil
}

func (p *Parser) readHexChar(length int) (rune, error) {
	start := p.pos
	var code rune
	for i := 0; i < length; i++ {
		c := p.peek(0)
		if !isDigit(c, 16) {
			return 0, p.raise(start, "Bad character escape sequence.")
		}
		code = code*16 + rune(hexValue(c))
		p.pos++
	}
	return code, nil
}

func (p *Parser) readCodePoint() (rune, error) {
	if p.peek(0) != '{' {
		return p.readHexChar(4)
	}
	start := p.pos
	p.pos++
	var code rune
	digits := 0
	for isDigit(p.peek(0), 16) {
		code = code*16 + rune(hexValue(p.peek(0)))
		if code > 0x10FFFF {
			return 0, p.raise(start, "Code point out of bounds.")
		}
		p.pos++
		digits++
	}
	if digits == 0 || p.peek(0) != '}' {
		return 0, p.raise(start, "Bad character escape sequence.")
	}
	p.pos++
	return code, nil
}

func hexValue(c byte) int {
	switch {
	case c >= 'a':
		return int(c-'a') + 10
	case c >= 'A':
		return int(c-'A') + 10
	}
	return int(c - '0')
}

// readRegexp rescans the current '/' or '/=' token as a regular expression.
// The tokenizer cannot tell division from a regexp on its own; the parser
// calls this when it expects an expression.
func (p *Parser) readRegexp() error {
	start := p.start
	p.pos = start + 1
	inClass, escaped := false, false

	for {
		if p.pos >= len(p.input) {
			return p.raise(start, "Unterminated regular expression.")
		}
		r, size := utf8.DecodeRune(p.input[p.pos:])
		if isNewLine(r) {
			return p.raise(start, "Unterminated regular expression.")
		}
		if escaped {
			escaped = false
		} else {
			if r == '[' {
				inClass = true
			} else if r == ']' && inClass {
				inClass = false
			} else if r == '/' && !inClass {
				break
			}
			escaped = r == '\\'
		}
		p.pos += size
	}
	pattern := string(p.input[start+1 : p.pos])
	p.pos++

	flagsStart := p.pos
	for p.pos < len(p.input) {
		r, size := utf8.DecodeRune(p.input[p.pos:])
		if !isIdentifierChar(r) {
			break
		}
		p.pos += size
	}
	flags := string(p.input[flagsStart:p.pos])
	for i, f := range flags {
		if !strings.ContainsRune("dgimsuyv", f) {
			return p.raise(flagsStart+i, "Invalid regular expression flag.")
		}
		if strings.ContainsRune(flags[:i], f) {
			return p.raise(flagsStart+i, "Duplicate regular expression flag.")
		}
	}
	if strings.ContainsRune(flags, 'u') && strings.ContainsRune(flags, 'v') {
		return p.raise(flagsStart, "The 'u' and 'v' regular expression flags cannot be enabled at the same time.")
	}

	p.finishToken(TOKEN_REGEXP, &Regex{Pattern: pattern, Flags: flags})
	return nil
}

type templateChunk struct {
	start   int
	end     int
	raw     string
	cooked  *string
	tail    bool
	invalid error
}

// readTemplateChunk scans template characters from p.pos, which must sit
// right after a '`' or the '}' closing a substitution.
func (p *Parser) readTemplateChunk() (*templateChunk, error) {
	chunk := &templateChunk{start: p.pos}
	var raw, cooked strings.Builder
	rawStart, cookedStart := p.pos, p.pos

	for {
		if p.pos >= len(p.input) {
			return nil, p.raise(chunk.start-1, "Unterminated template.")
		}
		ch := p.input[p.pos]
		if ch == '`' {
			chunk.end = p.pos
			chunk.tail = true
			break
		}
		if ch == '$' && p.peek(1) == '{' {
			chunk.end = p.pos
			break
		}
		switch ch {
		case '\\':
			cooked.Write(p.input[cookedStart:p.pos])
			escaped, err := p.readEscapedChar(true)
			if err != nil {
				if chunk.invalid == nil {
					chunk.invalid = err
				}
			} else {
				cooked.WriteString(escaped)
			}
			cookedStart = p.pos
		case '\r':
			raw.Write(p.input[rawStart:p.pos])
			cooked.Write(p.input[cookedStart:p.pos])
			p.pos++
			if p.peek(0) == '\n' {
				p.pos++
			}
			raw.WriteByte('\n')
			cooked.WriteByte('\n')
			rawStart, cookedStart = p.pos, p.pos
		default:
			p.pos++
		}
	}
	raw.Write(p.input[rawStart:chunk.end])
	cooked.Write(p.input[cookedStart:chunk.end])

	chunk.raw = raw.String()
	if chunk.invalid == nil {
		value := cooked.String()
		chunk.cooked = &value
	}
	if chunk.tail {
		p.pos = chunk.end + 1
	} else {
		p.pos = chunk.end + 2
	}
	p.start = chunk.start
	p.end = p.pos
	return chunk, nil
}
