// Package lexer turns C source text into a stream of tokens, driven by a
// syntax.Descriptor rather than a hardcoded keyword/operator table. The
// scanning loop classifies the lookahead rune once, then hands off to a
// focused scan* helper.
package lexer

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/nanoc-lang/nanoc/internal/syntax"
	"github.com/nanoc-lang/nanoc/pkg/token"
)

// Error reports a lexical error together with the position it occurred at.
type Error struct {
	Pos token.Position
	Msg string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Pos, e.Msg)
}

// Lexer scans a single source buffer into tokens. It buffers ahead-of-cursor
// tokens to support Peek(n), and exposes SaveState/RestoreState so a caller
// can rewind. (The parser does not use them: it works over the fully
// tokenized slice and snapshots an index into it.)
type Lexer struct {
	desc *syntax.Descriptor

	src      []byte
	filename string

	offset int // byte offset of the next unread rune
	line   int
	col    int

	buf    []token.Token // lookahead buffer, in order
	Errors []*Error
}

// New creates a Lexer over src, reporting positions under filename.
func New(filename string, src []byte, desc *syntax.Descriptor) *Lexer {
	if desc == nil {
		desc = syntax.NewC99()
	}
	return &Lexer{
		desc:     desc,
		src:      src,
		filename: filename,
		offset:   0,
		line:     1,
		col:      1,
	}
}

// Tokenize drains a Lexer over src to completion and returns every token
// produced, including the final EOF token. It never fails fatally —
// malformed lexemes surface as ILLEGAL tokens recorded in the returned
// Lexer's Errors field, and scanning continues.
func Tokenize(filename string, src []byte, desc *syntax.Descriptor) ([]token.Token, *Lexer) {
	l := New(filename, src, desc)
	var toks []token.Token
	for {
		tok := l.Next()
		toks = append(toks, tok)
		if tok.Type == token.EOF {
			break
		}
	}
	return toks, l
}

// State is an opaque snapshot of lexer progress, usable with RestoreState.
type State struct {
	offset int
	line   int
	col    int
	buf    []token.Token
}

// SaveState captures the lexer's current position and lookahead buffer.
func (l *Lexer) SaveState() State {
	bufCopy := make([]token.Token, len(l.buf))
	copy(bufCopy, l.buf)
	return State{offset: l.offset, line: l.line, col: l.col, buf: bufCopy}
}

// RestoreState rewinds the lexer to a previously saved State.
func (l *Lexer) RestoreState(s State) {
	l.offset = s.offset
	l.line = s.line
	l.col = s.col
	l.buf = make([]token.Token, len(s.buf))
	copy(l.buf, s.buf)
}

// Peek returns the token n positions ahead without consuming it (Peek(0) is
// the next token to be returned by Next).
func (l *Lexer) Peek(n int) token.Token {
	for len(l.buf) <= n {
		l.buf = append(l.buf, l.scan())
	}
	return l.buf[n]
}

// Next consumes and returns the next token.
func (l *Lexer) Next() token.Token {
	if len(l.buf) > 0 {
		t := l.buf[0]
		l.buf = l.buf[1:]
		return t
	}
	return l.scan()
}

func (l *Lexer) pos() token.Position {
	return token.Position{Filename: l.filename, Line: l.line, Column: l.col, Offset: l.offset}
}

func (l *Lexer) errorf(pos token.Position, format string, args ...any) {
	l.Errors = append(l.Errors, &Error{Pos: pos, Msg: fmt.Sprintf(format, args...)})
}

// peekByte returns the byte at the given forward offset from the cursor, or
// 0 past end of input.
func (l *Lexer) peekByte(off int) byte {
	i := l.offset + off
	if i >= len(l.src) {
		return 0
	}
	return l.src[i]
}

func (l *Lexer) peekRune() (rune, int) {
	if l.offset >= len(l.src) {
		return 0, 0
	}
	r, size := utf8.DecodeRune(l.src[l.offset:])
	return r, size
}

func (l *Lexer) advanceRune() (rune, int) {
	r, size := l.peekRune()
	if size == 0 {
		return 0, 0
	}
	l.offset += size
	if r == '\n' {
		l.line++
		l.col = 1
	} else {
		l.col++
	}
	return r, size
}

func (l *Lexer) rest() string {
	return string(l.src[l.offset:])
}

// scan produces exactly one token, after skipping any leading trivia.
func (l *Lexer) scan() token.Token {
	for {
		l.skipWhitespace()
		if l.skipComment() {
			continue
		}
		if l.desc.Features.PreprocessorLines && l.atLineDirective() {
			l.consumeLineDirective()
			continue
		}
		break
	}

	startPos := l.pos()
	r, size := l.peekRune()
	if size == 0 {
		return token.New(token.EOF, "", startPos)
	}

	switch {
	case l.desc.IsIdentifierStart(r):
		return l.scanIdentifier(startPos)
	case l.desc.IsDigit(r):
		return l.scanNumber(startPos)
	case r == l.desc.StringQuote:
		return l.scanString(startPos)
	case r == l.desc.CharQuote:
		return l.scanChar(startPos)
	case r == '.' && l.desc.IsDigit(rune(l.peekByte(1))) && l.desc.Features.FloatLiterals:
		return l.scanNumber(startPos)
	}

	if sym, ok := l.desc.MatchOperator(l.rest()); ok {
		l.advanceN(len(sym.Text))
		return token.New(sym.Kind, sym.Text, startPos)
	}
	if sym, ok := l.desc.MatchPunct(l.rest()); ok {
		l.advanceN(len(sym.Text))
		return token.New(sym.Kind, sym.Text, startPos)
	}

	l.advanceRune()
	l.errorf(startPos, "illegal character %q", r)
	return token.New(token.ILLEGAL, string(r), startPos)
}

func (l *Lexer) advanceN(n int) {
	for i := 0; i < n; {
		_, size := l.advanceRune()
		if size == 0 {
			return
		}
		i += size
	}
}

func (l *Lexer) skipWhitespace() {
	for {
		r, size := l.peekRune()
		if size == 0 || !l.desc.IsWhitespace(r) {
			return
		}
		l.advanceRune()
	}
}

// skipComment consumes one line or block comment if present at the cursor,
// reporting whether it consumed anything.
func (l *Lexer) skipComment() bool {
	if c := l.desc.Comments.LineStart; c != "" && strings.HasPrefix(l.rest(), c) {
		l.advanceN(len(c))
		for {
			r, size := l.peekRune()
			if size == 0 || r == '\n' {
				break
			}
			l.advanceRune()
		}
		return true
	}
	if start := l.desc.Comments.BlockStart; start != "" && strings.HasPrefix(l.rest(), start) {
		startPos := l.pos()
		l.advanceN(len(start))
		end := l.desc.Comments.BlockEnd
		for {
			if strings.HasPrefix(l.rest(), end) {
				l.advanceN(len(end))
				return true
			}
			_, size := l.advanceRune()
			if size == 0 {
				l.errorf(startPos, "unterminated block comment")
				return true
			}
		}
	}
	return false
}

func (l *Lexer) scanIdentifier(start token.Position) token.Token {
	var sb strings.Builder
	for {
		r, size := l.peekRune()
		if size == 0 || !l.desc.IsIdentifierContinue(r) {
			break
		}
		sb.WriteRune(r)
		l.advanceRune()
	}
	lit := sb.String()
	if kind, ok := l.desc.LookupKeyword(lit); ok {
		return token.New(kind, lit, start)
	}
	return token.New(token.IDENT, lit, start)
}

func isHexDigit(b byte) bool {
	return (b >= '0' && b <= '9') || (b >= 'a' && b <= 'f') || (b >= 'A' && b <= 'F')
}

// scanNumber scans an integer or floating literal starting at the cursor.
// It supports hex (0x), binary (0b), octal (0 prefix), decimal, and
// (when FloatLiterals is enabled) fractional/exponent floats, gated by the
// descriptor's Features flags.
func (l *Lexer) scanNumber(start token.Position) token.Token {
	var sb strings.Builder
	isFloat := false

	if l.peekByte(0) == '0' && (l.peekByte(1) == 'x' || l.peekByte(1) == 'X') && l.desc.Features.HexLiterals {
		sb.WriteByte(l.mustAdvanceByte())
		sb.WriteByte(l.mustAdvanceByte())
		for isHexDigit(l.peekByte(0)) {
			sb.WriteByte(l.mustAdvanceByte())
		}
		return l.finishInteger(start, sb.String(), 16)
	}
	if l.peekByte(0) == '0' && (l.peekByte(1) == 'b' || l.peekByte(1) == 'B') && l.desc.Features.BinaryLiterals {
		sb.WriteByte(l.mustAdvanceByte())
		sb.WriteByte(l.mustAdvanceByte())
		for l.peekByte(0) == '0' || l.peekByte(0) == '1' {
			sb.WriteByte(l.mustAdvanceByte())
		}
		return l.finishInteger(start, sb.String(), 2)
	}

	for l.desc.IsDigit(rune(l.peekByte(0))) {
		sb.WriteByte(l.mustAdvanceByte())
	}

	if l.desc.Features.FloatLiterals && l.peekByte(0) == '.' {
		isFloat = true
		sb.WriteByte(l.mustAdvanceByte())
		for l.desc.IsDigit(rune(l.peekByte(0))) {
			sb.WriteByte(l.mustAdvanceByte())
		}
	}
	if l.desc.Features.ScientificNotation && (l.peekByte(0) == 'e' || l.peekByte(0) == 'E') {
		isFloat = true
		sb.WriteByte(l.mustAdvanceByte())
		if l.peekByte(0) == '+' || l.peekByte(0) == '-' {
			sb.WriteByte(l.mustAdvanceByte())
		}
		for l.desc.IsDigit(rune(l.peekByte(0))) {
			sb.WriteByte(l.mustAdvanceByte())
		}
	}

	if isFloat {
		// Trailing f/F/l/L float suffix, consumed but not retained in the lexeme's value.
		lit := sb.String()
		if l.peekByte(0) == 'f' || l.peekByte(0) == 'F' || l.peekByte(0) == 'l' || l.peekByte(0) == 'L' {
			l.mustAdvanceByte()
		}
		typ := token.FLOAT
		f, err := strconv.ParseFloat(lit, 64)
		if err != nil {
			l.errorf(start, "invalid float literal %q", lit)
			typ = token.ILLEGAL
		}
		return token.Token{Type: typ, Literal: lit, Pos: start, Value: token.Value{Float: f}}
	}

	lit := sb.String()
	base := 10
	if len(lit) > 1 && lit[0] == '0' && l.desc.Features.OctalLiterals {
		base = 8
	}
	return l.finishInteger(start, lit, base)
}

func (l *Lexer) mustAdvanceByte() byte {
	b := l.peekByte(0)
	l.advanceRune()
	return b
}

func (l *Lexer) finishInteger(start token.Position, lit string, base int) token.Token {
	val := token.Value{}
	for {
		switch l.peekByte(0) {
		case 'u', 'U':
			val.IsUint = true
			l.mustAdvanceByte()
			continue
		case 'l', 'L':
			val.IsLong = true
			l.mustAdvanceByte()
			continue
		}
		break
	}

	digits := lit
	switch base {
	case 16:
		digits = strings.TrimPrefix(strings.TrimPrefix(lit, "0x"), "0X")
	case 2:
		digits = strings.TrimPrefix(strings.TrimPrefix(lit, "0b"), "0B")
	}
	if digits == "" {
		digits = "0"
	}
	typ := token.INT
	n, err := strconv.ParseUint(digits, base, 64)
	if err != nil {
		l.errorf(start, "invalid integer literal %q", lit)
		typ = token.ILLEGAL
	}
	val.Int = int64(n)
	return token.Token{Type: typ, Literal: lit, Pos: start, Value: val}
}

// scanString keeps two representations of the literal: the
// raw lexeme including quotes and undecoded escapes in Literal (so
// concatenating lexemes round-trips the input), and the decoded text in
// the value payload.
func (l *Lexer) scanString(start token.Position) token.Token {
	quote := l.desc.StringQuote
	rawStart := l.offset
	l.advanceRune() // opening quote
	typ := token.STRING
	var sb strings.Builder
	for {
		r, size := l.peekRune()
		if size == 0 {
			l.errorf(start, "unterminated string literal")
			typ = token.ILLEGAL
			break
		}
		if r == quote {
			l.advanceRune()
			break
		}
		if r == l.desc.Escape {
			l.advanceRune()
			decoded, ok := l.scanEscape()
			if !ok {
				l.errorf(start, "invalid escape sequence")
				typ = token.ILLEGAL
			}
			sb.WriteRune(decoded)
			continue
		}
		if r == '\n' {
			l.errorf(start, "unterminated string literal")
			typ = token.ILLEGAL
			break
		}
		sb.WriteRune(r)
		l.advanceRune()
	}
	raw := string(l.src[rawStart:l.offset])
	return token.Token{Type: typ, Literal: raw, Pos: start, Value: token.Value{Str: sb.String()}}
}

func (l *Lexer) scanChar(start token.Position) token.Token {
	quote := l.desc.CharQuote
	rawStart := l.offset
	l.advanceRune() // opening quote
	typ := token.CHAR
	var ch rune
	r, size := l.peekRune()
	switch {
	case size == 0:
		l.errorf(start, "unterminated character literal")
		typ = token.ILLEGAL
	case r == l.desc.Escape:
		l.advanceRune()
		decoded, ok := l.scanEscape()
		if !ok {
			l.errorf(start, "invalid escape sequence")
			typ = token.ILLEGAL
		}
		ch = decoded
	default:
		ch = r
		l.advanceRune()
	}
	if l.peekRuneEq(quote) {
		l.advanceRune()
	} else {
		l.errorf(start, "unterminated character literal")
		typ = token.ILLEGAL
	}
	raw := string(l.src[rawStart:l.offset])
	return token.Token{Type: typ, Literal: raw, Pos: start, Value: token.Value{Char: ch}}
}

var simpleEscapes = map[rune]rune{
	'n': '\n', 't': '\t', 'r': '\r', '0': 0,
	'\\': '\\', '\'': '\'', '"': '"', 'a': '\a', 'b': '\b', 'f': '\f', 'v': '\v',
}

func (l *Lexer) scanEscape() (rune, bool) {
	r, size := l.peekRune()
	if size == 0 {
		return 0, false
	}
	if decoded, ok := simpleEscapes[r]; ok {
		l.advanceRune()
		return decoded, true
	}
	if r == 'x' {
		l.advanceRune()
		var sb strings.Builder
		for isHexDigit(l.peekByte(0)) {
			sb.WriteByte(l.mustAdvanceByte())
		}
		n, err := strconv.ParseUint(sb.String(), 16, 32)
		if err != nil {
			return 0, false
		}
		return rune(n), true
	}
	// Unrecognized escape: consume the character and pass it through
	// literally, matching common compiler leniency for unknown escapes.
	l.advanceRune()
	return r, true
}

func (l *Lexer) peekRuneEq(r rune) bool {
	got, _ := l.peekRune()
	return got == r
}
