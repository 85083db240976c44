package lexer

import "strconv"

// atLineDirective reports whether the cursor sits at the start of a
// preprocessor line marker: a '#' in column 1 (ignoring leading
// whitespace already skipped by the caller) followed by a decimal line
// number, e.g. `# 12 "foo.h" 1`. These are what a C preprocessor leaves
// behind in its output; this lexer never runs a preprocessor itself, it
// only honors markers already present in the input.
func (l *Lexer) atLineDirective() bool {
	if l.peekByte(0) != '#' {
		return false
	}
	i := 1
	for l.peekByte(i) == ' ' || l.peekByte(i) == '\t' {
		i++
	}
	return l.peekByte(i) >= '0' && l.peekByte(i) <= '9'
}

// consumeLineDirective parses and applies a `# <line> "<file>" [flags...]`
// marker, rewriting the lexer's reported filename/line so subsequent token
// positions reflect the original source location rather than wherever the
// marker physically sits in the preprocessed stream.
func (l *Lexer) consumeLineDirective() {
	l.advanceRune() // '#'
	for l.peekByte(0) == ' ' || l.peekByte(0) == '\t' {
		l.advanceRune()
	}

	var lineDigits []byte
	for l.peekByte(0) >= '0' && l.peekByte(0) <= '9' {
		lineDigits = append(lineDigits, l.mustAdvanceByte())
	}
	lineNo, err := strconv.Atoi(string(lineDigits))
	if err != nil {
		// Malformed marker: skip to end of line and leave position state
		// untouched rather than guessing.
		l.skipToEndOfLine()
		return
	}

	for l.peekByte(0) == ' ' || l.peekByte(0) == '\t' {
		l.advanceRune()
	}

	if l.peekByte(0) == '"' {
		l.advanceRune()
		var name []byte
		for l.peekByte(0) != '"' && l.peekByte(0) != 0 && l.peekByte(0) != '\n' {
			name = append(name, l.mustAdvanceByte())
		}
		if l.peekByte(0) == '"' {
			l.advanceRune()
		}
		l.filename = string(name)
	}

	l.skipToEndOfLine()
	// The marker states the line number of the *next* source line.
	l.line = lineNo
	l.col = 1
}

func (l *Lexer) skipToEndOfLine() {
	for l.peekByte(0) != '\n' && l.peekByte(0) != 0 {
		l.advanceRune()
	}
	if l.peekByte(0) == '\n' {
		l.advanceRune()
	}
}
