package parser

import "github.com/nanoc-lang/nanoc/pkg/token"

// statementStarters are tokens that can legally begin a statement; used
// by synchronize to find a resumption point.
var statementStarters = map[token.Type]bool{
	token.IF: true, token.SWITCH: true, token.WHILE: true, token.DO: true,
	token.FOR: true, token.GOTO: true, token.CONTINUE: true, token.BREAK: true,
	token.RETURN: true, token.LBRACE: true, token.CASE: true, token.DEFAULT: true,
}

// declarationStarters are tokens that can legally begin a declaration's
// specifier list.
var declarationStarters = map[token.Type]bool{
	token.TYPEDEF: true, token.EXTERN: true, token.STATIC: true, token.AUTO: true,
	token.REGISTER: true, token.INLINE: true,
	token.CONST: true, token.VOLATILE: true, token.RESTRICT: true, token.ATOMIC: true,
	token.VOID: true, token.CHAR_KW: true, token.SHORT: true, token.INT_KW: true,
	token.LONG: true, token.FLOAT_KW: true, token.DOUBLE: true, token.SIGNED: true,
	token.UNSIGNED: true, token.BOOL: true, token.COMPLEX: true,
	token.STRUCT: true, token.UNION: true, token.ENUM: true,
	token.STATIC_ASSERT: true, token.ALIGNAS: true, token.TYPEOF: true,
	token.EXTENSION: true, token.ATTRIBUTE: true,
}

func blockClosers(k token.Type) bool { return k == token.RBRACE }

// isDeclarationStart reports whether the current token can open a
// declaration-specifier list: either a grammar keyword, or an identifier
// that the typedef oracle recognizes as a type name.
func (p *Parser) isDeclarationStart() bool {
	cur := p.cur.Current()
	if declarationStarters[cur.Type] {
		return true
	}
	if cur.Type == token.IDENT {
		return p.ctx.IsTypeName(cur.Literal)
	}
	return false
}

// synchronize implements panic-mode recovery: advance past the next
// semicolon, or stop before a declaration-starter, a statement-starter or
// any closing brace, so the caller can resume parsing a fresh construct
// rather than cascading errors from the same failure.
func (p *Parser) synchronize() {
	p.panicMode = true
	for !p.cur.AtEOF() {
		if p.cur.Is(token.SEMI) {
			p.cur.Advance()
			return
		}
		if blockClosers(p.cur.Current().Type) {
			return
		}
		if p.isDeclarationStart() || statementStarters[p.cur.Current().Type] {
			return
		}
		p.cur.Advance()
	}
}

// errorf reports a syntax-error diagnostic of the given kind at the
// current token and bumps the consecutive-error counter that triggers
// more aggressive resynchronization after ten failures in a row.
func (p *Parser) errorf(kind string, format string, args ...any) {
	p.reportSyntaxError(kind, p.cur.Current().Pos, format, args...)
	p.consecutiveErrors++
	if p.consecutiveErrors >= 10 {
		// Ten straight failures: drop all the way to the next top-level
		// declaration boundary instead of the narrower statement-level sync.
		for !p.cur.AtEOF() && !p.isDeclarationStart() && !blockClosers(p.cur.Current().Type) {
			p.cur.Advance()
		}
		p.consecutiveErrors = 0
	}
}

func (p *Parser) resetErrorStreak() {
	p.consecutiveErrors = 0
}
