package parser

import (
	"github.com/nanoc-lang/nanoc/internal/diag"
	"github.com/nanoc-lang/nanoc/pkg/ast"
	"github.com/nanoc-lang/nanoc/pkg/token"
)

// loopDepth/switchDepth count the enclosing loops and switches. The parser
// does not report break/continue outside a loop: the statement parses like
// any other, and lowering, whose loop stack decides what a break or
// continue targets, reports it.

// parseCompoundStatement parses a `{ ... }` block, descending a scope
// level in ParseContext for the duration (the typedef/tag sets
// themselves remain flat).
func (p *Parser) parseCompoundStatement() *ast.CompoundStmt {
	pos := p.cur.Current().Pos
	p.expect(token.LBRACE)
	p.ctx.PushScope()
	defer p.ctx.PopScope()

	var stmts []ast.Stmt
	for !p.cur.Is(token.RBRACE) && !p.cur.AtEOF() {
		before := p.cur.Mark()
		if s := p.parseBlockItem(); s != nil {
			stmts = append(stmts, s)
		}
		if p.cur.Mark() == before {
			p.cur.Advance()
		}
	}
	p.expect(token.RBRACE)
	return ast.NewCompoundStmt(pos, stmts)
}

// parseBlockItem dispatches between a declaration and a statement using
// the typedef oracle to resolve the declaration/expression-statement
// ambiguity.
func (p *Parser) parseBlockItem() ast.Stmt {
	if p.isDeclarationStart() {
		pos := p.cur.Current().Pos
		decl := p.parseExternalDeclaration()
		if decl == nil {
			return nil
		}
		return ast.NewDeclStmt(pos, decl)
	}
	return p.parseStatement()
}

func (p *Parser) parseStatement() ast.Stmt {
	pos := p.cur.Current().Pos
	switch p.cur.Current().Type {
	case token.LBRACE:
		return p.parseCompoundStatement()
	case token.IF:
		return p.parseIfStatement()
	case token.SWITCH:
		return p.parseSwitchStatement()
	case token.WHILE:
		return p.parseWhileStatement()
	case token.DO:
		return p.parseDoWhileStatement()
	case token.FOR:
		return p.parseForStatement()
	case token.BREAK:
		p.cur.Advance()
		p.expect(token.SEMI)
		return ast.NewBreakStmt(pos)
	case token.CONTINUE:
		p.cur.Advance()
		p.expect(token.SEMI)
		return ast.NewContinueStmt(pos)
	case token.RETURN:
		p.cur.Advance()
		var value ast.Expr
		if !p.cur.Is(token.SEMI) {
			value = p.parseExpression()
		}
		p.expect(token.SEMI)
		return ast.NewReturnStmt(pos, value)
	case token.GOTO:
		p.cur.Advance()
		label := ""
		if p.cur.Is(token.IDENT) {
			label = p.cur.Advance().Literal
		} else {
			p.errorf(string(diag.KindUnexpectedToken), "expected a label name after goto")
		}
		p.expect(token.SEMI)
		return ast.NewGotoStmt(pos, label)
	case token.CASE:
		p.cur.Advance()
		value := p.parseAssignmentExpr()
		p.expect(token.COLON)
		return ast.NewCaseStmt(pos, value, p.parseStatement())
	case token.DEFAULT:
		p.cur.Advance()
		p.expect(token.COLON)
		return ast.NewDefaultStmt(pos, p.parseStatement())
	case token.SEMI:
		p.cur.Advance()
		return ast.NewEmptyStmt(pos)
	case token.ASM_KW:
		return p.parseAsmStatement()
	case token.IDENT:
		if p.cur.Peek(1).Type == token.COLON {
			label := p.cur.Advance().Literal
			p.cur.Advance() // ':'
			return ast.NewLabeledStmt(pos, label, p.parseStatement())
		}
	}

	expr := p.parseExpression()
	if _, ok := p.expect(token.SEMI); !ok {
		p.synchronize()
	}
	return ast.NewExprStmt(pos, expr)
}

func (p *Parser) parseIfStatement() ast.Stmt {
	pos := p.cur.Advance().Pos
	p.expect(token.LPAREN)
	cond := p.parseExpression()
	p.expect(token.RPAREN)
	then := p.parseStatement()
	var els ast.Stmt
	if p.cur.Skip(token.ELSE) {
		els = p.parseStatement()
	}
	return ast.NewIfStmt(pos, cond, then, els)
}

func (p *Parser) parseSwitchStatement() ast.Stmt {
	pos := p.cur.Advance().Pos
	p.expect(token.LPAREN)
	tag := p.parseExpression()
	p.expect(token.RPAREN)
	p.switchDepth++
	body := p.parseStatement()
	p.switchDepth--
	return ast.NewSwitchStmt(pos, tag, body)
}

func (p *Parser) parseWhileStatement() ast.Stmt {
	pos := p.cur.Advance().Pos
	p.expect(token.LPAREN)
	cond := p.parseExpression()
	p.expect(token.RPAREN)
	p.loopDepth++
	body := p.parseStatement()
	p.loopDepth--
	return ast.NewWhileStmt(pos, cond, body)
}

func (p *Parser) parseDoWhileStatement() ast.Stmt {
	pos := p.cur.Advance().Pos
	p.loopDepth++
	body := p.parseStatement()
	p.loopDepth--
	p.expect(token.WHILE)
	p.expect(token.LPAREN)
	cond := p.parseExpression()
	p.expect(token.RPAREN)
	p.expect(token.SEMI)
	return ast.NewDoWhileStmt(pos, body, cond)
}

// parseForStatement handles the C99 "declaration in the for-header" case:
// when the standard supports it and
// the header opens with a declaration-starter, the init clause is parsed
// as a DeclStmt rather than an expression statement.
func (p *Parser) parseForStatement() ast.Stmt {
	pos := p.cur.Advance().Pos
	p.expect(token.LPAREN)
	p.ctx.PushScope()
	defer p.ctx.PopScope()

	var initStmt ast.Stmt
	if p.cur.Is(token.SEMI) {
		p.cur.Advance()
	} else if p.standard.SupportsDeclarationInForHeader() && p.isDeclarationStart() {
		declPos := p.cur.Current().Pos
		decl := p.parseExternalDeclaration()
		initStmt = ast.NewDeclStmt(declPos, decl)
	} else {
		exprPos := p.cur.Current().Pos
		expr := p.parseExpression()
		p.expect(token.SEMI)
		initStmt = ast.NewExprStmt(exprPos, expr)
	}

	var cond ast.Expr
	if !p.cur.Is(token.SEMI) {
		cond = p.parseExpression()
	}
	p.expect(token.SEMI)

	var post ast.Expr
	if !p.cur.Is(token.RPAREN) {
		post = p.parseExpression()
	}
	p.expect(token.RPAREN)

	p.loopDepth++
	body := p.parseStatement()
	p.loopDepth--
	return ast.NewForStmt(pos, initStmt, cond, post, body)
}

// parseAsmStatement tolerates GNU inline assembly as an opaque blob: the
// operand/clobber-list grammar is not modeled, only the code string and
// whether the block carries the `volatile` qualifier.
func (p *Parser) parseAsmStatement() ast.Stmt {
	pos := p.cur.Advance().Pos
	volatile := p.cur.Skip(token.VOLATILE)
	p.expect(token.LPAREN)
	code := ""
	if p.cur.Is(token.STRING) {
		code = p.cur.Advance().Value.Str
	}
	depth := 1
	for depth > 0 && !p.cur.AtEOF() {
		switch p.cur.Current().Type {
		case token.LPAREN:
			depth++
		case token.RPAREN:
			depth--
		}
		if depth > 0 {
			p.cur.Advance()
		}
	}
	p.expect(token.RPAREN)
	p.expect(token.SEMI)
	return ast.NewAsmStmt(pos, code, volatile)
}
