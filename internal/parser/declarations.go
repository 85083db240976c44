package parser

import (
	"github.com/nanoc-lang/nanoc/internal/diag"
	"github.com/nanoc-lang/nanoc/pkg/ast"
	"github.com/nanoc-lang/nanoc/pkg/token"
)

// declSpec is the result of parsing a declaration-specifier list: a base
// type plus the storage class and whether `typedef` was among the
// specifiers.
type declSpec struct {
	base      ast.Type
	storage   ast.StorageClass
	isTypedef bool
	inline    bool
}

var builtinTypeKeyword = map[token.Type]string{
	token.VOID: "void", token.CHAR_KW: "char", token.SHORT: "short", token.INT_KW: "int",
	token.LONG: "long", token.FLOAT_KW: "float", token.DOUBLE: "double",
	token.SIGNED: "signed", token.UNSIGNED: "unsigned", token.BOOL: "_Bool",
}

// parseExternalDeclaration parses one top-level construct: a function
// definition, a variable/typedef declaration (possibly several
// declarators sharing one specifier list), or a bare tag declaration. It
// returns nil (having already synchronized) on unrecoverable error.
func (p *Parser) parseExternalDeclaration() ast.Decl {
	p.skipGNUPrefixes()
	startPos := p.cur.Current().Pos

	if p.cur.Is(token.STATIC_ASSERT) {
		if !p.standard.SupportsStaticAssert() {
			p.errorf(string(diag.KindUnsupportedStandard), "'_Static_assert' requires C11 or later, but -std=%s was given", p.standard)
		}
		return p.parseStaticAssert()
	}

	spec, ok := p.parseDeclarationSpecifiers()
	if !ok {
		p.errorf(string(diag.KindUnexpectedToken), "expected a declaration, found %s", p.cur.Current().Type)
		p.synchronize()
		return nil
	}

	// A bare `struct Foo { ... };` with no declarator at all.
	if p.cur.Is(token.SEMI) {
		p.cur.Advance()
		tag := &ast.TagDecl{Tag: spec.base}
		tag.Position = startPos
		return tag
	}

	var decls []ast.Decl
	for {
		name, build := p.parseDeclarator()
		full := build(spec.base)

		if spec.isTypedef {
			if name != "" {
				p.ctx.AddTypedef(name)
			}
			decls = append(decls, ast.NewTypedefDecl(startPos, name, full))
		} else if fnType, isFunc := full.(*ast.FunctionType); isFunc && p.cur.Is(token.LBRACE) {
			body := p.parseCompoundStatement()
			fn := ast.NewFuncDecl(startPos, name, fnType.Params, fnType.Variadic, fnType.Return, body)
			fn.Storage = spec.storage
			fn.Inline = spec.inline
			return fn
		} else if fnType, isFunc := full.(*ast.FunctionType); isFunc {
			fn := ast.NewFuncDecl(startPos, name, fnType.Params, fnType.Variadic, fnType.Return, nil)
			fn.Storage = spec.storage
			decls = append(decls, fn)
		} else {
			var init ast.Expr
			if p.cur.Skip(token.ASSIGN) {
				init = p.parseAssignmentExpr()
			}
			vd := ast.NewVarDecl(startPos, name, full, init)
			vd.Storage = spec.storage
			decls = append(decls, vd)
		}

		if !p.cur.Skip(token.COMMA) {
			break
		}
	}

	if _, ok := p.expect(token.SEMI); !ok {
		p.synchronize()
	}

	if len(decls) == 1 {
		return decls[0]
	}
	group := &ast.DeclGroup{Decls: decls}
	group.Position = startPos
	return group
}

func (p *Parser) parseStaticAssert() ast.Decl {
	pos := p.cur.Current().Pos
	p.cur.Advance()
	p.expect(token.LPAREN)
	p.parseAssignmentExpr()
	if p.cur.Skip(token.COMMA) {
		p.parsePrimaryStringLiteral()
	}
	p.expect(token.RPAREN)
	p.expect(token.SEMI)
	tag := &ast.TagDecl{Tag: ast.NewNamedType(pos, "_Static_assert", ast.Qualifiers{})}
	tag.Position = pos
	return tag
}

func (p *Parser) parsePrimaryStringLiteral() {
	if p.cur.Is(token.STRING) {
		p.cur.Advance()
	}
}

// skipGNUPrefixes consumes `__extension__` prefixes.
func (p *Parser) skipGNUPrefixes() {
	for p.cur.Skip(token.EXTENSION) {
	}
	p.skipAttributes()
}

// skipAttributes consumes any number of `__attribute__((...))` groups,
// tracking paren depth through the attribute body so arbitrary argument
// lists (including nested parens) are matched correctly.
func (p *Parser) skipAttributes() {
	for p.cur.Is(token.ATTRIBUTE) {
		p.cur.Advance()
		if !p.cur.Skip(token.LPAREN) {
			p.errorf(string(diag.KindMissingAttributeParen), "expected '(' after __attribute__")
			continue
		}
		depth := 1
		for depth > 0 && !p.cur.AtEOF() {
			switch p.cur.Current().Type {
			case token.LPAREN:
				depth++
			case token.RPAREN:
				depth--
			}
			p.cur.Advance()
		}
	}
}

// parseDeclarationSpecifiers parses the storage-class/type-qualifier/
// type-specifier sequence that begins a declaration.
func (p *Parser) parseDeclarationSpecifiers() (declSpec, bool) {
	var spec declSpec
	var quals ast.Qualifiers
	var kwParts []string
	var namedBase ast.Type
	sawAny := false
	pos := p.cur.Current().Pos

	for {
		p.skipAttributes()
		tok := p.cur.Current()
		switch tok.Type {
		case token.TYPEDEF:
			spec.isTypedef = true
			spec.storage = ast.StorageTypedef
			p.cur.Advance()
			sawAny = true
			continue
		case token.STATIC:
			spec.storage = ast.StorageStatic
			p.cur.Advance()
			sawAny = true
			continue
		case token.EXTERN:
			spec.storage = ast.StorageExtern
			p.cur.Advance()
			sawAny = true
			continue
		case token.REGISTER:
			spec.storage = ast.StorageRegister
			p.cur.Advance()
			sawAny = true
			continue
		case token.AUTO:
			spec.storage = ast.StorageAuto
			p.cur.Advance()
			sawAny = true
			continue
		case token.INLINE:
			spec.inline = true
			p.cur.Advance()
			sawAny = true
			continue
		case token.CONST:
			quals.Const = true
			p.cur.Advance()
			sawAny = true
			continue
		case token.VOLATILE:
			quals.Volatile = true
			p.cur.Advance()
			sawAny = true
			continue
		case token.RESTRICT:
			quals.Restrict = true
			p.cur.Advance()
			sawAny = true
			continue
		case token.ATOMIC:
			if p.standard.SupportsAtomicSpecifier() {
				quals.Atomic = true
			}
			p.cur.Advance()
			sawAny = true
			continue
		case token.STRUCT, token.UNION, token.ENUM:
			namedBase = p.parseTagSpecifier()
			sawAny = true
			continue
		case token.TYPEOF:
			p.cur.Advance()
			p.expect(token.LPAREN)
			// typeof's operand is evaluated for its static type by a full
			// semantic pass this core does not perform; the operand is
			// parsed for well-formedness only (as the parenthesized
			// expression grammar) and the result type left unspecified.
			p.parseExpression()
			p.expect(token.RPAREN)
			namedBase = ast.NewNamedType(tok.Pos, "__typeof__", ast.Qualifiers{})
			sawAny = true
			continue
		}

		if kw, ok := builtinTypeKeyword[tok.Type]; ok {
			kwParts = append(kwParts, kw)
			p.cur.Advance()
			sawAny = true
			continue
		}

		if tok.Type == token.IDENT && namedBase == nil && len(kwParts) == 0 && p.ctx.IsTypeName(tok.Literal) {
			namedBase = ast.NewNamedType(tok.Pos, tok.Literal, ast.Qualifiers{})
			p.cur.Advance()
			sawAny = true
			continue
		}

		break
	}

	if !sawAny {
		return declSpec{}, false
	}

	if namedBase == nil {
		name := "int"
		if len(kwParts) > 0 {
			name = joinTypeName(kwParts)
		}
		namedBase = ast.NewNamedType(pos, name, quals)
	} else if nt, ok := namedBase.(*ast.NamedType); ok {
		nt.Quals = quals
	}
	spec.base = namedBase
	return spec, true
}

func joinTypeName(parts []string) string {
	out := parts[0]
	for _, p := range parts[1:] {
		out += " " + p
	}
	return out
}

// parseTagSpecifier parses `struct|union|enum Tag? { ... }?`.
func (p *Parser) parseTagSpecifier() ast.Type {
	kindTok := p.cur.Advance()
	pos := kindTok.Pos
	p.skipAttributes()

	var tag string
	if p.cur.Is(token.IDENT) {
		tag = p.cur.Advance().Literal
	}

	switch kindTok.Type {
	case token.STRUCT:
		if tag != "" {
			p.ctx.AddStructTag(tag)
		}
		if !p.cur.Is(token.LBRACE) {
			return &ast.StructType{Tag: tag}
		}
		return &ast.StructType{Tag: tag, Fields: p.parseFieldList()}
	case token.UNION:
		if tag != "" {
			p.ctx.AddUnionTag(tag)
		}
		if !p.cur.Is(token.LBRACE) {
			return &ast.UnionType{Tag: tag}
		}
		return &ast.UnionType{Tag: tag, Fields: p.parseFieldList()}
	default: // token.ENUM
		if tag != "" {
			p.ctx.AddEnumTag(tag)
		}
		if !p.cur.Is(token.LBRACE) {
			return &ast.EnumType{Tag: tag}
		}
		return &ast.EnumType{Tag: tag, Enumerators: p.parseEnumeratorList(pos)}
	}
}

func (p *Parser) parseFieldList() []*ast.Field {
	p.expect(token.LBRACE)
	var fields []*ast.Field
	for !p.cur.Is(token.RBRACE) && !p.cur.AtEOF() {
		spec, ok := p.parseDeclarationSpecifiers()
		if !ok {
			p.errorf(string(diag.KindUnexpectedToken), "expected a field declaration")
			p.cur.Advance()
			continue
		}
		for {
			fieldPos := p.cur.Current().Pos
			name, build := p.parseDeclarator()
			full := build(spec.base)
			f := &ast.Field{Name: name, Type: full}
			f.Position = fieldPos
			if p.cur.Skip(token.COLON) {
				f.Bits = p.parseAssignmentExpr()
			}
			fields = append(fields, f)
			if !p.cur.Skip(token.COMMA) {
				break
			}
		}
		p.expect(token.SEMI)
	}
	p.expect(token.RBRACE)
	return fields
}

func (p *Parser) parseEnumeratorList(pos token.Position) []*ast.Enumerator {
	p.expect(token.LBRACE)
	var enums []*ast.Enumerator
	for !p.cur.Is(token.RBRACE) && !p.cur.AtEOF() {
		namePos := p.cur.Current().Pos
		name := ""
		if p.cur.Is(token.IDENT) {
			name = p.cur.Advance().Literal
		}
		e := &ast.Enumerator{Name: name}
		e.Position = namePos
		if p.cur.Skip(token.ASSIGN) {
			e.Value = p.parseAssignmentExpr()
		}
		enums = append(enums, e)
		if !p.cur.Skip(token.COMMA) {
			break
		}
	}
	p.expect(token.RBRACE)
	return enums
}

// --- declarator parsing ---------------------------------------------------

// parseDeclarator parses a declarator (pointer prefix, direct-declarator,
// including grouping parens, and this level's own postfix suffixes) and
// returns its declared name (empty for an abstract declarator) plus a
// build function that composes the full type given the declaration's base
// type. `build` is a continuation rather than a direct type value
// because a grouped sub-declarator's effective base is only known after
// parsing suffixes that come lexically after its closing paren.
func (p *Parser) parseDeclarator() (string, func(ast.Type) ast.Type) {
	ptrQuals := p.consumePointerPrefix()
	headName, headBuild := p.parseDirectDeclaratorHead()
	suffixBuild := p.parseSuffixChain()

	build := func(base ast.Type) ast.Type {
		t := base
		for _, q := range ptrQuals {
			t = ast.NewPointerType(base.Pos(), t, q)
		}
		withSuffixes := suffixBuild(t)
		return headBuild(withSuffixes)
	}
	return headName, build
}

func (p *Parser) consumePointerPrefix() []ast.Qualifiers {
	var quals []ast.Qualifiers
	for p.cur.Is(token.STAR) {
		p.cur.Advance()
		var q ast.Qualifiers
		for {
			switch p.cur.Current().Type {
			case token.CONST:
				q.Const = true
			case token.VOLATILE:
				q.Volatile = true
			case token.RESTRICT:
				q.Restrict = true
			case token.ATOMIC:
				q.Atomic = true
			default:
				goto done
			}
			p.cur.Advance()
		}
	done:
		quals = append(quals, q)
	}
	return quals
}

func identityType(t ast.Type) ast.Type { return t }

func (p *Parser) parseDirectDeclaratorHead() (string, func(ast.Type) ast.Type) {
	switch {
	case p.cur.Is(token.IDENT):
		name := p.cur.Advance().Literal
		return name, identityType
	case p.cur.Is(token.LPAREN) && (p.cur.Peek(1).Type == token.STAR || p.cur.Peek(1).Type == token.LPAREN):
		p.cur.Advance()
		name, build := p.parseDeclarator()
		p.expect(token.RPAREN)
		return name, build
	default:
		return "", identityType
	}
}

func (p *Parser) parseSuffixChain() func(ast.Type) ast.Type {
	build := identityType
	for {
		switch {
		case p.cur.Is(token.LBRACK):
			pos := p.cur.Advance().Pos
			var length ast.Expr
			if !p.cur.Is(token.RBRACK) {
				length = p.parseAssignmentExpr()
			}
			p.expect(token.RBRACK)
			// Suffixes bind left to right: the first one parsed is the
			// outermost type (`a[2][3]` is array[2] of array[3]), so each
			// new suffix wraps the base before the accumulated chain does.
			prev := build
			build = func(base ast.Type) ast.Type {
				return prev(ast.NewArrayType(pos, base, length))
			}
		case p.cur.Is(token.LPAREN):
			pos := p.cur.Advance().Pos
			params, variadic := p.parseParamList()
			p.expect(token.RPAREN)
			prev := build
			build = func(base ast.Type) ast.Type {
				return prev(ast.NewFunctionType(pos, params, variadic, base))
			}
		default:
			return build
		}
	}
}

func (p *Parser) parseParamList() ([]*ast.Param, bool) {
	var params []*ast.Param
	if p.cur.Is(token.RPAREN) {
		return params, false
	}
	if p.cur.Is(token.VOID) && p.cur.Peek(1).Type == token.RPAREN {
		p.cur.Advance()
		return params, false
	}
	variadic := false
	for {
		if p.cur.Skip(token.ELLIPSIS) {
			variadic = true
			break
		}
		spec, ok := p.parseDeclarationSpecifiers()
		if !ok {
			break
		}
		pos := p.cur.Current().Pos
		name, build := p.parseDeclarator()
		params = append(params, ast.NewParam(pos, name, build(spec.base)))
		if !p.cur.Skip(token.COMMA) {
			break
		}
	}
	return params, variadic
}

// parseTypeName parses an abstract type name used in a cast or sizeof
// operand: a declaration-specifier list followed by an (optional)
// abstract declarator.
func (p *Parser) parseTypeName() (ast.Type, bool) {
	spec, ok := p.parseDeclarationSpecifiers()
	if !ok {
		return nil, false
	}
	_, build := p.parseDeclarator()
	return build(spec.base), true
}
