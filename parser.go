package tick

import (
	"github.com/ticklang/tick/internal/ticklex"
)

// Parser is the hand-rolled recursive-descent collaborator spec §6.5
// describes by contract only: it turns a ticklex token stream into a
// module Node whose children are declaration nodes in source order, each
// carrying a name, qualifier flags, an optional parsed type, and an
// optional initializer.
type Parser struct {
	lex    *ticklex.Lexer
	tok    ticklex.Token
	peeked *ticklex.Token
	lines  *LineIndex
	diags  *Diagnostics
	source string
}

func NewParser(src []byte, source string, diags *Diagnostics) *Parser {
	p := &Parser{lex: ticklex.New(src), lines: NewLineIndex(src), diags: diags, source: source}
	p.advance()
	return p
}

func (p *Parser) advance() {
	if p.peeked != nil {
		p.tok = *p.peeked
		p.peeked = nil
		return
	}
	p.tok = p.lex.Next()
}

// peekNext returns the token after the current one without consuming it,
// used only for the single one-token lookahead a bare `ident:` label
// needs to disambiguate from an expression statement.
func (p *Parser) peekNext() ticklex.Token {
	if p.peeked == nil {
		t := p.lex.Next()
		p.peeked = &t
	}
	return *p.peeked
}

func (p *Parser) pos() Pos { return Pos{Line: p.tok.Line, Column: p.tok.Col} }

func (p *Parser) at(k ticklex.Kind) bool { return p.tok.Kind == k }

func (p *Parser) atPunct(s string) bool { return p.tok.Kind == ticklex.Punct && p.tok.Text == s }

func (p *Parser) expectPunct(s string) {
	if !p.atPunct(s) {
		p.errorf("expected `%s`, found `%s`", s, p.tok.Text)
		return
	}
	p.advance()
}

func (p *Parser) expect(k ticklex.Kind, what string) ticklex.Token {
	t := p.tok
	if !p.at(k) {
		p.errorf("expected %s, found `%s`", what, p.tok.Text)
		return t
	}
	p.advance()
	return t
}

func (p *Parser) errorf(format string, args ...any) {
	p.diags.Add(KindSyntactic, p.pos(), format, args...)
}

// ParseModule parses the whole token stream into a KModule node (spec
// §6.5).
func (p *Parser) ParseModule() *Node {
	mod := &Node{Kind: KModule, Pos: Pos{Line: 1, Column: 1}, Decls: NewNodeList()}
	for !p.at(ticklex.EOF) {
		d := p.parseTopDecl()
		if d != nil {
			mod.Decls.Append(d)
		}
	}
	return mod
}

func (p *Parser) parseQualifiers() QualFlags {
	var q QualFlags
	for {
		switch p.tok.Kind {
		case ticklex.KwPub:
			q |= QualPub
			p.advance()
		case ticklex.KwExtern:
			q |= QualExtern
			p.advance()
		case ticklex.KwStatic:
			q |= QualStatic
			p.advance()
		case ticklex.KwVolatile:
			q |= QualVolatile
			p.advance()
		default:
			return q
		}
	}
}

func (p *Parser) parseTopDecl() *Node {
	pos := p.pos()
	q := p.parseQualifiers()

	if p.at(ticklex.KwFn) {
		return p.parseFnDecl(pos, q)
	}
	if p.at(ticklex.KwLet) || p.at(ticklex.KwVar) {
		if p.at(ticklex.KwVar) {
			q |= QualVar
		}
		p.advance()
		return p.parseLetDecl(pos, q)
	}
	p.errorf("expected declaration, found `%s`", p.tok.Text)
	p.advance()
	return nil
}

func (p *Parser) parseFnDecl(pos Pos, q QualFlags) *Node {
	p.advance() // 'fn'
	name := p.expect(ticklex.Ident, "function name").Text
	p.expectPunct("(")
	params := p.parseParams()
	p.expectPunct(")")
	ret := p.parseOptionalType()

	fn := &Node{Kind: KFunctionDecl, Pos: pos, Params: params, Ret: ret}
	if p.atPunct("{") {
		fn.Body = p.parseBlockStatements()
	} else {
		p.expectPunct(";")
	}
	return &Node{Kind: KDecl, Pos: pos, Name: name, DeclType: q, Init: fn}
}

func (p *Parser) parseOptionalType() *Node {
	if p.atPunct("{") || p.atPunct(";") {
		return &Node{Kind: KNamedType, Pos: p.pos(), Name: "void"}
	}
	return p.parseType()
}

func (p *Parser) parseParams() *NodeList {
	list := NewNodeList()
	for !p.atPunct(")") {
		pos := p.pos()
		name := p.expect(ticklex.Ident, "parameter name").Text
		p.expectPunct(":")
		t := p.parseType()
		list.Append(&Node{Kind: KParam, Pos: pos, Name: name, VarType: t})
		if p.atPunct(",") {
			p.advance()
			continue
		}
		break
	}
	return list
}

func (p *Parser) parseType() *Node {
	pos := p.pos()
	switch {
	case p.atPunct("*"):
		p.advance()
		return &Node{Kind: KPointerType, Pos: pos, Elem: p.parseType()}
	case p.atPunct("["):
		p.advance()
		size := p.parseExpr()
		p.expectPunct("]")
		return &Node{Kind: KArrayType, Pos: pos, SizeExpr: size, Elem: p.parseType()}
	case p.at(ticklex.KwVoid):
		p.advance()
		return &Node{Kind: KNamedType, Pos: pos, Name: "void"}
	case p.at(ticklex.Ident):
		name := p.tok.Text
		p.advance()
		return &Node{Kind: KNamedType, Pos: pos, Name: name}
	default:
		p.errorf("expected a type, found `%s`", p.tok.Text)
		p.advance()
		return &Node{Kind: KNamedType, Pos: pos, Name: "void"}
	}
}

// parseLetDecl parses the remainder of a `let`/`var` declaration after the
// qualifiers and keyword: `IDENT [: type] [= init] ;`. init may be a
// struct/union/enum declaration in place of an expression (spec §6.5).
func (p *Parser) parseLetDecl(pos Pos, q QualFlags) *Node {
	name := p.expect(ticklex.Ident, "declaration name").Text
	d := &Node{Kind: KDecl, Pos: pos, Name: name, DeclType: q}

	if p.atPunct(":") {
		p.advance()
		d.VarType = p.parseType()
	}
	if p.atPunct("=") {
		p.advance()
		switch p.tok.Kind {
		case ticklex.KwStruct:
			d.Init = p.parseStructDecl()
		case ticklex.KwUnion:
			d.Init = p.parseUnionDecl()
		case ticklex.KwEnum:
			d.Init = p.parseEnumDecl()
		default:
			d.Init = p.parseExpr()
		}
	}
	p.expectPunct(";")
	return d
}

func (p *Parser) parseFieldList() *NodeList {
	list := NewNodeList()
	p.expectPunct("{")
	for !p.atPunct("}") {
		pos := p.pos()
		fname := p.expect(ticklex.Ident, "field name").Text
		p.expectPunct(":")
		ftype := p.parseType()
		list.Append(&Node{Kind: KFieldDecl, Pos: pos, Name: fname, VarType: ftype})
		if p.atPunct(",") {
			p.advance()
			continue
		}
		break
	}
	p.expectPunct("}")
	return list
}

func (p *Parser) parseStructDecl() *Node {
	pos := p.pos()
	p.advance() // 'struct'
	fields := p.parseFieldList()
	return &Node{Kind: KStructDecl, Pos: pos, Fields: fields}
}

func (p *Parser) parseUnionDecl() *Node {
	pos := p.pos()
	p.advance() // 'union'
	var tag *Node
	if p.atPunct("(") {
		p.advance()
		tag = p.parseType()
		p.expectPunct(")")
	}
	fields := p.parseFieldList()
	return &Node{Kind: KUnionDecl, Pos: pos, Fields: fields, TagType: tag}
}

func (p *Parser) parseEnumDecl() *Node {
	pos := p.pos()
	p.advance() // 'enum'
	var underlying *Node
	if p.atPunct("(") {
		p.advance()
		underlying = p.parseType()
		p.expectPunct(")")
	} else {
		underlying = &Node{Kind: KNamedType, Pos: pos, Name: "i32"}
	}
	p.expectPunct("{")
	values := NewNodeList()
	for !p.atPunct("}") {
		vpos := p.pos()
		vname := p.expect(ticklex.Ident, "enum value name").Text
		var explicit *Node
		if p.atPunct("=") {
			p.advance()
			explicit = p.parseExpr()
		}
		values.Append(&Node{Kind: KEnumValue, Pos: vpos, Name: vname, Init: explicit})
		if p.atPunct(",") {
			p.advance()
			continue
		}
		break
	}
	p.expectPunct("}")
	return &Node{Kind: KEnumDecl, Pos: pos, Underlying: underlying, Values: values}
}

// ---- statements ----

func (p *Parser) parseBlockStatements() *NodeList {
	p.expectPunct("{")
	list := NewNodeList()
	for !p.atPunct("}") && !p.at(ticklex.EOF) {
		list.Append(p.parseStmt())
	}
	p.expectPunct("}")
	return list
}

func (p *Parser) parseBlock() *Node {
	pos := p.pos()
	return &Node{Kind: KBlock, Pos: pos, Body: p.parseBlockStatements()}
}

func (p *Parser) parseStmt() *Node {
	pos := p.pos()
	switch p.tok.Kind {
	case ticklex.Punct:
		if p.atPunct("{") {
			return p.parseBlock()
		}
	case ticklex.KwLet, ticklex.KwVar:
		q := QualFlags(0)
		if p.at(ticklex.KwVar) {
			q |= QualVar
		}
		p.advance()
		return p.parseLetDecl(pos, q)
	case ticklex.KwIf:
		return p.parseIf()
	case ticklex.KwFor:
		return p.parseFor()
	case ticklex.KwSwitch:
		return p.parseSwitch()
	case ticklex.KwReturn:
		p.advance()
		var e *Node
		if !p.atPunct(";") {
			e = p.parseExpr()
		}
		p.expectPunct(";")
		return &Node{Kind: KReturn, Pos: pos, RetExpr: e}
	case ticklex.KwBreak:
		p.advance()
		p.expectPunct(";")
		return &Node{Kind: KBreak, Pos: pos}
	case ticklex.KwContinue:
		p.advance()
		p.expectPunct(";")
		return &Node{Kind: KContinue, Pos: pos}
	case ticklex.KwGoto:
		p.advance()
		name := p.expect(ticklex.Ident, "label name").Text
		p.expectPunct(";")
		return &Node{Kind: KGoto, Pos: pos, Name: name}
	}
	// label: a bare `ident :` distinguished from an expression statement by
	// one token of lookahead.
	if p.at(ticklex.Ident) {
		next := p.peekNext()
		if next.Kind == ticklex.Punct && next.Text == ":" {
			name := p.tok.Text
			p.advance()
			p.advance()
			return &Node{Kind: KLabel, Pos: pos, Name: name}
		}
	}
	e := p.parseExpr()
	p.expectPunct(";")
	return &Node{Kind: KExprStmt, Pos: pos, Operand: e}
}

func (p *Parser) parseIf() *Node {
	pos := p.pos()
	p.advance() // 'if'
	p.expectPunct("(")
	cond := p.parseExpr()
	p.expectPunct(")")
	then := p.parseBlock()
	n := &Node{Kind: KIf, Pos: pos, Cond: cond, Then: then}
	if p.at(ticklex.KwElse) {
		p.advance()
		if p.at(ticklex.KwIf) {
			n.Else = p.parseIf()
		} else {
			n.Else = p.parseBlock()
		}
	}
	return n
}

// parseFor supports the C-style three-clause form; spec §4.13 notes all
// three surface for-forms collapse to this same init/cond/step/body shape.
func (p *Parser) parseFor() *Node {
	pos := p.pos()
	p.advance() // 'for'
	p.expectPunct("(")
	n := &Node{Kind: KFor, Pos: pos}
	if !p.atPunct(";") {
		n.ForInit = p.parseStmt()
	} else {
		p.expectPunct(";")
	}
	if !p.atPunct(";") {
		n.Cond = p.parseExpr()
	}
	p.expectPunct(";")
	if !p.atPunct(")") {
		n.ForStep = &Node{Kind: KExprStmt, Pos: p.pos(), Operand: p.parseExpr()}
	}
	p.expectPunct(")")
	n.Then = p.parseBlock()
	return n
}

func (p *Parser) parseSwitch() *Node {
	pos := p.pos()
	p.advance() // 'switch'
	p.expectPunct("(")
	val := p.parseExpr()
	p.expectPunct(")")
	p.expectPunct("{")
	cases := NewNodeList()
	for !p.atPunct("}") {
		cpos := p.pos()
		var vals *NodeList
		if p.at(ticklex.KwDefault) {
			p.advance()
		} else {
			p.expect(ticklex.KwCase, "`case` or `default`")
			vals = NewNodeList()
			vals.Append(p.parseExpr())
			for p.atPunct(",") {
				p.advance()
				vals.Append(p.parseExpr())
			}
		}
		p.expectPunct(":")
		body := NewNodeList()
		for !p.at(ticklex.KwCase) && !p.at(ticklex.KwDefault) && !p.atPunct("}") {
			body.Append(p.parseStmt())
		}
		cases.Append(&Node{Kind: KSwitchCase, Pos: cpos, CaseVals: vals, Then: &Node{Kind: KBlock, Pos: cpos, Body: body}})
	}
	p.expectPunct("}")
	return &Node{Kind: KSwitch, Pos: pos, SwitchVal: val, Cases: cases}
}

// ---- expressions ----

func (p *Parser) parseExpr() *Node { return p.parseAssign() }

func (p *Parser) parseAssign() *Node {
	pos := p.pos()
	lhs := p.parseOr()
	if p.atPunct("=") {
		p.advance()
		rhs := p.parseAssign()
		return &Node{Kind: KBinary, Pos: pos, SurfOp: opAssign, Lhs: lhs, Rhs: rhs}
	}
	return lhs
}

func (p *Parser) binaryLevel(next func() *Node, ops map[string]SurfaceOp) *Node {
	pos := p.pos()
	lhs := next()
	for {
		op, ok := ops[p.tok.Text]
		if !ok || p.tok.Kind != ticklex.Punct {
			return lhs
		}
		p.advance()
		rhs := next()
		lhs = &Node{Kind: KBinary, Pos: pos, SurfOp: op, Lhs: lhs, Rhs: rhs}
	}
}

func (p *Parser) parseOr() *Node {
	return p.binaryLevel(p.parseAnd, map[string]SurfaceOp{"||": OpLogOr})
}
func (p *Parser) parseAnd() *Node {
	return p.binaryLevel(p.parseEquality, map[string]SurfaceOp{"&&": OpLogAnd})
}
func (p *Parser) parseEquality() *Node {
	return p.binaryLevel(p.parseRelational, map[string]SurfaceOp{"==": OpEq, "!=": OpNe})
}
func (p *Parser) parseRelational() *Node {
	return p.binaryLevel(p.parseBitOr, map[string]SurfaceOp{"<": OpLt, "<=": OpLe, ">": OpGt, ">=": OpGe})
}
func (p *Parser) parseBitOr() *Node {
	return p.binaryLevel(p.parseBitXor, map[string]SurfaceOp{"|": OpBitOr})
}
func (p *Parser) parseBitXor() *Node {
	return p.binaryLevel(p.parseBitAnd, map[string]SurfaceOp{"^": OpBitXor})
}
func (p *Parser) parseBitAnd() *Node {
	return p.binaryLevel(p.parseShift, map[string]SurfaceOp{"&": OpBitAnd})
}
func (p *Parser) parseShift() *Node {
	return p.binaryLevel(p.parseAdditive, map[string]SurfaceOp{"<<": OpShl, ">>": OpShr})
}
func (p *Parser) parseAdditive() *Node {
	return p.binaryLevel(p.parseTerm, map[string]SurfaceOp{"+": OpAdd, "-": OpSub})
}
func (p *Parser) parseTerm() *Node {
	return p.binaryLevel(p.parseOrElse, map[string]SurfaceOp{"*": OpMul, "/": OpDiv, "%": OpMod})
}

func (p *Parser) parseOrElse() *Node {
	pos := p.pos()
	lhs := p.parseUnary()
	for p.at(ticklex.KwOrelse) {
		p.advance()
		rhs := p.parseUnary()
		lhs = &Node{Kind: KBinary, Pos: pos, SurfOp: OpOrElse, Lhs: lhs, Rhs: rhs}
	}
	return lhs
}

func (p *Parser) parseUnary() *Node {
	pos := p.pos()
	switch {
	case p.atPunct("-"):
		p.advance()
		return &Node{Kind: KUnary, Pos: pos, SurfOp: OpNeg, Operand: p.parseUnary()}
	case p.atPunct("!"):
		p.advance()
		return &Node{Kind: KUnary, Pos: pos, SurfOp: OpNot, Operand: p.parseUnary()}
	case p.atPunct("~"):
		p.advance()
		return &Node{Kind: KUnary, Pos: pos, SurfOp: OpBitNot, Operand: p.parseUnary()}
	case p.atPunct("&"):
		p.advance()
		return &Node{Kind: KUnary, Pos: pos, SurfOp: OpAddrOf, Operand: p.parseUnary()}
	case p.atPunct("*"):
		p.advance()
		return &Node{Kind: KUnary, Pos: pos, SurfOp: OpDeref, Operand: p.parseUnary()}
	}
	return p.parseCast()
}

func (p *Parser) parseCast() *Node {
	pos := p.pos()
	e := p.parsePostfix()
	for p.at(ticklex.KwAs) {
		p.advance()
		t := p.parseType()
		e = &Node{Kind: KCast, Pos: pos, Operand: e, VarType: t}
	}
	return e
}

func (p *Parser) parsePostfix() *Node {
	e := p.parsePrimary()
	for {
		pos := p.pos()
		switch {
		case p.atPunct("."):
			p.advance()
			field := p.expect(ticklex.Ident, "field name").Text
			e = &Node{Kind: KFieldAccess, Pos: pos, Object: e, FieldName: field}
		case p.atPunct("["):
			p.advance()
			idx := p.parseExpr()
			p.expectPunct("]")
			e = &Node{Kind: KIndex, Pos: pos, Lhs: e, Rhs: idx}
		case p.atPunct("("):
			p.advance()
			args := NewNodeList()
			for !p.atPunct(")") {
				args.Append(p.parseExpr())
				if p.atPunct(",") {
					p.advance()
					continue
				}
				break
			}
			p.expectPunct(")")
			e = &Node{Kind: KCall, Pos: pos, Callee: e, Args: args}
		case p.atPunct("{") && e.Kind == KIdentifier:
			e = p.parseStructInit(e)
		default:
			return e
		}
	}
}

func (p *Parser) parseStructInit(typeName *Node) *Node {
	pos := p.pos()
	p.expectPunct("{")
	fields := NewNodeList()
	for !p.atPunct("}") {
		p.expectPunct(".")
		fname := p.expect(ticklex.Ident, "field name").Text
		p.expectPunct("=")
		val := p.parseExpr()
		fields.Append(&Node{Kind: KDecl, Pos: pos, Name: fname, Init: val})
		if p.atPunct(",") {
			p.advance()
			continue
		}
		break
	}
	p.expectPunct("}")
	return &Node{Kind: KStructInit, Pos: pos, Name: typeName.Name, InitFields: fields}
}

func (p *Parser) parsePrimary() *Node {
	pos := p.pos()
	switch p.tok.Kind {
	case ticklex.Int:
		v := p.tok.IntVal
		p.advance()
		return &Node{Kind: KIntLit, Pos: pos, IntVal: v}
	case ticklex.String:
		s := p.tok.Text
		p.advance()
		return &Node{Kind: KStringLit, Pos: pos, StrVal: s}
	case ticklex.KwTrue:
		p.advance()
		return &Node{Kind: KBoolLit, Pos: pos, IntVal: 1}
	case ticklex.KwFalse:
		p.advance()
		return &Node{Kind: KBoolLit, Pos: pos, IntVal: 0}
	case ticklex.KwNull:
		p.advance()
		return &Node{Kind: KNullLit, Pos: pos}
	case ticklex.KwUndefined:
		p.advance()
		return &Node{Kind: KUndefinedLit, Pos: pos}
	case ticklex.Ident:
		name := p.tok.Text
		p.advance()
		return &Node{Kind: KIdentifier, Pos: pos, Name: name}
	case ticklex.Punct:
		if p.atPunct("(") {
			p.advance()
			e := p.parseExpr()
			p.expectPunct(")")
			return e
		}
		if p.atPunct("{") {
			return p.parseArrayInit()
		}
	}
	p.errorf("expected an expression, found `%s`", p.tok.Text)
	p.advance()
	return &Node{Kind: KNullLit, Pos: pos}
}

func (p *Parser) parseArrayInit() *Node {
	pos := p.pos()
	p.expectPunct("{")
	elems := NewNodeList()
	for !p.atPunct("}") {
		elems.Append(p.parseExpr())
		if p.atPunct(",") {
			p.advance()
			continue
		}
		break
	}
	p.expectPunct("}")
	return &Node{Kind: KArrayInit, Pos: pos, InitElems: elems}
}
