package tick

// analyzeBlock pushes a scope, walks statements setting ctx.CurStmt before
// each one (so synthesized temporaries land immediately before their
// consumer), and pops the scope on return (spec §4.6, §9 "scope guard").
func analyzeBlock(ctx *AnalysisContext, block *Node) {
	guard := ctx.saveScope()
	defer guard.restore()

	ctx.Scope = NewScope(ctx.Scope)
	ctx.Depth++
	ctx.CurBlock = block.Body
	if block.Body == nil {
		block.Body = NewNodeList()
		ctx.CurBlock = block.Body
	}

	for stmt := ctx.CurBlock.Head(); stmt != nil; stmt = stmt.Next {
		ctx.CurStmt = stmt
		analyzeStmt(ctx, stmt)
	}
}

func analyzeStmt(ctx *AnalysisContext, stmt *Node) {
	switch stmt.Kind {
	case KBlock:
		analyzeBlock(ctx, stmt)
	case KDecl:
		analyzeLocalDecl(ctx, stmt)
	case KExprStmt:
		decomposeTopLevelAssignment(ctx, stmt)
	case KIf:
		analyzeIf(ctx, stmt)
	case KSwitch:
		analyzeSwitch(ctx, stmt)
	case KFor:
		analyzeFor(ctx, stmt)
	case KReturn:
		if stmt.RetExpr != nil {
			decomposeToSimpleTopLevel(ctx, &stmt.RetExpr)
			analyzeExpr(ctx, &stmt.RetExpr)
		}
	case KBreak, KContinue, KGoto, KLabel:
		// nothing to resolve
	}
}

// decomposeToSimpleTopLevel decomposes an expression that is itself an
// entire statement's payload (return value, bare expression statement):
// unlike operand decomposition, the top-level expression is left in place
// even when complex — only its *sub-expressions* get flattened by the
// ordinary analyze* functions descending into it.
func decomposeToSimpleTopLevel(ctx *AnalysisContext, expr **Node) {
	// no-op placeholder kept distinct from decomposeToSimple: the statement
	// itself is the consumer, so there is nothing above it to decompose
	// into. Present so call sites read the same as every other decompose
	// call site.
}

// decomposeTopLevelAssignment handles an expression-statement: plain
// expression statements just get analyzed, assignments get lvalue
// decomposition on their left-hand side (spec §4.6 "Assignment").
func decomposeTopLevelAssignment(ctx *AnalysisContext, stmt *Node) {
	e := stmt.Operand
	if e == nil {
		return
	}
	if e.Kind == KBinary && e.SurfOp == opAssign {
		analyzeAssignment(ctx, e)
		return
	}
	analyzeExpr(ctx, &stmt.Operand)
}

// opAssign is a statement-level pseudo-operator distinguishing an
// assignment expression from an ordinary binary expression; it lives
// outside the SurfaceOp enum used for arithmetic because assignment is not
// an arithmetic operator and never carries a BuiltinOp.
const opAssign SurfaceOp = -1

func analyzeAssignment(ctx *AnalysisContext, assign *Node) {
	analyzeExpr(ctx, &assign.Rhs)
	lhsType := analyzeLvalueType(ctx, assign.Lhs)

	if assign.Lhs.Kind == KIdentifier || assign.Lhs.Flags.Has(FlagSynthetic) {
		return
	}
	newLhs := decomposeLvalueChain(ctx, assign.Lhs, lhsType)
	assign.Lhs = newLhs
}

// analyzeLvalueType resolves the static type of an lvalue expression
// without decomposing it, used to seed the lvalue-chain decomposer.
func analyzeLvalueType(ctx *AnalysisContext, lv *Node) *Node {
	switch lv.Kind {
	case KIdentifier:
		return analyzeExpr(ctx, &lv)
	case KFieldAccess:
		return analyzeFieldAccess(ctx, &lv)
	case KIndex:
		return analyzeIndex(ctx, &lv)
	case KUnary:
		if lv.SurfOp == OpDeref {
			return analyzeUnary(ctx, &lv)
		}
	}
	return nil
}

// analyzeLocalDecl implements spec §4.6 "Declaration".
func analyzeLocalDecl(ctx *AnalysisContext, d *Node) {
	if d.VarType == nil && d.Init != nil {
		t := analyzeExpr(ctx, &d.Init)
		d.VarType = t
	} else if d.VarType != nil {
		analyzeType(ctx, &d.VarType)
		if d.Init != nil {
			decomposeToSimpleTopLevel(ctx, &d.Init)
		}
	}

	if d.Init != nil && (d.Init.Kind == KStructInit || d.Init.Kind == KArrayInit) {
		flattenInitializer(ctx, d)
	} else if d.Init != nil {
		analyzeExpr(ctx, &d.Init)
	}

	if d.DeclType.Has(QualStatic) && d.Init != nil && d.Init.Kind == KStringLit {
		rewriteStaticStringToByteArray(ctx, d)
	}
	if d.Init != nil && d.Init.Kind == KUndefinedLit {
		d.Init = &Node{Kind: KNullLit, Pos: d.Init.Pos}
	}

	sym := &Symbol{Name: d.Name, Decl: d, Type: d.VarType}
	if !ctx.Scope.Insert(sym) {
		ctx.Diags.Add(KindName, d.Pos, "duplicate declaration `%s`", d.Name)
	}
}

// rewriteStaticStringToByteArray normalizes `static let s = "hi";` into a
// `u8[N]` array of byte literals with a trailing zero (spec §4.6).
func rewriteStaticStringToByteArray(ctx *AnalysisContext, d *Node) {
	s := d.Init.StrVal
	elems := NewNodeList()
	for i := 0; i < len(s); i++ {
		elems.Append(&Node{Kind: KUintLit, Pos: d.Init.Pos, IntVal: int64(s[i]),
			ResolvedType: ctx.Types.NamedTypeNode("u8", d.Init.Pos)})
	}
	elems.Append(&Node{Kind: KUintLit, Pos: d.Init.Pos, IntVal: 0,
		ResolvedType: ctx.Types.NamedTypeNode("u8", d.Init.Pos)})

	sizeLit := &Node{Kind: KIntLit, Pos: d.Init.Pos, IntVal: int64(len(s) + 1),
		ResolvedType: ctx.Types.NamedTypeNode("i64", d.Init.Pos)}
	d.VarType = &Node{Kind: KArrayType, Pos: d.Pos, Elem: ctx.Types.NamedTypeNode("u8", d.Pos), SizeExpr: sizeLit}
	d.Init = &Node{Kind: KArrayInit, Pos: d.Init.Pos, InitElems: elems, ResolvedType: d.VarType}
}

// flattenInitializer implements spec §4.9: struct/array initializers
// inside a function are flattened into a temporary plus a series of
// per-field (or per-index) assignment statements.
func flattenInitializer(ctx *AnalysisContext, d *Node) {
	if ctx.CurBlock == nil {
		// Module level: initializers stay structurally intact; they must
		// be compile-time constants, checked elsewhere.
		analyzeExpr(ctx, &d.Init)
		return
	}

	id := ctx.FuncScope.NextTempID()
	tmpDecl := &Node{
		Kind: KDecl, Pos: d.Pos, VarType: d.VarType, TempID: id,
		DeclType: QualVar, Flags: FlagSynthetic | FlagTemporary,
	}
	ctx.CurBlock.InsertBefore(tmpDecl, ctx.CurStmt)

	tmpSym := &Symbol{Decl: tmpDecl, Type: d.VarType}
	tmpRef := func() *Node {
		return &Node{Kind: KIdentifier, Pos: d.Pos, Symbol: tmpSym, ResolvedType: d.VarType, Flags: FlagSynthetic}
	}

	flattenInto(ctx, tmpRef(), d.Init)

	d.Init = tmpRef()
}

// flattenInto emits `<base>.<field> = <value>;` (or the indexed form) for
// each entry of init, recursing when a value is itself an initializer.
func flattenInto(ctx *AnalysisContext, base *Node, init *Node) {
	switch init.Kind {
	case KStructInit:
		if init.InitFields == nil {
			return
		}
		for f := init.InitFields.Head(); f != nil; f = f.Next {
			lhs := &Node{Kind: KFieldAccess, Pos: f.Pos, Object: base, FieldName: f.Name}
			emitFlattenedAssign(ctx, lhs, f.Init)
		}
	case KArrayInit:
		if init.InitElems == nil {
			return
		}
		i := int64(0)
		for e := init.InitElems.Head(); e != nil; e = e.Next {
			idx := &Node{Kind: KIntLit, Pos: e.Pos, IntVal: i,
				ResolvedType: ctx.Types.NamedTypeNode("i64", e.Pos)}
			lhs := &Node{Kind: KIndex, Pos: e.Pos, Lhs: base, Rhs: idx}
			emitFlattenedAssign(ctx, lhs, e)
			i++
		}
	}
}

func emitFlattenedAssign(ctx *AnalysisContext, lhs, value *Node) {
	if value.Kind == KStructInit || value.Kind == KArrayInit {
		flattenInto(ctx, lhs, value)
		return
	}
	assign := &Node{Kind: KBinary, Pos: lhs.Pos, SurfOp: opAssign, Lhs: lhs, Rhs: value}
	stmt := &Node{Kind: KExprStmt, Pos: lhs.Pos, Operand: assign}
	ctx.CurBlock.InsertBefore(stmt, ctx.CurStmt)

	savedStmt := ctx.CurStmt
	ctx.CurStmt = stmt
	analyzeAssignment(ctx, assign)
	ctx.CurStmt = savedStmt
}

func analyzeIf(ctx *AnalysisContext, n *Node) {
	decomposeToSimpleTopLevel(ctx, &n.Cond)
	analyzeExpr(ctx, &n.Cond)

	if n.Then == nil || n.Then.Kind != KBlock {
		n.Then = &Node{Kind: KBlock, Pos: n.Pos, Body: NewNodeList(n.Then)}
	}
	if n.Else == nil {
		n.Else = &Node{Kind: KBlock, Pos: n.Pos, Body: NewNodeList(), Flags: FlagSynthetic}
	} else if n.Else.Kind == KIf {
		n.Else = &Node{Kind: KBlock, Pos: n.Else.Pos, Body: NewNodeList(n.Else), Flags: FlagSynthetic}
	}

	analyzeBlock(ctx, n.Then)
	analyzeBlock(ctx, n.Else)
}

func analyzeSwitch(ctx *AnalysisContext, n *Node) {
	analyzeExpr(ctx, &n.SwitchVal)
	if n.Cases == nil {
		return
	}
	for c := n.Cases.Head(); c != nil; c = c.Next {
		if c.CaseVals != nil {
			for v := c.CaseVals.Head(); v != nil; v = v.Next {
				analyzeExpr(ctx, &v)
			}
		}
		if c.Then == nil || c.Then.Kind != KBlock {
			body := NewNodeList()
			if c.Then != nil {
				body.Append(c.Then)
			}
			c.Then = &Node{Kind: KBlock, Pos: c.Pos, Body: body}
		}
		analyzeBlock(ctx, c.Then)
	}
}

func analyzeFor(ctx *AnalysisContext, n *Node) {
	guard := ctx.saveScope()
	defer guard.restore()
	ctx.Scope = NewScope(ctx.Scope)

	if n.ForInit != nil {
		analyzeStmt(ctx, n.ForInit)
	}
	if n.Cond != nil {
		analyzeExpr(ctx, &n.Cond)
	}
	if n.ForStep != nil {
		analyzeStmt(ctx, n.ForStep)
	}
	if n.Then == nil {
		n.Then = &Node{Kind: KBlock, Pos: n.Pos, Body: NewNodeList()}
	}
	analyzeBlock(ctx, n.Then)
}

// decomposeLvalueChain implements spec §4.10: recursively rewrite a
// complex lvalue outside-in into a chain of `let __tmp_k: *T = &<access>;`
// declarations culminating in `*__tmp_n`.
func decomposeLvalueChain(ctx *AnalysisContext, lv *Node, lvType *Node) *Node {
	base, baseIsDeref := decomposeLvalueBase(ctx, lv)

	var access *Node
	switch lv.Kind {
	case KFieldAccess:
		access = &Node{Kind: KFieldAccess, Pos: lv.Pos, Object: base, FieldName: lv.FieldName, ObjectIsPtr: baseIsDeref}
	case KIndex:
		access = &Node{Kind: KIndex, Pos: lv.Pos, Lhs: base, Rhs: lv.Rhs}
	case KUnary:
		access = &Node{Kind: KUnary, Pos: lv.Pos, SurfOp: OpDeref, Operand: base}
	default:
		return lv
	}
	analyzeExpr(ctx, &access)
	access.Flags |= FlagSynthetic

	addr := &Node{Kind: KUnary, Pos: lv.Pos, SurfOp: OpAddrOf, Operand: access}
	if canonical := canonicalizeAddrOfDeref(addr); canonical != addr {
		return canonical
	}
	addr.ResolvedType = &Node{Kind: KPointerType, Pos: lv.Pos, Elem: lvType}

	id := ctx.FuncScope.NextTempID()
	ptrType := &Node{Kind: KPointerType, Pos: lv.Pos, Elem: lvType}
	tmp := &Node{
		Kind: KDecl, Pos: lv.Pos, VarType: ptrType, Init: addr, TempID: id,
		DeclType: QualVar, Flags: FlagSynthetic | FlagTemporary,
	}
	declInfoOf(tmp).Overall = StateCompleted
	ctx.CurBlock.InsertBefore(tmp, ctx.CurStmt)

	sym := &Symbol{Decl: tmp, Type: ptrType}
	tmpRef := &Node{Kind: KIdentifier, Pos: lv.Pos, Symbol: sym, ResolvedType: ptrType, Flags: FlagSynthetic}
	return &Node{Kind: KUnary, Pos: lv.Pos, SurfOp: OpDeref, Operand: tmpRef, ResolvedType: lvType, Flags: FlagSynthetic}
}

// decomposeLvalueBase recurses on the sub-object of a complex lvalue,
// returning either an identifier (base case) or the `*temp` result of a
// nested decomposition, folded per spec §4.10 step 2 (`(*temp).field`).
func decomposeLvalueBase(ctx *AnalysisContext, lv *Node) (base *Node, isDeref bool) {
	var sub *Node
	switch lv.Kind {
	case KFieldAccess:
		sub = lv.Object
	case KIndex:
		sub = lv.Lhs
	case KUnary:
		sub = lv.Operand
	default:
		return lv, false
	}

	if sub.Kind == KIdentifier || sub.Flags.Has(FlagSynthetic) {
		if sub.Kind == KUnary && sub.SurfOp == OpDeref {
			return sub.Operand, true
		}
		return sub, false
	}

	subType := sub.ResolvedType
	decomposed := decomposeLvalueChain(ctx, sub, subType)
	if decomposed.Kind == KUnary && decomposed.SurfOp == OpDeref {
		return decomposed.Operand, true
	}
	return decomposed, false
}

// canonicalizeAddrOfDeref folds `&(*p)` to `p` (spec §4.10 step 3).
func canonicalizeAddrOfDeref(addr *Node) *Node {
	if addr.Operand != nil && addr.Operand.Kind == KUnary && addr.Operand.SurfOp == OpDeref {
		return addr.Operand.Operand
	}
	return addr
}
