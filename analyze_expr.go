package tick

// isSimple classifies an expression per spec §3.7's simple-form invariant:
// a literal other than string, an identifier, a struct/array initializer,
// a dereference/address-of of a simple, a field access whose object is
// simple, or an index whose array and index are both simple.
func isSimple(n *Node) bool {
	if n == nil {
		return true
	}
	switch n.Kind {
	case KIntLit, KUintLit, KBoolLit, KNullLit, KUndefinedLit, KIdentifier,
		KStructInit, KArrayInit, KEnumValueRef:
		return true
	case KUnary:
		if n.SurfOp == OpAddrOf || n.SurfOp == OpDeref {
			return isSimple(n.Operand)
		}
		return false
	case KFieldAccess:
		return isSimple(n.Object)
	case KIndex:
		return isSimple(n.Lhs) && isSimple(n.Rhs)
	}
	return false
}

// decomposeToSimple implements spec §4.7: rewrite *expr in place into a
// reference that is simple, extracting a temporary declaration inserted
// immediately before ctx.CurStmt when it isn't already.
func decomposeToSimple(ctx *AnalysisContext, expr **Node) *Node {
	n := *expr
	if n == nil {
		return nil
	}
	if isSimple(n) {
		return n
	}
	if ctx.CurBlock == nil {
		// Module level: initializers must already be constant; simplicity
		// is checked elsewhere, not rewritten here.
		return n
	}

	t := analyzeExpr(ctx, expr)
	n = *expr
	if t != nil {
		analyzeType(ctx, &t)
		if t.Kind == KArrayType {
			// Arrays cannot be assigned in C; leave as-is.
			return n
		}
	}

	id := ctx.FuncScope.NextTempID()
	tmp := &Node{
		Kind:     KDecl,
		Pos:      n.Pos,
		VarType:  t,
		Init:     n,
		TempID:   id,
		DeclType: QualVar,
		Flags:    FlagSynthetic | FlagTemporary,
	}
	ctx.CurBlock.InsertBefore(tmp, ctx.CurStmt)

	sym := &Symbol{Name: "", Decl: tmp, Type: t}
	ref := &Node{
		Kind:         KIdentifier,
		Pos:          n.Pos,
		Symbol:       sym,
		ResolvedType: t,
		Flags:        FlagSynthetic,
	}
	*expr = ref
	return ref
}

// analyzeExpr returns the resolved type of *expr, or nil if resolution is
// deferred pending a dependency (spec §4.5). It mutates *expr in place for
// the rewrites the spec calls out (bool literals, field-access-to-enum,
// decomposition of sub-expressions).
func analyzeExpr(ctx *AnalysisContext, expr **Node) *Node {
	n := *expr
	if n == nil {
		return nil
	}
	switch n.Kind {
	case KIntLit:
		n.ResolvedType = smallestSignedFit(ctx, n.IntVal, n.Pos)
		return n.ResolvedType
	case KUintLit:
		n.ResolvedType = smallestUnsignedFit(ctx, n.IntVal, n.Pos)
		return n.ResolvedType
	case KBoolLit:
		v := n.IntVal
		n.Kind = KUintLit
		n.IntVal = v
		n.ResolvedType = ctx.Types.NamedTypeNode("bool", n.Pos)
		return n.ResolvedType
	case KStringLit:
		n.ResolvedType = &Node{Kind: KPointerType, Pos: n.Pos, Elem: ctx.Types.NamedTypeNode("u8", n.Pos)}
		return n.ResolvedType
	case KNullLit, KUndefinedLit:
		return nil
	case KIdentifier:
		return analyzeIdentifier(ctx, n)
	case KUnary:
		return analyzeUnary(ctx, expr)
	case KBinary:
		return analyzeBinary(ctx, expr)
	case KCast:
		return analyzeCast(ctx, expr)
	case KFieldAccess:
		return analyzeFieldAccess(ctx, expr)
	case KCall:
		return analyzeCall(ctx, expr)
	case KIndex:
		return analyzeIndex(ctx, expr)
	case KStructInit:
		if n.InitFields != nil {
			for f := n.InitFields.Head(); f != nil; f = f.Next {
				analyzeExpr(ctx, &f.Init)
			}
		}
		return n.ResolvedType
	case KArrayInit:
		if n.InitElems != nil {
			for e := n.InitElems.Head(); e != nil; e = e.Next {
				analyzeExpr(ctx, &e)
			}
		}
		return n.ResolvedType
	case KEnumValueRef:
		return n.ResolvedType
	case KOptionalUnwrap:
		t := analyzeExpr(ctx, &n.Operand)
		if t != nil && t.Kind == KOptionalType {
			n.ResolvedType = t.Elem
		}
		return n.ResolvedType
	default:
		return nil
	}
}

func smallestSignedFit(ctx *AnalysisContext, v int64, pos Pos) *Node {
	name := "i64"
	switch {
	case v >= -128 && v <= 127:
		name = "i8"
	case v >= -32768 && v <= 32767:
		name = "i16"
	case v >= -2147483648 && v <= 2147483647:
		name = "i32"
	}
	return ctx.Types.NamedTypeNode(name, pos)
}

func smallestUnsignedFit(ctx *AnalysisContext, v int64, pos Pos) *Node {
	// Unsigned literals prefer the smallest signed type that fits; only
	// values exceeding the i64 maximum become u64 (spec §4.5). Since the
	// value is carried in an int64, the overflow case can't occur here for
	// literals the lexer accepted as non-negative int64s: treat v as
	// unsigned magnitude.
	if v < 0 {
		return ctx.Types.NamedTypeNode("u64", pos)
	}
	return smallestSignedFit(ctx, v, pos)
}

func analyzeIdentifier(ctx *AnalysisContext, n *Node) *Node {
	// A synthetic reference to a temporary is already bound to its symbol
	// and type; it has no name to look up.
	if n.Symbol != nil && n.Flags.Has(FlagSynthetic) {
		return n.ResolvedType
	}
	if len(n.Name) > 0 && n.Name[0] == '@' {
		switch n.Name {
		case "@dbg", "@panic":
			n.ResolvedType = nil
			return nil
		default:
			ctx.Diags.Add(KindName, n.Pos, "unknown built-in `%s`", n.Name)
			return nil
		}
	}
	sym, ok := ctx.Scope.Lookup(n.Name)
	if !ok {
		ctx.Diags.AddHint(KindName, n.Pos, didYouMeanIdent(ctx, n.Name), "undefined identifier `%s`", n.Name)
		return nil
	}
	n.Symbol = sym
	n.NeedsPrefix = needsUserPrefix(sym.Decl)
	if sym.Decl != nil && ctx.Scope == ctx.ModuleScope || isModuleDecl(ctx, sym.Decl) {
		if info := sym.Decl.analysis; sym.Decl.VarType == nil || info != nil && info.Overall != StateCompleted && info.Signature != StateCompleted {
			addDependency(ctx, sym.Decl)
		}
	}
	n.ResolvedType = sym.Type
	if n.ResolvedType == nil {
		n.ResolvedType = sym.Decl.VarType
	}
	return n.ResolvedType
}

func isModuleDecl(ctx *AnalysisContext, d *Node) bool {
	if d == nil {
		return false
	}
	_, ok := ctx.ModuleScope.LookupLocal(d.Name)
	return ok && d.analysis != nil
}

// needsUserPrefix implements §6.2: every user identifier gets `__u_`
// except extern and pub top-level names, which keep their ABI spelling.
func needsUserPrefix(decl *Node) bool {
	if decl == nil {
		return true
	}
	if decl.DeclType.Has(QualExtern) || decl.DeclType.Has(QualPub) {
		return false
	}
	return true
}

func didYouMeanIdent(ctx *AnalysisContext, name string) string {
	best := closestName(name, ctx.Scope.closestNames(64))
	if best == "" {
		return ""
	}
	return "did you mean `" + best + "`?"
}

func analyzeUnary(ctx *AnalysisContext, expr **Node) *Node {
	n := *expr
	decomposeToSimple(ctx, &n.Operand)
	n = *expr
	t := analyzeExpr(ctx, &n.Operand)

	switch n.SurfOp {
	case OpAddrOf:
		n.ResolvedType = &Node{Kind: KPointerType, Pos: n.Pos, Elem: t}
	case OpDeref:
		if t == nil || t.Kind != KPointerType {
			ctx.Diags.Add(KindType, n.Pos, "cannot dereference a non-pointer")
			return nil
		}
		analyzeType(ctx, &t.Elem)
		n.ResolvedType = t.Elem
	case OpNot:
		n.ResolvedType = ctx.Types.NamedTypeNode("bool", n.Pos)
	case OpNeg:
		n.ResolvedType = t
		if t != nil && t.Builtin.IsSigned() {
			n.Op = OpCheckedNeg
		}
	case OpBitNot:
		n.ResolvedType = t
	}
	return n.ResolvedType
}

func analyzeBinary(ctx *AnalysisContext, expr **Node) *Node {
	n := *expr
	decomposeToSimple(ctx, &n.Lhs)
	decomposeToSimple(ctx, &n.Rhs)
	n = *expr
	lt := analyzeExpr(ctx, &n.Lhs)
	analyzeExpr(ctx, &n.Rhs)

	if n.SurfOp == OpOrElse {
		if lt != nil && lt.Kind == KOptionalType {
			n.ResolvedType = lt.Elem
		}
		return n.ResolvedType
	}

	// Result type takes the left operand's built-in tag; precise type
	// checking beyond this is a non-goal at this stage (spec §4.5, §9).
	n.ResolvedType = lt
	switch n.SurfOp {
	case OpEq, OpNe, OpLt, OpLe, OpGt, OpGe, OpLogAnd, OpLogOr:
		n.ResolvedType = ctx.Types.NamedTypeNode("bool", n.Pos)
		n.Op = OpNone
		return n.ResolvedType
	}
	if lt != nil {
		n.Op = selectBuiltinOp(n.SurfOp, lt.Builtin)
	}
	return n.ResolvedType
}

// selectBuiltinOp maps (operator, result-type) to a semantic operation tag
// per spec §3.3. Tick's default arithmetic is checked for signed types and
// wraps for unsigned ones; only an explicit saturating/wrapping spelling
// (not modeled as distinct surface operators here) would pick the sat/wrap
// families, so unsigned ops that are exact C equivalents carry no tag at
// all (concrete scenario 6).
func selectBuiltinOp(op SurfaceOp, t BuiltinTag) BuiltinOp {
	if !t.IsNumeric() {
		return OpNone
	}
	signed := t.IsSigned()
	switch op {
	case OpAdd:
		if signed {
			return OpCheckedAdd
		}
		return OpNone
	case OpSub:
		if signed {
			return OpCheckedSub
		}
		return OpNone
	case OpMul:
		if signed {
			return OpCheckedMul
		}
		return OpNone
	case OpDiv:
		return OpCheckedDiv
	case OpMod:
		return OpCheckedMod
	case OpShl:
		if signed {
			return OpCheckedShl
		}
		return OpNone
	case OpShr:
		if signed {
			return OpCheckedShr
		}
		return OpNone
	}
	return OpNone
}

func analyzeCast(ctx *AnalysisContext, expr **Node) *Node {
	n := *expr
	decomposeToSimple(ctx, &n.Operand)
	n = *expr
	srcType := analyzeExpr(ctx, &n.Operand)
	analyzeType(ctx, &n.VarType)
	n.ResolvedType = n.VarType

	var srcTag, dstTag BuiltinTag
	if srcType != nil {
		srcTag = srcType.Builtin
	}
	if n.VarType != nil {
		dstTag = n.VarType.Builtin
	}
	n.CastStrategy, n.RuntimeFunc = selectCastStrategy(srcTag, dstTag)
	return n.ResolvedType
}

// selectCastStrategy implements spec §4.8's widening table.
func selectCastStrategy(src, dst BuiltinTag) (CastStrategy, string) {
	if !src.IsNumeric() || !dst.IsNumeric() {
		return CastBare, ""
	}
	if src == dst {
		return CastBare, ""
	}
	sw, dw := src.bitWidth(), dst.bitWidth()
	switch {
	case src.IsSigned() && dst.IsSigned() && dw >= sw:
		return CastBare, ""
	case !src.IsSigned() && !dst.IsSigned() && dw >= sw:
		return CastBare, ""
	case !src.IsSigned() && dst.IsSigned() && dw > sw:
		return CastBare, ""
	}
	return CastChecked, "tick_cast_" + src.String() + "_" + dst.String()
}

func analyzeFieldAccess(ctx *AnalysisContext, expr **Node) *Node {
	n := *expr
	decomposeToSimple(ctx, &n.Object)
	n = *expr

	// Type-scoped access: object is a bare identifier naming a type.
	if n.Object.Kind == KIdentifier {
		if entry, ok := ctx.Types.Lookup(n.Object.Name); ok && entry.Decl != nil {
			if entry.Decl.Init != nil && entry.Decl.Init.Kind == KEnumDecl {
				n.Kind = KEnumValueRef
				n.Name = n.FieldName
				n.ParentDecl = entry.Decl
				n.ResolvedType = ctx.Types.NamedTypeNode(entry.Name, n.Pos)
				return n.ResolvedType
			}
		}
	}

	objType := analyzeExpr(ctx, &n.Object)
	base := objType
	if base != nil && base.Kind == KPointerType {
		n.ObjectIsPtr = true
		base = base.Elem
	}
	if base == nil || base.TypeEntry == nil || base.TypeEntry.Decl == nil {
		ctx.Diags.Add(KindType, n.Pos, "cannot access field of non-aggregate")
		return nil
	}
	decl := base.TypeEntry.Decl
	var fields *NodeList
	if decl.Init != nil {
		fields = decl.Init.Fields
	}
	field := findField(fields, n.FieldName)
	if field == nil {
		ctx.Diags.Add(KindType, n.Pos, "type `%s` has no field `%s`", base.Name, n.FieldName)
		return nil
	}
	analyzeType(ctx, &field.VarType)
	n.ResolvedType = field.VarType
	return n.ResolvedType
}

func findField(fields *NodeList, name string) *Node {
	if fields == nil {
		return nil
	}
	for f := fields.Head(); f != nil; f = f.Next {
		if f.Name == name {
			return f
		}
	}
	return nil
}

func analyzeCall(ctx *AnalysisContext, expr **Node) *Node {
	n := *expr
	decomposeToSimple(ctx, &n.Callee)
	n = *expr
	if n.Callee.Kind == KIdentifier && (n.Callee.Name == "@dbg" || n.Callee.Name == "@panic") {
		if n.Args != nil {
			for a := n.Args.Head(); a != nil; a = a.Next {
				argRef := a
				decomposeToSimple(ctx, &argRef)
				analyzeExpr(ctx, &argRef)
			}
		}
		n.ResolvedType = ctx.Types.NamedTypeNode("void", n.Pos)
		return n.ResolvedType
	}

	calleeType := analyzeExpr(ctx, &n.Callee)
	if n.Args != nil {
		for a := n.Args.Head(); a != nil; a = a.Next {
			argRef := a
			decomposeToSimple(ctx, &argRef)
			analyzeExpr(ctx, &argRef)
		}
	}
	if calleeType != nil && calleeType.Kind == KFunctionType {
		n.ResolvedType = calleeType.Ret
	}
	return n.ResolvedType
}

func analyzeIndex(ctx *AnalysisContext, expr **Node) *Node {
	n := *expr
	decomposeToSimple(ctx, &n.Lhs)
	decomposeToSimple(ctx, &n.Rhs)
	n = *expr
	arrType := analyzeExpr(ctx, &n.Lhs)
	idxType := analyzeExpr(ctx, &n.Rhs)
	if idxType != nil && !idxType.Builtin.IsNumeric() {
		ctx.Diags.Add(KindType, n.Pos, "array index must be numeric")
	}
	if arrType == nil {
		return nil
	}
	switch arrType.Kind {
	case KArrayType, KPointerType, KSliceType:
		n.ResolvedType = arrType.Elem
	default:
		ctx.Diags.Add(KindType, n.Pos, "cannot index a non-array, non-pointer value")
		return nil
	}
	return n.ResolvedType
}
