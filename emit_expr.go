package tick

import "fmt"

// builtinOpRuntimeFunc maps a BuiltinOp plus the node's resolved built-in
// type to the runtime helper name it calls, per spec §3.3 and §6.3's
// `<op_family>_<op>_<type>` naming.
func builtinOpRuntimeFunc(op BuiltinOp, t BuiltinTag) string {
	switch op {
	case OpSatAdd:
		return "tick_sat_add_" + t.String()
	case OpSatSub:
		return "tick_sat_sub_" + t.String()
	case OpSatMul:
		return "tick_sat_mul_" + t.String()
	case OpSatDiv:
		return "tick_sat_div_" + t.String()
	case OpWrapAdd:
		return "tick_wrap_add_" + t.String()
	case OpWrapSub:
		return "tick_wrap_sub_" + t.String()
	case OpWrapMul:
		return "tick_wrap_mul_" + t.String()
	case OpWrapDiv:
		return "tick_wrap_div_" + t.String()
	case OpCheckedAdd:
		return "tick_checked_add_" + t.String()
	case OpCheckedSub:
		return "tick_checked_sub_" + t.String()
	case OpCheckedMul:
		return "tick_checked_mul_" + t.String()
	case OpCheckedDiv:
		return "tick_checked_div_" + t.String()
	case OpCheckedMod:
		return "tick_checked_mod_" + t.String()
	case OpCheckedShl:
		return "tick_checked_shl_" + t.String()
	case OpCheckedShr:
		return "tick_checked_shr_" + t.String()
	case OpCheckedNeg:
		return "tick_checked_neg_" + t.String()
	}
	return ""
}

var surfaceOpSpelling = map[SurfaceOp]string{
	OpAdd: "+", OpSub: "-", OpMul: "*", OpDiv: "/", OpMod: "%",
	OpBitAnd: "&", OpBitOr: "|", OpBitXor: "^", OpShl: "<<", OpShr: ">>",
	OpEq: "==", OpNe: "!=", OpLt: "<", OpLe: "<=", OpGt: ">", OpGe: ">=",
	OpLogAnd: "&&", OpLogOr: "||",
}

// emitExpr prints n structurally (spec §4.13 "Expressions").
func emitExpr(e *Node) string {
	if e == nil {
		return ""
	}
	switch e.Kind {
	case KIntLit, KUintLit:
		return fmt.Sprintf("%d", e.IntVal)
	case KStringLit:
		return emitStringLit(e.StrVal)
	case KNullLit:
		return "NULL"
	case KIdentifier:
		return emitIdentRef(e)
	case KUnary:
		return emitUnary(e)
	case KBinary:
		return emitBinary(e)
	case KCall:
		return emitCall(e)
	case KIndex:
		return fmt.Sprintf("%s[%s]", emitExpr(e.Lhs), emitExpr(e.Rhs))
	case KFieldAccess:
		return emitFieldAccessExpr(e)
	case KCast:
		return emitCastExpr(e)
	case KEnumValueRef:
		return enumValueCName(e.ParentDecl.Name, e.Name)
	case KStructInit:
		return emitStructInit(e)
	case KArrayInit:
		return emitArrayInit(e)
	default:
		fatalf("emitExpr: unhandled node kind %s", e.Kind)
		return ""
	}
}

func emitIdentRef(e *Node) string {
	if e.Symbol != nil && e.Symbol.Decl != nil && e.Symbol.Decl.Flags.Has(FlagTemporary) {
		return tempName(e.Symbol.Decl.TempID)
	}
	if e.Symbol != nil && e.Symbol.Decl != nil {
		return userName(e.Symbol.Decl)
	}
	if e.NeedsPrefix {
		return "__u_" + e.Name
	}
	return e.Name
}

func emitUnary(e *Node) string {
	inner := emitExpr(e.Operand)
	switch e.SurfOp {
	case OpAddrOf:
		return "&" + inner
	case OpDeref:
		return "*" + inner
	case OpNot:
		return "!" + inner
	case OpBitNot:
		return "~" + inner
	case OpNeg:
		if e.Op == OpCheckedNeg {
			t := BuiltinUnknown
			if e.ResolvedType != nil {
				t = e.ResolvedType.Builtin
			}
			return fmt.Sprintf("%s(%s)", builtinOpRuntimeFunc(OpCheckedNeg, t), inner)
		}
		return "-" + inner
	}
	return inner
}

func emitBinary(e *Node) string {
	if e.SurfOp == opAssign {
		return fmt.Sprintf("%s = %s", emitExpr(e.Lhs), emitExpr(e.Rhs))
	}
	lhs, rhs := emitExpr(e.Lhs), emitExpr(e.Rhs)
	if e.Op != OpNone {
		t := BuiltinUnknown
		if e.ResolvedType != nil {
			t = e.ResolvedType.Builtin
		}
		return fmt.Sprintf("%s(%s, %s)", builtinOpRuntimeFunc(e.Op, t), lhs, rhs)
	}
	sym, ok := surfaceOpSpelling[e.SurfOp]
	if !ok {
		sym = "+"
	}
	return fmt.Sprintf("%s %s %s", lhs, sym, rhs)
}

func emitCall(e *Node) string {
	if e.Callee.Kind == KIdentifier && e.Callee.Name == "@dbg" {
		return fmt.Sprintf("tick_debug_log(%s)", emitArgList(e.Args))
	}
	if e.Callee.Kind == KIdentifier && e.Callee.Name == "@panic" {
		return fmt.Sprintf("tick_panic(%s)", emitArgList(e.Args))
	}
	return fmt.Sprintf("%s(%s)", emitExpr(e.Callee), emitArgList(e.Args))
}

func emitArgList(args *NodeList) string {
	if args == nil {
		return ""
	}
	out, i := "", 0
	for a := args.Head(); a != nil; a = a.Next {
		if i > 0 {
			out += ", "
		}
		out += emitExpr(a)
		i++
	}
	return out
}

// emitFieldAccessExpr handles the `.`/`->` choice, the union `data.`
// injection, and dereference parenthesization spec §4.13 calls out.
func emitFieldAccessExpr(e *Node) string {
	obj := e.Object
	objStr := emitExpr(obj)
	if obj.Kind == KUnary && obj.SurfOp == OpDeref {
		objStr = "(" + objStr + ")"
	}
	sep := "."
	if e.ObjectIsPtr {
		sep = "->"
	}
	infix := ""
	if isUnionFieldAccess(e) {
		infix = "data."
	}
	return fmt.Sprintf("%s%s%s%s", objStr, sep, infix, e.FieldName)
}

func isUnionFieldAccess(e *Node) bool {
	base := e.Object.ResolvedType
	if base == nil {
		return false
	}
	if base.Kind == KPointerType {
		base = base.Elem
	}
	if base == nil || base.TypeEntry == nil || base.TypeEntry.Decl == nil || base.TypeEntry.Decl.Init == nil {
		return false
	}
	return base.TypeEntry.Decl.Init.Kind == KUnionDecl
}

func emitCastExpr(e *Node) string {
	src := emitExpr(e.Operand)
	if e.CastStrategy == CastChecked {
		return fmt.Sprintf("%s(%s)", e.RuntimeFunc, src)
	}
	return fmt.Sprintf("(%s)%s", emitTypeSpec(e.VarType), src)
}

// emitStringLit inlines a string literal as a byte-array compound literal
// per spec §4.13.
func emitStringLit(s string) string {
	out := "(const char*)(uint8_t[]){"
	for i := 0; i < len(s); i++ {
		out += fmt.Sprintf("%d, ", s[i])
	}
	return out + "0}"
}

func emitStructInit(e *Node) string {
	out := "{"
	i := 0
	if e.InitFields != nil {
		for f := e.InitFields.Head(); f != nil; f = f.Next {
			if i > 0 {
				out += ", "
			}
			out += fmt.Sprintf(".%s = %s", f.Name, emitExpr(f.Init))
			i++
		}
	}
	return out + "}"
}

func emitArrayInit(e *Node) string {
	out := "{"
	i := 0
	if e.InitElems != nil {
		for el := e.InitElems.Head(); el != nil; el = el.Next {
			if i > 0 {
				out += ", "
			}
			out += emitExpr(el)
			i++
		}
	}
	return out + "}"
}
