package tick

// Lower is the thin finishing pass between analysis and emission. For this
// language the analyzer already reduces every construct the emitter needs
// to handle to its basic form, so Lower is mostly an assertion pass: it
// walks the tree checking that no optional, slice, or error-union type
// survived analysis unlowered, and marks the declarations, statements and
// expressions it walks FlagLowered. The emitter does not read the flag. A future optional/slice/async surface would grow real rewrites
// here without touching the analyzer or emitter (spec §2, §9).
func Lower(module *Node) {
	for d := module.Decls.Head(); d != nil; d = d.Next {
		lowerDecl(d)
	}
}

func lowerDecl(d *Node) {
	d.Flags |= FlagLowered
	if d.VarType != nil {
		checkLoweredType(d.VarType)
	}
	if d.Init == nil {
		return
	}
	switch d.Init.Kind {
	case KFunctionDecl:
		lowerFunction(d.Init)
	case KStructDecl, KUnionDecl:
		if d.Init.Fields != nil {
			for f := d.Init.Fields.Head(); f != nil; f = f.Next {
				checkLoweredType(f.VarType)
			}
		}
	case KEnumDecl:
		checkLoweredType(d.Init.Underlying)
	default:
		lowerExpr(d.Init)
	}
}

func lowerFunction(fn *Node) {
	checkLoweredType(fn.Ret)
	if fn.Params != nil {
		for p := fn.Params.Head(); p != nil; p = p.Next {
			checkLoweredType(p.VarType)
		}
	}
	if fn.Body != nil {
		for stmt := fn.Body.Head(); stmt != nil; stmt = stmt.Next {
			lowerStmt(stmt)
		}
	}
}

func lowerStmt(n *Node) {
	if n == nil {
		return
	}
	n.Flags |= FlagLowered
	switch n.Kind {
	case KBlock:
		if n.Body != nil {
			for s := n.Body.Head(); s != nil; s = s.Next {
				lowerStmt(s)
			}
		}
	case KIf:
		lowerExpr(n.Cond)
		lowerStmt(n.Then)
		lowerStmt(n.Else)
	case KFor:
		lowerStmt(n.ForInit)
		lowerExpr(n.Cond)
		lowerStmt(n.ForStep)
		lowerStmt(n.Then)
	case KSwitch:
		lowerExpr(n.SwitchVal)
		if n.Cases != nil {
			for c := n.Cases.Head(); c != nil; c = c.Next {
				lowerStmt(c.Then)
			}
		}
	case KReturn:
		lowerExpr(n.RetExpr)
	case KExprStmt:
		lowerExpr(n.Operand)
	case KDecl:
		if n.VarType != nil {
			checkLoweredType(n.VarType)
		}
		lowerExpr(n.Init)
	}
}

func lowerExpr(n *Node) {
	if n == nil {
		return
	}
	n.Flags |= FlagLowered
	if n.ResolvedType != nil {
		checkLoweredType(n.ResolvedType)
	}
	switch n.Kind {
	case KBinary:
		lowerExpr(n.Lhs)
		lowerExpr(n.Rhs)
	case KUnary, KCast, KOptionalUnwrap:
		lowerExpr(n.Operand)
	case KCall:
		lowerExpr(n.Callee)
		if n.Args != nil {
			for a := n.Args.Head(); a != nil; a = a.Next {
				lowerExpr(a)
			}
		}
	case KIndex:
		lowerExpr(n.Lhs)
		lowerExpr(n.Rhs)
	case KFieldAccess:
		lowerExpr(n.Object)
	case KStructInit:
		if n.InitFields != nil {
			for f := n.InitFields.Head(); f != nil; f = f.Next {
				lowerExpr(f.Init)
			}
		}
	case KArrayInit:
		if n.InitElems != nil {
			for e := n.InitElems.Head(); e != nil; e = e.Next {
				lowerExpr(e)
			}
		}
	}
}

// checkLoweredType panics with a fatal diagnostic if t is a high-level
// form the emitter cannot print (spec §4.13: "Optional, error-union,
// slice: must have been lowered; fatal if seen"). Today's surface never
// produces one of these post-analysis, so this only fires on a future
// analyzer bug.
func checkLoweredType(t *Node) {
	if t == nil {
		return
	}
	switch t.Kind {
	case KOptionalType, KErrorUnionType, KSliceType:
		fatalf("un-lowered %s reached emission", t.Kind)
	}
}
