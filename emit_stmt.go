package tick

import "fmt"

// emitStmt prints one statement into sink (spec §4.13 "Statements"),
// prefixed by a `#line` directive unless the sink is already on that line.
func emitStmt(ctx *EmitContext, sink *EmitSink, n *Node) {
	if n == nil {
		return
	}
	line(sink, n.Pos, ctx.SourceFile)
	switch n.Kind {
	case KBlock:
		emitBlockBody(ctx, sink, n)
	case KDecl:
		emitLocalDeclStmt(ctx, sink, n)
	case KExprStmt:
		sink.w.writeil(emitExpr(n.Operand) + ";")
	case KIf:
		emitIfStmt(ctx, sink, n)
	case KSwitch:
		emitSwitchStmt(ctx, sink, n)
	case KFor:
		emitForStmt(ctx, sink, n)
	case KReturn:
		if n.RetExpr != nil {
			sink.w.writeil(fmt.Sprintf("return %s;", emitExpr(n.RetExpr)))
		} else {
			sink.w.writeil("return;")
		}
	case KBreak:
		sink.w.writeil("break;")
	case KContinue:
		sink.w.writeil("continue;")
	case KGoto:
		sink.w.writeil(fmt.Sprintf("goto %s;", n.Name))
	case KLabel:
		sink.w.writeil(n.Name + ":;")
	default:
		fatalf("emitStmt: unhandled node kind %s", n.Kind)
	}
}

func emitBlockBody(ctx *EmitContext, sink *EmitSink, block *Node) {
	sink.w.writeil("{")
	sink.w.indent()
	if block.Body != nil {
		for s := block.Body.Head(); s != nil; s = s.Next {
			emitStmt(ctx, sink, s)
		}
	}
	sink.w.unindent()
	sink.w.writeil("}")
}

// emitBlockStatementsInline prints a block's statements without the
// surrounding braces, used for `for` bodies (spec §4.13: "strip the
// body block's braces").
func emitBlockStatementsInline(ctx *EmitContext, sink *EmitSink, block *Node) {
	if block == nil || block.Body == nil {
		return
	}
	for s := block.Body.Head(); s != nil; s = s.Next {
		emitStmt(ctx, sink, s)
	}
}

func emitLocalDeclStmt(ctx *EmitContext, sink *EmitSink, d *Node) {
	name := tempName(d.TempID)
	if d.TempID == 0 {
		name = userName(d)
	}
	decl := emitDeclarator(name, d.VarType)
	if d.Init != nil {
		sink.w.writeil(fmt.Sprintf("%s = %s;", decl, emitExpr(d.Init)))
	} else {
		sink.w.writeil(decl + ";")
	}
}

func emitIfStmt(ctx *EmitContext, sink *EmitSink, n *Node) {
	sink.w.writeil(fmt.Sprintf("if (%s)", emitExpr(n.Cond)))
	emitStmt(ctx, sink, n.Then)
	sink.w.writeil("else")
	emitStmt(ctx, sink, n.Else)
}

func emitSwitchStmt(ctx *EmitContext, sink *EmitSink, n *Node) {
	sink.w.writeil(fmt.Sprintf("switch (%s) {", emitExpr(n.SwitchVal)))
	sink.w.indent()
	if n.Cases != nil {
		for c := n.Cases.Head(); c != nil; c = c.Next {
			emitSwitchCase(ctx, sink, c)
		}
	}
	sink.w.unindent()
	sink.w.writeil("}")
}

func emitSwitchCase(ctx *EmitContext, sink *EmitSink, c *Node) {
	if c.CaseVals == nil || c.CaseVals.Len() == 0 {
		sink.w.writeil("default: {")
	} else {
		i := 0
		for v := c.CaseVals.Head(); v != nil; v = v.Next {
			sink.w.writeil(fmt.Sprintf("case %s:", emitExpr(v)))
			i++
		}
		sink.w.writeil("{")
	}
	sink.w.indent()
	emitBlockStatementsInline(ctx, sink, c.Then)
	sink.w.writeil("break;")
	sink.w.unindent()
	sink.w.writeil("}")
}

// emitForStmt implements §4.13's for-loop desugaring: a `while (1)` with
// init hoisted before it, the condition as an early-exit `if`, the body
// inlined, and the step appended at the end.
func emitForStmt(ctx *EmitContext, sink *EmitSink, n *Node) {
	if n.ForInit != nil {
		emitStmt(ctx, sink, n.ForInit)
	}
	sink.w.writeil("while (1) {")
	sink.w.indent()
	if n.Cond != nil {
		sink.w.writeil(fmt.Sprintf("if (!(%s)) break;", emitExpr(n.Cond)))
	}
	emitBlockStatementsInline(ctx, sink, n.Then)
	if n.ForStep != nil {
		emitStmt(ctx, sink, n.ForStep)
	}
	sink.w.unindent()
	sink.w.writeil("}")
}
