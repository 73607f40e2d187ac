package tick

import "fmt"

// emitAggregateDecl handles both a forward-declaration stub and a full
// struct/union definition (spec §4.13 "Top-level dispatch"). Tick unions
// lower to a C struct wrapping a tag field and an anonymous `data` union,
// so both kinds typedef a `struct`.
func emitAggregateDecl(ctx *EmitContext, d *Node) {
	sink := sinkFor(ctx, d.DeclType.Has(QualPub))
	name := userTypeName(d.Name)

	if d.DeclType.Has(QualForwardDecl) {
		line(sink, d.Pos, ctx.SourceFile)
		sink.w.writeil(fmt.Sprintf("typedef struct %s %s;", name, name))
		return
	}

	line(sink, d.Pos, ctx.SourceFile)
	if d.Init.Kind == KUnionDecl {
		emitUnionBody(sink, d, name)
	} else {
		emitStructBody(sink, d, name)
	}
}

func emitStructBody(sink *EmitSink, d *Node, name string) {
	sink.w.writeil(fmt.Sprintf("struct %s {", name))
	sink.w.indent()
	if d.Init.Fields != nil {
		for f := d.Init.Fields.Head(); f != nil; f = f.Next {
			sink.w.writeil(emitDeclarator(f.Name, f.VarType) + ";")
		}
	}
	sink.w.unindent()
	sink.w.writeil("};")
}

func emitUnionBody(sink *EmitSink, d *Node, name string) {
	sink.w.writeil(fmt.Sprintf("struct %s {", name))
	sink.w.indent()
	sink.w.writeil(emitTypeSpec(d.Init.TagType) + " tag;")
	sink.w.writeil("union {")
	sink.w.indent()
	if d.Init.Fields != nil {
		for f := d.Init.Fields.Head(); f != nil; f = f.Next {
			sink.w.writeil(emitDeclarator(f.Name, f.VarType) + ";")
		}
	}
	sink.w.unindent()
	sink.w.writeil("} data;")
	sink.w.unindent()
	sink.w.writeil("};")
}

func emitEnumDecl(ctx *EmitContext, d *Node) {
	sink := sinkFor(ctx, d.DeclType.Has(QualPub))
	name := userTypeName(d.Name)
	line(sink, d.Pos, ctx.SourceFile)
	sink.w.writeil(fmt.Sprintf("typedef %s %s;", emitTypeSpec(d.Init.Underlying), name))
	if d.Init.Values != nil {
		for v := d.Init.Values.Head(); v != nil; v = v.Next {
			sink.w.writeil(fmt.Sprintf("static const %s %s = %d;", name, enumValueCName(d.Name, v.Name), v.Init.IntVal))
		}
	}
}

func emitParamList(params *NodeList) string {
	if params == nil || params.Len() == 0 {
		return "void"
	}
	out, i := "", 0
	for p := params.Head(); p != nil; p = p.Next {
		if i > 0 {
			out += ", "
		}
		out += emitDeclarator(userName(p), p.VarType)
		i++
	}
	return out
}

// emitFunctionDecl implements spec §4.13's function rule: signature to the
// interface sink only if public, body always to the implementation sink.
func emitFunctionDecl(ctx *EmitContext, d *Node) {
	fn := d.Init
	pub := d.DeclType.Has(QualPub)
	extern := d.DeclType.Has(QualExtern)
	name := userName(d)
	sig := fmt.Sprintf("%s %s(%s)", emitTypeSpec(fn.Ret), name, emitParamList(fn.Params))
	proto := fmt.Sprintf("%s %s(%s)", emitTypeSpec(fn.Ret), name, emitParamTypeList(fn.Params))

	if extern {
		sink := ctx.Impl
		if pub {
			sink = ctx.Iface
		}
		line(sink, d.Pos, ctx.SourceFile)
		sink.w.writeil("extern " + proto + ";")
		return
	}

	if pub {
		line(ctx.Iface, d.Pos, ctx.SourceFile)
		ctx.Iface.w.writeil(proto + ";")
	}

	line(ctx.Impl, d.Pos, ctx.SourceFile)
	ctx.Impl.w.writeil(sig)
	if fn.Body != nil {
		block := &Node{Kind: KBlock, Pos: d.Pos, Body: fn.Body}
		emitStmt(ctx, ctx.Impl, block)
	} else {
		ctx.Impl.w.writeil(";")
	}
}

// emitGlobalVar implements spec §4.13's global-variable rule: extern
// declaration in the interface sink if public, the definition in the
// implementation sink, except when the declaration is itself extern (no
// definition emitted anywhere).
func emitGlobalVar(ctx *EmitContext, d *Node) {
	pub := d.DeclType.Has(QualPub)
	extern := d.DeclType.Has(QualExtern)
	name := userName(d)
	decl := emitDeclarator(name, d.VarType)

	if extern {
		sink := ctx.Impl
		if pub {
			sink = ctx.Iface
		}
		line(sink, d.Pos, ctx.SourceFile)
		sink.w.writeil("extern " + decl + ";")
		return
	}

	if pub {
		line(ctx.Iface, d.Pos, ctx.SourceFile)
		ctx.Iface.w.writeil("extern " + decl + ";")
	}

	line(ctx.Impl, d.Pos, ctx.SourceFile)
	if d.Init != nil {
		ctx.Impl.w.writeil(decl + " = " + emitExpr(d.Init) + ";")
	} else {
		ctx.Impl.w.writeil(decl + ";")
	}
}
