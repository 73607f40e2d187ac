package tick

// analyzeFunctionDecl resolves a function's signature (params, return
// type) then its body, each independently so a caller can depend on the
// signature alone (spec §4.3's split signature/body states exist for
// exactly this).
func analyzeFunctionDecl(ctx *AnalysisContext, d *Node) {
	fn := d.Init
	info := declInfoOf(d)
	info.Signature = StateInProgress

	guard := ctx.saveScope()
	defer guard.restore()

	fnScope := NewScope(ctx.ModuleScope)
	ctx.Scope = fnScope
	ctx.FuncScope = fnScope
	ctx.Depth = 1

	if fn.Params != nil {
		for p := fn.Params.Head(); p != nil; p = p.Next {
			analyzeType(ctx, &p.VarType)
			ctx.Scope.Insert(&Symbol{Name: p.Name, Decl: p, Type: p.VarType})
		}
	}
	analyzeType(ctx, &fn.Ret)
	d.VarType = &Node{Kind: KFunctionType, Pos: d.Pos, Params: fn.Params, Ret: fn.Ret}
	info.Signature = StateCompleted

	if fn.Body != nil {
		info.Body = StateInProgress
		ctx.CurBlock = fn.Body
		for stmt := ctx.CurBlock.Head(); stmt != nil; stmt = stmt.Next {
			ctx.CurStmt = stmt
			analyzeStmt(ctx, stmt)
		}
		info.Body = StateCompleted
	}
}

// analyzeStructDecl resolves every field's type, collects a forward
// declaration, and leaves the struct's own decl state completed once all
// fields resolve (spec §4.12's "forward declaration collected" applies
// identically to plain structs).
func analyzeStructDecl(ctx *AnalysisContext, d *Node) {
	st := d.Init
	if st.Fields != nil {
		for f := st.Fields.Head(); f != nil; f = f.Next {
			analyzeType(ctx, &f.VarType)
			if f.Align != nil {
				reduceToLiteral(&f.Align)
			}
		}
	}
	if st.Align != nil {
		reduceToLiteral(&st.Align)
	}
	collectForwardDecl(ctx, d)
}

// analyzeEnumDecl implements spec §4.11: resolve the underlying type,
// reduce explicit values to literals, then auto-increment the rest.
func analyzeEnumDecl(ctx *AnalysisContext, d *Node) {
	en := d.Init
	analyzeType(ctx, &en.Underlying)

	if en.Values != nil {
		for v := en.Values.Head(); v != nil; v = v.Next {
			if v.Init != nil {
				reduceToLiteral(&v.Init)
			}
		}
		next := int64(0)
		for v := en.Values.Head(); v != nil; v = v.Next {
			if v.Init == nil {
				v.Init = &Node{Kind: KIntLit, Pos: v.Pos, IntVal: next, Flags: FlagSynthetic | FlagAnalyzed}
			} else {
				next = v.Init.IntVal
			}
			v.ParentDecl = d
			next++
		}
	}
}

// unionTagSuffix marks a synthesized tag enum's name so §4.12's "detected
// by a name-suffix convention" rule can skip re-validating it.
const unionTagSuffix = "_Tag"

// analyzeUnionDecl implements spec §4.12: synthesize or validate the tag
// type, then analyze field types and collect a forward declaration.
func analyzeUnionDecl(ctx *AnalysisContext, d *Node) {
	un := d.Init

	if un.TagType == nil {
		synthesizeUnionTag(ctx, d, un)
	} else {
		validateExplicitUnionTag(ctx, d, un)
	}

	if un.Fields != nil {
		for f := un.Fields.Head(); f != nil; f = f.Next {
			analyzeType(ctx, &f.VarType)
		}
	}
	collectForwardDecl(ctx, d)
}

func synthesizeUnionTag(ctx *AnalysisContext, d *Node, un *Node) {
	n := 0
	if un.Fields != nil {
		n = un.Fields.Len()
	}
	underlyingName := "u32"
	switch {
	case n <= 1<<8:
		underlyingName = "u8"
	case n <= 1<<16:
		underlyingName = "u16"
	}

	tagName := d.Name + unionTagSuffix
	values := NewNodeList()
	i := int64(0)
	if un.Fields != nil {
		for f := un.Fields.Head(); f != nil; f = f.Next {
			values.Append(&Node{
				Kind: KEnumValue, Pos: f.Pos, Name: f.Name + "_tag",
				Init: &Node{Kind: KIntLit, Pos: f.Pos, IntVal: i, Flags: FlagSynthetic | FlagAnalyzed},
			})
			i++
		}
	}

	enumDecl := &Node{
		Kind: KEnumDecl, Pos: d.Pos,
		Underlying: ctx.Types.NamedTypeNode(underlyingName, d.Pos),
		Values:     values,
	}
	tagDecl := &Node{
		Kind: KDecl, Pos: d.Pos, Name: tagName,
		DeclType: d.DeclType & QualPub,
		Init:     enumDecl,
		Flags:    FlagSynthetic,
	}
	for v := values.Head(); v != nil; v = v.Next {
		v.ParentDecl = tagDecl
	}

	if err := ctx.Types.Insert(tagName, tagDecl, tagDecl.DeclType.Has(QualPub)); err != nil {
		ctx.Diags.Add(KindName, d.Pos, "%s", err)
	}
	ctx.ModuleScope.Insert(&Symbol{Name: tagName, Decl: tagDecl})
	declInfoOf(tagDecl).Overall = StateCompleted
	insertBeforeInModule(ctx, tagDecl, d)

	un.TagType = ctx.Types.NamedTypeNode(tagName, d.Pos)
}

// insertBeforeInModule splices a synthesized declaration immediately
// before `before` in the module's declaration list (spec §4.12 step 3).
func insertBeforeInModule(ctx *AnalysisContext, n, before *Node) {
	ctx.ModuleDecls.InsertBefore(n, before)
}

func validateExplicitUnionTag(ctx *AnalysisContext, d *Node, un *Node) {
	analyzeType(ctx, &un.TagType)
	if un.TagType.TypeEntry == nil || un.TagType.TypeEntry.Decl == nil || un.TagType.TypeEntry.Decl.Init == nil ||
		un.TagType.TypeEntry.Decl.Init.Kind != KEnumDecl {
		ctx.Diags.Add(KindSemantic, d.Pos, "union tag type `%s` is not a user-defined enum", un.TagType.Name)
		return
	}
	if len(un.TagType.Name) >= len(unionTagSuffix) && un.TagType.Name[len(un.TagType.Name)-len(unionTagSuffix):] == unionTagSuffix {
		return // auto-generated enum by convention, already validated at synthesis
	}
	enumDecl := un.TagType.TypeEntry.Decl.Init
	if un.Fields == nil {
		return
	}
	for f := un.Fields.Head(); f != nil; f = f.Next {
		if !enumHasValue(enumDecl, f.Name) {
			ctx.Diags.Add(KindSemantic, f.Pos, "union tag enum `%s` has no value matching field `%s`", un.TagType.Name, f.Name)
		}
	}
}

func enumHasValue(enumDecl *Node, name string) bool {
	if enumDecl.Values == nil {
		return false
	}
	for v := enumDecl.Values.Head(); v != nil; v = v.Next {
		if v.Name == name {
			return true
		}
	}
	return false
}
