package tick

// DeclState is a per-declaration tri-state tracked across the two analysis
// passes (spec §4.3, glossary "Analysis state").
type DeclState int

const (
	StateNotStarted DeclState = iota
	StateInProgress
	StateCompleted
	StateFailed
)

// declInfo is the analysis bookkeeping a module-level KDecl carries:
// separate states for its signature and body (a function's signature can
// complete — and so satisfy a caller's dependency — before its body has
// been walked), plus the two queue-membership flags spec §4.3 and §4.6
// describe.
type declInfo struct {
	Overall   DeclState
	Signature DeclState
	Body      DeclState

	InPendingDeps bool // suppresses duplicate entries in the current decl's pending-deps list
	InQueue       bool
}

func declInfoOf(d *Node) *declInfo {
	if d.analysis == nil {
		d.analysis = &declInfo{}
	}
	return d.analysis
}

// AnalysisContext is the single threaded-through state described in
// spec §3.6. There is no global state: every analysis function takes ctx
// explicitly (spec §9 "Global mutable state").
type AnalysisContext struct {
	Alloc  Allocator
	Source []byte
	Diags  *Diagnostics
	Types  *TypeTable

	ModuleScope *Scope
	ModuleDecls *NodeList // the module's own declaration list, for tag-enum splicing
	Scope       *Scope    // current scope
	FuncScope   *Scope    // current function scope, where temporaries are allocated
	CurBlock    *NodeList
	CurStmt     *Node
	Depth       int // module level is zero

	queue        []*Node
	pendingDeps  []*Node
	forwardDecls []*Node
}

func NewAnalysisContext(alloc Allocator, source []byte, diags *Diagnostics) *AnalysisContext {
	ms := NewScope(nil)
	return &AnalysisContext{
		Alloc:       alloc,
		Source:      source,
		Diags:       diags,
		Types:       NewTypeTable(),
		ModuleScope: ms,
		Scope:       ms,
	}
}

// scopeGuard is the explicit save/restore helper spec §9 calls for in place
// of RAII: callers take `guard := ctx.saveScope()` and `defer guard.restore()`.
type scopeGuard struct {
	ctx       *AnalysisContext
	scope     *Scope
	funcScope *Scope
	block     *NodeList
	stmt      *Node
	depth     int
}

func (ctx *AnalysisContext) saveScope() scopeGuard {
	return scopeGuard{ctx, ctx.Scope, ctx.FuncScope, ctx.CurBlock, ctx.CurStmt, ctx.Depth}
}

func (g scopeGuard) restore() {
	g.ctx.Scope = g.scope
	g.ctx.FuncScope = g.funcScope
	g.ctx.CurBlock = g.block
	g.ctx.CurStmt = g.stmt
	g.ctx.Depth = g.depth
}

func isTypeDeclInit(init *Node) bool {
	if init == nil {
		return false
	}
	switch init.Kind {
	case KStructDecl, KUnionDecl, KEnumDecl:
		return true
	}
	return false
}

func enqueue(ctx *AnalysisContext, d *Node) {
	info := declInfoOf(d)
	if info.InQueue || info.Overall == StateCompleted {
		return
	}
	info.InQueue = true
	ctx.queue = append(ctx.queue, d)
}

// addDependency records that the declaration currently being analyzed
// cannot complete until dep completes (spec §4.3's "add dependency").
// Duplicates are suppressed by dep's own InPendingDeps flag, matching the
// "per-node in pending deps flag" spec §4.3 describes.
func addDependency(ctx *AnalysisContext, dep *Node) {
	if dep == nil {
		return
	}
	info := declInfoOf(dep)
	if info.Overall == StateCompleted || info.InPendingDeps {
		return
	}
	info.InPendingDeps = true
	ctx.pendingDeps = append(ctx.pendingDeps, dep)
}

// Analyze runs the full two-pass driver over a module node (spec §4.3),
// then prepends the collected forward-declaration stubs.
func Analyze(ctx *AnalysisContext, module *Node) {
	ctx.ModuleDecls = module.Decls
	for d := module.Decls.Head(); d != nil; d = d.Next {
		registerDecl(ctx, d)
	}
	// Private declarations are queued behind the public ones so that every
	// declaration reaching emission has been analyzed.
	for d := module.Decls.Head(); d != nil; d = d.Next {
		if d.Kind == KDecl {
			enqueue(ctx, d)
		}
	}

	deferrals := make(map[*Node]int)
	for len(ctx.queue) > 0 {
		d := ctx.queue[0]
		ctx.queue = ctx.queue[1:]
		info := declInfoOf(d)
		info.InQueue = false

		if info.Overall == StateInProgress {
			ctx.Diags.Add(KindSemantic, d.Pos, "circular dependency involving `%s`", d.Name)
			info.Overall = StateFailed
			continue
		}
		if info.Overall == StateCompleted || info.Overall == StateFailed {
			continue
		}

		info.Overall = StateInProgress
		ctx.pendingDeps = ctx.pendingDeps[:0]
		analyzeModuleDecl(ctx, d)

		if len(ctx.pendingDeps) == 0 {
			if info.Overall == StateInProgress {
				info.Overall = StateCompleted
			}
			continue
		}

		info.Overall = StateNotStarted
		deps := append([]*Node(nil), ctx.pendingDeps...)
		for _, dep := range deps {
			di := declInfoOf(dep)
			di.InPendingDeps = false
			enqueue(ctx, dep)
		}
		// A declaration deferred more often than the module has
		// declarations is waiting on itself through a dependency cycle.
		deferrals[d]++
		if deferrals[d] > module.Decls.Len() {
			ctx.Diags.Add(KindSemantic, d.Pos, "circular dependency involving `%s`", d.Name)
			info.Overall = StateFailed
			continue
		}
		enqueue(ctx, d)
	}

	prependForwardDecls(ctx, module)
}

// registerDecl is pass 1 (spec §4.3.1).
func registerDecl(ctx *AnalysisContext, d *Node) {
	if d.Kind != KDecl {
		ctx.Diags.Add(KindSemantic, d.Pos, "module-level node is not a declaration")
		return
	}
	declInfoOf(d)

	if isTypeDeclInit(d.Init) {
		if err := ctx.Types.Insert(d.Name, d, d.DeclType.Has(QualPub)); err != nil {
			ctx.Diags.Add(KindName, d.Pos, "%s", err)
		}
	}

	sym := &Symbol{Name: d.Name, Decl: d}
	if !ctx.ModuleScope.Insert(sym) {
		ctx.Diags.Add(KindName, d.Pos, "duplicate declaration `%s`", d.Name)
	}

	if d.DeclType.Has(QualPub) {
		enqueue(ctx, d)
	}
}

// analyzeModuleDecl dispatches a module-level declaration to the right
// analysis routine by the kind of its initializer.
func analyzeModuleDecl(ctx *AnalysisContext, d *Node) {
	defer func() {
		if r := recover(); r != nil {
			diag, ok := r.(Diagnostic)
			if !ok {
				panic(r)
			}
			diag.At = d.Pos
			ctx.Diags.items = append(ctx.Diags.items, diag)
			declInfoOf(d).Overall = StateFailed
		}
	}()

	switch {
	case d.Init == nil:
		if !d.DeclType.Has(QualExtern) {
			ctx.Diags.Add(KindSemantic, d.Pos, "declaration `%s` has no initializer and is not extern", d.Name)
			declInfoOf(d).Overall = StateFailed
			return
		}
		analyzeType(ctx, &d.VarType)
	case d.Init.Kind == KFunctionDecl:
		analyzeFunctionDecl(ctx, d)
	case d.Init.Kind == KStructDecl:
		analyzeStructDecl(ctx, d)
	case d.Init.Kind == KUnionDecl:
		analyzeUnionDecl(ctx, d)
	case d.Init.Kind == KEnumDecl:
		analyzeEnumDecl(ctx, d)
	default:
		analyzeModuleVarDecl(ctx, d)
	}
}

func analyzeModuleVarDecl(ctx *AnalysisContext, d *Node) {
	if d.VarType != nil {
		analyzeType(ctx, &d.VarType)
	}
	t := analyzeExpr(ctx, &d.Init)
	if d.VarType == nil {
		d.VarType = t
	}
	if !isConstantExpr(d.Init) {
		ctx.Diags.Add(KindSemantic, d.Pos, "module-level initializer for `%s` is not a compile-time constant", d.Name)
	}
}

func isConstantExpr(n *Node) bool {
	if n == nil {
		return true
	}
	switch n.Kind {
	case KIntLit, KUintLit, KBoolLit, KStringLit, KNullLit, KEnumValueRef:
		return true
	case KStructInit, KArrayInit:
		return true
	case KUnary:
		return isConstantExpr(n.Operand)
	case KBinary:
		return isConstantExpr(n.Lhs) && isConstantExpr(n.Rhs)
	}
	return false
}

// prependForwardDecls implements the forward-declaration invariant
// (spec §3.7, §4.3): all stubs precede all definitions, in declaration
// order of collection.
func prependForwardDecls(ctx *AnalysisContext, module *Node) {
	if len(ctx.forwardDecls) == 0 {
		return
	}
	fwd := NewNodeList()
	for _, d := range ctx.forwardDecls {
		fwd.Append(d)
	}
	module.Decls.PrependList(fwd)
}

// collectForwardDecl registers a synthetic forward-declaration stub for a
// struct or union declaration (spec §3.7, §4.12's "a synthetic forward
// declaration is collected").
func collectForwardDecl(ctx *AnalysisContext, d *Node) {
	stub := &Node{
		Kind:     KDecl,
		Pos:      d.Pos,
		Name:     d.Name,
		DeclType: (d.DeclType & QualPub) | QualForwardDecl,
		Init:     d.Init,
	}
	ctx.forwardDecls = append(ctx.forwardDecls, stub)
}
