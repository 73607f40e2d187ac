package tick

// analyzeType resolves the type expression at *t in place, returning the
// (possibly replaced) node, per spec §4.4. Passing the field address lets
// array-size reduction and future rewrites replace the node outright.
func analyzeType(ctx *AnalysisContext, t **Node) *Node {
	n := *t
	if n == nil {
		return nil
	}
	switch n.Kind {
	case KNamedType:
		entry, ok := ctx.Types.Lookup(n.Name)
		if !ok {
			n.Builtin = BuiltinUnknown
			ctx.Diags.AddHint(KindType, n.Pos, didYouMeanType(ctx, n.Name), "unresolved type `%s`", n.Name)
			return n
		}
		n.TypeEntry = entry
		n.Builtin = entry.Builtin
		if entry.Decl != nil && entry.Decl != n {
			if declInfoOf(entry.Decl).Overall != StateCompleted {
				addDependency(ctx, entry.Decl)
			}
		}
		return n
	case KPointerType:
		// Forward declarations are enough to emit a pointer: resolve the
		// pointee's table entry without registering a dependency on it.
		if n.Elem != nil && n.Elem.Kind == KNamedType {
			if entry, ok := ctx.Types.Lookup(n.Elem.Name); ok {
				n.Elem.TypeEntry = entry
				n.Elem.Builtin = entry.Builtin
			} else {
				ctx.Diags.Add(KindType, n.Elem.Pos, "unresolved type `%s`", n.Elem.Name)
			}
			return n
		}
		analyzeType(ctx, &n.Elem)
		return n
	case KArrayType:
		if !reduceToLiteral(&n.SizeExpr) {
			ctx.Diags.Add(KindConstant, n.Pos, "array size must reduce to a constant")
		}
		analyzeType(ctx, &n.Elem)
		return n
	case KFunctionType:
		analyzeType(ctx, &n.Ret)
		if n.Params != nil {
			for p := n.Params.Head(); p != nil; p = p.Next {
				analyzeType(ctx, &p.VarType)
			}
		}
		return n
	case KOptionalType, KErrorUnionType, KSliceType:
		analyzeType(ctx, &n.Elem)
		if n.Kind == KErrorUnionType {
			analyzeType(ctx, &n.ErrType)
		}
		return n
	default:
		return n
	}
}

func didYouMeanType(ctx *AnalysisContext, name string) string {
	best := closestName(name, ctx.Types.m.Keys())
	if best == "" {
		return ""
	}
	return "did you mean `" + best + "`?"
}

// closestName is a small Levenshtein-nearest helper for "did you mean"
// hints; it never claims a match farther than 2 edits away.
func closestName(target string, candidates []string) string {
	best, bestDist := "", 3
	for _, c := range candidates {
		d := levenshtein(target, c)
		if d < bestDist {
			best, bestDist = c, d
		}
	}
	return best
}

func levenshtein(a, b string) int {
	if a == b {
		return 0
	}
	la, lb := len(a), len(b)
	prev := make([]int, lb+1)
	cur := make([]int, lb+1)
	for j := 0; j <= lb; j++ {
		prev[j] = j
	}
	for i := 1; i <= la; i++ {
		cur[0] = i
		for j := 1; j <= lb; j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			min := cur[j-1] + 1
			if prev[j]+1 < min {
				min = prev[j] + 1
			}
			if prev[j-1]+cost < min {
				min = prev[j-1] + cost
			}
			cur[j] = min
		}
		prev, cur = cur, prev
	}
	return prev[lb]
}
