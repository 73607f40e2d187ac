package tick

import "fmt"

// EmitSink pairs an outputWriter with the last `#line` line number printed
// into it, so consecutive directives for the same line are suppressed
// independently per sink (spec §4.13, §6.4).
type EmitSink struct {
	w        *outputWriter
	lastLine int
}

func newEmitSink() *EmitSink {
	return &EmitSink{w: newOutputWriter("    "), lastLine: -1}
}

func (s *EmitSink) String() string { return s.w.buffer.String() }

// EmitContext is the emission-pass state: the two sinks (interface header,
// implementation translation unit) and the source filename `#line`
// directives reference (spec §4.13).
type EmitContext struct {
	Iface      *EmitSink
	Impl       *EmitSink
	SourceFile string
}

func NewEmitContext(sourceFile string) *EmitContext {
	return &EmitContext{Iface: newEmitSink(), Impl: newEmitSink(), SourceFile: sourceFile}
}

// sinkFor picks the interface or implementation sink for a declaration
// per the per-kind rules in spec §4.13's "Top-level dispatch".
func sinkFor(ctx *EmitContext, pub bool) *EmitSink {
	if pub {
		return ctx.Iface
	}
	return ctx.Impl
}

// line emits a `#line` directive for pos unless the sink is already
// positioned there (spec §6.4's monotonicity property).
func line(sink *EmitSink, pos Pos, source string) {
	if pos.Line == sink.lastLine {
		return
	}
	sink.w.writel(fmt.Sprintf("#line %d %q", pos.Line, source))
	sink.lastLine = pos.Line
}

// userName applies the §6.2 name-encoding contract for a declared name:
// `__u_` for ordinary user names, unprefixed for extern/pub.
func userName(decl *Node) string {
	if decl == nil {
		return ""
	}
	if needsUserPrefix(decl) {
		return "__u_" + decl.Name
	}
	return decl.Name
}

func userTypeName(name string) string { return "__u_" + name }

func tempName(id int) string { return fmt.Sprintf("__tmp%d", id) }

func enumValueCName(enumName, valueName string) string {
	return "__u_" + enumName + "_" + valueName
}

// builtinCNames maps the twelve built-in tags to their C spellings
// (spec §4.13 "Types").
var builtinCNames = map[BuiltinTag]string{
	BuiltinI8: "int8_t", BuiltinI16: "int16_t", BuiltinI32: "int32_t", BuiltinI64: "int64_t",
	BuiltinU8: "uint8_t", BuiltinU16: "uint16_t", BuiltinU32: "uint32_t", BuiltinU64: "uint64_t",
	BuiltinUsz: "size_t", BuiltinIsz: "ptrdiff_t", BuiltinBool: "bool", BuiltinVoid: "void",
}

// emitTypeSpec renders a type's base spelling, excluding the array-size
// and function-parameter declarator suffixes that attach to the variable
// name instead (spec §4.13: "the [N] suffix is attached to declarator
// names, not types").
func emitTypeSpec(t *Node) string {
	if t == nil {
		return "void"
	}
	switch t.Kind {
	case KNamedType:
		if name, ok := builtinCNames[t.Builtin]; ok {
			return name
		}
		return userTypeName(t.Name)
	case KPointerType:
		return emitTypeSpec(t.Elem) + "*"
	case KArrayType:
		return emitTypeSpec(t.Elem)
	case KFunctionType:
		return fmt.Sprintf("%s (*)(%s)", emitTypeSpec(t.Ret), emitParamTypeList(t.Params))
	case KOptionalType, KErrorUnionType, KSliceType:
		fatalf("un-lowered %s type reached emission", t.Kind)
	}
	return "void"
}

func emitParamTypeList(params *NodeList) string {
	if params == nil || params.Len() == 0 {
		return "void"
	}
	out := ""
	i := 0
	for p := params.Head(); p != nil; p = p.Next {
		if i > 0 {
			out += ", "
		}
		out += emitTypeSpec(p.VarType)
		i++
	}
	return out
}

// emitDeclarator renders `<type> <name>` (or the function-pointer /
// pointer-to-array / fixed-array special forms spec §4.13 calls out)
// without a trailing semicolon.
func emitDeclarator(name string, t *Node) string {
	if t == nil {
		return "void " + name
	}
	switch t.Kind {
	case KArrayType:
		return fmt.Sprintf("%s %s[%d]", emitTypeSpec(t.Elem), name, arraySize(t))
	case KPointerType:
		if t.Elem != nil && t.Elem.Kind == KArrayType {
			return fmt.Sprintf("%s (*%s)[%d]", emitTypeSpec(t.Elem.Elem), name, arraySize(t.Elem))
		}
		if t.Elem != nil && t.Elem.Kind == KFunctionType {
			return fmt.Sprintf("%s (*%s)(%s)", emitTypeSpec(t.Elem.Ret), name, emitParamTypeList(t.Elem.Params))
		}
		return fmt.Sprintf("%s %s", emitTypeSpec(t), name)
	case KFunctionType:
		return fmt.Sprintf("%s (*%s)(%s)", emitTypeSpec(t.Ret), name, emitParamTypeList(t.Params))
	default:
		return fmt.Sprintf("%s %s", emitTypeSpec(t), name)
	}
}

func arraySize(t *Node) int64 {
	if t.SizeExpr == nil || t.SizeExpr.Kind != KIntLit {
		fatalf("non-literal array size reached emission")
	}
	return t.SizeExpr.IntVal
}

// Emit walks the module's declaration list once and writes C into the two
// sinks, opening the interface sink with `#pragma once` and the runtime
// prelude (spec §4.13, §6.3).
func Emit(ctx *EmitContext, module *Node) {
	ctx.Iface.w.writel("#pragma once")
	ctx.Iface.w.writel(runtimePreludeHeader)

	for d := module.Decls.Head(); d != nil; d = d.Next {
		emitTopLevelDecl(ctx, d)
	}
}

func emitTopLevelDecl(ctx *EmitContext, d *Node) {
	if d.Init == nil {
		emitGlobalVar(ctx, d)
		return
	}
	switch d.Init.Kind {
	case KStructDecl, KUnionDecl:
		emitAggregateDecl(ctx, d)
	case KEnumDecl:
		emitEnumDecl(ctx, d)
	case KFunctionDecl:
		emitFunctionDecl(ctx, d)
	default:
		emitGlobalVar(ctx, d)
	}
}
