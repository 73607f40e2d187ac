package tick

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parseModule(t *testing.T, src string) (*Node, *Diagnostics) {
	t.Helper()
	diags := NewDiagnostics(64)
	p := NewParser([]byte(src), "input.tick", diags)
	mod := p.ParseModule()
	return mod, diags
}

func TestParseFnDeclWithQualifiersAndParams(t *testing.T) {
	mod, diags := parseModule(t, `pub fn add(a: i32, b: i32) i32 { return a + b; }`)
	require.False(t, diags.HasErrors())
	require.Equal(t, 1, mod.Decls.Len())

	d := mod.Decls.Head()
	assert.Equal(t, "add", d.Name)
	assert.True(t, d.DeclType.Has(QualPub))
	require.Equal(t, KFunctionDecl, d.Init.Kind)
	assert.Equal(t, 2, d.Init.Params.Len())
	assert.Equal(t, "a", d.Init.Params.Head().Name)
}

func TestParseExternFnDeclHasNoBody(t *testing.T) {
	mod, diags := parseModule(t, `pub extern fn memcpy(dst: *u8, src: *u8, n: usz) void;`)
	require.False(t, diags.HasErrors())
	d := mod.Decls.Head()
	assert.True(t, d.DeclType.Has(QualPub))
	assert.True(t, d.DeclType.Has(QualExtern))
	assert.Nil(t, d.Init.Body)
}

func TestParseLetStructDecl(t *testing.T) {
	mod, diags := parseModule(t, `let Point = struct { x: i32, y: i32 };`)
	require.False(t, diags.HasErrors())
	d := mod.Decls.Head()
	assert.Equal(t, "Point", d.Name)
	require.Equal(t, KStructDecl, d.Init.Kind)
	assert.Equal(t, 2, d.Init.Fields.Len())
}

func TestParseUnionDeclWithExplicitTag(t *testing.T) {
	mod, diags := parseModule(t, `
let Kind = enum(u8) { A, B };
let Shape = union(Kind) { a: i32, b: f32 };
`)
	require.False(t, diags.HasErrors())
	require.Equal(t, 2, mod.Decls.Len())
	shape := mod.Decls.Head().Next
	assert.Equal(t, "Shape", shape.Name)
	require.Equal(t, KUnionDecl, shape.Init.Kind)
	require.NotNil(t, shape.Init.TagType)
	assert.Equal(t, "Kind", shape.Init.TagType.Name)
}

func TestParseEnumDeclWithExplicitValues(t *testing.T) {
	mod, diags := parseModule(t, `let Color = enum(u8) { Red, Green = 5, Blue };`)
	require.False(t, diags.HasErrors())
	d := mod.Decls.Head()
	require.Equal(t, KEnumDecl, d.Init.Kind)
	require.Equal(t, 3, d.Init.Values.Len())

	red := d.Init.Values.Head()
	green := red.Next
	blue := green.Next
	assert.Equal(t, "Red", red.Name)
	assert.Nil(t, red.Init)
	assert.Equal(t, "Green", green.Name)
	require.NotNil(t, green.Init)
	assert.Equal(t, int64(5), green.Init.IntVal)
	assert.Equal(t, "Blue", blue.Name)
	assert.Nil(t, blue.Init)
}

func TestParseFieldAccessChain(t *testing.T) {
	mod, diags := parseModule(t, `fn g(p: *Outer) void { p.inner.value = 42; }`)
	require.False(t, diags.HasErrors())
	d := mod.Decls.Head()
	stmt := d.Init.Body.Head()
	require.Equal(t, KExprStmt, stmt.Kind)
	assign := stmt.Operand
	require.Equal(t, KBinary, assign.Kind)
	assert.Equal(t, opAssign, assign.SurfOp)

	lhs := assign.Lhs
	require.Equal(t, KFieldAccess, lhs.Kind)
	assert.Equal(t, "value", lhs.FieldName)
	require.Equal(t, KFieldAccess, lhs.Object.Kind)
	assert.Equal(t, "inner", lhs.Object.FieldName)
}

func TestParseForLoop(t *testing.T) {
	mod, diags := parseModule(t, `fn f() void { for (var i: i32 = 0; i < 10; i = i + 1) {} }`)
	require.False(t, diags.HasErrors())
	d := mod.Decls.Head()
	stmt := d.Init.Body.Head()
	require.Equal(t, KFor, stmt.Kind)
	require.NotNil(t, stmt.ForInit)
	require.NotNil(t, stmt.Cond)
	require.NotNil(t, stmt.ForStep)
}

func TestParseCastExpression(t *testing.T) {
	mod, diags := parseModule(t, `fn f(x: i64) i32 { return x as i32; }`)
	require.False(t, diags.HasErrors())
	d := mod.Decls.Head()
	ret := d.Init.Body.Head()
	require.Equal(t, KReturn, ret.Kind)
	require.Equal(t, KCast, ret.RetExpr.Kind)
}

func TestParseReportsSyntaxErrorOnGarbage(t *testing.T) {
	_, diags := parseModule(t, `fn ( ) { `)
	assert.True(t, diags.HasErrors())
}
