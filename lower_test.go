package tick

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLowerMarksDeclsAndExprsLowered(t *testing.T) {
	i32 := &Node{Kind: KNamedType, Builtin: BuiltinI32}
	body := NewNodeList()
	retExpr := &Node{Kind: KIdentifier, Name: "x"}
	body.Append(&Node{Kind: KReturn, RetExpr: retExpr})

	fn := &Node{Kind: KFunctionDecl, Ret: i32, Params: NewNodeList(), Body: body}
	decl := &Node{Kind: KDecl, Name: "f", Init: fn}

	module := &Node{Kind: KModule, Decls: NewNodeList()}
	module.Decls.Append(decl)

	Lower(module)

	assert.True(t, decl.Flags.Has(FlagLowered))
	assert.True(t, retExpr.Flags.Has(FlagLowered))
}

func TestLowerStructFieldsCheckType(t *testing.T) {
	i32 := &Node{Kind: KNamedType, Builtin: BuiltinI32}
	fields := NewNodeList()
	fields.Append(&Node{Kind: KDecl, Name: "value", VarType: i32})

	structDecl := &Node{Kind: KStructDecl, Fields: fields}
	decl := &Node{Kind: KDecl, Name: "S", Init: structDecl}

	module := &Node{Kind: KModule, Decls: NewNodeList()}
	module.Decls.Append(decl)

	assert.NotPanics(t, func() { Lower(module) })
}

func TestCheckLoweredTypeAllowsBuiltin(t *testing.T) {
	assert.NotPanics(t, func() {
		checkLoweredType(&Node{Kind: KNamedType, Builtin: BuiltinI32})
	})
	assert.NotPanics(t, func() {
		checkLoweredType(nil)
	})
}

func TestCheckLoweredTypePanicsOnOptional(t *testing.T) {
	defer func() {
		r := recover()
		require.NotNil(t, r)
		d, ok := r.(Diagnostic)
		require.True(t, ok)
		assert.Equal(t, KindFatal, d.Kind)
	}()
	checkLoweredType(&Node{Kind: KOptionalType})
}

func TestCheckLoweredTypePanicsOnSliceAndErrorUnion(t *testing.T) {
	assert.Panics(t, func() { checkLoweredType(&Node{Kind: KSliceType}) })
	assert.Panics(t, func() { checkLoweredType(&Node{Kind: KErrorUnionType}) })
}

func TestLowerPropagatesThroughNestedStatements(t *testing.T) {
	cond := &Node{Kind: KIdentifier, Name: "c"}
	thenBlock := &Node{Kind: KBlock, Body: NewNodeList()}
	innerExpr := &Node{Kind: KIdentifier, Name: "y"}
	thenBlock.Body.Append(&Node{Kind: KExprStmt, Operand: innerExpr})

	ifStmt := &Node{Kind: KIf, Cond: cond, Then: thenBlock}

	body := NewNodeList()
	body.Append(ifStmt)
	fn := &Node{Kind: KFunctionDecl, Body: body, Params: NewNodeList()}
	decl := &Node{Kind: KDecl, Name: "g", Init: fn}

	module := &Node{Kind: KModule, Decls: NewNodeList()}
	module.Decls.Append(decl)

	Lower(module)

	assert.True(t, cond.Flags.Has(FlagLowered))
	assert.True(t, innerExpr.Flags.Has(FlagLowered))
	assert.True(t, ifStmt.Flags.Has(FlagLowered))
}
