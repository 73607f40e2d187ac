package tick

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intLit(v int64) *Node { return &Node{Kind: KIntLit, IntVal: v} }

func binNode(op SurfaceOp, lhs, rhs *Node) *Node {
	return &Node{Kind: KBinary, SurfOp: op, Lhs: lhs, Rhs: rhs}
}

func TestEvalConstLiterals(t *testing.T) {
	v, ok := evalConst(intLit(42))
	require.True(t, ok)
	assert.EqualValues(t, 42, v)
}

func TestEvalConstArithmetic(t *testing.T) {
	tests := []struct {
		name string
		op   SurfaceOp
		l, r int64
		want int64
	}{
		{"add", OpAdd, 2, 3, 5},
		{"sub", OpSub, 5, 3, 2},
		{"mul", OpMul, 4, 5, 20},
		{"div", OpDiv, 10, 3, 3},
		{"mod", OpMod, 10, 3, 1},
		{"bitand", OpBitAnd, 0b1100, 0b1010, 0b1000},
		{"bitor", OpBitOr, 0b1100, 0b1010, 0b1110},
		{"bitxor", OpBitXor, 0b1100, 0b1010, 0b0110},
		{"shl", OpShl, 1, 4, 16},
		{"shr", OpShr, 16, 4, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, ok := evalConst(binNode(tt.op, intLit(tt.l), intLit(tt.r)))
			require.True(t, ok)
			assert.Equal(t, tt.want, v)
		})
	}
}

func TestEvalConstUnary(t *testing.T) {
	v, ok := evalConst(&Node{Kind: KUnary, SurfOp: OpNeg, Operand: intLit(5)})
	require.True(t, ok)
	assert.EqualValues(t, -5, v)

	v, ok = evalConst(&Node{Kind: KUnary, SurfOp: OpBitNot, Operand: intLit(0)})
	require.True(t, ok)
	assert.EqualValues(t, ^int64(0), v)
}

func TestEvalConstDivisionByZeroFails(t *testing.T) {
	_, ok := evalConst(binNode(OpDiv, intLit(1), intLit(0)))
	assert.False(t, ok)
	_, ok = evalConst(binNode(OpMod, intLit(1), intLit(0)))
	assert.False(t, ok)
}

func TestEvalConstNonConstantFails(t *testing.T) {
	_, ok := evalConst(&Node{Kind: KIdentifier, Name: "x"})
	assert.False(t, ok)

	_, ok = evalConst(binNode(OpAdd, intLit(1), &Node{Kind: KIdentifier, Name: "x"}))
	assert.False(t, ok)
}

func TestEvalConstOverflowDoesNotFail(t *testing.T) {
	// Per the documented open question, overflow is not diagnosed during
	// constant folding: it silently wraps in 64-bit space.
	big := int64(1) << 62
	v, ok := evalConst(binNode(OpAdd, intLit(big), intLit(big)))
	require.True(t, ok)
	assert.Equal(t, big+big, v)
}

func TestReduceToLiteralReplacesNode(t *testing.T) {
	expr := binNode(OpMul, intLit(6), intLit(7))
	var asField *Node = expr

	ok := reduceToLiteral(&asField)

	require.True(t, ok)
	require.Equal(t, KIntLit, asField.Kind)
	assert.EqualValues(t, 42, asField.IntVal)
	assert.True(t, asField.Flags.Has(FlagSynthetic))
	assert.True(t, asField.Flags.Has(FlagAnalyzed))
}

func TestReduceToLiteralLeavesNonConstantAlone(t *testing.T) {
	expr := &Node{Kind: KIdentifier, Name: "x"}
	orig := expr
	ok := reduceToLiteral(&expr)

	assert.False(t, ok)
	assert.Same(t, orig, expr)
}

func TestReduceToLiteralNilExpr(t *testing.T) {
	var expr *Node
	assert.False(t, reduceToLiteral(&expr))
}
