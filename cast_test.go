package tick

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSelectCastStrategy(t *testing.T) {
	tests := []struct {
		name       string
		src, dst   BuiltinTag
		wantStrat  CastStrategy
		wantHelper string
	}{
		{"same type is bare", BuiltinI32, BuiltinI32, CastBare, ""},
		{"non-numeric source is bare", BuiltinBool, BuiltinI32, CastBare, ""},
		{"non-numeric dest is bare", BuiltinI32, BuiltinBool, CastBare, ""},
		{"signed widening is bare", BuiltinI16, BuiltinI32, CastBare, ""},
		{"unsigned widening is bare", BuiltinU16, BuiltinU32, CastBare, ""},
		{"unsigned to wider signed is bare", BuiltinU16, BuiltinI32, CastBare, ""},
		{"unsigned to same-width signed is checked", BuiltinU32, BuiltinI32, CastChecked, "tick_cast_u32_i32"},
		{"signed narrowing is checked", BuiltinI32, BuiltinI16, CastChecked, "tick_cast_i32_i16"},
		{"unsigned narrowing is checked", BuiltinU32, BuiltinU16, CastChecked, "tick_cast_u32_u16"},
		{"signed to unsigned same width is checked", BuiltinI32, BuiltinU32, CastChecked, "tick_cast_i32_u32"},
		{"signed widening to unsigned is checked", BuiltinI16, BuiltinU32, CastChecked, "tick_cast_i16_u32"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			strat, helper := selectCastStrategy(tt.src, tt.dst)
			assert.Equal(t, tt.wantStrat, strat)
			assert.Equal(t, tt.wantHelper, helper)
		})
	}
}

func TestBuiltinOpRuntimeFuncNaming(t *testing.T) {
	tests := []struct {
		op   BuiltinOp
		tag  BuiltinTag
		want string
	}{
		{OpCheckedAdd, BuiltinI32, "tick_checked_add_i32"},
		{OpCheckedSub, BuiltinI64, "tick_checked_sub_i64"},
		{OpSatMul, BuiltinU32, "tick_sat_mul_u32"},
		{OpWrapDiv, BuiltinU16, "tick_wrap_div_u16"},
		{OpCheckedNeg, BuiltinI16, "tick_checked_neg_i16"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, builtinOpRuntimeFunc(tt.op, tt.tag))
	}
	assert.Equal(t, "", builtinOpRuntimeFunc(OpNone, BuiltinI32))
}
