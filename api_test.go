package tick

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func compileOK(t *testing.T, src string) *CompileResult {
	t.Helper()
	res, err := CompileBytes([]byte(src), "input.tick", CompileOptions{})
	require.NoError(t, err, "diags: %v", diagsOrNil(res))
	return res
}

func diagsOrNil(res *CompileResult) []Diagnostic {
	if res == nil || res.Diags == nil {
		return nil
	}
	return res.Diags.Items()
}

// Scenario 1: signed addition selects the checked runtime helper.
func TestCompileSignedAdditionUsesCheckedHelper(t *testing.T) {
	res := compileOK(t, `pub fn add(a: i32, b: i32) i32 { return a + b; }`)

	assert.Contains(t, res.Header, "int32_t add(int32_t, int32_t);")
	assert.Contains(t, res.Source, "int32_t add(int32_t __u_a, int32_t __u_b)")
	assert.Contains(t, res.Source, "return tick_checked_add_i32(__u_a, __u_b);")
}

// Scenario 2: complex expressions extract temporaries in evaluation order.
func TestCompileComplexExpressionExtractsTemporaries(t *testing.T) {
	res := compileOK(t, `fn f(x: i32) i32 { return (x + 1) * (x + 2); }`)

	tmp1 := "__tmp1 = tick_checked_add_i32(__u_x, 1)"
	tmp2 := "__tmp2 = tick_checked_add_i32(__u_x, 2)"
	require.Contains(t, res.Source, tmp1)
	require.Contains(t, res.Source, tmp2)
	assert.Less(t, indexOf(res.Source, tmp1), indexOf(res.Source, tmp2))
	assert.Contains(t, res.Source, "return tick_checked_mul_i32(__tmp1, __tmp2);")
}

// Scenario 3: a tagless union synthesizes its own tag enum; the header
// holds the forward decl, the tag enum and the struct, in that order.
func TestCompileUnionSynthesizesTagEnum(t *testing.T) {
	res := compileOK(t, `pub let Shape = union { circle: f32, square: i32 };`)

	tagTypedef := "typedef u8 __u_Shape_Tag;"
	circleTag := "__u_Shape_Tag_circle_tag = 0"
	squareTag := "__u_Shape_Tag_square_tag = 1"
	forwardDecl := "typedef struct __u_Shape __u_Shape;"
	fullStruct := "struct __u_Shape {"

	require.Contains(t, res.Header, tagTypedef)
	require.Contains(t, res.Header, circleTag)
	require.Contains(t, res.Header, squareTag)
	require.Contains(t, res.Header, forwardDecl)
	require.Contains(t, res.Header, fullStruct)

	// Forward-decl stubs are collected separately and prepended to the
	// whole module at the end of analysis, ahead of the tag enum that was
	// spliced in earlier during the same declaration's analysis.
	assert.Less(t, indexOf(res.Header, forwardDecl), indexOf(res.Header, tagTypedef))
	assert.Less(t, indexOf(res.Header, tagTypedef), indexOf(res.Header, fullStruct))

	assert.Contains(t, res.Header, "__u_Shape_Tag tag;")
	assert.Contains(t, res.Header, "float circle;")
	assert.Contains(t, res.Header, "int32_t square;")
}

// Scenario 4: enum auto-increment resumes after an explicit value.
func TestCompileEnumAutoIncrement(t *testing.T) {
	res := compileOK(t, `let Color = enum(u8) { Red, Green = 5, Blue };`)

	assert.Contains(t, res.Source, "__u_Color_Red = 0")
	assert.Contains(t, res.Source, "__u_Color_Green = 5")
	assert.Contains(t, res.Source, "__u_Color_Blue = 6")
}

// Scenario 5: a nested field assignment decomposes into a pointer chain.
func TestCompileNestedFieldAssignmentDecomposesToPointerChain(t *testing.T) {
	src := `
let Inner = struct { value: i32 };
let Outer = struct { inner: Inner };
fn g(p: *Outer) void { p.inner.value = 42; }
`
	res := compileOK(t, src)

	assert.Contains(t, res.Source, "__u_Inner* __tmp1 = &__u_p->inner;")
	assert.Contains(t, res.Source, "int32_t* __tmp2 = &__tmp1->value;")
	assert.Contains(t, res.Source, "*__tmp2 = 42;")
}

// Scenario 6: unsigned addition collapses to the plain C operator, with no
// runtime helper call.
func TestCompileUnsignedAdditionCollapsesToPlainOperator(t *testing.T) {
	res := compileOK(t, `fn u(a: u32, b: u32) u32 { return a + b; }`)

	assert.Contains(t, res.Source, "return __u_a + __u_b;")
	assert.NotContains(t, res.Source, "tick_checked_add")
	assert.NotContains(t, res.Source, "tick_wrap_add")
	assert.NotContains(t, res.Source, "tick_sat_add")
}

func TestCompileExternFunctionHasNoPrefix(t *testing.T) {
	res := compileOK(t, `pub extern fn memcpy(dst: *u8, src: *u8, n: usz) void;`)
	assert.Contains(t, res.Header, "extern void memcpy(uint8_t*, uint8_t*, size_t);")
}

func TestCompilePrivateFunctionStaysOutOfHeader(t *testing.T) {
	res := compileOK(t, `fn helper(x: i32) i32 { return x; }`)
	assert.NotContains(t, res.Header, "helper(")
	assert.Contains(t, res.Source, "__u_helper")
}

func TestCompileReportsUndefinedIdentifier(t *testing.T) {
	_, err := CompileBytes([]byte(`fn f() i32 { return y; }`), "input.tick", CompileOptions{})
	require.Error(t, err)
}

func TestCompileReportsCircularDependency(t *testing.T) {
	src := `
pub let A = struct { b: B };
pub let B = struct { a: A };
`
	// Direct (non-pointer) mutual struct embedding is a genuine cycle: it
	// can never terminate analysis because resolving A's field type
	// requires B to be a completed declaration and vice versa.
	_, err := CompileBytes([]byte(src), "input.tick", CompileOptions{})
	require.Error(t, err)
}

func indexOf(s, substr string) int {
	for i := 0; i+len(substr) <= len(s); i++ {
		if s[i:i+len(substr)] == substr {
			return i
		}
	}
	return -1
}
