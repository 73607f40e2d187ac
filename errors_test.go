package tick

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ticklang/tick/ascii"
)

func TestDiagKindString(t *testing.T) {
	assert.Equal(t, "lexical", KindLexical.String())
	assert.Equal(t, "syntactic", KindSyntactic.String())
	assert.Equal(t, "name", KindName.String())
	assert.Equal(t, "type", KindType.String())
	assert.Equal(t, "semantic", KindSemantic.String())
	assert.Equal(t, "constant", KindConstant.String())
	assert.Equal(t, "internal error", KindFatal.String())
	assert.Equal(t, "unknown", DiagKind(999).String())
}

func TestDiagnosticErrorWithAndWithoutHint(t *testing.T) {
	d := Diagnostic{Kind: KindName, Message: "undefined identifier `x`"}
	assert.Equal(t, "name: undefined identifier `x`", d.Error())

	d.Hint = "did you mean `y`?"
	assert.Equal(t, "name: undefined identifier `x` (did you mean `y`?)", d.Error())
}

func TestDiagnosticsAddRespectsCapAndReportsTruncation(t *testing.T) {
	diags := NewDiagnostics(2)
	diags.Add(KindName, Pos{Line: 1, Column: 1}, "first")
	diags.Add(KindName, Pos{Line: 2, Column: 1}, "second")
	diags.Add(KindName, Pos{Line: 3, Column: 1}, "third — should be suppressed")

	require.True(t, diags.HasErrors())
	assert.Len(t, diags.Items(), 2)
	assert.True(t, diags.Truncated())
	assert.Contains(t, diags.Error(), "more errors suppressed")
}

func TestDiagnosticsAddHintCarriesHint(t *testing.T) {
	diags := NewDiagnostics(10)
	diags.AddHint(KindName, Pos{}, "did you mean `foo`?", "undefined identifier `%s`", "fo")

	require.Len(t, diags.Items(), 1)
	assert.Equal(t, "did you mean `foo`?", diags.Items()[0].Hint)
	assert.Equal(t, "undefined identifier `fo`", diags.Items()[0].Message)
}

func TestNewDiagnosticsDefaultsCapWhenNonPositive(t *testing.T) {
	diags := NewDiagnostics(0)
	for i := 0; i < 64; i++ {
		diags.Add(KindName, Pos{}, "err %d", i)
	}
	assert.False(t, diags.Truncated())
	diags.Add(KindName, Pos{}, "one more")
	assert.True(t, diags.Truncated())
}

func TestFatalfPanicsWithFatalDiagnostic(t *testing.T) {
	defer func() {
		r := recover()
		require.NotNil(t, r)
		d, ok := r.(Diagnostic)
		require.True(t, ok)
		assert.Equal(t, KindFatal, d.Kind)
		assert.Contains(t, d.Message, "boom")
	}()
	fatalf("something went %s", "boom")
}

func TestDiagnosticColorStringIncludesMessage(t *testing.T) {
	d := Diagnostic{Kind: KindType, Message: "bad type", At: Pos{Line: 4, Column: 2}}
	out := d.ColorString(ascii.DefaultTheme)
	assert.Contains(t, out, "bad type")
	assert.Contains(t, out, "4:2")
}
