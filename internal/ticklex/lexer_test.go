package ticklex

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func allTokens(src string) []Token {
	l := New([]byte(src))
	var toks []Token
	for {
		tok := l.Next()
		toks = append(toks, tok)
		if tok.Kind == EOF {
			return toks
		}
	}
}

func TestLexerKeywordsAndIdents(t *testing.T) {
	toks := allTokens("fn pub extern foo")
	require.Len(t, toks, 5)
	assert.Equal(t, KwFn, toks[0].Kind)
	assert.Equal(t, KwPub, toks[1].Kind)
	assert.Equal(t, KwExtern, toks[2].Kind)
	assert.Equal(t, Ident, toks[3].Kind)
	assert.Equal(t, "foo", toks[3].Text)
	assert.Equal(t, EOF, toks[4].Kind)
}

func TestLexerIntegerWithUnderscoreSeparators(t *testing.T) {
	toks := allTokens("1_000_000")
	require.Len(t, toks, 2)
	assert.Equal(t, Int, toks[0].Kind)
	assert.Equal(t, int64(1000000), toks[0].IntVal)
}

func TestLexerStringWithEscapes(t *testing.T) {
	toks := allTokens(`"a\nb\"c"`)
	require.Len(t, toks, 2)
	assert.Equal(t, String, toks[0].Kind)
	assert.Equal(t, "a\nb\"c", toks[0].Text)
}

func TestLexerSkipsLineComments(t *testing.T) {
	toks := allTokens("x // trailing comment\ny")
	require.Len(t, toks, 3)
	assert.Equal(t, "x", toks[0].Text)
	assert.Equal(t, "y", toks[1].Text)
}

func TestLexerTwoCharPunctuation(t *testing.T) {
	toks := allTokens("a == b != c <= d >= e && f || g << h >> i -> j")
	var puncts []string
	for _, tok := range toks {
		if tok.Kind == Punct {
			puncts = append(puncts, tok.Text)
		}
	}
	assert.Equal(t, []string{"==", "!=", "<=", ">=", "&&", "||", "<<", ">>", "->"}, puncts)
}

func TestLexerSingleCharPunctuationNotGreedy(t *testing.T) {
	toks := allTokens("a < b")
	require.Len(t, toks, 4)
	assert.Equal(t, Punct, toks[1].Kind)
	assert.Equal(t, "<", toks[1].Text)
}

func TestLexerTracksLineAndColumn(t *testing.T) {
	toks := allTokens("ab\ncd")
	require.Len(t, toks, 3)
	assert.Equal(t, 1, toks[0].Line)
	assert.Equal(t, 1, toks[0].Col)
	assert.Equal(t, 2, toks[1].Line)
	assert.Equal(t, 1, toks[1].Col)
}

func TestLexerEOFIsStable(t *testing.T) {
	l := New([]byte("x"))
	l.Next()
	first := l.Next()
	second := l.Next()
	assert.Equal(t, EOF, first.Kind)
	assert.Equal(t, EOF, second.Kind)
}

func TestLexerEmptyInputIsImmediateEOF(t *testing.T) {
	toks := allTokens("")
	require.Len(t, toks, 1)
	assert.Equal(t, EOF, toks[0].Kind)
}
