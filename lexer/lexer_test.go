/*
File    : gosetl/lexer/lexer_test.go
Author  : Akash Maji
Contact : akashmaji(@iisc.ac.in)
*/
package lexer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func lexAll(t *testing.T, src string) []Token {
	t.Helper()
	l := New(src)
	var toks []Token
	for {
		_, tok, err := l.Next()
		require.NoError(t, err)
		if tok.Kind == KEnd {
			return toks
		}
		toks = append(toks, tok)
	}
}

func TestLexerPunctAndIdent(t *testing.T) {
	toks := lexAll(t, "from x in xs where x >= 1")
	require.Len(t, toks, 8)
	assert.Equal(t, "from", toks[0].Text)
	assert.Equal(t, KPunct, toks[6].Kind)
	assert.Equal(t, RAngleEq, toks[6].Punct)
}

func TestLexerStringIsVerbatim(t *testing.T) {
	toks := lexAll(t, `"a\nb"`)
	require.Len(t, toks, 1)
	assert.Equal(t, `a\nb`, toks[0].Text)
}

func TestLexerUnterminatedString(t *testing.T) {
	l := New(`"abc`)
	_, _, err := l.Next()
	require.Error(t, err)
}

func TestLexerNumberRadixes(t *testing.T) {
	cases := []struct {
		src   string
		text  string
		radix int
	}{
		{"0b101", "101", 2},
		{"0o17", "17", 8},
		{"0xFF", "FF", 16},
		{"123", "123", 10},
	}
	for _, c := range cases {
		toks := lexAll(t, c.src)
		require.Len(t, toks, 1)
		assert.Equal(t, KInt, toks[0].Kind)
		assert.Equal(t, c.text, toks[0].Text)
		assert.Equal(t, c.radix, toks[0].Radix)
	}
}

func TestLexerFloat(t *testing.T) {
	toks := lexAll(t, "3.14e-2")
	require.Len(t, toks, 1)
	assert.Equal(t, KFloat, toks[0].Kind)
	assert.Equal(t, "3.14e-2", toks[0].Text)
}

func TestLexerDigitSeparator(t *testing.T) {
	toks := lexAll(t, "1_000_000")
	require.Len(t, toks, 1)
	assert.Equal(t, "1_000_000", toks[0].Text)
}

func TestLexerBadDigitSeparator(t *testing.T) {
	l := New("1_")
	_, _, err := l.Next()
	require.Error(t, err)
}

func TestLexerNumberSuffixError(t *testing.T) {
	l := New("123abc")
	_, _, err := l.Next()
	require.Error(t, err)
}

func TestLexerMissingPrefixDigits(t *testing.T) {
	l := New("0x")
	_, _, err := l.Next()
	require.Error(t, err)
}

func TestLexerSpansReconstructInput(t *testing.T) {
	src := "from x in xs where x >= 1 select {v: x * 2.5}"
	l := New(src)
	pos := 0
	for {
		span, tok, err := l.Next()
		require.NoError(t, err)
		if tok.Kind == KEnd {
			break
		}
		for _, c := range []byte(src[pos:span.Start]) {
			require.True(t, isWhitespace(c), "gap between tokens must be whitespace")
		}
		pos = span.End
	}
	assert.Equal(t, len(src), pos)
}

func TestLexerSpanCoversLexeme(t *testing.T) {
	src := "insert"
	l := New(src)
	span, tok, err := l.Next()
	require.NoError(t, err)
	assert.Equal(t, "insert", tok.Text)
	assert.Equal(t, src, src[span.Start:span.End])
}
