package highlight

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLiteralMetacharsAreEscaped(t *testing.T) {
	got := Highlight("Special chars [", "[", Options{CaseSensitive: true})
	require.Equal(t, "Special chars <mark>[</mark>", got)
}

func TestLiteralDotDoesNotMatchAnyChar(t *testing.T) {
	got := Highlight("aXb and a.b", "a.b", Options{CaseSensitive: true})
	require.Equal(t, "aXb and <mark>a.b</mark>", got)
}

func TestRegexMatching(t *testing.T) {
	got := Highlight("err1 err2 warn", `err\d`, Options{CaseSensitive: true, UseRegex: true})
	require.Equal(t, "<mark>err1</mark> <mark>err2</mark> warn", got)
}

func TestMalformedRegexFallsBackToLiteral(t *testing.T) {
	require.NotPanics(t, func() {
		got := Highlight("value [x] here", "[x", Options{UseRegex: true})
		require.Equal(t, "value <mark>[x</mark>] here", got)
	})
}

func TestCaseInsensitiveByDefault(t *testing.T) {
	got := Highlight("Hello hello HELLO", "hello", Options{})
	require.Equal(t, "<mark>Hello</mark> <mark>hello</mark> <mark>HELLO</mark>", got)
}

func TestCaseSensitiveMatching(t *testing.T) {
	got := Highlight("Hello hello", "hello", Options{CaseSensitive: true})
	require.Equal(t, "Hello <mark>hello</mark>", got)
}

func TestEmptyQueryReturnsSanitizedInput(t *testing.T) {
	require.Equal(t, "plain text", Highlight("plain text", "", Options{}))
	require.Equal(t, "a &lt;b&gt; &amp; c", Highlight("a <b> & c", "", Options{}))
}

func TestTextOutsideMatchesIsSanitized(t *testing.T) {
	got := Highlight("<div>needle</div>", "needle", Options{CaseSensitive: true})
	require.Equal(t, "&lt;div&gt;<mark>needle</mark>&lt;/div&gt;", got)
}

func TestNoMatchLeavesTextIntact(t *testing.T) {
	require.Equal(t, "nothing here", Highlight("nothing here", "zzz", Options{}))
}

func TestEmptyWidthRegexMatchesAreSkipped(t *testing.T) {
	// a* matches the empty string everywhere; only real matches are marked
	got := Highlight("banana", "a*", Options{UseRegex: true})
	require.Equal(t, "b<mark>a</mark>n<mark>a</mark>n<mark>a</mark>", got)
}
