package js_lexer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/connectdotz/metro/internal/logger"
)

func lexAll(t *testing.T, contents string) []T {
	t.Helper()
	log := logger.NewDeferLog()
	lexer := NewLexer(log, logger.Source{PrettyPath: "<stdin>", Contents: contents})
	tokens := []T{}
	for lexer.Token != TEndOfFile {
		tokens = append(tokens, lexer.Token)
		lexer.Next()
	}
	return tokens
}

func lexFirst(t *testing.T, contents string) Lexer {
	t.Helper()
	log := logger.NewDeferLog()
	return NewLexer(log, logger.Source{PrettyPath: "<stdin>", Contents: contents})
}

func expectLexerError(t *testing.T, contents string) {
	t.Helper()
	t.Run(contents, func(t *testing.T) {
		t.Helper()
		log := logger.NewDeferLog()
		defer func() {
			r := recover()
			_, isLexerPanic := r.(LexerPanic)
			require.True(t, isLexerPanic, "expected LexerPanic, got %v", r)
			assert.NotEmpty(t, log.Done())
		}()
		lexer := NewLexer(log, logger.Source{PrettyPath: "<stdin>", Contents: contents})
		for lexer.Token != TEndOfFile {
			lexer.Next()
		}
		t.Fatal("expected a lexer error")
	})
}

func TestTokens(t *testing.T) {
	assert.Equal(t, []T{TConst, TIdentifier, TEquals, TNumericLiteral, TSemicolon},
		lexAll(t, "const x = 1;"))
	assert.Equal(t, []T{TIdentifier, TDot, TIdentifier, TOpenParen, TStringLiteral, TCloseParen},
		lexAll(t, "a.b('c')"))
	assert.Equal(t, []T{TIdentifier, TEqualsGreaterThan, TIdentifier},
		lexAll(t, "x => x"))
	assert.Equal(t, []T{TIdentifier, TQuestionDot, TIdentifier, TQuestionQuestion, TIdentifier},
		lexAll(t, "a?.b ?? c"))
	assert.Equal(t, []T{TDotDotDot, TIdentifier},
		lexAll(t, "...rest"))
	assert.Equal(t, []T{TIdentifier, TQuestion, TIdentifier, TColon, TIdentifier},
		lexAll(t, "a ? b : c"))
	assert.Equal(t, []T{TImport, TOpenParen, TStringLiteral, TCloseParen},
		lexAll(t, "import('m')"))
}

func TestKeywordsVersusIdentifiers(t *testing.T) {
	assert.Equal(t, []T{TIdentifier}, lexAll(t, "requires"))
	assert.Equal(t, []T{TReturn}, lexAll(t, "return"))
	assert.Equal(t, []T{TIdentifier}, lexAll(t, "async"))
	assert.Equal(t, []T{TIdentifier}, lexAll(t, "of"))
	assert.Equal(t, []T{TLet}, lexAll(t, "let"))

	lexer := lexFirst(t, "foo_bar$1")
	assert.Equal(t, TIdentifier, lexer.Token)
	assert.Equal(t, "foo_bar$1", lexer.Identifier)
}

func TestStringLiterals(t *testing.T) {
	lexer := lexFirst(t, "'hello'")
	assert.Equal(t, TStringLiteral, lexer.Token)
	assert.Equal(t, "hello", lexer.StringLiteral)

	lexer = lexFirst(t, `"a\nb\tc"`)
	assert.Equal(t, "a\nb\tc", lexer.StringLiteral)

	lexer = lexFirst(t, `"\x41B\u{43}"`)
	assert.Equal(t, "ABC", lexer.StringLiteral)

	lexer = lexFirst(t, `'it\'s'`)
	assert.Equal(t, "it's", lexer.StringLiteral)
}

func TestNumericLiterals(t *testing.T) {
	check := func(contents string, expected float64) {
		lexer := lexFirst(t, contents)
		assert.Equal(t, TNumericLiteral, lexer.Token, contents)
		assert.Equal(t, expected, lexer.Number, contents)
	}

	check("0", 0)
	check("123", 123)
	check("1.5", 1.5)
	check(".5", 0.5)
	check("1e3", 1000)
	check("1E-2", 0.01)
	check("0xff", 255)
	check("0b101", 5)
	check("0o17", 15)
	check("1_000_000", 1000000)
}

func TestTemplateLiterals(t *testing.T) {
	lexer := lexFirst(t, "`abc`")
	assert.Equal(t, TNoSubstitutionTemplateLiteral, lexer.Token)
	assert.Equal(t, "abc", lexer.StringLiteral)
	assert.Equal(t, "abc", lexer.TemplateRaw)

	lexer = lexFirst(t, "`a${b}c`")
	assert.Equal(t, TTemplateHead, lexer.Token)
	assert.Equal(t, "a", lexer.StringLiteral)

	// The parser reports the closing brace of the substitution back to the
	// lexer so template scanning can continue
	lexer.Next()
	assert.Equal(t, TIdentifier, lexer.Token)
	lexer.Next()
	assert.Equal(t, TCloseBrace, lexer.Token)
	lexer.NextInsideTemplate()
	assert.Equal(t, TTemplateTail, lexer.Token)
	assert.Equal(t, "c", lexer.StringLiteral)
}

func TestTemplateWithMiddle(t *testing.T) {
	lexer := lexFirst(t, "`a${b}c${d}e`")
	assert.Equal(t, TTemplateHead, lexer.Token)

	lexer.Next() // b
	lexer.Next() // }
	lexer.NextInsideTemplate()
	assert.Equal(t, TTemplateMiddle, lexer.Token)
	assert.Equal(t, "c", lexer.StringLiteral)

	lexer.Next() // d
	lexer.Next() // }
	lexer.NextInsideTemplate()
	assert.Equal(t, TTemplateTail, lexer.Token)
	assert.Equal(t, "e", lexer.StringLiteral)
}

func TestNewlineTracking(t *testing.T) {
	lexer := lexFirst(t, "a\nb c")
	assert.Equal(t, TIdentifier, lexer.Token)
	assert.True(t, lexer.HasNewlineBefore)

	lexer.Next()
	assert.True(t, lexer.HasNewlineBefore)

	lexer.Next()
	assert.False(t, lexer.HasNewlineBefore)
}

func TestComments(t *testing.T) {
	assert.Equal(t, []T{TIdentifier}, lexAll(t, "// before\nx"))
	assert.Equal(t, []T{TIdentifier, TIdentifier}, lexAll(t, "a /* mid */ b"))

	lexer := lexFirst(t, "a /* multi\nline */ b")
	lexer.Next()
	assert.True(t, lexer.HasNewlineBefore, "a multi-line comment counts as a newline")
}

func TestLexerErrors(t *testing.T) {
	expectLexerError(t, "'unterminated")
	expectLexerError(t, "`unterminated")
	expectLexerError(t, "/* unterminated")
	expectLexerError(t, "0xzz")
	expectLexerError(t, "#")
	expectLexerError(t, "a & b")
}

func TestIsIdentifier(t *testing.T) {
	assert.True(t, IsIdentifier("_dependencyMap"))
	assert.True(t, IsIdentifier("$"))
	assert.True(t, IsIdentifier("a1"))
	assert.False(t, IsIdentifier(""))
	assert.False(t, IsIdentifier("1a"))
	assert.False(t, IsIdentifier("a-b"))
}
