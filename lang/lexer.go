package lang

import (
	"log/slog"
	"strings"
	"unicode/utf8"
)

// Validate reports whether the brackets of text nest correctly.
// Bracket style is cosmetic, but every closing bracket must match the style of
// the most recent unclosed opening bracket.
func Validate(text string) error {
	var stack []int // offsets of unclosed opening brackets

	for i := 0; i < len(text); i++ {
		ch := text[i]

		if strings.IndexByte(openChars, ch) >= 0 {
			stack = append(stack, i)

			continue
		}

		want := strings.IndexByte(closeChars, ch)
		if want < 0 {
			continue
		}

		if len(stack) == 0 {
			return ErrParenthesisMismatch.With(
				slog.String("char", string(ch)),
				slog.Int("offset", i),
				slog.String("reason", "unexpected close"),
			)
		}

		top := stack[len(stack)-1]
		if strings.IndexByte(openChars, text[top]) != want {
			return ErrParenthesisMismatch.With(
				slog.String("char", string(ch)),
				slog.Int("offset", i),
				slog.String("open", string(text[top])),
			)
		}

		stack = stack[:len(stack)-1]
	}

	if len(stack) > 0 {
		top := stack[len(stack)-1]

		return ErrParenthesisMismatch.With(
			slog.String("char", string(text[top])),
			slog.Int("offset", top),
			slog.String("reason", "unclosed"),
		)
	}

	return nil
}

// Tokenize splits text into a token stream.
//
// Operators, brackets, booleans, delimiters and the old-value token are single
// characters. A relation extends to two characters when the pair is one of
// "<=", ">=", "<>". Numeric and identifier tokens are maximal runs of their
// class, except that an identifier continues into digits.
// Whitespace between tokens is skipped.
func Tokenize(text string) ([]Token, error) {
	var tokens []Token

	for pos := 0; pos < len(text); {
		ch := text[pos]

		if isSpace(ch) {
			pos++

			continue
		}

		kind := classify(ch)

		switch kind {
		case KindNone:
			r, _ := utf8.DecodeRuneInString(text[pos:])

			return nil, ErrIllegalCharacter.With(
				slog.String("char", string(r)),
				slog.Int("offset", pos),
			)

		case KindRelation:
			end := pos + 1
			if pos+maxRelationLen <= len(text) &&
				isRelation(text[pos:pos+maxRelationLen]) {
				end = pos + maxRelationLen
			}

			tokens = append(tokens, Token{Text: text[pos:end], Kind: kind})
			pos = end

		case KindNumeric, KindIdentifier:
			end := pos + 1
			for end < len(text) {
				next := classify(text[end])
				if next != kind && (kind != KindIdentifier || next != KindNumeric) {
					break
				}
				// The decimal point is numeric but never part of an identifier.
				if kind == KindIdentifier && text[end] == decimalPoint {
					break
				}

				end++
			}

			tokens = append(tokens, Token{Text: text[pos:end], Kind: kind})
			pos = end

		default:
			tokens = append(tokens, Token{Text: text[pos : pos+1], Kind: kind})
			pos++
		}
	}

	return tokens, nil
}
