package lang

//go:generate go tool stringer --linecomment --type Kind,Order --output enum_string.go

import (
	"log/slog"
	"strings"
)

// Kind classifies a [Token].
type Kind int

const (
	KindNone       Kind = iota // none
	KindOldValue               // old-value
	KindNumeric                // numeric
	KindOperator               // operator
	KindRelation               // relation
	KindBoolean                // boolean
	KindIdentifier             // identifier
	KindDelimiter              // delimiter
	KindParenOpen              // paren-open
	KindParenClose             // paren-close
)

// Character classes recognized by the tokenizer.
const (
	operatorChars  = "*/^%+-!~"
	relationChars  = "<>="
	booleanChars   = "&|?"
	openChars      = "([{"
	closeChars     = ")]}"
	delimiterChar  = ','
	oldValueChar   = '_'
	decimalPoint   = '.'
	statementSep   = ";"
	assignmentSep  = ":"
	definitionSep  = "="
	commentLeader  = '#'
	literalTrue    = "true"
	literalFalse   = "false"
	unaryMinus     = "-"
	factorialOp    = "!"
	negationOp     = "~"
	maxRelationLen = 2
)

// relations lists every relation token, including the two-character forms.
var relations = []string{"<", ">", "=", "<=", ">=", "<>"}

// Token is an immutable lexical unit of an expression.
type Token struct {
	Text string
	Kind Kind
}

// String returns the token text.
func (t Token) String() string { return t.Text }

// LogValue implements slog.LogValuer.
func (t Token) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("text", t.Text),
		slog.String("kind", t.Kind.String()),
	)
}

// classify returns the kind of a single character.
func classify(ch byte) Kind {
	switch {
	case ch == delimiterChar:
		return KindDelimiter
	case ch == oldValueChar:
		return KindOldValue
	case strings.IndexByte(operatorChars, ch) >= 0:
		return KindOperator
	case strings.IndexByte(openChars, ch) >= 0:
		return KindParenOpen
	case strings.IndexByte(closeChars, ch) >= 0:
		return KindParenClose
	case strings.IndexByte(relationChars, ch) >= 0:
		return KindRelation
	case strings.IndexByte(booleanChars, ch) >= 0:
		return KindBoolean
	case isDigit(ch) || ch == decimalPoint:
		return KindNumeric
	case isLetter(ch):
		return KindIdentifier
	default:
		return KindNone
	}
}

func isDigit(ch byte) bool { return '0' <= ch && ch <= '9' }

func isLetter(ch byte) bool {
	return ('a' <= ch && ch <= 'z') || ('A' <= ch && ch <= 'Z')
}

func isSpace(ch byte) bool {
	return ch == ' ' || ch == '\t' || ch == '\r' || ch == '\n'
}

// IsIdentifier reports whether s is a well-formed identifier: a letter
// followed by letters or digits.
func IsIdentifier(s string) bool {
	if s == "" || !isLetter(s[0]) {
		return false
	}

	for i := 1; i < len(s); i++ {
		if !isLetter(s[i]) && !isDigit(s[i]) {
			return false
		}
	}

	return true
}

// isRelation reports whether s is a known relation token.
func isRelation(s string) bool {
	for _, r := range relations {
		if r == s {
			return true
		}
	}

	return false
}
