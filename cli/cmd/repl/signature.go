package repl

import (
	"strings"
	"unicode/utf8"

	"github.com/ardnew/fatexpr/lang"
)

// variadicParam marks a parameter that absorbs the remaining arguments.
const variadicParam = "..."

// functionCall represents a detected function call in the input.
type functionCall struct {
	name     string // function name
	argIndex int    // current argument index (0-based)
	inCall   bool   // true if cursor is inside parameter list
}

// detectFunctionCall analyzes the input to determine if the cursor is inside
// a function call's parameter list. It returns the function name, current
// argument index, and whether we're inside a call.
func detectFunctionCall(input string, cursor int) functionCall {
	if cursor > len(input) {
		cursor = len(input)
	}

	// Scan backward for the unmatched opening parenthesis.
	depth := 0
	open := -1

	for i := cursor; i > 0 && open < 0; {
		r, size := utf8.DecodeLastRuneInString(input[:i])
		i -= size

		switch r {
		case ')':
			depth++
		case '(':
			if depth == 0 {
				open = i
			}

			depth--
		}
	}

	if open < 0 {
		return functionCall{}
	}

	start := open
	for start > 0 {
		r, size := utf8.DecodeLastRuneInString(input[:start])
		if isWordBoundary(r) {
			break
		}

		start -= size
	}

	name := input[start:open]
	if !lang.IsIdentifier(name) {
		return functionCall{}
	}

	// Count the delimiters at depth 0 between the parenthesis and the cursor.
	argIndex := 0
	depth = 0

	for _, r := range input[open+1 : cursor] {
		switch r {
		case '(':
			depth++
		case ')':
			depth--
		case ',':
			if depth == 0 {
				argIndex++
			}
		}
	}

	return functionCall{name: name, argIndex: argIndex, inCall: true}
}

// getSignature returns the signature and parameter names of the named
// function, preferring user functions over built-ins over external functions
// the way the default resolution order does. It returns an empty signature if
// the name is unknown.
func getSignature(
	s *lang.Session,
	externs []string,
	name string,
) (signature string, params []string) {
	folded := lang.Fold(name)

	for _, def := range s.Functions() {
		if f, err := lang.ParseFunction(def); err == nil && lang.Fold(f.Name()) == folded {
			return f.Signature(), f.Params()
		}
	}

	if b, ok := lang.LookupBuiltin(name); ok {
		return b.Signature(), b.Params
	}

	for _, ext := range externs {
		if lang.Fold(ext) == folded {
			return ext + "(" + variadicParam + ")", []string{variadicParam}
		}
	}

	return "", nil
}

// renderSignatureHint renders the function signature with the current
// parameter highlighted.
func renderSignatureHint(
	signature string,
	params []string,
	currentArgIdx int,
) string {
	name, _, ok := strings.Cut(signature, "(")
	if !ok {
		return signatureStyle.Render(signature)
	}

	if len(params) == 0 {
		return signatureNameStyle.Render(name) + signatureStyle.Render("()")
	}

	var b strings.Builder

	b.WriteString(signatureNameStyle.Render(name))
	b.WriteString(signatureStyle.Render("("))

	for i, param := range params {
		if i > 0 {
			b.WriteString(signatureSeparatorStyle.Render(", "))
		}

		// A variadic parameter stays highlighted for every later argument.
		variadic := strings.HasPrefix(param, variadicParam)
		if currentArgIdx == i || variadic && currentArgIdx >= i {
			b.WriteString(currentParamStyle.Render(param))
		} else {
			b.WriteString(signatureStyle.Render(param))
		}
	}

	b.WriteString(signatureStyle.Render(")"))

	return b.String()
}
