// Package lang compiles and evaluates chains of arithmetic and logical
// expressions over double-precision values.
//
// # Statements
//
// A chain is a ";"-separated list of statements. Each statement is an
// expression, optionally prefixed by an assignment target:
//
//	a: 2; _ + a + b + c; _ + a
//
// Statements run left to right. The value of each statement becomes the "old
// value" read by the token "_" in the next statement, and a target variable
// receives the value of its statement. The value of the last statement is the
// value of the chain. The first statement reads the value primed with
// [Session.SetOldValue], or 0.
//
// # Expressions
//
// Informal grammar:
//
//	chain     → statement (';' statement)*
//	statement → [identifier ':'] expr
//	expr      → number | 'true' | 'false' | '_'
//	          | identifier ['(' expr (',' expr)* ')']
//	          | '(' expr ')' | '[' expr ']' | '{' expr '}'
//	          | '-' expr | '~' expr | expr '!'
//	          | expr op expr
//	op        → '+' | '-' | '*' | '/' | '%' | '^'
//	          | '<' | '>' | '=' | '<>' | '<=' | '>='
//	          | '&' | '|' | '?'
//
// Bracket style is cosmetic, but brackets must nest. Identifiers are letters
// followed by letters or digits and are matched without regard to case.
//
// An expression is split at its least significant operation at bracket depth
// zero. Booleans ("&", then "|", then "?") are least significant, then any
// relation, then the operators "/", "+" and "-", "*", "%", "^", "~", "!".
// Ties go to the later token, so operations of equal rank group from left to
// right and "1-2+3" is 2.
//
// # Identifiers
//
// An identifier names a variable, a user function, a built-in function (see
// [Builtins]) or a value provided by a [Resolver]. With the default order
// [InternalFirst] variables and user functions are tried first. [EventFirst]
// tries built-ins and resolvers first. Inside a user function its parameters
// shadow everything else.
//
// User functions are registered as text:
//
//	area(w, h) = w * h
//
// and are parsed and built again on every call. Recursion is bounded by the
// session depth limit ([WithMaxDepth]).
//
// # Compatibility
//
// By default "|" is true only if both operands are 1 and "<=" compares like
// ">=". [WithCorrectedLogic] makes them a logical OR and a less-or-equal.
package lang
