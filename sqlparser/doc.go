// Package sqlparser tokenizes and parses the SQL dialect accepted by the
// query compiler.
//
// The parser is a hand-written recursive-descent parser over a flat token
// slice. It produces a small, closed AST that mirrors the statement
// structure; it performs no name resolution, no type checking and no
// rewriting. Those belong to the compiler package, which consumes the
// AST produced here.
//
// # Grammar
//
// One statement per parse:
//
//	[EXPLAIN [PLAN FOR]]
//	SELECT [DISTINCT] item [, item ...]
//	[FROM table]
//	[WHERE expr]
//	[GROUP BY expr [, expr ...]]
//	[HAVING expr]
//	[ORDER BY expr [ASC|DESC] [, expr [ASC|DESC] ...]]
//	[LIMIT n]
//	[OFFSET n]
//
// A statement that carries ORDER BY, LIMIT or OFFSET parses into an
// OrderBy node wrapping the Select; otherwise the Select is returned
// directly. EXPLAIN wraps either shape in an Explain node.
//
// Expressions support the comparison operators =, !=, <>, <, <=, >, >=,
// arithmetic with the usual precedence, AND/OR/NOT, IN and NOT IN,
// LIKE and NOT LIKE, BETWEEN, IS [NOT] NULL, function calls with an
// optional DISTINCT quantifier, both CASE forms, CAST, bracket
// subscripts and dotted member access.
//
// # Basic Usage
//
// Parse a statement:
//
//	stmt, err := sqlparser.Parse("SELECT city, COUNT(*) FROM orders GROUP BY city")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// Parse a standalone expression:
//
//	expr, err := sqlparser.ParseExpression("amount > 30 AND city = 'NYC'")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// # Lexical Notes
//
//   - Keywords are case-insensitive; tokens keep the original text.
//   - 'single quotes' delimit string literals, "double quotes" delimit
//     identifiers. A doubled quote escapes itself inside either.
//   - <> is normalized to != during tokenization.
//   - A leading minus is an operator token; the parser folds it into
//     numeric literals.
//
// # Input Limits
//
// Parse rejects inputs that exceed MaxQueryLength bytes, MaxTokens
// tokens or MaxExpressionDepth levels of expression nesting, so
// adversarial queries fail fast instead of exhausting memory or stack.
package sqlparser
