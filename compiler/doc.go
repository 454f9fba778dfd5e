// Package compiler turns SQL text into the structured query consumed by
// the execution layer.
//
// Compilation runs in five stages: the preprocessor strips comments and
// the trailing statement terminator and extracts OPTION clauses the
// grammar cannot parse; the sqlparser package turns the cleaned text
// into a generic AST; the assembler maps that AST clause by clause onto
// a request.Query, compiling every expression position into the
// three-kind expression tree; the configured rewrite passes reshape the
// query; and the semantic validator enforces the constraints the grammar
// alone cannot express (GROUP BY coverage, DISTINCT rules, fixed-arity
// transform functions).
//
// Every failure is reported as a *CompilationError. A failed compile
// never exposes a partial query.
//
// Basic usage:
//
//	query, err := compiler.Compile("SELECT COUNT(*) FROM orders WHERE amount > 5")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// A Compiler with custom rewrite passes or a custom aggregate registry:
//
//	c := compiler.New(compiler.Config{
//	    Rewriters:  []rewriter.Rewriter{},  // disable rewriting
//	    Aggregates: function.NewRegistry("COUNT", "SUM"),
//	})
//	query, err := c.Compile(sql)
package compiler
