package compiler

import (
	"errors"

	"github.com/kbastani/pinot/function"
	"github.com/kbastani/pinot/request"
	"github.com/kbastani/pinot/rewriter"
	"github.com/kbastani/pinot/sqlparser"
)

// Config carries the injected dependencies of a Compiler.
type Config struct {
	// Rewriters is the ordered list of rewrite passes applied between
	// assembly and validation. A nil slice selects rewriter.Default();
	// an empty non-nil slice disables rewriting.
	Rewriters []rewriter.Rewriter

	// Aggregates answers which function names are aggregations. A nil
	// registry selects function.DefaultRegistry().
	Aggregates *function.Registry
}

// Compiler compiles SQL text into structured queries. A Compiler is
// immutable after construction and safe for concurrent use; each
// Compile call works on its own AST and query.
type Compiler struct {
	rewriters  []rewriter.Rewriter
	aggregates *function.Registry
}

// New creates a compiler, filling unset Config fields with the defaults.
func New(config Config) *Compiler {
	c := &Compiler{
		rewriters:  config.Rewriters,
		aggregates: config.Aggregates,
	}
	if c.rewriters == nil {
		c.rewriters = rewriter.Default()
	}
	if c.aggregates == nil {
		c.aggregates = function.DefaultRegistry()
	}
	return c
}

// Compile compiles one SQL statement into a structured query. On any
// failure it returns a *CompilationError and no query.
func (c *Compiler) Compile(sql string) (*request.Query, error) {
	clean, options, err := preprocess(sql)
	if err != nil {
		return nil, err
	}

	stmt, err := sqlparser.Parse(clean)
	if err != nil {
		return nil, &CompilationError{
			Message: "Caught exception while parsing query: " + clean,
			Query:   clean,
			Err:     err,
		}
	}

	query, err := c.assemble(stmt)
	if err != nil {
		return nil, err
	}
	if len(options) > 0 {
		query.QueryOptions = options
	}

	for _, pass := range c.rewriters {
		query, err = pass.Rewrite(query)
		if err != nil {
			return nil, asCompilationError(err)
		}
	}

	if err := c.validate(query); err != nil {
		return nil, err
	}
	return query, nil
}

// CompileExpression compiles one standalone SQL expression. The text is
// handed to the grammar parser as-is, with no preprocessing.
func (c *Compiler) CompileExpression(expression string) (request.Expression, error) {
	node, err := sqlparser.ParseExpression(expression)
	if err != nil {
		return nil, &CompilationError{
			Message: "Caught exception while parsing expression: " + expression,
			Query:   expression,
			Err:     err,
		}
	}
	return c.compileExpression(node)
}

// asCompilationError surfaces a rewrite-pass failure as a compilation
// failure, keeping its message verbatim.
func asCompilationError(err error) error {
	var compilationErr *CompilationError
	if errors.As(err, &compilationErr) {
		return err
	}
	return &CompilationError{Err: err}
}

var defaultCompiler = New(Config{})

// Compile compiles sql with the default rewrite passes and aggregate
// registry.
func Compile(sql string) (*request.Query, error) {
	return defaultCompiler.Compile(sql)
}

// CompileExpression compiles a standalone expression with the default
// aggregate registry.
func CompileExpression(expression string) (request.Expression, error) {
	return defaultCompiler.CompileExpression(expression)
}
