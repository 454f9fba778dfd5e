// Package rewriter provides the rewrite passes applied to a compiled
// query between assembly and validation. Each pass is a pure
// transformation: it returns the (possibly replaced) query, or an error
// that aborts the compilation.
package rewriter

import "github.com/kbastani/pinot/request"

// Rewriter transforms a compiled query. Implementations are stateless
// and safe for concurrent use once constructed.
type Rewriter interface {
	Rewrite(query *request.Query) (*request.Query, error)
}

// Default returns the built-in passes in their standard order: constant
// folding, comparison normalization, alias application, then ordinal
// resolution.
func Default() []Rewriter {
	return []Rewriter{
		&ConstantFolder{},
		&ComparisonRewriter{},
		&AliasApplier{},
		&OrdinalResolver{},
	}
}

// transformExpressions applies fn post-order to every expression
// position in the query.
func transformExpressions(query *request.Query, fn func(request.Expression) (request.Expression, error)) error {
	for _, list := range [][]request.Expression{query.SelectList, query.GroupByList, query.OrderByList} {
		for i, e := range list {
			transformed, err := request.Transform(e, fn)
			if err != nil {
				return err
			}
			list[i] = transformed
		}
	}
	if query.Filter != nil {
		transformed, err := request.Transform(query.Filter, fn)
		if err != nil {
			return err
		}
		query.Filter = transformed
	}
	if query.Having != nil {
		transformed, err := request.Transform(query.Having, fn)
		if err != nil {
			return err
		}
		query.Having = transformed
	}
	return nil
}
