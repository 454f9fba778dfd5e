package compiler

import (
	"github.com/kbastani/pinot/request"
	"github.com/kbastani/pinot/sqlparser"
)

// assemble maps a parsed statement onto the structured query: the
// EXPLAIN wrapper is unwrapped, an ORDER BY wrapper's sort, fetch and
// offset are folded back into the SELECT, and each clause is compiled
// in place.
func (c *Compiler) assemble(stmt sqlparser.Statement) (*request.Query, error) {
	query := &request.Query{}

	if explain, ok := stmt.(*sqlparser.Explain); ok {
		query.Explain = true
		stmt = explain.Statement
	}

	var sel *sqlparser.Select
	switch node := stmt.(type) {
	case *sqlparser.OrderBy:
		inner, ok := node.Query.(*sqlparser.Select)
		if !ok {
			return nil, errorf("unsupported sql statement - %s", node.Query)
		}
		// Fold the wrapper's fields into the SELECT so the clause
		// handling below sees one shape.
		inner.OrderBy = node.Items
		inner.Limit = node.Fetch
		inner.Offset = node.Offset
		sel = inner
	case *sqlparser.Select:
		sel = node
	default:
		return nil, errorf("unsupported sql statement - %s", stmt)
	}

	if sel.Distinct {
		if len(sel.GroupBy) > 0 {
			return nil, newError("DISTINCT with GROUP BY is not supported")
		}
		distinct, err := c.compileDistinctSelectList(sel.SelectList)
		if err != nil {
			return nil, err
		}
		query.SelectList = []request.Expression{distinct}
	} else {
		for _, item := range sel.SelectList {
			compiled, err := c.compileExpression(item)
			if err != nil {
				return nil, err
			}
			query.SelectList = append(query.SelectList, compiled)
		}
	}

	if sel.From != nil {
		query.DataSource = &request.DataSource{TableName: sel.From.String()}
	}

	if sel.Where != nil {
		filter, err := c.compileExpression(sel.Where)
		if err != nil {
			return nil, err
		}
		query.Filter = filter
	}

	for _, item := range sel.GroupBy {
		compiled, err := c.compileExpression(item)
		if err != nil {
			return nil, err
		}
		query.GroupByList = append(query.GroupByList, compiled)
	}

	if sel.Having != nil {
		having, err := c.compileExpression(sel.Having)
		if err != nil {
			return nil, err
		}
		query.Having = having
	}

	for _, item := range sel.OrderBy {
		compiled, err := c.compileOrderByItem(item)
		if err != nil {
			return nil, err
		}
		query.OrderByList = append(query.OrderByList, compiled)
	}

	if sel.Limit != nil {
		limit, err := nonNegativeInt(sel.Limit, "LIMIT")
		if err != nil {
			return nil, err
		}
		query.Limit = limit
	}
	if sel.Offset != nil {
		offset, err := nonNegativeInt(sel.Offset, "OFFSET")
		if err != nil {
			return nil, err
		}
		query.Offset = offset
	}

	return query, nil
}

// compileOrderByItem wraps each sort key in an ASC or DESC marker call.
// Ascending is the default for any item not explicitly marked
// descending.
func (c *Compiler) compileOrderByItem(item sqlparser.Expr) (request.Expression, error) {
	if desc, ok := item.(*sqlparser.Desc); ok {
		inner, err := c.compileExpression(desc.Operand)
		if err != nil {
			return nil, err
		}
		return request.NewFunction("DESC", inner), nil
	}
	inner, err := c.compileExpression(item)
	if err != nil {
		return nil, err
	}
	return request.NewFunction("ASC", inner), nil
}

// nonNegativeInt extracts the value of a LIMIT or OFFSET clause, which
// must be a non-negative integer literal.
func nonNegativeInt(node sqlparser.Expr, clause string) (int, error) {
	lit, ok := node.(*sqlparser.Literal)
	if !ok {
		return 0, errorf("%s must be a non-negative integer literal, got %s", clause, node)
	}
	value, ok := lit.Value.(int64)
	if !ok || value < 0 {
		return 0, errorf("%s must be a non-negative integer literal, got %s", clause, node)
	}
	return int(value), nil
}
