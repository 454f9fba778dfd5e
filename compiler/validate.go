package compiler

import (
	"strings"

	"github.com/kbastani/pinot/function"
	"github.com/kbastani/pinot/request"
)

// validate runs the semantic checks over the final query, after the
// rewrite passes.
func (c *Compiler) validate(query *request.Query) error {
	if err := c.validateGroupByClause(query); err != nil {
		return err
	}
	return c.validateDistinctQuery(query)
}

// validateGroupByClause enforces GROUP BY / aggregate coherence: with a
// GROUP BY clause, every non-aggregate select expression must be covered
// by the GROUP BY expressions; without one, aggregates and plain columns
// cannot be mixed; and the GROUP BY expressions themselves must not be
// aggregates.
func (c *Compiler) validateGroupByClause(query *request.Query) error {
	hasGroupBy := len(query.GroupByList) > 0
	aggregateCount := 0
	for _, e := range query.SelectList {
		if c.isAggregate(e) {
			aggregateCount++
		} else if hasGroupBy && c.outsideGroupByList(e, query.GroupByList) {
			return errorf("'%s' should appear in GROUP BY clause.", e)
		}
	}
	if !hasGroupBy && aggregateCount > 0 && aggregateCount < len(query.SelectList) {
		return newError("Columns and Aggregate functions can't co-exist without GROUP BY clause")
	}
	for _, e := range query.GroupByList {
		if c.isAggregate(e) {
			return errorf("Aggregate expression '%s' is not allowed in GROUP BY clause.", e)
		}
	}
	return nil
}

// outsideGroupByList reports whether e references anything not covered
// by the GROUP BY expressions. Literals, aggregates and exact structural
// matches are covered; an alias is judged by its aliased side; any other
// function call is covered only when every operand is; a bare identifier
// with no match is not.
func (c *Compiler) outsideGroupByList(e request.Expression, groupBy []request.Expression) bool {
	if _, ok := e.(*request.Literal); ok {
		return false
	}
	if c.isAggregate(e) {
		return false
	}
	for _, g := range groupBy {
		if request.Equal(e, g) {
			return false
		}
	}
	if f, ok := e.(*request.Function); ok {
		if strings.EqualFold(f.Operator, "AS") && len(f.Operands) == 2 {
			return c.outsideGroupByList(f.Operands[0], groupBy)
		}
		for _, operand := range f.Operands {
			if c.outsideGroupByList(operand, groupBy) {
				return true
			}
		}
		return false
	}
	return true
}

// validateDistinctQuery applies when the select list is exactly one
// DISTINCT call: GROUP BY is rejected, LIMIT must be positive, and every
// ORDER BY sort key must be one of the DISTINCT columns (aliases judged
// by their aliased side).
func (c *Compiler) validateDistinctQuery(query *request.Query) error {
	if len(query.SelectList) != 1 {
		return nil
	}
	distinct, ok := query.SelectList[0].(*request.Function)
	if !ok || !function.IsSame(distinct.Operator, "DISTINCT") {
		return nil
	}
	if len(query.GroupByList) > 0 {
		return newError("DISTINCT with GROUP BY is currently not supported")
	}
	if query.Limit <= 0 {
		return newError("DISTINCT must have positive LIMIT")
	}
	if len(query.OrderByList) == 0 {
		return nil
	}
	distinctExprs := make([]request.Expression, len(distinct.Operands))
	for i, operand := range distinct.Operands {
		distinctExprs[i] = request.UnwrapAlias(operand)
	}
	for _, item := range query.OrderByList {
		order, ok := item.(*request.Function)
		if !ok || len(order.Operands) != 1 {
			continue
		}
		covered := false
		for _, e := range distinctExprs {
			if request.Equal(order.Operands[0], e) {
				covered = true
				break
			}
		}
		if !covered {
			return newError("ORDER-BY columns should be included in the DISTINCT columns")
		}
	}
	return nil
}
