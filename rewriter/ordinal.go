package rewriter

import (
	"fmt"

	"github.com/kbastani/pinot/request"
)

// OrdinalResolver replaces integer literals in GROUP BY and in ORDER BY
// sort keys with the select item they reference, counted from 1. The
// replacement is a deep copy of the select expression with any alias
// stripped. An ordinal outside the select list aborts the compilation.
type OrdinalResolver struct{}

// Rewrite resolves ordinal references against the select list.
func (r *OrdinalResolver) Rewrite(query *request.Query) (*request.Query, error) {
	for i, e := range query.GroupByList {
		resolved, err := resolveOrdinal(e, query.SelectList, "GROUP BY")
		if err != nil {
			return nil, err
		}
		query.GroupByList[i] = resolved
	}
	for _, item := range query.OrderByList {
		order, ok := item.(*request.Function)
		if !ok || len(order.Operands) != 1 {
			continue
		}
		resolved, err := resolveOrdinal(order.Operands[0], query.SelectList, "ORDER BY")
		if err != nil {
			return nil, err
		}
		order.Operands[0] = resolved
	}
	return query, nil
}

func resolveOrdinal(e request.Expression, selectList []request.Expression, clause string) (request.Expression, error) {
	lit, ok := e.(*request.Literal)
	if !ok {
		return e, nil
	}
	ordinal, ok := lit.Value.(int64)
	if !ok {
		return e, nil
	}
	if ordinal < 1 || ordinal > int64(len(selectList)) {
		return nil, fmt.Errorf("ordinal %d in %s clause is out of range of the SELECT list", ordinal, clause)
	}
	return request.UnwrapAlias(selectList[ordinal-1]).Clone(), nil
}
