package rewriter

import (
	"strings"

	"github.com/kbastani/pinot/request"
)

// AliasApplier substitutes select-list aliases for bare identifier
// references in GROUP BY, ORDER BY and HAVING. The substituted
// expression is a deep copy, so no node is shared between lists. WHERE
// is excluded: the filter runs before projection, so aliases are not in
// scope there.
type AliasApplier struct{}

// Rewrite resolves alias references against the select list.
func (r *AliasApplier) Rewrite(query *request.Query) (*request.Query, error) {
	aliases := make(map[string]request.Expression)
	for _, e := range query.SelectList {
		f, ok := e.(*request.Function)
		if !ok || !strings.EqualFold(f.Operator, "AS") || len(f.Operands) != 2 {
			continue
		}
		if name, ok := f.Operands[1].(*request.Identifier); ok {
			aliases[name.Name] = f.Operands[0]
		}
	}
	if len(aliases) == 0 {
		return query, nil
	}

	apply := func(e request.Expression) (request.Expression, error) {
		if ident, ok := e.(*request.Identifier); ok {
			if target, ok := aliases[ident.Name]; ok {
				return target.Clone(), nil
			}
		}
		return e, nil
	}

	for i, e := range query.GroupByList {
		transformed, err := request.Transform(e, apply)
		if err != nil {
			return nil, err
		}
		query.GroupByList[i] = transformed
	}
	for i, e := range query.OrderByList {
		transformed, err := request.Transform(e, apply)
		if err != nil {
			return nil, err
		}
		query.OrderByList[i] = transformed
	}
	if query.Having != nil {
		transformed, err := request.Transform(query.Having, apply)
		if err != nil {
			return nil, err
		}
		query.Having = transformed
	}
	return query, nil
}
