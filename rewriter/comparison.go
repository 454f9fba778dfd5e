package rewriter

import "github.com/kbastani/pinot/request"

// ComparisonRewriter normalizes comparison predicates in WHERE and
// HAVING: a literal on the left swaps to the right with the direction
// flipped, and a comparison between two non-literal sides is rebuilt as
// their difference compared to zero. The execution layer then only ever
// sees a column expression compared to a literal on the right.
type ComparisonRewriter struct{}

var flippedComparisons = map[string]string{
	"=":  "=",
	"!=": "!=",
	">":  "<",
	">=": "<=",
	"<":  ">",
	"<=": ">=",
}

// Rewrite normalizes every comparison in the filter and having clauses.
func (r *ComparisonRewriter) Rewrite(query *request.Query) (*request.Query, error) {
	var err error
	if query.Filter != nil {
		query.Filter, err = request.Transform(query.Filter, rewriteComparison)
		if err != nil {
			return nil, err
		}
	}
	if query.Having != nil {
		query.Having, err = request.Transform(query.Having, rewriteComparison)
		if err != nil {
			return nil, err
		}
	}
	return query, nil
}

func rewriteComparison(e request.Expression) (request.Expression, error) {
	f, ok := e.(*request.Function)
	if !ok || len(f.Operands) != 2 {
		return e, nil
	}
	flipped, ok := flippedComparisons[f.Operator]
	if !ok {
		return e, nil
	}
	_, leftLiteral := f.Operands[0].(*request.Literal)
	_, rightLiteral := f.Operands[1].(*request.Literal)
	switch {
	case leftLiteral && !rightLiteral:
		return request.NewFunction(flipped, f.Operands[1], f.Operands[0]), nil
	case !leftLiteral && !rightLiteral:
		difference := request.NewFunction("-", f.Operands[0], f.Operands[1])
		return request.NewFunction(f.Operator, difference, request.NewLiteral(int64(0))), nil
	}
	return e, nil
}
