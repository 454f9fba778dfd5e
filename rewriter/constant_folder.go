package rewriter

import (
	"fmt"
	"strings"

	"github.com/kbastani/pinot/request"
)

// ConstantFolder evaluates function calls whose operands are all
// literals, for a small fixed set of operators: the four arithmetic
// operators over numbers, and UPPER, LOWER and CONCAT over strings.
// Anything it cannot evaluate is left untouched.
type ConstantFolder struct{}

// Rewrite folds constant subexpressions everywhere an expression can
// appear in the query.
func (r *ConstantFolder) Rewrite(query *request.Query) (*request.Query, error) {
	if err := transformExpressions(query, fold); err != nil {
		return nil, err
	}
	return query, nil
}

func fold(e request.Expression) (request.Expression, error) {
	f, ok := e.(*request.Function)
	if !ok {
		return e, nil
	}
	values := make([]interface{}, len(f.Operands))
	for i, operand := range f.Operands {
		lit, ok := operand.(*request.Literal)
		if !ok {
			return e, nil
		}
		values[i] = lit.Value
	}

	switch strings.ToUpper(f.Operator) {
	case "+", "-", "*", "/":
		if len(values) != 2 {
			return e, nil
		}
		return foldArithmetic(f, values[0], values[1])
	case "UPPER":
		if s, ok := singleString(values); ok {
			return request.NewLiteral(strings.ToUpper(s)), nil
		}
	case "LOWER":
		if s, ok := singleString(values); ok {
			return request.NewLiteral(strings.ToLower(s)), nil
		}
	case "CONCAT":
		var sb strings.Builder
		for _, value := range values {
			s, ok := value.(string)
			if !ok {
				return e, nil
			}
			sb.WriteString(s)
		}
		return request.NewLiteral(sb.String()), nil
	}
	return e, nil
}

// foldArithmetic evaluates a two-operand arithmetic call over numeric
// literals. Mixed int/float operands promote to float64, and division
// always yields float64. Division by zero aborts the compilation.
func foldArithmetic(f *request.Function, left, right interface{}) (request.Expression, error) {
	leftInt, isLeftInt := left.(int64)
	leftFloat, isLeftFloat := left.(float64)
	rightInt, isRightInt := right.(int64)
	rightFloat, isRightFloat := right.(float64)
	if (!isLeftInt && !isLeftFloat) || (!isRightInt && !isRightFloat) {
		return f, nil
	}

	if f.Operator == "/" || isLeftFloat || isRightFloat {
		a, b := leftFloat, rightFloat
		if isLeftInt {
			a = float64(leftInt)
		}
		if isRightInt {
			b = float64(rightInt)
		}
		switch f.Operator {
		case "+":
			return request.NewLiteral(a + b), nil
		case "-":
			return request.NewLiteral(a - b), nil
		case "*":
			return request.NewLiteral(a * b), nil
		case "/":
			if b == 0 {
				return nil, fmt.Errorf("division by zero in constant expression %s", f)
			}
			return request.NewLiteral(a / b), nil
		}
	}

	switch f.Operator {
	case "+":
		return request.NewLiteral(leftInt + rightInt), nil
	case "-":
		return request.NewLiteral(leftInt - rightInt), nil
	case "*":
		return request.NewLiteral(leftInt * rightInt), nil
	}
	return f, nil
}

func singleString(values []interface{}) (string, bool) {
	if len(values) != 1 {
		return "", false
	}
	s, ok := values[0].(string)
	return s, ok
}
