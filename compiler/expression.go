package compiler

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/kbastani/pinot/function"
	"github.com/kbastani/pinot/request"
	"github.com/kbastani/pinot/sqlparser"
)

// operatorSymbols maps grammar operator spellings to their canonical
// symbolic form. Operators not listed keep their uppercased name.
var operatorSymbols = map[string]string{
	"PLUS":   "+",
	"MINUS":  "-",
	"TIMES":  "*",
	"DIVIDE": "/",
}

// distinctOperators maps functions that accept a DISTINCT quantifier to
// their distinct-aggregate counterparts. Other functions ignore the
// quantifier.
var distinctOperators = map[string]string{
	"count": "DISTINCTCOUNT",
	"sum":   "DISTINCTSUM",
	"avg":   "DISTINCTAVG",
}

// compileExpression maps one grammar AST node onto the compiled
// expression tree.
func (c *Compiler) compileExpression(node sqlparser.Expr) (request.Expression, error) {
	switch node := node.(type) {
	case *sqlparser.Identifier:
		return request.NewIdentifier(node.Name), nil
	case *sqlparser.Literal:
		return request.NewLiteral(node.Value), nil
	case *sqlparser.Alias:
		return c.compileAlias(node)
	case *sqlparser.Case:
		return c.compileCase(node)
	case *sqlparser.DataType:
		// The target type of a CAST compiles to its name as a string
		// literal, not a typed value.
		return request.NewLiteral(node.Name), nil
	case *sqlparser.Call:
		return c.compileCall(node)
	default:
		return nil, errorf("unsupported sql node - %s", node)
	}
}

// compileAlias compiles "expr AS target". The target must be an
// identifier or a literal naming the alias. Aliasing an identifier to
// its own name carries no information, so the bare identifier is
// returned without an AS wrapper.
func (c *Compiler) compileAlias(node *sqlparser.Alias) (request.Expression, error) {
	left, err := c.compileExpression(node.Expr)
	if err != nil {
		return nil, err
	}
	var aliasName string
	switch as := node.As.(type) {
	case *sqlparser.Identifier:
		aliasName = as.Name
	case *sqlparser.Literal:
		aliasName = literalText(as.Value)
	default:
		return nil, errorf("Unsupported Alias sql node - %s", node.As)
	}
	right := request.NewIdentifier(aliasName)
	if leftIdent, ok := left.(*request.Identifier); ok && leftIdent.Name == right.Name {
		return left, nil
	}
	return request.NewFunction("AS", left, right), nil
}

// compileCase compiles a searched CASE expression into one CASE call
// whose operands interleave the branches: WHEN1, THEN1, ..., WHENn,
// THENn, ELSE, for 2n+1 operands in total. Aggregation functions are not
// allowed anywhere inside a CASE.
func (c *Compiler) compileCase(node *sqlparser.Case) (request.Expression, error) {
	operands := make([]request.Expression, 0, 2*len(node.Whens)+1)
	for i := range node.Whens {
		when, err := c.compileExpression(node.Whens[i])
		if err != nil {
			return nil, err
		}
		if c.isAggregate(when) {
			return nil, errorf("Aggregation functions inside WHEN Clause is not supported - %s", node.Whens[i])
		}
		then, err := c.compileExpression(node.Thens[i])
		if err != nil {
			return nil, err
		}
		if c.isAggregate(then) {
			return nil, errorf("Aggregation functions inside THEN Clause is not supported - %s", node.Thens[i])
		}
		operands = append(operands, when, then)
	}
	elseExpr, err := c.compileExpression(node.Else)
	if err != nil {
		return nil, err
	}
	if c.isAggregate(elseExpr) {
		return nil, errorf("Aggregation functions inside ELSE Clause is not supported - %s", elseExpr)
	}
	operands = append(operands, elseExpr)
	return request.NewFunction("CASE", operands...), nil
}

// compileCall compiles a generic function or operator node. AND and OR
// chains are flattened, ITEM/DOT chains collapse into one identifier,
// and a DISTINCT quantifier selects the distinct-aggregate operator.
func (c *Compiler) compileCall(node *sqlparser.Call) (request.Expression, error) {
	switch strings.ToUpper(node.Name) {
	case "AND":
		return c.flattenBoolean("AND", node)
	case "OR":
		return c.flattenBoolean("OR", node)
	case "ITEM", "DOT":
		var path strings.Builder
		if err := c.collapsePath(node, &path); err != nil {
			return nil, err
		}
		return request.NewIdentifier(path.String()), nil
	}

	operator := canonicalOperator(node.Name)
	if node.Distinct {
		if mapped, ok := distinctOperators[function.Canonicalize(node.Name)]; ok {
			operator = mapped
		}
	}

	operands := make([]request.Expression, 0, len(node.Operands))
	for _, child := range node.Operands {
		// An argument-list wrapper (e.g. an IN list) is flattened one
		// level: each of its elements becomes an operand of its own.
		if list, ok := child.(*sqlparser.NodeList); ok {
			for _, item := range list.Items {
				compiled, err := c.compileExpression(item)
				if err != nil {
					return nil, err
				}
				operands = append(operands, compiled)
			}
			continue
		}
		compiled, err := c.compileExpression(child)
		if err != nil {
			return nil, err
		}
		operands = append(operands, compiled)
	}

	// COUNT(*) counts rows; the star carries no information and is
	// dropped, leaving a zero-argument call.
	if function.IsSame(operator, "COUNT") && len(operands) == 1 {
		if ident, ok := operands[0].(*request.Identifier); ok && ident.Name == "*" {
			operands = operands[:0]
		}
	}

	if err := validateFunctionOperands(operator, operands); err != nil {
		return nil, err
	}
	return request.NewFunction(operator, operands...), nil
}

// flattenBoolean compiles an AND or OR node, splicing the operands of
// nested nodes of the same operator into one flat operand list instead
// of nesting them.
func (c *Compiler) flattenBoolean(operator string, node *sqlparser.Call) (request.Expression, error) {
	var operands []request.Expression
	for _, child := range node.Operands {
		compiled, err := c.compileExpression(child)
		if err != nil {
			return nil, err
		}
		if f, ok := compiled.(*request.Function); ok && f.Operator == operator {
			operands = append(operands, f.Operands...)
			continue
		}
		operands = append(operands, compiled)
	}
	return request.NewFunction(operator, operands...), nil
}

// collapsePath converts a chain of ITEM (subscript) and DOT (member
// access) calls into one flat path string such as "col.data[0][1].a".
// The chain nests through the first operand; the second operand is the
// accessed member (identifier) or index (literal).
func (c *Compiler) collapsePath(node *sqlparser.Call, path *strings.Builder) error {
	if len(node.Operands) != 2 {
		return newError("SELECT list item has bad path expression.")
	}
	switch first := node.Operands[0].(type) {
	case *sqlparser.Identifier:
		path.WriteString(first.Name)
	case *sqlparser.Call:
		name := strings.ToUpper(first.Name)
		if name != "ITEM" && name != "DOT" {
			return newError("SELECT list item has bad path expression.")
		}
		if err := c.collapsePath(first, path); err != nil {
			return err
		}
	default:
		return newError("SELECT list item has bad path expression.")
	}
	switch second := node.Operands[1].(type) {
	case *sqlparser.Identifier:
		path.WriteByte('.')
		path.WriteString(second.Name)
	case *sqlparser.Literal:
		path.WriteByte('[')
		path.WriteString(literalText(second.Value))
		path.WriteByte(']')
	default:
		return newError("SELECT list item has bad path expression.")
	}
	return nil
}

// compileDistinctSelectList rewrites SELECT DISTINCT items into a single
// DISTINCT function call over the compiled items. The wildcard and
// aggregation functions are rejected.
func (c *Compiler) compileDistinctSelectList(items []sqlparser.Expr) (request.Expression, error) {
	operands := make([]request.Expression, 0, len(items))
	for _, item := range items {
		compiled, err := c.compileExpression(item)
		if err != nil {
			return nil, err
		}
		if ident, ok := compiled.(*request.Identifier); ok && ident.Name == "*" {
			return nil, newError("Syntax error: Pinot currently does not support DISTINCT with *. " +
				"Please specify each column name after DISTINCT keyword")
		}
		if f, ok := compiled.(*request.Function); ok && c.aggregates.IsAggregate(f.Operator) {
			return nil, newError("Syntax error: Use of DISTINCT with aggregation functions is not supported")
		}
		operands = append(operands, compiled)
	}
	return request.NewFunction("DISTINCT", operands...), nil
}

// isAggregate reports whether e is an aggregation function call or
// contains one anywhere in its operand tree. Identifiers and literals
// are never aggregates.
func (c *Compiler) isAggregate(e request.Expression) bool {
	f, ok := e.(*request.Function)
	if !ok {
		return false
	}
	if c.aggregates.IsAggregate(f.Operator) {
		return true
	}
	for _, operand := range f.Operands {
		if c.isAggregate(operand) {
			return true
		}
	}
	return false
}

// canonicalOperator returns the canonical operator name for a grammar
// function or operator spelling.
func canonicalOperator(name string) string {
	upper := strings.ToUpper(name)
	if symbol, ok := operatorSymbols[upper]; ok {
		return symbol
	}
	return upper
}

// literalText renders a literal value the way it appears in a path or
// alias position: strings bare, numbers and booleans in canonical form.
func literalText(value interface{}) string {
	switch v := value.(type) {
	case nil:
		return "null"
	case string:
		return v
	case int64:
		return strconv.FormatInt(v, 10)
	case float64:
		return strconv.FormatFloat(v, 'g', -1, 64)
	case bool:
		return strconv.FormatBool(v)
	default:
		return fmt.Sprintf("%v", v)
	}
}

// validateFunctionOperands enforces the arity and literal-argument
// requirements of the JSON transform functions. All other functions are
// unconstrained here.
func validateFunctionOperands(operator string, operands []request.Expression) error {
	switch function.Canonicalize(operator) {
	case "jsonextractscalar":
		return validateJSONExtract("jsonExtractScalar", operands)
	case "jsonextractindex":
		return validateJSONExtract("jsonExtractIndex", operands)
	case "jsonextractkey":
		return validateJSONExtractKey(operands)
	}
	return nil
}

func validateJSONExtract(name string, operands []request.Expression) error {
	signature := name + "(jsonFieldName, 'jsonPath', 'resultsType', ['defaultValue'])"
	if len(operands) != 3 && len(operands) != 4 {
		return errorf("Expect 3 or 4 arguments for transform function: %s", signature)
	}
	if !isLiteral(operands[1]) || !isLiteral(operands[2]) ||
		(len(operands) == 4 && !isLiteral(operands[3])) {
		return errorf("Expect the 2nd/3rd/4th argument of transform function: %s to be a single-quoted literal value.", signature)
	}
	return nil
}

func validateJSONExtractKey(operands []request.Expression) error {
	const signature = "jsonExtractKey(jsonFieldName, 'jsonPath')"
	if len(operands) != 2 {
		return errorf("Expect 2 arguments are required for transform function: %s", signature)
	}
	if !isLiteral(operands[1]) {
		return errorf("Expect the 2nd argument for transform function: %s to be a single-quoted literal value.", signature)
	}
	return nil
}

func isLiteral(e request.Expression) bool {
	_, ok := e.(*request.Literal)
	return ok
}
