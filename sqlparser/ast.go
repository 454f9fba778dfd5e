package sqlparser

import (
	"fmt"
	"strconv"
	"strings"
)

// Node is the interface implemented by every AST node.
type Node interface {
	String() string
}

// Statement is a top-level parsed statement.
type Statement interface {
	Node
	statementNode()
}

// Expr is an expression node. The set of implementations is closed; the
// compiler dispatches over it exhaustively.
type Expr interface {
	Node
	exprNode()
}

// Select is a SELECT statement. When the statement carries ORDER BY,
// LIMIT or OFFSET the parser emits an OrderBy wrapper around the Select
// and leaves these fields unset here; the compiler transfers them back.
type Select struct {
	Distinct   bool
	SelectList []Expr
	From       Expr   // table reference, nil when absent
	Where      Expr   // nil when absent
	GroupBy    []Expr // nil when absent
	Having     Expr   // nil when absent
	OrderBy    []Expr // set by the compiler from the OrderBy wrapper
	Limit      Expr   // numeric literal, set from the wrapper
	Offset     Expr   // numeric literal, set from the wrapper
}

func (s *Select) statementNode() {}

func (s *Select) String() string {
	var sb strings.Builder
	sb.WriteString("SELECT ")
	if s.Distinct {
		sb.WriteString("DISTINCT ")
	}
	sb.WriteString(joinNodes(s.SelectList))
	if s.From != nil {
		sb.WriteString(" FROM ")
		sb.WriteString(s.From.String())
	}
	if s.Where != nil {
		sb.WriteString(" WHERE ")
		sb.WriteString(s.Where.String())
	}
	if len(s.GroupBy) > 0 {
		sb.WriteString(" GROUP BY ")
		sb.WriteString(joinNodes(s.GroupBy))
	}
	if s.Having != nil {
		sb.WriteString(" HAVING ")
		sb.WriteString(s.Having.String())
	}
	if len(s.OrderBy) > 0 {
		sb.WriteString(" ORDER BY ")
		sb.WriteString(joinNodes(s.OrderBy))
	}
	if s.Limit != nil {
		sb.WriteString(" LIMIT ")
		sb.WriteString(s.Limit.String())
	}
	if s.Offset != nil {
		sb.WriteString(" OFFSET ")
		sb.WriteString(s.Offset.String())
	}
	return sb.String()
}

// OrderBy wraps a Select that carries ORDER BY, LIMIT or OFFSET, exactly
// the shape the grammar produces when any of the three is present.
type OrderBy struct {
	Query  Statement
	Items  []Expr // sort keys; descending ones are wrapped in Desc
	Fetch  Expr   // LIMIT value, nil when absent
	Offset Expr   // OFFSET value, nil when absent
}

func (o *OrderBy) statementNode() {}

func (o *OrderBy) String() string {
	var sb strings.Builder
	sb.WriteString(o.Query.String())
	if len(o.Items) > 0 {
		sb.WriteString(" ORDER BY ")
		sb.WriteString(joinNodes(o.Items))
	}
	if o.Fetch != nil {
		sb.WriteString(" LIMIT ")
		sb.WriteString(o.Fetch.String())
	}
	if o.Offset != nil {
		sb.WriteString(" OFFSET ")
		sb.WriteString(o.Offset.String())
	}
	return sb.String()
}

// Explain wraps the statement under an EXPLAIN directive.
type Explain struct {
	Statement Statement
}

func (e *Explain) statementNode() {}

func (e *Explain) String() string {
	return "EXPLAIN PLAN FOR " + e.Statement.String()
}

// Identifier names a column or table. The name may be dotted
// (e.g. "db.table") and "*" is the wildcard.
type Identifier struct {
	Name string
}

func (i *Identifier) exprNode() {}

func (i *Identifier) String() string {
	return i.Name
}

// Literal is a scalar constant: nil, bool, int64, float64 or string.
type Literal struct {
	Value interface{}
}

func (l *Literal) exprNode() {}

func (l *Literal) String() string {
	switch v := l.Value.(type) {
	case nil:
		return "NULL"
	case bool:
		return strconv.FormatBool(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case float64:
		return strconv.FormatFloat(v, 'g', -1, 64)
	case string:
		return "'" + strings.ReplaceAll(v, "'", "''") + "'"
	default:
		return fmt.Sprintf("%v", v)
	}
}

// Call is a function invocation or operator application. Name is the
// function name for calls and the operator symbol or keyword for
// operators (e.g. ">", "AND", "ITEM", "NOT_IN").
type Call struct {
	Name     string
	Operands []Expr
	Distinct bool // DISTINCT quantifier, e.g. COUNT(DISTINCT x)
}

func (c *Call) exprNode() {}

func (c *Call) String() string {
	var sb strings.Builder
	sb.WriteString(c.Name)
	sb.WriteByte('(')
	if c.Distinct {
		sb.WriteString("DISTINCT ")
	}
	sb.WriteString(joinNodes(c.Operands))
	sb.WriteByte(')')
	return sb.String()
}

// Alias is "expr AS target". The target is an Identifier or, for quoted
// alias names in some dialects, a string Literal.
type Alias struct {
	Expr Expr
	As   Expr
}

func (a *Alias) exprNode() {}

func (a *Alias) String() string {
	return a.Expr.String() + " AS " + a.As.String()
}

// Case is a searched CASE expression. The parser lowers the value form
// (CASE x WHEN v ...) into the searched form (CASE WHEN x = v ...).
// Whens and Thens are parallel; Else is never nil (an omitted ELSE
// becomes the NULL literal).
type Case struct {
	Whens []Expr
	Thens []Expr
	Else  Expr
}

func (c *Case) exprNode() {}

func (c *Case) String() string {
	var sb strings.Builder
	sb.WriteString("CASE")
	for i := range c.Whens {
		sb.WriteString(" WHEN ")
		sb.WriteString(c.Whens[i].String())
		sb.WriteString(" THEN ")
		sb.WriteString(c.Thens[i].String())
	}
	sb.WriteString(" ELSE ")
	sb.WriteString(c.Else.String())
	sb.WriteString(" END")
	return sb.String()
}

// Desc marks an ORDER BY item as descending.
type Desc struct {
	Operand Expr
}

func (d *Desc) exprNode() {}

func (d *Desc) String() string {
	return d.Operand.String() + " DESC"
}

// DataType is the target type of a CAST.
type DataType struct {
	Name string
}

func (d *DataType) exprNode() {}

func (d *DataType) String() string {
	return d.Name
}

// NodeList is an argument-list wrapper, produced for IN lists. The
// compiler flattens it one level into the enclosing call's operands.
type NodeList struct {
	Items []Expr
}

func (n *NodeList) exprNode() {}

func (n *NodeList) String() string {
	return "(" + joinNodes(n.Items) + ")"
}

func joinNodes(nodes []Expr) string {
	parts := make([]string, len(nodes))
	for i, node := range nodes {
		parts[i] = node.String()
	}
	return strings.Join(parts, ", ")
}
