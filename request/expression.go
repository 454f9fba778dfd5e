// Package request defines the compiled query model produced by the SQL
// compiler and consumed by the query execution layer.
//
// An Expression is a tree with exactly three node kinds: Identifier,
// Literal and Function. Expressions support deep structural equality,
// deep copying, and a canonical string rendering stable enough to key
// set-membership checks during validation.
package request

import (
	"fmt"
	"strconv"
	"strings"
)

// Expression is one node of a compiled expression tree. Implementations
// are Identifier, Literal and Function; the interface is closed.
type Expression interface {
	fmt.Stringer

	// Clone returns a deep copy. Rewrite passes substitute subtrees
	// between lists and must never alias nodes across trees.
	Clone() Expression

	expression()
}

// Identifier references a column. The name "*" is reserved and means
// "all columns".
type Identifier struct {
	Name string
}

// NewIdentifier creates an identifier expression.
func NewIdentifier(name string) *Identifier {
	return &Identifier{Name: name}
}

func (i *Identifier) expression() {}

// Clone returns a deep copy of the identifier.
func (i *Identifier) Clone() Expression {
	clone := *i
	return &clone
}

// String returns the identifier name.
func (i *Identifier) String() string {
	return i.Name
}

// Literal is a scalar constant. Value is nil, bool, int64, float64 or
// string; equality between literals is type-sensitive, so int64(5) and
// float64(5) are distinct values.
type Literal struct {
	Value interface{}
}

// NewLiteral creates a literal expression.
func NewLiteral(value interface{}) *Literal {
	return &Literal{Value: value}
}

func (l *Literal) expression() {}

// Clone returns a deep copy of the literal.
func (l *Literal) Clone() Expression {
	clone := *l
	return &clone
}

// String renders the literal value. Strings are single-quoted with
// embedded quotes doubled; floats always carry a decimal point so that
// they never render identically to an integer literal.
func (l *Literal) String() string {
	switch v := l.Value.(type) {
	case nil:
		return "null"
	case bool:
		return strconv.FormatBool(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case float64:
		s := strconv.FormatFloat(v, 'g', -1, 64)
		if !strings.ContainsAny(s, ".eE") {
			s += ".0"
		}
		return s
	case string:
		return "'" + strings.ReplaceAll(v, "'", "''") + "'"
	default:
		return fmt.Sprintf("%v", v)
	}
}

// Function is a call of an operator or function over ordered operands.
// Operator is a canonical uppercase name and is never empty; an empty
// operand list is a valid zero-argument call.
type Function struct {
	Operator string
	Operands []Expression
}

// NewFunction creates a function call expression.
func NewFunction(operator string, operands ...Expression) *Function {
	return &Function{Operator: operator, Operands: operands}
}

func (f *Function) expression() {}

// Clone returns a deep copy of the call and all of its operands.
func (f *Function) Clone() Expression {
	operands := make([]Expression, len(f.Operands))
	for i, operand := range f.Operands {
		operands[i] = operand.Clone()
	}
	return &Function{Operator: f.Operator, Operands: operands}
}

// String renders the call as OPERATOR(operand, operand, ...).
func (f *Function) String() string {
	var sb strings.Builder
	sb.WriteString(f.Operator)
	sb.WriteByte('(')
	for i, operand := range f.Operands {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(operand.String())
	}
	sb.WriteByte(')')
	return sb.String()
}

// Equal reports deep structural equality: same node kind, same identifier
// name, same literal type and value, or same operator with pairwise equal
// operands.
func Equal(a, b Expression) bool {
	switch a := a.(type) {
	case *Identifier:
		b, ok := b.(*Identifier)
		return ok && a.Name == b.Name
	case *Literal:
		b, ok := b.(*Literal)
		return ok && a.Value == b.Value
	case *Function:
		b, ok := b.(*Function)
		if !ok || a.Operator != b.Operator || len(a.Operands) != len(b.Operands) {
			return false
		}
		for i := range a.Operands {
			if !Equal(a.Operands[i], b.Operands[i]) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

// Transform rewrites a tree bottom-up: operands are transformed first,
// then fn is applied to the node itself. fn may return a replacement node
// or the input unchanged; any error aborts the walk.
func Transform(e Expression, fn func(Expression) (Expression, error)) (Expression, error) {
	if f, ok := e.(*Function); ok {
		for i, operand := range f.Operands {
			transformed, err := Transform(operand, fn)
			if err != nil {
				return nil, err
			}
			f.Operands[i] = transformed
		}
	}
	return fn(e)
}

// IsAlias reports whether e is an AS function call.
func IsAlias(e Expression) bool {
	f, ok := e.(*Function)
	return ok && strings.EqualFold(f.Operator, "AS")
}

// UnwrapAlias returns the aliased (left) operand of an AS call, or e
// itself when e is not an alias.
func UnwrapAlias(e Expression) Expression {
	if f, ok := e.(*Function); ok && strings.EqualFold(f.Operator, "AS") && len(f.Operands) == 2 {
		return f.Operands[0]
	}
	return e
}

// IsLiteralOnly reports whether e evaluates to a constant without reading
// any column: a literal, or an AS call aliasing a literal-only expression.
func IsLiteralOnly(e Expression) bool {
	switch e := e.(type) {
	case *Literal:
		return true
	case *Function:
		if strings.EqualFold(e.Operator, "AS") && len(e.Operands) == 2 {
			return IsLiteralOnly(e.Operands[0])
		}
		return false
	default:
		return false
	}
}

// ExtractIdentifiers collects the distinct identifier names referenced by
// the given expressions, in first-seen order. When excludeAlias is true
// the alias-name (right) operand of AS calls is not treated as a column
// reference.
func ExtractIdentifiers(expressions []Expression, excludeAlias bool) []string {
	seen := make(map[string]struct{})
	var names []string
	var walk func(Expression)
	walk = func(e Expression) {
		switch e := e.(type) {
		case *Identifier:
			if _, ok := seen[e.Name]; !ok {
				seen[e.Name] = struct{}{}
				names = append(names, e.Name)
			}
		case *Function:
			if excludeAlias && strings.EqualFold(e.Operator, "AS") && len(e.Operands) == 2 {
				walk(e.Operands[0])
				return
			}
			for _, operand := range e.Operands {
				walk(operand)
			}
		}
	}
	for _, e := range expressions {
		walk(e)
	}
	return names
}
