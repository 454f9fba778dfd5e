package sqlparser

import (
	"fmt"
	"strings"
)

// parseExpression parses an expression at the lowest precedence level.
// Depth is tracked so that deeply nested input fails instead of
// exhausting the stack.
func (p *Parser) parseExpression() (Expr, error) {
	if err := p.depthCounter.Enter(); err != nil {
		return nil, err
	}
	defer p.depthCounter.Exit()
	return p.parseOr()
}

// parseOr parses: and_expr (OR and_expr)*
func (p *Parser) parseOr() (Expr, error) {
	left, err := p.parseAnd()
	if err != nil {
		return nil, err
	}
	for p.current().Type == TokenOr {
		p.advance()
		right, err := p.parseAnd()
		if err != nil {
			return nil, err
		}
		left = &Call{Name: "OR", Operands: []Expr{left, right}}
	}
	return left, nil
}

// parseAnd parses: not_expr (AND not_expr)*
func (p *Parser) parseAnd() (Expr, error) {
	left, err := p.parseNot()
	if err != nil {
		return nil, err
	}
	for p.current().Type == TokenAnd {
		p.advance()
		right, err := p.parseNot()
		if err != nil {
			return nil, err
		}
		left = &Call{Name: "AND", Operands: []Expr{left, right}}
	}
	return left, nil
}

// parseNot parses: NOT not_expr | comparison
func (p *Parser) parseNot() (Expr, error) {
	if p.current().Type == TokenNot {
		if err := p.depthCounter.Enter(); err != nil {
			return nil, err
		}
		defer p.depthCounter.Exit()
		p.advance()
		operand, err := p.parseNot()
		if err != nil {
			return nil, err
		}
		return &Call{Name: "NOT", Operands: []Expr{operand}}, nil
	}
	return p.parseComparison()
}

// parseComparison parses an additive expression followed by at most one
// comparison tail: a binary comparison operator, IS [NOT] NULL,
// [NOT] IN, [NOT] LIKE or [NOT] BETWEEN.
func (p *Parser) parseComparison() (Expr, error) {
	left, err := p.parseAdditive()
	if err != nil {
		return nil, err
	}

	switch p.current().Type {
	case TokenEqual, TokenNotEqual, TokenLess, TokenLessEqual, TokenGreater, TokenGreaterEqual:
		name := p.current().Value
		p.advance()
		right, err := p.parseAdditive()
		if err != nil {
			return nil, err
		}
		return &Call{Name: name, Operands: []Expr{left, right}}, nil

	case TokenIs:
		p.advance()
		name := "IS_NULL"
		if p.current().Type == TokenNot {
			name = "IS_NOT_NULL"
			p.advance()
		}
		if err := p.expect(TokenNull); err != nil {
			return nil, fmt.Errorf("expected NULL after IS: %w", err)
		}
		return &Call{Name: name, Operands: []Expr{left}}, nil

	case TokenIn:
		p.advance()
		return p.parseInTail(left, false)

	case TokenLike:
		p.advance()
		return p.parseLikeTail(left, false)

	case TokenBetween:
		p.advance()
		return p.parseBetweenTail(left, false)

	case TokenNot:
		switch p.peek().Type {
		case TokenIn:
			p.advance()
			p.advance()
			return p.parseInTail(left, true)
		case TokenLike:
			p.advance()
			p.advance()
			return p.parseLikeTail(left, true)
		case TokenBetween:
			p.advance()
			p.advance()
			return p.parseBetweenTail(left, true)
		}
	}
	return left, nil
}

// parseInTail parses the value list of an IN predicate. The list stays
// wrapped in a NodeList; the compiler flattens it into the operand list.
func (p *Parser) parseInTail(left Expr, negated bool) (Expr, error) {
	if err := p.expect(TokenLeftParen); err != nil {
		return nil, fmt.Errorf("expected ( after IN: %w", err)
	}
	var items []Expr
	for {
		item, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		items = append(items, item)
		if p.current().Type != TokenComma {
			break
		}
		p.advance()
	}
	if err := p.expect(TokenRightParen); err != nil {
		return nil, fmt.Errorf("expected ) to close IN list: %w", err)
	}
	name := "IN"
	if negated {
		name = "NOT_IN"
	}
	return &Call{Name: name, Operands: []Expr{left, &NodeList{Items: items}}}, nil
}

// parseLikeTail parses the pattern of a LIKE predicate. NOT LIKE has no
// operator of its own and is expressed as NOT wrapping LIKE.
func (p *Parser) parseLikeTail(left Expr, negated bool) (Expr, error) {
	pattern, err := p.parseAdditive()
	if err != nil {
		return nil, err
	}
	expr := Expr(&Call{Name: "LIKE", Operands: []Expr{left, pattern}})
	if negated {
		expr = &Call{Name: "NOT", Operands: []Expr{expr}}
	}
	return expr, nil
}

// parseBetweenTail parses the bounds of a BETWEEN predicate. The bounds
// are parsed at additive precedence so that the separating AND is not
// swallowed.
func (p *Parser) parseBetweenTail(left Expr, negated bool) (Expr, error) {
	low, err := p.parseAdditive()
	if err != nil {
		return nil, err
	}
	if err := p.expect(TokenAnd); err != nil {
		return nil, fmt.Errorf("expected AND in BETWEEN: %w", err)
	}
	high, err := p.parseAdditive()
	if err != nil {
		return nil, err
	}
	expr := Expr(&Call{Name: "BETWEEN", Operands: []Expr{left, low, high}})
	if negated {
		expr = &Call{Name: "NOT", Operands: []Expr{expr}}
	}
	return expr, nil
}

// parseAdditive parses: multiplicative ((+|-) multiplicative)*
func (p *Parser) parseAdditive() (Expr, error) {
	left, err := p.parseMultiplicative()
	if err != nil {
		return nil, err
	}
	for {
		var name string
		switch p.current().Type {
		case TokenPlus:
			name = "PLUS"
		case TokenMinus:
			name = "MINUS"
		default:
			return left, nil
		}
		p.advance()
		right, err := p.parseMultiplicative()
		if err != nil {
			return nil, err
		}
		left = &Call{Name: name, Operands: []Expr{left, right}}
	}
}

// parseMultiplicative parses: unary ((*|/) unary)*
func (p *Parser) parseMultiplicative() (Expr, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	for {
		var name string
		switch p.current().Type {
		case TokenStar:
			name = "TIMES"
		case TokenSlash:
			name = "DIVIDE"
		default:
			return left, nil
		}
		p.advance()
		right, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		left = &Call{Name: name, Operands: []Expr{left, right}}
	}
}

// parseUnary parses prefix plus and minus. Minus applied to a numeric
// literal folds into a negative literal; applied to anything else it
// becomes a subtraction from zero.
func (p *Parser) parseUnary() (Expr, error) {
	switch p.current().Type {
	case TokenMinus:
		if err := p.depthCounter.Enter(); err != nil {
			return nil, err
		}
		defer p.depthCounter.Exit()
		p.advance()
		operand, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		if lit, ok := operand.(*Literal); ok {
			switch v := lit.Value.(type) {
			case int64:
				return &Literal{Value: -v}, nil
			case float64:
				return &Literal{Value: -v}, nil
			}
		}
		return &Call{Name: "MINUS", Operands: []Expr{&Literal{Value: int64(0)}, operand}}, nil
	case TokenPlus:
		p.advance()
		return p.parseUnary()
	}
	return p.parsePostfix()
}

// parsePostfix parses bracket subscripts and post-subscript member
// access: base[idx] becomes ITEM(base, idx) and base.name becomes
// DOT(base, name). Dots between plain identifier parts never reach
// here; parsePrimary merges those into a single dotted name.
func (p *Parser) parsePostfix() (Expr, error) {
	expr, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}
	for {
		switch p.current().Type {
		case TokenLeftBracket:
			p.advance()
			index, err := p.parseExpression()
			if err != nil {
				return nil, err
			}
			if err := p.expect(TokenRightBracket); err != nil {
				return nil, fmt.Errorf("expected ] to close subscript: %w", err)
			}
			expr = &Call{Name: "ITEM", Operands: []Expr{expr, index}}
		case TokenDot:
			if p.peek().Type != TokenIdent {
				return nil, fmt.Errorf("expected identifier after '.', got %v", p.peek().Type)
			}
			p.advance()
			name := p.current().Value
			p.advance()
			expr = &Call{Name: "DOT", Operands: []Expr{expr, &Identifier{Name: name}}}
		default:
			return expr, nil
		}
	}
}

// parsePrimary parses literals, identifiers, function calls, CASE, CAST
// and parenthesized expressions.
func (p *Parser) parsePrimary() (Expr, error) {
	tok := p.current()
	switch tok.Type {
	case TokenNumber:
		value, err := parseNumber(tok.Value)
		if err != nil {
			return nil, err
		}
		p.advance()
		return &Literal{Value: value}, nil

	case TokenString:
		p.advance()
		return &Literal{Value: tok.Value}, nil

	case TokenTrue:
		p.advance()
		return &Literal{Value: true}, nil

	case TokenFalse:
		p.advance()
		return &Literal{Value: false}, nil

	case TokenNull:
		p.advance()
		return &Literal{Value: nil}, nil

	case TokenStar:
		// Star in operand position is the wildcard, not multiplication.
		p.advance()
		return &Identifier{Name: "*"}, nil

	case TokenCase:
		return p.parseCase()

	case TokenCast:
		return p.parseCast()

	case TokenIdent:
		if p.peek().Type == TokenLeftParen {
			return p.parseCall()
		}
		return p.parseIdentifier()

	case TokenLeftParen:
		p.advance()
		expr, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		if err := p.expect(TokenRightParen); err != nil {
			return nil, fmt.Errorf("expected ) to close expression: %w", err)
		}
		return expr, nil

	case TokenIllegal:
		return nil, fmt.Errorf("invalid character in query: %s", tok.Value)

	default:
		return nil, fmt.Errorf("unexpected token %v in expression", tok.Type)
	}
}

// parseIdentifier parses a possibly dotted column reference into a
// single identifier with the dotted name.
func (p *Parser) parseIdentifier() (Expr, error) {
	name := p.current().Value
	p.advance()
	for p.current().Type == TokenDot && p.peek().Type == TokenIdent {
		p.advance()
		name += "." + p.current().Value
		p.advance()
	}
	return &Identifier{Name: name}, nil
}

// parseCall parses a function invocation with an optional DISTINCT
// quantifier, e.g. COUNT(DISTINCT userId).
func (p *Parser) parseCall() (Expr, error) {
	name := p.current().Value
	p.advance()
	p.advance() // consume (

	call := &Call{Name: name}

	if p.current().Type == TokenDistinct {
		call.Distinct = true
		p.advance()
	}

	if p.current().Type != TokenRightParen {
		for {
			arg, err := p.parseExpression()
			if err != nil {
				return nil, err
			}
			call.Operands = append(call.Operands, arg)
			if p.current().Type != TokenComma {
				break
			}
			p.advance()
		}
	}

	if err := p.expect(TokenRightParen); err != nil {
		return nil, fmt.Errorf("expected ) to close call to %s: %w", name, err)
	}
	return call, nil
}

// parseCase parses both CASE forms. The value form
// CASE x WHEN v THEN r ... END is lowered to the searched form by
// turning each WHEN value into an equality against the scrutinee.
func (p *Parser) parseCase() (Expr, error) {
	p.advance() // consume CASE

	var operand Expr
	if p.current().Type != TokenWhen {
		var err error
		operand, err = p.parseExpression()
		if err != nil {
			return nil, err
		}
	}

	caseExpr := &Case{}
	for p.current().Type == TokenWhen {
		p.advance()
		when, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		if operand != nil {
			when = &Call{Name: "=", Operands: []Expr{operand, when}}
		}
		if err := p.expect(TokenThen); err != nil {
			return nil, fmt.Errorf("expected THEN after WHEN condition: %w", err)
		}
		then, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		caseExpr.Whens = append(caseExpr.Whens, when)
		caseExpr.Thens = append(caseExpr.Thens, then)
	}
	if len(caseExpr.Whens) == 0 {
		return nil, fmt.Errorf("CASE expression requires at least one WHEN clause")
	}

	if p.current().Type == TokenElse {
		p.advance()
		elseExpr, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		caseExpr.Else = elseExpr
	} else {
		caseExpr.Else = &Literal{Value: nil}
	}

	if err := p.expect(TokenEnd); err != nil {
		return nil, fmt.Errorf("expected END to close CASE: %w", err)
	}
	return caseExpr, nil
}

// parseCast parses CAST(expr AS type). The target type is kept as a
// DataType node; the compiler turns it into a string literal operand.
func (p *Parser) parseCast() (Expr, error) {
	p.advance() // consume CAST
	if err := p.expect(TokenLeftParen); err != nil {
		return nil, fmt.Errorf("expected ( after CAST: %w", err)
	}
	expr, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if err := p.expect(TokenAs); err != nil {
		return nil, fmt.Errorf("expected AS in CAST: %w", err)
	}
	if p.current().Type != TokenIdent {
		return nil, fmt.Errorf("expected type name in CAST, got %v", p.current().Type)
	}
	dataType := &DataType{Name: strings.ToUpper(p.current().Value)}
	p.advance()
	if err := p.expect(TokenRightParen); err != nil {
		return nil, fmt.Errorf("expected ) to close CAST: %w", err)
	}
	return &Call{Name: "CAST", Operands: []Expr{expr, dataType}}, nil
}
