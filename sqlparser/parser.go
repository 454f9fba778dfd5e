package sqlparser

import (
	"fmt"
	"strconv"
)

// Parser parses SQL statements into AST nodes
type Parser struct {
	tokens       []Token
	pos          int
	depthCounter *ExpressionDepthCounter
}

// NewParser creates a new parser
func NewParser(tokens []Token) *Parser {
	return &Parser{
		tokens:       tokens,
		pos:          0,
		depthCounter: NewExpressionDepthCounter(),
	}
}

// current returns the current token
func (p *Parser) current() Token {
	if p.pos >= len(p.tokens) {
		return Token{Type: TokenEOF, Value: ""}
	}
	return p.tokens[p.pos]
}

// peek returns the next token without advancing
func (p *Parser) peek() Token {
	if p.pos+1 >= len(p.tokens) {
		return Token{Type: TokenEOF, Value: ""}
	}
	return p.tokens[p.pos+1]
}

// advance moves to the next token
func (p *Parser) advance() {
	p.pos++
}

// expect checks if current token matches expected type and advances
func (p *Parser) expect(tokType TokenType) error {
	if p.current().Type != tokType {
		return fmt.Errorf("expected %v, got %v", tokType, p.current().Type)
	}
	p.advance()
	return nil
}

// Parse parses one SQL statement. The result is a *Select, a *Select
// inside an *OrderBy wrapper when the statement carries ORDER BY, LIMIT
// or OFFSET, or either shape inside an *Explain wrapper.
func Parse(sql string) (Statement, error) {
	// Validate query length
	if err := ValidateQuery(sql); err != nil {
		return nil, err
	}

	tokens := Tokenize(sql)

	// Validate token count
	if err := ValidateTokens(tokens); err != nil {
		return nil, err
	}

	parser := NewParser(tokens)
	stmt, err := parser.parseStatement()
	if err != nil {
		return nil, err
	}

	if err := parser.expectEndOfInput(); err != nil {
		return nil, err
	}

	return stmt, nil
}

// ParseExpression parses one standalone SQL expression.
func ParseExpression(sql string) (Expr, error) {
	if err := ValidateQuery(sql); err != nil {
		return nil, err
	}

	tokens := Tokenize(sql)

	if err := ValidateTokens(tokens); err != nil {
		return nil, err
	}

	parser := NewParser(tokens)
	expr, err := parser.parseExpression()
	if err != nil {
		return nil, err
	}

	if err := parser.expectEndOfInput(); err != nil {
		return nil, err
	}

	return expr, nil
}

// expectEndOfInput validates that all tokens were consumed
func (p *Parser) expectEndOfInput() error {
	if p.current().Type == TokenIllegal {
		return fmt.Errorf("invalid character in query: %s", p.current().Value)
	}
	if p.current().Type != TokenEOF {
		return fmt.Errorf("unexpected trailing tokens after query: %s", p.current().Value)
	}
	return nil
}

// parseStatement parses: [EXPLAIN [PLAN FOR]] SELECT ...
func (p *Parser) parseStatement() (Statement, error) {
	if p.current().Type == TokenExplain {
		p.advance()
		if p.current().Type == TokenPlan {
			p.advance()
			if err := p.expect(TokenFor); err != nil {
				return nil, fmt.Errorf("expected FOR after EXPLAIN PLAN: %w", err)
			}
		}
		inner, err := p.parseSelectStatement()
		if err != nil {
			return nil, err
		}
		return &Explain{Statement: inner}, nil
	}
	return p.parseSelectStatement()
}

// parseSelectStatement parses a SELECT statement and wraps it in an
// OrderBy node when ORDER BY, LIMIT or OFFSET are present.
func (p *Parser) parseSelectStatement() (Statement, error) {
	if err := p.expect(TokenSelect); err != nil {
		return nil, fmt.Errorf("query must start with SELECT: %w", err)
	}

	sel := &Select{}

	// Check for DISTINCT
	if p.current().Type == TokenDistinct {
		sel.Distinct = true
		p.advance()
	}

	// Parse SELECT list
	selectList, err := p.parseSelectList()
	if err != nil {
		return nil, fmt.Errorf("failed to parse SELECT list: %w", err)
	}
	sel.SelectList = selectList

	// Parse FROM (optional; SELECT 1 is a valid table-less query)
	if p.current().Type == TokenFrom {
		p.advance()
		from, err := p.parseTableName()
		if err != nil {
			return nil, fmt.Errorf("failed to parse FROM clause: %w", err)
		}
		sel.From = from
	}

	// Parse WHERE
	if p.current().Type == TokenWhere {
		p.advance()
		where, err := p.parseExpression()
		if err != nil {
			return nil, fmt.Errorf("failed to parse WHERE clause: %w", err)
		}
		sel.Where = where
	}

	// Parse GROUP BY
	if p.current().Type == TokenGroup {
		p.advance()
		if err := p.expect(TokenBy); err != nil {
			return nil, fmt.Errorf("expected BY after GROUP: %w", err)
		}
		groupBy, err := p.parseExpressionList()
		if err != nil {
			return nil, fmt.Errorf("failed to parse GROUP BY clause: %w", err)
		}
		sel.GroupBy = groupBy
	}

	// Parse HAVING
	if p.current().Type == TokenHaving {
		p.advance()
		having, err := p.parseExpression()
		if err != nil {
			return nil, fmt.Errorf("failed to parse HAVING clause: %w", err)
		}
		sel.Having = having
	}

	// Parse ORDER BY / LIMIT / OFFSET into the wrapper
	var orderItems []Expr
	var fetch, offset Expr

	if p.current().Type == TokenOrder {
		p.advance()
		if err := p.expect(TokenBy); err != nil {
			return nil, fmt.Errorf("expected BY after ORDER: %w", err)
		}
		orderItems, err = p.parseOrderByList()
		if err != nil {
			return nil, fmt.Errorf("failed to parse ORDER BY clause: %w", err)
		}
	}

	if p.current().Type == TokenLimit {
		p.advance()
		fetch, err = p.parseNumericLiteral()
		if err != nil {
			return nil, fmt.Errorf("failed to parse LIMIT clause: %w", err)
		}
	}

	if p.current().Type == TokenOffset {
		p.advance()
		offset, err = p.parseNumericLiteral()
		if err != nil {
			return nil, fmt.Errorf("failed to parse OFFSET clause: %w", err)
		}
	}

	if orderItems != nil || fetch != nil || offset != nil {
		return &OrderBy{Query: sel, Items: orderItems, Fetch: fetch, Offset: offset}, nil
	}
	return sel, nil
}

// parseSelectList parses: item [, item ...]
func (p *Parser) parseSelectList() ([]Expr, error) {
	var items []Expr
	for {
		item, err := p.parseSelectItem()
		if err != nil {
			return nil, err
		}
		items = append(items, item)

		if p.current().Type != TokenComma {
			break
		}
		p.advance()
	}
	return items, nil
}

// parseSelectItem parses an expression with an optional alias, either
// "expr AS name" or "expr name".
func (p *Parser) parseSelectItem() (Expr, error) {
	expr, err := p.parseExpression()
	if err != nil {
		return nil, err
	}

	switch p.current().Type {
	case TokenAs:
		p.advance()
		switch p.current().Type {
		case TokenIdent:
			alias := &Identifier{Name: p.current().Value}
			p.advance()
			return &Alias{Expr: expr, As: alias}, nil
		case TokenString:
			alias := &Literal{Value: p.current().Value}
			p.advance()
			return &Alias{Expr: expr, As: alias}, nil
		default:
			return nil, fmt.Errorf("expected alias name after AS, got %v", p.current().Type)
		}
	case TokenIdent:
		// Bare alias without the AS keyword.
		alias := &Identifier{Name: p.current().Value}
		p.advance()
		return &Alias{Expr: expr, As: alias}, nil
	}
	return expr, nil
}

// parseExpressionList parses: expr [, expr ...]
func (p *Parser) parseExpressionList() ([]Expr, error) {
	var exprs []Expr
	for {
		expr, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		exprs = append(exprs, expr)

		if p.current().Type != TokenComma {
			break
		}
		p.advance()
	}
	return exprs, nil
}

// parseOrderByList parses: expr [ASC|DESC] [, expr [ASC|DESC] ...]
func (p *Parser) parseOrderByList() ([]Expr, error) {
	var items []Expr
	for {
		expr, err := p.parseExpression()
		if err != nil {
			return nil, err
		}

		switch p.current().Type {
		case TokenDesc:
			p.advance()
			expr = &Desc{Operand: expr}
		case TokenAsc:
			// Ascending is the default; the marker carries no information.
			p.advance()
		}
		items = append(items, expr)

		if p.current().Type != TokenComma {
			break
		}
		p.advance()
	}
	return items, nil
}

// parseTableName parses a possibly dotted table reference
func (p *Parser) parseTableName() (Expr, error) {
	if p.current().Type != TokenIdent {
		return nil, fmt.Errorf("expected table name, got %v", p.current().Type)
	}
	name := p.current().Value
	p.advance()

	for p.current().Type == TokenDot {
		if p.peek().Type != TokenIdent {
			return nil, fmt.Errorf("expected identifier after '.', got %v", p.peek().Type)
		}
		p.advance()
		name += "." + p.current().Value
		p.advance()
	}

	return &Identifier{Name: name}, nil
}

// parseNumericLiteral parses a bare numeric literal (LIMIT and OFFSET
// values).
func (p *Parser) parseNumericLiteral() (Expr, error) {
	if p.current().Type != TokenNumber {
		return nil, fmt.Errorf("expected number, got %v", p.current().Type)
	}
	value, err := parseNumber(p.current().Value)
	if err != nil {
		return nil, err
	}
	p.advance()
	return &Literal{Value: value}, nil
}

// parseNumber converts a numeric token to int64, falling back to float64.
func parseNumber(text string) (interface{}, error) {
	if intValue, err := strconv.ParseInt(text, 10, 64); err == nil {
		return intValue, nil
	}
	floatValue, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid numeric literal %q", text)
	}
	return floatValue, nil
}
