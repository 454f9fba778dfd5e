package sqlparser

import "strings"

// Lexer tokenizes SQL query strings
type Lexer struct {
	input string
	pos   int
	ch    byte
}

// NewLexer creates a new lexer
func NewLexer(input string) *Lexer {
	l := &Lexer{input: input}
	l.readChar()
	return l
}

// readChar reads the next character
func (l *Lexer) readChar() {
	if l.pos >= len(l.input) {
		l.ch = 0
	} else {
		l.ch = l.input[l.pos]
	}
	l.pos++
}

// peekChar looks at the next character without advancing
func (l *Lexer) peekChar() byte {
	if l.pos >= len(l.input) {
		return 0
	}
	return l.input[l.pos]
}

// skipWhitespace skips whitespace characters
func (l *Lexer) skipWhitespace() {
	for l.ch == ' ' || l.ch == '\t' || l.ch == '\n' || l.ch == '\r' {
		l.readChar()
	}
}

// readString reads a quoted string or quoted identifier. A doubled quote
// character inside the body escapes itself ('it''s' reads as "it's").
// Non-ASCII bytes pass through untouched.
func (l *Lexer) readString(quote byte) (string, bool) {
	var result strings.Builder
	l.readChar() // skip opening quote

	for {
		if l.ch == 0 {
			return result.String(), false // unterminated
		}
		if l.ch == quote {
			if l.peekChar() == quote {
				result.WriteByte(quote)
				l.readChar()
				l.readChar()
				continue
			}
			l.readChar() // skip closing quote
			return result.String(), true
		}
		result.WriteByte(l.ch)
		l.readChar()
	}
}

// readNumber reads a numeric literal: digits, an optional decimal point,
// and an optional exponent part.
func (l *Lexer) readNumber() string {
	var result strings.Builder

	for isDigit(l.ch) || l.ch == '.' {
		result.WriteByte(l.ch)
		l.readChar()
	}

	// Optional exponent: e10, E+3, e-7
	if l.ch == 'e' || l.ch == 'E' {
		next := l.peekChar()
		if isDigit(next) || next == '+' || next == '-' {
			result.WriteByte(l.ch)
			l.readChar()
			if l.ch == '+' || l.ch == '-' {
				result.WriteByte(l.ch)
				l.readChar()
			}
			for isDigit(l.ch) {
				result.WriteByte(l.ch)
				l.readChar()
			}
		}
	}

	return result.String()
}

// readIdentifier reads an unquoted identifier or keyword
func (l *Lexer) readIdentifier() string {
	var result strings.Builder
	for isLetter(l.ch) || isDigit(l.ch) || l.ch == '_' || l.ch == '$' {
		result.WriteByte(l.ch)
		l.readChar()
	}
	return result.String()
}

func isDigit(ch byte) bool {
	return ch >= '0' && ch <= '9'
}

func isLetter(ch byte) bool {
	return (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z')
}

// NextToken returns the next token
func (l *Lexer) NextToken() Token {
	l.skipWhitespace()

	var tok Token

	switch l.ch {
	case 0:
		tok = Token{Type: TokenEOF, Value: ""}
	case '=':
		tok = Token{Type: TokenEqual, Value: "="}
		l.readChar()
	case '!':
		if l.peekChar() == '=' {
			l.readChar()
			tok = Token{Type: TokenNotEqual, Value: "!="}
			l.readChar()
		} else {
			tok = Token{Type: TokenIllegal, Value: "!"}
			l.readChar()
		}
	case '<':
		switch l.peekChar() {
		case '=':
			l.readChar()
			tok = Token{Type: TokenLessEqual, Value: "<="}
			l.readChar()
		case '>':
			l.readChar()
			tok = Token{Type: TokenNotEqual, Value: "!="}
			l.readChar()
		default:
			tok = Token{Type: TokenLess, Value: "<"}
			l.readChar()
		}
	case '>':
		if l.peekChar() == '=' {
			l.readChar()
			tok = Token{Type: TokenGreaterEqual, Value: ">="}
			l.readChar()
		} else {
			tok = Token{Type: TokenGreater, Value: ">"}
			l.readChar()
		}
	case '\'':
		value, terminated := l.readString('\'')
		if !terminated {
			tok = Token{Type: TokenIllegal, Value: "'" + value}
		} else {
			tok = Token{Type: TokenString, Value: value}
		}
	case '"':
		// Double quotes delimit identifiers, preserving case and
		// allowing otherwise reserved characters.
		value, terminated := l.readString('"')
		if !terminated {
			tok = Token{Type: TokenIllegal, Value: `"` + value}
		} else {
			tok = Token{Type: TokenIdent, Value: value}
		}
	case '+':
		tok = Token{Type: TokenPlus, Value: "+"}
		l.readChar()
	case '-':
		tok = Token{Type: TokenMinus, Value: "-"}
		l.readChar()
	case '*':
		tok = Token{Type: TokenStar, Value: "*"}
		l.readChar()
	case '/':
		tok = Token{Type: TokenSlash, Value: "/"}
		l.readChar()
	case ',':
		tok = Token{Type: TokenComma, Value: ","}
		l.readChar()
	case '.':
		if isDigit(l.peekChar()) {
			tok = Token{Type: TokenNumber, Value: l.readNumber()}
		} else {
			tok = Token{Type: TokenDot, Value: "."}
			l.readChar()
		}
	case '(':
		tok = Token{Type: TokenLeftParen, Value: "("}
		l.readChar()
	case ')':
		tok = Token{Type: TokenRightParen, Value: ")"}
		l.readChar()
	case '[':
		tok = Token{Type: TokenLeftBracket, Value: "["}
		l.readChar()
	case ']':
		tok = Token{Type: TokenRightBracket, Value: "]"}
		l.readChar()
	default:
		if isDigit(l.ch) {
			tok = Token{Type: TokenNumber, Value: l.readNumber()}
		} else if isLetter(l.ch) || l.ch == '_' || l.ch == '$' {
			value := l.readIdentifier()
			tok = Token{Type: identifierType(value), Value: value}
		} else {
			tok = Token{Type: TokenIllegal, Value: string(l.ch)}
			l.readChar()
		}
	}

	return tok
}

// Tokenize returns all tokens from the input
func Tokenize(input string) []Token {
	lexer := NewLexer(input)
	var tokens []Token

	for {
		tok := lexer.NextToken()
		tokens = append(tokens, tok)
		if tok.Type == TokenEOF || tok.Type == TokenIllegal {
			break
		}
	}

	return tokens
}
