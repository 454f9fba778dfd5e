package sqlparser

import "strings"

// TokenType represents the type of a token
type TokenType int

const (
	// Special
	TokenEOF TokenType = iota
	TokenIllegal

	// Literals and names
	TokenIdent
	TokenNumber
	TokenString

	// Keywords
	TokenSelect
	TokenDistinct
	TokenFrom
	TokenWhere
	TokenGroup
	TokenBy
	TokenHaving
	TokenOrder
	TokenAsc
	TokenDesc
	TokenLimit
	TokenOffset
	TokenAs
	TokenAnd
	TokenOr
	TokenNot
	TokenIn
	TokenLike
	TokenBetween
	TokenIs
	TokenNull
	TokenTrue
	TokenFalse
	TokenCase
	TokenWhen
	TokenThen
	TokenElse
	TokenEnd
	TokenCast
	TokenExplain
	TokenPlan
	TokenFor

	// Operators
	TokenEqual        // =
	TokenNotEqual     // != or <>
	TokenLess         // <
	TokenLessEqual    // <=
	TokenGreater      // >
	TokenGreaterEqual // >=
	TokenPlus         // +
	TokenMinus        // -
	TokenStar         // * (wildcard or multiplication, position decides)
	TokenSlash        // /

	// Delimiters
	TokenComma        // ,
	TokenDot          // .
	TokenLeftParen    // (
	TokenRightParen   // )
	TokenLeftBracket  // [
	TokenRightBracket // ]
)

// Token represents a lexical token
type Token struct {
	Type  TokenType
	Value string
}

var tokenNames = map[TokenType]string{
	TokenEOF:          "EOF",
	TokenIllegal:      "illegal character",
	TokenIdent:        "identifier",
	TokenNumber:       "number",
	TokenString:       "string",
	TokenSelect:       "SELECT",
	TokenDistinct:     "DISTINCT",
	TokenFrom:         "FROM",
	TokenWhere:        "WHERE",
	TokenGroup:        "GROUP",
	TokenBy:           "BY",
	TokenHaving:       "HAVING",
	TokenOrder:        "ORDER",
	TokenAsc:          "ASC",
	TokenDesc:         "DESC",
	TokenLimit:        "LIMIT",
	TokenOffset:       "OFFSET",
	TokenAs:           "AS",
	TokenAnd:          "AND",
	TokenOr:           "OR",
	TokenNot:          "NOT",
	TokenIn:           "IN",
	TokenLike:         "LIKE",
	TokenBetween:      "BETWEEN",
	TokenIs:           "IS",
	TokenNull:         "NULL",
	TokenTrue:         "TRUE",
	TokenFalse:        "FALSE",
	TokenCase:         "CASE",
	TokenWhen:         "WHEN",
	TokenThen:         "THEN",
	TokenElse:         "ELSE",
	TokenEnd:          "END",
	TokenCast:         "CAST",
	TokenExplain:      "EXPLAIN",
	TokenPlan:         "PLAN",
	TokenFor:          "FOR",
	TokenEqual:        "=",
	TokenNotEqual:     "!=",
	TokenLess:         "<",
	TokenLessEqual:    "<=",
	TokenGreater:      ">",
	TokenGreaterEqual: ">=",
	TokenPlus:         "+",
	TokenMinus:        "-",
	TokenStar:         "*",
	TokenSlash:        "/",
	TokenComma:        ",",
	TokenDot:          ".",
	TokenLeftParen:    "(",
	TokenRightParen:   ")",
	TokenLeftBracket:  "[",
	TokenRightBracket: "]",
}

// String returns a human-readable name for the token type, used in parse
// error messages.
func (t TokenType) String() string {
	if name, ok := tokenNames[t]; ok {
		return name
	}
	return "unknown token"
}

var keywords = map[string]TokenType{
	"SELECT":   TokenSelect,
	"DISTINCT": TokenDistinct,
	"FROM":     TokenFrom,
	"WHERE":    TokenWhere,
	"GROUP":    TokenGroup,
	"BY":       TokenBy,
	"HAVING":   TokenHaving,
	"ORDER":    TokenOrder,
	"ASC":      TokenAsc,
	"DESC":     TokenDesc,
	"LIMIT":    TokenLimit,
	"OFFSET":   TokenOffset,
	"AS":       TokenAs,
	"AND":      TokenAnd,
	"OR":       TokenOr,
	"NOT":      TokenNot,
	"IN":       TokenIn,
	"LIKE":     TokenLike,
	"BETWEEN":  TokenBetween,
	"IS":       TokenIs,
	"NULL":     TokenNull,
	"TRUE":     TokenTrue,
	"FALSE":    TokenFalse,
	"CASE":     TokenCase,
	"WHEN":     TokenWhen,
	"THEN":     TokenThen,
	"ELSE":     TokenElse,
	"END":      TokenEnd,
	"CAST":     TokenCast,
	"EXPLAIN":  TokenExplain,
	"PLAN":     TokenPlan,
	"FOR":      TokenFor,
}

// identifierType determines if an identifier is a keyword. Keywords are
// matched case-insensitively.
func identifierType(ident string) TokenType {
	if tokType, ok := keywords[strings.ToUpper(ident)]; ok {
		return tokType
	}
	return TokenIdent
}
