package compiler

import "strings"

// preprocess prepares raw query text for the grammar parser: comments
// and one trailing statement terminator are stripped, and OPTION clauses
// (engine-specific syntax the grammar cannot parse) are extracted into a
// key/value map and removed from the text.
func preprocess(sql string) (string, map[string]string, error) {
	sql = removeComments(sql)
	sql = removeTerminatingSemicolon(sql)
	sql, bodies := extractOptions(sql)
	options, err := parseOptions(bodies)
	if err != nil {
		return "", nil, err
	}
	return sql, options, nil
}

// removeComments strips line (--) and block (/* */) comments. Comment
// indicators inside single-quoted literals and double-quoted identifiers
// are ignored, and quote characters inside comments do not toggle the
// quoting state. Each comment span is replaced with a single space to
// preserve token separation; a trailing unterminated comment is
// truncated from the text.
func removeComments(sql string) string {
	var openSingleQuote, openDoubleQuote bool
	var lineComment, blockComment bool
	commentStart := -1

	type span struct{ start, end int }
	var spans []span

	n := len(sql)
	for i := 0; i < n; i++ {
		switch sql[i] {
		case '\'':
			if !lineComment && !blockComment && !openDoubleQuote {
				openSingleQuote = !openSingleQuote
			}
		case '"':
			if !lineComment && !blockComment && !openSingleQuote {
				openDoubleQuote = !openDoubleQuote
			}
		case '-':
			if !lineComment && !blockComment && !openSingleQuote && !openDoubleQuote &&
				i+1 < n && sql[i+1] == '-' {
				lineComment = true
				commentStart = i
				i++
			}
		case '\n':
			// The line terminator itself is not part of the comment.
			if lineComment {
				spans = append(spans, span{commentStart, i})
				lineComment = false
				commentStart = -1
			}
		case '/':
			if !lineComment && !blockComment && !openSingleQuote && !openDoubleQuote &&
				i+1 < n && sql[i+1] == '*' {
				blockComment = true
				commentStart = i
				i++
			}
		case '*':
			if blockComment && i+1 < n && sql[i+1] == '/' {
				spans = append(spans, span{commentStart, i + 2})
				blockComment = false
				commentStart = -1
				i++
			}
		}
	}

	if len(spans) == 0 && !lineComment && !blockComment {
		return sql
	}

	var sb strings.Builder
	start := 0
	for _, s := range spans {
		sb.WriteString(sql[start:s.start])
		sb.WriteByte(' ')
		start = s.end
	}
	if start < n {
		if lineComment || blockComment {
			sb.WriteString(sql[start:commentStart])
		} else {
			sb.WriteString(sql[start:])
		}
	}
	return sb.String()
}

// removeTerminatingSemicolon trims surrounding whitespace and drops one
// trailing statement terminator.
func removeTerminatingSemicolon(sql string) string {
	sql = strings.TrimSpace(sql)
	if strings.HasSuffix(sql, ";") {
		return sql[:len(sql)-1]
	}
	return sql
}

// extractOptions finds every OPTION(...) clause outside quoted spans,
// collects the clause bodies in order of appearance, and deletes the
// matched spans from the text. The keyword match is case-insensitive;
// the body runs to the first closing parenthesis and must be non-empty.
func extractOptions(sql string) (string, []string) {
	var openSingleQuote, openDoubleQuote bool
	var bodies []string
	var sb strings.Builder

	n := len(sql)
	for i := 0; i < n; {
		c := sql[i]
		switch {
		case c == '\'' && !openDoubleQuote:
			openSingleQuote = !openSingleQuote
		case c == '"' && !openSingleQuote:
			openDoubleQuote = !openDoubleQuote
		case (c == 'o' || c == 'O') && !openSingleQuote && !openDoubleQuote:
			if end, body, ok := matchOptionClause(sql, i); ok {
				bodies = append(bodies, body)
				i = end
				continue
			}
		}
		sb.WriteByte(c)
		i++
	}
	if bodies == nil {
		return sql, nil
	}
	return sb.String(), bodies
}

// matchOptionClause matches the keyword "option", optional whitespace
// and a parenthesized body starting at position i. It returns the
// position just past the closing parenthesis and the body text.
func matchOptionClause(sql string, i int) (end int, body string, ok bool) {
	const keyword = "option"
	if len(sql)-i < len(keyword) || !strings.EqualFold(sql[i:i+len(keyword)], keyword) {
		return 0, "", false
	}
	j := i + len(keyword)
	for j < len(sql) && (sql[j] == ' ' || sql[j] == '\t' || sql[j] == '\n' || sql[j] == '\r') {
		j++
	}
	if j >= len(sql) || sql[j] != '(' {
		return 0, "", false
	}
	closing := strings.IndexByte(sql[j+1:], ')')
	if closing <= 0 {
		return 0, "", false
	}
	return j + 1 + closing + 1, sql[j+1 : j+1+closing], true
}

// parseOptions splits each clause body into key=value pairs. Fragments
// are comma-separated; each must contain exactly one '='; keys and
// values are whitespace-trimmed, and a later occurrence of a key wins.
func parseOptions(bodies []string) (map[string]string, error) {
	if len(bodies) == 0 {
		return nil, nil
	}
	options := make(map[string]string)
	for _, body := range bodies {
		for _, fragment := range strings.Split(body, ",") {
			parts := strings.Split(fragment, "=")
			if len(parts) != 2 {
				return nil, newError("OPTION statement requires two parts separated by '='")
			}
			options[strings.TrimSpace(parts[0])] = strings.TrimSpace(parts[1])
		}
	}
	return options, nil
}
