package compiler

import (
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/kbastani/pinot/request"
	"github.com/kbastani/pinot/rewriter"
)

func TestCompile_EndToEnd(t *testing.T) {
	query, err := Compile("SELECT COUNT(*) FROM t WHERE x > 5 OPTION(timeoutMs=1000)")
	if err != nil {
		t.Fatalf("Compile() error = %v", err)
	}

	if len(query.SelectList) != 1 {
		t.Fatalf("select list length = %d, want 1", len(query.SelectList))
	}
	count, ok := query.SelectList[0].(*request.Function)
	if !ok || count.Operator != "COUNT" || len(count.Operands) != 0 {
		t.Errorf("select[0] = %s, want COUNT()", query.SelectList[0])
	}

	filter, ok := query.Filter.(*request.Function)
	if !ok || filter.Operator != ">" {
		t.Fatalf("filter = %s, want > call", query.Filter)
	}
	if got := filter.String(); got != ">(x, 5)" {
		t.Errorf("filter = %s, want >(x, 5)", filter)
	}

	options := map[string]string{"timeoutMs": "1000"}
	if !reflect.DeepEqual(query.QueryOptions, options) {
		t.Errorf("query options = %v, want %v", query.QueryOptions, options)
	}
	if query.DataSource == nil || query.DataSource.TableName != "t" {
		t.Errorf("data source = %v, want t", query.DataSource)
	}
}

func TestCompile_TerminatorAndComments(t *testing.T) {
	query, err := Compile("SELECT a FROM t; -- done")
	if err != nil {
		t.Fatalf("Compile() error = %v", err)
	}
	if got := query.SelectList[0].String(); got != "a" {
		t.Errorf("select[0] = %s, want a", query.SelectList[0])
	}
}

func TestCompile_SyntaxErrorWrapped(t *testing.T) {
	_, err := Compile("SELECT FROM WHERE")
	if err == nil {
		t.Fatal("Compile() expected error")
	}
	var compilationErr *CompilationError
	if !errors.As(err, &compilationErr) {
		t.Fatalf("error type = %T, want *CompilationError", err)
	}
	if !strings.Contains(compilationErr.Message, "Caught exception while parsing query") {
		t.Errorf("message = %q, want parse-failure wrapper", compilationErr.Message)
	}
	if compilationErr.Unwrap() == nil {
		t.Error("Unwrap() = nil, want underlying parse error")
	}
}

func TestCompile_MalformedOption(t *testing.T) {
	_, err := Compile("SELECT a FROM t OPTION(broken)")
	if err == nil {
		t.Fatal("Compile() expected error")
	}
	if !strings.Contains(err.Error(), "OPTION statement requires two parts separated by '='") {
		t.Errorf("error = %q, want malformed-option message", err)
	}
}

func TestCompile_RewritePipeline(t *testing.T) {
	query, err := Compile("SELECT a AS total FROM t WHERE 5 < x GROUP BY total ORDER BY 1 LIMIT 10")
	if err != nil {
		t.Fatalf("Compile() error = %v", err)
	}
	// Literal-left comparison is normalized with the direction flipped.
	if got := query.Filter.String(); got != ">(x, 5)" {
		t.Errorf("filter = %s, want >(x, 5)", query.Filter)
	}
	// The alias reference in GROUP BY resolves to the aliased column.
	if got := query.GroupByList[0].String(); got != "a" {
		t.Errorf("group by[0] = %s, want a", query.GroupByList[0])
	}
	// The ordinal in ORDER BY resolves to the first select item, alias
	// stripped.
	if got := query.OrderByList[0].String(); got != "ASC(a)" {
		t.Errorf("order by[0] = %s, want ASC(a)", query.OrderByList[0])
	}
}

func TestCompile_ConstantFolding(t *testing.T) {
	query, err := Compile("SELECT a FROM t WHERE x > 2 + 3")
	if err != nil {
		t.Fatalf("Compile() error = %v", err)
	}
	if got := query.Filter.String(); got != ">(x, 5)" {
		t.Errorf("filter = %s, want >(x, 5)", query.Filter)
	}
}

func TestCompile_NoRewrite(t *testing.T) {
	c := New(Config{Rewriters: []rewriter.Rewriter{}})
	query, err := c.Compile("SELECT a FROM t WHERE 5 < x")
	if err != nil {
		t.Fatalf("Compile() error = %v", err)
	}
	// Without the comparison pass the literal stays on the left.
	if got := query.Filter.String(); got != "<(5, x)" {
		t.Errorf("filter = %s, want <(5, x)", query.Filter)
	}
}

func TestCompile_RewriteFailureIsCompilationError(t *testing.T) {
	_, err := Compile("SELECT a FROM t ORDER BY 3")
	if err == nil {
		t.Fatal("Compile() expected error for out-of-range ordinal")
	}
	var compilationErr *CompilationError
	if !errors.As(err, &compilationErr) {
		t.Fatalf("error type = %T, want *CompilationError", err)
	}
	if !strings.Contains(err.Error(), "out of range") {
		t.Errorf("error = %q, want out-of-range message", err)
	}
}

func TestCompile_NoPartialResultOnFailure(t *testing.T) {
	query, err := Compile("SELECT a, COUNT(*) FROM t")
	if err == nil {
		t.Fatal("Compile() expected validation error")
	}
	if query != nil {
		t.Errorf("Compile() query = %v, want nil on failure", query)
	}
}

func TestCompile_Explain(t *testing.T) {
	query, err := Compile("EXPLAIN PLAN FOR SELECT a FROM t")
	if err != nil {
		t.Fatalf("Compile() error = %v", err)
	}
	if !query.Explain {
		t.Error("explain = false, want true")
	}
}

func TestCompileExpression(t *testing.T) {
	compiled, err := CompileExpression("a AND (b AND c)")
	if err != nil {
		t.Fatalf("CompileExpression() error = %v", err)
	}
	if got := compiled.String(); got != "AND(a, b, c)" {
		t.Errorf("CompileExpression() = %s, want AND(a, b, c)", compiled)
	}
}

func TestCompileExpression_SyntaxErrorWrapped(t *testing.T) {
	_, err := CompileExpression("a +")
	if err == nil {
		t.Fatal("CompileExpression() expected error")
	}
	var compilationErr *CompilationError
	if !errors.As(err, &compilationErr) {
		t.Fatalf("error type = %T, want *CompilationError", err)
	}
	if !strings.Contains(compilationErr.Message, "Caught exception while parsing expression: a +") {
		t.Errorf("message = %q, want expression parse wrapper", compilationErr.Message)
	}
}

func TestCompile_ConcurrentUse(t *testing.T) {
	c := New(Config{})
	done := make(chan error, 8)
	for i := 0; i < 8; i++ {
		go func() {
			_, err := c.Compile("SELECT city, COUNT(*) FROM events GROUP BY city")
			done <- err
		}()
	}
	for i := 0; i < 8; i++ {
		if err := <-done; err != nil {
			t.Errorf("concurrent Compile() error = %v", err)
		}
	}
}
