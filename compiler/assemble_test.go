package compiler

import (
	"strings"
	"testing"

	"github.com/kbastani/pinot/request"
	"github.com/kbastani/pinot/sqlparser"
)

// assembleSQL parses and assembles a statement without running the
// rewrite passes or the validator.
func assembleSQL(t *testing.T, sql string) (*request.Query, error) {
	t.Helper()
	stmt, err := sqlparser.Parse(sql)
	if err != nil {
		t.Fatalf("Parse(%q) error = %v", sql, err)
	}
	return New(Config{}).assemble(stmt)
}

func TestAssemble_Clauses(t *testing.T) {
	query, err := assembleSQL(t, "SELECT city, COUNT(*) FROM events WHERE country = 'US' GROUP BY city HAVING COUNT(*) > 10 ORDER BY city DESC, COUNT(*) LIMIT 20 OFFSET 5")
	if err != nil {
		t.Fatalf("assemble() error = %v", err)
	}

	if len(query.SelectList) != 2 {
		t.Fatalf("select list length = %d, want 2", len(query.SelectList))
	}
	if got := query.SelectList[0].String(); got != "city" {
		t.Errorf("select[0] = %s, want city", query.SelectList[0])
	}
	if got := query.SelectList[1].String(); got != "COUNT()" {
		t.Errorf("select[1] = %s, want COUNT()", query.SelectList[1])
	}
	if query.DataSource == nil || query.DataSource.TableName != "events" {
		t.Errorf("data source = %v, want events", query.DataSource)
	}
	if got := query.Filter.String(); got != "=(country, 'US')" {
		t.Errorf("filter = %s, want =(country, 'US')", query.Filter)
	}
	if len(query.GroupByList) != 1 || query.GroupByList[0].String() != "city" {
		t.Errorf("group by = %v, want [city]", query.GroupByList)
	}
	if got := query.Having.String(); got != ">(COUNT(), 10)" {
		t.Errorf("having = %s, want >(COUNT(), 10)", query.Having)
	}
	if len(query.OrderByList) != 2 {
		t.Fatalf("order by length = %d, want 2", len(query.OrderByList))
	}
	if got := query.OrderByList[0].String(); got != "DESC(city)" {
		t.Errorf("order by[0] = %s, want DESC(city)", query.OrderByList[0])
	}
	if got := query.OrderByList[1].String(); got != "ASC(COUNT())" {
		t.Errorf("order by[1] = %s, want ASC(COUNT())", query.OrderByList[1])
	}
	if query.Limit != 20 {
		t.Errorf("limit = %d, want 20", query.Limit)
	}
	if query.Offset != 5 {
		t.Errorf("offset = %d, want 5", query.Offset)
	}
	if query.Explain {
		t.Error("explain = true, want false")
	}
}

func TestAssemble_Explain(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"short form", "EXPLAIN SELECT a FROM t"},
		{"long form", "EXPLAIN PLAN FOR SELECT a FROM t"},
		{"with order by wrapper", "EXPLAIN SELECT a FROM t ORDER BY a LIMIT 5"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			query, err := assembleSQL(t, tt.input)
			if err != nil {
				t.Fatalf("assemble() error = %v", err)
			}
			if !query.Explain {
				t.Error("explain = false, want true")
			}
			if len(query.SelectList) != 1 {
				t.Errorf("select list length = %d, want 1", len(query.SelectList))
			}
		})
	}
}

func TestAssemble_TableLessQuery(t *testing.T) {
	query, err := assembleSQL(t, "SELECT 1")
	if err != nil {
		t.Fatalf("assemble() error = %v", err)
	}
	if query.DataSource != nil {
		t.Errorf("data source = %v, want nil", query.DataSource)
	}
	if got := query.SelectList[0].String(); got != "1" {
		t.Errorf("select[0] = %s, want 1", query.SelectList[0])
	}
}

func TestAssemble_DottedTableName(t *testing.T) {
	query, err := assembleSQL(t, "SELECT a FROM db.events")
	if err != nil {
		t.Fatalf("assemble() error = %v", err)
	}
	if query.DataSource.TableName != "db.events" {
		t.Errorf("table name = %q, want db.events", query.DataSource.TableName)
	}
}

func TestAssemble_Distinct(t *testing.T) {
	query, err := assembleSQL(t, "SELECT DISTINCT a, b FROM t LIMIT 10")
	if err != nil {
		t.Fatalf("assemble() error = %v", err)
	}
	if len(query.SelectList) != 1 {
		t.Fatalf("select list length = %d, want 1", len(query.SelectList))
	}
	if got := query.SelectList[0].String(); got != "DISTINCT(a, b)" {
		t.Errorf("select[0] = %s, want DISTINCT(a, b)", query.SelectList[0])
	}
}

func TestAssemble_DistinctErrors(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantMsg string
	}{
		{
			name:    "distinct with group by",
			input:   "SELECT DISTINCT a FROM t GROUP BY a",
			wantMsg: "DISTINCT with GROUP BY is not supported",
		},
		{
			name:    "distinct with wildcard",
			input:   "SELECT DISTINCT * FROM t",
			wantMsg: "does not support DISTINCT with *",
		},
		{
			name:    "distinct wrapping aggregate",
			input:   "SELECT DISTINCT COUNT(*) FROM t",
			wantMsg: "Use of DISTINCT with aggregation functions is not supported",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := assembleSQL(t, tt.input)
			if err == nil {
				t.Fatalf("assemble(%q) expected error", tt.input)
			}
			if !strings.Contains(err.Error(), tt.wantMsg) {
				t.Errorf("error = %q, want mention of %q", err, tt.wantMsg)
			}
		})
	}
}

func TestNonNegativeInt(t *testing.T) {
	tests := []struct {
		name    string
		node    sqlparser.Expr
		want    int
		wantErr bool
	}{
		{"integer", &sqlparser.Literal{Value: int64(25)}, 25, false},
		{"zero", &sqlparser.Literal{Value: int64(0)}, 0, false},
		{"float rejected", &sqlparser.Literal{Value: float64(1.5)}, 0, true},
		{"negative rejected", &sqlparser.Literal{Value: int64(-1)}, 0, true},
		{"identifier rejected", &sqlparser.Identifier{Name: "n"}, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := nonNegativeInt(tt.node, "LIMIT")
			if (err != nil) != tt.wantErr {
				t.Fatalf("nonNegativeInt() error = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("nonNegativeInt() = %d, want %d", got, tt.want)
			}
		})
	}
}
