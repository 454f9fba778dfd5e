package request

import (
	"testing"

	"github.com/segmentio/encoding/json"
)

func TestExpressionMarshalJSON(t *testing.T) {
	tests := []struct {
		name string
		expr Expression
		want string
	}{
		{
			name: "identifier",
			expr: NewIdentifier("city"),
			want: `{"type":"identifier","name":"city"}`,
		},
		{
			name: "int literal",
			expr: NewLiteral(int64(5)),
			want: `{"type":"literal","value":5}`,
		},
		{
			name: "null literal",
			expr: NewLiteral(nil),
			want: `{"type":"literal","value":null}`,
		},
		{
			name: "zero arg function",
			expr: NewFunction("NOW"),
			want: `{"type":"function","operator":"NOW","operands":[]}`,
		},
		{
			name: "nested function",
			expr: NewFunction("COUNT", NewIdentifier("*")),
			want: `{"type":"function","operator":"COUNT","operands":[{"type":"identifier","name":"*"}]}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := json.Marshal(tt.expr)
			if err != nil {
				t.Fatalf("Marshal() error = %v", err)
			}
			if string(got) != tt.want {
				t.Errorf("Marshal() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestQueryMarshalJSON(t *testing.T) {
	q := &Query{
		SelectList: []Expression{NewFunction("COUNT", NewIdentifier("*"))},
		DataSource: &DataSource{TableName: "orders"},
		Filter:     NewFunction(">", NewIdentifier("x"), NewLiteral(int64(5))),
		Limit:      10,
		QueryOptions: map[string]string{
			"timeoutMs": "1000",
		},
	}

	got, err := json.Marshal(q)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}

	// Optional empty fields must stay out of the document.
	var decoded map[string]interface{}
	if err := json.Unmarshal(got, &decoded); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	for _, absent := range []string{"groupByList", "having", "orderByList", "offset", "explain"} {
		if _, ok := decoded[absent]; ok {
			t.Errorf("Marshal() included empty field %q: %s", absent, got)
		}
	}
	for _, present := range []string{"selectList", "dataSource", "filter", "limit", "queryOptions"} {
		if _, ok := decoded[present]; !ok {
			t.Errorf("Marshal() missing field %q: %s", present, got)
		}
	}
	if table := decoded["dataSource"].(map[string]interface{})["tableName"]; table != "orders" {
		t.Errorf("dataSource.tableName = %v, want %q", table, "orders")
	}
}
