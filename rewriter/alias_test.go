package rewriter

import (
	"testing"

	"github.com/kbastani/pinot/request"
)

// aliasedQuery builds a query selecting a+1 AS total and COUNT() with
// the given trailing clauses, the shape the alias pass operates on.
func aliasedQuery() *request.Query {
	return &request.Query{
		SelectList: []request.Expression{
			request.NewFunction("AS",
				request.NewFunction("+", request.NewIdentifier("a"), request.NewLiteral(int64(1))),
				request.NewIdentifier("total")),
			request.NewFunction("COUNT"),
		},
	}
}

func TestAliasApplier_GroupBy(t *testing.T) {
	query := aliasedQuery()
	query.GroupByList = []request.Expression{request.NewIdentifier("total")}

	query, err := (&AliasApplier{}).Rewrite(query)
	if err != nil {
		t.Fatalf("Rewrite() error = %v", err)
	}
	if got := query.GroupByList[0].String(); got != "+(a, 1)" {
		t.Errorf("group by[0] = %s, want +(a, 1)", got)
	}
}

func TestAliasApplier_OrderBy(t *testing.T) {
	query := aliasedQuery()
	query.OrderByList = []request.Expression{
		request.NewFunction("DESC", request.NewIdentifier("total")),
	}

	query, err := (&AliasApplier{}).Rewrite(query)
	if err != nil {
		t.Fatalf("Rewrite() error = %v", err)
	}
	if got := query.OrderByList[0].String(); got != "DESC(+(a, 1))" {
		t.Errorf("order by[0] = %s, want DESC(+(a, 1))", got)
	}
}

func TestAliasApplier_Having(t *testing.T) {
	query := aliasedQuery()
	query.Having = request.NewFunction(">", request.NewIdentifier("total"), request.NewLiteral(int64(10)))

	query, err := (&AliasApplier{}).Rewrite(query)
	if err != nil {
		t.Fatalf("Rewrite() error = %v", err)
	}
	if got := query.Having.String(); got != ">(+(a, 1), 10)" {
		t.Errorf("having = %s, want >(+(a, 1), 10)", got)
	}
}

func TestAliasApplier_FilterExcluded(t *testing.T) {
	query := aliasedQuery()
	query.Filter = request.NewFunction("=", request.NewIdentifier("total"), request.NewLiteral(int64(1)))

	query, err := (&AliasApplier{}).Rewrite(query)
	if err != nil {
		t.Fatalf("Rewrite() error = %v", err)
	}
	// The filter runs before projection, so the alias must not resolve.
	if got := query.Filter.String(); got != "=(total, 1)" {
		t.Errorf("filter = %s, want =(total, 1)", got)
	}
}

func TestAliasApplier_UnrelatedIdentifierUntouched(t *testing.T) {
	query := aliasedQuery()
	query.GroupByList = []request.Expression{request.NewIdentifier("other")}

	query, err := (&AliasApplier{}).Rewrite(query)
	if err != nil {
		t.Fatalf("Rewrite() error = %v", err)
	}
	if got := query.GroupByList[0].String(); got != "other" {
		t.Errorf("group by[0] = %s, want other", got)
	}
}

func TestAliasApplier_SubstitutesDeepCopy(t *testing.T) {
	query := aliasedQuery()
	query.GroupByList = []request.Expression{request.NewIdentifier("total")}

	query, err := (&AliasApplier{}).Rewrite(query)
	if err != nil {
		t.Fatalf("Rewrite() error = %v", err)
	}
	aliased := query.SelectList[0].(*request.Function).Operands[0]
	if query.GroupByList[0] == aliased {
		t.Error("group by shares a node with the select list, want a deep copy")
	}
	if !request.Equal(query.GroupByList[0], aliased) {
		t.Errorf("group by[0] = %s, want copy equal to %s", query.GroupByList[0], aliased)
	}
}
