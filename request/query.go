package request

// DataSource identifies the table a query reads from. The name is the
// textual rendering of the FROM clause; joins and subqueries are not
// modeled here.
type DataSource struct {
	TableName string `json:"tableName"`
}

// Query is the compiled form of one SQL statement. It is built once per
// compile call, shaped by the rewrite passes, and read-only after
// validation succeeds.
type Query struct {
	// SelectList holds the result expressions in output-column order.
	// It is never empty in a valid query.
	SelectList []Expression `json:"selectList"`

	// DataSource is nil for table-less queries such as SELECT 1.
	DataSource *DataSource `json:"dataSource,omitempty"`

	// Filter is the compiled WHERE clause, if any.
	Filter Expression `json:"filter,omitempty"`

	// GroupByList holds the compiled GROUP BY expressions, if any.
	GroupByList []Expression `json:"groupByList,omitempty"`

	// Having is the compiled HAVING clause, if any.
	Having Expression `json:"having,omitempty"`

	// OrderByList holds one ASC or DESC function call per sort key.
	OrderByList []Expression `json:"orderByList,omitempty"`

	// Limit and Offset are non-negative; zero means absent.
	Limit  int `json:"limit,omitempty"`
	Offset int `json:"offset,omitempty"`

	// Explain is true when the statement was wrapped in EXPLAIN.
	Explain bool `json:"explain,omitempty"`

	// QueryOptions carries the key/value pairs extracted from OPTION
	// clauses before grammar parsing.
	QueryOptions map[string]string `json:"queryOptions,omitempty"`
}
