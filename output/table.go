package output

import (
	"fmt"
	"io"
	"sort"
	"strconv"

	"github.com/olekukonko/tablewriter"

	"github.com/kbastani/pinot/request"
)

// TableFormatter outputs a compiled query as human-readable tables: one
// clause/expression table, and a key/value table for query options when
// any are set.
type TableFormatter struct {
	writer io.Writer
}

// NewTableFormatter creates a new table formatter.
func NewTableFormatter(w io.Writer) *TableFormatter {
	return &TableFormatter{writer: w}
}

// SetOutput sets the output writer.
func (t *TableFormatter) SetOutput(w io.Writer) {
	t.writer = w
}

// Format writes the query clause by clause.
func (t *TableFormatter) Format(query *request.Query) error {
	table := tablewriter.NewWriter(t.writer)
	table.SetHeader([]string{"Clause", "Expression"})
	table.SetAutoWrapText(false)
	table.SetAutoMergeCells(true)
	table.SetRowLine(false)

	if query.Explain {
		table.Append([]string{"EXPLAIN", "true"})
	}
	for _, e := range query.SelectList {
		table.Append([]string{"SELECT", e.String()})
	}
	if query.DataSource != nil {
		table.Append([]string{"FROM", query.DataSource.TableName})
	}
	if query.Filter != nil {
		table.Append([]string{"WHERE", query.Filter.String()})
	}
	for _, e := range query.GroupByList {
		table.Append([]string{"GROUP BY", e.String()})
	}
	if query.Having != nil {
		table.Append([]string{"HAVING", query.Having.String()})
	}
	for _, e := range query.OrderByList {
		table.Append([]string{"ORDER BY", e.String()})
	}
	if query.Limit > 0 {
		table.Append([]string{"LIMIT", strconv.Itoa(query.Limit)})
	}
	if query.Offset > 0 {
		table.Append([]string{"OFFSET", strconv.Itoa(query.Offset)})
	}
	table.Render()

	if len(query.QueryOptions) > 0 {
		if _, err := fmt.Fprintln(t.writer); err != nil {
			return err
		}
		options := tablewriter.NewWriter(t.writer)
		options.SetHeader([]string{"Option", "Value"})
		options.SetAutoWrapText(false)

		keys := make([]string, 0, len(query.QueryOptions))
		for key := range query.QueryOptions {
			keys = append(keys, key)
		}
		sort.Strings(keys)
		for _, key := range keys {
			options.Append([]string{key, query.QueryOptions[key]})
		}
		options.Render()
	}
	return nil
}
