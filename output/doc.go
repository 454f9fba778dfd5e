// Package output renders compiled queries for people and programs.
//
// The package defines the Formatter interface and two implementations:
// JSONFormatter emits the query as a single JSON document, and
// TableFormatter emits a human-readable clause-by-clause table.
//
// # Basic Usage
//
// Render a compiled query as indented JSON:
//
//	formatter := output.NewJSONFormatter(os.Stdout)
//	formatter.SetIndent("  ")
//	if err := formatter.Format(query); err != nil {
//	    log.Fatal(err)
//	}
//
// Render the same query as a table:
//
//	formatter := output.NewTableFormatter(os.Stdout)
//	if err := formatter.Format(query); err != nil {
//	    log.Fatal(err)
//	}
//
// # Writing to Different Destinations
//
// Change output destination dynamically:
//
//	formatter := output.NewJSONFormatter(os.Stdout)
//
//	file, err := os.Create("query.json")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer file.Close()
//
//	formatter.SetOutput(file)
//	if err := formatter.Format(query); err != nil {
//	    log.Fatal(err)
//	}
package output
