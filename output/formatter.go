package output

import (
	"io"

	"github.com/kbastani/pinot/request"
)

// Formatter defines the interface for query output formatters.
//
// Implementers must provide Format to render a compiled query in the
// target format and SetOutput to change the output destination.
type Formatter interface {
	// Format writes the query in the formatter's specific format
	Format(query *request.Query) error

	// SetOutput changes the output writer
	SetOutput(w io.Writer)
}
