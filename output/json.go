package output

import (
	"io"

	"github.com/segmentio/encoding/json"

	"github.com/kbastani/pinot/request"
)

// JSONFormatter outputs a compiled query as a single JSON document.
type JSONFormatter struct {
	writer io.Writer
	indent string
}

// NewJSONFormatter creates a new JSON formatter writing compact output.
func NewJSONFormatter(w io.Writer) *JSONFormatter {
	return &JSONFormatter{writer: w}
}

// SetOutput sets the output writer.
func (j *JSONFormatter) SetOutput(w io.Writer) {
	j.writer = w
}

// SetIndent sets the indentation applied to each nesting level. An empty
// string restores compact output.
func (j *JSONFormatter) SetIndent(indent string) {
	j.indent = indent
}

// Format writes the query as one JSON document followed by a newline.
func (j *JSONFormatter) Format(query *request.Query) error {
	encoder := json.NewEncoder(j.writer)
	if j.indent != "" {
		encoder.SetIndent("", j.indent)
	}
	return encoder.Encode(query)
}
