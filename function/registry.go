// Package function provides the aggregate-function name registry consulted
// during query compilation and validation.
package function

import "strings"

// Registry answers whether a function name refers to a known aggregation
// function. Names are matched case-insensitively and with underscores
// ignored, so "DISTINCT_COUNT", "DistinctCount" and "distinctcount" all
// resolve to the same entry.
//
// A Registry is immutable after construction and safe for unsynchronized
// concurrent reads.
type Registry struct {
	names map[string]struct{}
}

// NewRegistry creates a registry holding the given aggregate function names.
func NewRegistry(names ...string) *Registry {
	r := &Registry{names: make(map[string]struct{}, len(names))}
	for _, name := range names {
		r.names[Canonicalize(name)] = struct{}{}
	}
	return r
}

// IsAggregate reports whether name refers to a known aggregation function.
func (r *Registry) IsAggregate(name string) bool {
	_, ok := r.names[Canonicalize(name)]
	return ok
}

// Names returns the canonical names held by the registry, in no particular
// order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.names))
	for name := range r.names {
		names = append(names, name)
	}
	return names
}

// Canonicalize normalizes a function name for lookup: underscores are
// removed and the result is lowercased.
func Canonicalize(name string) string {
	return strings.ToLower(strings.ReplaceAll(name, "_", ""))
}

// IsSame reports whether two function names refer to the same function
// after canonicalization.
func IsSame(name1, name2 string) bool {
	return Canonicalize(name1) == Canonicalize(name2)
}

// defaultAggregates is the aggregation function set of the query engine.
// DISTINCT is included because the engine models SELECT DISTINCT as an
// aggregation function over the selected columns.
var defaultAggregates = []string{
	"DISTINCT",
	"COUNT",
	"MIN",
	"MAX",
	"SUM",
	"SUMPRECISION",
	"AVG",
	"MODE",
	"MINMAXRANGE",
	"DISTINCTCOUNT",
	"DISTINCTCOUNTBITMAP",
	"DISTINCTCOUNTHLL",
	"DISTINCTCOUNTRAWHLL",
	"DISTINCTCOUNTSMARTHLL",
	"DISTINCTCOUNTTHETASKETCH",
	"DISTINCTCOUNTRAWTHETASKETCH",
	"SEGMENTPARTITIONEDDISTINCTCOUNT",
	"DISTINCTSUM",
	"DISTINCTAVG",
	"FASTHLL",
	"PERCENTILE",
	"PERCENTILEEST",
	"PERCENTILERAWEST",
	"PERCENTILETDIGEST",
	"PERCENTILERAWTDIGEST",
	"PERCENTILESMARTTDIGEST",
	"IDSET",
	"HISTOGRAM",
	"COVARPOP",
	"COVARSAMP",
	"VARPOP",
	"VARSAMP",
	"STDDEVPOP",
	"STDDEVSAMP",
	"SKEWNESS",
	"KURTOSIS",
	"FOURTHMOMENT",
	"BOOLAND",
	"BOOLOR",
}

// DefaultRegistry creates a registry preloaded with the engine's aggregation
// functions. Each call returns a fresh registry; callers needing a custom
// set should use NewRegistry directly.
func DefaultRegistry() *Registry {
	return NewRegistry(defaultAggregates...)
}
