package function

import "testing"

func TestCanonicalize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"lowercase unchanged", "count", "count"},
		{"uppercase folded", "COUNT", "count"},
		{"mixed case", "DistinctCount", "distinctcount"},
		{"underscores stripped", "DISTINCT_COUNT", "distinctcount"},
		{"leading underscore", "_count_", "count"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Canonicalize(tt.input); got != tt.want {
				t.Errorf("Canonicalize(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestIsSame(t *testing.T) {
	tests := []struct {
		name   string
		first  string
		second string
		want   bool
	}{
		{"identical", "count", "count", true},
		{"case differs", "COUNT", "count", true},
		{"underscores differ", "json_extract_scalar", "jsonExtractScalar", true},
		{"different functions", "count", "sum", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsSame(tt.first, tt.second); got != tt.want {
				t.Errorf("IsSame(%q, %q) = %v, want %v", tt.first, tt.second, got, tt.want)
			}
		})
	}
}

func TestRegistryIsAggregate(t *testing.T) {
	registry := DefaultRegistry()

	tests := []struct {
		name     string
		function string
		want     bool
	}{
		{"count", "COUNT", true},
		{"count lowercase", "count", true},
		{"distinct count", "DISTINCTCOUNT", true},
		{"distinct count with underscore", "DISTINCT_COUNT", true},
		{"distinct itself", "DISTINCT", true},
		{"percentile", "percentile", true},
		{"plain transform", "jsonExtractScalar", false},
		{"comparison operator", ">", false},
		{"alias marker", "AS", false},
		{"unknown", "frobnicate", false},
		{"empty", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := registry.IsAggregate(tt.function); got != tt.want {
				t.Errorf("IsAggregate(%q) = %v, want %v", tt.function, got, tt.want)
			}
		})
	}
}

func TestNewRegistryCustomSet(t *testing.T) {
	registry := NewRegistry("MY_AGG", "other")

	if !registry.IsAggregate("myagg") {
		t.Error("IsAggregate(myagg) = false, want true")
	}
	if !registry.IsAggregate("OTHER") {
		t.Error("IsAggregate(OTHER) = false, want true")
	}
	if registry.IsAggregate("COUNT") {
		t.Error("IsAggregate(COUNT) = true for custom registry, want false")
	}
	if got := len(registry.Names()); got != 2 {
		t.Errorf("len(Names()) = %d, want 2", got)
	}
}
