package request

import "github.com/segmentio/encoding/json"

// The JSON form of an expression carries a "type" discriminator so that
// consumers can decode the tree without reflection on field presence:
//
//	{"type": "identifier", "name": "city"}
//	{"type": "literal", "value": 5}
//	{"type": "function", "operator": "COUNT", "operands": [...]}

// MarshalJSON implements json.Marshaler.
func (i *Identifier) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type string `json:"type"`
		Name string `json:"name"`
	}{Type: "identifier", Name: i.Name})
}

// MarshalJSON implements json.Marshaler.
func (l *Literal) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type  string      `json:"type"`
		Value interface{} `json:"value"`
	}{Type: "literal", Value: l.Value})
}

// MarshalJSON implements json.Marshaler.
func (f *Function) MarshalJSON() ([]byte, error) {
	operands := f.Operands
	if operands == nil {
		operands = []Expression{}
	}
	return json.Marshal(struct {
		Type     string       `json:"type"`
		Operator string       `json:"operator"`
		Operands []Expression `json:"operands"`
	}{Type: "function", Operator: f.Operator, Operands: operands})
}
