package form

import (
	"bytes"
	"encoding/json"
)

var jsonNull = []byte("null")

// numText holds a JSON number or string as its literal text, so "2", 2 and
// 2.50 all reach the parser the way they were written.
type numText string

func (n *numText) UnmarshalJSON(b []byte) error {
	if bytes.Equal(b, jsonNull) {
		*n = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*n = numText(s)
		return nil
	}
	var num json.Number
	if err := json.Unmarshal(b, &num); err != nil {
		return err
	}
	*n = numText(num)
	return nil
}

// decodeStrict rejects unknown fields. A custom UnmarshalJSON does not
// inherit DisallowUnknownFields from the caller's decoder.
func decodeStrict(b []byte, v any) error {
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

// UnmarshalJSON accepts quantity and price as numbers or strings.
func (r *Row) UnmarshalJSON(b []byte) error {
	if bytes.Equal(b, jsonNull) {
		return nil
	}
	var raw struct {
		Name     string  `json:"name"`
		Quantity numText `json:"quantity"`
		Price    numText `json:"price"`
	}
	if err := decodeStrict(b, &raw); err != nil {
		return err
	}
	*r = Row{Name: raw.Name, Quantity: string(raw.Quantity), Price: string(raw.Price)}
	return nil
}

// UnmarshalJSON accepts tax_percent as a number or a string.
func (d *Draft) UnmarshalJSON(b []byte) error {
	if bytes.Equal(b, jsonNull) {
		return nil
	}
	var raw struct {
		ClientName  string  `json:"client_name"`
		InvoiceDate string  `json:"invoice_date"`
		TaxPercent  numText `json:"tax_percent"`
		Notes       string  `json:"notes"`
		Rows        []Row   `json:"items"`
	}
	if err := decodeStrict(b, &raw); err != nil {
		return err
	}
	*d = Draft{
		ClientName:  raw.ClientName,
		InvoiceDate: raw.InvoiceDate,
		TaxPercent:  string(raw.TaxPercent),
		Notes:       raw.Notes,
		Rows:        raw.Rows,
	}
	return nil
}
