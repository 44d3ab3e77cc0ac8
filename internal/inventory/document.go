package inventory

import (
	"bytes"
	"encoding/json"
	"fmt"

	"ration-be/internal/rationcard"

	"github.com/shopspring/decimal"
)

const pricesSchemaVersion = 2

// pricesDocument is the stored shape of inventory.prices. Version 1 rows
// hold a bare {"YELLOW": 12.5} object of JSON numbers.
type pricesDocument struct {
	SchemaVersion int                        `json:"schemaVersion"`
	Prices        map[string]decimal.Decimal `json:"prices"`
}

func encodePrices(prices map[rationcard.Type]decimal.Decimal) ([]byte, error) {
	doc := pricesDocument{
		SchemaVersion: pricesSchemaVersion,
		Prices:        make(map[string]decimal.Decimal, len(prices)),
	}
	for t, p := range prices {
		doc.Prices[string(t)] = p
	}
	return json.Marshal(doc)
}

func decodePrices(raw []byte) (map[rationcard.Type]decimal.Decimal, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return map[rationcard.Type]decimal.Decimal{}, nil
	}
	if raw[0] != '{' {
		return nil, ErrUnsupportedDocument
	}

	var probe map[string]json.RawMessage
	if err := json.Unmarshal(raw, &probe); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnsupportedDocument, err)
	}

	if _, versioned := probe["schemaVersion"]; !versioned {
		var legacy map[string]decimal.Decimal
		if err := json.Unmarshal(raw, &legacy); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrUnsupportedDocument, err)
		}
		return toTyped(legacy), nil
	}

	var doc pricesDocument
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnsupportedDocument, err)
	}
	if doc.SchemaVersion != pricesSchemaVersion {
		return nil, fmt.Errorf("%w: schema version %d", ErrUnsupportedDocument, doc.SchemaVersion)
	}
	return toTyped(doc.Prices), nil
}

func toTyped(in map[string]decimal.Decimal) map[rationcard.Type]decimal.Decimal {
	out := make(map[rationcard.Type]decimal.Decimal, len(in))
	for k, v := range in {
		out[rationcard.Type(k)] = v
	}
	return out
}
