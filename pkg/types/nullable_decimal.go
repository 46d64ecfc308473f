package types

import (
	"bytes"
	"encoding/json"

	"github.com/shopspring/decimal"
)

// NullableDecimal tracks whether a decimal field was explicitly present in
// JSON so partial updates can tell "absent" from "clear".
type NullableDecimal struct {
	Valid bool
	Value *decimal.Decimal
}

// UnmarshalJSON implements json.Unmarshaler.
func (n *NullableDecimal) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil
	}

	if bytes.Equal(trimmed, []byte("null")) {
		n.Valid = true
		n.Value = nil
		return nil
	}

	var parsed decimal.Decimal
	if err := json.Unmarshal(trimmed, &parsed); err != nil {
		return err
	}
	n.Valid = true
	n.Value = &parsed
	return nil
}

// NullDecimal converts the value into the column representation.
func (n NullableDecimal) NullDecimal() decimal.NullDecimal {
	if n.Value == nil {
		return decimal.NullDecimal{}
	}
	return decimal.NullDecimal{Decimal: *n.Value, Valid: true}
}
