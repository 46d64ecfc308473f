package types

import (
	"encoding/json"
	"testing"
)

func TestNullableDecimalUnmarshal(t *testing.T) {
	var payload struct {
		Price    NullableDecimal `json:"price"`
		Shipping NullableDecimal `json:"shipping"`
		Absent   NullableDecimal `json:"absent"`
	}

	if err := json.Unmarshal([]byte(`{"price":"12.50","shipping":null}`), &payload); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	if !payload.Price.Valid || payload.Price.Value == nil || payload.Price.Value.String() != "12.5" {
		t.Fatalf("unexpected price %+v", payload.Price)
	}
	if !payload.Shipping.Valid || payload.Shipping.Value != nil {
		t.Fatalf("expected explicit null for shipping, got %+v", payload.Shipping)
	}
	if payload.Shipping.NullDecimal().Valid {
		t.Fatalf("explicit null should convert to an invalid NullDecimal")
	}
	if payload.Absent.Valid {
		t.Fatalf("absent field should stay invalid")
	}
}

func TestNullableDecimalAcceptsNumbers(t *testing.T) {
	var n NullableDecimal
	if err := json.Unmarshal([]byte(`9.99`), &n); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if got := n.NullDecimal(); !got.Valid || got.Decimal.String() != "9.99" {
		t.Fatalf("unexpected value %+v", got)
	}
}
