package validators

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	pkgerrors "github.com/leviwaynedaily/red-carpet-distro-sub000/pkg/errors"
)

type createCategoryRequest struct {
	Name  string `json:"name" validate:"required,notblank,max=120"`
	Color string `json:"color,omitempty" validate:"omitempty,hexcolor"`
}

func TestDecodeJSONBodyValidates(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"   ","color":"nope"}`))
	var dest createCategoryRequest
	err := DecodeJSONBody(req, &dest)
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
	details, ok := typed.Details().(map[string]string)
	if !ok {
		t.Fatalf("expected field details, got %T", typed.Details())
	}
	if details["name"] != "is required" {
		t.Fatalf("unexpected name detail %q", details["name"])
	}
	if details["color"] != "must be a hex colour" {
		t.Fatalf("unexpected color detail %q", details["color"])
	}
}

func TestDecodeJSONBodyRejectsUnknownFields(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"Flower","extra":true}`))
	var dest createCategoryRequest
	if err := DecodeJSONBody(req, &dest); !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error for unknown field, got %v", err)
	}
}

func TestDecodeJSONBodySuccess(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"Flower","color":"#FFAA00"}`))
	var dest createCategoryRequest
	if err := DecodeJSONBody(req, &dest); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if dest.Name != "Flower" {
		t.Fatalf("unexpected name %q", dest.Name)
	}
}

func TestDecodeJSONBodyRejectsTrailingObjects(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"Flower"}{"name":"Edibles"}`))
	var dest createCategoryRequest
	if err := DecodeJSONBody(req, &dest); !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error for trailing data, got %v", err)
	}
}

func TestDecodeJSONBodyTooLarge(t *testing.T) {
	body := `{"name":"` + strings.Repeat("a", MaxJSONBodyBytes) + `"}`
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	var dest createCategoryRequest
	if err := DecodeJSONBody(req, &dest); !pkgerrors.IsCode(err, pkgerrors.CodePayloadTooLarge) {
		t.Fatalf("expected payload too large, got %v", err)
	}
}

func TestDecodeJSONBodyReportsTypeMismatchField(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":42}`))
	var dest createCategoryRequest
	typed := pkgerrors.As(DecodeJSONBody(req, &dest))
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", typed)
	}
	details, ok := typed.Details().(map[string]string)
	if !ok || details["name"] != "must be a string" {
		t.Fatalf("unexpected details %v", typed.Details())
	}
}

func TestQueryHelpers(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/?q=%20og%20&sort=PRICE-ASC", nil)
	if got, err := ParseQueryRaw(req, "q", 0); err != nil || got != " og " {
		t.Fatalf("raw query should keep whitespace, got %q (%v)", got, err)
	}
	if got := ParseQueryString(req, "q", 0); got != "og" {
		t.Fatalf("expected trimmed value, got %q", got)
	}
	if got := ParseQueryLower(req, "sort", 32); got != "price-asc" {
		t.Fatalf("expected lower-cased sort, got %q", got)
	}
	if got, err := ParseQueryRaw(req, "q", 4); err != nil || got != " og " {
		t.Fatalf("value at the limit should pass, got %q (%v)", got, err)
	}
	_, err := ParseQueryRaw(req, "q", 2)
	if !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error for over-long value, got %v", err)
	}
}

func TestParseQueryInt(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/?limit=20&bad=x&big=500", nil)
	if got, err := ParseQueryInt(req, "limit", 10, 1, 100); err != nil || got != 20 {
		t.Fatalf("expected 20, got %d (%v)", got, err)
	}
	if got, err := ParseQueryInt(req, "missing", 10, 1, 100); err != nil || got != 10 {
		t.Fatalf("expected default 10, got %d (%v)", got, err)
	}
	if _, err := ParseQueryInt(req, "bad", 10, 1, 100); err == nil {
		t.Fatal("expected non-numeric value to fail")
	}
	if _, err := ParseQueryInt(req, "big", 10, 1, 100); err == nil {
		t.Fatal("expected out of range value to fail")
	}
}

func TestBearerToken(t *testing.T) {
	cases := map[string]bool{
		"Bearer abc":  true,
		"bearer  abc": true,
		"abc":         false,
		"Bearer ":     false,
		"":            false,
	}
	for header, ok := range cases {
		token, err := BearerToken(header)
		if ok && (err != nil || token != "abc") {
			t.Fatalf("header %q: expected abc, got %q (%v)", header, token, err)
		}
		if !ok && err == nil {
			t.Fatalf("header %q: expected error", header)
		}
	}
}

func TestSanitizeString(t *testing.T) {
	if got := SanitizeString("  hello world  ", 5); got != "hello" {
		t.Fatalf("unexpected sanitized value %q", got)
	}
	// "Gelato Ä" is 9 bytes; a cut at 8 would split the umlaut
	if got := SanitizeString("Gelato Ä", 8); got != "Gelato " {
		t.Fatalf("expected rune-safe cut, got %q", got)
	}
	if got := SanitizeString(" Kush ", 0); got != "Kush" {
		t.Fatalf("expected no cap for zero max, got %q", got)
	}
}
