package catalog

import (
	"cmp"
	"slices"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// SortKey selects the ordering of a derived view.
type SortKey string

const (
	SortNone        SortKey = ""
	SortNameAsc     SortKey = "name-asc"
	SortNameDesc    SortKey = "name-desc"
	SortStrainAsc   SortKey = "strain-asc"
	SortStrainDesc  SortKey = "strain-desc"
	SortPriceAsc    SortKey = "price-asc"
	SortPriceDesc   SortKey = "price-desc"
	SortDateDesc    SortKey = "date-desc"
	SortDateAsc     SortKey = "date-asc"
	SortPotencyAsc  SortKey = "potency-asc"
	SortPotencyDesc SortKey = "potency-desc"
)

// AllCategories is the selector value that disables the category filter.
const AllCategories = "all"

var sortKeys = []SortKey{
	SortNameAsc, SortNameDesc,
	SortStrainAsc, SortStrainDesc,
	SortPriceAsc, SortPriceDesc,
	SortDateDesc, SortDateAsc,
	SortPotencyAsc, SortPotencyDesc,
}

// ParseSortKey maps raw input onto a SortKey. Unknown values report false
// and behave like SortNone.
func ParseSortKey(raw string) (SortKey, bool) {
	key := SortKey(strings.ToLower(strings.TrimSpace(raw)))
	if key == SortNone {
		return SortNone, true
	}
	if slices.Contains(sortKeys, key) {
		return key, true
	}
	return SortNone, false
}

// ViewFilter is the per-render filter state chosen in the storefront.
type ViewFilter struct {
	Search   string
	Category string
	Sort     SortKey
	// Locale drives string collation; the zero value means English.
	Locale language.Tag
}

// DeriveView filters products by name and category substring and returns
// them stably sorted by filter.Sort. The input slice is left untouched.
func DeriveView(products []Product, filter ViewFilter) []Product {
	search := strings.ToLower(strings.TrimSpace(filter.Search))
	category := strings.ToLower(strings.TrimSpace(filter.Category))
	if category == AllCategories {
		category = ""
	}

	view := make([]Product, 0, len(products))
	for _, p := range products {
		if matchesSearch(p, search) && matchesCategory(p, category) {
			view = append(view, p)
		}
	}

	if compare := comparator(filter); compare != nil {
		slices.SortStableFunc(view, compare)
	}
	return view
}

func matchesSearch(p Product, search string) bool {
	if search == "" {
		return true
	}
	return strings.Contains(strings.ToLower(p.Name), search)
}

// matchesCategory does substring matching on purpose: "flo" selects
// "Flower".
func matchesCategory(p Product, category string) bool {
	if category == "" {
		return true
	}
	for _, label := range p.Categories {
		if strings.Contains(strings.ToLower(label), category) {
			return true
		}
	}
	return false
}

func comparator(filter ViewFilter) func(a, b Product) int {
	switch filter.Sort {
	case SortNameAsc, SortNameDesc:
		c := newCollator(filter.Locale)
		return directed(filter.Sort == SortNameDesc, func(a, b Product) int {
			return c.CompareString(a.Name, b.Name)
		})
	case SortStrainAsc, SortStrainDesc:
		c := newCollator(filter.Locale)
		return directed(filter.Sort == SortStrainDesc, func(a, b Product) int {
			return c.CompareString(a.StrainOrEmpty(), b.StrainOrEmpty())
		})
	case SortPriceAsc, SortPriceDesc:
		return directed(filter.Sort == SortPriceDesc, func(a, b Product) int {
			return a.PriceOrZero().Cmp(b.PriceOrZero())
		})
	case SortPotencyAsc, SortPotencyDesc:
		return directed(filter.Sort == SortPotencyDesc, func(a, b Product) int {
			return cmp.Compare(a.PotencyOrZero(), b.PotencyOrZero())
		})
	case SortDateAsc, SortDateDesc:
		return directed(filter.Sort == SortDateDesc, func(a, b Product) int {
			return a.CreatedAt.Compare(b.CreatedAt)
		})
	default:
		return nil
	}
}

func directed(desc bool, compare func(a, b Product) int) func(a, b Product) int {
	if !desc {
		return compare
	}
	return func(a, b Product) int {
		return compare(b, a)
	}
}

// newCollator builds a collator per call; collate.Collator keeps scratch
// buffers and is not safe for concurrent use.
func newCollator(tag language.Tag) *collate.Collator {
	if tag == language.Und {
		tag = language.English
	}
	return collate.New(tag)
}
