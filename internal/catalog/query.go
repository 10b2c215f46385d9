package catalog

import (
	"net/url"
	"sort"
	"strconv"
	"strings"
)

// DefaultLimit is the page size used when the client does not ask for one.
const DefaultLimit = 6

// Query is a read-only filter/sort/page specification for a product listing.
// Nil price bounds mean unbounded; empty strings mean "not set".
type Query struct {
	Category   string
	MinPrice   *float64
	MaxPrice   *float64
	SearchTerm string
	SortBy     string
	SortOrder  string
	Offset     int
	Limit      int
}

// ParseQuery decodes URL query parameters into a Query. Unparseable numeric
// parameters are treated as absent.
func ParseQuery(values url.Values) Query {
	q := Query{
		Category:   values.Get("category"),
		SearchTerm: values.Get("search_term"),
		SortBy:     values.Get("sort_by"),
		SortOrder:  values.Get("sort_order"),
		Limit:      DefaultLimit,
	}

	if v, err := strconv.ParseFloat(values.Get("min_price"), 64); err == nil {
		q.MinPrice = &v
	}
	if v, err := strconv.ParseFloat(values.Get("max_price"), 64); err == nil {
		q.MaxPrice = &v
	}
	if v, err := strconv.Atoi(values.Get("offset")); err == nil && v >= 0 {
		q.Offset = v
	}
	if v, err := strconv.Atoi(values.Get("limit")); err == nil && v >= 0 {
		q.Limit = v
	}

	return q
}

// ApplyQuery runs the pipeline over a snapshot: filters, then sort, then
// pagination, always in that order. The input slice is not modified.
func ApplyQuery(products []Product, q Query) []Product {
	out := make([]Product, 0, len(products))
	for _, p := range products {
		if matches(p, q) {
			out = append(out, p)
		}
	}

	sortProducts(out, q.SortBy, q.SortOrder)

	return paginate(out, q.Offset, q.Limit)
}

func matches(p Product, q Query) bool {
	if q.Category != "" && p.Category != q.Category {
		return false
	}
	if q.MinPrice != nil && p.Price < *q.MinPrice {
		return false
	}
	if q.MaxPrice != nil && p.Price > *q.MaxPrice {
		return false
	}
	if q.SearchTerm != "" {
		term := strings.ToLower(q.SearchTerm)
		if !strings.Contains(strings.ToLower(p.Name), term) &&
			!strings.Contains(strings.ToLower(p.Description), term) &&
			!strings.Contains(strings.ToLower(p.Category), term) {
			return false
		}
	}
	return true
}

func sortProducts(products []Product, sortBy, sortOrder string) {
	var less func(a, b Product) bool
	switch sortBy {
	case "name":
		less = func(a, b Product) bool { return a.Name < b.Name }
	case "price":
		// NaN compares false either way, so incomparable prices rank equal.
		less = func(a, b Product) bool { return a.Price < b.Price }
	case "category":
		less = func(a, b Product) bool { return a.Category < b.Category }
	default:
		// Unknown or absent sort key leaves the snapshot order untouched.
		return
	}

	desc := sortOrder == "desc"
	sort.SliceStable(products, func(i, j int) bool {
		if desc {
			return less(products[j], products[i])
		}
		return less(products[i], products[j])
	})
}

func paginate(products []Product, offset, limit int) []Product {
	if limit <= 0 {
		limit = DefaultLimit
	}
	if offset < 0 {
		offset = 0
	}
	if offset >= len(products) {
		return []Product{}
	}

	end := offset + limit
	if end > len(products) {
		end = len(products)
	}
	return products[offset:end]
}
