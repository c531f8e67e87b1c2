// Package listutil turns list query strings into validated parameters and
// pages in-memory rows.
package listutil

import (
	"net/url"
	"slices"
	"strconv"
	"strings"
)

// DefaultPerPage is the page size used when the request names none.
const DefaultPerPage = 20

// PerPageOptions are the page sizes a client may ask for.
var PerPageOptions = []int{10, 20, 50, 100, 200}

// Spec describes what a list endpoint accepts.
type Spec struct {
	SortColumns []string // allowed ?sort= values
	DefaultSort string   // used when ?sort= is absent or not allowed; may be empty
	FilterKeys  []string // allowed exact-match filter parameters
}

// Params is a parsed list request.
type Params struct {
	Search  string            // ?q=, trimmed
	Filters map[string]string // only keys from Spec.FilterKeys
	Sort    string            // empty or one of Spec.SortColumns
	Dir     string            // "asc" or "desc"
	Page    int               // 1-indexed
	PerPage int               // one of PerPageOptions
}

// Desc reports whether rows sort in descending order.
func (p Params) Desc() bool { return p.Dir == "desc" }

// Parse reads ?q, filters, ?sort, ?dir, ?page and ?perPage from q.
// Unknown or malformed values fall back to defaults instead of failing.
// POST: Sort is empty or allowed by spec; Dir is "asc" or "desc"; Page >= 1
func Parse(q url.Values, spec Spec) Params {
	p := Params{
		Search:  strings.TrimSpace(q.Get("q")),
		Filters: make(map[string]string),
		Sort:    spec.DefaultSort,
		Dir:     "asc",
		Page:    1,
		PerPage: DefaultPerPage,
	}
	for _, key := range spec.FilterKeys {
		if v := strings.TrimSpace(q.Get(key)); v != "" {
			p.Filters[key] = v
		}
	}
	if s := q.Get("sort"); slices.Contains(spec.SortColumns, s) {
		p.Sort = s
	}
	if d := strings.ToLower(q.Get("dir")); d == "desc" {
		p.Dir = d
	}
	if n, err := strconv.Atoi(q.Get("page")); err == nil && n > 1 {
		p.Page = n
	}
	if n, err := strconv.Atoi(q.Get("perPage")); err == nil && slices.Contains(PerPageOptions, n) {
		p.PerPage = n
	}
	return p
}

// PageInfo is the pagination block returned alongside a page of rows.
type PageInfo struct {
	Page       int `json:"page"`
	PerPage    int `json:"perPage"`
	Total      int `json:"total"`
	TotalPages int `json:"totalPages"`
}

// NewPageInfo computes pagination metadata.
// PRE: total >= 0
// POST: TotalPages >= 1; Page clamped to [1, TotalPages]
func NewPageInfo(page, perPage, total int) PageInfo {
	if perPage < 1 {
		perPage = DefaultPerPage
	}
	totalPages := max((total+perPage-1)/perPage, 1)
	return PageInfo{
		Page:       min(max(page, 1), totalPages),
		PerPage:    perPage,
		Total:      total,
		TotalPages: totalPages,
	}
}

// Bounds returns the half-open range [start, end) of the current page.
// POST: 0 <= start <= end <= Total
func (p PageInfo) Bounds() (start, end int) {
	start = min((p.Page-1)*p.PerPage, p.Total)
	end = min(start+p.PerPage, p.Total)
	return start, end
}

// Paginate cuts the requested page out of rows. The returned slice is a copy.
func Paginate[T any](rows []T, p Params) ([]T, PageInfo) {
	info := NewPageInfo(p.Page, p.PerPage, len(rows))
	start, end := info.Bounds()
	return slices.Clone(rows[start:end]), info
}
