package utils

import (
	"net/http"
	"strconv"
	"strings"
)

// Pagination is the page block returned by list endpoints.
type Pagination struct {
	Page  int64 `json:"page"`
	Limit int64 `json:"limit"`
	Total int64 `json:"total"`
	Pages int64 `json:"pages"`
}

// ParsePagination reads ?page and ?limit, clamping limit to [1, max].
func ParsePagination(r *http.Request, def, max int64) Pagination {
	q := r.URL.Query()

	page, _ := strconv.ParseInt(q.Get("page"), 10, 64)
	if page < 1 {
		page = 1
	}
	limit, err := strconv.ParseInt(q.Get("limit"), 10, 64)
	if err != nil || limit < 1 {
		limit = def
	}
	if limit > max {
		limit = max
	}
	return Pagination{Page: page, Limit: limit}
}

func (p Pagination) Skip() int64 {
	return (p.Page - 1) * p.Limit
}

// WithTotal fills Total and Pages.
func (p Pagination) WithTotal(total int64) Pagination {
	p.Total = total
	if p.Limit > 0 {
		p.Pages = (total + p.Limit - 1) / p.Limit
	}
	return p
}

func ParseInt(s string, def int) int {
	val, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return def
	}
	return val
}

func ParseBool(s string) bool {
	b, _ := strconv.ParseBool(strings.TrimSpace(s))
	return b
}
