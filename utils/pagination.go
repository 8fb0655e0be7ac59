package utils

import (
	"math"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
)

const (
	DefaultPage  = 1
	DefaultLimit = 10
	MaxLimit     = 100
)

// Pagination is the page/limit pair read from the query string
type Pagination struct {
	Page  int
	Limit int
}

// PaginationMeta is returned next to every paginated list
type PaginationMeta struct {
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
	Total int64 `json:"total"`
	Pages int   `json:"pages"`
}

// ParsePagination reads ?page= and ?limit= with defaults and bounds
func ParsePagination(c *fiber.Ctx) Pagination {
	page := atoiDefault(c.Query("page"), DefaultPage)
	if page < 1 {
		page = DefaultPage
	}
	limit := atoiDefault(c.Query("limit"), DefaultLimit)
	if limit < 1 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}
	return Pagination{Page: page, Limit: limit}
}

func (p Pagination) Offset() int { return (p.Page - 1) * p.Limit }

// Meta computes pages = ceil(total/limit)
func (p Pagination) Meta(total int64) PaginationMeta {
	pages := 0
	if total > 0 {
		pages = int(math.Ceil(float64(total) / float64(p.Limit)))
	}
	return PaginationMeta{Page: p.Page, Limit: p.Limit, Total: total, Pages: pages}
}

func atoiDefault(s string, def int) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return def
	}
	return n
}

// QueryBool treats "true", "1" and "yes" as true
func QueryBool(c *fiber.Ctx, key string) bool {
	switch strings.ToLower(strings.TrimSpace(c.Query(key))) {
	case "true", "1", "yes":
		return true
	}
	return false
}

// QueryUint parses an optional positive id filter; ok is false when absent, err set when malformed
func QueryUint(c *fiber.Ctx, key string) (value uint, ok bool, err error) {
	raw := strings.TrimSpace(c.Query(key))
	if raw == "" {
		return 0, false, nil
	}
	n, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || n == 0 {
		return 0, false, strconv.ErrSyntax
	}
	return uint(n), true, nil
}
