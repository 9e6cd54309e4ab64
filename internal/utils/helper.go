package utils

import (
	"strconv"
	"strings"
)

func StrPtr(s string) *string {
	return &s
}

func PtrString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func ToUint(id string) (uint, error) {
	n, err := strconv.ParseUint(id, 10, 64)
	return uint(n), err
}

// ParsePagination normalizes page/limit query values into sane bounds.
func ParsePagination(pageStr, limitStr string) (page, limit int) {
	page, _ = strconv.Atoi(pageStr)
	if page < 1 {
		page = 1
	}
	limit, _ = strconv.Atoi(limitStr)
	if limit < 1 {
		limit = 10
	}
	if limit > 100 {
		limit = 100
	}
	return page, limit
}

// RupeesToPaise converts a rupee amount to minor currency units the way the
// gateway expects, rounding to the nearest paisa.
func RupeesToPaise(amount float64) int64 {
	return int64(amount*100 + 0.5)
}

func NormalizeCouponCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}
