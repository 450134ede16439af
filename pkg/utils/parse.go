package utils

import (
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Conversões tolerantes para os campos de texto dos feeds brutos: valor
// ilegível vira ausente (nil), nunca derruba o registro inteiro.

func ToInt64(s string) *int64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}

	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return nil
	}

	return &v
}

func ToDecimal(s string) *decimal.Decimal {
	s = strings.TrimSpace(s)
	s = strings.ReplaceAll(s, ",", "")
	s = strings.TrimPrefix(s, "$")
	if s == "" {
		return nil
	}

	v, err := decimal.NewFromString(s)
	if err != nil {
		return nil
	}

	return &v
}

func ToDate(s string) *time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}

	v, err := time.Parse(dateLayout, s)
	if err != nil {
		return nil
	}

	return &v
}
