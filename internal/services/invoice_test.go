package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatInvoiceNumber(t *testing.T) {
	cases := []struct {
		prefix  string
		year    int
		orderID uint
		want    string
	}{
		{"NC", 2025, 7, "NC-2025-0007"},
		{"NC", 2025, 1, "NC-2025-0001"},
		{"NC", 2026, 42, "NC-2026-0042"},
		{"NC", 2025, 9999, "NC-2025-9999"},
		{"NC", 2025, 12345, "NC-2025-12345"}, // padding widens past four digits
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, FormatInvoiceNumber(tc.prefix, tc.year, tc.orderID))
	}
}
