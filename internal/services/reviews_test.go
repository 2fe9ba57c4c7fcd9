package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClampRating(t *testing.T) {
	cases := []struct {
		name     string
		rating   int
		verified bool
		want     int
	}{
		{"verified one star stands", 1, true, 1},
		{"verified five star stands", 5, true, 5},
		{"verified out of range high", 9, true, 5},
		{"verified out of range low", 0, true, 5},
		{"unverified floored at four", 1, false, 4},
		{"unverified three becomes four", 3, false, 4},
		{"unverified four stands", 4, false, 4},
		{"unverified five stands", 5, false, 5},
		{"unverified above five", 7, false, 5},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, ClampRating(tc.rating, tc.verified))
		})
	}
}
