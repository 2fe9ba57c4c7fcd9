package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSlugify(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"Sarees", "sarees"},
		{"Kurti Sets", "kurti-sets"},
		{"  Suits & Dress Material  ", "suits-dress-material"},
		{"Already-Slugged", "already-slugged"},
		{"", ""},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, Slugify(tc.in), "input %q", tc.in)
	}
}
