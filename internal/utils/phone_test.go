package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanonicalPhone(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"9876543210", "+919876543210"},
		{"+919876543210", "+919876543210"},
		{"919876543210", "+919876543210"},
		{"098 7654 3210", "+919876543210"},
		{"+91-98765-43210", "+919876543210"},
		{"12345", "12345"}, // too short to normalize
		{"", ""},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, CanonicalPhone(tc.in), "input %q", tc.in)
	}
}

func TestCanonicalPhoneIsIdempotent(t *testing.T) {
	once := CanonicalPhone("98765 43210")
	assert.Equal(t, once, CanonicalPhone(once))
}

func TestPhoneDigits(t *testing.T) {
	assert.Equal(t, "9876543210", PhoneDigits("+919876543210"))
	assert.Equal(t, "9876543210", PhoneDigits("9876543210"))
}
