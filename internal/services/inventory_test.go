package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func uintPtr(v uint) *uint { return &v }

func TestResolutionTier(t *testing.T) {
	cases := []struct {
		name string
		item LineItem
		want int
	}{
		{
			name: "size id wins over everything",
			item: LineItem{SizeID: uintPtr(5), VariantID: uintPtr(3), ProductID: 1, Size: "M", Color: "Red"},
			want: tierSizeID,
		},
		{
			name: "variant id plus size when size id absent",
			item: LineItem{VariantID: uintPtr(3), ProductID: 1, Size: "M", Color: "Red"},
			want: tierVariantSize,
		},
		{
			name: "product color size as last resort",
			item: LineItem{ProductID: 1, Size: "M", Color: "Red"},
			want: tierProductColorSize,
		},
		{
			name: "zero size id does not count as present",
			item: LineItem{SizeID: uintPtr(0), VariantID: uintPtr(3), Size: "M"},
			want: tierVariantSize,
		},
		{
			name: "zero variant id does not count as present",
			item: LineItem{VariantID: uintPtr(0), ProductID: 1, Size: "M", Color: "Red"},
			want: tierProductColorSize,
		},
		{
			name: "nil pointers fall to the broadest tier",
			item: LineItem{ProductID: 1},
			want: tierProductColorSize,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, resolutionTier(tc.item))
		})
	}
}
