package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildSKU(t *testing.T) {
	assert.Equal(t, "10-3-FREE", BuildSKU(10, 3, SizeFree))
	assert.Equal(t, "7-12-XL", BuildSKU(7, 12, "XL"))
}

func TestIsOneSize(t *testing.T) {
	assert.True(t, (&SizeVariant{Size: SizeFree}).IsOneSize())
	assert.False(t, (&SizeVariant{Size: "M"}).IsOneSize())
}
