package services

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/example/nandani/internal/models"
)

// LineItem describes one cart line at checkout. Clients address the
// inventory unit with whatever specificity they have: a re-order flow knows
// the exact SizeVariant id, a cart built from search results only knows
// product, color and size. The resolver accepts all of them uniformly.
type LineItem struct {
	ProductID uint    `json:"product_id"`
	VariantID *uint   `json:"variant_id"`
	SizeID    *uint   `json:"size_id"`
	Quantity  int     `json:"quantity"`
	Price     float64 `json:"price"`
	Size      string  `json:"size"`
	Color     string  `json:"color"`
}

// Resolution tiers, most specific first. The first present key wins with no
// fallthrough: a lookup miss on the chosen tier is an error, never a retry on
// a broader tier.
const (
	tierSizeID = iota
	tierVariantSize
	tierProductColorSize
)

// resolutionTier picks which lookup key a line item is addressed by. A nil or
// zero id does not count as present.
func resolutionTier(item LineItem) int {
	switch {
	case item.SizeID != nil && *item.SizeID != 0:
		return tierSizeID
	case item.VariantID != nil && *item.VariantID != 0:
		return tierVariantSize
	default:
		return tierProductColorSize
	}
}

// resolveSizeVariant maps a line item to exactly one inventory unit.
// Resolution order:
//  1. explicit SizeVariant id
//  2. variant id + size label
//  3. product id + size label + color name
//
// The loaded unit carries Variant and Variant.Product for snapshotting.
func resolveSizeVariant(tx *gorm.DB, item LineItem) (*models.SizeVariant, error) {
	base := tx.Preload("Variant").Preload("Variant.Product")

	switch resolutionTier(item) {
	case tierSizeID:
		var sv models.SizeVariant
		if err := base.First(&sv, "id = ?", *item.SizeID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, &NotFoundError{Message: "selected product variant not found"}
			}
			return nil, err
		}
		return &sv, nil

	case tierVariantSize:
		var sv models.SizeVariant
		if err := base.First(&sv, "variant_id = ? AND size = ?", *item.VariantID, item.Size).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, &NotFoundError{Message: "selected product variant not found"}
			}
			return nil, err
		}
		return &sv, nil

	default:
		var sv models.SizeVariant
		err := base.
			Joins("JOIN product_variants ON product_variants.id = size_variants.variant_id").
			Where("product_variants.product_id = ? AND size_variants.size = ? AND product_variants.color_name = ?",
				item.ProductID, item.Size, item.Color).
			First(&sv).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, &ValidationError{Message: fmt.Sprintf("product not found: %s - %s", item.Color, item.Size)}
			}
			return nil, err
		}
		return &sv, nil
	}
}
