package models

import (
	"fmt"

	"gorm.io/gorm"
)

// SizeFree marks one-size goods (suits, sarees). Units with this size keep
// their stock in lockstep with the parent variant's master stock.
const SizeFree = "FREE"

type Product struct {
	BaseModel
	CategoryID    uint             `gorm:"index" json:"category_id"`
	Category      *Category        `json:"category,omitempty"`
	Name          string           `json:"name"`
	Description   string           `json:"description"`
	Fabric        string           `json:"fabric"`
	BasePrice     float64          `json:"base_price"`
	OriginalPrice *float64         `json:"original_price"`
	IsActive      bool             `gorm:"default:true" json:"is_active"`
	Variants      []ProductVariant `json:"variants,omitempty"`
}

// ProductVariant is one color option of a product. Stock here is the master
// counter used only for one-size goods; sized goods track stock per SizeVariant.
type ProductVariant struct {
	BaseModel
	ProductID uint           `gorm:"index" json:"product_id"`
	Product   *Product       `json:"product,omitempty"`
	ColorName string         `json:"color_name"`
	ColorCode string         `json:"color_code"`
	Thumbnail string         `json:"thumbnail"`
	Video     string         `json:"video"`
	Stock     int            `gorm:"default:0" json:"stock"`
	Images    []ProductImage `json:"images,omitempty"`
	Sizes     []SizeVariant  `json:"sizes,omitempty"`
}

type ProductImage struct {
	BaseModel
	VariantID uint   `gorm:"index" json:"variant_id"`
	Image     string `json:"image"`
}

// SizeVariant is the finest-grained purchasable unit: one size of one color
// of a product, with its own stock count and price adjustment.
type SizeVariant struct {
	BaseModel
	VariantID       uint            `gorm:"index" json:"variant_id"`
	Variant         *ProductVariant `json:"variant,omitempty"`
	Size            string          `gorm:"default:FREE" json:"size"`
	Stock           int             `gorm:"default:0" json:"stock"`
	PriceAdjustment float64         `gorm:"default:0" json:"price_adjustment"`
	SKU             string          `json:"sku"`
}

// BuildSKU derives the persisted stock-keeping identifier for a unit.
func BuildSKU(productID, variantID uint, size string) string {
	return fmt.Sprintf("%d-%d-%s", productID, variantID, size)
}

// BeforeCreate fills in the SKU when it was not provided explicitly.
func (s *SizeVariant) BeforeCreate(tx *gorm.DB) error {
	if s.SKU != "" {
		return nil
	}
	var variant ProductVariant
	if err := tx.First(&variant, "id = ?", s.VariantID).Error; err != nil {
		return err
	}
	s.SKU = BuildSKU(variant.ProductID, s.VariantID, s.Size)
	return nil
}

// IsOneSize reports whether this unit is a one-size good.
func (s *SizeVariant) IsOneSize() bool {
	return s.Size == SizeFree
}
