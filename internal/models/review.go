package models

import "github.com/lib/pq"

// Review is one customer's rating of a product. A user may hold at most one
// review per product; resubmitting updates it in place.
type Review struct {
	BaseModel
	ProductID       uint           `gorm:"index;uniqueIndex:idx_review_product_user" json:"product_id"`
	Product         *Product       `json:"product,omitempty"`
	UserID          uint           `gorm:"uniqueIndex:idx_review_product_user" json:"user_id"`
	User            *User          `json:"user,omitempty"`
	Rating          int            `gorm:"default:5" json:"rating"`
	Comment         string         `json:"comment"`
	IsVerifiedBuyer bool           `gorm:"default:false" json:"is_verified_buyer"`
	Images          pq.StringArray `gorm:"type:text[]" json:"images"`
	HelpfulCount    int            `gorm:"-" json:"helpful_count"`
}

// ReviewLike marks a review as helpful, once per user.
type ReviewLike struct {
	BaseModel
	ReviewID uint `gorm:"index;uniqueIndex:idx_like_review_user" json:"review_id"`
	UserID   uint `gorm:"uniqueIndex:idx_like_review_user" json:"user_id"`
}
