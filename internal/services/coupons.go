package services

import (
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/example/nandani/internal/models"
)

// ResetIfStale returns the coupon with its daily usage counter zeroed when
// the stored last-used date is not today. The counter is only meaningful for
// the current calendar day; both the preview path and the transactional path
// call this explicitly instead of relying on save-time side effects.
func ResetIfStale(c models.Coupon, today time.Time) models.Coupon {
	if c.LastUsedDate == nil {
		c.TodayUsageCount = 0
		return c
	}

	y1, m1, d1 := c.LastUsedDate.Date()
	y2, m2, d2 := today.Date()
	if y1 != y2 || m1 != m2 || d1 != d2 {
		c.TodayUsageCount = 0
	}
	return c
}

// EvaluateCoupon checks a coupon against an order total at a given instant
// and computes the discount it grants. It is a pure function: the checkout
// preview and the in-transaction recomputation both call it and must get
// identical results for identical inputs, since the transaction's result is
// what is actually billed.
//
// Checks short-circuit in order: active flag, validity window, lifetime
// usage cap, wheel daily cap, minimum order value.
func EvaluateCoupon(c models.Coupon, orderTotal float64, now time.Time) (bool, string, float64) {
	c = ResetIfStale(c, now)

	if !c.Active {
		return false, "coupon is not active", 0
	}
	if now.Before(c.ValidFrom) {
		return false, "coupon is not valid yet", 0
	}
	if now.After(c.ValidUntil) {
		return false, "coupon has expired", 0
	}
	if c.TotalUsageLimit != nil && c.TimesUsed >= *c.TotalUsageLimit {
		return false, "coupon usage limit reached", 0
	}
	if c.IsWheelCoupon && c.TodayUsageCount >= c.DailyGlobalLimit {
		return false, "daily limit for this coupon is over", 0
	}
	if orderTotal < c.MinOrderValue {
		return false, fmt.Sprintf("minimum order value of ₹%.0f required for this coupon", c.MinOrderValue), 0
	}

	var discount float64
	if c.CouponType == models.CouponTypeFlat {
		discount = c.DiscountValue
	} else {
		discount = c.DiscountValue / 100 * orderTotal
		if c.MaxDiscountAmount != nil && discount > *c.MaxDiscountAmount {
			discount = *c.MaxDiscountAmount
		}
	}

	// The discount never exceeds the order total.
	if discount > orderTotal {
		discount = orderTotal
	}

	return true, "", discount
}

// CouponUsesByPhone counts orders already placed with this coupon under a
// canonical phone number. The preview endpoint and the checkout transaction
// both count through here so the two surfaces agree on the per-user cap.
func CouponUsesByPhone(db *gorm.DB, couponID uint, phone string) (int64, error) {
	var used int64
	err := db.Model(&models.Order{}).
		Where("coupon_id = ? AND phone_number = ?", couponID, phone).
		Count(&used).Error
	return used, err
}

// UserCapReached reports whether a per-user usage count exhausts the limit.
// A non-positive limit means the coupon is uncapped per user.
func UserCapReached(limit int, used int64) bool {
	return limit > 0 && used >= int64(limit)
}
