package models

import "time"

// Coupon types.
const (
	CouponTypeFlat       = "FLAT"
	CouponTypePercentage = "PERCENTAGE"
)

// Coupon defines a discount rule, optionally eligible for the post-purchase
// spin wheel. TodayUsageCount is only meaningful for the calendar day stored
// in LastUsedDate; callers must reset it through services before comparing.
type Coupon struct {
	BaseModel
	Code              string   `gorm:"uniqueIndex" json:"code"`
	Description       string   `json:"description"`
	CouponType        string   `gorm:"default:PERCENTAGE" json:"coupon_type"`
	DiscountValue     float64  `json:"discount_value"`
	MaxDiscountAmount *float64 `json:"max_discount_amount"`
	MinOrderValue     float64  `gorm:"default:0" json:"min_order_value"`

	ValidFrom  time.Time `json:"valid_from"`
	ValidUntil time.Time `json:"valid_until"`
	Active     bool      `gorm:"default:true" json:"active"`

	LimitPerUser    int  `gorm:"default:1" json:"limit_per_user"`
	TotalUsageLimit *int `json:"total_usage_limit"`
	TimesUsed       int  `gorm:"default:0" json:"times_used"`

	IsWheelCoupon  bool   `gorm:"default:false" json:"is_wheel_coupon"`
	WheelLabel     string `json:"wheel_label"`
	WheelColor     string `gorm:"default:#8B3E48" json:"wheel_color"`
	WinProbability int    `gorm:"default:50" json:"win_probability"`

	DailyGlobalLimit int        `gorm:"default:10" json:"daily_global_limit"`
	LastUsedDate     *time.Time `json:"last_used_date"`
	TodayUsageCount  int        `gorm:"default:0" json:"today_usage_count"`
}

// DisplayLabel is what the wheel slice shows for this coupon.
func (c *Coupon) DisplayLabel() string {
	if c.WheelLabel != "" {
		return c.WheelLabel
	}
	return c.Code
}

// WheelUsage locks one spin outcome to one order identifier. The unique
// constraint on OrderID enforces "at most one spin per order" under retries.
type WheelUsage struct {
	BaseModel
	OrderID   string  `gorm:"uniqueIndex" json:"order_id"`
	CouponID  uint    `gorm:"index" json:"coupon_id"`
	CouponWon *Coupon `gorm:"foreignKey:CouponID" json:"coupon_won,omitempty"`
}
