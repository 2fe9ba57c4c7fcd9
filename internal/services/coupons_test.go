package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/example/nandani/internal/models"
)

func baseCoupon() models.Coupon {
	return models.Coupon{
		Code:          "WELCOME100",
		CouponType:    models.CouponTypeFlat,
		DiscountValue: 100,
		MinOrderValue: 0,
		ValidFrom:     time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		ValidUntil:    time.Date(2025, 12, 31, 23, 59, 59, 0, time.UTC),
		Active:        true,
	}
}

func TestEvaluateCouponFlat(t *testing.T) {
	c := baseCoupon()
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	for _, total := range []float64{100, 500, 99999} {
		valid, reason, discount := EvaluateCoupon(c, total, now)
		assert.True(t, valid, "total %v", total)
		assert.Empty(t, reason)
		assert.Equal(t, 100.0, discount, "flat discount must not depend on order total")
	}
}

func TestEvaluateCouponFlatClampedToTotal(t *testing.T) {
	c := baseCoupon()
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	valid, _, discount := EvaluateCoupon(c, 60, now)
	assert.True(t, valid)
	assert.Equal(t, 60.0, discount, "discount never exceeds the order total")
}

func TestEvaluateCouponPercentage(t *testing.T) {
	cap := 150.0
	c := baseCoupon()
	c.CouponType = models.CouponTypePercentage
	c.DiscountValue = 10
	c.MaxDiscountAmount = &cap
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	cases := []struct {
		total float64
		want  float64
	}{
		{500, 50},    // 10% below the cap
		{1500, 150},  // exactly at the cap
		{10000, 150}, // clamped to max_discount_amount
	}
	for _, tc := range cases {
		valid, _, discount := EvaluateCoupon(c, tc.total, now)
		assert.True(t, valid)
		assert.Equal(t, tc.want, discount, "total %v", tc.total)
	}
}

func TestEvaluateCouponPercentageNoCap(t *testing.T) {
	c := baseCoupon()
	c.CouponType = models.CouponTypePercentage
	c.DiscountValue = 25
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	valid, _, discount := EvaluateCoupon(c, 800, now)
	assert.True(t, valid)
	assert.Equal(t, 200.0, discount)
}

func TestEvaluateCouponRejections(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	t.Run("inactive", func(t *testing.T) {
		c := baseCoupon()
		c.Active = false
		valid, reason, discount := EvaluateCoupon(c, 500, now)
		assert.False(t, valid)
		assert.Equal(t, "coupon is not active", reason)
		assert.Zero(t, discount)
	})

	t.Run("expired", func(t *testing.T) {
		c := baseCoupon()
		c.ValidUntil = now.Add(-time.Hour)
		valid, reason, _ := EvaluateCoupon(c, 500, now)
		assert.False(t, valid)
		assert.Equal(t, "coupon has expired", reason)
	})

	t.Run("not yet valid", func(t *testing.T) {
		c := baseCoupon()
		c.ValidFrom = now.Add(time.Hour)
		valid, reason, _ := EvaluateCoupon(c, 500, now)
		assert.False(t, valid)
		assert.Equal(t, "coupon is not valid yet", reason)
	})

	t.Run("lifetime cap reached", func(t *testing.T) {
		limit := 100
		c := baseCoupon()
		c.TotalUsageLimit = &limit
		c.TimesUsed = 100
		valid, reason, _ := EvaluateCoupon(c, 500, now)
		assert.False(t, valid)
		assert.Equal(t, "coupon usage limit reached", reason)
	})

	t.Run("below minimum order value", func(t *testing.T) {
		c := baseCoupon()
		c.MinOrderValue = 999
		valid, reason, _ := EvaluateCoupon(c, 500, now)
		assert.False(t, valid)
		assert.Contains(t, reason, "minimum order value")
	})
}

func TestEvaluateCouponWheelDailyCap(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	c := baseCoupon()
	c.IsWheelCoupon = true
	c.DailyGlobalLimit = 10
	c.TodayUsageCount = 10
	used := now
	c.LastUsedDate = &used

	valid, reason, _ := EvaluateCoupon(c, 500, now)
	assert.False(t, valid)
	assert.Equal(t, "daily limit for this coupon is over", reason)

	// The counter from a previous day is stale and must read as zero.
	yesterday := now.Add(-24 * time.Hour)
	c.LastUsedDate = &yesterday
	valid, _, _ = EvaluateCoupon(c, 500, now)
	assert.True(t, valid)
}

func TestEvaluateCouponDeterministic(t *testing.T) {
	c := baseCoupon()
	c.CouponType = models.CouponTypePercentage
	c.DiscountValue = 15
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	// Preview and in-transaction recomputation share this function; the
	// same inputs must always yield the same result.
	v1, r1, d1 := EvaluateCoupon(c, 1234.56, now)
	v2, r2, d2 := EvaluateCoupon(c, 1234.56, now)
	assert.Equal(t, v1, v2)
	assert.Equal(t, r1, r2)
	assert.Equal(t, d1, d2)
}

func TestUserCapReached(t *testing.T) {
	cases := []struct {
		name  string
		limit int
		used  int64
		want  bool
	}{
		{"unused coupon", 1, 0, false},
		{"at the limit", 1, 1, true},
		{"over the limit", 2, 3, true},
		{"below the limit", 3, 2, false},
		{"zero limit means uncapped", 0, 100, false},
		{"negative limit means uncapped", -1, 100, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, UserCapReached(tc.limit, tc.used))
		})
	}
}

func TestResetIfStale(t *testing.T) {
	today := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	t.Run("never used", func(t *testing.T) {
		c := baseCoupon()
		c.TodayUsageCount = 7
		c.LastUsedDate = nil
		assert.Zero(t, ResetIfStale(c, today).TodayUsageCount)
	})

	t.Run("used yesterday", func(t *testing.T) {
		c := baseCoupon()
		c.TodayUsageCount = 7
		yesterday := today.Add(-24 * time.Hour)
		c.LastUsedDate = &yesterday
		assert.Zero(t, ResetIfStale(c, today).TodayUsageCount)
	})

	t.Run("used earlier today", func(t *testing.T) {
		c := baseCoupon()
		c.TodayUsageCount = 7
		morning := time.Date(2025, 6, 1, 8, 30, 0, 0, time.UTC)
		c.LastUsedDate = &morning
		assert.Equal(t, 7, ResetIfStale(c, today).TodayUsageCount)
	})

	t.Run("does not mutate its argument", func(t *testing.T) {
		c := baseCoupon()
		c.TodayUsageCount = 7
		c.LastUsedDate = nil
		_ = ResetIfStale(c, today)
		assert.Equal(t, 7, c.TodayUsageCount)
	})
}
