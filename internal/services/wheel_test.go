package services

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"

	"github.com/example/nandani/internal/models"
)

func wheelCoupon(code string, weight int) models.Coupon {
	return models.Coupon{Code: code, WinProbability: weight, IsWheelCoupon: true}
}

func TestPickWeightedSingleWinner(t *testing.T) {
	coupons := []models.Coupon{
		wheelCoupon("A", 0),
		wheelCoupon("B", 100),
		wheelCoupon("C", 0),
	}
	rng := rand.New(rand.NewSource(1))

	for i := 0; i < 200; i++ {
		assert.Equal(t, 1, pickWeighted(coupons, rng), "all weight sits on B")
	}
}

func TestPickWeightedZeroWeightsFallsBackToUniform(t *testing.T) {
	coupons := []models.Coupon{
		wheelCoupon("A", 0),
		wheelCoupon("B", 0),
	}
	rng := rand.New(rand.NewSource(1))

	seen := map[int]bool{}
	for i := 0; i < 200; i++ {
		idx := pickWeighted(coupons, rng)
		assert.GreaterOrEqual(t, idx, 0)
		assert.Less(t, idx, len(coupons))
		seen[idx] = true
	}
	assert.Len(t, seen, 2, "uniform fallback must reach every slice")
}

func TestPickWeightedCoversAllPositiveWeights(t *testing.T) {
	coupons := []models.Coupon{
		wheelCoupon("A", 50),
		wheelCoupon("B", 30),
		wheelCoupon("C", 20),
	}
	rng := rand.New(rand.NewSource(42))

	counts := make([]int, len(coupons))
	for i := 0; i < 3000; i++ {
		counts[pickWeighted(coupons, rng)]++
	}

	for i, n := range counts {
		assert.Positive(t, n, "coupon %d never won", i)
	}
	// Higher weight must win more often over a large sample.
	assert.Greater(t, counts[0], counts[2])
}

func TestLostSpinRace(t *testing.T) {
	// A unique violation on wheel_usages.order_id aborts the draw
	// transaction; only that error may divert Spin to the recorded outcome.
	assert.True(t, lostSpinRace(gorm.ErrDuplicatedKey))
	assert.True(t, lostSpinRace(fmt.Errorf("create wheel usage: %w", gorm.ErrDuplicatedKey)))

	assert.False(t, lostSpinRace(nil))
	assert.False(t, lostSpinRace(gorm.ErrRecordNotFound))
	assert.False(t, lostSpinRace(fmt.Errorf("connection reset")))
}

func TestPickWeightedSkipsNonPositiveWeights(t *testing.T) {
	coupons := []models.Coupon{
		wheelCoupon("A", -5),
		wheelCoupon("B", 10),
	}
	rng := rand.New(rand.NewSource(7))

	for i := 0; i < 100; i++ {
		assert.Equal(t, 1, pickWeighted(coupons, rng))
	}
}
