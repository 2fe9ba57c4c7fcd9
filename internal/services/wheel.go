package services

import (
	"errors"
	"fmt"
	"math/rand"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/example/nandani/internal/models"
)

// WheelService runs the post-purchase spin wheel: a weighted random draw
// over eligible wheel coupons, locked to one outcome per order id.
type WheelService struct {
	db  *gorm.DB
	rng *rand.Rand
}

// NewWheelService constructs WheelService.
func NewWheelService(db *gorm.DB) *WheelService {
	return &WheelService{
		db:  db,
		rng: rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// WheelItem is one slice of the wheel as shown to the client.
type WheelItem struct {
	ID    uint   `json:"id"`
	Label string `json:"label"`
	Color string `json:"color"`
}

// SpinResult is the outcome of a draw. AlreadySpun marks a repeated request
// for an order that has a recorded win; the original outcome is returned.
type SpinResult struct {
	Success      bool   `json:"success"`
	CouponCode   string `json:"coupon_code,omitempty"`
	DiscountText string `json:"discount_text,omitempty"`
	Message      string `json:"message"`
	AlreadySpun  bool   `json:"already_spun"`
}

// Items lists the wheel slices a client may currently win.
func (s *WheelService) Items(now time.Time) ([]WheelItem, error) {
	coupons, err := s.eligibleCoupons(s.db, now)
	if err != nil {
		return nil, err
	}

	items := make([]WheelItem, 0, len(coupons))
	for _, c := range coupons {
		items = append(items, WheelItem{
			ID:    c.ID,
			Label: c.DisplayLabel(),
			Color: c.WheelColor,
		})
	}
	return items, nil
}

// Spin draws a coupon for an order. The unique WheelUsage row makes the
// draw idempotent: repeated requests, including racing ones, all resolve to
// the first recorded outcome.
func (s *WheelService) Spin(orderID string, now time.Time) (*SpinResult, error) {
	if orderID == "" {
		return nil, &ValidationError{Message: "order_id is required"}
	}

	var result *SpinResult
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if prior, err := s.priorResult(tx, orderID); err != nil {
			return err
		} else if prior != nil {
			result = prior
			return nil
		}

		coupons, err := s.eligibleCoupons(tx.Clauses(clause.Locking{Strength: "UPDATE"}), now)
		if err != nil {
			return err
		}
		if len(coupons) == 0 {
			result = &SpinResult{
				Success: false,
				Message: "all rewards for today are gone, try again tomorrow",
			}
			return nil
		}

		winner := coupons[pickWeighted(coupons, s.rng)]

		usage := models.WheelUsage{OrderID: orderID, CouponID: winner.ID}
		if err := tx.Create(&usage).Error; err != nil {
			// Postgres refuses further statements once a transaction has
			// seen an error, so a duplicate cannot be recovered on tx; the
			// error aborts the transaction and Spin re-reads the recorded
			// outcome on a fresh connection.
			return err
		}

		fresh := ResetIfStale(winner, now)
		if err := tx.Model(&models.Coupon{}).Where("id = ?", winner.ID).
			Updates(map[string]interface{}{
				"today_usage_count": fresh.TodayUsageCount + 1,
				"last_used_date":    now,
			}).Error; err != nil {
			return err
		}

		result = &SpinResult{
			Success:      true,
			CouponCode:   winner.Code,
			DiscountText: winner.DisplayLabel(),
			Message:      fmt.Sprintf("congratulations, you won %s!", winner.DisplayLabel()),
		}
		return nil
	})
	if err != nil {
		if !lostSpinRace(err) {
			return nil, err
		}
		// A concurrent spin for the same order won the race. Its WheelUsage
		// row is committed and visible now that both transactions are
		// finished, so the recorded outcome is read back here.
		prior, perr := s.priorResult(s.db, orderID)
		if perr != nil {
			return nil, perr
		}
		if prior == nil {
			return nil, err
		}
		return prior, nil
	}

	return result, nil
}

// lostSpinRace reports whether a draw failed because another spin for the
// same order inserted its WheelUsage row first.
func lostSpinRace(err error) bool {
	return errors.Is(err, gorm.ErrDuplicatedKey)
}

func (s *WheelService) priorResult(tx *gorm.DB, orderID string) (*SpinResult, error) {
	var usage models.WheelUsage
	err := tx.Preload("CouponWon").First(&usage, "order_id = ?", orderID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	res := &SpinResult{
		Success:     true,
		AlreadySpun: true,
		Message:     "you already won a reward on this order",
	}
	if usage.CouponWon != nil {
		res.CouponCode = usage.CouponWon.Code
		res.DiscountText = usage.CouponWon.DisplayLabel()
	}
	return res, nil
}

// eligibleCoupons returns wheel coupons inside their validity window whose
// daily draw cap is not yet exhausted. The daily counter is lazily reset
// through ResetIfStale before the comparison.
func (s *WheelService) eligibleCoupons(tx *gorm.DB, now time.Time) ([]models.Coupon, error) {
	var coupons []models.Coupon
	if err := tx.
		Where("is_wheel_coupon = ? AND active = ? AND valid_from <= ? AND valid_until >= ?",
			true, true, now, now).
		Find(&coupons).Error; err != nil {
		return nil, err
	}

	eligible := coupons[:0]
	for _, c := range coupons {
		c = ResetIfStale(c, now)
		if c.TodayUsageCount < c.DailyGlobalLimit {
			eligible = append(eligible, c)
		}
	}
	return eligible, nil
}

// pickWeighted selects an index using each coupon's win probability as
// weight. When every weight is zero the draw degrades to uniform.
func pickWeighted(coupons []models.Coupon, rng *rand.Rand) int {
	total := 0
	for _, c := range coupons {
		if c.WinProbability > 0 {
			total += c.WinProbability
		}
	}
	if total <= 0 {
		return rng.Intn(len(coupons))
	}

	n := rng.Intn(total)
	for i, c := range coupons {
		if c.WinProbability <= 0 {
			continue
		}
		n -= c.WinProbability
		if n < 0 {
			return i
		}
	}
	return len(coupons) - 1
}
