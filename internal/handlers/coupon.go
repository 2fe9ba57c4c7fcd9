package handlers

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/example/nandani/internal/config"
	"github.com/example/nandani/internal/models"
	"github.com/example/nandani/internal/services"
	"github.com/example/nandani/internal/utils"
)

// CouponHandler serves the coupon preview and the spin wheel.
type CouponHandler struct {
	db    *gorm.DB
	cfg   *config.Config
	wheel *services.WheelService
}

// NewCouponHandler constructs CouponHandler.
func NewCouponHandler(db *gorm.DB, cfg *config.Config, wheel *services.WheelService) *CouponHandler {
	return &CouponHandler{db: db, cfg: cfg, wheel: wheel}
}

type validateCouponRequest struct {
	Code        string  `json:"code"`
	CartTotal   float64 `json:"cart_total"`
	PhoneNumber string  `json:"phone_number"`
}

// ValidateCoupon is the non-authoritative checkout preview. The same
// evaluation runs again inside the order transaction, and that result is
// what is billed. Rejections come back success-shaped, never as errors.
func (h *CouponHandler) ValidateCoupon(c *fiber.Ctx) error {
	var req validateCouponRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	var coupon models.Coupon
	err := h.db.Where("UPPER(code) = UPPER(?)", req.Code).First(&coupon).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.JSON(fiber.Map{"success": false, "message": "invalid coupon code"})
		}
		return err
	}

	valid, reason, discount := services.EvaluateCoupon(coupon, req.CartTotal, time.Now())
	if !valid {
		return c.JSON(fiber.Map{"success": false, "message": reason})
	}

	// Checkout re-runs the per-user cap inside its transaction; running the
	// same count here keeps the preview from promising a discount checkout
	// will zero out.
	if h.cfg.EnforceCouponUserCap {
		if phone := utils.CanonicalPhone(req.PhoneNumber); phone != "" {
			used, err := services.CouponUsesByPhone(h.db, coupon.ID, phone)
			if err != nil {
				return err
			}
			if services.UserCapReached(coupon.LimitPerUser, used) {
				return c.JSON(fiber.Map{"success": false, "message": "per-user limit reached for this coupon"})
			}
		}
	}

	finalTotal := req.CartTotal - discount
	if finalTotal < 0 {
		finalTotal = 0
	}

	return c.JSON(fiber.Map{
		"success":         true,
		"message":         "coupon applied successfully",
		"discount_amount": discount,
		"final_total":     finalTotal,
		"coupon_code":     coupon.Code,
	})
}

// WheelItems lists the slices shown on the spin wheel.
func (h *CouponHandler) WheelItems(c *fiber.Ctx) error {
	items, err := h.wheel.Items(time.Now())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true, "data": items})
}

type spinRequest struct {
	OrderID string `json:"order_id"`
}

// SpinResult draws the wheel for an order. Repeated requests for the same
// order return the recorded outcome with already_spun set.
func (h *CouponHandler) SpinResult(c *fiber.Ctx) error {
	var req spinRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	result, err := h.wheel.Spin(req.OrderID, time.Now())
	if err != nil {
		var ve *services.ValidationError
		if errors.As(err, &ve) {
			return fiber.NewError(fiber.StatusBadRequest, ve.Message)
		}
		return err
	}

	return c.JSON(result)
}
