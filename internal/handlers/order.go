package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/example/nandani/internal/middleware"
	"github.com/example/nandani/internal/models"
	"github.com/example/nandani/internal/services"
)

// OrderHandler manages order endpoints.
type OrderHandler struct {
	db  *gorm.DB
	svc *services.OrderService
}

// NewOrderHandler constructs OrderHandler.
func NewOrderHandler(db *gorm.DB, svc *services.OrderService) *OrderHandler {
	return &OrderHandler{db: db, svc: svc}
}

// CreateOrder places an order for a guest or a logged-in user. Any failure
// inside the transaction rolls back every effect and returns a structured
// failure with no partial order id.
func (h *OrderHandler) CreateOrder(c *fiber.Ctx) error {
	var input services.CreateOrderInput
	if err := c.BodyParser(&input); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	order, err := h.svc.CreateOrder(input)
	if err != nil {
		var nf *services.NotFoundError
		if errors.As(err, &nf) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"success": false,
				"message": nf.Message,
			})
		}
		var ve *services.ValidationError
		if errors.As(err, &ve) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"success": false,
				"message": ve.Message,
			})
		}
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": err.Error(),
		})
	}

	return c.JSON(fiber.Map{
		"success":    true,
		"order_id":   order.ID,
		"invoice_no": order.InvoiceNo,
		"message":    "Order placed successfully",
	})
}

// MyOrders returns orders for the authenticated user, including guest
// orders placed earlier with the same phone number.
func (h *OrderHandler) MyOrders(c *fiber.Ctx) error {
	userID, ok := middleware.GetCurrentUserID(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	var user models.User
	if err := h.db.First(&user, "id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
		}
		return err
	}

	orders, err := h.svc.MyOrders(&user)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{"success": true, "data": orders})
}

type updateStatusRequest struct {
	Status string `json:"status"`
}

// UpdateStatus moves an order through its lifecycle. Transitions into
// "returned" restore stock through the order service.
func (h *OrderHandler) UpdateStatus(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	var req updateStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	order, err := h.svc.UpdateStatus(uint(id), req.Status)
	if err != nil {
		var nf *services.NotFoundError
		if errors.As(err, &nf) {
			return fiber.NewError(fiber.StatusNotFound, nf.Message)
		}
		var ve *services.ValidationError
		if errors.As(err, &ve) {
			return fiber.NewError(fiber.StatusBadRequest, ve.Message)
		}
		return err
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data": fiber.Map{
			"id":     order.ID,
			"status": order.Status,
		},
	})
}
