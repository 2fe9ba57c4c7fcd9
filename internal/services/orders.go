package services

import (
	"errors"
	"fmt"
	"log"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/example/nandani/internal/config"
	"github.com/example/nandani/internal/models"
	"github.com/example/nandani/internal/utils"
)

// OrderService coordinates the checkout transaction: inventory resolution,
// stock decrement, coupon application, invoice numbering and profile
// back-fill, all inside a single database transaction.
type OrderService struct {
	db  *gorm.DB
	cfg *config.Config
}

// NewOrderService constructs OrderService.
func NewOrderService(db *gorm.DB, cfg *config.Config) *OrderService {
	return &OrderService{db: db, cfg: cfg}
}

// CreateOrderInput is the full checkout form.
type CreateOrderInput struct {
	FullName        string     `json:"full_name"`
	PhoneNumber     string     `json:"phone_number"`
	Email           string     `json:"email"`
	Address         string     `json:"address"`
	Pincode         string     `json:"pincode"`
	PaymentMethod   string     `json:"payment_method"`
	TotalAmount     float64    `json:"total_amount"`
	ShippingCharges float64    `json:"shipping_charges"`
	CouponCode      string     `json:"coupon_code"`
	Items           []LineItem `json:"items"`
}

// CreateOrder places an order as one atomic unit of work. Either every
// effect (order row, item snapshots, stock decrements, coupon usage
// increment, invoice number, profile back-fill) is durably applied, or the
// database is left exactly as it was.
func (s *OrderService) CreateOrder(input CreateOrderInput) (*models.Order, error) {
	if len(input.Items) == 0 {
		return nil, &ValidationError{Message: "order must contain at least one item"}
	}

	phone := utils.CanonicalPhone(input.PhoneNumber)
	now := time.Now()

	var order models.Order
	err := s.db.Transaction(func(tx *gorm.DB) error {
		// Guest checkout: link the order to an existing account when the
		// phone matches, but never create an account here.
		var user *models.User
		if phone != "" {
			var u models.User
			if err := tx.First(&u, "phone = ?", phone).Error; err == nil {
				user = &u
			} else if !errors.Is(err, gorm.ErrRecordNotFound) {
				return err
			}
		}

		// A missing or invalid promo code is not a checkout failure; the
		// order simply carries no discount.
		var discount float64
		var couponID *uint
		if input.CouponCode != "" {
			coupon, amount, err := s.applyCoupon(tx, input.CouponCode, input.TotalAmount, phone, now)
			if err != nil {
				return err
			}
			if coupon != nil {
				discount = amount
				couponID = &coupon.ID
			}
		}

		order = models.Order{
			UserID:          userID(user),
			FullName:        input.FullName,
			PhoneNumber:     phone,
			Email:           input.Email,
			Address:         input.Address,
			Pincode:         input.Pincode,
			TotalAmount:     input.TotalAmount,
			DiscountAmount:  discount,
			ShippingCharges: input.ShippingCharges,
			PaymentMethod:   input.PaymentMethod,
			Status:          models.OrderStatusPending,
			CouponID:        couponID,
		}
		if err := tx.Create(&order).Error; err != nil {
			return err
		}

		// The invoice number needs the generated numeric id, so it is a
		// second write to the same row within the transaction.
		order.InvoiceNo = FormatInvoiceNumber(s.cfg.InvoicePrefix, now.Year(), order.ID)
		if err := tx.Model(&models.Order{}).Where("id = ?", order.ID).
			Update("invoice_no", order.InvoiceNo).Error; err != nil {
			return err
		}

		for _, item := range input.Items {
			if err := s.addLine(tx, &order, item); err != nil {
				return err
			}
		}

		if user != nil {
			if err := backfillProfile(tx, user, input); err != nil {
				return err
			}
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return &order, nil
}

// addLine resolves one cart line to an inventory unit, snapshots it and
// decrements stock with oversell protection.
func (s *OrderService) addLine(tx *gorm.DB, order *models.Order, item LineItem) error {
	if item.Quantity <= 0 {
		return &ValidationError{Message: "item quantity must be positive"}
	}

	sv, err := resolveSizeVariant(tx, item)
	if err != nil {
		return err
	}

	productName := ""
	basePrice := 0.0
	if sv.Variant != nil && sv.Variant.Product != nil {
		productName = sv.Variant.Product.Name
		basePrice = sv.Variant.Product.BasePrice
	}

	// Keep the client-quoted price so coupon-adjusted prices survive in the
	// snapshot; fall back to the catalog price when the quote is unusable.
	price := item.Price
	if price <= 0 {
		price = basePrice
	}

	color := item.Color
	if color == "" && sv.Variant != nil {
		color = sv.Variant.ColorName
	}

	line := models.OrderItem{
		OrderID:       order.ID,
		SizeVariantID: &sv.ID,
		ProductName:   productName,
		Price:         price,
		Quantity:      item.Quantity,
		Size:          item.Size,
		Color:         color,
	}
	if err := tx.Create(&line).Error; err != nil {
		return err
	}
	order.Items = append(order.Items, line)

	// Conditional decrement: the WHERE clause makes the stock check and the
	// write one atomic statement, so two concurrent checkouts cannot both
	// take the last unit.
	res := tx.Model(&models.SizeVariant{}).
		Where("id = ? AND stock >= ?", sv.ID, item.Quantity).
		UpdateColumn("stock", gorm.Expr("stock - ?", item.Quantity))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return &ValidationError{Message: fmt.Sprintf("stock exhausted: %s (%s)", productName, sv.Size)}
	}

	// One-size goods keep the variant master stock in lockstep.
	if sv.IsOneSize() {
		if err := tx.Model(&models.ProductVariant{}).
			Where("id = ?", sv.VariantID).
			UpdateColumn("stock", gorm.Expr("stock - ?", item.Quantity)).Error; err != nil {
			return err
		}
	}

	return nil
}

// applyCoupon re-validates the code server-side and, when it holds, bumps
// the usage counter inside the surrounding transaction. An unknown or
// invalid code returns (nil, 0, nil): checkout must not fail merely because
// a promo expired.
func (s *OrderService) applyCoupon(tx *gorm.DB, code string, orderTotal float64, phone string, now time.Time) (*models.Coupon, float64, error) {
	var coupon models.Coupon
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("UPPER(code) = UPPER(?)", code).
		First(&coupon).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, 0, nil
		}
		return nil, 0, err
	}

	valid, reason, discount := EvaluateCoupon(coupon, orderTotal, now)
	if !valid {
		log.Printf("[Order] coupon %s rejected at checkout: %s", coupon.Code, reason)
		return nil, 0, nil
	}

	if s.cfg.EnforceCouponUserCap && phone != "" {
		used, err := CouponUsesByPhone(tx, coupon.ID, phone)
		if err != nil {
			return nil, 0, err
		}
		if UserCapReached(coupon.LimitPerUser, used) {
			log.Printf("[Order] coupon %s rejected at checkout: per-user limit reached", coupon.Code)
			return nil, 0, nil
		}
	}

	if err := tx.Model(&models.Coupon{}).Where("id = ?", coupon.ID).
		UpdateColumn("times_used", gorm.Expr("times_used + 1")).Error; err != nil {
		return nil, 0, err
	}

	return &coupon, discount, nil
}

// backfillProfile copies checkout form data into currently-empty profile
// fields. Populated fields are never overwritten here.
func backfillProfile(tx *gorm.DB, user *models.User, input CreateOrderInput) error {
	updates := map[string]interface{}{}
	if user.FirstName == "" && input.FullName != "" {
		updates["first_name"] = input.FullName
	}
	if user.Address == "" && input.Address != "" {
		updates["address"] = input.Address
	}
	if user.Pincode == "" && input.Pincode != "" {
		updates["pincode"] = input.Pincode
	}
	if user.Email == nil && input.Email != "" {
		updates["email"] = input.Email
	}
	if len(updates) == 0 {
		return nil
	}

	return tx.Model(&models.User{}).Where("id = ?", user.ID).Updates(updates).Error
}

// MyOrders returns all orders belonging to a user, matched either by the
// account link or by the user's canonical phone number (guest orders placed
// before registering).
func (s *OrderService) MyOrders(user *models.User) ([]models.Order, error) {
	query := s.db.Model(&models.Order{})
	if user.Phone != nil && *user.Phone != "" {
		query = query.Where("user_id = ? OR phone_number = ?", user.ID, utils.CanonicalPhone(*user.Phone))
	} else {
		query = query.Where("user_id = ?", user.ID)
	}

	var orders []models.Order
	if err := query.Preload("Items").Preload("Coupon").
		Order("created_at desc").
		Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

// restocksOn reports whether a status change must credit stock back. The
// rule is strictly transition-based: only the first move into "returned"
// restocks, re-saving an already returned order does nothing.
func restocksOn(prev, next string) bool {
	return next == models.OrderStatusReturned && prev != models.OrderStatusReturned
}

// UpdateStatus moves an order through its lifecycle. Transitioning into
// "returned" credits every line's quantity back to its inventory unit, and
// to the variant master stock for one-size goods, exactly once.
func (s *OrderService) UpdateStatus(orderID uint, next string) (*models.Order, error) {
	if !models.ValidOrderStatus(next) {
		return nil, &ValidationError{Message: fmt.Sprintf("unknown order status: %s", next)}
	}

	var order models.Order
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Preload("Items").
			First(&order, "id = ?", orderID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return &NotFoundError{Message: "order not found"}
			}
			return err
		}

		if restocksOn(order.Status, next) {
			if err := restockItems(tx, order.Items); err != nil {
				return err
			}
		}

		order.Status = next
		return tx.Model(&models.Order{}).Where("id = ?", order.ID).
			Update("status", next).Error
	})
	if err != nil {
		return nil, err
	}

	return &order, nil
}

func restockItems(tx *gorm.DB, items []models.OrderItem) error {
	for _, item := range items {
		if item.SizeVariantID == nil {
			continue
		}

		var sv models.SizeVariant
		if err := tx.First(&sv, "id = ?", *item.SizeVariantID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				// Unit deleted from the catalog since purchase.
				continue
			}
			return err
		}

		if err := tx.Model(&models.SizeVariant{}).Where("id = ?", sv.ID).
			UpdateColumn("stock", gorm.Expr("stock + ?", item.Quantity)).Error; err != nil {
			return err
		}

		if sv.IsOneSize() {
			if err := tx.Model(&models.ProductVariant{}).Where("id = ?", sv.VariantID).
				UpdateColumn("stock", gorm.Expr("stock + ?", item.Quantity)).Error; err != nil {
				return err
			}
		}
	}
	return nil
}

func userID(user *models.User) *uint {
	if user == nil {
		return nil
	}
	return &user.ID
}
