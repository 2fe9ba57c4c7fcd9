package models

// Order lifecycle statuses.
const (
	OrderStatusPending         = "pending"
	OrderStatusConfirmed       = "confirmed"
	OrderStatusShipped         = "shipped"
	OrderStatusDelivered       = "delivered"
	OrderStatusReturnRequested = "return_requested"
	OrderStatusReturned        = "returned"
	OrderStatusCancelled       = "cancelled"
)

// Payment methods accepted at checkout.
const (
	PaymentMethodUPI  = "upi"
	PaymentMethodCard = "card"
	PaymentMethodCOD  = "cod"
)

// ValidOrderStatus reports whether s is a known lifecycle status.
func ValidOrderStatus(s string) bool {
	switch s {
	case OrderStatusPending, OrderStatusConfirmed, OrderStatusShipped,
		OrderStatusDelivered, OrderStatusReturnRequested,
		OrderStatusReturned, OrderStatusCancelled:
		return true
	}
	return false
}

// Order captures a snapshot of the checkout form. UserID is nullable so
// guests can order; it is matched by canonical phone when possible.
type Order struct {
	BaseModel
	UserID          *uint       `gorm:"index" json:"user_id"`
	User            *User       `json:"user,omitempty"`
	FullName        string      `json:"full_name"`
	PhoneNumber     string      `gorm:"index" json:"phone_number"`
	Email           string      `json:"email"`
	Address         string      `json:"address"`
	Pincode         string      `json:"pincode"`
	TotalAmount     float64     `json:"total_amount"`
	DiscountAmount  float64     `gorm:"default:0" json:"discount_amount"`
	ShippingCharges float64     `gorm:"default:0" json:"shipping_charges"`
	PaymentMethod   string      `gorm:"default:upi" json:"payment_method"`
	Status          string      `gorm:"default:pending" json:"status"`
	CouponID        *uint       `gorm:"index" json:"coupon_id"`
	Coupon          *Coupon     `json:"coupon,omitempty"`
	InvoiceNo       string      `gorm:"index" json:"invoice_no"`
	Items           []OrderItem `json:"items,omitempty"`
}

// OrderItem is an immutable snapshot of one purchased unit. SizeVariantID is
// nullable so historical orders survive catalog deletions.
type OrderItem struct {
	BaseModel
	OrderID       uint         `gorm:"index" json:"order_id"`
	SizeVariantID *uint        `json:"size_variant_id"`
	SizeVariant   *SizeVariant `json:"size_variant,omitempty"`
	ProductName   string       `json:"product_name"`
	Price         float64      `json:"price"`
	Quantity      int          `gorm:"default:1" json:"quantity"`
	Size          string       `json:"size"`
	Color         string       `json:"color"`
}
