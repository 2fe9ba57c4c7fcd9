package models

import "time"

// Auth providers a user account may originate from.
const (
	AuthProviderPhone    = "phone"
	AuthProviderGoogle   = "google"
	AuthProviderFirebase = "firebase"
)

// User represents a customer account. Guest checkouts are matched to users
// by canonical phone number, so Phone is stored in canonical +91 form.
type User struct {
	BaseModel
	FirstName    string  `json:"first_name"`
	LastName     string  `json:"last_name"`
	Email        *string `gorm:"uniqueIndex" json:"email"`
	Phone        *string `gorm:"uniqueIndex" json:"phone"`
	AuthProvider string  `gorm:"default:phone" json:"auth_provider"`
	ProfilePic   string  `json:"profile_pic"`
	IsVerified   bool    `json:"is_verified"`
	Address      string  `json:"address"`
	Pincode      string  `json:"pincode"`
	Orders       []Order `json:"orders,omitempty"`
}

// OTPVerification keeps track of OTP codes sent to phone numbers.
// The code itself is stored as a bcrypt hash.
type OTPVerification struct {
	BaseModel
	Phone     string    `gorm:"index" json:"phone"`
	CodeHash  string    `json:"-"`
	ExpiresAt time.Time `json:"expires_at"`
	IsUsed    bool      `json:"is_used"`
}
