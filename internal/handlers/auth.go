package handlers

import (
	"errors"
	"log"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/example/nandani/internal/config"
	"github.com/example/nandani/internal/middleware"
	"github.com/example/nandani/internal/models"
	"github.com/example/nandani/internal/services"
	"github.com/example/nandani/internal/utils"
)

// AuthHandler bundles dependencies for authentication and profile endpoints.
type AuthHandler struct {
	db       *gorm.DB
	cfg      *config.Config
	sms      *services.SMSService
	firebase *services.FirebaseService
}

// NewAuthHandler constructs an AuthHandler.
func NewAuthHandler(db *gorm.DB, cfg *config.Config, sms *services.SMSService, firebase *services.FirebaseService) *AuthHandler {
	return &AuthHandler{db: db, cfg: cfg, sms: sms, firebase: firebase}
}

type sendOTPRequest struct {
	PhoneNumber string `json:"phone_number"`
}

// SendOTP issues a one-time code for phone login. Delivery runs outside the
// request: an SMS outage is logged, never surfaced, because blocking login
// on a third-party outage is worse than letting the user proceed via logs.
func (h *AuthHandler) SendOTP(c *fiber.Ctx) error {
	var req sendOTPRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	phone := utils.CanonicalPhone(req.PhoneNumber)
	if phone == "" {
		return fiber.NewError(fiber.StatusBadRequest, "phone_number is required")
	}

	code, err := utils.GenerateOTP()
	if err != nil {
		return err
	}

	hash, err := utils.HashOTP(code)
	if err != nil {
		return err
	}

	verification := models.OTPVerification{
		Phone:     phone,
		CodeHash:  hash,
		ExpiresAt: time.Now().Add(10 * time.Minute),
	}
	if err := h.db.Create(&verification).Error; err != nil {
		return err
	}

	log.Printf("[Auth] OTP for %s: %s", phone, code)

	go func() {
		if err := h.sms.SendOTP(phone, code); err != nil {
			log.Printf("[Auth] OTP delivery failed for %s: %v", phone, err)
		}
	}()

	return c.JSON(fiber.Map{"success": true, "message": "OTP sent successfully"})
}

type verifyOTPRequest struct {
	PhoneNumber string `json:"phone_number"`
	OTPCode     string `json:"otp_code"`
}

// VerifyOTP validates the code and logs the user in, creating the account
// on first login.
func (h *AuthHandler) VerifyOTP(c *fiber.Ctx) error {
	var req verifyOTPRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	phone := utils.CanonicalPhone(req.PhoneNumber)

	var record models.OTPVerification
	err := h.db.Where("phone = ? AND is_used = ?", phone, false).
		Order("created_at desc").
		First(&record).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusBadRequest, "OTP expired or invalid, resend OTP")
		}
		return err
	}

	if record.ExpiresAt.Before(time.Now()) {
		return fiber.NewError(fiber.StatusBadRequest, "OTP expired or invalid, resend OTP")
	}

	if !utils.CheckOTP(record.CodeHash, req.OTPCode) {
		return fiber.NewError(fiber.StatusBadRequest, "invalid OTP code")
	}

	if err := h.db.Model(&models.OTPVerification{}).Where("id = ?", record.ID).
		Update("is_used", true).Error; err != nil {
		return err
	}

	user, err := h.findOrCreateByPhone(phone, models.AuthProviderPhone)
	if err != nil {
		return err
	}

	h.syncGuestOrders(user)

	return h.tokenResponse(c, user)
}

type googleLoginRequest struct {
	Email      string `json:"email"`
	FullName   string `json:"full_name"`
	ProfilePic string `json:"profile_pic"`
}

// GoogleLogin signs a user in with a Google account, creating it on first use.
func (h *AuthHandler) GoogleLogin(c *fiber.Ctx) error {
	var req googleLoginRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if req.Email == "" {
		return fiber.NewError(fiber.StatusBadRequest, "email is required")
	}

	var user models.User
	err := h.db.First(&user, "email = ?", req.Email).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		user = models.User{
			Email:        &req.Email,
			FirstName:    req.FullName,
			ProfilePic:   req.ProfilePic,
			AuthProvider: models.AuthProviderGoogle,
			IsVerified:   true,
		}
		err = h.db.Create(&user).Error
	}
	if err != nil {
		return err
	}

	return h.tokenResponse(c, &user)
}

type firebaseLoginRequest struct {
	IDToken string `json:"id_token"`
}

// FirebaseLogin verifies a Firebase phone ID token and logs the user in.
func (h *AuthHandler) FirebaseLogin(c *fiber.Ctx) error {
	var req firebaseLoginRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	phone, err := h.firebase.VerifyIDToken(req.IDToken)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid or expired OTP token")
	}

	user, err := h.findOrCreateByPhone(utils.CanonicalPhone(phone), models.AuthProviderFirebase)
	if err != nil {
		return err
	}

	h.syncGuestOrders(user)

	return h.tokenResponse(c, user)
}

// Me returns the authenticated user's profile.
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	user, err := h.currentUser(c)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"full_name": displayName(user),
		"phone":     phoneOrEmpty(user),
		"address":   user.Address,
		"pincode":   user.Pincode,
		"email":     emailOrEmpty(user),
	})
}

type updateProfileRequest struct {
	FullName string `json:"full_name"`
	Address  string `json:"address"`
	Pincode  string `json:"pincode"`
	Email    string `json:"email"`
}

// UpdateProfile overwrites profile fields from an explicit update call.
// Unlike checkout back-fill, populated fields may be replaced here.
func (h *AuthHandler) UpdateProfile(c *fiber.Ctx) error {
	user, err := h.currentUser(c)
	if err != nil {
		return err
	}

	var req updateProfileRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	updates := map[string]interface{}{
		"address": req.Address,
		"pincode": req.Pincode,
	}
	if req.FullName != "" {
		updates["first_name"] = req.FullName
	}
	if req.Email != "" {
		var taken int64
		if err := h.db.Model(&models.User{}).
			Where("email = ? AND id <> ?", req.Email, user.ID).
			Count(&taken).Error; err != nil {
			return err
		}
		if taken > 0 {
			return fiber.NewError(fiber.StatusBadRequest, "email already in use by another account")
		}
		updates["email"] = req.Email
	}

	if err := h.db.Model(&models.User{}).Where("id = ?", user.ID).
		Updates(updates).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{"success": true, "message": "profile updated successfully"})
}

func (h *AuthHandler) currentUser(c *fiber.Ctx) (*models.User, error) {
	userID, ok := middleware.GetCurrentUserID(c)
	if !ok {
		return nil, fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	var user models.User
	if err := h.db.First(&user, "id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
		}
		return nil, err
	}
	return &user, nil
}

func (h *AuthHandler) findOrCreateByPhone(phone, provider string) (*models.User, error) {
	var user models.User
	err := h.db.First(&user, "phone = ?", phone).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		user = models.User{
			Phone:        &phone,
			AuthProvider: provider,
			IsVerified:   true,
		}
		err = h.db.Create(&user).Error
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// syncGuestOrders pulls checkout details from past guest orders placed with
// the user's phone number into currently-empty profile fields, and links
// those orders to the account. Best effort: a failure here never blocks login.
func (h *AuthHandler) syncGuestOrders(user *models.User) {
	if user.Phone == nil || *user.Phone == "" {
		return
	}
	phone := utils.CanonicalPhone(*user.Phone)

	var latest models.Order
	err := h.db.Where("phone_number = ?", phone).
		Order("created_at desc").
		First(&latest).Error
	if err == nil {
		updates := map[string]interface{}{}
		if user.FirstName == "" && latest.FullName != "" {
			updates["first_name"] = latest.FullName
		}
		if user.Address == "" && latest.Address != "" {
			updates["address"] = latest.Address
		}
		if user.Pincode == "" && latest.Pincode != "" {
			updates["pincode"] = latest.Pincode
		}
		if user.Email == nil && latest.Email != "" {
			updates["email"] = latest.Email
		}
		if len(updates) > 0 {
			if err := h.db.Model(&models.User{}).Where("id = ?", user.ID).
				Updates(updates).Error; err != nil {
				log.Printf("[Auth] guest order sync failed for user %d: %v", user.ID, err)
			}
		}
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		log.Printf("[Auth] guest order lookup failed for user %d: %v", user.ID, err)
		return
	}

	res := h.db.Model(&models.Order{}).
		Where("phone_number = ? AND user_id IS NULL", phone).
		Update("user_id", user.ID)
	if res.Error != nil {
		log.Printf("[Auth] guest order linking failed for user %d: %v", user.ID, res.Error)
	} else if res.RowsAffected > 0 {
		log.Printf("[Auth] linked %d past guest orders to user %d", res.RowsAffected, user.ID)
	}
}

func (h *AuthHandler) tokenResponse(c *fiber.Ctx, user *models.User) error {
	token, err := utils.GenerateToken(h.cfg.JWTSecret, user.ID, h.cfg.TokenExpires)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "failed to generate token")
	}

	return c.JSON(fiber.Map{
		"success":      true,
		"access_token": token,
		"user": fiber.Map{
			"id":        user.ID,
			"full_name": displayName(user),
			"phone":     phoneOrEmpty(user),
			"address":   user.Address,
			"pincode":   user.Pincode,
			"email":     emailOrEmpty(user),
		},
	})
}

func displayName(user *models.User) string {
	name := strings.TrimSpace(user.FirstName + " " + user.LastName)
	if name != "" {
		return name
	}
	return phoneOrEmpty(user)
}

func phoneOrEmpty(user *models.User) string {
	if user.Phone != nil {
		return *user.Phone
	}
	return ""
}

func emailOrEmpty(user *models.User) string {
	if user.Email != nil {
		return *user.Email
	}
	return ""
}
