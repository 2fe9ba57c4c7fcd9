package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/lib/pq"
	"gorm.io/gorm"

	"github.com/example/nandani/internal/middleware"
	"github.com/example/nandani/internal/models"
	"github.com/example/nandani/internal/services"
	"github.com/example/nandani/internal/utils"
)

// ReviewHandler manages product reviews.
type ReviewHandler struct {
	db *gorm.DB
}

// NewReviewHandler constructs ReviewHandler.
func NewReviewHandler(db *gorm.DB) *ReviewHandler {
	return &ReviewHandler{db: db}
}

// ListReviews returns all reviews for a product, newest first, with helpful
// counts attached.
func (h *ReviewHandler) ListReviews(c *fiber.Ctx) error {
	productID, err := c.ParamsInt("product_id")
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid product id")
	}

	pg := utils.ParsePagination(c)

	var reviews []models.Review
	if err := h.db.Where("product_id = ?", productID).
		Order("created_at desc").
		Limit(pg.Limit).Offset(pg.Offset).
		Find(&reviews).Error; err != nil {
		return err
	}

	if len(reviews) > 0 {
		ids := make([]uint, 0, len(reviews))
		for _, r := range reviews {
			ids = append(ids, r.ID)
		}

		type likeCount struct {
			ReviewID uint
			Count    int
		}
		var counts []likeCount
		if err := h.db.Model(&models.ReviewLike{}).
			Select("review_id, count(*) as count").
			Where("review_id IN ?", ids).
			Group("review_id").
			Scan(&counts).Error; err != nil {
			return err
		}

		byReview := make(map[uint]int, len(counts))
		for _, lc := range counts {
			byReview[lc.ReviewID] = lc.Count
		}
		for i := range reviews {
			reviews[i].HelpfulCount = byReview[reviews[i].ID]
		}
	}

	return c.JSON(fiber.Map{"success": true, "data": reviews})
}

type createReviewRequest struct {
	Rating  int      `json:"rating"`
	Comment string   `json:"comment"`
	Images  []string `json:"images"`
}

// CreateReview submits or updates the caller's review of a product. A buyer
// is "verified" when one of their orders contains the product; unverified
// reviewers get their rating clamped.
func (h *ReviewHandler) CreateReview(c *fiber.Ctx) error {
	userID, ok := middleware.GetCurrentUserID(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	productID, err := c.ParamsInt("product_id")
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid product id")
	}

	var req createReviewRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	var product models.Product
	if err := h.db.First(&product, "id = ?", productID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "product not found")
		}
		return err
	}

	verified, err := h.hasPurchased(uint(productID), userID)
	if err != nil {
		return err
	}

	rating := services.ClampRating(req.Rating, verified)

	if len(req.Images) > 3 {
		req.Images = req.Images[:3]
	}

	var review models.Review
	err = h.db.First(&review, "product_id = ? AND user_id = ?", productID, userID).Error
	switch {
	case err == nil:
		review.Rating = rating
		review.Comment = req.Comment
		review.IsVerifiedBuyer = verified
		if len(req.Images) > 0 {
			review.Images = pq.StringArray(req.Images)
		}
		if err := h.db.Save(&review).Error; err != nil {
			return err
		}
		return c.JSON(fiber.Map{
			"success":         true,
			"message":         "review updated successfully",
			"is_verified":     verified,
			"recorded_rating": rating,
		})

	case errors.Is(err, gorm.ErrRecordNotFound):
		review = models.Review{
			ProductID:       uint(productID),
			UserID:          userID,
			Rating:          rating,
			Comment:         req.Comment,
			IsVerifiedBuyer: verified,
			Images:          pq.StringArray(req.Images),
		}
		if err := h.db.Create(&review).Error; err != nil {
			return err
		}
		return c.JSON(fiber.Map{
			"success":         true,
			"message":         "review submitted successfully",
			"is_verified":     verified,
			"recorded_rating": rating,
		})

	default:
		return err
	}
}

// ToggleLike marks a review helpful, or retracts the mark on a second call.
func (h *ReviewHandler) ToggleLike(c *fiber.Ctx) error {
	userID, ok := middleware.GetCurrentUserID(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	reviewID, err := c.ParamsInt("review_id")
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid review id")
	}

	var review models.Review
	if err := h.db.First(&review, "id = ?", reviewID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "review not found")
		}
		return err
	}

	var like models.ReviewLike
	err = h.db.First(&like, "review_id = ? AND user_id = ?", reviewID, userID).Error
	switch {
	case err == nil:
		if err := h.db.Delete(&like).Error; err != nil {
			return err
		}
		return c.JSON(fiber.Map{"success": true, "liked": false})

	case errors.Is(err, gorm.ErrRecordNotFound):
		like = models.ReviewLike{ReviewID: uint(reviewID), UserID: userID}
		if err := h.db.Create(&like).Error; err != nil {
			return err
		}
		return c.JSON(fiber.Map{"success": true, "liked": true})

	default:
		return err
	}
}

// hasPurchased reports whether any of the user's orders contains a unit of
// the product.
func (h *ReviewHandler) hasPurchased(productID, userID uint) (bool, error) {
	var count int64
	err := h.db.Model(&models.OrderItem{}).
		Joins("JOIN orders ON orders.id = order_items.order_id").
		Joins("JOIN size_variants ON size_variants.id = order_items.size_variant_id").
		Joins("JOIN product_variants ON product_variants.id = size_variants.variant_id").
		Where("orders.user_id = ? AND product_variants.product_id = ?", userID, productID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
