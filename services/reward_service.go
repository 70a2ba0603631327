package services

import (
	"errors"
	"fmt"
	"log"
	"path/filepath"
	"time"

	"loyalty-service/models"
	"loyalty-service/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"gorm.io/gorm"
)

type RewardService struct {
	DB *gorm.DB
}

func NewRewardService(db *gorm.DB) *RewardService {
	return &RewardService{DB: db}
}

// --- Admin Handlers ---

// CreateReward creates a new catalog entry (Admin only)
func (s *RewardService) CreateReward(c *fiber.Ctx) error {
	var req struct {
		Name            string            `json:"name" validate:"required"`
		Type            models.RewardType `json:"type" validate:"required,oneof=DISCOUNT FREE_PRODUCT"`
		Description     string            `json:"description"`
		PointsCost      int64             `json:"points_cost" validate:"required,min=1"`
		MinTier         models.Tier       `json:"min_tier"`
		DiscountPercent *float64          `json:"discount_percent"`
		ProductID       *string           `json:"product_id"`
		ValidFrom       *time.Time        `json:"valid_from"`
		ValidUntil      *time.Time        `json:"valid_until"`
		UsageLimit      *int64            `json:"usage_limit"`
		IsActive        *bool             `json:"is_active"`
	}

	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	if req.Name == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Name is required"})
	}
	if req.PointsCost <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Points cost must be a positive integer"})
	}

	// Type-specific validation
	switch req.Type {
	case models.RewardTypeDiscount:
		if req.DiscountPercent == nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Discount percent is required for DISCOUNT rewards"})
		}
		if *req.DiscountPercent <= 0 || *req.DiscountPercent > 100 {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Discount percent must be between 0 and 100"})
		}
	case models.RewardTypeFreeProduct:
		if req.ProductID == nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Product ID is required for FREE_PRODUCT rewards"})
		}
		if _, err := uuid.Parse(*req.ProductID); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid product ID"})
		}
	default:
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid reward type"})
	}

	if req.ValidFrom != nil && req.ValidUntil != nil && req.ValidUntil.Before(*req.ValidFrom) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Valid-until must not precede valid-from"})
	}
	if req.UsageLimit != nil && *req.UsageLimit <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Usage limit must be a positive integer"})
	}

	minTier := req.MinTier
	if minTier == "" {
		minTier = models.TierBronze
	}
	if models.TierIndex(minTier) == 0 && minTier != models.TierBronze {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid minimum tier"})
	}

	isActive := true
	if req.IsActive != nil {
		isActive = *req.IsActive
	}

	reward := &models.Reward{
		ID:              uuid.NewString(),
		Name:            req.Name,
		Slug:            fmt.Sprintf("%s-%s", slug.Make(req.Name), uuid.NewString()[:8]),
		Type:            req.Type,
		Description:     req.Description,
		PointsCost:      req.PointsCost,
		MinTier:         minTier,
		DiscountPercent: req.DiscountPercent,
		ProductID:       req.ProductID,
		ValidFrom:       req.ValidFrom,
		ValidUntil:      req.ValidUntil,
		UsageLimit:      req.UsageLimit,
		TimesUsed:       0,
		IsActive:        isActive,
	}

	if err := s.DB.Create(reward).Error; err != nil {
		log.Printf("DB Error creating reward: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create reward"})
	}

	return c.Status(fiber.StatusCreated).JSON(reward)
}

// UpdateReward updates an existing reward (Admin only). TimesUsed is never
// writable from the outside — only redemptions move it.
func (s *RewardService) UpdateReward(c *fiber.Ctx) error {
	id := c.Params("id")
	if _, err := uuid.Parse(id); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid reward ID"})
	}

	var existing models.Reward
	if err := s.DB.First(&existing, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Reward not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "DB error"})
	}

	var req struct {
		Name            *string      `json:"name"`
		Description     *string      `json:"description"`
		PointsCost      *int64       `json:"points_cost"`
		MinTier         *models.Tier `json:"min_tier"`
		DiscountPercent *float64     `json:"discount_percent"`
		ProductID       *string      `json:"product_id"`
		ValidFrom       *time.Time   `json:"valid_from"`
		ValidUntil      *time.Time   `json:"valid_until"`
		UsageLimit      *int64       `json:"usage_limit"`
		IsActive        *bool        `json:"is_active"`
	}

	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	if req.Name != nil {
		existing.Name = *req.Name
	}
	if req.Description != nil {
		existing.Description = *req.Description
	}
	if req.PointsCost != nil {
		if *req.PointsCost <= 0 {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Points cost must be a positive integer"})
		}
		existing.PointsCost = *req.PointsCost
	}
	if req.MinTier != nil {
		existing.MinTier = *req.MinTier
	}
	if req.DiscountPercent != nil {
		if *req.DiscountPercent <= 0 || *req.DiscountPercent > 100 {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Discount percent must be between 0 and 100"})
		}
		existing.DiscountPercent = req.DiscountPercent
	}
	if req.ProductID != nil {
		if _, err := uuid.Parse(*req.ProductID); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid product ID"})
		}
		existing.ProductID = req.ProductID
	}
	if req.ValidFrom != nil {
		existing.ValidFrom = req.ValidFrom
	}
	if req.ValidUntil != nil {
		existing.ValidUntil = req.ValidUntil
	}
	if existing.ValidFrom != nil && existing.ValidUntil != nil && existing.ValidUntil.Before(*existing.ValidFrom) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Valid-until must not precede valid-from"})
	}
	if req.UsageLimit != nil {
		if *req.UsageLimit <= 0 {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Usage limit must be a positive integer"})
		}
		existing.UsageLimit = req.UsageLimit
	}
	if req.IsActive != nil {
		existing.IsActive = *req.IsActive
	}

	if err := s.DB.Save(&existing).Error; err != nil {
		log.Printf("DB Error updating reward: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update reward"})
	}

	return c.JSON(existing)
}

// DeactivateReward disables a reward without deleting it (Admin only).
// Existing claims keep their own expiry and are unaffected.
func (s *RewardService) DeactivateReward(c *fiber.Ctx) error {
	id := c.Params("id")
	if _, err := uuid.Parse(id); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid reward ID"})
	}

	var reward models.Reward
	if err := s.DB.First(&reward, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Reward not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "DB error"})
	}

	if !reward.IsActive {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "Reward is already inactive"})
	}

	reward.IsActive = false
	if err := s.DB.Save(&reward).Error; err != nil {
		log.Printf("DB Error deactivating reward: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to deactivate reward"})
	}

	return c.JSON(fiber.Map{"message": "Reward deactivated successfully", "reward": reward})
}

// GetAllRewards fetches all rewards including inactive ones (Admin only)
func (s *RewardService) GetAllRewards(c *fiber.Ctx) error {
	var rewards []models.Reward
	if err := s.DB.Order("created_at DESC").Find(&rewards).Error; err != nil {
		log.Printf("DB Error fetching all rewards: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch rewards"})
	}

	return c.JSON(rewards)
}

// UploadRewardImage stores catalog artwork for a reward (Admin only).
// Uploads go to R2 when configured, otherwise to the local uploads dir.
func (s *RewardService) UploadRewardImage(c *fiber.Ctx) error {
	id := c.Params("id")
	if _, err := uuid.Parse(id); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid reward ID"})
	}

	var reward models.Reward
	if err := s.DB.First(&reward, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Reward not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "DB error"})
	}

	fileHeader, err := c.FormFile("image")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Image file is required"})
	}

	ext := filepath.Ext(fileHeader.Filename)
	switch ext {
	case ".png", ".jpg", ".jpeg", ".webp":
	default:
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Unsupported image format"})
	}

	key := fmt.Sprintf("rewards/%s%s", reward.ID, ext)

	var imageURL string
	if utils.R2Enabled() {
		imageURL, err = utils.UploadToR2(fileHeader, key)
		if err != nil {
			log.Printf("R2 upload failed for reward %s: %v", reward.ID, err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to upload image"})
		}
	} else {
		destPath := utils.GetUploadPath(key)
		if err := utils.SaveFile(fileHeader, destPath); err != nil {
			log.Printf("Local save failed for reward %s: %v", reward.ID, err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to save image"})
		}
		imageURL = "/" + filepath.ToSlash(destPath)
	}

	reward.ImageURL = imageURL
	if err := s.DB.Save(&reward).Error; err != nil {
		log.Printf("DB Error saving reward image URL: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update reward"})
	}

	return c.JSON(fiber.Map{"message": "Image uploaded successfully", "image_url": imageURL})
}
