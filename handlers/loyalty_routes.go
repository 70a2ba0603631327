// handlers/loyalty_routes.go
package handlers

import (
	"errors"
	"log"
	"strconv"
	"strings"

	"loyalty-service/loyalty"
	"loyalty-service/middleware"
	"loyalty-service/models"
	"loyalty-service/services"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// tierDisplayName renders "GOLD" as "Gold" for user-facing payloads.
// A fresh caser per call: cases.Caser carries state across Transform calls.
func tierDisplayName(t models.Tier) string {
	return cases.Title(language.English).String(strings.ToLower(string(t)))
}

// claimStatus maps a loyalty error to its HTTP status. Every business
// rejection keeps its specific message; only unexpected failures collapse
// into a generic 500.
func claimStatus(err error) int {
	switch {
	case errors.Is(err, loyalty.ErrCustomerNotFound),
		errors.Is(err, loyalty.ErrAccountNotFound),
		errors.Is(err, loyalty.ErrRewardNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, loyalty.ErrDuplicateActiveClaim):
		return fiber.StatusConflict
	case errors.Is(err, loyalty.ErrRewardInactive),
		errors.Is(err, loyalty.ErrRewardNotYetAvailable),
		errors.Is(err, loyalty.ErrRewardExpired),
		errors.Is(err, loyalty.ErrTierTooLow),
		errors.Is(err, loyalty.ErrInsufficientPoints),
		errors.Is(err, loyalty.ErrUsageLimitReached):
		return fiber.StatusBadRequest
	default:
		return fiber.StatusInternalServerError
	}
}

func respondLoyaltyError(c *fiber.Ctx, err error, fallback string) error {
	status := claimStatus(err)
	if status == fiber.StatusInternalServerError {
		log.Printf("❌ [LOYALTY] %s: %v", fallback, err)
		return c.Status(status).JSON(fiber.Map{"error": fallback})
	}
	return c.Status(status).JSON(fiber.Map{"error": err.Error()})
}

func SetupLoyaltyRoutes(app *fiber.App, loyaltyService *services.LoyaltyService) {
	securedGroup := app.Group("/s", middleware.UserContextMiddleware())

	// Account overview: balance, lifetime totals, tier + progress to next
	securedGroup.Get("/user/loyalty", func(c *fiber.Ctx) error {
		customerID := c.Locals("user_id").(string)

		overview, err := loyaltyService.GetAccountOverview(customerID)
		if err != nil {
			return respondLoyaltyError(c, err, "failed to load loyalty account")
		}

		return c.JSON(fiber.Map{
			"account":           overview.Account,
			"tier_display_name": tierDisplayName(overview.Account.Tier),
			"progress":          overview.Progress,
		})
	})

	// Paginated ledger, newest first
	securedGroup.Get("/user/loyalty/history", func(c *fiber.Ctx) error {
		customerID := c.Locals("user_id").(string)
		page, _ := strconv.Atoi(c.Query("page", "1"))
		size, _ := strconv.Atoi(c.Query("size", "20"))

		history, err := loyaltyService.GetHistory(customerID, page, size)
		if err != nil {
			return respondLoyaltyError(c, err, "failed to load loyalty history")
		}
		return c.JSON(history)
	})

	// Reward catalog annotated for the caller
	securedGroup.Get("/rewards", func(c *fiber.Ctx) error {
		customerID := c.Locals("user_id").(string)

		rewards, err := loyaltyService.ListRewardsForCustomer(customerID)
		if err != nil {
			return respondLoyaltyError(c, err, "failed to list rewards")
		}
		return c.JSON(fiber.Map{"rewards": rewards})
	})

	// Claim a reward
	securedGroup.Post("/rewards/:id/claim", func(c *fiber.Ctx) error {
		customerID := c.Locals("user_id").(string)
		rewardID := c.Params("id")

		if _, err := uuid.Parse(rewardID); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid reward ID"})
		}

		var req struct {
			OrderID *string `json:"order_id"`
		}
		// Body is optional; ignore parse errors on an empty body
		_ = c.BodyParser(&req)

		if req.OrderID != nil {
			if _, err := uuid.Parse(*req.OrderID); err != nil {
				return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid order ID"})
			}
		}

		result, err := loyaltyService.RedeemReward(customerID, rewardID, req.OrderID)
		if err != nil {
			return respondLoyaltyError(c, err, "failed to claim reward")
		}

		return c.Status(fiber.StatusCreated).JSON(fiber.Map{
			"message": "Reward claimed successfully",
			"claim":   result,
		})
	})

	// Service-to-service: order service reports a completed purchase
	securedGroup.Post("/orders/accrue", func(c *fiber.Ctx) error {
		var req struct {
			CustomerID string  `json:"customer_id" validate:"required,uuid"`
			OrderID    string  `json:"order_id" validate:"required,uuid"`
			Amount     float64 `json:"amount" validate:"required,min=0"`
		}
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
		}
		if _, err := uuid.Parse(req.CustomerID); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid customer ID"})
		}
		if _, err := uuid.Parse(req.OrderID); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid order ID"})
		}
		if req.Amount < 0 {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Amount must not be negative"})
		}

		account, err := loyaltyService.AccruePurchase(req.CustomerID, req.OrderID, req.Amount)
		if err != nil {
			return respondLoyaltyError(c, err, "failed to accrue points")
		}

		return c.JSON(fiber.Map{
			"message": "Points accrued successfully",
			"account": account,
		})
	})

	// Admin endpoints
	adminGroup := app.Group("/s/admin", middleware.UserContextMiddleware(), middleware.RequireAdmin())

	adminGroup.Post("/points/adjust", func(c *fiber.Ctx) error {
		var req struct {
			CustomerID string `json:"customer_id" validate:"required,uuid"`
			Points     int64  `json:"points" validate:"required"`
			Reason     string `json:"reason" validate:"max=255"`
		}
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
		}
		if _, err := uuid.Parse(req.CustomerID); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid customer ID"})
		}
		if req.Points == 0 {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Points delta must be non-zero"})
		}

		account, err := loyaltyService.AdjustPoints(req.CustomerID, req.Points, req.Reason)
		if err != nil {
			return respondLoyaltyError(c, err, "points adjustment failed")
		}

		return c.JSON(fiber.Map{
			"message": "Points adjusted successfully",
			"account": account,
		})
	})

	adminGroup.Post("/accounts/:customer_id/recalculate", func(c *fiber.Ctx) error {
		customerID := c.Params("customer_id")
		if _, err := uuid.Parse(customerID); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid customer ID"})
		}

		account, repaired, err := loyaltyService.RecalculateBalance(customerID)
		if err != nil {
			return respondLoyaltyError(c, err, "balance recalculation failed")
		}

		return c.JSON(fiber.Map{
			"message":  "Balance recalculated",
			"repaired": repaired,
			"account":  account,
		})
	})
}
