// handlers/reward.go
package handlers

import (
	"loyalty-service/middleware"
	"loyalty-service/services"

	"github.com/gofiber/fiber/v2"
)

// SetupRewardRoutes wires the admin catalog endpoints. The service methods
// are fiber handlers themselves.
func SetupRewardRoutes(app *fiber.App, rewardService *services.RewardService) {
	adminGroup := app.Group("/s/admin", middleware.UserContextMiddleware(), middleware.RequireAdmin())

	adminGroup.Get("/rewards", rewardService.GetAllRewards)
	adminGroup.Post("/rewards", rewardService.CreateReward)
	adminGroup.Patch("/rewards/:id", rewardService.UpdateReward)
	adminGroup.Post("/rewards/:id/deactivate", rewardService.DeactivateReward)
	adminGroup.Post("/rewards/:id/image", rewardService.UploadRewardImage)
}
