package handlers

import (
	"game-tournament-api/middleware"
	"game-tournament-api/services"

	"github.com/gofiber/fiber/v2"
)

// SetupAdminRoutes registers user management and manual payment
// confirmation, all behind the admin gate.
func SetupAdminRoutes(app *fiber.App, users *services.UserService, registration *services.RegistrationService) {
	admin := app.Group("/admin", middleware.RequireAdmin())

	admin.Get("/users", func(c *fiber.Ctx) error {
		list, err := users.List(c.UserContext(), middleware.CurrentUser(c))
		if err != nil {
			return writeError(c, err)
		}
		return c.JSON(list)
	})

	admin.Put("/users/:id", func(c *fiber.Ctx) error {
		var req services.UpdateUserInput
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
		}
		user, err := users.Update(c.UserContext(), c.Params("id"), req, middleware.CurrentUser(c))
		if err != nil {
			return writeError(c, err)
		}
		return c.JSON(user)
	})

	admin.Delete("/users/:id", func(c *fiber.Ctx) error {
		if err := users.Delete(c.UserContext(), c.Params("id"), middleware.CurrentUser(c)); err != nil {
			return writeError(c, err)
		}
		return c.JSON(fiber.Map{"message": "User deleted successfully"})
	})

	admin.Post("/payments/:id/confirm", func(c *fiber.Ctx) error {
		payment, err := registration.ConfirmManualPayment(c.UserContext(), c.Params("id"), middleware.CurrentUser(c))
		if err != nil {
			return writeError(c, err)
		}
		return c.JSON(fiber.Map{
			"message": "Payment verified successfully",
			"payment": payment,
		})
	})
}
