package handlers

import (
	"game-tournament-api/middleware"
	"game-tournament-api/services"

	"github.com/gofiber/fiber/v2"
)

// SetupAuthRoutes registers registration, login and the identity probe.
func SetupAuthRoutes(app *fiber.App, auth *services.AuthService, tournaments *services.TournamentService) {
	app.Post("/api/auth/register", func(c *fiber.Ctx) error {
		var req services.RegisterInput
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
		}
		// Legacy game clients post form fields instead of JSON.
		if req.Name == "" {
			req.Name = c.FormValue("name")
			req.Email = c.FormValue("email")
			req.Password = c.FormValue("password")
			req.WalletUSDT = c.FormValue("wallet_usdt")
		}

		user, err := auth.Register(c.UserContext(), req)
		if err != nil {
			return writeError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(fiber.Map{
			"message": "User registered successfully",
			"user_id": user.ID,
		})
	})

	app.Post("/api/auth/login", func(c *fiber.Ctx) error {
		type Req struct {
			Name     string `json:"name"`
			Password string `json:"password"`
		}
		var req Req
		if err := c.BodyParser(&req); err != nil || req.Name == "" {
			req.Name = c.FormValue("name")
			req.Password = c.FormValue("password")
		}
		if req.Name == "" || req.Password == "" {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "name and password are required"})
		}

		user, token, err := auth.Login(c.UserContext(), req.Name, req.Password)
		if err != nil {
			return writeError(c, err)
		}
		return c.JSON(fiber.Map{
			"user_id":      user.ID,
			"name":         user.Name,
			"access_token": token,
			"token_type":   "bearer",
		})
	})

	secured := app.Group("/users", middleware.RequireUser())

	secured.Get("/me", func(c *fiber.Ctx) error {
		return c.JSON(middleware.CurrentUser(c))
	})

	// The user's active tournament; null body when they are not in one.
	secured.Get("/current-tournament", func(c *fiber.Ctx) error {
		user := middleware.CurrentUser(c)
		tournament, err := tournaments.ActiveTournamentForUser(c.UserContext(), user.ID)
		if err != nil {
			return writeError(c, err)
		}
		if tournament == nil {
			return c.JSON(nil)
		}
		return c.JSON(tournament)
	})
}
