package handlers

import (
	"game-tournament-api/middleware"
	"game-tournament-api/services"

	"github.com/gofiber/fiber/v2"
)

// SetupTournamentRoutes registers the tournament lifecycle and join
// endpoints. Reads are public; every mutation needs identity and the
// lifecycle operations need the admin flag on top. The gates sit on the
// individual routes because the /tournaments prefix is shared with the
// public reads.
func SetupTournamentRoutes(
	app *fiber.App,
	tournaments *services.TournamentService,
	registration *services.RegistrationService,
	prizes *services.PrizeService,
	scores *services.ScoreService,
) {
	// 🔓 Public reads
	app.Get("/tournaments", func(c *fiber.Ctx) error {
		list, err := tournaments.List(c.UserContext(), c.Query("status"))
		if err != nil {
			return writeError(c, err)
		}
		return c.JSON(list)
	})

	app.Get("/tournaments/:id", func(c *fiber.Ctx) error {
		tournament, err := tournaments.GetByID(c.UserContext(), c.Params("id"))
		if err != nil {
			return writeError(c, err)
		}
		return c.JSON(tournament)
	})

	app.Get("/tournaments/:id/scores", func(c *fiber.Ctx) error {
		list, err := scores.TopN(c.UserContext(), c.QueryInt("limit", 10), c.Params("id"))
		if err != nil {
			return writeError(c, err)
		}
		return c.JSON(list)
	})

	app.Get("/tournaments/:id/prizes", func(c *fiber.Ctx) error {
		list, err := prizes.ByTournament(c.UserContext(), c.Params("id"))
		if err != nil {
			return writeError(c, err)
		}
		return c.JSON(list)
	})

	// 🔐 Authenticated
	app.Post("/tournaments/:id/join", middleware.RequireUser(), func(c *fiber.Ctx) error {
		type Req struct {
			TxHash string `json:"tx_hash"`
		}
		var req Req
		if err := c.BodyParser(&req); err != nil || req.TxHash == "" {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "tx_hash is required"})
		}

		user := middleware.CurrentUser(c)
		payment, err := registration.JoinAutomatic(c.UserContext(), c.Params("id"), user, req.TxHash)
		if err != nil {
			return writeError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(fiber.Map{
			"message": "Successfully joined tournament",
			"payment": payment,
		})
	})

	app.Post("/tournaments/:id/join_manual", middleware.RequireUser(), func(c *fiber.Ctx) error {
		user := middleware.CurrentUser(c)
		payment, err := registration.JoinManual(c.UserContext(), c.Params("id"), user)
		if err != nil {
			return writeError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(fiber.Map{
			"message": "Registration request received. Admin will manually verify your payment.",
			"payment": payment,
			"payment_instructions": fiber.Map{
				"amount":         payment.Amount,
				"wallet_central": registration.CentralWallet,
				"your_wallet":    user.WalletUSDT,
				"next_steps":     "Send the entry fee (TRC20) to the central wallet and notify admin",
			},
		})
	})

	// 🔒 Admin lifecycle operations
	app.Post("/tournaments", middleware.RequireAdmin(), func(c *fiber.Ctx) error {
		var req services.CreateTournamentInput
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
		}
		tournament, err := tournaments.Create(c.UserContext(), req)
		if err != nil {
			return writeError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(fiber.Map{
			"message":       "Tournament created successfully",
			"tournament_id": tournament.ID,
			"tournament":    tournament,
		})
	})

	app.Post("/tournaments/:id/close", middleware.RequireAdmin(), func(c *fiber.Ctx) error {
		tournament, err := tournaments.Close(c.UserContext(), c.Params("id"), middleware.CurrentUser(c))
		if err != nil {
			return writeError(c, err)
		}
		return c.JSON(fiber.Map{
			"message":    "Tournament closed successfully",
			"tournament": tournament,
		})
	})

	app.Post("/tournaments/:id/distribute_prizes", middleware.RequireAdmin(), func(c *fiber.Ctx) error {
		tournament, prizeRows, err := tournaments.DistributePrizes(c.UserContext(), c.Params("id"), middleware.CurrentUser(c))
		if err != nil {
			return writeError(c, err)
		}
		return c.JSON(fiber.Map{
			"message":            "Prizes distributed successfully",
			"tournament":         tournament,
			"prize_distribution": prizeRows,
		})
	})

	app.Delete("/tournaments/:id", middleware.RequireAdmin(), func(c *fiber.Ctx) error {
		if err := tournaments.Delete(c.UserContext(), c.Params("id"), middleware.CurrentUser(c)); err != nil {
			return writeError(c, err)
		}
		return c.JSON(fiber.Map{"message": "Tournament and all related data deleted successfully"})
	})

	app.Post("/tournaments/:id/banner", middleware.RequireAdmin(), func(c *fiber.Ctx) error {
		file, err := c.FormFile("banner")
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "banner file is required"})
		}
		tournament, err := tournaments.SetBanner(c.UserContext(), c.Params("id"), middleware.CurrentUser(c), file)
		if err != nil {
			return writeError(c, err)
		}
		return c.JSON(tournament)
	})
}
