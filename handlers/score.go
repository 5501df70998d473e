package handlers

import (
	"strconv"

	"game-tournament-api/middleware"
	"game-tournament-api/services"

	"github.com/gofiber/fiber/v2"
)

// SetupScoreRoutes registers score submission and leaderboard reads.
func SetupScoreRoutes(app *fiber.App, scores *services.ScoreService) {
	// Open submission path used by the game client. Body is JSON, but the
	// legacy client posts form fields and calls the points field "puntos".
	app.Post("/api/scores/submit", func(c *fiber.Ctx) error {
		type Req struct {
			Name         string `json:"name"`
			Points       int    `json:"points"`
			Puntos       int    `json:"puntos"`
			TournamentID string `json:"tournament_id"`
		}
		var req Req
		if err := c.BodyParser(&req); err != nil || req.Name == "" {
			req.Name = c.FormValue("name")
			req.Puntos, _ = strconv.Atoi(c.FormValue("puntos"))
			req.TournamentID = c.FormValue("tournament_id")
		}
		points := req.Points
		if points == 0 {
			points = req.Puntos
		}

		score, err := scores.Submit(c.UserContext(), req.Name, points, req.TournamentID)
		if err != nil {
			return writeError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(fiber.Map{
			"message": "Score submitted successfully",
			"score":   score,
		})
	})

	app.Get("/api/scores/global", func(c *fiber.Ctx) error {
		list, err := scores.TopN(c.UserContext(), c.QueryInt("limit", 10), "")
		if err != nil {
			return writeError(c, err)
		}
		return c.JSON(list)
	})

	// Tournament-bound submission: requires identity and an active
	// tournament in its play phase.
	app.Post("/scores/submit-tournament", middleware.RequireUser(), func(c *fiber.Ctx) error {
		type Req struct {
			Points int `json:"points"`
			Puntos int `json:"puntos"`
		}
		var req Req
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
		}
		points := req.Points
		if points == 0 {
			points = req.Puntos
		}

		user := middleware.CurrentUser(c)
		score, err := scores.SubmitTournamentScore(c.UserContext(), user, points)
		if err != nil {
			return writeError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(fiber.Map{
			"message": "Tournament score submitted successfully",
			"score":   score,
		})
	})
}
