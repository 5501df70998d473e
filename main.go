package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"game-tournament-api/config"
	"game-tournament-api/handlers"
	"game-tournament-api/middleware"
	"game-tournament-api/models"
	"game-tournament-api/services"
	"game-tournament-api/utils"
	"game-tournament-api/workers"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/joho/godotenv"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("⚠️  No .env file found, reading environment variables directly")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	app := fiber.New(fiber.Config{
		BodyLimit: 10 * 1024 * 1024, // 10MB — banner uploads
	})

	app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.AllowedOrigins,
		AllowMethods:     "GET,POST,PUT,DELETE,OPTIONS,PATCH,HEAD",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization, X-Requested-With",
		AllowCredentials: true,
		MaxAge:           86400,
	}))

	// TranslateError turns driver unique-violations into gorm.ErrDuplicatedKey,
	// which the registration path relies on as the double-join guard.
	db, err := gorm.Open(postgres.Open(cfg.DatabaseURL), &gorm.Config{TranslateError: true})
	if err != nil {
		log.Fatal("failed to connect to database:", err)
	}

	if err := db.AutoMigrate(
		&models.User{},
		&models.Tournament{},
		&models.Payment{},
		&models.Score{},
		&models.Prize{},
	); err != nil {
		log.Fatal("failed to migrate database:", err)
	}

	var storage *utils.R2Storage
	if cfg.BannerUploadsEnabled() {
		storage, err = utils.NewR2Storage(cfg)
		if err != nil {
			log.Fatal("failed to initialize R2 client:", err)
		}
	} else {
		log.Println("⚠️  R2_BUCKET_NAME not set — banner uploads disabled")
	}

	authService := services.NewAuthService(db, cfg)
	prizeService := services.NewPrizeService(db)
	tournamentService := services.NewTournamentService(db, prizeService, storage)
	verifier := services.NewPaymentVerifier(services.NewTatumOracle(cfg), cfg)
	registrationService := services.NewRegistrationService(db, verifier, cfg)
	scoreService := services.NewScoreService(db, tournamentService)
	userService := services.NewUserService(db)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	reconciler := workers.NewReconcileWorker(db, cfg.ReconcileInterval)
	if err := reconciler.Start(ctx); err != nil {
		log.Fatal("failed to start reconcile worker:", err)
	}

	// Identity is resolved once, globally; RequireUser/RequireAdmin gate
	// the routes that need it.
	app.Use(middleware.UserContext(authService))

	handlers.SetupAuthRoutes(app, authService, tournamentService)
	handlers.SetupTournamentRoutes(app, tournamentService, registrationService, prizeService, scoreService)
	handlers.SetupScoreRoutes(app, scoreService)
	handlers.SetupAdminRoutes(app, userService, registrationService)

	go func() {
		if err := app.Listen(cfg.ListenAddr); err != nil {
			log.Printf("Server error: %v", err)
		}
	}()

	log.Printf("✅ Server running on %s", cfg.ListenAddr)
	log.Printf("✅ Counter reconcile worker running (every %s)", cfg.ReconcileInterval)
	log.Printf("✅ CORS configured for origins: %s", cfg.AllowedOrigins)

	<-ctx.Done()
	log.Println("Shutting down server...")
	if err := app.Shutdown(); err != nil {
		log.Printf("Shutdown error: %v", err)
	}
}
