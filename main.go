package main

import (
	"os"
	"path/filepath"

	"blogserver/auth"
	"blogserver/config"
	"blogserver/db"
	"blogserver/mail"
	"blogserver/routes"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/rs/zerolog"
)

func main() {
	cfg := config.Load()
	log := zerolog.New(os.Stdout).With().Timestamp().Logger()

	// Initialize database
	database, err := db.Open(cfg.DBPath)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize database")
	}

	// Create upload directories if they don't exist
	for _, dir := range []string{"profile_pics", "blog_pictures"} {
		path := filepath.Join(cfg.UploadsDir, dir)
		if err := os.MkdirAll(path, 0755); err != nil {
			log.Fatal().Err(err).Str("path", path).Msg("failed to create uploads directory")
		}
	}

	// Create Fiber app
	app := fiber.New()

	// Middleware
	app.Use(logger.New())
	app.Use(cors.New())

	// Serve uploaded media
	app.Static("/uploads", cfg.UploadsDir)

	// Setup routes
	issuer := auth.NewIssuer(cfg.JWTSecret, cfg.AccessTokenTTL, cfg.RefreshTokenTTL, cfg.ActivationTTL)
	mailer := mail.NewSMTPSender(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPassword, cfg.MailFrom)
	handler := routes.NewHandler(database, cfg, issuer, mailer, log)
	routes.SetupRoutes(app, handler)

	// Start server
	log.Info().Str("port", cfg.Port).Msg("starting server")
	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}
