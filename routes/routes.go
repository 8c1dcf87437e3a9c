package routes

import (
	"blogserver/auth"
	"blogserver/config"
	"blogserver/mail"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
)

// Handler carries the dependencies shared by all endpoint handlers.
type Handler struct {
	db       *gorm.DB
	cfg      *config.Config
	tokens   *auth.Issuer
	mailer   mail.Sender
	log      zerolog.Logger
	hub      *Hub
	validate *validator.Validate
}

func NewHandler(database *gorm.DB, cfg *config.Config, tokens *auth.Issuer, mailer mail.Sender, logger zerolog.Logger) *Handler {
	return &Handler{
		db:       database,
		cfg:      cfg,
		tokens:   tokens,
		mailer:   mailer,
		log:      logger,
		hub:      NewHub(logger),
		validate: validator.New(),
	}
}

func SetupRoutes(app *fiber.App, h *Handler) {
	// Account routes
	app.Post("/register/", h.register)
	app.Get("/activate/:uid/:token", h.activateAccount)
	app.Post("/login/", h.login)
	app.Post("/refresh/", h.refreshTokens)
	app.Post("/change-password/", h.changePassword)
	app.Put("/modify-profile/", h.modifyProfile)

	// Blog routes
	app.Get("/blogs/", h.listBlogs)
	app.Post("/blogs/", h.createBlog)
	app.Delete("/blog/:id/", h.deleteBlog)

	// Taxonomy routes
	app.Get("/categories/", h.listCategories)
	app.Get("/tags/", h.listTags)
	app.Get("/menus/", h.listMenus)

	// Comment routes
	app.Get("/blogs/:id/comments/", h.listComments)
	app.Post("/blogs/:id/comments/", h.createComment)
	app.Delete("/comments/:id/", h.deleteComment)
	app.Post("/comments/:id/like", h.likeComment)
	app.Post("/comments/:id/dislike", h.dislikeComment)

	// Media upload and the live comment feed
	app.Post("/upload", h.uploadImage)
	app.Get("/ws", h.commentFeed)
}

// message builds the uniform JSON error/info body.
func message(text string) fiber.Map {
	return fiber.Map{"message": text}
}
