package routes

import (
	"errors"
	"fmt"
	"strings"

	"blogserver/auth"
	"blogserver/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type RegisterRequest struct {
	Username string `json:"username" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type RefreshRequest struct {
	Refresh string `json:"refresh" validate:"required"`
}

type ChangePasswordRequest struct {
	NewPassword     string `json:"new_password" validate:"required"`
	ConfirmPassword string `json:"confirm_password" validate:"required"`
}

type ModifyProfileRequest struct {
	Username       string `json:"username"`
	Email          string `json:"email"`
	ProfilePicture string `json:"profile_picture"`
}

// currentUser resolves the bearer token on the request to an active user.
// Any failure means the request is unauthenticated.
func (h *Handler) currentUser(c *fiber.Ctx) (*models.User, error) {
	header := c.Get(fiber.HeaderAuthorization)
	const prefix = "Bearer "
	if !strings.HasPrefix(header, prefix) {
		return nil, auth.ErrInvalidToken
	}

	userID, err := h.tokens.ParseAccess(strings.TrimPrefix(header, prefix))
	if err != nil {
		return nil, err
	}

	var user models.User
	if err := h.db.First(&user, userID).Error; err != nil {
		return nil, auth.ErrInvalidToken
	}
	if !user.IsActive {
		return nil, auth.ErrInvalidToken
	}
	return &user, nil
}

func unauthorized(c *fiber.Ctx) error {
	return c.Status(fiber.StatusUnauthorized).JSON(message("Invalid or expired token."))
}

// register creates an inactive account and mails an activation link.
func (h *Handler) register(c *fiber.Ctx) error {
	var req RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(message("Cannot parse JSON"))
	}
	if err := h.validate.Struct(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(message(err.Error()))
	}

	// Username and email are checked independently so the caller learns
	// which one collided.
	var existing models.User
	if err := h.db.Where("username = ?", req.Username).First(&existing).Error; err == nil {
		return c.Status(fiber.StatusBadRequest).JSON(message("Username already exists."))
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return c.Status(fiber.StatusInternalServerError).JSON(message("Failed to check username"))
	}
	if err := h.db.Where("email = ?", req.Email).First(&existing).Error; err == nil {
		return c.Status(fiber.StatusBadRequest).JSON(message("Email already exists."))
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return c.Status(fiber.StatusInternalServerError).JSON(message("Failed to check email"))
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(message("Failed to create user"))
	}

	user := models.User{
		Username: req.Username,
		Email:    req.Email,
		Password: hash,
		IsActive: false,
	}
	if err := h.db.Create(&user).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(message("Failed to create user"))
	}

	token, err := h.tokens.IssueActivation(user.ID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(message("Failed to create activation token"))
	}
	link := fmt.Sprintf("%s/activate/%s/%s/", h.cfg.FrontendURL, auth.EncodeUID(user.ID), token)

	if err := h.mailer.Send(user.Email, "Activate your account",
		"Click the link to activate your account: "+link); err != nil {
		h.log.Error().Err(err).Str("email", user.Email).Msg("activation mail failed")
		return c.Status(fiber.StatusInternalServerError).JSON(message("Failed to send email: " + err.Error()))
	}

	return c.Status(fiber.StatusCreated).JSON(message("Registration successful. Please check your email to activate your account."))
}

// activateAccount flips is_active once the activation token checks out.
// Re-activating an already active account is a no-op.
func (h *Handler) activateAccount(c *fiber.Ctx) error {
	userID, err := auth.DecodeUID(c.Params("uid"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(message("Error during activation."))
	}

	var user models.User
	if err := h.db.First(&user, userID).Error; err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(message("Error during activation."))
	}

	if err := h.tokens.CheckActivation(c.Params("token"), user.ID); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(message("Invalid or expired token."))
	}

	if !user.IsActive {
		if err := h.db.Model(&user).Update("is_active", true).Error; err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(message("Failed to activate account"))
		}
	}

	return c.JSON(message("Account activated successfully."))
}

func (h *Handler) login(c *fiber.Ctx) error {
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(message("Cannot parse JSON"))
	}

	var user models.User
	if err := h.db.Where("username = ?", req.Username).First(&user).Error; err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(message("Invalid credentials"))
	}
	if !user.IsActive || !auth.CheckPassword(user.Password, req.Password) {
		return c.Status(fiber.StatusUnauthorized).JSON(message("Invalid credentials"))
	}

	access, refresh, err := h.tokens.IssuePair(user.ID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(message("Failed to issue tokens"))
	}

	return c.JSON(fiber.Map{
		"access":  access,
		"refresh": refresh,
	})
}

// refreshTokens exchanges a valid refresh token for a new access/refresh pair.
func (h *Handler) refreshTokens(c *fiber.Ctx) error {
	var req RefreshRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(message("Cannot parse JSON"))
	}

	userID, err := h.tokens.ParseRefresh(req.Refresh)
	if err != nil {
		return unauthorized(c)
	}
	var user models.User
	if err := h.db.First(&user, userID).Error; err != nil || !user.IsActive {
		return unauthorized(c)
	}

	access, refresh, err := h.tokens.IssuePair(user.ID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(message("Failed to issue tokens"))
	}

	return c.JSON(fiber.Map{
		"access":  access,
		"refresh": refresh,
	})
}

func (h *Handler) changePassword(c *fiber.Ctx) error {
	user, err := h.currentUser(c)
	if err != nil {
		return unauthorized(c)
	}

	var req ChangePasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(message("Cannot parse JSON"))
	}
	if req.NewPassword != req.ConfirmPassword {
		return c.Status(fiber.StatusBadRequest).JSON(message("Passwords do not match."))
	}

	hash, err := auth.HashPassword(req.NewPassword)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(message("Failed to change password"))
	}
	if err := h.db.Model(user).Update("password", hash).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(message("Failed to change password"))
	}

	return c.JSON(message("Password changed successfully."))
}

// modifyProfile applies only the fields present in the payload.
func (h *Handler) modifyProfile(c *fiber.Ctx) error {
	user, err := h.currentUser(c)
	if err != nil {
		return unauthorized(c)
	}

	var req ModifyProfileRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(message("Cannot parse JSON"))
	}

	updates := map[string]interface{}{}
	if req.Username != "" {
		updates["username"] = req.Username
	}
	if req.Email != "" {
		updates["email"] = req.Email
	}
	if req.ProfilePicture != "" {
		updates["profile_picture"] = req.ProfilePicture
	}

	if len(updates) > 0 {
		if err := h.db.Model(user).Updates(updates).Error; err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(message("Failed to update profile"))
		}
	}

	return c.JSON(message("Profile updated successfully."))
}
