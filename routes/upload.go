package routes

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

var allowedImageExts = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".webp": true,
}

// uploadImage stores a profile or blog picture under the uploads directory
// and returns the path to reference from user/blog records.
func (h *Handler) uploadImage(c *fiber.Ctx) error {
	if _, err := h.currentUser(c); err != nil {
		return unauthorized(c)
	}

	file, err := c.FormFile("image")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(message("Failed to get uploaded file"))
	}

	ext := strings.ToLower(filepath.Ext(file.Filename))
	if !allowedImageExts[ext] {
		return c.Status(fiber.StatusBadRequest).JSON(message("Unsupported image type"))
	}

	subdir := "blog_pictures"
	if c.FormValue("kind") == "profile" {
		subdir = "profile_pics"
	}

	filename := uuid.New().String() + ext
	dest := filepath.Join(h.cfg.UploadsDir, subdir, filename)
	if err := os.MkdirAll(filepath.Dir(dest), 0755); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(message("Failed to save file"))
	}

	if err := c.SaveFile(file, dest); err != nil {
		h.log.Error().Err(err).Str("path", dest).Msg("failed to save upload")
		return c.Status(fiber.StatusInternalServerError).JSON(message("Failed to save file"))
	}

	return c.JSON(fiber.Map{
		"filename": filename,
		"path":     "/uploads/" + subdir + "/" + filename,
	})
}
