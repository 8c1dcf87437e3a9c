package routes

import (
	"blogserver/models"

	"github.com/gofiber/fiber/v2"
)

// listCategories returns all categories, or the children of parent_id when
// the filter is present.
func (h *Handler) listCategories(c *fiber.Ctx) error {
	query := h.db.Model(&models.Category{})
	if parentID := c.QueryInt("parent_id", 0); parentID > 0 {
		query = query.Where("parent_id = ?", parentID)
	}

	var categories []models.Category
	if err := query.Find(&categories).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(message("Failed to get categories"))
	}

	out := make([]CategoryOut, 0, len(categories))
	for _, cat := range categories {
		out = append(out, CategoryOut{ID: cat.ID, Title: cat.Title, Parent: cat.ParentID})
	}
	return c.JSON(out)
}

func (h *Handler) listTags(c *fiber.Ctx) error {
	var tags []models.Tag
	if err := h.db.Find(&tags).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(message("Failed to get tags"))
	}

	out := make([]TagOut, 0, len(tags))
	for _, tag := range tags {
		out = append(out, TagOut{ID: tag.ID, Title: tag.Title})
	}
	return c.JSON(out)
}

// listMenus returns menus sorted by order_number, optionally narrowed to a
// category.
func (h *Handler) listMenus(c *fiber.Ctx) error {
	query := h.db.Order("order_number ASC")
	if categoryID := c.QueryInt("category_id", 0); categoryID > 0 {
		query = query.Where("category_id = ?", categoryID)
	}

	var menus []models.Menu
	if err := query.Find(&menus).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(message("Failed to get menus"))
	}
	return c.JSON(menus)
}
