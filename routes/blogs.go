package routes

import (
	"errors"

	"blogserver/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type AuthorOut struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
}

type TagOut struct {
	ID    uint   `json:"id"`
	Title string `json:"title"`
}

type CategoryOut struct {
	ID     uint   `json:"id"`
	Title  string `json:"title"`
	Parent *uint  `json:"parent"`
}

// BlogOut is the listing view of a blog. created_at carries the date only.
type BlogOut struct {
	ID          uint         `json:"id"`
	Title       string       `json:"title"`
	Description string       `json:"description"`
	CreatedAt   string       `json:"created_at"`
	Author      AuthorOut    `json:"author"`
	Tags        []TagOut     `json:"tags"`
	Category    *CategoryOut `json:"category"`
}

type BlogListResponse struct {
	Blogs []BlogOut `json:"blogs"`
	Total int       `json:"total"`
	Skip  int       `json:"skip"`
	Limit int       `json:"limit"`
}

type BlogCreateRequest struct {
	Title       string `json:"title" validate:"required"`
	Description string `json:"description"`
	Picture     string `json:"picture"`
	CategoryID  uint   `json:"category_id" validate:"required"`
	Tags        []uint `json:"tags"`
}

func blogToOut(blog *models.Blog) BlogOut {
	out := BlogOut{
		ID:          blog.ID,
		Title:       blog.Title,
		Description: blog.Description,
		CreatedAt:   blog.CreatedAt.Format(dateLayout),
		Author:      AuthorOut{ID: blog.Author.ID, Username: blog.Author.Username},
		Tags:        make([]TagOut, 0, len(blog.Tags)),
	}
	for _, tag := range blog.Tags {
		out.Tags = append(out.Tags, TagOut{ID: tag.ID, Title: tag.Title})
	}
	if blog.Category != nil {
		out.Category = &CategoryOut{ID: blog.Category.ID, Title: blog.Category.Title, Parent: blog.Category.ParentID}
	}
	return out
}

// listBlogs returns the paginated blog listing, newest first, narrowed by the
// optional filter parameters.
func (h *Handler) listBlogs(c *fiber.Ctx) error {
	filters, err := blogFiltersFromQuery(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(message(err.Error()))
	}

	limit := -1 // No limit unless specified
	skip := 0
	if c.Query("limit") != "" {
		if limit = c.QueryInt("limit", 0); limit < 0 {
			return c.Status(fiber.StatusBadRequest).JSON(message("Invalid limit parameter"))
		}
	}
	if c.Query("skip") != "" {
		if skip = c.QueryInt("skip", 0); skip < 0 {
			return c.Status(fiber.StatusBadRequest).JSON(message("Invalid skip parameter"))
		}
	}

	var total int64
	if err := applyBlogFilters(h.db.Model(&models.Blog{}), filters).Count(&total).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(message("Failed to count blogs"))
	}

	query := applyBlogFilters(h.db.Model(&models.Blog{}), filters).
		Preload("Author").
		Preload("Tags").
		Preload("Category").
		Order("blogs.created_at DESC, blogs.id DESC")

	if skip > 0 {
		query = query.Offset(skip)
	}
	if limit > 0 {
		query = query.Limit(limit)
	}

	var blogs []models.Blog
	if err := query.Find(&blogs).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(message("Failed to get blogs"))
	}

	out := make([]BlogOut, 0, len(blogs))
	for i := range blogs {
		out = append(out, blogToOut(&blogs[i]))
	}

	return c.JSON(BlogListResponse{
		Blogs: out,
		Total: int(total),
		Skip:  skip,
		Limit: limit,
	})
}

// createBlog inserts a blog for the authenticated user. The picture and tag
// writes follow the initial insert as separate steps.
func (h *Handler) createBlog(c *fiber.Ctx) error {
	user, err := h.currentUser(c)
	if err != nil {
		return unauthorized(c)
	}

	var req BlogCreateRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(message("Cannot parse JSON"))
	}
	if err := h.validate.Struct(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(message(err.Error()))
	}

	var category models.Category
	if err := h.db.First(&category, req.CategoryID).Error; err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(message("Category not found."))
	}

	blog := models.Blog{
		Title:       req.Title,
		Description: req.Description,
		AuthorID:    user.ID,
		CategoryID:  &category.ID,
		Active:      true,
	}
	if err := h.db.Create(&blog).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(message("Failed to create blog"))
	}

	if req.Picture != "" {
		if err := h.db.Model(&blog).Update("picture", req.Picture).Error; err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(message("Failed to save blog picture"))
		}
	}

	if len(req.Tags) > 0 {
		var tags []models.Tag
		if err := h.db.Where("id IN ?", req.Tags).Find(&tags).Error; err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(message("Failed to load tags"))
		}
		if err := h.db.Model(&blog).Association("Tags").Replace(&tags); err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(message("Failed to assign tags"))
		}
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Blog created successfully.",
		"blog_id": blog.ID,
	})
}

// deleteBlog removes a blog post. Only the author may delete it; the
// existence check comes first so a missing post is a 404 either way.
func (h *Handler) deleteBlog(c *fiber.Ctx) error {
	user, err := h.currentUser(c)
	if err != nil {
		return unauthorized(c)
	}

	var blog models.Blog
	if err := h.db.First(&blog, c.Params("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(message("Blog post not found."))
		}
		return c.Status(fiber.StatusInternalServerError).JSON(message("Failed to find blog"))
	}

	if blog.AuthorID != user.ID {
		return c.Status(fiber.StatusBadRequest).JSON(message("You are not the author of this blog post."))
	}

	if err := h.db.Model(&blog).Association("Tags").Clear(); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(message("Failed to delete blog"))
	}
	if err := h.db.Delete(&blog).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(message("Failed to delete blog"))
	}

	return c.JSON(message("Blog post deleted successfully."))
}
