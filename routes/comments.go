package routes

import (
	"errors"

	"blogserver/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type CommentCreateRequest struct {
	Content         string `json:"content" validate:"required"`
	ParentCommentID *uint  `json:"parent_comment_id"`
}

// listComments returns the blog's top level comments with their replies,
// oldest first.
func (h *Handler) listComments(c *fiber.Ctx) error {
	var blog models.Blog
	if err := h.db.First(&blog, c.Params("id")).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(message("Blog post not found."))
	}

	var comments []models.Comment
	if err := h.db.
		Preload("Author").
		Preload("Replies", func(db *gorm.DB) *gorm.DB { return db.Order("comments.created_at ASC") }).
		Preload("Replies.Author").
		Where("blog_id = ? AND parent_comment_id IS NULL", blog.ID).
		Order("created_at ASC").
		Find(&comments).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(message("Failed to get comments"))
	}

	return c.JSON(comments)
}

// createComment adds a comment (or a reply) to a blog post and pushes it to
// the live feed.
func (h *Handler) createComment(c *fiber.Ctx) error {
	user, err := h.currentUser(c)
	if err != nil {
		return unauthorized(c)
	}

	var blog models.Blog
	if err := h.db.First(&blog, c.Params("id")).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(message("Blog post not found."))
	}

	var req CommentCreateRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(message("Cannot parse JSON"))
	}
	if err := h.validate.Struct(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(message(err.Error()))
	}

	if req.ParentCommentID != nil {
		var parent models.Comment
		if err := h.db.First(&parent, *req.ParentCommentID).Error; err != nil || parent.BlogID != blog.ID {
			return c.Status(fiber.StatusBadRequest).JSON(message("Parent comment not found on this blog post."))
		}
	}

	comment := models.Comment{
		BlogID:          blog.ID,
		AuthorID:        user.ID,
		Content:         req.Content,
		ParentCommentID: req.ParentCommentID,
	}
	if err := h.db.Create(&comment).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(message("Failed to create comment"))
	}
	comment.Author = *user

	h.hub.Broadcast(fiber.Map{
		"type":    "comment.created",
		"blog_id": blog.ID,
		"comment": comment,
	})

	return c.Status(fiber.StatusCreated).JSON(comment)
}

// deleteComment removes a comment; only its author may do so.
func (h *Handler) deleteComment(c *fiber.Ctx) error {
	user, err := h.currentUser(c)
	if err != nil {
		return unauthorized(c)
	}

	var comment models.Comment
	if err := h.db.First(&comment, c.Params("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(message("Comment not found."))
		}
		return c.Status(fiber.StatusInternalServerError).JSON(message("Failed to find comment"))
	}

	if comment.AuthorID != user.ID {
		return c.Status(fiber.StatusBadRequest).JSON(message("You are not the author of this comment."))
	}

	if err := h.db.Delete(&comment).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(message("Failed to delete comment"))
	}

	return c.JSON(message("Comment deleted successfully."))
}

func (h *Handler) likeComment(c *fiber.Ctx) error {
	return h.bumpReaction(c, "likes")
}

func (h *Handler) dislikeComment(c *fiber.Ctx) error {
	return h.bumpReaction(c, "dislikes")
}

// bumpReaction increments the named counter column. There is no per-user
// reaction tracking, counts only.
func (h *Handler) bumpReaction(c *fiber.Ctx, column string) error {
	var comment models.Comment
	if err := h.db.First(&comment, c.Params("id")).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(message("Comment not found."))
	}

	if err := h.db.Model(&comment).UpdateColumn(column, gorm.Expr(column+" + 1")).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(message("Failed to update comment"))
	}
	if err := h.db.First(&comment, comment.ID).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(message("Failed to update comment"))
	}

	return c.JSON(fiber.Map{
		"id":       comment.ID,
		"likes":    comment.Likes,
		"dislikes": comment.Dislikes,
	})
}
