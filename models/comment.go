package models

import "time"

type Comment struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	BlogID          uint      `gorm:"not null" json:"blog_id"`
	AuthorID        uint      `gorm:"not null" json:"author_id"`
	Author          User      `gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE" json:"author,omitempty"`
	Content         string    `gorm:"type:text;not null" json:"content" validate:"required"`
	ParentCommentID *uint     `gorm:"default:null" json:"parent_comment_id,omitempty"`
	Replies         []Comment `gorm:"foreignKey:ParentCommentID;constraint:OnDelete:SET NULL" json:"replies,omitempty"`
	Likes           uint      `gorm:"default:0" json:"likes"`
	Dislikes        uint      `gorm:"default:0" json:"dislikes"`
	CreatedAt       time.Time `gorm:"autoCreateTime" json:"created_at"`
}
