package models

import "time"

type Blog struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Title       string    `gorm:"not null" json:"title" validate:"required"`
	Picture     string    `gorm:"default:null" json:"picture,omitempty"`
	Description string    `gorm:"type:text" json:"description"` // rich text, stored verbatim
	AuthorID    uint      `gorm:"not null" json:"author_id"`
	Author      User      `gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE" json:"author,omitempty"`
	CategoryID  *uint     `gorm:"default:null" json:"category_id"`
	Category    *Category `gorm:"foreignKey:CategoryID;constraint:OnDelete:SET NULL" json:"category,omitempty"`
	Tags        []Tag     `gorm:"many2many:blog_tags;constraint:OnDelete:CASCADE" json:"tags,omitempty"`
	Comments    []Comment `gorm:"foreignKey:BlogID;constraint:OnDelete:CASCADE" json:"comments,omitempty"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime" json:"updated_at"`
	Active      bool      `gorm:"default:true" json:"active"`
}
