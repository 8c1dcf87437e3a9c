package models

import "time"

type User struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	Username       string    `gorm:"uniqueIndex;not null" json:"username" validate:"required"`
	Email          string    `gorm:"uniqueIndex;not null" json:"email" validate:"required,email"`
	Password       string    `gorm:"not null" json:"-"`
	IsActive       bool      `gorm:"default:false" json:"is_active"`
	ProfilePicture string    `gorm:"default:null" json:"profile_picture,omitempty"`
	CreatedAt      time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time `gorm:"autoUpdateTime" json:"updated_at"`
	Blogs          []Blog    `gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE" json:"blogs,omitempty"`
	Comments       []Comment `gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE" json:"comments,omitempty"`
}
