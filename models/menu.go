package models

type Menu struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Title       string    `gorm:"not null" json:"title" validate:"required"`
	OrderNumber uint      `json:"order_number"`
	URLSlug     string    `gorm:"uniqueIndex;not null" json:"url_slug" validate:"required"`
	CategoryID  *uint     `gorm:"default:null" json:"category_id"`
	Category    *Category `gorm:"foreignKey:CategoryID;constraint:OnDelete:SET NULL" json:"category,omitempty"`
}
