package models

type Category struct {
	ID       uint       `gorm:"primaryKey" json:"id"`
	Title    string     `gorm:"not null" json:"title" validate:"required"`
	ParentID *uint      `gorm:"default:null" json:"parent"`
	Children []Category `gorm:"foreignKey:ParentID;constraint:OnDelete:SET NULL" json:"children,omitempty"`
}
