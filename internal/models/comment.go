package models

import (
	"time"
)

type Comment struct {
	ID       uint      `gorm:"primaryKey" json:"id"`
	Text     string    `gorm:"size:200;not null" json:"text"`
	PostedAt time.Time `gorm:"not null;index" json:"posted_at"`
	UserID   uint      `gorm:"not null;index" json:"user_id"`
	User     User      `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
	ParentID *uint     `gorm:"index" json:"parent_id"` // Nullable for root comments
	Parent   *Comment  `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"-"`
}
