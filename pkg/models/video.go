package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Video struct {
	ID           string    `gorm:"type:uuid;primary_key" json:"id"`
	OwnerID      string    `gorm:"type:uuid;not null;index" json:"ownerId"`
	Title        string    `gorm:"not null" json:"title"`
	Description  string    `json:"description"`
	Duration     float64   `json:"duration"`
	VideoKey     string    `gorm:"not null" json:"-"`
	VideoURL     string    `gorm:"not null" json:"videoUrl"`
	ThumbnailKey string    `gorm:"not null" json:"-"`
	ThumbnailURL string    `gorm:"not null" json:"thumbnailUrl"`
	Views        int64     `gorm:"default:0" json:"views"`
	IsPublished  bool      `gorm:"default:false;index" json:"isPublished"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`

	Owner User `gorm:"foreignKey:OwnerID" json:"-"`
}

func (v *Video) BeforeCreate(tx *gorm.DB) error {
	if v.ID == "" {
		v.ID = uuid.New().String()
	}
	return nil
}
