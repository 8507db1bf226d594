package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// WatchHistory rows are upserted with set semantics: re-watching a video
// refreshes WatchedAt instead of inserting a second row.
type WatchHistory struct {
	ID        string    `gorm:"type:uuid;primary_key" json:"id"`
	UserID    string    `gorm:"type:uuid;not null;uniqueIndex:idx_user_video_watch" json:"userId"`
	VideoID   string    `gorm:"type:uuid;not null;uniqueIndex:idx_user_video_watch" json:"videoId"`
	WatchedAt time.Time `json:"watchedAt"`

	User  User  `gorm:"foreignKey:UserID" json:"-"`
	Video Video `gorm:"foreignKey:VideoID" json:"-"`
}

func (w *WatchHistory) BeforeCreate(tx *gorm.DB) error {
	if w.ID == "" {
		w.ID = uuid.New().String()
	}
	return nil
}
