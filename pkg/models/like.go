package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Like targets exactly one of a video, comment or tweet. Partial unique
// indexes (see migrations) guarantee at most one like per (user, target)
// pair, which makes the toggle an atomic insert-or-conflict.
type Like struct {
	ID        string    `gorm:"type:uuid;primary_key" json:"id"`
	LikedBy   string    `gorm:"type:uuid;not null;index" json:"likedBy"`
	VideoID   *string   `gorm:"type:uuid;index" json:"videoId,omitempty"`
	CommentID *string   `gorm:"type:uuid;index" json:"commentId,omitempty"`
	TweetID   *string   `gorm:"type:uuid;index" json:"tweetId,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	User User `gorm:"foreignKey:LikedBy" json:"-"`
}

func (l *Like) BeforeCreate(tx *gorm.DB) error {
	if l.ID == "" {
		l.ID = uuid.New().String()
	}
	return nil
}
