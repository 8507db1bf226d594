package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Playlist struct {
	ID          string    `gorm:"type:uuid;primary_key" json:"id"`
	OwnerID     string    `gorm:"type:uuid;not null;index" json:"ownerId"`
	Name        string    `gorm:"not null" json:"name"`
	Description string    `gorm:"not null" json:"description"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`

	Owner User `gorm:"foreignKey:OwnerID" json:"-"`
}

func (p *Playlist) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	return nil
}

// PlaylistVideo is the ordered-set membership row. The unique
// (playlist_id, video_id) index gives add-to-set semantics.
type PlaylistVideo struct {
	ID         string    `gorm:"type:uuid;primary_key" json:"id"`
	PlaylistID string    `gorm:"type:uuid;not null;uniqueIndex:idx_playlist_video" json:"playlistId"`
	VideoID    string    `gorm:"type:uuid;not null;uniqueIndex:idx_playlist_video" json:"videoId"`
	Position   int       `gorm:"default:0" json:"position"`
	CreatedAt  time.Time `json:"createdAt"`

	Playlist Playlist `gorm:"foreignKey:PlaylistID" json:"-"`
	Video    Video    `gorm:"foreignKey:VideoID" json:"-"`
}

func (pv *PlaylistVideo) BeforeCreate(tx *gorm.DB) error {
	if pv.ID == "" {
		pv.ID = uuid.New().String()
	}
	return nil
}
