package repository

import (
	"time"

	"vidtube/pkg/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// PlaylistView is a playlist with derived totals over its published videos.
type PlaylistView struct {
	ID             string    `gorm:"column:id" json:"id"`
	Name           string    `gorm:"column:name" json:"name"`
	Description    string    `gorm:"column:description" json:"description"`
	OwnerID        string    `gorm:"column:owner_id" json:"ownerId"`
	OwnerUsername  string    `gorm:"column:owner_username" json:"ownerUsername"`
	OwnerFullName  string    `gorm:"column:owner_full_name" json:"ownerFullName"`
	OwnerAvatarURL string    `gorm:"column:owner_avatar_url" json:"ownerAvatarUrl"`
	TotalVideos    int64     `gorm:"column:total_videos" json:"totalVideos"`
	TotalViews     int64     `gorm:"column:total_views" json:"totalViews"`
	CreatedAt      time.Time `gorm:"column:created_at" json:"createdAt"`
	UpdatedAt      time.Time `gorm:"column:updated_at" json:"updatedAt"`
}

type PlaylistVideoView struct {
	VideoID      string    `gorm:"column:video_id" json:"videoId"`
	Title        string    `gorm:"column:title" json:"title"`
	Description  string    `gorm:"column:description" json:"description"`
	VideoURL     string    `gorm:"column:video_url" json:"videoUrl"`
	ThumbnailURL string    `gorm:"column:thumbnail_url" json:"thumbnailUrl"`
	Duration     float64   `gorm:"column:duration" json:"duration"`
	Views        int64     `gorm:"column:views" json:"views"`
	Position     int       `gorm:"column:position" json:"position"`
	CreatedAt    time.Time `gorm:"column:created_at" json:"createdAt"`
}

type PlaylistRepository interface {
	Create(playlist *models.Playlist) error
	GetByID(id string) (*models.Playlist, error)
	GetView(id string) (*PlaylistView, error)
	GetVideos(playlistID string) ([]*PlaylistVideoView, error)
	ListForUser(ownerID string) ([]*PlaylistView, error)
	Update(playlist *models.Playlist) error
	Delete(id string) error
	AddVideo(playlistID, videoID string) error
	RemoveVideo(playlistID, videoID string) error
}

type playlistRepository struct {
	db *gorm.DB
}

func NewPlaylistRepository(db *gorm.DB) PlaylistRepository {
	return &playlistRepository{db: db}
}

func (r *playlistRepository) Create(playlist *models.Playlist) error {
	return r.db.Create(playlist).Error
}

func (r *playlistRepository) GetByID(id string) (*models.Playlist, error) {
	var playlist models.Playlist
	if err := r.db.Where("id = ?", id).First(&playlist).Error; err != nil {
		return nil, err
	}
	return &playlist, nil
}

const playlistViewSelect = `playlists.id, playlists.name, playlists.description, playlists.owner_id,
	playlists.created_at, playlists.updated_at,
	users.username AS owner_username, users.full_name AS owner_full_name, users.avatar_url AS owner_avatar_url,
	(SELECT COUNT(*) FROM playlist_videos pv JOIN videos v ON v.id = pv.video_id
		WHERE pv.playlist_id = playlists.id AND v.is_published) AS total_videos,
	(SELECT COALESCE(SUM(v.views), 0) FROM playlist_videos pv JOIN videos v ON v.id = pv.video_id
		WHERE pv.playlist_id = playlists.id AND v.is_published) AS total_views`

func (r *playlistRepository) GetView(id string) (*PlaylistView, error) {
	var view PlaylistView
	err := r.db.Table("playlists").
		Select(playlistViewSelect).
		Joins("JOIN users ON users.id = playlists.owner_id").
		Where("playlists.id = ?", id).
		Scan(&view).Error
	if err != nil {
		return nil, err
	}
	if view.ID == "" {
		return nil, gorm.ErrRecordNotFound
	}
	return &view, nil
}

func (r *playlistRepository) GetVideos(playlistID string) ([]*PlaylistVideoView, error) {
	var views []*PlaylistVideoView
	err := r.db.Table("playlist_videos").
		Select(`playlist_videos.video_id, playlist_videos.position,
			videos.title, videos.description, videos.video_url, videos.thumbnail_url,
			videos.duration, videos.views, videos.created_at`).
		Joins("JOIN videos ON videos.id = playlist_videos.video_id").
		Where("playlist_videos.playlist_id = ? AND videos.is_published = ?", playlistID, true).
		Order("playlist_videos.position ASC, playlist_videos.created_at ASC").
		Scan(&views).Error
	if err != nil {
		return nil, err
	}
	return views, nil
}

func (r *playlistRepository) ListForUser(ownerID string) ([]*PlaylistView, error) {
	var views []*PlaylistView
	err := r.db.Table("playlists").
		Select(playlistViewSelect).
		Joins("JOIN users ON users.id = playlists.owner_id").
		Where("playlists.owner_id = ?", ownerID).
		Order("playlists.created_at DESC").
		Scan(&views).Error
	if err != nil {
		return nil, err
	}
	return views, nil
}

func (r *playlistRepository) Update(playlist *models.Playlist) error {
	return r.db.Save(playlist).Error
}

func (r *playlistRepository) Delete(id string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("playlist_id = ?", id).Delete(&models.PlaylistVideo{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Playlist{}, "id = ?", id).Error
	})
}

// AddVideo appends with add-to-set semantics: re-adding an existing member
// is a no-op, resolved by the unique (playlist_id, video_id) index.
func (r *playlistRepository) AddVideo(playlistID, videoID string) error {
	var next int64
	if err := r.db.Model(&models.PlaylistVideo{}).Where("playlist_id = ?", playlistID).Count(&next).Error; err != nil {
		return err
	}
	row := &models.PlaylistVideo{
		PlaylistID: playlistID,
		VideoID:    videoID,
		Position:   int(next),
	}
	return r.db.Clauses(clause.OnConflict{DoNothing: true}).Create(row).Error
}

func (r *playlistRepository) RemoveVideo(playlistID, videoID string) error {
	return r.db.Where("playlist_id = ? AND video_id = ?", playlistID, videoID).
		Delete(&models.PlaylistVideo{}).Error
}
