package repository

import (
	"time"

	"vidtube/pkg/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// VideoListItem is one row of the public listing: video columns plus the
// trimmed owner snippet, produced by a single joined query.
type VideoListItem struct {
	ID             string    `gorm:"column:id" json:"id"`
	Title          string    `gorm:"column:title" json:"title"`
	Description    string    `gorm:"column:description" json:"description"`
	ThumbnailURL   string    `gorm:"column:thumbnail_url" json:"thumbnailUrl"`
	VideoURL       string    `gorm:"column:video_url" json:"videoUrl"`
	Duration       float64   `gorm:"column:duration" json:"duration"`
	Views          int64     `gorm:"column:views" json:"views"`
	OwnerID        string    `gorm:"column:owner_id" json:"ownerId"`
	OwnerUsername  string    `gorm:"column:owner_username" json:"ownerUsername"`
	OwnerAvatarURL string    `gorm:"column:owner_avatar_url" json:"ownerAvatarUrl"`
	CreatedAt      time.Time `gorm:"column:created_at" json:"createdAt"`
}

// VideoDetailView joins like count, the viewer's isLiked flag and the owner
// enriched with subscriber count and the viewer's isSubscribed flag.
type VideoDetailView struct {
	ID                    string    `gorm:"column:id" json:"id"`
	Title                 string    `gorm:"column:title" json:"title"`
	Description           string    `gorm:"column:description" json:"description"`
	VideoURL              string    `gorm:"column:video_url" json:"videoUrl"`
	ThumbnailURL          string    `gorm:"column:thumbnail_url" json:"thumbnailUrl"`
	Duration              float64   `gorm:"column:duration" json:"duration"`
	Views                 int64     `gorm:"column:views" json:"views"`
	IsPublished           bool      `gorm:"column:is_published" json:"isPublished"`
	LikesCount            int64     `gorm:"column:likes_count" json:"likesCount"`
	IsLiked               bool      `gorm:"column:is_liked" json:"isLiked"`
	OwnerID               string    `gorm:"column:owner_id" json:"ownerId"`
	OwnerUsername         string    `gorm:"column:owner_username" json:"ownerUsername"`
	OwnerFullName         string    `gorm:"column:owner_full_name" json:"ownerFullName"`
	OwnerAvatarURL        string    `gorm:"column:owner_avatar_url" json:"ownerAvatarUrl"`
	OwnerSubscribersCount int64     `gorm:"column:owner_subscribers_count" json:"ownerSubscribersCount"`
	IsSubscribed          bool      `gorm:"column:is_subscribed" json:"isSubscribed"`
	CreatedAt             time.Time `gorm:"column:created_at" json:"createdAt"`
}

type ListParams struct {
	Query    string
	OwnerID  string
	SortBy   string
	SortType string
	Limit    int
	Offset   int
}

var allowedSortFields = map[string]bool{
	"created_at": true,
	"views":      true,
	"duration":   true,
}

type VideoRepository interface {
	Create(video *models.Video) error
	GetByID(id string) (*models.Video, error)
	Exists(id string) (bool, error)
	GetDetail(videoID, viewerID string) (*VideoDetailView, error)
	List(params ListParams) ([]*VideoListItem, int64, error)
	Update(video *models.Video) error
	SetPublished(id string, published bool) error
	Delete(id string) error
	IncrementViews(id string) error
}

type videoRepository struct {
	db *gorm.DB
}

func NewVideoRepository(db *gorm.DB) VideoRepository {
	return &videoRepository{db: db}
}

func (r *videoRepository) Create(video *models.Video) error {
	return r.db.Create(video).Error
}

func (r *videoRepository) GetByID(id string) (*models.Video, error) {
	var video models.Video
	if err := r.db.Where("id = ?", id).First(&video).Error; err != nil {
		return nil, err
	}
	return &video, nil
}

func (r *videoRepository) Exists(id string) (bool, error) {
	var count int64
	err := r.db.Model(&models.Video{}).Where("id = ?", id).Count(&count).Error
	return count > 0, err
}

func (r *videoRepository) GetDetail(videoID, viewerID string) (*VideoDetailView, error) {
	var view VideoDetailView
	err := r.db.Raw(`
		SELECT v.id, v.title, v.description, v.video_url, v.thumbnail_url, v.duration,
			v.views, v.is_published, v.owner_id, v.created_at,
			(SELECT COUNT(*) FROM likes l WHERE l.video_id = v.id) AS likes_count,
			EXISTS(SELECT 1 FROM likes l WHERE l.video_id = v.id AND l.liked_by::text = ?) AS is_liked,
			u.username AS owner_username, u.full_name AS owner_full_name, u.avatar_url AS owner_avatar_url,
			(SELECT COUNT(*) FROM subscriptions s WHERE s.channel_id = v.owner_id) AS owner_subscribers_count,
			EXISTS(SELECT 1 FROM subscriptions s WHERE s.channel_id = v.owner_id AND s.subscriber_id::text = ?) AS is_subscribed
		FROM videos v
		JOIN users u ON u.id = v.owner_id
		WHERE v.id = ?`,
		viewerID, viewerID, videoID,
	).Scan(&view).Error
	if err != nil {
		return nil, err
	}
	if view.ID == "" {
		return nil, gorm.ErrRecordNotFound
	}
	return &view, nil
}

func (r *videoRepository) List(params ListParams) ([]*VideoListItem, int64, error) {
	base := r.db.Table("videos").Where("videos.is_published = ?", true)

	if params.Query != "" {
		pattern := "%" + params.Query + "%"
		base = base.Where("(videos.title ILIKE ? OR videos.description ILIKE ?)", pattern, pattern)
	}
	if params.OwnerID != "" {
		base = base.Where("videos.owner_id = ?", params.OwnerID)
	}

	var total int64
	if err := base.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	sortBy := params.SortBy
	if !allowedSortFields[sortBy] {
		sortBy = "created_at"
	}
	direction := "DESC"
	if params.SortType == "asc" {
		direction = "ASC"
	}

	var items []*VideoListItem
	err := base.Session(&gorm.Session{}).
		Select(`videos.id, videos.title, videos.description, videos.thumbnail_url, videos.video_url,
			videos.duration, videos.views, videos.owner_id, videos.created_at,
			users.username AS owner_username, users.avatar_url AS owner_avatar_url`).
		Joins("JOIN users ON users.id = videos.owner_id").
		Order("videos." + sortBy + " " + direction).
		Limit(params.Limit).
		Offset(params.Offset).
		Scan(&items).Error
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func (r *videoRepository) Update(video *models.Video) error {
	return r.db.Save(video).Error
}

func (r *videoRepository) SetPublished(id string, published bool) error {
	return r.db.Model(&models.Video{}).Where("id = ?", id).Update("is_published", published).Error
}

// Delete removes the video and everything referencing it: likes (including
// likes on its comments), comments, playlist memberships and watch-history
// rows, in one transaction.
func (r *videoRepository) Delete(id string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("comment_id IN (SELECT id FROM comments WHERE video_id = ?)", id).
			Delete(&models.Like{}).Error; err != nil {
			return err
		}
		if err := tx.Where("video_id = ?", id).Delete(&models.Like{}).Error; err != nil {
			return err
		}
		if err := tx.Where("video_id = ?", id).Delete(&models.Comment{}).Error; err != nil {
			return err
		}
		if err := tx.Where("video_id = ?", id).Delete(&models.PlaylistVideo{}).Error; err != nil {
			return err
		}
		if err := tx.Where("video_id = ?", id).Delete(&models.WatchHistory{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Video{}, "id = ?", id).Error
	})
}

func (r *videoRepository) IncrementViews(id string) error {
	return r.db.Model(&models.Video{}).Where("id = ?", id).
		UpdateColumn("views", clause.Expr{SQL: "views + ?", Vars: []interface{}{1}}).Error
}
