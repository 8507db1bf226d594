package repository

import (
	"time"

	"vidtube/pkg/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// LikedVideoView is a liked, published video with its owner snippet,
// ordered by when the viewer liked it.
type LikedVideoView struct {
	VideoID        string    `gorm:"column:video_id" json:"videoId"`
	Title          string    `gorm:"column:title" json:"title"`
	Description    string    `gorm:"column:description" json:"description"`
	VideoURL       string    `gorm:"column:video_url" json:"videoUrl"`
	ThumbnailURL   string    `gorm:"column:thumbnail_url" json:"thumbnailUrl"`
	Duration       float64   `gorm:"column:duration" json:"duration"`
	Views          int64     `gorm:"column:views" json:"views"`
	OwnerID        string    `gorm:"column:owner_id" json:"ownerId"`
	OwnerUsername  string    `gorm:"column:owner_username" json:"ownerUsername"`
	OwnerFullName  string    `gorm:"column:owner_full_name" json:"ownerFullName"`
	OwnerAvatarURL string    `gorm:"column:owner_avatar_url" json:"ownerAvatarUrl"`
	LikedAt        time.Time `gorm:"column:liked_at" json:"likedAt"`
}

type LikeRepository interface {
	ToggleVideoLike(userID, videoID string) (bool, error)
	ToggleCommentLike(userID, commentID string) (bool, error)
	ToggleTweetLike(userID, tweetID string) (bool, error)
	GetLikedVideos(userID string, limit, offset int) ([]*LikedVideoView, error)
}

type likeRepository struct {
	db *gorm.DB
}

func NewLikeRepository(db *gorm.DB) LikeRepository {
	return &likeRepository{db: db}
}

// toggle deletes a matching like if present, otherwise inserts one. The
// insert carries ON CONFLICT DO NOTHING so a concurrent duplicate resolves
// against the partial unique index instead of racing a prior existence
// check. Returns the resulting liked state.
func (r *likeRepository) toggle(userID string, like *models.Like, targetColumn, targetID string) (bool, error) {
	res := r.db.Where("liked_by = ? AND "+targetColumn+" = ?", userID, targetID).Delete(&models.Like{})
	if res.Error != nil {
		return false, res.Error
	}
	if res.RowsAffected > 0 {
		return false, nil
	}

	if err := r.db.Clauses(clause.OnConflict{DoNothing: true}).Create(like).Error; err != nil {
		return false, err
	}
	return true, nil
}

func (r *likeRepository) ToggleVideoLike(userID, videoID string) (bool, error) {
	like := &models.Like{LikedBy: userID, VideoID: &videoID}
	return r.toggle(userID, like, "video_id", videoID)
}

func (r *likeRepository) ToggleCommentLike(userID, commentID string) (bool, error) {
	like := &models.Like{LikedBy: userID, CommentID: &commentID}
	return r.toggle(userID, like, "comment_id", commentID)
}

func (r *likeRepository) ToggleTweetLike(userID, tweetID string) (bool, error) {
	like := &models.Like{LikedBy: userID, TweetID: &tweetID}
	return r.toggle(userID, like, "tweet_id", tweetID)
}

func (r *likeRepository) GetLikedVideos(userID string, limit, offset int) ([]*LikedVideoView, error) {
	var views []*LikedVideoView
	query := r.db.Table("likes").
		Select(`likes.video_id, likes.created_at AS liked_at,
			videos.title, videos.description, videos.video_url, videos.thumbnail_url,
			videos.duration, videos.views, videos.owner_id,
			users.username AS owner_username, users.full_name AS owner_full_name, users.avatar_url AS owner_avatar_url`).
		Joins("JOIN videos ON videos.id = likes.video_id").
		Joins("JOIN users ON users.id = videos.owner_id").
		Where("likes.liked_by = ? AND likes.video_id IS NOT NULL AND videos.is_published = ?", userID, true).
		Order("likes.created_at DESC")

	if limit > 0 {
		query = query.Limit(limit).Offset(offset)
	}

	if err := query.Scan(&views).Error; err != nil {
		return nil, err
	}
	return views, nil
}
