package repository

import (
	"time"

	"vidtube/pkg/models"

	"gorm.io/gorm"
)

// CommentView joins the owner snippet, like count and the viewer's isLiked
// flag in one statement.
type CommentView struct {
	ID             string    `gorm:"column:id" json:"id"`
	Content        string    `gorm:"column:content" json:"content"`
	VideoID        string    `gorm:"column:video_id" json:"videoId"`
	OwnerID        string    `gorm:"column:owner_id" json:"ownerId"`
	OwnerUsername  string    `gorm:"column:owner_username" json:"ownerUsername"`
	OwnerFullName  string    `gorm:"column:owner_full_name" json:"ownerFullName"`
	OwnerAvatarURL string    `gorm:"column:owner_avatar_url" json:"ownerAvatarUrl"`
	LikesCount     int64     `gorm:"column:likes_count" json:"likesCount"`
	IsLiked        bool      `gorm:"column:is_liked" json:"isLiked"`
	CreatedAt      time.Time `gorm:"column:created_at" json:"createdAt"`
}

type CommentRepository interface {
	Create(comment *models.Comment) error
	GetByID(id string) (*models.Comment, error)
	Exists(id string) (bool, error)
	ListForVideo(videoID, viewerID string, limit, offset int) ([]*CommentView, int64, error)
	Update(comment *models.Comment) error
	Delete(id string) error
}

type commentRepository struct {
	db *gorm.DB
}

func NewCommentRepository(db *gorm.DB) CommentRepository {
	return &commentRepository{db: db}
}

func (r *commentRepository) Create(comment *models.Comment) error {
	return r.db.Create(comment).Error
}

func (r *commentRepository) GetByID(id string) (*models.Comment, error) {
	var comment models.Comment
	if err := r.db.Where("id = ?", id).First(&comment).Error; err != nil {
		return nil, err
	}
	return &comment, nil
}

func (r *commentRepository) Exists(id string) (bool, error) {
	var count int64
	err := r.db.Model(&models.Comment{}).Where("id = ?", id).Count(&count).Error
	return count > 0, err
}

func (r *commentRepository) ListForVideo(videoID, viewerID string, limit, offset int) ([]*CommentView, int64, error) {
	var total int64
	if err := r.db.Model(&models.Comment{}).Where("video_id = ?", videoID).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var views []*CommentView
	query := r.db.Table("comments").
		Select(`comments.id, comments.content, comments.video_id, comments.owner_id, comments.created_at,
			users.username AS owner_username, users.full_name AS owner_full_name, users.avatar_url AS owner_avatar_url,
			(SELECT COUNT(*) FROM likes l WHERE l.comment_id = comments.id) AS likes_count,
			EXISTS(SELECT 1 FROM likes l WHERE l.comment_id = comments.id AND l.liked_by::text = ?) AS is_liked`,
			viewerID).
		Joins("JOIN users ON users.id = comments.owner_id").
		Where("comments.video_id = ?", videoID).
		Order("comments.created_at DESC")

	if limit > 0 {
		query = query.Limit(limit).Offset(offset)
	}

	if err := query.Scan(&views).Error; err != nil {
		return nil, 0, err
	}
	return views, total, nil
}

func (r *commentRepository) Update(comment *models.Comment) error {
	return r.db.Save(comment).Error
}

// Delete removes the comment together with its likes.
func (r *commentRepository) Delete(id string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("comment_id = ?", id).Delete(&models.Like{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Comment{}, "id = ?", id).Error
	})
}
