package repository

import (
	"time"

	"vidtube/pkg/models"

	"gorm.io/gorm"
)

type TweetView struct {
	ID             string    `gorm:"column:id" json:"id"`
	Content        string    `gorm:"column:content" json:"content"`
	OwnerID        string    `gorm:"column:owner_id" json:"ownerId"`
	OwnerUsername  string    `gorm:"column:owner_username" json:"ownerUsername"`
	OwnerAvatarURL string    `gorm:"column:owner_avatar_url" json:"ownerAvatarUrl"`
	LikesCount     int64     `gorm:"column:likes_count" json:"likesCount"`
	IsLiked        bool      `gorm:"column:is_liked" json:"isLiked"`
	CreatedAt      time.Time `gorm:"column:created_at" json:"createdAt"`
}

type TweetRepository interface {
	Create(tweet *models.Tweet) error
	GetByID(id string) (*models.Tweet, error)
	Exists(id string) (bool, error)
	ListForUser(ownerID, viewerID string) ([]*TweetView, error)
	Update(tweet *models.Tweet) error
	Delete(id string) error
}

type tweetRepository struct {
	db *gorm.DB
}

func NewTweetRepository(db *gorm.DB) TweetRepository {
	return &tweetRepository{db: db}
}

func (r *tweetRepository) Create(tweet *models.Tweet) error {
	return r.db.Create(tweet).Error
}

func (r *tweetRepository) GetByID(id string) (*models.Tweet, error) {
	var tweet models.Tweet
	if err := r.db.Where("id = ?", id).First(&tweet).Error; err != nil {
		return nil, err
	}
	return &tweet, nil
}

func (r *tweetRepository) Exists(id string) (bool, error) {
	var count int64
	err := r.db.Model(&models.Tweet{}).Where("id = ?", id).Count(&count).Error
	return count > 0, err
}

func (r *tweetRepository) ListForUser(ownerID, viewerID string) ([]*TweetView, error) {
	var views []*TweetView
	err := r.db.Table("tweets").
		Select(`tweets.id, tweets.content, tweets.owner_id, tweets.created_at,
			users.username AS owner_username, users.avatar_url AS owner_avatar_url,
			(SELECT COUNT(*) FROM likes l WHERE l.tweet_id = tweets.id) AS likes_count,
			EXISTS(SELECT 1 FROM likes l WHERE l.tweet_id = tweets.id AND l.liked_by::text = ?) AS is_liked`,
			viewerID).
		Joins("JOIN users ON users.id = tweets.owner_id").
		Where("tweets.owner_id = ?", ownerID).
		Order("tweets.created_at DESC").
		Scan(&views).Error
	if err != nil {
		return nil, err
	}
	return views, nil
}

func (r *tweetRepository) Update(tweet *models.Tweet) error {
	return r.db.Save(tweet).Error
}

// Delete removes the tweet together with its likes.
func (r *tweetRepository) Delete(id string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("tweet_id = ?", id).Delete(&models.Like{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Tweet{}, "id = ?", id).Error
	})
}
