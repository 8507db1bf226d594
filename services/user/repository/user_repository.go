package repository

import (
	"strings"
	"time"

	"vidtube/pkg/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ChannelProfileView is the viewer-aware channel projection: counts come
// from subqueries and isSubscribed from a set-membership test against the
// viewer identity, all in one statement.
type ChannelProfileView struct {
	ID                        string    `gorm:"column:id" json:"id"`
	Username                  string    `gorm:"column:username" json:"username"`
	FullName                  string    `gorm:"column:full_name" json:"fullName"`
	Email                     string    `gorm:"column:email" json:"email"`
	AvatarURL                 string    `gorm:"column:avatar_url" json:"avatarUrl"`
	CoverImageURL             string    `gorm:"column:cover_image_url" json:"coverImageUrl"`
	SubscribersCount          int64     `gorm:"column:subscribers_count" json:"subscribersCount"`
	ChannelsSubscribedToCount int64     `gorm:"column:channels_subscribed_to_count" json:"channelsSubscribedToCount"`
	IsSubscribed              bool      `gorm:"column:is_subscribed" json:"isSubscribed"`
	CreatedAt                 time.Time `gorm:"column:created_at" json:"createdAt"`
}

type WatchHistoryView struct {
	VideoID        string    `gorm:"column:video_id" json:"videoId"`
	Title          string    `gorm:"column:title" json:"title"`
	Description    string    `gorm:"column:description" json:"description"`
	ThumbnailURL   string    `gorm:"column:thumbnail_url" json:"thumbnailUrl"`
	Duration       float64   `gorm:"column:duration" json:"duration"`
	Views          int64     `gorm:"column:views" json:"views"`
	OwnerID        string    `gorm:"column:owner_id" json:"ownerId"`
	OwnerUsername  string    `gorm:"column:owner_username" json:"ownerUsername"`
	OwnerFullName  string    `gorm:"column:owner_full_name" json:"ownerFullName"`
	OwnerAvatarURL string    `gorm:"column:owner_avatar_url" json:"ownerAvatarUrl"`
	WatchedAt      time.Time `gorm:"column:watched_at" json:"watchedAt"`
}

type UserRepository interface {
	Create(user *models.User) error
	GetByID(id string) (*models.User, error)
	GetByUsernameOrEmail(identifier string) (*models.User, error)
	UpdateRefreshToken(userID, token string) error
	UpdatePassword(userID, hashedPassword string) error
	UpdateAccount(userID, fullName, email string) (*models.User, error)
	UpdateAvatar(userID, key, url string) (*models.User, error)
	UpdateCoverImage(userID, key, url string) (*models.User, error)
	GetChannelProfile(username, viewerID string) (*ChannelProfileView, error)
	GetWatchHistory(userID string, limit, offset int) ([]*WatchHistoryView, error)
	AddToWatchHistory(userID, videoID string) error
}

type userRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(user *models.User) error {
	return r.db.Create(user).Error
}

func (r *userRepository) GetByID(id string) (*models.User, error) {
	var user models.User
	if err := r.db.Where("id = ?", id).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) GetByUsernameOrEmail(identifier string) (*models.User, error) {
	var user models.User
	identifier = strings.ToLower(strings.TrimSpace(identifier))
	if err := r.db.Where("username = ? OR email = ?", identifier, identifier).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) UpdateRefreshToken(userID, token string) error {
	return r.db.Model(&models.User{}).Where("id = ?", userID).Update("refresh_token", token).Error
}

func (r *userRepository) UpdatePassword(userID, hashedPassword string) error {
	return r.db.Model(&models.User{}).Where("id = ?", userID).Update("password", hashedPassword).Error
}

func (r *userRepository) UpdateAccount(userID, fullName, email string) (*models.User, error) {
	updates := map[string]interface{}{}
	if fullName != "" {
		updates["full_name"] = fullName
	}
	if email != "" {
		updates["email"] = strings.ToLower(email)
	}
	if len(updates) > 0 {
		if err := r.db.Model(&models.User{}).Where("id = ?", userID).Updates(updates).Error; err != nil {
			return nil, err
		}
	}
	return r.GetByID(userID)
}

func (r *userRepository) UpdateAvatar(userID, key, url string) (*models.User, error) {
	err := r.db.Model(&models.User{}).Where("id = ?", userID).Updates(map[string]interface{}{
		"avatar_key": key,
		"avatar_url": url,
	}).Error
	if err != nil {
		return nil, err
	}
	return r.GetByID(userID)
}

func (r *userRepository) UpdateCoverImage(userID, key, url string) (*models.User, error) {
	err := r.db.Model(&models.User{}).Where("id = ?", userID).Updates(map[string]interface{}{
		"cover_image_key": key,
		"cover_image_url": url,
	}).Error
	if err != nil {
		return nil, err
	}
	return r.GetByID(userID)
}

func (r *userRepository) GetChannelProfile(username, viewerID string) (*ChannelProfileView, error) {
	var view ChannelProfileView
	err := r.db.Raw(`
		SELECT u.id, u.username, u.full_name, u.email, u.avatar_url, u.cover_image_url, u.created_at,
			(SELECT COUNT(*) FROM subscriptions s WHERE s.channel_id = u.id) AS subscribers_count,
			(SELECT COUNT(*) FROM subscriptions s WHERE s.subscriber_id = u.id) AS channels_subscribed_to_count,
			EXISTS(SELECT 1 FROM subscriptions s WHERE s.channel_id = u.id AND s.subscriber_id::text = ?) AS is_subscribed
		FROM users u
		WHERE u.username = ?`,
		viewerID, strings.ToLower(username),
	).Scan(&view).Error
	if err != nil {
		return nil, err
	}
	if view.ID == "" {
		return nil, gorm.ErrRecordNotFound
	}
	return &view, nil
}

func (r *userRepository) GetWatchHistory(userID string, limit, offset int) ([]*WatchHistoryView, error) {
	var views []*WatchHistoryView
	query := r.db.Table("watch_history").
		Select(`watch_history.video_id, watch_history.watched_at,
			videos.title, videos.description, videos.thumbnail_url, videos.duration, videos.views, videos.owner_id,
			users.username AS owner_username, users.full_name AS owner_full_name, users.avatar_url AS owner_avatar_url`).
		Joins("JOIN videos ON videos.id = watch_history.video_id").
		Joins("JOIN users ON users.id = videos.owner_id").
		Where("watch_history.user_id = ?", userID).
		Order("watch_history.watched_at DESC")

	if limit > 0 {
		query = query.Limit(limit).Offset(offset)
	}

	if err := query.Scan(&views).Error; err != nil {
		return nil, err
	}
	return views, nil
}

// AddToWatchHistory is add-to-set: re-watching refreshes watched_at so the
// history keeps recency order without growing per view.
func (r *userRepository) AddToWatchHistory(userID, videoID string) error {
	row := &models.WatchHistory{
		UserID:    userID,
		VideoID:   videoID,
		WatchedAt: time.Now(),
	}
	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "video_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{"watched_at": time.Now()}),
	}).Create(row).Error
}
