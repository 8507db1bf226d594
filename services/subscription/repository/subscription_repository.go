package repository

import (
	"time"

	"vidtube/pkg/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ChannelSnippet struct {
	ID           string    `gorm:"column:id" json:"id"`
	Username     string    `gorm:"column:username" json:"username"`
	FullName     string    `gorm:"column:full_name" json:"fullName"`
	AvatarURL    string    `gorm:"column:avatar_url" json:"avatarUrl"`
	SubscribedAt time.Time `gorm:"column:subscribed_at" json:"subscribedAt"`
}

type SubscriptionRepository interface {
	Toggle(subscriberID, channelID string) (bool, error)
	ListSubscribers(channelID string) ([]*ChannelSnippet, error)
	ListSubscribedChannels(subscriberID string) ([]*ChannelSnippet, error)
}

type subscriptionRepository struct {
	db *gorm.DB
}

func NewSubscriptionRepository(db *gorm.DB) SubscriptionRepository {
	return &subscriptionRepository{db: db}
}

// Toggle is delete-if-present, else insert-on-conflict-do-nothing against
// the unique (subscriber_id, channel_id) index. Returns the resulting
// subscribed state.
func (r *subscriptionRepository) Toggle(subscriberID, channelID string) (bool, error) {
	res := r.db.Where("subscriber_id = ? AND channel_id = ?", subscriberID, channelID).
		Delete(&models.Subscription{})
	if res.Error != nil {
		return false, res.Error
	}
	if res.RowsAffected > 0 {
		return false, nil
	}

	sub := &models.Subscription{SubscriberID: subscriberID, ChannelID: channelID}
	if err := r.db.Clauses(clause.OnConflict{DoNothing: true}).Create(sub).Error; err != nil {
		return false, err
	}
	return true, nil
}

func (r *subscriptionRepository) ListSubscribers(channelID string) ([]*ChannelSnippet, error) {
	var snippets []*ChannelSnippet
	err := r.db.Table("subscriptions").
		Select(`users.id, users.username, users.full_name, users.avatar_url,
			subscriptions.created_at AS subscribed_at`).
		Joins("JOIN users ON users.id = subscriptions.subscriber_id").
		Where("subscriptions.channel_id = ?", channelID).
		Order("subscriptions.created_at DESC").
		Scan(&snippets).Error
	if err != nil {
		return nil, err
	}
	return snippets, nil
}

func (r *subscriptionRepository) ListSubscribedChannels(subscriberID string) ([]*ChannelSnippet, error) {
	var snippets []*ChannelSnippet
	err := r.db.Table("subscriptions").
		Select(`users.id, users.username, users.full_name, users.avatar_url,
			subscriptions.created_at AS subscribed_at`).
		Joins("JOIN users ON users.id = subscriptions.channel_id").
		Where("subscriptions.subscriber_id = ?", subscriberID).
		Order("subscriptions.created_at DESC").
		Scan(&snippets).Error
	if err != nil {
		return nil, err
	}
	return snippets, nil
}
