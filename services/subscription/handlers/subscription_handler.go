package handlers

import (
	"errors"
	"net/http"

	"vidtube/pkg/logger"
	"vidtube/pkg/queue"
	"vidtube/pkg/response"
	"vidtube/services/subscription/repository"
	userrepo "vidtube/services/user/repository"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type SubscriptionHandler struct {
	subscriptionRepo repository.SubscriptionRepository
	userRepo         userrepo.UserRepository
	queueClient      *queue.Client
	logger           *logger.Logger
}

func NewSubscriptionHandler(subscriptionRepo repository.SubscriptionRepository, userRepo userrepo.UserRepository,
	queueClient *queue.Client, logger *logger.Logger) *SubscriptionHandler {
	return &SubscriptionHandler{
		subscriptionRepo: subscriptionRepo,
		userRepo:         userRepo,
		queueClient:      queueClient,
		logger:           logger,
	}
}

func channelIDParam(c *gin.Context) (string, bool) {
	id := c.Param("channelId")
	if uuid.Validate(id) != nil {
		response.Error(c, http.StatusBadRequest, "Invalid channel id")
		return "", false
	}
	return id, true
}

// ToggleSubscription godoc
// @Summary      Subscribe to or unsubscribe from a channel
// @Tags         subscriptions
// @Security     BearerAuth
// @Param        channelId path string true "Channel id"
// @Success      200  {object}  response.APIResponse
// @Failure      400  {object}  response.APIError
// @Failure      404  {object}  response.APIError
// @Router       /subscriptions/c/{channelId} [post]
func (h *SubscriptionHandler) ToggleSubscription(c *gin.Context) {
	channelID, ok := channelIDParam(c)
	if !ok {
		return
	}
	userID := c.GetString("user_id")

	if channelID == userID {
		response.Error(c, http.StatusBadRequest, "You cannot subscribe to your own channel")
		return
	}

	if _, err := h.userRepo.GetByID(channelID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			response.Error(c, http.StatusNotFound, "Channel not found")
			return
		}
		h.logger.Error("Failed to check channel: %v", err)
		response.Error(c, http.StatusInternalServerError, "Failed to toggle subscription")
		return
	}

	subscribed, err := h.subscriptionRepo.Toggle(userID, channelID)
	if err != nil {
		h.logger.Error("Failed to toggle subscription: %v", err)
		response.Error(c, http.StatusInternalServerError, "Failed to toggle subscription")
		return
	}

	if subscribed && h.queueClient != nil {
		task := map[string]interface{}{
			"type":      "channel.subscribed",
			"channelId": channelID,
			"userId":    userID,
			"priority":  2,
		}
		go func() {
			if err := h.queueClient.PublishNotificationTask(task); err != nil {
				h.logger.Warn("Failed to publish notification task: %v", err)
			}
		}()
	}

	message := "Unsubscribed"
	if subscribed {
		message = "Subscribed"
	}
	response.Success(c, http.StatusOK, gin.H{"isSubscribed": subscribed}, message)
}

// GetChannelSubscribers godoc
// @Summary      List a channel's subscribers
// @Tags         subscriptions
// @Param        channelId path string true "Channel id"
// @Success      200  {object}  response.APIResponse
// @Router       /subscriptions/c/{channelId}/subscribers [get]
func (h *SubscriptionHandler) GetChannelSubscribers(c *gin.Context) {
	channelID, ok := channelIDParam(c)
	if !ok {
		return
	}

	snippets, err := h.subscriptionRepo.ListSubscribers(channelID)
	if err != nil {
		h.logger.Error("Failed to list subscribers: %v", err)
		response.Error(c, http.StatusInternalServerError, "Failed to fetch subscribers")
		return
	}

	response.Success(c, http.StatusOK, snippets, "Subscribers fetched successfully")
}

// GetSubscribedChannels godoc
// @Summary      List the channels the viewer subscribes to
// @Tags         subscriptions
// @Security     BearerAuth
// @Success      200  {object}  response.APIResponse
// @Router       /subscriptions/subscribed [get]
func (h *SubscriptionHandler) GetSubscribedChannels(c *gin.Context) {
	snippets, err := h.subscriptionRepo.ListSubscribedChannels(c.GetString("user_id"))
	if err != nil {
		h.logger.Error("Failed to list subscribed channels: %v", err)
		response.Error(c, http.StatusInternalServerError, "Failed to fetch subscriptions")
		return
	}

	response.Success(c, http.StatusOK, snippets, "Subscribed channels fetched successfully")
}
