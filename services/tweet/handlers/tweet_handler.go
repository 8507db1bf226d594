package handlers

import (
	"errors"
	"net/http"
	"strings"

	"vidtube/pkg/logger"
	"vidtube/pkg/models"
	"vidtube/pkg/response"
	"vidtube/services/tweet/repository"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type TweetHandler struct {
	tweetRepo repository.TweetRepository
	logger    *logger.Logger
}

func NewTweetHandler(tweetRepo repository.TweetRepository, logger *logger.Logger) *TweetHandler {
	return &TweetHandler{tweetRepo: tweetRepo, logger: logger}
}

type TweetRequest struct {
	Content string `json:"content" binding:"required"`
}

// CreateTweet godoc
// @Summary      Post a tweet
// @Tags         tweets
// @Security     BearerAuth
// @Param        request body TweetRequest true "Tweet content"
// @Success      201  {object}  response.APIResponse
// @Failure      400  {object}  response.APIError
// @Router       /tweets [post]
func (h *TweetHandler) CreateTweet(c *gin.Context) {
	var req TweetRequest
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Content) == "" {
		response.Error(c, http.StatusBadRequest, "Content is required")
		return
	}

	tweet := &models.Tweet{
		Content: strings.TrimSpace(req.Content),
		OwnerID: c.GetString("user_id"),
	}
	if err := h.tweetRepo.Create(tweet); err != nil {
		h.logger.Error("Failed to create tweet: %v", err)
		response.Error(c, http.StatusInternalServerError, "Failed to create tweet")
		return
	}

	response.Success(c, http.StatusCreated, tweet, "Tweet created successfully")
}

// GetUserTweets godoc
// @Summary      List a user's tweets, newest first
// @Tags         tweets
// @Param        userId path string true "Owner id"
// @Success      200  {object}  response.APIResponse
// @Router       /tweets/user/{userId} [get]
func (h *TweetHandler) GetUserTweets(c *gin.Context) {
	ownerID := c.Param("userId")
	if uuid.Validate(ownerID) != nil {
		response.Error(c, http.StatusBadRequest, "Invalid user id")
		return
	}

	views, err := h.tweetRepo.ListForUser(ownerID, c.GetString("user_id"))
	if err != nil {
		h.logger.Error("Failed to list tweets: %v", err)
		response.Error(c, http.StatusInternalServerError, "Failed to fetch tweets")
		return
	}

	response.Success(c, http.StatusOK, views, "Tweets fetched successfully")
}

// UpdateTweet godoc
// @Summary      Edit a tweet you own
// @Tags         tweets
// @Security     BearerAuth
// @Param        tweetId path string true "Tweet id"
// @Param        request body TweetRequest true "New content"
// @Success      200  {object}  response.APIResponse
// @Failure      403  {object}  response.APIError
// @Failure      404  {object}  response.APIError
// @Router       /tweets/{tweetId} [patch]
func (h *TweetHandler) UpdateTweet(c *gin.Context) {
	tweetID := c.Param("tweetId")
	if uuid.Validate(tweetID) != nil {
		response.Error(c, http.StatusBadRequest, "Invalid tweet id")
		return
	}

	var req TweetRequest
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Content) == "" {
		response.Error(c, http.StatusBadRequest, "Content is required")
		return
	}

	tweet, err := h.tweetRepo.GetByID(tweetID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			response.Error(c, http.StatusNotFound, "Tweet not found")
			return
		}
		h.logger.Error("Failed to fetch tweet: %v", err)
		response.Error(c, http.StatusInternalServerError, "Failed to update tweet")
		return
	}
	if tweet.OwnerID != c.GetString("user_id") {
		response.Error(c, http.StatusForbidden, "Only the owner can edit this tweet")
		return
	}

	tweet.Content = strings.TrimSpace(req.Content)
	if err := h.tweetRepo.Update(tweet); err != nil {
		h.logger.Error("Failed to update tweet: %v", err)
		response.Error(c, http.StatusInternalServerError, "Failed to update tweet")
		return
	}

	response.Success(c, http.StatusOK, tweet, "Tweet updated successfully")
}

// DeleteTweet godoc
// @Summary      Delete a tweet you own
// @Tags         tweets
// @Security     BearerAuth
// @Param        tweetId path string true "Tweet id"
// @Success      200  {object}  response.APIResponse
// @Failure      403  {object}  response.APIError
// @Failure      404  {object}  response.APIError
// @Router       /tweets/{tweetId} [delete]
func (h *TweetHandler) DeleteTweet(c *gin.Context) {
	tweetID := c.Param("tweetId")
	if uuid.Validate(tweetID) != nil {
		response.Error(c, http.StatusBadRequest, "Invalid tweet id")
		return
	}

	tweet, err := h.tweetRepo.GetByID(tweetID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			response.Error(c, http.StatusNotFound, "Tweet not found")
			return
		}
		h.logger.Error("Failed to fetch tweet: %v", err)
		response.Error(c, http.StatusInternalServerError, "Failed to delete tweet")
		return
	}
	if tweet.OwnerID != c.GetString("user_id") {
		response.Error(c, http.StatusForbidden, "Only the owner can delete this tweet")
		return
	}

	if err := h.tweetRepo.Delete(tweetID); err != nil {
		h.logger.Error("Failed to delete tweet: %v", err)
		response.Error(c, http.StatusInternalServerError, "Failed to delete tweet")
		return
	}

	response.Success(c, http.StatusOK, gin.H{}, "Tweet deleted successfully")
}
