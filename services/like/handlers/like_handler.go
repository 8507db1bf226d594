package handlers

import (
	"net/http"
	"strconv"

	"vidtube/pkg/logger"
	"vidtube/pkg/queue"
	"vidtube/pkg/response"
	commentrepo "vidtube/services/comment/repository"
	"vidtube/services/like/repository"
	tweetrepo "vidtube/services/tweet/repository"
	videorepo "vidtube/services/video/repository"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type LikeHandler struct {
	likeRepo    repository.LikeRepository
	videoRepo   videorepo.VideoRepository
	commentRepo commentrepo.CommentRepository
	tweetRepo   tweetrepo.TweetRepository
	queueClient *queue.Client
	logger      *logger.Logger
}

func NewLikeHandler(likeRepo repository.LikeRepository, videoRepo videorepo.VideoRepository,
	commentRepo commentrepo.CommentRepository, tweetRepo tweetrepo.TweetRepository,
	queueClient *queue.Client, logger *logger.Logger) *LikeHandler {
	return &LikeHandler{
		likeRepo:    likeRepo,
		videoRepo:   videoRepo,
		commentRepo: commentRepo,
		tweetRepo:   tweetRepo,
		queueClient: queueClient,
		logger:      logger,
	}
}

// toggleTarget runs the shared toggle flow: validate the id, check the
// target exists, flip the like and report the resulting state.
func (h *LikeHandler) toggleTarget(c *gin.Context, param, label string,
	exists func(string) (bool, error),
	toggle func(userID, targetID string) (bool, error),
) {
	targetID := c.Param(param)
	if uuid.Validate(targetID) != nil {
		response.Error(c, http.StatusBadRequest, "Invalid "+label+" id")
		return
	}
	userID := c.GetString("user_id")

	found, err := exists(targetID)
	if err != nil {
		h.logger.Error("Failed to check %s: %v", label, err)
		response.Error(c, http.StatusInternalServerError, "Failed to toggle like")
		return
	}
	if !found {
		response.Error(c, http.StatusNotFound, label+" not found")
		return
	}

	liked, err := toggle(userID, targetID)
	if err != nil {
		h.logger.Error("Failed to toggle %s like: %v", label, err)
		response.Error(c, http.StatusInternalServerError, "Failed to toggle like")
		return
	}

	if liked && h.queueClient != nil {
		task := map[string]interface{}{
			"type":     label + ".liked",
			"targetId": targetID,
			"userId":   userID,
			"priority": 1,
		}
		go func() {
			if err := h.queueClient.PublishNotificationTask(task); err != nil {
				h.logger.Warn("Failed to publish notification task: %v", err)
			}
		}()
	}

	message := label + " unliked"
	if liked {
		message = label + " liked"
	}
	response.Success(c, http.StatusOK, gin.H{"isLiked": liked}, message)
}

// ToggleVideoLike godoc
// @Summary      Toggle the viewer's like on a video
// @Tags         likes
// @Security     BearerAuth
// @Param        videoId path string true "Video id"
// @Success      200  {object}  response.APIResponse
// @Failure      404  {object}  response.APIError
// @Router       /likes/toggle/v/{videoId} [post]
func (h *LikeHandler) ToggleVideoLike(c *gin.Context) {
	h.toggleTarget(c, "videoId", "Video", h.videoRepo.Exists, h.likeRepo.ToggleVideoLike)
}

// ToggleCommentLike godoc
// @Summary      Toggle the viewer's like on a comment
// @Tags         likes
// @Security     BearerAuth
// @Param        commentId path string true "Comment id"
// @Success      200  {object}  response.APIResponse
// @Failure      404  {object}  response.APIError
// @Router       /likes/toggle/c/{commentId} [post]
func (h *LikeHandler) ToggleCommentLike(c *gin.Context) {
	h.toggleTarget(c, "commentId", "Comment", h.commentRepo.Exists, h.likeRepo.ToggleCommentLike)
}

// ToggleTweetLike godoc
// @Summary      Toggle the viewer's like on a tweet
// @Tags         likes
// @Security     BearerAuth
// @Param        tweetId path string true "Tweet id"
// @Success      200  {object}  response.APIResponse
// @Failure      404  {object}  response.APIError
// @Router       /likes/toggle/t/{tweetId} [post]
func (h *LikeHandler) ToggleTweetLike(c *gin.Context) {
	h.toggleTarget(c, "tweetId", "Tweet", h.tweetRepo.Exists, h.likeRepo.ToggleTweetLike)
}

// GetLikedVideos godoc
// @Summary      List the viewer's liked published videos, most recently liked first
// @Tags         likes
// @Security     BearerAuth
// @Param        page query int false "Page number"
// @Param        limit query int false "Page size"
// @Success      200  {object}  response.APIResponse
// @Router       /likes/videos [get]
func (h *LikeHandler) GetLikedVideos(c *gin.Context) {
	page, limit := 1, 10
	if p, err := strconv.Atoi(c.Query("page")); err == nil && p > 0 {
		page = p
	}
	if l, err := strconv.Atoi(c.Query("limit")); err == nil && l > 0 && l <= 100 {
		limit = l
	}

	views, err := h.likeRepo.GetLikedVideos(c.GetString("user_id"), limit, (page-1)*limit)
	if err != nil {
		h.logger.Error("Failed to fetch liked videos: %v", err)
		response.Error(c, http.StatusInternalServerError, "Failed to fetch liked videos")
		return
	}

	response.Success(c, http.StatusOK, views, "Liked videos fetched successfully")
}
