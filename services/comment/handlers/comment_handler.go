package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"vidtube/pkg/logger"
	"vidtube/pkg/models"
	"vidtube/pkg/response"
	"vidtube/services/comment/repository"
	videorepo "vidtube/services/video/repository"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CommentHandler struct {
	commentRepo repository.CommentRepository
	videoRepo   videorepo.VideoRepository
	logger      *logger.Logger
}

func NewCommentHandler(commentRepo repository.CommentRepository, videoRepo videorepo.VideoRepository, logger *logger.Logger) *CommentHandler {
	return &CommentHandler{
		commentRepo: commentRepo,
		videoRepo:   videoRepo,
		logger:      logger,
	}
}

type CommentRequest struct {
	Content string `json:"content" binding:"required"`
}

func idParam(c *gin.Context, name, label string) (string, bool) {
	id := c.Param(name)
	if uuid.Validate(id) != nil {
		response.Error(c, http.StatusBadRequest, "Invalid "+label+" id")
		return "", false
	}
	return id, true
}

func parsePagination(c *gin.Context) (page, limit int) {
	page, limit = 1, 10
	if p, err := strconv.Atoi(c.Query("page")); err == nil && p > 0 {
		page = p
	}
	if l, err := strconv.Atoi(c.Query("limit")); err == nil && l > 0 && l <= 100 {
		limit = l
	}
	return page, limit
}

// GetVideoComments godoc
// @Summary      List a video's comments, newest first
// @Tags         comments
// @Param        videoId path string true "Video id"
// @Param        page query int false "Page number"
// @Param        limit query int false "Page size"
// @Success      200  {object}  response.APIResponse
// @Failure      404  {object}  response.APIError
// @Router       /comments/{videoId} [get]
func (h *CommentHandler) GetVideoComments(c *gin.Context) {
	videoID, ok := idParam(c, "videoId", "video")
	if !ok {
		return
	}

	exists, err := h.videoRepo.Exists(videoID)
	if err != nil {
		h.logger.Error("Failed to check video: %v", err)
		response.Error(c, http.StatusInternalServerError, "Failed to fetch comments")
		return
	}
	if !exists {
		response.Error(c, http.StatusNotFound, "Video not found")
		return
	}

	page, limit := parsePagination(c)
	views, total, err := h.commentRepo.ListForVideo(videoID, c.GetString("user_id"), limit, (page-1)*limit)
	if err != nil {
		h.logger.Error("Failed to list comments: %v", err)
		response.Error(c, http.StatusInternalServerError, "Failed to fetch comments")
		return
	}

	response.Success(c, http.StatusOK, response.NewPage(views, total, page, limit), "Comments fetched successfully")
}

// AddComment godoc
// @Summary      Comment on a video
// @Tags         comments
// @Security     BearerAuth
// @Param        videoId path string true "Video id"
// @Param        request body CommentRequest true "Comment content"
// @Success      201  {object}  response.APIResponse
// @Failure      404  {object}  response.APIError
// @Router       /comments/{videoId} [post]
func (h *CommentHandler) AddComment(c *gin.Context) {
	videoID, ok := idParam(c, "videoId", "video")
	if !ok {
		return
	}

	var req CommentRequest
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Content) == "" {
		response.Error(c, http.StatusBadRequest, "Content is required")
		return
	}

	exists, err := h.videoRepo.Exists(videoID)
	if err != nil {
		h.logger.Error("Failed to check video: %v", err)
		response.Error(c, http.StatusInternalServerError, "Failed to add comment")
		return
	}
	if !exists {
		response.Error(c, http.StatusNotFound, "Video not found")
		return
	}

	comment := &models.Comment{
		Content: strings.TrimSpace(req.Content),
		VideoID: videoID,
		OwnerID: c.GetString("user_id"),
	}
	if err := h.commentRepo.Create(comment); err != nil {
		h.logger.Error("Failed to create comment: %v", err)
		response.Error(c, http.StatusInternalServerError, "Failed to add comment")
		return
	}

	response.Success(c, http.StatusCreated, comment, "Comment added successfully")
}

// UpdateComment godoc
// @Summary      Edit a comment you own
// @Tags         comments
// @Security     BearerAuth
// @Param        commentId path string true "Comment id"
// @Param        request body CommentRequest true "New content"
// @Success      200  {object}  response.APIResponse
// @Failure      403  {object}  response.APIError
// @Failure      404  {object}  response.APIError
// @Router       /comments/c/{commentId} [patch]
func (h *CommentHandler) UpdateComment(c *gin.Context) {
	commentID, ok := idParam(c, "commentId", "comment")
	if !ok {
		return
	}

	var req CommentRequest
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Content) == "" {
		response.Error(c, http.StatusBadRequest, "Content is required")
		return
	}

	comment, err := h.commentRepo.GetByID(commentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			response.Error(c, http.StatusNotFound, "Comment not found")
			return
		}
		h.logger.Error("Failed to fetch comment: %v", err)
		response.Error(c, http.StatusInternalServerError, "Failed to update comment")
		return
	}
	if comment.OwnerID != c.GetString("user_id") {
		response.Error(c, http.StatusForbidden, "Only the owner can edit this comment")
		return
	}

	comment.Content = strings.TrimSpace(req.Content)
	if err := h.commentRepo.Update(comment); err != nil {
		h.logger.Error("Failed to update comment: %v", err)
		response.Error(c, http.StatusInternalServerError, "Failed to update comment")
		return
	}

	response.Success(c, http.StatusOK, comment, "Comment updated successfully")
}

// DeleteComment godoc
// @Summary      Delete a comment you own
// @Tags         comments
// @Security     BearerAuth
// @Param        commentId path string true "Comment id"
// @Success      200  {object}  response.APIResponse
// @Failure      403  {object}  response.APIError
// @Failure      404  {object}  response.APIError
// @Router       /comments/c/{commentId} [delete]
func (h *CommentHandler) DeleteComment(c *gin.Context) {
	commentID, ok := idParam(c, "commentId", "comment")
	if !ok {
		return
	}

	comment, err := h.commentRepo.GetByID(commentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			response.Error(c, http.StatusNotFound, "Comment not found")
			return
		}
		h.logger.Error("Failed to fetch comment: %v", err)
		response.Error(c, http.StatusInternalServerError, "Failed to delete comment")
		return
	}
	if comment.OwnerID != c.GetString("user_id") {
		response.Error(c, http.StatusForbidden, "Only the owner can delete this comment")
		return
	}

	if err := h.commentRepo.Delete(commentID); err != nil {
		h.logger.Error("Failed to delete comment: %v", err)
		response.Error(c, http.StatusInternalServerError, "Failed to delete comment")
		return
	}

	response.Success(c, http.StatusOK, gin.H{}, "Comment deleted successfully")
}
