package handlers

import (
	"context"
	"errors"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"vidtube/pkg/logger"
	"vidtube/pkg/models"
	"vidtube/pkg/queue"
	"vidtube/pkg/response"
	"vidtube/pkg/s3"
	userrepo "vidtube/services/user/repository"
	"vidtube/services/video/repository"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type VideoHandler struct {
	videoRepo    repository.VideoRepository
	userRepo     userrepo.UserRepository
	s3Client     s3.Store
	redisClient  *redis.Client
	queueClient  *queue.Client
	dedupeWindow time.Duration
	logger       *logger.Logger
}

// dedupeWindow of zero keeps the contract that every detail fetch
// increments the view counter by exactly one.
func NewVideoHandler(videoRepo repository.VideoRepository, userRepo userrepo.UserRepository,
	s3Client s3.Store, redisClient *redis.Client, queueClient *queue.Client,
	dedupeWindow time.Duration, logger *logger.Logger) *VideoHandler {
	return &VideoHandler{
		videoRepo:    videoRepo,
		userRepo:     userRepo,
		s3Client:     s3Client,
		redisClient:  redisClient,
		queueClient:  queueClient,
		dedupeWindow: dedupeWindow,
		logger:       logger,
	}
}

func saveTemp(c *gin.Context, file *multipart.FileHeader) (string, error) {
	path := filepath.Join(os.TempDir(), uuid.New().String()+filepath.Ext(file.Filename))
	if err := c.SaveUploadedFile(file, path); err != nil {
		return "", err
	}
	return path, nil
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

// videoIDParam validates the path parameter before it reaches the database,
// so a malformed id is a 400 and only an unknown one is a 404.
func videoIDParam(c *gin.Context, name string) (string, bool) {
	id := c.Param(name)
	if uuid.Validate(id) != nil {
		response.Error(c, http.StatusBadRequest, "Invalid video id")
		return "", false
	}
	return id, true
}

// ListVideos godoc
// @Summary      List published videos
// @Description  Supports full-text-ish search over title and description, owner filtering and sorting
// @Tags         videos
// @Param        query query string false "Search term"
// @Param        userId query string false "Filter by owner"
// @Param        sortBy query string false "created_at, views or duration"
// @Param        sortType query string false "asc or desc"
// @Param        page query int false "Page number"
// @Param        limit query int false "Page size"
// @Success      200  {object}  response.APIResponse
// @Router       /videos [get]
func (h *VideoHandler) ListVideos(c *gin.Context) {
	page, limit := parsePagination(c)

	ownerID := c.Query("userId")
	if ownerID != "" && uuid.Validate(ownerID) != nil {
		response.Error(c, http.StatusBadRequest, "Invalid userId")
		return
	}

	sortBy := c.Query("sortBy")
	if sortBy == "createdAt" {
		sortBy = "created_at"
	}

	items, total, err := h.videoRepo.List(repository.ListParams{
		Query:    strings.TrimSpace(c.Query("query")),
		OwnerID:  ownerID,
		SortBy:   sortBy,
		SortType: strings.ToLower(c.Query("sortType")),
		Limit:    limit,
		Offset:   (page - 1) * limit,
	})
	if err != nil {
		h.logger.Error("Failed to list videos: %v", err)
		response.Error(c, http.StatusInternalServerError, "Failed to fetch videos")
		return
	}

	response.Success(c, http.StatusOK, response.NewPage(items, total, page, limit), "Videos fetched successfully")
}

// PublishVideo godoc
// @Summary      Upload a new video
// @Description  Accepts the video file and a thumbnail, stores both on the media host and creates the record unpublished
// @Tags         videos
// @Security     BearerAuth
// @Accept       multipart/form-data
// @Param        title formData string true "Title"
// @Param        description formData string true "Description"
// @Param        duration formData number true "Duration in seconds"
// @Param        videoFile formData file true "Video file"
// @Param        thumbnail formData file true "Thumbnail image"
// @Success      201  {object}  response.APIResponse
// @Failure      400  {object}  response.APIError
// @Router       /videos [post]
func (h *VideoHandler) PublishVideo(c *gin.Context) {
	userID := c.GetString("user_id")

	title := strings.TrimSpace(c.PostForm("title"))
	description := strings.TrimSpace(c.PostForm("description"))
	if title == "" || description == "" {
		response.Error(c, http.StatusBadRequest, "Title and description are required")
		return
	}
	duration, err := strconv.ParseFloat(c.PostForm("duration"), 64)
	if err != nil || duration <= 0 {
		response.Error(c, http.StatusBadRequest, "Invalid duration")
		return
	}

	videoFile, err := c.FormFile("videoFile")
	if err != nil {
		response.Error(c, http.StatusBadRequest, "Video file is required")
		return
	}
	thumbnailFile, err := c.FormFile("thumbnail")
	if err != nil {
		response.Error(c, http.StatusBadRequest, "Thumbnail is required")
		return
	}

	videoPath, err := saveTemp(c, videoFile)
	if err != nil {
		h.logger.Error("Failed to stage video upload: %v", err)
		response.Error(c, http.StatusInternalServerError, "Failed to process video file")
		return
	}
	uploadedVideo, err := h.s3Client.UploadLocalFile(videoPath, "videos")
	if err != nil {
		h.logger.Error("Failed to upload video: %v", err)
		response.Error(c, http.StatusInternalServerError, "Failed to upload video")
		return
	}

	thumbnailPath, err := saveTemp(c, thumbnailFile)
	if err != nil {
		h.cleanupAssets(uploadedVideo)
		h.logger.Error("Failed to stage thumbnail upload: %v", err)
		response.Error(c, http.StatusInternalServerError, "Failed to process thumbnail")
		return
	}
	uploadedThumbnail, err := h.s3Client.UploadLocalFile(thumbnailPath, "thumbnails")
	if err != nil {
		h.cleanupAssets(uploadedVideo)
		h.logger.Error("Failed to upload thumbnail: %v", err)
		response.Error(c, http.StatusInternalServerError, "Failed to upload thumbnail")
		return
	}

	video := &models.Video{
		Title:        title,
		Description:  description,
		Duration:     duration,
		OwnerID:      userID,
		VideoKey:     uploadedVideo.Key,
		VideoURL:     uploadedVideo.URL,
		ThumbnailKey: uploadedThumbnail.Key,
		ThumbnailURL: uploadedThumbnail.URL,
	}
	if err := h.videoRepo.Create(video); err != nil {
		h.cleanupAssets(uploadedVideo, uploadedThumbnail)
		h.logger.Error("Failed to create video: %v", err)
		response.Error(c, http.StatusInternalServerError, "Failed to create video")
		return
	}

	h.publishTask(map[string]interface{}{
		"type":     "video.uploaded",
		"videoId":  video.ID,
		"ownerId":  userID,
		"priority": 3,
	})

	response.Success(c, http.StatusCreated, video, "Video uploaded successfully")
}

func (h *VideoHandler) cleanupAssets(assets ...*s3.UploadResult) {
	for _, asset := range assets {
		if asset == nil {
			continue
		}
		if err := h.s3Client.DeleteFile(asset.Key); err != nil {
			h.logger.Warn("Failed to clean up uploaded asset %s: %v", asset.Key, err)
		}
	}
}

func (h *VideoHandler) publishTask(task map[string]interface{}) {
	if h.queueClient == nil {
		return
	}
	go func() {
		if err := h.queueClient.PublishNotificationTask(task); err != nil {
			h.logger.Warn("Failed to publish notification task: %v", err)
		}
	}()
}

// GetVideo godoc
// @Summary      Get a single video with viewer-relative fields
// @Description  Returns like and subscriber counts plus isLiked/isSubscribed for the viewer; fetching counts a view
// @Tags         videos
// @Param        videoId path string true "Video id"
// @Success      200  {object}  response.APIResponse
// @Failure      400  {object}  response.APIError
// @Failure      404  {object}  response.APIError
// @Router       /videos/{videoId} [get]
func (h *VideoHandler) GetVideo(c *gin.Context) {
	videoID, ok := videoIDParam(c, "videoId")
	if !ok {
		return
	}
	viewerID := c.GetString("user_id")

	if h.shouldCountView(c, videoID, viewerID) {
		if err := h.videoRepo.IncrementViews(videoID); err != nil {
			h.logger.Warn("Failed to increment views for %s: %v", videoID, err)
		}
	}

	view, err := h.videoRepo.GetDetail(videoID, viewerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			response.Error(c, http.StatusNotFound, "Video not found")
			return
		}
		h.logger.Error("Failed to fetch video: %v", err)
		response.Error(c, http.StatusInternalServerError, "Failed to fetch video")
		return
	}

	if viewerID != "" {
		if err := h.userRepo.AddToWatchHistory(viewerID, videoID); err != nil {
			h.logger.Warn("Failed to record watch history: %v", err)
		}
	}

	response.Success(c, http.StatusOK, view, "Video fetched successfully")
}

// shouldCountView counts every fetch unless a dedupe window is configured,
// in which case repeat fetches by the same viewer identity (or client IP
// for anonymous requests) within the window are skipped.
func (h *VideoHandler) shouldCountView(c *gin.Context, videoID, viewerID string) bool {
	if h.dedupeWindow <= 0 || h.redisClient == nil {
		return true
	}
	viewerKey := viewerID
	if viewerKey == "" {
		viewerKey = c.ClientIP()
	}
	ok, err := h.redisClient.SetNX(context.Background(),
		"video_view:"+videoID+":"+viewerKey, 1, h.dedupeWindow).Result()
	if err != nil {
		h.logger.Warn("View dedupe check failed: %v", err)
		return true
	}
	return ok
}

// UpdateVideo godoc
// @Summary      Update title, description and optionally the thumbnail
// @Tags         videos
// @Security     BearerAuth
// @Accept       multipart/form-data
// @Param        videoId path string true "Video id"
// @Success      200  {object}  response.APIResponse
// @Failure      403  {object}  response.APIError
// @Failure      404  {object}  response.APIError
// @Router       /videos/{videoId} [patch]
func (h *VideoHandler) UpdateVideo(c *gin.Context) {
	videoID, ok := videoIDParam(c, "videoId")
	if !ok {
		return
	}
	userID := c.GetString("user_id")

	video, err := h.videoRepo.GetByID(videoID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			response.Error(c, http.StatusNotFound, "Video not found")
			return
		}
		h.logger.Error("Failed to fetch video: %v", err)
		response.Error(c, http.StatusInternalServerError, "Failed to fetch video")
		return
	}
	if video.OwnerID != userID {
		response.Error(c, http.StatusForbidden, "Only the owner can update this video")
		return
	}

	if title := strings.TrimSpace(c.PostForm("title")); title != "" {
		video.Title = title
	}
	if description := strings.TrimSpace(c.PostForm("description")); description != "" {
		video.Description = description
	}

	previousThumbnailKey := ""
	if thumbnailFile, err := c.FormFile("thumbnail"); err == nil {
		path, err := saveTemp(c, thumbnailFile)
		if err != nil {
			h.logger.Error("Failed to stage thumbnail upload: %v", err)
			response.Error(c, http.StatusInternalServerError, "Failed to process thumbnail")
			return
		}
		uploaded, err := h.s3Client.UploadLocalFile(path, "thumbnails")
		if err != nil {
			h.logger.Error("Failed to upload thumbnail: %v", err)
			response.Error(c, http.StatusInternalServerError, "Failed to upload thumbnail")
			return
		}
		previousThumbnailKey = video.ThumbnailKey
		video.ThumbnailKey = uploaded.Key
		video.ThumbnailURL = uploaded.URL
	}

	if err := h.videoRepo.Update(video); err != nil {
		h.logger.Error("Failed to update video: %v", err)
		response.Error(c, http.StatusInternalServerError, "Failed to update video")
		return
	}

	// The old thumbnail goes only after the row points at the new one.
	if previousThumbnailKey != "" {
		if err := h.s3Client.DeleteFile(previousThumbnailKey); err != nil {
			h.logger.Warn("Failed to delete previous thumbnail %s: %v", previousThumbnailKey, err)
		}
	}

	response.Success(c, http.StatusOK, video, "Video updated successfully")
}

// DeleteVideo godoc
// @Summary      Delete a video and everything referencing it
// @Tags         videos
// @Security     BearerAuth
// @Param        videoId path string true "Video id"
// @Success      200  {object}  response.APIResponse
// @Failure      403  {object}  response.APIError
// @Failure      404  {object}  response.APIError
// @Router       /videos/{videoId} [delete]
func (h *VideoHandler) DeleteVideo(c *gin.Context) {
	videoID, ok := videoIDParam(c, "videoId")
	if !ok {
		return
	}
	userID := c.GetString("user_id")

	video, err := h.videoRepo.GetByID(videoID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			response.Error(c, http.StatusNotFound, "Video not found")
			return
		}
		h.logger.Error("Failed to fetch video: %v", err)
		response.Error(c, http.StatusInternalServerError, "Failed to fetch video")
		return
	}
	if video.OwnerID != userID {
		response.Error(c, http.StatusForbidden, "Only the owner can delete this video")
		return
	}

	if err := h.videoRepo.Delete(videoID); err != nil {
		h.logger.Error("Failed to delete video: %v", err)
		response.Error(c, http.StatusInternalServerError, "Failed to delete video")
		return
	}

	for _, key := range []string{video.VideoKey, video.ThumbnailKey} {
		if key == "" {
			continue
		}
		if err := h.s3Client.DeleteFile(key); err != nil {
			h.logger.Warn("Failed to delete media asset %s: %v", key, err)
		}
	}

	response.Success(c, http.StatusOK, gin.H{}, "Video deleted successfully")
}

// TogglePublishStatus godoc
// @Summary      Flip the publish flag
// @Tags         videos
// @Security     BearerAuth
// @Param        videoId path string true "Video id"
// @Success      200  {object}  response.APIResponse
// @Failure      403  {object}  response.APIError
// @Failure      404  {object}  response.APIError
// @Router       /videos/toggle/publish/{videoId} [patch]
func (h *VideoHandler) TogglePublishStatus(c *gin.Context) {
	videoID, ok := videoIDParam(c, "videoId")
	if !ok {
		return
	}
	userID := c.GetString("user_id")

	video, err := h.videoRepo.GetByID(videoID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			response.Error(c, http.StatusNotFound, "Video not found")
			return
		}
		h.logger.Error("Failed to fetch video: %v", err)
		response.Error(c, http.StatusInternalServerError, "Failed to fetch video")
		return
	}
	if video.OwnerID != userID {
		response.Error(c, http.StatusForbidden, "Only the owner can change publish status")
		return
	}

	published := !video.IsPublished
	if err := h.videoRepo.SetPublished(videoID, published); err != nil {
		h.logger.Error("Failed to toggle publish status: %v", err)
		response.Error(c, http.StatusInternalServerError, "Failed to toggle publish status")
		return
	}

	if published {
		h.publishTask(map[string]interface{}{
			"type":     "video.published",
			"videoId":  videoID,
			"ownerId":  userID,
			"priority": 5,
		})
	}

	response.Success(c, http.StatusOK, gin.H{"isPublished": published}, "Publish status toggled")
}
