package handlers

import (
	"errors"
	"net/http"
	"strings"

	"vidtube/pkg/logger"
	"vidtube/pkg/models"
	"vidtube/pkg/response"
	"vidtube/services/playlist/repository"
	videorepo "vidtube/services/video/repository"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PlaylistHandler struct {
	playlistRepo repository.PlaylistRepository
	videoRepo    videorepo.VideoRepository
	logger       *logger.Logger
}

func NewPlaylistHandler(playlistRepo repository.PlaylistRepository, videoRepo videorepo.VideoRepository, logger *logger.Logger) *PlaylistHandler {
	return &PlaylistHandler{
		playlistRepo: playlistRepo,
		videoRepo:    videoRepo,
		logger:       logger,
	}
}

type CreatePlaylistRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
}

type UpdatePlaylistRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

func idParam(c *gin.Context, name, label string) (string, bool) {
	id := c.Param(name)
	if uuid.Validate(id) != nil {
		response.Error(c, http.StatusBadRequest, "Invalid "+label+" id")
		return "", false
	}
	return id, true
}

// ownedPlaylist loads the playlist and enforces ownership for mutations.
func (h *PlaylistHandler) ownedPlaylist(c *gin.Context, playlistID string) (*models.Playlist, bool) {
	playlist, err := h.playlistRepo.GetByID(playlistID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			response.Error(c, http.StatusNotFound, "Playlist not found")
			return nil, false
		}
		h.logger.Error("Failed to fetch playlist: %v", err)
		response.Error(c, http.StatusInternalServerError, "Failed to fetch playlist")
		return nil, false
	}
	if playlist.OwnerID != c.GetString("user_id") {
		response.Error(c, http.StatusForbidden, "Only the owner can modify this playlist")
		return nil, false
	}
	return playlist, true
}

// CreatePlaylist godoc
// @Summary      Create an empty playlist
// @Tags         playlists
// @Security     BearerAuth
// @Param        request body CreatePlaylistRequest true "Name and description"
// @Success      201  {object}  response.APIResponse
// @Failure      400  {object}  response.APIError
// @Router       /playlists [post]
func (h *PlaylistHandler) CreatePlaylist(c *gin.Context) {
	var req CreatePlaylistRequest
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Name) == "" {
		response.Error(c, http.StatusBadRequest, "Name is required")
		return
	}

	playlist := &models.Playlist{
		Name:        strings.TrimSpace(req.Name),
		Description: strings.TrimSpace(req.Description),
		OwnerID:     c.GetString("user_id"),
	}
	if err := h.playlistRepo.Create(playlist); err != nil {
		h.logger.Error("Failed to create playlist: %v", err)
		response.Error(c, http.StatusInternalServerError, "Failed to create playlist")
		return
	}

	response.Success(c, http.StatusCreated, playlist, "Playlist created successfully")
}

// GetUserPlaylists godoc
// @Summary      List a user's playlists with derived totals
// @Tags         playlists
// @Param        userId path string true "Owner id"
// @Success      200  {object}  response.APIResponse
// @Router       /playlists/user/{userId} [get]
func (h *PlaylistHandler) GetUserPlaylists(c *gin.Context) {
	ownerID, ok := idParam(c, "userId", "user")
	if !ok {
		return
	}

	views, err := h.playlistRepo.ListForUser(ownerID)
	if err != nil {
		h.logger.Error("Failed to list playlists: %v", err)
		response.Error(c, http.StatusInternalServerError, "Failed to fetch playlists")
		return
	}

	response.Success(c, http.StatusOK, views, "Playlists fetched successfully")
}

// GetPlaylist godoc
// @Summary      Get a playlist with its published videos in order
// @Tags         playlists
// @Param        playlistId path string true "Playlist id"
// @Success      200  {object}  response.APIResponse
// @Failure      404  {object}  response.APIError
// @Router       /playlists/{playlistId} [get]
func (h *PlaylistHandler) GetPlaylist(c *gin.Context) {
	playlistID, ok := idParam(c, "playlistId", "playlist")
	if !ok {
		return
	}

	view, err := h.playlistRepo.GetView(playlistID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			response.Error(c, http.StatusNotFound, "Playlist not found")
			return
		}
		h.logger.Error("Failed to fetch playlist: %v", err)
		response.Error(c, http.StatusInternalServerError, "Failed to fetch playlist")
		return
	}

	videos, err := h.playlistRepo.GetVideos(playlistID)
	if err != nil {
		h.logger.Error("Failed to fetch playlist videos: %v", err)
		response.Error(c, http.StatusInternalServerError, "Failed to fetch playlist")
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"playlist": view,
		"videos":   videos,
	}, "Playlist fetched successfully")
}

// UpdatePlaylist godoc
// @Summary      Rename a playlist or change its description
// @Tags         playlists
// @Security     BearerAuth
// @Param        playlistId path string true "Playlist id"
// @Param        request body UpdatePlaylistRequest true "Fields to update"
// @Success      200  {object}  response.APIResponse
// @Failure      403  {object}  response.APIError
// @Router       /playlists/{playlistId} [patch]
func (h *PlaylistHandler) UpdatePlaylist(c *gin.Context) {
	playlistID, ok := idParam(c, "playlistId", "playlist")
	if !ok {
		return
	}

	var req UpdatePlaylistRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, err.Error())
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	req.Description = strings.TrimSpace(req.Description)
	if req.Name == "" && req.Description == "" {
		response.Error(c, http.StatusBadRequest, "Nothing to update")
		return
	}

	playlist, ok := h.ownedPlaylist(c, playlistID)
	if !ok {
		return
	}

	if req.Name != "" {
		playlist.Name = req.Name
	}
	if req.Description != "" {
		playlist.Description = req.Description
	}
	if err := h.playlistRepo.Update(playlist); err != nil {
		h.logger.Error("Failed to update playlist: %v", err)
		response.Error(c, http.StatusInternalServerError, "Failed to update playlist")
		return
	}

	response.Success(c, http.StatusOK, playlist, "Playlist updated successfully")
}

// DeletePlaylist godoc
// @Summary      Delete a playlist you own
// @Tags         playlists
// @Security     BearerAuth
// @Param        playlistId path string true "Playlist id"
// @Success      200  {object}  response.APIResponse
// @Failure      403  {object}  response.APIError
// @Router       /playlists/{playlistId} [delete]
func (h *PlaylistHandler) DeletePlaylist(c *gin.Context) {
	playlistID, ok := idParam(c, "playlistId", "playlist")
	if !ok {
		return
	}
	if _, ok := h.ownedPlaylist(c, playlistID); !ok {
		return
	}

	if err := h.playlistRepo.Delete(playlistID); err != nil {
		h.logger.Error("Failed to delete playlist: %v", err)
		response.Error(c, http.StatusInternalServerError, "Failed to delete playlist")
		return
	}

	response.Success(c, http.StatusOK, gin.H{}, "Playlist deleted successfully")
}

// AddVideoToPlaylist godoc
// @Summary      Append a video to a playlist you own
// @Description  Re-adding a video that is already in the playlist is a no-op
// @Tags         playlists
// @Security     BearerAuth
// @Param        videoId path string true "Video id"
// @Param        playlistId path string true "Playlist id"
// @Success      200  {object}  response.APIResponse
// @Failure      403  {object}  response.APIError
// @Failure      404  {object}  response.APIError
// @Router       /playlists/add/{videoId}/{playlistId} [patch]
func (h *PlaylistHandler) AddVideoToPlaylist(c *gin.Context) {
	videoID, ok := idParam(c, "videoId", "video")
	if !ok {
		return
	}
	playlistID, ok := idParam(c, "playlistId", "playlist")
	if !ok {
		return
	}

	if _, ok := h.ownedPlaylist(c, playlistID); !ok {
		return
	}

	exists, err := h.videoRepo.Exists(videoID)
	if err != nil {
		h.logger.Error("Failed to check video: %v", err)
		response.Error(c, http.StatusInternalServerError, "Failed to add video")
		return
	}
	if !exists {
		response.Error(c, http.StatusNotFound, "Video not found")
		return
	}

	if err := h.playlistRepo.AddVideo(playlistID, videoID); err != nil {
		h.logger.Error("Failed to add video to playlist: %v", err)
		response.Error(c, http.StatusInternalServerError, "Failed to add video")
		return
	}

	response.Success(c, http.StatusOK, gin.H{}, "Video added to playlist")
}

// RemoveVideoFromPlaylist godoc
// @Summary      Remove a video from a playlist you own
// @Tags         playlists
// @Security     BearerAuth
// @Param        videoId path string true "Video id"
// @Param        playlistId path string true "Playlist id"
// @Success      200  {object}  response.APIResponse
// @Failure      403  {object}  response.APIError
// @Router       /playlists/remove/{videoId}/{playlistId} [patch]
func (h *PlaylistHandler) RemoveVideoFromPlaylist(c *gin.Context) {
	videoID, ok := idParam(c, "videoId", "video")
	if !ok {
		return
	}
	playlistID, ok := idParam(c, "playlistId", "playlist")
	if !ok {
		return
	}

	if _, ok := h.ownedPlaylist(c, playlistID); !ok {
		return
	}

	if err := h.playlistRepo.RemoveVideo(playlistID, videoID); err != nil {
		h.logger.Error("Failed to remove video from playlist: %v", err)
		response.Error(c, http.StatusInternalServerError, "Failed to remove video")
		return
	}

	response.Success(c, http.StatusOK, gin.H{}, "Video removed from playlist")
}
