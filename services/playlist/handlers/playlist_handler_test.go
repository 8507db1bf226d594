package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"vidtube/pkg/logger"
	"vidtube/pkg/models"
	"vidtube/services/playlist/repository"
	videorepo "vidtube/services/video/repository"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"
)

type MockPlaylistRepository struct {
	mock.Mock
}

var _ repository.PlaylistRepository = (*MockPlaylistRepository)(nil)

func (m *MockPlaylistRepository) Create(playlist *models.Playlist) error {
	return m.Called(playlist).Error(0)
}

func (m *MockPlaylistRepository) GetByID(id string) (*models.Playlist, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Playlist), args.Error(1)
}

func (m *MockPlaylistRepository) GetView(id string) (*repository.PlaylistView, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.PlaylistView), args.Error(1)
}

func (m *MockPlaylistRepository) GetVideos(playlistID string) ([]*repository.PlaylistVideoView, error) {
	args := m.Called(playlistID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*repository.PlaylistVideoView), args.Error(1)
}

func (m *MockPlaylistRepository) ListForUser(ownerID string) ([]*repository.PlaylistView, error) {
	args := m.Called(ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*repository.PlaylistView), args.Error(1)
}

func (m *MockPlaylistRepository) Update(playlist *models.Playlist) error {
	return m.Called(playlist).Error(0)
}

func (m *MockPlaylistRepository) Delete(id string) error { return m.Called(id).Error(0) }

func (m *MockPlaylistRepository) AddVideo(playlistID, videoID string) error {
	return m.Called(playlistID, videoID).Error(0)
}

func (m *MockPlaylistRepository) RemoveVideo(playlistID, videoID string) error {
	return m.Called(playlistID, videoID).Error(0)
}

type MockVideoRepository struct {
	mock.Mock
}

var _ videorepo.VideoRepository = (*MockVideoRepository)(nil)

func (m *MockVideoRepository) Create(video *models.Video) error { return m.Called(video).Error(0) }

func (m *MockVideoRepository) GetByID(id string) (*models.Video, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Video), args.Error(1)
}

func (m *MockVideoRepository) Exists(id string) (bool, error) {
	args := m.Called(id)
	return args.Bool(0), args.Error(1)
}

func (m *MockVideoRepository) GetDetail(videoID, viewerID string) (*videorepo.VideoDetailView, error) {
	args := m.Called(videoID, viewerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*videorepo.VideoDetailView), args.Error(1)
}

func (m *MockVideoRepository) List(params videorepo.ListParams) ([]*videorepo.VideoListItem, int64, error) {
	args := m.Called(params)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]*videorepo.VideoListItem), args.Get(1).(int64), args.Error(2)
}

func (m *MockVideoRepository) Update(video *models.Video) error { return m.Called(video).Error(0) }

func (m *MockVideoRepository) SetPublished(id string, published bool) error {
	return m.Called(id, published).Error(0)
}

func (m *MockVideoRepository) Delete(id string) error { return m.Called(id).Error(0) }

func (m *MockVideoRepository) IncrementViews(id string) error { return m.Called(id).Error(0) }

func setupHandler() (*PlaylistHandler, *MockPlaylistRepository, *MockVideoRepository) {
	gin.SetMode(gin.TestMode)
	playlistRepo := new(MockPlaylistRepository)
	videoRepo := new(MockVideoRepository)
	h := NewPlaylistHandler(playlistRepo, videoRepo, logger.New())
	return h, playlistRepo, videoRepo
}

func authContext(userID string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("user_id", userID)
		c.Next()
	}
}

func TestCreatePlaylist_Success(t *testing.T) {
	h, playlistRepo, _ := setupHandler()

	playlistRepo.On("Create", mock.MatchedBy(func(p *models.Playlist) bool {
		return p.Name == "Favourites" && p.OwnerID == "user-1"
	})).Return(nil)

	router := gin.New()
	router.POST("/playlists", authContext("user-1"), h.CreatePlaylist)

	payload, _ := json.Marshal(gin.H{"name": "Favourites", "description": "The best"})
	req := httptest.NewRequest(http.MethodPost, "/playlists", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)
}

func TestCreatePlaylist_MissingName(t *testing.T) {
	h, _, _ := setupHandler()

	router := gin.New()
	router.POST("/playlists", authContext("user-1"), h.CreatePlaylist)

	payload, _ := json.Marshal(gin.H{"description": "No name"})
	req := httptest.NewRequest(http.MethodPost, "/playlists", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetPlaylist_WithVideos(t *testing.T) {
	h, playlistRepo, _ := setupHandler()
	playlistID := uuid.New().String()

	playlistRepo.On("GetView", playlistID).Return(&repository.PlaylistView{
		ID: playlistID, Name: "Favourites", TotalVideos: 2, TotalViews: 40,
	}, nil)
	playlistRepo.On("GetVideos", playlistID).Return([]*repository.PlaylistVideoView{
		{VideoID: "video-1", Title: "First", Position: 0},
		{VideoID: "video-2", Title: "Second", Position: 1},
	}, nil)

	router := gin.New()
	router.GET("/playlists/:playlistId", h.GetPlaylist)

	req := httptest.NewRequest(http.MethodGet, "/playlists/"+playlistID, nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"totalVideos":2`)
	assert.Contains(t, w.Body.String(), "Second")
}

func TestGetPlaylist_NotFound(t *testing.T) {
	h, playlistRepo, _ := setupHandler()
	playlistID := uuid.New().String()

	playlistRepo.On("GetView", playlistID).Return(nil, gorm.ErrRecordNotFound)

	router := gin.New()
	router.GET("/playlists/:playlistId", h.GetPlaylist)

	req := httptest.NewRequest(http.MethodGet, "/playlists/"+playlistID, nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestUpdatePlaylist_NotOwner(t *testing.T) {
	h, playlistRepo, _ := setupHandler()
	playlistID := uuid.New().String()

	playlistRepo.On("GetByID", playlistID).Return(&models.Playlist{ID: playlistID, OwnerID: "someone-else"}, nil)

	router := gin.New()
	router.PATCH("/playlists/:playlistId", authContext("user-1"), h.UpdatePlaylist)

	payload, _ := json.Marshal(gin.H{"name": "Renamed"})
	req := httptest.NewRequest(http.MethodPatch, "/playlists/"+playlistID, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
	playlistRepo.AssertNotCalled(t, "Update", mock.Anything)
}

func TestAddVideoToPlaylist_Success(t *testing.T) {
	h, playlistRepo, videoRepo := setupHandler()
	playlistID := uuid.New().String()
	videoID := uuid.New().String()

	playlistRepo.On("GetByID", playlistID).Return(&models.Playlist{ID: playlistID, OwnerID: "user-1"}, nil)
	videoRepo.On("Exists", videoID).Return(true, nil)
	playlistRepo.On("AddVideo", playlistID, videoID).Return(nil)

	router := gin.New()
	router.PATCH("/playlists/add/:videoId/:playlistId", authContext("user-1"), h.AddVideoToPlaylist)

	req := httptest.NewRequest(http.MethodPatch, "/playlists/add/"+videoID+"/"+playlistID, nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	playlistRepo.AssertCalled(t, "AddVideo", playlistID, videoID)
}

func TestAddVideoToPlaylist_UnknownVideo(t *testing.T) {
	h, playlistRepo, videoRepo := setupHandler()
	playlistID := uuid.New().String()
	videoID := uuid.New().String()

	playlistRepo.On("GetByID", playlistID).Return(&models.Playlist{ID: playlistID, OwnerID: "user-1"}, nil)
	videoRepo.On("Exists", videoID).Return(false, nil)

	router := gin.New()
	router.PATCH("/playlists/add/:videoId/:playlistId", authContext("user-1"), h.AddVideoToPlaylist)

	req := httptest.NewRequest(http.MethodPatch, "/playlists/add/"+videoID+"/"+playlistID, nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
	playlistRepo.AssertNotCalled(t, "AddVideo", mock.Anything, mock.Anything)
}

func TestRemoveVideoFromPlaylist_Success(t *testing.T) {
	h, playlistRepo, _ := setupHandler()
	playlistID := uuid.New().String()
	videoID := uuid.New().String()

	playlistRepo.On("GetByID", playlistID).Return(&models.Playlist{ID: playlistID, OwnerID: "user-1"}, nil)
	playlistRepo.On("RemoveVideo", playlistID, videoID).Return(nil)

	router := gin.New()
	router.PATCH("/playlists/remove/:videoId/:playlistId", authContext("user-1"), h.RemoveVideoFromPlaylist)

	req := httptest.NewRequest(http.MethodPatch, "/playlists/remove/"+videoID+"/"+playlistID, nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	playlistRepo.AssertCalled(t, "RemoveVideo", playlistID, videoID)
}

func TestDeletePlaylist_Success(t *testing.T) {
	h, playlistRepo, _ := setupHandler()
	playlistID := uuid.New().String()

	playlistRepo.On("GetByID", playlistID).Return(&models.Playlist{ID: playlistID, OwnerID: "user-1"}, nil)
	playlistRepo.On("Delete", playlistID).Return(nil)

	router := gin.New()
	router.DELETE("/playlists/:playlistId", authContext("user-1"), h.DeletePlaylist)

	req := httptest.NewRequest(http.MethodDelete, "/playlists/"+playlistID, nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	playlistRepo.AssertCalled(t, "Delete", playlistID)
}
