package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"vidtube/pkg/logger"
	"vidtube/pkg/models"
	"vidtube/services/tweet/repository"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"
)

type MockTweetRepository struct {
	mock.Mock
}

var _ repository.TweetRepository = (*MockTweetRepository)(nil)

func (m *MockTweetRepository) Create(tweet *models.Tweet) error { return m.Called(tweet).Error(0) }

func (m *MockTweetRepository) GetByID(id string) (*models.Tweet, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Tweet), args.Error(1)
}

func (m *MockTweetRepository) Exists(id string) (bool, error) {
	args := m.Called(id)
	return args.Bool(0), args.Error(1)
}

func (m *MockTweetRepository) ListForUser(ownerID, viewerID string) ([]*repository.TweetView, error) {
	args := m.Called(ownerID, viewerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*repository.TweetView), args.Error(1)
}

func (m *MockTweetRepository) Update(tweet *models.Tweet) error { return m.Called(tweet).Error(0) }

func (m *MockTweetRepository) Delete(id string) error { return m.Called(id).Error(0) }

func setupHandler() (*TweetHandler, *MockTweetRepository) {
	gin.SetMode(gin.TestMode)
	repo := new(MockTweetRepository)
	return NewTweetHandler(repo, logger.New()), repo
}

func authContext(userID string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("user_id", userID)
		c.Next()
	}
}

func TestCreateTweet_Success(t *testing.T) {
	h, repo := setupHandler()

	repo.On("Create", mock.MatchedBy(func(tw *models.Tweet) bool {
		return tw.Content == "Hello world" && tw.OwnerID == "user-1"
	})).Return(nil)

	router := gin.New()
	router.POST("/tweets", authContext("user-1"), h.CreateTweet)

	payload, _ := json.Marshal(gin.H{"content": "Hello world"})
	req := httptest.NewRequest(http.MethodPost, "/tweets", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)
}

func TestCreateTweet_EmptyContent(t *testing.T) {
	h, repo := setupHandler()

	router := gin.New()
	router.POST("/tweets", authContext("user-1"), h.CreateTweet)

	payload, _ := json.Marshal(gin.H{"content": "  "})
	req := httptest.NewRequest(http.MethodPost, "/tweets", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	repo.AssertNotCalled(t, "Create", mock.Anything)
}

func TestGetUserTweets_IncludesViewerFlags(t *testing.T) {
	h, repo := setupHandler()
	ownerID := uuid.New().String()

	repo.On("ListForUser", ownerID, "user-1").Return([]*repository.TweetView{
		{ID: "tweet-1", Content: "Hi", LikesCount: 3, IsLiked: true},
	}, nil)

	router := gin.New()
	router.GET("/tweets/user/:userId", authContext("user-1"), h.GetUserTweets)

	req := httptest.NewRequest(http.MethodGet, "/tweets/user/"+ownerID, nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"isLiked":true`)
	assert.Contains(t, w.Body.String(), `"likesCount":3`)
}

func TestUpdateTweet_NotOwner(t *testing.T) {
	h, repo := setupHandler()
	tweetID := uuid.New().String()

	repo.On("GetByID", tweetID).Return(&models.Tweet{ID: tweetID, OwnerID: "someone-else"}, nil)

	router := gin.New()
	router.PATCH("/tweets/:tweetId", authContext("user-1"), h.UpdateTweet)

	payload, _ := json.Marshal(gin.H{"content": "Edited"})
	req := httptest.NewRequest(http.MethodPatch, "/tweets/"+tweetID, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
	repo.AssertNotCalled(t, "Update", mock.Anything)
}

func TestDeleteTweet_NotFound(t *testing.T) {
	h, repo := setupHandler()
	tweetID := uuid.New().String()

	repo.On("GetByID", tweetID).Return(nil, gorm.ErrRecordNotFound)

	router := gin.New()
	router.DELETE("/tweets/:tweetId", authContext("user-1"), h.DeleteTweet)

	req := httptest.NewRequest(http.MethodDelete, "/tweets/"+tweetID, nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestDeleteTweet_Success(t *testing.T) {
	h, repo := setupHandler()
	tweetID := uuid.New().String()

	repo.On("GetByID", tweetID).Return(&models.Tweet{ID: tweetID, OwnerID: "user-1"}, nil)
	repo.On("Delete", tweetID).Return(nil)

	router := gin.New()
	router.DELETE("/tweets/:tweetId", authContext("user-1"), h.DeleteTweet)

	req := httptest.NewRequest(http.MethodDelete, "/tweets/"+tweetID, nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	repo.AssertCalled(t, "Delete", tweetID)
}
