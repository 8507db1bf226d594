package response

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func setupTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	return gin.New()
}

func TestSuccess_Envelope(t *testing.T) {
	router := setupTestRouter()
	router.GET("/test", func(c *gin.Context) {
		Success(c, http.StatusOK, gin.H{"id": "abc"}, "Fetched")
	})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/test", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	var body map[string]interface{}
	json.Unmarshal(w.Body.Bytes(), &body)
	assert.Equal(t, float64(200), body["statusCode"])
	assert.Equal(t, "Fetched", body["message"])
	assert.Equal(t, true, body["success"])
	assert.NotNil(t, body["data"])
}

func TestError_Envelope(t *testing.T) {
	router := setupTestRouter()
	router.GET("/test", func(c *gin.Context) {
		Error(c, http.StatusNotFound, "Video not found")
	})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/test", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
	var body map[string]interface{}
	json.Unmarshal(w.Body.Bytes(), &body)
	assert.Equal(t, float64(404), body["statusCode"])
	assert.Equal(t, "Video not found", body["message"])
	assert.Equal(t, false, body["success"])
	assert.Equal(t, []interface{}{}, body["errors"])
}

func TestNewPage_Math(t *testing.T) {
	page := NewPage([]string{"a", "b"}, 25, 2, 10)

	assert.Equal(t, int64(25), page.TotalCount)
	assert.Equal(t, 3, page.TotalPages)
	assert.True(t, page.HasNext)
	assert.True(t, page.HasPrev)
}

func TestNewPage_LastPage(t *testing.T) {
	page := NewPage([]string{"a"}, 21, 3, 10)

	assert.Equal(t, 3, page.TotalPages)
	assert.False(t, page.HasNext)
	assert.True(t, page.HasPrev)
}

func TestNewPage_PastEnd(t *testing.T) {
	// Requesting past the last page yields an empty item set, not an error
	page := NewPage([]string{}, 5, 4, 10)

	assert.Equal(t, 1, page.TotalPages)
	assert.False(t, page.HasNext)
}

func TestNewPage_Empty(t *testing.T) {
	page := NewPage([]string{}, 0, 1, 10)

	assert.Equal(t, 0, page.TotalPages)
	assert.False(t, page.HasNext)
	assert.False(t, page.HasPrev)
}
