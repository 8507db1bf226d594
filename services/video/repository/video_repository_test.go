package repository

import (
	"testing"

	"vidtube/pkg/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	assert.NoError(t, err)

	// One connection keeps the in-memory database alive across queries.
	sqlDB, err := db.DB()
	assert.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	assert.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Video{},
		&models.Comment{},
		&models.Like{},
		&models.Playlist{},
		&models.PlaylistVideo{},
		&models.WatchHistory{},
	))
	return db
}

func seedVideo(t *testing.T, db *gorm.DB, ownerID string) *models.Video {
	t.Helper()
	video := &models.Video{
		OwnerID:      ownerID,
		Title:        "A video",
		Description:  "About things",
		Duration:     42,
		VideoKey:     "videos/" + uuid.New().String() + ".mp4",
		VideoURL:     "https://cdn/v.mp4",
		ThumbnailKey: "thumbnails/" + uuid.New().String() + ".png",
		ThumbnailURL: "https://cdn/t.png",
		IsPublished:  true,
	}
	assert.NoError(t, db.Create(video).Error)
	return video
}

func tableCount(t *testing.T, db *gorm.DB, model interface{}) int64 {
	t.Helper()
	var count int64
	assert.NoError(t, db.Model(model).Count(&count).Error)
	return count
}

func TestDelete_CascadesReferencingRows(t *testing.T) {
	db := newTestDB(t)
	repo := NewVideoRepository(db)

	ownerID := uuid.New().String()
	viewerID := uuid.New().String()
	video := seedVideo(t, db, ownerID)

	comment := &models.Comment{VideoID: video.ID, OwnerID: viewerID, Content: "Nice"}
	assert.NoError(t, db.Create(comment).Error)
	assert.NoError(t, db.Create(&models.Like{LikedBy: viewerID, VideoID: &video.ID}).Error)
	assert.NoError(t, db.Create(&models.Like{LikedBy: viewerID, CommentID: &comment.ID}).Error)

	playlist := &models.Playlist{OwnerID: viewerID, Name: "Mine", Description: "Stuff"}
	assert.NoError(t, db.Create(playlist).Error)
	assert.NoError(t, db.Create(&models.PlaylistVideo{PlaylistID: playlist.ID, VideoID: video.ID}).Error)
	assert.NoError(t, db.Create(&models.WatchHistory{UserID: viewerID, VideoID: video.ID}).Error)

	assert.NoError(t, repo.Delete(video.ID))

	assert.Equal(t, int64(0), tableCount(t, db, &models.Video{}))
	assert.Equal(t, int64(0), tableCount(t, db, &models.Comment{}))
	assert.Equal(t, int64(0), tableCount(t, db, &models.Like{}))
	assert.Equal(t, int64(0), tableCount(t, db, &models.PlaylistVideo{}))
	assert.Equal(t, int64(0), tableCount(t, db, &models.WatchHistory{}))

	// The playlist itself survives, only the membership row goes.
	assert.Equal(t, int64(1), tableCount(t, db, &models.Playlist{}))
}

func TestDelete_LeavesOtherVideosUntouched(t *testing.T) {
	db := newTestDB(t)
	repo := NewVideoRepository(db)

	ownerID := uuid.New().String()
	viewerID := uuid.New().String()
	doomed := seedVideo(t, db, ownerID)
	survivor := seedVideo(t, db, ownerID)

	assert.NoError(t, db.Create(&models.Comment{VideoID: survivor.ID, OwnerID: viewerID, Content: "Keep"}).Error)
	assert.NoError(t, db.Create(&models.Like{LikedBy: viewerID, VideoID: &survivor.ID}).Error)
	assert.NoError(t, db.Create(&models.Like{LikedBy: viewerID, VideoID: &doomed.ID}).Error)

	assert.NoError(t, repo.Delete(doomed.ID))

	var remaining models.Video
	assert.NoError(t, db.First(&remaining, "id = ?", survivor.ID).Error)
	assert.Equal(t, int64(1), tableCount(t, db, &models.Comment{}))

	var like models.Like
	assert.NoError(t, db.First(&like).Error)
	assert.NotNil(t, like.VideoID)
	assert.Equal(t, survivor.ID, *like.VideoID)
}

func TestIncrementViews_AddsOnePerCall(t *testing.T) {
	db := newTestDB(t)
	repo := NewVideoRepository(db)

	video := seedVideo(t, db, uuid.New().String())

	assert.NoError(t, repo.IncrementViews(video.ID))
	assert.NoError(t, repo.IncrementViews(video.ID))

	var reloaded models.Video
	assert.NoError(t, db.First(&reloaded, "id = ?", video.ID).Error)
	assert.Equal(t, int64(2), reloaded.Views)
}
