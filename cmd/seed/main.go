package main

import (
	"flag"
	"fmt"

	"vidtube/pkg/config"
	"vidtube/pkg/database"
	"vidtube/pkg/logger"
	"vidtube/pkg/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Seeds a development database with a handful of channels, videos and
// engagement so the API has something to serve locally.
func main() {
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	log := logger.New()
	db, err := database.NewPostgresDB(cfg)
	if err != nil {
		log.Error("Failed to connect to database: %v", err)
		panic(err)
	}

	if err := seedDatabase(db, log); err != nil {
		log.Error("Failed to seed database: %v", err)
		panic(err)
	}

	log.Info("Database seeded successfully!")
}

func seedDatabase(db *gorm.DB, log *logger.Logger) error {
	testUsers := []struct {
		email    string
		username string
		fullName string
		password string
	}{
		{"alice@test.com", "alice_films", "Alice Films", "password123"},
		{"bob@test.com", "bob_vlogs", "Bob Vlogs", "password123"},
		{"charlie@test.com", "charlie_cooks", "Charlie Cooks", "password123"},
	}

	userIDs := make([]string, 0, len(testUsers))
	for _, userData := range testUsers {
		hashedPassword, _ := bcrypt.GenerateFromPassword([]byte(userData.password), bcrypt.DefaultCost)

		user := &models.User{
			Email:     userData.email,
			Username:  userData.username,
			FullName:  userData.fullName,
			Password:  string(hashedPassword),
			AvatarKey: "avatars/seed-" + userData.username + ".png",
			AvatarURL: "https://placehold.co/128x128?text=" + userData.username,
		}

		var existing models.User
		if err := db.Where("email = ? OR username = ?", user.Email, user.Username).First(&existing).Error; err == nil {
			log.Info("User %s already exists, skipping", user.Username)
			userIDs = append(userIDs, existing.ID)
			continue
		}

		if err := db.Create(user).Error; err != nil {
			log.Error("Failed to create user %s: %v", user.Username, err)
			continue
		}
		log.Info("Created user: %s (%s)", user.Username, user.Email)
		userIDs = append(userIDs, user.ID)
	}

	if len(userIDs) < 2 {
		return fmt.Errorf("not enough seed users created")
	}

	videoIDs := make([]string, 0, len(userIDs)*2)
	for i, ownerID := range userIDs {
		for j := 0; j < 2; j++ {
			video := &models.Video{
				OwnerID:      ownerID,
				Title:        fmt.Sprintf("Seed video %d-%d", i+1, j+1),
				Description:  "Seeded sample content",
				Duration:     90.0 + float64(i*30+j*10),
				VideoKey:     fmt.Sprintf("videos/seed-%d-%d.mp4", i, j),
				VideoURL:     fmt.Sprintf("https://placehold.co/video-%d-%d.mp4", i, j),
				ThumbnailKey: fmt.Sprintf("thumbnails/seed-%d-%d.png", i, j),
				ThumbnailURL: fmt.Sprintf("https://placehold.co/640x360?text=video-%d-%d", i, j),
				IsPublished:  true,
			}
			if err := db.Create(video).Error; err != nil {
				log.Error("Failed to create video: %v", err)
				continue
			}
			videoIDs = append(videoIDs, video.ID)
		}
	}

	for _, videoID := range videoIDs {
		comment := &models.Comment{
			VideoID: videoID,
			OwnerID: userIDs[0],
			Content: "First!",
		}
		if err := db.Create(comment).Error; err != nil {
			log.Error("Failed to create comment: %v", err)
		}

		like := &models.Like{LikedBy: userIDs[1], VideoID: &videoID}
		if err := db.Create(like).Error; err != nil {
			log.Error("Failed to create like: %v", err)
		}
	}

	// Everyone subscribes to the first channel.
	for _, subscriberID := range userIDs[1:] {
		sub := &models.Subscription{SubscriberID: subscriberID, ChannelID: userIDs[0]}
		if err := db.Create(sub).Error; err != nil {
			log.Error("Failed to create subscription: %v", err)
		}
	}

	playlist := &models.Playlist{
		OwnerID:     userIDs[0],
		Name:        "Starter picks",
		Description: "Seeded playlist",
	}
	if err := db.Create(playlist).Error; err != nil {
		return err
	}
	for position, videoID := range videoIDs[:2] {
		member := &models.PlaylistVideo{
			PlaylistID: playlist.ID,
			VideoID:    videoID,
			Position:   position,
		}
		if err := db.Create(member).Error; err != nil {
			log.Error("Failed to add video to playlist: %v", err)
		}
	}

	return nil
}
