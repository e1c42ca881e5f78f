package publish

import (
	"context"
	"log"
	"strings"

	"timervid/config"
	"timervid/timeline"
)

// Item is one rendered video ready to publish
type Item struct {
	Path     string
	Category string
	FileName string
	Plan     timeline.Plan
}

// Publisher sends a rendered video somewhere and returns a reference to it
// (an object URL or a video ID)
type Publisher interface {
	Name() string
	Publish(ctx context.Context, item Item) (string, error)
}

// FromEnv builds the publishers enabled in the environment.
// S3 is enabled by S3_BUCKET, YouTube by YOUTUBE_SERVICE_ACCOUNT_FILE.
// A publisher that fails to initialise is logged and left out.
func FromEnv(ctx context.Context) []Publisher {
	var pubs []Publisher

	if bucket := config.GetEnvOrDefault("S3_BUCKET", ""); bucket != "" {
		cfg := S3Config{
			Region:       config.GetEnvOrDefault("S3_REGION", ""),
			Profile:      config.GetEnvOrDefault("S3_PROFILE", ""),
			UsePathStyle: config.GetEnvBool("S3_USE_PATH_STYLE"),
		}
		store, err := NewS3(ctx, cfg)
		if err != nil {
			log.Printf("⚠️  Failed to init S3 client: %v (S3 uploads disabled)", err)
		} else {
			pubs = append(pubs, NewS3Publisher(store, bucket, config.GetEnvOrDefault("S3_PREFIX", "")))
			log.Printf("✅ S3 publishing enabled (bucket %q)", bucket)
		}
	}

	if file := config.GetEnvOrDefault("YOUTUBE_SERVICE_ACCOUNT_FILE", ""); file != "" {
		yt, err := NewYouTubePublisher(ctx, file)
		if err != nil {
			log.Printf("⚠️  YouTube uploader not initialized: %v (YouTube uploads disabled)", err)
		} else {
			pubs = append(pubs, yt)
			log.Println("✅ YouTube client initialized")
		}
	}

	if len(pubs) == 0 {
		log.Println("Running in VIDEO-ONLY mode (no publishing)")
	}
	return pubs
}

// Names lists publisher names for logging
func Names(pubs []Publisher) string {
	names := make([]string, 0, len(pubs))
	for _, p := range pubs {
		names = append(names, p.Name())
	}
	return strings.Join(names, ", ")
}
