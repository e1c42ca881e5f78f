package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"

	"timervid/config"
	"timervid/publish"
)

func main() {
	_ = godotenv.Load()

	videoPath := flag.String("video", "", "Path to the MP4 file to upload")
	title := flag.String("title", "", "Title for the YouTube video (defaults to filename)")
	description := flag.String("description", "", "Description to use (optional)")
	tagsFlag := flag.String("tags", "timer,countdown", "Comma-separated list of tags")
	categoryID := flag.String("category-id", config.YouTubeCategoryID, "YouTube category ID (default: 26 - Howto & Style)")
	privacy := flag.String("privacy", config.YouTubePrivacyStatus, "public, unlisted or private")
	credentials := flag.String("credentials", config.GetEnvOrDefault("YOUTUBE_SERVICE_ACCOUNT_FILE", "service-account.json"), "Service account key file")

	flag.Parse()

	if *videoPath == "" {
		flag.Usage()
		log.Fatal("--video is required")
	}

	if err := ensureFileExists(*videoPath); err != nil {
		log.Fatalf("invalid video path: %v", err)
	}

	titleVal := strings.TrimSpace(*title)
	if titleVal == "" {
		titleVal = titleFromFileName(*videoPath)
	}

	descVal := strings.TrimSpace(*description)
	if descVal == "" {
		descVal = titleVal + "\n\n#timer"
	}

	tags := parseTags(*tagsFlag)
	if len(tags) == 0 {
		tags = []string{"timer"}
	}

	ctx := context.Background()
	uploader, err := publish.NewYouTubePublisher(ctx, *credentials)
	if err != nil {
		log.Fatalf("failed to initialize uploader: %v", err)
	}

	metadata := publish.Metadata{
		Title:       titleVal,
		Description: descVal,
		Tags:        tags,
		CategoryID:  *categoryID,
		Privacy:     *privacy,
	}

	videoID, err := uploader.Upload(ctx, *videoPath, metadata)
	if err != nil {
		log.Fatalf("upload failed: %v", err)
	}

	log.Printf("Uploaded successfully! https://youtube.com/watch?v=%s", videoID)
}

func ensureFileExists(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	if info.IsDir() {
		return fmt.Errorf("path is a directory, expected file: %s", path)
	}
	return nil
}

// titleFromFileName turns "Steak_(rare)_03m30s.mp4" into "Steak (rare) 03m30s"
func titleFromFileName(path string) string {
	name := filepath.Base(path)
	name = strings.TrimSuffix(name, filepath.Ext(name))
	return strings.ReplaceAll(name, "_", " ")
}

func parseTags(raw string) []string {
	var tags []string
	for _, tag := range strings.Split(raw, ",") {
		if clean := strings.TrimSpace(tag); clean != "" {
			tags = append(tags, clean)
		}
	}
	return tags
}
