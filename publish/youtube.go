package publish

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"

	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
	"google.golang.org/api/youtube/v3"
)

// insertFunc uploads media with the given video resource and returns its ID
type insertFunc func(ctx context.Context, video *youtube.Video, media io.Reader) (string, error)

// YouTubePublisher uploads rendered videos with plan-derived metadata
type YouTubePublisher struct {
	insert insertFunc
}

// NewYouTubePublisher authenticates with a service account key file
func NewYouTubePublisher(ctx context.Context, serviceAccountFile string) (*YouTubePublisher, error) {
	data, err := os.ReadFile(serviceAccountFile)
	if err != nil {
		return nil, fmt.Errorf("unable to read service account file: %w", err)
	}

	jwt, err := google.JWTConfigFromJSON(data, youtube.YoutubeUploadScope)
	if err != nil {
		return nil, fmt.Errorf("unable to parse service account: %w", err)
	}

	service, err := youtube.NewService(ctx, option.WithHTTPClient(jwt.Client(ctx)))
	if err != nil {
		return nil, fmt.Errorf("unable to create YouTube service: %w", err)
	}

	return &YouTubePublisher{insert: serviceInsert(service)}, nil
}

func serviceInsert(service *youtube.Service) insertFunc {
	return func(ctx context.Context, video *youtube.Video, media io.Reader) (string, error) {
		call := service.Videos.Insert([]string{"snippet", "status"}, video)
		call = call.Media(media).Context(ctx)
		response, err := call.Do()
		if err != nil {
			return "", err
		}
		return response.Id, nil
	}
}

func (p *YouTubePublisher) Name() string { return "youtube" }

// Publish uploads item using GenerateMetadata
func (p *YouTubePublisher) Publish(ctx context.Context, item Item) (string, error) {
	return p.Upload(ctx, item.Path, GenerateMetadata(item.Plan))
}

// Upload sends a video file with explicit metadata
func (p *YouTubePublisher) Upload(ctx context.Context, videoPath string, metadata Metadata) (string, error) {
	file, err := os.Open(videoPath)
	if err != nil {
		return "", fmt.Errorf("failed to open video file: %w", err)
	}
	defer file.Close()

	fileInfo, err := file.Stat()
	if err != nil {
		return "", fmt.Errorf("failed to stat video file: %w", err)
	}

	log.Printf("📤 Uploading: %s (%.2f MB)", videoPath, float64(fileInfo.Size())/(1024*1024))

	video := &youtube.Video{
		Snippet: &youtube.VideoSnippet{
			Title:       metadata.Title,
			Description: metadata.Description,
			Tags:        metadata.Tags,
			CategoryId:  metadata.CategoryID,
		},
		Status: &youtube.VideoStatus{
			PrivacyStatus:           metadata.Privacy,
			SelfDeclaredMadeForKids: false,
		},
	}

	videoID, err := p.insert(ctx, video, file)
	if err != nil {
		return "", fmt.Errorf("failed to upload video: %w", err)
	}

	log.Printf("✅ Uploaded! https://youtube.com/watch?v=%s", videoID)
	return videoID, nil
}
