package upload

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"daily-shorts-pipeline/config"
	"daily-shorts-pipeline/schedule"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
	"google.golang.org/api/youtube/v3"
)

// Uploader publishes videos via the YouTube Data API v3
type Uploader struct {
	cfg config.UploadConfig
	env config.Env
}

// New creates a new Uploader
func New(cfg config.UploadConfig, env config.Env) *Uploader {
	return &Uploader{cfg: cfg, env: env}
}

// Publish uploads one video with its metadata and scheduled publish time.
// Scheduling requires the video to go up private; YouTube flips it public
// at the scheduled timestamp.
func (u *Uploader) Publish(ctx context.Context, req schedule.PublishRequest) (string, error) {
	svc, err := u.service(ctx)
	if err != nil {
		return "", err
	}

	snippet := &youtube.VideoSnippet{
		Title:                req.Title,
		Description:          req.Description,
		Tags:                 req.Keywords,
		CategoryId:           u.cfg.CategoryID,
		DefaultLanguage:      u.cfg.DefaultLanguage,
		DefaultAudioLanguage: u.cfg.DefaultLanguage,
	}
	status := &youtube.VideoStatus{
		PrivacyStatus:           u.cfg.Privacy,
		SelfDeclaredMadeForKids: u.cfg.MadeForKids,
	}
	if !req.ScheduledUTC.IsZero() {
		status.PrivacyStatus = "private" // must be private to schedule
		status.PublishAt = req.ScheduledUTC.UTC().Format(time.RFC3339)
	}

	f, err := os.Open(req.VideoFile)
	if err != nil {
		return "", fmt.Errorf("open video file: %w", err)
	}
	defer f.Close()

	if fi, err := f.Stat(); err == nil {
		log.Printf("[upload] Uploading %q (%.1f MB)", req.Title, float64(fi.Size())/1024/1024)
	}

	call := svc.Videos.Insert([]string{"snippet", "status"}, &youtube.Video{Snippet: snippet, Status: status})
	call.NotifySubscribers(u.cfg.NotifySubscribers)
	call.Media(f)

	uploaded, err := call.Do()
	if err != nil {
		return "", fmt.Errorf("youtube upload: %w", err)
	}

	log.Printf("[upload] ✅ Uploaded: https://www.youtube.com/watch?v=%s", uploaded.Id)
	return uploaded.Id, nil
}

// SetThumbnail sets a custom thumbnail image for an uploaded video
func (u *Uploader) SetThumbnail(ctx context.Context, videoID, thumbnailPath string) error {
	svc, err := u.service(ctx)
	if err != nil {
		return err
	}

	f, err := os.Open(thumbnailPath)
	if err != nil {
		return fmt.Errorf("open thumbnail: %w", err)
	}
	defer f.Close()

	call := svc.Thumbnails.Set(videoID)
	call.Media(f)
	if _, err := call.Do(); err != nil {
		return fmt.Errorf("set thumbnail: %w", err)
	}

	log.Printf("[upload] ✅ Thumbnail set for video %s", videoID)
	return nil
}

func (u *Uploader) service(ctx context.Context) (*youtube.Service, error) {
	if u.env.YouTubeClientID == "" || u.env.YouTubeClientSecret == "" || u.env.YouTubeRefreshToken == "" {
		return nil, fmt.Errorf("YOUTUBE_CLIENT_ID, YOUTUBE_CLIENT_SECRET, or YOUTUBE_REFRESH_TOKEN not set")
	}

	conf := &oauth2.Config{
		ClientID:     u.env.YouTubeClientID,
		ClientSecret: u.env.YouTubeClientSecret,
		Endpoint:     google.Endpoint,
		Scopes:       []string{youtube.YoutubeUploadScope, youtube.YoutubeScope},
	}
	token := &oauth2.Token{
		RefreshToken: u.env.YouTubeRefreshToken,
		Expiry:       time.Now().Add(-time.Hour), // force refresh
	}
	client := oauth2.NewClient(ctx, conf.TokenSource(ctx, token))

	svc, err := youtube.NewService(ctx, option.WithHTTPClient(client))
	if err != nil {
		return nil, fmt.Errorf("youtube service: %w", err)
	}
	return svc, nil
}

var _ schedule.Publisher = (*Uploader)(nil)
