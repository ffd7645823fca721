package motd

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"time"

	ffmpeg "github.com/u2takey/ffmpeg-go"
)

// DownloadAndConvert downloads the source video and re-encodes it to a
// standard distribution mp4, keeping any audio track
func DownloadAndConvert(ctx context.Context, videoURL, outputFile string) (string, error) {
	temp := "source_video" + filepath.Ext(videoURL)
	defer os.Remove(temp)

	log.Println("[motd] ⬇ Downloading original video...")
	if err := download(ctx, videoURL, temp); err != nil {
		return "", fmt.Errorf("download source video: %w", err)
	}

	log.Println("[motd] 🎬 Converting (audio preserved)...")
	err := ffmpeg.Input(temp).
		Output(outputFile, ffmpeg.KwArgs{
			"c:v":      "libx264",
			"preset":   "veryfast",
			"c:a":      "aac",
			"b:a":      "192k",
			"movflags": "+faststart",
		}).
		OverWriteOutput().
		Run()
	if err != nil {
		return "", fmt.Errorf("convert video: %w", err)
	}
	return outputFile, nil
}

// GrabFrame extracts a single frame to use as the thumbnail background
func GrabFrame(videoFile, outputFile, timestamp string) (string, error) {
	err := ffmpeg.Input(videoFile, ffmpeg.KwArgs{"ss": timestamp}).
		Output(outputFile, ffmpeg.KwArgs{
			"frames:v": 1,
			"q:v":      2,
		}).
		OverWriteOutput().
		Run()
	if err != nil {
		return "", fmt.Errorf("grab frame: %w", err)
	}
	return outputFile, nil
}

func download(ctx context.Context, url, dest string) error {
	client := &http.Client{Timeout: 10 * time.Minute}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("download HTTP %d", resp.StatusCode)
	}

	out, err := os.Create(dest)
	if err != nil {
		return err
	}
	defer out.Close()
	_, err = io.Copy(out, resp.Body)
	return err
}
