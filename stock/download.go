package stock

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"
)

const downloadBlockSize = 1024 * 1024

// downloadFile streams a URL to disk in fixed-size blocks, creating parent
// directories as needed
func downloadFile(ctx context.Context, url, destPath string, timeoutSec int) error {
	if err := os.MkdirAll(filepath.Dir(destPath), 0755); err != nil {
		return err
	}

	client := &http.Client{Timeout: time.Duration(timeoutSec) * time.Second}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}

	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("download HTTP %d", resp.StatusCode)
	}

	out, err := os.Create(destPath)
	if err != nil {
		return err
	}
	defer out.Close()

	buf := make([]byte, downloadBlockSize)
	if _, err := io.CopyBuffer(out, resp.Body, buf); err != nil {
		return fmt.Errorf("write %s: %w", destPath, err)
	}
	return nil
}
