package schedule

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"daily-shorts-pipeline/types"
)

const dayWindowMinutes = 1440

// Publisher uploads one finished video with its metadata
type Publisher interface {
	Publish(ctx context.Context, req PublishRequest) (videoID string, err error)
}

// PublishRequest carries everything one upload call needs
type PublishRequest struct {
	VideoFile    string
	Title        string
	Description  string
	Keywords     []string
	ScheduledUTC time.Time
}

// Slots spreads N items evenly across the 24-hour window of the run date,
// starting at midnight UTC. Gap is floor(1440/N) minutes, so slots are
// strictly increasing in batch order.
func Slots(runDate string, items []types.ContentItem) ([]types.ScheduleSlot, error) {
	if len(items) == 0 {
		return nil, fmt.Errorf("no items to schedule")
	}
	midnight, err := time.Parse("2006-01-02", runDate)
	if err != nil {
		return nil, fmt.Errorf("parse run date %q: %w", runDate, err)
	}

	gap := dayWindowMinutes / len(items)
	slots := make([]types.ScheduleSlot, len(items))
	for i, item := range items {
		slots[i] = types.ScheduleSlot{
			ContentID:    item.ID,
			ScheduledUTC: midnight.Add(time.Duration(i*gap) * time.Minute).UTC(),
		}
	}
	return slots, nil
}

// BuildDescription appends the tags as a hashtag line after a blank line.
// Tags already carrying a # keep it.
func BuildDescription(description string, tags []string) string {
	if len(tags) == 0 {
		return description
	}
	hashtags := make([]string, len(tags))
	for i, tag := range tags {
		if strings.HasPrefix(tag, "#") {
			hashtags[i] = tag
		} else {
			hashtags[i] = "#" + tag
		}
	}
	return description + "\n\n" + strings.Join(hashtags, " ")
}

// Orchestrator drives the per-item publish calls with computed slots
type Orchestrator struct {
	publisher Publisher
}

// New creates a new Orchestrator
func New(publisher Publisher) *Orchestrator {
	return &Orchestrator{publisher: publisher}
}

// Result is the outcome of one publish attempt
type Result struct {
	ContentID int
	VideoID   string
	Err       error
}

// PublishAll uploads every item that has a finished video, at its computed
// slot. One item's failure is reported and the loop continues — publishing
// never aborts the batch.
func (o *Orchestrator) PublishAll(ctx context.Context, runDate string, items []types.ContentItem, videoFiles map[int]string) ([]Result, error) {
	slots, err := Slots(runDate, items)
	if err != nil {
		return nil, err
	}

	results := make([]Result, 0, len(items))
	for i, item := range items {
		videoFile, ok := videoFiles[item.ID]
		if !ok {
			log.Printf("[schedule] ⚠️ item %d has no rendered video — skipping publish", item.ID)
			results = append(results, Result{ContentID: item.ID, Err: fmt.Errorf("no rendered video")})
			continue
		}

		req := PublishRequest{
			VideoFile:    videoFile,
			Title:        item.Title,
			Description:  BuildDescription(item.Description, item.Tags),
			Keywords:     item.Keywords,
			ScheduledUTC: slots[i].ScheduledUTC,
		}

		log.Printf("[schedule] Publishing item %d, scheduled for %s...", item.ID, slots[i].ScheduledUTC.Format(time.RFC3339))
		videoID, err := o.publisher.Publish(ctx, req)
		if err != nil {
			log.Printf("[schedule] ⚠️ item %d publish failed: %v", item.ID, err)
			results = append(results, Result{ContentID: item.ID, Err: err})
			continue
		}
		log.Printf("[schedule] ✅ item %d published: %s", item.ID, videoID)
		results = append(results, Result{ContentID: item.ID, VideoID: videoID})
	}
	return results, nil
}
