package types

import "time"

// ContentItem is one scheduled entry from the input sheet, normalized and
// ready for the per-item pipeline stages. Immutable after loading.
type ContentItem struct {
	ID          int      `json:"id"`
	Date        string   `json:"date"`
	Title       string   `json:"title"`
	Content     string   `json:"content"`
	Description string   `json:"description"`
	Keywords    []string `json:"keywords"`
	Tags        []string `json:"tags"`
	BgQueries   []string `json:"bg_videos"`
}

// Word is one recognized word with its timestamps in seconds.
type Word struct {
	Word  string  `json:"word"`
	Start float64 `json:"start"`
	End   float64 `json:"end"`
}

// Segment is one transcription segment
type Segment struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
	Text  string  `json:"text"`
	Words []Word  `json:"words"`
}

// Transcript is the word-level transcription of a narration track
type Transcript struct {
	Segments []Segment `json:"segments"`
}

// ScheduleSlot assigns one content item its publish timestamp
type ScheduleSlot struct {
	ContentID    int       `json:"content_id"`
	ScheduledUTC time.Time `json:"scheduled_utc"`
}

// ItemOutcome records how one item fared across the run
type ItemOutcome struct {
	ContentID  int    `json:"content_id"`
	AudioFile  string `json:"audio_file,omitempty"`
	VideoFile  string `json:"video_file,omitempty"`
	YouTubeID  string `json:"youtube_id,omitempty"`
	YouTubeURL string `json:"youtube_url,omitempty"`
	Error      string `json:"error,omitempty"`
}

// RunState tracks the full state of one batch run
type RunState struct {
	RunID       string        `json:"run_id"`
	Date        string        `json:"date"`
	StartedAt   string        `json:"started_at"`
	CompletedAt string        `json:"completed_at"`
	Items       []ItemOutcome `json:"items"`
}
