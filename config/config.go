package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Audio     AudioConfig     `yaml:"audio"`
	Stock     StockConfig     `yaml:"stock"`
	Video     VideoConfig     `yaml:"video"`
	Subtitles SubtitlesConfig `yaml:"subtitles"`
	Upload    UploadConfig    `yaml:"upload"`
	Thumbnail ThumbnailConfig `yaml:"thumbnail"`
	Paths     PathsConfig     `yaml:"paths"`
}

type AudioConfig struct {
	Voice       string `yaml:"voice"`
	ChunkSize   int    `yaml:"chunk_size"`
	RateLimitMS int    `yaml:"rate_limit_ms"`
}

type StockConfig struct {
	PerPage           int     `yaml:"per_page"`
	MinDurationSec    float64 `yaml:"min_duration_sec"`
	MaxDurationSec    float64 `yaml:"max_duration_sec"`
	MaxWidth          int     `yaml:"max_width"`
	RequestTimeoutSec int     `yaml:"request_timeout_sec"`
}

type VideoConfig struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
	FPS    int `yaml:"fps"`
}

type SubtitlesConfig struct {
	WhisperModel string `yaml:"whisper_model"`
	Language     string `yaml:"language"`
	Font         string `yaml:"font"`
	FontSize     int    `yaml:"font_size"`
}

type UploadConfig struct {
	CategoryID        string `yaml:"category_id"`
	Privacy           string `yaml:"privacy"`
	MadeForKids       bool   `yaml:"made_for_kids"`
	NotifySubscribers bool   `yaml:"notify_subscribers"`
	DefaultLanguage   string `yaml:"default_language"`
}

type ThumbnailConfig struct {
	Template      string `yaml:"template"`
	Font          string `yaml:"font"`
	FontSize      int    `yaml:"font_size"`
	LetterSpacing int    `yaml:"letter_spacing"`
	BlurRadius    int    `yaml:"blur_radius"`
}

type PathsConfig struct {
	InputCSV string `yaml:"input_csv"`
	Workdir  string `yaml:"workdir"`
	Output   string `yaml:"output"`
}

// Load reads config.yaml and returns a Config struct
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	cfg.applyDefaults()
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Audio.Voice == "" {
		c.Audio.Voice = "en-US-JennyNeural"
	}
	if c.Audio.ChunkSize <= 0 {
		c.Audio.ChunkSize = 500
	}
	if c.Audio.RateLimitMS <= 0 {
		c.Audio.RateLimitMS = 500
	}
	if c.Stock.PerPage <= 0 {
		c.Stock.PerPage = 20
	}
	if c.Stock.MinDurationSec <= 0 {
		c.Stock.MinDurationSec = 10
	}
	if c.Stock.MaxDurationSec <= 0 {
		c.Stock.MaxDurationSec = 15
	}
	if c.Stock.MaxWidth <= 0 {
		c.Stock.MaxWidth = 1080
	}
	if c.Stock.RequestTimeoutSec <= 0 {
		c.Stock.RequestTimeoutSec = 30
	}
	if c.Video.Width <= 0 {
		c.Video.Width = 1080
	}
	if c.Video.Height <= 0 {
		c.Video.Height = 1920
	}
	if c.Video.FPS <= 0 {
		c.Video.FPS = 30
	}
	if c.Subtitles.WhisperModel == "" {
		c.Subtitles.WhisperModel = "base"
	}
	if c.Subtitles.Language == "" {
		c.Subtitles.Language = "en"
	}
	if c.Subtitles.Font == "" {
		c.Subtitles.Font = "Arial Black"
	}
	if c.Subtitles.FontSize <= 0 {
		c.Subtitles.FontSize = 80
	}
	if c.Thumbnail.FontSize <= 0 {
		c.Thumbnail.FontSize = 54
	}
	if c.Thumbnail.LetterSpacing <= 0 {
		c.Thumbnail.LetterSpacing = 9
	}
	if c.Thumbnail.BlurRadius <= 0 {
		c.Thumbnail.BlurRadius = 3
	}
	if c.Paths.InputCSV == "" {
		c.Paths.InputCSV = "input.csv"
	}
	if c.Paths.Workdir == "" {
		c.Paths.Workdir = "work"
	}
	if c.Paths.Output == "" {
		c.Paths.Output = "output"
	}
}

// Env holds all credentials read from the process environment. It is built
// once at startup and passed down explicitly — no component reads os.Getenv
// on its own.
type Env struct {
	PexelsKey           string
	PixabayKey          string
	YouTubeClientID     string
	YouTubeClientSecret string
	YouTubeRefreshToken string
	TargetDate          string
}

// LoadEnv snapshots the credentials and overrides from the environment
func LoadEnv() Env {
	return Env{
		PexelsKey:           os.Getenv("PEXELS_API_KEY"),
		PixabayKey:          os.Getenv("PIXABAY_API_KEY"),
		YouTubeClientID:     os.Getenv("YOUTUBE_CLIENT_ID"),
		YouTubeClientSecret: os.Getenv("YOUTUBE_CLIENT_SECRET"),
		YouTubeRefreshToken: os.Getenv("YOUTUBE_REFRESH_TOKEN"),
		TargetDate:          os.Getenv("TARGET_DATE"),
	}
}
