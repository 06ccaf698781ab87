package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
	"go.uber.org/zap/zapcore"

	"github.com/oshokin/tube-grabber/internal/logger"
)

// Config holds all configuration settings.
type Config struct {
	// PlaylistsPath is the path to the JSON file describing playlists to download.
	PlaylistsPath string `mapstructure:"playlists_path"`
	// FFmpegDir is the directory where the ffmpeg binary is provisioned and searched for.
	FFmpegDir string `mapstructure:"ffmpeg_dir"`
	// FFmpegArchiveURL is the URL of the zip archive containing the ffmpeg binary.
	FFmpegArchiveURL string `mapstructure:"ffmpeg_archive_url"`
	// AudioOutputPath is the directory path where extracted audio files will be saved.
	AudioOutputPath string `mapstructure:"audio_output_path"`
	// VideoOutputPath is the directory path where downloaded video files will be saved.
	VideoOutputPath string `mapstructure:"video_output_path"`
	// AudioFormat is the target audio container for audio-only downloads.
	AudioFormat string `mapstructure:"audio_format"`
	// AudioQuality is the target audio bitrate passed to the post-processor (e.g., "192K").
	AudioQuality string `mapstructure:"audio_quality"`
	// VideoContainer is the target container for merged video downloads.
	VideoContainer string `mapstructure:"video_container"`
	// LogLevel specifies the logging verbosity level.
	LogLevel string `mapstructure:"log_level"`
	// HTTPTimeout is the timeout for HTTP requests (e.g., "60s", "2m").
	HTTPTimeout string `mapstructure:"http_timeout"`
	// PageCacheSize is the maximum number of playlist pages to keep in the extraction cache.
	PageCacheSize int64 `mapstructure:"page_cache_size"`
	// ForceVideo forces video downloads for every playlist, overriding per-playlist settings.
	ForceVideo bool
	// ParsedLogLevel is the parsed zap log level.
	ParsedLogLevel zapcore.Level
	// ParsedHTTPTimeout is the parsed HTTP request timeout.
	ParsedHTTPTimeout time.Duration
}

const (
	// DefaultConfigFilename is the default name of the configuration file.
	DefaultConfigFilename = ".tube-grabber.yaml"

	// DefaultPlaylistsFilename is the default name of the playlists descriptor file.
	DefaultPlaylistsFilename = "playlists.json"

	// DefaultFFmpegDir is the default directory for the provisioned ffmpeg binary.
	DefaultFFmpegDir = "ffmpeg"

	// DefaultFFmpegArchiveURL is the default download URL for the ffmpeg zip archive.
	DefaultFFmpegArchiveURL = "https://github.com/BtbN/FFmpeg-Builds/releases/download/latest/ffmpeg-master-latest-win64-gpl.zip" //nolint: lll

	// DefaultAudioOutputPath is the default directory for extracted audio files.
	DefaultAudioOutputPath = "music"

	// DefaultVideoOutputPath is the default directory for downloaded video files.
	DefaultVideoOutputPath = "videos"

	// DefaultAudioFormat is the default audio container for audio-only downloads.
	DefaultAudioFormat = "mp3"

	// DefaultAudioQuality is the default audio bitrate for audio-only downloads.
	DefaultAudioQuality = "192K"

	// DefaultVideoContainer is the default container for merged video downloads.
	DefaultVideoContainer = "mp4"

	// DefaultLogLevel is the default logging verbosity level.
	DefaultLogLevel = "info"

	// DefaultHTTPTimeout is the default timeout for HTTP requests.
	DefaultHTTPTimeout = "60s"

	// DefaultPageCacheSize is the default maximum number of cached playlist pages.
	DefaultPageCacheSize = 100
)

// Static error definitions for better error handling.
var (
	// ErrEmptyPlaylistsPath indicates that the playlists descriptor path is missing.
	ErrEmptyPlaylistsPath = errors.New("playlists path cannot be empty")
	// ErrEmptyFFmpegArchiveURL indicates that the ffmpeg archive URL is missing.
	ErrEmptyFFmpegArchiveURL = errors.New("ffmpeg archive URL cannot be empty")
	// ErrEmptyAudioOutputPath indicates that the audio output path is missing.
	ErrEmptyAudioOutputPath = errors.New("audio output path cannot be empty")
	// ErrEmptyVideoOutputPath indicates that the video output path is missing.
	ErrEmptyVideoOutputPath = errors.New("video output path cannot be empty")
	// ErrUnknownLogLevel indicates that the log level is not recognized.
	ErrUnknownLogLevel = errors.New("unknown log level")
	// ErrInvalidHTTPTimeout indicates that the HTTP timeout duration is invalid.
	ErrInvalidHTTPTimeout = errors.New("http_timeout must be positive")
	// ErrInvalidPageCacheSize indicates that the page cache size is invalid.
	ErrInvalidPageCacheSize = errors.New("page_cache_size must be a positive integer")
)

// setDefaults registers built-in defaults so the application runs without a config file.
func setDefaults() {
	viper.SetDefault("playlists_path", DefaultPlaylistsFilename)
	viper.SetDefault("ffmpeg_dir", DefaultFFmpegDir)
	viper.SetDefault("ffmpeg_archive_url", DefaultFFmpegArchiveURL)
	viper.SetDefault("audio_output_path", DefaultAudioOutputPath)
	viper.SetDefault("video_output_path", DefaultVideoOutputPath)
	viper.SetDefault("audio_format", DefaultAudioFormat)
	viper.SetDefault("audio_quality", DefaultAudioQuality)
	viper.SetDefault("video_container", DefaultVideoContainer)
	viper.SetDefault("log_level", DefaultLogLevel)
	viper.SetDefault("http_timeout", DefaultHTTPTimeout)
	viper.SetDefault("page_cache_size", DefaultPageCacheSize)
}

// LoadConfig loads configuration settings from a YAML file.
// A missing config file is not an error: the built-in defaults are used instead.
func LoadConfig(configFilename string) (*Config, error) {
	if configFilename == "" {
		configFilename = DefaultConfigFilename
	}

	setDefaults()
	viper.SetConfigFile(configFilename)

	if err := viper.ReadInConfig(); err != nil {
		var notFoundErr viper.ConfigFileNotFoundError
		if !errors.As(err, &notFoundErr) && !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to read config from file: %w", err)
		}
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

// ValidateConfig checks the configuration for validity and sets derived fields.
func ValidateConfig(cfg *Config) error {
	if strings.TrimSpace(cfg.PlaylistsPath) == "" {
		return ErrEmptyPlaylistsPath
	}

	if strings.TrimSpace(cfg.FFmpegArchiveURL) == "" {
		return ErrEmptyFFmpegArchiveURL
	}

	if strings.TrimSpace(cfg.AudioOutputPath) == "" {
		return ErrEmptyAudioOutputPath
	}

	if strings.TrimSpace(cfg.VideoOutputPath) == "" {
		return ErrEmptyVideoOutputPath
	}

	if strings.TrimSpace(cfg.FFmpegDir) == "" {
		cfg.FFmpegDir = DefaultFFmpegDir
	}

	if strings.TrimSpace(cfg.AudioFormat) == "" {
		cfg.AudioFormat = DefaultAudioFormat
	}

	if strings.TrimSpace(cfg.AudioQuality) == "" {
		cfg.AudioQuality = DefaultAudioQuality
	}

	if strings.TrimSpace(cfg.VideoContainer) == "" {
		cfg.VideoContainer = DefaultVideoContainer
	}

	parsedLogLevel, isLogLevelCorrect := logger.ParseLogLevel(cfg.LogLevel)
	if !isLogLevelCorrect {
		return fmt.Errorf("%w: '%s'", ErrUnknownLogLevel, cfg.LogLevel)
	}

	cfg.ParsedLogLevel = parsedLogLevel

	parsedHTTPTimeout, err := time.ParseDuration(cfg.HTTPTimeout)
	if err != nil {
		return fmt.Errorf("failed to parse HTTP timeout: %w", err)
	}

	if parsedHTTPTimeout <= 0 {
		return ErrInvalidHTTPTimeout
	}

	cfg.ParsedHTTPTimeout = parsedHTTPTimeout

	if cfg.PageCacheSize <= 0 {
		return ErrInvalidPageCacheSize
	}

	return nil
}
