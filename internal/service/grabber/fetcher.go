package grabber

//go:generate $MOCKGEN -source=fetcher.go -destination=mocks/fetcher_mock.go

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/lrstanley/go-ytdlp"

	"github.com/oshokin/tube-grabber/internal/config"
	"github.com/oshokin/tube-grabber/internal/constants"
	"github.com/oshokin/tube-grabber/internal/logger"
	"github.com/oshokin/tube-grabber/internal/utils"
)

// Fetcher downloads batches of video entries with yt-dlp.
type Fetcher interface {
	// FetchEntries downloads every entry in the request sequentially.
	// A failed entry is recorded and skipped, it never aborts the batch.
	FetchEntries(ctx context.Context, request *FetchRequest) *FetchResult
}

// FetcherImpl implements the Fetcher interface.
type FetcherImpl struct {
	// cfg contains the application configuration.
	cfg *config.Config
	// tagProcessor writes metadata tags to extracted audio files.
	tagProcessor TagProcessor
	// runCommand executes a prepared yt-dlp command for a single URL.
	// Swappable for tests.
	runCommand func(ctx context.Context, command *ytdlp.Command, url string) error
	// installed reports whether the yt-dlp binary was already provisioned for this session.
	installed bool
}

const (
	// audioFormatSelector requests the best available audio stream.
	audioFormatSelector = "bestaudio/best"
	// videoFormatSelector requests the best video and audio streams for merging.
	videoFormatSelector = "bestvideo+bestaudio/best"
	// outputExtensionTemplate lets yt-dlp pick the final extension.
	outputExtensionTemplate = ".%(ext)s"
)

// NewFetcher creates and returns a new instance of FetcherImpl.
func NewFetcher(cfg *config.Config, tagProcessor TagProcessor) Fetcher {
	return &FetcherImpl{
		cfg:          cfg,
		tagProcessor: tagProcessor,
		runCommand: func(ctx context.Context, command *ytdlp.Command, url string) error {
			_, err := command.Run(ctx, url)

			return err
		},
	}
}

// FetchEntries downloads every entry in the request sequentially.
// A failed entry is recorded and skipped, it never aborts the batch.
func (f *FetcherImpl) FetchEntries(ctx context.Context, request *FetchRequest) *FetchResult {
	result := new(FetchResult)

	if len(request.Entries) == 0 {
		return result
	}

	if err := os.MkdirAll(request.OutputDir, constants.DefaultFolderPermissions); err != nil {
		logger.Errorf(ctx, "Failed to create output directory '%s': %v", request.OutputDir, err)

		result.Failed = int64(len(request.Entries))
		for _, entry := range request.Entries {
			result.Errors = append(result.Errors, DownloadError{
				VideoTitle:   entry.Title,
				VideoURL:     entry.Link,
				ErrorMessage: err.Error(),
			})
		}

		return result
	}

	f.ensureDownloaderInstalled(ctx)

	logger.Debugf(ctx, "Fetching %s", request)

	entriesCount := len(request.Entries)

	for index, entry := range request.Entries {
		// Stop immediately on CTRL+C or timeout.
		select {
		case <-ctx.Done():
			return result
		default:
		}

		logger.Infof(ctx, "Downloading '%s' (%d / %d)", entry.Title, index+1, entriesCount)

		if err := f.fetchEntry(ctx, request, entry); err != nil {
			logger.Errorf(ctx, "Failed to download '%s': %v", entry.Title, err)

			result.Failed++
			result.Errors = append(result.Errors, DownloadError{
				VideoTitle:   entry.Title,
				VideoURL:     entry.Link,
				ErrorMessage: err.Error(),
			})

			continue
		}

		result.Downloaded++
	}

	return result
}

// fetchEntry downloads a single entry and post-processes the result.
func (f *FetcherImpl) fetchEntry(ctx context.Context, request *FetchRequest, entry VideoEntry) error {
	sanitizedTitle := utils.SanitizeFilename(entry.Title)
	outputTemplate := filepath.Join(request.OutputDir, sanitizedTitle+outputExtensionTemplate)

	command := f.buildCommand(request, outputTemplate)

	if err := f.runCommand(ctx, command, entry.Link); err != nil {
		return err
	}

	if request.WithVideo {
		return nil
	}

	// Tag extracted audio so players show the original title instead of the filename.
	audioPath := filepath.Join(request.OutputDir, sanitizedTitle+"."+f.cfg.AudioFormat)
	if err := f.tagProcessor.WriteTitleTag(ctx, audioPath, entry.Title); err != nil {
		logger.Warnf(ctx, "Failed to tag '%s': %v", audioPath, err)
	}

	return nil
}

// buildCommand prepares the yt-dlp invocation for a single entry.
func (f *FetcherImpl) buildCommand(request *FetchRequest, outputTemplate string) *ytdlp.Command {
	command := ytdlp.New().Output(outputTemplate)

	if request.FFmpegPath != "" {
		command = command.FFmpegLocation(request.FFmpegPath)
	}

	if request.WithVideo {
		return command.
			Format(videoFormatSelector).
			MergeOutputFormat(f.cfg.VideoContainer)
	}

	return command.
		Format(audioFormatSelector).
		ExtractAudio().
		AudioFormat(f.cfg.AudioFormat).
		AudioQuality(f.cfg.AudioQuality)
}

// ensureDownloaderInstalled provisions the yt-dlp binary once per session.
// A failed installation is not fatal: the binary may already be on PATH.
func (f *FetcherImpl) ensureDownloaderInstalled(ctx context.Context) {
	if f.installed {
		return
	}

	if _, err := ytdlp.Install(ctx, nil); err != nil {
		logger.Warnf(ctx, "Failed to provision yt-dlp binary: %v", err)

		return
	}

	f.installed = true
}

// String returns a short description of the request for logging.
func (r *FetchRequest) String() string {
	mode := "audio"
	if r.WithVideo {
		mode = "video"
	}

	return fmt.Sprintf("%d entries (%s) -> %s", len(r.Entries), mode, r.OutputDir)
}
