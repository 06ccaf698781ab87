package grabber

//go:generate $MOCKGEN -source=service.go -destination=mocks/service_mock.go

import (
	"context"
	"sync"
	"time"

	"github.com/oshokin/tube-grabber/internal/config"
	"github.com/oshokin/tube-grabber/internal/logger"
	"github.com/oshokin/tube-grabber/internal/service/ffmpeg"
)

// Service orchestrates the full playlist download pipeline.
type Service interface {
	// DownloadPlaylists processes every playlist descriptor from the configured catalog.
	DownloadPlaylists(ctx context.Context)
	// PrintDownloadSummary prints a formatted summary of download statistics.
	PrintDownloadSummary(ctx context.Context)
}

// ServiceImpl implements the Service interface.
type ServiceImpl struct {
	// cfg contains the application configuration.
	cfg *config.Config
	// provisioner ensures the ffmpeg binary is available before downloading.
	provisioner ffmpeg.Service
	// extractor extracts video entries from playlist pages.
	extractor Extractor
	// fetcher downloads video entries with yt-dlp.
	fetcher Fetcher
	// stats tracks download statistics for the current session.
	stats *DownloadStatistics
	// statsMutex protects concurrent access to statistics.
	statsMutex *sync.Mutex
}

// NewService creates a download service instance with dependency-injected components.
func NewService(
	cfg *config.Config,
	provisioner ffmpeg.Service,
	extractor Extractor,
	fetcher Fetcher,
) Service {
	return &ServiceImpl{
		cfg:         cfg,
		provisioner: provisioner,
		extractor:   extractor,
		fetcher:     fetcher,
		stats:       new(DownloadStatistics),
		statsMutex:  new(sync.Mutex),
	}
}

// DownloadPlaylists processes every playlist descriptor from the configured catalog.
// A missing ffmpeg binary aborts the run, but individual playlist or video
// failures only affect their own entries.
func (s *ServiceImpl) DownloadPlaylists(ctx context.Context) {
	s.statsMutex.Lock()
	s.stats.StartTime = time.Now()
	s.statsMutex.Unlock()

	defer func() {
		s.statsMutex.Lock()
		s.stats.EndTime = time.Now()
		s.statsMutex.Unlock()
	}()

	// Downloads cannot proceed without ffmpeg: audio extraction and merging depend on it.
	ffmpegPath, err := s.provisioner.EnsureBinary(ctx, s.cfg.FFmpegDir)
	if err != nil {
		logger.Errorf(ctx, "Failed to provision ffmpeg: %v", err)

		return
	}

	descriptors := config.LoadPlaylists(ctx, s.cfg.PlaylistsPath)
	if len(descriptors) == 0 {
		logger.Warnf(ctx, "No playlists to process in '%s'", s.cfg.PlaylistsPath)

		return
	}

	logger.Infof(ctx, "Starting download process, %d playlist(s) to process", len(descriptors))

	descriptorsCount := len(descriptors)

	for index, descriptor := range descriptors {
		// Check if context was canceled (CTRL+C pressed) - stop immediately.
		select {
		case <-ctx.Done():
			return
		default:
		}

		logger.Infof(ctx, "Processing playlist: %s (%d / %d)", descriptor.Link, index+1, descriptorsCount)
		s.downloadPlaylist(ctx, descriptor, ffmpegPath)
	}

	logger.Info(ctx, "Download process completed")
}

// downloadPlaylist extracts and downloads all entries of a single playlist.
func (s *ServiceImpl) downloadPlaylist(ctx context.Context, descriptor config.PlaylistDescriptor, ffmpegPath string) {
	entries := s.extractor.ExtractVideoEntries(ctx, descriptor.Link)
	s.recordPlaylistProcessed(len(entries))

	if len(entries) == 0 {
		logger.Warnf(ctx, "Playlist '%s' yielded no entries, skipping", descriptor.Link)

		return
	}

	withVideo := descriptor.WithVideo || s.cfg.ForceVideo

	outputDir := s.cfg.AudioOutputPath
	if withVideo {
		outputDir = s.cfg.VideoOutputPath
	}

	result := s.fetcher.FetchEntries(ctx, &FetchRequest{
		Entries:    entries,
		OutputDir:  outputDir,
		FFmpegPath: ffmpegPath,
		WithVideo:  withVideo,
	})

	s.recordFetchResult(result, descriptor.Link)
}
