package app

import (
	"context"

	youtube_client "github.com/oshokin/tube-grabber/internal/client/youtube"
	"github.com/oshokin/tube-grabber/internal/config"
	"github.com/oshokin/tube-grabber/internal/logger"
	ffmpeg_service "github.com/oshokin/tube-grabber/internal/service/ffmpeg"
	grabber_service "github.com/oshokin/tube-grabber/internal/service/grabber"
)

// ExecuteRootCommand is the entry point for the application.
// It initializes the YouTube client, sets up the necessary service components,
// and starts the download process for the configured playlists.
func ExecuteRootCommand(ctx context.Context, cfg *config.Config) {
	youtubeClient := youtube_client.NewClient(cfg)
	provisioner := ffmpeg_service.NewService(cfg, youtubeClient)

	extractor, err := grabber_service.NewExtractor(cfg, youtubeClient)
	if err != nil {
		logger.Fatalf(ctx, "Failed to initialize playlist extractor: %v", err)
	}

	tagProcessor := grabber_service.NewTagProcessor()
	fetcher := grabber_service.NewFetcher(cfg, tagProcessor)

	s := grabber_service.NewService(cfg, provisioner, extractor, fetcher)

	// Ensure statistics are ALWAYS printed, even on panic or os.Exit bypass.
	defer func() {
		if r := recover(); r != nil {
			logger.Errorf(ctx, "Panic recovered: %v", r)
		}

		s.PrintDownloadSummary(ctx)
	}()

	s.DownloadPlaylists(ctx)
}
