package grabber

import (
	"context"
	"fmt"
	"time"

	"github.com/oshokin/tube-grabber/internal/logger"
)

// summarySeparator frames the download summary output.
const summarySeparator = "═══════════════════════════════════════════════════════════════"

// formatDuration formats a duration into a human-readable string.
func formatDuration(d time.Duration) string {
	if d < time.Second {
		return fmt.Sprintf("%dms", d.Milliseconds())
	}

	hours := int(d.Hours())
	minutes := int(d.Minutes()) % 60
	seconds := int(d.Seconds()) % 60

	if hours > 0 {
		return fmt.Sprintf("%dh %dm %ds", hours, minutes, seconds)
	}

	if minutes > 0 {
		return fmt.Sprintf("%dm %ds", minutes, seconds)
	}

	return fmt.Sprintf("%ds", seconds)
}

// recordPlaylistProcessed updates statistics after a playlist page was handled.
func (s *ServiceImpl) recordPlaylistProcessed(entriesCount int) {
	s.statsMutex.Lock()
	defer s.statsMutex.Unlock()

	s.stats.PlaylistsProcessed++
	s.stats.EntriesExtracted += int64(entriesCount)

	if entriesCount == 0 {
		s.stats.PlaylistsEmpty++
	}
}

// recordFetchResult merges a batch download outcome into the session statistics.
func (s *ServiceImpl) recordFetchResult(result *FetchResult, playlistURL string) {
	s.statsMutex.Lock()
	defer s.statsMutex.Unlock()

	s.stats.VideosDownloaded += result.Downloaded
	s.stats.VideosFailed += result.Failed

	for _, downloadError := range result.Errors {
		downloadError.PlaylistURL = playlistURL
		s.stats.Errors = append(s.stats.Errors, downloadError)
	}
}

// PrintDownloadSummary prints a formatted summary of download statistics.
func (s *ServiceImpl) PrintDownloadSummary(ctx context.Context) {
	s.statsMutex.Lock()
	defer s.statsMutex.Unlock()

	stats := s.stats

	// If nothing was processed, don't print summary.
	if stats.PlaylistsProcessed == 0 {
		return
	}

	// Check if the context was canceled (CTRL+C or timeout).
	wasInterrupted := ctx.Err() != nil

	s.printSummaryHeader(ctx, wasInterrupted)
	s.printPlaylistStatistics(ctx, stats)
	s.printVideoStatistics(ctx, stats)
	s.printDurationStatistics(ctx, stats)
	logger.Info(ctx, summarySeparator)
	s.printErrorDetails(ctx, stats)
	s.printFinalMessage(ctx, wasInterrupted, stats)
}

// printSummaryHeader prints the summary header.
func (s *ServiceImpl) printSummaryHeader(ctx context.Context, wasInterrupted bool) {
	logger.Info(ctx, "")
	logger.Info(ctx, summarySeparator)

	if wasInterrupted {
		logger.Info(ctx, "           DOWNLOAD SUMMARY (Interrupted)")
	} else {
		logger.Info(ctx, "                     DOWNLOAD SUMMARY")
	}

	logger.Info(ctx, summarySeparator)
}

// printPlaylistStatistics prints playlist processing statistics.
func (s *ServiceImpl) printPlaylistStatistics(ctx context.Context, stats *DownloadStatistics) {
	logger.Infof(ctx, "Playlists:        %d total processed", stats.PlaylistsProcessed)

	if stats.PlaylistsEmpty > 0 {
		logger.Infof(ctx, "  Empty:           %d", stats.PlaylistsEmpty)
	}
}

// printVideoStatistics prints per-video download statistics.
func (s *ServiceImpl) printVideoStatistics(ctx context.Context, stats *DownloadStatistics) {
	if stats.EntriesExtracted == 0 {
		return
	}

	logger.Infof(ctx, "Videos:           %d total extracted", stats.EntriesExtracted)

	if stats.VideosDownloaded > 0 {
		logger.Infof(ctx, "  Downloaded:      %d", stats.VideosDownloaded)
	}

	if stats.VideosFailed > 0 {
		logger.Infof(ctx, "  Failed:          %d", stats.VideosFailed)
	}

	processed := stats.VideosDownloaded + stats.VideosFailed
	if processed > 0 {
		successRate := float64(stats.VideosDownloaded) / float64(processed) * 100
		logger.Infof(ctx, "  Success Rate:    %.1f%%", successRate)
	}
}

// printDurationStatistics prints the session duration.
func (s *ServiceImpl) printDurationStatistics(ctx context.Context, stats *DownloadStatistics) {
	if stats.StartTime.IsZero() || stats.EndTime.IsZero() {
		return
	}

	duration := stats.EndTime.Sub(stats.StartTime)

	// Only show if duration is meaningful (> 100ms).
	if duration > 100*time.Millisecond {
		logger.Infof(ctx, "Duration:         %s", formatDuration(duration))
	}
}

// printErrorDetails prints detailed error information if any errors occurred.
func (s *ServiceImpl) printErrorDetails(ctx context.Context, stats *DownloadStatistics) {
	if len(stats.Errors) == 0 {
		return
	}

	logger.Info(ctx, "")
	logger.Errorf(ctx, "ERRORS ENCOUNTERED: %d", len(stats.Errors))

	for i := range stats.Errors {
		logger.Info(ctx, "")
		logger.Errorf(ctx, "  [%d] %s", i+1, stats.Errors[i].VideoTitle)

		if stats.Errors[i].VideoURL != "" {
			logger.Errorf(ctx, "      URL: %s", stats.Errors[i].VideoURL)
		}

		if stats.Errors[i].PlaylistURL != "" {
			logger.Errorf(ctx, "      Playlist: %s", stats.Errors[i].PlaylistURL)
		}

		logger.Errorf(ctx, "      Error: %s", stats.Errors[i].ErrorMessage)
	}

	logger.Info(ctx, "")
	logger.Info(ctx, summarySeparator)
}

// printFinalMessage prints a helpful message based on download results.
func (s *ServiceImpl) printFinalMessage(ctx context.Context, wasInterrupted bool, stats *DownloadStatistics) {
	switch {
	case wasInterrupted:
		logger.Info(ctx, "")
		logger.Warn(ctx, "Download interrupted by user (CTRL+C).")

		if stats.VideosDownloaded > 0 {
			logger.Infof(ctx, "Successfully downloaded %d video(s) before interruption.", stats.VideosDownloaded)
		}
	case len(stats.Errors) > 0:
		logger.Info(ctx, "")
		logger.Warnf(ctx, "%d error(s) occurred during download. See detailed error log above.", len(stats.Errors))
	case stats.VideosDownloaded > 0:
		logger.Info(ctx, "")
		logger.Info(ctx, "All downloads completed successfully!")
	}
}
