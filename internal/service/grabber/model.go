package grabber

import "time"

// VideoEntry is a single video extracted from a playlist page.
type VideoEntry struct {
	// Title is the display title of the video.
	Title string
	// Link is the direct watch URL of the video.
	Link string
}

// FetchRequest describes a batch of entries to download.
type FetchRequest struct {
	// Entries are the videos to download, processed in order.
	Entries []VideoEntry
	// OutputDir is the directory where downloaded files are written.
	OutputDir string
	// FFmpegPath is the path to the ffmpeg binary used for extraction and merging.
	FFmpegPath string
	// WithVideo selects merged video downloads instead of audio extraction.
	WithVideo bool
}

// FetchResult summarizes the outcome of a batch download.
type FetchResult struct {
	// Downloaded is the number of entries fetched successfully.
	Downloaded int64
	// Failed is the number of entries that could not be fetched.
	Failed int64
	// Errors holds one entry per failed download.
	Errors []DownloadError
}

// DownloadError describes a single failed download.
type DownloadError struct {
	// VideoTitle is the title of the video that failed.
	VideoTitle string
	// VideoURL is the watch URL of the video that failed.
	VideoURL string
	// PlaylistURL is the URL of the playlist the video came from.
	PlaylistURL string
	// ErrorMessage is the failure description.
	ErrorMessage string
}

// DownloadStatistics tracks metrics for a download session.
type DownloadStatistics struct {
	// PlaylistsProcessed is the number of playlist descriptors handled.
	PlaylistsProcessed int64
	// PlaylistsEmpty is the number of playlists that yielded no entries.
	PlaylistsEmpty int64
	// EntriesExtracted is the total number of video entries extracted from playlist pages.
	EntriesExtracted int64
	// VideosDownloaded is the number of entries fetched successfully.
	VideosDownloaded int64
	// VideosFailed is the number of entries that could not be fetched.
	VideosFailed int64
	// StartTime is when the download session started.
	StartTime time.Time
	// EndTime is when the download session finished.
	EndTime time.Time
	// Errors holds details of every failed download.
	Errors []DownloadError
}
