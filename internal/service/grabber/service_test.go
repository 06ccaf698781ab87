package grabber

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/oshokin/tube-grabber/internal/config"
	mock_ffmpeg "github.com/oshokin/tube-grabber/internal/service/ffmpeg/mocks"
)

// mockExtractor returns canned entries per playlist URL.
type mockExtractor struct {
	entriesByURL map[string][]VideoEntry
	calls        []string
}

func (m *mockExtractor) ExtractVideoEntries(_ context.Context, playlistURL string) []VideoEntry {
	m.calls = append(m.calls, playlistURL)

	return m.entriesByURL[playlistURL]
}

// mockFetcher records fetch requests and reports every entry as downloaded.
type mockFetcher struct {
	requests []*FetchRequest
}

func (m *mockFetcher) FetchEntries(_ context.Context, request *FetchRequest) *FetchResult {
	m.requests = append(m.requests, request)

	return &FetchResult{Downloaded: int64(len(request.Entries))}
}

// writePlaylistsFile writes a playlists descriptor file and returns its path.
func writePlaylistsFile(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "playlists.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	return path
}

// TestDownloadPlaylists tests the full playlist processing pipeline.
func TestDownloadPlaylists(t *testing.T) {
	t.Parallel()

	const (
		audioPlaylistURL = "https://www.youtube.com/watch?v=a&list=PLaudio"
		videoPlaylistURL = "https://www.youtube.com/watch?v=v&list=PLvideo"
		emptyPlaylistURL = "https://www.youtube.com/watch?v=e&list=PLempty"
	)

	playlistsPath := writePlaylistsFile(t, `[
		{"link": "`+audioPlaylistURL+`", "with_video": false},
		{"link": "`+videoPlaylistURL+`", "with_video": true},
		{"link": "`+emptyPlaylistURL+`", "with_video": false}
	]`)

	cfg := &config.Config{
		PlaylistsPath:   playlistsPath,
		FFmpegDir:       "ffmpeg",
		AudioOutputPath: "music",
		VideoOutputPath: "videos",
	}

	ctrl := gomock.NewController(t)
	provisioner := mock_ffmpeg.NewMockService(ctrl)
	provisioner.EXPECT().
		EnsureBinary(gomock.Any(), "ffmpeg").
		Return(filepath.Join("ffmpeg", "bin", "ffmpeg"), nil)

	extractor := &mockExtractor{
		entriesByURL: map[string][]VideoEntry{
			audioPlaylistURL: {
				{Title: "Song A", Link: "https://www.youtube.com/watch?v=aaa111"},
				{Title: "Song B", Link: "https://www.youtube.com/watch?v=bbb222"},
			},
			videoPlaylistURL: {
				{Title: "Clip", Link: "https://www.youtube.com/watch?v=ccc333"},
			},
		},
	}
	fetcher := new(mockFetcher)

	service, ok := NewService(cfg, provisioner, extractor, fetcher).(*ServiceImpl)
	require.True(t, ok)

	service.DownloadPlaylists(context.Background())

	// Every descriptor was extracted in order.
	assert.Equal(t, []string{audioPlaylistURL, videoPlaylistURL, emptyPlaylistURL}, extractor.calls)

	// The empty playlist never reaches the fetcher.
	require.Len(t, fetcher.requests, 2)

	audioRequest := fetcher.requests[0]
	assert.False(t, audioRequest.WithVideo)
	assert.Equal(t, "music", audioRequest.OutputDir)
	assert.Equal(t, filepath.Join("ffmpeg", "bin", "ffmpeg"), audioRequest.FFmpegPath)
	assert.Len(t, audioRequest.Entries, 2)

	videoRequest := fetcher.requests[1]
	assert.True(t, videoRequest.WithVideo)
	assert.Equal(t, "videos", videoRequest.OutputDir)
	assert.Len(t, videoRequest.Entries, 1)

	// Statistics reflect the whole session.
	assert.Equal(t, int64(3), service.stats.PlaylistsProcessed)
	assert.Equal(t, int64(1), service.stats.PlaylistsEmpty)
	assert.Equal(t, int64(3), service.stats.EntriesExtracted)
	assert.Equal(t, int64(3), service.stats.VideosDownloaded)
	assert.False(t, service.stats.StartTime.IsZero())
	assert.False(t, service.stats.EndTime.IsZero())
}

// TestDownloadPlaylists_ProvisionerFailureAborts tests that a missing ffmpeg aborts the run.
func TestDownloadPlaylists_ProvisionerFailureAborts(t *testing.T) {
	t.Parallel()

	playlistsPath := writePlaylistsFile(t, `[{"link": "https://www.youtube.com/watch?v=a&list=PLx"}]`)

	cfg := &config.Config{
		PlaylistsPath:   playlistsPath,
		FFmpegDir:       "ffmpeg",
		AudioOutputPath: "music",
		VideoOutputPath: "videos",
	}

	ctrl := gomock.NewController(t)
	provisioner := mock_ffmpeg.NewMockService(ctrl)
	provisioner.EXPECT().
		EnsureBinary(gomock.Any(), "ffmpeg").
		Return("", errors.New("archive without binary"))

	extractor := &mockExtractor{}
	fetcher := new(mockFetcher)

	service, ok := NewService(cfg, provisioner, extractor, fetcher).(*ServiceImpl)
	require.True(t, ok)

	service.DownloadPlaylists(context.Background())

	assert.Empty(t, extractor.calls)
	assert.Empty(t, fetcher.requests)
	assert.Equal(t, int64(0), service.stats.PlaylistsProcessed)
}

// TestDownloadPlaylists_NoDescriptors tests that a missing playlists file stops before extraction.
func TestDownloadPlaylists_NoDescriptors(t *testing.T) {
	t.Parallel()

	cfg := &config.Config{
		PlaylistsPath:   filepath.Join(t.TempDir(), "missing.json"),
		FFmpegDir:       "ffmpeg",
		AudioOutputPath: "music",
		VideoOutputPath: "videos",
	}

	ctrl := gomock.NewController(t)
	provisioner := mock_ffmpeg.NewMockService(ctrl)
	provisioner.EXPECT().
		EnsureBinary(gomock.Any(), "ffmpeg").
		Return("ffmpeg", nil)

	extractor := &mockExtractor{}
	fetcher := new(mockFetcher)

	service := NewService(cfg, provisioner, extractor, fetcher)
	service.DownloadPlaylists(context.Background())

	assert.Empty(t, extractor.calls)
	assert.Empty(t, fetcher.requests)
}

// TestDownloadPlaylists_ForceVideo tests that the video override trumps per-playlist settings.
func TestDownloadPlaylists_ForceVideo(t *testing.T) {
	t.Parallel()

	const playlistURL = "https://www.youtube.com/watch?v=a&list=PLaudio"

	playlistsPath := writePlaylistsFile(t, `[{"link": "`+playlistURL+`", "with_video": false}]`)

	cfg := &config.Config{
		PlaylistsPath:   playlistsPath,
		FFmpegDir:       "ffmpeg",
		AudioOutputPath: "music",
		VideoOutputPath: "videos",
		ForceVideo:      true,
	}

	ctrl := gomock.NewController(t)
	provisioner := mock_ffmpeg.NewMockService(ctrl)
	provisioner.EXPECT().
		EnsureBinary(gomock.Any(), "ffmpeg").
		Return("ffmpeg", nil)

	extractor := &mockExtractor{
		entriesByURL: map[string][]VideoEntry{
			playlistURL: {{Title: "Song A", Link: "https://www.youtube.com/watch?v=aaa111"}},
		},
	}
	fetcher := new(mockFetcher)

	service := NewService(cfg, provisioner, extractor, fetcher)
	service.DownloadPlaylists(context.Background())

	require.Len(t, fetcher.requests, 1)
	assert.True(t, fetcher.requests[0].WithVideo)
	assert.Equal(t, "videos", fetcher.requests[0].OutputDir)
}
