package ffmpeg

import (
	"archive/zip"
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oshokin/tube-grabber/internal/client/youtube"
	"github.com/oshokin/tube-grabber/internal/config"
)

// buildArchive builds an in-memory zip archive with the given entries.
func buildArchive(t *testing.T, entries map[string]string) []byte {
	t.Helper()

	var buf bytes.Buffer

	writer := zip.NewWriter(&buf)

	for name, content := range entries {
		entry, err := writer.Create(name)
		require.NoError(t, err)

		_, err = entry.Write([]byte(content))
		require.NoError(t, err)
	}

	require.NoError(t, writer.Close())

	return buf.Bytes()
}

// newArchiveServer serves the given archive bytes and counts requests.
func newArchiveServer(t *testing.T, archive []byte, requestCount *atomic.Int64) *httptest.Server {
	t.Helper()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		requestCount.Add(1)
		_, _ = w.Write(archive)
	}))

	t.Cleanup(server.Close)

	return server
}

// TestEnsureBinary tests the EnsureBinary method.
func TestEnsureBinary(t *testing.T) {
	t.Parallel()

	archive := buildArchive(t, map[string]string{
		"ffmpeg-build/bin/" + binaryName(): "binary contents",
		"ffmpeg-build/LICENSE.txt":         "license text",
	})

	var requestCount atomic.Int64

	server := newArchiveServer(t, archive, &requestCount)

	targetDir := t.TempDir()
	cfg := &config.Config{FFmpegArchiveURL: server.URL, FFmpegDir: targetDir}
	service := NewService(cfg, youtube.NewClient(cfg))

	binaryPath, err := service.EnsureBinary(context.Background(), targetDir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(targetDir, "ffmpeg-build", "bin", binaryName()), binaryPath)
	assert.Equal(t, int64(1), requestCount.Load())

	content, err := os.ReadFile(binaryPath)
	require.NoError(t, err)
	assert.Equal(t, "binary contents", string(content))

	// The temporary archive must be gone after extraction.
	entries, err := os.ReadDir(targetDir)
	require.NoError(t, err)

	for _, entry := range entries {
		assert.NotEqual(t, ".zip", filepath.Ext(entry.Name()))
	}

	// A second call finds the binary without touching the network.
	binaryPathAgain, err := service.EnsureBinary(context.Background(), targetDir)
	require.NoError(t, err)
	assert.Equal(t, binaryPath, binaryPathAgain)
	assert.Equal(t, int64(1), requestCount.Load())
}

// TestEnsureBinary_BinaryMissingFromArchive tests that an archive without ffmpeg is rejected.
func TestEnsureBinary_BinaryMissingFromArchive(t *testing.T) {
	t.Parallel()

	archive := buildArchive(t, map[string]string{
		"ffmpeg-build/README.md": "no binary here",
	})

	var requestCount atomic.Int64

	server := newArchiveServer(t, archive, &requestCount)

	targetDir := t.TempDir()
	cfg := &config.Config{FFmpegArchiveURL: server.URL, FFmpegDir: targetDir}
	service := NewService(cfg, youtube.NewClient(cfg))

	binaryPath, err := service.EnsureBinary(context.Background(), targetDir)
	require.ErrorIs(t, err, ErrBinaryNotFound)
	assert.Empty(t, binaryPath)
}

// TestEnsureBinary_DownloadFailure tests that a failed download surfaces an error.
func TestEnsureBinary_DownloadFailure(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	targetDir := t.TempDir()
	cfg := &config.Config{FFmpegArchiveURL: server.URL, FFmpegDir: targetDir}
	service := NewService(cfg, youtube.NewClient(cfg))

	binaryPath, err := service.EnsureBinary(context.Background(), targetDir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to download ffmpeg archive")
	assert.Empty(t, binaryPath)
}

// TestExtractArchive_RejectsPathTraversal tests that entries escaping the target directory are rejected.
func TestExtractArchive_RejectsPathTraversal(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	writer := zip.NewWriter(&buf)

	entry, err := writer.Create("../escape.txt")
	require.NoError(t, err)

	_, err = entry.Write([]byte("should not land outside"))
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	tempDir := t.TempDir()
	archivePath := filepath.Join(tempDir, "malicious.zip")
	require.NoError(t, os.WriteFile(archivePath, buf.Bytes(), 0o644))

	targetDir := filepath.Join(tempDir, "extracted")
	require.NoError(t, os.MkdirAll(targetDir, 0o755))

	err = extractArchive(archivePath, targetDir)
	require.ErrorIs(t, err, ErrUnsafeArchivePath)

	_, statErr := os.Stat(filepath.Join(tempDir, "escape.txt"))
	assert.True(t, os.IsNotExist(statErr))
}

// TestFindBinary tests the findBinary helper.
func TestFindBinary(t *testing.T) {
	t.Parallel()

	tempDir := t.TempDir()

	// Missing directory and empty directory both come up empty.
	_, found := findBinary(filepath.Join(tempDir, "missing"))
	assert.False(t, found)

	_, found = findBinary(tempDir)
	assert.False(t, found)

	nested := filepath.Join(tempDir, "build", "bin")
	require.NoError(t, os.MkdirAll(nested, 0o755))

	wantedPath := filepath.Join(nested, binaryName())
	require.NoError(t, os.WriteFile(wantedPath, []byte("binary"), 0o755))

	binaryPath, found := findBinary(tempDir)
	assert.True(t, found)
	assert.Equal(t, wantedPath, binaryPath)
}
