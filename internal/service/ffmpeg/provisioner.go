package ffmpeg

//go:generate $MOCKGEN -source=provisioner.go -destination=mocks/provisioner_mock.go

import (
	"archive/zip"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
	"github.com/schollz/progressbar/v3"
	"go.uber.org/zap"

	"github.com/oshokin/tube-grabber/internal/client/youtube"
	"github.com/oshokin/tube-grabber/internal/config"
	"github.com/oshokin/tube-grabber/internal/constants"
	"github.com/oshokin/tube-grabber/internal/logger"
)

// Service defines the interface for provisioning the ffmpeg binary.
type Service interface {
	// EnsureBinary returns the path to a usable ffmpeg binary inside targetDir,
	// downloading and extracting the archive if the binary is not already present.
	EnsureBinary(ctx context.Context, targetDir string) (string, error)
}

// ServiceImpl implements the Service interface.
type ServiceImpl struct {
	// cfg contains the application configuration.
	cfg *config.Config
	// client is the HTTP client used to download the archive.
	client youtube.Client
}

// Static error definitions for better error handling.
var (
	// ErrBinaryNotFound indicates that no ffmpeg binary was found after extraction.
	ErrBinaryNotFound = errors.New("ffmpeg binary not found in extracted archive")
	// ErrUnsafeArchivePath indicates that an archive entry would escape the target directory.
	ErrUnsafeArchivePath = errors.New("archive entry path escapes target directory")
)

// NewService creates and returns a new instance of ServiceImpl.
func NewService(cfg *config.Config, client youtube.Client) Service {
	return &ServiceImpl{
		cfg:    cfg,
		client: client,
	}
}

// binaryName returns the platform-specific name of the ffmpeg binary.
func binaryName() string {
	if runtime.GOOS == "windows" {
		return "ffmpeg.exe"
	}

	return "ffmpeg"
}

// EnsureBinary returns the path to a usable ffmpeg binary inside targetDir,
// downloading and extracting the archive if the binary is not already present.
func (s *ServiceImpl) EnsureBinary(ctx context.Context, targetDir string) (string, error) {
	if targetDir == "" {
		targetDir = s.cfg.FFmpegDir
	}

	// Fast path: the binary may already be provisioned from a previous run.
	if binaryPath, found := findBinary(targetDir); found {
		logger.Debugf(ctx, "Found existing ffmpeg binary at '%s'", binaryPath)

		return binaryPath, nil
	}

	if err := os.MkdirAll(targetDir, constants.DefaultFolderPermissions); err != nil {
		return "", fmt.Errorf("failed to create ffmpeg directory: %w", err)
	}

	archivePath, err := s.downloadArchive(ctx, targetDir)
	if archivePath != "" {
		// The archive is an intermediate artifact, remove it whether extraction succeeds or not.
		defer func() {
			if removeErr := os.Remove(archivePath); removeErr != nil && !os.IsNotExist(removeErr) {
				logger.Warnf(ctx, "Failed to remove temporary archive '%s': %v", archivePath, removeErr)
			}
		}()
	}

	if err != nil {
		return "", err
	}

	if err = extractArchive(archivePath, targetDir); err != nil {
		return "", fmt.Errorf("failed to extract ffmpeg archive: %w", err)
	}

	binaryPath, found := findBinary(targetDir)
	if !found {
		return "", ErrBinaryNotFound
	}

	logger.Infof(ctx, "Provisioned ffmpeg binary at '%s'", binaryPath)

	return binaryPath, nil
}

// downloadArchive downloads the ffmpeg zip archive into targetDir under a unique temporary name.
// It returns the path of the written archive even on failure so the caller can clean it up.
func (s *ServiceImpl) downloadArchive(ctx context.Context, targetDir string) (string, error) {
	logger.Infof(ctx, "Downloading ffmpeg archive from '%s'", s.cfg.FFmpegArchiveURL)

	result, err := s.client.DownloadFromURL(ctx, s.cfg.FFmpegArchiveURL)
	if err != nil {
		return "", fmt.Errorf("failed to download ffmpeg archive: %w", err)
	}

	defer result.Body.Close() //nolint:errcheck // Error on close is not critical here.

	if result.TotalBytes > 0 {
		logger.Infof(ctx, "Archive size: %s", humanize.Bytes(uint64(result.TotalBytes)))
	}

	archivePath := filepath.Join(targetDir, uuid.NewString()+constants.ExtensionZip)

	f, err := os.OpenFile(filepath.Clean(archivePath),
		os.O_WRONLY|os.O_CREATE|os.O_TRUNC, constants.DefaultFilePermissions)
	if err != nil {
		return "", fmt.Errorf("failed to create temporary archive: %w", err)
	}

	defer f.Close() //nolint:errcheck // Error on close is not critical here.

	// Progress bars are suppressed below info level to keep debug output readable.
	var writer io.Writer = f

	if logger.Level() <= zap.InfoLevel {
		bar := progressbar.DefaultBytes(
			result.TotalBytes,
			"Downloading ffmpeg",
		)

		writer = io.MultiWriter(f, bar)
	}

	if _, err = io.Copy(writer, result.Body); err != nil {
		return archivePath, fmt.Errorf("failed to write archive: %w", err)
	}

	return archivePath, nil
}

// extractArchive extracts a zip archive into targetDir,
// rejecting entries whose paths would escape the target directory.
func extractArchive(archivePath, targetDir string) error {
	reader, err := zip.OpenReader(archivePath)
	if err != nil {
		return fmt.Errorf("failed to open archive: %w", err)
	}

	defer reader.Close() //nolint:errcheck // Error on close is not critical here.

	for _, file := range reader.File {
		if err = extractArchiveEntry(file, targetDir); err != nil {
			return err
		}
	}

	return nil
}

// extractArchiveEntry writes a single archive entry to disk under targetDir.
func extractArchiveEntry(file *zip.File, targetDir string) error {
	destPath := filepath.Join(targetDir, file.Name) //nolint:gosec // Path is validated below.

	// Guard against zip entries escaping the extraction directory.
	if !strings.HasPrefix(destPath, filepath.Clean(targetDir)+string(os.PathSeparator)) {
		return fmt.Errorf("%w: '%s'", ErrUnsafeArchivePath, file.Name)
	}

	if file.FileInfo().IsDir() {
		return os.MkdirAll(destPath, constants.DefaultFolderPermissions)
	}

	if err := os.MkdirAll(filepath.Dir(destPath), constants.DefaultFolderPermissions); err != nil {
		return fmt.Errorf("failed to create directory for '%s': %w", file.Name, err)
	}

	src, err := file.Open()
	if err != nil {
		return fmt.Errorf("failed to open archive entry '%s': %w", file.Name, err)
	}

	defer src.Close() //nolint:errcheck // Error on close is not critical here.

	dst, err := os.OpenFile(filepath.Clean(destPath),
		os.O_WRONLY|os.O_CREATE|os.O_TRUNC, file.Mode())
	if err != nil {
		return fmt.Errorf("failed to create file '%s': %w", destPath, err)
	}

	defer dst.Close() //nolint:errcheck // Error on close is not critical here.

	//nolint:gosec // Archive comes from a trusted build distribution.
	if _, err = io.Copy(dst, src); err != nil {
		return fmt.Errorf("failed to extract '%s': %w", file.Name, err)
	}

	return nil
}

// findBinary walks dir recursively looking for the platform-specific ffmpeg binary.
func findBinary(dir string) (string, bool) {
	var (
		wantedName = binaryName()
		binaryPath string
	)

	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if !d.IsDir() && d.Name() == wantedName {
			binaryPath = path

			return fs.SkipAll
		}

		return nil
	})
	if err != nil || binaryPath == "" {
		return "", false
	}

	return binaryPath, true
}
