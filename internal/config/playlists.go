package config

import (
	"context"
	"encoding/json"
	"os"
	"strings"

	"github.com/oshokin/tube-grabber/internal/logger"
)

// PlaylistDescriptor describes a single playlist entry in the playlists JSON file.
type PlaylistDescriptor struct {
	// Link is the URL of the playlist page.
	Link string `json:"link"`
	// WithVideo selects video downloads for this playlist instead of audio extraction.
	WithVideo bool `json:"with_video"`
}

// LoadPlaylists reads playlist descriptors from a JSON file.
// It never fails: a missing or malformed file yields an empty slice,
// and entries with an empty link are skipped with a warning.
func LoadPlaylists(ctx context.Context, path string) []PlaylistDescriptor {
	data, err := os.ReadFile(path)
	if err != nil {
		logger.Warnf(ctx, "Failed to read playlists file '%s': %v", path, err)

		return nil
	}

	var descriptors []PlaylistDescriptor
	if err = json.Unmarshal(data, &descriptors); err != nil {
		logger.Warnf(ctx, "Failed to parse playlists file '%s': %v", path, err)

		return nil
	}

	result := make([]PlaylistDescriptor, 0, len(descriptors))

	for i, descriptor := range descriptors {
		if strings.TrimSpace(descriptor.Link) == "" {
			logger.Warnf(ctx, "Skipping playlist entry %d in '%s': empty link", i+1, path)

			continue
		}

		result = append(result, descriptor)
	}

	return result
}
