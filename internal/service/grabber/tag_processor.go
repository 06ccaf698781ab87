package grabber

//go:generate $MOCKGEN -source=tag_processor.go -destination=mocks/tag_processor_mock.go

import (
	"context"
	"errors"
	"path/filepath"
	"strings"

	"github.com/oshokin/id3v2/v2"

	"github.com/oshokin/tube-grabber/internal/constants"
	"github.com/oshokin/tube-grabber/internal/logger"
	"github.com/oshokin/tube-grabber/internal/utils"
)

// TagProcessor defines the interface for writing metadata tags to downloaded audio files.
type TagProcessor interface {
	// WriteTitleTag writes the title tag to the audio file at audioPath.
	WriteTitleTag(ctx context.Context, audioPath, title string) error
}

// TagProcessorImpl provides the default implementation of TagProcessor.
type TagProcessorImpl struct{}

// Static error definitions for better error handling.
var (
	// ErrEmptyAudioPath indicates that the audio file path is empty.
	ErrEmptyAudioPath = errors.New("audio path cannot be empty")
)

// NewTagProcessor creates a new TagProcessor instance.
func NewTagProcessor() TagProcessor {
	return new(TagProcessorImpl)
}

// WriteTitleTag writes the title tag to the audio file at audioPath.
// Files that are not MP3, or that were never written, are skipped silently.
func (tp *TagProcessorImpl) WriteTitleTag(ctx context.Context, audioPath, title string) error {
	if audioPath == "" {
		return ErrEmptyAudioPath
	}

	if !strings.EqualFold(filepath.Ext(audioPath), constants.ExtensionMP3) {
		return nil
	}

	exists, err := utils.IsFileExist(audioPath)
	if err != nil {
		return err
	}

	if !exists {
		logger.Debugf(ctx, "Skipping tagging, file '%s' does not exist", audioPath)

		return nil
	}

	// Parse existing frames so tagging does not wipe what the extractor already wrote.
	tag, err := id3v2.Open(audioPath, id3v2.Options{Parse: true})
	if err != nil {
		return err
	}

	defer tag.Close() //nolint:errcheck // Error on close is not critical here.

	tag.SetDefaultEncoding(id3v2.EncodingUTF8)
	tag.SetTitle(title)

	return tag.Save()
}
