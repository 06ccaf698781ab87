package grabber

//go:generate $MOCKGEN -source=extractor.go -destination=mocks/extractor_mock.go

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/tidwall/gjson"

	"github.com/oshokin/tube-grabber/internal/client/youtube"
	"github.com/oshokin/tube-grabber/internal/config"
	"github.com/oshokin/tube-grabber/internal/logger"
	"github.com/oshokin/tube-grabber/internal/utils"
)

// Extractor extracts video entries from YouTube playlist pages.
type Extractor interface {
	// ExtractVideoEntries returns the video entries found on the playlist page.
	// Extraction never fails: any problem yields an empty slice.
	ExtractVideoEntries(ctx context.Context, playlistURL string) []VideoEntry
}

// ExtractorImpl implements the Extractor interface.
type ExtractorImpl struct {
	// client fetches playlist pages over HTTP.
	client youtube.Client
	// entriesCache caches extracted entries to avoid refetching the same page.
	entriesCache *lru.Cache[string, []VideoEntry]
}

const (
	// initialDataMarker identifies the script element carrying the page data blob.
	initialDataMarker = "ytInitialData"
	// playlistContentsPath is the path to the playlist panel entries inside the data blob.
	playlistContentsPath = "contents.twoColumnWatchNextResults.playlist.playlist.contents"
	// videoTitlePath is the path to a video title inside a playlist panel entry.
	videoTitlePath = "playlistPanelVideoRenderer.title.simpleText"
	// videoIDPath is the path to a video ID inside a playlist panel entry.
	videoIDPath = "playlistPanelVideoRenderer.navigationEndpoint.watchEndpoint.videoId"
	// defaultVideoTitle is used when an entry carries no title.
	defaultVideoTitle = "No Title"
	// watchURLPrefix builds a direct watch URL from a video ID.
	watchURLPrefix = "https://www.youtube.com/watch?v="
	// initialDataGroupName is the named capture group holding the JSON blob.
	initialDataGroupName = "JSON"
)

// initialDataPattern extracts the JSON blob assigned to the ytInitialData variable.
var initialDataPattern = regexp.MustCompile(`(?s)var ytInitialData\s*=\s*(?P<JSON>\{.*?\});`)

// NewExtractor creates and returns a new instance of ExtractorImpl.
func NewExtractor(cfg *config.Config, client youtube.Client) (Extractor, error) {
	cacheSize := int(cfg.PageCacheSize)
	if cacheSize <= 0 {
		cacheSize = config.DefaultPageCacheSize
	}

	entriesCache, err := lru.New[string, []VideoEntry](cacheSize)
	if err != nil {
		return nil, fmt.Errorf("failed to create entries cache: %w", err)
	}

	return &ExtractorImpl{
		client:       client,
		entriesCache: entriesCache,
	}, nil
}

// ExtractVideoEntries returns the video entries found on the playlist page.
// Extraction never fails: any problem yields an empty slice.
func (e *ExtractorImpl) ExtractVideoEntries(ctx context.Context, playlistURL string) []VideoEntry {
	if entries, found := e.entriesCache.Get(playlistURL); found {
		logger.Debugf(ctx, "Using cached entries for '%s'", playlistURL)

		return entries
	}

	pageContent, err := e.client.FetchPageContent(ctx, playlistURL)
	if err != nil {
		logger.Warnf(ctx, "Failed to fetch playlist page '%s': %v", playlistURL, err)

		return nil
	}

	entries := e.parsePlaylistPage(ctx, playlistURL, pageContent)
	e.entriesCache.Add(playlistURL, entries)

	return entries
}

// parsePlaylistPage extracts video entries from the HTML of a playlist page.
func (e *ExtractorImpl) parsePlaylistPage(ctx context.Context, playlistURL, pageContent string) []VideoEntry {
	blob := e.findInitialData(ctx, playlistURL, pageContent)
	if blob == "" {
		return nil
	}

	if !gjson.Valid(blob) {
		logger.Warnf(ctx, "Page data blob of '%s' is not valid JSON", playlistURL)

		return nil
	}

	contents := gjson.Get(blob, playlistContentsPath)
	if !contents.Exists() {
		logger.Warnf(ctx, "No playlist contents found on '%s'", playlistURL)

		return nil
	}

	var entries []VideoEntry

	for _, item := range contents.Array() {
		videoID := item.Get(videoIDPath).String()
		if videoID == "" {
			continue
		}

		title := item.Get(videoTitlePath).String()
		if title == "" {
			title = defaultVideoTitle
		}

		entries = append(entries, VideoEntry{
			Title: title,
			Link:  watchURLPrefix + videoID,
		})
	}

	logger.Infof(ctx, "Extracted %d entries from '%s'", len(entries), playlistURL)

	return entries
}

// findInitialData locates the script element carrying the page data blob
// and returns the JSON assigned to the ytInitialData variable.
func (e *ExtractorImpl) findInitialData(ctx context.Context, playlistURL, pageContent string) string {
	document, err := goquery.NewDocumentFromReader(strings.NewReader(pageContent))
	if err != nil {
		logger.Warnf(ctx, "Failed to parse playlist page '%s': %v", playlistURL, err)

		return ""
	}

	var blob string

	document.Find("script").EachWithBreak(func(_ int, script *goquery.Selection) bool {
		text := script.Text()
		if !strings.Contains(text, initialDataMarker) {
			return true
		}

		blob = utils.ExtractNamedGroup(initialDataPattern, initialDataGroupName, text)

		return blob == ""
	})

	if blob == "" {
		logger.Warnf(ctx, "No page data blob found on '%s'", playlistURL)
	}

	return blob
}
