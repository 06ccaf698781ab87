// Package grabber implements the playlist download pipeline:
// extracting video entries from YouTube playlist pages and fetching each entry
// with yt-dlp, either as extracted audio or as a merged video file.
package grabber
