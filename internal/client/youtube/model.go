package youtube

import "io"

// DownloadResult contains the result of downloading a file from a URL.
type DownloadResult struct {
	// Body is the content stream. The caller is responsible for closing it.
	Body io.ReadCloser
	// TotalBytes is the total size of the content, or -1 if unknown.
	TotalBytes int64
}
