// Package ffmpeg provisions the ffmpeg binary required for audio extraction and video merging.
// If the binary is not already present in the target directory, the service downloads
// a zip archive, extracts it, and locates the binary inside the extracted tree.
package ffmpeg
