// Package youtube provides the HTTP client used to fetch YouTube playlist pages
// and to download auxiliary files such as the ffmpeg archive.
package youtube
