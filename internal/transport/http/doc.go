// Package http provides custom HTTP transport decorators used by the application's clients.
// It includes a User-Agent injecting round tripper and a debug logging round tripper,
// along with shared transport-level constants such as the default request timeout.
package http
