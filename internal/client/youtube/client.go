package youtube

//go:generate $MOCKGEN -source=client.go -destination=mocks/client_mock.go

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/oshokin/tube-grabber/internal/config"
	http_transport "github.com/oshokin/tube-grabber/internal/transport/http"
	"github.com/oshokin/tube-grabber/internal/utils"
)

// Client defines the interface for fetching pages and files over HTTP.
type Client interface {
	// FetchPageContent fetches the HTML content of the specified page.
	FetchPageContent(ctx context.Context, pageURL string) (string, error)
	// DownloadFromURL downloads content from the specified URL.
	DownloadFromURL(ctx context.Context, url string) (*DownloadResult, error)
}

// ClientImpl implements the Client interface.
type ClientImpl struct {
	// httpClient is the HTTP client for making requests.
	httpClient *http.Client
}

// Static error definitions for better error handling.
var (
	// ErrUnexpectedHTTPStatus indicates an unexpected HTTP status code was received.
	ErrUnexpectedHTTPStatus = errors.New("unexpected HTTP status")
)

// NewClient creates and returns a new instance of ClientImpl.
// It initializes the HTTP client with the User-Agent injecting and logging transports.
func NewClient(cfg *config.Config) Client {
	timeout := cfg.ParsedHTTPTimeout
	if timeout <= 0 {
		timeout = http_transport.DefaultTimeout
	}

	httpClient := &http.Client{
		Transport: http_transport.NewUserAgentInjector(
			http_transport.NewLogTransport(http.DefaultTransport, 0),
			utils.NewSimpleUserAgentProvider(http_transport.DefaultUserAgent)),
		Timeout: timeout,
	}

	return &ClientImpl{
		httpClient: httpClient,
	}
}

// FetchPageContent fetches the HTML content of the specified page.
func (c *ClientImpl) FetchPageContent(ctx context.Context, pageURL string) (string, error) {
	request, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, http.NoBody)
	if err != nil {
		return "", err
	}

	response, err := c.httpClient.Do(request)
	if err != nil {
		return "", err
	}

	defer response.Body.Close() //nolint:errcheck // Error on close is not critical here.

	if response.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: %d", ErrUnexpectedHTTPStatus, response.StatusCode)
	}

	content, err := io.ReadAll(response.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read page content: %w", err)
	}

	return string(content), nil
}

// DownloadFromURL downloads content from the specified URL.
// The returned body must be closed by the caller.
func (c *ClientImpl) DownloadFromURL(ctx context.Context, url string) (*DownloadResult, error) {
	request, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return nil, err
	}

	response, err := c.httpClient.Do(request)
	if err != nil {
		return nil, err
	}

	if response.StatusCode != http.StatusOK {
		response.Body.Close() //nolint:errcheck // Error on close is not critical here.

		return nil, fmt.Errorf("%w: %d", ErrUnexpectedHTTPStatus, response.StatusCode)
	}

	return &DownloadResult{
		Body:       response.Body,
		TotalBytes: response.ContentLength,
	}, nil
}
