package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oshokin/tube-grabber/internal/utils"
)

// TestUserAgentInjector tests the UserAgentInjector round tripper.
func TestUserAgentInjector(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name              string
		existingUserAgent string
		expectedUserAgent string
	}{
		{
			name:              "missing header is injected",
			existingUserAgent: "",
			expectedUserAgent: "injected-agent",
		},
		{
			name:              "existing header is preserved",
			existingUserAgent: "custom-agent",
			expectedUserAgent: "custom-agent",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var receivedUserAgent string

			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				receivedUserAgent = r.Header.Get("User-Agent")
				_, _ = w.Write([]byte("ok"))
			}))
			defer server.Close()

			client := &http.Client{
				Transport: NewUserAgentInjector(
					http.DefaultTransport,
					utils.NewSimpleUserAgentProvider("injected-agent")),
			}

			request, err := http.NewRequestWithContext(
				context.Background(), http.MethodGet, server.URL, http.NoBody)
			require.NoError(t, err)

			if tt.existingUserAgent != "" {
				request.Header.Set("User-Agent", tt.existingUserAgent)
			}

			response, err := client.Do(request)
			require.NoError(t, err)
			require.NoError(t, response.Body.Close())

			assert.Equal(t, tt.expectedUserAgent, receivedUserAgent)
		})
	}
}
