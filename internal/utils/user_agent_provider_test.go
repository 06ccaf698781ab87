package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestSimpleUserAgentProvider tests the SimpleUserAgentProvider implementation.
func TestSimpleUserAgentProvider(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		userAgent string
	}{
		{
			name:      "regular user agent",
			userAgent: "Mozilla/5.0 (test)",
		},
		{
			name:      "empty user agent",
			userAgent: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			provider := NewSimpleUserAgentProvider(tt.userAgent)
			assert.Implements(t, (*UserAgentProvider)(nil), provider)
			assert.Equal(t, tt.userAgent, provider.GetUserAgent())
		})
	}
}
