package fetch

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHostAllowed(t *testing.T) {
	hosts := []string{"pbs.twimg.com", "video.twimg.com"}

	tests := []struct {
		name    string
		url     string
		allowed bool
	}{
		{
			name:    "exactMatch",
			url:     "https://pbs.twimg.com/media/abc.jpg",
			allowed: true,
		},
		{
			name:    "secondHostMatch",
			url:     "https://video.twimg.com/vid/1.mp4",
			allowed: true,
		},
		{
			name:    "subdomainMatch",
			url:     "https://cdn.pbs.twimg.com/media/abc.jpg",
			allowed: true,
		},
		{
			name:    "caseInsensitive",
			url:     "https://PBS.TWIMG.COM/media/abc.jpg",
			allowed: true,
		},
		{
			name:    "unrelatedHost",
			url:     "https://evil.example.com/abc.jpg",
			allowed: false,
		},
		{
			name:    "suffixWithoutDotBoundary",
			url:     "https://notpbs.twimg.com.example.com/x.jpg",
			allowed: false,
		},
		{
			name:    "prefixTrick",
			url:     "https://xpbs.twimg.com.attacker.io/x.jpg",
			allowed: false,
		},
		{
			name:    "noHost",
			url:     "/relative/path.jpg",
			allowed: false,
		},
		{
			name:    "malformed",
			url:     "ht tp://%%%",
			allowed: false,
		},
		{
			name:    "emptyReference",
			url:     "",
			allowed: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.allowed, HostAllowed(tt.url, hosts))
		})
	}
}

func TestHostAllowedEmptyAllowlist(t *testing.T) {
	assert.False(t, HostAllowed("https://pbs.twimg.com/x.jpg", nil))
	assert.False(t, HostAllowed("https://pbs.twimg.com/x.jpg", []string{"", "  "}))
}
