package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCacheControl(t *testing.T) {
	tests := map[string]string{
		"index.html":               "no-cache",
		"nested/index.html":        "no-cache",
		"assets/index-4f2a9c.js":   "public, max-age=31536000, immutable",
		"assets/logo-1b2c.svg":     "public, max-age=31536000, immutable",
		"favicon.ico":              "public, max-age=3600",
		"flights/assets-notes.txt": "public, max-age=3600",
	}
	for key, want := range tests {
		assert.Equal(t, want, cacheControl(key), key)
	}
}
