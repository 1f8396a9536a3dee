package storage

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestObjectName(t *testing.T) {
	at := time.Unix(1700000000, 0)
	name := ObjectName("/products/", "Tumbler.PNG", at)
	assert.True(t, strings.HasPrefix(name, "products/1700000000_"))
	assert.True(t, strings.HasSuffix(name, ".png"))
}

func TestPublicURL(t *testing.T) {
	cfg := Config{Endpoint: "localhost:9000", Bucket: "orbio-images"}
	assert.Equal(t, "http://localhost:9000/orbio-images/a.png", PublicURL(cfg, "a.png"))

	cfg.UseSSL = true
	assert.Equal(t, "https://localhost:9000/orbio-images/a.png", PublicURL(cfg, "a.png"))

	cfg.PublicURL = "https://cdn.orbio.com/"
	assert.Equal(t, "https://cdn.orbio.com/orbio-images/a.png", PublicURL(cfg, "a.png"))
}

func TestObjectFromURL(t *testing.T) {
	cfg := Config{Endpoint: "localhost:9000", Bucket: "orbio-images", PublicURL: "https://cdn.orbio.com"}

	name, ok := ObjectFromURL(cfg, PublicURL(cfg, "products/1700000000_x.png"))
	assert.True(t, ok)
	assert.Equal(t, "products/1700000000_x.png", name)

	for _, u := range []string{
		"https://example.com/orbio-images/products/x.png",
		"https://cdn.orbio.com/other-bucket/x.png",
		"https://cdn.orbio.com/orbio-images/",
		"https://cdn.orbio.com/orbio-images/../secrets",
	} {
		_, ok := ObjectFromURL(cfg, u)
		assert.False(t, ok, u)
	}
}

func TestNotConfigured(t *testing.T) {
	_, err := New(context.Background(), Config{})
	assert.ErrorIs(t, err, ErrNotConfigured)

	var s *ImageStore
	_, err = s.Upload(context.Background(), "x", "a.png", strings.NewReader("x"), 1, "image/png")
	assert.ErrorIs(t, err, ErrNotConfigured)
	assert.ErrorIs(t, s.Delete(context.Background(), "http://localhost:9000/b/a.png"), ErrNotConfigured)
}
