package storage

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigEnabled(t *testing.T) {
	assert.False(t, Config{}.Enabled())
	assert.False(t, Config{Endpoint: "minio:9000"}.Enabled())
	assert.True(t, Config{Endpoint: "minio:9000", Bucket: "reports"}.Enabled())
}

func TestObjectKey(t *testing.T) {
	assert.Equal(t, "r.json", ObjectKey("", "/out/r.json"))
	assert.Equal(t, "team/videos/r.json", ObjectKey("team/videos", "/out/r.json"))
}

func TestNewStorageTrimsPrefix(t *testing.T) {
	s, err := NewStorage(Config{Endpoint: "localhost:9000", Bucket: "reports", Prefix: "/runs/"})
	require.NoError(t, err)
	assert.Equal(t, "runs", s.prefix)
}
