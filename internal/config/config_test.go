package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFromEnvDefaults(t *testing.T) {
	for _, key := range []string{"PORT", "MAX_WORKERS", "PDF_THEME", "DOCUMENT_CACHE_TTL", "ARCHIVE_DOCUMENTS", "REDIS_DB"} {
		t.Setenv(key, "")
	}

	cfg := FromEnv()
	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, 5, cfg.MaxWorkers)
	assert.Equal(t, "plain", cfg.Theme)
	assert.Equal(t, 10*time.Minute, cfg.CacheTTL)
	assert.Equal(t, 15*time.Second, cfg.ReadTimeout)
	assert.False(t, cfg.ArchiveDocuments)
}

func TestFromEnvOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("MAX_WORKERS", "not-a-number")
	t.Setenv("PDF_THEME", "blue")
	t.Setenv("DOCUMENT_CACHE_TTL", "30")
	t.Setenv("ARCHIVE_DOCUMENTS", "YES")
	t.Setenv("S3_ACCESS_KEY_ID", "")
	t.Setenv("S3_ACCESS_KEY_SECRET", "")

	cfg := FromEnv()
	assert.Equal(t, 9090, cfg.Port)
	assert.Equal(t, 5, cfg.MaxWorkers)
	assert.Equal(t, "blue", cfg.Theme)
	assert.Equal(t, 30*time.Second, cfg.CacheTTL)
	assert.True(t, cfg.ArchiveDocuments)
	assert.False(t, cfg.ArchiveEnabled())

	t.Setenv("S3_ACCESS_KEY_ID", "id")
	t.Setenv("S3_ACCESS_KEY_SECRET", "secret")
	assert.True(t, FromEnv().ArchiveEnabled())
}
