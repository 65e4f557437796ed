package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("AI_SERVICE_KEY", "")
	t.Setenv("PORT", "")
	t.Setenv("AI_TIMEOUT", "")

	cfg := Load()

	assert.Equal(t, "8080", cfg.ServerPort)
	assert.Equal(t, "sqlite", cfg.DatabaseType)
	assert.Equal(t, "openai/gpt-oss-20b:free", cfg.AIModel)
	assert.Equal(t, 30*time.Second, cfg.AITimeout)
	assert.False(t, cfg.AIEnabled())
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("AI_SERVICE_KEY", "sk-test")
	t.Setenv("AI_TIMEOUT", "5s")
	t.Setenv("RATE_LIMIT_PER_MINUTE", "12")

	cfg := Load()

	assert.Equal(t, "9090", cfg.ServerPort)
	assert.True(t, cfg.AIEnabled())
	assert.Equal(t, 5*time.Second, cfg.AITimeout)
	assert.Equal(t, 12, cfg.RateLimitPerMinute)
}

func TestGetEnvIntRejectsGarbage(t *testing.T) {
	tests := []struct {
		name  string
		value string
		want  int
	}{
		{"empty", "", 7},
		{"not a number", "abc", 7},
		{"negative", "-3", 7},
		{"valid", "42", 42},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("FC_TEST_INT", tt.value)
			assert.Equal(t, tt.want, getEnvInt("FC_TEST_INT", 7))
		})
	}
}
