package llm

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDefaultConfig_NotConfiguredWithoutKey(t *testing.T) {
	cfg := DefaultConfig()
	assert.False(t, cfg.Configured())
	assert.Equal(t, 30*time.Second, cfg.Timeout())

	cfg.APIKey = "sk-test"
	assert.True(t, cfg.Configured())

	cfg.Enabled = false
	assert.False(t, cfg.Configured())
}

func TestConfig_Timeout(t *testing.T) {
	assert.Equal(t, 250*time.Millisecond, Config{TimeoutMs: 250}.Timeout())
	assert.Equal(t, 30*time.Second, Config{TimeoutMs: -1}.Timeout())
}
