package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	content := `
env = "test"

[notification]
registry = "redis"
session_buffer_size = 8

[task]
max_attempts = 3
min_backoff = "2s"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))

	t.Setenv("REDIS_ADDRESS", "redis:6379")
	t.Setenv("KAFKA_ADDRESS", "kafka:9092")

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "test", cfg.Env)
	require.Equal(t, "redis", cfg.Notification.Registry)
	require.Equal(t, 8, cfg.Notification.SessionBufferSize)
	require.Equal(t, 3, cfg.Task.MaxAttempts)
	require.Equal(t, 2*time.Second, cfg.Task.MinBackoff)
	require.Equal(t, time.Minute, cfg.Task.MaxBackoff)
	require.Equal(t, "redis:6379", cfg.Redis.Addr)
	require.Equal(t, []string{"kafka:9092"}, cfg.Kafka.Addr)
	require.Equal(t, 1000, cfg.Lobby.MaxMessageLength)
}

func TestLoad_InvalidSnowFlakeNode(t *testing.T) {
	t.Setenv("SNOWFLAKE_NODE_ID", "abc")

	_, err := Load("")
	require.Error(t, err)
}
