package client

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWebSocketURL(t *testing.T) {
	tests := map[string]string{
		"localhost:8080":          "ws://localhost:8080/ws",
		"localhost:8080/":         "ws://localhost:8080/ws",
		"ws://example.com":        "ws://example.com/ws",
		"ws://example.com/ws":     "ws://example.com/ws",
		"wss://example.com/":      "wss://example.com/ws",
		"http://127.0.0.1:1234":   "ws://127.0.0.1:1234/ws",
		"https://game.example.io": "wss://game.example.io/ws",
	}
	for in, want := range tests {
		assert.Equal(t, want, WebSocketURL(in), in)
	}
}

func TestConfig_SaveAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "bot.json")

	cfg, err := loadConfigFile(path)
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)

	cfg.PlayerToken = "tok"
	cfg.PlayerID = "p1"
	cfg.Difficulty = "hard"
	require.NoError(t, cfg.saveFile(path))

	loaded, err := loadConfigFile(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}
