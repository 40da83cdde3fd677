package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "3000", cfg.Port)
	assert.Equal(t, 0.8, cfg.Temperature)
	assert.Equal(t, 500, cfg.MaxTokens)
	assert.Equal(t, 200, cfg.EngineMaxTokens)
	assert.Equal(t, 30*time.Second, cfg.RequestTimeout)
	assert.Equal(t, "langchain", cfg.EngineProvider)
}

func TestLoad_FromEnv(t *testing.T) {
	t.Setenv("MODEL1", "google/gemma-3-1b-it")
	t.Setenv("MODEL2", "google/gemma-3-27b-it")
	t.Setenv("MODEL1_ENDPOINT", "http://localhost:8001/v1/chat/completions")
	t.Setenv("MODEL2_ENDPOINT", "http://localhost:8002/v1/chat/completions")
	t.Setenv("REQUEST_TIMEOUT", "5s")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "google/gemma-3-1b-it", cfg.Model1)
	assert.Equal(t, "google/gemma-3-27b-it", cfg.Model2)
	assert.Equal(t, 5*time.Second, cfg.RequestTimeout)
}

func TestEndpointFor(t *testing.T) {
	cfg := &Config{
		Model1:         "small",
		Model2:         "big",
		Model2Endpoint: "http://localhost:8002",
	}

	assert.Equal(t, "", cfg.EndpointFor("small"))
	assert.Equal(t, "http://localhost:8002", cfg.EndpointFor("big"))
	assert.Equal(t, "", cfg.EndpointFor("unknown"))
}
