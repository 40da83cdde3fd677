package config

import (
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config holds the two model bindings and their sampling/transport knobs.
// MODEL1 backs single mode; comparison mode needs MODEL1 and MODEL2. A model
// with a non-empty endpoint is dispatched over HTTP, otherwise it runs on the
// in-process engine.
type Config struct {
	Port string `env:"PORT" env-default:"3000"`

	Model1         string `env:"MODEL1"`
	Model2         string `env:"MODEL2"`
	Model1Endpoint string `env:"MODEL1_ENDPOINT"`
	Model2Endpoint string `env:"MODEL2_ENDPOINT"`

	// EngineProvider picks the in-process engine implementation.
	EngineProvider string `env:"ENGINE_PROVIDER" env-default:"langchain"`

	Temperature     float64       `env:"TEMPERATURE" env-default:"0.8"`
	MaxTokens       int           `env:"MAX_TOKENS" env-default:"500"`
	EngineMaxTokens int           `env:"ENGINE_MAX_TOKENS" env-default:"200"`
	RequestTimeout  time.Duration `env:"REQUEST_TIMEOUT" env-default:"30s"`

	LogLevel string `env:"LOG_LEVEL" env-default:"info"`

	StaticDir string `env:"STATIC_DIR" env-default:"./interface"`
}

func Load() (*Config, error) {
	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// EndpointFor maps a bound model identifier to its configured model server
// endpoint. Empty means the model is served by the in-process engine.
func (c *Config) EndpointFor(model string) string {
	switch model {
	case c.Model1:
		return c.Model1Endpoint
	case c.Model2:
		return c.Model2Endpoint
	}
	return ""
}
