package main

import (
	"context"
	"os"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/KsuParkhamchuk/vllm-mm-chat-comparison/internal/api"
	"github.com/KsuParkhamchuk/vllm-mm-chat-comparison/internal/api/routes"
	"github.com/KsuParkhamchuk/vllm-mm-chat-comparison/internal/config"
	llmHandlers "github.com/KsuParkhamchuk/vllm-mm-chat-comparison/internal/llm_handlers"
	"github.com/KsuParkhamchuk/vllm-mm-chat-comparison/internal/repo"
	"github.com/KsuParkhamchuk/vllm-mm-chat-comparison/internal/telemetry"
	"github.com/KsuParkhamchuk/vllm-mm-chat-comparison/internal/workflow"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Warn().Msg(".env file not found")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	setupLogging(cfg.LogLevel)

	// The in-process engine only exists when some bound model has no
	// endpoint; a fully remote deployment skips engine startup entirely.
	var engine llmHandlers.Engine
	if needsEngine(cfg) {
		engine, err = llmHandlers.NewEngine(context.Background(), cfg)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to initialize inference engine")
		}
		log.Info().Str("provider", cfg.EngineProvider).Str("model", cfg.Model1).Msg("inference engine ready")
	}

	recorder := telemetry.NewRecorder(0)
	defer recorder.Close()

	roomRepo := repo.NewRoomRepository(cfg.Model1, cfg.Model2)
	remote := llmHandlers.NewRemoteClient(cfg.RequestTimeout, cfg.Temperature, cfg.MaxTokens)
	dispatcher := workflow.NewBackendDispatcher(cfg, engine, remote)
	turns := workflow.NewTurnWorkflow(roomRepo, dispatcher, recorder)

	app := api.NewServer()
	routes.Register(app, roomRepo, turns, cfg.StaticDir)
	app.Static("/", cfg.StaticDir)

	if err := api.StartServer(app, cfg.Port); err != nil {
		log.Fatal().Err(err).Msg("failed to start server")
	}
}

func setupLogging(level string) {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		lvl = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(lvl)
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
}

func needsEngine(cfg *config.Config) bool {
	if cfg.Model1 != "" && cfg.Model1Endpoint == "" {
		return true
	}
	if cfg.Model2 != "" && cfg.Model2Endpoint == "" {
		return true
	}
	return false
}
