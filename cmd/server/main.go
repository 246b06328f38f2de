package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"docchat/internal/api"
	"docchat/internal/config"
	"docchat/internal/embedding"
	"docchat/internal/rag"
	"docchat/internal/store"
)

const shutdownTimeout = 10 * time.Second

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}).With().Caller().Logger()

	// Secrets usually live in .env during development; in containers the
	// variables are set externally and the file is absent.
	_ = godotenv.Load()

	configPath := flag.String("config", "./configs/config.yaml", "Path to the config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal().Err(err).Msg("Error loading config")
	}
	if cfg.Debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}

	ctx := context.Background()

	st := store.Connect(cfg)
	defer st.Close()
	if err := st.Init(ctx); err != nil {
		log.Fatal().Err(err).Msg("Error initializing database")
	}

	embedder, err := embedding.New(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Error initializing embedder")
	}

	streamer, err := rag.NewStreamer(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Error initializing answer streamer")
	}

	engine := rag.NewRAG(st, embedder, streamer, cfg.TopK)
	ingestor := rag.NewIngestor(st, embedder, cfg.ChunkSize)

	router := api.NewRouter(
		api.NewChatHandler(engine),
		api.NewUploadHandler(ingestor),
		api.NewPartitionsHandler(st),
		log.Logger,
	)

	srv := &http.Server{
		Addr:    cfg.Addr,
		Handler: router,
	}

	go func() {
		log.Info().Str("addr", cfg.Addr).Msg("listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Error running server")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(ctx, shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Error shutting down server")
	}
}
