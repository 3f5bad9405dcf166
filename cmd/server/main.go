package main

import (
	"context"
	"flag"
	"log/slog"

	"github.com/panelglot/panelglot/config"
	"github.com/panelglot/panelglot/pkg/dispatch"
	"github.com/panelglot/panelglot/pkg/fetcher"
	"github.com/panelglot/panelglot/pkg/handshake"
	"github.com/panelglot/panelglot/pkg/otel"
	"github.com/panelglot/panelglot/pkg/pipeline"
	"github.com/panelglot/panelglot/pkg/session"
	"github.com/panelglot/panelglot/pkg/status"
	"github.com/panelglot/panelglot/server"
	"github.com/panelglot/panelglot/server/api"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
)

var version = "0.0.0-dev"

func main() {
	godotenv.Load()

	configFlag := flag.String("config", "config.yaml", "configuration file")
	addressFlag := flag.String("address", "", "listen address")

	flag.Parse()

	ctx := context.Background()

	if err := otel.Setup(ctx, "panelglot", version); err != nil {
		panic(err)
	}

	cfg, err := config.Parse(*configFlag)

	if err != nil {
		panic(err)
	}

	if *addressFlag != "" {
		cfg.Address = *addressFlag
	}

	instance := uuid.NewString()

	detector, err := cfg.Detector("")

	if err != nil {
		panic(err)
	}

	translator, err := cfg.Translator("")

	if err != nil {
		panic(err)
	}

	probe := fetcher.New()

	pipelineOptions := []pipeline.Option{
		pipeline.WithSettings(cfg.Settings),
		pipeline.WithFetcher(probe),

		pipeline.WithDetector(detector),
		pipeline.WithTranslator(translator),

		pipeline.WithInstance(instance),
	}

	if cfg.Pipeline.Workers > 0 {
		pipelineOptions = append(pipelineOptions, pipeline.WithConcurrency(cfg.Pipeline.Workers))
	}

	if cfg.Pipeline.Cache > 0 {
		pipelineOptions = append(pipelineOptions, pipeline.WithCache(cfg.Pipeline.Cache))
	}

	processor, err := pipeline.New(pipelineOptions...)

	if err != nil {
		panic(err)
	}

	sessions := session.NewRegistry()
	indicator := status.New()

	retrierOptions := []handshake.Option{
		handshake.WithInstance(instance),
	}

	if cfg.Handshake.Attempts > 0 {
		retrierOptions = append(retrierOptions, handshake.WithMaxAttempts(cfg.Handshake.Attempts))
	}

	if cfg.Handshake.Delay > 0 {
		retrierOptions = append(retrierOptions, handshake.WithBaseDelay(cfg.Handshake.Delay))
	}

	if cfg.Handshake.Timeout > 0 {
		retrierOptions = append(retrierOptions, handshake.WithTimeout(cfg.Handshake.Timeout))
	}

	retrier, err := handshake.New(sessions, indicator, retrierOptions...)

	if err != nil {
		panic(err)
	}

	dispatcher, err := dispatch.New(
		dispatch.WithPipeline(processor),
		dispatch.WithTrigger(retrier),

		dispatch.WithStatus(indicator),
		dispatch.WithInstance(instance),
	)

	if err != nil {
		panic(err)
	}

	dispatcher.Attach()
	defer dispatcher.Detach()

	handler, err := api.New(cfg,
		api.WithInstance(instance),

		api.WithDispatcher(dispatcher),
		api.WithSessions(sessions),

		api.WithProbe(probe),
	)

	if err != nil {
		panic(err)
	}

	srv, err := server.New(cfg, handler)

	if err != nil {
		panic(err)
	}

	slog.InfoContext(ctx, "starting server", "address", cfg.Address)

	if err := srv.ListenAndServe(); err != nil {
		panic(err)
	}
}
