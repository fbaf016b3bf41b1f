package main

import (
	"context"
	"errors"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/freeeve/ghost-cell/internal/bot"
	"github.com/freeeve/ghost-cell/internal/config"
	"github.com/freeeve/ghost-cell/internal/logger"
	"github.com/freeeve/ghost-cell/internal/repository"
	"github.com/freeeve/ghost-cell/internal/service"
)

func main() {
	strategyName := flag.String("strategy", "", "bot strategy (wait, random); overrides BOT_STRATEGY")
	tuningFile := flag.String("tuning", "", "YAML tuning file; overrides TUNING_FILE")
	debug := flag.Bool("debug", false, "enable debug logging")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		logger.Init("info", "")
		log.Fatal().Err(err).Msg("Failed to load config")
	}
	if *strategyName != "" {
		cfg.Strategy = *strategyName
	}
	if *tuningFile != "" {
		cfg.TuningFile = *tuningFile
	}
	if *debug {
		cfg.LogLevel = "debug"
	}
	logger.Init(cfg.LogLevel, cfg.LogFile)

	if cfg.Seed != 0 {
		bot.SeedBotRng(cfg.Seed)
	}

	tuning, err := config.LoadTuning(cfg.TuningFile)
	if err != nil {
		log.Fatal().Err(err).Str("file", cfg.TuningFile).Msg("Failed to load tuning")
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	sinks, err := repository.NewSinks(ctx, cfg)
	if err != nil {
		log.Warn().Err(err).Msg("Some record sinks are unavailable")
	}

	recorder := service.NewRecorder(sinks, cfg.RecordTimeout, service.DefaultQueueSize)
	strategy := bot.StrategyFor(cfg.Strategy)
	orch := bot.NewOrchestrator(os.Stdin, os.Stdout, strategy, tuning.Rules(), cfg.MatchID, recorder)

	log.Info().
		Str("matchId", cfg.MatchID).
		Str("strategy", strategy.Name()).
		Int("sinks", len(sinks)).
		Msg("Starting bot")

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return recorder.Run(gctx)
	})
	g.Go(func() error {
		defer recorder.Close()
		return orch.Run(gctx)
	})
	err = g.Wait()
	closeSinks(sinks)
	if errors.Is(err, context.Canceled) {
		log.Info().Msg("Bot interrupted")
		return
	}
	if err != nil {
		log.Fatal().Err(err).Msg("Bot orchestrator failed")
	}
	log.Info().Int64("recorded", recorder.Recorded()).Int64("dropped", recorder.Dropped()).Msg("Bot match completed")
}

func closeSinks(sinks []repository.TurnSink) {
	for _, s := range sinks {
		if err := s.Close(); err != nil {
			log.Warn().Err(err).Str("sink", s.Name()).Msg("Failed to close sink")
		}
	}
}
