package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/freeeve/ghost-cell/internal/auth"
	"github.com/freeeve/ghost-cell/internal/config"
	"github.com/freeeve/ghost-cell/internal/repository/postgres"
	"github.com/freeeve/ghost-cell/internal/repository/redis"
	"github.com/freeeve/ghost-cell/internal/repository/websocket"
)

// NewSinks connects every sink configured in cfg. Sinks that fail to come up
// are left out and their errors returned joined alongside the ones that did;
// recording never stops a match.
func NewSinks(ctx context.Context, cfg *config.Config) ([]TurnSink, error) {
	var sinks []TurnSink
	var errs []error

	if cfg.DatabaseURL != "" {
		db, err := postgres.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			errs = append(errs, err)
		} else {
			sinks = append(sinks, postgres.NewSink(db))
		}
	}

	if cfg.RedisURL != "" {
		c, err := redis.NewClient(ctx, cfg.RedisURL, redis.DefaultMatchTTL)
		if err != nil {
			errs = append(errs, err)
		} else {
			sinks = append(sinks, c)
		}
	}

	if cfg.StreamURL != "" {
		s, err := dialStream(ctx, cfg)
		if err != nil {
			errs = append(errs, err)
		} else {
			sinks = append(sinks, s)
		}
	}

	return sinks, errors.Join(errs...)
}

func dialStream(ctx context.Context, cfg *config.Config) (*websocket.Streamer, error) {
	if cfg.StreamSecret == "" {
		return nil, fmt.Errorf("stream %s: %w", cfg.StreamURL, auth.ErrMissingToken)
	}
	token, err := auth.NewJWTManager(cfg.StreamSecret).GenerateStreamToken(cfg.MatchID)
	if err != nil {
		return nil, fmt.Errorf("stream token: %w", err)
	}
	return websocket.Dial(ctx, cfg.StreamURL, token)
}
