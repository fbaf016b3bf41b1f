package repository

import (
	"context"

	"github.com/freeeve/ghost-cell/internal/model"
)

// TurnSink receives the record of every played turn.
type TurnSink interface {
	Name() string
	RecordTurn(ctx context.Context, rec *model.TurnRecord) error
	Close() error
}

// MatchSink is implemented by sinks that also track match lifecycle.
// Not all sinks do; use a type assertion to check.
type MatchSink interface {
	StartMatch(ctx context.Context, m *model.Match) error
	FinishMatch(ctx context.Context, m *model.Match) error
}
