package postgres

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"

	"github.com/freeeve/ghost-cell/internal/model"
)

// Connect opens a connection pool to the PostgreSQL database.
func Connect(ctx context.Context, databaseURL string) (*sql.DB, error) {
	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("postgres open: %w", err)
	}
	db.SetMaxOpenConns(4)
	db.SetMaxIdleConns(2)
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("postgres ping: %w", err)
	}
	return db, nil
}

// Sink records matches and turns in Postgres.
type Sink struct {
	db      *sql.DB
	Matches *MatchRepo
	Turns   *TurnRepo
}

// NewSink creates a Sink over db. Closing the sink closes db.
func NewSink(db *sql.DB) *Sink {
	return &Sink{db: db, Matches: NewMatchRepo(db), Turns: NewTurnRepo(db)}
}

func (s *Sink) Name() string { return "postgres" }

// StartMatch inserts the match row.
func (s *Sink) StartMatch(ctx context.Context, m *model.Match) error {
	return s.Matches.Start(ctx, m)
}

// FinishMatch stores the final status of the match.
func (s *Sink) FinishMatch(ctx context.Context, m *model.Match) error {
	return s.Matches.Finish(ctx, m)
}

// RecordTurn inserts the turn row.
func (s *Sink) RecordTurn(ctx context.Context, rec *model.TurnRecord) error {
	return s.Turns.RecordTurn(ctx, rec)
}

// Close closes the connection pool.
func (s *Sink) Close() error {
	return s.db.Close()
}
