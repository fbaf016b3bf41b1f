package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/freeeve/ghost-cell/internal/model"
)

// MatchRepo handles match database operations.
type MatchRepo struct {
	db *sql.DB
}

// NewMatchRepo creates a MatchRepo.
func NewMatchRepo(db *sql.DB) *MatchRepo {
	return &MatchRepo{db: db}
}

// Start inserts a match. Restarting a match id resets its row.
func (r *MatchRepo) Start(ctx context.Context, m *model.Match) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO matches (id, strategy, sites, links, status, started_at)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 ON CONFLICT (id) DO UPDATE
		 SET strategy = $2, sites = $3, links = $4, status = $5, started_at = $6, turns = 0, finished_at = NULL`,
		m.ID, m.Strategy, m.Sites, m.Links, m.Status, m.StartedAt,
	)
	if err != nil {
		return fmt.Errorf("start match: %w", err)
	}
	return nil
}

// Finish stores the turn count and final status of a match.
func (r *MatchRepo) Finish(ctx context.Context, m *model.Match) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE matches SET turns = $2, status = $3, finished_at = $4 WHERE id = $1`,
		m.ID, m.Turns, m.Status, m.FinishedAt,
	)
	if err != nil {
		return fmt.Errorf("finish match: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("finish match %s: not found", m.ID)
	}
	return nil
}

// FindByID returns a match, or nil if it does not exist.
func (r *MatchRepo) FindByID(ctx context.Context, id string) (*model.Match, error) {
	var m model.Match
	err := r.db.QueryRowContext(ctx,
		`SELECT id, strategy, sites, links, turns, status, started_at, finished_at
		 FROM matches WHERE id = $1`, id,
	).Scan(&m.ID, &m.Strategy, &m.Sites, &m.Links, &m.Turns, &m.Status, &m.StartedAt, &m.FinishedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find match: %w", err)
	}
	return &m, nil
}

// ListByStatus returns matches with the given status, newest first.
func (r *MatchRepo) ListByStatus(ctx context.Context, status string) ([]model.Match, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, strategy, sites, links, turns, status, started_at, finished_at
		 FROM matches WHERE status = $1 ORDER BY started_at DESC`, status,
	)
	if err != nil {
		return nil, fmt.Errorf("list matches: %w", err)
	}
	defer rows.Close()

	var matches []model.Match
	for rows.Next() {
		var m model.Match
		if err := rows.Scan(&m.ID, &m.Strategy, &m.Sites, &m.Links, &m.Turns, &m.Status, &m.StartedAt, &m.FinishedAt); err != nil {
			return nil, fmt.Errorf("scan match: %w", err)
		}
		matches = append(matches, m)
	}
	return matches, rows.Err()
}
