package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/freeeve/ghost-cell/internal/model"
)

// TurnRepo handles turn record database operations.
type TurnRepo struct {
	db *sql.DB
}

// NewTurnRepo creates a TurnRepo.
func NewTurnRepo(db *sql.DB) *TurnRepo {
	return &TurnRepo{db: db}
}

// RecordTurn inserts a turn record. Recording the same turn twice keeps the
// first.
func (r *TurnRepo) RecordTurn(ctx context.Context, rec *model.TurnRecord) error {
	moves, err := jsonArray(rec.Moves)
	if err != nil {
		return fmt.Errorf("record turn: %w", err)
	}
	outlook, err := jsonArray(rec.Outlook)
	if err != nil {
		return fmt.Errorf("record turn: %w", err)
	}
	_, err = r.db.ExecContext(ctx,
		`INSERT INTO turns (match_id, turn, friendly_army, friendly_production, hostile_army, hostile_production,
		                    forces, detonators, output, moves, outlook, rejected, elapsed_us, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		 ON CONFLICT (match_id, turn) DO NOTHING`,
		rec.MatchID, rec.Turn, rec.Friendly.Army, rec.Friendly.Production, rec.Hostile.Army, rec.Hostile.Production,
		rec.Forces, rec.Detonators, rec.Output, moves, outlook, rec.Rejected, rec.ElapsedMicros, rec.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("record turn: %w", err)
	}
	return nil
}

// ListTurns returns all turns of a match in order.
func (r *TurnRepo) ListTurns(ctx context.Context, matchID string) ([]model.TurnRecord, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT match_id, turn, friendly_army, friendly_production, hostile_army, hostile_production,
		        forces, detonators, output, moves, outlook, rejected, elapsed_us, created_at
		 FROM turns WHERE match_id = $1 ORDER BY turn`, matchID,
	)
	if err != nil {
		return nil, fmt.Errorf("list turns: %w", err)
	}
	defer rows.Close()

	var turns []model.TurnRecord
	for rows.Next() {
		var t model.TurnRecord
		var moves, outlook []byte
		if err := rows.Scan(&t.MatchID, &t.Turn, &t.Friendly.Army, &t.Friendly.Production, &t.Hostile.Army, &t.Hostile.Production,
			&t.Forces, &t.Detonators, &t.Output, &moves, &outlook, &t.Rejected, &t.ElapsedMicros, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan turn: %w", err)
		}
		if err := json.Unmarshal(moves, &t.Moves); err != nil {
			return nil, fmt.Errorf("decode moves: %w", err)
		}
		if err := json.Unmarshal(outlook, &t.Outlook); err != nil {
			return nil, fmt.Errorf("decode outlook: %w", err)
		}
		turns = append(turns, t)
	}
	return turns, rows.Err()
}

// jsonArray encodes a slice for a JSONB array column; nil becomes [].
func jsonArray[T any](v []T) (string, error) {
	if v == nil {
		v = []T{}
	}
	b, err := json.Marshal(v)
	return string(b), err
}
