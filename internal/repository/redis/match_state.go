package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/redis/go-redis/v9"

	"github.com/freeeve/ghost-cell/internal/model"
)

// MaxStoredTurns caps the per-match turn list.
const MaxStoredTurns = 401

// Key patterns for Redis match state.
func matchKey(matchID string) string  { return "match:" + matchID }
func latestKey(matchID string) string { return "match:" + matchID + ":latest" }
func turnsKey(matchID string) string  { return "match:" + matchID + ":turns" }

// StartMatch stores the match header.
func (c *Client) StartMatch(ctx context.Context, m *model.Match) error {
	_, err := c.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, matchKey(m.ID),
			"strategy", m.Strategy,
			"sites", m.Sites,
			"links", m.Links,
			"status", m.Status,
			"turns", 0,
		)
		pipe.Expire(ctx, matchKey(m.ID), c.ttl)
		return nil
	})
	if err != nil {
		return fmt.Errorf("start match: %w", err)
	}
	return nil
}

// FinishMatch updates the match header with its final status.
func (c *Client) FinishMatch(ctx context.Context, m *model.Match) error {
	_, err := c.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, matchKey(m.ID), "status", m.Status, "turns", m.Turns)
		pipe.Expire(ctx, matchKey(m.ID), c.ttl)
		return nil
	})
	if err != nil {
		return fmt.Errorf("finish match: %w", err)
	}
	return nil
}

// MatchStatus returns the stored status and turn count of a match, or an
// empty status if the match is unknown.
func (c *Client) MatchStatus(ctx context.Context, matchID string) (string, int, error) {
	vals, err := c.rdb.HMGet(ctx, matchKey(matchID), "status", "turns").Result()
	if err != nil {
		return "", 0, fmt.Errorf("match status: %w", err)
	}
	status, _ := vals[0].(string)
	turnsStr, _ := vals[1].(string)
	turns, _ := strconv.Atoi(turnsStr)
	return status, turns, nil
}

// RecordTurn stores rec as the latest turn and appends it to the capped turn
// list.
func (c *Client) RecordTurn(ctx context.Context, rec *model.TurnRecord) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshal turn: %w", err)
	}
	_, err = c.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, latestKey(rec.MatchID), data, c.ttl)
		pipe.RPush(ctx, turnsKey(rec.MatchID), data)
		pipe.LTrim(ctx, turnsKey(rec.MatchID), -MaxStoredTurns, -1)
		pipe.Expire(ctx, turnsKey(rec.MatchID), c.ttl)
		return nil
	})
	if err != nil {
		return fmt.Errorf("record turn: %w", err)
	}
	return nil
}

// LatestTurn returns the most recent turn of a match, or nil if none exists.
func (c *Client) LatestTurn(ctx context.Context, matchID string) (*model.TurnRecord, error) {
	data, err := c.rdb.Get(ctx, latestKey(matchID)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get latest turn: %w", err)
	}
	var rec model.TurnRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("decode latest turn: %w", err)
	}
	return &rec, nil
}

// Turns returns the stored turns in the inclusive index range, as LRANGE.
func (c *Client) Turns(ctx context.Context, matchID string, start, stop int64) ([]model.TurnRecord, error) {
	raw, err := c.rdb.LRange(ctx, turnsKey(matchID), start, stop).Result()
	if err != nil {
		return nil, fmt.Errorf("list turns: %w", err)
	}
	out := make([]model.TurnRecord, 0, len(raw))
	for _, s := range raw {
		var rec model.TurnRecord
		if err := json.Unmarshal([]byte(s), &rec); err != nil {
			return nil, fmt.Errorf("decode turn: %w", err)
		}
		out = append(out, rec)
	}
	return out, nil
}

// TurnCount returns how many turns are stored for a match.
func (c *Client) TurnCount(ctx context.Context, matchID string) (int64, error) {
	return c.rdb.LLen(ctx, turnsKey(matchID)).Result()
}

// DeleteMatch removes all keys of a match.
func (c *Client) DeleteMatch(ctx context.Context, matchID string) error {
	return c.rdb.Del(ctx, matchKey(matchID), latestKey(matchID), turnsKey(matchID)).Err()
}
