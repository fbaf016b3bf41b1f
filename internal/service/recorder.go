package service

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/freeeve/ghost-cell/internal/model"
	"github.com/freeeve/ghost-cell/internal/repository"
)

// DefaultQueueSize is the number of turn records buffered ahead of the sinks.
const DefaultQueueSize = 64

// Recorder delivers match and turn records to the configured sinks off the
// turn loop. Turn records are queued and dropped when the queue is full; sink
// failures are logged and never reach the caller.
type Recorder struct {
	sinks   []repository.TurnSink
	timeout time.Duration
	queue   chan *model.TurnRecord
	stop    chan struct{}
	once    sync.Once
	closed  atomic.Bool

	recorded atomic.Int64
	dropped  atomic.Int64
	failed   atomic.Int64
}

// NewRecorder creates a Recorder. Each delivery to the sinks is bounded by
// timeout.
func NewRecorder(sinks []repository.TurnSink, timeout time.Duration, queueSize int) *Recorder {
	if queueSize <= 0 {
		queueSize = DefaultQueueSize
	}
	return &Recorder{
		sinks:   sinks,
		timeout: timeout,
		queue:   make(chan *model.TurnRecord, queueSize),
		stop:    make(chan struct{}),
	}
}

// StartMatch announces a match to every sink that tracks matches. It runs
// synchronously so the match exists before its first turn arrives.
func (r *Recorder) StartMatch(ctx context.Context, m *model.Match) {
	r.eachMatchSink(ctx, "start", func(ctx context.Context, s repository.MatchSink) error {
		return s.StartMatch(ctx, m)
	})
}

// FinishMatch stores the final state of a match in every sink that tracks
// matches.
func (r *Recorder) FinishMatch(ctx context.Context, m *model.Match) {
	r.eachMatchSink(ctx, "finish", func(ctx context.Context, s repository.MatchSink) error {
		return s.FinishMatch(ctx, m)
	})
}

// RecordTurn queues rec without blocking.
func (r *Recorder) RecordTurn(rec *model.TurnRecord) {
	if r.closed.Load() || len(r.sinks) == 0 {
		return
	}
	select {
	case r.queue <- rec:
	default:
		r.dropped.Add(1)
		log.Warn().Str("matchId", rec.MatchID).Int("turn", rec.Turn).Msg("Record queue full, dropping turn")
	}
}

// Run delivers queued records until Close is called, then drains the queue
// and returns. Cancelling ctx also stops it after draining.
func (r *Recorder) Run(ctx context.Context) error {
	for {
		select {
		case rec := <-r.queue:
			r.deliver(ctx, rec)
		case <-r.stop:
			r.drain(context.WithoutCancel(ctx))
			return nil
		case <-ctx.Done():
			r.closed.Store(true)
			r.drain(context.WithoutCancel(ctx))
			return nil
		}
	}
}

// Close stops accepting records. Run flushes what is queued and returns.
func (r *Recorder) Close() error {
	r.once.Do(func() {
		r.closed.Store(true)
		close(r.stop)
	})
	return nil
}

// Recorded, Dropped and Failed report delivery counters. Failed counts turn
// and match records that at least one sink rejected.
func (r *Recorder) Recorded() int64 { return r.recorded.Load() }
func (r *Recorder) Dropped() int64  { return r.dropped.Load() }
func (r *Recorder) Failed() int64   { return r.failed.Load() }

func (r *Recorder) drain(ctx context.Context) {
	for {
		select {
		case rec := <-r.queue:
			r.deliver(ctx, rec)
		default:
			return
		}
	}
}

// deliver fans rec out to all sinks concurrently.
func (r *Recorder) deliver(ctx context.Context, rec *model.TurnRecord) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	var g errgroup.Group
	for _, s := range r.sinks {
		g.Go(func() error {
			if err := s.RecordTurn(ctx, rec); err != nil {
				log.Warn().Err(err).Str("sink", s.Name()).Str("matchId", rec.MatchID).Int("turn", rec.Turn).Msg("Failed to record turn")
				return fmt.Errorf("%s: %w", s.Name(), err)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		r.failed.Add(1)
		return
	}
	r.recorded.Add(1)
}

func (r *Recorder) eachMatchSink(ctx context.Context, op string, fn func(context.Context, repository.MatchSink) error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	var g errgroup.Group
	for _, s := range r.sinks {
		ms, ok := s.(repository.MatchSink)
		if !ok {
			continue
		}
		g.Go(func() error {
			if err := fn(ctx, ms); err != nil {
				log.Warn().Err(err).Str("sink", s.Name()).Str("op", op).Msg("Failed to record match")
				return err
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		r.failed.Add(1)
	}
}
