package bot

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/rs/zerolog"

	"github.com/freeeve/ghost-cell/internal/logger"
	"github.com/freeeve/ghost-cell/internal/model"
	"github.com/freeeve/ghost-cell/pkg/cell"
	"github.com/freeeve/ghost-cell/pkg/protocol"
)

// Recorder receives match and turn records. Implementations must not block
// the turn loop and handle their own failures.
type Recorder interface {
	StartMatch(ctx context.Context, m *model.Match)
	RecordTurn(rec *model.TurnRecord)
	FinishMatch(ctx context.Context, m *model.Match)
}

type nopRecorder struct{}

func (nopRecorder) StartMatch(context.Context, *model.Match)  {}
func (nopRecorder) RecordTurn(*model.TurnRecord)              {}
func (nopRecorder) FinishMatch(context.Context, *model.Match) {}

// Orchestrator plays one match: it reads the referee's input, runs the
// engine and the strategy for each turn and writes the reply.
type Orchestrator struct {
	in       *protocol.Reader
	out      *protocol.Writer
	strategy Strategy
	rules    cell.Rules
	matchID  string
	recorder Recorder
	log      zerolog.Logger
}

// NewOrchestrator creates a new Orchestrator. A nil recorder discards records.
func NewOrchestrator(in io.Reader, out io.Writer, strategy Strategy, rules cell.Rules, matchID string, recorder Recorder) *Orchestrator {
	if recorder == nil {
		recorder = nopRecorder{}
	}
	return &Orchestrator{
		in:       protocol.NewReader(in),
		out:      protocol.NewWriter(out),
		strategy: strategy,
		rules:    rules,
		matchID:  matchID,
		recorder: recorder,
		log:      logger.ForMatch(matchID),
	}
}

// Run plays until the referee closes the input, the last turn has been
// answered or ctx is cancelled. Protocol faults and engine defects are
// returned and end the match.
func (o *Orchestrator) Run(ctx context.Context) (err error) {
	setup, err := o.in.ReadSetup()
	if err != nil {
		return fmt.Errorf("read setup: %w", err)
	}

	match := &model.Match{
		ID:        o.matchID,
		Strategy:  o.strategy.Name(),
		Sites:     setup.Graph.Size(),
		Links:     setup.Links,
		Status:    "active",
		StartedAt: time.Now().UTC(),
	}
	o.recorder.StartMatch(ctx, match)
	o.log.Info().Str("strategy", match.Strategy).Int("sites", match.Sites).Msg("Match started")

	defer func() {
		now := time.Now().UTC()
		match.FinishedAt = &now
		match.Status = "finished"
		if err != nil {
			match.Status = "failed"
		}
		o.recorder.FinishMatch(context.WithoutCancel(ctx), match)
		o.log.Info().Int("turns", match.Turns).Str("status", match.Status).Msg("Match ended")
	}()

	seq := &cell.Sequence{}
	tracker := cell.NewTracker(seq)
	var predicted *cell.Snapshot

	for turn := 0; turn <= o.rules.MaxTurns; turn++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		in, err := o.in.ReadTurn(seq)
		if errors.Is(err, io.EOF) {
			o.log.Info().Int("turn", turn).Msg("Input closed")
			return nil
		}
		if err != nil {
			return fmt.Errorf("turn %d: %w", turn, err)
		}
		start := time.Now()

		detonators := tracker.Observe(in.Detonators, setup.Graph)
		snap, err := cell.NewSnapshot(turn, setup.Graph, in.Sites, in.Forces, detonators, seq)
		if err != nil {
			return fmt.Errorf("turn %d: %w", turn, err)
		}
		if predicted != nil {
			o.log.Debug().Int("turn", turn).Int("drift", predicted.Drift(snap)).Msg("Prediction drift")
		}

		t := NewTurn(snap, o.rules)
		ds := o.strategy.GenerateDeployments(t)
		var rejected error
		if err := ValidateDeployments(t, ds); err != nil {
			o.log.Warn().Err(err).Int("turn", turn).Str("strategy", o.strategy.Name()).Msg("Dropping strategy output")
			rejected, ds = err, nil
		}

		line, err := cell.FormatDeployments(ds, setup.IDs.External)
		if err != nil {
			return fmt.Errorf("turn %d: %w", turn, err)
		}
		if err := o.out.WriteLine(line); err != nil {
			return fmt.Errorf("turn %d: %w", turn, err)
		}
		elapsed := time.Since(start)
		match.Turns = turn + 1

		o.log.Debug().
			Int("turn", turn).
			Int("inNeed", len(t.Candidates.InNeed)).
			Int("donors", len(t.Candidates.Donors)).
			Int("detonators", len(detonators)).
			Dur("elapsed", elapsed).
			Str("output", line).
			Msg("Turn played")

		if o.debugEnabled() {
			predicted, err = predict(snap, ds)
			if err != nil {
				return fmt.Errorf("turn %d: predict: %w", turn, err)
			}
		}

		rec, err := o.turnRecord(t, ds, setup.IDs, line, rejected, elapsed)
		if err != nil {
			return fmt.Errorf("turn %d: %w", turn, err)
		}
		o.recorder.RecordTurn(rec)
	}
	return nil
}

func (o *Orchestrator) debugEnabled() bool {
	return o.log.GetLevel() <= zerolog.DebugLevel && zerolog.GlobalLevel() <= zerolog.DebugLevel
}

// predict plays the turn's deployments and one rules step on a copy of s.
func predict(s *cell.Snapshot, ds []cell.Deployment) (*cell.Snapshot, error) {
	next := s.Clone()
	for _, d := range ds {
		if err := next.Dispatch(d); err != nil {
			return nil, err
		}
	}
	return next.Advance()
}

func (o *Orchestrator) turnRecord(t *Turn, ds []cell.Deployment, ids *protocol.IDMap, line string, rejected error, elapsed time.Duration) (*model.TurnRecord, error) {
	s := t.Snapshot
	rec := &model.TurnRecord{
		MatchID:       o.matchID,
		Turn:          s.Turn,
		Friendly:      model.SideTotals(s.Totals(cell.Friendly)),
		Hostile:       model.SideTotals(s.Totals(cell.Hostile)),
		Forces:        len(s.Forces),
		Detonators:    len(s.Detonators),
		Output:        line,
		ElapsedMicros: elapsed.Microseconds(),
		CreatedAt:     time.Now().UTC(),
	}
	if rejected != nil {
		rec.Rejected = rejected.Error()
	}
	for _, d := range ds {
		src, err := ids.External(d.Source)
		if err != nil {
			return nil, err
		}
		dst, err := ids.External(d.Dest)
		if err != nil {
			return nil, err
		}
		rec.Moves = append(rec.Moves, model.Move{Source: src, Dest: dst, Count: d.Count})
	}
	for _, f := range t.Forecasts {
		p, ok := f.Final()
		if !ok {
			continue
		}
		ext, err := ids.External(f.Site)
		if err != nil {
			return nil, err
		}
		rec.Outlook = append(rec.Outlook, model.SiteOutlook{Site: ext, Holder: int(p.Holder), Garrison: p.Garrison})
	}
	return rec, nil
}
