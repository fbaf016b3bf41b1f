package bot

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/freeeve/ghost-cell/internal/model"
	"github.com/freeeve/ghost-cell/pkg/cell"
	"github.com/freeeve/ghost-cell/pkg/protocol"
)

const (
	matchSetup = "3\n2\n0 1 2\n1 2 3\n"
	matchTurn  = "3\n0 FACTORY 1 20 2 0 0\n1 FACTORY 0 5 1 0 0\n2 FACTORY -1 20 2 0 0\n"
)

type fixedStrategy []cell.Deployment

func (fixedStrategy) Name() string { return "fixed" }

func (f fixedStrategy) GenerateDeployments(*Turn) []cell.Deployment { return f }

type memRecorder struct {
	mu      sync.Mutex
	started *model.Match
	ended   *model.Match
	turns   []*model.TurnRecord
}

func (r *memRecorder) StartMatch(_ context.Context, m *model.Match) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c := *m
	r.started = &c
}

func (r *memRecorder) RecordTurn(rec *model.TurnRecord) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.turns = append(r.turns, rec)
}

func (r *memRecorder) FinishMatch(_ context.Context, m *model.Match) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c := *m
	r.ended = &c
}

func runMatch(t *testing.T, input string, s Strategy, rules cell.Rules) (string, *memRecorder, error) {
	t.Helper()
	var out bytes.Buffer
	rec := &memRecorder{}
	o := NewOrchestrator(strings.NewReader(input), &out, s, rules, "m-test", rec)
	err := o.Run(context.Background())
	return out.String(), rec, err
}

func TestOrchestrator_Wait(t *testing.T) {
	out, rec, err := runMatch(t, matchSetup+matchTurn+matchTurn, &WaitStrategy{}, cell.DefaultRules())
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if out != "WAIT\nWAIT\n" {
		t.Errorf("unexpected output %q", out)
	}
	if rec.started == nil || rec.started.Sites != 3 || rec.started.Links != 2 || rec.started.Strategy != "wait" {
		t.Errorf("unexpected match start %+v", rec.started)
	}
	if rec.ended == nil || rec.ended.Status != "finished" || rec.ended.Turns != 2 || rec.ended.FinishedAt == nil {
		t.Errorf("unexpected match end %+v", rec.ended)
	}
	if len(rec.turns) != 2 {
		t.Fatalf("expected 2 turn records, got %d", len(rec.turns))
	}
	r := rec.turns[1]
	if r.MatchID != "m-test" || r.Turn != 1 || r.Output != "WAIT" {
		t.Errorf("unexpected record %+v", r)
	}
	if r.Friendly.Army != 20 || r.Hostile.Production != 2 {
		t.Errorf("unexpected totals %+v %+v", r.Friendly, r.Hostile)
	}
	if len(r.Outlook) != 3 || r.Outlook[0].Holder != int(cell.Friendly) {
		t.Errorf("unexpected outlook %+v", r.Outlook)
	}
}

func TestOrchestrator_TranslatesIDs(t *testing.T) {
	// external 2 is linked first and becomes internal 0
	setup := "3\n2\n2 1 2\n1 0 3\n"
	turn := "3\n2 FACTORY 1 20 2 0 0\n1 FACTORY 0 5 1 0 0\n0 FACTORY -1 20 2 0 0\n"
	out, rec, err := runMatch(t, setup+turn, fixedStrategy{{Source: 0, Dest: 1, Count: 5}}, cell.DefaultRules())
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if out != "MOVE 2 1 5\n" {
		t.Errorf("unexpected output %q", out)
	}
	if m := rec.turns[0].Moves; len(m) != 1 || m[0] != (model.Move{Source: 2, Dest: 1, Count: 5}) {
		t.Errorf("unexpected recorded moves %+v", m)
	}
}

func TestOrchestrator_DropsContractViolations(t *testing.T) {
	out, rec, err := runMatch(t, matchSetup+matchTurn, fixedStrategy{{Source: 1, Dest: 0, Count: 3}}, cell.DefaultRules())
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if out != "WAIT\n" {
		t.Errorf("expected WAIT, got %q", out)
	}
	if rec.turns[0].Rejected == "" || len(rec.turns[0].Moves) != 0 {
		t.Errorf("expected a rejected record, got %+v", rec.turns[0])
	}
}

func TestOrchestrator_StopsAfterLastTurn(t *testing.T) {
	rules := cell.DefaultRules()
	rules.MaxTurns = 1
	out, _, err := runMatch(t, matchSetup+matchTurn+matchTurn+matchTurn, &WaitStrategy{}, rules)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if n := strings.Count(out, "\n"); n != 2 {
		t.Errorf("expected 2 replies for turns 0 and 1, got %d", n)
	}
}

func TestOrchestrator_Malformed(t *testing.T) {
	_, rec, err := runMatch(t, matchSetup+"2\n0 FACTORY 1 20 2 0 0\n", &WaitStrategy{}, cell.DefaultRules())
	if !errors.Is(err, protocol.ErrMalformed) {
		t.Fatalf("expected ErrMalformed, got %v", err)
	}
	if rec.ended == nil || rec.ended.Status != "failed" {
		t.Errorf("expected failed match, got %+v", rec.ended)
	}
}

func TestOrchestrator_BadSetup(t *testing.T) {
	_, rec, err := runMatch(t, "3\n", &WaitStrategy{}, cell.DefaultRules())
	if !errors.Is(err, protocol.ErrMalformed) {
		t.Fatalf("expected ErrMalformed, got %v", err)
	}
	if rec.started != nil {
		t.Error("a match that never set up must not be recorded")
	}
}

func TestOrchestrator_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	var out bytes.Buffer
	o := NewOrchestrator(strings.NewReader(matchSetup+matchTurn), &out, &WaitStrategy{}, cell.DefaultRules(), "m", nil)
	if err := o.Run(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
	if out.Len() != 0 {
		t.Errorf("expected no output, got %q", out.String())
	}
}

func TestPredict(t *testing.T) {
	turn := lineTurn(t)
	next, err := predict(turn.Snapshot, []cell.Deployment{{Source: 0, Dest: 1, Count: 5}})
	if err != nil {
		t.Fatal(err)
	}
	if next.Sites[0].Garrison != 17 || len(next.Forces) != 1 || next.Forces[0].TurnsRemaining != 1 {
		t.Errorf("unexpected prediction %+v %+v", next.Sites[0], next.Forces)
	}
	if turn.Snapshot.Sites[0].Garrison != 20 {
		t.Error("prediction must not modify the observed snapshot")
	}
}

func TestOrchestrator_DebugPredictionWithDetonation(t *testing.T) {
	var logs bytes.Buffer
	prevLogger, prevLevel := log.Logger, zerolog.GlobalLevel()
	log.Logger = zerolog.New(&logs).Level(zerolog.DebugLevel)
	zerolog.SetGlobalLevel(zerolog.DebugLevel)
	defer func() {
		log.Logger = prevLogger
		zerolog.SetGlobalLevel(prevLevel)
	}()

	factories := "0 FACTORY 1 20 2 0 0\n1 FACTORY 0 5 1 0 0\n2 FACTORY -1 20 2 0 0\n"
	input := matchSetup +
		"4\n" + factories + "9 BOMB -1 2 1 1 0\n" +
		"4\n" + factories + "9 BOMB -1 2 1 0 0\n" +
		"3\n" + factories
	out, rec, err := runMatch(t, input, &WaitStrategy{}, cell.DefaultRules())
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if out != "WAIT\nWAIT\nWAIT\n" {
		t.Errorf("unexpected output %q", out)
	}
	if rec.ended == nil || rec.ended.Status != "finished" || rec.ended.Turns != 3 {
		t.Errorf("unexpected match end %+v", rec.ended)
	}
	if n := strings.Count(logs.String(), "Prediction drift"); n != 2 {
		t.Errorf("expected drift logged on turns 1 and 2, got %d", n)
	}
}
