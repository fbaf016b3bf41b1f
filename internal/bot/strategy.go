package bot

import (
	"github.com/rs/zerolog/log"

	"github.com/freeeve/ghost-cell/pkg/cell"
)

// Strategy chooses the deployments for one turn. Its output must satisfy
// ValidateDeployments; the orchestrator replaces invalid output with WAIT.
type Strategy interface {
	Name() string
	GenerateDeployments(t *Turn) []cell.Deployment
}

// StrategyFor returns the strategy registered under name, falling back to
// waiting.
func StrategyFor(name string) Strategy {
	switch name {
	case "random":
		return &RandomStrategy{}
	case "wait", "":
		return &WaitStrategy{}
	default:
		log.Warn().Str("strategy", name).Msg("Unknown strategy, falling back to wait")
		return &WaitStrategy{}
	}
}

// --- WaitStrategy ---

// WaitStrategy never deploys. The ranked candidates are still built each turn.
type WaitStrategy struct{}

func (WaitStrategy) Name() string { return "wait" }

func (WaitStrategy) GenerateDeployments(*Turn) []cell.Deployment { return nil }

// --- RandomStrategy ---

// RandomStrategy sends random shares of donor surplus to random sites in
// need, for testing. Its output always satisfies the contract.
type RandomStrategy struct{}

func (RandomStrategy) Name() string { return "random" }

// GenerateDeployments gives each donor a ~50% chance to send part of its
// surplus to a reachable site in need. Planned moves are dispatched on a copy
// of the snapshot so a target already projected to fall is skipped.
func (RandomStrategy) GenerateDeployments(t *Turn) []cell.Deployment {
	need := t.Candidates.InNeed
	if len(need) == 0 {
		return nil
	}
	plan := t.Snapshot.Clone()
	h := t.Rules.Horizon(t.Snapshot.Turn)
	captured := make(map[int]bool)

	var out []cell.Deployment
	for _, i := range shuffled(len(t.Candidates.Donors)) {
		src := t.Candidates.Donors[i]
		if coinFlip() {
			continue
		}
		surplus := t.Surplus(src)
		if surplus <= 0 {
			continue
		}
		for _, j := range shuffled(len(need)) {
			dst := need[j]
			if captured[dst] || !plan.Graph.Reachable(src, dst) {
				continue
			}
			d := cell.Deployment{Source: src, Dest: dst, Count: share(surplus)}
			if err := plan.Dispatch(d); err != nil {
				log.Debug().Err(err).Stringer("deployment", d).Msg("Skipping deployment")
				continue
			}
			out = append(out, d)
			if cell.ForecastSite(plan.Sites[dst], plan.AllForces(), h).HeldBy(cell.Friendly) {
				captured[dst] = true
			}
			break
		}
	}
	return out
}
