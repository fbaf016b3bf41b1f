package bot

import (
	"errors"
	"fmt"

	"github.com/freeeve/ghost-cell/pkg/cell"
)

// ErrContract wraps every deployment that breaks the strategy contract.
var ErrContract = errors.New("deployment contract violated")

// ValidateDeployments checks a strategy's output against the turn it was
// generated for:
//   - a site never sends more troops in total than it holds;
//   - a source is projected to stay friendly with a positive garrison;
//   - a target is projected not to end friendly;
//   - source and target differ and are linked.
//
// All violations are reported together.
func ValidateDeployments(t *Turn, ds []cell.Deployment) error {
	var errs []error
	n := len(t.Snapshot.Sites)
	sent := make(map[int]int)

	for _, d := range ds {
		if d.Source < 0 || d.Source >= n || d.Dest < 0 || d.Dest >= n {
			errs = append(errs, fmt.Errorf("%w: %s: %w", ErrContract, d, cell.ErrUnknownSite))
			continue
		}
		if err := d.Validate(); err != nil {
			errs = append(errs, fmt.Errorf("%w: %w", ErrContract, err))
			continue
		}
		if !t.Snapshot.Graph.Reachable(d.Source, d.Dest) {
			errs = append(errs, fmt.Errorf("%w: %s: %w", ErrContract, d, cell.ErrUnreachable))
		}
		if !donor(t.Forecasts[d.Source]) {
			errs = append(errs, fmt.Errorf("%w: %s: source %d has no surplus", ErrContract, d, d.Source))
		}
		if t.Forecasts[d.Dest].HeldBy(cell.Friendly) {
			errs = append(errs, fmt.Errorf("%w: %s: target %d is not in need", ErrContract, d, d.Dest))
		}
		sent[d.Source] += d.Count
	}

	for src, total := range sent {
		if g := t.Snapshot.Sites[src].Garrison; total > g {
			errs = append(errs, fmt.Errorf("%w: site %d sends %d of %d: %w", ErrContract, src, total, g, cell.ErrOverdraw))
		}
	}
	return errors.Join(errs...)
}
