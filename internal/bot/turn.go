package bot

import (
	"cmp"
	"slices"

	"github.com/freeeve/ghost-cell/pkg/cell"
)

// Turn bundles everything a strategy may look at for one turn. It is built
// once per turn with a single forecasting pass.
type Turn struct {
	Snapshot   *cell.Snapshot
	Rules      cell.Rules
	Forecasts  []cell.Forecast
	Valuations []cell.Valuation
	Candidates Candidates
}

// NewTurn forecasts, scores and ranks every site of s.
func NewTurn(s *cell.Snapshot, r cell.Rules) *Turn {
	t := &Turn{
		Snapshot:   s,
		Rules:      r,
		Forecasts:  s.ForecastAll(r),
		Valuations: s.Valuate(r),
	}
	t.Candidates = RankCandidates(t.Forecasts, t.Valuations)
	return t
}

// Surplus returns how many troops site id can send without the forecast
// losing it: the smaller of its garrison and its minimum projected garrison.
func (t *Turn) Surplus(id int) int {
	return min(t.Snapshot.Sites[id].Garrison, t.Forecasts[id].MinGarrison(cell.Friendly))
}

// Candidates are the site orderings a policy chooses from. All lists hold
// site ids in ascending order of their score, ties broken by id.
type Candidates struct {
	ByUtility []int
	FrontLine []int // by attack potential
	Suppliers []int // by help potential
	InNeed    []int // projected to end the horizon not friendly, utility order
	Donors    []int // projected to stay friendly with troops to spare, supplier order
}

// RankCandidates builds the candidate lists from one turn's forecasts and
// valuations.
func RankCandidates(fc []cell.Forecast, vs []cell.Valuation) Candidates {
	c := Candidates{
		ByUtility: rankBy(vs, func(v cell.Valuation) float64 { return v.Utility }),
		FrontLine: rankBy(vs, func(v cell.Valuation) float64 { return v.Attack }),
		Suppliers: rankBy(vs, func(v cell.Valuation) float64 { return v.Help }),
	}
	for _, id := range c.ByUtility {
		if !fc[id].HeldBy(cell.Friendly) {
			c.InNeed = append(c.InNeed, id)
		}
	}
	for _, id := range c.Suppliers {
		if donor(fc[id]) {
			c.Donors = append(c.Donors, id)
		}
	}
	return c
}

// donor reports whether a site ends the horizon friendly and never drops to
// an empty garrison on the way.
func donor(f cell.Forecast) bool {
	return f.HeldBy(cell.Friendly) && f.MinGarrison(cell.Friendly) > 0
}

func rankBy(vs []cell.Valuation, score func(cell.Valuation) float64) []int {
	ids := make([]int, len(vs))
	for i := range vs {
		ids[i] = vs[i].Site
	}
	slices.SortStableFunc(ids, func(a, b int) int {
		if c := cmp.Compare(score(vs[a]), score(vs[b])); c != 0 {
			return c
		}
		return cmp.Compare(a, b)
	})
	return ids
}
