package bot

import (
	"testing"

	"github.com/freeeve/ghost-cell/pkg/cell"
)

// lineTurn builds 0 -2- 1 -3- 2: a friendly producer, a neutral site and a
// hostile producer.
func lineTurn(t *testing.T) *Turn {
	t.Helper()
	g := cell.NewGraph(3)
	g.Link(0, 1, 2)
	g.Link(1, 2, 3)
	s, err := cell.NewSnapshot(0, g, []cell.Site{
		{ID: 0, Owner: cell.Friendly, Garrison: 20, Production: 2},
		{ID: 1, Owner: cell.Neutral, Garrison: 5, Production: 1},
		{ID: 2, Owner: cell.Hostile, Garrison: 20, Production: 2},
	}, nil, nil, &cell.Sequence{})
	if err != nil {
		t.Fatalf("NewSnapshot: %v", err)
	}
	return NewTurn(s, cell.DefaultRules())
}

// meshTurn builds a fully linked map with two friendly donors and three
// targets.
func meshTurn(t *testing.T) *Turn {
	t.Helper()
	g := cell.NewGraph(5)
	for a := range 5 {
		for b := a + 1; b < 5; b++ {
			g.Link(a, b, 1+(a+b)%4)
		}
	}
	s, err := cell.NewSnapshot(10, g, []cell.Site{
		{ID: 0, Owner: cell.Friendly, Garrison: 30, Production: 3},
		{ID: 1, Owner: cell.Friendly, Garrison: 8, Production: 1},
		{ID: 2, Owner: cell.Neutral, Garrison: 4, Production: 2},
		{ID: 3, Owner: cell.Hostile, Garrison: 12, Production: 3},
		{ID: 4, Owner: cell.Neutral, Garrison: 0},
	}, []cell.Force{
		{ID: 1, Owner: cell.Hostile, Source: 3, Dest: 1, Size: 15, TurnsRemaining: 2},
	}, nil, &cell.Sequence{})
	if err != nil {
		t.Fatalf("NewSnapshot: %v", err)
	}
	return NewTurn(s, cell.DefaultRules())
}
