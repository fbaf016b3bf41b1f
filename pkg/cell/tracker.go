package cell

import "sort"

// Tracker reconciles the detonators observed each turn with the ones seen on
// previous turns. It is the only engine state that survives between turns.
type Tracker struct {
	seq     *Sequence
	tracked []trackedDetonator
}

type trackedDetonator struct {
	Detonator
	exploded bool
}

// NewTracker returns an empty tracker drawing ids from seq.
func NewTracker(seq *Sequence) *Tracker {
	return &Tracker{seq: seq}
}

// Observe matches this turn's detonators against the tracked ones. A tracked
// detonator matches an observation from the same source whose fuse is exactly
// one lower; it is then ticked in place instead of being tracked twice.
// Detonators missing from the observation have gone off and are dropped.
// Unknown destinations are resolved against g once the fuse trajectory allows.
// The live tracked detonators are returned ordered by id.
func (t *Tracker) Observe(obs []Detonator, g *Graph) []Detonator {
	matched := make([]bool, len(t.tracked))
	for _, o := range obs {
		i := t.find(o, matched)
		if i < 0 {
			t.tracked = append(t.tracked, trackedDetonator{Detonator: Detonator{
				ID:            t.seq.Next(),
				Owner:         o.Owner,
				Source:        o.Source,
				Dest:          o.Dest,
				TotalFuse:     o.RemainingFuse,
				RemainingFuse: o.RemainingFuse,
			}})
			matched = append(matched, true)
			continue
		}
		td := &t.tracked[i]
		td.RemainingFuse--
		if !td.Resolved() && o.Dest != Unknown {
			td.Dest = o.Dest
		}
		matched[i] = true
	}

	kept := t.tracked[:0]
	for i, td := range t.tracked {
		if !matched[i] {
			continue
		}
		if !td.Resolved() {
			if dest, ok := candidateDestination(g, td.Source, td.TotalFuse); ok {
				td.Dest = dest
			}
		}
		td.exploded = td.RemainingFuse <= 0
		kept = append(kept, td)
	}
	t.tracked = kept
	return t.Detonators()
}

// Detonators returns the currently tracked detonators ordered by id.
func (t *Tracker) Detonators() []Detonator {
	out := make([]Detonator, 0, len(t.tracked))
	for _, td := range t.tracked {
		out = append(out, td.Detonator)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Len returns how many detonators are tracked.
func (t *Tracker) Len() int {
	return len(t.tracked)
}

func (t *Tracker) find(o Detonator, matched []bool) int {
	for i := range t.tracked {
		td := &t.tracked[i]
		if matched[i] || td.exploded {
			continue
		}
		if td.Source == o.Source && td.RemainingFuse == o.RemainingFuse+1 {
			return i
		}
	}
	return -1
}
