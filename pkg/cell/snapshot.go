package cell

import "fmt"

// Totals are the coarse per-side aggregates of a snapshot.
type Totals struct {
	Army       int // garrisons of owned sites plus own forces in flight
	Production int
}

// Snapshot is one turn's authoritative world state plus the strike forces
// derived from tracked detonators.
type Snapshot struct {
	Turn       int
	Graph      *Graph
	Sites      []Site // indexed by site id
	Forces     []Force
	Detonators []Detonator
	Strikes    []Force // one per resolved detonator, simulation only

	totals [channelCount]Totals
	seq    *Sequence
}

// NewSnapshot aggregates one turn of state. Sites missing from the input are
// treated as empty neutral sites.
func NewSnapshot(turn int, g *Graph, sites []Site, forces []Force, detonators []Detonator, seq *Sequence) (*Snapshot, error) {
	s := &Snapshot{
		Turn:       turn,
		Graph:      g,
		Sites:      make([]Site, g.Size()),
		Forces:     append([]Force(nil), forces...),
		Detonators: append([]Detonator(nil), detonators...),
		seq:        seq,
	}
	for i := range s.Sites {
		s.Sites[i].ID = i
	}
	for _, site := range sites {
		if site.ID < 0 || site.ID >= len(s.Sites) {
			return nil, fmt.Errorf("cell: site %d: %w", site.ID, ErrUnknownSite)
		}
		s.Sites[site.ID] = site
	}
	for _, f := range forces {
		if f.Source < 0 || f.Source >= len(s.Sites) || f.Dest < 0 || f.Dest >= len(s.Sites) {
			return nil, fmt.Errorf("cell: force %d %d->%d: %w", f.ID, f.Source, f.Dest, ErrUnknownSite)
		}
	}
	s.aggregate()
	return s, nil
}

// Totals returns the aggregates for a belligerent side.
func (s *Snapshot) Totals(side Side) Totals {
	return s.totals[side.channel()]
}

// AllForces returns observed forces followed by detonator strikes.
func (s *Snapshot) AllForces() []Force {
	out := make([]Force, 0, len(s.Forces)+len(s.Strikes))
	out = append(out, s.Forces...)
	return append(out, s.Strikes...)
}

// SitesOf returns the ids of sites held by side.
func (s *Snapshot) SitesOf(side Side) []int {
	var ids []int
	for _, site := range s.Sites {
		if site.Owner == side {
			ids = append(ids, site.ID)
		}
	}
	return ids
}

// NearestOf returns the closest other site held by side. Ties go to the lowest id.
func (s *Snapshot) NearestOf(from int, side Side) (int, bool) {
	best, bestDist := -1, Unreachable
	for _, site := range s.Sites {
		if site.Owner != side || !s.Graph.Reachable(from, site.ID) {
			continue
		}
		if d := s.Graph.Distance(from, site.ID); d < bestDist {
			best, bestDist = site.ID, d
		}
	}
	return best, best >= 0
}

// Dispatch applies a planned deployment: the source garrison shrinks and a
// new force is put in flight.
func (s *Snapshot) Dispatch(d Deployment) error {
	if err := d.Validate(); err != nil {
		return err
	}
	if d.Source < 0 || d.Source >= len(s.Sites) {
		return fmt.Errorf("cell: dispatch from %d: %w", d.Source, ErrUnknownSite)
	}
	f, err := s.Sites[d.Source].Dispatch(d.Dest, d.Count, s.Graph, s.seq)
	if err != nil {
		return err
	}
	s.Forces = append(s.Forces, f)
	return nil
}

// Clone returns a deep copy that can be dispatched against independently.
func (s *Snapshot) Clone() *Snapshot {
	c := *s
	c.Sites = append([]Site(nil), s.Sites...)
	c.Forces = append([]Force(nil), s.Forces...)
	c.Detonators = append([]Detonator(nil), s.Detonators...)
	c.Strikes = append([]Force(nil), s.Strikes...)
	return &c
}

func (s *Snapshot) aggregate() {
	s.totals = [channelCount]Totals{}
	for _, site := range s.Sites {
		if site.Owner.Belligerent() {
			t := &s.totals[site.Owner.channel()]
			t.Army += site.Garrison
			t.Production += site.Production
		}
	}
	for _, f := range s.Forces {
		if f.Owner.Belligerent() {
			s.totals[f.Owner.channel()].Army += f.Size
		}
	}

	s.Strikes = s.Strikes[:0]
	for _, d := range s.Detonators {
		if !d.Resolved() || d.Dest < 0 || d.Dest >= len(s.Sites) {
			continue
		}
		size := StrikeSize(s.Sites[d.Dest].Garrison)
		if size <= 0 {
			continue
		}
		s.Strikes = append(s.Strikes, Force{
			ID:             d.ID,
			Owner:          d.Owner,
			Source:         d.Source,
			Dest:           d.Dest,
			Size:           size,
			TurnsRemaining: d.RemainingFuse,
		})
	}
}

// StrikeSize is the force equivalent of a detonation against garrison g.
func StrikeSize(g int) int {
	switch {
	case g > 20:
		return g / 2
	case g > 10:
		return 10
	default:
		return g
	}
}

// candidateDestination picks the lowest-id site whose distance from source
// equals the detonator's original fuse.
func candidateDestination(g *Graph, source, fuse int) (int, bool) {
	for i := range g.Size() {
		if i != source && g.Distance(source, i) == fuse {
			return i, true
		}
	}
	return Unknown, false
}
