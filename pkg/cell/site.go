package cell

import "fmt"

// Arrive resolves a force that has reached this site. Reinforcements from the
// owner add to the garrison; anything else fights it and takes the site when
// it is larger.
func (s *Site) Arrive(f Force) error {
	if f.Dest != s.ID {
		return fmt.Errorf("cell: force %d to site %d arriving at %d: %w", f.ID, f.Dest, s.ID, ErrMisaddressed)
	}
	if f.TurnsRemaining != 0 {
		return fmt.Errorf("cell: force %d with %d turns left: %w", f.ID, f.TurnsRemaining, ErrEarlyArrival)
	}
	if f.Owner == s.Owner {
		s.Garrison += f.Size
		return nil
	}
	if f.Size <= s.Garrison {
		s.Garrison -= f.Size
		return nil
	}
	s.Garrison = f.Size - s.Garrison
	s.Owner = f.Owner
	return nil
}

// Blast applies a detonation to this site.
func (s *Site) Blast(d Detonator) error {
	if d.Resolved() && d.Dest != s.ID {
		return fmt.Errorf("cell: detonator %d to site %d blasting %d: %w", d.ID, d.Dest, s.ID, ErrMisaddressed)
	}
	if d.RemainingFuse != 0 {
		return fmt.Errorf("cell: detonator %d with fuse %d: %w", d.ID, d.RemainingFuse, ErrEarlyBlast)
	}
	s.Garrison -= BlastDamage(s.Garrison)
	return nil
}

// BlastDamage returns how many troops a detonation destroys in a garrison of g.
func BlastDamage(g int) int {
	switch {
	case g > 20:
		return g - g/2
	case g > 10:
		return 10
	default:
		return g
	}
}

// Dispatch sends size troops from this site to dest. The returned force
// arrives after exactly the travel time between the two sites.
func (s *Site) Dispatch(dest, size int, g *Graph, seq *Sequence) (Force, error) {
	if size <= 0 {
		return Force{}, fmt.Errorf("cell: dispatch %d from site %d: %w", size, s.ID, ErrInvalidSize)
	}
	if size > s.Garrison {
		return Force{}, fmt.Errorf("cell: dispatch %d from site %d holding %d: %w", size, s.ID, s.Garrison, ErrOverdraw)
	}
	if !g.Reachable(s.ID, dest) {
		return Force{}, fmt.Errorf("cell: dispatch %d -> %d: %w", s.ID, dest, ErrUnreachable)
	}
	s.Garrison -= size
	return Force{
		ID:             seq.Next(),
		Owner:          s.Owner,
		Source:         s.ID,
		Dest:           dest,
		Size:           size,
		TurnsRemaining: g.Distance(s.ID, dest),
	}, nil
}

// Abandon dispatches the whole garrison to dest.
func (s *Site) Abandon(dest int, g *Graph, seq *Sequence) (Force, error) {
	return s.Dispatch(dest, s.Garrison, g, seq)
}
