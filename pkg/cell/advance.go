package cell

import "fmt"

// Advance plays one turn under the game rules with no new orders: forces and
// detonators move one step, owned sites produce, arrivals fight and expiring
// detonators blast their target. The receiver is not modified.
//
// Opposing forces landing on the same site fight each other before the
// survivor meets the garrison. A detonator still unresolved when its fuse
// runs out is dropped without effect.
func (s *Snapshot) Advance() (*Snapshot, error) {
	next := s.Clone()
	next.Turn++

	for i := range next.Sites {
		site := &next.Sites[i]
		if !site.Owner.Belligerent() {
			continue
		}
		if site.Readiness > 0 {
			site.Readiness--
			continue
		}
		site.Garrison += site.Production
	}

	var arriving [][channelCount]int
	inFlight := next.Forces[:0]
	for _, f := range next.Forces {
		f.TurnsRemaining--
		if f.TurnsRemaining > 0 {
			inFlight = append(inFlight, f)
			continue
		}
		if f.Dest < 0 || f.Dest >= len(next.Sites) {
			return nil, fmt.Errorf("cell: force %d to %d: %w", f.ID, f.Dest, ErrUnknownSite)
		}
		if arriving == nil {
			arriving = make([][channelCount]int, len(next.Sites))
		}
		arriving[f.Dest][f.Owner.channel()] += f.Size
	}
	next.Forces = inFlight

	for id, in := range arriving {
		survivor, size := fight(in[Friendly.channel()], in[Hostile.channel()])
		if size == 0 {
			continue
		}
		if err := next.Sites[id].Arrive(Force{Owner: survivor, Dest: id, Size: size}); err != nil {
			return nil, err
		}
	}

	pending := next.Detonators[:0]
	for _, d := range next.Detonators {
		// already went off on the previous step
		if d.RemainingFuse <= 0 {
			continue
		}
		d.RemainingFuse--
		if d.RemainingFuse > 0 {
			pending = append(pending, d)
			continue
		}
		if !d.Resolved() {
			continue
		}
		if d.Dest < 0 || d.Dest >= len(next.Sites) {
			return nil, fmt.Errorf("cell: detonator %d to %d: %w", d.ID, d.Dest, ErrUnknownSite)
		}
		if err := next.Sites[d.Dest].Blast(d); err != nil {
			return nil, err
		}
	}
	next.Detonators = pending

	next.aggregate()
	return next, nil
}

// Drift counts the sites whose owner or garrison differ between two snapshots.
func (s *Snapshot) Drift(observed *Snapshot) int {
	n := 0
	for i := range min(len(s.Sites), len(observed.Sites)) {
		a, b := s.Sites[i], observed.Sites[i]
		if a.Owner != b.Owner || a.Garrison != b.Garrison {
			n++
		}
	}
	return n
}

// fight resolves two opposing belligerent amounts, returning the surviving
// side and its remaining size.
func fight(friendly, hostile int) (Side, int) {
	switch {
	case friendly > hostile:
		return Friendly, friendly - hostile
	case hostile > friendly:
		return Hostile, hostile - friendly
	default:
		return Neutral, 0
	}
}
