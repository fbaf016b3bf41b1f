package cell

// Point is the projected state of a site at one future turn.
type Point struct {
	Holder   Side
	Garrison int
}

// Forecast is a site's projected ownership over the look-ahead horizon.
// Points[t] is the state t turns from now; Points is empty when no turns
// remain in the match.
type Forecast struct {
	Site    int
	Horizon int
	Points  []Point
}

// Final returns the last projected point.
func (f Forecast) Final() (Point, bool) {
	if len(f.Points) == 0 {
		return Point{}, false
	}
	return f.Points[len(f.Points)-1], true
}

// HeldBy reports whether the site ends the horizon held by side.
func (f Forecast) HeldBy(side Side) bool {
	p, ok := f.Final()
	return ok && p.Holder == side
}

// MinGarrison returns the smallest garrison side keeps over the horizon, or 0
// if side loses the site at any point.
func (f Forecast) MinGarrison(side Side) int {
	if len(f.Points) == 0 {
		return 0
	}
	lo := f.Points[0].Garrison
	for _, p := range f.Points {
		if p.Holder != side {
			return 0
		}
		lo = min(lo, p.Garrison)
	}
	return lo
}

// ForecastAll projects every site of the snapshot.
func (s *Snapshot) ForecastAll(r Rules) []Forecast {
	h := r.Horizon(s.Turn)
	forces := s.AllForces()
	out := make([]Forecast, len(s.Sites))
	for i, site := range s.Sites {
		out[i] = ForecastSite(site, forces, h)
	}
	return out
}

// ForecastSite simulates a site turn by turn over h turns given the forces
// in flight. Each turn arrivals and departures are applied per side, the
// holder produces, the two belligerents fight each other, and the survivor
// then fights whoever holds the site.
func ForecastSite(site Site, forces []Force, h int) Forecast {
	fc := Forecast{Site: site.ID, Horizon: h}
	if h <= 0 {
		return fc
	}

	var incoming, outgoing [channelCount][]int
	for c := range channelCount {
		incoming[c] = make([]int, h)
		outgoing[c] = make([]int, h)
	}
	for _, f := range forces {
		if f.TurnsRemaining < 0 || f.TurnsRemaining >= h {
			continue
		}
		c := f.Owner.channel()
		if f.Dest == site.ID {
			incoming[c][f.TurnsRemaining] += f.Size
		}
		if f.Source == site.ID {
			outgoing[c][f.TurnsRemaining] += f.Size
		}
	}

	var garrison [channelCount]int
	holder := site.Owner
	garrison[holder.channel()] = site.Garrison

	fc.Points = make([]Point, h)
	fc.Points[0] = Point{Holder: holder, Garrison: site.Garrison}

	for t := 1; t < h; t++ {
		for c := range channelCount {
			garrison[c] = max(garrison[c]+incoming[c][t]-outgoing[c][t], 0)
		}
		holder = resolveTurn(&garrison, holder, site.Production)
		fc.Points[t] = Point{Holder: holder, Garrison: garrison[holder.channel()]}
	}
	return fc
}

// resolveTurn applies production and combat to one turn's per-side garrisons
// and returns the new holder. Afterwards at most one belligerent slot is
// non-zero.
func resolveTurn(garrison *[channelCount]int, holder Side, production int) Side {
	if holder.Belligerent() {
		garrison[holder.channel()] += production
	}

	friendly, hostile := Friendly.channel(), Hostile.channel()
	survivor, v := fight(garrison[friendly], garrison[hostile])
	garrison[friendly], garrison[hostile] = 0, 0
	if survivor != Neutral {
		garrison[survivor.channel()] = v
	}
	if survivor == holder {
		return holder
	}

	hc := holder.channel()
	d := garrison[hc]
	switch {
	case v > d:
		garrison[hc] = 0
		garrison[survivor.channel()] = v - d
		return survivor
	case d > v:
		garrison[hc] = d - v
	default:
		garrison[hc] = 0
	}
	if survivor != Neutral {
		garrison[survivor.channel()] = 0
	}
	return holder
}
