package cell

// Valuation holds the scalar scores of one site.
type Valuation struct {
	Site        int
	Utility     float64
	Attack      float64
	Help        float64
	Rear        bool
	BehindLines bool
}

// Centrality sums the closeness of a site to every other reachable site.
func (s *Snapshot) Centrality(id int) float64 {
	sum := 0.0
	for other := range s.Sites {
		sum += s.Graph.Closeness(other, id)
	}
	return sum
}

// Utility scores a site by centrality, production and the turns left to
// collect that production.
func (s *Snapshot) Utility(id int, r Rules) float64 {
	site := s.Sites[id]
	if site.Production == 0 {
		return 0
	}
	window := r.MaxTurns - (s.Turn + site.Readiness)
	return s.Centrality(id) * float64(site.Production) * float64(window)
}

// AttackPotential scores a site as a staging ground against the sites held
// by its owner's opponent.
func (s *Snapshot) AttackPotential(id int) float64 {
	site := s.Sites[id]
	if !site.Owner.Belligerent() {
		return 0
	}
	return s.proximity(id, site.Owner.Opponent()) * float64(site.Production)
}

// HelpPotential scores a site as rear-area supply for the other sites held by
// its owner.
func (s *Snapshot) HelpPotential(id int) float64 {
	site := s.Sites[id]
	if !site.Owner.Belligerent() {
		return 0
	}
	return s.proximity(id, site.Owner) * float64(site.Production)
}

// Valuate scores every site.
func (s *Snapshot) Valuate(r Rules) []Valuation {
	out := make([]Valuation, len(s.Sites))
	for i := range s.Sites {
		attack, help := s.AttackPotential(i), s.HelpPotential(i)
		out[i] = Valuation{
			Site:        i,
			Utility:     s.Utility(i, r),
			Attack:      attack,
			Help:        help,
			Rear:        help > r.RearRatio*attack,
			BehindLines: attack > r.FrontRatio*help,
		}
	}
	return out
}

func (s *Snapshot) proximity(id int, side Side) float64 {
	sum := 0.0
	for _, other := range s.Sites {
		if other.Owner == side {
			sum += s.Graph.Closeness(other.ID, id)
		}
	}
	return sum
}
