package cell

import "testing"

func TestForecastSite_CaptureByIncomingForce(t *testing.T) {
	site := Site{ID: 0, Owner: Friendly, Garrison: 10}
	forces := []Force{{ID: 1, Owner: Hostile, Source: 1, Dest: 0, Size: 15, TurnsRemaining: 1}}

	fc := ForecastSite(site, forces, 5)
	if got := fc.Points[1]; got.Holder != Hostile || got.Garrison != 5 {
		t.Fatalf("t=1: expected hostile 5, got %s %d", got.Holder, got.Garrison)
	}
	p, _ := fc.Final()
	if p.Holder != Hostile || p.Garrison != 5 {
		t.Errorf("final: expected hostile 5, got %s %d", p.Holder, p.Garrison)
	}
}

func TestForecastSite_SimultaneousTieLeavesNeutral(t *testing.T) {
	site := Site{ID: 0, Owner: Neutral, Garrison: 10}
	forces := []Force{
		{ID: 1, Owner: Friendly, Source: 1, Dest: 0, Size: 10, TurnsRemaining: 1},
		{ID: 2, Owner: Hostile, Source: 2, Dest: 0, Size: 10, TurnsRemaining: 1},
	}

	fc := ForecastSite(site, forces, 3)
	for i, p := range fc.Points {
		if p.Holder != Neutral || p.Garrison != 10 {
			t.Errorf("t=%d: expected neutral 10, got %s %d", i, p.Holder, p.Garrison)
		}
	}
}

func TestForecastSite_QuietSiteHoldsConstant(t *testing.T) {
	site := Site{ID: 3, Owner: Hostile, Garrison: 7}
	fc := ForecastSite(site, nil, LookAhead)
	if len(fc.Points) != LookAhead {
		t.Fatalf("expected %d points, got %d", LookAhead, len(fc.Points))
	}
	for i, p := range fc.Points {
		if p.Holder != Hostile || p.Garrison != 7 {
			t.Fatalf("t=%d: expected hostile 7, got %s %d", i, p.Holder, p.Garrison)
		}
	}
}

func TestForecastSite_Production(t *testing.T) {
	site := Site{ID: 0, Owner: Friendly, Garrison: 2, Production: 3}
	fc := ForecastSite(site, nil, 4)
	want := []int{2, 5, 8, 11}
	for i, w := range want {
		if fc.Points[i].Garrison != w {
			t.Errorf("t=%d: expected %d, got %d", i, w, fc.Points[i].Garrison)
		}
	}
}

func TestForecastSite_NeutralDoesNotProduce(t *testing.T) {
	site := Site{ID: 0, Owner: Neutral, Garrison: 4, Production: 3}
	fc := ForecastSite(site, nil, 5)
	if p, _ := fc.Final(); p.Garrison != 4 {
		t.Errorf("expected neutral garrison to stay 4, got %d", p.Garrison)
	}
}

func TestForecastSite_ZeroHorizon(t *testing.T) {
	site := Site{ID: 0, Owner: Friendly, Garrison: 5}
	fc := ForecastSite(site, []Force{{Owner: Hostile, Dest: 0, Size: 3, TurnsRemaining: 0}}, 0)
	if len(fc.Points) != 0 {
		t.Fatalf("expected empty forecast, got %d points", len(fc.Points))
	}
	if _, ok := fc.Final(); ok {
		t.Error("Final should report no point for an empty forecast")
	}
	if fc.MinGarrison(Friendly) != 0 {
		t.Error("MinGarrison of empty forecast should be 0")
	}
}

func TestForecastSite_ReinforcementKeepsHolder(t *testing.T) {
	site := Site{ID: 0, Owner: Friendly, Garrison: 4}
	forces := []Force{{Owner: Friendly, Source: 1, Dest: 0, Size: 6, TurnsRemaining: 2}}
	fc := ForecastSite(site, forces, 4)
	if p := fc.Points[2]; p.Holder != Friendly || p.Garrison != 10 {
		t.Errorf("t=2: expected friendly 10, got %s %d", p.Holder, p.Garrison)
	}
}

func TestForecastSite_NeutralDefenderRepelsSmallAttack(t *testing.T) {
	site := Site{ID: 0, Owner: Neutral, Garrison: 8}
	forces := []Force{{Owner: Friendly, Source: 1, Dest: 0, Size: 5, TurnsRemaining: 1}}
	fc := ForecastSite(site, forces, 3)
	if p := fc.Points[1]; p.Holder != Neutral || p.Garrison != 3 {
		t.Errorf("t=1: expected neutral 3, got %s %d", p.Holder, p.Garrison)
	}
}

func TestForecastSite_ExactDefenseEmptiesSite(t *testing.T) {
	site := Site{ID: 0, Owner: Neutral, Garrison: 5}
	forces := []Force{{Owner: Hostile, Source: 1, Dest: 0, Size: 5, TurnsRemaining: 1}}
	fc := ForecastSite(site, forces, 3)
	if p := fc.Points[1]; p.Holder != Neutral || p.Garrison != 0 {
		t.Errorf("t=1: expected neutral 0, got %s %d", p.Holder, p.Garrison)
	}
}

func TestForecastSite_DepartureCannotGoNegative(t *testing.T) {
	site := Site{ID: 0, Owner: Friendly, Garrison: 3}
	forces := []Force{{Owner: Friendly, Source: 0, Dest: 1, Size: 9, TurnsRemaining: 1}}
	fc := ForecastSite(site, forces, 3)
	for i, p := range fc.Points {
		if p.Garrison < 0 {
			t.Fatalf("t=%d: negative garrison %d", i, p.Garrison)
		}
	}
	if p := fc.Points[1]; p.Holder != Friendly || p.Garrison != 0 {
		t.Errorf("t=1: expected friendly 0, got %s %d", p.Holder, p.Garrison)
	}
}

func TestForecastSite_IgnoresForcesBeyondHorizon(t *testing.T) {
	site := Site{ID: 0, Owner: Friendly, Garrison: 1}
	forces := []Force{{Owner: Hostile, Source: 1, Dest: 0, Size: 50, TurnsRemaining: 6}}
	fc := ForecastSite(site, forces, 6)
	if !fc.HeldBy(Friendly) {
		t.Error("force arriving at t=horizon should not affect the forecast")
	}
}

func TestForecastSite_Invariants(t *testing.T) {
	owners := []Side{Neutral, Friendly, Hostile}
	for _, owner := range owners {
		for seed := range 40 {
			site := Site{ID: 0, Owner: owner, Garrison: seed % 13, Production: seed % 4}
			var forces []Force
			for k := range 6 {
				side := Friendly
				if (seed+k)%2 == 0 {
					side = Hostile
				}
				forces = append(forces, Force{
					Owner:          side,
					Source:         1 + k%2,
					Dest:           0,
					Size:           1 + (seed*7+k*5)%17,
					TurnsRemaining: (seed + k*3) % 10,
				})
			}
			forces = append(forces, Force{Owner: owner, Source: 0, Dest: 2, Size: 4, TurnsRemaining: 2})

			fc := ForecastSite(site, forces, LookAhead)
			for i, p := range fc.Points {
				if p.Garrison < 0 {
					t.Fatalf("owner %s seed %d t=%d: negative garrison %d", owner, seed, i, p.Garrison)
				}
				if p.Holder != Neutral && p.Holder != Friendly && p.Holder != Hostile {
					t.Fatalf("owner %s seed %d t=%d: invalid holder %d", owner, seed, i, p.Holder)
				}
			}
		}
	}
}

func TestRules_Horizon(t *testing.T) {
	r := DefaultRules()
	cases := []struct {
		turn, want int
	}{
		{0, 25},
		{375, 25},
		{380, 20},
		{399, 1},
		{400, 0},
		{410, 0},
	}
	for _, c := range cases {
		if got := r.Horizon(c.turn); got != c.want {
			t.Errorf("turn %d: expected horizon %d, got %d", c.turn, c.want, got)
		}
	}
}

func TestSnapshot_ForecastAll_HorizonLength(t *testing.T) {
	g := NewGraph(2)
	g.Link(0, 1, 3)
	sites := []Site{{ID: 0, Owner: Friendly, Garrison: 5}, {ID: 1, Owner: Hostile, Garrison: 5}}
	for _, turn := range []int{0, 390, 400} {
		s, err := NewSnapshot(turn, g, sites, nil, nil, &Sequence{})
		if err != nil {
			t.Fatal(err)
		}
		want := DefaultRules().Horizon(turn)
		for _, fc := range s.ForecastAll(DefaultRules()) {
			if fc.Horizon != want || len(fc.Points) != want {
				t.Errorf("turn %d site %d: expected %d points, got horizon %d len %d", turn, fc.Site, want, fc.Horizon, len(fc.Points))
			}
		}
	}
}

func TestForecast_MinGarrison(t *testing.T) {
	fc := Forecast{Points: []Point{{Friendly, 6}, {Friendly, 3}, {Friendly, 8}}}
	if got := fc.MinGarrison(Friendly); got != 3 {
		t.Errorf("expected 3, got %d", got)
	}
	fc.Points[1].Holder = Hostile
	if got := fc.MinGarrison(Friendly); got != 0 {
		t.Errorf("expected 0 once the site is lost, got %d", got)
	}
}

func TestResolveTurn_BelligerentsExclusive(t *testing.T) {
	for _, holder := range []Side{Neutral, Friendly, Hostile} {
		for n := range 12 {
			for f := range 12 {
				for h := range 12 {
					g := [channelCount]int{}
					g[holder.channel()] = n
					g[Friendly.channel()] += f
					g[Hostile.channel()] += h
					newHolder := resolveTurn(&g, holder, 2)
					if g[Friendly.channel()] != 0 && g[Hostile.channel()] != 0 {
						t.Fatalf("holder %s n=%d f=%d h=%d: both belligerents non-zero %v", holder, n, f, h, g)
					}
					for c, v := range g {
						if v < 0 {
							t.Fatalf("holder %s n=%d f=%d h=%d: channel %d negative %v", holder, n, f, h, c, g)
						}
					}
					if !newHolder.Belligerent() && newHolder != Neutral {
						t.Fatalf("invalid holder %d", newHolder)
					}
				}
			}
		}
	}
}

func TestResolveTurn_TieZeroesBelligerents(t *testing.T) {
	g := [channelCount]int{0, 7, 7}
	holder := resolveTurn(&g, Neutral, 0)
	if holder != Neutral || g[Friendly.channel()] != 0 || g[Hostile.channel()] != 0 {
		t.Errorf("expected neutral with both belligerents zero, got %s %v", holder, g)
	}
}
