package cell

const (
	// MaxTurns is the length of a match.
	MaxTurns = 400
	// LookAhead caps how many turns a forecast projects.
	LookAhead = 25
)

// Rules carries the tunable constants of the engine.
type Rules struct {
	MaxTurns   int
	LookAhead  int
	RearRatio  float64 // help > RearRatio*attack marks a rear factory
	FrontRatio float64 // attack > FrontRatio*help marks a site behind enemy lines
}

// DefaultRules returns the standard match constants.
func DefaultRules() Rules {
	return Rules{
		MaxTurns:   MaxTurns,
		LookAhead:  LookAhead,
		RearRatio:  3,
		FrontRatio: 5,
	}
}

// Horizon returns how many turns to project from the given turn.
func (r Rules) Horizon(turn int) int {
	remaining := r.MaxTurns - turn
	if remaining < 0 {
		return 0
	}
	return min(remaining, r.LookAhead)
}
