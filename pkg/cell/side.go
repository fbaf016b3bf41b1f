package cell

import "fmt"

// Side identifies who controls a site or owns a force.
type Side int

const (
	Hostile  Side = -1
	Neutral  Side = 0
	Friendly Side = 1
)

// channelCount is the number of ownership slots tracked during a forecast.
const channelCount = 3

// ParseSide converts a wire owner value into a Side.
func ParseSide(v int) (Side, error) {
	switch Side(v) {
	case Hostile, Neutral, Friendly:
		return Side(v), nil
	}
	return Neutral, fmt.Errorf("cell: owner %d: %w", v, ErrInvalidSide)
}

// Opponent returns the other belligerent. Neutral has no opponent.
func (s Side) Opponent() Side {
	return -s
}

// Belligerent reports whether the side takes part in combat resolution.
func (s Side) Belligerent() bool {
	return s == Friendly || s == Hostile
}

// channel maps a side to its slot: Neutral=0, Friendly=1, Hostile=2.
func (s Side) channel() int {
	if s == Hostile {
		return 2
	}
	return int(s)
}

func sideOfChannel(c int) Side {
	if c == 2 {
		return Hostile
	}
	return Side(c)
}

func (s Side) String() string {
	switch s {
	case Friendly:
		return "friendly"
	case Hostile:
		return "hostile"
	case Neutral:
		return "neutral"
	default:
		return "unknown"
	}
}
