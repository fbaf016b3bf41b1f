package cell

import "errors"

// Defects raised when the simulated state diverges from the authoritative
// snapshot. Callers must treat them as fatal.
var (
	ErrInvalidSide  = errors.New("invalid owner")
	ErrInvalidSize  = errors.New("force size must be positive")
	ErrMisaddressed = errors.New("resolved against a site it is not addressed to")
	ErrEarlyArrival = errors.New("force resolved before reaching its destination")
	ErrEarlyBlast   = errors.New("detonator exploded before its fuse ran out")
	ErrOverdraw     = errors.New("dispatch exceeds garrison")
	ErrUnreachable  = errors.New("destination unreachable")
	ErrUnknownSite  = errors.New("unknown site")
)
