package cell

import "fmt"

// Unknown marks a detonator whose destination has not been resolved yet.
const Unknown = -1

// Site is a graph node that holds a garrison and produces troops.
type Site struct {
	ID         int
	Owner      Side
	Garrison   int
	Production int
	Readiness  int // turns until production resumes
}

// Force is a troop group travelling between two sites.
type Force struct {
	ID             int
	Owner          Side
	Source         int
	Dest           int
	Size           int
	TurnsRemaining int
}

// NewForce builds a force, rejecting empty ones.
func NewForce(id int, owner Side, source, dest, size, turns int) (Force, error) {
	if size <= 0 {
		return Force{}, fmt.Errorf("cell: force %d size %d: %w", id, size, ErrInvalidSize)
	}
	return Force{ID: id, Owner: owner, Source: source, Dest: dest, Size: size, TurnsRemaining: turns}, nil
}

// Detonator is a timed device travelling toward, or already targeting, a site.
type Detonator struct {
	ID            int
	Owner         Side
	Source        int
	Dest          int // Unknown until resolved
	TotalFuse     int
	RemainingFuse int
}

// Resolved reports whether the destination is known.
func (d Detonator) Resolved() bool {
	return d.Dest != Unknown
}

// Kind tags the variant held by an Entity.
type Kind int

const (
	KindSite Kind = iota
	KindForce
	KindDetonator
)

func (k Kind) String() string {
	switch k {
	case KindSite:
		return "FACTORY"
	case KindForce:
		return "TROOP"
	case KindDetonator:
		return "BOMB"
	default:
		return "UNKNOWN"
	}
}

// ParseKind converts a wire type tag.
func ParseKind(tag string) (Kind, bool) {
	switch tag {
	case "FACTORY":
		return KindSite, true
	case "TROOP":
		return KindForce, true
	case "BOMB":
		return KindDetonator, true
	}
	return 0, false
}

// Entity is one record of a turn's world state. Exactly one of the payload
// fields matching Kind is meaningful.
type Entity struct {
	Kind      Kind
	Site      Site
	Force     Force
	Detonator Detonator
}

// ID returns the id of the held variant.
func (e Entity) ID() int {
	switch e.Kind {
	case KindForce:
		return e.Force.ID
	case KindDetonator:
		return e.Detonator.ID
	default:
		return e.Site.ID
	}
}

// Same reports whether two entities denote the same record.
func (e Entity) Same(o Entity) bool {
	return e.Kind == o.Kind && e.ID() == o.ID()
}

// Sequence hands out ids for forces and detonators within one match.
type Sequence struct {
	next int
}

// Next returns a fresh id.
func (s *Sequence) Next() int {
	id := s.next
	s.next++
	return id
}
