package protocol

import (
	"errors"
	"fmt"
)

var (
	// ErrMalformed reports input that does not follow the wire format.
	ErrMalformed = errors.New("malformed input")
	// ErrUnknownSite reports a site id outside the match's id space.
	ErrUnknownSite = errors.New("unknown site")
)

// IDMap is the bijection between the referee's site ids and the engine's
// compact internal indices. It is fixed once the setup block has been read.
type IDMap struct {
	toInternal map[int]int
	toExternal []int
}

// NewIDMap assigns internal indices to external ids 0..n-1: ids in order of
// first appearance in links come first, the rest follow in ascending order.
func NewIDMap(n int, links [][2]int) (*IDMap, error) {
	m := &IDMap{toInternal: make(map[int]int, n), toExternal: make([]int, 0, n)}
	for _, l := range links {
		for _, ext := range l {
			if ext < 0 || ext >= n {
				return nil, fmt.Errorf("protocol: link site %d of %d: %w", ext, n, ErrUnknownSite)
			}
			m.add(ext)
		}
	}
	for ext := range n {
		m.add(ext)
	}
	return m, nil
}

func (m *IDMap) add(ext int) {
	if _, ok := m.toInternal[ext]; ok {
		return
	}
	m.toInternal[ext] = len(m.toExternal)
	m.toExternal = append(m.toExternal, ext)
}

// Internal translates a referee id.
func (m *IDMap) Internal(ext int) (int, error) {
	id, ok := m.toInternal[ext]
	if !ok {
		return 0, fmt.Errorf("protocol: site %d: %w", ext, ErrUnknownSite)
	}
	return id, nil
}

// External translates an internal index back to the referee id.
func (m *IDMap) External(id int) (int, error) {
	if id < 0 || id >= len(m.toExternal) {
		return 0, fmt.Errorf("protocol: internal site %d: %w", id, ErrUnknownSite)
	}
	return m.toExternal[id], nil
}

// Len returns the number of sites.
func (m *IDMap) Len() int {
	return len(m.toExternal)
}
