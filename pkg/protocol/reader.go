package protocol

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/freeeve/ghost-cell/pkg/cell"
)

// Setup is the match-level input: the travel graph over internal indices and
// the id mapping used to build it.
type Setup struct {
	Graph *cell.Graph
	IDs   *IDMap
	Links int
}

// TurnInput is one turn's observed world state with site references already
// translated to internal indices. Detonators carry no id; the tracker assigns
// them.
type TurnInput struct {
	Sites      []cell.Site
	Forces     []cell.Force
	Detonators []cell.Detonator
}

// Reader decodes referee input. It is not safe for concurrent use.
type Reader struct {
	scanner *bufio.Scanner
	ids     *IDMap
}

// NewReader returns a Reader over r.
func NewReader(r io.Reader) *Reader {
	s := bufio.NewScanner(r)
	s.Split(bufio.ScanWords)
	return &Reader{scanner: s}
}

// ReadSetup reads the match setup block. It must be called once before ReadTurn.
func (r *Reader) ReadSetup() (*Setup, error) {
	n, err := r.readInt("site count")
	if err != nil {
		return nil, err
	}
	if n <= 0 {
		return nil, fmt.Errorf("protocol: site count %d: %w", n, ErrMalformed)
	}
	count, err := r.readInt("link count")
	if err != nil {
		return nil, err
	}
	if count < 0 {
		return nil, fmt.Errorf("protocol: link count %d: %w", count, ErrMalformed)
	}

	links := make([][2]int, count)
	dists := make([]int, count)
	for i := range count {
		for j := range 2 {
			if links[i][j], err = r.readInt("link site"); err != nil {
				return nil, err
			}
		}
		if dists[i], err = r.readInt("link distance"); err != nil {
			return nil, err
		}
	}

	ids, err := NewIDMap(n, links)
	if err != nil {
		return nil, err
	}
	g := cell.NewGraph(n)
	for i, l := range links {
		a, _ := ids.Internal(l[0])
		b, _ := ids.Internal(l[1])
		if err := g.Link(a, b, dists[i]); err != nil {
			return nil, fmt.Errorf("protocol: link %d-%d: %w: %w", l[0], l[1], ErrMalformed, err)
		}
	}
	r.ids = ids
	return &Setup{Graph: g, IDs: ids, Links: count}, nil
}

// ReadTurn reads one turn block. Forces are given fresh ids from seq. It
// returns io.EOF when the input ends cleanly before a new turn starts.
func (r *Reader) ReadTurn(seq *cell.Sequence) (*TurnInput, error) {
	if r.ids == nil {
		return nil, errors.New("protocol: ReadTurn before ReadSetup")
	}
	if !r.scanner.Scan() {
		if err := r.scanner.Err(); err != nil {
			return nil, fmt.Errorf("protocol: read entity count: %w", err)
		}
		return nil, io.EOF
	}
	count, err := strconv.Atoi(r.scanner.Text())
	if err != nil || count < 0 {
		return nil, fmt.Errorf("protocol: entity count %q: %w", r.scanner.Text(), ErrMalformed)
	}

	in := &TurnInput{}
	for range count {
		if err := r.readEntity(in, seq); err != nil {
			return nil, err
		}
	}
	return in, nil
}

func (r *Reader) readEntity(in *TurnInput, seq *cell.Sequence) error {
	ext, err := r.readInt("entity id")
	if err != nil {
		return err
	}
	tag, err := r.readWord("entity type")
	if err != nil {
		return err
	}
	var a [5]int
	for i := range a {
		if a[i], err = r.readInt("entity argument"); err != nil {
			return err
		}
	}
	kind, ok := cell.ParseKind(tag)
	if !ok {
		return fmt.Errorf("protocol: entity %d type %q: %w", ext, tag, ErrMalformed)
	}
	owner, err := cell.ParseSide(a[0])
	if err != nil {
		return fmt.Errorf("protocol: entity %d: %w: %w", ext, ErrMalformed, err)
	}

	switch kind {
	case cell.KindSite:
		id, err := r.site(ext)
		if err != nil {
			return err
		}
		if a[1] < 0 || a[2] < 0 {
			return fmt.Errorf("protocol: factory %d garrison %d production %d: %w", ext, a[1], a[2], ErrMalformed)
		}
		in.Sites = append(in.Sites, cell.Site{
			ID:         id,
			Owner:      owner,
			Garrison:   a[1],
			Production: a[2],
			Readiness:  a[3],
		})
	case cell.KindForce:
		src, err := r.site(a[1])
		if err != nil {
			return err
		}
		dst, err := r.site(a[2])
		if err != nil {
			return err
		}
		if a[4] < 0 {
			return fmt.Errorf("protocol: troop %d turns %d: %w", ext, a[4], ErrMalformed)
		}
		f, err := cell.NewForce(seq.Next(), owner, src, dst, a[3], a[4])
		if err != nil {
			return fmt.Errorf("protocol: troop %d: %w: %w", ext, ErrMalformed, err)
		}
		in.Forces = append(in.Forces, f)
	case cell.KindDetonator:
		src, err := r.site(a[1])
		if err != nil {
			return err
		}
		dst := cell.Unknown
		if a[2] != cell.Unknown {
			if dst, err = r.site(a[2]); err != nil {
				return err
			}
		}
		in.Detonators = append(in.Detonators, cell.Detonator{
			Owner:         owner,
			Source:        src,
			Dest:          dst,
			TotalFuse:     a[3],
			RemainingFuse: a[3],
		})
	}
	return nil
}

func (r *Reader) site(ext int) (int, error) {
	id, err := r.ids.Internal(ext)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrMalformed, err)
	}
	return id, nil
}

// readWord returns the next token. Running out of input mid-block is malformed.
func (r *Reader) readWord(what string) (string, error) {
	if !r.scanner.Scan() {
		if err := r.scanner.Err(); err != nil {
			return "", fmt.Errorf("protocol: read %s: %w", what, err)
		}
		return "", fmt.Errorf("protocol: %s: unexpected end of input: %w", what, ErrMalformed)
	}
	return r.scanner.Text(), nil
}

func (r *Reader) readInt(what string) (int, error) {
	tok, err := r.readWord(what)
	if err != nil {
		return 0, err
	}
	v, err := strconv.Atoi(tok)
	if err != nil {
		return 0, fmt.Errorf("protocol: %s %q: %w", what, tok, ErrMalformed)
	}
	return v, nil
}
