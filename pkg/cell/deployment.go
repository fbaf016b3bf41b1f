package cell

import (
	"fmt"
	"strings"
)

// NoOp is emitted when a turn has no deployments.
const NoOp = "WAIT"

// Deployment sends Count troops from Source to Dest. Ids are internal site
// indices until formatted.
type Deployment struct {
	Source int `json:"source"`
	Dest   int `json:"dest"`
	Count  int `json:"count"`
}

// Validate checks the deployment in isolation.
func (d Deployment) Validate() error {
	if d.Count <= 0 {
		return fmt.Errorf("cell: deployment %s: %w", d, ErrInvalidSize)
	}
	if d.Source == d.Dest {
		return fmt.Errorf("cell: deployment %s: %w", d, ErrUnreachable)
	}
	return nil
}

func (d Deployment) String() string {
	return fmt.Sprintf("MOVE %d %d %d", d.Source, d.Dest, d.Count)
}

// FormatDeployments renders a turn's output line, translating site indices
// with external.
func FormatDeployments(ds []Deployment, external func(int) (int, error)) (string, error) {
	if len(ds) == 0 {
		return NoOp, nil
	}
	parts := make([]string, 0, len(ds))
	for _, d := range ds {
		src, err := external(d.Source)
		if err != nil {
			return "", err
		}
		dst, err := external(d.Dest)
		if err != nil {
			return "", err
		}
		parts = append(parts, Deployment{Source: src, Dest: dst, Count: d.Count}.String())
	}
	return strings.Join(parts, ";"), nil
}
