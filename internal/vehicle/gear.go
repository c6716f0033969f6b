package vehicle

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// Gear selects the direction of travel. The lateral model and the
// feedforward law both branch on it.
type Gear int

const (
	Drive Gear = iota + 1
	Reverse
)

func (g Gear) String() string {
	switch g {
	case Drive:
		return "drive"
	case Reverse:
		return "reverse"
	default:
		return fmt.Sprintf("gear(%d)", int(g))
	}
}

// Sign is +1 for Drive and -1 for Reverse.
func (g Gear) Sign() float64 {
	if g == Reverse {
		return -1
	}
	return 1
}

// ParseGear converts a gear name into a Gear.
func ParseGear(value string) (Gear, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "drive", "d", "":
		return Drive, nil
	case "reverse", "r":
		return Reverse, nil
	default:
		return Drive, fmt.Errorf("unknown gear %q", value)
	}
}

// UnmarshalYAML allows gears to be loaded from YAML strings.
func (g *Gear) UnmarshalYAML(node *yaml.Node) error {
	var raw string
	if err := node.Decode(&raw); err != nil {
		return err
	}
	parsed, err := ParseGear(raw)
	if err != nil {
		return err
	}
	*g = parsed
	return nil
}

func (g Gear) MarshalYAML() (interface{}, error) {
	return g.String(), nil
}
