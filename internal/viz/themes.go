package viz

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/san-kum/trackctl/internal/sim"
)

// Theme colours the live tracking view.
type Theme struct {
	Name   string
	Track  lipgloss.Color // path and vehicle trail on the canvas
	Value  lipgloss.Color // telemetry readouts
	Graph  lipgloss.Color // lateral error chart
	Goal   lipgloss.Color // run reached the goal
	Budget lipgloss.Color // time budget or cancel
	Fault  lipgloss.Color // path end or invalid state
}

var (
	// ThemeAsphalt is lane paint on a dark road.
	ThemeAsphalt = Theme{
		Name:   "asphalt",
		Track:  lipgloss.Color("#f2c14e"),
		Value:  lipgloss.Color("#e8e8e8"),
		Graph:  lipgloss.Color("#f2c14e"),
		Goal:   lipgloss.Color("#5fd068"),
		Budget: lipgloss.Color("#f28c28"),
		Fault:  lipgloss.Color("#e5484d"),
	}

	// ThemeNight trades hue for contrast on dim terminals.
	ThemeNight = Theme{
		Name:   "night",
		Track:  lipgloss.Color("#ffffff"),
		Value:  lipgloss.Color("#7fdbff"),
		Graph:  lipgloss.Color("#7fdbff"),
		Goal:   lipgloss.Color("#2ecc40"),
		Budget: lipgloss.Color("#ffdc00"),
		Fault:  lipgloss.Color("#ff4136"),
	}

	CurrentTheme = ThemeAsphalt

	// Themes in the order the T key cycles them.
	Themes = []Theme{ThemeAsphalt, ThemeNight}
)

// StopColor picks the colour for how a run ended.
func (t Theme) StopColor(r sim.StopReason) lipgloss.Color {
	switch r {
	case sim.StopGoal:
		return t.Goal
	case sim.StopTime, sim.StopCanceled:
		return t.Budget
	default:
		return t.Fault
	}
}

// GetTheme returns the named theme, or the asphalt theme for unknown names.
func GetTheme(name string) Theme {
	for _, t := range Themes {
		if t.Name == name {
			return t
		}
	}
	return ThemeAsphalt
}

func SetTheme(name string) {
	CurrentTheme = GetTheme(name)
}

// NextTheme switches to the theme after the current one, wrapping around.
func NextTheme() Theme {
	names := ThemeNames()
	for i, name := range names {
		if name == CurrentTheme.Name {
			SetTheme(names[(i+1)%len(names)])
			return CurrentTheme
		}
	}
	SetTheme(names[0])
	return CurrentTheme
}

func ThemeNames() []string {
	names := make([]string, len(Themes))
	for i, t := range Themes {
		names[i] = t.Name
	}
	return names
}
