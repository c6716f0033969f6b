package viz

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/san-kum/trackctl/internal/sim"
)

func TestThemeNames(t *testing.T) {
	assert.Equal(t, []string{"asphalt", "night"}, ThemeNames())
}

func TestGetThemeUnknown(t *testing.T) {
	assert.Equal(t, ThemeNight, GetTheme("night"))
	assert.Equal(t, ThemeAsphalt, GetTheme("cyberpunk"))
}

func TestNextThemeWraps(t *testing.T) {
	defer SetTheme(CurrentTheme.Name)

	SetTheme("asphalt")
	assert.Equal(t, "night", NextTheme().Name)
	assert.Equal(t, "asphalt", NextTheme().Name)
	assert.Equal(t, "asphalt", CurrentTheme.Name)
}

func TestStopColor(t *testing.T) {
	th := ThemeAsphalt
	assert.Equal(t, th.Goal, th.StopColor(sim.StopGoal))
	assert.Equal(t, th.Budget, th.StopColor(sim.StopTime))
	assert.Equal(t, th.Budget, th.StopColor(sim.StopCanceled))
	assert.Equal(t, th.Fault, th.StopColor(sim.StopPathEnd))
	assert.Equal(t, th.Fault, th.StopColor(sim.StopInvalid))
}

func TestLiveThemeKey(t *testing.T) {
	defer SetTheme(CurrentTheme.Name)

	SetTheme("asphalt")
	m := send(newLive(t, "straight"), key("t"))
	assert.Equal(t, "night", CurrentTheme.Name)
	assert.NotEmpty(t, m.View())
}
