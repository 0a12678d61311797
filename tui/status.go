package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// renderStatusBar produces a full-width inverted status line showing
// floor, HP, energy in combat, relics and gold.
func (m Model) renderStatusBar() string {
	g := m.session.Game()
	p := g.Player

	left := fmt.Sprintf(" Floor %d | HP %d/%d", g.Floor, p.HP, p.MaxHP)
	if g.InCombat() {
		left += fmt.Sprintf(" | Energy %d/%d | Round %d", p.Energy, p.MaxEnergy, g.Round())
	}
	right := fmt.Sprintf("Gold %d ", g.Gold)

	// Show relic names if they fit, otherwise just the count.
	if len(g.Relics) > 0 {
		names := make([]string, 0, len(g.Relics))
		for _, r := range g.Relics {
			names = append(names, r.Class.Name)
		}
		candidate := fmt.Sprintf("Relics: %s | Gold %d ", strings.Join(names, ", "), g.Gold)
		if lipgloss.Width(left)+lipgloss.Width(candidate)+2 < m.width {
			right = candidate
		} else {
			right = fmt.Sprintf("Relics: %d | Gold %d ", len(g.Relics), g.Gold)
		}
	}

	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 0 {
		gap = 0
	}

	bar := left + strings.Repeat(" ", gap) + right
	return styleStatusBar.Width(m.width).Render(bar)
}
