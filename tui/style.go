package tui

import (
	"regexp"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Styles used throughout the TUI.
var (
	styleStatusBar = lipgloss.NewStyle().
			Background(lipgloss.Color("236")).
			Foreground(lipgloss.Color("252")).
			Bold(true)

	styleInputPrompt = lipgloss.NewStyle().
				Foreground(lipgloss.Color("34"))

	styleNarration = lipgloss.NewStyle().
			Foreground(lipgloss.Color("255"))

	styleStatus = lipgloss.NewStyle().
			Bold(true)

	styleStep = lipgloss.NewStyle().
			Foreground(lipgloss.Color("117"))

	styleDamage = lipgloss.NewStyle().
			Foreground(lipgloss.Color("203"))

	styleGain = lipgloss.NewStyle().
			Foreground(lipgloss.Color("114"))

	styleBanner = lipgloss.NewStyle().
			Foreground(lipgloss.Color("228")).
			Bold(true)

	styleSystem = lipgloss.NewStyle().
			Foreground(lipgloss.Color("243"))

	styleError = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))

	stylePlayerInput = lipgloss.NewStyle().
				Foreground(lipgloss.Color("34"))

	styleTrace = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))
)

// lineKind identifies the type of an output line for styling.
type lineKind int

const (
	kindNarration lineKind = iota
	kindStatus
	kindStep
	kindDamage
	kindGain
	kindBanner
	kindSystem
	kindError
	kindTrace
)

var (
	stepLine    = regexp.MustCompile(`^  \d+\. `)
	monsterLine = regexp.MustCompile(`^  .+ \d+/\d+ HP \|`)
	damageLine  = regexp.MustCompile(` (takes \d+ damage|dies)\.$`)
	gainLine    = regexp.MustCompile(`(gains|heals|You gain) \d+`)
)

// classifyLine determines what kind of output line this is.
func classifyLine(line string) lineKind {
	switch {
	case strings.HasPrefix(line, "[trace]"):
		return kindTrace
	case strings.HasPrefix(line, "[") && strings.HasSuffix(line, "]"):
		return kindSystem
	case strings.HasPrefix(line, "==="):
		return kindBanner
	case stepLine.MatchString(line):
		return kindStep
	case strings.HasPrefix(line, "Round "),
		strings.HasPrefix(line, "Floor "),
		monsterLine.MatchString(line):
		return kindStatus
	case strings.HasPrefix(line, "You can't"),
		strings.HasPrefix(line, "Which "):
		return kindError
	case damageLine.MatchString(line):
		return kindDamage
	case gainLine.MatchString(line):
		return kindGain
	default:
		return kindNarration
	}
}

// renderLineKind applies the style for a given lineKind.
func renderLineKind(line string, kind lineKind) string {
	switch kind {
	case kindStatus:
		return styleStatus.Render(line)
	case kindStep:
		return styleStep.Render(line)
	case kindDamage:
		return styleDamage.Render(line)
	case kindGain:
		return styleGain.Render(line)
	case kindBanner:
		return styleBanner.Render(line)
	case kindSystem:
		return styleSystem.Render(line)
	case kindError:
		return styleError.Render(line)
	case kindTrace:
		return styleTrace.Render(line)
	default:
		return styleNarration.Render(line)
	}
}

// styledSystemMsg renders a system message in gray with brackets.
func styledSystemMsg(text string) string {
	return styleSystem.Render("[" + text + "]")
}
