package cli

import (
	"fmt"
	"os"
	"slices"
	"strings"

	"github.com/nathoo/spirecore/engine"
	"github.com/nathoo/spirecore/engine/parser"
	"github.com/nathoo/spirecore/engine/replay"
	"github.com/nathoo/spirecore/engine/resolve"
	"github.com/nathoo/spirecore/types"
)

// Reply is what a session produces for one line of input.
type Reply struct {
	Lines  []string
	System bool // meta-command output
	Quit   bool
}

// Session turns input lines into steps and renders the game between
// decisions. Both the plain CLI and the TUI drive a run through one.
type Session struct {
	Rec   *replay.Recorder
	Trace bool // show trace entries after each command

	lastCmd   string
	traceMark int
}

// NewSession records every choice made on g under runID.
func NewSession(g *engine.Game, runID string) *Session {
	return &Session{Rec: replay.NewRecorder(g, runID)}
}

// Game returns the running game.
func (s *Session) Game() *engine.Game { return s.Rec.Game }

// Start returns the banner, the intro and the first decision.
func (s *Session) Start() []string {
	def := s.Game().Content.Game
	lines := []string{fmt.Sprintf("%s v%s by %s", def.Title, def.Version, def.Author), ""}
	if def.Intro != "" {
		lines = append(lines, def.Intro, "")
	}
	return append(lines, s.Report()...)
}

// Report advances to the next decision and renders the output feed,
// the status and the numbered steps.
func (s *Session) Report() []string {
	g := s.Game()
	steps := g.Steps()
	lines := g.DrainOutput()
	if s.Trace {
		lines = append(lines, s.traceLines()...)
	}
	s.traceMark = len(g.Trace())

	if out, over := g.Over(); over {
		return append(lines, fmt.Sprintf("=== %s on floor %d ===", strings.ToUpper(out.String()), g.Floor))
	}
	lines = append(lines, Status(g)...)
	for i, st := range steps {
		lines = append(lines, fmt.Sprintf("  %d. %s", i+1, st.Describe(g)))
	}
	return lines
}

// Handle processes one input line.
func (s *Session) Handle(input string) Reply {
	input = strings.TrimSpace(input)
	if input == "" {
		return Reply{}
	}
	if strings.HasPrefix(input, "/") {
		return s.handleMeta(input)
	}

	// "again" / "g" repeats the last game command.
	lower := strings.ToLower(input)
	if lower == "again" || lower == "g" {
		if s.lastCmd == "" {
			return Reply{Lines: []string{"Nothing to repeat."}, System: true}
		}
		input = s.lastCmd
	} else {
		s.lastCmd = input
	}

	g := s.Game()
	if _, over := g.Over(); over {
		return Reply{Lines: []string{"The run is over. Type /quit to exit."}, System: true}
	}
	step, err := resolve.Resolve(g, g.Steps(), parser.Parse(input))
	if err != nil {
		return Reply{Lines: []string{capitalize(err.Error()) + "."}}
	}
	s.Rec.RunStep(step)
	return Reply{Lines: s.Report()}
}

func (s *Session) handleMeta(input string) Reply {
	parts := strings.Fields(input)
	cmd := parts[0]
	var arg string
	if len(parts) > 1 {
		arg = parts[1]
	}

	switch cmd {
	case "/quit", "/exit":
		return Reply{Lines: []string{"Goodbye."}, System: true, Quit: true}

	case "/save":
		return Reply{Lines: s.cmdSave(arg), System: true}

	case "/help":
		return Reply{Lines: helpLines}

	case "/state":
		return Reply{Lines: s.cmdState(), System: true}

	case "/deck":
		return Reply{Lines: DeckLines(s.Game())}

	case "/trace":
		s.Trace = !s.Trace
		if s.Trace {
			return Reply{Lines: []string{"Trace output enabled."}, System: true}
		}
		return Reply{Lines: []string{"Trace output disabled."}, System: true}

	default:
		return Reply{Lines: []string{fmt.Sprintf("Unknown command: %s. Type /help for available commands.", cmd)}, System: true}
	}
}

var helpLines = []string{
	"System:",
	"  /save [file]   Write the replay of this run (default: replay.json)",
	"  /quit          Exit",
	"  /help          Show this help",
	"  /state         Debug: dump run state",
	"  /deck          List the master deck",
	"  /trace         Toggle trace output",
	"",
	"Game commands:",
	"  <number>                  Pick a listed step",
	"  play <card> [on <enemy>]  Play a card (p)",
	"  use <potion> [on <enemy>] Drink or throw a potion",
	"  end                       End your turn (e)",
	"  take <card|relic>         Take a reward",
	"  skip                      Skip a reward",
	"  rest / smith              Campfire actions",
	"  upgrade <card>            Pick a card to smith",
	"  buy <item>                Buy from a shop",
	"  leave / back              Leave a shop, back out of a menu",
	"  again (g)                 Repeat your last command",
}

func (s *Session) cmdSave(path string) []string {
	if path == "" {
		path = "replay.json"
	}
	data, err := replay.Save(&s.Rec.Record)
	if err != nil {
		return []string{fmt.Sprintf("Save failed: %v", err)}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return []string{fmt.Sprintf("Save failed: %v", err)}
	}
	return []string{fmt.Sprintf("Replay saved to %s (%d choices).", path, len(s.Rec.Record.Choices))}
}

func (s *Session) cmdState() []string {
	g := s.Game()
	out := []string{
		fmt.Sprintf("Run: %s (seed %d)", s.Rec.Record.RunID, s.Rec.Record.Seed),
		fmt.Sprintf("Floor: %d", g.Floor),
		fmt.Sprintf("State: %s (depth %d)", stateName(g.Top()), g.Depth()),
		fmt.Sprintf("Pending actions: %d", g.Pending()),
		fmt.Sprintf("RNG position: %d", g.RNG.Position()),
		fmt.Sprintf("Choices: %d", len(s.Rec.Record.Choices)),
	}
	if len(g.Relics) > 0 {
		var names []string
		for _, r := range g.Relics {
			names = append(names, r.Class.Name)
		}
		out = append(out, "Relics: "+strings.Join(names, ", "))
	}
	var potions []string
	for _, p := range g.Potions {
		if p != nil {
			potions = append(potions, p.Name)
		}
	}
	if len(potions) > 0 {
		out = append(out, "Potions: "+strings.Join(potions, ", "))
	}
	if g.InCombat() {
		out = append(out, fmt.Sprintf("Piles: draw %d, hand %d, discard %d, exhaust %d",
			g.DrawPile.Len(), len(g.Hand), len(g.Discard), len(g.Exhausted)))
	}
	return out
}

func (s *Session) traceLines() []string {
	var lines []string
	for _, e := range s.Game().Trace()[s.traceMark:] {
		lines = append(lines, "[trace] "+e.String())
	}
	return lines
}

// Status renders the player line and, in combat, one line per living
// monster.
func Status(g *engine.Game) []string {
	p := g.Player
	if !g.InCombat() {
		return []string{fmt.Sprintf("Floor %d | %s %d/%d HP | %d gold", g.Floor, p.Name, p.HP, p.MaxHP, g.Gold)}
	}
	lines := []string{fmt.Sprintf("Round %d | %s %d/%d HP | block %d | energy %d/%d | %d gold%s",
		g.Round(), p.Name, p.HP, p.MaxHP, p.Block, p.Energy, p.MaxEnergy, g.Gold, statuses(&p.Creature))}
	for _, ref := range g.Living() {
		m := g.Monsters[ref]
		lines = append(lines, fmt.Sprintf("  %s %d/%d HP | block %d | intends %s%s",
			g.Label(ref), m.HP, m.MaxHP, m.Block, g.Intent(m), statuses(&m.Creature)))
	}
	return lines
}

// DeckLines lists the master deck as "Name xN", sorted by name.
func DeckLines(g *engine.Game) []string {
	counts := map[string]int{}
	for _, id := range g.Deck {
		counts[g.CardName(id)]++
	}
	names := make([]string, 0, len(counts))
	for n := range counts {
		names = append(names, n)
	}
	slices.Sort(names)

	lines := []string{fmt.Sprintf("Deck (%d cards):", len(g.Deck))}
	for _, n := range names {
		lines = append(lines, fmt.Sprintf("  %s x%d", n, counts[n]))
	}
	return lines
}

func statuses(c *engine.Creature) string {
	var parts []string
	for s := types.Status(0); s < types.NumStatuses; s++ {
		if n := c.Has(s); n != 0 {
			parts = append(parts, fmt.Sprintf("%s %d", s, n))
		}
	}
	if len(parts) == 0 {
		return ""
	}
	return " | " + strings.Join(parts, ", ")
}

// stateName returns a state's type name without package or pointer.
func stateName(st engine.GameState) string {
	name := fmt.Sprintf("%T", st)
	return name[strings.LastIndex(name, ".")+1:]
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
