// Package engine provides the Game orchestrator that wires the action
// queue, the state stack, and the draw pile into one deterministic run.
package engine

import (
	"fmt"
	"io"

	"github.com/charmbracelet/log"

	"github.com/nathoo/spirecore/engine/drawpile"
	"github.com/nathoo/spirecore/engine/queue"
	"github.com/nathoo/spirecore/types"
)

// MaxHand is the hand limit. Extra draws go to the discard pile.
const MaxHand = 10

// Options configures a new run.
type Options struct {
	Seed    int64
	Player  PlayerSetup
	Rewards RewardSetup
	Path    []Node
	Logger  *log.Logger // nil discards
	Trace   bool
}

// PlayerSetup is the starting character.
type PlayerSetup struct {
	Name        string
	HP          int
	Energy      int
	Gold        int
	PotionSlots int
	HandSize    int
	Deck        []string
	Relics      []string
	Potions     []string
}

// RewardSetup controls post-combat card offers.
type RewardSetup struct {
	Choices int
	Pool    []string
}

// Node is one entry of the run map.
type Node struct {
	Kind      types.NodeKind
	Encounter string
	Event     string
	Relic     string
	Cards     []Offer
	Potions   []Offer
}

// Offer is a priced shop item.
type Offer struct {
	ID    string
	Price int
}

// Relic is an owned relic instance.
type Relic struct {
	Class *RelicClass
}

// Game owns every piece of mutable run state. Actions, states and steps
// receive it and call back into its queue and stack operations.
type Game struct {
	Content *Content
	RNG     *RNG
	Log     *log.Logger

	Player   *Player
	Monsters []*Monster
	Gold     int
	Relics   []*Relic
	Potions  []*PotionClass // fixed slots, nil when empty
	Floor    int

	Deck      []CardID
	Hand      []CardID
	DrawPile  *drawpile.Pile[CardID]
	Discard   []CardID
	Exhausted []CardID

	opts   Options
	cards  CardArena
	queue  *queue.Queue[Action]
	stack  []GameState
	combat *combat

	steps  []Step
	issuer GameState

	outcome Outcome
	over    bool

	output []string
	trace  []TraceEntry
}

// New creates a run from content and options and pushes the root state.
// Unknown content ids panic.
func New(content *Content, opts Options) *Game {
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	handSize := opts.Player.HandSize
	if handSize <= 0 {
		handSize = 5
	}
	g := &Game{
		Content: content,
		RNG:     NewRNG(opts.Seed),
		Log:     logger,
		Player: &Player{
			Creature:  Creature{Name: opts.Player.Name, HP: opts.Player.HP, MaxHP: opts.Player.HP},
			MaxEnergy: opts.Player.Energy,
			HandSize:  handSize,
		},
		Gold:     opts.Player.Gold,
		Potions:  make([]*PotionClass, opts.Player.PotionSlots),
		DrawPile: drawpile.New[CardID](nil, nil),
		opts:     opts,
		queue:    queue.New[Action](),
	}
	for _, id := range opts.Player.Deck {
		g.Deck = append(g.Deck, g.cards.New(content.Card(id), 0))
	}
	for _, id := range opts.Player.Relics {
		g.Relics = append(g.Relics, &Relic{Class: content.Relic(id)})
	}
	for _, id := range opts.Player.Potions {
		g.obtainPotion(content.Potion(id))
	}
	g.PushState(&RunState{Path: opts.Path})
	return g
}

// Steps advances the game to the next decision point and returns its
// legal steps. It returns nil once the run is over.
func (g *Game) Steps() []Step {
	g.advance()
	if g.over {
		return nil
	}
	return g.steps
}

// RunStep executes one legal step and advances to the next decision point.
// Running a step that is not in the current legal list panics.
func (g *Game) RunStep(s Step) {
	steps := g.Steps()
	legal := false
	for _, x := range steps {
		if x == s {
			legal = true
			break
		}
	}
	if !legal {
		panic(fmt.Sprintf("engine: step %q is not legal here", s.Describe(g)))
	}

	issuer := g.issuer
	g.steps, g.issuer = nil, nil
	desc := s.Describe(g)
	g.record(TraceStep, desc)
	g.Log.Debug("step", "step", desc, "state", describe(issuer))

	// 1. Steps that leave before running.
	if pf, ok := s.(PopFirst); ok && pf.PopFirst() {
		g.removeState(issuer)
		s.Run(g)
	} else if s.Run(g) {
		// 2. Otherwise the step decides after running.
		g.removeState(issuer)
	}

	// 3. Drain to the next decision point.
	g.advance()
}

// Choose runs the i-th legal step. An index out of range panics.
func (g *Game) Choose(i int) {
	steps := g.Steps()
	if i < 0 || i >= len(steps) {
		panic(fmt.Sprintf("engine: choice %d out of range [0,%d)", i, len(steps)))
	}
	g.RunStep(steps[i])
}

// Over reports the outcome once a terminal state is reached.
func (g *Game) Over() (Outcome, bool) {
	g.advance()
	return g.outcome, g.over
}

// advance is the run loop: drain actions, then let the top state either
// decide (expose steps) or transition on its own.
func (g *Game) advance() {
	if g.over || g.steps != nil {
		return
	}
	for {
		if a, ok := g.queue.PopNext(); ok {
			g.record(TraceAction, describe(a))
			a.Run(g)
			continue
		}

		top := g.Top()
		if top == nil {
			panic("engine: state stack empty with nothing queued")
		}
		if t, ok := top.(Terminal); ok {
			g.outcome, g.over = t.Outcome(), true
			g.Log.Info("run over", "outcome", g.outcome, "floor", g.Floor)
			return
		}

		steps := top.Steps(g)
		if steps == nil {
			depth := len(g.stack)
			g.record(TraceState, describe(top))
			top.Run(g)
			if g.queue.Len() == 0 && len(g.stack) == depth && g.Top() == top {
				panic(fmt.Sprintf("engine: state %s made no progress", describe(top)))
			}
			continue
		}
		if len(steps) == 0 {
			panic(fmt.Sprintf("engine: state %s has no legal steps", describe(top)))
		}
		g.steps, g.issuer = steps, top
		return
	}
}

// PushNext schedules a to run before everything already queued.
func (g *Game) PushNext(a Action) { g.queue.PushNext(a) }

// PushLast schedules a to run after everything already queued.
func (g *Game) PushLast(a Action) { g.queue.PushLast(a) }

// PushNextAll schedules actions ahead of the queue, keeping their order.
func (g *Game) PushNextAll(as ...Action) {
	for i := len(as) - 1; i >= 0; i-- {
		g.queue.PushNext(as[i])
	}
}

// Pending returns the number of queued actions.
func (g *Game) Pending() int { return g.queue.Len() }

// PushState makes st the active state.
func (g *Game) PushState(st GameState) {
	g.stack = append(g.stack, st)
}

// PopState removes and returns the active state. An empty stack panics.
func (g *Game) PopState() GameState {
	n := len(g.stack)
	if n == 0 {
		panic("engine: pop from empty state stack")
	}
	st := g.stack[n-1]
	g.stack[n-1] = nil
	g.stack = g.stack[:n-1]
	return st
}

// ReplaceState swaps the active state for st.
func (g *Game) ReplaceState(st GameState) {
	g.PopState()
	g.PushState(st)
}

// Top returns the active state, or nil.
func (g *Game) Top() GameState {
	if len(g.stack) == 0 {
		return nil
	}
	return g.stack[len(g.stack)-1]
}

// Depth returns the number of states on the stack.
func (g *Game) Depth() int { return len(g.stack) }

// removeState drops st from wherever it sits on the stack.
func (g *Game) removeState(st GameState) {
	for i := len(g.stack) - 1; i >= 0; i-- {
		if g.stack[i] == st {
			copy(g.stack[i:], g.stack[i+1:])
			g.stack[len(g.stack)-1] = nil
			g.stack = g.stack[:len(g.stack)-1]
			return
		}
	}
	panic(fmt.Sprintf("engine: state %s is not on the stack", describe(st)))
}

// truncate unwinds the stack to depth n.
func (g *Game) truncate(n int) {
	for i := n; i < len(g.stack); i++ {
		g.stack[i] = nil
	}
	g.stack = g.stack[:n]
}

// Say appends a line to the output feed.
func (g *Game) Say(format string, args ...any) {
	g.output = append(g.output, fmt.Sprintf(format, args...))
}

// DrainOutput returns and clears the output feed.
func (g *Game) DrainOutput() []string {
	out := g.output
	g.output = nil
	return out
}

// Options returns the options the run was created with.
func (g *Game) Options() Options { return g.opts }

// HasRelic reports whether a relic with the given id is owned.
func (g *Game) HasRelic(id string) bool {
	for _, r := range g.Relics {
		if r.Class.ID == id {
			return true
		}
	}
	return false
}

// FreePotionSlots returns the number of empty potion slots.
func (g *Game) FreePotionSlots() int {
	n := 0
	for _, p := range g.Potions {
		if p == nil {
			n++
		}
	}
	return n
}

func (g *Game) obtainPotion(p *PotionClass) bool {
	for i, slot := range g.Potions {
		if slot == nil {
			g.Potions[i] = p
			return true
		}
	}
	return false
}
