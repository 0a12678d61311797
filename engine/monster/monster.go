// Package monster implements data-driven monster behavior: a move table
// with a weighted or cyclic pattern and an optional opening move.
package monster

import (
	"fmt"

	"github.com/nathoo/spirecore/engine"
	"github.com/nathoo/spirecore/types"
)

// Move is one compiled entry of a move table.
type Move struct {
	Def types.MoveDef
	Run engine.Effect
}

// Behavior picks moves from a table. One Behavior serves one monster
// for one combat.
type Behavior struct {
	def     types.MonsterDef
	moves   []Move
	current int
	history []int
}

// New returns a behavior over the given moves. moves must be in the
// order of def.Moves.
func New(def types.MonsterDef, moves []Move) *Behavior {
	return &Behavior{def: def, moves: moves, current: -1}
}

// RollIntent picks the next move.
func (b *Behavior) RollIntent(g *engine.Game, m *engine.Monster) {
	if len(b.moves) == 0 {
		return
	}
	switch {
	case len(b.history) == 0 && b.def.First != "" && b.index(b.def.First) >= 0:
		b.current = b.index(b.def.First)
	case b.def.Pattern == "cycle":
		b.current = (b.current + 1) % len(b.moves)
	default:
		b.current = b.weighted(g.RNG)
	}
	b.history = append(b.history, b.current)
}

// weighted selects by weight, never a third time in a row.
func (b *Behavior) weighted(rng *engine.RNG) int {
	var idx, weights []int
	n := len(b.history)
	for i, mv := range b.moves {
		if n >= 2 && b.history[n-1] == i && b.history[n-2] == i && len(b.moves) > 1 {
			continue
		}
		w := mv.Def.Weight
		if w <= 0 {
			w = 1
		}
		idx = append(idx, i)
		weights = append(weights, w)
	}
	return idx[rng.WeightedSelect(weights)]
}

// TakeTurn enqueues the current move.
func (b *Behavior) TakeTurn(g *engine.Game, m *engine.Monster) {
	if b.current < 0 {
		return
	}
	mv := b.moves[b.current]
	g.Say("%s uses %s.", g.Label(m.Ref()), mv.Def.ID)
	if mv.Run != nil {
		mv.Run(g, engine.EffectContext{Source: m.Ref(), Target: engine.PlayerRef, Card: engine.NoCard})
	}
}

// Intent describes the current move.
func (b *Behavior) Intent(g *engine.Game, m *engine.Monster) string {
	if b.current < 0 {
		return "unknown"
	}
	d := b.moves[b.current].Def
	return fmt.Sprintf("%s (%s)", d.Intent, d.ID)
}

// Current returns the id of the rolled move, or "".
func (b *Behavior) Current() string {
	if b.current < 0 {
		return ""
	}
	return b.moves[b.current].Def.ID
}

func (b *Behavior) index(id string) int {
	for i, mv := range b.moves {
		if mv.Def.ID == id {
			return i
		}
	}
	return -1
}
