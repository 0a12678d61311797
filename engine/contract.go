package engine

import (
	"fmt"
	"strings"
)

// Action is one atomic, already-decided mutation. It runs exactly once,
// when the run loop pops it, and may enqueue further actions.
type Action interface {
	Run(g *Game)
}

// ActionFunc adapts a function to Action. Name is used by the trace.
type ActionFunc struct {
	Name string
	Fn   func(g *Game)
}

// Run calls the wrapped function.
func (a ActionFunc) Run(g *Game) { a.Fn(g) }

func (a ActionFunc) String() string { return a.Name }

// GameState is one node of the control stack.
//
// Steps returns nil when the state resolves on its own; the run loop then
// calls Run, which must change the stack or enqueue actions. A non-nil
// result makes the state a decision point and the list must be non-empty.
type GameState interface {
	Steps(g *Game) []Step
	Run(g *Game)
}

// Terminal marks a state that ends the run. The run loop stops on it.
type Terminal interface {
	GameState
	Outcome() Outcome
}

// Step is one legal move at a decision point. Implementations are
// comparable values so drivers and tests can match them with ==.
//
// Run reports whether the issuing state should be popped once it returns.
type Step interface {
	Run(g *Game) bool
	Describe(g *Game) string
}

// PopFirst is implemented by steps whose issuing state must leave the
// stack before Run. For those steps the result of Run is ignored.
type PopFirst interface {
	PopFirst() bool
}

// Outcome is the end result of a run.
type Outcome int

const (
	Undecided Outcome = iota
	Victory
	Defeat
)

func (o Outcome) String() string {
	switch o {
	case Victory:
		return "victory"
	case Defeat:
		return "defeat"
	default:
		return "undecided"
	}
}

// describe names an action or state for the trace.
func describe(v any) string {
	if s, ok := v.(fmt.Stringer); ok {
		return s.String()
	}
	name := strings.TrimPrefix(fmt.Sprintf("%T", v), "*")
	if i := strings.LastIndex(name, "."); i >= 0 {
		name = name[i+1:]
	}
	return name
}
