// Package replay records the choices made during a run and plays them
// back. A run is fully determined by its options and its choice list.
package replay

import (
	"encoding/json"
	"fmt"

	"github.com/nathoo/spirecore/engine"
)

// Record is the JSON-serializable replay format.
type Record struct {
	Version string `json:"version"`
	Game    string `json:"game"`
	RunID   string `json:"run_id"`
	Seed    int64  `json:"seed"`
	Choices []int  `json:"choices"`
}

// Save serializes a record to JSON bytes.
func Save(r *Record) ([]byte, error) {
	return json.MarshalIndent(r, "", "  ")
}

// Load deserializes JSON bytes into a Record.
func Load(data []byte) (*Record, error) {
	var r Record
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("replay: %w", err)
	}
	// Ensure the choice list is never nil after load.
	if r.Choices == nil {
		r.Choices = []int{}
	}
	return &r, nil
}

// Recorder drives a game and remembers every choice it passes on.
type Recorder struct {
	Game   *engine.Game
	Record Record
}

// NewRecorder starts an empty record for g.
func NewRecorder(g *engine.Game, runID string) *Recorder {
	return &Recorder{
		Game: g,
		Record: Record{
			Version: g.Content.Game.Version,
			Game:    g.Content.Game.Title,
			RunID:   runID,
			Seed:    g.Options().Seed,
			Choices: []int{},
		},
	}
}

// Steps returns the game's current legal steps.
func (r *Recorder) Steps() []engine.Step { return r.Game.Steps() }

// Over reports the game's outcome.
func (r *Recorder) Over() (engine.Outcome, bool) { return r.Game.Over() }

// Choose runs the i-th legal step and records it.
func (r *Recorder) Choose(i int) {
	r.Game.Choose(i)
	r.Record.Choices = append(r.Record.Choices, i)
}

// RunStep runs s and records its position in the legal list. A step
// that is not legal panics like Game.RunStep.
func (r *Recorder) RunStep(s engine.Step) {
	for i, x := range r.Game.Steps() {
		if x == s {
			r.Choose(i)
			return
		}
	}
	r.Game.RunStep(s)
}

// Replay applies a record's choices to a fresh game built from the same
// options. It stops at the first choice that does not fit.
func Replay(g *engine.Game, r *Record) error {
	if seed := g.Options().Seed; seed != r.Seed {
		return fmt.Errorf("replay: record seed %d, game seed %d", r.Seed, seed)
	}
	for n, c := range r.Choices {
		steps := g.Steps()
		if steps == nil {
			return fmt.Errorf("replay: choice %d: run already over", n+1)
		}
		if c < 0 || c >= len(steps) {
			return fmt.Errorf("replay: choice %d: index %d out of range [0,%d)", n+1, c, len(steps))
		}
		g.Choose(c)
	}
	return nil
}
