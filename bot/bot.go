// Package bot plays runs without a human, for smoke testing content and
// the engine. It picks uniformly among the legal steps.
package bot

import (
	"errors"
	"fmt"

	"github.com/nathoo/spirecore/engine"
)

// ErrStepLimit is returned when a run is still going after maxSteps.
var ErrStepLimit = errors.New("bot: step limit reached")

// Driver is the part of a game the bot needs. *engine.Game and
// *replay.Recorder both satisfy it.
type Driver interface {
	Steps() []engine.Step
	Choose(i int)
	Over() (engine.Outcome, bool)
}

// Random chooses steps from its own stream, so the bot's choices never
// shift the game's RNG.
type Random struct {
	RNG *engine.RNG
}

// New returns a bot seeded with seed.
func New(seed int64) *Random {
	return &Random{RNG: engine.NewRNG(seed)}
}

// Play chooses steps until the run ends or maxSteps choices were made.
// It returns the outcome and the number of choices. An engine panic is
// returned as an error carrying the step number.
func (b *Random) Play(d Driver, maxSteps int) (out engine.Outcome, n int, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("bot: step %d: %v", n+1, r)
		}
	}()

	for ; n < maxSteps; n++ {
		if out, over := d.Over(); over {
			return out, n, nil
		}
		steps := d.Steps()
		d.Choose(b.RNG.Intn(len(steps)))
	}
	if out, over := d.Over(); over {
		return out, n, nil
	}
	return out, n, fmt.Errorf("%w after %d steps", ErrStepLimit, n)
}
