package engine_test

import (
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/require"

	"github.com/nathoo/spirecore/engine"
	"github.com/nathoo/spirecore/engine/enginetest"
)

// TestGolden_ScriptedCombat pins the exact order of actions, state
// transitions and steps for a short fight. Run with -update to rewrite.
func TestGolden_ScriptedCombat(t *testing.T) {
	opts := enginetest.Options(1, "dummy", strikes(5)...)
	opts.Trace = true
	g := engine.New(enginetest.Content(), opts)

	for i := 0; i < 3; i++ {
		enginetest.Play(g, "strike", 0)
	}
	enginetest.EndTurn(g)
	enginetest.Play(g, "strike", 0)

	outcome, over := g.Over()
	require.True(t, over)
	require.Equal(t, engine.Victory, outcome)

	gold := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	gold.Assert(t, "scripted_combat", []byte(engine.FormatTrace(g.Trace())))
}
