package engine_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nathoo/spirecore/engine"
	"github.com/nathoo/spirecore/engine/enginetest"
	"github.com/nathoo/spirecore/types"
)

func runOf(nodes ...engine.Node) *engine.Game {
	opts := enginetest.Options(1, "", "strike", "defend", "wound")
	opts.Path = nodes
	return engine.New(enginetest.Content(), opts)
}

func descriptions(g *engine.Game) []string {
	var out []string
	for _, s := range g.Steps() {
		out = append(out, s.Describe(g))
	}
	return out
}

func TestRun_EmptyPathWins(t *testing.T) {
	g := runOf()
	outcome, over := g.Over()
	assert.True(t, over)
	assert.Equal(t, engine.Victory, outcome)
}

func TestEvent_OptionsFilteredByCondition(t *testing.T) {
	g := runOf(engine.Node{Kind: types.NodeEvent, Event: "shrine"})
	assert.Equal(t, []string{"Pray", "Leave"}, descriptions(g))
	assert.Equal(t, 1, g.Floor)
	assert.Equal(t, []string{"Shrine", "A golden shrine."}, g.DrainOutput())

	g.Choose(0)
	assert.Equal(t, 100, g.Gold)
	_, over := g.Over()
	assert.True(t, over)
}

func TestEvent_ConditionalOption(t *testing.T) {
	opts := enginetest.Options(1, "", "strike")
	opts.Player.Gold = 50
	opts.Path = []engine.Node{{Kind: types.NodeEvent, Event: "shrine"}}
	g := engine.New(enginetest.Content(), opts)

	require.Equal(t, []string{"Pray", "Desecrate", "Leave"}, descriptions(g))
	g.Choose(1)
	assert.Equal(t, 75, g.Player.HP)
}

func TestCampfire_Rest(t *testing.T) {
	g := runOf(engine.Node{Kind: types.NodeCampfire}, engine.Node{Kind: types.NodeCampfire})
	g.Player.HP = 40

	require.Equal(t, []string{"Rest (heal 24)", "Smith"}, descriptions(g))
	g.Choose(0)
	assert.Equal(t, 64, g.Player.HP)
	assert.Equal(t, 2, g.Floor, "the next node is already up")
}

func TestCampfire_SmithAndBack(t *testing.T) {
	g := runOf(engine.Node{Kind: types.NodeCampfire})

	g.Choose(1)
	require.IsType(t, &engine.ChooseUpgrade{}, g.Top())
	assert.Equal(t, []string{"Upgrade Strike", "Upgrade Defend", "Back"}, descriptions(g))

	g.RunStep(engine.BackStep{})
	require.IsType(t, &engine.Campfire{}, g.Top())

	g.Choose(1)
	g.Choose(0)
	assert.Equal(t, "Strike+", g.CardName(g.Deck[0]))
	_, over := g.Over()
	assert.True(t, over, "upgrading uses up the campfire")
}

func TestCampfire_NothingToUpgrade(t *testing.T) {
	opts := enginetest.Options(1, "", "wound")
	opts.Path = []engine.Node{{Kind: types.NodeCampfire}}
	g := engine.New(enginetest.Content(), opts)
	assert.Equal(t, []engine.Step{engine.RestStep{}}, g.Steps())
}

func TestShop_BuyAndLeave(t *testing.T) {
	opts := enginetest.Options(1, "", "strike")
	opts.Player.Gold = 100
	opts.Player.PotionSlots = 1
	opts.Path = []engine.Node{{
		Kind:    types.NodeShop,
		Cards:   []engine.Offer{{ID: "bash", Price: 60}, {ID: "cleave", Price: 50}},
		Potions: []engine.Offer{{ID: "fire_potion", Price: 30}},
	}}
	g := engine.New(enginetest.Content(), opts)

	require.Equal(t, []string{
		"Buy Bash (60 gold)", "Buy Cleave (50 gold)", "Buy Fire Potion (30 gold)", "Leave",
	}, descriptions(g))

	g.Choose(0)
	assert.Equal(t, 40, g.Gold)
	assert.Len(t, g.Deck, 2)
	assert.Equal(t, []string{"Buy Fire Potion (30 gold)", "Leave"}, descriptions(g), "sold and unaffordable offers drop out")

	g.Choose(0)
	assert.Equal(t, 10, g.Gold)
	assert.Equal(t, 0, g.FreePotionSlots())
	assert.Equal(t, []string{"Leave"}, descriptions(g))

	g.RunStep(engine.LeaveStep{})
	_, over := g.Over()
	assert.True(t, over)
}

func TestTreasure(t *testing.T) {
	g := runOf(engine.Node{Kind: types.NodeTreasure, Relic: "anchor"})
	assert.Equal(t, []string{"Take Anchor", "Skip"}, descriptions(g))
	g.Choose(0)
	assert.True(t, g.HasRelic("anchor"))

	g = runOf(engine.Node{Kind: types.NodeTreasure, Relic: "anchor"})
	g.RunStep(engine.SkipStep{})
	assert.Empty(t, g.Relics)
}

func TestAddCard_OutsideCombatGoesToDeck(t *testing.T) {
	g := runOf(engine.Node{Kind: types.NodeEvent, Event: "shrine"})
	g.Steps()
	g.PushLast(engine.AddCardAction{Card: "strike", Pile: types.PileHand})
	g.RunStep(engine.EventOptionStep{Event: g.Content.Event("shrine"), Option: 2})
	assert.Len(t, g.Deck, 4)
	assert.Empty(t, g.Hand)
}

func TestUnknownNode_Panics(t *testing.T) {
	g := runOf(engine.Node{Kind: "boss"})
	assert.PanicsWithValue(t, `engine: unknown node kind "boss"`, func() { g.Steps() })
}
