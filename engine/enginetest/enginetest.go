// Package enginetest provides a small fixed content set and helpers for
// driving a Game in tests.
package enginetest

import (
	"fmt"

	"github.com/nathoo/spirecore/engine"
	"github.com/nathoo/spirecore/types"
)

// Content returns a fresh copy of the test content.
func Content() *engine.Content {
	c := engine.NewContent()
	c.Game = types.GameDef{Title: "Test", Version: "1"}

	card := func(def types.CardDef, play engine.Effect) {
		if def.Name == "" {
			def.Name = def.ID
		}
		c.Cards[def.ID] = &engine.CardClass{CardDef: def, Play: play}
	}
	card(types.CardDef{ID: "strike", Name: "Strike", Type: types.Attack, Cost: 1, UpgradedCost: -1, Target: types.TargetEnemy},
		func(g *engine.Game, ctx engine.EffectContext) {
			g.PushLast(engine.DamageAction{Source: ctx.Source, Target: ctx.Target, Amount: 6 + 3*ctx.Upgrades})
		})
	card(types.CardDef{ID: "defend", Name: "Defend", Type: types.Skill, Cost: 1, UpgradedCost: -1, Target: types.TargetSelf},
		func(g *engine.Game, ctx engine.EffectContext) {
			g.PushLast(engine.BlockAction{Target: ctx.Source, Amount: 5 + 3*ctx.Upgrades})
		})
	card(types.CardDef{ID: "bash", Name: "Bash", Type: types.Attack, Cost: 2, UpgradedCost: -1, Target: types.TargetEnemy},
		func(g *engine.Game, ctx engine.EffectContext) {
			g.PushLast(engine.DamageAction{Source: ctx.Source, Target: ctx.Target, Amount: 8})
			g.PushLast(engine.ApplyStatusAction{Target: ctx.Target, Status: types.Vulnerable, Amount: 2})
		})
	card(types.CardDef{ID: "cleave", Name: "Cleave", Type: types.Attack, Cost: 1, UpgradedCost: -1, Target: types.TargetAllEnemies},
		func(g *engine.Game, ctx engine.EffectContext) {
			g.PushLast(engine.DamageAllAction{Source: ctx.Source, Amount: 8})
		})
	card(types.CardDef{ID: "inflame", Name: "Inflame", Type: types.Power, Cost: 1, UpgradedCost: -1, Target: types.TargetSelf},
		func(g *engine.Game, ctx engine.EffectContext) {
			g.PushLast(engine.ApplyStatusAction{Target: ctx.Source, Status: types.Strength, Amount: 2})
		})
	card(types.CardDef{ID: "wound", Name: "Wound", Type: types.StatusCard, Cost: 0, UpgradedCost: -1, Unplayable: true}, nil)

	c.Monsters["dummy"] = &engine.MonsterClass{
		ID: "dummy", Name: "Dummy", MinHP: 20, MaxHP: 20,
		NewBehavior: func() engine.MonsterBehavior { return Idle{} },
	}
	c.Monsters["brute"] = &engine.MonsterClass{
		ID: "brute", Name: "Brute", MinHP: 30, MaxHP: 30,
		NewBehavior: func() engine.MonsterBehavior { return &Hitter{Damage: 10} },
	}
	c.Encounters["dummy"] = &engine.EncounterClass{ID: "dummy", Monsters: []string{"dummy"}, Gold: 10}
	c.Encounters["pair"] = &engine.EncounterClass{ID: "pair", Monsters: []string{"dummy", "dummy"}}
	c.Encounters["brute"] = &engine.EncounterClass{ID: "brute", Monsters: []string{"brute"}}

	c.Relics["burning_blood"] = &engine.RelicClass{
		ID: "burning_blood", Name: "Burning Blood",
		Hooks: map[types.Hook]engine.Effect{
			types.HookCombatFinish: func(g *engine.Game, ctx engine.EffectContext) {
				g.PushLast(engine.HealAction{Target: engine.PlayerRef, Amount: 6})
			},
		},
	}
	c.Relics["anchor"] = &engine.RelicClass{
		ID: "anchor", Name: "Anchor",
		Hooks: map[types.Hook]engine.Effect{
			types.HookPreCombat: func(g *engine.Game, ctx engine.EffectContext) {
				g.PushLast(engine.BlockAction{Target: engine.PlayerRef, Amount: 10, Raw: true})
			},
		},
	}
	c.Potions["block_potion"] = &engine.PotionClass{
		ID: "block_potion", Name: "Block Potion", Target: types.TargetSelf,
		Use: func(g *engine.Game, ctx engine.EffectContext) {
			g.PushLast(engine.BlockAction{Target: engine.PlayerRef, Amount: 12, Raw: true})
		},
	}
	c.Potions["fire_potion"] = &engine.PotionClass{
		ID: "fire_potion", Name: "Fire Potion", Target: types.TargetEnemy,
		Use: func(g *engine.Game, ctx engine.EffectContext) {
			g.PushLast(engine.LoseHPAction{Target: ctx.Target, Amount: 20})
		},
	}
	c.Events["shrine"] = &engine.EventClass{
		ID: "shrine", Name: "Shrine", Text: "A golden shrine.",
		Options: []engine.EventOption{
			{Text: "Pray", Choose: func(g *engine.Game, ctx engine.EffectContext) {
				g.PushLast(engine.GainGoldAction{Amount: 100})
			}},
			{Text: "Desecrate", Available: func(g *engine.Game) bool { return g.Gold >= 50 },
				Choose: func(g *engine.Game, ctx engine.EffectContext) {
					g.PushLast(engine.LoseHPAction{Target: engine.PlayerRef, Amount: 5})
				}},
			{Text: "Leave"},
		},
	}
	return c
}

// Idle never acts.
type Idle struct{}

func (Idle) RollIntent(*engine.Game, *engine.Monster) {}
func (Idle) TakeTurn(*engine.Game, *engine.Monster) {}
func (Idle) Intent(*engine.Game, *engine.Monster) string { return "idle" }

// Hitter attacks the player every turn.
type Hitter struct {
	Damage int
	Turns  int
}

func (h *Hitter) RollIntent(*engine.Game, *engine.Monster) {}

func (h *Hitter) TakeTurn(g *engine.Game, m *engine.Monster) {
	h.Turns++
	g.PushLast(engine.DamageAction{Source: m.Ref(), Target: engine.PlayerRef, Amount: h.Damage})
}

func (h *Hitter) Intent(*engine.Game, *engine.Monster) string {
	return fmt.Sprintf("attack %d", h.Damage)
}

// Options returns a run whose only node is the given encounter.
func Options(seed int64, encounter string, deck ...string) engine.Options {
	return engine.Options{
		Seed: seed,
		Player: engine.PlayerSetup{
			Name: "Hero", HP: 80, Energy: 3, PotionSlots: 2, HandSize: 5, Deck: deck,
		},
		Path: []engine.Node{{Kind: types.NodeCombat, Encounter: encounter}},
	}
}

// Combat starts a one-fight run and advances to the first decision.
func Combat(seed int64, encounter string, deck ...string) *engine.Game {
	g := engine.New(Content(), Options(seed, encounter, deck...))
	g.Steps()
	return g
}

// InHand returns the first card in hand of the given class.
func InHand(g *engine.Game, class string) (engine.CardID, bool) {
	for _, id := range g.Hand {
		if g.Card(id).Class.ID == class {
			return id, true
		}
	}
	return engine.NoCard, false
}

// Play plays the first card of a class from hand on target. It panics if
// no such step is legal.
func Play(g *engine.Game, class string, target engine.CreatureRef) {
	for _, s := range g.Steps() {
		if p, ok := s.(engine.PlayCardStep); ok && p.Target == target && g.Card(p.Card).Class.ID == class {
			g.RunStep(s)
			return
		}
	}
	panic(fmt.Sprintf("enginetest: no legal play of %s on %d", class, target))
}

// EndTurn runs the end-turn step.
func EndTurn(g *engine.Game) { g.RunStep(engine.EndTurnStep{}) }
