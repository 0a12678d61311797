package engine

import (
	"fmt"

	"github.com/nathoo/spirecore/types"
)

// EffectContext is what a content callback knows about its trigger.
type EffectContext struct {
	Source      CreatureRef
	Target      CreatureRef // chosen target, or NoTarget
	Card        CardID      // NoCard outside card play
	Upgrades    int
	TimesPlayed int
}

// Effect is a content callback. It is free to enqueue actions.
type Effect func(g *Game, ctx EffectContext)

// CardClass is a card definition plus its play callback.
type CardClass struct {
	types.CardDef
	Play     Effect
	Playable func(g *Game) bool // optional extra requirement
}

// CostAt returns the energy cost at the given upgrade level.
func (c *CardClass) CostAt(upgrades int) int {
	if upgrades > 0 && c.UpgradedCost >= 0 {
		return c.UpgradedCost
	}
	return c.Cost
}

// Upgradable reports whether a card at the given level can be upgraded.
func (c *CardClass) Upgradable(upgrades int) bool {
	if c.Type == types.StatusCard || c.Type == types.Curse {
		return false
	}
	max := c.MaxUpgrades
	if max == 0 {
		max = 1
	}
	return upgrades < max
}

// MonsterBehavior is implemented per monster by content code.
type MonsterBehavior interface {
	// RollIntent picks the next move from the RNG and combat state.
	RollIntent(g *Game, m *Monster)
	// TakeTurn enqueues the actions of the current move.
	TakeTurn(g *Game, m *Monster)
	// Intent describes the current move for display.
	Intent(g *Game, m *Monster) string
}

// MonsterClass is a monster definition plus a behavior factory.
type MonsterClass struct {
	ID          string
	Name        string
	MinHP       int
	MaxHP       int
	NewBehavior func() MonsterBehavior
	Start       Effect // optional, runs at combat start with the monster as source
}

// EncounterClass lists the monsters of one fight.
type EncounterClass struct {
	ID       string
	Monsters []string
	Gold     int
}

// RelicClass maps hook points to callbacks.
type RelicClass struct {
	ID    string
	Name  string
	Text  string
	Hooks map[types.Hook]Effect
}

// PotionClass is a single-use item.
type PotionClass struct {
	ID     string
	Name   string
	Target types.TargetKind
	Use    Effect
}

// EventOption is one choice of an event.
type EventOption struct {
	Text      string
	Available func(g *Game) bool // nil means always
	Choose    Effect             // nil means no effect
}

// EventClass is a non-combat encounter.
type EventClass struct {
	ID      string
	Name    string
	Text    string
	Options []EventOption
}

// Content holds every definition the engine can instantiate.
type Content struct {
	Game       types.GameDef
	Cards      map[string]*CardClass
	Monsters   map[string]*MonsterClass
	Encounters map[string]*EncounterClass
	Relics     map[string]*RelicClass
	Potions    map[string]*PotionClass
	Events     map[string]*EventClass
}

// NewContent returns an empty registry.
func NewContent() *Content {
	return &Content{
		Cards:      map[string]*CardClass{},
		Monsters:   map[string]*MonsterClass{},
		Encounters: map[string]*EncounterClass{},
		Relics:     map[string]*RelicClass{},
		Potions:    map[string]*PotionClass{},
		Events:     map[string]*EventClass{},
	}
}

// Card returns the card class with the given ID. Unknown IDs panic.
func (c *Content) Card(id string) *CardClass {
	if cc, ok := c.Cards[id]; ok {
		return cc
	}
	panic(fmt.Sprintf("engine: unknown card %q", id))
}

// Monster returns the monster class with the given ID. Unknown IDs panic.
func (c *Content) Monster(id string) *MonsterClass {
	if mc, ok := c.Monsters[id]; ok {
		return mc
	}
	panic(fmt.Sprintf("engine: unknown monster %q", id))
}

// Encounter returns the encounter with the given ID. Unknown IDs panic.
func (c *Content) Encounter(id string) *EncounterClass {
	if ec, ok := c.Encounters[id]; ok {
		return ec
	}
	panic(fmt.Sprintf("engine: unknown encounter %q", id))
}

// Relic returns the relic class with the given ID. Unknown IDs panic.
func (c *Content) Relic(id string) *RelicClass {
	if rc, ok := c.Relics[id]; ok {
		return rc
	}
	panic(fmt.Sprintf("engine: unknown relic %q", id))
}

// Potion returns the potion class with the given ID. Unknown IDs panic.
func (c *Content) Potion(id string) *PotionClass {
	if pc, ok := c.Potions[id]; ok {
		return pc
	}
	panic(fmt.Sprintf("engine: unknown potion %q", id))
}

// Event returns the event with the given ID. Unknown IDs panic.
func (c *Content) Event(id string) *EventClass {
	if ec, ok := c.Events[id]; ok {
		return ec
	}
	panic(fmt.Sprintf("engine: unknown event %q", id))
}
