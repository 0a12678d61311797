package engine

import (
	"fmt"

	"github.com/nathoo/spirecore/types"
)

// RunState is the root of the stack. Each time it surfaces it pushes the
// next map node; past the last node the run is won.
type RunState struct {
	Path []Node
	next int
}

func (s *RunState) Steps(*Game) []Step { return nil }

func (s *RunState) Run(g *Game) {
	if s.next >= len(s.Path) {
		g.ReplaceState(&RunVictory{})
		return
	}
	n := s.Path[s.next]
	s.next++
	g.Floor = s.next
	g.Log.Debug("node", "floor", g.Floor, "kind", n.Kind)

	switch n.Kind {
	case types.NodeCombat:
		g.PushState(&CombatStart{Encounter: g.Content.Encounter(n.Encounter)})
	case types.NodeCampfire:
		g.Say("You rest at a campfire.")
		g.PushState(&Campfire{})
	case types.NodeEvent:
		ev := g.Content.Event(n.Event)
		g.Say("%s", ev.Name)
		if ev.Text != "" {
			g.Say("%s", ev.Text)
		}
		g.PushState(&EventState{Event: ev})
	case types.NodeShop:
		g.Say("You enter a shop.")
		g.PushState(&Shop{
			Cards:       n.Cards,
			Potions:     n.Potions,
			soldCards:   make([]bool, len(n.Cards)),
			soldPotions: make([]bool, len(n.Potions)),
		})
	case types.NodeTreasure:
		g.Say("You find a chest.")
		g.PushState(&Treasure{Relic: g.Content.Relic(n.Relic)})
	default:
		panic(fmt.Sprintf("engine: unknown node kind %q", n.Kind))
	}
}

// RunVictory ends the run in a win.
type RunVictory struct{}

func (s *RunVictory) Steps(*Game) []Step { return nil }
func (s *RunVictory) Run(*Game) { panic("engine: run is over") }
func (s *RunVictory) Outcome() Outcome { return Victory }

// Campfire offers a rest or an upgrade. It pops itself once used.
type Campfire struct {
	done bool
}

func (s *Campfire) Steps(g *Game) []Step {
	if s.done {
		return nil
	}
	steps := []Step{RestStep{}}
	if len(g.Upgradable()) > 0 {
		steps = append(steps, SmithStep{Fire: s})
	}
	return steps
}

func (s *Campfire) Run(g *Game) { g.PopState() }

// Upgradable returns the deck cards that can still be upgraded.
func (g *Game) Upgradable() []CardID {
	var out []CardID
	for _, id := range g.Deck {
		c := g.Card(id)
		if c.Class.Upgradable(c.Upgrades) {
			out = append(out, id)
		}
	}
	return out
}

// RestHeal is the HP a rest restores.
func (g *Game) RestHeal() int { return g.Player.MaxHP * 30 / 100 }

// RestStep heals. The campfire leaves the stack before the heal is queued.
type RestStep struct{}

func (RestStep) PopFirst() bool { return true }

func (RestStep) Run(g *Game) bool {
	g.PushLast(HealAction{Target: PlayerRef, Amount: g.RestHeal()})
	return false
}

func (RestStep) Describe(g *Game) string { return fmt.Sprintf("Rest (heal %d)", g.RestHeal()) }

// SmithStep opens the upgrade choice.
type SmithStep struct{ Fire *Campfire }

func (s SmithStep) Run(g *Game) bool {
	g.PushState(&ChooseUpgrade{Fire: s.Fire})
	return false
}

func (SmithStep) Describe(*Game) string { return "Smith" }

// ChooseUpgrade is the nested card choice under a campfire.
type ChooseUpgrade struct {
	Fire *Campfire
}

func (s *ChooseUpgrade) Steps(g *Game) []Step {
	var steps []Step
	for _, id := range g.Upgradable() {
		steps = append(steps, UpgradeStep{Card: id, Fire: s.Fire})
	}
	return append(steps, BackStep{})
}

func (s *ChooseUpgrade) Run(*Game) {
	panic("engine: upgrade choice has no automatic transition")
}

// UpgradeStep upgrades one deck card and uses up the campfire.
type UpgradeStep struct {
	Card CardID
	Fire *Campfire
}

func (s UpgradeStep) Run(g *Game) bool {
	g.PushLast(UpgradeCardAction{Card: s.Card})
	s.Fire.done = true
	return true
}

func (s UpgradeStep) Describe(g *Game) string { return "Upgrade " + g.CardName(s.Card) }

// BackStep returns to the enclosing choice.
type BackStep struct{}

func (BackStep) Run(*Game) bool { return true }
func (BackStep) Describe(*Game) string { return "Back" }

// Treasure offers one relic.
type Treasure struct {
	Relic *RelicClass
}

func (s *Treasure) Steps(*Game) []Step {
	return []Step{TakeRelicStep{Relic: s.Relic.ID}, SkipStep{}}
}

func (s *Treasure) Run(*Game) { panic("engine: treasure has no automatic transition") }

// TakeRelicStep takes the chest's relic.
type TakeRelicStep struct{ Relic string }

func (s TakeRelicStep) Run(g *Game) bool {
	g.PushLast(ObtainRelicAction{Relic: s.Relic})
	return true
}

func (s TakeRelicStep) Describe(g *Game) string { return "Take " + g.Content.Relic(s.Relic).Name }

// Shop sells priced cards and potions until the player leaves.
type Shop struct {
	Cards   []Offer
	Potions []Offer

	soldCards   []bool
	soldPotions []bool
}

func (s *Shop) Steps(g *Game) []Step {
	var steps []Step
	for i, o := range s.Cards {
		if !s.soldCards[i] && g.Gold >= o.Price {
			steps = append(steps, BuyCardStep{Shop: s, Index: i})
		}
	}
	if g.FreePotionSlots() > 0 {
		for i, o := range s.Potions {
			if !s.soldPotions[i] && g.Gold >= o.Price {
				steps = append(steps, BuyPotionStep{Shop: s, Index: i})
			}
		}
	}
	return append(steps, LeaveStep{})
}

func (s *Shop) Run(*Game) { panic("engine: shop has no automatic transition") }

// BuyCardStep buys one card offer.
type BuyCardStep struct {
	Shop  *Shop
	Index int
}

func (s BuyCardStep) Run(g *Game) bool {
	o := s.Shop.Cards[s.Index]
	s.Shop.soldCards[s.Index] = true
	g.PushLast(GainGoldAction{Amount: -o.Price})
	g.PushLast(AddCardAction{Card: o.ID, Pile: types.PileDeck})
	return false
}

func (s BuyCardStep) Describe(g *Game) string {
	o := s.Shop.Cards[s.Index]
	return fmt.Sprintf("Buy %s (%d gold)", g.Content.Card(o.ID).Name, o.Price)
}

// BuyPotionStep buys one potion offer.
type BuyPotionStep struct {
	Shop  *Shop
	Index int
}

func (s BuyPotionStep) Run(g *Game) bool {
	o := s.Shop.Potions[s.Index]
	s.Shop.soldPotions[s.Index] = true
	g.PushLast(GainGoldAction{Amount: -o.Price})
	g.PushLast(ObtainPotionAction{Potion: o.ID})
	return false
}

func (s BuyPotionStep) Describe(g *Game) string {
	o := s.Shop.Potions[s.Index]
	return fmt.Sprintf("Buy %s (%d gold)", g.Content.Potion(o.ID).Name, o.Price)
}

// LeaveStep leaves a shop or an event with nothing left to choose.
type LeaveStep struct{}

func (LeaveStep) Run(*Game) bool { return true }
func (LeaveStep) Describe(*Game) string { return "Leave" }

// EventState offers the event options whose conditions hold.
type EventState struct {
	Event *EventClass
}

func (s *EventState) Steps(g *Game) []Step {
	var steps []Step
	for i, o := range s.Event.Options {
		if o.Available == nil || o.Available(g) {
			steps = append(steps, EventOptionStep{Event: s.Event, Option: i})
		}
	}
	if len(steps) == 0 {
		return []Step{LeaveStep{}}
	}
	return steps
}

func (s *EventState) Run(*Game) { panic("engine: event has no automatic transition") }

// EventOptionStep picks one event option.
type EventOptionStep struct {
	Event  *EventClass
	Option int
}

func (s EventOptionStep) Run(g *Game) bool {
	o := s.Event.Options[s.Option]
	if o.Choose != nil {
		choose := o.Choose
		g.PushLast(ActionFunc{Name: "EventOption", Fn: func(g *Game) {
			g.RunNext(func() { choose(g, EffectContext{Source: PlayerRef, Target: NoTarget, Card: NoCard}) })
		}})
	}
	return true
}

func (s EventOptionStep) Describe(*Game) string { return s.Event.Options[s.Option].Text }
