package engine

import (
	"fmt"
	"strings"

	"github.com/nathoo/spirecore/engine/drawpile"
	"github.com/nathoo/spirecore/types"
)

// combat is the per-fight bookkeeping. base is the stack depth the
// combat's states sit on; ending the fight unwinds to it.
type combat struct {
	encounter *EncounterClass
	base      int
	round     int
	over      bool
	temp      []CardID
}

// InCombat reports whether a fight is in progress and undecided.
func (g *Game) InCombat() bool { return g.combat != nil && !g.combat.over }

// Round returns the current combat round, or 0 outside combat.
func (g *Game) Round() int {
	if g.combat == nil {
		return 0
	}
	return g.combat.round
}

// killed is called after every death. It decides the combat in one place:
// pending actions are dropped and the stack unwinds to the combat base.
// A dead player always loses, even after the monsters are beaten.
func (g *Game) killed() {
	if !g.Player.Alive() {
		g.queue.Clear()
		if g.combat != nil {
			g.combat.over = true
			g.truncate(g.combat.base)
		}
		g.Log.Info("player defeated", "floor", g.Floor)
		g.PushState(&DefeatState{})
		return
	}
	if g.combat == nil || g.combat.over || len(g.Living()) > 0 {
		return
	}
	g.combat.over = true
	g.queue.Clear()
	g.truncate(g.combat.base)
	g.PushState(&CombatVictory{})
}

// Playable reports whether a card in hand can be played now.
func (g *Game) Playable(id CardID) bool {
	c := g.Card(id)
	if c.Class.Unplayable || c.Cost() > g.Player.Energy {
		return false
	}
	return c.Class.Playable == nil || c.Class.Playable(g)
}

// CombatStart sets up a fight and hands over to the first player turn.
type CombatStart struct {
	Encounter *EncounterClass
}

func (s *CombatStart) Steps(*Game) []Step { return nil }

func (s *CombatStart) Run(g *Game) {
	g.combat = &combat{encounter: s.Encounter, base: len(g.stack) - 1, round: 1}

	// 1. Monsters, with HP rolled from each class range.
	g.Monsters = nil
	var names []string
	for i, id := range s.Encounter.Monsters {
		mc := g.Content.Monster(id)
		hp := g.RNG.Range(mc.MinHP, mc.MaxHP)
		m := &Monster{Creature: Creature{Name: mc.Name, HP: hp, MaxHP: hp}, Class: mc, Index: i}
		if mc.NewBehavior != nil {
			m.Behavior = mc.NewBehavior()
		}
		g.Monsters = append(g.Monsters, m)
		names = append(names, mc.Name)
	}

	// 2. Player and piles. Innate cards form the priority group.
	g.Player.clearCombat()
	g.Player.Energy = 0
	g.Hand, g.Discard, g.Exhausted = nil, nil, nil
	var innate, normal []CardID
	for _, id := range g.Deck {
		c := g.Card(id)
		c.TimesPlayed = 0
		if c.Class.Innate {
			innate = append(innate, id)
		} else {
			normal = append(normal, id)
		}
	}
	g.DrawPile = drawpile.New(innate, normal)

	g.Say("Combat: %s.", strings.Join(names, ", "))
	g.Log.Info("combat start", "encounter", s.Encounter.ID, "floor", g.Floor)

	// 3. Monster openers, relics, then first intents.
	for _, m := range g.Monsters {
		if m.Class.Start == nil {
			continue
		}
		start, ref := m.Class.Start, m.Ref()
		g.PushLast(ActionFunc{Name: "MonsterStart", Fn: func(g *Game) {
			g.RunNext(func() { start(g, EffectContext{Source: ref, Target: ref, Card: NoCard}) })
		}})
	}
	g.PushLast(TriggerAction{Hook: types.HookPreCombat})
	for _, m := range g.Monsters {
		g.PushLast(RollIntentAction{Monster: m.Ref()})
	}
	g.ReplaceState(&PlayerTurnBegin{})
}

// PlayerTurnBegin refills energy and queues the draw. Block carries
// into the first turn so pre-combat block survives.
type PlayerTurnBegin struct{}

func (s *PlayerTurnBegin) Steps(*Game) []Step { return nil }

func (s *PlayerTurnBegin) Run(g *Game) {
	p := g.Player
	if g.combat.round > 1 {
		p.Block = 0
	}
	p.Energy = p.MaxEnergy
	g.Say("Round %d.", g.combat.round)
	if p.Status[types.Poison] > 0 {
		g.PushLast(PoisonAction{Target: PlayerRef})
	}
	g.PushLast(TriggerAction{Hook: types.HookTurnPreDraw})
	g.PushLast(DrawAction{N: p.HandSize})
	g.PushLast(TriggerAction{Hook: types.HookTurnPostDraw})
	g.ReplaceState(&PlayerTurn{})
}

// PlayerTurn is the combat decision point. Its steps are every playable
// card on every legal target in hand order, then potions, then end turn.
type PlayerTurn struct{}

func (s *PlayerTurn) Steps(g *Game) []Step {
	var steps []Step
	for _, id := range g.Hand {
		if !g.Playable(id) {
			continue
		}
		for _, t := range g.targets(g.Card(id).Class.Target) {
			steps = append(steps, PlayCardStep{Card: id, Target: t})
		}
	}
	for i, p := range g.Potions {
		if p == nil {
			continue
		}
		for _, t := range g.targets(p.Target) {
			steps = append(steps, UsePotionStep{Slot: i, Target: t})
		}
	}
	return append(steps, EndTurnStep{})
}

func (s *PlayerTurn) Run(*Game) {
	panic("engine: player turn has no automatic transition")
}

func (g *Game) targets(kind types.TargetKind) []CreatureRef {
	switch kind {
	case types.TargetEnemy:
		return g.Living()
	case types.TargetSelf:
		return []CreatureRef{PlayerRef}
	default:
		return []CreatureRef{NoTarget}
	}
}

// PlayCardStep plays one card from hand.
type PlayCardStep struct {
	Card   CardID
	Target CreatureRef
}

func (s PlayCardStep) Run(g *Game) bool {
	g.PushLast(PlayCardAction{Card: s.Card, Target: s.Target})
	return false
}

func (s PlayCardStep) Describe(g *Game) string {
	if s.Target >= 0 {
		return fmt.Sprintf("Play %s on %s", g.CardName(s.Card), g.Label(s.Target))
	}
	return "Play " + g.CardName(s.Card)
}

// UsePotionStep drinks the potion in a slot.
type UsePotionStep struct {
	Slot   int
	Target CreatureRef
}

func (s UsePotionStep) Run(g *Game) bool {
	p := g.Potions[s.Slot]
	if p == nil {
		panic(fmt.Sprintf("engine: potion slot %d is empty", s.Slot))
	}
	g.Potions[s.Slot] = nil
	g.PushLast(usePotionAction{Potion: p, Target: s.Target})
	return false
}

func (s UsePotionStep) Describe(g *Game) string {
	name := fmt.Sprintf("empty slot %d", s.Slot)
	if s.Slot >= 0 && s.Slot < len(g.Potions) && g.Potions[s.Slot] != nil {
		name = g.Potions[s.Slot].Name
	}
	if s.Target >= 0 {
		return fmt.Sprintf("Use %s on %s", name, g.Label(s.Target))
	}
	return "Use " + name
}

// EndTurnStep ends the player's turn.
type EndTurnStep struct{}

func (EndTurnStep) Run(g *Game) bool {
	g.PushState(&PlayerTurnEnd{})
	return true
}

func (EndTurnStep) Describe(*Game) string { return "End turn" }

// PlayerTurnEnd fires turn-end hooks and discards the hand.
type PlayerTurnEnd struct{}

func (s *PlayerTurnEnd) Steps(*Game) []Step { return nil }

func (s *PlayerTurnEnd) Run(g *Game) {
	g.PushLast(TriggerAction{Hook: types.HookTurnEnd})
	if n := g.Player.Status[types.Metallicize]; n > 0 {
		g.PushLast(BlockAction{Target: PlayerRef, Amount: n, Raw: true})
	}
	g.PushLast(DiscardHandAction{})
	g.ReplaceState(&MonsterTurn{})
}

// MonsterTurn lets each living monster act in index order. It queues one
// monster at a time so every move resolves before the next one starts.
type MonsterTurn struct {
	next int
}

func (s *MonsterTurn) Steps(*Game) []Step { return nil }

func (s *MonsterTurn) Run(g *Game) {
	for s.next < len(g.Monsters) {
		m := g.Monsters[s.next]
		s.next++
		if m.Alive() {
			g.PushLast(MonsterMoveAction{Monster: m.Ref()})
			return
		}
	}
	for _, ref := range g.Living() {
		g.PushLast(RollIntentAction{Monster: ref})
	}
	g.ReplaceState(&RoundEnd{})
}

// RoundEnd decays timed debuffs and starts the next round.
type RoundEnd struct{}

func (s *RoundEnd) Steps(*Game) []Step { return nil }

func (s *RoundEnd) Run(g *Game) {
	decay(&g.Player.Creature)
	for _, m := range g.Monsters {
		if m.Alive() {
			decay(&m.Creature)
		}
	}
	g.combat.round++
	g.ReplaceState(&PlayerTurnBegin{})
}

func decay(c *Creature) {
	for _, s := range []types.Status{types.Vulnerable, types.Weak, types.Frail} {
		if c.Status[s] > 0 {
			c.Status[s]--
		}
	}
}

// PoisonAction deals a creature its poison and decays it by one.
type PoisonAction struct{ Target CreatureRef }

func (a PoisonAction) Run(g *Game) {
	if !g.InCombat() {
		return
	}
	c := g.Creature(a.Target)
	n := c.Status[types.Poison]
	if n <= 0 || !c.Alive() {
		return
	}
	c.Status[types.Poison]--
	g.Say("%s suffers %d poison.", g.Label(a.Target), n)
	g.loseHP(a.Target, n)
}

// MonsterMoveAction runs one monster's turn: block reset, poison, its
// move, then end-of-turn statuses.
type MonsterMoveAction struct{ Monster CreatureRef }

func (a MonsterMoveAction) Run(g *Game) {
	if !g.InCombat() {
		return
	}
	m := g.Monsters[a.Monster]
	if !m.Alive() {
		return
	}
	m.Block = 0
	if m.Status[types.Poison] > 0 {
		PoisonAction{Target: a.Monster}.Run(g)
		if !g.InCombat() || !m.Alive() {
			return
		}
	}
	g.RunNext(func() {
		if m.Behavior != nil {
			m.Behavior.TakeTurn(g, m)
		}
		g.PushLast(monsterEndAction{Monster: a.Monster})
	})
}

type monsterEndAction struct{ Monster CreatureRef }

func (a monsterEndAction) Run(g *Game) {
	if !g.InCombat() {
		return
	}
	m := g.Monsters[a.Monster]
	if !m.Alive() {
		return
	}
	if n := m.Status[types.Ritual]; n > 0 {
		m.Status[types.Strength] += n
	}
	if n := m.Status[types.Metallicize]; n > 0 {
		m.Block += n
	}
}

func (monsterEndAction) String() string { return "MonsterEndAction" }

// RollIntentAction asks a monster's behavior for its next move.
type RollIntentAction struct{ Monster CreatureRef }

func (a RollIntentAction) Run(g *Game) {
	if !g.InCombat() {
		return
	}
	m := g.Monsters[a.Monster]
	if m.Alive() && m.Behavior != nil {
		m.Behavior.RollIntent(g, m)
	}
}

// Intent describes a monster's current move.
func (g *Game) Intent(m *Monster) string {
	if m.Behavior == nil {
		return "unknown"
	}
	return m.Behavior.Intent(g, m)
}

// CombatVictory collects combat rewards and offers a card.
type CombatVictory struct{}

func (s *CombatVictory) Steps(*Game) []Step { return nil }

func (s *CombatVictory) Run(g *Game) {
	enc := g.combat.encounter
	g.Say("Victory!")
	g.Log.Info("combat won", "encounter", enc.ID, "round", g.combat.round)
	g.PushLast(TriggerAction{Hook: types.HookCombatFinish})
	if enc.Gold > 0 {
		g.PushLast(GainGoldAction{Amount: enc.Gold})
	}
	g.PushLast(endCombatAction{})

	r := g.opts.Rewards
	if r.Choices <= 0 || len(r.Pool) == 0 {
		g.PopState()
		return
	}
	var offers []string
	for _, i := range g.RNG.Sample(len(r.Pool), r.Choices) {
		offers = append(offers, r.Pool[i])
	}
	g.ReplaceState(&CardReward{Offers: offers})
}

// endCombatAction drops combat-only state. Temporary cards are released.
type endCombatAction struct{}

func (endCombatAction) Run(g *Game) {
	for _, id := range g.combat.temp {
		g.cards.Release(id)
	}
	g.Hand, g.Discard, g.Exhausted = nil, nil, nil
	g.DrawPile = drawpile.New[CardID](nil, nil)
	g.Monsters = nil
	g.Player.clearCombat()
	g.Player.Energy = 0
	g.combat = nil
}

func (endCombatAction) String() string { return "EndCombatAction" }

// CardReward offers cards after a victory.
type CardReward struct {
	Offers []string
}

func (s *CardReward) Steps(g *Game) []Step {
	var steps []Step
	for i, id := range s.Offers {
		steps = append(steps, TakeCardStep{Index: i, Card: id})
	}
	return append(steps, SkipStep{})
}

func (s *CardReward) Run(*Game) {
	panic("engine: card reward has no automatic transition")
}

// TakeCardStep adds an offered card to the deck.
type TakeCardStep struct {
	Index int
	Card  string
}

func (s TakeCardStep) Run(g *Game) bool {
	g.PushLast(AddCardAction{Card: s.Card, Pile: types.PileDeck})
	return true
}

func (s TakeCardStep) Describe(g *Game) string {
	return "Take " + g.Content.Card(s.Card).Name
}

// SkipStep declines whatever the current state offers.
type SkipStep struct{}

func (SkipStep) Run(*Game) bool { return true }

func (SkipStep) Describe(*Game) string { return "Skip" }

// DefeatState ends the run in a loss.
type DefeatState struct{}

func (s *DefeatState) Steps(*Game) []Step { return nil }
func (s *DefeatState) Run(*Game) { panic("engine: run is over") }
func (s *DefeatState) Outcome() Outcome { return Defeat }
