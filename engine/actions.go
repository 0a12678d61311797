package engine

import (
	"fmt"

	"github.com/nathoo/spirecore/engine/queue"
	"github.com/nathoo/spirecore/types"
)

// RunNext calls fn with queue insertions collected into a batch, then
// schedules the batch ahead of everything pending, in insertion order.
// Hooks and card plays use it so their effects resolve before the
// actions that were already waiting.
func (g *Game) RunNext(fn func()) {
	saved := g.queue
	g.queue = queue.New[Action]()
	fn()
	batch := g.queue.Items()
	g.queue = saved
	g.PushNextAll(batch...)
}

// DamageAction is one attack hit. Block absorbs it; thorns on the
// defender hits back first.
type DamageAction struct {
	Source CreatureRef
	Target CreatureRef
	Amount int
}

func (a DamageAction) Run(g *Game) {
	if !g.InCombat() {
		return
	}
	src, tgt := g.Creature(a.Source), g.Creature(a.Target)
	if !src.Alive() || !tgt.Alive() {
		return
	}
	dmg := AttackDamage(a.Amount, src, tgt)
	if th := tgt.Status[types.Thorns]; th > 0 && a.Source != a.Target {
		g.hit(a.Source, th)
		if !g.InCombat() || !src.Alive() {
			return
		}
	}
	g.hit(a.Target, dmg)
}

// DamageAllAction hits every living monster once, in index order.
type DamageAllAction struct {
	Source CreatureRef
	Amount int
}

func (a DamageAllAction) Run(g *Game) {
	if !g.InCombat() {
		return
	}
	var hits []Action
	for _, ref := range g.Living() {
		hits = append(hits, DamageAction{Source: a.Source, Target: ref, Amount: a.Amount})
	}
	g.PushNextAll(hits...)
}

// LoseHPAction removes HP directly, ignoring block.
type LoseHPAction struct {
	Target CreatureRef
	Amount int
}

func (a LoseHPAction) Run(g *Game) {
	if a.Target != PlayerRef && !g.InCombat() {
		return
	}
	if c := g.Creature(a.Target); c.Alive() {
		g.loseHP(a.Target, a.Amount)
	}
}

// BlockAction grants block. Raw amounts skip dexterity and frail.
type BlockAction struct {
	Target CreatureRef
	Amount int
	Raw    bool
}

func (a BlockAction) Run(g *Game) {
	if !g.InCombat() {
		return
	}
	c := g.Creature(a.Target)
	if !c.Alive() {
		return
	}
	n := a.Amount
	if !a.Raw {
		n = BlockGain(n, c)
	}
	c.Block += n
	g.Say("%s gains %d block.", g.Label(a.Target), n)
}

// HealAction restores HP up to the maximum.
type HealAction struct {
	Target CreatureRef
	Amount int
}

func (a HealAction) Run(g *Game) {
	if a.Target != PlayerRef && !g.InCombat() {
		return
	}
	c := g.Creature(a.Target)
	if !c.Alive() {
		return
	}
	before := c.HP
	c.HP = min(c.MaxHP, c.HP+a.Amount)
	if c.HP > before {
		g.Say("%s heals %d.", g.Label(a.Target), c.HP-before)
	}
}

// ApplyStatusAction adds stacks of a status. Artifact negates a debuff.
type ApplyStatusAction struct {
	Target CreatureRef
	Status types.Status
	Amount int
}

func (a ApplyStatusAction) Run(g *Game) {
	if !g.InCombat() {
		return
	}
	c := g.Creature(a.Target)
	if !c.Alive() || a.Amount == 0 {
		return
	}
	if a.Status.IsDebuff() && a.Amount > 0 && c.Status[types.Artifact] > 0 {
		c.Status[types.Artifact]--
		g.Say("%s's artifact negates %s.", g.Label(a.Target), a.Status)
		return
	}
	c.Status[a.Status] += a.Amount
	if a.Status != types.Strength && a.Status != types.Dexterity && c.Status[a.Status] < 0 {
		c.Status[a.Status] = 0
	}
	g.Say("%s gains %d %s.", g.Label(a.Target), a.Amount, a.Status)
}

// GainEnergyAction adds energy for the current turn.
type GainEnergyAction struct{ Amount int }

func (a GainEnergyAction) Run(g *Game) {
	if g.InCombat() {
		g.Player.Energy += a.Amount
	}
}

// GainGoldAction adds gold. Negative amounts spend it, never below zero.
type GainGoldAction struct{ Amount int }

func (a GainGoldAction) Run(g *Game) {
	g.Gold = max(0, g.Gold+a.Amount)
	if a.Amount > 0 {
		g.Say("You gain %d gold.", a.Amount)
	}
}

// DrawAction draws N cards one at a time. An empty draw pile is refilled
// from the discard pile; with both empty the draw stops.
type DrawAction struct{ N int }

func (a DrawAction) Run(g *Game) {
	if a.N <= 0 || !g.InCombat() {
		return
	}
	if g.DrawPile.Len() == 0 {
		if len(g.Discard) == 0 {
			return
		}
		g.PushNextAll(ShuffleDiscardAction{}, DrawAction{N: a.N})
		return
	}
	id := g.DrawPile.Pop(g.RNG)
	if len(g.Hand) >= MaxHand {
		g.Discard = append(g.Discard, id)
		g.Say("Your hand is full; %s is discarded.", g.CardName(id))
	} else {
		g.Hand = append(g.Hand, id)
	}
	if a.N > 1 {
		g.PushNext(DrawAction{N: a.N - 1})
	}
}

// ShuffleDiscardAction moves the discard pile into the draw pile.
type ShuffleDiscardAction struct{}

func (ShuffleDiscardAction) Run(g *Game) {
	if !g.InCombat() {
		return
	}
	for _, id := range g.Discard {
		g.DrawPile.PushBottom(id)
	}
	g.DrawPile.ShuffleAll()
	g.Discard = nil
	g.PushNext(TriggerAction{Hook: types.HookShuffle})
}

// DiscardHandAction ends the turn's hand. Ethereal cards are exhausted.
type DiscardHandAction struct{}

func (DiscardHandAction) Run(g *Game) {
	if !g.InCombat() {
		return
	}
	for _, id := range g.Hand {
		if g.Card(id).Class.Ethereal {
			g.Exhausted = append(g.Exhausted, id)
		} else {
			g.Discard = append(g.Discard, id)
		}
	}
	g.Hand = nil
}

// DiscardCardAction moves a card from hand to the discard pile.
type DiscardCardAction struct{ Card CardID }

func (a DiscardCardAction) Run(g *Game) {
	if !g.InCombat() {
		return
	}
	g.Hand = g.takeFromHand(a.Card)
	g.Discard = append(g.Discard, a.Card)
}

// ExhaustCardAction moves a card from hand to the exhaust pile.
type ExhaustCardAction struct{ Card CardID }

func (a ExhaustCardAction) Run(g *Game) {
	if !g.InCombat() {
		return
	}
	g.Hand = g.takeFromHand(a.Card)
	g.Exhausted = append(g.Exhausted, a.Card)
	g.Say("%s is exhausted.", g.CardName(a.Card))
}

// PlayCardAction plays a card from hand and pays its cost.
type PlayCardAction struct {
	Card   CardID
	Target CreatureRef
}

func (a PlayCardAction) Run(g *Game) {
	if !g.InCombat() {
		return
	}
	c := g.Card(a.Card)
	cost := c.Cost()
	if cost > g.Player.Energy {
		panic(fmt.Sprintf("engine: %s costs %d with %d energy", c.Name(), cost, g.Player.Energy))
	}
	g.Hand = g.takeFromHand(a.Card)
	g.Player.Energy -= cost
	c.TimesPlayed++
	if a.Target >= 0 {
		g.Say("You play %s on %s.", c.Name(), g.Label(a.Target))
	} else {
		g.Say("You play %s.", c.Name())
	}
	ctx := EffectContext{
		Source:      PlayerRef,
		Target:      a.Target,
		Card:        a.Card,
		Upgrades:    c.Upgrades,
		TimesPlayed: c.TimesPlayed,
	}
	g.RunNext(func() {
		if c.Class.Play != nil {
			c.Class.Play(g, ctx)
		}
		g.PushLast(FinishPlayAction{Card: a.Card})
	})
}

// FinishPlayAction puts a played card on its destination pile once its
// effects have resolved. Powers leave combat.
type FinishPlayAction struct{ Card CardID }

func (a FinishPlayAction) Run(g *Game) {
	if !g.InCombat() {
		return
	}
	c := g.Card(a.Card)
	switch {
	case c.Class.Type == types.Power:
	case c.Class.Exhaust:
		g.Exhausted = append(g.Exhausted, a.Card)
		g.Say("%s is exhausted.", c.Name())
	default:
		g.Discard = append(g.Discard, a.Card)
	}
}

// AddCardAction creates a card on a pile. Outside combat every pile
// means the master deck.
type AddCardAction struct {
	Card     string
	Pile     types.PileKind
	Upgrades int
}

func (a AddCardAction) Run(g *Game) {
	class := g.Content.Card(a.Card)
	if a.Pile == types.PileDeck || !g.InCombat() {
		id := g.cards.New(class, a.Upgrades)
		g.Deck = append(g.Deck, id)
		g.Say("%s is added to your deck.", g.CardName(id))
		return
	}
	id := g.cards.New(class, a.Upgrades)
	g.cards.Get(id).temporary = true
	g.combat.temp = append(g.combat.temp, id)
	switch a.Pile {
	case types.PileHand:
		if len(g.Hand) >= MaxHand {
			g.Discard = append(g.Discard, id)
		} else {
			g.Hand = append(g.Hand, id)
		}
	case types.PileDiscard:
		g.Discard = append(g.Discard, id)
	case types.PileDrawTop:
		g.DrawPile.PushTop(id)
	case types.PileDrawBottom:
		g.DrawPile.PushBottom(id)
	case types.PileDraw:
		g.DrawPile.ShuffleIn(id)
	case types.PileExhaust:
		g.Exhausted = append(g.Exhausted, id)
	default:
		panic(fmt.Sprintf("engine: unknown pile %q", a.Pile))
	}
}

// UpgradeCardAction upgrades a card if it can be upgraded further.
type UpgradeCardAction struct{ Card CardID }

func (a UpgradeCardAction) Run(g *Game) {
	c := g.Card(a.Card)
	if !c.Class.Upgradable(c.Upgrades) {
		return
	}
	c.Upgrades++
	g.Say("%s is upgraded to %s.", c.Class.Name, c.Name())
}

// ObtainRelicAction adds a relic to the end of the dispatch order.
type ObtainRelicAction struct{ Relic string }

func (a ObtainRelicAction) Run(g *Game) {
	rc := g.Content.Relic(a.Relic)
	g.Relics = append(g.Relics, &Relic{Class: rc})
	g.Say("You obtain %s.", rc.Name)
}

// ObtainPotionAction fills the first free potion slot.
type ObtainPotionAction struct{ Potion string }

func (a ObtainPotionAction) Run(g *Game) {
	pc := g.Content.Potion(a.Potion)
	if g.obtainPotion(pc) {
		g.Say("You obtain %s.", pc.Name)
	} else {
		g.Say("No room for %s.", pc.Name)
	}
}

type usePotionAction struct {
	Potion *PotionClass
	Target CreatureRef
}

func (a usePotionAction) Run(g *Game) {
	if !g.InCombat() {
		return
	}
	g.Say("You drink %s.", a.Potion.Name)
	if a.Potion.Use == nil {
		return
	}
	g.RunNext(func() {
		a.Potion.Use(g, EffectContext{Source: PlayerRef, Target: a.Target, Card: NoCard})
	})
}

func (usePotionAction) String() string { return "UsePotionAction" }

// hit applies attack damage through block.
func (g *Game) hit(ref CreatureRef, n int) {
	c := g.Creature(ref)
	absorbed := min(c.Block, n)
	c.Block -= absorbed
	n -= absorbed
	if n <= 0 {
		g.Say("%s blocks the attack.", g.Label(ref))
		return
	}
	g.loseHP(ref, n)
}

// loseHP is the single place HP goes down, so it is also where deaths
// end the combat or the run.
func (g *Game) loseHP(ref CreatureRef, n int) {
	c := g.Creature(ref)
	c.HP = max(0, c.HP-n)
	g.Say("%s takes %d damage.", g.Label(ref), n)
	if c.Alive() {
		return
	}
	g.Say("%s dies.", g.Label(ref))
	g.killed()
}

func (g *Game) takeFromHand(id CardID) []CardID {
	hand, ok := removeID(g.Hand, id)
	if !ok {
		panic(fmt.Sprintf("engine: card %d is not in hand", id))
	}
	return hand
}
