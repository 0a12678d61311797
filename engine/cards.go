package engine

import "fmt"

// CardID is a handle into the card arena. Piles hold ids, never copies.
type CardID int

// NoCard is the zero handle outside card play.
const NoCard CardID = -1

// Card is one physical card. The same Card may move between piles but is
// only in one at a time.
type Card struct {
	Class       *CardClass
	Upgrades    int
	TimesPlayed int
	Removed     bool
	temporary   bool
}

// Name returns the display name with one "+" per upgrade.
func (c *Card) Name() string {
	name := c.Class.Name
	for i := 0; i < c.Upgrades; i++ {
		name += "+"
	}
	return name
}

// Cost returns the current energy cost.
func (c *Card) Cost() int { return c.Class.CostAt(c.Upgrades) }

// CardArena owns every card instance of a run.
type CardArena struct {
	cards []Card
	free  []CardID
}

// New allocates a card and returns its handle.
func (a *CardArena) New(class *CardClass, upgrades int) CardID {
	c := Card{Class: class, Upgrades: upgrades}
	if n := len(a.free); n > 0 {
		id := a.free[n-1]
		a.free = a.free[:n-1]
		a.cards[id] = c
		return id
	}
	a.cards = append(a.cards, c)
	return CardID(len(a.cards) - 1)
}

// Get returns the card behind a handle. Stale handles panic.
func (a *CardArena) Get(id CardID) *Card {
	if id < 0 || int(id) >= len(a.cards) || a.cards[id].Removed {
		panic(fmt.Sprintf("engine: no card %d", id))
	}
	return &a.cards[id]
}

// Release returns a card's slot to the arena.
func (a *CardArena) Release(id CardID) {
	c := a.Get(id)
	c.Removed = true
	c.Class = nil
	a.free = append(a.free, id)
}

// Live returns the number of cards not released.
func (a *CardArena) Live() int { return len(a.cards) - len(a.free) }

// Card resolves a handle in the game's arena.
func (g *Game) Card(id CardID) *Card { return g.cards.Get(id) }

// CardName is a convenience for display code.
func (g *Game) CardName(id CardID) string { return g.cards.Get(id).Name() }

func removeID(ids []CardID, id CardID) ([]CardID, bool) {
	for i, x := range ids {
		if x == id {
			return append(ids[:i], ids[i+1:]...), true
		}
	}
	return ids, false
}
