package engine

import (
	"fmt"

	"github.com/nathoo/spirecore/types"
)

// CreatureRef addresses a creature in the current combat.
// Non-negative values are monster indices.
type CreatureRef int

const (
	PlayerRef CreatureRef = -1
	NoTarget  CreatureRef = -2
)

// Creature is the shared part of the player and monsters.
type Creature struct {
	Name   string
	HP     int
	MaxHP  int
	Block  int
	Status [types.NumStatuses]int
}

// Alive reports whether the creature has HP left.
func (c *Creature) Alive() bool { return c.HP > 0 }

// Has returns the stack count of a status.
func (c *Creature) Has(s types.Status) int { return c.Status[s] }

func (c *Creature) clearCombat() {
	c.Block = 0
	c.Status = [types.NumStatuses]int{}
}

// Player is the run's protagonist. Gold and potions live on Game.
type Player struct {
	Creature
	Energy    int
	MaxEnergy int
	HandSize  int
}

// Monster is one enemy in the current combat.
type Monster struct {
	Creature
	Class    *MonsterClass
	Behavior MonsterBehavior
	Index    int
}

// Ref returns the monster's address.
func (m *Monster) Ref() CreatureRef { return CreatureRef(m.Index) }

// Creature resolves a reference. A reference to a missing creature panics.
func (g *Game) Creature(ref CreatureRef) *Creature {
	if ref == PlayerRef {
		return &g.Player.Creature
	}
	if ref < 0 || int(ref) >= len(g.Monsters) {
		panic(fmt.Sprintf("engine: no creature %d", ref))
	}
	return &g.Monsters[ref].Creature
}

// Living returns the indices of living monsters in ascending order.
func (g *Game) Living() []CreatureRef {
	var out []CreatureRef
	for _, m := range g.Monsters {
		if m.Alive() {
			out = append(out, m.Ref())
		}
	}
	return out
}

// Label names a creature for display, numbering monsters that share a name.
func (g *Game) Label(ref CreatureRef) string {
	if ref == PlayerRef {
		return g.Player.Name
	}
	c := g.Creature(ref)
	n, k := 0, 0
	for i, m := range g.Monsters {
		if m.Name == c.Name {
			n++
			if CreatureRef(i) <= ref {
				k = n
			}
		}
	}
	if n > 1 {
		return fmt.Sprintf("%s %d", c.Name, k)
	}
	return c.Name
}

// AttackDamage is the damage base deals from attacker to defender.
func AttackDamage(base int, attacker, defender *Creature) int {
	d := base + attacker.Status[types.Strength]
	if d < 0 {
		d = 0
	}
	if attacker.Status[types.Weak] > 0 {
		d = d * 3 / 4
	}
	if defender.Status[types.Vulnerable] > 0 {
		d = d * 3 / 2
	}
	return d
}

// BlockGain is the block base grants to c.
func BlockGain(base int, c *Creature) int {
	b := base + c.Status[types.Dexterity]
	if b < 0 {
		b = 0
	}
	if c.Status[types.Frail] > 0 {
		b = b * 3 / 4
	}
	return b
}
