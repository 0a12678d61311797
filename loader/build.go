package loader

import (
	"fmt"

	"github.com/nathoo/spirecore/engine"
	"github.com/nathoo/spirecore/engine/effects"
	"github.com/nathoo/spirecore/engine/monster"
	"github.com/nathoo/spirecore/engine/rules"
	"github.com/nathoo/spirecore/types"
)

// Build compiles validated defs into an engine content registry. Effect
// parameters are checked here, so a malformed pack fails before play.
func Build(defs *Defs) (*engine.Content, error) {
	c := engine.NewContent()
	c.Game = defs.Game

	for id, def := range defs.Cards {
		play, err := effects.Compile(def.Effects)
		if err != nil {
			return nil, fmt.Errorf("card %s: %w", id, err)
		}
		playable, err := rules.Compile(def.Requires)
		if err != nil {
			return nil, fmt.Errorf("card %s: %w", id, err)
		}
		c.Cards[id] = &engine.CardClass{CardDef: def, Play: play, Playable: playable}
	}

	for id, def := range defs.Monsters {
		mc, err := buildMonster(def)
		if err != nil {
			return nil, fmt.Errorf("monster %s: %w", id, err)
		}
		c.Monsters[id] = mc
	}

	for id, def := range defs.Encounters {
		c.Encounters[id] = &engine.EncounterClass{ID: def.ID, Monsters: def.Monsters, Gold: def.Gold}
	}

	for id, def := range defs.Relics {
		rc := &engine.RelicClass{ID: def.ID, Name: def.Name, Text: def.Text, Hooks: map[types.Hook]engine.Effect{}}
		for h, effs := range def.Hooks {
			fn, err := effects.Compile(effs)
			if err != nil {
				return nil, fmt.Errorf("relic %s hook %s: %w", id, h, err)
			}
			rc.Hooks[h] = fn
		}
		c.Relics[id] = rc
	}

	for id, def := range defs.Potions {
		use, err := effects.Compile(def.Effects)
		if err != nil {
			return nil, fmt.Errorf("potion %s: %w", id, err)
		}
		c.Potions[id] = &engine.PotionClass{ID: def.ID, Name: def.Name, Target: def.Target, Use: use}
	}

	for id, def := range defs.Events {
		ec := &engine.EventClass{ID: def.ID, Name: def.Name, Text: def.Text}
		for i, opt := range def.Options {
			avail, err := rules.Compile(opt.Requires)
			if err != nil {
				return nil, fmt.Errorf("event %s option %d: %w", id, i+1, err)
			}
			choose, err := effects.Compile(opt.Effects)
			if err != nil {
				return nil, fmt.Errorf("event %s option %d: %w", id, i+1, err)
			}
			ec.Options = append(ec.Options, engine.EventOption{Text: opt.Text, Available: avail, Choose: choose})
		}
		c.Events[id] = ec
	}

	return c, nil
}

func buildMonster(def types.MonsterDef) (*engine.MonsterClass, error) {
	moves := make([]monster.Move, 0, len(def.Moves))
	for _, mv := range def.Moves {
		fn, err := effects.Compile(mv.Effects)
		if err != nil {
			return nil, fmt.Errorf("move %s: %w", mv.ID, err)
		}
		moves = append(moves, monster.Move{Def: mv, Run: fn})
	}
	mc := &engine.MonsterClass{
		ID:    def.ID,
		Name:  def.Name,
		MinHP: def.MinHP,
		MaxHP: def.MaxHP,
		// Behaviors carry per-combat history, so every monster gets its own.
		NewBehavior: func() engine.MonsterBehavior { return monster.New(def, moves) },
	}
	if len(def.Start) > 0 {
		start, err := effects.Compile(def.Start)
		if err != nil {
			return nil, fmt.Errorf("start: %w", err)
		}
		mc.Start = start
	}
	return mc, nil
}
