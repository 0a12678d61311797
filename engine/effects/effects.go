// Package effects compiles declarative content effects into engine
// callbacks. Every effect type enqueues one kind of core action. No logic
// in effects beyond picking amounts and targets.
package effects

import (
	"fmt"

	"github.com/nathoo/spirecore/engine"
	"github.com/nathoo/spirecore/types"
)

type compiled func(g *engine.Game, ctx engine.EffectContext)

// Compile turns a list of effects into one callback. The callback
// enqueues actions with PushLast, in list order. Unknown effect types and
// malformed parameters are reported here, never at play time.
func Compile(effs []types.Effect) (engine.Effect, error) {
	parts := make([]compiled, 0, len(effs))
	for i, e := range effs {
		fn, err := compileOne(e)
		if err != nil {
			return nil, fmt.Errorf("effect %d (%s): %w", i+1, e.Type, err)
		}
		parts = append(parts, fn)
	}
	return func(g *engine.Game, ctx engine.EffectContext) {
		for _, fn := range parts {
			fn(g, ctx)
		}
	}, nil
}

// Types lists every supported effect type.
var Types = []string{
	"damage", "damage_all", "block", "draw", "gain_energy", "apply_status",
	"gain_strength", "heal", "lose_hp", "add_card", "shuffle_in",
	"gain_gold", "obtain_relic", "obtain_potion", "say",
}

func compileOne(e types.Effect) (compiled, error) {
	p := params(e.Params)
	amount := func(ctx engine.EffectContext) int {
		return p.num("amount", 0) + p.num("plus", 0)*ctx.Upgrades
	}
	times := p.num("times", 1)
	if times < 1 {
		return nil, fmt.Errorf("times must be positive, got %d", times)
	}

	switch e.Type {
	case "damage":
		target, err := p.target("target")
		if err != nil {
			return nil, err
		}
		return func(g *engine.Game, ctx engine.EffectContext) {
			n := amount(ctx)
			for i := 0; i < times; i++ {
				for _, t := range resolve(g, ctx, target) {
					g.PushLast(engine.DamageAction{Source: ctx.Source, Target: t, Amount: n})
				}
			}
		}, nil

	case "damage_all":
		return func(g *engine.Game, ctx engine.EffectContext) {
			n := amount(ctx)
			for i := 0; i < times; i++ {
				if ctx.Source == engine.PlayerRef {
					g.PushLast(engine.DamageAllAction{Source: ctx.Source, Amount: n})
				} else {
					g.PushLast(engine.DamageAction{Source: ctx.Source, Target: engine.PlayerRef, Amount: n})
				}
			}
		}, nil

	case "block":
		target, err := p.target("self")
		if err != nil {
			return nil, err
		}
		return func(g *engine.Game, ctx engine.EffectContext) {
			for _, t := range resolve(g, ctx, target) {
				g.PushLast(engine.BlockAction{Target: t, Amount: amount(ctx)})
			}
		}, nil

	case "draw":
		return func(g *engine.Game, ctx engine.EffectContext) {
			g.PushLast(engine.DrawAction{N: amount(ctx)})
		}, nil

	case "gain_energy":
		return func(g *engine.Game, ctx engine.EffectContext) {
			g.PushLast(engine.GainEnergyAction{Amount: amount(ctx)})
		}, nil

	case "apply_status", "gain_strength":
		status := types.Strength
		def := "self"
		if e.Type == "apply_status" {
			name := p.str("status")
			s, ok := types.ParseStatus(name)
			if !ok {
				return nil, fmt.Errorf("unknown status %q", name)
			}
			status, def = s, "target"
		}
		target, err := p.target(def)
		if err != nil {
			return nil, err
		}
		return func(g *engine.Game, ctx engine.EffectContext) {
			for _, t := range resolve(g, ctx, target) {
				g.PushLast(engine.ApplyStatusAction{Target: t, Status: status, Amount: amount(ctx)})
			}
		}, nil

	case "heal":
		target, err := p.target("self")
		if err != nil {
			return nil, err
		}
		return func(g *engine.Game, ctx engine.EffectContext) {
			for _, t := range resolve(g, ctx, target) {
				g.PushLast(engine.HealAction{Target: t, Amount: amount(ctx)})
			}
		}, nil

	case "lose_hp":
		target, err := p.target("self")
		if err != nil {
			return nil, err
		}
		return func(g *engine.Game, ctx engine.EffectContext) {
			for _, t := range resolve(g, ctx, target) {
				g.PushLast(engine.LoseHPAction{Target: t, Amount: amount(ctx)})
			}
		}, nil

	case "add_card", "shuffle_in":
		card := p.str("card")
		if card == "" {
			return nil, fmt.Errorf("missing card")
		}
		pile := types.PileDraw
		if e.Type == "add_card" {
			pile = types.PileKind(p.strOr("pile", string(types.PileDiscard)))
			if !validPile(pile) {
				return nil, fmt.Errorf("unknown pile %q", pile)
			}
		}
		upgrades := p.num("upgrades", 0)
		count := max(1, p.num("amount", 1))
		return func(g *engine.Game, ctx engine.EffectContext) {
			for i := 0; i < count*times; i++ {
				g.PushLast(engine.AddCardAction{Card: card, Pile: pile, Upgrades: upgrades})
			}
		}, nil

	case "gain_gold":
		return func(g *engine.Game, ctx engine.EffectContext) {
			g.PushLast(engine.GainGoldAction{Amount: amount(ctx)})
		}, nil

	case "obtain_relic":
		relic := p.str("relic")
		if relic == "" {
			return nil, fmt.Errorf("missing relic")
		}
		return func(g *engine.Game, ctx engine.EffectContext) {
			g.PushLast(engine.ObtainRelicAction{Relic: relic})
		}, nil

	case "obtain_potion":
		potion := p.str("potion")
		if potion == "" {
			return nil, fmt.Errorf("missing potion")
		}
		return func(g *engine.Game, ctx engine.EffectContext) {
			g.PushLast(engine.ObtainPotionAction{Potion: potion})
		}, nil

	case "say":
		text := p.str("text")
		return func(g *engine.Game, ctx engine.EffectContext) {
			g.PushLast(engine.ActionFunc{Name: "Say", Fn: func(g *engine.Game) { g.Say("%s", text) }})
		}, nil

	default:
		return nil, fmt.Errorf("unknown effect type")
	}
}

// References returns the content ids an effect list points at, by kind
// ("card", "relic", "potion"), for cross-reference validation.
func References(effs []types.Effect) map[string][]string {
	refs := map[string][]string{}
	for _, e := range effs {
		p := params(e.Params)
		switch e.Type {
		case "add_card", "shuffle_in":
			refs["card"] = append(refs["card"], p.str("card"))
		case "obtain_relic":
			refs["relic"] = append(refs["relic"], p.str("relic"))
		case "obtain_potion":
			refs["potion"] = append(refs["potion"], p.str("potion"))
		}
	}
	return refs
}

func validPile(k types.PileKind) bool {
	switch k {
	case types.PileHand, types.PileDraw, types.PileDrawTop, types.PileDrawBottom,
		types.PileDiscard, types.PileExhaust, types.PileDeck:
		return true
	}
	return false
}
