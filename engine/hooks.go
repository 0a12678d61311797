package engine

import "github.com/nathoo/spirecore/types"

// TriggerAction fires a hook point. Relics run in acquisition order and
// their effects resolve before anything already queued.
type TriggerAction struct {
	Hook types.Hook
}

func (a TriggerAction) Run(g *Game) {
	g.RunNext(func() {
		for _, r := range g.Relics {
			fn := r.Class.Hooks[a.Hook]
			if fn == nil {
				continue
			}
			g.Log.Debug("relic", "relic", r.Class.ID, "hook", a.Hook)
			fn(g, EffectContext{Source: PlayerRef, Target: NoTarget, Card: NoCard})
		}
	})
}

func (a TriggerAction) String() string { return "Trigger " + string(a.Hook) }
