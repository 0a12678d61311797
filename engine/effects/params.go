package effects

import (
	"fmt"

	"github.com/nathoo/spirecore/engine"
)

type params map[string]any

func (p params) num(key string, def int) int {
	v, ok := p[key]
	if !ok {
		return def
	}
	return toInt(v)
}

func (p params) str(key string) string {
	s, _ := p[key].(string)
	return s
}

func (p params) strOr(key, def string) string {
	if s := p.str(key); s != "" {
		return s
	}
	return def
}

// target reads the "target" parameter, falling back to def.
func (p params) target(def string) (string, error) {
	t := p.strOr("target", def)
	switch t {
	case "self", "target", "player", "all_enemies":
		return t, nil
	}
	return "", fmt.Errorf("unknown target %q", t)
}

// resolve maps a target keyword to creatures, relative to the source. A
// monster's enemies are the player.
func resolve(g *engine.Game, ctx engine.EffectContext, target string) []engine.CreatureRef {
	switch target {
	case "self":
		return []engine.CreatureRef{ctx.Source}
	case "player":
		return []engine.CreatureRef{engine.PlayerRef}
	case "all_enemies":
		if ctx.Source != engine.PlayerRef {
			return []engine.CreatureRef{engine.PlayerRef}
		}
		return g.Living()
	default:
		if ctx.Target == engine.NoTarget {
			return nil
		}
		return []engine.CreatureRef{ctx.Target}
	}
}

func toInt(v any) int {
	switch n := v.(type) {
	case int:
		return n
	case float64:
		return int(n)
	case int64:
		return int(n)
	default:
		return 0
	}
}
