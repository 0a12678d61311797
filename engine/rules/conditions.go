// Package rules evaluates declarative conditions against a running game.
// Content uses them to gate event options and card plays.
package rules

import (
	"fmt"

	"github.com/nathoo/spirecore/engine"
	"github.com/nathoo/spirecore/types"
)

// Types lists every supported condition type.
var Types = []string{
	"gold_at_least", "hp_above", "hp_below", "has_relic",
	"has_potion_slot", "deck_size_at_least", "floor_at_least", "not",
}

// EvalCondition evaluates a single condition against the current game.
func EvalCondition(c types.Condition, g *engine.Game) bool {
	switch c.Type {
	case "gold_at_least":
		return g.Gold >= toInt(c.Params["amount"])

	case "hp_above":
		return g.Player.HP > toInt(c.Params["amount"])

	case "hp_below":
		return g.Player.HP < toInt(c.Params["amount"])

	case "has_relic":
		relic, _ := c.Params["relic"].(string)
		return g.HasRelic(relic)

	case "has_potion_slot":
		return g.FreePotionSlots() > 0

	case "deck_size_at_least":
		return len(g.Deck) >= toInt(c.Params["amount"])

	case "floor_at_least":
		return g.Floor >= toInt(c.Params["amount"])

	case "not":
		if c.Inner == nil {
			return true
		}
		return !EvalCondition(*c.Inner, g)

	default:
		return false
	}
}

// EvalAllConditions returns true if all conditions pass (AND logic).
// An empty condition list is vacuously true.
func EvalAllConditions(conditions []types.Condition, g *engine.Game) bool {
	for _, c := range conditions {
		if !EvalCondition(c, g) {
			return false
		}
	}
	return true
}

// Compile checks every condition type and returns a predicate over the
// list, or nil when the list is empty.
func Compile(conditions []types.Condition) (func(*engine.Game) bool, error) {
	for i, c := range conditions {
		if err := check(c); err != nil {
			return nil, fmt.Errorf("condition %d: %w", i+1, err)
		}
	}
	if len(conditions) == 0 {
		return nil, nil
	}
	return func(g *engine.Game) bool { return EvalAllConditions(conditions, g) }, nil
}

func check(c types.Condition) error {
	switch c.Type {
	case "not":
		if c.Inner == nil {
			return fmt.Errorf("not: missing inner condition")
		}
		return check(*c.Inner)
	case "has_relic":
		if r, _ := c.Params["relic"].(string); r == "" {
			return fmt.Errorf("has_relic: missing relic")
		}
		return nil
	}
	for _, t := range Types {
		if t == c.Type {
			return nil
		}
	}
	return fmt.Errorf("unknown condition type %q", c.Type)
}

// toInt converts an any value to int, handling float64 from Lua.
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
