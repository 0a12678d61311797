package loader

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/nathoo/spirecore/engine/effects"
	"github.com/nathoo/spirecore/engine/rules"
	"github.com/nathoo/spirecore/types"
)

// ValidationError collects all validation errors and warnings.
type ValidationError struct {
	Errors   []string
	Warnings []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed with %d error(s):\n  %s",
		len(e.Errors), strings.Join(e.Errors, "\n  "))
}

func (e *ValidationError) errorf(format string, args ...any) {
	e.Errors = append(e.Errors, fmt.Sprintf(format, args...))
}

func (e *ValidationError) warnf(format string, args ...any) {
	e.Warnings = append(e.Warnings, fmt.Sprintf(format, args...))
}

// Validate checks the defs for referential integrity and consistency.
// Warnings are returned even when validation passes; a failure is a
// *ValidationError carrying both.
func Validate(defs *Defs) ([]string, error) {
	ve := &ValidationError{}

	// Game title required.
	if defs.Game.Title == "" {
		ve.errorf("Game.Title is required")
	}

	for _, id := range slices.Sorted(maps.Keys(defs.Cards)) {
		card := defs.Cards[id]
		where := fmt.Sprintf("card %q", id)
		if card.Cost < 0 {
			ve.errorf("%s has negative cost %d", where, card.Cost)
		}
		if len(card.Effects) == 0 && !card.Unplayable {
			ve.warnf("%s has no effects", where)
		}
		validateEffects(where, card.Effects, defs, ve)
		validateConditions(where, card.Requires, defs, ve)
	}

	used := map[string]bool{}
	for _, id := range slices.Sorted(maps.Keys(defs.Encounters)) {
		enc := defs.Encounters[id]
		if len(enc.Monsters) == 0 {
			ve.errorf("encounter %q has no monsters", id)
		}
		for _, m := range enc.Monsters {
			used[m] = true
			if _, ok := defs.Monsters[m]; !ok {
				ve.errorf("encounter %q references undefined monster %q", id, m)
			}
		}
		if enc.Gold == 0 {
			ve.warnf("encounter %q awards no gold", id)
		}
	}

	for _, id := range slices.Sorted(maps.Keys(defs.Monsters)) {
		validateMonster(defs.Monsters[id], defs, ve)
		if !used[id] {
			ve.warnf("monster %q is not in any encounter", id)
		}
	}

	for _, id := range slices.Sorted(maps.Keys(defs.Relics)) {
		relic := defs.Relics[id]
		if len(relic.Hooks) == 0 {
			ve.warnf("relic %q has no hooks", id)
		}
		for _, h := range types.Hooks {
			if effs, ok := relic.Hooks[h]; ok {
				validateEffects(fmt.Sprintf("relic %q hook %s", id, h), effs, defs, ve)
			}
		}
	}

	for _, id := range slices.Sorted(maps.Keys(defs.Potions)) {
		validateEffects(fmt.Sprintf("potion %q", id), defs.Potions[id].Effects, defs, ve)
	}

	for _, id := range slices.Sorted(maps.Keys(defs.Events)) {
		ev := defs.Events[id]
		if len(ev.Options) == 0 {
			ve.errorf("event %q has no options", id)
		}
		for i, opt := range ev.Options {
			where := fmt.Sprintf("event %q option %d", id, i+1)
			if opt.Text == "" {
				ve.errorf("%s has no text", where)
			}
			validateConditions(where, opt.Requires, defs, ve)
			validateEffects(where, opt.Effects, defs, ve)
		}
	}

	if len(ve.Errors) > 0 {
		return ve.Warnings, ve
	}
	return ve.Warnings, nil
}

func validateMonster(m types.MonsterDef, defs *Defs, ve *ValidationError) {
	where := fmt.Sprintf("monster %q", m.ID)
	if m.MinHP <= 0 || m.MaxHP < m.MinHP {
		ve.errorf("%s has invalid hp range [%d, %d]", where, m.MinHP, m.MaxHP)
	}
	if len(m.Moves) == 0 {
		ve.errorf("%s has no moves", where)
	}
	moves := map[string]bool{}
	for _, mv := range m.Moves {
		if moves[mv.ID] {
			ve.errorf("%s has duplicate move %q", where, mv.ID)
		}
		moves[mv.ID] = true
		if mv.Weight < 0 {
			ve.errorf("%s move %q has negative weight", where, mv.ID)
		}
		validateEffects(fmt.Sprintf("%s move %q", where, mv.ID), mv.Effects, defs, ve)
	}
	if m.First != "" && !moves[m.First] {
		ve.errorf("%s first move %q is not in its move table", where, m.First)
	}
	validateEffects(where+" start", m.Start, defs, ve)
}

func validateConditions(where string, conditions []types.Condition, defs *Defs, ve *ValidationError) {
	for _, cond := range conditions {
		if !slices.Contains(rules.Types, cond.Type) {
			ve.errorf("%s: unknown condition type %q", where, cond.Type)
		}

		switch cond.Type {
		case "has_relic":
			if relic, ok := cond.Params["relic"].(string); ok {
				if _, ok := defs.Relics[relic]; !ok {
					ve.errorf("%s: condition has_relic references undefined relic %q", where, relic)
				}
			}
		case "not":
			if cond.Inner != nil {
				validateConditions(where, []types.Condition{*cond.Inner}, defs, ve)
			}
		}
	}
}

func validateEffects(where string, effs []types.Effect, defs *Defs, ve *ValidationError) {
	for _, eff := range effs {
		if !slices.Contains(effects.Types, eff.Type) {
			ve.errorf("%s: unknown effect type %q", where, eff.Type)
		}
	}

	refs := effects.References(effs)
	for _, id := range refs["card"] {
		if _, ok := defs.Cards[id]; !ok {
			ve.errorf("%s: references undefined card %q", where, id)
		}
	}
	for _, id := range refs["relic"] {
		if _, ok := defs.Relics[id]; !ok {
			ve.errorf("%s: references undefined relic %q", where, id)
		}
	}
	for _, id := range refs["potion"] {
		if _, ok := defs.Potions[id]; !ok {
			ve.errorf("%s: references undefined potion %q", where, id)
		}
	}
}
