// Package loader loads Lua content packs into engine content at startup.
// The Lua VM is discarded after loading, so no Lua runs during a game.
package loader

import (
	"fmt"
	"sort"
	"strings"

	lua "github.com/yuin/gopher-lua"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/nathoo/spirecore/types"
)

// getString returns a string field from a Lua table, or "" if missing.
func getString(tbl *lua.LTable, key string) string {
	v := tbl.RawGetString(key)
	if s, ok := v.(lua.LString); ok {
		return string(s)
	}
	return ""
}

// getBool returns a bool field from a Lua table, or the default if missing.
func getBool(tbl *lua.LTable, key string, def bool) bool {
	v := tbl.RawGetString(key)
	if b, ok := v.(lua.LBool); ok {
		return bool(b)
	}
	return def
}

// getNumber returns a numeric field from a Lua table, or 0 if missing.
func getNumber(tbl *lua.LTable, key string) float64 {
	v := tbl.RawGetString(key)
	if n, ok := v.(lua.LNumber); ok {
		return float64(n)
	}
	return 0
}

// getInt returns an int field from a Lua table, or 0 if missing.
func getInt(tbl *lua.LTable, key string) int {
	return int(getNumber(tbl, key))
}

// getIntOr returns an int field from a Lua table, or def if missing.
func getIntOr(tbl *lua.LTable, key string, def int) int {
	if _, ok := tbl.RawGetString(key).(lua.LNumber); !ok {
		return def
	}
	return getInt(tbl, key)
}

// getTable returns a table field from a Lua table, or nil if missing.
func getTable(tbl *lua.LTable, key string) *lua.LTable {
	v := tbl.RawGetString(key)
	if t, ok := v.(*lua.LTable); ok {
		return t
	}
	return nil
}

// eachItem calls fn for the array part of tbl in index order. ForEach
// walks hash parts in map order, so lists never go through it.
func eachItem(tbl *lua.LTable, fn func(v lua.LValue)) {
	if tbl == nil {
		return
	}
	for i := 1; i <= tbl.MaxN(); i++ {
		fn(tbl.RawGetInt(i))
	}
}

// getStrings returns a list of strings from a Lua array field.
func getStrings(tbl *lua.LTable, key string) []string {
	var out []string
	eachItem(getTable(tbl, key), func(v lua.LValue) {
		if s, ok := v.(lua.LString); ok {
			out = append(out, string(s))
		}
	})
	return out
}

// toGoValue converts a Lua value to a Go value recursively.
func toGoValue(v lua.LValue) any {
	switch val := v.(type) {
	case lua.LBool:
		return bool(val)
	case lua.LNumber:
		f := float64(val)
		if f == float64(int(f)) {
			return int(f)
		}
		return f
	case *lua.LNilType:
		return nil
	case lua.LString:
		return string(val)
	case *lua.LTable:
		// Check if it's an array (sequential integer keys starting at 1).
		maxN := val.MaxN()
		if maxN > 0 {
			arr := make([]any, 0, maxN)
			for i := 1; i <= maxN; i++ {
				arr = append(arr, toGoValue(val.RawGetInt(i)))
			}
			return arr
		}
		// Otherwise treat as map.
		m := map[string]any{}
		val.ForEach(func(k, v lua.LValue) {
			if ks, ok := k.(lua.LString); ok {
				m[string(ks)] = toGoValue(v)
			}
		})
		return m
	default:
		return nil
	}
}

var titleCaser = cases.Title(language.English)

// displayName turns an id like "jaw_worm" into "Jaw Worm".
func displayName(id string) string {
	return titleCaser.String(strings.ReplaceAll(id, "_", " "))
}

// nameOr returns the table's name field or a name derived from id.
func nameOr(tbl *lua.LTable, id string) string {
	if n := getString(tbl, "name"); n != "" {
		return n
	}
	return displayName(id)
}

// compile converts all collected Lua data into a Defs struct.
func compile(coll *collector) (*Defs, error) {
	defs := &Defs{
		Cards:      map[string]types.CardDef{},
		Monsters:   map[string]types.MonsterDef{},
		Encounters: map[string]types.EncounterDef{},
		Relics:     map[string]types.RelicDef{},
		Potions:    map[string]types.PotionDef{},
		Events:     map[string]types.EventDef{},
	}

	// Game.
	if coll.game == nil {
		return nil, fmt.Errorf("no Game{} definition found")
	}
	defs.Game = compileGame(coll.game)

	seen := map[string]bool{}
	dup := func(kind, id string) error {
		key := kind + ":" + id
		if seen[key] {
			return fmt.Errorf("duplicate %s %q", kind, id)
		}
		seen[key] = true
		return nil
	}

	for _, raw := range coll.cards {
		if err := dup("card", raw.id); err != nil {
			return nil, err
		}
		card, err := compileCard(raw)
		if err != nil {
			return nil, fmt.Errorf("compiling card %s: %w", raw.id, err)
		}
		defs.Cards[card.ID] = card
	}

	for _, raw := range coll.monsters {
		if err := dup("monster", raw.id); err != nil {
			return nil, err
		}
		m, err := compileMonster(raw)
		if err != nil {
			return nil, fmt.Errorf("compiling monster %s: %w", raw.id, err)
		}
		defs.Monsters[m.ID] = m
	}

	for _, raw := range coll.encounters {
		if err := dup("encounter", raw.id); err != nil {
			return nil, err
		}
		defs.Encounters[raw.id] = types.EncounterDef{
			ID:       raw.id,
			Monsters: getStrings(raw.table, "monsters"),
			Gold:     getInt(raw.table, "gold"),
		}
	}

	for _, raw := range coll.relics {
		if err := dup("relic", raw.id); err != nil {
			return nil, err
		}
		r, err := compileRelic(raw)
		if err != nil {
			return nil, fmt.Errorf("compiling relic %s: %w", raw.id, err)
		}
		defs.Relics[r.ID] = r
	}

	for _, raw := range coll.potions {
		if err := dup("potion", raw.id); err != nil {
			return nil, err
		}
		target, ok := types.ParseTargetKind(getString(raw.table, "target"))
		if !ok {
			return nil, fmt.Errorf("compiling potion %s: unknown target %q", raw.id, getString(raw.table, "target"))
		}
		defs.Potions[raw.id] = types.PotionDef{
			ID:      raw.id,
			Name:    nameOr(raw.table, raw.id),
			Target:  target,
			Effects: compileEffects(getTable(raw.table, "effects")),
		}
	}

	for _, raw := range coll.events {
		if err := dup("event", raw.id); err != nil {
			return nil, err
		}
		defs.Events[raw.id] = compileEvent(raw)
	}

	return defs, nil
}

func compileGame(tbl *lua.LTable) types.GameDef {
	return types.GameDef{
		Title:   getString(tbl, "title"),
		Author:  getString(tbl, "author"),
		Version: getString(tbl, "version"),
		Intro:   getString(tbl, "intro"),
	}
}

func compileCard(raw rawDef) (types.CardDef, error) {
	tbl := raw.table
	typeName := getString(tbl, "type")
	if typeName == "" {
		typeName = "skill"
	}
	ct, ok := types.ParseCardType(typeName)
	if !ok {
		return types.CardDef{}, fmt.Errorf("unknown card type %q", typeName)
	}
	target, ok := types.ParseTargetKind(getString(tbl, "target"))
	if !ok {
		return types.CardDef{}, fmt.Errorf("unknown target %q", getString(tbl, "target"))
	}
	return types.CardDef{
		ID:           raw.id,
		Name:         nameOr(tbl, raw.id),
		Type:         ct,
		Rarity:       getString(tbl, "rarity"),
		Cost:         getInt(tbl, "cost"),
		UpgradedCost: getIntOr(tbl, "upgraded_cost", -1),
		Target:       target,
		Innate:       getBool(tbl, "innate", false),
		Exhaust:      getBool(tbl, "exhaust", false),
		Ethereal:     getBool(tbl, "ethereal", false),
		Unplayable:   getBool(tbl, "unplayable", false),
		MaxUpgrades:  getInt(tbl, "max_upgrades"),
		Text:         getString(tbl, "text"),
		Effects:      compileEffects(getTable(tbl, "effects")),
		Requires:     compileConditions(getTable(tbl, "requires")),
	}, nil
}

// compileMonster reads hp as either a number or a {min, max} pair.
func compileMonster(raw rawDef) (types.MonsterDef, error) {
	tbl := raw.table
	m := types.MonsterDef{
		ID:      raw.id,
		Name:    nameOr(tbl, raw.id),
		Pattern: getString(tbl, "pattern"),
		First:   getString(tbl, "first"),
		Start:   compileEffects(getTable(tbl, "start")),
	}
	if m.Pattern == "" {
		m.Pattern = "weighted"
	}
	if m.Pattern != "weighted" && m.Pattern != "cycle" {
		return m, fmt.Errorf("unknown pattern %q", m.Pattern)
	}

	switch hp := tbl.RawGetString("hp").(type) {
	case lua.LNumber:
		m.MinHP, m.MaxHP = int(hp), int(hp)
	case *lua.LTable:
		m.MinHP = int(lua.LVAsNumber(hp.RawGetInt(1)))
		m.MaxHP = int(lua.LVAsNumber(hp.RawGetInt(2)))
	default:
		return m, fmt.Errorf("missing hp")
	}

	var err error
	eachItem(getTable(tbl, "moves"), func(v lua.LValue) {
		mt, ok := v.(*lua.LTable)
		if !ok || err != nil {
			return
		}
		mv := types.MoveDef{
			ID:      getString(mt, "id"),
			Intent:  getString(mt, "intent"),
			Weight:  getIntOr(mt, "weight", 1),
			Effects: compileEffects(getTable(mt, "effects")),
		}
		if mv.ID == "" {
			err = fmt.Errorf("move %d has no id", len(m.Moves)+1)
			return
		}
		if mv.Intent == "" {
			mv.Intent = "unknown"
		}
		m.Moves = append(m.Moves, mv)
	})
	return m, err
}

func compileRelic(raw rawDef) (types.RelicDef, error) {
	tbl := raw.table
	r := types.RelicDef{
		ID:    raw.id,
		Name:  nameOr(tbl, raw.id),
		Text:  getString(tbl, "text"),
		Hooks: map[types.Hook][]types.Effect{},
	}
	hooks := getTable(tbl, "hooks")
	if hooks == nil {
		return r, nil
	}

	known := map[string]bool{}
	for _, h := range types.Hooks {
		known[string(h)] = true
		if effs := getTable(hooks, string(h)); effs != nil {
			r.Hooks[h] = compileEffects(effs)
		}
	}
	var unknown []string
	hooks.ForEach(func(k, _ lua.LValue) {
		if ks, ok := k.(lua.LString); !ok || !known[string(ks)] {
			unknown = append(unknown, k.String())
		}
	})
	if len(unknown) > 0 {
		sort.Strings(unknown)
		return r, fmt.Errorf("unknown hook %q", unknown[0])
	}
	return r, nil
}

func compileEvent(raw rawDef) types.EventDef {
	tbl := raw.table
	ev := types.EventDef{
		ID:   raw.id,
		Name: nameOr(tbl, raw.id),
		Text: getString(tbl, "text"),
	}
	eachItem(getTable(tbl, "options"), func(v lua.LValue) {
		ot, ok := v.(*lua.LTable)
		if !ok {
			return
		}
		ev.Options = append(ev.Options, types.OptionDef{
			Text:     getString(ot, "text"),
			Requires: compileConditions(getTable(ot, "requires")),
			Effects:  compileEffects(getTable(ot, "effects")),
		})
	})
	return ev
}

func compileConditions(tbl *lua.LTable) []types.Condition {
	var conditions []types.Condition
	eachItem(tbl, func(v lua.LValue) {
		if condTbl, ok := v.(*lua.LTable); ok {
			conditions = append(conditions, compileCondition(condTbl))
		}
	})
	return conditions
}

func compileCondition(tbl *lua.LTable) types.Condition {
	condType := getString(tbl, "type")

	if condType == "not" {
		innerTbl := getTable(tbl, "inner")
		if innerTbl != nil {
			inner := compileCondition(innerTbl)
			return types.Condition{
				Type:   "not",
				Negate: true,
				Inner:  &inner,
			}
		}
	}

	return types.Condition{
		Type:   condType,
		Params: params(tbl),
	}
}

func compileEffects(tbl *lua.LTable) []types.Effect {
	var effects []types.Effect
	eachItem(tbl, func(v lua.LValue) {
		if effTbl, ok := v.(*lua.LTable); ok {
			effects = append(effects, types.Effect{
				Type:   getString(effTbl, "type"),
				Params: params(effTbl),
			})
		}
	})
	return effects
}

// params copies every string-keyed field except type.
func params(tbl *lua.LTable) map[string]any {
	m := map[string]any{}
	tbl.ForEach(func(k, v lua.LValue) {
		if ks, ok := k.(lua.LString); ok && ks != "type" {
			m[string(ks)] = toGoValue(v)
		}
	})
	return m
}

// sortedLuaFiles returns .lua files in a directory, with game.lua first
// and the rest sorted alphabetically.
func sortedLuaFiles(files []string) []string {
	var gameFile string
	var others []string
	for _, f := range files {
		if f == "game.lua" {
			gameFile = f
		} else {
			others = append(others, f)
		}
	}
	sort.Strings(others)
	if gameFile != "" {
		return append([]string{gameFile}, others...)
	}
	return others
}
