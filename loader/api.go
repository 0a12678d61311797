package loader

import (
	lua "github.com/yuin/gopher-lua"
)

// registerAPI registers all Lua constructors and helpers as globals.
func registerAPI(L *lua.LState, coll *collector) {
	registerConstructors(L, coll)
	registerConditionHelpers(L)
	registerEffectHelpers(L)
}

// rawDef holds a definition table before compilation.
type rawDef struct {
	id    string
	table *lua.LTable
}

// curried returns a constructor of the form Kind "id" { ... } that
// appends to dst.
func curried(L *lua.LState, dst *[]rawDef) *lua.LFunction {
	return L.NewFunction(func(L *lua.LState) int {
		id := L.CheckString(1)
		L.Push(L.NewFunction(func(L *lua.LState) int {
			tbl := L.CheckTable(1)
			*dst = append(*dst, rawDef{id: id, table: tbl})
			return 0
		}))
		return 1
	})
}

// marker returns a constructor of the form Kind "key" { ... } that
// returns its table with key stored under field, for nesting inside
// another definition.
func marker(L *lua.LState, field string) *lua.LFunction {
	return L.NewFunction(func(L *lua.LState) int {
		key := L.CheckString(1)
		L.Push(L.NewFunction(func(L *lua.LState) int {
			tbl := L.OptTable(1, L.NewTable())
			tbl.RawSetString(field, lua.LString(key))
			L.Push(tbl)
			return 1
		}))
		return 1
	})
}

func registerConstructors(L *lua.LState, coll *collector) {
	// Game { title = "...", ... }
	L.SetGlobal("Game", L.NewFunction(func(L *lua.LState) int {
		tbl := L.CheckTable(1)
		coll.game = tbl
		return 0
	}))

	// Card "id" { ... } and friends, all curried.
	L.SetGlobal("Card", curried(L, &coll.cards))
	L.SetGlobal("Monster", curried(L, &coll.monsters))
	L.SetGlobal("Encounter", curried(L, &coll.encounters))
	L.SetGlobal("Relic", curried(L, &coll.relics))
	L.SetGlobal("Potion", curried(L, &coll.potions))
	L.SetGlobal("Event", curried(L, &coll.events))

	// Move "id" { ... } inside a monster's moves list.
	L.SetGlobal("Move", marker(L, "id"))

	// Option "text" { ... } inside an event's options list.
	L.SetGlobal("Option", marker(L, "text"))
}

type argKind int

const (
	strArg argKind = iota
	numArg
)

type arg struct {
	key  string
	kind argKind
}

// helper builds a Lua function returning {type = typ, <args>...}. An
// optional trailing table is merged in, so Damage(6, {plus = 3}) yields
// {type = "damage", amount = 6, plus = 3}.
func helper(typ string, args ...arg) lua.LGFunction {
	return func(L *lua.LState) int {
		tbl := L.NewTable()
		tbl.RawSetString("type", lua.LString(typ))
		for i, a := range args {
			switch a.kind {
			case strArg:
				tbl.RawSetString(a.key, lua.LString(L.CheckString(i+1)))
			case numArg:
				tbl.RawSetString(a.key, L.CheckNumber(i+1))
			}
		}
		if opts, ok := L.Get(len(args) + 1).(*lua.LTable); ok {
			opts.ForEach(func(k, v lua.LValue) {
				if ks, ok := k.(lua.LString); ok && ks != "type" {
					tbl.RawSetString(string(ks), v)
				}
			})
		}
		L.Push(tbl)
		return 1
	}
}

func registerConditionHelpers(L *lua.LState) {
	amount := arg{"amount", numArg}
	helpers := map[string]lua.LGFunction{
		"GoldAtLeast":     helper("gold_at_least", amount),
		"HPAbove":         helper("hp_above", amount),
		"HPBelow":         helper("hp_below", amount),
		"HasRelic":        helper("has_relic", arg{"relic", strArg}),
		"HasPotionSlot":   helper("has_potion_slot"),
		"DeckSizeAtLeast": helper("deck_size_at_least", amount),
		"FloorAtLeast":    helper("floor_at_least", amount),
	}
	for name, fn := range helpers {
		L.SetGlobal(name, L.NewFunction(fn))
	}

	// Not(condition)
	L.SetGlobal("Not", L.NewFunction(func(L *lua.LState) int {
		inner := L.CheckTable(1)
		tbl := L.NewTable()
		tbl.RawSetString("type", lua.LString("not"))
		tbl.RawSetString("inner", inner)
		L.Push(tbl)
		return 1
	}))
}

func registerEffectHelpers(L *lua.LState) {
	amount := arg{"amount", numArg}
	helpers := map[string]lua.LGFunction{
		"Damage":       helper("damage", amount),
		"DamageAll":    helper("damage_all", amount),
		"Block":        helper("block", amount),
		"Draw":         helper("draw", amount),
		"GainEnergy":   helper("gain_energy", amount),
		"ApplyStatus":  helper("apply_status", arg{"status", strArg}, amount),
		"GainStrength": helper("gain_strength", amount),
		"Heal":         helper("heal", amount),
		"LoseHP":       helper("lose_hp", amount),
		"AddCard":      helper("add_card", arg{"card", strArg}),
		"ShuffleIn":    helper("shuffle_in", arg{"card", strArg}),
		"GainGold":     helper("gain_gold", amount),
		"ObtainRelic":  helper("obtain_relic", arg{"relic", strArg}),
		"ObtainPotion": helper("obtain_potion", arg{"potion", strArg}),
		"Say":          helper("say", arg{"text", strArg}),
	}
	for name, fn := range helpers {
		L.SetGlobal(name, L.NewFunction(fn))
	}
}
