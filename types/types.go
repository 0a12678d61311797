// Package types defines the shared data structures for the spirecore engine.
// This package contains only type definitions and their names, no game logic.
package types

// Effect is one declarative instruction from content, compiled into
// engine actions by the effects package.
type Effect struct {
	Type   string
	Params map[string]any
}

// Condition is a predicate over run state (event options, playability).
type Condition struct {
	Type   string         // "gold_at_least", "has_relic", etc.
	Params map[string]any // condition-specific parameters
	Negate bool           // true if wrapped in Not()
	Inner  *Condition     // for Not(): the negated inner condition
}

// CardDef is the base definition of a card class.
type CardDef struct {
	ID           string
	Name         string
	Type         CardType
	Rarity       string
	Cost         int
	UpgradedCost int // -1 keeps Cost
	Target       TargetKind
	Innate       bool
	Exhaust      bool
	Ethereal     bool
	Unplayable   bool
	MaxUpgrades  int // 0 means 1
	Text         string
	Effects      []Effect
	Requires     []Condition
}

// MoveDef is one entry of a monster's move table.
type MoveDef struct {
	ID      string
	Intent  string // "attack", "defend", "buff", "debuff", "unknown"
	Weight  int
	Effects []Effect
}

// MonsterDef is the base definition of a monster.
type MonsterDef struct {
	ID      string
	Name    string
	MinHP   int
	MaxHP   int
	Pattern string // "weighted" or "cycle"
	First   string // optional opening move ID
	Moves   []MoveDef
	Start   []Effect // applied to self at combat start
}

// EncounterDef groups monsters fought together.
type EncounterDef struct {
	ID       string
	Monsters []string
	Gold     int
}

// RelicDef maps hook points to effects.
type RelicDef struct {
	ID    string
	Name  string
	Text  string
	Hooks map[Hook][]Effect
}

// PotionDef is a single-use combat item.
type PotionDef struct {
	ID      string
	Name    string
	Target  TargetKind
	Effects []Effect
}

// OptionDef is one choice inside an event.
type OptionDef struct {
	Text     string
	Requires []Condition
	Effects  []Effect
}

// EventDef is a non-combat map encounter with a list of choices.
type EventDef struct {
	ID      string
	Name    string
	Text    string
	Options []OptionDef
}

// GameDef holds content pack metadata from Lua.
type GameDef struct {
	Title   string
	Author  string
	Version string
	Intro   string
}

// Command is a parsed line of driver input.
type Command struct {
	Verb   string // "choose", "play", "use", "end", "take", ...
	Number int    // 1-based step number for "choose"
	Object string
	Target string
}
