package types

// CardType classifies a card.
type CardType int

const (
	Attack CardType = iota
	Skill
	Power
	StatusCard
	Curse
)

var cardTypeNames = []string{"attack", "skill", "power", "status", "curse"}

func (t CardType) String() string {
	if int(t) < len(cardTypeNames) {
		return cardTypeNames[t]
	}
	return "unknown"
}

// ParseCardType maps a content name to a CardType.
func ParseCardType(s string) (CardType, bool) {
	for i, n := range cardTypeNames {
		if n == s {
			return CardType(i), true
		}
	}
	return 0, false
}

// TargetKind says what a card or potion must be aimed at.
type TargetKind int

const (
	TargetNone TargetKind = iota
	TargetEnemy
	TargetAllEnemies
	TargetSelf
)

var targetNames = []string{"none", "enemy", "all_enemies", "self"}

func (k TargetKind) String() string {
	if int(k) < len(targetNames) {
		return targetNames[k]
	}
	return "unknown"
}

// ParseTargetKind maps a content name to a TargetKind.
func ParseTargetKind(s string) (TargetKind, bool) {
	if s == "" {
		return TargetNone, true
	}
	for i, n := range targetNames {
		if n == s {
			return TargetKind(i), true
		}
	}
	return 0, false
}

// Status is a stackable creature effect.
type Status int

const (
	Strength Status = iota
	Dexterity
	Vulnerable
	Weak
	Frail
	Poison
	Ritual
	Metallicize
	Thorns
	Artifact
	NumStatuses
)

var statusNames = [NumStatuses]string{
	"strength", "dexterity", "vulnerable", "weak", "frail",
	"poison", "ritual", "metallicize", "thorns", "artifact",
}

func (s Status) String() string {
	if s >= 0 && s < NumStatuses {
		return statusNames[s]
	}
	return "unknown"
}

// ParseStatus maps a content name to a Status.
func ParseStatus(name string) (Status, bool) {
	for i, n := range statusNames {
		if n == name {
			return Status(i), true
		}
	}
	return 0, false
}

// IsDebuff reports whether artifact blocks the status.
func (s Status) IsDebuff() bool {
	switch s {
	case Vulnerable, Weak, Frail, Poison:
		return true
	}
	return false
}

// Hook names a point in the turn cycle where relics may trigger.
type Hook string

const (
	HookPreCombat    Hook = "pre_combat"
	HookTurnPreDraw  Hook = "turn_begin_pre_draw"
	HookTurnPostDraw Hook = "turn_begin_post_draw"
	HookTurnEnd      Hook = "turn_end"
	HookCombatFinish Hook = "combat_finish"
	HookShuffle      Hook = "on_shuffle"
)

// Hooks lists every hook point in dispatch-table order.
var Hooks = []Hook{
	HookPreCombat, HookTurnPreDraw, HookTurnPostDraw,
	HookTurnEnd, HookCombatFinish, HookShuffle,
}

// PileKind names a card pile.
type PileKind string

const (
	PileHand       PileKind = "hand"
	PileDraw       PileKind = "draw"
	PileDrawTop    PileKind = "draw_top"
	PileDrawBottom PileKind = "draw_bottom"
	PileDiscard    PileKind = "discard"
	PileExhaust    PileKind = "exhaust"
	PileDeck       PileKind = "deck"
)

// NodeKind names a map node type.
type NodeKind string

const (
	NodeCombat   NodeKind = "combat"
	NodeCampfire NodeKind = "campfire"
	NodeEvent    NodeKind = "event"
	NodeShop     NodeKind = "shop"
	NodeTreasure NodeKind = "treasure"
)
