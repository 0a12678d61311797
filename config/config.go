// Package config reads the YAML run configuration: seed, content pack,
// starting character, reward pool and the path of map nodes.
package config

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/log"
	"gopkg.in/yaml.v3"

	"github.com/nathoo/spirecore/engine"
	"github.com/nathoo/spirecore/types"
)

// Config is one run's setup.
type Config struct {
	Seed     int64   `yaml:"seed"`
	LogLevel string  `yaml:"log_level"`
	Content  string  `yaml:"content"`
	Player   Player  `yaml:"player"`
	Rewards  Rewards `yaml:"rewards"`
	Path     []Node  `yaml:"path"`
}

// Player is the starting character.
type Player struct {
	Name        string   `yaml:"name"`
	HP          int      `yaml:"hp"`
	Energy      int      `yaml:"energy"`
	Gold        int      `yaml:"gold"`
	PotionSlots int      `yaml:"potion_slots"`
	HandSize    int      `yaml:"hand_size"`
	Deck        []string `yaml:"deck"`
	Relics      []string `yaml:"relics,omitempty"`
	Potions     []string `yaml:"potions,omitempty"`
}

// Rewards controls the card offered after each won combat.
type Rewards struct {
	CardChoices int      `yaml:"card_choices"`
	Pool        []string `yaml:"pool"`
}

// Node is one map node. Which fields apply depends on Kind.
type Node struct {
	Kind      string  `yaml:"kind"`
	Encounter string  `yaml:"encounter,omitempty"`
	Event     string  `yaml:"event,omitempty"`
	Relic     string  `yaml:"relic,omitempty"`
	Cards     []Offer `yaml:"cards,omitempty"`
	Potions   []Offer `yaml:"potions,omitempty"`
}

// Offer is a priced shop item. Exactly one of Card and Potion is set.
type Offer struct {
	Card   string `yaml:"card,omitempty"`
	Potion string `yaml:"potion,omitempty"`
	Price  int    `yaml:"price"`
}

// Default returns the built-in run against the base content pack.
func Default() *Config {
	return &Config{
		Seed:     42,
		LogLevel: "info",
		Content:  "content/base",
		Player: Player{
			Name:        "Ironclad",
			HP:          80,
			Energy:      3,
			Gold:        99,
			PotionSlots: 3,
			HandSize:    5,
			Deck: []string{
				"strike", "strike", "strike", "strike", "strike",
				"defend", "defend", "defend", "defend", "bash",
			},
			Relics: []string{"burning_blood"},
		},
		Rewards: Rewards{
			CardChoices: 3,
			Pool: []string{
				"anger", "cleave", "pommel_strike", "twin_strike", "iron_wave",
				"shrug_it_off", "clothesline", "inflame", "metallicize", "wild_strike",
			},
		},
		Path: []Node{
			{Kind: "combat", Encounter: "cultist"},
			{Kind: "event", Event: "golden_shrine"},
			{Kind: "combat", Encounter: "jaw_worm"},
			{Kind: "campfire"},
			{
				Kind:    "shop",
				Cards:   []Offer{{Card: "anger", Price: 50}, {Card: "inflame", Price: 75}},
				Potions: []Offer{{Potion: "fire_potion", Price: 40}},
			},
			{Kind: "combat", Encounter: "two_louses"},
			{Kind: "treasure", Relic: "anchor"},
			{Kind: "combat", Encounter: "spiker"},
		},
	}
}

// Load reads a YAML file over the defaults, so fields the file leaves
// out keep their default values. Unknown fields are rejected.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	return Parse(data)
}

// Parse decodes YAML bytes over the defaults and validates the result.
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks values that do not depend on content.
func (c *Config) Validate() error {
	var problems []string
	bad := func(format string, args ...any) {
		problems = append(problems, fmt.Sprintf(format, args...))
	}

	if _, err := log.ParseLevel(c.LogLevel); err != nil {
		bad("log_level %q: %v", c.LogLevel, err)
	}
	if c.Content == "" {
		bad("content directory is required")
	}

	p := c.Player
	if p.HP <= 0 {
		bad("player.hp must be positive, got %d", p.HP)
	}
	if p.Energy <= 0 {
		bad("player.energy must be positive, got %d", p.Energy)
	}
	if p.HandSize <= 0 {
		bad("player.hand_size must be positive, got %d", p.HandSize)
	}
	if p.Gold < 0 || p.PotionSlots < 0 {
		bad("player.gold and player.potion_slots must not be negative")
	}
	if len(p.Deck) == 0 {
		bad("player.deck is empty")
	}
	if len(p.Potions) > p.PotionSlots {
		bad("player has %d potions but %d slots", len(p.Potions), p.PotionSlots)
	}
	if c.Rewards.CardChoices < 0 {
		bad("rewards.card_choices must not be negative")
	}

	for i, n := range c.Path {
		where := fmt.Sprintf("path[%d] (%s)", i, n.Kind)
		switch types.NodeKind(n.Kind) {
		case types.NodeCombat:
			if n.Encounter == "" {
				bad("%s: encounter is required", where)
			}
		case types.NodeEvent:
			if n.Event == "" {
				bad("%s: event is required", where)
			}
		case types.NodeTreasure:
			if n.Relic == "" {
				bad("%s: relic is required", where)
			}
		case types.NodeShop:
			for j, o := range n.Cards {
				if o.Card == "" || o.Potion != "" {
					bad("%s: cards[%d] must name a card", where, j)
				}
				if o.Price < 0 {
					bad("%s: cards[%d] has negative price", where, j)
				}
			}
			for j, o := range n.Potions {
				if o.Potion == "" || o.Card != "" {
					bad("%s: potions[%d] must name a potion", where, j)
				}
				if o.Price < 0 {
					bad("%s: potions[%d] has negative price", where, j)
				}
			}
		case types.NodeCampfire:
		default:
			bad("%s: unknown node kind", where)
		}
	}

	if len(problems) > 0 {
		return fmt.Errorf("invalid config:\n  %s", strings.Join(problems, "\n  "))
	}
	return nil
}

// Check verifies that every id the config names exists in content.
func (c *Config) Check(content *engine.Content) error {
	var missing []string
	need := func(kind, id string, ok bool) {
		if !ok {
			missing = append(missing, fmt.Sprintf("%s %q", kind, id))
		}
	}
	card := func(id string) {
		_, ok := content.Cards[id]
		need("card", id, ok)
	}
	relic := func(id string) {
		_, ok := content.Relics[id]
		need("relic", id, ok)
	}
	potion := func(id string) {
		_, ok := content.Potions[id]
		need("potion", id, ok)
	}

	for _, id := range c.Player.Deck {
		card(id)
	}
	for _, id := range c.Player.Relics {
		relic(id)
	}
	for _, id := range c.Player.Potions {
		potion(id)
	}
	for _, id := range c.Rewards.Pool {
		card(id)
	}
	for _, n := range c.Path {
		switch types.NodeKind(n.Kind) {
		case types.NodeCombat:
			_, ok := content.Encounters[n.Encounter]
			need("encounter", n.Encounter, ok)
		case types.NodeEvent:
			_, ok := content.Events[n.Event]
			need("event", n.Event, ok)
		case types.NodeTreasure:
			relic(n.Relic)
		case types.NodeShop:
			for _, o := range n.Cards {
				card(o.Card)
			}
			for _, o := range n.Potions {
				potion(o.Potion)
			}
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("config references unknown content: %s", strings.Join(missing, ", "))
	}
	return nil
}

// Level returns the parsed log level, or info if it does not parse.
func (c *Config) Level() log.Level {
	lvl, err := log.ParseLevel(c.LogLevel)
	if err != nil {
		return log.InfoLevel
	}
	return lvl
}

// Options converts the config into engine options. The caller sets the
// logger and trace flag.
func (c *Config) Options() engine.Options {
	p := c.Player
	opts := engine.Options{
		Seed: c.Seed,
		Player: engine.PlayerSetup{
			Name:        p.Name,
			HP:          p.HP,
			Energy:      p.Energy,
			Gold:        p.Gold,
			PotionSlots: p.PotionSlots,
			HandSize:    p.HandSize,
			Deck:        p.Deck,
			Relics:      p.Relics,
			Potions:     p.Potions,
		},
		Rewards: engine.RewardSetup{Choices: c.Rewards.CardChoices, Pool: c.Rewards.Pool},
	}
	for _, n := range c.Path {
		node := engine.Node{
			Kind:      types.NodeKind(n.Kind),
			Encounter: n.Encounter,
			Event:     n.Event,
			Relic:     n.Relic,
		}
		for _, o := range n.Cards {
			node.Cards = append(node.Cards, engine.Offer{ID: o.Card, Price: o.Price})
		}
		for _, o := range n.Potions {
			node.Potions = append(node.Potions, engine.Offer{ID: o.Potion, Price: o.Price})
		}
		opts.Path = append(opts.Path, node)
	}
	return opts
}
