// Package parser converts driver input into Command structs.
// Intentionally dumb: no NLP, just pattern matching.
package parser

import (
	"strconv"
	"strings"

	"github.com/nathoo/spirecore/types"
)

var verbAliases = map[string]string{
	// Cards
	"p":    "play",
	"cast": "play",

	// Potions
	"drink": "use",
	"quaff": "use",
	"throw": "use",
	"u":     "use",

	// Turn
	"e":    "end",
	"done": "end",
	"pass": "skip",

	// Rewards and shops
	"get":      "take",
	"grab":     "take",
	"pick":     "take",
	"purchase": "buy",
	"b":        "buy",

	// Campfire
	"sleep": "rest",
	"heal":  "rest",
	"forge": "smith",

	// Navigation
	"exit":   "leave",
	"out":    "leave",
	"return": "back",
	"cancel": "back",
}

var prepositions = map[string]bool{
	"on": true, "at": true,
}

var articles = map[string]bool{
	"the": true, "a": true, "an": true,
}

// Parse converts a raw input string into a Command. A bare number selects
// a step by its position in the list shown to the player.
func Parse(input string) types.Command {
	input = strings.TrimSpace(input)
	if input == "" {
		return types.Command{}
	}

	if n, err := strconv.Atoi(input); err == nil {
		return types.Command{Verb: "choose", Number: n}
	}

	words := strings.Fields(strings.ToLower(input))

	// "end turn" and "pick up" carry no object.
	words = expandMultiWordVerbs(words)

	// Apply verb aliases.
	if alias, ok := verbAliases[words[0]]; ok {
		words[0] = alias
	}

	verb := words[0]
	rest := stripArticles(words[1:])

	// Use the first preposition as a delimiter between object and target.
	object, target := splitOnPreposition(rest)

	return types.Command{
		Verb:   verb,
		Object: object,
		Target: target,
	}
}

// ParseDescription parses a step description the same way as input, so
// steps and input can be compared field by field. A trailing
// parenthetical such as "(60 gold)" is dropped.
func ParseDescription(desc string) types.Command {
	if i := strings.Index(desc, " ("); i >= 0 && strings.HasSuffix(desc, ")") {
		desc = desc[:i]
	}
	words := strings.Fields(strings.ToLower(desc))
	if len(words) == 0 {
		return types.Command{}
	}
	object, target := splitOnPreposition(stripArticles(words[1:]))
	return types.Command{Verb: words[0], Object: object, Target: target}
}

// expandMultiWordVerbs handles "end turn", "pick up" and "go back".
func expandMultiWordVerbs(words []string) []string {
	if len(words) < 2 {
		return words
	}

	switch words[0] {
	case "end":
		if words[1] == "turn" {
			return append([]string{"end"}, words[2:]...)
		}
	case "pick":
		if words[1] == "up" {
			return append([]string{"take"}, words[2:]...)
		}
	case "go":
		if words[1] == "back" {
			return append([]string{"back"}, words[2:]...)
		}
	}

	return words
}

// stripArticles removes articles ("the", "a", "an") from the word list.
func stripArticles(words []string) []string {
	result := make([]string, 0, len(words))
	for _, w := range words {
		if !articles[w] {
			result = append(result, w)
		}
	}
	return result
}

// splitOnPreposition splits words on the first preposition.
// Words before the preposition become the object, words after become the target.
// If no preposition is found, all words become the object.
func splitOnPreposition(words []string) (object, target string) {
	for i, w := range words {
		if prepositions[w] {
			object = strings.Join(words[:i], " ")
			target = strings.Join(words[i+1:], " ")
			return object, target
		}
	}
	return strings.Join(words, " "), ""
}
