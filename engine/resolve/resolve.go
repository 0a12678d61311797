// Package resolve maps a parsed command onto one of the legal steps.
package resolve

import (
	"fmt"
	"strings"

	"github.com/nathoo/spirecore/engine"
	"github.com/nathoo/spirecore/engine/parser"
	"github.com/nathoo/spirecore/types"
)

// AmbiguityError indicates several distinct steps matched a command.
type AmbiguityError struct {
	Input      string
	Candidates []string
}

func (e *AmbiguityError) Error() string {
	names := strings.Join(e.Candidates, ", ")
	return fmt.Sprintf("which %s? (%s)", e.Input, names)
}

// NotFoundError indicates no step matched a command.
type NotFoundError struct {
	Input string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("you can't %q here", e.Input)
}

// Resolve picks the step a command refers to. Steps with identical
// descriptions are interchangeable, so the first one stands for all.
func Resolve(g *engine.Game, steps []engine.Step, cmd types.Command) (engine.Step, error) {
	if cmd.Verb == "choose" {
		if cmd.Number < 1 || cmd.Number > len(steps) {
			return nil, &NotFoundError{Input: fmt.Sprint(cmd.Number)}
		}
		return steps[cmd.Number-1], nil
	}

	var (
		found []engine.Step
		descs []string
		best  int
	)
	for _, s := range steps {
		desc := s.Describe(g)
		score := match(parser.ParseDescription(desc), cmd)
		switch {
		case score == noMatch || score < best || containsStr(descs, desc):
			continue
		case score > best:
			found, descs, best = nil, nil, score
		}
		found = append(found, s)
		descs = append(descs, desc)
	}

	switch len(found) {
	case 0:
		return nil, &NotFoundError{Input: input(cmd)}
	case 1:
		return found[0], nil
	default:
		return nil, &AmbiguityError{Input: input(cmd), Candidates: descs}
	}
}

const (
	noMatch = iota
	partial
	exact
)

// match scores a step's parsed description against a command. Empty
// command fields match anything exactly; the weaker field decides.
func match(step, cmd types.Command) int {
	if step.Verb != cmd.Verb {
		return noMatch
	}
	return min(nameScore(step.Object, cmd.Object), nameScore(step.Target, cmd.Target))
}

// nameScore checks if a display name matches the query (both lower case).
// Supports exact match, word-based partial match, and ids with underscores.
func nameScore(name, query string) int {
	if query == "" {
		return exact
	}
	base := strings.TrimRight(name, "+")
	if name == query || base == query || base == strings.ReplaceAll(query, "_", " ") {
		return exact
	}
	// Word-based partial match: query matches any word in the name.
	// e.g. "worm" matches "jaw worm", "strike" matches "pommel strike".
	for _, word := range strings.Fields(name) {
		if word == query || strings.TrimRight(word, "+") == query {
			return partial
		}
	}
	return noMatch
}

func input(cmd types.Command) string {
	parts := []string{cmd.Verb}
	if cmd.Object != "" {
		parts = append(parts, cmd.Object)
	}
	if cmd.Target != "" {
		parts = append(parts, "on", cmd.Target)
	}
	return strings.Join(parts, " ")
}

func containsStr(slice []string, s string) bool {
	for _, v := range slice {
		if v == s {
			return true
		}
	}
	return false
}
