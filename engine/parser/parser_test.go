package parser

import (
	"testing"

	"github.com/nathoo/spirecore/types"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  types.Command
	}{
		// Empty / whitespace
		{
			name:  "empty string",
			input: "",
			want:  types.Command{},
		},
		{
			name:  "whitespace only",
			input: "   ",
			want:  types.Command{},
		},

		// Step numbers
		{
			name:  "number",
			input: "3",
			want:  types.Command{Verb: "choose", Number: 3},
		},
		{
			name:  "number with spaces",
			input: " 12 ",
			want:  types.Command{Verb: "choose", Number: 12},
		},

		// Turn
		{
			name:  "end",
			input: "end",
			want:  types.Command{Verb: "end"},
		},
		{
			name:  "e → end",
			input: "e",
			want:  types.Command{Verb: "end"},
		},
		{
			name:  "end turn → end",
			input: "End Turn",
			want:  types.Command{Verb: "end"},
		},

		// Cards
		{
			name:  "play card",
			input: "play defend",
			want:  types.Command{Verb: "play", Object: "defend"},
		},
		{
			name:  "play card on target",
			input: "play strike on cultist",
			want:  types.Command{Verb: "play", Object: "strike", Target: "cultist"},
		},
		{
			name:  "multi-word card and target",
			input: "play pommel strike on the jaw worm",
			want:  types.Command{Verb: "play", Object: "pommel strike", Target: "jaw worm"},
		},
		{
			name:  "p → play, at as delimiter",
			input: "p bash at louse 2",
			want:  types.Command{Verb: "play", Object: "bash", Target: "louse 2"},
		},
		{
			name:  "upgraded card name",
			input: "play Strike+",
			want:  types.Command{Verb: "play", Object: "strike+"},
		},

		// Potions
		{
			name:  "drink → use",
			input: "drink block potion",
			want:  types.Command{Verb: "use", Object: "block potion"},
		},
		{
			name:  "throw potion on target",
			input: "throw fire potion at cultist",
			want:  types.Command{Verb: "use", Object: "fire potion", Target: "cultist"},
		},

		// Rewards, shops, campfires
		{
			name:  "take",
			input: "take",
			want:  types.Command{Verb: "take"},
		},
		{
			name:  "pick up → take",
			input: "pick up anger",
			want:  types.Command{Verb: "take", Object: "anger"},
		},
		{
			name:  "skip",
			input: "skip",
			want:  types.Command{Verb: "skip"},
		},
		{
			name:  "purchase → buy",
			input: "purchase the cleave",
			want:  types.Command{Verb: "buy", Object: "cleave"},
		},
		{
			name:  "sleep → rest",
			input: "sleep",
			want:  types.Command{Verb: "rest"},
		},
		{
			name:  "smith",
			input: "smith",
			want:  types.Command{Verb: "smith"},
		},
		{
			name:  "upgrade card",
			input: "upgrade bash",
			want:  types.Command{Verb: "upgrade", Object: "bash"},
		},
		{
			name:  "go back → back",
			input: "go back",
			want:  types.Command{Verb: "back"},
		},
		{
			name:  "exit → leave",
			input: "exit",
			want:  types.Command{Verb: "leave"},
		},

		// Free text passes through, for event options
		{
			name:  "event option",
			input: "pray",
			want:  types.Command{Verb: "pray"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Parse(tt.input)
			if got != tt.want {
				t.Errorf("Parse(%q) = %+v, want %+v", tt.input, got, tt.want)
			}
		})
	}
}

func TestParseDescription(t *testing.T) {
	tests := []struct {
		desc string
		want types.Command
	}{
		{"Play Strike on Jaw Worm 2", types.Command{Verb: "play", Object: "strike", Target: "jaw worm 2"}},
		{"Play Defend+", types.Command{Verb: "play", Object: "defend+"}},
		{"End turn", types.Command{Verb: "end", Object: "turn"}},
		{"Buy Bash (60 gold)", types.Command{Verb: "buy", Object: "bash"}},
		{"Rest (heal 24)", types.Command{Verb: "rest"}},
		{"Take the gold", types.Command{Verb: "take", Object: "gold"}},
		{"", types.Command{}},
	}
	for _, tt := range tests {
		if got := ParseDescription(tt.desc); got != tt.want {
			t.Errorf("ParseDescription(%q) = %+v, want %+v", tt.desc, got, tt.want)
		}
	}
}
