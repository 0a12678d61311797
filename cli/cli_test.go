package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/nathoo/spirecore/engine"
	"github.com/nathoo/spirecore/engine/enginetest"
	"github.com/nathoo/spirecore/engine/replay"
)

func newTestGame(encounter string) *engine.Game {
	opts := enginetest.Options(1, encounter, "strike", "strike", "strike", "strike", "strike")
	opts.Trace = true
	return engine.New(enginetest.Content(), opts)
}

func newTestCLI(t *testing.T, encounter, input string) (*CLI, *bytes.Buffer) {
	t.Helper()
	var out bytes.Buffer
	c := &CLI{
		Session: NewSession(newTestGame(encounter), "test-run"),
		In:      strings.NewReader(input),
		Out:     &out,
	}
	return c, &out
}

func TestCLI_IntroAndFirstDecision(t *testing.T) {
	c, out := newTestCLI(t, "dummy", "/quit\n")
	c.Run()

	output := out.String()
	for _, want := range []string{
		"Test v1 by",
		"Combat: Dummy.",
		"Round 1 | Hero 80/80 HP | block 0 | energy 3/3 | 0 gold",
		"  Dummy 20/20 HP | block 0 | intends idle",
		"  1. Play Strike on Dummy",
		"  6. End turn",
		"[Goodbye.]",
	} {
		if !strings.Contains(output, want) {
			t.Errorf("expected %q in output:\n%s", want, output)
		}
	}
}

func TestCLI_NumberChoice(t *testing.T) {
	c, out := newTestCLI(t, "dummy", "1\n/quit\n")
	c.Run()

	if !strings.Contains(out.String(), "Dummy takes 6 damage.") {
		t.Errorf("expected damage line, got:\n%s", out.String())
	}
	if hp := c.Session.Game().Monsters[0].HP; hp != 14 {
		t.Errorf("dummy hp = %d, want 14", hp)
	}
}

func TestCLI_TextCommandAndAgain(t *testing.T) {
	c, _ := newTestCLI(t, "dummy", "play strike\ng\n/quit\n")
	c.Run()

	if hp := c.Session.Game().Monsters[0].HP; hp != 8 {
		t.Errorf("dummy hp = %d, want 8", hp)
	}
	if got := c.Session.Rec.Record.Choices; len(got) != 2 {
		t.Errorf("recorded choices = %v, want two", got)
	}
}

func TestCLI_AgainWithNothing(t *testing.T) {
	c, out := newTestCLI(t, "dummy", "again\n/quit\n")
	c.Run()
	if !strings.Contains(out.String(), "[Nothing to repeat.]") {
		t.Error("expected nothing-to-repeat message")
	}
}

func TestCLI_UnresolvedInput(t *testing.T) {
	c, out := newTestCLI(t, "pair", "fly\nplay strike\n/quit\n")
	c.Run()

	output := out.String()
	if !strings.Contains(output, `You can't "fly" here.`) {
		t.Errorf("expected not-found message, got:\n%s", output)
	}
	if !strings.Contains(output, "Which play strike? (Play Strike on Dummy 1, Play Strike on Dummy 2).") {
		t.Errorf("expected ambiguity message, got:\n%s", output)
	}
	if n := len(c.Session.Rec.Record.Choices); n != 0 {
		t.Errorf("unresolved input recorded %d choices", n)
	}
}

func TestCLI_HelpCommand(t *testing.T) {
	c, out := newTestCLI(t, "dummy", "/help\n/quit\n")
	c.Run()

	output := out.String()
	for _, want := range []string{"/save", "/deck", "/trace", "play <card>"} {
		if !strings.Contains(output, want) {
			t.Errorf("expected %q in help output", want)
		}
	}
}

func TestCLI_DeckAndState(t *testing.T) {
	c, out := newTestCLI(t, "dummy", "/deck\n/state\n/bogus\n/quit\n")
	c.Run()

	output := out.String()
	for _, want := range []string{
		"Deck (5 cards):",
		"  Strike x5",
		"[Run: test-run (seed 1)]",
		"[State: PlayerTurn (depth 2)]",
		"[Piles: draw 0, hand 5, discard 0, exhaust 0]",
		"[Unknown command: /bogus. Type /help for available commands.]",
	} {
		if !strings.Contains(output, want) {
			t.Errorf("expected %q in output:\n%s", want, output)
		}
	}
}

func TestCLI_Trace(t *testing.T) {
	c, out := newTestCLI(t, "dummy", "/trace\n1\n/trace\n/quit\n")
	c.Run()

	output := out.String()
	if !strings.Contains(output, "[Trace output enabled.]") || !strings.Contains(output, "[Trace output disabled.]") {
		t.Error("expected trace toggle messages")
	}
	if !strings.Contains(output, "[trace] step   Play Strike on Dummy") {
		t.Errorf("expected step trace line, got:\n%s", output)
	}
	if !strings.Contains(output, "[trace] action DamageAction") {
		t.Errorf("expected action trace line, got:\n%s", output)
	}
	if strings.Contains(output, "[trace] state  RunState") {
		t.Error("entries from before the toggle should not be shown")
	}
}

func TestCLI_SaveReplay(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.json")
	c, out := newTestCLI(t, "dummy", "1\n2\n/save "+path+"\n/quit\n")
	c.Run()

	if !strings.Contains(out.String(), "(2 choices)") {
		t.Errorf("expected save confirmation, got:\n%s", out.String())
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading replay: %v", err)
	}
	rec, err := replay.Load(data)
	if err != nil {
		t.Fatal(err)
	}
	if rec.RunID != "test-run" || len(rec.Choices) != 2 {
		t.Errorf("record = %+v", rec)
	}

	again := newTestGame("dummy")
	if err := replay.Replay(again, rec); err != nil {
		t.Fatal(err)
	}
	if again.Monsters[0].HP != c.Session.Game().Monsters[0].HP {
		t.Error("replayed game diverged")
	}
}

func TestCLI_RunOver(t *testing.T) {
	c, out := newTestCLI(t, "dummy", "1\n1\n1\nend\n1\n1\n/quit\n")
	c.Run()

	output := out.String()
	if !strings.Contains(output, "=== VICTORY on floor 1 ===") {
		t.Errorf("expected victory banner, got:\n%s", output)
	}
	if !strings.Contains(output, "[The run is over. Type /quit to exit.]") {
		t.Error("expected run-over message for input after the end")
	}
}

func TestCLI_ScriptEchoAndComments(t *testing.T) {
	c, out := newTestCLI(t, "dummy", "# opening\n\nplay strike\n")
	c.EchoInput = true
	c.Run()

	output := out.String()
	if strings.Contains(output, "# opening") {
		t.Error("comment lines should be skipped")
	}
	if !strings.Contains(output, "> play strike\n") {
		t.Errorf("expected echoed input, got:\n%s", output)
	}
}

func TestStatus_OutOfCombat(t *testing.T) {
	g := engine.New(enginetest.Content(), engine.Options{
		Seed:   1,
		Player: engine.PlayerSetup{Name: "Hero", HP: 50, Energy: 3, Gold: 12, Deck: []string{"strike"}},
		Path:   []engine.Node{{Kind: "campfire"}},
	})
	g.Steps()
	got := Status(g)
	if len(got) != 1 || got[0] != "Floor 1 | Hero 50/50 HP | 12 gold" {
		t.Errorf("Status = %q", got)
	}
}
