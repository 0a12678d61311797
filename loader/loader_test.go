package loader

import (
	"errors"
	"strings"
	"testing"

	"github.com/nathoo/spirecore/engine"
	"github.com/nathoo/spirecore/types"
)

func TestLoad_MinimalPack(t *testing.T) {
	c, err := Load("testdata/minimal")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if c.Game.Title != "Minimal Test Pack" {
		t.Errorf("Title = %q, want %q", c.Game.Title, "Minimal Test Pack")
	}
	strike, ok := c.Cards["strike"]
	if !ok {
		t.Fatal("card 'strike' not found")
	}
	if strike.Name != "Strike" || strike.Play == nil {
		t.Errorf("strike = %+v", strike)
	}
	if strike.Playable != nil {
		t.Error("card without requires should have no Playable predicate")
	}
	if c.Monsters["dummy"].NewBehavior == nil {
		t.Error("monster has no behavior factory")
	}
	if c.Encounters["dummy"].Gold != 10 {
		t.Errorf("gold = %d, want 10", c.Encounters["dummy"].Gold)
	}
}

func TestLoad_MinimalPackPlays(t *testing.T) {
	c, err := Load("testdata/minimal")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	g := engine.New(c, engine.Options{
		Seed:   1,
		Player: engine.PlayerSetup{Name: "Hero", HP: 20, Energy: 3, HandSize: 5, Deck: []string{"strike", "strike", "strike", "strike"}},
		Path:   []engine.Node{{Kind: types.NodeCombat, Encounter: "dummy"}},
	})

	g.Steps()
	if got := g.Intent(g.Monsters[0]); got != "attack (poke)" {
		t.Errorf("intent = %q, want attack (poke)", got)
	}
	for i := 0; i < 3; i++ {
		playFirst(t, g)
	}
	if hp := g.Monsters[0].HP; hp != 2 {
		t.Fatalf("dummy hp = %d, want 2", hp)
	}
	g.RunStep(engine.EndTurnStep{})
	if g.Player.HP != 17 {
		t.Errorf("player hp = %d, want 17", g.Player.HP)
	}
	playFirst(t, g)
	if g.Gold != 10 {
		t.Errorf("gold = %d, want 10", g.Gold)
	}
	if out, over := g.Over(); !over || out != engine.Victory {
		t.Errorf("Over() = %v, %v, want victory", out, over)
	}
}

// playFirst plays the first offered card.
func playFirst(t *testing.T, g *engine.Game) {
	t.Helper()
	for _, s := range g.Steps() {
		if _, ok := s.(engine.PlayCardStep); ok {
			g.RunStep(s)
			return
		}
	}
	t.Fatal("no card play offered")
}

func TestLoad_BasePack(t *testing.T) {
	defs, err := LoadDefs("../content/base")
	if err != nil {
		t.Fatalf("LoadDefs failed: %v", err)
	}
	warnings, err := Validate(defs)
	if err != nil {
		t.Fatalf("Validate failed: %v", err)
	}
	if len(warnings) != 0 {
		t.Errorf("unexpected warnings: %v", warnings)
	}
	c, err := Build(defs)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	for _, id := range []string{"strike", "defend", "bash", "anger", "wound"} {
		if _, ok := c.Cards[id]; !ok {
			t.Errorf("card %q missing", id)
		}
	}
	if c.Cards["bloodletting"].Playable == nil {
		t.Error("bloodletting should carry its HP requirement")
	}
	if c.Monsters["jaw_worm"].MinHP != 40 || c.Monsters["jaw_worm"].MaxHP != 44 {
		t.Errorf("jaw_worm hp = %+v", c.Monsters["jaw_worm"])
	}
	if c.Monsters["cultist"].Start == nil {
		t.Error("cultist should have a start effect")
	}
	if len(c.Events["golden_shrine"].Options) != 3 {
		t.Errorf("golden_shrine options = %d", len(c.Events["golden_shrine"].Options))
	}
	if _, ok := c.Relics["burning_blood"].Hooks[types.HookCombatFinish]; !ok {
		t.Error("burning_blood has no combat_finish hook")
	}
}

func TestLoad_BasePackCultist(t *testing.T) {
	c, err := Load("../content/base")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	g := engine.New(c, engine.Options{
		Seed:   7,
		Player: engine.PlayerSetup{Name: "Hero", HP: 80, Energy: 3, HandSize: 5, Deck: []string{"defend", "defend", "defend", "defend", "defend"}},
		Path:   []engine.Node{{Kind: types.NodeCombat, Encounter: "cultist"}},
	})
	g.Steps()

	m := g.Monsters[0]
	if m.HP < 48 || m.HP > 54 {
		t.Errorf("cultist hp = %d, want within [48, 54]", m.HP)
	}
	if m.Has(types.Ritual) != 3 {
		t.Errorf("ritual = %d, want 3", m.Has(types.Ritual))
	}
	if got := g.Intent(m); got != "attack (dark_strike)" {
		t.Errorf("intent = %q", got)
	}

	// Ritual grants strength at the end of the cultist's turn.
	g.RunStep(engine.EndTurnStep{})
	if g.Player.HP != 74 {
		t.Errorf("player hp = %d, want 74", g.Player.HP)
	}
	if m.Has(types.Strength) != 3 {
		t.Errorf("strength = %d, want 3", m.Has(types.Strength))
	}
}

func TestLoad_InvalidRefs_Fails(t *testing.T) {
	_, err := Load("testdata/badrefs")
	if err == nil {
		t.Fatal("expected error for invalid references")
	}
	var ve *ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected *ValidationError, got %T", err)
	}
	for _, want := range []string{
		`undefined card "ghost"`,
		`undefined monster "missing"`,
		`first move "roar"`,
		`undefined relic "idol"`,
		`undefined potion "elixir"`,
	} {
		assertContains(t, ve.Errors, want)
	}
	assertContains(t, ve.Warnings, `encounter "crowd" awards no gold`)
}

func TestLoad_BadParams_FailsAtBuild(t *testing.T) {
	_, err := Load("testdata/badparams")
	if err == nil {
		t.Fatal("expected error for an unknown status")
	}
	var ve *ValidationError
	if errors.As(err, &ve) {
		t.Fatalf("unknown status should fail compilation, not validation: %v", err)
	}
	if !strings.Contains(err.Error(), `card lullaby`) || !strings.Contains(err.Error(), `unknown status "sleepy"`) {
		t.Errorf("err = %v", err)
	}
}

func TestLoad_BadLuaSyntax_Fails(t *testing.T) {
	_, err := Load("testdata/syntax")
	if err == nil || !strings.Contains(err.Error(), "executing game.lua") {
		t.Fatalf("err = %v, want executing error", err)
	}
}

func TestLoad_NoGameDef_Fails(t *testing.T) {
	_, err := Load("testdata/nogame")
	if err == nil || !strings.Contains(err.Error(), "no Game{} definition found") {
		t.Fatalf("err = %v", err)
	}
}

func TestLoad_NoLuaFiles_Fails(t *testing.T) {
	_, err := Load("testdata/empty")
	if err == nil || !strings.Contains(err.Error(), "no .lua files") {
		t.Fatalf("err = %v", err)
	}
}

func TestLoad_MissingDir_Fails(t *testing.T) {
	if _, err := Load("testdata/does_not_exist"); err == nil {
		t.Fatal("expected error for missing directory")
	}
}

func TestLoad_SandboxEnforced(t *testing.T) {
	_, err := Load("testdata/sandbox")
	if err == nil {
		t.Fatal("expected os.exit to be unavailable")
	}
}

func TestSandbox_RemovesGlobals(t *testing.T) {
	L, _ := newTestVM()
	defer L.Close()
	for _, name := range []string{"os", "io", "dofile", "loadfile", "load", "require"} {
		if err := L.DoString(`assert(` + name + ` == nil, "` + name + `")`); err != nil {
			t.Errorf("%s is still reachable: %v", name, err)
		}
	}
	if err := L.DoString(`assert(math.random == nil and math.randomseed == nil)`); err != nil {
		t.Errorf("math.random is still reachable: %v", err)
	}
	if err := L.DoString(`assert(math.floor(2.5) == 2 and string.upper("a") == "A")`); err != nil {
		t.Errorf("safe libs missing: %v", err)
	}
}

func TestLoad_FileOrdering(t *testing.T) {
	defs, err := LoadDefs("testdata/order")
	if err != nil {
		t.Fatalf("LoadDefs failed: %v", err)
	}
	if got := defs.Cards["b"].Name; got != "Defined In A" {
		t.Errorf("b name = %q, want value set by a.lua", got)
	}
}
