package loader

import (
	"errors"
	"strings"
	"testing"

	"github.com/nathoo/spirecore/types"
)

// validDefs returns a minimal valid Defs for testing.
func validDefs() *Defs {
	return &Defs{
		Game: types.GameDef{Title: "Test"},
		Cards: map[string]types.CardDef{
			"strike": {ID: "strike", Effects: []types.Effect{{Type: "damage", Params: map[string]any{"amount": 6}}}},
		},
		Monsters: map[string]types.MonsterDef{
			"dummy": {ID: "dummy", MinHP: 10, MaxHP: 10, Moves: []types.MoveDef{{ID: "poke", Weight: 1}}},
		},
		Encounters: map[string]types.EncounterDef{
			"dummy": {ID: "dummy", Monsters: []string{"dummy"}, Gold: 5},
		},
		Relics:  map[string]types.RelicDef{},
		Potions: map[string]types.PotionDef{},
		Events:  map[string]types.EventDef{},
	}
}

// mustFail runs Validate and returns its *ValidationError.
func mustFail(t *testing.T, defs *Defs) *ValidationError {
	t.Helper()
	_, err := Validate(defs)
	if err == nil {
		t.Fatal("expected validation error")
	}
	var ve *ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected *ValidationError, got %T", err)
	}
	return ve
}

func TestValidate_ValidDefs(t *testing.T) {
	warnings, err := Validate(validDefs())
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if len(warnings) != 0 {
		t.Errorf("unexpected warnings: %v", warnings)
	}
}

func TestValidate_EmptyTitle(t *testing.T) {
	defs := validDefs()
	defs.Game.Title = ""
	assertContains(t, mustFail(t, defs).Errors, "Title")
}

func TestValidate_UnknownEffectType(t *testing.T) {
	defs := validDefs()
	defs.Cards["strike"] = types.CardDef{ID: "strike", Effects: []types.Effect{{Type: "explode"}}}
	assertContains(t, mustFail(t, defs).Errors, `card "strike": unknown effect type "explode"`)
}

func TestValidate_UnknownConditionType(t *testing.T) {
	defs := validDefs()
	defs.Events["e"] = types.EventDef{ID: "e", Options: []types.OptionDef{
		{Text: "Go", Requires: []types.Condition{{Type: "is_tuesday"}}},
	}}
	assertContains(t, mustFail(t, defs).Errors, `unknown condition type "is_tuesday"`)
}

func TestValidate_NotInnerChecked(t *testing.T) {
	defs := validDefs()
	inner := types.Condition{Type: "has_relic", Params: map[string]any{"relic": "idol"}}
	defs.Events["e"] = types.EventDef{ID: "e", Options: []types.OptionDef{
		{Text: "Go", Requires: []types.Condition{{Type: "not", Negate: true, Inner: &inner}}},
	}}
	assertContains(t, mustFail(t, defs).Errors, `undefined relic "idol"`)
}

func TestValidate_Monster(t *testing.T) {
	tests := []struct {
		name string
		def  types.MonsterDef
		want string
	}{
		{"no moves", types.MonsterDef{ID: "dummy", MinHP: 1, MaxHP: 1}, "has no moves"},
		{"bad hp", types.MonsterDef{ID: "dummy", MinHP: 5, MaxHP: 3, Moves: []types.MoveDef{{ID: "a"}}}, "invalid hp range [5, 3]"},
		{"zero hp", types.MonsterDef{ID: "dummy", Moves: []types.MoveDef{{ID: "a"}}}, "invalid hp range"},
		{"duplicate move", types.MonsterDef{ID: "dummy", MinHP: 1, MaxHP: 1, Moves: []types.MoveDef{{ID: "a"}, {ID: "a"}}}, `duplicate move "a"`},
		{"missing first", types.MonsterDef{ID: "dummy", MinHP: 1, MaxHP: 1, First: "z", Moves: []types.MoveDef{{ID: "a"}}}, `first move "z"`},
		{"negative weight", types.MonsterDef{ID: "dummy", MinHP: 1, MaxHP: 1, Moves: []types.MoveDef{{ID: "a", Weight: -1}}}, "negative weight"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			defs := validDefs()
			defs.Monsters["dummy"] = tt.def
			assertContains(t, mustFail(t, defs).Errors, tt.want)
		})
	}
}

func TestValidate_EncounterWithoutMonsters(t *testing.T) {
	defs := validDefs()
	defs.Encounters["empty"] = types.EncounterDef{ID: "empty", Gold: 1}
	assertContains(t, mustFail(t, defs).Errors, `encounter "empty" has no monsters`)
}

func TestValidate_EventOptions(t *testing.T) {
	defs := validDefs()
	defs.Events["void"] = types.EventDef{ID: "void"}
	defs.Events["blank"] = types.EventDef{ID: "blank", Options: []types.OptionDef{{}}}
	ve := mustFail(t, defs)
	assertContains(t, ve.Errors, `event "void" has no options`)
	assertContains(t, ve.Errors, `event "blank" option 1 has no text`)
}

func TestValidate_RelicHookRefs(t *testing.T) {
	defs := validDefs()
	defs.Relics["egg"] = types.RelicDef{ID: "egg", Hooks: map[types.Hook][]types.Effect{
		types.HookTurnEnd: {{Type: "add_card", Params: map[string]any{"card": "chick"}}},
	}}
	assertContains(t, mustFail(t, defs).Errors, `relic "egg" hook turn_end: references undefined card "chick"`)
}

func TestValidate_Warnings(t *testing.T) {
	defs := validDefs()
	defs.Monsters["idle"] = types.MonsterDef{ID: "idle", MinHP: 1, MaxHP: 1, Moves: []types.MoveDef{{ID: "wait"}}}
	defs.Encounters["cheap"] = types.EncounterDef{ID: "cheap", Monsters: []string{"dummy"}}
	defs.Relics["rock"] = types.RelicDef{ID: "rock"}
	defs.Cards["blank"] = types.CardDef{ID: "blank"}

	warnings, err := Validate(defs)
	if err != nil {
		t.Fatalf("warnings must not fail validation: %v", err)
	}
	assertContains(t, warnings, `monster "idle" is not in any encounter`)
	assertContains(t, warnings, `encounter "cheap" awards no gold`)
	assertContains(t, warnings, `relic "rock" has no hooks`)
	assertContains(t, warnings, `card "blank" has no effects`)
}

func TestValidate_ErrorsSorted(t *testing.T) {
	defs := validDefs()
	for _, id := range []string{"c", "a", "b"} {
		defs.Cards[id] = types.CardDef{ID: id, Effects: []types.Effect{{Type: "nope"}}}
	}
	ve := mustFail(t, defs)
	if len(ve.Errors) != 3 {
		t.Fatalf("errors = %v", ve.Errors)
	}
	for i, id := range []string{"a", "b", "c"} {
		if !strings.HasPrefix(ve.Errors[i], `card "`+id+`"`) {
			t.Errorf("error %d = %q, want card %q", i, ve.Errors[i], id)
		}
	}
	if !strings.HasPrefix(ve.Error(), "validation failed with 3 error(s)") {
		t.Errorf("Error() = %q", ve.Error())
	}
}

func assertContains(t *testing.T, strs []string, substr string) {
	t.Helper()
	for _, s := range strs {
		if strings.Contains(s, substr) {
			return
		}
	}
	t.Errorf("expected a message containing %q, got: %v", substr, strs)
}
