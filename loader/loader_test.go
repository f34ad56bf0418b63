package loader

import (
	"errors"
	"strings"
	"testing"

	"github.com/nathoo/choicecore/engine/choice"
	"github.com/nathoo/choicecore/engine/tasks"
	"github.com/nathoo/choicecore/types"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestLoad_MinimalGame(t *testing.T) {
	defs, err := Load("testdata/minimal")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if defs.Game.Title != "Minimal Test Game" {
		t.Errorf("Title = %q, want %q", defs.Game.Title, "Minimal Test Game")
	}
	if len(defs.Cards) != 3 {
		t.Errorf("expected 3 cards, got %d", len(defs.Cards))
	}
	d, ok := defs.Discovers["track"]
	if !ok {
		t.Fatal("discover 'track' not found")
	}
	if len(d.Steps) != 1 {
		t.Fatalf("expected 1 step, got %d", len(d.Steps))
	}
	step := d.Steps[0]
	if step.Type != choice.TypeGeneral {
		t.Errorf("step type = %v, want GENERAL", step.Type)
	}
	if step.Action != choice.ActionHand {
		t.Errorf("step action = %v, want HAND", step.Action)
	}
	if defs.Pools["beasts"].Len() != 2 {
		t.Errorf("beasts pool size = %d, want 2", defs.Pools["beasts"].Len())
	}
}

func TestLoad_FullGame(t *testing.T) {
	defs, err := Load("testdata/full")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	// Game metadata.
	if defs.Game.Author != "Tester" {
		t.Errorf("Author = %q", defs.Game.Author)
	}
	if got := strings.Join(defs.Game.Players, ","); got != "Jaina,Rexxar" {
		t.Errorf("Players = %q", got)
	}

	// Cards from Lua, including the loop, and from YAML.
	if len(defs.Cards) != 10 {
		t.Errorf("expected 10 cards, got %d", len(defs.Cards))
	}
	kaz := defs.Cards["kazakus"]
	if kaz == nil || kaz.Cost != 4 || kaz.Class != "neutral" {
		t.Errorf("kazakus = %+v", kaz)
	}
	if c := defs.Cards["vial_2"]; c == nil || c.Name != "Vial 2" || c.Kind != "spell" {
		t.Errorf("vial_2 = %+v", c)
	}
	if c := defs.Cards["rat"]; c == nil || c.Kind != "minion" {
		t.Errorf("rat should default to minion, got %+v", c)
	}
	if c := defs.Cards["herb_3"]; c == nil || c.Text != "Deal 4 damage to all minions." {
		t.Errorf("herb_3 = %+v", c)
	}

	// Pools keep their groups.
	vials := defs.Pools["vials"]
	if vials.Groups() != 2 || vials.Len() != 3 {
		t.Errorf("vials groups=%d len=%d", vials.Groups(), vials.Len())
	}
	if vials.At(2) != defs.Cards["vial_3"] {
		t.Error("vials[2] should be the shared vial_3 card")
	}
	if beasts := defs.Pools["beasts"]; beasts.Groups() != 2 {
		t.Errorf("beasts groups = %d", beasts.Groups())
	}
	if herbs := defs.Pools["herbs"]; herbs.Groups() != 1 || herbs.Len() != 3 {
		t.Errorf("herbs groups=%d len=%d", herbs.Groups(), herbs.Len())
	}

	// Multi-step discover.
	potion := defs.Discovers["potion"]
	if potion.Source != "kazakus" || len(potion.Steps) != 3 {
		t.Fatalf("potion = %+v", potion)
	}
	if potion.Steps[0].Draw != 3 || potion.Steps[1].Draw != 0 || potion.Steps[2].Draw != 2 {
		t.Errorf("draw sizes = %d,%d,%d", potion.Steps[0].Draw, potion.Steps[1].Draw, potion.Steps[2].Draw)
	}
	for i, s := range potion.Steps {
		if s.Action != choice.ActionKazakus {
			t.Errorf("step %d action = %v", i, s.Action)
		}
	}
	want := tasks.Sequence{tasks.AddStackTo(types.ZoneHand)}
	if got, ok := potion.Steps[2].Then.(tasks.Sequence); !ok || len(got) != 1 || got[0] != want[0] {
		t.Errorf("potion last step then = %v", potion.Steps[2].Then)
	}
	if potion.Steps[0].Then != nil {
		t.Errorf("potion first step then = %v, want nil", potion.Steps[0].Then)
	}

	tracking := defs.Discovers["tracking"]
	if tracking.Steps[0].Then != tasks.AddToHand() {
		t.Errorf("tracking then = %v", tracking.Steps[0].Then)
	}
}

func TestLoad_InvalidRefs_Fails(t *testing.T) {
	_, err := Load("testdata/invalid_refs")
	if err == nil {
		t.Fatal("expected error for invalid references")
	}
	var ve *ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected *ValidationError, got %T", err)
	}
	assertContains(t, ve.Errors, `undefined card "wolf"`)
	assertContains(t, ve.Errors, `undefined card "ghost"`)
	assertContains(t, ve.Errors, `undefined pool "missing"`)
	assertContains(t, ve.Errors, `unknown choice action "DANCE"`)
}

func TestLoad_DuplicateCards_Fails(t *testing.T) {
	_, err := Load("testdata/duplicate_cards")
	if err == nil {
		t.Fatal("expected error for duplicate card")
	}
	if !strings.Contains(err.Error(), `card "wolf" defined in both game.lua and cards.yml`) {
		t.Errorf("error = %q", err.Error())
	}
}

func TestLoad_BadLuaSyntax_Fails(t *testing.T) {
	_, err := Load("testdata/bad_lua")
	if err == nil {
		t.Fatal("expected error for bad Lua syntax")
	}
	if !strings.Contains(err.Error(), "executing game.lua") {
		t.Errorf("error = %q", err.Error())
	}
}

func TestLoad_NoGameDef_Fails(t *testing.T) {
	_, err := Load("testdata/no_game")
	if err == nil {
		t.Fatal("expected error for missing Game{} definition")
	}
	if !strings.Contains(err.Error(), "no Game{} definition") {
		t.Errorf("error = %q, expected 'no Game{} definition'", err.Error())
	}
}

func TestLoad_MissingDir_Fails(t *testing.T) {
	if _, err := Load("testdata/does_not_exist"); err == nil {
		t.Fatal("expected error for missing directory")
	}
}

func TestLoad_FileOrdering(t *testing.T) {
	defs, err := Load("testdata/ordering")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if got := defs.Cards["a"].Name; got != "game,a" {
		t.Errorf("a saw %q, want game,a", got)
	}
	if got := defs.Cards["b"].Name; got != "game,a,b" {
		t.Errorf("b saw %q, want game,a,b", got)
	}
}

func TestLoad_WarningsAreLogged(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	// The minimal game's pool has 2 cards but the step draws 3.
	if _, err := Load("testdata/minimal", WithLogger(zap.New(core))); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	found := false
	for _, entry := range logs.All() {
		if w, ok := entry.ContextMap()["warning"].(string); ok && strings.Contains(w, "fewer than the 3 drawn") {
			found = true
		}
	}
	if !found {
		t.Errorf("expected a pool size warning, got %d log entries", logs.Len())
	}
}

func TestLoad_SandboxEnforced(t *testing.T) {
	L, _ := newTestVM()
	defer L.Close()

	for _, src := range []string{
		`os.execute("echo pwned")`,
		`io.open("/etc/passwd")`,
		`dofile("x.lua")`,
		`math.randomseed(1)`,
		`require("os")`,
	} {
		if err := L.DoString(src); err == nil {
			t.Errorf("expected sandbox to block %s", src)
		}
	}
}

func assertContains(t *testing.T, strs []string, substr string) {
	t.Helper()
	for _, s := range strs {
		if strings.Contains(s, substr) {
			return
		}
	}
	t.Errorf("expected one of %q to contain %q", strs, substr)
}
