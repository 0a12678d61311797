package loader

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	lua "github.com/yuin/gopher-lua"

	"github.com/nathoo/spirecore/engine"
	"github.com/nathoo/spirecore/types"
)

// Defs is the content of a pack as plain definitions, before effects and
// behaviors are compiled.
type Defs struct {
	Game       types.GameDef
	Cards      map[string]types.CardDef
	Monsters   map[string]types.MonsterDef
	Encounters map[string]types.EncounterDef
	Relics     map[string]types.RelicDef
	Potions    map[string]types.PotionDef
	Events     map[string]types.EventDef
}

// collector accumulates Lua definitions during file execution.
type collector struct {
	game       *lua.LTable
	cards      []rawDef
	monsters   []rawDef
	encounters []rawDef
	relics     []rawDef
	potions    []rawDef
	events     []rawDef
}

// Load reads all .lua files from dir, compiles and validates them, and
// returns the content registry. Warnings are logged; errors are returned
// as a *ValidationError.
func Load(dir string) (*engine.Content, error) {
	defs, err := LoadDefs(dir)
	if err != nil {
		return nil, err
	}
	warnings, err := Validate(defs)
	for _, w := range warnings {
		log.Warn("content", "dir", dir, "warning", w)
	}
	if err != nil {
		return nil, err
	}
	return Build(defs)
}

// LoadDefs executes the .lua files of dir in a sandboxed VM and returns
// the collected definitions without validating them. The Lua VM is
// discarded after loading.
func LoadDefs(dir string) (*Defs, error) {
	// Discover .lua files.
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading content directory %s: %w", dir, err)
	}

	var luaFiles []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".lua") {
			luaFiles = append(luaFiles, e.Name())
		}
	}
	if len(luaFiles) == 0 {
		return nil, fmt.Errorf("no .lua files found in %s", dir)
	}

	// Sort: game.lua first, rest alphabetical.
	luaFiles = sortedLuaFiles(luaFiles)

	// Create sandboxed VM.
	L := lua.NewState(lua.Options{SkipOpenLibs: true})
	defer L.Close()

	// Open safe libs only.
	openSafeLibs(L)

	// Sandbox: remove dangerous globals.
	sandbox(L)

	// Register API.
	coll := &collector{}
	registerAPI(L, coll)

	// Execute each file.
	for _, f := range luaFiles {
		path := filepath.Join(dir, f)
		if err := L.DoFile(path); err != nil {
			return nil, fmt.Errorf("executing %s: %w", f, err)
		}
	}

	// Compile.
	defs, err := compile(coll)
	if err != nil {
		return nil, fmt.Errorf("compiling content: %w", err)
	}
	return defs, nil
}

// openSafeLibs opens only the safe subset of Lua standard libraries.
func openSafeLibs(L *lua.LState) {
	// Base library (print, type, tostring, tonumber, pairs, ipairs, etc.)
	lua.OpenBase(L)
	// Table library (table.insert, table.sort, etc.)
	lua.OpenTable(L)
	// String library (string.format, string.sub, etc.)
	lua.OpenString(L)
	// Math library (math.floor, math.max, etc.)
	lua.OpenMath(L)
}

// sandbox removes dangerous globals and functions.
func sandbox(L *lua.LState) {
	dangerous := []string{
		"dofile", "loadfile", "load", "loadstring",
		"rawset", "rawget", "rawequal",
		"collectgarbage", "require", "module",
	}
	for _, name := range dangerous {
		L.SetGlobal(name, lua.LNil)
	}

	// Content never rolls dice itself; the run RNG is the only source.
	if tbl, ok := L.GetGlobal("math").(*lua.LTable); ok {
		tbl.RawSetString("randomseed", lua.LNil)
		tbl.RawSetString("random", lua.LNil)
	}
}
