package loader

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/nathoo/choicecore/engine/state"
	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"
)

// collector accumulates Lua definitions during file execution.
type collector struct {
	file      string // file currently executing
	game      *lua.LTable
	cards     []rawCard
	pools     []rawPool
	discovers []rawDiscover
}

// Option configures Load.
type Option func(*options)

type options struct {
	log *zap.Logger
}

// WithLogger reports validation warnings to l.
func WithLogger(l *zap.Logger) Option {
	return func(o *options) { o.log = l }
}

// Load reads all .lua, .yaml and .yml files from dir, compiles them into
// game definitions, validates references, and returns the immutable Defs.
// The Lua VM is discarded after loading.
func Load(dir string, opts ...Option) (*state.Defs, error) {
	o := options{log: zap.NewNop()}
	for _, opt := range opts {
		opt(&o)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading game directory %s: %w", dir, err)
	}

	var luaFiles, yamlFiles []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		switch filepath.Ext(e.Name()) {
		case ".lua":
			luaFiles = append(luaFiles, e.Name())
		case ".yaml", ".yml":
			yamlFiles = append(yamlFiles, e.Name())
		}
	}
	if len(luaFiles) == 0 {
		return nil, fmt.Errorf("no .lua files found in %s", dir)
	}

	L := lua.NewState(lua.Options{SkipOpenLibs: true})
	defer L.Close()
	openSafeLibs(L)
	sandbox(L)

	coll := &collector{}
	registerAPI(L, coll)

	for _, f := range sortedFiles(luaFiles) {
		coll.file = f
		if err := L.DoFile(filepath.Join(dir, f)); err != nil {
			return nil, fmt.Errorf("executing %s: %w", f, err)
		}
	}

	p := newProgram()
	if err := compile(coll, p); err != nil {
		return nil, fmt.Errorf("compiling game data: %w", err)
	}
	for _, f := range sortedFiles(yamlFiles) {
		if err := loadYAML(filepath.Join(dir, f), f, p); err != nil {
			return nil, err
		}
	}

	ve := validate(p)
	for _, w := range ve.Warnings {
		o.log.Warn("game definition", zap.String("dir", dir), zap.String("warning", w))
	}
	if len(ve.Errors) > 0 {
		return nil, ve
	}

	defs := link(p)
	o.log.Debug("game loaded",
		zap.String("title", defs.Game.Title),
		zap.Int("cards", len(defs.Cards)),
		zap.Int("pools", len(defs.Pools)),
		zap.Int("discovers", len(defs.Discovers)),
		zap.String("files", strings.Join(append(luaFiles, yamlFiles...), ",")))
	return defs, nil
}

// openSafeLibs opens only the base, table, string and math libraries.
func openSafeLibs(L *lua.LState) {
	lua.OpenBase(L)
	lua.OpenTable(L)
	lua.OpenString(L)
	lua.OpenMath(L)
}

// sandbox removes globals that reach outside the VM or break determinism.
func sandbox(L *lua.LState) {
	for _, name := range []string{
		"dofile", "loadfile", "load", "loadstring",
		"rawset", "rawget", "rawequal",
		"collectgarbage", "require", "module",
	} {
		L.SetGlobal(name, lua.LNil)
	}

	if tbl, ok := L.GetGlobal("math").(*lua.LTable); ok {
		tbl.RawSetString("random", lua.LNil)
		tbl.RawSetString("randomseed", lua.LNil)
	}
}
