package scripting

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/vanago/channel/internal/data"
	"github.com/vanago/channel/internal/world"
	lua "github.com/yuin/gopher-lua"
	"github.com/yuin/gopher-lua/parse"
	"go.uber.org/zap"
)

// ErrScriptContract marks a script that called a capability it was not
// allowed to use in its context, or used one with bad arguments.
var ErrScriptContract = errors.New("script contract violation")

// ErrScriptNotFound is returned when no script is loaded under a name.
var ErrScriptNotFound = errors.New("script not found")

// MobProvider and ItemProvider validate ids handed in by scripts.
type MobProvider interface {
	Get(mobID int32) *data.MobTemplate
}

type ItemProvider interface {
	Get(itemID int32) *data.ItemInfo
}

// Granter hands out quest rewards. The quest system implements it.
type Granter interface {
	GiveItem(p *world.Player, itemID int32, amount int16) bool
	GiveMesos(p *world.Player, amount int32) bool
	GiveFame(p *world.Player, amount int32)
}

// Engine runs reactor and quest scripts. Scripts are compiled once at
// startup; every invocation gets its own Lua state with capabilities bound
// to that invocation's context. Game loop goroutine only.
type Engine struct {
	protos  map[string]*lua.FunctionProto
	world   *world.State
	mobs    MobProvider
	items   ItemProvider
	granter Granter
	log     *zap.Logger
}

// Script directories under the scripts root.
const (
	reactorDir = "reactor"
	questDir   = "quest"
)

// NewEngine compiles every script under scriptsDir/reactor and
// scriptsDir/quest. A missing directory is skipped; a script that fails to
// compile fails startup.
func NewEngine(scriptsDir string, ws *world.State, mobs MobProvider, items ItemProvider, log *zap.Logger) (*Engine, error) {
	e := &Engine{
		protos: make(map[string]*lua.FunctionProto),
		world:  ws,
		mobs:   mobs,
		items:  items,
		log:    log,
	}
	for _, sub := range []string{reactorDir, questDir} {
		if err := e.loadDir(scriptsDir, sub); err != nil {
			return nil, fmt.Errorf("load %s scripts: %w", sub, err)
		}
	}
	return e, nil
}

// SetGranter wires the quest reward primitives used by quest scripts.
func (e *Engine) SetGranter(g Granter) {
	e.granter = g
}

// Has reports whether a script is loaded under kind/name.
func (e *Engine) Has(kind, name string) bool {
	_, ok := e.protos[kind+"/"+name]
	return ok
}

// loadDir compiles all .lua files in root/sub.
func (e *Engine) loadDir(root, sub string) error {
	dir := filepath.Join(root, sub)
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".lua" {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		src, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		name := strings.TrimSuffix(entry.Name(), ".lua")
		if err := e.Compile(sub, name, string(src)); err != nil {
			return fmt.Errorf("compile %s: %w", path, err)
		}
		e.log.Debug("loaded lua script", zap.String("file", path))
	}
	return nil
}

// Compile registers src under kind/name, replacing any earlier script.
func (e *Engine) Compile(kind, name, src string) error {
	chunk, err := parse.Parse(strings.NewReader(src), kind+"/"+name)
	if err != nil {
		return err
	}
	proto, err := lua.Compile(chunk, kind+"/"+name)
	if err != nil {
		return err
	}
	e.protos[kind+"/"+name] = proto
	return nil
}

// newState creates a Lua state with only the side-effect free libraries.
func newState() *lua.LState {
	L := lua.NewState(lua.Options{SkipOpenLibs: true})
	for _, lib := range []struct {
		name string
		fn   lua.LGFunction
	}{
		{lua.BaseLibName, lua.OpenBase},
		{lua.TabLibName, lua.OpenTable},
		{lua.StringLibName, lua.OpenString},
		{lua.MathLibName, lua.OpenMath},
	} {
		L.Push(L.NewFunction(lib.fn))
		L.Push(lua.LString(lib.name))
		L.Call(1, 0)
	}
	// base exposes file loaders
	for _, name := range []string{"dofile", "loadfile", "require"} {
		L.SetGlobal(name, lua.LNil)
	}
	return L
}

// run executes the script key with api installed as globals. A capability
// that reports a violation through inv aborts the script and the returned
// error wraps ErrScriptContract.
func (e *Engine) run(key string, inv *invocation, api map[string]lua.LGFunction) error {
	proto, ok := e.protos[key]
	if !ok {
		return fmt.Errorf("%w: %s", ErrScriptNotFound, key)
	}

	L := newState()
	defer L.Close()
	for name, fn := range api {
		L.SetGlobal(name, L.NewFunction(fn))
	}

	err := L.CallByParam(lua.P{
		Fn:      L.NewFunctionFromProto(proto),
		NRet:    0,
		Protect: true,
	})
	if inv.violation != nil {
		return fmt.Errorf("%s: %w: %w", key, ErrScriptContract, inv.violation)
	}
	if err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	return nil
}

// invocation carries the first contract violation raised by a capability.
type invocation struct {
	violation error
}

// fail records err and raises it as a Lua error, unwinding the script.
func (inv *invocation) fail(L *lua.LState, err error) {
	if inv.violation == nil {
		inv.violation = err
	}
	L.RaiseError("%s", err.Error())
}

func (inv *invocation) intArg(L *lua.LState, n int, fn string) int {
	v, ok := L.Get(n).(lua.LNumber)
	if !ok {
		inv.fail(L, fmt.Errorf("%s: argument %d must be a number, got %s", fn, n, L.Get(n).Type()))
		return 0
	}
	return int(v)
}

func (inv *invocation) optIntArg(L *lua.LState, n, def int, fn string) int {
	if L.Get(n) == lua.LNil {
		return def
	}
	return inv.intArg(L, n, fn)
}

// rangeArg reads an integer argument and checks it lies in [lo, hi].
func (inv *invocation) rangeArg(L *lua.LState, n int, lo, hi int, fn string) int {
	v := inv.intArg(L, n, fn)
	if v < lo || v > hi {
		inv.fail(L, fmt.Errorf("%s: argument %d out of range: %d", fn, n, v))
	}
	return v
}

func (inv *invocation) stringArg(L *lua.LState, n int, fn string) string {
	v, ok := L.Get(n).(lua.LString)
	if !ok {
		inv.fail(L, fmt.Errorf("%s: argument %d must be a string, got %s", fn, n, L.Get(n).Type()))
		return ""
	}
	return string(v)
}
