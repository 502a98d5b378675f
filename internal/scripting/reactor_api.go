package scripting

import (
	"errors"
	"fmt"
	"math"

	"github.com/vanago/channel/internal/world"
	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"
)

var (
	errNoPlayer    = errors.New("no player in context")
	errUnknownMob  = errors.New("unknown mob")
	errUnknownItem = errors.New("unknown item")
)

// ReactorContext is what a reactor script runs against. Player is nil when
// the reactor was triggered by something other than a player.
type ReactorContext struct {
	Player *world.Player
	Handle world.ReactorHandle
}

// RunReactor runs reactor script name for ctx. Every capability resolves
// the reactor afresh, so a script whose reactor or map disappeared fails
// with ErrScriptContract instead of touching stale state.
func (e *Engine) RunReactor(name string, ctx ReactorContext) error {
	call := &reactorCall{e: e, ctx: ctx}
	err := e.run(reactorDir+"/"+name, &call.invocation, map[string]lua.LGFunction{
		"get_state":          call.getState,
		"set_state":          call.setState,
		"reset":              call.reset,
		"spawn_mob":          call.spawnMob,
		"drop_item":          call.dropItem,
		"distance_to_player": call.distanceToPlayer,
		"spawn_zakum":        call.spawnZakum,
	})
	if err != nil {
		fields := []zap.Field{
			zap.String("script", name),
			zap.Int32("map_id", ctx.Handle.MapID),
			zap.Int32("reactor", ctx.Handle.ReactorID),
			zap.Error(err),
		}
		if ctx.Player != nil {
			fields = append(fields, zap.Int32("player_id", ctx.Player.ID))
		}
		e.log.Error("reactor script failed", fields...)
	}
	return err
}

type reactorCall struct {
	invocation
	e   *Engine
	ctx ReactorContext
}

// reactor resolves the handle or aborts the script.
func (c *reactorCall) reactor(L *lua.LState) (*world.Reactor, *world.Map) {
	r, err := c.e.world.ResolveReactor(c.ctx.Handle)
	if err != nil {
		c.fail(L, err)
		return nil, nil
	}
	m, err := c.e.world.Map(r.MapID())
	if err != nil {
		c.fail(L, err)
		return nil, nil
	}
	return r, m
}

// get_state() -> int
func (c *reactorCall) getState(L *lua.LState) int {
	r, _ := c.reactor(L)
	L.Push(lua.LNumber(r.State()))
	return 1
}

// set_state(v)
func (c *reactorCall) setState(L *lua.LState) int {
	v := c.rangeArg(L, 1, 0, math.MaxInt8, "set_state")
	r, _ := c.reactor(L)
	r.SetState(int8(v), true)
	return 0
}

// reset()
func (c *reactorCall) reset(L *lua.LState) int {
	r, _ := c.reactor(L)
	r.Reset()
	return 0
}

// spawn_mob(mob_id) -> object id
func (c *reactorCall) spawnMob(L *lua.LState) int {
	mobID := int32(c.rangeArg(L, 1, 0, math.MaxInt32, "spawn_mob"))
	if c.e.mobs.Get(mobID) == nil {
		c.fail(L, fmt.Errorf("spawn_mob: %w: %d", errUnknownMob, mobID))
	}
	r, m := c.reactor(L)
	mob := m.SpawnMob(mobID, r.Pos, 0, 0)
	L.Push(lua.LNumber(mob.ObjectID))
	return 1
}

// drop_item(item_id [, amount])
func (c *reactorCall) dropItem(L *lua.LState) int {
	itemID := int32(c.rangeArg(L, 1, 0, math.MaxInt32, "drop_item"))
	amount := c.optIntArg(L, 2, 1, "drop_item")
	if amount < 1 || amount > math.MaxInt16 {
		c.fail(L, fmt.Errorf("drop_item: amount out of range: %d", amount))
	}
	if c.e.items.Get(itemID) == nil {
		c.fail(L, fmt.Errorf("drop_item: %w: %d", errUnknownItem, itemID))
	}
	r, m := c.reactor(L)

	var ownerID int32
	ownerTicks := 0
	if c.ctx.Player != nil {
		ownerID = c.ctx.Player.ID
		ownerTicks = world.DropOwnershipTicks
	}
	d := world.NewItemDrop(itemID, int16(amount), r.Pos, ownerID, ownerTicks)
	d.SourceID = r.ID
	m.AddDrop(d)
	return 0
}

// distance_to_player() -> int
func (c *reactorCall) distanceToPlayer(L *lua.LState) int {
	if c.ctx.Player == nil {
		c.fail(L, fmt.Errorf("distance_to_player: %w", errNoPlayer))
	}
	r, _ := c.reactor(L)
	L.Push(lua.LNumber(r.Pos.Distance(c.ctx.Player.Pos)))
	return 1
}

// spawn_zakum(x, y [, foothold]) -> body object id
func (c *reactorCall) spawnZakum(L *lua.LState) int {
	x := c.rangeArg(L, 1, math.MinInt16, math.MaxInt16, "spawn_zakum")
	y := c.rangeArg(L, 2, math.MinInt16, math.MaxInt16, "spawn_zakum")
	fh := c.optIntArg(L, 3, 0, "spawn_zakum")
	if fh < math.MinInt16 || fh > math.MaxInt16 {
		c.fail(L, fmt.Errorf("spawn_zakum: foothold out of range: %d", fh))
	}
	_, m := c.reactor(L)
	body := m.SpawnZakum(world.Pos{X: int16(x), Y: int16(y)}, int16(fh))
	L.Push(lua.LNumber(body.ObjectID))
	return 1
}
