package scripting

import (
	"errors"
	"math"
	"strconv"

	"github.com/vanago/channel/internal/net/serverpacket"
	"github.com/vanago/channel/internal/world"
	lua "github.com/yuin/gopher-lua"
)

var errNoGranter = errors.New("quest rewards are not wired")

// RunQuestDialogue runs the NPC conversation script of questID, if the quest
// has one. start is true when the player opened the conversation.
func (e *Engine) RunQuestDialogue(p *world.Player, questID uint16, npcID int32, start bool) error {
	name := strconv.Itoa(int(questID))
	if !e.Has(questDir, name) {
		return nil
	}
	call := &questCall{e: e, p: p, questID: questID, npcID: npcID, start: start}
	return e.run(questDir+"/"+name, &call.invocation, map[string]lua.LGFunction{
		"give_item":      call.giveItem,
		"give_mesos":     call.giveMesos,
		"give_fame":      call.giveFame,
		"show_effect":    call.showEffect,
		"play_sound":     call.playSound,
		"show_event":     call.showEvent,
		"minigame_sound": call.minigameSound,
		"portal_sound":   call.portalSound,
		"quest_id":       call.questIDFn,
		"npc_id":         call.npcIDFn,
		"is_start":       call.isStart,
	})
}

type questCall struct {
	invocation
	e       *Engine
	p       *world.Player
	questID uint16
	npcID   int32
	start   bool
}

func (c *questCall) granter(L *lua.LState) Granter {
	if c.e.granter == nil {
		c.fail(L, errNoGranter)
	}
	return c.e.granter
}

// give_item(item_id, amount) -> bool
func (c *questCall) giveItem(L *lua.LState) int {
	itemID := int32(c.rangeArg(L, 1, 0, math.MaxInt32, "give_item"))
	amount := int16(c.rangeArg(L, 2, math.MinInt16, math.MaxInt16, "give_item"))
	L.Push(lua.LBool(c.granter(L).GiveItem(c.p, itemID, amount)))
	return 1
}

// give_mesos(amount) -> bool
func (c *questCall) giveMesos(L *lua.LState) int {
	amount := int32(c.rangeArg(L, 1, math.MinInt32, math.MaxInt32, "give_mesos"))
	L.Push(lua.LBool(c.granter(L).GiveMesos(c.p, amount)))
	return 1
}

// give_fame(amount)
func (c *questCall) giveFame(L *lua.LState) int {
	amount := int32(c.rangeArg(L, 1, math.MinInt32, math.MaxInt32, "give_fame"))
	c.granter(L).GiveFame(c.p, amount)
	return 0
}

// show_effect(name)
func (c *questCall) showEffect(L *lua.LState) int {
	c.p.Send(serverpacket.SendEffect(c.stringArg(L, 1, "show_effect")))
	return 0
}

// play_sound(name)
func (c *questCall) playSound(L *lua.LState) int {
	c.p.Send(serverpacket.SendFieldSound(c.stringArg(L, 1, "play_sound")))
	return 0
}

// show_event(name)
func (c *questCall) showEvent(L *lua.LState) int {
	c.p.Send(serverpacket.SendEvent(c.stringArg(L, 1, "show_event")))
	return 0
}

// minigame_sound(name)
func (c *questCall) minigameSound(L *lua.LState) int {
	c.p.Send(serverpacket.SendMinigameSound(c.stringArg(L, 1, "minigame_sound")))
	return 0
}

func (c *questCall) portalSound(L *lua.LState) int {
	c.p.Send(serverpacket.PlayPortalSound())
	return 0
}

func (c *questCall) questIDFn(L *lua.LState) int {
	L.Push(lua.LNumber(c.questID))
	return 1
}

func (c *questCall) npcIDFn(L *lua.LState) int {
	L.Push(lua.LNumber(c.npcID))
	return 1
}

func (c *questCall) isStart(L *lua.LState) int {
	L.Push(lua.LBool(c.start))
	return 1
}
