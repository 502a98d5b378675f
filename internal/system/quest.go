package system

import (
	"math"
	"time"

	"github.com/vanago/channel/internal/anomaly"
	"github.com/vanago/channel/internal/data"
	"github.com/vanago/channel/internal/handler"
	"github.com/vanago/channel/internal/net/serverpacket"
	"github.com/vanago/channel/internal/world"
	"go.uber.org/zap"
)

// ItemProvider, NpcProvider and QuestProvider are the content lookups the
// quest system needs. The data tables implement them.
type ItemProvider interface {
	Get(itemID int32) *data.ItemInfo
}

type NpcProvider interface {
	IsNpc(npcID int32) bool
	Name(npcID int32) string
}

type QuestProvider interface {
	IsQuest(questID uint16) bool
	Get(questID uint16) *data.QuestInfo
}

// QuestDialogue runs the NPC conversation attached to a quest.
type QuestDialogue interface {
	RunQuestDialogue(p *world.Player, questID uint16, npcID int32, start bool) error
}

// QuestSystem validates and applies quest actions and owns the item, mesos
// and fame grant primitives. Implements handler.QuestManager.
type QuestSystem struct {
	world     *world.State
	items     ItemProvider
	npcs      NpcProvider
	quests    QuestProvider
	anomalies *anomaly.Recorder
	dialogue  QuestDialogue
	log       *zap.Logger
	now       func() time.Time
}

func NewQuestSystem(ws *world.State, items ItemProvider, npcs NpcProvider, quests QuestProvider, anomalies *anomaly.Recorder, log *zap.Logger) *QuestSystem {
	return &QuestSystem{
		world:     ws,
		items:     items,
		npcs:      npcs,
		quests:    quests,
		anomalies: anomalies,
		log:       log,
		now:       time.Now,
	}
}

// SetDialogue wires the quest NPC script runner. The scripting engine is
// built after the quest system since its quest API grants through it.
func (s *QuestSystem) SetDialogue(d QuestDialogue) {
	s.dialogue = d
}

func (s *QuestSystem) IsQuest(questID uint16) bool {
	return s.quests.IsQuest(questID)
}

// Apply runs one quest action for p. Validation failures are recorded as
// anomalies and leave all state untouched.
func (s *QuestSystem) Apply(p *world.Player, req handler.QuestRequest) {
	if !s.quests.IsQuest(req.QuestID) {
		return
	}

	if req.Action == handler.ForfeitQuest {
		if !p.Quests.Remove(req.QuestID) {
			s.record(p, req, anomaly.QuestNotActive, "tried to forfeit a quest that wasn't started")
			return
		}
		p.Send(serverpacket.QuestForfeited(req.QuestID))
		p.Dirty = true
		return
	}

	if req.Action != handler.StartQuest && !p.Quests.IsActive(req.QuestID) {
		s.record(p, req, anomaly.QuestNotActive, "tried to perform an action with a non-started quest")
		return
	}
	// The restore action's second field is not an npc id.
	if req.Action != handler.RestoreLostQuestItem && !s.npcs.IsNpc(req.NpcID) {
		s.record(p, req, anomaly.InvalidNpc, "tried to do a quest action with an invalid npc id")
		return
	}

	switch req.Action {
	case handler.RestoreLostQuestItem:
		s.restoreLostItem(p, req)
	case handler.StartQuest:
		if !p.Quests.Start(req.QuestID, req.NpcID) {
			s.record(p, req, anomaly.QuestAlreadyStarted, "tried to start an already started quest")
			return
		}
		p.SendAll(serverpacket.QuestStarted(req.QuestID, req.NpcID))
		p.Dirty = true
	case handler.FinishQuest:
		s.FinishQuest(p, req.QuestID, req.NpcID)
	case handler.StartNpcQuestChat, handler.EndNpcQuestChat:
		s.runDialogue(p, req.QuestID, req.NpcID, req.Action == handler.StartNpcQuestChat)
	}
}

func (s *QuestSystem) restoreLostItem(p *world.Player, req handler.QuestRequest) {
	info := s.items.Get(req.ItemID)
	if info == nil {
		return
	}
	if !info.Quest {
		s.record(p, req, anomaly.NotQuestItem, "tried to restore a lost quest item which isn't a quest item")
		return
	}
	s.GiveItem(p, req.ItemID, 1)
}

// FinishQuest completes an active quest and grants its rewards. Rewards
// that take items or mesos are checked up front, summed per item, so that a
// player who can't pay gets nothing and keeps the quest active.
func (s *QuestSystem) FinishQuest(p *world.Player, questID uint16, npcID int32) {
	info := s.quests.Get(questID)
	if info == nil || !p.Quests.IsActive(questID) {
		return
	}
	owed := make(map[int32]int)
	for _, it := range info.Items {
		if it.Count < 0 {
			owed[it.ItemID] -= int(it.Count)
		}
	}
	for itemID, n := range owed {
		if p.Inv.Count(itemID) < n {
			s.log.Debug("quest completion requirements not met",
				zap.Int32("player_id", p.ID),
				zap.Uint16("quest_id", questID),
				zap.Int32("item_id", itemID),
				zap.Int("owed", n),
			)
			return
		}
	}
	if info.Mesos < 0 && int64(p.Inv.Mesos())+int64(info.Mesos) < 0 {
		return
	}

	for _, it := range info.Items {
		s.GiveItem(p, it.ItemID, it.Count)
	}
	if info.Mesos != 0 {
		s.GiveMesos(p, info.Mesos)
	}
	if info.Fame != 0 {
		s.GiveFame(p, info.Fame)
	}

	at := s.now()
	p.Quests.Complete(questID, at)
	p.Dirty = true
	p.Send(serverpacket.QuestCompletedRecord(questID, at.UnixMilli()))
	effect := serverpacket.QuestCompletedEffect(p.ID)
	if m, err := s.world.Map(p.MapID); err == nil {
		m.SendSplit(p, effect)
	} else {
		p.Send(effect.Self)
	}
	s.log.Info("quest completed",
		zap.Int32("player_id", p.ID),
		zap.Uint16("quest_id", questID),
		zap.String("quest", info.Name),
		zap.Int32("npc_id", npcID),
		zap.String("npc", s.npcs.Name(npcID)),
	)
}

func (s *QuestSystem) runDialogue(p *world.Player, questID uint16, npcID int32, start bool) {
	if s.dialogue == nil {
		return
	}
	if err := s.dialogue.RunQuestDialogue(p, questID, npcID, start); err != nil {
		s.log.Warn("quest dialogue failed",
			zap.Int32("player_id", p.ID),
			zap.Uint16("quest_id", questID),
			zap.Int32("npc_id", npcID),
			zap.Error(err),
		)
	}
}

// GiveItem grants amount units of itemID, or takes them if amount is
// negative. Taking more than the player holds, or naming an unknown item,
// fails without touching the inventory. The client is told only about
// changes that happened.
func (s *QuestSystem) GiveItem(p *world.Player, itemID int32, amount int16) bool {
	info := s.items.Get(itemID)
	if info == nil {
		return false
	}
	if amount == 0 {
		return true
	}
	if !changeItem(p, info, amount) {
		return false
	}
	p.Send(serverpacket.GiveItem(itemID, amount))
	return true
}

// GiveMesos adds amount to the player's mesos. A negative amount that would
// leave the balance below zero, or any amount that would overflow it, fails
// without change or notification.
func (s *QuestSystem) GiveMesos(p *world.Player, amount int32) bool {
	if !p.Inv.ModifyMesos(amount) {
		return false
	}
	p.Send(serverpacket.MesosUpdate(p.Inv.Mesos()))
	p.Send(serverpacket.GiveMesos(amount))
	p.Dirty = true
	return true
}

// GiveFame adjusts fame, clamped to the int16 range, and always notifies.
func (s *QuestSystem) GiveFame(p *world.Player, amount int32) {
	fame := int64(p.Fame) + int64(amount)
	if fame > math.MaxInt16 {
		fame = math.MaxInt16
	}
	if fame < math.MinInt16 {
		fame = math.MinInt16
	}
	p.Fame = int16(fame)
	p.Send(serverpacket.FameUpdate(p.Fame))
	p.Send(serverpacket.GiveFame(amount))
	p.Dirty = true
}

func (s *QuestSystem) record(p *world.Player, req handler.QuestRequest, kind anomaly.Kind, msg string) {
	s.anomalies.Record(anomaly.Entry{
		Kind:       kind,
		PlayerID:   p.ID,
		PlayerName: p.Name,
		QuestID:    req.QuestID,
		NpcID:      req.NpcID,
		ItemID:     req.ItemID,
		Message:    msg,
	})
}
