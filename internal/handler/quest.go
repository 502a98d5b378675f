package handler

import (
	"fmt"

	"github.com/vanago/channel/internal/anomaly"
	"github.com/vanago/channel/internal/net"
	"github.com/vanago/channel/internal/net/packet"
	"github.com/vanago/channel/internal/world"
)

// QuestAction is the action byte of CMSG_QUEST_ACTION.
type QuestAction int8

const (
	RestoreLostQuestItem QuestAction = iota
	StartQuest
	FinishQuest
	ForfeitQuest
	StartNpcQuestChat
	EndNpcQuestChat
)

// ParseQuestAction maps a wire code to a QuestAction.
func ParseQuestAction(code int8) (QuestAction, bool) {
	switch a := QuestAction(code); a {
	case RestoreLostQuestItem, StartQuest, FinishQuest, ForfeitQuest, StartNpcQuestChat, EndNpcQuestChat:
		return a, true
	default:
		return 0, false
	}
}

func (a QuestAction) String() string {
	switch a {
	case RestoreLostQuestItem:
		return "RestoreLostQuestItem"
	case StartQuest:
		return "StartQuest"
	case FinishQuest:
		return "FinishQuest"
	case ForfeitQuest:
		return "ForfeitQuest"
	case StartNpcQuestChat:
		return "StartNpcQuestChat"
	case EndNpcQuestChat:
		return "EndNpcQuestChat"
	default:
		return fmt.Sprintf("QuestAction(%d)", int8(a))
	}
}

// QuestRequest is a parsed CMSG_QUEST_ACTION.
type QuestRequest struct {
	Action  QuestAction
	QuestID uint16
	NpcID   int32 // unset for ForfeitQuest; not an npc id for RestoreLostQuestItem
	ItemID  int32 // RestoreLostQuestItem only
}

// HandleQuestAction processes CMSG_QUEST_ACTION.
//
//	int8   action
//	uint16 quest id
//	int32  npc id        (all but ForfeitQuest)
//	int32  item id       (RestoreLostQuestItem only)
func HandleQuestAction(sess *net.Session, r *packet.Reader, deps *Deps) error {
	p := playerFor(sess, deps)
	if p == nil {
		return nil
	}
	handleQuestAction(p, r, deps)
	return nil
}

func handleQuestAction(p *world.Player, r *packet.Reader, deps *Deps) {
	code := r.ReadInt8()
	questID := r.ReadUint16()
	if r.Err() != nil {
		return
	}
	// Not reachable through the normal client, so it isn't worth a log line.
	if !deps.Quests.IsQuest(questID) {
		return
	}
	action, ok := ParseQuestAction(code)
	if !ok {
		deps.Anomalies.Record(anomaly.Entry{
			Kind:       anomaly.UnknownQuestAction,
			PlayerID:   p.ID,
			PlayerName: p.Name,
			QuestID:    questID,
			Message:    fmt.Sprintf("sent unknown quest action %d", code),
		})
		return
	}

	req := QuestRequest{Action: action, QuestID: questID}
	if action != ForfeitQuest {
		req.NpcID = r.ReadInt32()
	}
	if action == RestoreLostQuestItem {
		req.ItemID = r.ReadInt32()
	}
	if r.Err() != nil {
		return
	}
	deps.Quests.Apply(p, req)
}
