package serverpacket

import "github.com/vanago/channel/internal/net/packet"

// Status message kinds carried in SMSG_NOTICE.
const (
	noticeItemGain  int8 = 0
	noticeQuest     int8 = 1
	noticeFameGain  int8 = 4
	noticeMesosGain int8 = 5
)

// Quest record states as the client knows them.
const (
	questRecordRemoved   int8 = 0
	questRecordActive    int8 = 1
	questRecordCompleted int8 = 2
)

// Player effect codes shared by SMSG_THEATRICS and SMSG_SKILL_SHOW.
const (
	effectItemGain      int8 = 0x03
	effectPortalSound   int8 = 0x07
	effectQuestComplete int8 = 0x09
	effectMobItemBuff   int8 = 0x0B
)

func questRecord(questID uint16, state int8) func(w *packet.Writer) {
	return func(w *packet.Writer) {
		w.WriteInt8(noticeQuest)
		w.WriteUint16(questID)
		w.WriteInt8(state)
	}
}

// QuestStarted returns the quest record update and the quest window update
// sent to the player who accepted questID from npcID.
func QuestStarted(questID uint16, npcID int32) [][]byte {
	notice := packet.NewWriter(packet.SMSG_NOTICE)
	questRecord(questID, questRecordActive)(notice)
	notice.WriteString("")
	notice.WriteInt64(0)

	update := packet.NewWriter(packet.SMSG_QUEST_UPDATE)
	update.WriteInt8(0x08)
	update.WriteUint16(questID)
	update.WriteInt32(npcID)
	update.WriteInt32(0)

	return [][]byte{notice.Bytes(), update.Bytes()}
}

// QuestForfeited removes questID from the player's quest log.
func QuestForfeited(questID uint16) []byte {
	w := packet.NewWriter(packet.SMSG_NOTICE)
	questRecord(questID, questRecordRemoved)(w)
	return w.Bytes()
}

// QuestCompletedRecord marks questID completed at completedAt (unix millis).
func QuestCompletedRecord(questID uint16, completedAt int64) []byte {
	w := packet.NewWriter(packet.SMSG_NOTICE)
	questRecord(questID, questRecordCompleted)(w)
	w.WriteInt64(completedAt)
	return w.Bytes()
}

// QuestCompletedEffect plays the completion effect on the player and shows
// it to the rest of the map.
func QuestCompletedEffect(playerID int32) packet.SplitPacket {
	return packet.Split(func(w *packet.Writer) {
		w.WriteInt8(effectQuestComplete)
	},
		packet.Target{Header: packet.SMSG_THEATRICS},
		packet.Target{Header: packet.SMSG_SKILL_SHOW, Prefix: playerPrefix(playerID)},
	)
}

// GiveItem shows an item gain (or loss, for a negative amount).
func GiveItem(itemID int32, amount int16) []byte {
	w := packet.NewWriter(packet.SMSG_THEATRICS)
	w.WriteInt8(effectItemGain)
	w.WriteInt8(1)
	w.WriteInt32(itemID)
	w.WriteInt32(int32(amount))
	return w.Bytes()
}

// GiveMesos shows a mesos delta in the chat log.
func GiveMesos(amount int32) []byte {
	w := packet.NewWriter(packet.SMSG_NOTICE)
	w.WriteInt8(noticeMesosGain)
	w.WriteInt32(amount)
	return w.Bytes()
}

// GiveFame shows a fame delta in the chat log.
func GiveFame(amount int32) []byte {
	w := packet.NewWriter(packet.SMSG_NOTICE)
	w.WriteInt8(noticeFameGain)
	w.WriteInt32(amount)
	return w.Bytes()
}

// ItemPickedUp shows the pickup of a stack of itemID in the chat log.
func ItemPickedUp(itemID int32, amount int16) []byte {
	w := packet.NewWriter(packet.SMSG_NOTICE)
	w.WriteInt8(noticeItemGain)
	w.WriteInt8(0)
	w.WriteInt32(itemID)
	w.WriteInt32(int32(amount))
	return w.Bytes()
}

func playerPrefix(playerID int32) func(w *packet.Writer) {
	return func(w *packet.Writer) { w.WriteInt32(playerID) }
}
