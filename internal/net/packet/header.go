package packet

import "fmt"

// Header is the 2-byte little-endian tag that leads every packet.
// Inbound (CMSG) and outbound (SMSG) headers are separate namespaces.
type Header uint16

// Client → server.
const (
	CMSG_PLAYER_LOAD  Header = 0x0014
	CMSG_QUEST_ACTION Header = 0x0062
	CMSG_DROP_PICKUP  Header = 0x00AB
	CMSG_REACTOR_HIT  Header = 0x00AE
	CMSG_PONG         Header = 0x0018
)

// Server → client.
const (
	SMSG_INVENTORY_OPERATION Header = 0x001A
	SMSG_PLAYER_UPDATE       Header = 0x001C
	SMSG_MESSAGE             Header = 0x0024
	SMSG_QUEST_UPDATE        Header = 0x0068
	SMSG_THEATRICS           Header = 0x0092
	SMSG_SKILL_SHOW          Header = 0x0093
	SMSG_MAP_EFFECT          Header = 0x0094
	SMSG_SOUND               Header = 0x0095
	SMSG_NOTICE              Header = 0x0041
	SMSG_MOB_SHOW            Header = 0x00AF
	SMSG_MOB_DESTROY         Header = 0x00B0
	SMSG_DROP_ITEM           Header = 0x00EE
	SMSG_DROP_PICKUP         Header = 0x00EF
	SMSG_REACTOR_TRIGGER     Header = 0x00F7
	SMSG_REACTOR_SPAWN       Header = 0x00F9
	SMSG_REACTOR_DESTROY     Header = 0x00FA
)

// Inter-server.
const (
	IMSG_WORLD_CONFIG Header = 0x1001
)

var headerNames = map[Header]string{
	CMSG_PLAYER_LOAD:         "CMSG_PLAYER_LOAD",
	CMSG_QUEST_ACTION:        "CMSG_QUEST_ACTION",
	CMSG_DROP_PICKUP:         "CMSG_DROP_PICKUP",
	CMSG_REACTOR_HIT:         "CMSG_REACTOR_HIT",
	CMSG_PONG:                "CMSG_PONG",
	IMSG_WORLD_CONFIG:        "IMSG_WORLD_CONFIG",
	SMSG_INVENTORY_OPERATION: "SMSG_INVENTORY_OPERATION",
	SMSG_PLAYER_UPDATE:       "SMSG_PLAYER_UPDATE",
	SMSG_MESSAGE:             "SMSG_MESSAGE",
	SMSG_QUEST_UPDATE:        "SMSG_QUEST_UPDATE",
	SMSG_THEATRICS:           "SMSG_THEATRICS",
	SMSG_SKILL_SHOW:          "SMSG_SKILL_SHOW",
	SMSG_MAP_EFFECT:          "SMSG_MAP_EFFECT",
	SMSG_SOUND:               "SMSG_SOUND",
	SMSG_NOTICE:              "SMSG_NOTICE",
	SMSG_MOB_SHOW:            "SMSG_MOB_SHOW",
	SMSG_MOB_DESTROY:         "SMSG_MOB_DESTROY",
	SMSG_DROP_ITEM:           "SMSG_DROP_ITEM",
	SMSG_DROP_PICKUP:         "SMSG_DROP_PICKUP",
	SMSG_REACTOR_TRIGGER:     "SMSG_REACTOR_TRIGGER",
	SMSG_REACTOR_SPAWN:       "SMSG_REACTOR_SPAWN",
	SMSG_REACTOR_DESTROY:     "SMSG_REACTOR_DESTROY",
}

func (h Header) String() string {
	if name, ok := headerNames[h]; ok {
		return name
	}
	return fmt.Sprintf("0x%04X", uint16(h))
}
