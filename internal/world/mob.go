package world

import "github.com/vanago/channel/internal/net/serverpacket"

// Zakum is spawned in parts: the body, then eight arms linked to it.
const (
	ZakumBody     int32 = 8800000
	ZakumFirstArm int32 = 8800003
	ZakumLastArm  int32 = 8800010
)

// Mob is a monster on a map.
type Mob struct {
	ObjectID int32
	MobID    int32
	Pos      Pos
	Foothold int16
	LinkedTo int32 // object id of the mob this one belongs to, 0 if none
}

func (mob *Mob) info() serverpacket.MobInfo {
	return serverpacket.MobInfo{
		ObjectID: mob.ObjectID,
		MobID:    mob.MobID,
		X:        mob.Pos.X,
		Y:        mob.Pos.Y,
		Foothold: mob.Foothold,
		LinkedTo: mob.LinkedTo,
	}
}
