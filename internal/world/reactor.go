package world

import "github.com/vanago/channel/internal/net/serverpacket"

// ReactorHandle names a reactor by the map it lives on and its object id.
// Handles stay valid across ticks; resolve them through State.ResolveReactor.
type ReactorHandle struct {
	MapID     int32
	ReactorID int32
}

// Reactor is a stateful map object players hit or trigger. State and the
// alive flag change only through the methods below, each of which tells the
// map's players.
type Reactor struct {
	ID           int32 // map object id
	TemplateID   int32
	Pos          Pos
	FacesLeft    bool
	RespawnTicks int // 0 = stays dead

	mapID     int32
	m         *Map
	state     int8
	alive     bool
	respawnIn int
}

func (r *Reactor) MapID() int32 {
	return r.mapID
}

func (r *Reactor) Handle() ReactorHandle {
	return ReactorHandle{MapID: r.mapID, ReactorID: r.ID}
}

func (r *Reactor) State() int8 {
	return r.state
}

func (r *Reactor) IsAlive() bool {
	return r.alive
}

// SetState overwrites the state, broadcasting the change if notify is set.
// The state never goes negative: a negative v is ignored and reported false.
func (r *Reactor) SetState(v int8, notify bool) bool {
	if v < 0 {
		return false
	}
	r.state = v
	if notify {
		r.m.Send(serverpacket.ReactorTrigger(r.info()))
	}
	return true
}

// Reset revives the reactor at state 0 and broadcasts it. Resetting an
// already reset reactor leaves it unchanged.
func (r *Reactor) Reset() {
	r.alive = true
	r.respawnIn = 0
	r.SetState(0, true)
}

// Kill removes the reactor from clients and arms its respawn timer.
func (r *Reactor) Kill() {
	if !r.alive {
		return
	}
	r.alive = false
	r.m.Send(serverpacket.ReactorDestroy(r.info()))
	r.respawnIn = r.RespawnTicks
}

// Revive brings a dead reactor back at state 0.
func (r *Reactor) Revive() {
	r.alive = true
	r.state = 0
	r.respawnIn = 0
	r.m.Send(serverpacket.ReactorSpawn(r.info()))
}

// tick advances the respawn timer; the reactor revives when it expires.
func (r *Reactor) tick() {
	if r.alive || r.respawnIn <= 0 {
		return
	}
	r.respawnIn--
	if r.respawnIn == 0 {
		r.Revive()
	}
}

func (r *Reactor) info() serverpacket.ReactorInfo {
	return serverpacket.ReactorInfo{
		ObjectID:   r.ID,
		TemplateID: r.TemplateID,
		State:      r.state,
		X:          r.Pos.X,
		Y:          r.Pos.Y,
		FacesLeft:  r.FacesLeft,
	}
}
