package world

import (
	"errors"
	"fmt"

	"github.com/vanago/channel/internal/data"
)

var (
	ErrMapNotFound     = errors.New("map not found")
	ErrReactorNotFound = errors.New("reactor not found")
	ErrPlayerNotFound  = errors.New("player not found")
)

// State is the channel's world: every map instance and every player
// in-world. Accessed only from the game loop goroutine.
type State struct {
	maps      map[int32]*Map
	players   map[int32]*Player
	bySession map[uint64]*Player
}

func NewState() *State {
	return &State{
		maps:      make(map[int32]*Map),
		players:   make(map[int32]*Player),
		bySession: make(map[uint64]*Player),
	}
}

// LoadMaps creates one instance of every map in t.
func (s *State) LoadMaps(t *data.MapTable) {
	for _, id := range t.IDs() {
		s.AddMap(NewMap(t.Get(id)))
	}
}

func (s *State) AddMap(m *Map) {
	s.maps[m.ID] = m
}

// RemoveMap tears down a map instance. Handles into it stop resolving.
func (s *State) RemoveMap(mapID int32) {
	delete(s.maps, mapID)
}

func (s *State) Map(mapID int32) (*Map, error) {
	m, ok := s.maps[mapID]
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrMapNotFound, mapID)
	}
	return m, nil
}

func (s *State) MapCount() int {
	return len(s.maps)
}

// Maps returns every map ordered by id.
func (s *State) Maps() []*Map {
	out := make([]*Map, 0, len(s.maps))
	for _, id := range sortedKeys(s.maps) {
		out = append(out, s.maps[id])
	}
	return out
}

// ResolveReactor looks a reactor up by handle. The map must exist and hold
// a reactor with that id whose own map id matches the handle.
func (s *State) ResolveReactor(h ReactorHandle) (*Reactor, error) {
	m, err := s.Map(h.MapID)
	if err != nil {
		return nil, err
	}
	r := m.Reactor(h.ReactorID)
	if r == nil || r.MapID() != h.MapID {
		return nil, fmt.Errorf("%w: %d on map %d", ErrReactorNotFound, h.ReactorID, h.MapID)
	}
	return r, nil
}

// AddPlayer registers p and places it on its map.
func (s *State) AddPlayer(p *Player) error {
	m, err := s.Map(p.MapID)
	if err != nil {
		return err
	}
	s.players[p.ID] = p
	s.bySession[p.SessionID] = p
	m.AddPlayer(p)
	return nil
}

// RemovePlayer unregisters a player and takes it off its map.
func (s *State) RemovePlayer(playerID int32) *Player {
	p, ok := s.players[playerID]
	if !ok {
		return nil
	}
	delete(s.players, playerID)
	delete(s.bySession, p.SessionID)
	if m, ok := s.maps[p.MapID]; ok {
		m.RemovePlayer(playerID)
	}
	return p
}

func (s *State) Player(playerID int32) (*Player, error) {
	p, ok := s.players[playerID]
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrPlayerNotFound, playerID)
	}
	return p, nil
}

// PlayerBySession returns the player bound to a session, or nil.
func (s *State) PlayerBySession(sessionID uint64) *Player {
	return s.bySession[sessionID]
}

// Players returns every player in-world ordered by id.
func (s *State) Players() []*Player {
	out := make([]*Player, 0, len(s.players))
	for _, id := range sortedKeys(s.players) {
		out = append(out, s.players[id])
	}
	return out
}

func (s *State) PlayerCount() int {
	return len(s.players)
}
