package world

// Conn is the outbound side of a client connection.
type Conn interface {
	Send(data []byte)
}

// Player holds in-memory data for a player currently in-world.
// Accessed only from the game loop goroutine; no locks needed.
type Player struct {
	SessionID uint64
	Conn      Conn
	ID        int32 // character DB id, also the player's object id in packets
	AccountID int32
	Name      string
	MapID     int32
	Pos       Pos
	Level     int16
	Job       int16
	Fame      int16

	Inv    *Inventory
	Quests *QuestLog

	// Dirty is set when persisted state changes. PersistenceSystem saves
	// dirty players and clears it after a successful save.
	Dirty bool
}

func NewPlayer(id int32, name string, conn Conn) *Player {
	return &Player{
		ID:     id,
		Name:   name,
		Conn:   conn,
		Inv:    NewInventory(),
		Quests: NewQuestLog(),
	}
}

// Send queues data for this player. A player without a connection (being
// loaded or already gone) drops it.
func (p *Player) Send(data []byte) {
	if p.Conn != nil {
		p.Conn.Send(data)
	}
}

func (p *Player) SendAll(pkts [][]byte) {
	for _, data := range pkts {
		p.Send(data)
	}
}
