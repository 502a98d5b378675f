package data

// NpcInfo identifies an NPC that may take part in quest conversations.
type NpcInfo struct {
	NpcID int32  `yaml:"npc_id"`
	Name  string `yaml:"name"`
}

type npcListFile struct {
	Npcs []NpcInfo `yaml:"npcs"`
}

// NpcTable is the set of known NPC ids. Quest actions naming any other id are
// rejected.
type NpcTable struct {
	npcs map[int32]*NpcInfo
}

func LoadNpcTable(path string) (*NpcTable, error) {
	var f npcListFile
	if err := readYAML(path, "npc_list", &f); err != nil {
		return nil, err
	}
	return NewNpcTable(f.Npcs), nil
}

func NewNpcTable(npcs []NpcInfo) *NpcTable {
	t := &NpcTable{npcs: make(map[int32]*NpcInfo, len(npcs))}
	for i := range npcs {
		t.npcs[npcs[i].NpcID] = &npcs[i]
	}
	return t
}

func (t *NpcTable) IsNpc(npcID int32) bool {
	_, ok := t.npcs[npcID]
	return ok
}

// Name returns the NPC's display name, or "" for an unknown id.
func (t *NpcTable) Name(npcID int32) string {
	if n := t.npcs[npcID]; n != nil {
		return n.Name
	}
	return ""
}

func (t *NpcTable) Count() int {
	return len(t.npcs)
}
