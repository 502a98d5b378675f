package data

// ItemReward is one item stack granted (or taken, if negative) on completion.
type ItemReward struct {
	ItemID int32 `yaml:"item_id"`
	Count  int16 `yaml:"count"`
}

// QuestInfo holds static data for a quest loaded from YAML.
type QuestInfo struct {
	QuestID uint16       `yaml:"quest_id"`
	Name    string       `yaml:"name"`
	Items   []ItemReward `yaml:"items,omitempty"`
	Mesos   int32        `yaml:"mesos,omitempty"`
	Fame    int32        `yaml:"fame,omitempty"`
}

type questListFile struct {
	Quests []QuestInfo `yaml:"quests"`
}

// QuestTable holds all quests indexed by QuestID.
type QuestTable struct {
	quests map[uint16]*QuestInfo
}

func LoadQuestTable(path string) (*QuestTable, error) {
	var f questListFile
	if err := readYAML(path, "quest_list", &f); err != nil {
		return nil, err
	}
	return NewQuestTable(f.Quests), nil
}

func NewQuestTable(quests []QuestInfo) *QuestTable {
	t := &QuestTable{quests: make(map[uint16]*QuestInfo, len(quests))}
	for i := range quests {
		t.quests[quests[i].QuestID] = &quests[i]
	}
	return t
}

func (t *QuestTable) IsQuest(questID uint16) bool {
	_, ok := t.quests[questID]
	return ok
}

// Get returns a quest by ID, or nil if not found.
func (t *QuestTable) Get(questID uint16) *QuestInfo {
	return t.quests[questID]
}

func (t *QuestTable) Count() int {
	return len(t.quests)
}
