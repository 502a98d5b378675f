package data

// MobTemplate holds static data for a mob loaded from YAML.
type MobTemplate struct {
	MobID int32  `yaml:"mob_id"`
	Name  string `yaml:"name"`
	Level int16  `yaml:"level"`
	HP    int32  `yaml:"hp"`
	Boss  bool   `yaml:"boss"`
}

type mobListFile struct {
	Mobs []MobTemplate `yaml:"mobs"`
}

type MobTable struct {
	templates map[int32]*MobTemplate
}

func LoadMobTable(path string) (*MobTable, error) {
	var f mobListFile
	if err := readYAML(path, "mob_list", &f); err != nil {
		return nil, err
	}
	return NewMobTable(f.Mobs), nil
}

func NewMobTable(mobs []MobTemplate) *MobTable {
	t := &MobTable{templates: make(map[int32]*MobTemplate, len(mobs))}
	for i := range mobs {
		t.templates[mobs[i].MobID] = &mobs[i]
	}
	return t
}

// Get returns a mob template by ID, or nil if not found.
func (t *MobTable) Get(mobID int32) *MobTemplate {
	return t.templates[mobID]
}

func (t *MobTable) Count() int {
	return len(t.templates)
}
