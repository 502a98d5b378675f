package data

// ReactorSpawn places one reactor on a map.
type ReactorSpawn struct {
	ReactorID    int32 `yaml:"reactor_id"`
	X            int16 `yaml:"x"`
	Y            int16 `yaml:"y"`
	FacesLeft    bool  `yaml:"faces_left"`
	RespawnTicks int   `yaml:"respawn_ticks"` // 0 = never respawns
}

// MapInfo holds metadata for a single map, loaded from map_list.yaml.
type MapInfo struct {
	MapID     int32          `yaml:"map_id"`
	Name      string         `yaml:"name"`
	Music     string         `yaml:"music"`
	ReturnMap int32          `yaml:"return_map"`
	Reactors  []ReactorSpawn `yaml:"reactors,omitempty"`
}

type mapListFile struct {
	Maps []MapInfo `yaml:"maps"`
}

type MapTable struct {
	maps map[int32]*MapInfo
	ids  []int32 // load order
}

func LoadMapTable(path string) (*MapTable, error) {
	var f mapListFile
	if err := readYAML(path, "map_list", &f); err != nil {
		return nil, err
	}
	return NewMapTable(f.Maps), nil
}

func NewMapTable(maps []MapInfo) *MapTable {
	t := &MapTable{maps: make(map[int32]*MapInfo, len(maps))}
	for i := range maps {
		id := maps[i].MapID
		if _, dup := t.maps[id]; !dup {
			t.ids = append(t.ids, id)
		}
		t.maps[id] = &maps[i]
	}
	return t
}

// Get returns map metadata by ID, or nil if not found.
func (t *MapTable) Get(mapID int32) *MapInfo {
	return t.maps[mapID]
}

// IDs returns every map ID in load order.
func (t *MapTable) IDs() []int32 {
	return t.ids
}

func (t *MapTable) Count() int {
	return len(t.maps)
}
