package data

// ItemInfo holds static data for an item loaded from YAML.
type ItemInfo struct {
	ItemID          int32  `yaml:"item_id"`
	Name            string `yaml:"name"`
	Quest           bool   `yaml:"quest"` // restorable from the quest window
	ConsumeOnPickup bool   `yaml:"consume_on_pickup"`
	MaxStack        int16  `yaml:"max_stack"`
	Price           int32  `yaml:"price"`
}

// IsEquip reports whether itemID is an equipment item.
// Equipment never stacks.
func IsEquip(itemID int32) bool {
	return itemID/1000000 == 1
}

// IsRechargeable reports whether itemID is a throwing star or bullet.
func IsRechargeable(itemID int32) bool {
	return itemID/10000 == 207 || itemID/10000 == 233
}

type itemListFile struct {
	Items []ItemInfo `yaml:"items"`
}

// ItemTable holds all item templates indexed by ItemID.
type ItemTable struct {
	items map[int32]*ItemInfo
}

func LoadItemTable(path string) (*ItemTable, error) {
	var f itemListFile
	if err := readYAML(path, "item_list", &f); err != nil {
		return nil, err
	}
	return NewItemTable(f.Items), nil
}

func NewItemTable(items []ItemInfo) *ItemTable {
	t := &ItemTable{items: make(map[int32]*ItemInfo, len(items))}
	for i := range items {
		it := &items[i]
		if it.MaxStack <= 0 || IsEquip(it.ItemID) {
			it.MaxStack = 1
		}
		t.items[it.ItemID] = it
	}
	return t
}

// Get returns an item by ID, or nil if not found.
func (t *ItemTable) Get(itemID int32) *ItemInfo {
	return t.items[itemID]
}

func (t *ItemTable) Count() int {
	return len(t.items)
}
