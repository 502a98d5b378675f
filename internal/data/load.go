package data

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Tables bundles every content table the channel loads at startup.
// All tables are read-only after Load returns.
type Tables struct {
	Items    *ItemTable
	Npcs     *NpcTable
	Quests   *QuestTable
	Mobs     *MobTable
	Reactors *ReactorTable
	Maps     *MapTable
}

// Load reads all tables from dir.
func Load(dir string) (*Tables, error) {
	var (
		t   Tables
		err error
	)
	if t.Items, err = LoadItemTable(filepath.Join(dir, "item_list.yaml")); err != nil {
		return nil, err
	}
	if t.Npcs, err = LoadNpcTable(filepath.Join(dir, "npc_list.yaml")); err != nil {
		return nil, err
	}
	if t.Quests, err = LoadQuestTable(filepath.Join(dir, "quest_list.yaml")); err != nil {
		return nil, err
	}
	if t.Mobs, err = LoadMobTable(filepath.Join(dir, "mob_list.yaml")); err != nil {
		return nil, err
	}
	if t.Reactors, err = LoadReactorTable(filepath.Join(dir, "reactor_list.yaml")); err != nil {
		return nil, err
	}
	if t.Maps, err = LoadMapTable(filepath.Join(dir, "map_list.yaml")); err != nil {
		return nil, err
	}
	return &t, nil
}

func readYAML(path, what string, out any) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", what, err)
	}
	if err := yaml.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("parse %s: %w", what, err)
	}
	return nil
}
