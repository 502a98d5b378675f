package persist

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/vanago/channel/internal/world"
)

// ErrCharacterNotFound is returned by Load and Save for an unknown character id.
var ErrCharacterNotFound = errors.New("character not found")

type CharacterRow struct {
	ID        int32
	AccountID int32
	Name      string
	Level     int16
	Job       int16
	Fame      int16
	Mesos     int32
	MapID     int32
	X         int16
	Y         int16
}

type QuestRow struct {
	QuestID     uint16
	NpcID       int32
	CompletedAt *time.Time
}

// CharacterRepo loads and saves characters with their inventory and quest
// log. Implements handler.CharacterLoader and system.CharacterSaver.
type CharacterRepo struct {
	db *DB
}

func NewCharacterRepo(db *DB) *CharacterRepo {
	return &CharacterRepo{db: db}
}

// Load reads a character, its items and its quests.
func (r *CharacterRepo) Load(ctx context.Context, charID int32) (*world.Player, error) {
	var c CharacterRow
	err := r.db.Pool.QueryRow(ctx,
		`SELECT id, account_id, name, level, job, fame, mesos, map_id, x, y
		 FROM characters WHERE id = $1`, charID,
	).Scan(&c.ID, &c.AccountID, &c.Name, &c.Level, &c.Job, &c.Fame, &c.Mesos, &c.MapID, &c.X, &c.Y)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%w: %d", ErrCharacterNotFound, charID)
	}
	if err != nil {
		return nil, fmt.Errorf("load character %d: %w", charID, err)
	}

	items, err := r.loadItems(ctx, charID)
	if err != nil {
		return nil, err
	}
	quests, err := r.loadQuests(ctx, charID)
	if err != nil {
		return nil, err
	}
	return PlayerFromRows(&c, items, quests), nil
}

func (r *CharacterRepo) loadItems(ctx context.Context, charID int32) ([]world.InvItem, error) {
	rows, err := r.db.Pool.Query(ctx,
		`SELECT item_id, count FROM character_items WHERE char_id = $1 ORDER BY slot`, charID,
	)
	if err != nil {
		return nil, fmt.Errorf("load items %d: %w", charID, err)
	}
	defer rows.Close()

	var items []world.InvItem
	for rows.Next() {
		var it world.InvItem
		if err := rows.Scan(&it.ItemID, &it.Count); err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

func (r *CharacterRepo) loadQuests(ctx context.Context, charID int32) ([]QuestRow, error) {
	rows, err := r.db.Pool.Query(ctx,
		`SELECT quest_id, npc_id, completed_at FROM character_quests WHERE char_id = $1`, charID,
	)
	if err != nil {
		return nil, fmt.Errorf("load quests %d: %w", charID, err)
	}
	defer rows.Close()

	var quests []QuestRow
	for rows.Next() {
		var (
			q       QuestRow
			questID int32
		)
		if err := rows.Scan(&questID, &q.NpcID, &q.CompletedAt); err != nil {
			return nil, err
		}
		q.QuestID = uint16(questID)
		quests = append(quests, q)
	}
	return quests, rows.Err()
}

// PlayerFromRows builds an in-world player from stored rows.
func PlayerFromRows(c *CharacterRow, items []world.InvItem, quests []QuestRow) *world.Player {
	p := world.NewPlayer(c.ID, c.Name, nil)
	p.AccountID = c.AccountID
	p.Level = c.Level
	p.Job = c.Job
	p.Fame = c.Fame
	p.MapID = c.MapID
	p.Pos = world.Pos{X: c.X, Y: c.Y}
	p.Inv.SetMesos(c.Mesos)
	for i := range items {
		it := items[i]
		p.Inv.Items = append(p.Inv.Items, &it)
	}
	for _, q := range quests {
		if q.CompletedAt != nil {
			p.Quests.RestoreCompleted(world.CompletedQuest{QuestID: q.QuestID, CompletedAt: *q.CompletedAt})
		} else {
			p.Quests.RestoreActive(world.ActiveQuest{QuestID: q.QuestID, NpcID: q.NpcID})
		}
	}
	return p
}

// QuestRows flattens a quest log for storage.
func QuestRows(q *world.QuestLog) []QuestRow {
	active := q.Active()
	completed := q.Completed()
	rows := make([]QuestRow, 0, len(active)+len(completed))
	for _, a := range active {
		rows = append(rows, QuestRow{QuestID: a.QuestID, NpcID: a.NpcID})
	}
	for _, c := range completed {
		at := c.CompletedAt
		rows = append(rows, QuestRow{QuestID: c.QuestID, CompletedAt: &at})
	}
	return rows
}

// Save writes the character, its inventory and its quest log in one
// transaction. Inventory and quest rows are replaced wholesale.
func (r *CharacterRepo) Save(ctx context.Context, p *world.Player) error {
	err := r.db.WithTx(ctx, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx,
			`UPDATE characters SET level=$1, job=$2, fame=$3, mesos=$4, map_id=$5, x=$6, y=$7, updated_at=now()
			 WHERE id=$8`,
			p.Level, p.Job, p.Fame, p.Inv.Mesos(), p.MapID, p.Pos.X, p.Pos.Y, p.ID,
		)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return ErrCharacterNotFound
		}

		b := &pgx.Batch{}
		b.Queue(`DELETE FROM character_items WHERE char_id = $1`, p.ID)
		for slot, it := range p.Inv.Items {
			b.Queue(`INSERT INTO character_items (char_id, slot, item_id, count) VALUES ($1, $2, $3, $4)`,
				p.ID, int16(slot), it.ItemID, it.Count)
		}
		b.Queue(`DELETE FROM character_quests WHERE char_id = $1`, p.ID)
		for _, q := range QuestRows(p.Quests) {
			b.Queue(`INSERT INTO character_quests (char_id, quest_id, npc_id, completed_at) VALUES ($1, $2, $3, $4)`,
				p.ID, int32(q.QuestID), q.NpcID, q.CompletedAt)
		}
		return execBatch(ctx, tx, b)
	})
	if err != nil {
		return fmt.Errorf("save character %d: %w", p.ID, err)
	}
	return nil
}
