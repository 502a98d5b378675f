package persist

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/vanago/channel/internal/anomaly"
)

const insertAnomaly = `INSERT INTO anomalies (id, recorded_at, kind, player_id, player_name, quest_id, npc_id, item_id, message)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	ON CONFLICT (id) DO NOTHING`

// AnomalyRepo stores anomaly records for operator review.
type AnomalyRepo struct {
	db *DB
}

func NewAnomalyRepo(db *DB) *AnomalyRepo {
	return &AnomalyRepo{db: db}
}

// InsertBatch atomically writes a batch of records in a single transaction.
// Records already stored are skipped, so a retried batch is harmless.
func (r *AnomalyRepo) InsertBatch(ctx context.Context, records []anomaly.Record) error {
	if len(records) == 0 {
		return nil
	}
	err := r.db.WithTx(ctx, func(tx pgx.Tx) error {
		b := &pgx.Batch{}
		for _, rec := range records {
			b.Queue(insertAnomaly,
				rec.ID, rec.At, string(rec.Kind), rec.PlayerID, rec.PlayerName,
				int32(rec.QuestID), rec.NpcID, rec.ItemID, rec.Message,
			)
		}
		return execBatch(ctx, tx, b)
	})
	if err != nil {
		return fmt.Errorf("insert %d anomalies: %w", len(records), err)
	}
	return nil
}
