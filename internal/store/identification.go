package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"worklane/pkg/types"

	sq "github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5/pgxpool"
)

const identificationTableName = "worklane.identifications"

var identificationColumns = []string{
	"user_id",
	"attachments",
	"created_at",
	"updated_at",
}

// IdentificationRepository persists identification records. The attachments
// column is a JSONB mapping of slot name to attachment-id list; display
// metadata is resolved from the attachments table at read time.
type IdentificationRepository struct {
	pool        *pgxpool.Pool
	attachments *AttachmentRepository
}

func NewIdentificationRepository(pool *pgxpool.Pool, attachments *AttachmentRepository) *IdentificationRepository {
	return &IdentificationRepository{pool: pool, attachments: attachments}
}

type identificationRow struct {
	UserID      string    `db:"user_id"`
	Attachments []byte    `db:"attachments"`
	CreatedAt   time.Time `db:"created_at"`
	UpdatedAt   time.Time `db:"updated_at"`
}

// Record loads the identification record for a user, or (nil, nil) if the
// user has never submitted.
func (r *IdentificationRepository) Record(ctx context.Context, userID string) (*types.IdentificationRecord, error) {
	query, args, err := psql().
		Select(identificationColumns...).
		From(identificationTableName).
		Where(sq.Eq{"user_id": userID}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate identification query: %w", err)
	}

	var row identificationRow
	err = pgxscan.Get(ctx, r.pool, &row, query, args...)
	if err != nil {
		if pgxscan.NotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to fetch identification record: %w", err)
	}

	ids, err := decodeSlotAttachmentIDs(row.Attachments)
	if err != nil {
		return nil, fmt.Errorf("failed to decode attachments column for user %s: %w", userID, err)
	}

	var all []string
	for _, slotIDs := range ids {
		all = append(all, slotIDs...)
	}

	attachments, err := r.attachments.AttachmentsByIDs(ctx, all)
	if err != nil {
		return nil, err
	}

	byID := make(map[string]types.Attachment, len(attachments))
	for _, a := range attachments {
		byID[a.ID] = a
	}

	record := &types.IdentificationRecord{
		UserID:    row.UserID,
		Slots:     map[types.SlotName][]types.Attachment{},
		CreatedAt: row.CreatedAt,
		UpdatedAt: row.UpdatedAt,
	}
	for slot, slotIDs := range ids {
		slotAtts := make([]types.Attachment, 0, len(slotIDs))
		for _, id := range slotIDs {
			att, ok := byID[id]
			if !ok {
				// Dangling reference; the metadata row was removed out of band.
				continue
			}
			slotAtts = append(slotAtts, att)
		}
		record.Slots[slot] = slotAtts
	}

	return record, nil
}

// Save upserts the record, replacing the whole attachments mapping.
func (r *IdentificationRepository) Save(ctx context.Context, record *types.IdentificationRecord) error {
	ids := map[types.SlotName][]string{}
	for slot, atts := range record.Slots {
		slotIDs := make([]string, 0, len(atts))
		for _, a := range atts {
			slotIDs = append(slotIDs, a.ID)
		}
		ids[slot] = slotIDs
	}

	encoded, err := json.Marshal(ids)
	if err != nil {
		return fmt.Errorf("failed to encode attachments column: %w", err)
	}

	now := time.Now()
	query, args, err := psql().
		Insert(identificationTableName).
		Columns(identificationColumns...).
		Values(record.UserID, encoded, now, now).
		Suffix("ON CONFLICT (user_id) DO UPDATE SET attachments = EXCLUDED.attachments, updated_at = EXCLUDED.updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to generate upsert identification query: %w", err)
	}

	_, err = r.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to upsert identification record: %w", err)
	}

	return nil
}

// decodeSlotAttachmentIDs normalizes the attachments column. Older rows hold
// the slot mapping JSON-encoded inside a JSON string; newer rows hold the
// object directly. Both shapes are handled here, once, so no caller ever
// parses the column inline.
func decodeSlotAttachmentIDs(raw []byte) (map[types.SlotName][]string, error) {
	if len(raw) == 0 {
		return map[types.SlotName][]string{}, nil
	}

	var nested string
	if err := json.Unmarshal(raw, &nested); err == nil {
		raw = []byte(nested)
	}

	ids := map[types.SlotName][]string{}
	if err := json.Unmarshal(raw, &ids); err != nil {
		return nil, err
	}

	return ids, nil
}
