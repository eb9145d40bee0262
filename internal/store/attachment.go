package store

import (
	"context"
	"fmt"

	"worklane/internal/utils"
	"worklane/pkg/types"

	sq "github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5/pgxpool"
)

const attachmentTableName = "worklane.attachments"

var attachmentColumns = utils.StructTagValues(types.Attachment{})

type AttachmentRepository struct {
	pool *pgxpool.Pool
}

func NewAttachmentRepository(pool *pgxpool.Pool) *AttachmentRepository {
	return &AttachmentRepository{pool: pool}
}

func (r *AttachmentRepository) Create(ctx context.Context, attachment *types.Attachment) error {
	query, args, err := psql().
		Insert(attachmentTableName).
		SetMap(utils.StructToMap(attachment)).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to generate create attachment query: %w", err)
	}

	_, err = r.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to create attachment: %w", err)
	}

	return nil
}

func (r *AttachmentRepository) AttachmentByID(ctx context.Context, id string) (*types.Attachment, error) {
	query, args, err := psql().
		Select(attachmentColumns...).
		From(attachmentTableName).
		Where(sq.Eq{"id": id}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate attachment query: %w", err)
	}

	var attachment types.Attachment
	err = pgxscan.Get(ctx, r.pool, &attachment, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch attachment: %w", err)
	}

	return &attachment, nil
}

func (r *AttachmentRepository) AttachmentsByIDs(ctx context.Context, ids []string) ([]types.Attachment, error) {
	if len(ids) == 0 {
		return []types.Attachment{}, nil
	}

	query, args, err := psql().
		Select(attachmentColumns...).
		From(attachmentTableName).
		Where(sq.Eq{"id": ids}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate attachments-by-ids query: %w", err)
	}

	var attachments []types.Attachment
	err = pgxscan.Select(ctx, r.pool, &attachments, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch attachments by ids: %w", err)
	}

	return attachments, nil
}

func (r *AttachmentRepository) DeleteAttachment(ctx context.Context, id string) error {
	query, args, err := psql().
		Delete(attachmentTableName).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to generate delete attachment query: %w", err)
	}

	_, err = r.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to delete attachment: %w", err)
	}

	return nil
}
