package store

import (
	"context"
	"fmt"
	"time"

	"worklane/internal/utils"
	"worklane/pkg/types"

	sq "github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5/pgxpool"
)

const applicationTableName = "worklane.applications"

var applicationColumns = utils.StructTagValues(types.Application{})

type ApplicationRepository struct {
	pool *pgxpool.Pool
}

func NewApplicationRepository(pool *pgxpool.Pool) *ApplicationRepository {
	return &ApplicationRepository{pool: pool}
}

func (r *ApplicationRepository) Create(ctx context.Context, application *types.Application) error {
	if application.ID == "" {
		application.ID = utils.NanoID()
	}
	now := time.Now()
	application.CreatedAt = now
	application.UpdatedAt = now
	if application.Status == "" {
		application.Status = types.ApplicationStatusApplied
	}

	query, args, err := psql().
		Insert(applicationTableName).
		SetMap(utils.StructToMap(application)).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to generate create application query: %w", err)
	}

	_, err = r.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to create application: %w", err)
	}

	return nil
}

func (r *ApplicationRepository) Application(ctx context.Context, applicationID string) (*types.Application, error) {
	query, args, err := psql().
		Select(applicationColumns...).
		From(applicationTableName).
		Where(sq.Eq{"id": applicationID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate application query: %w", err)
	}

	var application types.Application
	err = pgxscan.Get(ctx, r.pool, &application, query, args...)
	if err != nil {
		if pgxscan.NotFound(err) {
			return nil, types.ErrApplicationNotFound
		}
		return nil, fmt.Errorf("failed to fetch application: %w", err)
	}

	return &application, nil
}

func (r *ApplicationRepository) ApplicationsByJob(ctx context.Context, jobID string) ([]*types.Application, error) {
	query, args, err := psql().
		Select(applicationColumns...).
		From(applicationTableName).
		Where(sq.Eq{"job_id": jobID}).
		OrderBy("created_at ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate applications-by-job query: %w", err)
	}

	applications := make([]*types.Application, 0)
	err = pgxscan.Select(ctx, r.pool, &applications, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch applications for job: %w", err)
	}

	return applications, nil
}

func (r *ApplicationRepository) ApplicationsByFreelancer(ctx context.Context, freelancerID string) ([]*types.Application, error) {
	query, args, err := psql().
		Select(applicationColumns...).
		From(applicationTableName).
		Where(sq.Eq{"freelancer_id": freelancerID}).
		OrderBy("created_at DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate applications-by-freelancer query: %w", err)
	}

	applications := make([]*types.Application, 0)
	err = pgxscan.Select(ctx, r.pool, &applications, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch freelancer applications: %w", err)
	}

	return applications, nil
}

// ApplicationByJobAndFreelancer returns the freelancer's application to a
// job, or ErrApplicationNotFound; used to block duplicate applications.
func (r *ApplicationRepository) ApplicationByJobAndFreelancer(ctx context.Context, jobID, freelancerID string) (*types.Application, error) {
	query, args, err := psql().
		Select(applicationColumns...).
		From(applicationTableName).
		Where(sq.Eq{"job_id": jobID, "freelancer_id": freelancerID}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate application lookup query: %w", err)
	}

	var application types.Application
	err = pgxscan.Get(ctx, r.pool, &application, query, args...)
	if err != nil {
		if pgxscan.NotFound(err) {
			return nil, types.ErrApplicationNotFound
		}
		return nil, fmt.Errorf("failed to fetch application: %w", err)
	}

	return &application, nil
}

func (r *ApplicationRepository) SetStatus(ctx context.Context, applicationID string, status types.ApplicationStatus) error {
	query, args, err := psql().
		Update(applicationTableName).
		Set("status", status).
		Set("updated_at", time.Now()).
		Where(sq.Eq{"id": applicationID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to generate set application status query: %w", err)
	}

	res, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to set application status: %w", err)
	}
	if res.RowsAffected() == 0 {
		return types.ErrApplicationNotFound
	}

	return nil
}
