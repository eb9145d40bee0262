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

const jobTableName = "worklane.jobs"

var jobColumns = utils.StructTagValues(types.Job{})

type JobRepository struct {
	pool *pgxpool.Pool
}

func NewJobRepository(pool *pgxpool.Pool) *JobRepository {
	return &JobRepository{pool: pool}
}

func (r *JobRepository) Job(ctx context.Context, jobID string) (*types.Job, error) {
	query, args, err := psql().
		Select(jobColumns...).
		From(jobTableName).
		Where(sq.Eq{"id": jobID}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate job query: %w", err)
	}

	var job types.Job
	err = pgxscan.Get(ctx, r.pool, &job, query, args...)
	if err != nil {
		if pgxscan.NotFound(err) {
			return nil, types.ErrJobNotFound
		}
		return nil, fmt.Errorf("failed to fetch job: %w", err)
	}

	return &job, nil
}

// PublishedJobs lists open postings for browsing, featured postings first.
func (r *JobRepository) PublishedJobs(ctx context.Context, category string) ([]*types.Job, error) {
	builder := psql().
		Select(jobColumns...).
		From(jobTableName).
		Where(sq.Eq{"status": types.JobStatusPublished}).
		OrderBy("is_featured DESC", "published_at DESC")

	if category != "" {
		builder = builder.Where(sq.Eq{"category": category})
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate published jobs query: %w", err)
	}

	jobs := make([]*types.Job, 0)
	err = pgxscan.Select(ctx, r.pool, &jobs, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch published jobs: %w", err)
	}

	return jobs, nil
}

func (r *JobRepository) JobsByEmployer(ctx context.Context, employerID string) ([]*types.Job, error) {
	query, args, err := psql().
		Select(jobColumns...).
		From(jobTableName).
		Where(sq.Eq{"employer_id": employerID}).
		OrderBy("created_at DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate jobs-by-employer query: %w", err)
	}

	jobs := make([]*types.Job, 0)
	err = pgxscan.Select(ctx, r.pool, &jobs, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch employer jobs: %w", err)
	}

	return jobs, nil
}

func (r *JobRepository) Create(ctx context.Context, job *types.Job) error {
	if job.ID == "" {
		job.ID = utils.NanoID()
	}
	now := time.Now()
	job.CreatedAt = now
	job.UpdatedAt = now
	if job.Status == "" {
		job.Status = types.JobStatusDraft
	}

	query, args, err := psql().
		Insert(jobTableName).
		SetMap(utils.StructToMap(job)).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to generate create job query: %w", err)
	}

	_, err = r.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to create job: %w", err)
	}

	return nil
}

// Update rewrites the job row scoped by both job ID and employer ID so an
// employer can never touch another employer's posting.
func (r *JobRepository) Update(ctx context.Context, job *types.Job) error {
	job.UpdatedAt = time.Now()

	query, args, err := psql().
		Update(jobTableName).
		SetMap(utils.StructToMap(job)).
		Where(sq.Eq{"id": job.ID, "employer_id": job.EmployerID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to generate update job query: %w", err)
	}

	res, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update job: %w", err)
	}
	if res.RowsAffected() == 0 {
		return types.ErrJobNotFound
	}

	return nil
}

func (r *JobRepository) SetFeatured(ctx context.Context, jobID string, featured bool) error {
	query, args, err := psql().
		Update(jobTableName).
		Set("is_featured", featured).
		Set("updated_at", time.Now()).
		Where(sq.Eq{"id": jobID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to generate set featured query: %w", err)
	}

	_, err = r.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to set job featured flag: %w", err)
	}

	return nil
}
