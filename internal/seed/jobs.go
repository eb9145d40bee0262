package seed

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"worklane/internal/store"
	"worklane/internal/utils"
	"worklane/pkg/types"

	"github.com/jackc/pgx/v5/pgxpool"
)

var fakeJobTitles = []string{
	"Build a marketing landing page",
	"React dashboard for internal tooling",
	"iOS app bug fixes and polish",
	"Technical blog posts on cloud infrastructure",
	"Brand refresh and logo design",
	"Data pipeline cleanup and documentation",
	"Bookkeeping catch-up for small agency",
	"Customer support workflow automation",
	"E-commerce checkout optimization",
	"Translate product docs to Spanish",
}

var fakeCoverLetters = []string{
	"I have shipped similar projects for three clients this year and can start immediately.",
	"My background matches this closely. Happy to share relevant samples.",
	"I can deliver this within two weeks with daily progress updates.",
	"This is squarely in my wheelhouse. My bid includes one round of revisions.",
}

type weightedJobStatus struct {
	Status types.JobStatus
	Weight int
}

var weightedStatuses = []weightedJobStatus{
	{Status: types.JobStatusDraft, Weight: 20},
	{Status: types.JobStatusPublished, Weight: 60},
	{Status: types.JobStatusClosed, Weight: 20},
}

func SeedFakeJobs(
	ctx context.Context,
	pool *pgxpool.Pool,
	jobRepo *store.JobRepository,
	applicationRepo *store.ApplicationRepository,
	categoryRepo *store.CategoryRepository,
	count int,
	reset bool,
) error {
	if count <= 0 {
		fmt.Println("Skipping fake jobs seed because count <= 0")
		return nil
	}

	if reset {
		result, err := pool.Exec(ctx, `DELETE FROM worklane.jobs WHERE title LIKE '[seed] %'`)
		if err != nil {
			return fmt.Errorf("failed to reset seeded fake jobs: %w", err)
		}
		fmt.Printf("Reset seeded fake jobs: %d deleted\n", result.RowsAffected())
	}

	categories, err := categoryRepo.AllCategories(ctx)
	if err != nil {
		return fmt.Errorf("failed to load categories for fake jobs: %w", err)
	}
	if len(categories) == 0 {
		return fmt.Errorf("no categories found; run category seed first")
	}

	employerIDs := seedEmployerIDs()
	if len(employerIDs) == 0 {
		return fmt.Errorf("no published employer users available; seed fake users first")
	}
	freelancerIDs := seedFreelancerIDs()

	rng := rand.New(rand.NewSource(time.Now().UnixNano()))

	created := 0
	for i := 0; i < count; i++ {
		status := pickWeightedStatus(rng)
		budget := (rng.Intn(95) + 5) * 10000

		job := &types.Job{
			EmployerID:  employerIDs[rng.Intn(len(employerIDs))],
			Title:       fmt.Sprintf("[seed] %s", fakeJobTitles[rng.Intn(len(fakeJobTitles))]),
			Category:    utils.StringPtr(categories[rng.Intn(len(categories))].Slug),
			BudgetCents: budget,
			Status:      status,
			IsFeatured:  status == types.JobStatusPublished && rng.Intn(100) < 15,
		}

		if status != types.JobStatusDraft {
			publishedAt := time.Now().Add(-time.Duration(rng.Intn(21*24)) * time.Hour)
			job.PublishedAt = &publishedAt
		}

		if err := jobRepo.Create(ctx, job); err != nil {
			return fmt.Errorf("failed to create fake job %d: %w", i+1, err)
		}

		if status == types.JobStatusPublished && len(freelancerIDs) > 0 {
			applicantCount := rng.Intn(len(freelancerIDs) + 1)
			for _, freelancerID := range freelancerIDs[:applicantCount] {
				application := &types.Application{
					JobID:          job.ID,
					FreelancerID:   freelancerID,
					CoverLetter:    utils.StringPtr(fakeCoverLetters[rng.Intn(len(fakeCoverLetters))]),
					BidAmountCents: budget - rng.Intn(budget/2+1),
				}
				if err := applicationRepo.Create(ctx, application); err != nil {
					return fmt.Errorf("failed to create fake application for job %s: %w", job.ID, err)
				}
			}
		}

		created++
	}

	fmt.Printf("Fake jobs seeded: %d created\n", created)
	return nil
}

func pickWeightedStatus(rng *rand.Rand) types.JobStatus {
	total := 0
	for _, item := range weightedStatuses {
		total += item.Weight
	}
	if total == 0 {
		return types.JobStatusDraft
	}

	roll := rng.Intn(total)
	running := 0
	for _, item := range weightedStatuses {
		running += item.Weight
		if roll < running {
			return item.Status
		}
	}

	return types.JobStatusDraft
}
