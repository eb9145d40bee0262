package main

import (
	"context"
	"fmt"

	"worklane/internal/db"
	"worklane/internal/seed"
	"worklane/internal/store"

	"github.com/k0kubun/pp/v3"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
)

var seedCommand = &cli.Command{
	Name:  "seed",
	Usage: "Seed the database with initial data",
	Flags: []cli.Flag{
		&cli.IntFlag{
			Name:  "fake-jobs",
			Usage: "Number of fake jobs to create (0 to skip)",
			Value: 0,
		},
		&cli.BoolFlag{
			Name:  "reset-fake",
			Usage: "Delete previously seeded fake jobs first",
		},
	},
	Action: func(c *cli.Context) error {
		cfg, err := loadConfig()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		ctx := context.Background()

		pool, err := db.Connect(ctx, cfg)
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		defer pool.Close()

		logrus.Info("Connected to database")

		userRepo := store.NewUserRepository(pool)
		jobRepo := store.NewJobRepository(pool)
		applicationRepo := store.NewApplicationRepository(pool)
		categoryRepo := store.NewCategoryRepository(pool)

		logrus.Info("Seeding categories...")
		if err := seed.SeedCategories(ctx, categoryRepo); err != nil {
			return fmt.Errorf("failed to seed categories: %w", err)
		}

		fakeJobs := c.Int("fake-jobs")
		if fakeJobs > 0 {
			logrus.Info("Seeding fake users...")
			if err := seed.SeedFakeUsers(ctx, userRepo); err != nil {
				return fmt.Errorf("failed to seed fake users: %w", err)
			}

			logrus.Info("Seeding fake jobs...")
			err := seed.SeedFakeJobs(ctx, pool, jobRepo, applicationRepo, categoryRepo, fakeJobs, c.Bool("reset-fake"))
			if err != nil {
				return fmt.Errorf("failed to seed fake jobs: %w", err)
			}
		}

		summary := struct {
			CategoriesSynced bool
			FakeJobsCreated  int
			FakeReset        bool
		}{
			CategoriesSynced: true,
			FakeJobsCreated:  fakeJobs,
			FakeReset:        c.Bool("reset-fake"),
		}
		pp.Println(summary)

		logrus.Info("Seed complete")

		return nil
	},
}
