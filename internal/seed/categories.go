package seed

import (
	"context"
	"fmt"

	"worklane/internal/store"
	"worklane/pkg/types"
)

// SeedCategories syncs the database with the category definitions below.
// This file is the source of truth for categories:
// - Inserts new categories that don't exist
// - Updates existing categories that have changed
// - Deletes categories from DB that aren't in this list
//
// To generate new IDs: `go run ./cmd/worklane nanoid`
func SeedCategories(ctx context.Context, repo *store.CategoryRepository) error {
	categories := []types.Category{
		{ID: "pQ3nXhWdT8kLYm2RbVJ4EcA9sFgU6zDo", Name: "Web Development", Slug: "web-development"},
		{ID: "Ke7BvNsY1qTjXaZCm4dH8RpWuL2fGiE5", Name: "Mobile Development", Slug: "mobile-development"},
		{ID: "Zr9TwQxE3mKaVbYs6NnUoC1jHdP5LfB8", Name: "Design & Creative", Slug: "design-creative"},
		{ID: "Av5GcJhM2pSdXeZq8WkRt4BnYuL7FiN0", Name: "Writing & Translation", Slug: "writing-translation"},
		{ID: "Hx8LmPzD4rVcKbTn1QjWs6EaYgU3NfC9", Name: "Marketing & Sales", Slug: "marketing-sales"},
		{ID: "Bw2NkRtF7sXaQeYc9MjVd5HpZuL4GiA6", Name: "Data & Analytics", Slug: "data-analytics"},
		{ID: "Ju6FvCxS3tWbPdZm8KqRn1YjHeA5LgT0", Name: "Finance & Accounting", Slug: "finance-accounting"},
		{ID: "Qy4DnHkG9vXcTbWs2PjMe7RaZuL1FiB5", Name: "Admin & Support", Slug: "admin-support"},
	}

	fmt.Println("Starting category sync...")
	fmt.Printf("  Seed file contains %d categories\n", len(categories))

	seedIDs := make(map[string]bool)
	for _, cat := range categories {
		seedIDs[cat.ID] = true
	}

	existing, err := repo.AllCategories(ctx)
	if err != nil {
		return fmt.Errorf("failed to fetch existing categories: %w", err)
	}
	fmt.Printf("  Database contains %d categories\n", len(existing))

	deletedCount := 0
	for _, existingCat := range existing {
		if !seedIDs[existingCat.ID] {
			fmt.Printf("  Deleting category: %s (id: %s)\n", existingCat.Name, existingCat.ID)
			if err := repo.DeleteCategory(ctx, existingCat.ID); err != nil {
				return fmt.Errorf("failed to delete category %s: %w", existingCat.ID, err)
			}
			deletedCount++
		}
	}

	upsertedCount := 0
	for _, cat := range categories {
		fmt.Printf("  Upserting category: %s (slug: %s)\n", cat.Name, cat.Slug)
		if err := repo.UpsertCategory(ctx, &cat); err != nil {
			return fmt.Errorf("failed to upsert category %s: %w", cat.Slug, err)
		}
		upsertedCount++
	}

	fmt.Printf("\nSync complete: %d upserted, %d deleted\n", upsertedCount, deletedCount)
	return nil
}
