package seed

import (
	"context"
	"errors"
	"fmt"

	"worklane/internal/store"
	"worklane/internal/utils"
	"worklane/pkg/types"
)

type fakeUserSeed struct {
	ID            string
	Email         string
	GivenName     string
	FamilyName    string
	AccountType   types.AccountType
	EmployerType  types.EmployerAccountType
	AccountStatus types.AccountStatus
}

var fakeUsers = []fakeUserSeed{
	{ID: "11111111-1111-1111-1111-111111111111", Email: "ava.williams+seed1@example.com", GivenName: "Ava", FamilyName: "Williams", AccountType: types.AccountTypeFreelancer, AccountStatus: types.AccountStatusPublished},
	{ID: "22222222-2222-2222-2222-222222222222", Email: "liam.johnson+seed2@example.com", GivenName: "Liam", FamilyName: "Johnson", AccountType: types.AccountTypeFreelancer, AccountStatus: types.AccountStatusPublished},
	{ID: "33333333-3333-3333-3333-333333333333", Email: "noah.brown+seed3@example.com", GivenName: "Noah", FamilyName: "Brown", AccountType: types.AccountTypeFreelancer, AccountStatus: types.AccountStatusPending},
	{ID: "44444444-4444-4444-4444-444444444444", Email: "mia.davis+seed4@example.com", GivenName: "Mia", FamilyName: "Davis", AccountType: types.AccountTypeFreelancer, AccountStatus: types.AccountStatusRejected},
	{ID: "55555555-5555-5555-5555-555555555555", Email: "elijah.garcia+seed5@example.com", GivenName: "Elijah", FamilyName: "Garcia", AccountType: types.AccountTypeEmployer, EmployerType: types.EmployerAccountTypeIndividual, AccountStatus: types.AccountStatusPublished},
	{ID: "66666666-6666-6666-6666-666666666666", Email: "olivia.miller+seed6@example.com", GivenName: "Olivia", FamilyName: "Miller", AccountType: types.AccountTypeEmployer, EmployerType: types.EmployerAccountTypeCompany, AccountStatus: types.AccountStatusPublished},
	{ID: "77777777-7777-7777-7777-777777777777", Email: "ethan.moore+seed7@example.com", GivenName: "Ethan", FamilyName: "Moore", AccountType: types.AccountTypeEmployer, EmployerType: types.EmployerAccountTypeCompany, AccountStatus: types.AccountStatusPending},
	{ID: "88888888-8888-8888-8888-888888888888", Email: "sophia.taylor+seed8@example.com", GivenName: "Sophia", FamilyName: "Taylor", AccountType: types.AccountTypeFreelancer, AccountStatus: types.AccountStatusDraft},
}

func seedEmployerIDs() []string {
	ids := make([]string, 0, len(fakeUsers))
	for _, user := range fakeUsers {
		if user.AccountType == types.AccountTypeEmployer && user.AccountStatus == types.AccountStatusPublished {
			ids = append(ids, user.ID)
		}
	}
	return ids
}

func seedFreelancerIDs() []string {
	ids := make([]string, 0, len(fakeUsers))
	for _, user := range fakeUsers {
		if user.AccountType == types.AccountTypeFreelancer && user.AccountStatus == types.AccountStatusPublished {
			ids = append(ids, user.ID)
		}
	}
	return ids
}

func SeedFakeUsers(ctx context.Context, userRepo *store.UserRepository) error {
	seeded := 0
	for _, fakeUser := range fakeUsers {
		accountType := fakeUser.AccountType
		var employerType *types.EmployerAccountType
		if fakeUser.EmployerType != "" {
			et := fakeUser.EmployerType
			employerType = &et
		}

		existing, err := userRepo.User(ctx, fakeUser.ID)
		if err != nil {
			if !errors.Is(err, types.ErrUserNotFound) {
				return fmt.Errorf("failed to fetch fake user %s: %w", fakeUser.ID, err)
			}

			newUser := &types.User{
				ID:                  fakeUser.ID,
				Email:               utils.StringPtr(fakeUser.Email),
				GivenName:           utils.StringPtr(fakeUser.GivenName),
				FamilyName:          utils.StringPtr(fakeUser.FamilyName),
				AccountType:         &accountType,
				EmployerAccountType: employerType,
				AccountStatus:       fakeUser.AccountStatus,
			}

			if err := userRepo.Create(ctx, newUser); err != nil {
				return fmt.Errorf("failed to create fake user %s: %w", fakeUser.ID, err)
			}
			seeded++
			continue
		}

		existing.Email = utils.StringPtr(fakeUser.Email)
		existing.GivenName = utils.StringPtr(fakeUser.GivenName)
		existing.FamilyName = utils.StringPtr(fakeUser.FamilyName)
		existing.AccountType = &accountType
		existing.EmployerAccountType = employerType
		existing.AccountStatus = fakeUser.AccountStatus

		if err := userRepo.Update(ctx, fakeUser.ID, existing); err != nil {
			return fmt.Errorf("failed to update fake user %s: %w", fakeUser.ID, err)
		}
		seeded++
	}

	fmt.Printf("Fake users seeded: %d upserted\n", seeded)
	return nil
}
