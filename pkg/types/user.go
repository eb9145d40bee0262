package types

import (
	"errors"
	"time"
)

var ErrUserNotFound = errors.New("user not found")

type AccountType string

const (
	AccountTypeEmployer   AccountType = "employer"
	AccountTypeFreelancer AccountType = "freelancer"
)

type EmployerAccountType string

const (
	EmployerAccountTypeIndividual EmployerAccountType = "individual"
	EmployerAccountTypeCompany    EmployerAccountType = "company"
)

type AccountStatus string

const (
	AccountStatusDraft       AccountStatus = "draft"
	AccountStatusPending     AccountStatus = "pending"
	AccountStatusPublished   AccountStatus = "published"
	AccountStatusRejected    AccountStatus = "rejected"
	AccountStatusDeactivated AccountStatus = "deactivated"
)

type User struct {
	ID                  string               `db:"id"`
	Email               *string              `db:"email"`
	GivenName           *string              `db:"given_name"`
	FamilyName          *string              `db:"family_name"`
	AccountType         *AccountType         `db:"account_type"`
	EmployerAccountType *EmployerAccountType `db:"employer_account_type"`
	AccountStatus       AccountStatus        `db:"account_status"`
	CreatedAt           time.Time            `db:"created_at"`
	UpdatedAt           time.Time            `db:"updated_at"`
}

// AccountVariant is the resolved account type plus, for employers, the
// individual/company subtype. It drives which identification document slots
// an account must provide.
type AccountVariant struct {
	Type         AccountType
	EmployerType EmployerAccountType
}

// Variant resolves the user's account variant. It reports false until the
// user has completed account-type onboarding (and, for employers, chosen a
// subtype).
func (u *User) Variant() (AccountVariant, bool) {
	if u.AccountType == nil {
		return AccountVariant{}, false
	}

	v := AccountVariant{Type: *u.AccountType}
	if v.Type == AccountTypeEmployer {
		if u.EmployerAccountType == nil {
			return AccountVariant{}, false
		}
		v.EmployerType = *u.EmployerAccountType
	}

	return v, true
}

func (u *User) DisplayName() string {
	given := ""
	if u.GivenName != nil {
		given = *u.GivenName
	}
	family := ""
	if u.FamilyName != nil {
		family = *u.FamilyName
	}

	switch {
	case given != "" && family != "":
		return given + " " + family
	case given != "":
		return given
	case family != "":
		return family
	}

	if u.Email != nil {
		return *u.Email
	}
	return u.ID
}
