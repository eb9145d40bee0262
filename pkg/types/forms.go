package types

type OnboardingForm struct {
	AccountType         string `form:"account_type"`
	EmployerAccountType string `form:"employer_account_type"`
}

type JobForm struct {
	Title        string `form:"title"`
	Description  string `form:"description"`
	Category     string `form:"category"`
	BudgetCents  int    `form:"budget_cents"`
	Publish      bool   `form:"publish"`
}

type ApplyForm struct {
	CoverLetter    string `form:"cover_letter"`
	BidAmountCents int    `form:"bid_amount_cents"`
}

type SettingsForm struct {
	GivenName  string `form:"given_name"`
	FamilyName string `form:"family_name"`
}
