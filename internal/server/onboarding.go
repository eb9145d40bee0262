package server

import (
	"net/http"
	"strings"

	"worklane/pkg/types"
)

// handleGetOnboarding renders the account-type choice. Accounts that already
// picked a type go straight to the identification screen.
func (s *Service) handleGetOnboarding(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID, err := s.userIDFromContext(ctx)
	if err != nil {
		s.logger.WithError(err).Error("ctx doesn't contain user")
		s.internalServerError(w)
		return
	}

	user, err := s.userRepo.User(ctx, userID)
	if err == nil {
		if _, ok := user.Variant(); ok {
			http.Redirect(w, r, "/account/identification", http.StatusSeeOther)
			return
		}
	}

	data := &types.OnboardingPageData{
		BasePageData: types.BasePageData{Title: "Set up your account"},
	}

	if err := s.renderTemplate(w, r, "page.onboarding", data); err != nil {
		s.logger.WithError(err).Error("failed to render onboarding page")
		s.internalServerError(w)
		return
	}
}

func (s *Service) handlePostOnboarding(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID, err := s.userIDFromContext(ctx)
	if err != nil {
		s.logger.WithError(err).Error("ctx doesn't contain user")
		s.internalServerError(w)
		return
	}

	if err := r.ParseForm(); err != nil {
		s.logger.WithError(err).Error("failed to parse onboarding form")
		s.internalServerError(w)
		return
	}

	var onboarding types.OnboardingForm
	if err := decoder.Decode(&onboarding, r.Form); err != nil {
		s.logger.WithError(err).Error("failed to decode onboarding form")
		s.internalServerError(w)
		return
	}

	accountType, employerType, ok := resolveOnboardingChoice(onboarding)
	if !ok {
		data := &types.OnboardingPageData{
			BasePageData: types.BasePageData{Title: "Set up your account"},
			Error:        "Choose whether you are hiring or looking for work.",
		}
		if err := s.renderTemplate(w, r, "page.onboarding", data); err != nil {
			s.logger.WithError(err).Error("failed to render onboarding page with error")
			s.internalServerError(w)
		}
		return
	}

	// Make sure the user row exists before recording the choice; the row is
	// seeded from the token claims on first onboarding.
	email, _ := ctx.Value(contextKeyEmail).(string)
	name, _ := ctx.Value(contextKeyName).(string)
	givenName, familyName := splitName(name)
	if err := s.userRepo.UpsertIdentity(ctx, userID, email, givenName, familyName); err != nil {
		s.logger.WithError(err).Error("failed to upsert user identity")
		s.internalServerError(w)
		return
	}

	if err := s.userRepo.SetAccountType(ctx, userID, accountType, employerType); err != nil {
		s.logger.WithError(err).Error("failed to set account type")
		s.internalServerError(w)
		return
	}

	http.Redirect(w, r, "/account/identification", http.StatusSeeOther)
}

func splitName(name string) (string, string) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", ""
	}
	parts := strings.SplitN(name, " ", 2)
	if len(parts) == 1 {
		return parts[0], ""
	}
	return parts[0], parts[1]
}

func resolveOnboardingChoice(form types.OnboardingForm) (types.AccountType, *types.EmployerAccountType, bool) {
	switch types.AccountType(form.AccountType) {
	case types.AccountTypeFreelancer:
		return types.AccountTypeFreelancer, nil, true
	case types.AccountTypeEmployer:
		switch types.EmployerAccountType(form.EmployerAccountType) {
		case types.EmployerAccountTypeIndividual, types.EmployerAccountTypeCompany:
			et := types.EmployerAccountType(form.EmployerAccountType)
			return types.AccountTypeEmployer, &et, true
		}
	}
	return "", nil, false
}
