package server

import (
	"errors"
	"net/http"
	"strings"

	"worklane/pkg/types"
)

func (s *Service) currentUser(w http.ResponseWriter, r *http.Request) (*types.User, bool) {
	ctx := r.Context()

	userID, err := s.userIDFromContext(ctx)
	if err != nil {
		s.logger.WithError(err).Error("ctx doesn't contain user")
		s.internalServerError(w)
		return nil, false
	}

	user, err := s.userRepo.User(ctx, userID)
	if err != nil {
		if errors.Is(err, types.ErrUserNotFound) {
			http.Redirect(w, r, "/onboarding", http.StatusSeeOther)
			return nil, false
		}
		s.logger.WithError(err).Error("failed to fetch user")
		s.internalServerError(w)
		return nil, false
	}

	return user, true
}

func (s *Service) handleGetSettings(w http.ResponseWriter, r *http.Request) {
	user, ok := s.currentUser(w, r)
	if !ok {
		return
	}

	data := &types.SettingsPageData{
		BasePageData: types.BasePageData{Title: "Settings"},
		User:         user,
		Notice:       r.URL.Query().Get("notice"),
		Error:        r.URL.Query().Get("error"),
	}

	if err := s.renderTemplate(w, r, "page.settings", data); err != nil {
		s.logger.WithError(err).Error("failed to render settings page")
		s.internalServerError(w)
		return
	}
}

func (s *Service) handlePostSettings(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	user, ok := s.currentUser(w, r)
	if !ok {
		return
	}

	if err := r.ParseForm(); err != nil {
		s.logger.WithError(err).Error("failed to parse settings form")
		s.internalServerError(w)
		return
	}

	var settingsForm types.SettingsForm
	if err := decoder.Decode(&settingsForm, r.Form); err != nil {
		s.logger.WithError(err).Error("failed to decode settings form")
		s.internalServerError(w)
		return
	}

	givenName := strings.TrimSpace(settingsForm.GivenName)
	familyName := strings.TrimSpace(settingsForm.FamilyName)
	if givenName == "" || familyName == "" {
		s.redirectWithError(w, r, "/settings", "First and last name are required.")
		return
	}

	user.GivenName = &givenName
	user.FamilyName = &familyName

	if err := s.userRepo.Update(ctx, user.ID, user); err != nil {
		s.logger.WithError(err).Error("failed to update user")
		s.internalServerError(w)
		return
	}

	s.redirectWithNotice(w, r, "/settings", "Profile updated.")
}

// handlePostDeactivate hides the account. Identification documents and the
// review status are kept; reactivation does not repeat the review.
func (s *Service) handlePostDeactivate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	user, ok := s.currentUser(w, r)
	if !ok {
		return
	}

	if user.AccountStatus != types.AccountStatusPublished {
		s.redirectWithError(w, r, "/settings", "Only active accounts can be deactivated.")
		return
	}

	if err := s.userRepo.SetStatus(ctx, user.ID, types.AccountStatusDeactivated); err != nil {
		s.logger.WithError(err).Error("failed to deactivate account")
		s.internalServerError(w)
		return
	}

	s.redirectWithNotice(w, r, "/settings", "Your account has been deactivated.")
}

func (s *Service) handlePostReactivate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	user, ok := s.currentUser(w, r)
	if !ok {
		return
	}

	if user.AccountStatus != types.AccountStatusDeactivated {
		s.redirectWithError(w, r, "/settings", "Your account is not deactivated.")
		return
	}

	if err := s.userRepo.SetStatus(ctx, user.ID, types.AccountStatusPublished); err != nil {
		s.logger.WithError(err).Error("failed to reactivate account")
		s.internalServerError(w)
		return
	}

	s.redirectWithNotice(w, r, "/settings", "Welcome back. Your account is active again.")
}
