package server

import (
	"errors"
	"net/http"
	"strings"

	"worklane/internal/utils"
	"worklane/pkg/types"
)

func isFreelancer(user *types.User) bool {
	return user.AccountType != nil && *user.AccountType == types.AccountTypeFreelancer
}

func (s *Service) handlePostApply(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	jobID := flowParam(r, "id")

	userID, err := s.userIDFromContext(ctx)
	if err != nil {
		s.logger.WithError(err).Error("ctx doesn't contain user")
		s.internalServerError(w)
		return
	}

	user, err := s.userRepo.User(ctx, userID)
	if err != nil {
		if errors.Is(err, types.ErrUserNotFound) {
			http.Redirect(w, r, "/onboarding", http.StatusSeeOther)
			return
		}
		s.logger.WithError(err).Error("failed to fetch user")
		s.internalServerError(w)
		return
	}

	if !isFreelancer(user) {
		s.redirectWithError(w, r, "/jobs/"+jobID, "Only freelancer accounts can apply.")
		return
	}

	if user.AccountStatus != types.AccountStatusPublished {
		s.redirectWithError(w, r, "/account/identification",
			"Complete identification before applying to jobs.")
		return
	}

	job, err := s.jobRepo.Job(ctx, jobID)
	if err != nil {
		if errors.Is(err, types.ErrJobNotFound) {
			http.NotFound(w, r)
			return
		}
		s.logger.WithError(err).WithField("job_id", jobID).Error("failed to fetch job")
		s.internalServerError(w)
		return
	}

	if job.Status != types.JobStatusPublished {
		s.redirectWithError(w, r, "/jobs", "This job is no longer accepting applications.")
		return
	}

	if err := r.ParseForm(); err != nil {
		s.logger.WithError(err).Error("failed to parse apply form")
		s.internalServerError(w)
		return
	}

	var applyForm types.ApplyForm
	if err := decoder.Decode(&applyForm, r.Form); err != nil {
		s.logger.WithError(err).Error("failed to decode apply form")
		s.internalServerError(w)
		return
	}

	if applyForm.BidAmountCents < 0 {
		s.redirectWithError(w, r, "/jobs/"+jobID, "Bid amount cannot be negative.")
		return
	}

	// One application per freelancer per job.
	_, err = s.applicationRepo.ApplicationByJobAndFreelancer(ctx, job.ID, user.ID)
	if err == nil {
		s.redirectWithError(w, r, "/jobs/"+jobID, "You have already applied to this job.")
		return
	}
	if !errors.Is(err, types.ErrApplicationNotFound) {
		s.logger.WithError(err).Error("failed to check existing application")
		s.internalServerError(w)
		return
	}

	application := &types.Application{
		JobID:          job.ID,
		FreelancerID:   user.ID,
		CoverLetter:    utils.TrimmedPtr(strings.TrimSpace(applyForm.CoverLetter)),
		BidAmountCents: applyForm.BidAmountCents,
	}

	if err := s.applicationRepo.Create(ctx, application); err != nil {
		s.logger.WithError(err).Error("failed to create application")
		s.internalServerError(w)
		return
	}

	s.redirectWithNotice(w, r, "/jobs/"+jobID, "Application submitted.")
}

func (s *Service) handleMyApplications(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	user, ok := s.currentUser(w, r)
	if !ok {
		return
	}

	if !isFreelancer(user) {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	applications, err := s.applicationRepo.ApplicationsByFreelancer(ctx, user.ID)
	if err != nil {
		s.logger.WithError(err).Error("failed to fetch applications")
		s.internalServerError(w)
		return
	}

	views := make([]types.ApplicationView, 0, len(applications))
	for _, application := range applications {
		view := types.ApplicationView{Application: application}
		job, err := s.jobRepo.Job(ctx, application.JobID)
		if err != nil {
			s.logger.WithError(err).WithField("job_id", application.JobID).Warn("failed to fetch job for application")
		} else {
			view.Job = job
		}
		views = append(views, view)
	}

	data := &types.MyApplicationsPageData{
		BasePageData: types.BasePageData{Title: "My applications"},
		Applications: views,
	}

	if err := s.renderTemplate(w, r, "page.applications", data); err != nil {
		s.logger.WithError(err).Error("failed to render applications page")
		s.internalServerError(w)
		return
	}
}

func (s *Service) handleJobApplications(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	user, ok := s.requireEmployer(w, r)
	if !ok {
		return
	}

	job, ok := s.employerJob(ctx, w, r, user)
	if !ok {
		return
	}

	applications, err := s.applicationRepo.ApplicationsByJob(ctx, job.ID)
	if err != nil {
		s.logger.WithError(err).Error("failed to fetch job applications")
		s.internalServerError(w)
		return
	}

	freelancerIDs := make([]string, 0, len(applications))
	for _, application := range applications {
		freelancerIDs = append(freelancerIDs, application.FreelancerID)
	}

	namesByID := map[string]string{}
	if len(freelancerIDs) > 0 {
		freelancers, err := s.userRepo.UsersByIDs(ctx, freelancerIDs)
		if err != nil {
			s.logger.WithError(err).Warn("failed to fetch applicant names")
		}
		for _, freelancer := range freelancers {
			namesByID[freelancer.ID] = freelancer.DisplayName()
		}
	}

	views := make([]types.ApplicationView, 0, len(applications))
	for _, application := range applications {
		views = append(views, types.ApplicationView{
			Application:    application,
			Job:            job,
			FreelancerName: namesByID[application.FreelancerID],
		})
	}

	data := &types.JobApplicationsPageData{
		BasePageData: types.BasePageData{Title: "Applications: " + job.Title},
		Job:          job,
		Applications: views,
		Notice:       r.URL.Query().Get("notice"),
		Error:        r.URL.Query().Get("error"),
	}

	if err := s.renderTemplate(w, r, "page.employer.applications", data); err != nil {
		s.logger.WithError(err).Error("failed to render job applications page")
		s.internalServerError(w)
		return
	}
}

func (s *Service) handlePostApplicationStatus(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	applicationID := flowParam(r, "id")

	user, ok := s.requireEmployer(w, r)
	if !ok {
		return
	}

	application, err := s.applicationRepo.Application(ctx, applicationID)
	if err != nil {
		if errors.Is(err, types.ErrApplicationNotFound) {
			http.NotFound(w, r)
			return
		}
		s.logger.WithError(err).Error("failed to fetch application")
		s.internalServerError(w)
		return
	}

	job, err := s.jobRepo.Job(ctx, application.JobID)
	if err != nil || job.EmployerID != user.ID {
		http.NotFound(w, r)
		return
	}

	if err := r.ParseForm(); err != nil {
		s.logger.WithError(err).Error("failed to parse status form")
		s.internalServerError(w)
		return
	}

	var status types.ApplicationStatus
	switch r.PostForm.Get("status") {
	case string(types.ApplicationStatusShortlisted):
		status = types.ApplicationStatusShortlisted
	case string(types.ApplicationStatusRejected):
		status = types.ApplicationStatusRejected
	default:
		s.redirectWithError(w, r, "/employer/jobs/"+job.ID+"/applications", "Unknown application status.")
		return
	}

	if err := s.applicationRepo.SetStatus(ctx, application.ID, status); err != nil {
		s.logger.WithError(err).Error("failed to update application status")
		s.internalServerError(w)
		return
	}

	s.redirectWithNotice(w, r, "/employer/jobs/"+job.ID+"/applications", "Application updated.")
}
