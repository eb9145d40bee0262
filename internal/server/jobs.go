package server

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"worklane/internal/utils"
	"worklane/pkg/types"

	"github.com/stripe/stripe-go/v84"
	"github.com/stripe/stripe-go/v84/checkout/session"
)

// One-time fee for featuring a posting at the top of browse results.
const featuredListingPriceCents = 2900

func (s *Service) handleBrowseJobs(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	category := strings.TrimSpace(r.URL.Query().Get("category"))

	jobs, err := s.jobRepo.PublishedJobs(ctx, category)
	if err != nil {
		s.logger.WithError(err).Error("failed to fetch published jobs")
		s.internalServerError(w)
		return
	}

	categories, err := s.categoryRepo.AllCategories(ctx)
	if err != nil {
		s.logger.WithError(err).Error("failed to fetch categories")
		s.internalServerError(w)
		return
	}

	data := &types.JobsPageData{
		BasePageData: types.BasePageData{Title: "Browse jobs"},
		Jobs:         jobs,
		Categories:   categories,
		Category:     category,
	}

	if err := s.renderTemplate(w, r, "page.jobs", data); err != nil {
		s.logger.WithError(err).Error("failed to render jobs page")
		s.internalServerError(w)
		return
	}
}

func (s *Service) handleJobDetail(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	jobID := flowParam(r, "id")

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
		http.NotFound(w, r)
		return
	}

	data := &types.JobDetailPageData{
		BasePageData: types.BasePageData{Title: job.Title},
		Job:          job,
		Notice:       r.URL.Query().Get("notice"),
		Error:        r.URL.Query().Get("error"),
	}

	employer, err := s.userRepo.User(ctx, job.EmployerID)
	if err == nil {
		data.EmployerName = employer.DisplayName()
	}

	// The apply form only shows for published freelancers who haven't
	// applied yet; detail pages stay public for everyone else.
	if userID, err := s.userIDFromContext(ctx); err == nil {
		viewer, err := s.userRepo.User(ctx, userID)
		if err == nil && isFreelancer(viewer) &&
			viewer.AccountStatus == types.AccountStatusPublished {
			data.CanApply = true

			_, err := s.applicationRepo.ApplicationByJobAndFreelancer(ctx, job.ID, userID)
			if err == nil {
				data.CanApply = false
				data.AlreadyApplied = true
			} else if !errors.Is(err, types.ErrApplicationNotFound) {
				s.logger.WithError(err).Error("failed to check existing application")
			}
		}
	}

	if err := s.renderTemplate(w, r, "page.job-detail", data); err != nil {
		s.logger.WithError(err).Error("failed to render job detail page")
		s.internalServerError(w)
		return
	}
}

// requireEmployer loads the signed-in user and confirms an employer account.
func (s *Service) requireEmployer(w http.ResponseWriter, r *http.Request) (*types.User, bool) {
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

	if user.AccountType == nil || *user.AccountType != types.AccountTypeEmployer {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return nil, false
	}

	return user, true
}

func (s *Service) handleEmployerJobs(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	user, ok := s.requireEmployer(w, r)
	if !ok {
		return
	}

	jobs, err := s.jobRepo.JobsByEmployer(ctx, user.ID)
	if err != nil {
		s.logger.WithError(err).Error("failed to fetch employer jobs")
		s.internalServerError(w)
		return
	}

	data := &types.EmployerJobsPageData{
		BasePageData: types.BasePageData{Title: "My job postings"},
		Jobs:         jobs,
		Notice:       r.URL.Query().Get("notice"),
		Error:        r.URL.Query().Get("error"),
	}

	if err := s.renderTemplate(w, r, "page.employer.jobs", data); err != nil {
		s.logger.WithError(err).Error("failed to render employer jobs page")
		s.internalServerError(w)
		return
	}
}

func (s *Service) handleGetNewJob(w http.ResponseWriter, r *http.Request) {
	if _, ok := s.requireEmployer(w, r); !ok {
		return
	}

	s.renderJobForm(w, r, &types.JobFormPageData{
		BasePageData: types.BasePageData{Title: "Post a job"},
		Job:          &types.Job{},
		IsNew:        true,
	})
}

func (s *Service) handlePostNewJob(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	user, ok := s.requireEmployer(w, r)
	if !ok {
		return
	}

	jobForm, fieldErrs, ok := s.decodeJobForm(w, r)
	if !ok {
		return
	}

	job := jobFromForm(user.ID, &types.Job{}, jobForm)

	if len(fieldErrs) > 0 {
		s.renderJobForm(w, r, &types.JobFormPageData{
			BasePageData: types.BasePageData{Title: "Post a job"},
			Job:          job,
			IsNew:        true,
			Error:        "Please fix the highlighted fields.",
			FieldErrors:  fieldErrs,
		})
		return
	}

	if jobForm.Publish {
		// Posting drafts is open to any employer; going live requires a
		// verified (published) account.
		if user.AccountStatus != types.AccountStatusPublished {
			s.redirectWithError(w, r, "/account/identification",
				"Complete identification before publishing a job.")
			return
		}
		job.Status = types.JobStatusPublished
		now := time.Now()
		job.PublishedAt = &now
	}

	if err := s.jobRepo.Create(ctx, job); err != nil {
		s.logger.WithError(err).Error("failed to create job")
		s.internalServerError(w)
		return
	}

	s.redirectWithNotice(w, r, "/employer/jobs", "Job posting saved.")
}

func (s *Service) handleGetEditJob(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	user, ok := s.requireEmployer(w, r)
	if !ok {
		return
	}

	job, ok := s.employerJob(ctx, w, r, user)
	if !ok {
		return
	}

	s.renderJobForm(w, r, &types.JobFormPageData{
		BasePageData: types.BasePageData{Title: "Edit job"},
		Job:          job,
	})
}

func (s *Service) handlePostEditJob(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	user, ok := s.requireEmployer(w, r)
	if !ok {
		return
	}

	job, ok := s.employerJob(ctx, w, r, user)
	if !ok {
		return
	}

	jobForm, fieldErrs, ok := s.decodeJobForm(w, r)
	if !ok {
		return
	}

	job = jobFromForm(user.ID, job, jobForm)

	if len(fieldErrs) > 0 {
		s.renderJobForm(w, r, &types.JobFormPageData{
			BasePageData: types.BasePageData{Title: "Edit job"},
			Job:          job,
			Error:        "Please fix the highlighted fields.",
			FieldErrors:  fieldErrs,
		})
		return
	}

	if jobForm.Publish && job.Status == types.JobStatusDraft {
		if user.AccountStatus != types.AccountStatusPublished {
			s.redirectWithError(w, r, "/account/identification",
				"Complete identification before publishing a job.")
			return
		}
		job.Status = types.JobStatusPublished
		now := time.Now()
		job.PublishedAt = &now
	}

	if err := s.jobRepo.Update(ctx, job); err != nil {
		s.logger.WithError(err).Error("failed to update job")
		s.internalServerError(w)
		return
	}

	s.redirectWithNotice(w, r, "/employer/jobs", "Job posting updated.")
}

func (s *Service) handlePostCloseJob(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	user, ok := s.requireEmployer(w, r)
	if !ok {
		return
	}

	job, ok := s.employerJob(ctx, w, r, user)
	if !ok {
		return
	}

	job.Status = types.JobStatusClosed
	if err := s.jobRepo.Update(ctx, job); err != nil {
		s.logger.WithError(err).Error("failed to close job")
		s.internalServerError(w)
		return
	}

	s.redirectWithNotice(w, r, "/employer/jobs", "Job posting closed.")
}

// handlePostFeatureJob starts a Stripe Checkout session for featuring a
// posting; the success URL lands on handleFeatureJobComplete.
func (s *Service) handlePostFeatureJob(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	user, ok := s.requireEmployer(w, r)
	if !ok {
		return
	}

	job, ok := s.employerJob(ctx, w, r, user)
	if !ok {
		return
	}

	if job.Status != types.JobStatusPublished || job.IsFeatured {
		s.redirectWithError(w, r, "/employer/jobs", "Only live, non-featured postings can be featured.")
		return
	}

	params := &stripe.CheckoutSessionParams{
		Mode: stripe.String(string(stripe.CheckoutSessionModePayment)),
		LineItems: []*stripe.CheckoutSessionLineItemParams{{
			PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
				Currency:   stripe.String("usd"),
				UnitAmount: stripe.Int64(featuredListingPriceCents),
				ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
					Name: stripe.String("Featured listing: " + job.Title),
				},
			},
			Quantity: stripe.Int64(1),
		}},
		SuccessURL:        stripe.String(s.config.BaseURL + "/employer/jobs/" + job.ID + "/feature/complete?session_id={CHECKOUT_SESSION_ID}"),
		CancelURL:         stripe.String(s.config.BaseURL + "/employer/jobs"),
		ClientReferenceID: stripe.String(job.ID),
	}

	sess, err := session.New(params)
	if err != nil {
		s.logger.WithError(err).WithField("job_id", job.ID).Error("failed to create checkout session")
		s.redirectWithError(w, r, "/employer/jobs", "Could not start checkout. Please try again.")
		return
	}

	http.Redirect(w, r, sess.URL, http.StatusSeeOther)
}

func (s *Service) handleFeatureJobComplete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	user, ok := s.requireEmployer(w, r)
	if !ok {
		return
	}

	job, ok := s.employerJob(ctx, w, r, user)
	if !ok {
		return
	}

	sessionID := r.URL.Query().Get("session_id")
	if sessionID == "" {
		s.redirectWithError(w, r, "/employer/jobs", "Checkout session missing.")
		return
	}

	sess, err := session.Get(sessionID, nil)
	if err != nil {
		s.logger.WithError(err).Error("failed to fetch checkout session")
		s.redirectWithError(w, r, "/employer/jobs", "Could not verify payment. Please contact support.")
		return
	}

	if sess.PaymentStatus != stripe.CheckoutSessionPaymentStatusPaid || sess.ClientReferenceID != job.ID {
		s.redirectWithError(w, r, "/employer/jobs", "Payment was not completed.")
		return
	}

	if err := s.jobRepo.SetFeatured(ctx, job.ID, true); err != nil {
		s.logger.WithError(err).WithField("job_id", job.ID).Error("failed to mark job featured after payment")
		s.internalServerError(w)
		return
	}

	s.redirectWithNotice(w, r, "/employer/jobs", "Your posting is now featured.")
}

func (s *Service) employerJob(ctx context.Context, w http.ResponseWriter, r *http.Request, user *types.User) (*types.Job, bool) {
	jobID := flowParam(r, "id")

	job, err := s.jobRepo.Job(ctx, jobID)
	if err != nil {
		if errors.Is(err, types.ErrJobNotFound) {
			http.NotFound(w, r)
			return nil, false
		}
		s.logger.WithError(err).WithField("job_id", jobID).Error("failed to fetch job")
		s.internalServerError(w)
		return nil, false
	}

	if job.EmployerID != user.ID {
		http.NotFound(w, r)
		return nil, false
	}

	return job, true
}

func (s *Service) decodeJobForm(w http.ResponseWriter, r *http.Request) (*types.JobForm, map[string]string, bool) {
	if err := r.ParseForm(); err != nil {
		s.logger.WithError(err).Error("failed to parse job form")
		s.internalServerError(w)
		return nil, nil, false
	}

	var jobForm types.JobForm
	if err := decoder.Decode(&jobForm, r.Form); err != nil {
		s.logger.WithError(err).Error("failed to decode job form")
		s.internalServerError(w)
		return nil, nil, false
	}

	fieldErrs := map[string]string{}
	if strings.TrimSpace(jobForm.Title) == "" {
		fieldErrs["title"] = "Title is required."
	}
	if jobForm.BudgetCents < 0 {
		fieldErrs["budget_cents"] = "Budget cannot be negative."
	}

	return &jobForm, fieldErrs, true
}

func jobFromForm(employerID string, job *types.Job, form *types.JobForm) *types.Job {
	job.EmployerID = employerID
	job.Title = strings.TrimSpace(form.Title)
	job.Description = utils.TrimmedPtr(strings.TrimSpace(form.Description))
	job.Category = utils.TrimmedPtr(strings.TrimSpace(form.Category))
	job.BudgetCents = form.BudgetCents
	return job
}

func (s *Service) renderJobForm(w http.ResponseWriter, r *http.Request, data *types.JobFormPageData) {
	categories, err := s.categoryRepo.AllCategories(r.Context())
	if err != nil {
		s.logger.WithError(err).Error("failed to fetch categories for job form")
		s.internalServerError(w)
		return
	}
	data.Categories = categories

	if err := s.renderTemplate(w, r, "page.employer.job-form", data); err != nil {
		s.logger.WithError(err).Error("failed to render job form")
		s.internalServerError(w)
	}
}
