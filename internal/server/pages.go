package server

import (
	"net/http"
	"net/url"

	"worklane/pkg/types"
)

func (s *Service) handleHome(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	jobs, err := s.jobRepo.PublishedJobs(ctx, "")
	if err != nil {
		s.logger.WithError(err).Error("failed to fetch jobs for home page")
		s.internalServerError(w)
		return
	}

	featured := make([]*types.Job, 0)
	recent := make([]*types.Job, 0)
	for _, job := range jobs {
		if job.IsFeatured && len(featured) < 3 {
			featured = append(featured, job)
			continue
		}
		if len(recent) < 6 {
			recent = append(recent, job)
		}
	}

	data := &types.HomePageData{
		BasePageData: types.BasePageData{Title: "Find work, hire talent"},
		Notice:       r.URL.Query().Get("notice"),
		Error:        r.URL.Query().Get("error"),
		FeaturedJobs: featured,
		RecentJobs:   recent,
	}

	if err := s.renderTemplate(w, r, "page.home", data); err != nil {
		s.logger.WithError(err).Error("failed to render home page")
		s.internalServerError(w)
		return
	}
}

func (s *Service) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (s *Service) redirectWithNotice(w http.ResponseWriter, r *http.Request, path, notice string) {
	v := url.Values{}
	v.Set("notice", notice)
	http.Redirect(w, r, path+"?"+v.Encode(), http.StatusSeeOther)
}

func (s *Service) redirectWithError(w http.ResponseWriter, r *http.Request, path, msg string) {
	v := url.Values{}
	v.Set("error", msg)
	http.Redirect(w, r, path+"?"+v.Encode(), http.StatusSeeOther)
}

func (s *Service) redirectWithWarning(w http.ResponseWriter, r *http.Request, path, msg string) {
	v := url.Values{}
	v.Set("warning", msg)
	http.Redirect(w, r, path+"?"+v.Encode(), http.StatusSeeOther)
}

func (s *Service) internalServerError(w http.ResponseWriter) {
	http.Error(w, "internal server error", http.StatusInternalServerError)
}
