package server

import (
	"context"
	"embed"
	"encoding/base64"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"strings"
	"time"

	"worklane/internal/identification"
	"worklane/internal/storage"
	"worklane/internal/store"
	"worklane/pkg/types"

	"github.com/alexedwards/flow"
	"github.com/aws/aws-sdk-go-v2/service/cognitoidentityprovider"
	"github.com/go-playground/form/v4"
	"github.com/gorilla/securecookie"
	"github.com/lestrrat-go/jwx/v3/jwk"
	"github.com/sirupsen/logrus"
)

//go:embed templates static
var uiFS embed.FS
var decoder = form.NewDecoder()

type Service struct {
	logger    *logrus.Logger
	config    *types.Config
	templates *template.Template

	cognitoClient *cognitoidentityprovider.Client
	cookie        *securecookie.SecureCookie

	identification *identification.Workflow
	attachments    *storage.AttachmentStore

	userRepo        *store.UserRepository
	jobRepo         *store.JobRepository
	applicationRepo *store.ApplicationRepository
	categoryRepo    *store.CategoryRepository

	jwksCache *jwk.Cache
	jwksURL   string

	server *http.Server
}

func New(
	config *types.Config,
	logger *logrus.Logger,
	cognitoClient *cognitoidentityprovider.Client,
	workflow *identification.Workflow,
	attachments *storage.AttachmentStore,
	userRepo *store.UserRepository,
	jobRepo *store.JobRepository,
	applicationRepo *store.ApplicationRepository,
	categoryRepo *store.CategoryRepository,
	jwkCache *jwk.Cache,
	jwksURL string,
) (*Service, error) {
	mux := flow.New()

	hashKey, _ := base64.StdEncoding.DecodeString(config.CookieHashKey)
	blockKey, _ := base64.StdEncoding.DecodeString(config.CookieBlockKey)

	s := &Service{
		logger:        logger,
		config:        config,
		cognitoClient: cognitoClient,
		cookie:        securecookie.New(hashKey, blockKey),

		identification: workflow,
		attachments:    attachments,

		userRepo:        userRepo,
		jobRepo:         jobRepo,
		applicationRepo: applicationRepo,
		categoryRepo:    categoryRepo,

		jwksCache: jwkCache,
		jwksURL:   jwksURL,
		server: &http.Server{
			Addr:              fmt.Sprintf(":%d", config.ServerPort),
			Handler:           mux,
			ReadTimeout:       time.Duration(config.ReadTimeoutSec) * time.Second,
			ReadHeaderTimeout: time.Duration(config.ReadTimeoutSec) * time.Second,
			WriteTimeout:      time.Duration(config.WriteTimeoutSec) * time.Second,
			MaxHeaderBytes:    1 << 20,
		},
	}

	templates, err := loadTemplates()
	if err != nil {
		return nil, err
	}
	s.templates = templates

	s.buildRouter(mux)

	return s, nil
}

func (s *Service) Start() error {
	return s.server.ListenAndServe()
}

func (s *Service) Stop(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

func (s *Service) buildRouter(r *flow.Mux) {
	r.Use(s.StripTrailingSlash)
	r.Use(s.LoggingMiddleware)
	r.Use(s.OptionalAuth)

	r.HandleFunc("/", s.handleHome, http.MethodGet)
	r.HandleFunc("/healthz", s.handleHealth, http.MethodGet)

	r.HandleFunc("/register", s.handleGetRegister, http.MethodGet)
	r.HandleFunc("/register", s.handlePostRegister, http.MethodPost)
	r.HandleFunc("/register/confirm", s.handleGetRegisterConfirm, http.MethodGet)
	r.HandleFunc("/register/confirm", s.handlePostRegisterConfirm, http.MethodPost)
	r.HandleFunc("/login", s.handleGetLogin, http.MethodGet)
	r.HandleFunc("/login", s.handlePostLogin, http.MethodPost)
	r.HandleFunc("/logout", s.handlePostLogout, http.MethodPost)

	r.HandleFunc("/jobs", s.handleBrowseJobs, http.MethodGet)
	r.HandleFunc("/jobs/:id", s.handleJobDetail, http.MethodGet)

	r.Group(func(r *flow.Mux) {
		r.Use(s.RequireAuth)

		r.HandleFunc("/onboarding", s.handleGetOnboarding, http.MethodGet)
		r.HandleFunc("/onboarding", s.handlePostOnboarding, http.MethodPost)

		r.HandleFunc("/account/identification", s.handleGetIdentification, http.MethodGet)
		r.HandleFunc("/account/identification", s.handlePostIdentification, http.MethodPost)

		r.HandleFunc("/settings", s.handleGetSettings, http.MethodGet)
		r.HandleFunc("/settings", s.handlePostSettings, http.MethodPost)
		r.HandleFunc("/settings/deactivate", s.handlePostDeactivate, http.MethodPost)
		r.HandleFunc("/settings/reactivate", s.handlePostReactivate, http.MethodPost)

		r.HandleFunc("/jobs/:id/apply", s.handlePostApply, http.MethodPost)
		r.HandleFunc("/applications", s.handleMyApplications, http.MethodGet)

		r.HandleFunc("/employer/jobs", s.handleEmployerJobs, http.MethodGet)
		r.HandleFunc("/employer/jobs/new", s.handleGetNewJob, http.MethodGet)
		r.HandleFunc("/employer/jobs/new", s.handlePostNewJob, http.MethodPost)
		r.HandleFunc("/employer/jobs/:id/edit", s.handleGetEditJob, http.MethodGet)
		r.HandleFunc("/employer/jobs/:id/edit", s.handlePostEditJob, http.MethodPost)
		r.HandleFunc("/employer/jobs/:id/close", s.handlePostCloseJob, http.MethodPost)
		r.HandleFunc("/employer/jobs/:id/feature", s.handlePostFeatureJob, http.MethodPost)
		r.HandleFunc("/employer/jobs/:id/feature/complete", s.handleFeatureJobComplete, http.MethodGet)
		r.HandleFunc("/employer/jobs/:id/applications", s.handleJobApplications, http.MethodGet)
		r.HandleFunc("/employer/applications/:id/status", s.handlePostApplicationStatus, http.MethodPost)
	})

	staticRoot, err := fs.Sub(uiFS, "static")
	if err != nil {
		s.logger.WithError(err).Fatal("failed to mount static assets")
	}
	r.Handle("/static/...", http.StripPrefix("/static/", http.FileServer(http.FS(staticRoot))), http.MethodGet)
}

func loadTemplates() (*template.Template, error) {
	funcMap := template.FuncMap{
		"dollars": func(cents int) string {
			return fmt.Sprintf("$%d.%02d", cents/100, cents%100)
		},
		"kilobytes": func(bytes int64) string {
			return fmt.Sprintf("%.1f KB", float64(bytes)/1024)
		},
		"deref": func(s *string) string {
			if s == nil {
				return ""
			}
			return *s
		},
		"derefOr": func(s *string, defaultVal string) string {
			if s == nil || *s == "" {
				return defaultVal
			}
			return *s
		},
	}

	t := template.New("").Funcs(funcMap)
	err := fs.WalkDir(uiFS, "templates", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(path, ".html") {
			return nil
		}

		data, err := fs.ReadFile(uiFS, path)
		if err != nil {
			return fmt.Errorf("read template %s: %w", path, err)
		}

		if _, err := t.Parse(string(data)); err != nil {
			return fmt.Errorf("parse template %s: %w", path, err)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return t, nil
}

func flowParam(r *http.Request, name string) string {
	return flow.Param(r.Context(), name)
}

func (s *Service) userIDFromContext(ctx context.Context) (string, error) {
	userID, ok := ctx.Value(contextKeyUserID).(string)
	if !ok {
		return "", fmt.Errorf("user id not found in context")
	}
	return userID, nil
}
