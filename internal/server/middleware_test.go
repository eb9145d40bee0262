package server

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"worklane/internal"

	"github.com/gorilla/securecookie"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
)

func newTestService() *Service {
	logger := logrus.New()
	logger.SetOutput(&strings.Builder{})
	return &Service{
		logger: logger,
		cookie: securecookie.New([]byte("0123456789abcdef0123456789abcdef"), nil),
	}
}

func TestOptionalAuthAnonymousPassesThrough(t *testing.T) {
	s := newTestService()

	called := false
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		_, ok := r.Context().Value(contextKeyUserID).(string)
		assert.False(t, ok)
	})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/jobs/j1", nil)
	s.OptionalAuth(next).ServeHTTP(rec, req)

	assert.True(t, called)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestOptionalAuthUndecodableCookiePassesThrough(t *testing.T) {
	s := newTestService()

	called := false
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		_, ok := r.Context().Value(contextKeyUserID).(string)
		assert.False(t, ok)
	})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/jobs", nil)
	req.AddCookie(&http.Cookie{Name: internal.COOKIE_ACCESS_TOKEN_NAME, Value: "not-a-valid-token"})
	s.OptionalAuth(next).ServeHTTP(rec, req)

	assert.True(t, called)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRequireAuthRedirectsAnonymous(t *testing.T) {
	s := newTestService()

	called := false
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/applications", nil)
	s.RequireAuth(next).ServeHTTP(rec, req)

	assert.False(t, called)
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/login", rec.Header().Get("Location"))

	// The requested path is remembered for the post-login redirect.
	redirected := ""
	for _, c := range rec.Result().Cookies() {
		if c.Name == internal.COOKIE_REDIRECT_NAME {
			redirected = c.Value
		}
	}
	assert.Equal(t, "/applications", redirected)
}

func TestRequireAuthPassesResolvedUser(t *testing.T) {
	s := newTestService()

	var gotUserID string
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUserID, _ = r.Context().Value(contextKeyUserID).(string)
	})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/applications", nil)
	req = req.WithContext(context.WithValue(req.Context(), contextKeyUserID, "u1"))
	s.RequireAuth(next).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "u1", gotUserID)
}
