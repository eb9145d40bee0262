package server

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"worklane/internal"

	"github.com/lestrrat-go/jwx/v3/jwt"
	"github.com/sirupsen/logrus"
)

// Context key types to avoid collisions
type contextKey string

const (
	contextKeyUserID contextKey = "user_id"
	contextKeyEmail  contextKey = "email"
	contextKeyName   contextKey = "name"
)

type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func (s *Service) LoggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		started := time.Now()
		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

		next.ServeHTTP(rw, r)

		s.logger.WithFields(logrus.Fields{
			"method":      r.Method,
			"path":        r.URL.Path,
			"status":      rw.statusCode,
			"duration_ms": time.Since(started).Milliseconds(),
		}).Info("http request")
	})
}

// OptionalAuth resolves the access-token cookie when one is present and adds
// the user to the request context. Anonymous or stale-token requests pass
// through untouched, so public pages render for everyone while still knowing
// who is signed in.
func (s *Service) OptionalAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx, err := s.authenticate(r)
		if err != nil {
			s.logger.WithError(err).Debug("request is anonymous")
			next.ServeHTTP(w, r)
			return
		}

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireAuth redirects anonymous requests to the login page, remembering the
// requested path. It relies on OptionalAuth (applied router-wide) having
// already resolved the token into the context.
func (s *Service) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := r.Context().Value(contextKeyUserID).(string); !ok {
			s.setRedirectCookie(w, r.URL.Path, time.Minute*5)
			s.redirectToLogin(w, r)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// authenticate validates the access-token cookie and returns a request
// context carrying the user id plus the optional email and name claims.
func (s *Service) authenticate(r *http.Request) (context.Context, error) {
	cookie, err := r.Cookie(internal.COOKIE_ACCESS_TOKEN_NAME)
	if err != nil {
		return nil, fmt.Errorf("no access token cookie: %w", err)
	}

	var accessToken string
	err = s.cookie.Decode(internal.COOKIE_ACCESS_TOKEN_NAME, cookie.Value, &accessToken)
	if err != nil {
		return nil, fmt.Errorf("failed to decrypt access token: %w", err)
	}

	set, err := s.jwksCache.Lookup(r.Context(), s.jwksURL)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch JWKS: %w", err)
	}

	token, err := jwt.Parse(
		[]byte(accessToken),
		jwt.WithKeySet(set),
		jwt.WithValidate(true),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to parse JWT: %w", err)
	}

	userID, ok := token.Subject()
	if !ok || userID == "" {
		return nil, fmt.Errorf("no user ID in JWT subject claim")
	}

	// Private claims via Get; email and name are optional.
	var email string
	if err := token.Get("email", &email); err != nil {
		s.logger.WithError(err).Debug("no email claim in JWT")
	}

	var name string
	if err := token.Get("name", &name); err != nil {
		name = ""
	}

	ctx := r.Context()
	ctx = context.WithValue(ctx, contextKeyUserID, userID)
	if email != "" {
		ctx = context.WithValue(ctx, contextKeyEmail, email)
	}
	if name != "" {
		ctx = context.WithValue(ctx, contextKeyName, name)
	}

	s.logger.WithFields(logrus.Fields{
		"user_id": userID,
		"email":   email,
	}).Debug("authenticated user")

	return ctx, nil
}

func (s *Service) StripTrailingSlash(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path := r.URL.Path

		// Only strip if path is not root and has trailing slash
		if path != "/" && strings.HasSuffix(path, "/") {
			newPath := strings.TrimSuffix(path, "/")
			newURL := *r.URL
			newURL.Path = newPath

			// Preserve query string
			http.Redirect(w, r, newURL.String(), http.StatusMovedPermanently)
			return
		}

		next.ServeHTTP(w, r)
	})
}
