package httpserver

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"blogredirect/internal/redirect"
	"github.com/gorilla/handlers"
)

const defaultCacheControlPolicy = "public, max-age=3600, s-maxage=3600"
const defaultHealthPath = "/healthz"
const defaultHealthBody = "ok"

var ErrHealthPathShadowsRedirects = errors.New("health path must not be the root path")

type CachePolicies struct {
	Redirect string
	Health   string
	Error    string
}

func DefaultCachePolicies() CachePolicies {
	return CachePolicies{
		Redirect: defaultCacheControlPolicy,
		Health:   defaultCacheControlPolicy,
		Error:    defaultCacheControlPolicy,
	}
}

type Config struct {
	Resolve func(path string) (redirect.Response, error)

	CachePolicies CachePolicies

	LogServerError func(err error)
	// AccessLog receives one Apache combined log line per request when set.
	AccessLog io.Writer

	HealthPath string
	HealthBody string
}

type server struct {
	resolve       func(path string) (redirect.Response, error)
	cachePolicies CachePolicies
	logServerErr  func(err error)
	healthPath    string
	healthBody    string
}

func New(cfg Config) (http.Handler, error) {
	healthPath := normalizeHealthPath(cfg.HealthPath)
	if healthPath == "/" {
		return nil, fmt.Errorf("create redirect server: %w", ErrHealthPathShadowsRedirects)
	}
	healthBody := strings.TrimSpace(cfg.HealthBody)
	if healthBody == "" {
		healthBody = defaultHealthBody
	}
	resolve := cfg.Resolve
	if resolve == nil {
		resolve = redirect.Resolve
	}

	srv := &server{
		resolve:       resolve,
		cachePolicies: withDefaultPolicies(cfg.CachePolicies),
		logServerErr:  cfg.LogServerError,
		healthPath:    healthPath,
		healthBody:    healthBody,
	}

	// Served without a ServeMux so that unclean paths such as "//a" or "/a/../b"
	// reach the slug resolver instead of being redirected to their clean form.
	handler := http.Handler(http.HandlerFunc(srv.handleRoute))

	if cfg.AccessLog != nil {
		return handlers.CombinedLoggingHandler(cfg.AccessLog, handler), nil
	}
	return handler, nil
}

func (s *server) handleRoute(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path == s.healthPath {
		s.handleHealth(w)
		return
	}

	s.handleRedirect(w, r)
}

// handleRedirect resolves the undecoded request path, matching what the
// Lambda runtime hands to the function.
func (s *server) handleRedirect(w http.ResponseWriter, r *http.Request) {
	resp, err := s.resolve(r.URL.EscapedPath())
	if err != nil {
		s.handleServerError(w, fmt.Errorf("resolve %q: %w", r.URL.EscapedPath(), err))
		return
	}

	setCachePolicy(w, s.cachePolicies.Redirect)
	for key, value := range resp.Headers() {
		w.Header().Set(key, value)
	}
	w.WriteHeader(resp.StatusCode)
	_, _ = io.WriteString(w, resp.Body)
}

func (s *server) handleServerError(w http.ResponseWriter, err error) {
	setCachePolicy(w, s.cachePolicies.Error)
	http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
	if s.logServerErr != nil {
		s.logServerErr(err)
		return
	}

	slog.Error("redirect server error",
		slog.Bool("construction_error", redirect.IsResponseConstructionError(err)),
		slog.String("error", err.Error()),
	)
}

func (s *server) handleHealth(w http.ResponseWriter) {
	setCachePolicy(w, s.cachePolicies.Health)
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte(s.healthBody))
}

func normalizeHealthPath(path string) string {
	path = strings.TrimSpace(path)
	if path == "" {
		return defaultHealthPath
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return path
}

func withDefaultPolicies(policies CachePolicies) CachePolicies {
	defaults := DefaultCachePolicies()
	if strings.TrimSpace(policies.Redirect) == "" {
		policies.Redirect = defaults.Redirect
	}
	if strings.TrimSpace(policies.Health) == "" {
		policies.Health = defaults.Health
	}
	if strings.TrimSpace(policies.Error) == "" {
		policies.Error = defaults.Error
	}
	return policies
}

func setCachePolicy(w http.ResponseWriter, policy string) {
	policy = strings.TrimSpace(policy)
	if policy == "" {
		return
	}
	w.Header().Set("Cache-Control", policy)
}
