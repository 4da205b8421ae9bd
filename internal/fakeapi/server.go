// Package fakeapi is an in-process stand-in for the QuestPath backend, used to
// exercise the client end to end in tests. It issues short JWT access tokens,
// sets a refresh cookie, and lets tests expire tokens or inject failures.
package fakeapi

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/jrsteele09/go-questpath-client/model"
)

const (
	RefreshCookie = "refresh_token"
	FreeGoalLimit = 2
)

// Recorded is one request seen by the server.
type Recorded struct {
	Method        string
	Path          string
	Authorization string
	RequestID     string
	HasCookie     bool
}

type failure struct {
	status int
	body   string
	times  int
}

type account struct {
	user     model.User
	password string
}

type Server struct {
	mu sync.Mutex

	secret     []byte
	generation int
	accessTTL  time.Duration

	accounts      map[string]*account
	nextUserID    int64
	refreshTokens map[string]string
	rejectRefresh bool
	refreshCalls  int

	goals      map[int64]*ownedGoal
	nextGoalID int64
	nextLevel  int64

	failures map[string]*failure
	requests []Recorded

	router chi.Router
}

type ownedGoal struct {
	owner string
	goal  model.Goal
	at    time.Time
}

func New() *Server {
	s := &Server{
		secret:        []byte("fakeapi-secret"),
		accessTTL:     15 * time.Minute,
		accounts:      make(map[string]*account),
		refreshTokens: make(map[string]string),
		goals:         make(map[int64]*ownedGoal),
		failures:      make(map[string]*failure),
	}
	s.routes()
	return s
}

// Start serves s on a test server and returns it with the API base URL.
func Start(t testing.TB) (*Server, string) {
	t.Helper()
	s := New()
	ts := httptest.NewServer(s)
	t.Cleanup(ts.Close)
	return s, ts.URL + "/api"
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) routes() {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(s.record)
	r.Use(s.injectFailures)

	r.Route("/api", func(r chi.Router) {
		r.Post("/auth/login", s.handleLogin)
		r.Post("/auth/register", s.handleRegister)
		r.Post("/auth/oauth-login", s.handleOAuthLogin)
		r.Post("/auth/refresh", s.handleRefresh)

		r.Group(func(r chi.Router) {
			r.Use(s.requireAuth)
			r.Get("/auth/me", s.handleMe)
			r.Patch("/auth/me", s.handleUpdateMe)

			r.Post("/goals", s.handleCreateGoal)
			r.Get("/goals/me", s.handleMyGoals)
			r.Get("/goals/{goalID}", s.handleGetGoal)
			r.Patch("/goals/levels/{levelID}/topics/{topicIndex}", s.handleToggleTopic)

			r.Get("/levels/{levelID}/quiz", s.handleQuiz)
			r.Post("/levels/{levelID}/quiz/submit", s.handleSubmitQuiz)

			r.Get("/leaderboard", s.handleLeaderboard)
			r.Get("/progression/stats", s.handleStats)

			r.Post("/payment/checkout", s.handleCheckout)
			r.Post("/payment/cancel-subscription", s.handleCancel)

			r.Get("/admin/stats", s.handleAdminStats)
		})
	})
	s.router = r
}

func (s *Server) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, cookieErr := r.Cookie(RefreshCookie)
		s.mu.Lock()
		s.requests = append(s.requests, Recorded{
			Method:        r.Method,
			Path:          strings.TrimPrefix(r.URL.Path, "/api"),
			Authorization: r.Header.Get("Authorization"),
			RequestID:     r.Header.Get("X-Request-ID"),
			HasCookie:     cookieErr == nil,
		})
		s.mu.Unlock()
		next.ServeHTTP(w, r)
	})
}

func (s *Server) injectFailures(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := failureKey(r.Method, strings.TrimPrefix(r.URL.Path, "/api"))
		s.mu.Lock()
		f, ok := s.failures[key]
		if ok {
			if f.times > 0 {
				f.times--
				if f.times == 0 {
					delete(s.failures, key)
				}
			}
		}
		s.mu.Unlock()
		if ok {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(f.status)
			_, _ = w.Write([]byte(f.body))
			return
		}
		next.ServeHTTP(w, r)
	})
}

func failureKey(method, path string) string {
	return method + " " + path
}

// FailNext makes the next n requests to method+path (without the /api prefix)
// respond with status and body. n < 0 fails until ClearFailures.
func (s *Server) FailNext(method, path string, n, status int, body string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures[failureKey(method, path)] = &failure{status: status, body: body, times: n}
}

func (s *Server) ClearFailures() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures = make(map[string]*failure)
}

// Requests returns a copy of every request seen so far.
func (s *Server) Requests() []Recorded {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Recorded(nil), s.requests...)
}

// RequestsTo filters Requests by method and path.
func (s *Server) RequestsTo(method, path string) []Recorded {
	var out []Recorded
	for _, r := range s.Requests() {
		if r.Method == method && r.Path == path {
			out = append(out, r)
		}
	}
	return out
}

func (s *Server) RefreshCalls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.refreshCalls
}

// SetRejectRefresh makes the refresh endpoint answer 401.
func (s *Server) SetRejectRefresh(reject bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rejectRefresh = reject
}

// ExpireAccessTokens invalidates every access token issued so far.
func (s *Server) ExpireAccessTokens() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.generation++
}

// AddUser registers an account directly and returns its id.
func (s *Server) AddUser(email, password string, totalExp int) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.addUserLocked(email, password, totalExp).user.ID
}

func (s *Server) addUserLocked(email, password string, totalExp int) *account {
	s.nextUserID++
	a := &account{
		user:     model.User{ID: s.nextUserID, Email: email, TotalExp: totalExp},
		password: password,
	}
	s.accounts[email] = a
	return a
}

// UpdateUser applies fn to the stored account.
func (s *Server) UpdateUser(email string, fn func(u *model.User)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if a, ok := s.accounts[email]; ok {
		fn(&a.user)
	}
}

// User returns a copy of the stored account.
func (s *Server) User(email string) (model.User, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.accounts[email]
	if !ok {
		return model.User{}, false
	}
	return *a.user.Clone(), true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeDetail(w http.ResponseWriter, status int, detail any) {
	writeJSON(w, status, map[string]any{"detail": detail})
}

func validationDetail(field, msg string) []map[string]any {
	return []map[string]any{{"loc": []string{"body", field}, "msg": msg, "type": "value_error"}}
}

func decodeBody(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return fmt.Errorf("invalid json: %w", err)
	}
	return nil
}
