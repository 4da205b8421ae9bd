package fakeapi

import (
	"context"
	"net/http"
	"strings"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/jrsteele09/go-questpath-client/model"
)

type ctxKey struct{}

// IssueToken mints an access token for email, as the login endpoint would.
func (s *Server) IssueToken(email string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.issueLocked(email)
}

func (s *Server) issueLocked(email string) string {
	now := time.Now()
	raw, err := jwtlib.NewWithClaims(jwtlib.SigningMethodHS256, jwtlib.MapClaims{
		"sub": email,
		"gen": s.generation,
		"iat": now.Unix(),
		"exp": now.Add(s.accessTTL).Unix(),
		"jti": uuid.NewString(),
	}).SignedString(s.secret)
	if err != nil {
		panic(err)
	}
	return raw
}

func (s *Server) login(w http.ResponseWriter, email string) {
	refreshToken := uuid.NewString()
	s.mu.Lock()
	s.refreshTokens[refreshToken] = email
	access := s.issueLocked(email)
	s.mu.Unlock()

	http.SetCookie(w, &http.Cookie{
		Name:     RefreshCookie,
		Value:    refreshToken,
		Path:     "/",
		HttpOnly: true,
		MaxAge:   int((30 * 24 * time.Hour).Seconds()),
	})
	writeJSON(w, http.StatusOK, model.TokenResponse{AccessToken: access, TokenType: "bearer"})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		writeDetail(w, http.StatusBadRequest, "Invalid form data")
		return
	}
	email := r.PostForm.Get("username")
	password := r.PostForm.Get("password")

	s.mu.Lock()
	a, ok := s.accounts[email]
	s.mu.Unlock()
	if !ok || a.password != password {
		writeDetail(w, http.StatusUnauthorized, "Incorrect email or password")
		return
	}
	s.login(w, email)
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req model.Registration
	if err := decodeBody(r, &req); err != nil {
		writeDetail(w, http.StatusUnprocessableEntity, validationDetail("body", err.Error()))
		return
	}
	if !strings.Contains(req.Email, "@") {
		writeDetail(w, http.StatusUnprocessableEntity, validationDetail("email", "value is not a valid email address"))
		return
	}
	if len(req.Password) < 8 {
		writeDetail(w, http.StatusUnprocessableEntity, validationDetail("password", "String should have at least 8 characters"))
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.accounts[req.Email]; exists {
		writeDetail(w, http.StatusBadRequest, "Email already registered")
		return
	}
	a := s.addUserLocked(req.Email, req.Password, 0)
	writeJSON(w, http.StatusCreated, a.user)
}

func (s *Server) handleOAuthLogin(w http.ResponseWriter, r *http.Request) {
	var req model.OAuthIdentity
	if err := decodeBody(r, &req); err != nil || req.Email == "" || req.GoogleID == "" {
		writeDetail(w, http.StatusBadRequest, "Failed to sync OAuth user")
		return
	}
	s.mu.Lock()
	a, ok := s.accounts[req.Email]
	if !ok {
		a = s.addUserLocked(req.Email, "", 0)
	}
	if req.DisplayName != "" && a.user.DisplayName == nil {
		name := req.DisplayName
		a.user.DisplayName = &name
	}
	if req.ProfilePicture != "" {
		pic := req.ProfilePicture
		a.user.ProfilePicture = &pic
	}
	s.mu.Unlock()
	s.login(w, req.Email)
}

func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	s.refreshCalls++
	reject := s.rejectRefresh
	s.mu.Unlock()

	cookie, err := r.Cookie(RefreshCookie)
	if reject || err != nil {
		writeDetail(w, http.StatusUnauthorized, "Invalid refresh token")
		return
	}
	s.mu.Lock()
	email, ok := s.refreshTokens[cookie.Value]
	var access string
	if ok {
		access = s.issueLocked(email)
	}
	s.mu.Unlock()
	if !ok {
		writeDetail(w, http.StatusUnauthorized, "Invalid refresh token")
		return
	}
	writeJSON(w, http.StatusOK, model.TokenResponse{AccessToken: access, TokenType: "bearer"})
}

// requireAuth validates the bearer token and stores the caller's email in the context.
func (s *Server) requireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
		if !ok {
			writeDetail(w, http.StatusUnauthorized, "Not authenticated")
			return
		}
		claims := jwtlib.MapClaims{}
		tok, err := jwtlib.ParseWithClaims(raw, claims, func(*jwtlib.Token) (any, error) {
			return s.secret, nil
		}, jwtlib.WithValidMethods([]string{jwtlib.SigningMethodHS256.Alg()}))
		if err != nil || !tok.Valid {
			writeDetail(w, http.StatusUnauthorized, "Could not validate credentials")
			return
		}
		gen, _ := claims["gen"].(float64)
		email, _ := claims.GetSubject()

		s.mu.Lock()
		current := s.generation
		_, exists := s.accounts[email]
		s.mu.Unlock()
		if int(gen) != current || !exists {
			writeDetail(w, http.StatusUnauthorized, "Could not validate credentials")
			return
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), ctxKey{}, email)))
	})
}

func callerEmail(r *http.Request) string {
	email, _ := r.Context().Value(ctxKey{}).(string)
	return email
}

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	u, ok := s.User(callerEmail(r))
	if !ok {
		writeDetail(w, http.StatusNotFound, "User not found")
		return
	}
	writeJSON(w, http.StatusOK, u)
}

func (s *Server) handleUpdateMe(w http.ResponseWriter, r *http.Request) {
	var req model.ProfileUpdate
	if err := decodeBody(r, &req); err != nil {
		writeDetail(w, http.StatusUnprocessableEntity, validationDetail("body", err.Error()))
		return
	}
	name := strings.TrimSpace(req.DisplayName)
	if name == "" {
		writeDetail(w, http.StatusUnprocessableEntity, validationDetail("display_name", "Display name cannot be empty"))
		return
	}
	email := callerEmail(r)
	s.UpdateUser(email, func(u *model.User) { u.DisplayName = &name })
	u, _ := s.User(email)
	writeJSON(w, http.StatusOK, u)
}
