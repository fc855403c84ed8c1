// internal/httpserver/auth.go
//
// Accounts, JWT cookies and the anonymous player cookie.
//   - POST /auth/signup, /auth/login, /auth/logout
//   - GET  /auth/me, /stats/me, /games/mine (require auth)
//
// Guests get a long-lived anonymous id so their games can be claimed when
// they sign up or log in.

package httpserver

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/mastermind/internal/db"
)

const anonCookieName = "mastermind_anon"

// authUser is placed into request context by auth middleware.
type authUser struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}

// ctxUserKey is the context key type for storing authUser.
type ctxUserKey struct{}

func userFrom(ctx context.Context) *authUser {
	u, _ := ctx.Value(ctxUserKey{}).(*authUser)
	return u
}

type credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// mountAuthRoutes registers authentication + gated routes.
func (s *Server) mountAuthRoutes() {
	s.r.Post("/auth/signup", s.handleSignup)
	s.r.Post("/auth/login", s.handleLogin)
	s.r.Post("/auth/logout", s.handleLogout)

	s.r.Group(func(r chi.Router) {
		r.Use(s.requireAuth())

		r.Get("/auth/me", func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusOK, userFrom(r.Context()))
		})

		r.Get("/stats/me", func(w http.ResponseWriter, r *http.Request) {
			u, err := db.FindUserByID(r.Context(), s.db, userFrom(r.Context()).ID)
			if err != nil {
				writeError(w, http.StatusInternalServerError, "not_found")
				return
			}
			writeJSON(w, http.StatusOK, map[string]any{
				"id":          u.ID,
				"gamesPlayed": u.GamesPlayed,
				"wins":        u.Wins,
				"streak":      u.Streak,
			})
		})

		r.Get("/games/mine", func(w http.ResponseWriter, r *http.Request) {
			rows, err := db.RecentGames(r.Context(), s.db, userFrom(r.Context()).ID, 50)
			if err != nil {
				writeError(w, http.StatusInternalServerError, "db_error")
				return
			}
			writeJSON(w, http.StatusOK, rows)
		})
	})
}

// handleSignup creates a new user, signs a JWT, sets auth cookie, and claims anon history.
func (s *Server) handleSignup(w http.ResponseWriter, r *http.Request) {
	var body credentials
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json")
		return
	}
	u, err := db.CreateUser(r.Context(), s.db, genID(), body.Username, body.Password)
	switch {
	case errors.Is(err, db.ErrUsernameTaken):
		writeError(w, http.StatusConflict, "Username taken")
		return
	case errors.Is(err, db.ErrInvalidSignup):
		writeError(w, http.StatusBadRequest, err.Error())
		return
	case err != nil:
		log.Error().Err(err).Msg("create user")
		writeError(w, http.StatusInternalServerError, "signup_failed")
		return
	}
	if !s.startSession(w, r, u) {
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"id": u.ID, "username": u.Username, "createdAt": u.CreatedAt})
}

// handleLogin authenticates user, sets cookie, and claims anon history.
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var body credentials
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json")
		return
	}
	u, err := db.FindUserByUsername(r.Context(), s.db, body.Username)
	if err != nil || !u.CheckPassword(body.Password) {
		writeError(w, http.StatusUnauthorized, "Invalid username or password")
		return
	}
	if !s.startSession(w, r, u) {
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"id": u.ID, "username": u.Username})
}

// handleLogout clears the auth cookie.
func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	s.setAuthCookie(w, "", time.Time{}, -1)
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

// startSession signs a token for u, sets the cookie and moves the caller's
// anonymous games onto the account. It writes the error response itself.
func (s *Server) startSession(w http.ResponseWriter, r *http.Request, u *db.User) bool {
	tok, exp, err := s.signJWT(u.ID, u.Username)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "sign_failed")
		return false
	}
	s.setAuthCookie(w, tok, exp, 0)
	if err := db.ClaimAnonGames(r.Context(), s.db, s.ensureAnonID(w, r), u.ID); err != nil {
		log.Warn().Err(err).Msg("claim anon games")
	}
	return true
}

// --------------------------- auth middleware -------------------------------

// parseToken verifies an HS256 token and returns its subject.
func (s *Server) parseToken(tok string) (*authUser, error) {
	claims := jwt.MapClaims{}
	t, err := jwt.ParseWithClaims(tok, claims, func(t *jwt.Token) (interface{}, error) {
		return []byte(s.cfg.Auth.JWTSecret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !t.Valid {
		return nil, errors.New("invalid token")
	}
	id, _ := claims["id"].(string)
	username, _ := claims["username"].(string)
	if id == "" || username == "" {
		return nil, errors.New("invalid token")
	}
	return &authUser{ID: id, Username: username}, nil
}

// withOptionalAuth decorates requests with user context if a valid JWT is present.
// It never 401s; used for routes where guests are allowed.
func (s *Server) withOptionalAuth() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if tok := s.bearerOrCookie(r); tok != "" {
				if u, err := s.parseToken(tok); err == nil {
					if _, err := db.FindUserByID(r.Context(), s.db, u.ID); err == nil {
						r = r.WithContext(context.WithValue(r.Context(), ctxUserKey{}, u))
					}
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

// requireAuth enforces a valid JWT and injects authUser into request context.
func (s *Server) requireAuth() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tok := s.bearerOrCookie(r)
			if tok == "" {
				writeError(w, http.StatusUnauthorized, "Unauthorized")
				return
			}
			u, err := s.parseToken(tok)
			if err != nil {
				writeError(w, http.StatusUnauthorized, "Invalid token")
				return
			}
			// Ensure user still exists
			if _, err := db.FindUserByID(r.Context(), s.db, u.ID); err != nil {
				writeError(w, http.StatusUnauthorized, "Invalid token")
				return
			}
			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), ctxUserKey{}, u)))
		})
	}
}

// owner names who is playing: the signed-in user, else the anonymous cookie.
func (s *Server) owner(w http.ResponseWriter, r *http.Request) db.Owner {
	if me := userFrom(r.Context()); me != nil {
		return db.Owner{UserID: me.ID}
	}
	return db.Owner{AnonID: s.ensureAnonID(w, r)}
}

// owns reports whether the caller is o: the signed-in user, or the holder
// of the anonymous cookie. A guest who signs up keeps their anon cookie,
// so games started before signup stay playable.
func (s *Server) owns(r *http.Request, o db.Owner) bool {
	if me := userFrom(r.Context()); me != nil && o.UserID == me.ID {
		return true
	}
	if o.AnonID == "" {
		return false
	}
	c, err := r.Cookie(anonCookieName)
	return err == nil && c.Value == o.AnonID
}

// ensureAnonID returns an existing anon cookie or sets a new one.
func (s *Server) ensureAnonID(w http.ResponseWriter, r *http.Request) string {
	if c, err := r.Cookie(anonCookieName); err == nil && c.Value != "" {
		return c.Value
	}
	id := genID()
	http.SetCookie(w, &http.Cookie{
		Name:     anonCookieName,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		Secure:   s.cfg.Auth.SecureCookies,
		SameSite: s.sameSite(),
		Expires:  time.Now().Add(180 * 24 * time.Hour),
	})
	return id
}

// ------------------------------ JWT & cookies ------------------------------

// signJWT creates an HS256 JWT with id/username and the configured expiry.
func (s *Server) signJWT(id, username string) (string, time.Time, error) {
	exp := time.Now().Add(time.Duration(s.cfg.Auth.JWTExpiresDays) * 24 * time.Hour)
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"id":       id,
		"username": username,
		"exp":      exp.Unix(),
		"iat":      time.Now().Unix(),
	})
	ss, err := t.SignedString([]byte(s.cfg.Auth.JWTSecret))
	return ss, exp, err
}

func (s *Server) sameSite() http.SameSite {
	if s.cfg.Auth.SecureCookies {
		return http.SameSiteNoneMode // required for third-party contexts when Secure
	}
	return http.SameSiteLaxMode
}

// setAuthCookie writes (maxAge 0) or deletes (maxAge -1) the auth token cookie.
func (s *Server) setAuthCookie(w http.ResponseWriter, token string, exp time.Time, maxAge int) {
	http.SetCookie(w, &http.Cookie{
		Name:     s.cfg.Auth.CookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   s.cfg.Auth.SecureCookies,
		SameSite: s.sameSite(),
		Expires:  exp,
		MaxAge:   maxAge,
	})
}

// bearerOrCookie extracts a bearer token from Authorization header or auth cookie.
func (s *Server) bearerOrCookie(r *http.Request) string {
	if a := r.Header.Get("Authorization"); strings.HasPrefix(strings.ToLower(a), "bearer ") {
		return strings.TrimSpace(a[7:])
	}
	if c, err := r.Cookie(s.cfg.Auth.CookieName); err == nil {
		return c.Value
	}
	return ""
}

// genID creates a 22-char URL-safe, crypto-random identifier (no padding).
func genID() string {
	var b [16]byte
	_, _ = rand.Read(b[:])
	return base64.RawURLEncoding.EncodeToString(b[:])
}
