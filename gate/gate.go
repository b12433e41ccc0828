// Package gate is the thin HTTP front of the relay: account
// registration and login, join-token issuance, and the static client
// page. It owns the token table but never touches the relay's session
// state.
package gate

import (
	"encoding/json"
	stderrors "errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/julienschmidt/httprouter"

	"chat-relay/auth"
	"chat-relay/errors"
	"chat-relay/services"
)

type Gate struct {
	log      *slog.Logger
	auth     services.IAuthService
	sessions *auth.TokenManager
	tokens   *TokenStore
}

func NewGate(log *slog.Logger, authService services.IAuthService, sessions *auth.TokenManager, tokens *TokenStore) *Gate {
	return &Gate{log: log, auth: authService, sessions: sessions, tokens: tokens}
}

// NewRouter wires the gate routes plus the WebSocket endpoint. Anything
// else falls through to httprouter's default 404.
func NewRouter(g *Gate, wsHandler http.Handler) *httprouter.Router {
	router := httprouter.New()
	router.POST("/register", g.Register)
	router.POST("/login", g.Login)
	router.POST("/auth", g.Auth)
	router.GET("/", g.Index)
	router.Handler(http.MethodGet, "/ws", wsHandler)
	return router
}

type credentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type authRequest struct {
	PCName string `json:"pcName"`
}

// Register creates an account: 200 {ok:true}, 400 on invalid input,
// 409 when the username is taken.
func (g *Gate) Register(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if _, err := g.auth.Register(req.Username, req.Password); err != nil {
		if stderrors.Is(err, errors.ErrUserAlreadyExists) {
			writeError(w, http.StatusConflict, "username already exists")
			return
		}
		writeError(w, http.StatusBadRequest, "invalid username or password")
		return
	}

	g.log.Info("Account registered", "username", req.Username)
	writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}

// Login verifies credentials and returns a long-lived session token:
// 200 {token}, 400 on a malformed body, 401 otherwise.
func (g *Gate) Login(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	token, err := g.auth.Login(req.Username, req.Password)
	if err != nil {
		writeError(w, http.StatusUnauthorized, "invalid credentials")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"token": string(token)})
}

// Auth exchanges a valid session token plus a machine context for a
// short-lived join token: 200 {token}, 400 on a malformed body, 401
// without a valid bearer token.
func (g *Gate) Auth(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	claims, ok := g.bearerClaims(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "valid session token required")
		return
	}

	var req authRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.PCName == "" {
		writeError(w, http.StatusBadRequest, "pcName required")
		return
	}

	joinToken := g.tokens.Issue(claims.Username + "@" + req.PCName)
	g.log.Info("Join token issued", "username", claims.Username, "pc", req.PCName)
	writeJSON(w, http.StatusOK, map[string]any{"token": joinToken.Token})
}

// Index serves the embedded chat client page.
func (g *Gate) Index(w http.ResponseWriter, _ *http.Request, _ httprouter.Params) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write([]byte(clientPage))
}

func (g *Gate) bearerClaims(r *http.Request) (*auth.SessionClaims, bool) {
	header := r.Header.Get("Authorization")
	token, found := strings.CutPrefix(header, "Bearer ")
	if !found || token == "" {
		return nil, false
	}
	claims, err := g.sessions.Validate(token)
	if err != nil {
		return nil, false
	}
	return claims, true
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]any{"error": message})
}
