package e2e

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/gookit/color"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/suite"

	"chat-relay/auth"
	"chat-relay/gate"
	"chat-relay/projection"
	"chat-relay/relay"
	"chat-relay/repositories"
	"chat-relay/services"
	"chat-relay/transport/ws"
)

type BaseRelaySuite struct {
	suite.Suite
	Config  Config
	baseURL string
	server  *httptest.Server
	db      *badger.DB
}

// SetupSuite loads the environment configuration and, unless RELAY_ADDR
// points at a running instance, wires a full in-process relay the same
// way main does.
func (s *BaseRelaySuite) SetupSuite() {
	var err error
	s.Config, err = LoadConfig()
	s.Require().NoError(err)

	if s.Config.RelayAddr != "" {
		s.baseURL = "http://" + s.Config.RelayAddr
		return
	}

	s.db, err = badger.Open(badger.DefaultOptions("").
		WithInMemory(true).
		WithLoggingLevel(badger.ERROR))
	s.Require().NoError(err)

	log := slog.New(slog.DiscardHandler)
	room := relay.NewRoom(log, projection.NewTimeline(0), nil)
	sessions := auth.NewTokenManager([]byte("e2e-secret"), "chat-relay", time.Hour)
	authService := services.NewAuthService(repositories.NewUserRepository(s.db), sessions)
	joinTokens := gate.NewTokenStore()
	g := gate.NewGate(log, authService, sessions, joinTokens)
	wsHandler := ws.NewHandler(log, room, joinTokens, 256)

	s.server = httptest.NewServer(gate.NewRouter(g, wsHandler))
	s.baseURL = s.server.URL
}

func (s *BaseRelaySuite) TearDownSuite() {
	if s.server != nil {
		s.server.Close()
	}
	if s.db != nil {
		_ = s.db.Close()
	}
}

// Step prints a colorized header so individual scenario steps stand out
// in the test log.
func (s *BaseRelaySuite) Step(name string) {
	header := fmt.Sprintf("  ====== %s ======", name)
	if s.Config.Colours {
		header = color.New(color.BgBlack, color.FgGreen).Render(header)
	}
	s.T().Log(header)
}

// PostJSON sends a JSON body to the gate and decodes the JSON response.
func (s *BaseRelaySuite) PostJSON(path string, body any, bearer string) (int, map[string]any) {
	payload, err := json.Marshal(body)
	s.Require().NoError(err)

	req, err := http.NewRequest(http.MethodPost, s.baseURL+path, bytes.NewReader(payload))
	s.Require().NoError(err)
	req.Header.Set("Content-Type", "application/json")
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}

	resp, err := http.DefaultClient.Do(req)
	s.Require().NoError(err)
	defer resp.Body.Close()

	var decoded map[string]any
	s.Require().NoError(json.NewDecoder(resp.Body).Decode(&decoded))
	if s.Config.DebugJSON {
		s.T().Logf("POST %s [%d]: %v", path, resp.StatusCode, decoded)
	}
	return resp.StatusCode, decoded
}

// Dial opens a websocket connection against the relay with the given
// join token.
func (s *BaseRelaySuite) Dial(token string) *websocket.Conn {
	url := "ws" + strings.TrimPrefix(s.baseURL, "http") + "/ws?token=" + token
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	s.Require().NoError(err)
	return conn
}

// ReadFrame reads one server frame and decodes it into a generic map.
func (s *BaseRelaySuite) ReadFrame(conn *websocket.Conn) map[string]any {
	s.Require().NoError(conn.SetReadDeadline(time.Now().Add(5 * time.Second)))
	_, raw, err := conn.ReadMessage()
	s.Require().NoError(err)

	var frame map[string]any
	s.Require().NoError(json.Unmarshal(raw, &frame))
	if s.Config.DebugJSON {
		s.T().Logf("FRAME: %s", raw)
	}
	return frame
}
