package e2e

import (
	"testing"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/suite"
)

type testChatSessionSuite struct {
	BaseRelaySuite
}

func TestChatSessionSuite(t *testing.T) {
	suite.Run(t, &testChatSessionSuite{})
}

func (s *testChatSessionSuite) TestFullChatSessionFlow() {
	// Random username so the scenario can run against a shared instance.
	account := "user_" + uuid.NewString()[:8]
	password := "ComplexPass123!"
	var sessionToken, joinToken string

	// --- STEP 1: ACCOUNT AND SESSION ---
	s.Run("Step 1: Register and login through the gate", func() {
		s.Step("Registering " + account)
		status, _ := s.PostJSON("/register", map[string]string{
			"username": account,
			"password": password,
		}, "")
		s.Require().Equal(200, status)

		status, body := s.PostJSON("/login", map[string]string{
			"username": account,
			"password": password,
		}, "")
		s.Require().Equal(200, status)
		sessionToken, _ = body["token"].(string)
		s.Require().NotEmpty(sessionToken)
	})

	// --- STEP 2: JOIN TOKEN ---
	s.Run("Step 2: Exchange the session for a join token", func() {
		s.Step("Requesting join token")
		status, body := s.PostJSON("/auth", map[string]string{"pcName": "laptop"}, sessionToken)
		s.Require().Equal(200, status)
		joinToken, _ = body["token"].(string)
		s.Require().NotEmpty(joinToken)
	})

	// --- STEP 3: HANDSHAKE ---
	// The requested name carries characters the relay strips.
	conn := s.Dial(joinToken)
	defer conn.Close()

	s.Run("Step 3: Join with a name that needs sanitizing", func() {
		s.Step("Joining as bob!!")
		s.Require().NoError(conn.WriteJSON(map[string]any{"type": "join", "username": "bob!!"}))

		history := s.ReadFrame(conn)
		s.Require().Equal("history", history["type"])

		announce := s.ReadFrame(conn)
		s.Require().Equal("system", announce["type"])
		s.Require().Equal("bob joined the room", announce["message"])

		roster := s.ReadFrame(conn)
		s.Require().Equal("users", roster["type"])
		s.Require().Contains(roster["list"], "bob")
	})

	// --- STEP 4: COMMANDS AND CHAT ---
	s.Run("Step 4: Emote and chat are echoed back", func() {
		s.Step("Sending /me waves")
		s.Require().NoError(conn.WriteJSON(map[string]any{"type": "chat", "text": "/me waves"}))

		action := s.ReadFrame(conn)
		s.Require().Equal("action", action["type"])
		s.Require().Equal("bob", action["username"])
		s.Require().Equal("bob waves", action["message"])

		s.Step("Sending a plain chat line")
		s.Require().NoError(conn.WriteJSON(map[string]any{"type": "chat", "text": "hello there"}))

		chat := s.ReadFrame(conn)
		s.Require().Equal("chat", chat["type"])
		s.Require().Equal("hello there", chat["text"])
	})

	// --- STEP 5: HISTORY REPLAY ---
	s.Run("Step 5: A second participant replays the transcript", func() {
		s.Step("Connecting a watcher")
		watcher := s.Dial(joinToken)

		s.Require().NoError(watcher.WriteJSON(map[string]any{"type": "join", "username": "watcher"}))

		history := s.ReadFrame(watcher)
		s.Require().Equal("history", history["type"])
		messages, ok := history["messages"].([]any)
		s.Require().True(ok)
		// Join announcement, emote, and the chat line at minimum.
		s.Require().GreaterOrEqual(len(messages), 3)

		last, ok := messages[len(messages)-1].(map[string]any)
		s.Require().True(ok)
		s.Require().Equal("chat", last["type"])
		s.Require().Equal("hello there", last["text"])

		s.Require().Equal("system", s.ReadFrame(watcher)["type"])
		s.Require().Equal("users", s.ReadFrame(watcher)["type"])

		// bob sees the watcher arrive.
		announce := s.ReadFrame(conn)
		s.Require().Equal("system", announce["type"])
		s.Require().Equal("watcher joined the room", announce["message"])
		roster := s.ReadFrame(conn)
		s.Require().Equal("users", roster["type"])
		s.Require().Contains(roster["list"], "watcher")

		// Close the watcher here and drain the departure so the next
		// step starts from a quiet connection.
		s.Require().NoError(watcher.Close())
		s.Require().Equal("system", s.ReadFrame(conn)["type"])
		s.Require().Equal("users", s.ReadFrame(conn)["type"])
	})

	// --- STEP 6: DEPARTURE ---
	s.Run("Step 6: Closing the socket announces the departure", func() {
		s.Step("Watcher disconnects")

		watcher := s.Dial(joinToken)
		s.Require().NoError(watcher.WriteJSON(map[string]any{"type": "join", "username": "ghost"}))
		s.Require().Equal("history", s.ReadFrame(watcher)["type"])
		s.Require().Equal("system", s.ReadFrame(watcher)["type"])
		s.Require().Equal("users", s.ReadFrame(watcher)["type"])

		// Drain the join frames bob received, then close.
		s.Require().Equal("system", s.ReadFrame(conn)["type"])
		s.Require().Equal("users", s.ReadFrame(conn)["type"])
		s.Require().NoError(watcher.WriteMessage(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")))
		s.Require().NoError(watcher.Close())

		announce := s.ReadFrame(conn)
		s.Require().Equal("system", announce["type"])
		s.Require().Equal("ghost left the room", announce["message"])
		roster := s.ReadFrame(conn)
		s.Require().Equal("users", roster["type"])
		s.Require().NotContains(roster["list"], "ghost")
	})
}
