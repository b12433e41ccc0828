package relay

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCommands_Help_RepliesToSenderOnly(t *testing.T) {
	req := require.New(t)
	room := newTestRoom(0)

	asker := newFakeSink()
	other := newFakeSink()
	_, ok := room.Join(asker, "asker")
	req.True(ok)
	_, ok = room.Join(other, "other")
	req.True(ok)

	before := room.HistoryLen()
	otherFrames := len(other.frames)
	room.HandleChat(asker, "/help")

	req.Contains(asker.lastOfType(t, "system").Message, "/nick")
	req.Equal(otherFrames, len(other.frames))
	req.Equal(before, room.HistoryLen())
}

func TestCommands_Users_ListsCountAndNames(t *testing.T) {
	req := require.New(t)
	room := newTestRoom(0)

	alice := newFakeSink()
	bob := newFakeSink()
	_, ok := room.Join(alice, "alice")
	req.True(ok)
	_, ok = room.Join(bob, "bob")
	req.True(ok)

	room.HandleChat(alice, "/users")

	reply := alice.lastOfType(t, "system")
	req.Contains(reply.Message, "2 online")
	req.Contains(reply.Message, "alice")
	req.Contains(reply.Message, "bob")
}

func TestCommands_Me_BroadcastsAction(t *testing.T) {
	req := require.New(t)
	room := newTestRoom(0)

	bob := newFakeSink()
	watcher := newFakeSink()
	_, ok := room.Join(bob, "bob")
	req.True(ok)
	_, ok = room.Join(watcher, "watcher")
	req.True(ok)

	room.HandleChat(bob, "/me waves")

	for _, s := range []*fakeSink{bob, watcher} {
		action := s.lastOfType(t, "action")
		req.Equal("bob", action.Username)
		req.Equal("bob waves", action.Message)
	}
}

func TestCommands_Me_DefaultsActionText(t *testing.T) {
	req := require.New(t)
	room := newTestRoom(0)

	bob := newFakeSink()
	_, ok := room.Join(bob, "bob")
	req.True(ok)
	room.HandleChat(bob, "/me")

	req.Equal("bob ...", bob.lastOfType(t, "action").Message)
}

func TestCommands_Me_IsCaseInsensitive(t *testing.T) {
	req := require.New(t)
	room := newTestRoom(0)

	bob := newFakeSink()
	_, ok := room.Join(bob, "bob")
	req.True(ok)
	room.HandleChat(bob, "/ME waves")

	req.Equal("bob waves", bob.lastOfType(t, "action").Message)
}

func TestCommands_Nick_RenamesAndAnnounces(t *testing.T) {
	req := require.New(t)
	room := newTestRoom(0)

	bob := newFakeSink()
	watcher := newFakeSink()
	_, ok := room.Join(bob, "bob")
	req.True(ok)
	_, ok = room.Join(watcher, "watcher")
	req.True(ok)

	room.HandleChat(bob, "/nick bobby")

	req.Equal("bob is now known as bobby", watcher.lastOfType(t, "system").Message)
	req.ElementsMatch([]string{"bobby", "watcher"}, watcher.lastOfType(t, "users").List)
}

func TestCommands_Nick_EmptyArgumentIsUsageError(t *testing.T) {
	req := require.New(t)
	room := newTestRoom(0)

	bob := newFakeSink()
	_, ok := room.Join(bob, "bob")
	req.True(ok)
	before := room.HistoryLen()

	// No argument, and an argument that sanitizes to nothing.
	room.HandleChat(bob, "/nick")
	req.Contains(bob.lastOfType(t, "error").Message, "Usage")
	room.HandleChat(bob, "/nick !!!")
	req.Contains(bob.lastOfType(t, "error").Message, "Usage")

	req.Equal(before, room.HistoryLen())
	req.ElementsMatch([]string{"bob"}, room.Roster())
}

func TestCommands_Nick_TakenNameRejected(t *testing.T) {
	req := require.New(t)
	room := newTestRoom(0)

	alice := newFakeSink()
	bob := newFakeSink()
	_, ok := room.Join(alice, "alice")
	req.True(ok)
	_, ok = room.Join(bob, "bob")
	req.True(ok)

	room.HandleChat(bob, "/nick ALICE")

	req.Contains(bob.lastOfType(t, "error").Message, "taken")
	req.ElementsMatch([]string{"alice", "bob"}, room.Roster())
}

func TestCommands_Nick_RenameToOwnNameIsIdempotent(t *testing.T) {
	req := require.New(t)
	room := newTestRoom(0)

	alice := newFakeSink()
	_, ok := room.Join(alice, "alice")
	req.True(ok)

	room.HandleChat(alice, "/nick alice")

	req.Equal(0, alice.countOfType(t, "error"))
	req.ElementsMatch([]string{"alice"}, room.Roster())
}

func TestCommands_Clear_RepliesToSenderOnly(t *testing.T) {
	req := require.New(t)
	room := newTestRoom(0)

	bob := newFakeSink()
	watcher := newFakeSink()
	_, ok := room.Join(bob, "bob")
	req.True(ok)
	_, ok = room.Join(watcher, "watcher")
	req.True(ok)

	watcherFrames := len(watcher.frames)
	room.HandleChat(bob, "/clear")

	req.Equal(1, bob.countOfType(t, "clear"))
	req.Equal(watcherFrames, len(watcher.frames))
}

func TestCommands_Unknown_NamesTheCommand(t *testing.T) {
	req := require.New(t)
	room := newTestRoom(0)

	bob := newFakeSink()
	_, ok := room.Join(bob, "bob")
	req.True(ok)
	before := room.HistoryLen()

	room.HandleChat(bob, "/dance hard")

	req.Contains(bob.lastOfType(t, "error").Message, "/dance")
	req.Equal(before, room.HistoryLen())
}
