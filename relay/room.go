// Package relay owns the live chat state: the session registry, the
// history timeline, and the broadcast fan-out. All mutation goes through
// a single mutex so every connected client observes events in the same
// order, which is also the timeline append order.
package relay

import (
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/samber/lo"

	"chat-relay/domain"
	"chat-relay/moderation"
	"chat-relay/projection"
	"chat-relay/protocol"
)

// MaxChatLength caps a chat message after whitespace trimming.
const MaxChatLength = 500

// Sink is the outbound side of one connected client. Send must not
// block: it reports false when the connection is not currently
// writable, in which case the frame is simply skipped for that client.
type Sink interface {
	Send(payload []byte) bool
}

// Room is the single global chat room. It maps each connection sink to
// its Participant and guards that map together with the timeline under
// one mutex. The lock is held across a mutation and the following
// broadcast snapshot; since sinks never block, it is never held across
// a blocking send.
type Room struct {
	mu        sync.Mutex
	sessions  map[Sink]*domain.Participant
	timeline  *projection.Timeline
	moderator *moderation.Moderator
	log       *slog.Logger
}

// NewRoom creates an empty room. moderator may be nil, in which case
// chat text passes through unmasked.
func NewRoom(log *slog.Logger, timeline *projection.Timeline, moderator *moderation.Moderator) *Room {
	return &Room{
		sessions:  make(map[Sink]*domain.Participant),
		timeline:  timeline,
		moderator: moderator,
		log:       log,
	}
}

// Join registers the connection under the sanitized requested name.
// On success the joining client receives the full history replay, then
// everyone (including the joiner) receives the join announcement and the
// updated roster. On a name conflict only the requester is notified and
// nothing is registered.
func (r *Room) Join(s Sink, requestedName string) (string, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	name := domain.SanitizeName(requestedName)
	if r.nameInUseLocked(name, s) {
		r.sendTo(s, protocol.NewError(fmt.Sprintf("Username %q is already taken", name)))
		return "", false
	}

	r.sessions[s] = &domain.Participant{Name: name}
	r.sendTo(s, protocol.NewHistory(r.timeline.Snapshot()))
	r.appendAndBroadcastLocked(protocol.NewSystem(name+" joined the room", time.Now().UTC()))
	r.broadcastRosterLocked()

	r.log.Info("Participant joined", "name", name, "online", len(r.sessions))
	return name, true
}

// Leave removes the connection if it was registered and announces the
// departure. Removal, announcement, and roster broadcast happen under
// one lock acquisition so no client ever sees a roster that still
// contains the departed participant.
func (r *Room) Leave(s Sink) {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.sessions[s]
	if !ok {
		return
	}
	delete(r.sessions, s)
	r.appendAndBroadcastLocked(protocol.NewSystem(p.Name+" left the room", time.Now().UTC()))
	r.broadcastRosterLocked()

	r.log.Info("Participant left", "name", p.Name, "online", len(r.sessions))
}

// HandleChat processes a chat payload from an active connection:
// slash-commands are dispatched to the interpreter, anything else is
// broadcast as a plain chat event. Whitespace-only input is ignored
// entirely (no broadcast, no history append).
func (r *Room) HandleChat(s Sink, text string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.sessions[s]
	if !ok {
		return
	}

	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return
	}
	if runes := []rune(trimmed); len(runes) > MaxChatLength {
		trimmed = string(runes[:MaxChatLength])
	}

	if strings.HasPrefix(trimmed, "/") {
		r.dispatchCommandLocked(s, p, trimmed)
		return
	}

	if r.moderator != nil {
		trimmed = r.moderator.Mask(trimmed)
	}
	r.appendAndBroadcastLocked(protocol.NewChat(p.Name, trimmed, time.Now().UTC()))
}

// Roster returns the current display names, order unspecified.
func (r *Room) Roster() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rosterLocked()
}

// ParticipantCount reports how many connections are registered.
func (r *Room) ParticipantCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

// HistoryLen reports the number of retained history events.
func (r *Room) HistoryLen() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.timeline.Len()
}

func (r *Room) rosterLocked() []string {
	return lo.Map(lo.Values(r.sessions), func(p *domain.Participant, _ int) string {
		return p.Name
	})
}

// nameInUseLocked reports whether name is held, case-insensitively, by
// a participant other than self.
func (r *Room) nameInUseLocked(name string, self Sink) bool {
	key := domain.NameKey(name)
	for sink, p := range r.sessions {
		if sink == self {
			continue
		}
		if domain.NameKey(p.Name) == key {
			return true
		}
	}
	return false
}

// appendAndBroadcastLocked records the event in the timeline before
// fanning it out, so a client joining right after the broadcast still
// sees the event in its history replay.
func (r *Room) appendAndBroadcastLocked(e protocol.Event) {
	r.timeline.Append(e)
	payload, err := protocol.Encode(e)
	if err != nil {
		r.log.Error("Failed to encode event", "error", err)
		return
	}
	r.broadcastLocked(payload, nil)
}

func (r *Room) broadcastRosterLocked() {
	payload, err := protocol.Encode(protocol.NewUsers(r.rosterLocked()))
	if err != nil {
		r.log.Error("Failed to encode roster", "error", err)
		return
	}
	r.broadcastLocked(payload, nil)
}

// broadcastLocked sends the identical pre-encoded bytes to every
// registered sink except exclude. Delivery is best effort: a sink that
// is not writable right now is skipped, never retried. No caller
// currently passes a non-nil exclude; senders see their own events
// echoed back.
func (r *Room) broadcastLocked(payload []byte, exclude Sink) {
	for sink := range r.sessions {
		if sink == exclude {
			continue
		}
		if !sink.Send(payload) {
			r.log.Debug("Dropped frame for unwritable connection")
		}
	}
}

// sendTo delivers a single frame to one sink, best effort.
func (r *Room) sendTo(s Sink, frame any) {
	payload, err := protocol.Encode(frame)
	if err != nil {
		r.log.Error("Failed to encode frame", "error", err)
		return
	}
	s.Send(payload)
}
