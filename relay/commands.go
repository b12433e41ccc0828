package relay

import (
	"fmt"
	"strings"
	"time"

	"chat-relay/domain"
	"chat-relay/protocol"
)

const helpText = "Available commands: /help, /users, /me <action>, /nick <name>, /clear"

// dispatchCommandLocked interprets a trimmed chat payload that starts
// with "/". The first whitespace-separated token selects the command,
// case-insensitively. Every branch returns without falling through to
// plain-chat handling; replies go to the sender only unless the command
// itself broadcasts.
func (r *Room) dispatchCommandLocked(s Sink, p *domain.Participant, trimmed string) {
	fields := strings.Fields(trimmed)
	command := strings.ToLower(fields[0])

	switch command {
	case "/help":
		r.sendTo(s, protocol.NewSystem(helpText, time.Now().UTC()))

	case "/users":
		names := r.rosterLocked()
		text := fmt.Sprintf("%d online: %s", len(names), strings.Join(names, ", "))
		r.sendTo(s, protocol.NewSystem(text, time.Now().UTC()))

	case "/me":
		action := strings.Join(fields[1:], " ")
		if action == "" {
			action = "..."
		}
		r.appendAndBroadcastLocked(protocol.NewAction(p.Name, p.Name+" "+action, time.Now().UTC()))

	case "/nick":
		var requested string
		if len(fields) > 1 {
			requested = fields[1]
		}
		r.renameLocked(s, p, requested)

	case "/clear":
		r.sendTo(s, protocol.NewClear())

	default:
		r.sendTo(s, protocol.NewError(fmt.Sprintf("Unknown command: %s", command)))
	}
}

// renameLocked applies /nick. The requested name goes through the same
// sanitization as join, but an empty result is a usage error rather
// than a fallback to the default name. A name held by another live
// participant is rejected; renaming yourself to your current name is a
// harmless no-op that still follows the announcement path.
func (r *Room) renameLocked(s Sink, p *domain.Participant, requested string) {
	newName := domain.StripName(requested)
	if newName == "" {
		r.sendTo(s, protocol.NewError("Usage: /nick <newname>"))
		return
	}
	if r.nameInUseLocked(newName, s) {
		r.sendTo(s, protocol.NewError(fmt.Sprintf("Username %q is already taken", newName)))
		return
	}

	oldName := p.Name
	p.Name = newName
	r.appendAndBroadcastLocked(protocol.NewSystem(
		fmt.Sprintf("%s is now known as %s", oldName, newName), time.Now().UTC()))
	r.broadcastRosterLocked()

	r.log.Info("Participant renamed", "from", oldName, "to", newName)
}
