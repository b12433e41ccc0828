// Package domain contains core concepts of the chat relay.
// This file defines Participant entities and the display-name rules.
// No runtime, network, or UI logic should be added here.
package domain

import "strings"

const (
	// MaxNameLength bounds a sanitized display name.
	MaxNameLength = 20

	// DefaultName is assigned when sanitization leaves nothing usable.
	DefaultName = "anon"
)

// Participant is a registered, named, currently-connected chat member.
type Participant struct {
	Name string
}

// SanitizeName applies the join rule: strip, truncate, and fall back to
// DefaultName when nothing remains.
func SanitizeName(raw string) string {
	name := StripName(raw)
	if name == "" {
		return DefaultName
	}
	return name
}

// StripName removes every character outside [A-Za-z0-9_-] and truncates
// the result to MaxNameLength. The result may be empty; /nick treats
// that as a usage error while join falls back to DefaultName.
func StripName(raw string) string {
	var b strings.Builder
	for _, r := range raw {
		if !isNameRune(r) {
			continue
		}
		b.WriteRune(r)
		if b.Len() == MaxNameLength {
			break
		}
	}
	return b.String()
}

// NameKey folds a display name for case-insensitive uniqueness checks.
func NameKey(name string) string {
	return strings.ToLower(name)
}

func isNameRune(r rune) bool {
	switch {
	case r >= 'a' && r <= 'z':
		return true
	case r >= 'A' && r <= 'Z':
		return true
	case r >= '0' && r <= '9':
		return true
	case r == '_' || r == '-':
		return true
	}
	return false
}
