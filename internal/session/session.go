// Package session tracks short-lived conversation state so follow-up
// messages like "link" or "formulario" can resolve against the last
// course the user asked about.
package session

import "context"

// Session holds the per-conversation context the bot remembers between
// messages.
type Session struct {
	// LastLink is the enrollment form URL most recently surfaced to
	// the user.
	LastLink string
	// LastCourse is the title of the course the conversation last
	// settled on.
	LastCourse string
}

// Store persists per-conversation sessions. Implementations must be
// safe for concurrent use.
type Store interface {
	// Get returns the session for the conversation. A conversation
	// that has never been seen yields a zero Session, not an error.
	Get(ctx context.Context, conversationID string) (Session, error)
	// SetLastLink records the most recent enrollment link.
	SetLastLink(ctx context.Context, conversationID, link string) error
	// SetLastCourse records the most recent course title.
	SetLastCourse(ctx context.Context, conversationID, title string) error
	// Close releases any underlying resources.
	Close() error
}
