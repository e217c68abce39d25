// Package notify owns host-side notification state: transient success toasts
// and persistent escalation cards. The shell renders this list; nothing here
// blocks the fix pipeline.
package notify

import (
	"sync"
	"time"

	"github.com/sketchforge/studio/backend/internal/shared/id"
)

// Kind distinguishes notification presentations.
type Kind string

const (
	// KindSuccess is a transient toast that auto-dismisses.
	KindSuccess Kind = "success"
	// KindEscalation is a dismissible, persistent card carrying the original
	// error and a one-click send-to-chat action.
	KindEscalation Kind = "escalation"
	// KindPrompt asks the user to confirm or decline an AI fix.
	KindPrompt Kind = "prompt"
)

// Notification is one entry in the shell's notification area.
type Notification struct {
	ID        string    `json:"id"`
	Kind      Kind      `json:"kind"`
	Message   string    `json:"message"`
	Error     string    `json:"error,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	// ExpiresAt is set for transient toasts; zero means persistent.
	ExpiresAt time.Time `json:"expires_at,omitempty"`
}

// Center accumulates notifications for the session.
type Center struct {
	mu         sync.Mutex
	items      []Notification
	successTTL time.Duration
}

// NewCenter creates a center whose success toasts auto-dismiss after ttl.
func NewCenter(successTTL time.Duration) *Center {
	if successTTL <= 0 {
		successTTL = 4 * time.Second
	}
	return &Center{successTTL: successTTL}
}

// Success posts a transient toast.
func (c *Center) Success(message string) Notification {
	now := time.Now()
	return c.add(Notification{
		ID:        id.New(),
		Kind:      KindSuccess,
		Message:   message,
		CreatedAt: now,
		ExpiresAt: now.Add(c.successTTL),
	})
}

// Escalation posts a persistent card holding the unresolved error text.
func (c *Center) Escalation(message, errorText string) Notification {
	return c.add(Notification{
		ID:        id.New(),
		Kind:      KindEscalation,
		Message:   message,
		Error:     errorText,
		CreatedAt: time.Now(),
	})
}

// Prompt posts the confirmation request for a pending AI fix.
func (c *Center) Prompt(errorText string) Notification {
	return c.add(Notification{
		ID:        id.New(),
		Kind:      KindPrompt,
		Message:   "Attempt an automatic fix for this error?",
		Error:     errorText,
		CreatedAt: time.Now(),
	})
}

func (c *Center) add(n Notification) Notification {
	c.mu.Lock()
	c.items = append(c.items, n)
	c.mu.Unlock()
	return n
}

// Dismiss removes a notification by ID.
func (c *Center) Dismiss(notificationID string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i, n := range c.items {
		if n.ID == notificationID {
			c.items = append(c.items[:i], c.items[i+1:]...)
			return true
		}
	}
	return false
}

// DismissPrompts removes all pending prompt cards (on confirm/decline).
func (c *Center) DismissPrompts() {
	c.mu.Lock()
	defer c.mu.Unlock()
	kept := c.items[:0]
	for _, n := range c.items {
		if n.Kind != KindPrompt {
			kept = append(kept, n)
		}
	}
	c.items = kept
}

// List returns live notifications, dropping expired toasts as a side effect.
func (c *Center) List() []Notification {
	now := time.Now()
	c.mu.Lock()
	defer c.mu.Unlock()

	kept := c.items[:0]
	for _, n := range c.items {
		if !n.ExpiresAt.IsZero() && now.After(n.ExpiresAt) {
			continue
		}
		kept = append(kept, n)
	}
	c.items = kept
	return append([]Notification{}, c.items...)
}
