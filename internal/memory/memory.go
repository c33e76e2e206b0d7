// Package memory provides session-keyed chat history for the agent.
package memory

import (
	"sync"
	"time"
)

// Role identifies the author of a message.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message represents a single message in a chat session.
type Message struct {
	Role      string
	Content   string
	Timestamp time.Time
}

type session struct {
	messages  []Message
	updatedAt time.Time
}

// Store provides in-memory chat history keyed by session ID. Sessions expire
// after a TTL of inactivity and are capped at a fixed number of messages.
// For multi-instance deployments, replace with a shared store such as Redis.
type Store struct {
	mu          sync.RWMutex
	sessions    map[string]*session
	maxMessages int
	ttl         time.Duration
}

// NewStore creates a new session store and starts its expiry loop.
func NewStore(maxMessages int, ttl time.Duration) *Store {
	s := &Store{
		sessions:    make(map[string]*session),
		maxMessages: maxMessages,
		ttl:         ttl,
	}

	go s.expireLoop()

	return s
}

// DefaultStore creates a store holding the last 20 messages (10 turns) per
// session, expiring after one hour of inactivity.
func DefaultStore() *Store {
	return NewStore(20, time.Hour)
}

// Append adds a message to a session, creating the session on first use.
func (s *Store) Append(sessionID, role, content string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[sessionID]
	if !ok {
		sess = &session{}
		s.sessions[sessionID] = sess
	}

	sess.messages = append(sess.messages, Message{
		Role:      role,
		Content:   content,
		Timestamp: time.Now(),
	})
	sess.updatedAt = time.Now()

	if len(sess.messages) > s.maxMessages {
		sess.messages = sess.messages[len(sess.messages)-s.maxMessages:]
	}
}

// History returns a copy of a session's messages, or nil for an unknown session.
func (s *Store) History(sessionID string) []Message {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, ok := s.sessions[sessionID]
	if !ok {
		return nil
	}

	messages := make([]Message, len(sess.messages))
	copy(messages, sess.messages)
	return messages
}

// Clear removes a session.
func (s *Store) Clear(sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, sessionID)
}

func (s *Store) expireLoop() {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		s.expire()
	}
}

func (s *Store) expire() {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	for id, sess := range s.sessions {
		if now.Sub(sess.updatedAt) > s.ttl {
			delete(s.sessions, id)
		}
	}
}
