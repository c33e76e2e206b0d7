package memory

import (
	"fmt"
	"testing"
	"time"
)

func TestStore_AppendAndHistory(t *testing.T) {
	store := NewStore(20, time.Hour)

	store.Append("s1", RoleUser, "hello")
	store.Append("s1", RoleAssistant, "hi there")
	store.Append("s2", RoleUser, "other session")

	history := store.History("s1")
	if len(history) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(history))
	}
	if history[0].Role != RoleUser || history[0].Content != "hello" {
		t.Errorf("unexpected first message: %+v", history[0])
	}
	if history[1].Role != RoleAssistant || history[1].Content != "hi there" {
		t.Errorf("unexpected second message: %+v", history[1])
	}

	if got := store.History("s2"); len(got) != 1 {
		t.Errorf("expected 1 message in s2, got %d", len(got))
	}
	if got := store.History("unknown"); got != nil {
		t.Errorf("expected nil history for unknown session, got %v", got)
	}
}

func TestStore_CapsMessages(t *testing.T) {
	store := NewStore(4, time.Hour)

	for i := 0; i < 10; i++ {
		store.Append("s1", RoleUser, fmt.Sprintf("message %d", i))
	}

	history := store.History("s1")
	if len(history) != 4 {
		t.Fatalf("expected 4 messages after cap, got %d", len(history))
	}
	// Oldest messages are evicted first.
	if history[0].Content != "message 6" || history[3].Content != "message 9" {
		t.Errorf("unexpected retained window: %q .. %q", history[0].Content, history[3].Content)
	}
}

func TestStore_Clear(t *testing.T) {
	store := NewStore(20, time.Hour)
	store.Append("s1", RoleUser, "hello")

	store.Clear("s1")

	if got := store.History("s1"); got != nil {
		t.Errorf("expected nil history after clear, got %v", got)
	}
}

func TestStore_HistoryReturnsCopy(t *testing.T) {
	store := NewStore(20, time.Hour)
	store.Append("s1", RoleUser, "original")

	history := store.History("s1")
	history[0].Content = "mutated"

	if got := store.History("s1"); got[0].Content != "original" {
		t.Error("history mutation leaked into the store")
	}
}

func TestStore_Expire(t *testing.T) {
	store := NewStore(20, time.Nanosecond)
	store.Append("s1", RoleUser, "hello")

	time.Sleep(time.Millisecond)
	store.expire()

	if got := store.History("s1"); got != nil {
		t.Errorf("expected session to expire, got %v", got)
	}
}
