package session

import (
	"fmt"
	"testing"
)

func TestStoreAppendAndMessages(t *testing.T) {
	store, err := NewStore(8)
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}

	store.Append("sess_1", Message{Role: "user", Content: "hello"})
	store.Append("sess_1", Message{Role: "assistant", Content: "hi there"})

	msgs, ok := store.Messages("sess_1", 0)
	if !ok {
		t.Fatal("session should exist")
	}
	if len(msgs) != 2 || msgs[0].Role != "user" || msgs[1].Role != "assistant" {
		t.Errorf("messages = %+v", msgs)
	}
	if msgs[0].Timestamp.IsZero() {
		t.Error("timestamp should default to now")
	}
}

func TestStoreMessagesLimit(t *testing.T) {
	store, _ := NewStore(8)
	for i := 0; i < 5; i++ {
		store.Append("sess_1", Message{Role: "user", Content: fmt.Sprintf("m%d", i)})
	}

	msgs, _ := store.Messages("sess_1", 3)
	if len(msgs) != 3 {
		t.Errorf("expected 3 messages, got %d", len(msgs))
	}
}

func TestStoreUnknownSession(t *testing.T) {
	store, _ := NewStore(8)
	if _, ok := store.Messages("missing", 0); ok {
		t.Error("unknown session should report not found")
	}
	if store.Clear("missing") {
		t.Error("clearing an unknown session should report false")
	}
}

func TestStoreClear(t *testing.T) {
	store, _ := NewStore(8)
	store.Append("sess_1", Message{Role: "user", Content: "hello"})

	if !store.Clear("sess_1") {
		t.Error("expected Clear to report the session existed")
	}
	if _, ok := store.Messages("sess_1", 0); ok {
		t.Error("session should be gone after Clear")
	}
}

func TestStoreEvictsLeastRecentlyUsed(t *testing.T) {
	store, _ := NewStore(2)
	store.Append("a", Message{Role: "user", Content: "1"})
	store.Append("b", Message{Role: "user", Content: "2"})
	store.Append("c", Message{Role: "user", Content: "3"})

	if store.Len() != 2 {
		t.Errorf("capacity not enforced: %d sessions", store.Len())
	}
	if _, ok := store.Messages("a", 0); ok {
		t.Error("oldest session should have been evicted")
	}
}

func TestStoreIgnoresEmptySessionID(t *testing.T) {
	store, _ := NewStore(8)
	store.Append("", Message{Role: "user", Content: "dropped"})
	if store.Len() != 0 {
		t.Error("empty session id must not create a transcript")
	}
}
