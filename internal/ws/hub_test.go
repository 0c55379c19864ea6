package ws

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func receive(t *testing.T, ch <-chan []byte) []byte {
	t.Helper()
	select {
	case b, ok := <-ch:
		if !ok {
			t.Fatalf("expected message, got closed channel")
		}
		return b
	case <-time.After(2 * time.Second):
		t.Fatalf("expected message, got timeout")
	}
	return nil
}

func waitForClients(t *testing.T, h *Hub, n int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for h.ClientCount() != n {
		if time.Now().After(deadline) {
			t.Fatalf("expected %d clients, got %d", n, h.ClientCount())
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestHub_DeliversOnlyToOwner(t *testing.T) {
	h := NewHub(nil)
	go h.Run()
	defer h.Stop()

	alice, bob := uuid.New(), uuid.New()
	a := NewClient(h, nil, alice)
	b := NewClient(h, nil, bob)
	h.Register(a)
	h.Register(b)
	waitForClients(t, h, 2)

	h.NotifyProfileUpdated(alice, 81.5, "assessment")

	var evt ProfileUpdatedEvent
	if err := json.Unmarshal(receive(t, a.send), &evt); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if evt.Type != EventProfileUpdated || evt.UserID != alice.String() || evt.OverallScore != 81.5 || evt.Source != "assessment" {
		t.Fatalf("unexpected event %+v", evt)
	}
	select {
	case msg := <-b.send:
		t.Fatalf("expected nothing for bob, got %s", msg)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestHub_UnregisterClosesSend(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	h := NewHub(zap.New(core))
	go h.Run()
	defer h.Stop()

	c := NewClient(h, nil, uuid.New())
	h.Register(c)
	waitForClients(t, h, 1)
	h.Unregister(c)
	waitForClients(t, h, 0)

	if _, ok := <-c.send; ok {
		t.Fatalf("expected send channel closed")
	}
	if logs.FilterMessage("ws disconnected").Len() != 1 {
		t.Fatalf("expected disconnect log, got %v", logs.All())
	}
}

func TestHub_NilIsSafe(t *testing.T) {
	var h *Hub
	h.NotifyProfileUpdated(uuid.New(), 1, "x")
	h.Register(nil)
	if h.ClientCount() != 0 {
		t.Fatalf("expected 0 clients")
	}
}
