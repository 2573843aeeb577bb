package ws

import (
	"encoding/json"
	"testing"
	"time"
)

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatalf("condition not met in time")
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestHub_NotifyUserOnlyReachesThatUser(t *testing.T) {
	h := NewHub(nil)
	go h.Run()
	defer h.Stop()

	a := &Client{hub: h, userID: 1, send: make(chan []byte, 4)}
	b := &Client{hub: h, userID: 2, send: make(chan []byte, 4)}
	h.Register(a)
	h.Register(b)
	waitFor(t, func() bool { return h.ClientCount(1) == 1 && h.ClientCount(2) == 1 })

	h.NotifyUser(1, map[string]any{"type": "overlay_changed", "jobId": 5})

	select {
	case msg := <-a.send:
		var got map[string]any
		if err := json.Unmarshal(msg, &got); err != nil {
			t.Fatalf("bad payload: %v", err)
		}
		if got["type"] != "overlay_changed" {
			t.Fatalf("unexpected payload %v", got)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("user 1 did not receive the event")
	}

	select {
	case msg := <-b.send:
		t.Fatalf("user 2 received %s", msg)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestHub_UnregisterClosesSend(t *testing.T) {
	h := NewHub(nil)
	go h.Run()
	defer h.Stop()

	c := &Client{hub: h, userID: 3, send: make(chan []byte, 1)}
	h.Register(c)
	waitFor(t, func() bool { return h.ClientCount(3) == 1 })

	h.Unregister(c)
	waitFor(t, func() bool { return h.ClientCount(3) == 0 })
	if _, ok := <-c.send; ok {
		t.Fatalf("expected send channel to be closed")
	}
}

func TestHub_NilIsSafe(t *testing.T) {
	var h *Hub
	h.NotifyUser(1, "x")
	h.Stop()
	if h.ClientCount(1) != 0 {
		t.Fatalf("expected 0")
	}
}
