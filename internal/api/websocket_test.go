package api

import (
	"testing"

	"psi-arena/internal/game"
)

func testClient(h *Hub, id string) *Client {
	return &Client{hub: h, id: id, send: make(chan []byte, 4)}
}

func TestHubDispatch(t *testing.T) {
	h := NewHub()
	c1 := testClient(h, "c1")
	c2 := testClient(h, "c2")
	h.add(c1)
	h.add(c2)

	if got := h.SessionCount(); got != 2 {
		t.Fatalf("session count: got %d, want 2", got)
	}

	h.Broadcast(game.Envelope{T: "chat"})
	if len(c1.send) != 1 || len(c2.send) != 1 {
		t.Errorf("broadcast delivery: c1=%d c2=%d frames", len(c1.send), len(c2.send))
	}

	h.BroadcastExcept("c1", game.Envelope{T: "player-moved"})
	if len(c1.send) != 1 || len(c2.send) != 2 {
		t.Errorf("except delivery: c1=%d c2=%d frames", len(c1.send), len(c2.send))
	}

	h.SendTo("c2", game.Envelope{T: "welcome"})
	if len(c2.send) != 3 {
		t.Errorf("direct delivery: c2=%d frames", len(c2.send))
	}

	// Unknown recipients are ignored; the session may already be gone.
	h.SendTo("ghost", game.Envelope{T: "welcome"})

	h.remove(c1)
	if got := h.SessionCount(); got != 1 {
		t.Fatalf("session count after remove: got %d, want 1", got)
	}
	h.Broadcast(game.Envelope{T: "chat"})
	if len(c2.send) != 4 {
		t.Errorf("broadcast after remove: c2=%d frames", len(c2.send))
	}

	// Removing twice must not close the channel again.
	h.remove(c1)
}

func TestHubSlowConsumerDropsFrames(t *testing.T) {
	h := NewHub()
	c := &Client{hub: h, id: "slow", send: make(chan []byte, 1)}
	h.add(c)

	h.Broadcast(game.Envelope{T: "chat"})
	h.Broadcast(game.Envelope{T: "chat"}) // buffer full, dropped
	if len(c.send) != 1 {
		t.Errorf("slow consumer buffer: got %d frames, want 1", len(c.send))
	}
}
