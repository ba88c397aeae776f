package server

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

func TestActivityBusFanOut(t *testing.T) {
	bus := NewActivityBus()

	a := bus.Subscribe()
	b := bus.Subscribe()
	defer bus.Unsubscribe(a)
	defer bus.Unsubscribe(b)

	bus.Publish(ActivityEvent{Type: "navigate", Path: "/recommendations/rob"})

	for name, ch := range map[string]chan ActivityEvent{"a": a, "b": b} {
		select {
		case ev := <-ch:
			if ev.Type != "navigate" || ev.Path != "/recommendations/rob" {
				t.Errorf("%s: event = %+v", name, ev)
			}
		case <-time.After(time.Second):
			t.Fatalf("%s: no event received", name)
		}
	}
}

func TestActivityBusDropsForSlowSubscriber(t *testing.T) {
	bus := NewActivityBus()
	ch := bus.Subscribe()
	defer bus.Unsubscribe(ch)

	// Publishing past the buffer must not block.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 200; i++ {
			bus.Publish(ActivityEvent{Type: "resolve"})
		}
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Publish blocked on a slow subscriber")
	}
}

func TestActivityFeedWebSocket(t *testing.T) {
	s := newTestServer(t, testTable(t))
	s.config.CheckOrigin = func(r *http.Request) bool { return true }

	ts := httptest.NewServer(s.Handler())
	defer ts.Close()

	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + "/_ostinato/activity"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("dial error = %v", err)
	}
	defer conn.Close()

	// Give the subscriber a moment to register before navigating.
	time.Sleep(50 * time.Millisecond)

	resp, err := http.Get(ts.URL + "/recommendations/rob")
	if err != nil {
		t.Fatalf("GET error = %v", err)
	}
	resp.Body.Close()

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var ev ActivityEvent
	if err := conn.ReadJSON(&ev); err != nil {
		t.Fatalf("ReadJSON error = %v", err)
	}
	if ev.Type != "navigate" {
		t.Errorf("Type = %q, want %q", ev.Type, "navigate")
	}
	if ev.Path != "/recommendations/rob" {
		t.Errorf("Path = %q", ev.Path)
	}
	if ev.Route != "/recommendations/:userName/" {
		t.Errorf("Route = %q", ev.Route)
	}
	if ev.Status != http.StatusOK {
		t.Errorf("Status = %d", ev.Status)
	}
}
