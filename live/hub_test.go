package live

import (
	"context"
	"encoding/json"
	"testing"
	"time"
)

func startHub(t *testing.T) (*Hub, context.CancelFunc) {
	t.Helper()
	hub := NewHub()
	ctx, cancel := context.WithCancel(context.Background())
	stopped := make(chan struct{})
	go func() {
		hub.Run(ctx)
		close(stopped)
	}()
	t.Cleanup(func() {
		cancel()
		<-stopped
	})
	return hub, cancel
}

func waitForRoomSize(t *testing.T, hub *Hub, room string, want int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for hub.RoomSize(room) != want {
		if time.Now().After(deadline) {
			t.Fatalf("room %s size = %d, want %d", room, hub.RoomSize(room), want)
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func receive(t *testing.T, c *Client) Event {
	t.Helper()
	select {
	case data, ok := <-c.Send():
		if !ok {
			t.Fatal("send channel closed")
		}
		var ev Event
		if err := json.Unmarshal(data, &ev); err != nil {
			t.Fatalf("decode event: %v", err)
		}
		return ev
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for event")
	}
	return Event{}
}

func TestNotifyReachesOnlyTournamentRoom(t *testing.T) {
	t.Parallel()

	hub, _ := startHub(t)
	watching := NewClient(hub, nil, RoomForTournament(1))
	other := NewClient(hub, nil, RoomForTournament(2))
	hub.Register(watching)
	hub.Register(other)
	waitForRoomSize(t, hub, RoomForTournament(1), 1)
	waitForRoomSize(t, hub, RoomForTournament(2), 1)

	hub.Notify(1, EventGroupCreated, map[string]int{"group_id": 5})

	ev := receive(t, watching)
	if ev.Type != EventGroupCreated || ev.RoomID != "tournament_1" {
		t.Fatalf("event = %+v, want %s in tournament_1", ev, EventGroupCreated)
	}
	select {
	case data := <-other.Send():
		t.Fatalf("unexpected message in other room: %s", data)
	default:
	}
}

func TestUnregisterClosesClient(t *testing.T) {
	t.Parallel()

	hub, _ := startHub(t)
	c := NewClient(hub, nil, RoomForTournament(3))
	hub.Register(c)
	waitForRoomSize(t, hub, c.Room(), 1)

	hub.Unregister(c)
	waitForRoomSize(t, hub, c.Room(), 0)
	if _, ok := <-c.Send(); ok {
		t.Fatal("expected closed send channel")
	}

	// second unregister of the same client is a no-op
	hub.Unregister(c)
	hub.Notify(3, EventTournamentUpdated, nil)
}

func TestRunStopClosesClientsAndRejectsLateRegistrations(t *testing.T) {
	t.Parallel()

	hub := NewHub()
	ctx, cancel := context.WithCancel(context.Background())
	stopped := make(chan struct{})
	go func() {
		hub.Run(ctx)
		close(stopped)
	}()

	c := NewClient(hub, nil, RoomForTournament(4))
	hub.Register(c)
	waitForRoomSize(t, hub, c.Room(), 1)

	cancel()
	<-stopped
	if _, ok := <-c.Send(); ok {
		t.Fatal("expected client closed on shutdown")
	}

	late := NewClient(hub, nil, RoomForTournament(4))
	hub.Register(late)
	if _, ok := <-late.Send(); ok {
		t.Fatal("expected late client closed")
	}
	hub.Unregister(late)
}

func TestNopNotifier(t *testing.T) {
	t.Parallel()

	var n Notifier = NopNotifier{}
	n.Notify(1, EventTournamentDeleted, nil)
}
