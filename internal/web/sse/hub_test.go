package sse

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcoot/reversigame-go/internal/model"
	"github.com/mcoot/reversigame-go/internal/testutil"
)

// startHub runs a hub for code until the test ends
func startHub(t *testing.T, code model.LobbyCode) *Hub {
	t.Helper()
	hub := NewHub(code, testutil.NopLogger())
	go hub.Run()
	t.Cleanup(hub.Close)
	return hub
}

// seat registers a watcher and waits until the hub counts it
func seat(t *testing.T, hub *Hub, playerID model.PlayerID) *Client {
	t.Helper()
	client := NewClient(hub, playerID)
	want := hub.ClientCount() + 1
	require.True(t, hub.Register(client))
	require.Eventually(t, func() bool { return hub.ClientCount() == want }, time.Second, time.Millisecond)
	return client
}

func TestFormatSSEMessage(t *testing.T) {
	tests := map[string]struct {
		event string
		data  string
		want  string
	}{
		"event json": {
			event: "turn_changed",
			data:  `{"type":"turn_changed","player_id":"bob"}`,
			want:  "event: turn_changed\ndata: {\"type\":\"turn_changed\",\"player_id\":\"bob\"}\n\n",
		},
		"board rows": {
			event: "board",
			data:  "...12...\n...21...",
			want:  "event: board\ndata: ...12...\ndata: ...21...\n\n",
		},
		"crlf rows": {
			event: "board",
			data:  "...12...\r\n...21...",
			want:  "event: board\ndata: ...12...\ndata: ...21...\n\n",
		},
		"no data": {
			event: "connected",
			want:  "event: connected\ndata: \n\n",
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tc.want, string(formatSSEMessage(tc.event, tc.data)))
		})
	}
}

func TestSplitLines(t *testing.T) {
	assert.Equal(t, []string{""}, splitLines(""))
	assert.Equal(t, []string{"........"}, splitLines("........\n"))
	assert.Equal(t, []string{"..1.....", "..2....."}, splitLines("..1.....\r\n..2.....\r\n"))
}

func TestHub_DeliversToEveryWatcher(t *testing.T) {
	hub := startHub(t, "ABC123")
	alice := seat(t, hub, "alice")
	bob := seat(t, hub, "bob")
	carol := seat(t, hub, "carol")

	hub.BroadcastEvent("piece_placed", `{"x":2,"y":4}`)

	for _, client := range []*Client{alice, bob, carol} {
		name, data := receive(t, client)
		assert.Equal(t, "piece_placed", name, client.playerID)
		assert.JSONEq(t, `{"x":2,"y":4}`, data)
	}
}

func TestHub_UnregisteredWatcherIsDropped(t *testing.T) {
	hub := startHub(t, "ABC123")
	client := seat(t, hub, "alice")

	hub.Unregister(client)

	assert.Eventually(t, func() bool { return hub.ClientCount() == 0 }, time.Second, time.Millisecond)
}

func TestHub_CloseDisconnectsWatchers(t *testing.T) {
	hub := startHub(t, "ABC123")
	client := seat(t, hub, "alice")

	hub.Close()
	hub.Close()

	select {
	case _, open := <-client.send:
		assert.False(t, open, "send channel should be closed")
	case <-time.After(time.Second):
		t.Fatal("send channel not closed")
	}
}

func TestHub_RegisterOnClosedHubReturns(t *testing.T) {
	hub := startHub(t, "ABC123")
	hub.Close()

	done := make(chan bool, 1)
	go func() {
		client := NewClient(hub, "alice")
		ok := hub.Register(client)
		hub.Unregister(client)
		done <- ok
	}()

	select {
	case ok := <-done:
		assert.False(t, ok)
	case <-time.After(time.Second):
		t.Fatal("Register blocked on a closed hub")
	}
}

func TestHubManager_OneHubPerLobby(t *testing.T) {
	manager := NewHubManager(testutil.NopLogger())
	defer manager.CloseAll()

	assert.Nil(t, manager.GetHub("ABC123"))

	first := manager.GetOrCreateHub("ABC123")
	require.NotNil(t, first)
	assert.Same(t, first, manager.GetOrCreateHub("ABC123"))
	assert.Same(t, first, manager.GetHub("ABC123"))
	assert.NotSame(t, first, manager.GetOrCreateHub("XYZ789"))

	manager.RemoveHub("ABC123")
	assert.Nil(t, manager.GetHub("ABC123"))
	manager.RemoveHub("NOHUB1")
}

func TestHubManager_CleanupKeepsWatchedLobbies(t *testing.T) {
	manager := NewHubManager(testutil.NopLogger())
	defer manager.CloseAll()

	manager.GetOrCreateHub("IDLE01")
	seat(t, manager.GetOrCreateHub("GAME01"), "alice")

	assert.Equal(t, 1, manager.CleanupEmptyHubs())
	assert.Nil(t, manager.GetHub("IDLE01"))
	assert.NotNil(t, manager.GetHub("GAME01"))
}

func TestHubManager_CloseAll(t *testing.T) {
	manager := NewHubManager(testutil.NopLogger())
	client := seat(t, manager.GetOrCreateHub("ABC123"), "alice")
	manager.GetOrCreateHub("XYZ789")

	manager.CloseAll()

	assert.Nil(t, manager.GetHub("ABC123"))
	assert.Nil(t, manager.GetHub("XYZ789"))
	assert.Eventually(t, func() bool {
		select {
		case _, open := <-client.send:
			return !open
		default:
			return false
		}
	}, time.Second, time.Millisecond)
}
