package websocket

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"UniVideo.com/cmd/model"
	"UniVideo.com/pkg/mq"
	"github.com/stretchr/testify/require"
)

type fakeSender struct {
	msgs    [][]byte
	stalled bool
}

func (f *fakeSender) enqueue(msg []byte) bool {
	if f.stalled {
		return false
	}
	f.msgs = append(f.msgs, msg)
	return true
}

func TestHubRouting(t *testing.T) {
	hub := NewHub()
	alice, aliceTab, bob := &fakeSender{}, &fakeSender{}, &fakeSender{}
	hub.add(1, alice)
	hub.add(1, aliceTab)
	hub.add(2, bob)
	require.Equal(t, 2, hub.Online())

	uid := int64(1)
	require.NoError(t, hub.HandleNotificationEvent(context.Background(), &mq.NotificationEvent{NotificationID: 5, UserID: &uid, Title: "t"}))
	require.Len(t, alice.msgs, 1)
	require.Len(t, aliceTab.msgs, 1)
	require.Empty(t, bob.msgs)

	var got mq.NotificationEvent
	require.NoError(t, json.Unmarshal(alice.msgs[0], &got))
	require.Equal(t, int64(5), got.NotificationID)

	// 广播发给所有人
	require.NoError(t, hub.HandleNotificationEvent(context.Background(), &mq.NotificationEvent{NotificationID: 6}))
	require.Len(t, alice.msgs, 2)
	require.Len(t, bob.msgs, 1)

	hub.remove(1, alice)
	hub.remove(1, aliceTab)
	require.Equal(t, 1, hub.Online())
	require.Len(t, hub.targets(model.ToUser(1)), 0)
}

func TestStalledClientDoesNotBlockOthers(t *testing.T) {
	hub := NewHub()
	slow, fast := &fakeSender{stalled: true}, &fakeSender{}
	hub.add(1, slow)
	hub.add(2, fast)

	require.NoError(t, hub.HandleNotificationEvent(context.Background(), &mq.NotificationEvent{NotificationID: 7}))
	require.Empty(t, slow.msgs)
	require.Len(t, fast.msgs, 1)
}

func TestClientQueueNeverBlocks(t *testing.T) {
	cl := newWSClient(nil)
	for i := 0; i < sendQueueSize; i++ {
		require.True(t, cl.enqueue([]byte("m")))
	}

	done := make(chan bool, 1)
	go func() { done <- cl.enqueue([]byte("overflow")) }()
	select {
	case ok := <-done:
		require.False(t, ok)
	case <-time.After(time.Second):
		t.Fatal("enqueue blocked on a full queue")
	}

	cl.close()
	<-cl.out
	require.False(t, cl.enqueue([]byte("after close")))
}
