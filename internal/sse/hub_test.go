package sse

import (
  "testing"
  "github.com/google/uuid"
  "github.com/plumbline/plumbline-backend/internal/logger"
)

func newTestHub(t *testing.T) *SSEHub {
  t.Helper()
  log, err := logger.New("development")
  if err != nil {
    t.Fatalf("logger.New: %v", err)
  }
  return NewSSEHub(log)
}

func TestAddAndRemoveChannel(t *testing.T) {
  hub := newTestHub(t)
  client := hub.NewSSEClient(uuid.New())
  channel := ProjectChannel(uuid.New())

  hub.AddChannel(client, channel)
  if !client.Channels[channel] {
    t.Fatalf("client not marked subscribed to %s", channel)
  }
  if !hub.subscriptions[channel][client] {
    t.Fatalf("hub missing subscription for %s", channel)
  }

  // blank channels are ignored
  hub.AddChannel(client, "   ")
  if len(client.Channels) != 1 {
    t.Errorf("blank channel was registered, channels = %v", client.Channels)
  }

  hub.RemoveChannel(client, channel)
  if client.Channels[channel] {
    t.Errorf("client still subscribed to %s after removal", channel)
  }
  if _, ok := hub.subscriptions[channel]; ok {
    t.Errorf("empty channel %s not pruned from hub", channel)
  }
}

func TestRemoveClientClearsAllChannels(t *testing.T) {
  hub := newTestHub(t)
  client := hub.NewSSEClient(uuid.New())
  first := ProjectChannel(uuid.New())
  second := ProjectChannel(uuid.New())
  hub.AddChannel(client, first)
  hub.AddChannel(client, second)

  hub.RemoveClient(client)

  if len(client.Channels) != 0 {
    t.Errorf("client channels not cleared: %v", client.Channels)
  }
  if len(hub.subscriptions) != 0 {
    t.Errorf("hub subscriptions not pruned: %v", hub.subscriptions)
  }
}

func TestBroadcastTargetsOnlySubscribedClients(t *testing.T) {
  hub := newTestHub(t)
  projectChannel := ProjectChannel(uuid.New())
  otherChannel := ProjectChannel(uuid.New())

  subscribed := hub.NewSSEClient(uuid.New())
  other := hub.NewSSEClient(uuid.New())
  hub.AddChannel(subscribed, projectChannel)
  hub.AddChannel(other, otherChannel)

  hub.Broadcast(SSEMessage{Channel: projectChannel, Event: SSEEventBidsReconciled})

  select {
  case msg := <-subscribed.Outbound:
    if msg.Event != SSEEventBidsReconciled {
      t.Errorf("event = %s, want %s", msg.Event, SSEEventBidsReconciled)
    }
    if msg.Channel != projectChannel {
      t.Errorf("channel = %s, want %s", msg.Channel, projectChannel)
    }
  default:
    t.Fatal("subscribed client received nothing")
  }

  select {
  case msg := <-other.Outbound:
    t.Fatalf("unsubscribed client received %+v", msg)
  default:
  }

  // messages without a channel go nowhere
  hub.Broadcast(SSEMessage{Event: SSEEventCoverageRefreshed})
  select {
  case msg := <-subscribed.Outbound:
    t.Fatalf("channel-less broadcast delivered %+v", msg)
  default:
  }
}

func TestBroadcastDropsWhenOutboundFull(t *testing.T) {
  hub := newTestHub(t)
  channel := ProjectChannel(uuid.New())
  client := hub.NewSSEClient(uuid.New())
  hub.AddChannel(client, channel)

  capacity := cap(client.Outbound)
  for i := 0; i < capacity+3; i++ {
    hub.Broadcast(SSEMessage{Channel: channel, Event: SSEEventEstimateUpdated})
  }

  if got := len(client.Outbound); got != capacity {
    t.Fatalf("outbound length = %d, want buffer capacity %d", got, capacity)
  }
  // the hub must not block once the buffer is full
  hub.Broadcast(SSEMessage{Channel: channel, Event: SSEEventEstimateUpdated})
  if got := len(client.Outbound); got != capacity {
    t.Errorf("outbound length after extra broadcast = %d, want %d", got, capacity)
  }
}
