package pubsub

import (
	"encoding/json"
	"testing"
	"time"
)

func recvEvent(t *testing.T, ch <-chan []byte) FeedEvent {
	t.Helper()
	select {
	case msg, ok := <-ch:
		if !ok {
			t.Fatal("channel closed unexpectedly")
		}
		var ev FeedEvent
		if err := json.Unmarshal(msg, &ev); err != nil {
			t.Fatalf("failed to decode event: %v", err)
		}
		return ev
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for event")
	}
	return FeedEvent{}
}

func TestBrokerDeliversToSubscriber(t *testing.T) {
	broker := NewBroker()
	ch, unsubscribe := broker.Subscribe(ContestFeedTopic(1))
	defer unsubscribe()

	broker.PublishEvent(FeedEvent{Event: "vote_cast", ContestID: 1, PhotoID: 9, At: time.Now()})

	ev := recvEvent(t, ch)
	if ev.Event != "vote_cast" || ev.PhotoID != 9 {
		t.Errorf("unexpected event %+v", ev)
	}
}

func TestBrokerReplaysHistoryToLateSubscriber(t *testing.T) {
	broker := NewBroker()

	broker.PublishEvent(FeedEvent{Event: "contest_opened", ContestID: 2, At: time.Now()})
	broker.PublishEvent(FeedEvent{Event: "photo_submitted", ContestID: 2, PhotoID: 1, At: time.Now()})

	ch, unsubscribe := broker.Subscribe(ContestFeedTopic(2))
	defer unsubscribe()

	first := recvEvent(t, ch)
	second := recvEvent(t, ch)
	if first.Event != "contest_opened" || second.Event != "photo_submitted" {
		t.Errorf("replay out of order: got %s then %s", first.Event, second.Event)
	}
}

func TestBrokerIsolatesTopics(t *testing.T) {
	broker := NewBroker()
	ch, unsubscribe := broker.Subscribe(ContestFeedTopic(1))
	defer unsubscribe()

	broker.PublishEvent(FeedEvent{Event: "vote_cast", ContestID: 2, At: time.Now()})

	select {
	case msg := <-ch:
		t.Fatalf("received event for another contest: %s", msg)
	case <-time.After(50 * time.Millisecond):
	}
}
