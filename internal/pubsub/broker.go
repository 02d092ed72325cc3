package pubsub

import (
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
)

// feedHistorySize bounds how many events are replayed to a new subscriber.
const feedHistorySize = 100

// FeedEvent is one entry in a contest's live activity stream.
type FeedEvent struct {
	Event     string    `json:"event"` // contest_opened, photo_submitted, vote_cast, results_announced
	ContestID uint      `json:"contest_id"`
	PhotoID   uint      `json:"photo_id,omitempty"`
	UserID    string    `json:"user_id,omitempty"`
	At        time.Time `json:"at"`
}

// ContestFeedTopic names the activity topic for one contest.
func ContestFeedTopic(contestID uint) string {
	return fmt.Sprintf("contest:%d:feed", contestID)
}

// Broker is a simple in-memory pub/sub system for activity feeds.
type Broker struct {
	mu          sync.RWMutex
	subscribers map[string][]chan []byte
	history     map[string][][]byte
}

func NewBroker() *Broker {
	return &Broker{
		subscribers: make(map[string][]chan []byte),
		history:     make(map[string][][]byte),
	}
}

// Subscribe attaches to a topic. Recent history is replayed to the new
// subscriber before live messages; the returned func detaches and closes the
// channel.
func (b *Broker) Subscribe(topic string) (<-chan []byte, func()) {
	b.mu.Lock()

	ch := make(chan []byte, 128)
	replay := b.history[topic]
	go func() {
		for _, msg := range replay {
			ch <- msg
		}
	}()

	b.subscribers[topic] = append(b.subscribers[topic], ch)
	b.mu.Unlock()

	unsubscribe := func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		subs := b.subscribers[topic]
		for i, sub := range subs {
			if sub == ch {
				b.subscribers[topic] = append(subs[:i], subs[i+1:]...)
				close(ch)
				break
			}
		}
		zap.S().Debugf("unsubscribed from topic %s", topic)
	}

	zap.S().Debugf("new subscription to topic %s, replayed %d events", topic, len(replay))
	return ch, unsubscribe
}

// PublishEvent encodes ev and publishes it to the contest's feed topic.
func (b *Broker) PublishEvent(ev FeedEvent) {
	msg, err := json.Marshal(ev)
	if err != nil {
		zap.S().Warnf("failed to encode feed event: %v", err)
		return
	}
	b.publish(ContestFeedTopic(ev.ContestID), msg)
}

func (b *Broker) publish(topic string, msg []byte) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.history[topic] = append(b.history[topic], msg)
	if len(b.history[topic]) > feedHistorySize {
		b.history[topic] = b.history[topic][len(b.history[topic])-feedHistorySize:]
	}

	for _, ch := range b.subscribers[topic] {
		select {
		case ch <- msg:
		default:
			// a slow client must not block the publisher; drop for them
		}
	}
}

// CloseTopic closes all subscriber channels and drops history for a topic.
func (b *Broker) CloseTopic(topic string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if subs, ok := b.subscribers[topic]; ok {
		for _, ch := range subs {
			close(ch)
		}
		delete(b.subscribers, topic)
	}
	delete(b.history, topic)
}
