package core

import "sync"

// Event topics published by the domain services.
const (
	EventAttendanceMarked = "attendance.marked"
	EventNewsCreated      = "news.created"
	EventScheduleCreated  = "schedule.created"
)

type (
	// Event is a notification published on a Broker.
	Event struct {
		Topic string
		Data  interface{}
	}

	// Subscription is a live registration on a Broker. Receive on C; call
	// Close exactly once when done, after which C is closed.
	Subscription struct {
		C <-chan Event

		broker *Broker
		ch     chan Event
		topics []string
		once   sync.Once
	}

	// Broker is an in-process publish-subscribe channel owned by the service
	// layer. Publishing never blocks: a subscriber that cannot keep up misses
	// events instead of stalling the publisher.
	Broker struct {
		mu   sync.RWMutex
		subs map[string]map[*Subscription]struct{} // topic -> subscriptions
	}
)

// subscriptionBuffer bounds how many undelivered events a subscriber may lag.
const subscriptionBuffer = 16

func NewBroker() *Broker {
	return &Broker{subs: make(map[string]map[*Subscription]struct{})}
}

// Subscribe registers interest in the given topics.
func (b *Broker) Subscribe(topics ...string) *Subscription {
	ch := make(chan Event, subscriptionBuffer)
	sub := &Subscription{C: ch, broker: b, ch: ch, topics: topics}

	b.mu.Lock()
	defer b.mu.Unlock()
	for _, topic := range topics {
		if b.subs[topic] == nil {
			b.subs[topic] = make(map[*Subscription]struct{})
		}
		b.subs[topic][sub] = struct{}{}
	}
	return sub
}

// Publish delivers the event to all current subscribers of topic.
func (b *Broker) Publish(topic string, data interface{}) {
	evt := Event{Topic: topic, Data: data}

	b.mu.RLock()
	defer b.mu.RUnlock()
	for sub := range b.subs[topic] {
		select {
		case sub.ch <- evt:
		default: // subscriber lagging; drop
		}
	}
}

// Close unregisters the subscription from all its topics and closes C.
func (sub *Subscription) Close() {
	sub.once.Do(func() {
		b := sub.broker
		b.mu.Lock()
		for _, topic := range sub.topics {
			delete(b.subs[topic], sub)
			if len(b.subs[topic]) == 0 {
				delete(b.subs, topic)
			}
		}
		b.mu.Unlock()
		close(sub.ch)
	})
}
