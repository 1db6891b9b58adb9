package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_Broker_publishSubscribe(t *testing.T) {
	broker := NewBroker()
	sub := broker.Subscribe(EventAttendanceMarked)
	defer sub.Close()

	broker.Publish(EventAttendanceMarked, "sched-1")
	broker.Publish(EventNewsCreated, "ignored") // not subscribed

	evt := <-sub.C
	assert.Equal(t, EventAttendanceMarked, evt.Topic)
	assert.Equal(t, "sched-1", evt.Data)

	select {
	case evt := <-sub.C:
		t.Errorf("unexpected event %v", evt)
	default:
	}
}

func Test_Broker_multipleTopics(t *testing.T) {
	broker := NewBroker()
	sub := broker.Subscribe(EventAttendanceMarked, EventNewsCreated)
	defer sub.Close()

	broker.Publish(EventNewsCreated, 1)
	broker.Publish(EventAttendanceMarked, 2)

	assert.Equal(t, Event{Topic: EventNewsCreated, Data: 1}, <-sub.C)
	assert.Equal(t, Event{Topic: EventAttendanceMarked, Data: 2}, <-sub.C)
}

func Test_Broker_closeUnregisters(t *testing.T) {
	broker := NewBroker()
	sub := broker.Subscribe(EventAttendanceMarked)
	sub.Close()
	sub.Close() // idempotent

	broker.Publish(EventAttendanceMarked, "after close") // must not panic

	_, open := <-sub.C
	assert.False(t, open)

	broker.mu.RLock()
	defer broker.mu.RUnlock()
	assert.Empty(t, broker.subs)
}

func Test_Broker_slowSubscriberDrops(t *testing.T) {
	broker := NewBroker()
	sub := broker.Subscribe(EventAttendanceMarked)
	defer sub.Close()

	for i := 0; i < subscriptionBuffer+5; i++ {
		broker.Publish(EventAttendanceMarked, i) // must never block
	}
	assert.Len(t, sub.ch, subscriptionBuffer)
}
