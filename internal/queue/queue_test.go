package queue

import (
	"fmt"
	"sync"
	"testing"
	"time"
)

func TestInMemoryQueueDeliversToSubscriber(t *testing.T) {
	q := NewInMemoryQueue()

	received := make(chan any, 1)
	if err := q.Subscribe(TopicImpressions, func(payload any) error {
		received <- payload
		return nil
	}); err != nil {
		t.Fatalf("subscribe failed: %v", err)
	}

	event := ImpressionEvent{ImpressionID: "i1", DeviceID: "d1", AdID: "a1", PlayedAt: time.Now()}
	if err := q.Publish(TopicImpressions, event); err != nil {
		t.Fatalf("publish failed: %v", err)
	}

	select {
	case got := <-received:
		if got.(ImpressionEvent).ImpressionID != "i1" {
			t.Errorf("wrong payload delivered: %+v", got)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("subscriber never received the event")
	}
}

func TestInMemoryQueuePublishWithoutSubscribersIsNotAnError(t *testing.T) {
	q := NewInMemoryQueue()
	if err := q.Publish(TopicImpressions, ImpressionEvent{ImpressionID: "i1"}); err != nil {
		t.Errorf("fire-and-forget publish should not fail: %v", err)
	}
}

func TestInMemoryQueueRetriesFailedHandler(t *testing.T) {
	q := NewInMemoryQueue()

	var mu sync.Mutex
	attempts := 0
	done := make(chan struct{})
	if err := q.Subscribe(TopicImpressions, func(payload any) error {
		mu.Lock()
		defer mu.Unlock()
		attempts++
		if attempts < 2 {
			return fmt.Errorf("transient failure")
		}
		close(done)
		return nil
	}); err != nil {
		t.Fatalf("subscribe failed: %v", err)
	}

	if err := q.Publish(TopicImpressions, ImpressionEvent{ImpressionID: "i1"}); err != nil {
		t.Fatalf("publish failed: %v", err)
	}

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("handler was not retried after a transient failure")
	}

	mu.Lock()
	defer mu.Unlock()
	if attempts != 2 {
		t.Errorf("expected 2 attempts, got %d", attempts)
	}
}
