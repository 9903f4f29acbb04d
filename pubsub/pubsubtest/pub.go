package pubsubtest

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/davidcode/streamtap/pubsub"
)

type (
	// TestPublisher is a simple implementation of pubsub.AsyncPublisher meant to
	// help mock out any implementations.
	TestPublisher struct {
		// Published will contain a list of all messages that have been published.
		Published []TestPublishMsg

		// GivenError will be returned by the TestPublisher on publish.
		// Good for testing error scenarios.
		GivenError error
		// GivenFlushError will be returned by Flush.
		GivenFlushError error
		// GivenStopError will be returned by Stop.
		GivenStopError error

		// FoundError will contain any errors encountered while marshalling
		// the JSON message.
		FoundError error

		// OnPublish, if set, is called with every published message.
		OnPublish func(TestPublishMsg)

		// Flushed and Stopped count calls to Flush and Stop.
		Flushed int
		Stopped int
		// PublishedAfterStop counts messages published once Stop was called.
		PublishedAfterStop int

		mu sync.Mutex
	}

	// TestPublishMsg is a message captured by TestPublisher.
	TestPublishMsg struct {
		Key  string
		Body []byte
	}
)

var _ pubsub.AsyncPublisher = &TestPublisher{}

// Publish will JSON encode the message and record it.
func (t *TestPublisher) Publish(ctx context.Context, key string, msg interface{}) error {
	data, err := json.Marshal(msg)
	t.mu.Lock()
	t.FoundError = err
	t.mu.Unlock()
	return t.PublishRaw(ctx, key, data)
}

// PublishRaw will record the message.
func (t *TestPublisher) PublishRaw(_ context.Context, key string, msg []byte) error {
	m := TestPublishMsg{key, msg}
	t.mu.Lock()
	t.Published = append(t.Published, m)
	if t.Stopped > 0 {
		t.PublishedAfterStop++
	}
	hook := t.OnPublish
	t.mu.Unlock()
	if hook != nil {
		hook(m)
	}
	return t.GivenError
}

// Flush will count the call and return GivenFlushError.
func (t *TestPublisher) Flush(context.Context) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.Flushed++
	return t.GivenFlushError
}

// Stop will count the call and return GivenStopError.
func (t *TestPublisher) Stop() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.Stopped++
	return t.GivenStopError
}

// Messages returns a copy of everything published so far.
func (t *TestPublisher) Messages() []TestPublishMsg {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]TestPublishMsg(nil), t.Published...)
}
