package pubsubtest

import (
	"encoding/json"
	"sync"

	"github.com/davidcode/streamtap/pubsub"
)

type (
	// TestSubscriber is a simple implementation of pubsub.Subscriber meant to
	// help mock out any implementations.
	TestSubscriber struct {
		// RawMessages are emitted as-is, before any JSONMessages.
		RawMessages [][]byte

		// JSONMessages will be marshalled into []byte and used to mock out
		// a feed if it is populated.
		JSONMessages []interface{}

		// Hold keeps the channel open after the messages are emitted
		// until Stop is called.
		Hold bool

		// GivenErrError will be returned by the TestSubscriber on Err().
		// Good for testing error scenarios.
		GivenErrError error

		// GivenStopError will be returned by the TestSubscriber on Stop().
		// Good for testing error scenarios.
		GivenStopError error

		// FoundError will contain any errors encountered while marshalling
		// the JSON messages.
		FoundError error

		stopped int

		mu   sync.Mutex
		msgs chan pubsub.SubscriberMessage
		stop chan struct{}
	}

	// TestSubsMessage is the SubscriberMessage emitted by TestSubscriber.
	TestSubsMessage struct {
		Msg   []byte
		Doned bool
	}
)

var _ pubsub.Subscriber = &TestSubscriber{}

// Message returns the message body.
func (m *TestSubsMessage) Message() []byte {
	return m.Msg
}

// Done marks the message as done.
func (m *TestSubsMessage) Done() error {
	m.Doned = true
	return nil
}

// Start will populate and return the test channel for the subscriber.
func (t *TestSubscriber) Start() <-chan pubsub.SubscriberMessage {
	t.mu.Lock()
	defer t.mu.Unlock()
	var bodies [][]byte
	bodies = append(bodies, t.RawMessages...)
	for _, jmsg := range t.JSONMessages {
		msg, err := json.Marshal(jmsg)
		if err != nil {
			t.FoundError = err
			continue
		}
		bodies = append(bodies, msg)
	}

	t.msgs = make(chan pubsub.SubscriberMessage, len(bodies))
	for _, body := range bodies {
		t.msgs <- &TestSubsMessage{Msg: body}
	}
	if !t.Hold {
		close(t.msgs)
		return t.msgs
	}

	stop, msgs := make(chan struct{}), t.msgs
	t.stop = stop
	go func() {
		<-stop
		close(msgs)
	}()
	return msgs
}

// Err returns GivenErrError.
func (t *TestSubscriber) Err() error {
	return t.GivenErrError
}

// Stop will release a held channel and return GivenStopError.
func (t *TestSubscriber) Stop() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.stopped++
	if t.stop != nil {
		close(t.stop)
		t.stop = nil
	}
	return t.GivenStopError
}

// Stopped returns the number of calls to Stop.
func (t *TestSubscriber) Stopped() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.stopped
}
