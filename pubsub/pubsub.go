package pubsub

import (
	"context"

	"github.com/sirupsen/logrus"
)

// Log is the structured logger used throughout the package.
var Log = logrus.New()

// Publisher is a generic interface to encapsulate how we want our publishers
// to behave. Structured messages are emitted as JSON.
type Publisher interface {
	// Publish will JSON encode a message and publish it with context.
	Publish(context.Context, string, interface{}) error
	// PublishRaw will publish a raw byte array as a message with context.
	PublishRaw(context.Context, string, []byte) error
}

// AsyncPublisher is a Publisher that hands messages to a background
// producer. Publish returns once a message is queued, not once the
// broker has acknowledged it.
type AsyncPublisher interface {
	Publisher

	// Flush will block until every queued message has been acknowledged
	// or failed, or until the context is done.
	Flush(context.Context) error
	// Stop will release the underlying connection.
	Stop() error
}

// Subscriber is a generic interface to encapsulate how we want our subscribers
// to behave. For now the system will auto stop if it encounters any errors. If
// a user encounters a closed channel, they should check the Err() method to see
// what happened.
type Subscriber interface {
	// Start will return a channel of raw messages.
	Start() <-chan SubscriberMessage
	// Err will contain any errors returned from the consumer connection.
	Err() error
	// Stop will initiate a graceful shutdown of the subscriber connection.
	Stop() error
}

// SubscriberMessage is a struct to encapsulate subscriber messages and provide
// a mechanism for acknowledging messages _after_ they've been processed.
type SubscriberMessage interface {
	Message() []byte
	Done() error
}
