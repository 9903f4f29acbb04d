/*
Package pubsub contains generic interfaces for publishing data to queues and subscribing and consuming data from those queues.

    // Publisher is a generic interface to encapsulate how we want our publishers
    // to behave. Structured messages are emitted as JSON.
    type Publisher interface {
        // Publish will publish a message.
        Publish(ctx context.Context, key string, msg interface{}) error
        // Publish will publish a []byte message.
        PublishRaw(ctx context.Context, key string, msg []byte) error
    }

    // AsyncPublisher queues messages and lets callers flush them on shutdown.
    type AsyncPublisher interface {
        Publisher
        Flush(ctx context.Context) error
        Stop() error
    }

    // Subscriber is a generic interface to encapsulate how we want our subscribers
    // to behave. For now the system will auto stop if it encounters any errors. If
    // a user encounters a closed channel, they should check the Err() method to see
    // what happened.
    type Subscriber interface {
        // Start will return a channel of raw messages
        Start() <-chan SubscriberMessage
        // Err will contain any errors returned from the consumer connection.
        Err() error
        // Stop will initiate a graceful shutdown of the subscriber connection
        Stop() error
    }

Where a `SubscriberMessage` is an interface that gives implementations a hook for acknowledging messages. Take a look at the docs for each implementation in `pubsub` to see how they behave.

For publishing to Kafka topics, you can use the `pubsub/kafka` package.

For consuming a shard of an Amazon Kinesis stream, you can use the `pubsub/aws` package.

Test doubles for both interfaces live in `pubsub/pubsubtest`.
*/
package pubsub // import "github.com/davidcode/streamtap/pubsub"
