/*
Package emitter publishes synthetic JSON records to a Kafka topic at a
fixed rate.

Every tick the emitter builds BatchSize records, each shaped like

    {"id": "1", "name": "example", "value": 250.0, "timestamp": 1700000000000}

hands them to a pubsub.AsyncPublisher without waiting for delivery, logs a
progress line and sleeps for Interval. Ids start at 1 for every run and
grow by one per record. Cancelling the context passed to Run stops the
loop, flushes what is still in flight and stops the publisher.
*/
package emitter
