package pubsubtest

import (
	"testing"
	"time"
)

func TestSubscriberHoldStop(t *testing.T) {
	for i := 0; i < 200; i++ {
		sub := &TestSubscriber{RawMessages: [][]byte{[]byte("held")}, Hold: true}
		msgs := sub.Start()
		if msg := <-msgs; string(msg.Message()) != "held" {
			t.Fatalf("expected the held message, got %q", msg.Message())
		}
		if err := sub.Stop(); err != nil {
			t.Fatalf("Stop returned an unexpected error: %s", err)
		}

		select {
		case _, ok := <-msgs:
			if ok {
				t.Fatal("expected no messages after Stop")
			}
		case <-time.After(time.Second):
			t.Fatalf("run %d: channel not closed after Stop", i)
		}
	}
}

func TestSubscriberStopTwice(t *testing.T) {
	sub := &TestSubscriber{Hold: true}
	msgs := sub.Start()
	sub.Stop()
	sub.Stop()
	if _, ok := <-msgs; ok {
		t.Error("expected a closed channel")
	}
	if got := sub.Stopped(); got != 2 {
		t.Errorf("expected 2 stops counted, got %d", got)
	}
}
