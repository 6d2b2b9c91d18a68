package bus

import (
	"testing"
	"time"
)

const (
	TopicSequence = "sequence"
	TopicPhase    = "phase"
)

func expectPayload(t *testing.T, s *Subscription, want any) {
	t.Helper()
	select {
	case got := <-s.Channel():
		if got.Payload != want {
			t.Fatalf("payload = %v, want %v", got.Payload, want)
		}
	case <-time.After(100 * time.Millisecond):
		t.Fatalf("timeout waiting for %v", want)
	}
}

func expectNoMessage(t *testing.T, s *Subscription) {
	t.Helper()
	select {
	case got := <-s.Channel():
		t.Fatalf("unexpected message on %s: %v", got.Topic, got.Payload)
	default:
	}
}

func TestBasicPubSub(t *testing.T) {
	b := NewBus(4)
	conn := b.NewConnection("test")

	sub := conn.Subscribe(T(TopicSequence, TopicPhase))
	conn.Publish(conn.NewMessage(T(TopicSequence, TopicPhase), "red", false))

	expectPayload(t, sub, "red")
}

func TestRetainedMessage(t *testing.T) {
	b := NewBus(2)
	conn := b.NewConnection("test")

	conn.Publish(conn.NewMessage(T(TopicSequence, TopicPhase), "halted", true))

	sub := conn.Subscribe(T(TopicSequence, TopicPhase))
	expectPayload(t, sub, "halted")

	m, ok := b.Retained(T(TopicSequence, TopicPhase))
	if !ok || m.From != "test" {
		t.Fatalf("retained lookup = %v, %v", m, ok)
	}

	// Nil payload clears the retained value.
	conn.Publish(conn.NewMessage(T(TopicSequence, TopicPhase), nil, true))
	if _, ok := b.Retained(T(TopicSequence, TopicPhase)); ok {
		t.Fatal("retained message not cleared")
	}
}

func TestWildcards(t *testing.T) {
	b := NewBus(16)
	c := b.NewConnection("test")

	sPlus := c.Subscribe(T("motor", "+"))
	sHash := c.Subscribe(T("#"))
	sNo := c.Subscribe(T("indicator", "+"))

	c.Publish(c.NewMessage(T("motor", "drive"), "m1", false))

	expectPayload(t, sPlus, "m1")
	expectPayload(t, sHash, "m1")
	expectNoMessage(t, sNo)

	c.Publish(c.NewMessage(T("motor", "drive", "extra"), "m2", false))
	expectPayload(t, sHash, "m2")
	expectNoMessage(t, sPlus)
}

func TestMatch(t *testing.T) {
	for _, c := range []struct {
		pattern, topic Topic
		want           bool
	}{
		{T("a", "b"), T("a", "b"), true},
		{T("a", "+"), T("a", "b"), true},
		{T("a", "+"), T("a"), false},
		{T("a", "#"), T("a"), true},
		{T("a", "#"), T("a", "b", "c"), true},
		{T("a"), T("a", "b"), false},
		{T("+", "b"), T("x", "c"), false},
	} {
		if got := Match(c.pattern, c.topic); got != c.want {
			t.Fatalf("Match(%s, %s) = %v, want %v", c.pattern, c.topic, got, c.want)
		}
	}
}

func TestDropOldestWhenFull(t *testing.T) {
	b := NewBus(2)
	c := b.NewConnection("test")
	sub := c.Subscribe(T("x"))

	for _, p := range []string{"1", "2", "3"} {
		c.Publish(c.NewMessage(T("x"), p, false))
	}
	expectPayload(t, sub, "2")
	expectPayload(t, sub, "3")
	expectNoMessage(t, sub)
}

func TestUnsubscribeAndDisconnect(t *testing.T) {
	b := NewBus(4)
	c := b.NewConnection("test")
	s1 := c.Subscribe(T("x"))
	s2 := c.Subscribe(T("y"))

	s1.Unsubscribe()
	if _, ok := <-s1.Channel(); ok {
		t.Fatal("unsubscribed channel should be closed")
	}
	s1.Unsubscribe() // second call is a no-op

	c.Disconnect()
	if _, ok := <-s2.Channel(); ok {
		t.Fatal("disconnect should close remaining channels")
	}

	// Publishing after disconnect must not panic on closed channels.
	b.Publish(&Message{Topic: T("y"), Payload: "late"})

	var nilConn *Connection
	nilConn.Publish(&Message{Topic: T("y")})
}
