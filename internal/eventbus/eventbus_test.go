package eventbus

import "testing"

func TestBusPublishSubscribe(t *testing.T) {
	bus := New()
	sub := bus.Subscribe(1)
	bus.Publish("hello")
	if v := <-sub.C; v != "hello" {
		t.Fatalf("expected hello got %v", v)
	}
	sub.Cancel()
	if _, ok := <-sub.C; ok {
		t.Fatalf("expected channel closed after cancel")
	}
}

func TestBusSlowSubscriberDoesNotBlock(t *testing.T) {
	bus := New()
	sub := bus.Subscribe(1)
	bus.Publish(1)
	bus.Publish(2) // dropped, buffer full
	if v := <-sub.C; v != 1 {
		t.Fatalf("expected 1 got %v", v)
	}
	select {
	case v := <-sub.C:
		t.Fatalf("unexpected buffered event %v", v)
	default:
	}
}

func TestBusClose(t *testing.T) {
	bus := New()
	a := bus.Subscribe(1)
	b := bus.Subscribe(1)
	bus.Close()
	if _, ok := <-a.C; ok {
		t.Fatalf("expected a closed")
	}
	if _, ok := <-b.C; ok {
		t.Fatalf("expected b closed")
	}
	bus.Publish("late") // must not panic
}

func TestBusCancelAfterClose(t *testing.T) {
	bus := New()
	sub := bus.Subscribe(1)
	bus.Close()
	defer func() {
		if r := recover(); r != nil {
			t.Fatalf("panic on Cancel after Close: %v", r)
		}
	}()
	sub.Cancel()
}

func TestBusSubscribeAfterClose(t *testing.T) {
	bus := New()
	bus.Close()
	sub := bus.Subscribe(1)
	if _, ok := <-sub.C; ok {
		t.Fatalf("expected closed channel from closed bus")
	}
}
