package observe

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestEvents_EmitThenConsume(t *testing.T) {
	e := NewEvents[error]()

	want := errors.New("boom")
	e.Emit(want)

	select {
	case got := <-e.C():
		require.Equal(t, want, got)
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for event")
	}
}

func TestEvents_PendingEventWaitsForReceiver(t *testing.T) {
	e := NewEvents[error]()

	// Emitted with no receiver attached: delivered to the next receive.
	e.Emit(errors.New("early"))

	select {
	case got := <-e.C():
		require.EqualError(t, got, "early")
	case <-time.After(time.Second):
		t.Fatal("pending event was not delivered to late receiver")
	}
}

func TestEvents_ConsumedOnce(t *testing.T) {
	e := NewEvents[error]()
	e.Emit(errors.New("boom"))

	<-e.C()

	select {
	case got := <-e.C():
		t.Fatalf("event redelivered: %v", got)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestEvents_NewestWinsWhenPending(t *testing.T) {
	e := NewEvents[error]()

	e.Emit(errors.New("first"))
	e.Emit(errors.New("second"))

	got := <-e.C()
	require.EqualError(t, got, "second", "an unconsumed event is replaced by a newer one")

	select {
	case stale := <-e.C():
		t.Fatalf("stale event delivered: %v", stale)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestEvents_EmitAfterClose(t *testing.T) {
	e := NewEvents[error]()
	e.Close()
	e.Close() // idempotent

	// Must not panic on the closed channel.
	e.Emit(errors.New("dropped"))

	_, ok := <-e.C()
	require.False(t, ok, "channel should be closed with no event")
}

func TestEvents_PendingEventSurvivesClose(t *testing.T) {
	e := NewEvents[error]()
	e.Emit(errors.New("boom"))
	e.Close()

	got, ok := <-e.C()
	require.True(t, ok, "pending event should still be receivable after Close")
	require.EqualError(t, got, "boom")

	_, ok = <-e.C()
	require.False(t, ok)
}
