package webguard

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"
)

func TestChannelSinkDelivers(t *testing.T) {
	sink := NewChannelSink(4)

	sink.Emit(context.Background(), AuditEvent{EventType: auditEventAuthzSuccess})

	select {
	case event := <-sink.Events():
		if event.EventType != auditEventAuthzSuccess {
			t.Errorf("event type = %s", event.EventType)
		}
	default:
		t.Fatal("event not delivered")
	}
}

func TestChannelSinkRespectsContext(t *testing.T) {
	sink := NewChannelSink(1)
	sink.Emit(context.Background(), AuditEvent{})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	done := make(chan struct{})
	go func() {
		sink.Emit(ctx, AuditEvent{})
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Emit blocked on full channel with cancelled context")
	}
}

func TestJSONWriterSink(t *testing.T) {
	var buf bytes.Buffer
	sink := NewJSONWriterSink(&buf)

	sink.Emit(context.Background(), AuditEvent{
		EventType:     auditEventGuardRedirect,
		CorrelationID: "cid-1",
		Path:          "/profile",
	})

	line := strings.TrimSpace(buf.String())
	var decoded AuditEvent
	if err := json.Unmarshal([]byte(line), &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if decoded.EventType != auditEventGuardRedirect {
		t.Errorf("event type = %s", decoded.EventType)
	}
	if decoded.Path != "/profile" {
		t.Errorf("path = %s", decoded.Path)
	}
}

func TestDispatcherDisabled(t *testing.T) {
	d := newAuditDispatcher(AuditConfig{Enabled: false}, NoOpSink{})
	if d != nil {
		t.Fatal("disabled config produced a dispatcher")
	}
	// nil dispatcher methods are safe no-ops
	d.Emit(context.Background(), AuditEvent{})
	d.Close()
	if d.Dropped() != 0 {
		t.Error("nil dispatcher reports drops")
	}
}

func TestDispatcherDrainsOnClose(t *testing.T) {
	sink := NewChannelSink(64)
	d := newAuditDispatcher(AuditConfig{Enabled: true, BufferSize: 32, DropIfFull: false}, sink)

	for i := 0; i < 10; i++ {
		d.Emit(context.Background(), AuditEvent{EventType: auditEventAuthzSuccess})
	}
	d.Close()

	received := 0
	for {
		select {
		case <-sink.Events():
			received++
		default:
			if received != 10 {
				t.Fatalf("received %d events after close, want 10", received)
			}
			return
		}
	}
}

func TestDispatcherDropsWhenFull(t *testing.T) {
	// A sink that blocks forever forces the buffer to fill.
	blocked := make(chan struct{})
	sink := blockingSink{release: blocked}
	defer close(blocked)

	d := newAuditDispatcher(AuditConfig{Enabled: true, BufferSize: 1, DropIfFull: true}, sink)

	// First event is picked up by the goroutine and blocks in the sink,
	// second fills the buffer, the rest must be dropped.
	for i := 0; i < 10; i++ {
		d.Emit(context.Background(), AuditEvent{})
	}

	deadline := time.After(time.Second)
	for d.Dropped() == 0 {
		select {
		case <-deadline:
			t.Fatal("no events dropped with full buffer")
		default:
			time.Sleep(time.Millisecond)
		}
	}
}

type blockingSink struct {
	release chan struct{}
}

func (s blockingSink) Emit(ctx context.Context, event AuditEvent) {
	<-s.release
}

func TestAuditErrorCodeMapping(t *testing.T) {
	tests := []struct {
		err  error
		want AuditErrorCode
	}{
		{nil, ""},
		{ErrTokenInvalid, auditErrInvalidToken},
		{ErrTokenRevoked, auditErrTokenRevoked},
		{ErrInsufficientPrivileges, auditErrInsufficientPrivileges},
		{ErrAuthenticationRequired, auditErrAuthRequired},
		{ErrAuthThrottled, auditErrThrottled},
		{ErrInvalidRole, auditErrInvalidRole},
		{ErrRevocationUnavailable, auditErrUnavailable},
		{context.Canceled, auditErrInternal},
	}

	for _, tt := range tests {
		if got := auditErrorCode(tt.err); got != tt.want {
			t.Errorf("auditErrorCode(%v) = %q, want %q", tt.err, got, tt.want)
		}
	}
}
