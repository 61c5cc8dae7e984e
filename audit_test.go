package authcore

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"
	"time"
)

func TestEngineEmitsAuditEvents(t *testing.T) {
	sink := NewChannelSink(16)
	cfg := testConfig(t)
	cfg.Audit.Enabled = true

	users := newMockUsers(seedUser(t, "u1", "alice", "alice@example.com", "adf#jf3@#FD!"))
	module, err := New().
		WithConfig(cfg).
		WithUserModel(users).
		WithAuditSink(sink).
		Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	defer module.Engine().Close()

	ctx := WithClientIP(context.Background(), "203.0.113.9")
	if _, err := module.Engine().Login(ctx, "alice", "adf#jf3@#FD!"); err != nil {
		t.Fatalf("Login failed: %v", err)
	}

	select {
	case event := <-sink.Events():
		if event.EventType != "login" {
			t.Errorf("event type = %q, want login", event.EventType)
		}
		if !event.Success {
			t.Error("expected a success event")
		}
		if event.UserID != "u1" {
			t.Errorf("user id = %q, want u1", event.UserID)
		}
		if event.IP != "203.0.113.9" {
			t.Errorf("ip = %q", event.IP)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("no audit event received")
	}
}

func TestFailedLoginAuditOmitsUserID(t *testing.T) {
	sink := NewChannelSink(16)
	cfg := testConfig(t)
	cfg.Audit.Enabled = true

	module, err := New().
		WithConfig(cfg).
		WithUserModel(newMockUsers()).
		WithAuditSink(sink).
		Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	defer module.Engine().Close()

	if _, err := module.Engine().Login(context.Background(), "ghost", "adf#jf3@#FD!"); err == nil {
		t.Fatal("expected login to fail")
	}

	select {
	case event := <-sink.Events():
		if event.Success {
			t.Error("expected a failure event")
		}
		if event.UserID != "" {
			t.Errorf("unknown user must not resolve to a user id, got %q", event.UserID)
		}
		if event.Error != "Unauthorized" {
			t.Errorf("event error = %q", event.Error)
		}
		if event.Metadata["username"] != "ghost" {
			t.Errorf("metadata username = %q", event.Metadata["username"])
		}
	case <-time.After(2 * time.Second):
		t.Fatal("no audit event received")
	}
}

func TestAuditDisabledEmitsNothing(t *testing.T) {
	sink := NewChannelSink(16)
	users := newMockUsers(seedUser(t, "u1", "alice", "alice@example.com", "adf#jf3@#FD!"))

	module, err := New().
		WithConfig(testConfig(t)).
		WithUserModel(users).
		WithAuditSink(sink).
		Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	if _, err := module.Engine().Login(context.Background(), "alice", "adf#jf3@#FD!"); err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	module.Engine().Close()

	select {
	case event := <-sink.Events():
		t.Fatalf("unexpected audit event %+v with audit disabled", event)
	default:
	}
}

func TestJSONWriterSinkWritesOneLinePerEvent(t *testing.T) {
	var buf bytes.Buffer
	sink := NewJSONWriterSink(&buf)

	sink.Emit(context.Background(), AuditEvent{EventType: "login", Success: true})
	sink.Emit(context.Background(), AuditEvent{EventType: "revoke", Success: true})

	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	if len(lines) != 2 {
		t.Fatalf("got %d lines, want 2", len(lines))
	}
	var event AuditEvent
	if err := json.Unmarshal(lines[0], &event); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if event.EventType != "login" {
		t.Errorf("event type = %q", event.EventType)
	}
}

func TestDispatcherDropsUnderBackPressure(t *testing.T) {
	block := make(chan struct{})
	sink := &blockingSink{release: block}

	d := newAuditDispatcher(AuditConfig{Enabled: true, BufferSize: 1, DropIfFull: true}, sink)
	defer func() {
		close(block)
		d.Close()
	}()

	// First event occupies the worker, the next fills the buffer, the rest
	// must be dropped rather than block the caller.
	for i := 0; i < 8; i++ {
		d.Emit(context.Background(), AuditEvent{EventType: "login"})
	}

	if d.Dropped() == 0 {
		t.Error("expected dropped events under back-pressure")
	}
}

type blockingSink struct {
	release chan struct{}
}

func (s *blockingSink) Emit(context.Context, AuditEvent) {
	<-s.release
}
