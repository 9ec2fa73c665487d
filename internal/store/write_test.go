package store

import (
	"context"
	"testing"
	"time"
)

func TestWriteRun_DuplicateID(t *testing.T) {
	s := openTestStore(t)
	mustWriteRun(t, s, testRun("run-1"))

	if err := s.WriteRun(context.Background(), testRun("run-1")); err == nil {
		t.Fatal("second WriteRun() with same id succeeded")
	}
}

func TestWriteEvent_Idempotent(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	mustWriteRun(t, s, testRun("run-1"))

	for i := 0; i < 2; i++ {
		if err := s.WriteEvent(ctx, "run-1", flipped(1, 3)); err != nil {
			t.Fatalf("WriteEvent() attempt %d failed: %v", i, err)
		}
	}

	var count int
	if err := s.db.QueryRow("SELECT COUNT(*) FROM events").Scan(&count); err != nil {
		t.Fatalf("count failed: %v", err)
	}
	if count != 1 {
		t.Errorf("events = %d, want 1", count)
	}
}

func TestWriteEvent_RequiresRun(t *testing.T) {
	s := openTestStore(t)

	if err := s.WriteEvent(context.Background(), "missing", flipped(1, 0)); err == nil {
		t.Fatal("WriteEvent() for unknown run succeeded")
	}
}

func TestWriteEvent_StoresColumns(t *testing.T) {
	s := openTestStore(t)
	mustWriteRun(t, s, testRun("run-1"))

	ev := flipped(7, 2)
	if err := s.WriteEvent(context.Background(), "run-1", ev); err != nil {
		t.Fatalf("WriteEvent() failed: %v", err)
	}

	var (
		kind     string
		session  string
		offsetUS int64
	)
	err := s.db.QueryRow("SELECT kind, session_id, offset_us FROM events WHERE seq = 7").Scan(&kind, &session, &offsetUS)
	if err != nil {
		t.Fatalf("select failed: %v", err)
	}
	if kind != "flipped" || session != "s-1" {
		t.Errorf("kind=%q session=%q", kind, session)
	}
	if got := time.Duration(offsetUS) * time.Microsecond; got != 700*time.Millisecond {
		t.Errorf("offset = %v, want 700ms", got)
	}
}
