package store

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/roach88/pairs/internal/game"
	"github.com/roach88/pairs/internal/preset"
)

func TestReadRun_RoundTrip(t *testing.T) {
	s := openTestStore(t)
	want := testRun("run-1")
	mustWriteRun(t, s, want)

	got, err := s.ReadRun(context.Background(), "run-1")
	if err != nil {
		t.Fatalf("ReadRun() failed: %v", err)
	}
	if !got.StartedAt.Equal(want.StartedAt) {
		t.Errorf("StartedAt = %v, want %v", got.StartedAt, want.StartedAt)
	}
	got.StartedAt = want.StartedAt
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ReadRun() = %+v, want %+v", got, want)
	}
}

func TestReadRun_NotFound(t *testing.T) {
	s := openTestStore(t)

	_, err := s.ReadRun(context.Background(), "nope")
	if !errors.Is(err, ErrRunNotFound) {
		t.Fatalf("ReadRun() error = %v, want ErrRunNotFound", err)
	}
}

func TestListRuns_Ordered(t *testing.T) {
	s := openTestStore(t)

	later := testRun("b-later")
	later.StartedAt = later.StartedAt.Add(time.Hour)
	mustWriteRun(t, s, later)
	mustWriteRun(t, s, testRun("a-earlier"))

	runs, err := s.ListRuns(context.Background())
	if err != nil {
		t.Fatalf("ListRuns() failed: %v", err)
	}
	if len(runs) != 2 || runs[0].ID != "a-earlier" || runs[1].ID != "b-later" {
		t.Errorf("ListRuns() order = %+v", runs)
	}
}

func TestReadEvents_SeqOrderAndPayload(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	mustWriteRun(t, s, testRun("run-1"))

	dealt := game.Event{
		Kind:      game.EventDealt,
		Seq:       1,
		SessionID: "s-1",
		Preset:    "easy",
		Layout:    []preset.ImageID{"a", "b", "a", "b"},
	}
	mismatch := game.Event{
		Kind:      game.EventMismatched,
		Seq:       4,
		Offset:    1200 * time.Millisecond,
		SessionID: "s-1",
		Preset:    "easy",
		Cards:     []int{0, 1},
		Images:    []preset.ImageID{"a", "b"},
		Attempts:  1,
	}

	// Written out of order on purpose.
	for _, ev := range []game.Event{mismatch, flipped(3, 1), dealt, flipped(2, 0)} {
		if err := s.WriteEvent(ctx, "run-1", ev); err != nil {
			t.Fatalf("WriteEvent() failed: %v", err)
		}
	}

	events, err := s.ReadEvents(ctx, "run-1")
	if err != nil {
		t.Fatalf("ReadEvents() failed: %v", err)
	}
	if len(events) != 4 {
		t.Fatalf("len(events) = %d, want 4", len(events))
	}
	for i, ev := range events {
		if ev.Seq != int64(i+1) {
			t.Errorf("events[%d].Seq = %d", i, ev.Seq)
		}
	}
	if !reflect.DeepEqual(events[0], dealt) {
		t.Errorf("dealt = %+v, want %+v", events[0], dealt)
	}
	if !reflect.DeepEqual(events[3], mismatch) {
		t.Errorf("mismatch = %+v, want %+v", events[3], mismatch)
	}
}

func TestReadEvents_EmptyRun(t *testing.T) {
	s := openTestStore(t)

	events, err := s.ReadEvents(context.Background(), "nothing")
	if err != nil {
		t.Fatalf("ReadEvents() failed: %v", err)
	}
	if len(events) != 0 {
		t.Errorf("len(events) = %d, want 0", len(events))
	}
}
