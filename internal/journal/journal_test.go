package journal

import (
	"context"
	"path/filepath"
	"testing"
	"time"
)

func TestRecordAndRecent(t *testing.T) {
	j, err := OpenMemory()
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer j.Close()
	ctx := context.Background()
	at := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	for i, kind := range []Kind{KindSession, KindAction, KindAction, KindDecay} {
		if _, err := j.Record(ctx, Event{Kind: kind, Detail: string(kind), Bond: 50 - i, At: at}); err != nil {
			t.Fatalf("record %d: %v", i, err)
		}
	}
	recent, err := j.Recent(ctx, 2)
	if err != nil {
		t.Fatalf("recent: %v", err)
	}
	if len(recent) != 2 {
		t.Fatalf("len = %d, want 2", len(recent))
	}
	if recent[0].Kind != KindDecay || recent[0].Bond != 47 {
		t.Fatalf("newest = %+v, want the decay event", recent[0])
	}
	if !recent[0].At.Equal(at) {
		t.Fatalf("at = %v, want %v", recent[0].At, at)
	}

	counts, err := j.Counts(ctx)
	if err != nil {
		t.Fatalf("counts: %v", err)
	}
	if counts[KindAction] != 2 || counts[KindSession] != 1 || counts[KindReward] != 0 {
		t.Fatalf("counts = %v", counts)
	}
}

func TestOpenFilePersists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pet", DefaultFile)
	j, err := Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if _, err := j.Record(context.Background(), Event{Kind: KindReward, Detail: "commit"}); err != nil {
		t.Fatalf("record: %v", err)
	}
	j.Close()

	j, err = Open(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer j.Close()
	recent, err := j.Recent(context.Background(), 10)
	if err != nil || len(recent) != 1 || recent[0].Detail != "commit" {
		t.Fatalf("recent = %+v, err = %v", recent, err)
	}
}

func TestNilJournalIsInert(t *testing.T) {
	var j *Journal
	if _, err := j.Record(context.Background(), Event{Kind: KindAction}); err != nil {
		t.Fatalf("nil record: %v", err)
	}
	if events, err := j.Recent(context.Background(), 5); err != nil || events != nil {
		t.Fatalf("nil recent = %v, %v", events, err)
	}
	if err := j.Close(); err != nil {
		t.Fatalf("nil close: %v", err)
	}
}
