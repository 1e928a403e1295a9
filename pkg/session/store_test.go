package session

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestMemoryStoreUpdateCreates(t *testing.T) {
	store := NewMemoryStore()
	defer store.Close()
	ctx := context.Background()

	s, err := store.Update(ctx, "abc", func(s *Session) error {
		s.MarkScam()
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}
	if !s.ScamDetected {
		t.Error("update not applied")
	}

	got, err := store.Get(ctx, "abc")
	if err != nil || got == nil {
		t.Fatalf("get: %v %v", got, err)
	}
	if !got.ScamDetected {
		t.Error("update not persisted")
	}
}

func TestMemoryStoreUpdateErrorRollsBack(t *testing.T) {
	store := NewMemoryStore()
	defer store.Close()
	ctx := context.Background()

	_, _ = store.Update(ctx, "abc", func(s *Session) error { return nil })
	_, err := store.Update(ctx, "abc", func(s *Session) error {
		s.MarkScam()
		return errors.New("boom")
	})
	if err == nil {
		t.Fatal("expected error")
	}
	got, _ := store.Get(ctx, "abc")
	if got.ScamDetected {
		t.Error("failed update mutated stored session")
	}
}

func TestMemoryStoreGetMissing(t *testing.T) {
	store := NewMemoryStore()
	defer store.Close()
	got, err := store.Get(context.Background(), "nope")
	if err != nil {
		t.Fatal(err)
	}
	if got != nil {
		t.Errorf("missing session = %+v, want nil", got)
	}
}

func TestMemoryStoreGetReturnsClone(t *testing.T) {
	store := NewMemoryStore()
	defer store.Close()
	ctx := context.Background()

	_, _ = store.Update(ctx, "abc", func(s *Session) error {
		s.AbsorbKeywords([]string{"otp"})
		return nil
	})
	got, _ := store.Get(ctx, "abc")
	got.AbsorbKeywords([]string{"kyc"})

	again, _ := store.Get(ctx, "abc")
	if len(again.AccumulatedKeywords) != 1 {
		t.Errorf("caller mutation leaked into store: %v", again.AccumulatedKeywords)
	}
}

func TestSweeperFinalizesIdleConfirmedSession(t *testing.T) {
	store := NewMemoryStore()
	defer store.Close()
	ctx := context.Background()

	_, _ = store.Update(ctx, "idle", func(s *Session) error {
		s.MarkScam()
		s.LastActivity = time.Now().Add(-10 * time.Minute)
		return nil
	})
	_, _ = store.Update(ctx, "fresh", func(s *Session) error {
		s.MarkScam()
		return nil
	})
	_, _ = store.Update(ctx, "benign-idle", func(s *Session) error {
		s.LastActivity = time.Now().Add(-10 * time.Minute)
		return nil
	})

	var finalized []string
	sweeper := NewSweeper(store, time.Hour, 5*time.Minute, time.Hour, func(s *Session) {
		finalized = append(finalized, s.ID)
	})
	sweeper.Sweep(ctx)

	if len(finalized) != 1 || finalized[0] != "idle" {
		t.Errorf("finalized = %v, want [idle]", finalized)
	}

	// A second sweep must not refire: the latch is set.
	sweeper.Sweep(ctx)
	if len(finalized) != 1 {
		t.Errorf("finalizer refired: %v", finalized)
	}
}

func TestSweeperDeletesExpiredSession(t *testing.T) {
	store := NewMemoryStore()
	defer store.Close()
	ctx := context.Background()

	_, _ = store.Update(ctx, "old", func(s *Session) error {
		s.LastActivity = time.Now().Add(-2 * time.Hour)
		return nil
	})
	_, _ = store.Update(ctx, "live", func(s *Session) error { return nil })

	sweeper := NewSweeper(store, time.Hour, 5*time.Minute, time.Hour, nil)
	sweeper.Sweep(ctx)

	if got, _ := store.Get(ctx, "old"); got != nil {
		t.Error("expired session survived sweep")
	}
	if got, _ := store.Get(ctx, "live"); got == nil {
		t.Error("live session deleted")
	}
}

func TestSweeperStartStop(t *testing.T) {
	store := NewMemoryStore()
	defer store.Close()

	sweeper := NewSweeper(store, 10*time.Millisecond, time.Minute, time.Hour, nil)
	sweeper.Start()
	time.Sleep(30 * time.Millisecond)
	sweeper.Stop()
}
