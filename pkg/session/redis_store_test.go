package session

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newTestRedisStore(t *testing.T) *RedisStore {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	store := NewRedisStore(client, time.Hour)
	t.Cleanup(store.Close)
	return store
}

func TestRedisStoreRoundTrip(t *testing.T) {
	store := newTestRedisStore(t)
	ctx := context.Background()

	_, err := store.Update(ctx, "abc", func(s *Session) error {
		s.MarkScam()
		s.SetScamType("KYC_FRAUD")
		s.RaiseConfidence(0.9)
		s.Intelligence.UPIIDs = []string{"scammer@ybl"}
		s.RecordTurn()
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}

	got, err := store.Get(ctx, "abc")
	if err != nil {
		t.Fatal(err)
	}
	if got == nil {
		t.Fatal("session not persisted")
	}
	if !got.ScamDetected || got.ScamType != "KYC_FRAUD" || got.Confidence != 0.9 {
		t.Errorf("round trip lost state: %+v", got)
	}
	if len(got.Intelligence.UPIIDs) != 1 {
		t.Errorf("intelligence lost: %+v", got.Intelligence)
	}
	if got.TurnCount != 1 {
		t.Errorf("turn count = %d", got.TurnCount)
	}
}

func TestRedisStoreUpdateAccumulates(t *testing.T) {
	store := newTestRedisStore(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := store.Update(ctx, "abc", func(s *Session) error {
			s.RecordTurn()
			return nil
		})
		if err != nil {
			t.Fatal(err)
		}
	}
	got, _ := store.Get(ctx, "abc")
	if got.TurnCount != 3 {
		t.Errorf("turn count = %d, want 3", got.TurnCount)
	}
}

func TestRedisStoreGetMissing(t *testing.T) {
	store := newTestRedisStore(t)
	got, err := store.Get(context.Background(), "nope")
	if err != nil {
		t.Fatal(err)
	}
	if got != nil {
		t.Errorf("missing session = %+v", got)
	}
}

func TestRedisStoreDeleteAndIDs(t *testing.T) {
	store := newTestRedisStore(t)
	ctx := context.Background()

	for _, id := range []string{"a", "b", "c"} {
		_, _ = store.Update(ctx, id, func(s *Session) error { return nil })
	}
	ids, err := store.IDs(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(ids) != 3 {
		t.Errorf("ids = %v, want 3 entries", ids)
	}

	if err := store.Delete(ctx, "b"); err != nil {
		t.Fatal(err)
	}
	if got, _ := store.Get(ctx, "b"); got != nil {
		t.Error("deleted session still present")
	}
	ids, _ = store.IDs(ctx)
	if len(ids) != 2 {
		t.Errorf("ids after delete = %v", ids)
	}
}

func TestRedisStoreWorksWithSweeper(t *testing.T) {
	store := newTestRedisStore(t)
	ctx := context.Background()

	_, _ = store.Update(ctx, "idle", func(s *Session) error {
		s.MarkScam()
		s.LastActivity = time.Now().Add(-10 * time.Minute)
		return nil
	})

	var finalized int
	sweeper := NewSweeper(store, time.Hour, 5*time.Minute, time.Hour, func(*Session) {
		finalized++
	})
	sweeper.Sweep(ctx)
	if finalized != 1 {
		t.Errorf("finalized = %d, want 1", finalized)
	}
}
