package memstore

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"supportbot/internal/domain"
)

func TestSessionStore_AppendHistory(t *testing.T) {
	ctx := context.Background()
	s := NewSessionStore()

	for i := 0; i < 5; i++ {
		turn := domain.Turn{Role: domain.RoleUser, Text: fmt.Sprintf("msg %d", i), CreatedAt: time.Now()}
		if err := s.Append(ctx, "s1", turn); err != nil {
			t.Fatal(err)
		}
	}

	all, err := s.History(ctx, "s1", 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 5 {
		t.Fatalf("expected 5 turns, got %d", len(all))
	}

	last, err := s.History(ctx, "s1", 2)
	if err != nil {
		t.Fatal(err)
	}
	if len(last) != 2 || last[0].Text != "msg 3" || last[1].Text != "msg 4" {
		t.Errorf("expected last two turns oldest first, got %+v", last)
	}
}

func TestSessionStore_UnknownSession(t *testing.T) {
	s := NewSessionStore()
	turns, err := s.History(context.Background(), "missing", 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(turns) != 0 {
		t.Errorf("expected empty history, got %d turns", len(turns))
	}
}

func TestSessionStore_HistoryIsACopy(t *testing.T) {
	ctx := context.Background()
	s := NewSessionStore()
	_ = s.Append(ctx, "s1", domain.Turn{Role: domain.RoleUser, Text: "hi"})

	turns, _ := s.History(ctx, "s1", 0)
	turns[0].Text = "changed"

	again, _ := s.History(ctx, "s1", 0)
	if again[0].Text != "hi" {
		t.Error("history must not alias the stored log")
	}
}

func TestSessionStore_Concurrent(t *testing.T) {
	ctx := context.Background()
	s := NewSessionStore()

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			id := fmt.Sprintf("s%d", i%3)
			_ = s.Append(ctx, id, domain.Turn{Role: domain.RoleUser, Text: "x"})
			_, _ = s.History(ctx, id, 5)
		}(i)
	}
	wg.Wait()

	if s.Sessions() != 3 {
		t.Errorf("expected 3 sessions, got %d", s.Sessions())
	}
}
