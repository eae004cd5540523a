package memory

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/mmynk/groupdir/internal/models"
	"github.com/mmynk/groupdir/internal/storage"
	"github.com/mmynk/groupdir/internal/storage/storagetest"
)

func TestMemoryStore(t *testing.T) {
	storagetest.Run(t, func(t *testing.T) storage.Store {
		return New()
	})
}

func TestConcurrentCreateGroup(t *testing.T) {
	store := New()
	ctx := context.Background()

	const workers = 8
	const perWorker = 50

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < perWorker; i++ {
				if _, err := store.CreateGroup(ctx, models.GroupInput{
					GroupName:    "Concurrent",
					Category:     "Technology",
					WhatsAppLink: "https://chat.whatsapp.com/concurrent",
				}); err != nil {
					t.Errorf("CreateGroup failed: %v", err)
				}
			}
		}()
	}
	wg.Wait()

	groups, err := store.GetAllGroups(ctx)
	if err != nil {
		t.Fatalf("GetAllGroups failed: %v", err)
	}
	if len(groups) != workers*perWorker {
		t.Fatalf("got %d groups, want %d", len(groups), workers*perWorker)
	}

	seen := make(map[int64]bool)
	for i, g := range groups {
		if seen[g.ID] {
			t.Fatalf("duplicate ID %d", g.ID)
		}
		seen[g.ID] = true
		if i > 0 {
			prev := groups[i-1]
			if g.ID <= prev.ID {
				t.Errorf("IDs not increasing in insertion order: %d after %d", g.ID, prev.ID)
			}
			if g.CreatedAt.Before(prev.CreatedAt) {
				t.Errorf("CreatedAt decreased: group %d before group %d", g.ID, prev.ID)
			}
		}
	}
}

func TestCreatedAtNeverDecreases(t *testing.T) {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	stamps := []time.Time{base.Add(time.Minute), base, base.Add(2 * time.Minute)}
	i := 0
	store := New(WithClock(func() time.Time {
		stamp := stamps[i]
		i++
		return stamp
	}))

	ctx := context.Background()
	var created []*models.Group
	for range stamps {
		g, err := store.CreateGroup(ctx, models.GroupInput{
			GroupName:    "Clocked",
			Category:     "Travel",
			WhatsAppLink: "https://chat.whatsapp.com/clocked",
		})
		if err != nil {
			t.Fatalf("CreateGroup failed: %v", err)
		}
		created = append(created, g)
	}

	if !created[1].CreatedAt.Equal(created[0].CreatedAt) {
		t.Errorf("clock step back not clamped: got %v, want %v", created[1].CreatedAt, created[0].CreatedAt)
	}

	recent, err := store.GetRecentGroups(ctx, 3)
	if err != nil {
		t.Fatalf("GetRecentGroups failed: %v", err)
	}
	wantIDs := []int64{3, 2, 1}
	for i, g := range recent {
		if g.ID != wantIDs[i] {
			t.Errorf("position %d: got ID %d, want %d", i, g.ID, wantIDs[i])
		}
	}
}

func TestReturnedGroupsAreCopies(t *testing.T) {
	store := New()
	ctx := context.Background()

	g, err := store.CreateGroup(ctx, models.GroupInput{
		GroupName:    "Original",
		Category:     "Food",
		WhatsAppLink: "https://chat.whatsapp.com/original",
	})
	if err != nil {
		t.Fatalf("CreateGroup failed: %v", err)
	}
	g.GroupName = "Mutated"

	stored, _ := store.GetGroupByID(ctx, g.ID)
	if stored.GroupName != "Original" {
		t.Errorf("store state changed through returned pointer: %q", stored.GroupName)
	}
}
