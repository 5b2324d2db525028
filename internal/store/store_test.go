package store

import (
	"sync"
	"testing"
)

type item struct {
	ID   int
	Name string
}

func TestMemoryAppendAssignsPositions(t *testing.T) {
	repo := NewMemory(item{ID: 1, Name: "seed"})
	created := repo.Append(func(next int) item { return item{ID: next, Name: "new"} })
	if created.ID != 2 {
		t.Fatalf("expected id 2, got %d", created.ID)
	}
	items := repo.List()
	if len(items) != 2 || items[1].Name != "new" {
		t.Fatalf("unexpected items: %#v", items)
	}
}

func TestMemoryListReturnsCopy(t *testing.T) {
	repo := NewMemory(item{ID: 1})
	items := repo.List()
	items[0].ID = 99
	if repo.List()[0].ID != 1 {
		t.Fatalf("list must not expose internal storage")
	}
}

func TestMemoryConcurrentAppend(t *testing.T) {
	repo := NewMemory[item]()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			repo.Append(func(next int) item { return item{ID: next} })
		}()
	}
	wg.Wait()

	if repo.Len() != 50 {
		t.Fatalf("expected 50 items, got %d", repo.Len())
	}
	seen := map[int]bool{}
	for _, it := range repo.List() {
		if seen[it.ID] {
			t.Fatalf("duplicate id %d", it.ID)
		}
		seen[it.ID] = true
	}
}
