package backlog

import (
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/Brightside-Labs/Compass/internal/store"
)

func item(id uuid.UUID, parentID *uuid.UUID, itemType store.ItemType, status store.ItemStatus, title string) *store.BacklogItem {
	return &store.BacklogItem{
		ID:       id,
		ParentID: parentID,
		Type:     itemType,
		Status:   status,
		Title:    title,
	}
}

func TestBuildThreeLevels(t *testing.T) {
	epicID := uuid.New()
	featureID := uuid.New()
	storyID := uuid.New()

	items := []*store.BacklogItem{
		item(storyID, &featureID, store.TypeStory, store.StatusBacklog, "S1"),
		item(epicID, nil, store.TypeEpic, store.StatusBacklog, "E1"),
		item(featureID, &epicID, store.TypeFeature, store.StatusBacklog, "F1"),
	}

	roots := Build(items)
	if len(roots) != 1 {
		t.Fatalf("expected 1 root, got %d", len(roots))
	}
	if roots[0].ID != epicID {
		t.Errorf("expected epic as root, got %s", roots[0].Title)
	}
	if len(roots[0].Children) != 1 || roots[0].Children[0].ID != featureID {
		t.Fatalf("expected feature under epic")
	}
	if len(roots[0].Children[0].Children) != 1 || roots[0].Children[0].Children[0].ID != storyID {
		t.Fatalf("expected story under feature")
	}
}

func TestBuildDanglingParentBecomesRoot(t *testing.T) {
	deleted := uuid.New()
	orphanID := uuid.New()

	items := []*store.BacklogItem{
		item(orphanID, &deleted, store.TypeStory, store.StatusBacklog, "orphan"),
	}

	roots := Build(items)
	if len(roots) != 1 {
		t.Fatalf("expected orphan promoted to root, got %d roots", len(roots))
	}
	if roots[0].ID != orphanID {
		t.Errorf("wrong root")
	}

	dangling := Dangling(items)
	if len(dangling) != 1 || dangling[0] != orphanID {
		t.Errorf("expected orphan flagged as dangling, got %v", dangling)
	}
}

func TestBuildNoDataLoss(t *testing.T) {
	var items []*store.BacklogItem
	epicID := uuid.New()
	items = append(items, item(epicID, nil, store.TypeEpic, store.StatusBacklog, "E"))
	for i := 0; i < 5; i++ {
		fid := uuid.New()
		items = append(items, item(fid, &epicID, store.TypeFeature, store.StatusBacklog, "F"))
		for j := 0; j < 3; j++ {
			items = append(items, item(uuid.New(), &fid, store.TypeStory, store.StatusBacklog, "S"))
		}
	}

	roots := Build(items)
	flat := Flatten(roots)
	if len(flat) != len(items) {
		t.Fatalf("forest walk lost items: %d in, %d out", len(items), len(flat))
	}
}

func TestBuildIdempotent(t *testing.T) {
	epicID := uuid.New()
	f1 := uuid.New()
	f2 := uuid.New()
	items := []*store.BacklogItem{
		item(epicID, nil, store.TypeEpic, store.StatusBacklog, "E"),
		item(f1, &epicID, store.TypeFeature, store.StatusBacklog, "F1"),
		item(f2, &epicID, store.TypeFeature, store.StatusBacklog, "F2"),
		item(uuid.New(), &f1, store.TypeStory, store.StatusBacklog, "S1"),
		item(uuid.New(), &f2, store.TypeStory, store.StatusBacklog, "S2"),
	}

	first := Build(items)
	second := Build(Flatten(first))

	if len(first) != len(second) {
		t.Fatalf("rebuild changed root count: %d vs %d", len(first), len(second))
	}
	if len(Flatten(first)) != len(Flatten(second)) {
		t.Fatalf("rebuild changed item count")
	}
	var shape func(items []*store.BacklogItem) map[uuid.UUID]int
	shape = func(items []*store.BacklogItem) map[uuid.UUID]int {
		m := make(map[uuid.UUID]int)
		for _, it := range Flatten(items) {
			m[it.ID] = len(it.Children)
		}
		return m
	}
	a, b := shape(first), shape(second)
	for id, n := range a {
		if b[id] != n {
			t.Errorf("item %s child count changed: %d vs %d", id, n, b[id])
		}
	}
}

func TestBuildRootInclusionExactlyOnce(t *testing.T) {
	missing := uuid.New()
	items := []*store.BacklogItem{
		item(uuid.New(), nil, store.TypeEpic, store.StatusBacklog, "root-a"),
		item(uuid.New(), &missing, store.TypeFeature, store.StatusBacklog, "root-b"),
	}

	roots := Build(items)
	seen := make(map[uuid.UUID]int)
	for _, r := range roots {
		seen[r.ID]++
	}
	for _, it := range items {
		if seen[it.ID] != 1 {
			t.Errorf("item %s appears %d times at top level, want 1", it.Title, seen[it.ID])
		}
	}
}

func TestCollapseDuplicatesNewerWins(t *testing.T) {
	parentID := uuid.New()
	older := item(uuid.New(), &parentID, store.TypeStory, store.StatusBacklog, "Same title")
	older.CreatedAt = time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	newer := item(uuid.New(), &parentID, store.TypeStory, store.StatusInProgress, "Same title")
	newer.CreatedAt = time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)

	out := CollapseDuplicates([]*store.BacklogItem{older, newer})
	if len(out) != 1 {
		t.Fatalf("expected duplicates collapsed to 1, got %d", len(out))
	}
	if out[0].ID != newer.ID {
		t.Errorf("expected newer item to win")
	}
}

func TestCollapseDuplicatesDistinctIdentityKept(t *testing.T) {
	p1 := uuid.New()
	p2 := uuid.New()
	items := []*store.BacklogItem{
		item(uuid.New(), &p1, store.TypeStory, store.StatusBacklog, "Title"),
		item(uuid.New(), &p2, store.TypeStory, store.StatusBacklog, "Title"),   // different parent
		item(uuid.New(), &p1, store.TypeFeature, store.StatusBacklog, "Title"), // different type
	}
	out := CollapseDuplicates(items)
	if len(out) != 3 {
		t.Fatalf("expected 3 distinct items kept, got %d", len(out))
	}
}
