package dedup

import (
	"errors"
	"testing"

	"github.com/vodmarks/vodmarks/pkg/vodmarks/models"
)

func uintPtr(v uint) *uint {
	return &v
}

func TestNormalize(t *testing.T) {
	cases := map[string]string{
		"Gaming":    "gaming",
		"  Music  ": "music",
		"TV SHOWS":  "tv shows",
		"gaming":    "gaming",
	}
	for in, want := range cases {
		if got := Normalize(in); got != want {
			t.Errorf("Normalize(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestGroups(t *testing.T) {
	folders := []models.Folder{
		{ID: 1, Name: "Root"},
		{ID: 2, Name: "Gaming", ParentID: uintPtr(1)},
		{ID: 3, Name: "Music", ParentID: uintPtr(1)},
		{ID: 4, Name: "gaming ", ParentID: uintPtr(3)},
	}

	groups := Groups(folders, 2)
	if len(groups) != 1 {
		t.Fatalf("Expected 1 group, got %d", len(groups))
	}

	g := groups[0]
	if g.Key != "gaming" {
		t.Errorf("Expected key 'gaming', got %q", g.Key)
	}
	if g.DisplayName != "Gaming" {
		t.Errorf("Expected display name 'Gaming', got %q", g.DisplayName)
	}
	if len(g.FolderIDs) != 2 || g.FolderIDs[0] != 2 || g.FolderIDs[1] != 4 {
		t.Errorf("Expected member ids [2 4], got %v", g.FolderIDs)
	}
}

func TestGroupsExcludesRoot(t *testing.T) {
	// A child named like the root must not group with it.
	folders := []models.Folder{
		{ID: 1, Name: "Root"},
		{ID: 2, Name: "root", ParentID: uintPtr(1)},
	}
	if groups := Groups(folders, 2); len(groups) != 0 {
		t.Errorf("Expected no groups, got %v", groups)
	}
}

func TestGroupsThreshold(t *testing.T) {
	folders := []models.Folder{
		{ID: 1, Name: "Root"},
		{ID: 2, Name: "Gaming", ParentID: uintPtr(1)},
		{ID: 3, Name: "Gaming", ParentID: uintPtr(1)},
		{ID: 4, Name: "Gaming", ParentID: uintPtr(1)},
	}
	if groups := Groups(folders, 4); len(groups) != 0 {
		t.Errorf("Expected no groups at threshold 4, got %d", len(groups))
	}
	groups := Groups(folders, 3)
	if len(groups) != 1 || len(groups[0].FolderIDs) != 3 {
		t.Errorf("Expected one group with 3 members, got %v", groups)
	}
}

func TestGroupsOrderedByKey(t *testing.T) {
	folders := []models.Folder{
		{ID: 1, Name: "Root"},
		{ID: 2, Name: "zeta", ParentID: uintPtr(1)},
		{ID: 3, Name: "zeta", ParentID: uintPtr(1)},
		{ID: 4, Name: "alpha", ParentID: uintPtr(1)},
		{ID: 5, Name: "alpha", ParentID: uintPtr(1)},
	}
	groups := Groups(folders, 2)
	if len(groups) != 2 {
		t.Fatalf("Expected 2 groups, got %d", len(groups))
	}
	if groups[0].Key != "alpha" || groups[1].Key != "zeta" {
		t.Errorf("Expected keys [alpha zeta], got [%s %s]", groups[0].Key, groups[1].Key)
	}
}

func TestSummaries(t *testing.T) {
	folders := []models.Folder{
		{ID: 1, Name: "Root"},
		{ID: 2, Name: "Gaming", ParentID: uintPtr(1)},
		{ID: 3, Name: "gaming", ParentID: uintPtr(1)},
		{ID: 4, Name: "Music", ParentID: uintPtr(1)},
	}
	counts := map[uint]int64{2: 3, 3: 2}

	summaries, err := Summaries(folders, 2, func(folderIDs []uint) (int64, error) {
		var total int64
		for _, id := range folderIDs {
			total += counts[id]
		}
		return total, nil
	})
	if err != nil {
		t.Fatalf("Summaries returned error: %v", err)
	}
	if len(summaries) != 1 {
		t.Fatalf("Expected 1 summary, got %d", len(summaries))
	}
	s := summaries[0]
	if s.Key != "gaming" || s.Name != "Gaming" {
		t.Errorf("Expected key 'gaming' and name 'Gaming', got %q and %q", s.Key, s.Name)
	}
	if s.TotalBookmarks != 5 {
		t.Errorf("Expected 5 total bookmarks, got %d", s.TotalBookmarks)
	}
}

func TestSummariesCountError(t *testing.T) {
	folders := []models.Folder{
		{ID: 1, Name: "Root"},
		{ID: 2, Name: "Gaming", ParentID: uintPtr(1)},
		{ID: 3, Name: "Gaming", ParentID: uintPtr(1)},
	}
	wantErr := errors.New("count failed")
	if _, err := Summaries(folders, 2, func([]uint) (int64, error) {
		return 0, wantErr
	}); !errors.Is(err, wantErr) {
		t.Errorf("Expected count error to propagate, got %v", err)
	}
}

func TestFind(t *testing.T) {
	folders := []models.Folder{
		{ID: 1, Name: "Root"},
		{ID: 2, Name: "Gaming", ParentID: uintPtr(1)},
		{ID: 3, Name: "Gaming", ParentID: uintPtr(1)},
	}

	g, ok := Find(folders, "  GAMING ", 2)
	if !ok {
		t.Fatal("Expected to find group for 'gaming'")
	}
	if len(g.FolderIDs) != 2 {
		t.Errorf("Expected 2 members, got %d", len(g.FolderIDs))
	}

	if _, ok := Find(folders, "music", 2); ok {
		t.Error("Expected no group for unknown key")
	}
}
