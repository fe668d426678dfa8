package tree

import (
	"testing"

	"github.com/vodmarks/vodmarks/pkg/vodmarks/models"
)

func uintPtr(v uint) *uint {
	return &v
}

// fixtureFolders builds Root(1) > Gaming(2) > Clips(3), Root > Music(4)
func fixtureFolders() []models.Folder {
	return []models.Folder{
		{ID: 1, Name: "Root"},
		{ID: 2, Name: "Gaming", ParentID: uintPtr(1)},
		{ID: 3, Name: "Clips", ParentID: uintPtr(2)},
		{ID: 4, Name: "Music", ParentID: uintPtr(1)},
	}
}

func TestBuildCounts(t *testing.T) {
	counts := map[uint]int{1: 1, 2: 2, 3: 5, 4: 3}
	root, err := Build(fixtureFolders(), counts)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	if root.ID != 1 {
		t.Errorf("Expected root ID 1, got %d", root.ID)
	}
	if root.DirectCount != 1 {
		t.Errorf("Expected root direct count 1, got %d", root.DirectCount)
	}
	if root.Count != 11 {
		t.Errorf("Expected root aggregate count 11, got %d", root.Count)
	}

	// Every node's count must equal its direct count plus its children's counts
	var check func(n *Node)
	check = func(n *Node) {
		sum := n.DirectCount
		for _, child := range n.Children {
			check(child)
			sum += child.Count
		}
		if n.Count != sum {
			t.Errorf("Node %d: count %d != direct %d + children %d", n.ID, n.Count, n.DirectCount, sum-n.DirectCount)
		}
	}
	check(root)
}

func TestBuildLeafNode(t *testing.T) {
	root, err := Build(fixtureFolders(), map[uint]int{3: 7})
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	var clips *Node
	for _, child := range root.Children {
		for _, grandchild := range child.Children {
			if grandchild.ID == 3 {
				clips = grandchild
			}
		}
	}
	if clips == nil {
		t.Fatal("Expected to find folder 3 in the tree")
	}
	if len(clips.Children) != 0 {
		t.Errorf("Expected no children, got %d", len(clips.Children))
	}
	if clips.Children == nil {
		t.Error("Expected empty children slice, got nil")
	}
	if clips.Count != clips.DirectCount {
		t.Errorf("Leaf count %d != direct count %d", clips.Count, clips.DirectCount)
	}
}

func TestBuildMultipleRoots(t *testing.T) {
	folders := []models.Folder{
		{ID: 1, Name: "Root"},
		{ID: 2, Name: "Another Root"},
	}
	if _, err := Build(folders, nil); err != ErrMultipleRoots {
		t.Errorf("Expected ErrMultipleRoots, got %v", err)
	}
}

func TestBuildNoFolders(t *testing.T) {
	if _, err := Build(nil, nil); err == nil {
		t.Error("Expected error for empty folder set")
	}
}

func TestDescendantIDs(t *testing.T) {
	folders := fixtureFolders()

	got := DescendantIDs(folders, 1)
	if len(got) != 4 {
		t.Errorf("Expected 4 ids from root, got %d: %v", len(got), got)
	}

	got = DescendantIDs(folders, 2)
	want := map[uint]bool{2: true, 3: true}
	if len(got) != len(want) {
		t.Fatalf("Expected %d ids, got %d: %v", len(want), len(got), got)
	}
	for _, id := range got {
		if !want[id] {
			t.Errorf("Unexpected id %d in descendant set", id)
		}
	}
}

func TestDescendantIDsIncludesSelf(t *testing.T) {
	got := DescendantIDs(fixtureFolders(), 4)
	if len(got) != 1 || got[0] != 4 {
		t.Errorf("Expected [4], got %v", got)
	}
}

func TestDescendantIDsNoDuplicates(t *testing.T) {
	// Malformed input: a folder is its own parent. The walk must still
	// terminate and yield each id once.
	folders := []models.Folder{
		{ID: 1, Name: "Root"},
		{ID: 2, Name: "Loop", ParentID: uintPtr(2)},
	}
	got := DescendantIDs(folders, 2)
	if len(got) != 1 || got[0] != 2 {
		t.Errorf("Expected [2], got %v", got)
	}
}

func TestBreadcrumbChain(t *testing.T) {
	got := Breadcrumb(fixtureFolders(), 3)
	if got != "Root > Gaming > Clips" {
		t.Errorf("Expected 'Root > Gaming > Clips', got %q", got)
	}
}

func TestBreadcrumbRoot(t *testing.T) {
	got := Breadcrumb(fixtureFolders(), 1)
	if got != "Root" {
		t.Errorf("Expected 'Root', got %q", got)
	}
}

func TestBreadcrumbUnknownID(t *testing.T) {
	got := Breadcrumb(fixtureFolders(), 99)
	if got != "" {
		t.Errorf("Expected empty breadcrumb for unknown id, got %q", got)
	}
}

func TestBreadcrumbBrokenChain(t *testing.T) {
	folders := []models.Folder{
		{ID: 5, Name: "Orphan", ParentID: uintPtr(42)},
	}
	got := Breadcrumb(folders, 5)
	if got != "Orphan" {
		t.Errorf("Expected partial path 'Orphan', got %q", got)
	}
}

func TestFlatten(t *testing.T) {
	flat := Flatten(fixtureFolders())
	if len(flat) != 4 {
		t.Fatalf("Expected 4 entries, got %d", len(flat))
	}

	byID := make(map[uint]FlatFolder)
	for _, f := range flat {
		byID[f.ID] = f
	}
	if byID[3].Breadcrumb != "Root > Gaming > Clips" {
		t.Errorf("Expected breadcrumb 'Root > Gaming > Clips', got %q", byID[3].Breadcrumb)
	}
	if byID[1].Breadcrumb != "Root" {
		t.Errorf("Expected breadcrumb 'Root', got %q", byID[1].Breadcrumb)
	}
	if byID[4].Name != "Music" {
		t.Errorf("Expected name 'Music', got %q", byID[4].Name)
	}
}
