// Package tree builds derived views over the flat folder table: the nested
// folder tree with aggregate counts, subtree id sets, and breadcrumb paths.
// Everything here is a pure function of a folder snapshot; nothing is cached
// between calls.
package tree

import (
	"errors"
	"strings"

	"github.com/vodmarks/vodmarks/pkg/vodmarks/models"
)

// BreadcrumbSeparator joins folder names in rendered paths.
const BreadcrumbSeparator = " > "

// ErrMultipleRoots is returned by Build when more than one folder has no
// parent. Creation always requires a parent, so this indicates a corrupted
// folder table rather than a caller mistake.
var ErrMultipleRoots = errors.New("tree: more than one parentless folder")

// Node is a folder with its children materialized.
type Node struct {
	ID       uint    `json:"id"`
	Name     string  `json:"name"`
	ParentID *uint   `json:"parent_id"`
	Children []*Node `json:"children"`
	// DirectCount is the number of bookmarks attached to this folder itself.
	DirectCount int `json:"direct_count"`
	// Count is DirectCount plus the Counts of all descendants.
	Count int `json:"count"`
}

// FlatFolder is a folder with its rendered breadcrumb, for UI pickers.
type FlatFolder struct {
	ID         uint   `json:"id"`
	Name       string `json:"name"`
	Breadcrumb string `json:"breadcrumb"`
}

// Build constructs the nested tree from a folder snapshot and per-folder
// direct bookmark counts. The returned node is the root. Counts are
// accumulated bottom-up, so node.Count == node.DirectCount + sum of child
// Counts for every node.
func Build(folders []models.Folder, directCounts map[uint]int) (*Node, error) {
	byParent := make(map[uint][]*Node)
	var roots []*Node
	for i := range folders {
		f := &folders[i]
		n := &Node{
			ID:          f.ID,
			Name:        f.Name,
			ParentID:    f.ParentID,
			Children:    []*Node{},
			DirectCount: directCounts[f.ID],
		}
		if f.ParentID == nil {
			roots = append(roots, n)
		} else {
			byParent[*f.ParentID] = append(byParent[*f.ParentID], n)
		}
	}

	if len(roots) == 0 {
		return nil, errors.New("tree: no root folder")
	}
	if len(roots) > 1 {
		return nil, ErrMultipleRoots
	}

	root := roots[0]
	// Post-order: counts accumulate as children are materialized, so each
	// node is visited once. Recursion depth is bounded by tree depth.
	var build func(n *Node)
	build = func(n *Node) {
		if kids, ok := byParent[n.ID]; ok {
			n.Children = kids
		}
		n.Count = n.DirectCount
		for _, child := range n.Children {
			build(child)
			n.Count += child.Count
		}
	}
	build(root)
	return root, nil
}

// DescendantIDs returns the ids of the folder itself and every folder
// transitively below it, in no particular order. Unknown ids yield just the
// id itself, matching the "folder with no children" case; callers that need
// a not-found error must check existence first.
func DescendantIDs(folders []models.Folder, id uint) []uint {
	children := make(map[uint][]uint)
	for _, f := range folders {
		if f.ParentID != nil {
			children[*f.ParentID] = append(children[*f.ParentID], f.ID)
		}
	}

	seen := make(map[uint]bool)
	out := []uint{}
	stack := []uint{id}
	for len(stack) > 0 {
		fid := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if seen[fid] {
			continue
		}
		seen[fid] = true
		out = append(out, fid)
		stack = append(stack, children[fid]...)
	}
	return out
}

// Breadcrumb renders the root-to-folder path like "Root > Gaming > Clips".
// A broken parent link or an unknown id truncates the walk rather than
// failing; the result is whatever portion of the path resolved.
func Breadcrumb(folders []models.Folder, id uint) string {
	byID := make(map[uint]models.Folder, len(folders))
	for _, f := range folders {
		byID[f.ID] = f
	}
	return breadcrumbFrom(byID, id)
}

func breadcrumbFrom(byID map[uint]models.Folder, id uint) string {
	var parts []string
	cur := id
	for {
		f, ok := byID[cur]
		if !ok {
			break
		}
		parts = append(parts, f.Name)
		if f.ParentID == nil {
			break
		}
		cur = *f.ParentID
	}
	// Walked leaf-to-root; flip into display order.
	for i, j := 0, len(parts)-1; i < j; i, j = i+1, j-1 {
		parts[i], parts[j] = parts[j], parts[i]
	}
	return strings.Join(parts, BreadcrumbSeparator)
}

// Flatten returns every folder with its breadcrumb, for move-to pickers.
func Flatten(folders []models.Folder) []FlatFolder {
	byID := make(map[uint]models.Folder, len(folders))
	for _, f := range folders {
		byID[f.ID] = f
	}
	out := make([]FlatFolder, len(folders))
	for i, f := range folders {
		out[i] = FlatFolder{
			ID:         f.ID,
			Name:       f.Name,
			Breadcrumb: breadcrumbFrom(byID, f.ID),
		}
	}
	return out
}
