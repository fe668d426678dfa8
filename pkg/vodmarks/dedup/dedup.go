// Package dedup detects folders in different branches of the tree that share
// a name, and groups them into virtual merged views. Groups are derived from
// the folder snapshot on every call; the underlying folder rows are never
// merged.
package dedup

import (
	"sort"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/vodmarks/vodmarks/pkg/vodmarks/models"
)

// DefaultMinDupes is the member count at which a name becomes a group.
const DefaultMinDupes = 2

var titleCaser = cases.Title(language.Und)

// Group is a set of folders sharing a normalized name.
type Group struct {
	// Key is the normalized name the members were bucketed by.
	Key string
	// DisplayName is a title-cased rendering of Key, for presentation only.
	DisplayName string
	// FolderIDs are the member folders, in id order.
	FolderIDs []uint
}

// Normalize maps a folder name to its grouping key: trimmed and case-folded.
func Normalize(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// Groups buckets all non-root folders by normalized name and returns the
// buckets with at least minDupes members, ordered by key. The root is unique
// by invariant and never participates.
func Groups(folders []models.Folder, minDupes int) []Group {
	buckets := make(map[string][]uint)
	for _, f := range folders {
		if f.ParentID == nil {
			continue
		}
		key := Normalize(f.Name)
		buckets[key] = append(buckets[key], f.ID)
	}

	out := []Group{}
	for key, ids := range buckets {
		if len(ids) < minDupes {
			continue
		}
		sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
		out = append(out, Group{
			Key:         key,
			DisplayName: titleCaser.String(key),
			FolderIDs:   ids,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out
}

// Summary is a group with its combined bookmark count, as presented in
// group listings and alongside the tree.
type Summary struct {
	Key            string `json:"key"`
	Name           string `json:"name"`
	TotalBookmarks int    `json:"total_bookmarks"`
}

// CountFunc returns the number of bookmarks across a folder id set.
type CountFunc func(folderIDs []uint) (int64, error)

// Summaries computes the groups for a folder snapshot and fills in their
// totals through count, one call per group.
func Summaries(folders []models.Folder, minDupes int, count CountFunc) ([]Summary, error) {
	groups := Groups(folders, minDupes)
	out := make([]Summary, len(groups))
	for i, g := range groups {
		total, err := count(g.FolderIDs)
		if err != nil {
			return nil, err
		}
		out[i] = Summary{Key: g.Key, Name: g.DisplayName, TotalBookmarks: int(total)}
	}
	return out, nil
}

// Find returns the group for a key, recomputed from the current folder
// snapshot. The second result is false when the key no longer names a group,
// which is expected if folders were renamed or deleted since the group list
// was fetched.
func Find(folders []models.Folder, key string, minDupes int) (Group, bool) {
	key = Normalize(key)
	for _, g := range Groups(folders, minDupes) {
		if g.Key == key {
			return g, true
		}
	}
	return Group{}, false
}
