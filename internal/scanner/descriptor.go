// Package scanner implements ignore-aware directory traversal in the
// four scan modes the UI tree and file-search surfaces depend on,
// plus the non-ignore-aware "clean" full listing.
package scanner

import (
	"path/filepath"
	"sort"
	"strings"
)

// Descriptor describes one scanned filesystem entry.
type Descriptor struct {
	Path         string
	Name         string
	Depth        int
	Size         int64
	LastModified int64
	Extension    string
	IsDirectory  bool
}

// sortDescriptors orders directories before files at each level, then
// case-insensitive lexicographic by leaf name, matching the scan
// chunk ordering contract.
func sortDescriptors(entries []Descriptor) {
	sort.Slice(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		if a.IsDirectory != b.IsDirectory {
			return a.IsDirectory
		}
		return strings.ToLower(a.Name) < strings.ToLower(b.Name)
	})
}

// sortByFullPath orders descriptors lexicographically by full path,
// used by the non-ignore-aware clean scan.
func sortByFullPath(entries []Descriptor) {
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Path < entries[j].Path
	})
}

func extensionOf(name string) string {
	if strings.HasPrefix(name, ".") && strings.Count(name, ".") == 1 {
		return ""
	}
	ext := filepath.Ext(name)
	return strings.ToLower(ext)
}
