package watcher

import (
	"os"
	"path/filepath"
)

// Strategy names the watching approach chosen for a given root based
// on its sampled size.
type Strategy string

const (
	StrategyFull      Strategy = "full"
	StrategySelective Strategy = "selective"
	StrategyHybrid    Strategy = "hybrid"
)

const sampleSubdirLimit = 100

// conventionalCodeDirs are the fixed set watched recursively under the
// selective strategy, when present.
var conventionalCodeDirs = []string{"src", "components", "pages", "lib", "utils", "config"}

// selectiveMarkers trigger the selective strategy when present among
// the root's immediate children.
var selectiveMarkers = []string{"node_modules", "target"}

// sample looks at up to sampleSubdirLimit immediate entries of root and
// counts how many are files and how many are directories; it does not
// descend into subdirectories. Used only to pick a strategy, not to
// build the known-files cache.
func sample(root string) (files, dirs int, hasSelectiveMarker bool) {
	entries, err := os.ReadDir(root)
	if err != nil {
		return 0, 0, false
	}
	checked := 0
	for _, e := range entries {
		if checked >= sampleSubdirLimit {
			break
		}
		checked++
		if e.IsDir() {
			dirs++
			for _, m := range selectiveMarkers {
				if e.Name() == m {
					hasSelectiveMarker = true
				}
			}
			continue
		}
		files++
	}
	return files, dirs, hasSelectiveMarker
}

// ChooseStrategy samples root and selects a watching strategy per:
// full when files<1000 and dirs<50; selective when a node_modules or
// target marker is present; hybrid otherwise.
func ChooseStrategy(root string) Strategy {
	files, dirs, marker := sample(root)
	if marker {
		return StrategySelective
	}
	if files < 1000 && dirs < 50 {
		return StrategyFull
	}
	return StrategyHybrid
}

// existingConventionalDirs returns which of conventionalCodeDirs
// actually exist under root, for the selective strategy's recursive
// sub-watches.
func existingConventionalDirs(root string) []string {
	var out []string
	for _, d := range conventionalCodeDirs {
		if info, err := os.Stat(filepath.Join(root, d)); err == nil && info.IsDir() {
			out = append(out, d)
		}
	}
	return out
}

func debounceFor(s Strategy) int {
	switch s {
	case StrategyFull, StrategySelective:
		return 150
	case StrategyHybrid:
		return 500
	default:
		return 200
	}
}
