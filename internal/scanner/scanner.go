package scanner

import (
	"os"
	"path/filepath"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/ternarybob/syntari-kernel/internal/ignore"
	"github.com/ternarybob/syntari-kernel/internal/kernelerrors"
)

const (
	maxWalkDepth        = 50
	chunkedFileSizeCap  = 64 * 1024 * 1024
	streamingFileSizeCap = 10 * 1024 * 1024
	chunkedFileHardCap  = 100000
	streamingMaxDepth   = 20
)

func newDescriptor(path string, depth int, info os.FileInfo) Descriptor {
	d := Descriptor{
		Path:        path,
		Name:        info.Name(),
		Depth:       depth,
		IsDirectory: info.IsDir(),
	}
	if !d.IsDirectory {
		d.Size = info.Size()
		d.Extension = extensionOf(info.Name())
	}
	d.LastModified = info.ModTime().Unix()
	return d
}

// ScanDirectoriesOnly walks root returning directory descriptors
// only, bounded by maxDepth (0 means unlimited up to maxWalkDepth) and
// a caller-supplied extra skip list layered on the default one.
func ScanDirectoriesOnly(root string, maxDepth int, extraSkip []string) ([]Descriptor, error) {
	if maxDepth <= 0 || maxDepth > maxWalkDepth {
		maxDepth = maxWalkDepth
	}
	matcher := ignore.NewMatcher(root, extraSkip)

	var out []Descriptor
	var walk func(dir string, depth int) error
	walk = func(dir string, depth int) error {
		if depth > maxDepth {
			return nil
		}
		entries, err := os.ReadDir(dir)
		if err != nil {
			return nil
		}
		for _, e := range entries {
			if !e.IsDir() {
				continue
			}
			if matcher.ShouldSkip(e.Name()) {
				continue
			}
			full := filepath.Join(dir, e.Name())
			rel, _ := filepath.Rel(root, full)
			if matcher.Ignored(rel) {
				continue
			}
			info, err := e.Info()
			if err != nil {
				continue
			}
			out = append(out, newDescriptor(full, depth, info))
			if err := walk(full, depth+1); err != nil {
				return err
			}
		}
		return nil
	}
	if err := walk(root, 0); err != nil {
		return nil, err
	}
	sortDescriptors(out)
	return out, nil
}

// ScanFilesChunkedResult is one page of a chunked file scan.
type ScanFilesChunkedResult struct {
	Records []Descriptor
	HasMore bool
}

// ScanFilesChunked performs a recursive ignore-aware walk collecting
// files only, then slices the ordered result by offset/limit. It is
// bounded by a hard cap of chunkedFileHardCap files scanned; beyond
// that the walk stops early and the slice simply reflects truncation.
func ScanFilesChunked(root string, offset, limit int, extraSkip []string, includeHidden bool) (*ScanFilesChunkedResult, error) {
	all, err := walkFiles(root, maxWalkDepth, extraSkip, includeHidden, chunkedFileSizeCap, chunkedFileHardCap)
	if err != nil {
		return nil, err
	}
	sortDescriptors(all)

	if offset > len(all) {
		return &ScanFilesChunkedResult{Records: nil, HasMore: false}, nil
	}
	end := offset + limit
	hasMore := end < len(all)
	if end > len(all) {
		end = len(all)
	}
	return &ScanFilesChunkedResult{Records: all[offset:end], HasMore: hasMore}, nil
}

// ScanFilesStreaming returns a single first chunk of file descriptors,
// max depth 20, skipping files over streamingFileSizeCap.
func ScanFilesStreaming(root string, chunkSize int, extraSkip []string, includeHidden bool) (*ScanFilesChunkedResult, error) {
	all, err := walkFiles(root, streamingMaxDepth, extraSkip, includeHidden, streamingFileSizeCap, chunkedFileHardCap)
	if err != nil {
		return nil, err
	}
	sortDescriptors(all)
	if chunkSize <= 0 || chunkSize > len(all) {
		chunkSize = len(all)
	}
	return &ScanFilesChunkedResult{Records: all[:chunkSize], HasMore: chunkSize < len(all)}, nil
}

func walkFiles(root string, maxDepth int, extraSkip []string, includeHidden bool, sizeCap int64, hardCap int) ([]Descriptor, error) {
	matcher := ignore.NewMatcher(root, extraSkip)
	var out []Descriptor

	var walk func(dir string, depth int) bool
	walk = func(dir string, depth int) bool {
		if depth > maxDepth || len(out) >= hardCap {
			return len(out) < hardCap
		}
		entries, err := os.ReadDir(dir)
		if err != nil {
			return true
		}
		for _, e := range entries {
			if len(out) >= hardCap {
				return false
			}
			name := e.Name()
			if !includeHidden && len(name) > 0 && name[0] == '.' {
				continue
			}
			full := filepath.Join(dir, name)
			rel, _ := filepath.Rel(root, full)

			if e.IsDir() {
				if matcher.ShouldSkip(name) || matcher.Ignored(rel) {
					continue
				}
				if !walk(full, depth+1) {
					return false
				}
				continue
			}
			if matcher.Ignored(rel) {
				continue
			}
			info, err := e.Info()
			if err != nil {
				continue
			}
			if info.Size() > sizeCap {
				continue
			}
			out = append(out, newDescriptor(full, depth, info))
		}
		return true
	}
	walk(root, 0)
	return out, nil
}

// ScanEverythingClean performs a non-ignore-aware recursive listing of
// both files and directories, metadata only, sorted by full path. It
// never reads file contents. Directory stats are parallelized with a
// bounded worker pool.
func ScanEverythingClean(root string, includeHidden bool) ([]Descriptor, error) {
	type job struct {
		path  string
		depth int
		entry os.DirEntry
	}

	var jobs []job
	var walk func(dir string, depth int) error
	walk = func(dir string, depth int) error {
		entries, err := os.ReadDir(dir)
		if err != nil {
			return kernelerrors.Wrap(kernelerrors.Filesystem, "WALK_ERROR", "cannot read directory", err).WithPath(dir)
		}
		for _, e := range entries {
			if !includeHidden && len(e.Name()) > 0 && e.Name()[0] == '.' {
				continue
			}
			full := filepath.Join(dir, e.Name())
			jobs = append(jobs, job{path: full, depth: depth, entry: e})
			if e.IsDir() {
				if err := walk(full, depth+1); err != nil {
					return err
				}
			}
		}
		return nil
	}
	if err := walk(root, 0); err != nil {
		return nil, err
	}

	out := make([]Descriptor, len(jobs))
	g := new(errgroup.Group)
	g.SetLimit(16)
	for i, j := range jobs {
		i, j := i, j
		g.Go(func() error {
			info, err := j.entry.Info()
			if err != nil {
				return nil
			}
			out[i] = newDescriptor(j.path, j.depth, info)
			return nil
		})
	}
	_ = g.Wait()

	sortByFullPath(out)
	return out, nil
}

// SingleLevelResult is a one-directory-deep listing for the UI tree.
type SingleLevelResult struct {
	Entries []Descriptor
}

// LoadFolderContents lists the immediate children of path, directories
// first then files, each group case-insensitive lexicographic.
func LoadFolderContents(path string, includeHidden bool) (*SingleLevelResult, error) {
	return loadSingleLevel(path, includeHidden, nil)
}

// defaultRootNoise is filtered at the root level by LoadRootItems
// unless showHiddenFolders is set.
var defaultRootNoise = []string{".git", "node_modules", "target", ".next", "dist", "build", ".idea", ".vscode"}

// LoadRootItems is like LoadFolderContents but additionally filters a
// default set of noise directories at the root level unless
// showHiddenFolders is set.
func LoadRootItems(path string, includeHidden, showHiddenFolders bool) (*SingleLevelResult, error) {
	var skip []string
	if !showHiddenFolders {
		skip = defaultRootNoise
	}
	return loadSingleLevel(path, includeHidden, skip)
}

func loadSingleLevel(path string, includeHidden bool, skipDirNames []string) (*SingleLevelResult, error) {
	entries, err := os.ReadDir(path)
	if err != nil {
		return nil, kernelerrors.Wrap(kernelerrors.Filesystem, "PATH_NOT_FOUND", "cannot read directory", err).WithPath(path)
	}
	skip := make(map[string]bool, len(skipDirNames))
	for _, s := range skipDirNames {
		skip[s] = true
	}

	out := make([]Descriptor, 0, len(entries))
	for _, e := range entries {
		name := e.Name()
		if !includeHidden && len(name) > 0 && name[0] == '.' {
			continue
		}
		if e.IsDir() && skip[name] {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		out = append(out, newDescriptor(filepath.Join(path, name), 1, info))
	}
	sortDescriptors(out)
	return &SingleLevelResult{Entries: out}, nil
}

// sortStrings returns a sorted copy of in. Nothing in the repository
// calls it.
func sortStrings(in []string) []string {
	out := append([]string(nil), in...)
	sort.Strings(out)
	return out
}
