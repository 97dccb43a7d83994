// Package search implements project-wide content search: regex or
// literal query construction, an ignore-aware bounded walk, and
// per-file/per-request match caps.
package search

import (
	"bufio"
	"context"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"sync"

	"github.com/bmatcuk/doublestar/v4"
	"golang.org/x/sync/semaphore"

	"github.com/ternarybob/syntari-kernel/internal/ignore"
	"github.com/ternarybob/syntari-kernel/internal/kernelerrors"
)

const (
	maxSearchDepth     = 20
	maxFileSize        = 1 * 1024 * 1024
	perFileMatchCap    = 20
	bulkMatchCap       = 10000
	defaultStreamCap   = 1000
	searchWorkerLimit  = 8
)

// Options controls how a query is matched and which files are walked.
type Options struct {
	CaseSensitive      bool
	WholeWord          bool
	UseRegex           bool
	IncludeFileTypes   []string
	ExcludeFileTypes   []string
	ExcludeDirectories []string
	MaxResults         int // SearchStreaming's cap, 0 means defaultStreamCap; Search ignores it
}

// Match is one matched occurrence within a line.
type Match struct {
	Line       int
	Column     int
	Text       string
	MatchStart int
	MatchEnd   int
}

// FileResult aggregates matches for one file.
type FileResult struct {
	Path    string
	Matches []Match
}

// Data is the aggregate result of a project search.
type Data struct {
	Results      []FileResult
	TotalMatches int
	FilesSearched int
	TotalFiles    int
}

// BuildPattern compiles query into a *regexp.Regexp per the query
// construction rules: literal queries are escaped then optionally
// word-bounded and case-folded; regex queries are compiled as-is.
func BuildPattern(query string, opts Options) (*regexp.Regexp, error) {
	if len(query) < 2 {
		return nil, kernelerrors.New(kernelerrors.Validation, kernelerrors.CodeValidationFailed, "query must be at least two characters")
	}

	pattern := query
	if !opts.UseRegex {
		pattern = regexp.QuoteMeta(query)
		if opts.WholeWord {
			pattern = `\b` + pattern + `\b`
		}
		if !opts.CaseSensitive {
			pattern = "(?i)" + pattern
		}
	}

	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, kernelerrors.Wrap(kernelerrors.Validation, kernelerrors.CodeInvalidRegex, "invalid search pattern", err)
	}
	return re, nil
}

// Search walks root applying the ignore/selection discipline and
// returns up to the bulk match cap (or opts.MaxResults when using the
// streaming variant's cap semantics via SearchStreaming).
func Search(root, query string, opts Options) (*Data, error) {
	return search(root, query, opts, bulkMatchCap)
}

// SearchStreaming is cap-bounded like Search but defaults the cap to
// defaultStreamCap (or opts.MaxResults) instead of the bulk cap; it
// still returns a single aggregated result once the walk completes or
// the cap is hit.
func SearchStreaming(root, query string, opts Options) (*Data, error) {
	resultCap := opts.MaxResults
	if resultCap <= 0 {
		resultCap = defaultStreamCap
	}
	return search(root, query, opts, resultCap)
}

func search(root, query string, opts Options, matchCap int) (*Data, error) {
	re, err := BuildPattern(query, opts)
	if err != nil {
		return nil, err
	}

	matcher := ignore.NewMatcher(root, nil)
	data := &Data{}

	var mu sync.Mutex
	sem := semaphore.NewWeighted(searchWorkerLimit)
	var wg sync.WaitGroup
	stop := make(chan struct{})
	var stopOnce sync.Once

	var walk func(dir string, depth int) bool
	walk = func(dir string, depth int) bool {
		select {
		case <-stop:
			return false
		default:
		}
		if depth > maxSearchDepth {
			return true
		}
		entries, err := os.ReadDir(dir)
		if err != nil {
			return true
		}
		for _, e := range entries {
			select {
			case <-stop:
				return false
			default:
			}
			name := e.Name()
			full := filepath.Join(dir, name)
			rel, _ := filepath.Rel(root, full)

			if e.IsDir() {
				if matcher.ShouldSkip(name) || matchesExcludedDir(rel, opts.ExcludeDirectories) {
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
			if !fileTypeAllowed(name, opts.IncludeFileTypes, opts.ExcludeFileTypes) {
				continue
			}

			info, err := e.Info()
			if err != nil || info.Size() > maxFileSize {
				continue
			}

			mu.Lock()
			data.TotalFiles++
			mu.Unlock()

			wg.Add(1)
			_ = sem.Acquire(context.Background(), 1)
			go func(path string) {
				defer wg.Done()
				defer sem.Release(1)
				matches, searched := searchFile(path, re)
				if !searched {
					return
				}
				mu.Lock()
				defer mu.Unlock()
				data.FilesSearched++
				if len(matches) > 0 {
					data.Results = append(data.Results, FileResult{Path: path, Matches: matches})
					data.TotalMatches += len(matches)
					if data.TotalMatches >= matchCap {
						stopOnce.Do(func() { close(stop) })
					}
				}
			}(full)
		}
		return true
	}
	walk(root, 0)
	wg.Wait()
	return data, nil
}

func fileTypeAllowed(name string, include, exclude []string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	for _, ex := range exclude {
		if matchesExt(ext, ex) {
			return false
		}
	}
	if len(include) == 0 {
		return true
	}
	for _, in := range include {
		if matchesExt(ext, in) {
			return true
		}
	}
	return false
}

func matchesExt(ext, pattern string) bool {
	pattern = strings.ToLower(pattern)
	if !strings.HasPrefix(pattern, ".") && !strings.ContainsAny(pattern, "*?[") {
		pattern = "." + pattern
	}
	if ok, err := doublestar.Match(pattern, ext); err == nil && ok {
		return true
	}
	return ext == pattern
}

func matchesExcludedDir(rel string, excludes []string) bool {
	rel = filepath.ToSlash(rel)
	for _, ex := range excludes {
		if ex == "" {
			continue
		}
		if strings.Contains(rel, ex) {
			return true
		}
		if ok, err := doublestar.Match(ex, rel); err == nil && ok {
			return true
		}
	}
	return false
}

func searchFile(path string, re *regexp.Regexp) ([]Match, bool) {
	f, err := os.Open(path)
	if err != nil {
		return nil, false
	}
	defer f.Close()

	var matches []Match
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := scanner.Text()
		for _, loc := range re.FindAllStringIndex(line, -1) {
			matches = append(matches, Match{
				Line:       lineNo,
				Column:     loc[0] + 1,
				Text:       line,
				MatchStart: loc[0],
				MatchEnd:   loc[1],
			})
			if len(matches) >= perFileMatchCap {
				return matches, true
			}
		}
	}
	return matches, true
}
