// Package grades finds grade files for indicator rows and turns their
// columns into cohort-labeled series.
package grades

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"gareport/internal/domain"
)

// FindGradeFiles matches filenames against a course and assessment pair.
// A file matches when its name, lowercased with whitespace removed,
// starts with the normalized course+assessment concatenation, and its
// original name carries the spreadsheet extension. Every match is
// returned; an indicator can have more than one assessment file.
func FindGradeFiles(course, assessment string, files []string, ext string) []string {
	want := normalize(course + assessment)
	var matches []string
	for _, f := range files {
		if strings.HasPrefix(normalize(f), want) && strings.HasSuffix(f, ext) {
			matches = append(matches, f)
		}
	}
	return matches
}

func normalize(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), ""))
}

// FileIndex lists grade directories once per run and caches the listings,
// so resolving hundreds of indicator rows does not re-stat the same
// folders over and over.
type FileIndex struct {
	root  string
	list  func(dir string) ([]string, error)
	cache *gocache.Cache
	ext   string
}

const listingTTL = 10 * time.Minute

// NewFileIndex builds an index over the on-disk grades hierarchy.
func NewFileIndex(root, ext string) *FileIndex {
	return &FileIndex{
		root:  root,
		ext:   ext,
		list:  listDir,
		cache: gocache.New(listingTTL, 2*listingTTL),
	}
}

// NewFixedIndex builds an index over a fixed listing map, for tests and
// dry runs. Keys are subdirectory names.
func NewFixedIndex(listings map[string][]string, ext string) *FileIndex {
	return &FileIndex{
		ext: ext,
		list: func(dir string) ([]string, error) {
			files, ok := listings[dir]
			if !ok {
				return nil, fmt.Errorf("no such directory %q", dir)
			}
			return files, nil
		},
		cache: gocache.New(listingTTL, 2*listingTTL),
	}
}

func listDir(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if !e.IsDir() {
			names = append(names, e.Name())
		}
	}
	return names, nil
}

// Listing returns the (cached) filenames of one subdirectory.
func (idx *FileIndex) Listing(subdir string) ([]string, error) {
	if cached, ok := idx.cache.Get(subdir); ok {
		return cached.([]string), nil
	}
	files, err := idx.list(filepath.Join(idx.root, subdir))
	if err != nil {
		return nil, err
	}
	idx.cache.Set(subdir, files, gocache.DefaultExpiration)
	return files, nil
}

// Path resolves a matched filename back to its on-disk location.
func (idx *FileIndex) Path(subdir, file string) string {
	return filepath.Join(idx.root, subdir, file)
}

// DirectorySearch runs FindGradeFiles over subdirectories in the given
// priority order. Every searched subdirectory appears in the result, even
// with no matches: callers tell "searched but empty" from "not searched"
// by key presence, and pick the first non-empty directory in order.
func (idx *FileIndex) DirectorySearch(course, assessment string, subdirs []string) *domain.SearchResult {
	result := domain.NewSearchResult()
	for _, dir := range subdirs {
		files, err := idx.Listing(dir)
		if err != nil {
			log.Printf("Could not list grade directory %s: %v", dir, err)
			result.Add(dir, nil)
			continue
		}
		result.Add(dir, FindGradeFiles(course, assessment, files, idx.ext))
	}
	return result
}
