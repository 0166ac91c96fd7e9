// Package index holds the enumerated candidate set the ranking engine
// scores: an in-memory store with prefix lookups over folded names and an
// optional filesystem walker to populate it.
package index

import (
	"errors"
	"io/fs"
	"path/filepath"
	"strings"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/tchap/go-patricia/v2/patricia"

	"github.com/rankserve/rankserve/pkg/rank"
)

// errStopVisit aborts a trie traversal once enough results are collected.
var errStopVisit = errors.New("stop visit")

// skipDirs are directory names never worth suggesting from.
var skipDirs = map[string]bool{
	".git":         true,
	"node_modules": true,
	".cache":       true,
	".venv":        true,
}

// Store is a thread-safe candidate store. Candidates keep the enumeration
// index they were added under, which the ranking tiebreaker relies on, so
// removal tombstones a slot instead of compacting.
type Store struct {
	mu         sync.RWMutex
	trie       *patricia.Trie
	byIdentity map[string]int
	candidates []rank.Candidate
	live       int
}

// NewStore returns an empty candidate store.
func NewStore() *Store {
	return &Store{
		trie:       patricia.NewTrie(),
		byIdentity: make(map[string]int),
	}
}

// Add inserts c, assigning its enumeration index. Re-adding an identity
// replaces the existing candidate in place and keeps its index.
func (s *Store) Add(c rank.Candidate) {
	s.mu.Lock()
	defer s.mu.Unlock()

	identity := c.Identity()
	if slot, ok := s.byIdentity[identity]; ok {
		c.Index = slot
		s.candidates[slot] = c
		return
	}

	c.Index = len(s.candidates)
	s.byIdentity[identity] = c.Index
	s.candidates = append(s.candidates, c)
	s.live++

	key := patricia.Prefix(strings.ToLower(c.Name))
	if item := s.trie.Get(key); item != nil {
		s.trie.Set(key, append(item.([]int), c.Index))
	} else {
		s.trie.Insert(key, []int{c.Index})
	}
}

// Remove tombstones the candidate with the given identity.
func (s *Store) Remove(identity string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	slot, ok := s.byIdentity[identity]
	if !ok {
		return false
	}
	delete(s.byIdentity, identity)

	key := patricia.Prefix(strings.ToLower(s.candidates[slot].Name))
	if item := s.trie.Get(key); item != nil {
		slots := item.([]int)
		kept := slots[:0]
		for _, i := range slots {
			if i != slot {
				kept = append(kept, i)
			}
		}
		if len(kept) == 0 {
			s.trie.Delete(key)
		} else {
			s.trie.Set(key, kept)
		}
	}

	s.candidates[slot] = rank.Candidate{}
	s.live--
	return true
}

// All returns a snapshot of the live candidates in enumeration order.
func (s *Store) All() []rank.Candidate {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]rank.Candidate, 0, s.live)
	for _, c := range s.candidates {
		if c.Name != "" {
			out = append(out, c)
		}
	}
	return out
}

// WithPrefix returns up to limit candidates whose folded name starts with
// the folded prefix, in enumeration order. A non-positive limit means all.
func (s *Store) WithPrefix(prefix string, limit int) []rank.Candidate {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []rank.Candidate
	err := s.trie.VisitSubtree(patricia.Prefix(strings.ToLower(prefix)),
		func(p patricia.Prefix, item patricia.Item) error {
			for _, slot := range item.([]int) {
				c := s.candidates[slot]
				if c.Name == "" {
					continue
				}
				out = append(out, c)
				if limit > 0 && len(out) >= limit {
					return errStopVisit
				}
			}
			return nil
		})
	if err != nil && !errors.Is(err, errStopVisit) {
		log.Errorf("Visiting candidate trie: %v", err)
	}
	return out
}

// Len returns the number of live candidates.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.live
}

// Clear drops every candidate.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.trie = patricia.NewTrie()
	s.byIdentity = make(map[string]int)
	s.candidates = nil
	s.live = 0
}

// LoadDir walks root and adds every regular file as a candidate, with paths
// relative to root using forward slashes and mtimes recorded for the
// freshness bonus. Well-known junk directories are skipped. maxFiles bounds
// the walk; non-positive means unbounded. Returns the number added.
func (s *Store) LoadDir(root string, maxFiles int) (int, error) {
	added := 0
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			log.Warnf("Skipping %s: %v", path, err)
			if d != nil && d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			if skipDirs[d.Name()] || (d.Name() != "." && strings.HasPrefix(d.Name(), ".") && path != root) {
				return fs.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}
		if maxFiles > 0 && added >= maxFiles {
			return fs.SkipAll
		}

		rel, relErr := filepath.Rel(root, path)
		if relErr != nil {
			rel = path
		}
		candidate := rank.Candidate{
			Name: d.Name(),
			Path: filepath.ToSlash(rel),
			Kind: rank.KindFile,
		}
		if info, infoErr := d.Info(); infoErr == nil {
			candidate.ModifiedAt = info.ModTime()
		}
		s.Add(candidate)
		added++
		return nil
	})
	if err == fs.SkipAll {
		err = nil
	}
	if err != nil {
		return added, err
	}
	log.Debugf("Indexed %d candidates under %s", added, root)
	return added, nil
}
