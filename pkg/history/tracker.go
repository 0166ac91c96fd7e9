// Package history tracks how often and how recently candidates get picked,
// and turns that into the usage bonus the ranking engine adds on top of
// match quality. Snapshots persist as msgpack so a session can warm-start.
package history

import (
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/rankserve/rankserve/pkg/rank"
)

type entry struct {
	Count    int       `msgpack:"c"`
	LastUsed time.Time `msgpack:"t"`
}

// Tracker implements rank.BonusSource over recorded usage events.
type Tracker struct {
	mu      sync.RWMutex
	entries map[string]entry
	cfg     rank.BonusConfig
	now     func() time.Time
}

// NewTracker returns an empty tracker using cfg's decay parameters.
func NewTracker(cfg rank.BonusConfig) *Tracker {
	return &Tracker{
		entries: make(map[string]entry),
		cfg:     cfg,
		now:     time.Now,
	}
}

// Record notes one use of the given identity.
func (t *Tracker) Record(identity string) {
	if identity == "" {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()

	e := t.entries[identity]
	e.Count++
	e.LastUsed = t.now()
	t.entries[identity] = e
}

// Bonus returns the combined frequency and recency bonus for identity,
// 0 when it has never been recorded.
func (t *Tracker) Bonus(identity string) float64 {
	t.mu.RLock()
	e, ok := t.entries[identity]
	t.mu.RUnlock()
	if !ok {
		return 0
	}

	age := t.now().Sub(e.LastUsed)
	return float64(rank.FrequencyBonus(e.Count, t.cfg.MaxFrequency) +
		rank.UsageRecencyBonus(age, t.cfg.MaxRecency, t.cfg.TTL))
}

// Len returns the number of tracked identities.
func (t *Tracker) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.entries)
}

// Prune drops entries whose last use aged past the TTL, returning how many
// were removed. Their bonuses are already zero; pruning just bounds memory
// and snapshot size.
func (t *Tracker) Prune() int {
	t.mu.Lock()
	defer t.mu.Unlock()

	cutoff := t.now().Add(-t.cfg.TTL)
	pruned := 0
	for identity, e := range t.entries {
		if e.LastUsed.Before(cutoff) {
			delete(t.entries, identity)
			pruned++
		}
	}
	return pruned
}

// Save writes a msgpack snapshot to path via a temp-file rename.
func (t *Tracker) Save(path string) error {
	t.mu.RLock()
	data, err := msgpack.Marshal(t.entries)
	t.mu.RUnlock()
	if err != nil {
		return err
	}

	tmp := path + ".tmp"
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

// Load replaces the tracked entries with the snapshot at path. A missing
// file is not an error: the tracker just starts cold.
func (t *Tracker) Load(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			log.Debugf("No usage snapshot at %s, starting cold", path)
			return nil
		}
		return err
	}

	entries := make(map[string]entry)
	if err := msgpack.Unmarshal(data, &entries); err != nil {
		log.Warnf("Corrupt usage snapshot at %s: %v. Starting cold.", path, err)
		return nil
	}

	t.mu.Lock()
	t.entries = entries
	t.mu.Unlock()
	log.Debugf("Loaded %d usage entries from %s", len(entries), path)
	return nil
}
