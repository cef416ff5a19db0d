package tracking

import (
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/vellum-editor/vellum/internal/engine/buffer"
)

// ErrSnapshotNotFound is returned when a label has no registered snapshot.
var ErrSnapshotNotFound = errors.New("snapshot not found")

// namedSnapshot pairs a buffer snapshot with registration metadata.
type namedSnapshot struct {
	snap *buffer.Snapshot
	when time.Time
}

// Store holds named snapshots of a buffer. Safe for concurrent use.
type Store struct {
	mu    sync.RWMutex
	named map[string]namedSnapshot
}

// NewStore creates an empty snapshot store.
func NewStore() *Store {
	return &Store{named: make(map[string]namedSnapshot)}
}

// Save registers snap under label, replacing any previous snapshot with
// the same label.
func (s *Store) Save(label string, snap *buffer.Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.named[label] = namedSnapshot{snap: snap, when: time.Now()}
}

// Get returns the snapshot registered under label.
func (s *Store) Get(label string) (*buffer.Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ns, ok := s.named[label]
	if !ok {
		return nil, ErrSnapshotNotFound
	}
	return ns.snap, nil
}

// Drop removes the snapshot registered under label.
func (s *Store) Drop(label string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.named, label)
}

// Labels returns all registered labels, sorted.
func (s *Store) Labels() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	labels := make([]string, 0, len(s.named))
	for label := range s.named {
		labels = append(labels, label)
	}
	sort.Strings(labels)
	return labels
}

// DiffSince diffs the snapshot registered under label against current.
func (s *Store) DiffSince(label string, current *buffer.Snapshot) ([]Op, error) {
	snap, err := s.Get(label)
	if err != nil {
		return nil, err
	}
	return DiffLines(snap.Text(), current.Text()), nil
}

// StatsSince returns added/removed line counts since the labeled snapshot.
func (s *Store) StatsSince(label string, current *buffer.Snapshot) (Stats, error) {
	snap, err := s.Get(label)
	if err != nil {
		return Stats{}, err
	}
	return DiffStats(snap.Text(), current.Text()), nil
}
