// Package artifact owns the temporary capture file.
//
// A Store resolves to one fixed path for the life of the process. Each
// pipeline run creates an Artifact handle from the store, passes it through
// the stages, and releases it on exit. Only one handle can be live at a time;
// the fixed path cannot be shared by concurrent runs, and the store refuses a
// second Create rather than letting two runs overwrite each other's capture.
package artifact

import (
	"errors"
	"fmt"
	"os"
	"sync"
)

// ErrBusy is returned by Create while another run holds the artifact.
var ErrBusy = errors.New("capture artifact is in use by another run")

// Store manages the capture file at a fixed path.
type Store struct {
	path string

	// guard is held from Create until Release.
	guard sync.Mutex

	mu   sync.Mutex
	live *Artifact
}

// NewStore creates a Store for path. Nothing is touched on disk until Create.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Path returns the fixed artifact path.
func (s *Store) Path() string {
	return s.path
}

// Create claims the artifact for one run and clears any stale file left at
// the path by an earlier crash. The capture tool writes the file itself.
func (s *Store) Create() (*Artifact, error) {
	if !s.guard.TryLock() {
		return nil, ErrBusy
	}

	if err := os.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		s.guard.Unlock()
		return nil, fmt.Errorf("failed to clear stale artifact: %w", err)
	}

	a := &Artifact{store: s}
	s.mu.Lock()
	s.live = a
	s.mu.Unlock()
	return a, nil
}

// Release deletes the file and frees the store for the next run. It is safe
// to call when nothing was created and safe to call repeatedly.
func (s *Store) Release() error {
	s.mu.Lock()
	a := s.live
	s.mu.Unlock()

	if a == nil {
		return removeIfExists(s.path)
	}
	return a.Release()
}

func (s *Store) drop(a *Artifact) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.live == a {
		s.live = nil
		s.guard.Unlock()
	}
}

// Artifact is one run's handle on the capture file.
type Artifact struct {
	store *Store
	once  sync.Once
	err   error
}

// Path returns the file location the capture tool writes to.
func (a *Artifact) Path() string {
	return a.store.path
}

// Exists reports whether the capture file is present and non-empty.
func (a *Artifact) Exists() bool {
	info, err := os.Stat(a.store.path)
	return err == nil && info.Mode().IsRegular() && info.Size() > 0
}

// Release deletes the file. Only the first call does any work; later calls
// return the first call's result.
func (a *Artifact) Release() error {
	a.once.Do(func() {
		a.err = removeIfExists(a.store.path)
		a.store.drop(a)
	})
	return a.err
}

func removeIfExists(path string) error {
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to remove artifact: %w", err)
	}
	return nil
}
