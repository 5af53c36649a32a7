// Package workspace persists named schema documents as JSON files in a
// directory, tracking external edits through a filesystem watcher.
package workspace

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	apperrors "github.com/schemastudio/backend/pkg/errors"
	"github.com/schemastudio/backend/pkg/utils"
)

var nameRe = regexp.MustCompile(`^[a-zA-Z0-9_.-]+$`)

// Entry describes one saved document file.
type Entry struct {
	Name       string    `json:"name"`
	Revision   string    `json:"revision"`
	Size       int64     `json:"size"`
	ModifiedAt time.Time `json:"modifiedAt"`
}

// Store is a directory of saved schema documents. Revisions are opaque ids
// regenerated whenever a file's content changes, including changes made
// outside this process.
type Store struct {
	dir     string
	mu      sync.RWMutex
	entries map[string]Entry
	watcher *fsnotify.Watcher
	done    chan struct{}
}

// NewStore opens (creating if needed) the workspace directory and indexes
// the *.json files already in it. The watcher is best effort; when it cannot
// be created the store still works, it just misses external edits.
func NewStore(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create workspace dir %s: %w", dir, err)
	}

	s := &Store{
		dir:     dir,
		entries: make(map[string]Entry),
		done:    make(chan struct{}),
	}
	if err := s.rescan(); err != nil {
		return nil, err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		log.Printf("⚠️ Workspace watcher unavailable: %v", err)
		return s, nil
	}
	if err := watcher.Add(dir); err != nil {
		log.Printf("⚠️ Failed to watch workspace dir: %v", err)
		watcher.Close()
		return s, nil
	}
	s.watcher = watcher
	go s.watch()
	return s, nil
}

// Close stops the watcher.
func (s *Store) Close() error {
	close(s.done)
	if s.watcher != nil {
		return s.watcher.Close()
	}
	return nil
}

// List returns the saved entries sorted by name.
func (s *Store) List() []Entry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Entry, 0, len(s.entries))
	for _, e := range s.entries {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Save writes text under name (a ".json" suffix is added when missing) and
// returns the new entry.
func (s *Store) Save(name, text string) (Entry, error) {
	path, canonical, err := s.resolve(name)
	if err != nil {
		return Entry{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := os.WriteFile(path, []byte(text), 0644); err != nil {
		return Entry{}, apperrors.NewInternalError("save workspace file", err)
	}
	entry := s.indexLocked(canonical)
	return entry, nil
}

// Load reads a saved document's text.
func (s *Store) Load(name string) (string, error) {
	path, canonical, err := s.resolve(name)
	if err != nil {
		return "", err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", apperrors.NewNotFoundError("workspace file", canonical)
		}
		return "", apperrors.NewInternalError("load workspace file", err)
	}
	return string(data), nil
}

// Delete removes a saved document. Deleting an absent file is a no-op.
func (s *Store) Delete(name string) error {
	path, canonical, err := s.resolve(name)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return apperrors.NewInternalError("delete workspace file", err)
	}
	delete(s.entries, canonical)
	return nil
}

// resolve validates name and returns the on-disk path plus the canonical
// ".json"-suffixed name. Names never escape the workspace directory.
func (s *Store) resolve(name string) (path, canonical string, err error) {
	name = strings.TrimSpace(name)
	if name == "" || !nameRe.MatchString(name) {
		return "", "", apperrors.NewValidationError("name", "file name may only contain letters, digits, '_', '.', '-'")
	}
	canonical = name
	if !strings.HasSuffix(canonical, ".json") {
		canonical += ".json"
	}
	path = filepath.Join(s.dir, canonical)
	if !strings.HasPrefix(path, filepath.Clean(s.dir)+string(os.PathSeparator)) {
		return "", "", apperrors.NewValidationError("name", "invalid file path")
	}
	return path, canonical, nil
}

func (s *Store) rescan() error {
	files, err := os.ReadDir(s.dir)
	if err != nil {
		return fmt.Errorf("failed to read workspace dir %s: %w", s.dir, err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, f := range files {
		if f.IsDir() || filepath.Ext(f.Name()) != ".json" {
			continue
		}
		s.indexLocked(f.Name())
	}
	return nil
}

func (s *Store) indexLocked(name string) Entry {
	info, err := os.Stat(filepath.Join(s.dir, name))
	if err != nil {
		delete(s.entries, name)
		return Entry{}
	}
	entry := Entry{
		Name:       name,
		Revision:   utils.GenerateID(),
		Size:       info.Size(),
		ModifiedAt: info.ModTime(),
	}
	s.entries[name] = entry
	return entry
}

func (s *Store) watch() {
	for {
		select {
		case <-s.done:
			return
		case event, ok := <-s.watcher.Events:
			if !ok {
				return
			}
			if filepath.Ext(event.Name) != ".json" {
				continue
			}
			name := filepath.Base(event.Name)
			s.mu.Lock()
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) != 0 {
				s.indexLocked(name)
			}
			if event.Op&fsnotify.Remove != 0 {
				delete(s.entries, name)
			}
			s.mu.Unlock()
		case err, ok := <-s.watcher.Errors:
			if !ok {
				return
			}
			log.Println("Error watching workspace:", err)
		}
	}
}
