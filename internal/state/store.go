// Package state persists the per-space target master-window count. The
// store is a single JSON document rewritten whole on every update;
// concurrent writers are last-writer-wins, which is acceptable because full
// rebalancing passes are serialized by the lock file.
package state

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/adrg/xdg"
)

// DefaultNumMasterWindows is assumed for any space with no stored record.
const DefaultNumMasterWindows = 1

type document struct {
	Spaces map[string]spaceState `json:"spaces"`
}

type spaceState struct {
	NumMasterWindows int `json:"num_master_windows"`
}

// Store reads and writes the state document.
type Store struct {
	path         string
	defaultCount int
}

// NewStore opens the store at the standard XDG state location.
func NewStore() (*Store, error) {
	path, err := xdg.StateFile("ymsp/state.json")
	if err != nil {
		return nil, fmt.Errorf("failed to resolve state path: %w", err)
	}
	return &Store{path: path, defaultCount: DefaultNumMasterWindows}, nil
}

// NewStoreAt opens the store at an explicit path. Used by tests and by the
// config override.
func NewStoreAt(path string) *Store {
	return &Store{path: path, defaultCount: DefaultNumMasterWindows}
}

// SetDefaultCount changes the count assumed for spaces with no stored
// record. It never touches stored records: a space explicitly set below the
// default keeps its value.
func (s *Store) SetDefaultCount(count int) {
	if count < 1 {
		count = DefaultNumMasterWindows
	}
	s.defaultCount = count
}

// Path returns the backing file location.
func (s *Store) Path() string {
	return s.path
}

func (s *Store) load() (*document, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return &document{Spaces: make(map[string]spaceState)}, nil
		}
		return nil, fmt.Errorf("failed to read state file: %w", err)
	}
	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse state file %s: %w", s.path, err)
	}
	if doc.Spaces == nil {
		doc.Spaces = make(map[string]spaceState)
	}
	return &doc, nil
}

func (s *Store) save(doc *document) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return fmt.Errorf("failed to create state directory: %w", err)
	}
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode state: %w", err)
	}
	if err := os.WriteFile(s.path, append(data, '\n'), 0644); err != nil {
		return fmt.Errorf("failed to write state file: %w", err)
	}
	return nil
}

// NumMasterWindows returns the stored target for a space. A space with no
// record (or a corrupt non-positive one) reports the configured default.
func (s *Store) NumMasterWindows(spaceID int) (int, error) {
	doc, err := s.load()
	if err != nil {
		return 0, err
	}
	st, ok := doc.Spaces[strconv.Itoa(spaceID)]
	if !ok || st.NumMasterWindows < 1 {
		return s.defaultCount, nil
	}
	return st.NumMasterWindows, nil
}

// SetNumMasterWindows records the target for a space.
func (s *Store) SetNumMasterWindows(spaceID, count int) error {
	if count < 1 {
		return fmt.Errorf("master window count must be at least 1, got %d", count)
	}
	doc, err := s.load()
	if err != nil {
		return err
	}
	doc.Spaces[strconv.Itoa(spaceID)] = spaceState{NumMasterWindows: count}
	return s.save(doc)
}
