package watchlist

import (
	"encoding/json"
	"os"
	"sync"

	"github.com/jsseok/futseeker/logger"
	apperr "github.com/jsseok/futseeker/pkg/errors"
)

// Item is one tracked player with the price at or below which the user
// wants to be alerted
type Item struct {
	Name         string `json:"name"`
	URL          string `json:"url"`
	DesiredPrice int    `json:"desired_price"`
}

// Store owns the watchlist. The in-memory copy is the source of truth
// during a run; every append rewrites the whole file. There is no delete
// operation, entries are removed by editing the file by hand.
type Store struct {
	path string

	mu    sync.Mutex
	items []Item
	log   *logger.Logger
}

// NewStore creates a store persisting to the given file path
func NewStore(path string) *Store {
	return &Store{
		path: path,
		log:  logger.ForComponent("watchlist"),
	}
}

// Load reads the persisted watchlist. A missing file is a valid empty
// state. A malformed file is preserved under a .corrupt suffix and the
// store starts empty with a warning, so one bad byte cannot brick the
// watcher.
func (s *Store) Load() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			s.items = nil
			return nil
		}
		return apperr.NewStorage("watchlist", "failed to read watchlist file", err)
	}

	var items []Item
	if err := json.Unmarshal(data, &items); err != nil {
		backup := s.path + ".corrupt"
		if renameErr := os.Rename(s.path, backup); renameErr != nil {
			s.log.Warn().Err(renameErr).Msg("Could not preserve malformed watchlist file")
		}
		s.log.Warn().
			Err(err).
			Str("file", s.path).
			Str("backup", backup).
			Msg("Watchlist file is malformed, starting with an empty list")
		s.items = nil
		return nil
	}

	s.items = items
	return nil
}

// Append adds an item and rewrites the whole file. Duplicates are allowed.
func (s *Store) Append(item Item) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.items = append(s.items, item)
	if err := s.save(); err != nil {
		return err
	}

	s.log.Info().
		Str("name", item.Name).
		Int("desired_price", item.DesiredPrice).
		Msg("Added watchlist item")
	return nil
}

// Items returns a copy of the current watchlist in insertion order
func (s *Store) Items() []Item {
	s.mu.Lock()
	defer s.mu.Unlock()

	items := make([]Item, len(s.items))
	copy(items, s.items)
	return items
}

// Len returns the number of watched items
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}

// save writes the full, indented document. Caller must hold the mutex.
func (s *Store) save() error {
	items := s.items
	if items == nil {
		items = []Item{}
	}

	data, err := json.MarshalIndent(items, "", "  ")
	if err != nil {
		return apperr.NewStorage("watchlist", "failed to serialize watchlist", err)
	}

	if err := os.WriteFile(s.path, data, 0o644); err != nil {
		return apperr.NewStorage("watchlist", "failed to write watchlist file", err)
	}
	return nil
}
