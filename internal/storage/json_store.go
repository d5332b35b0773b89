package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/mverma/stride/internal/models"
)

type cacheData struct {
	Version    int                            `json:"version"`
	Users      []models.User                  `json:"users"`
	Entries    map[int][]models.ProgressEntry `json:"entries"`
	Aggregates map[int]models.WeeklyAggregate `json:"aggregates"`
}

// JSONStore keeps the cache in a single JSON file. Chosen when the cache
// path ends in .json; handy for debugging and for systems without sqlite.
type JSONStore struct {
	path string
	data *cacheData
}

func NewJSONStore(cachePath string) *JSONStore {
	return &JSONStore{path: cachePath}
}

func (s *JSONStore) Init() error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create cache directory: %w", err)
	}

	s.data = &cacheData{
		Version:    1,
		Entries:    make(map[int][]models.ProgressEntry),
		Aggregates: make(map[int]models.WeeklyAggregate),
	}
	return s.save()
}

func (s *JSONStore) Load() error {
	raw, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			// A missing cache is not an error, just empty
			return s.Init()
		}
		return fmt.Errorf("failed to read cache: %w", err)
	}

	s.data = &cacheData{}
	if err := json.Unmarshal(raw, s.data); err != nil {
		// A corrupt cache is disposable, start over
		return s.Init()
	}

	if s.data.Entries == nil {
		s.data.Entries = make(map[int][]models.ProgressEntry)
	}
	if s.data.Aggregates == nil {
		s.data.Aggregates = make(map[int]models.WeeklyAggregate)
	}
	return nil
}

func (s *JSONStore) Close() error {
	return nil
}

func (s *JSONStore) save() error {
	raw, err := json.MarshalIndent(s.data, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode cache: %w", err)
	}
	if err := os.WriteFile(s.path, raw, 0600); err != nil {
		return fmt.Errorf("failed to write cache: %w", err)
	}
	return nil
}

func (s *JSONStore) ensureLoaded() error {
	if s.data == nil {
		return s.Load()
	}
	return nil
}

func (s *JSONStore) SaveUsers(users []models.User) error {
	if err := s.ensureLoaded(); err != nil {
		return err
	}
	s.data.Users = append([]models.User(nil), users...)
	return s.save()
}

func (s *JSONStore) GetUsers() ([]models.User, error) {
	if err := s.ensureLoaded(); err != nil {
		return nil, err
	}
	return append([]models.User(nil), s.data.Users...), nil
}

func (s *JSONStore) SaveEntries(userID int, entries []models.ProgressEntry) error {
	if err := s.ensureLoaded(); err != nil {
		return err
	}
	s.data.Entries[userID] = append([]models.ProgressEntry(nil), entries...)
	return s.save()
}

func (s *JSONStore) GetEntries(userID int) ([]models.ProgressEntry, error) {
	if err := s.ensureLoaded(); err != nil {
		return nil, err
	}
	return append([]models.ProgressEntry(nil), s.data.Entries[userID]...), nil
}

func (s *JSONStore) SaveAggregate(agg models.WeeklyAggregate) error {
	if err := s.ensureLoaded(); err != nil {
		return err
	}
	s.data.Aggregates[agg.UserID] = agg
	return s.save()
}

func (s *JSONStore) GetAggregate(userID int) (models.WeeklyAggregate, error) {
	if err := s.ensureLoaded(); err != nil {
		return models.WeeklyAggregate{}, err
	}
	agg, ok := s.data.Aggregates[userID]
	if !ok {
		return models.WeeklyAggregate{}, fmt.Errorf("no cached aggregate for user %d", userID)
	}
	return agg, nil
}

func (s *JSONStore) GetCachePath() string {
	return s.path
}
