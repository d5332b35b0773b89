package storage

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"github.com/mverma/stride/internal/models"
)

// SQLiteStore keeps the cache in a sqlite database. Entries are stored as
// JSON blobs per (user, date): the client never queries inside an entry,
// it only replays the last successful fetch, so a relational schema would
// buy nothing here.
type SQLiteStore struct {
	path string
	db   *sql.DB
}

func NewSQLiteStore(path string) *SQLiteStore {
	return &SQLiteStore{path: path}
}

const schema = `
CREATE TABLE IF NOT EXISTS users (
	id        INTEGER PRIMARY KEY,
	position  INTEGER NOT NULL,
	name      TEXT NOT NULL,
	image_url TEXT NOT NULL DEFAULT ''
);
CREATE TABLE IF NOT EXISTS entries (
	user_id INTEGER NOT NULL,
	date    TEXT NOT NULL,
	body    TEXT NOT NULL,
	PRIMARY KEY (user_id, date)
);
CREATE TABLE IF NOT EXISTS aggregates (
	user_id INTEGER PRIMARY KEY,
	body    TEXT NOT NULL
);
`

func (s *SQLiteStore) Init() error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create cache directory: %w", err)
	}

	db, err := sql.Open("sqlite", s.path)
	if err != nil {
		return fmt.Errorf("failed to open cache database: %w", err)
	}
	s.db = db

	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("failed to create cache schema: %w", err)
	}
	return nil
}

func (s *SQLiteStore) Load() error {
	if s.db != nil {
		return nil
	}
	// The cache is created on demand, unlike an authoritative store
	return s.Init()
}

func (s *SQLiteStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func (s *SQLiteStore) SaveUsers(users []models.User) error {
	if err := s.Load(); err != nil {
		return err
	}
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM users`); err != nil {
		return err
	}
	for i, u := range users {
		if _, err := tx.Exec(
			`INSERT INTO users (id, position, name, image_url) VALUES (?, ?, ?, ?)`,
			u.ID, i, u.Name, u.ImageURL,
		); err != nil {
			return err
		}
	}
	return tx.Commit()
}

func (s *SQLiteStore) GetUsers() ([]models.User, error) {
	if err := s.Load(); err != nil {
		return nil, err
	}
	rows, err := s.db.Query(`SELECT id, name, image_url FROM users ORDER BY position`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []models.User
	for rows.Next() {
		var u models.User
		if err := rows.Scan(&u.ID, &u.Name, &u.ImageURL); err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

func (s *SQLiteStore) SaveEntries(userID int, entries []models.ProgressEntry) error {
	if err := s.Load(); err != nil {
		return err
	}
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM entries WHERE user_id = ?`, userID); err != nil {
		return err
	}
	for _, e := range entries {
		body, err := json.Marshal(e)
		if err != nil {
			return fmt.Errorf("failed to encode entry: %w", err)
		}
		if _, err := tx.Exec(
			`INSERT INTO entries (user_id, date, body) VALUES (?, ?, ?)`,
			userID, e.Date, string(body),
		); err != nil {
			return err
		}
	}
	return tx.Commit()
}

func (s *SQLiteStore) GetEntries(userID int) ([]models.ProgressEntry, error) {
	if err := s.Load(); err != nil {
		return nil, err
	}
	rows, err := s.db.Query(
		`SELECT body FROM entries WHERE user_id = ? ORDER BY date`, userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []models.ProgressEntry
	for rows.Next() {
		var body string
		if err := rows.Scan(&body); err != nil {
			return nil, err
		}
		var e models.ProgressEntry
		if err := json.Unmarshal([]byte(body), &e); err != nil {
			return nil, fmt.Errorf("failed to decode cached entry: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func (s *SQLiteStore) SaveAggregate(agg models.WeeklyAggregate) error {
	if err := s.Load(); err != nil {
		return err
	}
	body, err := json.Marshal(agg)
	if err != nil {
		return fmt.Errorf("failed to encode aggregate: %w", err)
	}
	_, err = s.db.Exec(
		`INSERT INTO aggregates (user_id, body) VALUES (?, ?)
		 ON CONFLICT (user_id) DO UPDATE SET body = excluded.body`,
		agg.UserID, string(body),
	)
	return err
}

func (s *SQLiteStore) GetAggregate(userID int) (models.WeeklyAggregate, error) {
	if err := s.Load(); err != nil {
		return models.WeeklyAggregate{}, err
	}
	var body string
	err := s.db.QueryRow(
		`SELECT body FROM aggregates WHERE user_id = ?`, userID,
	).Scan(&body)
	if err == sql.ErrNoRows {
		return models.WeeklyAggregate{}, fmt.Errorf("no cached aggregate for user %d", userID)
	}
	if err != nil {
		return models.WeeklyAggregate{}, err
	}
	var agg models.WeeklyAggregate
	if err := json.Unmarshal([]byte(body), &agg); err != nil {
		return models.WeeklyAggregate{}, fmt.Errorf("failed to decode cached aggregate: %w", err)
	}
	return agg, nil
}

func (s *SQLiteStore) GetCachePath() string {
	return s.path
}
