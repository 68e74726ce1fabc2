package register

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/Austrian-Baroque-Corpus/abc-data/core/errors"
	"github.com/Austrian-Baroque-Corpus/abc-data/core/sqlite"
)

// Kind distinguishes the two register tables.
type Kind string

const (
	KindPerson Kind = "person"
	KindPlace  Kind = "place"
)

// ParseKind validates a kind selector.
func ParseKind(s string) (Kind, error) {
	switch Kind(s) {
	case KindPerson, KindPlace:
		return Kind(s), nil
	}
	return "", errors.NewValidation("kind", fmt.Sprintf("must be person or place, got %q", s))
}

// Pragmas executed after open. Issued as statements rather than DSN
// parameters because the pure Go and CGO drivers spell DSN options
// differently.
var storePragmas = []string{
	"PRAGMA journal_mode=WAL",
	"PRAGMA busy_timeout=5000",
	"PRAGMA foreign_keys=ON",
}

const storeSchema = `
CREATE TABLE IF NOT EXISTS entities (
	kind       TEXT    NOT NULL,
	entity_key TEXT    NOT NULL,
	lemma      TEXT    NOT NULL,
	variations TEXT    NOT NULL,
	total      INTEGER NOT NULL,
	PRIMARY KEY (kind, entity_key)
);
CREATE TABLE IF NOT EXISTS mentions (
	kind       TEXT    NOT NULL,
	entity_key TEXT    NOT NULL,
	file       TEXT    NOT NULL,
	count      INTEGER NOT NULL,
	PRIMARY KEY (kind, entity_key, file)
);
CREATE TABLE IF NOT EXISTS runs (
	run_id       TEXT NOT NULL PRIMARY KEY,
	generated_at TEXT NOT NULL,
	persons      INTEGER NOT NULL,
	places       INTEGER NOT NULL
);
`

// Store persists register builds in a SQLite database.
type Store struct {
	db *sql.DB
}

// OpenStore opens (and if needed initializes) a register database.
func OpenStore(path string) (*Store, error) {
	db, err := sqlite.Open(path)
	if err != nil {
		return nil, errors.NewIO("open", path, err)
	}

	for _, pragma := range storePragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, errors.NewIO("configure", path, err)
		}
	}
	if _, err := db.Exec(storeSchema); err != nil {
		db.Close()
		return nil, errors.NewIO("initialize", path, err)
	}

	return &Store{db: db}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Save replaces the stored register with the given build. The write is
// transactional: readers never observe a half-replaced register.
func (s *Store) Save(reg *Register) error {
	tx, err := s.db.Begin()
	if err != nil {
		return errors.NewIO("write", "register store", err)
	}
	defer tx.Rollback()

	for _, table := range []string{"mentions", "entities", "runs"} {
		if _, err := tx.Exec("DELETE FROM " + table); err != nil {
			return errors.NewIO("write", table, err)
		}
	}

	if err := insertEntities(tx, KindPerson, reg.Persons); err != nil {
		return err
	}
	if err := insertEntities(tx, KindPlace, reg.Places); err != nil {
		return err
	}

	_, err = tx.Exec(
		"INSERT INTO runs (run_id, generated_at, persons, places) VALUES (?, ?, ?, ?)",
		reg.RunID, reg.GeneratedAt.Format(time.RFC3339),
		len(reg.Persons), len(reg.Places),
	)
	if err != nil {
		return errors.NewIO("write", "runs", err)
	}

	return tx.Commit()
}

func insertEntities(tx *sql.Tx, kind Kind, entities []Entity) error {
	for _, e := range entities {
		variations, err := json.Marshal(e.Variations)
		if err != nil {
			return errors.NewIO("encode", e.Key, err)
		}
		_, err = tx.Exec(
			"INSERT INTO entities (kind, entity_key, lemma, variations, total) VALUES (?, ?, ?, ?, ?)",
			string(kind), e.Key, e.Lemma, string(variations), e.Total,
		)
		if err != nil {
			return errors.NewIO("write", e.Key, err)
		}
		for _, fc := range e.Files {
			_, err = tx.Exec(
				"INSERT INTO mentions (kind, entity_key, file, count) VALUES (?, ?, ?, ?)",
				string(kind), e.Key, fc.File, fc.Count,
			)
			if err != nil {
				return errors.NewIO("write", e.Key, err)
			}
		}
	}
	return nil
}

// Entity reads one stored record back with its per-file mentions.
func (s *Store) Entity(kind Kind, key string) (*Entity, error) {
	row := s.db.QueryRow(
		"SELECT lemma, variations, total FROM entities WHERE kind = ? AND entity_key = ?",
		string(kind), key,
	)

	var e Entity
	var variations string
	e.Key = key
	if err := row.Scan(&e.Lemma, &variations, &e.Total); err != nil {
		if err == sql.ErrNoRows {
			return nil, errors.NewNotFound("entity", key)
		}
		return nil, errors.NewIO("read", key, err)
	}
	if err := json.Unmarshal([]byte(variations), &e.Variations); err != nil {
		return nil, errors.NewParse("json", key, err.Error())
	}

	rows, err := s.db.Query(
		"SELECT file, count FROM mentions WHERE kind = ? AND entity_key = ? ORDER BY file",
		string(kind), key,
	)
	if err != nil {
		return nil, errors.NewIO("read", key, err)
	}
	defer rows.Close()

	for rows.Next() {
		var fc FileCount
		if err := rows.Scan(&fc.File, &fc.Count); err != nil {
			return nil, errors.NewIO("read", key, err)
		}
		e.Files = append(e.Files, fc)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewIO("read", key, err)
	}

	return &e, nil
}

// LastRun reports the run id and record counts of the stored register.
func (s *Store) LastRun() (runID string, persons, places int, err error) {
	row := s.db.QueryRow("SELECT run_id, persons, places FROM runs LIMIT 1")
	if err := row.Scan(&runID, &persons, &places); err != nil {
		if err == sql.ErrNoRows {
			return "", 0, 0, errors.NewNotFound("register run", "")
		}
		return "", 0, 0, errors.NewIO("read", "runs", err)
	}
	return runID, persons, places, nil
}
