// Package store reads and writes the ledger document. Any historical document
// shape is upgraded through the named steps in Migrations before it is used.
package store

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/cleared-dev/pocket/internal/calendar"
	"github.com/cleared-dev/pocket/internal/id"
	"github.com/cleared-dev/pocket/internal/model"
)

// DefaultDueDay is given to cards stored without a due day.
const DefaultDueDay = 10

// Options tune how documents are upgraded.
type Options struct {
	DefaultDueDay int // 0 means DefaultDueDay
}

func (o Options) dueDay() int {
	if o.DefaultDueDay == 0 {
		return DefaultDueDay
	}
	return calendar.ClampDueDay(o.DefaultDueDay)
}

// Document is the persisted form of a state.
type Document struct {
	Version int `json:"version"`
	model.State
}

// Result describes what Load found.
type Result struct {
	State model.State
	// FromVersion is the schema version the document was stored with.
	FromVersion int
	// Applied names the migration steps that ran.
	Applied []string
	// Created is set when no document existed and the default state was used.
	Created bool
}

// Store persists one ledger document at a fixed path.
type Store struct {
	path string
	opts Options
	ids  id.Generator
}

// New returns a Store for the document at path.
func New(path string, opts Options, ids id.Generator) *Store {
	if ids == nil {
		ids = id.UUID{}
	}
	return &Store{path: path, opts: opts, ids: ids}
}

// Path returns the document location.
func (s *Store) Path() string { return s.path }

// Load reads and upgrades the document. A missing file yields DefaultState.
func (s *Store) Load() (Result, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return Result{State: DefaultState(s.ids), FromVersion: CurrentVersion, Created: true}, nil
	}
	if err != nil {
		return Result{}, fmt.Errorf("reading ledger: %w", err)
	}
	res, err := Decode(data, s.opts)
	if err != nil {
		return Result{}, fmt.Errorf("loading %s: %w", s.path, err)
	}
	return res, nil
}

// Save writes state as the current document version. The file is replaced
// atomically so a crash never leaves a partial document behind.
func (s *Store) Save(state model.State) error {
	data, err := Encode(state)
	if err != nil {
		return err
	}
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating data dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".ledger-*.json")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("writing ledger: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing ledger: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("replacing ledger: %w", err)
	}
	return nil
}

// Decode parses a document of any known version into the current state.
func Decode(data []byte, opts Options) (Result, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var doc object
	if err := dec.Decode(&doc); err != nil {
		return Result{}, fmt.Errorf("parsing document: %w", err)
	}
	if doc == nil {
		return Result{}, errors.New("parsing document: empty document")
	}

	from, err := version(doc)
	if err != nil {
		return Result{}, err
	}
	applied, err := Migrate(doc, opts)
	if err != nil {
		return Result{}, err
	}

	var cur Document
	if err := roundTrip(doc, &cur); err != nil {
		return Result{}, err
	}
	return Result{State: cur.State, FromVersion: from, Applied: applied}, nil
}

// Encode renders state as an indented current-version document.
func Encode(state model.State) ([]byte, error) {
	data, err := json.MarshalIndent(Document{Version: CurrentVersion, State: state}, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encoding ledger: %w", err)
	}
	return append(data, '\n'), nil
}
