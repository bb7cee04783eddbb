// Package sessionstore implements session.RecordStore on top of a flat
// JSON file and on top of sqlite.
package sessionstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/andrebq/authbox/session"
)

type (
	// File keeps session records in a JSON document. Many processes can
	// share the same file, the last Save wins.
	File struct {
		path string

		mu      sync.Mutex
		records map[string]session.Record
	}
)

func NewFile(path string) *File {
	return &File{
		path:    path,
		records: make(map[string]session.Record),
	}
}

// Load replaces the in-memory records with the content of the file, a
// missing file is the same as an empty one.
func (f *File) Load(_ context.Context) error {
	buf, err := os.ReadFile(f.path)
	if errors.Is(err, fs.ErrNotExist) {
		f.mu.Lock()
		f.records = make(map[string]session.Record)
		f.mu.Unlock()
		return nil
	} else if err != nil {
		return fmt.Errorf("unable to read session records from %v, cause %w", f.path, err)
	}
	records := make(map[string]session.Record)
	if len(buf) > 0 {
		err = json.Unmarshal(buf, &records)
		if err != nil {
			return fmt.Errorf("unable to decode session records from %v, cause %w", f.path, err)
		}
	}
	f.mu.Lock()
	f.records = records
	f.mu.Unlock()
	return nil
}

// Save writes all records to a temporary file and renames it over the
// previous one.
func (f *File) Save(_ context.Context) error {
	f.mu.Lock()
	buf, err := json.Marshal(f.records)
	f.mu.Unlock()
	if err != nil {
		return fmt.Errorf("unable to encode session records, cause %w", err)
	}
	dir := filepath.Dir(f.path)
	tmp, err := os.CreateTemp(dir, filepath.Base(f.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("unable to create temporary file in %v, cause %w", dir, err)
	}
	defer os.Remove(tmp.Name())
	_, err = tmp.Write(buf)
	if err != nil {
		tmp.Close()
		return fmt.Errorf("unable to write session records, cause %w", err)
	}
	err = tmp.Close()
	if err != nil {
		return fmt.Errorf("unable to write session records, cause %w", err)
	}
	err = os.Rename(tmp.Name(), f.path)
	if err != nil {
		return fmt.Errorf("unable to replace %v, cause %w", f.path, err)
	}
	return nil
}

func (f *File) Search(_ context.Context, filter session.RecordFilter) ([]session.Record, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if filter.SessionID != "" {
		r, ok := f.records[filter.SessionID]
		if !ok || !filter.Match(r) {
			return nil, nil
		}
		return []session.Record{r}, nil
	}
	var out []session.Record
	for _, r := range f.records {
		if filter.Match(r) {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (f *File) Add(_ context.Context, r session.Record) error {
	if len(r.SessionID) == 0 {
		return errors.New("session record without a session id")
	}
	f.mu.Lock()
	f.records[r.SessionID] = r
	f.mu.Unlock()
	return nil
}

func (f *File) Remove(_ context.Context, r session.Record) error {
	f.mu.Lock()
	delete(f.records, r.SessionID)
	f.mu.Unlock()
	return nil
}
