// Package inmem provides an in-memory column store for mapped entities. It is
// a very simple row-per-ID store that is safe for concurrent access.
//
// Use [Open] to create a [Store] that persists to a file on disk. The data
// within can be saved to disk by calling [Store.Persist] at appropriate times,
// and when a Store is no longer in use, [Store.Close] is called to end all
// current operations. An in-memory Store is obtained either by creating a
// &Store{} manually or calling [Import] to create one from
// previously-obtained bytes.
//
// Rows are held in their marshalled form, not as entities, so both the write
// and read paths of the mapper are exercised on every operation exactly as
// they would be against a real column store.
package inmem

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sync"

	"github.com/dekarrin/rezi/v2"
	"github.com/dekarrin/rowjam"
	"github.com/dekarrin/rowjam/tablemap"
)

// Store holds mapped entity rows keyed by ID. The zero-value is a Store with
// no rows in it ready for immediate use as an in-memory database whose
// Persist function does not save it to disk. Store must not be copied once
// created.
//
// Store is safe to use from multiple goroutines concurrently. It serializes
// access to internal storage.
type Store struct {
	// DataFile is the file on disk that the store will store state data in
	// when [Store.Persist] is called. It will be set automatically when the
	// Store is created with a call to [Open].
	//
	// If set to the empty string, calls to [Store.Persist] will have no
	// effect. This allows for in-memory database behavior.
	DataFile string

	// Mapper converts entities to rows on the way in and back on the way
	// out. The zero value is usable.
	Mapper tablemap.Mapper

	// Spec is the table specification applied to every row in the Store.
	Spec rowjam.TableSpec

	mtx    sync.RWMutex
	closed bool

	// rows is the source of truth of the Store, keyed by entity ID.
	rows map[string]rowjam.Row
}

// Open creates a new Store that will persist itself to the given data file.
// If the file already exists, its entire contents are loaded into a new
// *Store which is then returned. If the file does not exist, it will be
// created.
//
// The returned Store will have its DataFile member set to the given file.
// This does not make it so the returned Store will automatically save its
// contents to disk, rather [Store.Persist] or [Store.Close] must be called
// manually to flush it.
//
// If file is set to the empty string, the Store will be opened in in-memory
// mode and calls to Persist and Close will not write to disk.
func Open(file string) (*Store, error) {
	s := &Store{}
	if file == "" {
		return s, nil
	}

	dbData, err := os.ReadFile(file)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read file: %w", err)
	}

	if err == nil && len(dbData) > 0 {
		s, err = Import(dbData)
		if err != nil {
			return nil, fmt.Errorf("load data: %w", err)
		}
	} else if os.IsNotExist(err) {
		// quick check to see if later writing would fail due to permissions.
		f, err := os.Create(file)
		if err != nil {
			return nil, fmt.Errorf("create new: %w", err)
		}
		defer f.Close()
	}

	s.DataFile = file
	return s, nil
}

// Import converts binary bytes previously produced by [Store.Export] into a
// new in-memory *Store.
func Import(data []byte) (*Store, error) {
	s := &Store{}
	if err := s.UnmarshalBinary(data); err != nil {
		return nil, err
	}
	return s, nil
}

// MarshalBinary converts the store to a binary bytes representation of
// itself. Rows are flattened to JSON text per ID before binary encoding so
// that the snapshot format does not depend on the dynamic types inside a Row.
//
// This function is not concurrent safe; users of Store should prefer calling
// [Store.Persist] or [Store.Export], which safely obtain a lock.
func (s *Store) MarshalBinary() ([]byte, error) {
	if s == nil {
		return []byte{}, nil
	}

	flat := make(map[string]string, len(s.rows))
	for id, row := range s.rows {
		jText, err := json.Marshal(row)
		if err != nil {
			return nil, fmt.Errorf("row %s: %w", id, err)
		}
		flat[id] = string(jText)
	}

	var enc []byte
	enc = append(enc, rezi.MustEnc(flat)...)
	return enc, nil
}

// UnmarshalBinary converts a binary byte representation of a Store located at
// the start of data and uses it to set the values on the Store.
//
// This function is not concurrent safe; users of Store should prefer calling
// [Open] or [Import] to create a Store from bytes.
func (s *Store) UnmarshalBinary(data []byte) error {
	if s == nil {
		return fmt.Errorf("cannot unmarshal to nil Store")
	}

	rr, err := rezi.NewReader(bytes.NewBuffer(data), nil)
	if err != nil {
		return err
	}

	var flat map[string]string
	err = rr.Dec(&flat)
	if err != nil {
		return rezi.Wrapf(0, "rows: %s", err)
	}

	rows := make(map[string]rowjam.Row, len(flat))
	for id, jText := range flat {
		var row rowjam.Row
		if err := json.Unmarshal([]byte(jText), &row); err != nil {
			return fmt.Errorf("row %s: %w", id, err)
		}
		rows[id] = row
	}

	s.rows = rows
	return nil
}

// Export exports all data to bytes that can be later decoded with [Import].
func (s *Store) Export() ([]byte, error) {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	return s.exportUnsafe()
}

func (s *Store) exportUnsafe() ([]byte, error) {
	if s.closed {
		return nil, fmt.Errorf("operation called on closed *Store")
	}

	return s.MarshalBinary()
}

// Persist saves the data to disk if Store.DataFile is set to a non-empty
// string; if it is empty the call has no effect. Persist is not automatically
// called; the user must do so themselves at the correct frequency.
func (s *Store) Persist() error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	return s.persistUnsafe()
}

// Close runs a final Persist and marks the Store closed; all subsequent
// operations on it will fail.
func (s *Store) Close() error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	if s.closed {
		return nil
	}

	err := s.persistUnsafe()
	s.closed = true
	return err
}

// persistUnsafe does the actual work of Persist. It assumes the caller has
// acquired a write lock on the data mutex.
func (s *Store) persistUnsafe() error {
	if s.closed {
		return fmt.Errorf("operation called on closed *Store")
	}

	if s.DataFile == "" {
		// nowhere to persist to. done.
		return nil
	}

	// first, copy the old file so we have a backup in case somefin goes wrong
	buFile, err := createFileBackup(s.DataFile)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			// that's fine actually, but set buFile to empty so we know we
			// don't have one to delete later
			buFile = ""
		} else {
			return fmt.Errorf("create backup: %w", err)
		}
	}

	wf, err := os.Create(s.DataFile)
	if err != nil {
		return fmt.Errorf("create data file: %w", err)
	}
	defer wf.Close()
	w := bufio.NewWriter(wf)

	dataBytes, err := s.exportUnsafe()
	if err != nil {
		return fmt.Errorf("get data bytes: %w", err)
	}

	_, err = w.Write(dataBytes)
	if err != nil {
		return fmt.Errorf("write data: %w", err)
	}
	if err := w.Flush(); err != nil {
		return fmt.Errorf("flush data: %w", err)
	}

	if buFile != "" {
		if err := os.Remove(buFile); err != nil {
			return fmt.Errorf("remove backup: %w", err)
		}
	}

	return nil
}
