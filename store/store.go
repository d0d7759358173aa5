// Package store persists batch collections on local storage.
//
// Collections are stored as parquet files with one row per (batch, field)
// cell, the cell payload being the canonical JSON the collection already
// holds. Writes go to a uniquely-named temporary file that is renamed into
// place, so a reader never observes a half-written collection; concurrent
// writers race with last-write-wins semantics and no locking.
package store

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/corefkit/corefkit/collate"
	"github.com/google/uuid"
	"github.com/parquet-go/parquet-go"
	"github.com/pkg/errors"
)

// ErrNotFound reports that no collection is persisted at the given path.
// It is the only persistence failure callers are expected to handle.
var ErrNotFound = errors.New("no batch collection at path")

// Store is the persistence capability the batch cache consumes.
type Store interface {
	Save(c *collate.Collection, path string) error
	Load(path string) (*collate.Collection, error)
}

// batchCell is one persisted (batch, field) cell.
type batchCell struct {
	Batch int32  `parquet:"batch"`
	Field string `parquet:"field,dict"`
	Value []byte `parquet:"value"`
}

// Parquet persists collections as parquet files.
type Parquet struct{}

var _ Store = Parquet{}

// Save writes the collection to path, creating parent directories as
// needed.
func (Parquet) Save(c *collate.Collection, path string) error {
	rows := make([]batchCell, 0, c.Len()*len(c.Fields()))
	for _, field := range c.Fields() {
		for i, cell := range c.Column(field) {
			rows = append(rows, batchCell{Batch: int32(i), Field: field, Value: cell})
		}
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errors.Wrapf(err, "creating directory for %q", path)
	}
	tmp := path + "." + uuid.NewString() + ".tmp"
	if err := parquet.WriteFile(tmp, rows); err != nil {
		os.Remove(tmp)
		return errors.Wrapf(err, "writing batch collection to %q", tmp)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return errors.Wrapf(err, "moving batch collection into place at %q", path)
	}
	return nil
}

// Load restores the collection persisted at path, or ErrNotFound if nothing
// is there. Any other failure propagates as-is.
func (Parquet) Load(path string) (*collate.Collection, error) {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrapf(ErrNotFound, "%q", path)
		}
		return nil, errors.Wrapf(err, "stat %q", path)
	}

	rows, err := parquet.ReadFile[batchCell](path)
	if err != nil {
		return nil, errors.Wrapf(err, "reading batch collection from %q", path)
	}

	counts := make(map[string]int)
	for _, row := range rows {
		counts[row.Field]++
	}
	columns := make(map[string][]json.RawMessage, len(counts))
	for field, n := range counts {
		columns[field] = make([]json.RawMessage, n)
	}
	for _, row := range rows {
		column := columns[row.Field]
		if row.Batch < 0 || int(row.Batch) >= len(column) || column[row.Batch] != nil {
			return nil, errors.Errorf("corrupt batch collection %q: bad batch index %d for field %q", path, row.Batch, row.Field)
		}
		column[row.Batch] = json.RawMessage(row.Value)
	}

	c, err := collate.Restore(columns)
	return c, errors.Wrapf(err, "restoring batch collection from %q", path)
}
