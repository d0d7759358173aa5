// Package collate assembles encoded coreference documents into training
// batches and holds the columnar batch collection that gets persisted.
//
// Collator internals are deliberately modest: what matters to the rest of
// the pipeline is their identity, which discriminates cache keys.
package collate

import (
	"encoding/json"
	"iter"
	"sort"

	"github.com/pkg/errors"
)

// Batch maps a field name to its per-document (or per-segment) values for
// one scheduling unit. Values must be JSON-serializable plain data.
type Batch map[string]any

// Sampler drives batch assembly over a fixed encoded-document collection.
// For a fixed input collection and collator configuration the yielded batch
// sequence is deterministic.
type Sampler interface {
	// Collator identifies and performs the per-batch assembly.
	Collator() Collator
	// Len is the number of documents the sampler draws from.
	Len() int
	// Batches yields every batch in order, exactly once.
	Batches() iter.Seq[Batch]
}

// Collection is an ordered sequence of batches in columnar form: each field
// name maps to the ordered list of per-batch values. Cells are held as
// canonical JSON so a persisted collection contains only primitive and
// array data, never live numeric-engine objects; a downstream reload
// rebuilds whatever numeric representation it needs via Decode.
//
// A collection is append-only while being assembled and read-only after.
type Collection struct {
	n       int
	columns map[string][]json.RawMessage
}

// NewCollection returns an empty collection.
func NewCollection() *Collection {
	return &Collection{columns: make(map[string][]json.RawMessage)}
}

// Restore rebuilds a collection from persisted columns. All columns must
// have the same length.
func Restore(columns map[string][]json.RawMessage) (*Collection, error) {
	c := &Collection{columns: make(map[string][]json.RawMessage, len(columns))}
	first := true
	for field, column := range columns {
		if first {
			c.n = len(column)
			first = false
		} else if len(column) != c.n {
			return nil, errors.Errorf("column %q has %d cells, want %d", field, len(column), c.n)
		}
		c.columns[field] = column
	}
	return c, nil
}

// Append adds one batch. Every batch must carry the same field set.
// A failed append leaves the collection unchanged.
func (c *Collection) Append(b Batch) error {
	if c.n > 0 && len(b) != len(c.columns) {
		return errors.Errorf("batch has %d fields, earlier batches had %d", len(b), len(c.columns))
	}
	fields := sortedKeys(b)
	cells := make([]json.RawMessage, len(fields))
	for i, field := range fields {
		if len(c.columns[field]) != c.n {
			return errors.Errorf("field %q was not present in earlier batches", field)
		}
		raw, err := json.Marshal(b[field])
		if err != nil {
			return errors.Wrapf(err, "marshaling field %q", field)
		}
		cells[i] = raw
	}
	for i, field := range fields {
		c.columns[field] = append(c.columns[field], cells[i])
	}
	c.n++
	return nil
}

// Len is the number of batches.
func (c *Collection) Len() int { return c.n }

// Fields lists the field names in sorted order.
func (c *Collection) Fields() []string {
	fields := make([]string, 0, len(c.columns))
	for field := range c.columns {
		fields = append(fields, field)
	}
	sort.Strings(fields)
	return fields
}

// Column returns the per-batch cells of one field.
func (c *Collection) Column(field string) []json.RawMessage {
	return c.columns[field]
}

// Decode unmarshals one cell into out, reconstructing the caller's
// representation of batch i's field.
func (c *Collection) Decode(i int, field string, out any) error {
	column, ok := c.columns[field]
	if !ok {
		return errors.Errorf("collection has no field %q", field)
	}
	if i < 0 || i >= len(column) {
		return errors.Errorf("batch index %d out of range [0, %d)", i, len(column))
	}
	return errors.Wrapf(json.Unmarshal(column[i], out), "decoding batch %d field %q", i, field)
}

func sortedKeys(b Batch) []string {
	keys := make([]string, 0, len(b))
	for k := range b {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
