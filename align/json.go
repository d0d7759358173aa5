package align

import (
	"encoding/json"

	"github.com/pkg/errors"
)

// Spans travel as two-element [start, end] arrays, both in jsonlines corpora
// and in persisted batch collections.

// MarshalJSON encodes the span as [start, end].
func (s Span) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]int{s.Start, s.End})
}

// UnmarshalJSON decodes a [start, end] pair.
func (s *Span) UnmarshalJSON(data []byte) error {
	var pair [2]int
	if err := json.Unmarshal(data, &pair); err != nil {
		return errors.Wrap(err, "span must be a [start, end] pair")
	}
	s.Start, s.End = pair[0], pair[1]
	return nil
}
