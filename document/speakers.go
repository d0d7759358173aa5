package document

import (
	"encoding/json"

	"github.com/pkg/errors"
)

// UnmarshalJSON accepts ["A", "B", ...] as well as the sentence-grouped
// [["A", "A"], ["B"], ...] form used by pre-tokenized corpora, which it
// flattens in sentence order.
func (s *SpeakerList) UnmarshalJSON(data []byte) error {
	var flat []string
	if err := json.Unmarshal(data, &flat); err == nil {
		*s = flat
		return nil
	}
	var grouped [][]string
	if err := json.Unmarshal(data, &grouped); err != nil {
		return errors.Wrap(err, "speakers must be a list of strings or a list of string lists")
	}
	var out []string
	for _, group := range grouped {
		out = append(out, group...)
	}
	*s = out
	return nil
}
