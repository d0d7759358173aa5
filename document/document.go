// Package document models raw coreference records and their normalization
// into word sequences ready for alignment.
//
// Records arrive as jsonlines with duck-typed optional fields; decoding fills
// every field with a typed default so nothing downstream has to re-check
// shapes.
package document

import (
	"github.com/corefkit/corefkit/align"
	"github.com/pkg/errors"
)

// ErrMissingContent reports a record carrying none of text, sentences or
// tokens. It indicates malformed input data and aborts the whole run, not
// just the offending record.
var ErrMissingContent = errors.New("record has none of text, sentences or tokens")

// Splitter produces a surface word sequence from raw free text. It is only
// consulted when text is the sole content field of a record.
type Splitter interface {
	Split(text string) []string
}

// SpeakerList decodes either a flat speaker list or the legacy
// sentence-grouped form (flattened on decode, mirroring how sentence-grouped
// word lists are flattened).
type SpeakerList []string

// Record is one raw coreference document. Optional jsonlines fields default
// to the zero value of their type.
type Record struct {
	DocKey    string          `json:"doc_key"`
	Text      string          `json:"text"`
	Sentences [][]string      `json:"sentences"`
	Tokens    []string        `json:"tokens"`
	Speakers  SpeakerList     `json:"speakers"`
	Clusters  []align.Cluster `json:"clusters"`
}

// Normalize fills Tokens from the highest-priority content source:
// an explicit token list, else flattened sentence-grouped tokens (a legacy
// corpus format), else the splitter run over raw text. Records with no
// content at all fail with ErrMissingContent.
func (r *Record) Normalize(split Splitter) error {
	switch {
	case len(r.Tokens) > 0:
		// Already word-level.
	case len(r.Sentences) > 0:
		var tokens []string
		for _, sentence := range r.Sentences {
			tokens = append(tokens, sentence...)
		}
		r.Tokens = tokens
	case r.Text != "":
		if split == nil {
			return errors.Errorf("record %q has only text but no splitter is configured", r.DocKey)
		}
		r.Tokens = split.Split(r.Text)
	default:
		return errors.Wrapf(ErrMissingContent, "record %q", r.DocKey)
	}
	return nil
}
