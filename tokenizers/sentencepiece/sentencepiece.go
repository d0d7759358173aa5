// Package sentencepiece implements an api.WordEncoder based on the
// SentencePiece tokenizer by Google.
package sentencepiece

import (
	esentencepiece "github.com/eliben/go-sentencepiece"
	"github.com/pkg/errors"

	"github.com/corefkit/corefkit/tokenizers/api"
)

// Tokenizer encodes word sequences with a SentencePiece model while
// tracking which subwords each word produced.
type Tokenizer struct {
	proc *esentencepiece.Processor
	info *esentencepiece.ModelInfo
}

// Compile time assert that sentencepiece.Tokenizer implements api.WordEncoder.
var _ api.WordEncoder = &Tokenizer{}

// NewFromPath creates the tokenizer from a SentencePiece model proto file.
func NewFromPath(path string) (*Tokenizer, error) {
	proc, err := esentencepiece.NewProcessorFromPath(path)
	if err != nil {
		return nil, errors.Wrapf(err, "can't create sentencepiece tokenizer from %q", path)
	}
	return &Tokenizer{proc: proc, info: proc.ModelInfo()}, nil
}

// EncodeWords implements api.WordEncoder. Each word is encoded on its own
// (with the inter-word space restored for all but the first word, so pieces
// keep their word-initial form) and the whole sequence is framed with BOS
// and EOS. A word the model maps to no pieces encodes as the unknown id, so
// every word span stays non-empty.
func (t *Tokenizer) EncodeWords(words []string) (*api.Encoding, error) {
	ids := []int{t.info.BeginningOfSentenceID}
	wordIDs := []int{-1}
	spans := make([]api.TokenSpan, len(words))

	for i, word := range words {
		text := word
		if i > 0 {
			text = " " + word
		}
		start := len(ids)
		for _, token := range t.proc.Encode(text) {
			ids = append(ids, token.ID)
			wordIDs = append(wordIDs, i)
		}
		if len(ids) == start {
			ids = append(ids, t.info.UnknownID)
			wordIDs = append(wordIDs, i)
		}
		spans[i] = api.TokenSpan{Start: start, End: len(ids)}
	}

	ids = append(ids, t.info.EndOfSentenceID)
	wordIDs = append(wordIDs, -1)

	return &api.Encoding{
		IDs:       ids,
		Length:    len(ids),
		WordSpans: spans,
		WordIDs:   wordIDs,
	}, nil
}

// PadID returns the model's pad token id, used to configure collators.
func (t *Tokenizer) PadID() int {
	return t.info.PadID
}
