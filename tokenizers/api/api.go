// Package api defines the word-level subword encoder API.
// It's a separate package so that consumers of the alignment code can depend
// on the capability without pulling in any concrete tokenizer implementation.
package api

// TokenSpan is the half-open range of subword positions that a single input
// word expanded into: Encoding.IDs[span.Start:span.End] are the word's
// subwords. Start == End means the word produced no subwords, which concrete
// encoders are expected to avoid (e.g. by falling back to the unknown id).
type TokenSpan struct {
	Start int // first subword position (inclusive)
	End   int // one past the last subword position (exclusive)
}

// Encoding is the result of subword-encoding a pre-split word sequence with
// word-boundary tracking.
type Encoding struct {
	// IDs are the subword ids, including any special framing tokens the
	// encoder adds (BOS/EOS, CLS/SEP, ...).
	IDs []int

	// Length is len(IDs), kept as a separate field because downstream
	// batching heuristics consume it directly.
	Length int

	// WordSpans has one entry per input word: the subword range the word
	// expanded into.
	WordSpans []TokenSpan

	// WordIDs has one entry per subword: the input word position that
	// produced it, or -1 for special tokens that belong to no word.
	WordIDs []int
}

// WordToTokens returns the subword range covering the given input word.
func (e *Encoding) WordToTokens(word int) TokenSpan {
	return e.WordSpans[word]
}

// WordEncoder encodes a word sequence that is already split into words,
// tracking which contiguous run of subwords each word produced.
//
// Implementations must keep every word's subwords contiguous and in word
// order, so that WordSpans is non-decreasing across words.
type WordEncoder interface {
	EncodeWords(words []string) (*Encoding, error)
}
