// Package align re-tokenizes word-level coreference documents into subword
// units while losslessly remapping every cluster span into the subword
// coordinate space.
package align

import (
	"fmt"
	"slices"

	"github.com/corefkit/corefkit/tokenizers/api"
	"github.com/pkg/errors"
)

// Synthetic tokens inserted before the first word of each speaker run.
const (
	SpeakerStart = "[SPEAKER_START]"
	SpeakerEnd   = "[SPEAKER_END]"
)

// NoWord marks augmented positions that hold an inserted speaker token
// rather than an original word.
const NoWord = -1

// Span is an inclusive [Start, End] index range into a word sequence (or,
// after realignment, into a subword id sequence).
type Span struct {
	Start int
	End   int
}

// Cluster groups the spans that mention one entity.
type Cluster []Span

// Augmented is a word sequence with speaker boundary tokens inserted, plus
// the maps between original and augmented coordinates.
type Augmented struct {
	// Words is the augmented word sequence. Every original word appears
	// exactly once, in original order.
	Words []string

	// WordToAugmented maps each original position to its augmented
	// position. Strictly increasing.
	WordToAugmented []int

	// AugmentedToWord maps each augmented position back to the original
	// position, or NoWord for inserted speaker tokens.
	AugmentedToWord []int
}

// AddSpeakers inserts a SpeakerStart, speaker-id, SpeakerEnd triple before
// the first word of each maximal run of words sharing one speaker. A run
// boundary is detected strictly against the immediately preceding word's
// speaker, so a speaker returning after an interruption opens a new run.
func AddSpeakers(words, speakers []string) *Augmented {
	a := &Augmented{
		Words:           make([]string, 0, len(words)),
		WordToAugmented: make([]int, 0, len(words)),
		AugmentedToWord: make([]int, 0, len(words)),
	}
	var last string
	inRun := false
	for i, word := range words {
		if !inRun || speakers[i] != last {
			a.Words = append(a.Words, SpeakerStart, speakers[i], SpeakerEnd)
			a.AugmentedToWord = append(a.AugmentedToWord, NoWord, NoWord, NoWord)
			last = speakers[i]
			inRun = true
		}
		a.WordToAugmented = append(a.WordToAugmented, len(a.Words))
		a.AugmentedToWord = append(a.AugmentedToWord, i)
		a.Words = append(a.Words, word)
	}
	return a
}

// identity returns a no-op augmentation for documents without speakers.
func identity(words []string) *Augmented {
	a := &Augmented{
		Words:           words,
		WordToAugmented: make([]int, len(words)),
		AugmentedToWord: make([]int, len(words)),
	}
	for i := range words {
		a.WordToAugmented[i] = i
		a.AugmentedToWord[i] = i
	}
	return a
}

// AlignmentError reports a disagreement between the original words of a
// cluster span and the augmented words its mapped positions cover. It is a
// programming-invariant violation in the map construction, never a data
// problem, and is not recoverable.
type AlignmentError struct {
	Span Span
}

func (e *AlignmentError) Error() string {
	return fmt.Sprintf("augmented words disagree with original words for span [%d, %d]", e.Span.Start, e.Span.End)
}

// EncodedDocument is a word-level document re-expressed in subword
// coordinates, ready for batching.
type EncodedDocument struct {
	DocKey string

	// Tokens is the original word sequence, kept for mapping predictions
	// back to words.
	Tokens []string

	// InputIDs are the subword ids of the augmented word sequence and
	// Length is their count.
	InputIDs []int
	Length   int

	// Clusters are the input clusters with every span remapped to an
	// inclusive [first, last] subword id range.
	Clusters []Cluster

	// WordMap maps each augmented word position back to the original word
	// position, NoWord for inserted speaker tokens.
	WordMap []int

	// SubtokenMap maps each subword position to the augmented word
	// position that produced it, NoWord for special tokens.
	SubtokenMap []int

	// Derived scalars for downstream batching heuristics.
	NumClusters    int
	MaxClusterSize int
}

// Encode re-tokenizes one document. Speakers may be empty, in which case no
// augmentation happens; when present it must be position-aligned with words.
// Cluster spans index into words and come out indexing into subword ids.
//
// Encode is pure: it performs no I/O and keeps no state across calls.
func Encode(enc api.WordEncoder, words, speakers []string, clusters []Cluster) (*EncodedDocument, error) {
	var aug *Augmented
	if len(speakers) > 0 {
		if len(speakers) != len(words) {
			return nil, errors.Errorf("speaker sequence length %d does not match word sequence length %d", len(speakers), len(words))
		}
		aug = AddSpeakers(words, speakers)
		for _, cluster := range clusters {
			for _, span := range cluster {
				got := aug.Words[aug.WordToAugmented[span.Start] : aug.WordToAugmented[span.End]+1]
				if !slices.Equal(words[span.Start:span.End+1], got) {
					return nil, &AlignmentError{Span: span}
				}
			}
		}
	} else {
		aug = identity(words)
	}

	encoding, err := enc.EncodeWords(aug.Words)
	if err != nil {
		return nil, errors.Wrap(err, "subword-encoding augmented words")
	}

	realigned := make([]Cluster, len(clusters))
	for ci, cluster := range clusters {
		spans := make(Cluster, len(cluster))
		for si, span := range cluster {
			first := encoding.WordToTokens(aug.WordToAugmented[span.Start])
			last := encoding.WordToTokens(aug.WordToAugmented[span.End])
			spans[si] = Span{Start: first.Start, End: last.End - 1}
		}
		realigned[ci] = spans
	}

	maxSize := 0
	for _, cluster := range realigned {
		maxSize = max(maxSize, len(cluster))
	}

	return &EncodedDocument{
		Tokens:         words,
		InputIDs:       encoding.IDs,
		Length:         encoding.Length,
		Clusters:       realigned,
		WordMap:        aug.AugmentedToWord,
		SubtokenMap:    encoding.WordIDs,
		NumClusters:    len(realigned),
		MaxClusterSize: maxSize,
	}, nil
}
