package collate

import (
	"iter"

	"github.com/corefkit/corefkit/align"
)

// DynamicSampler groups encoded documents into batches under a subword
// token budget, preserving document order. Order preservation (no shuffling)
// keeps the batch sequence deterministic, which the batch cache relies on.
type DynamicSampler struct {
	docs      []*align.EncodedDocument
	collator  Collator
	maxTokens int
}

var _ Sampler = &DynamicSampler{}

// NewDynamicSampler builds a sampler over docs. A document longer than
// maxTokens still forms its own singleton batch.
func NewDynamicSampler(docs []*align.EncodedDocument, collator Collator, maxTokens int) *DynamicSampler {
	return &DynamicSampler{docs: docs, collator: collator, maxTokens: maxTokens}
}

// Collator implements Sampler.
func (s *DynamicSampler) Collator() Collator { return s.collator }

// Len implements Sampler.
func (s *DynamicSampler) Len() int { return len(s.docs) }

// Batches implements Sampler.
func (s *DynamicSampler) Batches() iter.Seq[Batch] {
	return func(yield func(Batch) bool) {
		var group []*align.EncodedDocument
		budget := 0
		for _, doc := range s.docs {
			if len(group) > 0 && budget+doc.Length > s.maxTokens {
				if !yield(s.collator.Collate(group)) {
					return
				}
				group, budget = nil, 0
			}
			group = append(group, doc)
			budget += doc.Length
		}
		if len(group) > 0 {
			yield(s.collator.Collate(group))
		}
	}
}
