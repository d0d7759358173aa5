package collate

import (
	"github.com/corefkit/corefkit/align"
)

// Collator assembles one batch from a group of encoded documents. Exactly
// two collator kinds are supported by the batch cache; see batchcache.Key.
type Collator interface {
	Collate(docs []*align.EncodedDocument) Batch
}

// PadCollator pads every document in a batch to the longest document's
// length, for models that attend over whole documents at once.
type PadCollator struct {
	// PadID fills positions past each document's length.
	PadID int
}

// Collate implements Collator.
func (c *PadCollator) Collate(docs []*align.EncodedDocument) Batch {
	maxLen := 0
	for _, doc := range docs {
		maxLen = max(maxLen, doc.Length)
	}

	keys := make([]string, len(docs))
	lengths := make([]int, len(docs))
	inputIDs := make([][]int, len(docs))
	mask := make([][]int, len(docs))
	clusters := make([][]align.Cluster, len(docs))
	numClusters := make([]int, len(docs))
	maxClusterSize := make([]int, len(docs))
	for i, doc := range docs {
		keys[i] = doc.DocKey
		lengths[i] = doc.Length
		inputIDs[i] = padTo(doc.InputIDs, maxLen, c.PadID)
		mask[i] = onesThenZeros(doc.Length, maxLen)
		clusters[i] = doc.Clusters
		numClusters[i] = doc.NumClusters
		maxClusterSize[i] = doc.MaxClusterSize
	}

	return Batch{
		"doc_key":          keys,
		"input_ids":        inputIDs,
		"attention_mask":   mask,
		"length":           lengths,
		"gold_clusters":    clusters,
		"num_clusters":     numClusters,
		"max_cluster_size": maxClusterSize,
	}
}

// DefaultMaxSegmentLen is used when a SegmentCollator is configured with a
// non-positive segment length.
const DefaultMaxSegmentLen = 512

// SegmentCollator cuts each document's subword ids into fixed-length
// segments; the trailing partial segment travels separately, padded, as the
// document's leftover.
type SegmentCollator struct {
	// MaxSegmentLen is the fixed segment length. Non-positive values fall
	// back to DefaultMaxSegmentLen.
	MaxSegmentLen int
	// PadID fills the leftover segment's tail.
	PadID int
}

// Collate implements Collator.
func (c *SegmentCollator) Collate(docs []*align.EncodedDocument) Batch {
	segLen := c.MaxSegmentLen
	if segLen <= 0 {
		segLen = DefaultMaxSegmentLen
	}
	keys := make([]string, len(docs))
	lengths := make([]int, len(docs))
	segments := make([][][]int, len(docs))
	segmentMask := make([][][]int, len(docs))
	leftovers := make([][]int, len(docs))
	leftoverMask := make([][]int, len(docs))
	clusters := make([][]align.Cluster, len(docs))
	for i, doc := range docs {
		keys[i] = doc.DocKey
		lengths[i] = doc.Length
		clusters[i] = doc.Clusters

		full, leftover := segment(doc.InputIDs, segLen)
		segments[i] = full
		segmentMask[i] = make([][]int, len(full))
		for j := range full {
			segmentMask[i][j] = onesThenZeros(segLen, segLen)
		}
		leftovers[i] = padTo(leftover, segLen, c.PadID)
		leftoverMask[i] = onesThenZeros(len(leftover), segLen)
	}

	return Batch{
		"doc_key":                  keys,
		"input_ids":                segments,
		"attention_mask":           segmentMask,
		"leftovers_input_ids":      leftovers,
		"leftovers_attention_mask": leftoverMask,
		"length":                   lengths,
		"gold_clusters":            clusters,
	}
}

// segment splits ids into full segLen-sized segments plus the trailing
// partial one (possibly empty). segLen must be positive.
func segment(ids []int, segLen int) (full [][]int, leftover []int) {
	full = [][]int{}
	for len(ids) >= segLen {
		full = append(full, ids[:segLen])
		ids = ids[segLen:]
	}
	return full, ids
}

func padTo(ids []int, length, padID int) []int {
	out := make([]int, length)
	copy(out, ids)
	for i := len(ids); i < length; i++ {
		out[i] = padID
	}
	return out
}

func onesThenZeros(ones, length int) []int {
	out := make([]int, length)
	for i := 0; i < ones && i < length; i++ {
		out[i] = 1
	}
	return out
}
