package collate

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/corefkit/corefkit/align"
)

func testDoc(key string, length int) *align.EncodedDocument {
	ids := make([]int, length)
	for i := range ids {
		ids[i] = i + 1
	}
	return &align.EncodedDocument{DocKey: key, InputIDs: ids, Length: length}
}

func TestCollection_AppendAndDecode(t *testing.T) {
	c := NewCollection()
	require.NoError(t, c.Append(Batch{"doc_key": []string{"a"}, "length": []int{3}}))
	require.NoError(t, c.Append(Batch{"doc_key": []string{"b"}, "length": []int{5}}))

	assert.Equal(t, 2, c.Len())
	assert.Equal(t, []string{"doc_key", "length"}, c.Fields())

	var keys []string
	require.NoError(t, c.Decode(1, "doc_key", &keys))
	assert.Equal(t, []string{"b"}, keys)
}

func TestCollection_RejectsInconsistentFields(t *testing.T) {
	c := NewCollection()
	require.NoError(t, c.Append(Batch{"doc_key": []string{"a"}}))
	assert.Error(t, c.Append(Batch{"doc_key": []string{"b"}, "extra": 1}))
	assert.Error(t, c.Append(Batch{"other": []string{"b"}}))
}

func TestCollection_FailedAppendLeavesNoTrace(t *testing.T) {
	c := NewCollection()
	// "length" sorts before "zz_bad", so it would be appended first if the
	// append were not atomic.
	require.Error(t, c.Append(Batch{"length": []int{1}, "zz_bad": make(chan int)}))

	assert.Equal(t, 0, c.Len())
	assert.Empty(t, c.Column("length"))

	require.NoError(t, c.Append(Batch{"length": []int{1}, "zz_bad": 0}))
	assert.Equal(t, 1, c.Len())
	assert.Len(t, c.Column("length"), 1)
}

func TestCollection_Restore(t *testing.T) {
	c, err := Restore(map[string][]json.RawMessage{
		"doc_key": {json.RawMessage(`["a"]`), json.RawMessage(`["b"]`)},
		"length":  {json.RawMessage(`[3]`), json.RawMessage(`[5]`)},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, c.Len())

	_, err = Restore(map[string][]json.RawMessage{
		"doc_key": {json.RawMessage(`["a"]`)},
		"length":  {},
	})
	assert.Error(t, err)
}

func TestCollection_DecodeErrors(t *testing.T) {
	c := NewCollection()
	require.NoError(t, c.Append(Batch{"length": []int{1}}))

	var out []int
	assert.Error(t, c.Decode(0, "missing", &out))
	assert.Error(t, c.Decode(5, "length", &out))
}

func TestPadCollator(t *testing.T) {
	collator := &PadCollator{PadID: 9}
	batch := collator.Collate([]*align.EncodedDocument{testDoc("a", 3), testDoc("b", 5)})

	assert.Equal(t, []string{"a", "b"}, batch["doc_key"])
	assert.Equal(t, [][]int{{1, 2, 3, 9, 9}, {1, 2, 3, 4, 5}}, batch["input_ids"])
	assert.Equal(t, [][]int{{1, 1, 1, 0, 0}, {1, 1, 1, 1, 1}}, batch["attention_mask"])
	assert.Equal(t, []int{3, 5}, batch["length"])
}

func TestSegmentCollator(t *testing.T) {
	collator := &SegmentCollator{MaxSegmentLen: 2, PadID: 9}
	batch := collator.Collate([]*align.EncodedDocument{testDoc("a", 5)})

	assert.Equal(t, [][][]int{{{1, 2}, {3, 4}}}, batch["input_ids"])
	assert.Equal(t, [][]int{{5, 9}}, batch["leftovers_input_ids"])
	assert.Equal(t, [][]int{{1, 0}}, batch["leftovers_attention_mask"])
}

func TestSegmentCollator_ExactMultiple(t *testing.T) {
	collator := &SegmentCollator{MaxSegmentLen: 2, PadID: 9}
	batch := collator.Collate([]*align.EncodedDocument{testDoc("a", 4)})

	assert.Equal(t, [][][]int{{{1, 2}, {3, 4}}}, batch["input_ids"])
	// No leftover: the whole segment is padding.
	assert.Equal(t, [][]int{{9, 9}}, batch["leftovers_input_ids"])
	assert.Equal(t, [][]int{{0, 0}}, batch["leftovers_attention_mask"])
}

func TestSegmentCollator_NonPositiveLengthUsesDefault(t *testing.T) {
	collator := &SegmentCollator{MaxSegmentLen: 0, PadID: 9}
	batch := collator.Collate([]*align.EncodedDocument{testDoc("a", 3)})

	// The whole document fits in one default-length leftover segment.
	assert.Equal(t, [][][]int{{}}, batch["input_ids"])
	leftovers := batch["leftovers_input_ids"].([][]int)
	require.Len(t, leftovers, 1)
	assert.Len(t, leftovers[0], DefaultMaxSegmentLen)
	assert.Equal(t, []int{1, 2, 3}, leftovers[0][:3])
}

func TestDynamicSampler_Budget(t *testing.T) {
	docs := []*align.EncodedDocument{testDoc("a", 3), testDoc("b", 3), testDoc("c", 5)}
	sampler := NewDynamicSampler(docs, &PadCollator{}, 6)

	var batches []Batch
	for batch := range sampler.Batches() {
		batches = append(batches, batch)
	}
	require.Len(t, batches, 2)
	assert.Equal(t, []string{"a", "b"}, batches[0]["doc_key"])
	assert.Equal(t, []string{"c"}, batches[1]["doc_key"])
	assert.Equal(t, 3, sampler.Len())
}

func TestDynamicSampler_OversizedDocIsSingleton(t *testing.T) {
	docs := []*align.EncodedDocument{testDoc("big", 100), testDoc("small", 1)}
	sampler := NewDynamicSampler(docs, &PadCollator{}, 10)

	var batches []Batch
	for batch := range sampler.Batches() {
		batches = append(batches, batch)
	}
	require.Len(t, batches, 2)
	assert.Equal(t, []string{"big"}, batches[0]["doc_key"])
}
