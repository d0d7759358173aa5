package store

import (
	"path/filepath"
	"testing"

	"github.com/parquet-go/parquet-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/corefkit/corefkit/collate"
)

func TestParquet_RoundTrip(t *testing.T) {
	c := collate.NewCollection()
	require.NoError(t, c.Append(collate.Batch{
		"doc_key":   []string{"a", "b"},
		"input_ids": [][]int{{1, 2, 3}, {4, 5, 0}},
	}))
	require.NoError(t, c.Append(collate.Batch{
		"doc_key":   []string{"c"},
		"input_ids": [][]int{{7}},
	}))

	path := filepath.Join(t.TempDir(), "batches", "abc123")
	require.NoError(t, Parquet{}.Save(c, path))

	loaded, err := Parquet{}.Load(path)
	require.NoError(t, err)
	assert.Equal(t, c.Len(), loaded.Len())
	assert.Equal(t, c.Fields(), loaded.Fields())
	for _, field := range c.Fields() {
		assert.Equal(t, c.Column(field), loaded.Column(field), "field %q", field)
	}

	var ids [][]int
	require.NoError(t, loaded.Decode(1, "input_ids", &ids))
	assert.Equal(t, [][]int{{7}}, ids)
}

func TestParquet_NotFound(t *testing.T) {
	_, err := Parquet{}.Load(filepath.Join(t.TempDir(), "nothing-here"))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestParquet_CorruptBatchIndex(t *testing.T) {
	tests := []struct {
		name string
		rows []batchCell
	}{
		{"negative index", []batchCell{{Batch: -1, Field: "length", Value: []byte(`[1]`)}}},
		{"duplicate index", []batchCell{
			{Batch: 0, Field: "length", Value: []byte(`[1]`)},
			{Batch: 0, Field: "length", Value: []byte(`[2]`)},
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "corrupt")
			require.NoError(t, parquet.WriteFile(path, tt.rows))

			_, err := Parquet{}.Load(path)
			require.Error(t, err)
			assert.NotErrorIs(t, err, ErrNotFound)
		})
	}
}

func TestParquet_Overwrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "batches")

	first := collate.NewCollection()
	require.NoError(t, first.Append(collate.Batch{"length": []int{1}}))
	require.NoError(t, Parquet{}.Save(first, path))

	second := collate.NewCollection()
	require.NoError(t, second.Append(collate.Batch{"length": []int{2}}))
	require.NoError(t, second.Append(collate.Batch{"length": []int{3}}))
	require.NoError(t, Parquet{}.Save(second, path))

	loaded, err := Parquet{}.Load(path)
	require.NoError(t, err)
	assert.Equal(t, 2, loaded.Len())
}
