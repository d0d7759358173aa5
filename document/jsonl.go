package document

import (
	"bytes"
	"encoding/json"
	"io"
	"os"
	"strconv"

	"github.com/edsrzf/mmap-go"
	"github.com/pkg/errors"
)

// ReadFile decodes a jsonlines corpus file. The file is memory-mapped, so
// large corpora are scanned without copying them through a read buffer.
func ReadFile(path string) ([]Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "opening corpus %q", path)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, errors.Wrapf(err, "stat corpus %q", path)
	}
	if info.Size() == 0 {
		return nil, nil
	}

	m, err := mmap.Map(f, mmap.RDONLY, 0)
	if err != nil {
		return nil, errors.Wrapf(err, "mmap corpus %q", path)
	}
	defer m.Unmap()

	records, err := decodeLines(m)
	return records, errors.Wrapf(err, "corpus %q", path)
}

// Read decodes a jsonlines corpus from a stream.
func Read(r io.Reader) ([]Record, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Wrap(err, "reading corpus stream")
	}
	return decodeLines(data)
}

func decodeLines(data []byte) ([]Record, error) {
	var records []Record
	for lineNo := 1; len(data) > 0; lineNo++ {
		line := data
		if nl := bytes.IndexByte(data, '\n'); nl >= 0 {
			line, data = data[:nl], data[nl+1:]
		} else {
			data = nil
		}
		line = bytes.TrimSpace(line)
		if len(line) == 0 {
			continue
		}

		var rec Record
		if err := json.Unmarshal(line, &rec); err != nil {
			return nil, errors.Wrapf(err, "line %d", lineNo)
		}
		if rec.DocKey == "" {
			// Positional key, matching the record's index in the corpus.
			rec.DocKey = strconv.Itoa(len(records))
		}
		records = append(records, rec)
	}
	return records, nil
}
