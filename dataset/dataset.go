// Package dataset turns jsonlines coreference corpora into encoded document
// collections ready for batching.
package dataset

import (
	"github.com/go-logr/logr"
	"github.com/pkg/errors"

	"github.com/corefkit/corefkit/align"
	"github.com/corefkit/corefkit/document"
	"github.com/corefkit/corefkit/tokenizers/api"
)

// Build reads every corpus file in order, normalizes each record into a word
// sequence and subword-encodes it. The first failing record aborts the whole
// build; a malformed record means malformed input data, not a condition to
// skip past.
func Build(logger logr.Logger, enc api.WordEncoder, split document.Splitter, paths ...string) ([]*align.EncodedDocument, error) {
	var docs []*align.EncodedDocument
	for _, path := range paths {
		records, err := document.ReadFile(path)
		if err != nil {
			return nil, err
		}
		for i := range records {
			rec := &records[i]
			if err := rec.Normalize(split); err != nil {
				return nil, err
			}
			doc, err := align.Encode(enc, rec.Tokens, rec.Speakers, rec.Clusters)
			if err != nil {
				return nil, errors.Wrapf(err, "encoding record %q", rec.DocKey)
			}
			doc.DocKey = rec.DocKey
			docs = append(docs, doc)
		}
		logger.Info("encoded corpus", "path", path, "documents", len(records))
	}
	return docs, nil
}
