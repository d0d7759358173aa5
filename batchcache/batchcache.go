// Package batchcache avoids recomputing expensive batch assembly by
// persisting batch collections under deterministic content-derived keys.
package batchcache

import (
	"path/filepath"

	"github.com/corefkit/corefkit/collate"
	"github.com/corefkit/corefkit/fingerprint"
	"github.com/corefkit/corefkit/store"
	"github.com/go-logr/logr"
	"github.com/pkg/errors"
)

// ErrUnsupportedCollator reports a collator kind the cache has no key
// discriminator for. It is a configuration error, raised before any batch
// work begins.
var ErrUnsupportedCollator = errors.New("unsupported collator kind")

// Key derives the cache key for a corpus-files + collator pair: the
// fingerprint of the file list, suffixed with a literal naming the collator
// kind, fingerprinted again. Exactly two collator kinds are supported.
func Key(files []string, collator collate.Collator) (string, error) {
	base, err := fingerprint.Hash(files)
	if err != nil {
		return "", errors.Wrap(err, "fingerprinting corpus files")
	}
	switch collator.(type) {
	case *collate.SegmentCollator:
		base += "_segment_collator"
	case *collate.PadCollator:
		base += "_longformer_collator"
	default:
		return "", errors.Wrapf(ErrUnsupportedCollator, "%T", collator)
	}
	return fingerprint.Hash(base)
}

// Create returns the batch collection for the given corpus files and
// sampler, restoring it from cacheDir when a collection is already persisted
// under the derived key, and otherwise driving the sampler to exhaustion,
// persisting the result, and returning it.
//
// A restored collection is trusted on presence alone. The key covers the
// corpus file list and the collator kind but not the tokenizer identity or
// the files' contents, so a cache hit can be stale if either changed;
// regenerate by clearing cacheDir. Two processes racing on one key may both
// compute and overwrite the persisted collection, last write wins.
func Create(logger logr.Logger, st store.Store, sampler collate.Sampler, files []string, cacheDir string) (*collate.Collection, error) {
	key, err := Key(files, sampler.Collator())
	if err != nil {
		return nil, err
	}
	path := filepath.Join(cacheDir, key)

	c, err := st.Load(path)
	if err == nil {
		logger.Info("batches restored", "path", path, "batches", c.Len())
		return c, nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return nil, err
	}

	logger.Info("creating batches", "documents", sampler.Len())
	c = collate.NewCollection()
	for batch := range sampler.Batches() {
		if err := c.Append(batch); err != nil {
			return nil, errors.Wrap(err, "collecting batches")
		}
	}
	logger.Info("batches created", "batches", c.Len())

	logger.Info("saving batches", "path", path)
	if err := st.Save(c, path); err != nil {
		return nil, err
	}
	return c, nil
}
