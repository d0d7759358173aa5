// corefprep encodes jsonlines coreference corpora into subword-aligned
// documents, assembles training batches and caches them on disk.
//
// Usage:
//
//	corefprep -tokenizer tokenizer.model [flags] corpus.jsonl...
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/charmbracelet/lipgloss"
	"k8s.io/klog/v2"

	"github.com/corefkit/corefkit/batchcache"
	"github.com/corefkit/corefkit/collate"
	"github.com/corefkit/corefkit/dataset"
	"github.com/corefkit/corefkit/split"
	"github.com/corefkit/corefkit/store"
	"github.com/corefkit/corefkit/tokenizers/sentencepiece"
)

var (
	tokenizerPath = flag.String("tokenizer", "", "path to the SentencePiece tokenizer.model file (required)")
	cacheDir      = flag.String("cache-dir", "cache", "directory holding persisted batch collections")
	collatorKind  = flag.String("collator", "segment", "collator kind: segment or pad")
	maxTokens     = flag.Int("max-tokens", 5000, "subword token budget per batch")
	segmentLen    = flag.Int("segment-len", collate.DefaultMaxSegmentLen, "segment length for the segment collator")
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	labelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("8")).Width(12)
)

func main() {
	klog.InitFlags(nil)
	flag.Parse()
	if err := run(flag.Args()); err != nil {
		klog.Errorf("corefprep: %+v", err)
		os.Exit(1)
	}
}

func run(files []string) error {
	if *tokenizerPath == "" || len(files) == 0 {
		flag.Usage()
		return fmt.Errorf("a -tokenizer model and at least one corpus file are required")
	}
	if *segmentLen <= 0 {
		return fmt.Errorf("-segment-len must be positive, got %d", *segmentLen)
	}
	if *maxTokens <= 0 {
		return fmt.Errorf("-max-tokens must be positive, got %d", *maxTokens)
	}

	tok, err := sentencepiece.NewFromPath(*tokenizerPath)
	if err != nil {
		return err
	}

	var collator collate.Collator
	switch *collatorKind {
	case "segment":
		collator = &collate.SegmentCollator{MaxSegmentLen: *segmentLen, PadID: tok.PadID()}
	case "pad":
		collator = &collate.PadCollator{PadID: tok.PadID()}
	default:
		return fmt.Errorf("unknown -collator %q (want segment or pad)", *collatorKind)
	}

	logger := klog.Background()
	docs, err := dataset.Build(logger, tok, split.Words{}, files...)
	if err != nil {
		return err
	}

	sampler := collate.NewDynamicSampler(docs, collator, *maxTokens)
	batches, err := batchcache.Create(logger, store.Parquet{}, sampler, files, *cacheDir)
	if err != nil {
		return err
	}

	fmt.Println(titleStyle.Render("corefprep"))
	fmt.Printf("%s %d\n", labelStyle.Render("documents"), len(docs))
	fmt.Printf("%s %d\n", labelStyle.Render("batches"), batches.Len())
	fmt.Printf("%s %s\n", labelStyle.Render("collator"), *collatorKind)
	fmt.Printf("%s %s\n", labelStyle.Render("cache dir"), *cacheDir)
	return nil
}
