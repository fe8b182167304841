package indexing

import (
	"fmt"
	"log/slog"
	"runtime"
	"sync"
	"time"

	"github.com/gcbaptista/abstract-retrieval/index"
	"github.com/gcbaptista/abstract-retrieval/model"
)

// BulkIndexingConfig configures parallel index building
type BulkIndexingConfig struct {
	BatchSize   int // Number of documents per worker batch
	WorkerCount int // Number of parallel workers
}

// DefaultBulkIndexingConfig returns sensible defaults for bulk indexing
func DefaultBulkIndexingConfig() BulkIndexingConfig {
	return BulkIndexingConfig{
		BatchSize:   64,
		WorkerCount: runtime.NumCPU(),
	}
}

// BulkIndexer builds an index from many documents using a pool of tokenizing workers.
type BulkIndexer struct {
	service *Service
	config  BulkIndexingConfig
}

// NewBulkIndexer creates a new bulk indexer
func NewBulkIndexer(service *Service, config BulkIndexingConfig) *BulkIndexer {
	if config.BatchSize <= 0 {
		config.BatchSize = DefaultBulkIndexingConfig().BatchSize
	}
	if config.WorkerCount <= 0 {
		config.WorkerCount = 1
	}
	return &BulkIndexer{service: service, config: config}
}

// batchResult holds the term counts of one batch of documents
type batchResult struct {
	postings  map[string]map[string]int
	processed int
	skipped   int
}

// Build produces the same index as Service.BuildIndex, tokenizing batches in parallel.
// Document identifiers are expected to be unique, as in a catalog.
func (bi *BulkIndexer) Build(docs []model.Document) (*index.InvertedIndex, error) {
	start := time.Now()

	docChan := make(chan []model.Document, bi.config.WorkerCount*2)
	resultChan := make(chan *batchResult, bi.config.WorkerCount*2)

	var wg sync.WaitGroup
	for i := 0; i < bi.config.WorkerCount; i++ {
		wg.Add(1)
		go bi.worker(docChan, resultChan, &wg)
	}

	merged := make(map[string]map[string]int)
	collectorDone := make(chan batchResult)
	go bi.resultCollector(merged, resultChan, collectorDone)

	go func() {
		defer close(docChan)
		for i := 0; i < len(docs); i += bi.config.BatchSize {
			end := min(i+bi.config.BatchSize, len(docs))
			docChan <- docs[i:end]
		}
	}()

	wg.Wait()
	close(resultChan)
	totals := <-collectorDone

	invIndex, err := index.NewInvertedIndex(merged)
	if err != nil {
		return nil, fmt.Errorf("bulk indexing failed: %w", err)
	}

	slog.Info("Bulk indexing completed",
		"documents", totals.processed,
		"skipped", totals.skipped,
		"terms", invIndex.Len(),
		"workers", bi.config.WorkerCount,
		"duration", time.Since(start))
	return invIndex, nil
}

// worker tokenizes batches of documents in parallel
func (bi *BulkIndexer) worker(docChan <-chan []model.Document, resultChan chan<- *batchResult, wg *sync.WaitGroup) {
	defer wg.Done()
	for batch := range docChan {
		resultChan <- bi.processBatch(batch)
	}
}

func (bi *BulkIndexer) processBatch(docs []model.Document) *batchResult {
	result := &batchResult{postings: make(map[string]map[string]int)}
	for _, doc := range docs {
		if !doc.HasAbstract() {
			result.skipped++
			continue
		}
		bi.service.addDocument(result.postings, doc)
		result.processed++
	}
	return result
}

// resultCollector merges batch results into merged until resultChan is closed.
func (bi *BulkIndexer) resultCollector(merged map[string]map[string]int, resultChan <-chan *batchResult, done chan<- batchResult) {
	var totals batchResult
	for result := range resultChan {
		for term, postings := range result.postings {
			target, ok := merged[term]
			if !ok {
				merged[term] = postings
				continue
			}
			for docID, count := range postings {
				target[docID] += count
			}
		}
		totals.processed += result.processed
		totals.skipped += result.skipped
	}
	done <- totals
}
