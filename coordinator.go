package main

import (
	"context"
	"fmt"
	"sync"

	log "github.com/sirupsen/logrus"
)

// runBackup drives the whole reconciliation: files are processed in
// fixed-size batches, each batch split into one contiguous chunk per
// worker. Chunks within a batch run concurrently; the batch boundary is
// a barrier, so only one batch is in flight at a time. A cancelled
// context stops dispatch before the next batch or chunk; in-flight
// chunks finish naturally.
func runBackup(ctx context.Context, verifier *Verifier, files []FileRecord, appConfig AppConfig, tracker *ProgressTracker) BackupStats {
	totalStats := BackupStats{}
	statsLock := new(sync.Mutex)

	batchSize := appConfig.BatchSize
	if batchSize < 1 {
		batchSize = 1
	}

	log.Info(fmt.Sprintf("Processing %d files in batches of %d...", len(files), batchSize))

	for batchStart := 0; batchStart < len(files); batchStart += batchSize {
		if ctx.Err() != nil {
			log.Warn("Cancellation requested, stopping batch dispatch")
			break
		}

		batchEnd := batchStart + batchSize
		if batchEnd > len(files) {
			batchEnd = len(files)
		}
		batch := files[batchStart:batchEnd]

		var wg sync.WaitGroup
		for _, chunk := range splitChunks(batch, appConfig.Workers) {
			if ctx.Err() != nil {
				break
			}
			wg.Add(1)
			go func(chunk []FileRecord) {
				defer wg.Done()
				chunkStats := processChunkSafely(verifier, chunk)

				statsLock.Lock()
				totalStats = totalStats.Add(chunkStats)
				statsLock.Unlock()
				tracker.Update(len(chunk))
			}(chunk)
		}
		wg.Wait()
	}

	return totalStats
}

// processChunkSafely converts an unexpected chunk failure into a
// fully-failed chunk result so sibling chunks keep running and nothing
// is silently dropped.
func processChunkSafely(verifier *Verifier, chunk []FileRecord) (stats BackupStats) {
	defer func() {
		if r := recover(); r != nil {
			log.Error(fmt.Sprintf("Error processing chunk of %d files: %v", len(chunk), r))
			stats = BackupStats{TotalFilesScanned: len(chunk), ScanErrors: len(chunk)}
		}
	}()

	return verifier.processChunk(chunk)
}

// splitChunks divides a batch into at most workers contiguous,
// roughly-equal chunks. Every file lands in exactly one chunk.
func splitChunks(batch []FileRecord, workers int) [][]FileRecord {
	if workers < 1 {
		workers = 1
	}
	chunkSize := (len(batch) + workers - 1) / workers
	if chunkSize < 1 {
		chunkSize = 1
	}

	chunks := make([][]FileRecord, 0, workers)
	for start := 0; start < len(batch); start += chunkSize {
		end := start + chunkSize
		if end > len(batch) {
			end = len(batch)
		}
		chunks = append(chunks, batch[start:end])
	}

	return chunks
}
