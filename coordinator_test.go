package main

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func newQuietTracker(totalFiles int) *ProgressTracker {
	tracker := NewProgressTracker(totalFiles)
	tracker.out = io.Discard
	return tracker
}

func populateTree(t *testing.T, fileSizes map[string]int) string {
	t.Helper()
	rootDir := t.TempDir()
	for name, size := range fileSizes {
		filePath := filepath.Join(rootDir, name)
		assert.Nil(t, os.MkdirAll(filepath.Dir(filePath), os.ModePerm))
		assert.Nil(t, os.WriteFile(filePath, make([]byte, size), 0644))
	}
	return rootDir
}

func TestSplitChunksCoversEveryFile(t *testing.T) {
	batch := make([]FileRecord, 10)
	for i := range batch {
		batch[i] = FileRecord{Key: string(rune('a' + i))}
	}

	chunks := splitChunks(batch, 4)

	assert.Len(t, chunks, 4)
	total := 0
	for _, chunk := range chunks {
		assert.NotEmpty(t, chunk)
		total += len(chunk)
	}
	assert.Equal(t, 10, total)
	assert.Equal(t, "a", chunks[0][0].Key)
	assert.Equal(t, "j", chunks[3][0].Key)
}

func TestSplitChunksFewerFilesThanWorkers(t *testing.T) {
	batch := []FileRecord{{Key: "a"}, {Key: "b"}}

	chunks := splitChunks(batch, 8)

	assert.Len(t, chunks, 2)
	assert.Len(t, chunks[0], 1)
	assert.Len(t, chunks[1], 1)
}

func TestRunBackupAggregatesAcrossBatches(t *testing.T) {
	rootDir := populateTree(t, map[string]int{
		"a.jpg":     5,
		"b.jpg":     6,
		"c.jpg":     7,
		"sub/d.jpg": 8,
		"sub/e.jpg": 9,
	})
	mockClient := NewMockClient(map[string]ObjectInfo{
		"b.jpg":     {Size: 6},
		"sub/e.jpg": {Size: 9},
	})
	appConfig := AppConfig{Bucket: "not-real-bucket", BatchSize: 2, Workers: 2}
	verifier := newTestVerifier(mockClient, appConfig)
	files := scanFiles(rootDir, nil)

	stats := runBackup(context.Background(), verifier, files, appConfig, newQuietTracker(len(files)))

	assert.Equal(t, 5, stats.TotalFilesScanned)
	assert.Equal(t, 3, stats.FilesUploaded)
	assert.Equal(t, 2, stats.FilesAlreadyStored)
	assert.Equal(t, 0, stats.Failures())
	assert.Equal(t, int64(5+7+8), stats.TotalBytesUploaded)
}

func TestRunBackupIsIdempotent(t *testing.T) {
	rootDir := populateTree(t, map[string]int{
		"a.jpg":     5,
		"sub/b.jpg": 6,
	})
	mockClient := NewMockClient(nil)
	appConfig := AppConfig{Bucket: "not-real-bucket", BatchSize: 100, Workers: 4}
	files := scanFiles(rootDir, nil)

	firstRun := runBackup(context.Background(), newTestVerifier(mockClient, appConfig), files, appConfig, newQuietTracker(len(files)))
	assert.Equal(t, 2, firstRun.FilesUploaded)
	assert.Equal(t, 0, firstRun.Failures())

	// second run against the now-populated bucket with a cold cache
	secondRun := runBackup(context.Background(), newTestVerifier(mockClient, appConfig), files, appConfig, newQuietTracker(len(files)))
	assert.Equal(t, 2, secondRun.TotalFilesScanned)
	assert.Equal(t, 0, secondRun.FilesUploaded)
	assert.Equal(t, 2, secondRun.FilesAlreadyStored)
	assert.Equal(t, 0, secondRun.Failures())
}

func TestRunBackupCancelledBeforeDispatch(t *testing.T) {
	rootDir := populateTree(t, map[string]int{"a.jpg": 5})
	mockClient := NewMockClient(nil)
	appConfig := AppConfig{Bucket: "not-real-bucket", BatchSize: 100, Workers: 4}
	verifier := newTestVerifier(mockClient, appConfig)
	files := scanFiles(rootDir, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	stats := runBackup(ctx, verifier, files, appConfig, newQuietTracker(len(files)))

	assert.Equal(t, 0, stats.TotalFilesScanned)
	assert.Len(t, mockClient.UploadRequests, 0)
}

func TestChunkFailureIsolatedToChunk(t *testing.T) {
	// a verifier with no gateway panics inside the chunk; the wrapper
	// must turn that into a fully-failed chunk instead of crashing
	brokenVerifier := &Verifier{bucket: "not-real-bucket"}
	chunk := []FileRecord{{Key: "a"}, {Key: "b"}, {Key: "c"}}

	stats := processChunkSafely(brokenVerifier, chunk)

	assert.Equal(t, 3, stats.TotalFilesScanned)
	assert.Equal(t, 3, stats.ScanErrors)
}

func TestFileWithoutInfoCountsAsScanError(t *testing.T) {
	mockClient := NewMockClient(nil)
	verifier := newTestVerifier(mockClient, AppConfig{Bucket: "not-real-bucket"})

	stats := verifier.processChunk([]FileRecord{{LocalPath: "/nope", Key: "nope"}})

	assert.Equal(t, 1, stats.ScanErrors)
	assert.Equal(t, 0, stats.FilesUploaded)
}
