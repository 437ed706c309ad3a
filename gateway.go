package main

import (
	"fmt"
	"os"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"
)

const maxUploadAttempts = 3

var (
	// TODO: is there some better way to allow for stubbing sleeps in retry tests?
	retryBaseDelay = 1 * time.Second
)

// RemoteStatus is the cached answer to "is this key in the bucket, and
// how big is it". A probe failure is recorded as not-exists so the run
// can keep going.
type RemoteStatus struct {
	Exists bool
	Size   int64
}

// BucketGateway wraps an ObjectClient with a process-lifetime existence
// cache. Entries are never evicted; a single run only ever touches the
// scanned file set. The lock covers cache access only, never the
// network calls, so concurrent workers hold it briefly.
type BucketGateway struct {
	client ObjectClient
	cache  map[string]RemoteStatus
	lock   *sync.Mutex
}

func NewBucketGateway(client ObjectClient) *BucketGateway {
	return &BucketGateway{
		client: client,
		cache:  make(map[string]RemoteStatus),
		lock:   new(sync.Mutex),
	}
}

func cacheKey(bucket, key string) string {
	return bucket + "/" + key
}

func (g *BucketGateway) ValidateBucket(bucket string) bool {
	validateErr := g.client.ValidateBucket(bucket)
	if validateErr != nil {
		log.Error(fmt.Sprintf("Bucket validation failed for %s: %s", bucket, validateErr))
		return false
	}
	log.Info(fmt.Sprintf("Bucket %s validated successfully", bucket))

	return true
}

// Exists answers cache-first. On a miss it probes the remote; any probe
// failure other than not-found is logged and treated as not-found.
func (g *BucketGateway) Exists(bucket, key string) (bool, int64) {
	ck := cacheKey(bucket, key)

	g.lock.Lock()
	entry, cached := g.cache[ck]
	g.lock.Unlock()
	if cached {
		return entry.Exists, entry.Size
	}

	objectInfo, exists, headErr := g.client.HeadObject(bucket, key)
	if headErr != nil {
		log.Warn(fmt.Sprintf("Error checking object %s: %s", key, headErr))
		exists = false
	}

	g.lock.Lock()
	g.cache[ck] = RemoteStatus{Exists: exists, Size: objectInfo.Size}
	g.lock.Unlock()

	return exists, objectInfo.Size
}

// BatchExists resolves a set of keys, serving as many as possible from
// the cache and probing the remainder one by one.
func (g *BucketGateway) BatchExists(bucket string, keys []string) map[string]RemoteStatus {
	results := make(map[string]RemoteStatus, len(keys))
	uncachedKeys := make([]string, 0)

	g.lock.Lock()
	for _, key := range keys {
		if entry, cached := g.cache[cacheKey(bucket, key)]; cached {
			results[key] = entry
		} else {
			uncachedKeys = append(uncachedKeys, key)
		}
	}
	g.lock.Unlock()

	for _, key := range uncachedKeys {
		exists, size := g.Exists(bucket, key)
		results[key] = RemoteStatus{Exists: exists, Size: size}
	}

	return results
}

// WarmCache bulk-lists every key under prefix and marks it as existing,
// turning per-file probes into cache hits. Returns the number of
// entries loaded.
func (g *BucketGateway) WarmCache(bucket, prefix string) (int, error) {
	remoteObjects, listErr := g.client.ListObjects(bucket, prefix)
	if listErr != nil {
		return 0, listErr
	}

	g.lock.Lock()
	for key, objectInfo := range remoteObjects {
		g.cache[cacheKey(bucket, key)] = RemoteStatus{Exists: true, Size: objectInfo.Size}
	}
	g.lock.Unlock()

	return len(remoteObjects), nil
}

// Upload sends a local file to the bucket, retrying transient failures
// with exponential backoff. A stat failure on the local file gives up
// immediately without consuming a retry. On success the cache is
// updated write-through so a follow-up Exists needs no remote call.
func (g *BucketGateway) Upload(bucket, key, localPath string) (bool, int64) {
	fileInfo, statErr := os.Stat(localPath)
	if statErr != nil {
		log.Error(fmt.Sprintf("Could not get file size for %s: %s", localPath, statErr))
		return false, 0
	}
	fileSize := fileInfo.Size()

	for attempt := 1; attempt <= maxUploadAttempts; attempt++ {
		if attempt > 1 {
			time.Sleep(retryBaseDelay << (attempt - 2))
		}

		uploadErr := g.uploadOnce(bucket, key, localPath)
		if uploadErr == nil {
			g.lock.Lock()
			g.cache[cacheKey(bucket, key)] = RemoteStatus{Exists: true, Size: fileSize}
			g.lock.Unlock()

			log.Debug(fmt.Sprintf("Successfully uploaded %s (%d bytes) as key %s", localPath, fileSize, key))
			return true, fileSize
		}

		if attempt == maxUploadAttempts {
			log.Error(fmt.Sprintf("Failed to upload %s (%s) after %d attempts: %s", localPath, key, maxUploadAttempts, uploadErr))
		} else {
			log.Warn(fmt.Sprintf("Upload attempt %d for %s failed, retrying: %s", attempt, key, uploadErr))
		}
	}

	return false, 0
}

func (g *BucketGateway) uploadOnce(bucket, key, localPath string) error {
	fd, fileErr := os.Open(localPath)
	if fileErr != nil {
		return fileErr
	}
	defer fd.Close()

	return g.client.UploadFile(bucket, key, fd)
}

func (g *BucketGateway) ListObjects(bucket, prefix string) (map[string]ObjectInfo, error) {
	return g.client.ListObjects(bucket, prefix)
}

// Delete removes a remote object and drops it from the cache.
func (g *BucketGateway) Delete(bucket, key string) bool {
	delErr := g.client.DeleteObject(bucket, key)
	if delErr != nil {
		log.Warn(fmt.Sprintf("Error deleting %s: %s", key, delErr))
		return false
	}

	g.lock.Lock()
	g.cache[cacheKey(bucket, key)] = RemoteStatus{Exists: false}
	g.lock.Unlock()

	log.Info(fmt.Sprintf("Deleted %s from bucket %s", key, bucket))
	return true
}
