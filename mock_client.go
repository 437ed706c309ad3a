package main

import (
	"errors"
	"os"
	"strings"
	"sync"
)

var errTransient = errors.New("simulated transient failure")

// MockObjectClient records every request it sees and serves remote
// state from an in-memory map. Uploads and deletes mutate the map so
// multi-run tests observe a consistent bucket.
type MockObjectClient struct {
	UploadRequests []MockRequest
	DeleteRequests []MockRequest
	HeadRequests   []string

	// scriptable failures, keyed by object key
	UploadErrs map[string]error
	HeadErrs   map[string]error
	// number of times an upload fails before succeeding
	UploadFailuresLeft map[string]int

	ValidateErr error
	ListErr     error

	mockList map[string]ObjectInfo
	lock     sync.Mutex
}

type MockRequest struct {
	Bucket string
	Key    string
}

func NewMockClient(mocked map[string]ObjectInfo) *MockObjectClient {
	if mocked == nil {
		mocked = make(map[string]ObjectInfo)
	}
	return &MockObjectClient{
		UploadRequests:     make([]MockRequest, 0),
		DeleteRequests:     make([]MockRequest, 0),
		HeadRequests:       make([]string, 0),
		UploadErrs:         make(map[string]error),
		HeadErrs:           make(map[string]error),
		UploadFailuresLeft: make(map[string]int),
		mockList:           mocked,
	}
}

func (c *MockObjectClient) ValidateBucket(bucket string) error {
	return c.ValidateErr
}

func (c *MockObjectClient) ListObjects(bucket, prefix string) (map[string]ObjectInfo, error) {
	c.lock.Lock()
	defer c.lock.Unlock()

	if c.ListErr != nil {
		return nil, c.ListErr
	}
	listing := make(map[string]ObjectInfo, len(c.mockList))
	for key, objectInfo := range c.mockList {
		if prefix == "" || strings.HasPrefix(key, prefix) {
			listing[key] = objectInfo
		}
	}
	return listing, nil
}

func (c *MockObjectClient) HeadObject(bucket, key string) (ObjectInfo, bool, error) {
	c.lock.Lock()
	defer c.lock.Unlock()

	c.HeadRequests = append(c.HeadRequests, key)
	if headErr, scripted := c.HeadErrs[key]; scripted {
		return ObjectInfo{}, false, headErr
	}
	objectInfo, present := c.mockList[key]
	return objectInfo, present, nil
}

func (c *MockObjectClient) UploadFile(bucket, key string, file *os.File) error {
	c.lock.Lock()
	defer c.lock.Unlock()

	c.UploadRequests = append(c.UploadRequests, MockRequest{Bucket: bucket, Key: key})
	if left, scripted := c.UploadFailuresLeft[key]; scripted && left > 0 {
		c.UploadFailuresLeft[key] = left - 1
		return errTransient
	}
	if uploadErr, scripted := c.UploadErrs[key]; scripted {
		return uploadErr
	}

	fileInfo, statErr := file.Stat()
	if statErr != nil {
		return statErr
	}
	c.mockList[key] = ObjectInfo{Size: fileInfo.Size(), ModTime: fileInfo.ModTime()}
	return nil
}

func (c *MockObjectClient) DeleteObject(bucket, key string) error {
	c.lock.Lock()
	defer c.lock.Unlock()

	c.DeleteRequests = append(c.DeleteRequests, MockRequest{Bucket: bucket, Key: key})
	delete(c.mockList, key)
	return nil
}

// Stored reports the object currently held for key, for asserting on
// bucket state after a run.
func (c *MockObjectClient) Stored(key string) (ObjectInfo, bool) {
	c.lock.Lock()
	defer c.lock.Unlock()

	objectInfo, present := c.mockList[key]
	return objectInfo, present
}

func (c *MockObjectClient) StoredCount() int {
	c.lock.Lock()
	defer c.lock.Unlock()

	return len(c.mockList)
}
