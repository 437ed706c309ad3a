package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"cloud.google.com/go/storage"
	"google.golang.org/api/iterator"
)

type GCSClient struct {
	Client *storage.Client
}

func (s *GCSClient) ValidateBucket(bucketName string) error {
	_, attrsErr := s.Client.Bucket(bucketName).Attrs(context.TODO())

	return attrsErr
}

func (s *GCSClient) ListObjects(bucketName, prefix string) (map[string]ObjectInfo, error) {
	objectMap := make(map[string]ObjectInfo)
	query := &storage.Query{}
	if prefix != "" {
		query.Prefix = prefix
	}
	objIter := s.Client.Bucket(bucketName).Objects(context.TODO(), query)
	for {
		attrs, err := objIter.Next()
		if err == iterator.Done {
			break

		}
		if err != nil {
			return objectMap, fmt.Errorf("Bucket(%q).Objects: %v", bucketName, err)

		}
		objectMap[attrs.Name] = ObjectInfo{ModTime: attrs.Updated, Size: attrs.Size}
	}

	return objectMap, nil
}

func (s *GCSClient) HeadObject(bucketName, key string) (ObjectInfo, bool, error) {
	attrs, attrsErr := s.Client.Bucket(bucketName).Object(key).Attrs(context.TODO())
	if attrsErr != nil {
		if errors.Is(attrsErr, storage.ErrObjectNotExist) {
			return ObjectInfo{}, false, nil
		}
		return ObjectInfo{}, false, attrsErr
	}

	return ObjectInfo{ModTime: attrs.Updated, Size: attrs.Size}, true, nil
}

func (s *GCSClient) UploadFile(bucketName, key string, file *os.File) error {
	object := s.Client.Bucket(bucketName).Object(key)
	objWriter := object.NewWriter(context.TODO())
	if _, uploadErr := io.Copy(objWriter, file); uploadErr != nil {
		return uploadErr
	}
	if closeErr := objWriter.Close(); closeErr != nil {
		return closeErr
	}

	return nil
}

func (s *GCSClient) DeleteObject(bucket string, key string) error {
	key = strings.TrimPrefix(key, "/")
	object := s.Client.Bucket(bucket).Object(key)

	if err := object.Delete(context.TODO()); err != nil {
		return err
	}

	return nil
}
