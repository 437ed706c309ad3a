package main

import (
	"context"
	"errors"
	"os"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
)

type ObjectInfo struct {
	ModTime time.Time
	Size    int64
}

// ObjectClient is the minimal set of bucket primitives the verifier needs.
// The gateway layers caching and retries on top of these.
type ObjectClient interface {
	ValidateBucket(bucket string) error
	ListObjects(bucket string, prefix string) (map[string]ObjectInfo, error)
	HeadObject(bucket string, key string) (ObjectInfo, bool, error)
	UploadFile(bucket string, key string, file *os.File) error
	DeleteObject(bucket string, key string) error
}

type S3Client struct {
	Client *s3.Client
}

func (s *S3Client) ValidateBucket(bucketName string) error {
	listParams := &s3.ListObjectsV2Input{
		Bucket:  aws.String(bucketName),
		MaxKeys: 1,
	}
	_, listErr := s.Client.ListObjectsV2(context.TODO(), listParams)

	return listErr
}

func (s *S3Client) ListObjects(bucketName, prefix string) (map[string]ObjectInfo, error) {
	bucketFiles := make(map[string]ObjectInfo)
	listParams := &s3.ListObjectsV2Input{
		Bucket: aws.String(bucketName),
	}
	if prefix != "" {
		listParams.Prefix = aws.String(prefix)
	}
	paginator := s3.NewListObjectsV2Paginator(s.Client, listParams, func(o *s3.ListObjectsV2PaginatorOptions) {})
	for paginator.HasMorePages() {
		currentPage, pageErr := paginator.NextPage(context.TODO())
		if pageErr != nil {
			return bucketFiles, pageErr

		}
		for _, object := range currentPage.Contents {
			bucketFiles[*object.Key] = ObjectInfo{ModTime: *object.LastModified, Size: object.Size}
		}
	}

	return bucketFiles, nil
}

func (s *S3Client) HeadObject(bucketName, key string) (ObjectInfo, bool, error) {
	headResp, headErr := s.Client.HeadObject(context.TODO(), &s3.HeadObjectInput{
		Bucket: aws.String(bucketName),
		Key:    aws.String(key),
	})
	if headErr != nil {
		var notFound *types.NotFound
		if errors.As(headErr, &notFound) {
			return ObjectInfo{}, false, nil
		}
		// HeadObject surfaces missing keys as a bare 404 on some endpoints
		// rather than the modeled NotFound type
		var apiErr smithy.APIError
		if errors.As(headErr, &apiErr) && apiErr.ErrorCode() == "NotFound" {
			return ObjectInfo{}, false, nil
		}
		return ObjectInfo{}, false, headErr
	}

	objectInfo := ObjectInfo{Size: headResp.ContentLength}
	if headResp.LastModified != nil {
		objectInfo.ModTime = *headResp.LastModified
	}

	return objectInfo, true, nil
}

func (s *S3Client) UploadFile(bucketName, key string, file *os.File) error {
	uploader := manager.NewUploader(s.Client)
	_, putErr := uploader.Upload(context.TODO(), &s3.PutObjectInput{
		Bucket: aws.String(bucketName),
		Key:    aws.String(key),
		Body:   file,
	})

	return putErr
}

func (s *S3Client) DeleteObject(bucket string, key string) error {
	delReq := &s3.DeleteObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(strings.TrimPrefix(key, "/")),
	}
	_, delErr := s.Client.DeleteObject(context.TODO(), delReq)

	return delErr
}
