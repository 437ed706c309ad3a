package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNotifySkipsCleanRun(t *testing.T) {
	mockNotifier := &SNSNotifier{
		Client: NewMockSNSClient(),
		Topic:  "mock-topic",
	}
	cleanStats := BackupStats{TotalFilesScanned: 10, FilesAlreadyStored: 8, FilesUploaded: 2}

	notifyErr := mockNotifier.NotifyRunResults(AppConfig{}, cleanStats)

	assert.Nil(t, notifyErr)
	mockClient := mockNotifier.Client.(*MockSNSClient)
	assert.Len(t, mockClient.PublishRequests, 0)
}

func TestNotifyPublishesOnFailures(t *testing.T) {
	mockNotifier := &SNSNotifier{
		Client: NewMockSNSClient(),
		Topic:  "mock-topic",
	}
	appConfig := AppConfig{SourceFolder: "/folder1", Bucket: "not-real-bucket"}
	failedStats := BackupStats{
		TotalFilesScanned:  10,
		FilesAlreadyStored: 5,
		FilesUploaded:      3,
		UploadFailures:     2,
		TotalBytesUploaded: 2048,
	}

	notifyErr := mockNotifier.NotifyRunResults(appConfig, failedStats)

	assert.Nil(t, notifyErr)
	mockClient := mockNotifier.Client.(*MockSNSClient)
	assert.Len(t, mockClient.PublishRequests, 1)
	assert.Equal(t, "Backup verification errors: /folder1 -> not-real-bucket", mockClient.LastSubject())
	assert.Contains(t, mockClient.LastMessage(), "Upload failures: 2")
	assert.Contains(t, mockClient.LastMessage(), "Data uploaded: 2.0 KB")
}

func TestNotifyIncludesOrphanCountersWhenEnabled(t *testing.T) {
	mockNotifier := &SNSNotifier{
		Client: NewMockSNSClient(),
		Topic:  "mock-topic",
	}
	appConfig := AppConfig{SourceFolder: "/folder1", Bucket: "not-real-bucket", DeleteOrphans: true}
	failedStats := BackupStats{FilesDeleted: 4, DeleteFailures: 1}

	notifyErr := mockNotifier.NotifyRunResults(appConfig, failedStats)

	assert.Nil(t, notifyErr)
	mockClient := mockNotifier.Client.(*MockSNSClient)
	assert.Len(t, mockClient.PublishRequests, 1)
	assert.Contains(t, mockClient.LastMessage(), "Orphans deleted: 4")
	assert.Contains(t, mockClient.LastMessage(), "Delete failures: 1")
}
