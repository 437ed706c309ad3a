package main

import (
	"context"
	"fmt"

	"cloud.google.com/go/storage"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

type AppConfig struct {
	Provider      string `default:"aws"`
	Region        string
	Profile       string
	SourceFolder  string `required:"true"`
	Bucket        string `required:"true"`
	Prefix        string
	Workers       int `default:"4"`
	BatchSize     int `default:"100"`
	SizeTolerance int64
	Exclude       []string
	DeleteOrphans bool
	WarmCache     bool `default:"true"`
	DryRun        bool
	Debug         bool
	SNSTopic      string
	SNSRegion     string
}

func (c AppConfig) ClientFromConfig() (ObjectClient, error) {
	var objectClient ObjectClient

	switch c.Provider {
	case "aws":
		cfg, err := config.LoadDefaultConfig(context.TODO(),
			config.WithSharedConfigProfile(c.Profile),
			config.WithRegion(c.Region))
		if err != nil {
			return objectClient, fmt.Errorf("Error creating s3 client: %+v\n", err)
		}
		awsS3Client := s3.NewFromConfig(cfg)
		objectClient = &S3Client{Client: awsS3Client}
	case "gcs":
		gcsClient, err := storage.NewClient(context.TODO())
		if err != nil {
			return objectClient, fmt.Errorf("Error creating gcs client: %+v\n", err)
		}
		objectClient = &GCSClient{Client: gcsClient}
	default:
		return objectClient, fmt.Errorf("Unknown cloud provider: %s", c.Provider)
	}

	return objectClient, nil
}

func (c AppConfig) ConfigStringArray() []string {
	configStrArr := make([]string, 0)
	configStrArr = append(configStrArr, fmt.Sprintf("  - Provider: %s", c.Provider))
	configStrArr = append(configStrArr, fmt.Sprintf("  - Source: %s", c.SourceFolder))
	configStrArr = append(configStrArr, fmt.Sprintf("  - Bucket: %s", c.Bucket))
	configStrArr = append(configStrArr, fmt.Sprintf("  - Prefix: %s", c.Prefix))
	configStrArr = append(configStrArr, fmt.Sprintf("  - Workers: %d", c.Workers))
	configStrArr = append(configStrArr, fmt.Sprintf("  - Batch Size: %d", c.BatchSize))

	if c.SizeTolerance > 0 {
		configStrArr = append(configStrArr, fmt.Sprintf("  - Size Tolerance: %d bytes", c.SizeTolerance))
	}

	if len(c.Exclude) > 0 {
		configStrArr = append(configStrArr, fmt.Sprintf("  - Exclude: %v", c.Exclude))
	}

	if c.DeleteOrphans {
		configStrArr = append(configStrArr, "  - Delete Orphans: enabled")
	}

	if c.SNSTopic != "" {
		configStrArr = append(configStrArr, fmt.Sprintf("  - SNSTopic: %s", c.SNSTopic))
	}

	return configStrArr
}
