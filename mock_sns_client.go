package main

import "github.com/aws/aws-sdk-go-v2/service/sns"

type MockSNSClient struct {
	PublishRequests []*sns.PublishInput
}

func NewMockSNSClient() *MockSNSClient {
	return &MockSNSClient{
		PublishRequests: make([]*sns.PublishInput, 0),
	}
}

func (c *MockSNSClient) PublishMessage(msg *sns.PublishInput) error {
	c.PublishRequests = append(c.PublishRequests, msg)
	return nil
}

// LastSubject and LastMessage unwrap the most recent publish so tests
// can assert on the run summary without pointer plumbing.
func (c *MockSNSClient) LastSubject() string {
	if len(c.PublishRequests) == 0 {
		return ""
	}
	return *c.PublishRequests[len(c.PublishRequests)-1].Subject
}

func (c *MockSNSClient) LastMessage() string {
	if len(c.PublishRequests) == 0 {
		return ""
	}
	return *c.PublishRequests[len(c.PublishRequests)-1].Message
}
