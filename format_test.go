package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatBytes(t *testing.T) {
	assert.Equal(t, "0.0 B", formatBytes(0))
	assert.Equal(t, "500.0 B", formatBytes(500))
	assert.Equal(t, "2.0 KB", formatBytes(2048))
	assert.Equal(t, "5.0 MB", formatBytes(5*1024*1024))
	assert.Equal(t, "3.0 GB", formatBytes(3*1024*1024*1024))
	assert.Equal(t, "1.5 TB", formatBytes(1536*1024*1024*1024))
	assert.Equal(t, "2.0 PB", formatBytes(2*1024*1024*1024*1024*1024))
}
