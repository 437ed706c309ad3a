package main

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"
)

// ProgressTracker prints a status line as chunks complete, at most once
// per second, plus unconditionally when the last file is counted. It is
// purely observational.
type ProgressTracker struct {
	totalFiles     int
	processedFiles int
	startTime      time.Time
	lastUpdate     time.Time
	out            io.Writer
	lock           sync.Mutex
}

func NewProgressTracker(totalFiles int) *ProgressTracker {
	return &ProgressTracker{
		totalFiles: totalFiles,
		startTime:  time.Now(),
		out:        os.Stdout,
	}
}

func (p *ProgressTracker) Update(increment int) {
	p.lock.Lock()
	defer p.lock.Unlock()

	p.processedFiles += increment

	now := time.Now()
	if now.Sub(p.lastUpdate) >= time.Second || p.processedFiles >= p.totalFiles {
		p.printProgress()
		p.lastUpdate = now
	}
}

// Finish emits a final newline so the summary doesn't land on the
// progress line.
func (p *ProgressTracker) Finish() {
	p.lock.Lock()
	defer p.lock.Unlock()
	fmt.Fprintln(p.out)
}

func (p *ProgressTracker) printProgress() {
	if p.totalFiles == 0 {
		return
	}

	progress := float64(p.processedFiles) / float64(p.totalFiles) * 100
	elapsed := time.Since(p.startTime)

	etaStr := ""
	if p.processedFiles > 0 && p.processedFiles < p.totalFiles {
		eta := time.Duration(float64(elapsed) / float64(p.processedFiles) * float64(p.totalFiles-p.processedFiles))
		if eta > time.Minute {
			etaStr = fmt.Sprintf(", ETA: %.1fm", eta.Minutes())
		} else {
			etaStr = fmt.Sprintf(", ETA: %.0fs", eta.Seconds())
		}
	}

	fmt.Fprintf(p.out, "\rProgress: %d/%d (%.1f%%) - Elapsed: %.1fm%s",
		p.processedFiles, p.totalFiles, progress, elapsed.Minutes(), etaStr)
}
