package main

import (
	"fmt"
	"io"
	"os"

	log "github.com/sirupsen/logrus"
)

// setupLogging routes the full debug stream to a per-run log file and
// mirrors a terser stream to the console via a hook. The console stays
// at warnings unless debug or dry-run is on, where the per-file
// decisions are the interesting output.
func setupLogging(logFilePath string, appConfig AppConfig) (*os.File, error) {
	logFile, openErr := os.Create(logFilePath)
	if openErr != nil {
		return nil, openErr
	}

	log.SetOutput(logFile)
	log.SetLevel(log.DebugLevel)
	log.SetFormatter(&log.TextFormatter{FullTimestamp: true})

	consoleLevel := log.WarnLevel
	if appConfig.Debug || appConfig.DryRun {
		consoleLevel = log.InfoLevel
	}
	log.AddHook(&consoleHook{out: os.Stdout, minLevel: consoleLevel})

	return logFile, nil
}

// consoleHook mirrors log entries at or above minLevel to the console,
// message only, no timestamps.
type consoleHook struct {
	out      io.Writer
	minLevel log.Level
}

func (h *consoleHook) Levels() []log.Level {
	return log.AllLevels
}

func (h *consoleHook) Fire(entry *log.Entry) error {
	if entry.Level > h.minLevel {
		return nil
	}
	_, writeErr := fmt.Fprintln(h.out, entry.Message)

	return writeErr
}
