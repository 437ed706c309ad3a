package main

type Notifier interface {
	NotifyRunResults(appConfig AppConfig, stats BackupStats) error
}
