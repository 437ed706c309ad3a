package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/jinzhu/configor"
	log "github.com/sirupsen/logrus"
)

func main() {
	configFilePath := flag.String("configfile", "", "Configuration File Path")
	dryRun := flag.Bool("dry-run", false, "Log what would be uploaded without touching the bucket")
	debug := flag.Bool("debug", false, "Mirror info/debug output to the console")
	flag.Parse()

	if *configFilePath == "" {
		fmt.Fprintln(os.Stderr, "Required flag -configfile not set but required")
		os.Exit(2)
	}

	var appConfig AppConfig
	configErr := configor.Load(&appConfig, *configFilePath)
	if configErr != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %s\n", configErr)
		os.Exit(2)
	}
	if *dryRun {
		appConfig.DryRun = true
	}
	if *debug {
		appConfig.Debug = true
	}

	logFilePath := fmt.Sprintf("backup_verify_log_%s.txt", time.Now().Format("20060102_150405"))
	logFile, logErr := setupLogging(logFilePath, appConfig)
	if logErr != nil {
		fmt.Fprintf(os.Stderr, "Error opening log file: %s\n", logErr)
		os.Exit(1)
	}

	fmt.Printf("Backup Verification Tool\n")
	fmt.Printf("Source: %s\n", appConfig.SourceFolder)
	fmt.Printf("Bucket: %s/%s\n", appConfig.Bucket, appConfig.Prefix)
	fmt.Printf("Log file: %s\n", logFilePath)
	if appConfig.DryRun {
		fmt.Println("DRY RUN MODE - No files will be uploaded")
	}
	fmt.Println("--------------------------------------------------")

	// os.Exit skips deferred calls, so close the log file explicitly
	exitCode := run(appConfig)
	logFile.Close()
	os.Exit(exitCode)
}

func run(appConfig AppConfig) int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	log.Info("Starting backup verification...")
	for _, configStr := range appConfig.ConfigStringArray() {
		log.Info(configStr)
	}
	if appConfig.DryRun {
		log.Info("*** DRY RUN MODE - No files will be uploaded ***")
	}

	sourceInfo, statErr := os.Stat(appConfig.SourceFolder)
	if statErr != nil || !sourceInfo.IsDir() {
		log.Error(fmt.Sprintf("Source directory does not exist: %s", appConfig.SourceFolder))
		fmt.Fprintf(os.Stderr, "Source directory does not exist: %s\n", appConfig.SourceFolder)
		return 1
	}

	client, clientErr := appConfig.ClientFromConfig()
	if clientErr != nil {
		log.Error(fmt.Sprintf("Error creating object store client: %s", clientErr))
		fmt.Fprintf(os.Stderr, "Error creating object store client: %s\n", clientErr)
		return 1
	}

	gateway := NewBucketGateway(client)
	if !gateway.ValidateBucket(appConfig.Bucket) {
		fmt.Fprintf(os.Stderr, "Bucket validation failed: %s\n", appConfig.Bucket)
		return 1
	}

	if appConfig.WarmCache {
		warmed, warmErr := gateway.WarmCache(appConfig.Bucket, appConfig.Prefix)
		if warmErr != nil {
			log.Warn(fmt.Sprintf("Cache warm-up failed, falling back to per-file probes: %s", warmErr))
		} else {
			log.Info(fmt.Sprintf("Cache warmed with %d remote objects", warmed))
		}
	}

	files := scanFiles(appConfig.SourceFolder, appConfig.Exclude)
	if len(files) == 0 {
		log.Warn("No files found to process")
		printSummary(BackupStats{}, appConfig)
		return 0
	}

	verifier := NewVerifier(gateway, appConfig)
	tracker := NewProgressTracker(len(files))

	stats := runBackup(ctx, verifier, files, appConfig, tracker)
	tracker.Finish()

	if appConfig.DeleteOrphans && ctx.Err() == nil {
		stats = stats.Add(verifier.DeleteOrphans(files))
	}

	logSummary(stats, appConfig)
	printSummary(stats, appConfig)

	if appConfig.SNSTopic != "" {
		notifier, notifierErr := NewSNSNotifier(appConfig)
		if notifierErr != nil {
			log.Warn(fmt.Sprintf("Error creating SNS notifier: %s", notifierErr))
		} else if notifyErr := notifier.NotifyRunResults(appConfig, stats); notifyErr != nil {
			log.Warn(fmt.Sprintf("Error publishing run results: %s", notifyErr))
		}
	}

	if ctx.Err() != nil {
		fmt.Println("\nOperation cancelled by user")
		return 130
	}
	if stats.Failures() > 0 {
		fmt.Printf("\nWarning: %d errors occurred during processing\n", stats.Failures())
		return 1
	}

	return 0
}

func logSummary(stats BackupStats, appConfig AppConfig) {
	log.Info("===== Backup Verification Summary =====")
	log.Info(fmt.Sprintf("Total files scanned: %d", stats.TotalFilesScanned))
	log.Info(fmt.Sprintf("Files already in bucket: %d", stats.FilesAlreadyStored))
	log.Info(fmt.Sprintf("Files uploaded: %d", stats.FilesUploaded))
	log.Info(fmt.Sprintf("Upload failures: %d", stats.UploadFailures))
	log.Info(fmt.Sprintf("Scan errors: %d", stats.ScanErrors))
	if appConfig.DeleteOrphans {
		log.Info(fmt.Sprintf("Orphans deleted: %d", stats.FilesDeleted))
		log.Info(fmt.Sprintf("Delete failures: %d", stats.DeleteFailures))
	}
	log.Info(fmt.Sprintf("Total bytes uploaded: %s", formatBytes(stats.TotalBytesUploaded)))
	if appConfig.DryRun {
		log.Info("*** This was a DRY RUN - no files were actually uploaded ***")
	}
	log.Info("Backup verification complete.")
}

func printSummary(stats BackupStats, appConfig AppConfig) {
	fmt.Printf("\n===== SUMMARY =====\n")
	fmt.Printf("Files scanned: %d\n", stats.TotalFilesScanned)
	fmt.Printf("Already in bucket: %d\n", stats.FilesAlreadyStored)
	fmt.Printf("Uploaded: %d\n", stats.FilesUploaded)
	fmt.Printf("Upload failures: %d\n", stats.UploadFailures)
	fmt.Printf("Scan errors: %d\n", stats.ScanErrors)
	if appConfig.DeleteOrphans {
		fmt.Printf("Orphans deleted: %d\n", stats.FilesDeleted)
		fmt.Printf("Delete failures: %d\n", stats.DeleteFailures)
	}
	fmt.Printf("Data uploaded: %s\n", formatBytes(stats.TotalBytesUploaded))
	if appConfig.DryRun {
		fmt.Println("\n*** DRY RUN COMPLETED - No files were actually uploaded ***")
	}
}
