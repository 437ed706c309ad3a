package main

import "fmt"

// formatBytes renders a byte count in binary units with one decimal
// place, e.g. 2048 -> "2.0 KB".
func formatBytes(byteCount int64) string {
	size := float64(byteCount)
	for _, unit := range []string{"B", "KB", "MB", "GB", "TB"} {
		if size < 1024.0 {
			return fmt.Sprintf("%.1f %s", size, unit)
		}
		size /= 1024.0
	}

	return fmt.Sprintf("%.1f PB", size)
}
