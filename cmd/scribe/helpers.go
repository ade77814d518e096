package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"scribe/internal/ipc"
)

func formatSize(bytes int64) string {
	return humanize.IBytes(uint64(bytes))
}

func formatDuration(seconds *float64) string {
	if seconds == nil {
		return "unknown"
	}
	d := time.Duration(*seconds * float64(time.Second)).Round(time.Second)
	minutes := int(d.Minutes())
	secs := int(d.Seconds()) % 60
	if minutes >= 60 {
		return fmt.Sprintf("%d:%02d:%02d", minutes/60, minutes%60, secs)
	}
	return fmt.Sprintf("%d:%02d", minutes, secs)
}

func formatBackends(backends []string) string {
	if len(backends) == 0 {
		return "none"
	}
	short := make([]string, 0, len(backends))
	for _, backend := range backends {
		switch backend {
		case "speech_to_text":
			short = append(short, "stt")
		case "multimodal_completion":
			short = append(short, "llm")
		default:
			short = append(short, backend)
		}
	}
	return strings.Join(short, ",")
}

func fileRow(file ipc.FileRecord) []string {
	return []string{
		file.Path,
		formatSize(file.SizeBytes),
		formatDuration(file.DurationSeconds),
		file.ModifiedAt.Local().Format("2006-01-02 15:04"),
		file.Format,
		formatBackends(file.EligibleBackends),
	}
}

func renderFileTable(files []ipc.FileRecord) string {
	rows := make([][]string, 0, len(files))
	for _, file := range files {
		rows = append(rows, fileRow(file))
	}
	return renderTable(
		[]string{"Path", "Size", "Duration", "Modified", "Format", "Backends"},
		rows,
		[]columnAlignment{alignLeft, alignRight, alignRight, alignLeft, alignLeft, alignLeft},
	)
}

// parseSize accepts human-friendly sizes ("25MB", "1.5GiB") or raw byte
// counts.
func parseSize(value string) (int64, error) {
	parsed, err := humanize.ParseBytes(strings.TrimSpace(value))
	if err != nil {
		return 0, fmt.Errorf("invalid size %q: %w", value, err)
	}
	return int64(parsed), nil
}

// parseTime accepts RFC 3339 timestamps or bare dates.
func parseTime(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if parsed, err := time.Parse(time.RFC3339, value); err == nil {
		return parsed, nil
	}
	if parsed, err := time.ParseInLocation("2006-01-02", value, time.Local); err == nil {
		return parsed, nil
	}
	return time.Time{}, fmt.Errorf("invalid time %q (want RFC 3339 or YYYY-MM-DD)", value)
}
