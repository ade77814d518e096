// Package deps verifies the external binaries scribe shells out to.
package deps

import (
	"fmt"
	"os/exec"
	"strings"

	"scribe/internal/config"
)

// Requirement defines an external dependency scribe relies on.
type Requirement struct {
	Name        string
	Command     string
	Description string
	Optional    bool
}

// Status reports the availability of a dependency.
type Status struct {
	Name        string
	Command     string
	Description string
	Optional    bool
	Available   bool
	Detail      string
}

// Audio returns the binaries required for probing and transforming audio,
// honoring any overrides in the configuration.
func Audio(cfg *config.Config) []Requirement {
	return []Requirement{
		{
			Name:        "ffprobe",
			Command:     cfg.Tools.FFprobe,
			Description: "reads container format, duration, and stream layout",
		},
		{
			Name:        "ffmpeg",
			Command:     cfg.Tools.FFmpeg,
			Description: "converts and compresses audio files",
		},
	}
}

// CheckBinaries evaluates the provided requirements and reports availability.
func CheckBinaries(requirements []Requirement) []Status {
	results := make([]Status, 0, len(requirements))
	for _, req := range requirements {
		cmd := strings.TrimSpace(req.Command)
		status := Status{
			Name:        req.Name,
			Command:     cmd,
			Description: strings.TrimSpace(req.Description),
			Optional:    req.Optional,
		}
		if cmd == "" {
			status.Detail = "command not configured"
			results = append(results, status)
			continue
		}
		if _, err := exec.LookPath(cmd); err != nil {
			status.Detail = fmt.Sprintf("binary %q not found", cmd)
			results = append(results, status)
			continue
		}
		status.Available = true
		results = append(results, status)
	}
	return results
}

// Missing filters statuses down to required dependencies that are not
// available.
func Missing(statuses []Status) []Status {
	missing := make([]Status, 0)
	for _, status := range statuses {
		if !status.Available && !status.Optional {
			missing = append(missing, status)
		}
	}
	return missing
}
