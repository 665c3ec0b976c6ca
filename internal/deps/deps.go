// Package deps reports availability of the external binaries mls shells out
// to for audio decoding and phonemic transcription.
package deps

import (
	"fmt"
	"os/exec"
	"strings"
)

// Requirement defines an external dependency mls relies on.
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

// Default returns the binaries the loader invokes, using the configured
// phonemizer command.
func Default(phonemizeBinary string) []Requirement {
	if phonemizeBinary == "" {
		phonemizeBinary = "espeak-ng"
	}
	return []Requirement{
		{Name: "FFmpeg", Command: "ffmpeg", Description: "audio decoding"},
		{Name: "FFprobe", Command: "ffprobe", Description: "audio stream probing"},
		{Name: "eSpeak NG", Command: phonemizeBinary, Description: "phonemic transcription", Optional: true},
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
