package commands

import (
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/text/encoding/unicode"
)

// ANSI color codes
const (
	colorReset  = "\033[0m"
	colorRed    = "\033[31m"
	colorGreen  = "\033[32m"
	colorYellow = "\033[33m"
	colorGray   = "\033[90m"
)

// scoreColor picks a color for a 0-100 score
func scoreColor(score float64) string {
	switch {
	case score >= 70:
		return colorGreen
	case score >= 40:
		return colorYellow
	default:
		return colorRed
	}
}

// bar renders value out of max as a fixed-width bar
func bar(value, max, width int) string {
	if max <= 0 || width <= 0 {
		return ""
	}
	filled := value * width / max
	if filled < 0 {
		filled = 0
	}
	if filled > width {
		filled = width
	}
	return strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
}

// readResume reads a resume from path, or from in when path is "-".
// A leading UTF-8 BOM is dropped.
func readResume(in io.Reader, path string) (string, error) {
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(in)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return "", fmt.Errorf("failed to read resume: %w", err)
	}

	text, err := unicode.UTF8BOM.NewDecoder().Bytes(data)
	if err != nil {
		return "", fmt.Errorf("failed to decode resume: %w", err)
	}
	return string(text), nil
}
