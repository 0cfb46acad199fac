package contract

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/huangsam/bcat/schema"
)

// Alignment label constants.
const (
	StrongValue = "Strong" // Strong alignment
	GoodValue   = "Good"   // Good alignment
	FairValue   = "Fair"   // Fair alignment
	WeakValue   = "Weak"   // Weak alignment
)

// Color variables for console output.
var (
	StrongColor = color.New(color.FgGreen, color.Bold) // strong match
	GoodColor   = color.New(color.FgCyan)              // solid match
	FairColor   = color.New(color.FgYellow)            // borderline match
	WeakColor   = color.New(color.FgRed, color.Bold)   // poor match
)

// GetPlainLabel returns a plain text label for a 0-1 alignment or aggregate
// score. This is the core logic used for CSV, JSON, and table printing.
func GetPlainLabel(score float64) string {
	switch {
	case score >= 0.8:
		return StrongValue
	case score >= 0.6:
		return GoodValue
	case score >= 0.4:
		return FairValue
	default:
		return WeakValue
	}
}

// GetColorLabel returns a colored text label for console output (table).
// It uses GetPlainLabel to determine the string, and then applies the
// appropriate color.
func GetColorLabel(score float64) string {
	text := GetPlainLabel(score)

	switch text {
	case StrongValue:
		return StrongColor.Sprint(text)
	case GoodValue:
		return GoodColor.Sprint(text)
	case FairValue:
		return FairColor.Sprint(text)
	default: // "Weak"
		return WeakColor.Sprint(text)
	}
}

// SelectOutputFile returns the appropriate file handle for output, based on
// the provided file path. It falls back to os.Stdout when no path is given.
func SelectOutputFile(filePath string) (*os.File, error) {
	if filePath == "" {
		return os.Stdout, nil
	}
	return os.Create(filePath)
}

// LogFatal logs an error and exits the program.
func LogFatal(msg string, err error) {
	fmt.Fprintf(os.Stderr, "❌ %s: %v\n", msg, err)
	os.Exit(1)
}

// LogWarning logs a warning.
func LogWarning(msg string) {
	fmt.Fprintf(os.Stderr, "⚠️  %s\n", msg)
}

// LogScoreHeader prints a concise header for a scoring run.
func LogScoreHeader(cfg *Config) {
	if !cfg.UseEmojis {
		return
	}
	source := cfg.MetricsPath
	if source == "" || source == "-" {
		source = "stdin"
	}
	fmt.Printf("🔎 Scoring: %s\n", source)
	switch {
	case cfg.PatternRefStr != "":
		fmt.Printf("🎯 Pattern: %s (explicit)\n", cfg.PatternRefStr)
	case cfg.MappingBackend != schema.NoneBackend && cfg.MappingBackend != "":
		fmt.Printf("🗺️  Mapping backend: %s\n", cfg.MappingBackend)
	}
}
