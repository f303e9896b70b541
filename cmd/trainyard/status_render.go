package main

import (
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-isatty"

	"trainyard/internal/queue"
)

type statusKind int

const (
	statusInfo statusKind = iota
	statusOK
	statusWarn
	statusError
)

const (
	ansiReset  = "\x1b[0m"
	ansiRed    = "\x1b[31m"
	ansiGreen  = "\x1b[32m"
	ansiYellow = "\x1b[33m"
	ansiBlue   = "\x1b[34m"
)

func statusKindFor(status queue.Status) statusKind {
	switch status {
	case queue.StatusCompleted:
		return statusOK
	case queue.StatusFailed:
		return statusError
	case queue.StatusReview:
		return statusWarn
	default:
		return statusInfo
	}
}

func renderRunStatus(status queue.Status, colorize bool) string {
	label := string(status)
	if !colorize {
		return label
	}
	switch statusKindFor(status) {
	case statusOK:
		return ansiGreen + label + ansiReset
	case statusError:
		return ansiRed + label + ansiReset
	case statusWarn:
		return ansiYellow + label + ansiReset
	default:
		return ansiBlue + label + ansiReset
	}
}

func renderHealthLine(health queue.HealthSummary, colorize bool) string {
	failed := fmt.Sprintf("%d failed", health.Failed)
	review := fmt.Sprintf("%d review", health.Review)
	if colorize {
		if health.Failed > 0 {
			failed = ansiRed + failed + ansiReset
		}
		if health.Review > 0 {
			review = ansiYellow + review + ansiReset
		}
	}
	return fmt.Sprintf("Total %d: %d pending, %d processing, %s, %s, %d completed",
		health.Total, health.Pending, health.Processing, review, failed, health.Completed)
}

func shouldColorize(writer io.Writer) bool {
	file, ok := writer.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
