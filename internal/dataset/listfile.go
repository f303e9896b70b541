package dataset

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// WriteListFile writes samples as tab-separated index/label/path lines, the
// manifest format the managed training image consumes.
func WriteListFile(path string, samples []Sample) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create list file %q: %w", path, err)
	}
	defer file.Close()

	writer := bufio.NewWriter(file)
	for _, sample := range samples {
		if _, err := fmt.Fprintf(writer, "%d\t%d\t%s\n", sample.Index, sample.Label, sample.Path); err != nil {
			return fmt.Errorf("write list file %q: %w", path, err)
		}
	}
	if err := writer.Flush(); err != nil {
		return fmt.Errorf("flush list file %q: %w", path, err)
	}
	return nil
}

// ReadListFile parses a tab-separated index/label/path manifest. Malformed
// lines fail with their line number so bad manifests are easy to fix.
func ReadListFile(path string) ([]Sample, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open list file %q: %w", path, err)
	}
	defer file.Close()

	var samples []Sample
	scanner := bufio.NewScanner(file)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimRight(scanner.Text(), "\r\n")
		if strings.TrimSpace(line) == "" {
			continue
		}
		fields := strings.Split(line, "\t")
		if len(fields) != 3 {
			return nil, fmt.Errorf("list file %q line %d: expected 3 tab-separated fields, got %d", path, lineNo, len(fields))
		}
		index, err := strconv.Atoi(strings.TrimSpace(fields[0]))
		if err != nil {
			return nil, fmt.Errorf("list file %q line %d: bad index: %w", path, lineNo, err)
		}
		label, err := strconv.Atoi(strings.TrimSpace(fields[1]))
		if err != nil {
			return nil, fmt.Errorf("list file %q line %d: bad label: %w", path, lineNo, err)
		}
		relPath := strings.TrimSpace(fields[2])
		if relPath == "" {
			return nil, fmt.Errorf("list file %q line %d: empty path", path, lineNo)
		}
		samples = append(samples, Sample{Index: index, Label: label, Path: relPath})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read list file %q: %w", path, err)
	}
	return samples, nil
}
