package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"trainyard/internal/testsupport"
)

func TestSplitWritesListFiles(t *testing.T) {
	env := setupCLITestEnv(t)
	datasetDir := testsupport.WriteDataset(t, map[string]int{
		"green_anole": 10,
		"brown_anole": 10,
	})
	outDir := t.TempDir()

	out, _, err := runCLI(t, []string{"split", datasetDir, "--out", outDir, "--train-ratio", "0.7", "--test-ratio", "0.1"}, env.configPath)
	if err != nil {
		t.Fatalf("split: %v", err)
	}
	requireContains(t, out, "Scanned 20 images across 2 classes")
	requireContains(t, out, "14 train / 4 validation / 2 test")

	for _, name := range []string{"train.lst", "validation.lst", "test.lst"} {
		data, err := os.ReadFile(filepath.Join(outDir, name))
		if err != nil {
			t.Fatalf("read %s: %v", name, err)
		}
		if len(data) == 0 {
			t.Fatalf("%s is empty", name)
		}
		first := strings.SplitN(string(data), "\n", 2)[0]
		if fields := strings.Split(first, "\t"); len(fields) != 3 {
			t.Fatalf("expected 3 tab-separated fields in %s, got %q", name, first)
		}
	}
}

func TestSplitDefaultsToDatasetDirectory(t *testing.T) {
	env := setupCLITestEnv(t)
	datasetDir := testsupport.WriteDataset(t, map[string]int{"green_anole": 5})

	if _, _, err := runCLI(t, []string{"split", datasetDir}, env.configPath); err != nil {
		t.Fatalf("split: %v", err)
	}
	if _, err := os.Stat(filepath.Join(datasetDir, "train.lst")); err != nil {
		t.Fatalf("expected train.lst in dataset dir: %v", err)
	}
}

func TestSplitRejectsEmptyDataset(t *testing.T) {
	env := setupCLITestEnv(t)

	_, _, err := runCLI(t, []string{"split", t.TempDir()}, env.configPath)
	if err == nil || !strings.Contains(err.Error(), "no class folders") {
		t.Fatalf("expected empty dataset error, got %v", err)
	}
}
