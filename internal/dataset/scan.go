package dataset

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var imageExtensions = map[string]struct{}{
	".jpg":  {},
	".jpeg": {},
	".png":  {},
	".gif":  {},
	".bmp":  {},
}

var titleCaser = cases.Title(language.English)

// Scan walks a dataset root whose immediate subdirectories are class folders
// and returns the sorted class names plus one Sample per image file. Class ids
// are assigned by sorted folder name so repeated scans of the same tree agree.
func Scan(root string) ([]string, []Sample, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, nil, fmt.Errorf("read dataset root %q: %w", root, err)
	}

	var classes []string
	for _, entry := range entries {
		if entry.IsDir() && !strings.HasPrefix(entry.Name(), ".") {
			classes = append(classes, entry.Name())
		}
	}
	if len(classes) == 0 {
		return nil, nil, fmt.Errorf("dataset root %q contains no class folders", root)
	}
	sort.Strings(classes)

	var samples []Sample
	for label, class := range classes {
		classDir := filepath.Join(root, class)
		files, err := os.ReadDir(classDir)
		if err != nil {
			return nil, nil, fmt.Errorf("read class folder %q: %w", classDir, err)
		}
		names := make([]string, 0, len(files))
		for _, file := range files {
			if file.IsDir() {
				continue
			}
			ext := strings.ToLower(filepath.Ext(file.Name()))
			if _, ok := imageExtensions[ext]; !ok {
				continue
			}
			names = append(names, file.Name())
		}
		sort.Strings(names)
		for _, name := range names {
			samples = append(samples, Sample{
				Index: len(samples),
				Label: label,
				Path:  filepath.ToSlash(filepath.Join(class, name)),
			})
		}
	}
	if len(samples) == 0 {
		return nil, nil, fmt.Errorf("dataset root %q contains no image files", root)
	}
	return classes, samples, nil
}

// DisplayName turns a class folder name into a human-readable label,
// e.g. "bordered_gecko" becomes "Bordered Gecko".
func DisplayName(class string) string {
	cleaned := strings.NewReplacer("_", " ", "-", " ").Replace(strings.TrimSpace(class))
	if cleaned == "" {
		return class
	}
	return titleCaser.String(cleaned)
}

// DisplayNames maps DisplayName over a class list.
func DisplayNames(classes []string) []string {
	out := make([]string, len(classes))
	for i, class := range classes {
		out[i] = DisplayName(class)
	}
	return out
}
