package testsupport

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
)

// WriteDataset creates a class-folder image tree for tests and returns its
// root. Each class name maps to the number of image files created inside its
// folder.
func WriteDataset(t testing.TB, classes map[string]int) string {
	t.Helper()

	root := t.TempDir()
	for class, count := range classes {
		dir := filepath.Join(root, class)
		if err := os.MkdirAll(dir, 0o755); err != nil {
			t.Fatalf("mkdir %s: %v", dir, err)
		}
		for i := 0; i < count; i++ {
			path := filepath.Join(dir, fmt.Sprintf("img%03d.jpg", i))
			if err := os.WriteFile(path, []byte("jpegbytes"), 0o644); err != nil {
				t.Fatalf("write %s: %v", path, err)
			}
		}
	}
	return root
}
