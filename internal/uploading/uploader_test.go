package uploading

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"

	"trainyard/internal/logging"
	"trainyard/internal/services"
	"trainyard/internal/testsupport"
)

type fakeStore struct {
	bucketErr   error
	uploadedDir string
	dirPrefix   string
	fileKeys    []string
	uploadErr   error
}

func (f *fakeStore) EnsureBucket(ctx context.Context) error {
	return f.bucketErr
}

func (f *fakeStore) UploadDir(ctx context.Context, localDir, prefix string) (string, int, error) {
	if f.uploadErr != nil {
		return "", 0, f.uploadErr
	}
	f.uploadedDir = localDir
	f.dirPrefix = prefix
	return "s3://trainyard-test/" + prefix + "/", 4, nil
}

func (f *fakeStore) UploadFile(ctx context.Context, localPath, key string) (string, error) {
	if f.uploadErr != nil {
		return "", f.uploadErr
	}
	f.fileKeys = append(f.fileKeys, key)
	return "s3://trainyard-test/" + key, nil
}

func (f *fakeStore) URI(key string) string {
	return "s3://trainyard-test/" + key
}

func TestUploaderSyncsImagesAndLists(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	cfg.Storage.Prefix = "runs"
	store := testsupport.MustOpenStore(t, cfg)
	run := testsupport.NewRun(t, store, cfg, "lizards", t.TempDir())
	run.ListDir = filepath.Join(cfg.Paths.WorkDir, run.Name, "lists")
	if err := os.MkdirAll(run.ListDir, 0o755); err != nil {
		t.Fatalf("mkdir lists: %v", err)
	}
	for _, name := range []string{"train.lst", "validation.lst", "test.lst"} {
		if err := os.WriteFile(filepath.Join(run.ListDir, name), []byte("0\t0\tgecko/a.jpg\n"), 0o644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}

	client := &fakeStore{}
	handler := NewUploaderWithClient(cfg, store, logging.NewNop(), client)
	ctx := context.Background()
	if err := handler.Prepare(ctx, run); err != nil {
		t.Fatalf("Prepare: %v", err)
	}
	if err := handler.Execute(ctx, run); err != nil {
		t.Fatalf("Execute: %v", err)
	}

	if client.uploadedDir != run.DatasetDir {
		t.Fatalf("uploaded dir: got %q want %q", client.uploadedDir, run.DatasetDir)
	}
	if client.dirPrefix != "runs/lizards/images" {
		t.Fatalf("dir prefix: got %q", client.dirPrefix)
	}
	sort.Strings(client.fileKeys)
	want := []string{"runs/lizards/test.lst", "runs/lizards/train.lst", "runs/lizards/validation.lst"}
	for i, key := range want {
		if client.fileKeys[i] != key {
			t.Fatalf("file key %d: got %q want %q", i, client.fileKeys[i], key)
		}
	}
	if run.StorageURI != "s3://trainyard-test/runs/lizards/" {
		t.Fatalf("storage uri: got %q", run.StorageURI)
	}
}

func TestUploaderRequiresListFiles(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	run := testsupport.NewRun(t, store, cfg, "lizards", t.TempDir())

	handler := NewUploaderWithClient(cfg, store, logging.NewNop(), &fakeStore{})
	err := handler.Execute(context.Background(), run)
	if !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestUploaderSurfacesBucketFailure(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	run := testsupport.NewRun(t, store, cfg, "lizards", t.TempDir())
	run.ListDir = filepath.Join(cfg.Paths.WorkDir, run.Name, "lists")
	if err := os.MkdirAll(run.ListDir, 0o755); err != nil {
		t.Fatalf("mkdir lists: %v", err)
	}
	for _, name := range []string{"train.lst", "validation.lst", "test.lst"} {
		if err := os.WriteFile(filepath.Join(run.ListDir, name), []byte(""), 0o644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}

	cause := errors.New("bucket does not exist")
	handler := NewUploaderWithClient(cfg, store, logging.NewNop(), &fakeStore{bucketErr: cause})
	err := handler.Execute(context.Background(), run)
	if !errors.Is(err, services.ErrExternalService) {
		t.Fatalf("expected external service error, got %v", err)
	}
	if !strings.Contains(err.Error(), "not accessible") {
		t.Fatalf("expected operator-facing message, got %v", err)
	}
}

func TestUploaderHealthCheckReflectsBucket(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	handler := NewUploaderWithClient(cfg, nil, logging.NewNop(), &fakeStore{})
	if health := handler.HealthCheck(context.Background()); !health.Ready {
		t.Fatalf("expected healthy, got %q", health.Detail)
	}
	handler = NewUploaderWithClient(cfg, nil, logging.NewNop(), &fakeStore{bucketErr: errors.New("denied")})
	if health := handler.HealthCheck(context.Background()); health.Ready {
		t.Fatal("expected unhealthy when bucket check fails")
	}
}
