package main

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"testing"

	"trainyard/internal/queue"
	"trainyard/internal/testsupport"
)

func TestStatusEmptyQueue(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"status"}, env.configPath)
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	requireContains(t, out, "Queue is empty")
}

func TestStatusListsRuns(t *testing.T) {
	env := setupCLITestEnv(t)
	ctx := context.Background()

	testsupport.NewRun(t, env.store, env.cfg, "lizards", "/data/lizards")
	beta := testsupport.NewRun(t, env.store, env.cfg, "birds", "/data/birds")
	beta.SetFailed("upload refused")
	if err := env.store.Update(ctx, beta); err != nil {
		t.Fatalf("fail beta: %v", err)
	}

	out, _, err := runCLI(t, []string{"status"}, env.configPath)
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	requireContains(t, out, "lizards")
	requireContains(t, out, "birds")
	requireContains(t, out, "failed")
	requireContains(t, out, "1 failed")
}

func TestStatusFilterByStatus(t *testing.T) {
	env := setupCLITestEnv(t)
	ctx := context.Background()

	testsupport.NewRun(t, env.store, env.cfg, "lizards", "/data/lizards")
	beta := testsupport.NewRun(t, env.store, env.cfg, "birds", "/data/birds")
	beta.SetFailed("upload refused")
	if err := env.store.Update(ctx, beta); err != nil {
		t.Fatalf("fail beta: %v", err)
	}

	out, _, err := runCLI(t, []string{"status", "--status", "failed"}, env.configPath)
	if err != nil {
		t.Fatalf("status --status failed: %v", err)
	}
	requireContains(t, out, "birds")
	if strings.Contains(out, "lizards") {
		t.Fatalf("expected pending run to be filtered out, got %q", out)
	}
}

func TestStatusRejectsUnknownStatus(t *testing.T) {
	env := setupCLITestEnv(t)

	_, _, err := runCLI(t, []string{"status", "--status", "bogus"}, env.configPath)
	if err == nil || !strings.Contains(err.Error(), "unknown status") {
		t.Fatalf("expected unknown status error, got %v", err)
	}
}

func TestStatusJSON(t *testing.T) {
	env := setupCLITestEnv(t)

	testsupport.NewRun(t, env.store, env.cfg, "lizards", "/data/lizards")

	out, _, err := runCLI(t, []string{"status", "--json"}, env.configPath)
	if err != nil {
		t.Fatalf("status --json: %v", err)
	}
	var runs []map[string]any
	if err := json.Unmarshal([]byte(out), &runs); err != nil {
		t.Fatalf("invalid JSON: %v\noutput: %s", err, out)
	}
	if len(runs) != 1 {
		t.Fatalf("expected 1 run, got %d", len(runs))
	}
}

func TestRetryRequeuesFailedRun(t *testing.T) {
	env := setupCLITestEnv(t)
	ctx := context.Background()

	run := testsupport.NewRun(t, env.store, env.cfg, "lizards", "/data/lizards")
	run.SetFailed("training job failed")
	if err := env.store.Update(ctx, run); err != nil {
		t.Fatalf("fail run: %v", err)
	}

	out, _, err := runCLI(t, []string{"retry"}, env.configPath)
	if err != nil {
		t.Fatalf("retry: %v", err)
	}
	requireContains(t, out, "Requeued 1 run(s)")

	updated, err := env.store.GetByID(ctx, run.ID)
	if err != nil {
		t.Fatalf("lookup run: %v", err)
	}
	if updated.Status != queue.StatusPending {
		t.Fatalf("expected pending, got %s", updated.Status)
	}
}

func TestRetryInvalidID(t *testing.T) {
	env := setupCLITestEnv(t)

	_, _, err := runCLI(t, []string{"retry", "abc"}, env.configPath)
	if err == nil || !strings.Contains(err.Error(), "invalid run id") {
		t.Fatalf("expected invalid id error, got %v", err)
	}
}

func TestRemoveRun(t *testing.T) {
	env := setupCLITestEnv(t)
	ctx := context.Background()

	run := testsupport.NewRun(t, env.store, env.cfg, "lizards", "/data/lizards")

	out, _, err := runCLI(t, []string{"remove", fmt.Sprintf("%d", run.ID)}, env.configPath)
	if err != nil {
		t.Fatalf("remove: %v", err)
	}
	requireContains(t, out, fmt.Sprintf("Removed run %d", run.ID))

	gone, err := env.store.GetByID(ctx, run.ID)
	if err != nil {
		t.Fatalf("lookup run: %v", err)
	}
	if gone != nil {
		t.Fatalf("expected run to be removed, got %+v", gone)
	}
}

func TestRemoveMissingRun(t *testing.T) {
	env := setupCLITestEnv(t)

	_, _, err := runCLI(t, []string{"remove", "9999"}, env.configPath)
	if err == nil || !strings.Contains(err.Error(), "not found") {
		t.Fatalf("expected not found error, got %v", err)
	}
}

func TestClearFailedRuns(t *testing.T) {
	env := setupCLITestEnv(t)
	ctx := context.Background()

	testsupport.NewRun(t, env.store, env.cfg, "lizards", "/data/lizards")
	failed := testsupport.NewRun(t, env.store, env.cfg, "birds", "/data/birds")
	failed.SetFailed("upload refused")
	if err := env.store.Update(ctx, failed); err != nil {
		t.Fatalf("fail run: %v", err)
	}

	out, _, err := runCLI(t, []string{"clear", "--failed"}, env.configPath)
	if err != nil {
		t.Fatalf("clear --failed: %v", err)
	}
	requireContains(t, out, "Cleared 1 run(s)")

	runs, err := env.store.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(runs) != 1 || runs[0].Name != "lizards" {
		t.Fatalf("expected only pending run to survive, got %+v", runs)
	}
}
