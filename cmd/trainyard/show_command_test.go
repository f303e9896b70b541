package main

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"

	"trainyard/internal/eval"
	"trainyard/internal/queue"
	"trainyard/internal/testsupport"
)

func TestShowRendersRunDetails(t *testing.T) {
	env := setupCLITestEnv(t)
	ctx := context.Background()

	run := testsupport.NewRun(t, env.store, env.cfg, "lizards", "/data/lizards")
	if err := run.SetClasses([]string{"brown_anole", "green_anole"}); err != nil {
		t.Fatalf("set classes: %v", err)
	}
	run.Status = queue.StatusTrained
	run.TrainingJobName = "lizards-ab12cd34"
	run.ModelArtifactURI = "s3://trainyard-test/trainyard/lizards/output/model.tar.gz"
	if err := env.store.Update(ctx, run); err != nil {
		t.Fatalf("update run: %v", err)
	}

	out, _, err := runCLI(t, []string{"show", fmt.Sprintf("%d", run.ID)}, env.configPath)
	if err != nil {
		t.Fatalf("show: %v", err)
	}
	requireContains(t, out, "lizards")
	requireContains(t, out, "trained")
	requireContains(t, out, "lizards-ab12cd34")
	requireContains(t, out, "Brown Anole, Green Anole")
}

func TestShowRendersEvaluationSummary(t *testing.T) {
	env := setupCLITestEnv(t)
	ctx := context.Background()

	run := testsupport.NewRun(t, env.store, env.cfg, "lizards", "/data/lizards")
	if err := run.SetClasses([]string{"brown_anole", "green_anole"}); err != nil {
		t.Fatalf("set classes: %v", err)
	}
	summary, err := eval.Evaluate([]eval.Prediction{
		{Actual: 0, Predicted: 0},
		{Actual: 1, Predicted: 1},
		{Actual: 1, Predicted: 0},
	}, []string{"brown_anole", "green_anole"})
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	data, err := json.Marshal(summary)
	if err != nil {
		t.Fatalf("marshal summary: %v", err)
	}
	run.Status = queue.StatusCompleted
	run.EvalSummaryJSON = string(data)
	if err := env.store.Update(ctx, run); err != nil {
		t.Fatalf("update run: %v", err)
	}

	out, _, err := runCLI(t, []string{"show", fmt.Sprintf("%d", run.ID)}, env.configPath)
	if err != nil {
		t.Fatalf("show: %v", err)
	}
	requireContains(t, out, "accuracy=66.67%")
	requireContains(t, out, "brown_anole")
}

func TestShowJSON(t *testing.T) {
	env := setupCLITestEnv(t)

	run := testsupport.NewRun(t, env.store, env.cfg, "lizards", "/data/lizards")

	out, _, err := runCLI(t, []string{"show", fmt.Sprintf("%d", run.ID), "--json"}, env.configPath)
	if err != nil {
		t.Fatalf("show --json: %v", err)
	}
	var detail map[string]any
	if err := json.Unmarshal([]byte(out), &detail); err != nil {
		t.Fatalf("invalid JSON: %v\noutput: %s", err, out)
	}
	if detail["Name"] != "lizards" {
		t.Fatalf("expected name lizards, got %v", detail["Name"])
	}
}

func TestShowMissingRun(t *testing.T) {
	env := setupCLITestEnv(t)

	_, _, err := runCLI(t, []string{"show", "9999"}, env.configPath)
	if err == nil {
		t.Fatalf("expected not found error")
	}
}
