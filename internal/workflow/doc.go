// Package workflow advances pipeline runs through the configured processing
// stages.
//
// The Manager polls the queue, reclaims stale work via heartbeats, and feeds
// runs into registered stage handlers (partitioner, uploader, trainer,
// deployer, evaluator) while capturing progress and failure metadata. It also
// aggregates queue stats, calls stage health checks, and emits notifications
// when training finishes or a run fails.
//
// Add new lifecycle stages by extending StageSet, updating the queue status
// enums, and teaching the manager how to transition runs; this package is the
// authoritative home for that coordination logic.
package workflow
