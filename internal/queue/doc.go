// Package queue persists pipeline runs in SQLite and provides the status
// model the workflow runner drives: pending runs move through partitioning,
// uploading, training, deploying, and evaluating before settling in
// completed, failed, or review.
package queue
