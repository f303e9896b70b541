// Package runner binds the workflow manager and queue store into a single
// lifecycle with flock-based locking to prevent multiple concurrent runner
// processes sharing one queue database.
package runner
