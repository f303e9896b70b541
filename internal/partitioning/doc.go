// Package partitioning implements the workflow stage that scans a
// class-folder dataset and splits it into train, validation, and test list
// files.
package partitioning
