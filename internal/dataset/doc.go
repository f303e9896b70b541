// Package dataset scans class-folder image trees and partitions them into the
// train/validation/test list files the managed training service consumes.
package dataset
