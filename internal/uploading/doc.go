// Package uploading implements the workflow stage that syncs a partitioned
// dataset and its list files into S3-compatible object storage.
package uploading
