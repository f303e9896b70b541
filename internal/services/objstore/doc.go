// Package objstore wraps an S3-compatible object store. The uploading stage
// pushes class-folder trees and list files through it, and the packaging path
// pulls trained model artifacts back down.
package objstore
