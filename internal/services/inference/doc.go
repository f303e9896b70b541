// Package inference queries hosted prediction endpoints with raw image
// payloads and validates the returned class probability distributions.
package inference
