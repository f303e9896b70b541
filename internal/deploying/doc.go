// Package deploying implements the workflow stage that provisions a hosted
// inference endpoint from a trained model artifact.
package deploying
