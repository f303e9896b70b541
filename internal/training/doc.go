// Package training implements the workflow stage that submits a managed
// transfer-learning job and waits for the model artifact.
package training
