// Package trainsvc talks to the managed training control plane: submitting
// transfer-learning jobs, polling them to completion, and provisioning hosted
// inference endpoints from the resulting model artifacts.
package trainsvc
