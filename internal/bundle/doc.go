// Package bundle repackages trained model artifacts for edge redeployment.
// The work is pure file plumbing: rename the parameters blob and the symbol
// descriptor inside a tar.gz to the fixed names an edge runtime loads.
package bundle
