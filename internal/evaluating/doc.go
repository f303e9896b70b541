// Package evaluating implements the workflow stage that classifies the
// held-out test split against the deployed endpoint and builds the
// confusion-matrix summary.
package evaluating
