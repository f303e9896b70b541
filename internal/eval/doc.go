// Package eval scores endpoint predictions against ground-truth labels and
// builds the confusion matrix reported at the end of a pipeline run.
package eval
