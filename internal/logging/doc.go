// Package logging wraps log/slog with the handlers and helpers trainyard uses
// everywhere: a console handler for interactive runs, a JSON handler for
// machine consumption, attribute constructors, and context-derived fields so
// run and stage identifiers follow every log line through the pipeline.
package logging
