// Package notifications publishes pipeline events to an ntfy topic. An empty
// topic yields a noop service so callers never branch on configuration.
package notifications
