// Package main provides the entry point for the GrowTools platform.
// It initializes and runs a web server using the Fiber framework that sells
// pooled subscriptions to premium tools, bundles them into discounted offers,
// and manages the encrypted session cookies the companion browser extension
// injects. The application uses gorm for data persistence and a key/value
// settings table (with environment fallback) for runtime configuration.
package main
