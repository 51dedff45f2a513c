// Package server holds the HTTP server configuration.
//
// The serve command hosts a small read-only API over the run journal. This package
// defines the settings that command needs.
//
// # Configuration
//
// The Config struct defines the HTTP port and the API key. An empty key leaves the
// API open, which is the default for local use.
//
// # Usage
//
// This package is primarily used by the core/config package to embed server settings
// and by cmd/serve.go to start the listener.
package server
