// Package app wires application dependencies for the CLI.
//
// It loads environment configuration, builds the concrete store and identity
// service, and dials relay sessions on demand for subcommands.
package app
