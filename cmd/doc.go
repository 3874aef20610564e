// Package cmd implements the command-line interface of dConcert. It provides
// a command to run the server and commands to work with a running server as
// a client.
//
// The package is organized into several subpackages:
//
//   - concert: Commands for repository operations (create, get, update, delete, list, clear, perf)
//   - serve: Command for starting and configuring the concert server
//   - util: Shared utilities for command-line processing and configuration (internal use)
//
// See dconcert -help for a list of all commands.
package cmd
